package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"text/tabwriter"

	"storefront/internal/auth"
	"storefront/internal/cart"
	"storefront/internal/checkout"
	"storefront/internal/client"
	"storefront/internal/config"
	"storefront/internal/domain"
	"storefront/internal/session"
)

const usage = `Usage: shopctl <command> [flags]

Account:
  register   -name -email -password   Create an account and sign in
  login      -email -password        Sign in
  logout                              Sign out and forget the session
  me                                  Show the signed-in profile

Catalog:
  products                            List the catalog
  product    <id>                     Show one product

Cart:
  add        <product-id> [-variant -qty]   Add a product to the cart
  cart                                      Show the cart with totals
  set-qty    <product-id> [-variant] -qty   Change a line quantity
  remove     <product-id> [-variant]        Remove a line

Orders:
  checkout   -name -address -city -postal -phone   Place the order
  orders                                           List your orders
  order      <id>                                  Show one order
`

type app struct {
	cfg     config.Config
	api     *client.Client
	cart    *cart.Store
	session *session.Holder
	logger  *log.Logger

	sessionPath string
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.FromEnv()
	logger := log.New(os.Stderr, "", 0)

	cartPath := cfg.CartFile
	if cartPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			logger.Fatalf("resolve home dir: %v", err)
		}
		cartPath = filepath.Join(home, ".shopcart.json")
	}
	sessionPath := filepath.Join(filepath.Dir(cartPath), ".shopsession.json")

	sess := session.NewHolder()
	loadSession(sessionPath, sess, logger)

	a := &app{
		cfg:         cfg,
		api:         client.New(cfg.APIBaseURL, sess),
		cart:        cart.NewStore(cart.NewFileStorage(cartPath), logger),
		session:     sess,
		logger:      logger,
		sessionPath: sessionPath,
	}

	ctx := context.Background()
	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		// A 401 from the API already cleared the in-memory session;
		// persist that so the next run starts signed out.
		a.saveSession()
		logger.Fatalf("%v", err)
	}
	a.saveSession()
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "register":
		return a.register(ctx, args)
	case "login":
		return a.login(ctx, args)
	case "logout":
		a.session.Clear()
		fmt.Println("signed out")
		return nil
	case "me":
		return a.me(ctx)
	case "products":
		return a.products(ctx)
	case "product":
		return a.product(ctx, args)
	case "add":
		return a.add(ctx, args)
	case "cart":
		return a.showCart()
	case "set-qty":
		return a.setQuantity(args)
	case "remove":
		return a.remove(args)
	case "checkout":
		return a.checkout(ctx, args)
	case "orders":
		return a.orders(ctx)
	case "order":
		return a.order(ctx, args)
	case "help", "-h", "--help":
		fmt.Print(usage)
		return nil
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	fs.Parse(args)

	score, requirements := auth.PasswordStrength(*password)
	fmt.Printf("password strength: %s\n", auth.StrengthLabel(score))
	for _, req := range requirements {
		if !req.Met {
			fmt.Printf("  consider: %s\n", req.Text)
		}
	}

	u, err := a.api.Register(ctx, *name, *email, *password)
	if err != nil {
		return err
	}
	fmt.Printf("registered and signed in as %s <%s>\n", u.Name, u.Email)
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	fs.Parse(args)

	u, err := a.api.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Printf("signed in as %s <%s>\n", u.Name, u.Email)
	return nil
}

func (a *app) me(ctx context.Context) error {
	u, err := a.api.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s <%s> role=%s\n", u.Name, u.Email, u.Role)
	return nil
}

func (a *app) products(ctx context.Context) error {
	list, err := a.api.Products(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tBRAND\tPRICE\tSTOCK")
	for _, p := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n", p.ID, p.Name, p.Brand, p.Price, p.Stock)
	}
	return w.Flush()
}

func (a *app) product(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: shopctl product <id>")
	}
	p, err := a.api.Product(ctx, args[0])
	if err != nil {
		return err
	}
	return printJSON(p)
}

func (a *app) add(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: shopctl add <product-id> [-variant name] [-qty n]")
	}
	id := args[0]

	fs := flag.NewFlagSet("add", flag.ExitOnError)
	variant := fs.String("variant", "", "color variant")
	qty := fs.Int("qty", 1, "quantity")
	fs.Parse(args[1:])

	p, err := a.api.Product(ctx, id)
	if err != nil {
		return err
	}

	image := ""
	if len(p.Images) > 0 {
		image = p.Images[0]
	}
	a.cart.Add(cart.LineItem{
		ProductID:  p.ID,
		VariantKey: *variant,
		Name:       p.Name,
		Image:      image,
		UnitPrice:  p.Price,
		Quantity:   *qty,
	})
	fmt.Printf("added %d x %s to the cart\n", *qty, p.Name)
	return nil
}

func (a *app) showCart() error {
	items := a.cart.Items()
	if len(items) == 0 {
		fmt.Println("cart is empty")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PRODUCT\tVARIANT\tQTY\tUNIT\tLINE")
	for _, li := range items {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\n",
			li.Name, li.VariantKey, li.Quantity, li.UnitPrice, li.UnitPrice*int64(li.Quantity))
	}
	w.Flush()

	totals := cart.TotalsFor(items)
	fmt.Printf("\nsubtotal: %d\nshipping: %d\ntotal:    %d\n",
		totals.Subtotal, totals.ShippingCost, totals.Total)
	return nil
}

func (a *app) setQuantity(args []string) error {
	if len(args) < 1 {
		return errors.New("usage: shopctl set-qty <product-id> [-variant name] -qty n")
	}
	id := args[0]

	fs := flag.NewFlagSet("set-qty", flag.ExitOnError)
	variant := fs.String("variant", "", "color variant")
	qty := fs.Int("qty", 0, "new quantity, 0 removes the line")
	fs.Parse(args[1:])

	a.cart.SetQuantity(id, *variant, *qty)
	return a.showCart()
}

func (a *app) remove(args []string) error {
	if len(args) < 1 {
		return errors.New("usage: shopctl remove <product-id> [-variant name]")
	}
	id := args[0]

	fs := flag.NewFlagSet("remove", flag.ExitOnError)
	variant := fs.String("variant", "", "color variant")
	fs.Parse(args[1:])

	a.cart.Remove(id, *variant)
	return a.showCart()
}

func (a *app) checkout(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("checkout", flag.ExitOnError)
	name := fs.String("name", "", "recipient full name")
	address := fs.String("address", "", "street address")
	city := fs.String("city", "", "city")
	postal := fs.String("postal", "", "postal code")
	phone := fs.String("phone", "", "phone number")
	fs.Parse(args)

	flow := checkout.NewFlow(a.api, a.cart, a.session, a.logger)
	orderID, err := flow.Submit(ctx, domain.ShippingAddress{
		FullName:   *name,
		Address:    *address,
		City:       *city,
		PostalCode: *postal,
		Phone:      *phone,
	})
	if err != nil {
		return err
	}
	fmt.Printf("order placed: %s\n", orderID)
	return nil
}

func (a *app) orders(ctx context.Context) error {
	list, err := a.api.Orders(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("no orders yet")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tTOTAL\tPLACED")
	for _, o := range list {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", o.ID, o.Status, o.TotalPrice, o.CreatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func (a *app) order(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: shopctl order <id>")
	}
	o, err := a.api.Order(ctx, args[0])
	if err != nil {
		return err
	}
	return printJSON(o)
}

type sessionFile struct {
	User  domain.User `json:"user"`
	Token string      `json:"token"`
}

func loadSession(path string, sess *session.Holder, logger *log.Logger) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Printf("session: load failed, starting signed out: %v", err)
		}
		return
	}
	var sf sessionFile
	if err := json.Unmarshal(raw, &sf); err != nil {
		logger.Printf("session: decode failed, starting signed out: %v", err)
		return
	}
	sess.Set(sf.User, sf.Token)
}

func (a *app) saveSession() {
	u, ok := a.session.User()
	if !ok {
		if err := os.Remove(a.sessionPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			a.logger.Printf("session: remove failed: %v", err)
		}
		return
	}
	raw, err := json.MarshalIndent(sessionFile{User: u, Token: a.session.Token()}, "", "  ")
	if err != nil {
		a.logger.Printf("session: encode failed: %v", err)
		return
	}
	if err := os.WriteFile(a.sessionPath, raw, 0o600); err != nil {
		a.logger.Printf("session: save failed: %v", err)
	}
}

func printJSON(v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(raw))
	return nil
}
