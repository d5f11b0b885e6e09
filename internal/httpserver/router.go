package httpserver

import (
	"context"
	"errors"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"storefront/internal/auth"
	"storefront/internal/domain"
	ordersvc "storefront/internal/service/order"
	usersvc "storefront/internal/service/user"
)

type userService interface {
	Register(ctx context.Context, in usersvc.RegisterInput) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

type productService interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	Update(ctx context.Context, p domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

type orderService interface {
	Create(ctx context.Context, userID string, in ordersvc.CreateInput) (*domain.Order, error)
	Get(ctx context.Context, userID string, isAdmin bool, orderID string) (*domain.Order, error)
	List(ctx context.Context, userID string) ([]domain.Order, error)
}

type tokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// Deps carries the services the router depends on.
type Deps struct {
	UserSvc    userService
	ProductSvc productService
	OrderSvc   orderService
	Tokens     tokenValidator
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps, corsOrigins []string) (*gin.Engine, error) {
	if deps.UserSvc == nil || deps.ProductSvc == nil || deps.OrderSvc == nil || deps.Tokens == nil {
		return nil, errors.New("httpserver: missing dependencies")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.New(corsConfig(corsOrigins)))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	api := router.Group("/api")

	users := api.Group("/users")
	users.POST("/register", registerHandler(deps.UserSvc))
	users.POST("/login", loginHandler(deps.UserSvc))
	users.GET("/me", requireAuth(deps), meHandler())

	products := api.Group("/products")
	products.GET("", listProductsHandler(deps.ProductSvc))
	products.GET("/:id", getProductHandler(deps.ProductSvc))
	products.POST("", requireAuth(deps), requireAdmin(), createProductHandler(deps.ProductSvc))
	products.PUT("/:id", requireAuth(deps), requireAdmin(), updateProductHandler(deps.ProductSvc))
	products.DELETE("/:id", requireAuth(deps), requireAdmin(), deleteProductHandler(deps.ProductSvc))

	orders := api.Group("/orders", requireAuth(deps))
	orders.POST("", createOrderHandler(deps.OrderSvc))
	orders.GET("", listOrdersHandler(deps.OrderSvc))
	orders.GET("/:id", getOrderHandler(deps.OrderSvc))

	return router, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	if len(origins) == 1 && origins[0] == "*" {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
