package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"storefront/internal/auth"
	"storefront/internal/domain"
	ordersvc "storefront/internal/service/order"
	usersvc "storefront/internal/service/user"
)

type stubUserService struct {
	registerUser *domain.User
	registerErr  error
	loginUser    *domain.User
	loginErr     error
	byID         map[string]*domain.User
}

func (s *stubUserService) Register(_ context.Context, _ usersvc.RegisterInput) (*domain.User, string, error) {
	if s.registerErr != nil {
		return nil, "", s.registerErr
	}
	return s.registerUser, "issued-token", nil
}

func (s *stubUserService) Login(_ context.Context, _, _ string) (*domain.User, string, error) {
	if s.loginErr != nil {
		return nil, "", s.loginErr
	}
	return s.loginUser, "issued-token", nil
}

func (s *stubUserService) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

type stubProductService struct {
	products []domain.Product
	listErr  error
}

func (s *stubProductService) List(_ context.Context) ([]domain.Product, error) {
	return s.products, s.listErr
}

func (s *stubProductService) Get(_ context.Context, id string) (*domain.Product, error) {
	for i := range s.products {
		if s.products[i].ID == id {
			return &s.products[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubProductService) Create(_ context.Context, p domain.Product) (*domain.Product, error) {
	return &p, nil
}

func (s *stubProductService) Update(_ context.Context, p domain.Product) (*domain.Product, error) {
	return &p, nil
}

func (s *stubProductService) Delete(_ context.Context, _ string) error { return nil }

type stubOrderService struct {
	created   *domain.Order
	createErr error
	orders    map[string]*domain.Order
}

func (s *stubOrderService) Create(_ context.Context, userID string, _ ordersvc.CreateInput) (*domain.Order, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	o := *s.created
	o.UserID = userID
	return &o, nil
}

func (s *stubOrderService) Get(_ context.Context, userID string, isAdmin bool, orderID string) (*domain.Order, error) {
	o, ok := s.orders[orderID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if !isAdmin && o.UserID != userID {
		return nil, ordersvc.ErrForbidden
	}
	return o, nil
}

func (s *stubOrderService) List(_ context.Context, userID string) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

type stubTokens struct {
	claims map[string]*auth.Claims
}

func (s *stubTokens) Validate(token string) (*auth.Claims, error) {
	c, ok := s.claims[token]
	if !ok {
		return nil, auth.ErrInvalidToken
	}
	return c, nil
}

func testDeps() Deps {
	alice := &domain.User{ID: "u1", Name: "Alice", Email: "alice@example.com", Role: domain.RoleUser}
	admin := &domain.User{ID: "u9", Name: "Root", Email: "root@example.com", Role: domain.RoleAdmin}
	return Deps{
		UserSvc: &stubUserService{
			registerUser: alice,
			loginUser:    alice,
			byID:         map[string]*domain.User{"u1": alice, "u9": admin},
		},
		ProductSvc: &stubProductService{
			products: []domain.Product{{ID: "p1", Name: "Phone One", Brand: "Acme", Price: 1000}},
		},
		OrderSvc: &stubOrderService{
			created: &domain.Order{ID: "ord-1", Status: domain.OrderPending},
			orders: map[string]*domain.Order{
				"ord-1": {ID: "ord-1", UserID: "u1", Status: domain.OrderPending},
				"ord-2": {ID: "ord-2", UserID: "other", Status: domain.OrderPending},
			},
		},
		Tokens: &stubTokens{claims: map[string]*auth.Claims{
			"alice-token": {UserID: "u1", Email: "alice@example.com", Role: string(domain.RoleUser)},
			"admin-token": {UserID: "u9", Email: "root@example.com", Role: string(domain.RoleAdmin)},
		}},
	}
}

func newTestRouter(t *testing.T, deps Deps) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := log.New(io.Discard, "", 0)
	router, err := buildRouter(logger, nil, deps, []string{"*"})
	if err != nil {
		t.Fatalf("buildRouter: %v", err)
	}
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		buf = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t, testDeps())

	rec := doJSON(t, router, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRegisterReturnsCreatedUserWithToken(t *testing.T) {
	router := newTestRouter(t, testDeps())

	rec := doJSON(t, router, http.MethodPost, "/api/users/register", "", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "secret1",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}

	var resp authResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Email != "alice@example.com" || resp.Token != "issued-token" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestRegisterValidationErrorIsBadRequest(t *testing.T) {
	deps := testDeps()
	deps.UserSvc = &stubUserService{registerErr: errors.New("a valid email address is required")}
	router := newTestRouter(t, deps)

	rec := doJSON(t, router, http.MethodPost, "/api/users/register", "", map[string]string{"name": "x"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	deps := testDeps()
	deps.UserSvc = &stubUserService{loginErr: usersvc.ErrInvalidCredentials}
	router := newTestRouter(t, deps)

	rec := doJSON(t, router, http.MethodPost, "/api/users/login", "", map[string]string{
		"email": "alice@example.com", "password": "wrong",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestMeRequiresToken(t *testing.T) {
	router := newTestRouter(t, testDeps())

	rec := doJSON(t, router, http.MethodGet, "/api/users/me", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/users/me", "alice-token", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestProductsArePublic(t *testing.T) {
	router := newTestRouter(t, testDeps())

	rec := doJSON(t, router, http.MethodGet, "/api/products", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var list []domain.Product
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(list) != 1 || list[0].ID != "p1" {
		t.Fatalf("unexpected products: %+v", list)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/products/missing", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestProductWriteRequiresAdmin(t *testing.T) {
	router := newTestRouter(t, testDeps())
	body := map[string]any{"name": "Phone Two", "brand": "Acme", "price": 2000}

	rec := doJSON(t, router, http.MethodPost, "/api/products", "", body)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: expected 401, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/products", "alice-token", body)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("non-admin: expected 401, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/products", "admin-token", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("admin: expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestCreateOrderRequiresToken(t *testing.T) {
	router := newTestRouter(t, testDeps())

	rec := doJSON(t, router, http.MethodPost, "/api/orders", "", map[string]any{})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestCreateOrderReturnsOrderID(t *testing.T) {
	router := newTestRouter(t, testDeps())

	rec := doJSON(t, router, http.MethodPost, "/api/orders", "alice-token", map[string]any{
		"items": []map[string]any{{"productId": "p1", "quantity": 1, "unitPrice": 1000}},
		"shippingAddress": map[string]string{
			"fullName": "Alice", "address": "1 Main St", "city": "Town",
			"postalCode": "12345", "phone": "555",
		},
		"totalPrice": 30000,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}

	var resp struct {
		OrderID string `json:"orderId"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.OrderID != "ord-1" {
		t.Fatalf("expected order id ord-1, got %q", resp.OrderID)
	}
}

func TestGetOrderEnforcesOwnership(t *testing.T) {
	router := newTestRouter(t, testDeps())

	rec := doJSON(t, router, http.MethodGet, "/api/orders/ord-2", "alice-token", nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("foreign order: expected 403, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/orders/ord-1", "alice-token", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("own order: expected 200, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/orders/ord-2", "admin-token", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin: expected 200, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/orders/missing", "alice-token", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing order: expected 404, got %d", rec.Code)
	}
}

func TestBuildRouterRejectsMissingDeps(t *testing.T) {
	logger := log.New(io.Discard, "", 0)
	if _, err := buildRouter(logger, nil, Deps{}, nil); err == nil {
		t.Fatal("expected error for empty deps")
	}
}
