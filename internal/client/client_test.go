package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"storefront/internal/domain"
	"storefront/internal/session"
)

func TestLoginStartsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/users/login", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{
			"id": "u1", "name": "Alice", "email": "alice@example.com",
			"role": "user", "token": "tok-1",
		})
	}))
	defer srv.Close()

	sess := session.NewHolder()
	c := New(srv.URL, sess)

	u, err := c.Login(context.Background(), "alice@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, "tok-1", sess.Token())
	assert.True(t, sess.Active())
}

func TestBearerTokenIsAttached(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]domain.Order{})
	}))
	defer srv.Close()

	sess := session.NewHolder()
	sess.Set(domain.User{ID: "u1"}, "tok-1")
	c := New(srv.URL, sess)

	_, err := c.Orders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-1", gotAuth)
}

func TestUnauthorizedResponseClearsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "invalid or expired token"})
	}))
	defer srv.Close()

	sess := session.NewHolder()
	sess.Set(domain.User{ID: "u1"}, "stale")
	c := New(srv.URL, sess)

	_, err := c.Orders(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "invalid or expired token", apiErr.Message)
	assert.False(t, sess.Active())
}

func TestErrorMessagePassthrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "email is already registered"})
	}))
	defer srv.Close()

	c := New(srv.URL, session.NewHolder())
	_, err := c.Register(context.Background(), "Alice", "alice@example.com", "secret1")

	require.Error(t, err)
	assert.Equal(t, "email is already registered", err.Error())
}

func TestConnectionErrorIsWrapped(t *testing.T) {
	c := New("http://127.0.0.1:1", session.NewHolder())

	_, err := c.Products(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConnection))
}

func TestCreateOrderReturnsID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req OrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Items, 1)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"orderId": "ord-9"})
	}))
	defer srv.Close()

	sess := session.NewHolder()
	sess.Set(domain.User{ID: "u1"}, "tok")
	c := New(srv.URL, sess)

	id, err := c.CreateOrder(context.Background(), OrderRequest{
		Items: []domain.OrderItem{{ProductID: "p1", Quantity: 1, UnitPrice: 1000}},
		ShippingAddress: domain.ShippingAddress{
			FullName: "Alice", Address: "1 Main St", City: "Town",
			PostalCode: "12345", Phone: "555",
		},
		TotalPrice: 30000,
	})
	require.NoError(t, err)
	assert.Equal(t, "ord-9", id)
}
