package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"storefront/internal/domain"
)

func TestZeroValueIsLoggedOut(t *testing.T) {
	h := NewHolder()

	assert.False(t, h.Active())
	assert.Empty(t, h.Token())
	_, ok := h.User()
	assert.False(t, ok)
}

func TestSetThenClear(t *testing.T) {
	h := NewHolder()
	h.Set(domain.User{ID: "u1", Email: "a@b.co"}, "tok")

	assert.True(t, h.Active())
	assert.Equal(t, "tok", h.Token())
	u, ok := h.User()
	assert.True(t, ok)
	assert.Equal(t, "u1", u.ID)

	h.Clear()
	assert.False(t, h.Active())
	_, ok = h.User()
	assert.False(t, ok)
}

func TestSetWithEmptyTokenClears(t *testing.T) {
	h := NewHolder()
	h.Set(domain.User{ID: "u1"}, "tok")

	h.Set(domain.User{ID: "u2"}, "")

	assert.False(t, h.Active())
	_, ok := h.User()
	assert.False(t, ok)
}

func TestUserReturnsCopy(t *testing.T) {
	h := NewHolder()
	h.Set(domain.User{ID: "u1", Name: "Alice"}, "tok")

	u, _ := h.User()
	u.Name = "Mallory"

	again, _ := h.User()
	assert.Equal(t, "Alice", again.Name)
}
