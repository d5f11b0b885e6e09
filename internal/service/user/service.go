package user

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"storefront/internal/auth"
	"storefront/internal/domain"
	userrepo "storefront/internal/repository/user"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailTaken is returned when registering with an existing email.
	ErrEmailTaken = errors.New("email is already registered")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const passwordMin = 6

type tokenIssuer interface {
	Generate(userID, email, role string) (string, time.Time, error)
}

// Service handles registration, login and profile lookup.
type Service struct {
	repo   userrepo.Repository
	tokens tokenIssuer
}

func New(repo userrepo.Repository, tokens *auth.JWTService) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// RegisterInput captures fields expected by the register endpoint.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a new user and returns it together with a signed token.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, string, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(strings.ToLower(in.Email))
	password := in.Password

	if name == "" || email == "" || password == "" {
		return nil, "", errors.New("name, email and password are required")
	}
	if !emailPattern.MatchString(email) {
		return nil, "", errors.New("a valid email address is required")
	}
	if len(password) < passwordMin {
		return nil, "", fmt.Errorf("password must be at least %d characters", passwordMin)
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	created, err := s.repo.Create(ctx, domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashed,
		Role:         domain.RoleUser,
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	token, _, err := s.tokens.Generate(created.ID, created.Email, string(created.Role))
	if err != nil {
		return nil, "", err
	}
	return created, token, nil
}

// Login validates credentials and returns the user plus a signed token.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	u, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !auth.CheckPassword(password, u.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, _, err := s.tokens.Generate(u.ID, u.Email, string(u.Role))
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// GetByID fetches a user profile, typically for the authenticated caller.
func (s *Service) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}
