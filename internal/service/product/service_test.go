package product

import (
	"context"
	"testing"

	"storefront/internal/domain"
)

type stubRepo struct {
	products map[string]*domain.Product
	created  []domain.Product
}

func newStubRepo() *stubRepo {
	return &stubRepo{products: map[string]*domain.Product{}}
}

func (s *stubRepo) List(_ context.Context) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range s.products {
		out = append(out, *p)
	}
	return out, nil
}

func (s *stubRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (s *stubRepo) Create(_ context.Context, p domain.Product) (*domain.Product, error) {
	p.ID = "generated"
	s.products[p.ID] = &p
	s.created = append(s.created, p)
	return &p, nil
}

func (s *stubRepo) Update(_ context.Context, p domain.Product) (*domain.Product, error) {
	if _, ok := s.products[p.ID]; !ok {
		return nil, domain.ErrNotFound
	}
	s.products[p.ID] = &p
	return &p, nil
}

func (s *stubRepo) Delete(_ context.Context, id string) error {
	if _, ok := s.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *stubRepo) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	s.products[p.ID] = &p
	return &p, nil
}

func TestCreateValidation(t *testing.T) {
	svc := New(newStubRepo())
	ctx := context.Background()

	cases := []struct {
		name    string
		product domain.Product
	}{
		{"missing name", domain.Product{Brand: "Aster", Price: 100}},
		{"missing brand", domain.Product{Name: "Aster One", Price: 100}},
		{"negative price", domain.Product{Name: "Aster One", Brand: "Aster", Price: -1}},
		{"negative stock", domain.Product{Name: "Aster One", Brand: "Aster", Price: 100, Stock: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, tc.product); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestCreateHappyPath(t *testing.T) {
	repo := newStubRepo()
	svc := New(repo)

	created, err := svc.Create(context.Background(), domain.Product{
		Name: "Aster One", Brand: "Aster", Price: 8990000, Stock: 25,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated id")
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected 1 repo create, got %d", len(repo.created))
	}
}

func TestUpdateRequiresID(t *testing.T) {
	svc := New(newStubRepo())

	_, err := svc.Update(context.Background(), domain.Product{Name: "Aster One", Brand: "Aster", Price: 100})
	if err == nil {
		t.Fatal("expected error for missing id")
	}
}

func TestUpdateMissingProduct(t *testing.T) {
	svc := New(newStubRepo())

	_, err := svc.Update(context.Background(), domain.Product{ID: "nope", Name: "Aster One", Brand: "Aster", Price: 100})
	if err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
