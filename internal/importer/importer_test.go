package importer

import (
	"context"
	"strings"
	"testing"

	"storefront/internal/domain"
)

type stubProductRepo struct {
	items []domain.Product
}

func (s *stubProductRepo) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	s.items = append(s.items, p)
	return &p, nil
}

func TestCSVImporter_Run(t *testing.T) {
	csvData := `id,name,brand,description,price,stock,image.url,color.name,color.code
00000000-0000-0000-0000-000000000001,Aster One,Aster,Compact flagship,8990000,25,https://example.com/a1.jpg,Black,#1c1c1e
,,,,,,https://example.com/a1-alt.jpg,Silver,#d8d8dc
00000000-0000-0000-0000-000000000002,Nimbus S,Nimbus,Big battery,6490000,40,https://example.com/n1.jpg,,`

	repo := &stubProductRepo{}
	imp := NewCSVImporter(strings.NewReader(csvData), repo)

	count, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 products imported, got %d", count)
	}

	if len(repo.items) != 2 {
		t.Fatalf("expected 2 products saved, got %d", len(repo.items))
	}

	first := repo.items[0]
	if first.Name != "Aster One" || first.Brand != "Aster" || first.Price != 8990000 || first.Stock != 25 {
		t.Fatalf("unexpected product data: %+v", first)
	}
	if first.ID != "00000000-0000-0000-0000-000000000001" {
		t.Fatalf("expected id to be preserved, got %s", first.ID)
	}
	if len(first.Images) != 2 {
		t.Fatalf("expected 2 images on first product, got %d", len(first.Images))
	}
	if len(first.Colors) != 2 || first.Colors[1].Name != "Silver" {
		t.Fatalf("expected 2 colors on first product, got %+v", first.Colors)
	}

	second := repo.items[1]
	if second.Name != "Nimbus S" || len(second.Images) != 1 || len(second.Colors) != 0 {
		t.Fatalf("unexpected second product: %+v", second)
	}
}

func TestCSVImporter_RejectsInvalidRow(t *testing.T) {
	csvData := `id,name,brand,description,price,stock,image.url,color.name,color.code
,Broken Phone,,no brand or price,0,5,,,`

	imp := NewCSVImporter(strings.NewReader(csvData), &stubProductRepo{})

	if _, err := imp.Run(context.Background()); err == nil {
		t.Fatal("expected error for row missing brand and price")
	}
}
