package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"storefront/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// CSVImporter reads catalog CSV exports and inserts/updates products.
// A row with a name starts a product; rows with only image or color
// columns filled continue the product above them.
type CSVImporter struct {
	reader      *csv.Reader
	productRepo ProductWriter
}

func NewCSVImporter(r io.Reader, repo ProductWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:      csvr,
		productRepo: repo,
	}
}

type csvRow struct {
	ID        string
	Name      string
	Brand     string
	Desc      string
	Price     int64
	Stock     int
	ImageURLs []string
	Colors    []domain.ProductColor
}

// Run parses CSV rows and upserts products grouped by name rows.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	var (
		current  *csvRow
		imported int
	)

	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		row := parseRow(record, index)
		if row == nil {
			continue
		}

		if row.Name != "" {
			if current != nil {
				if err := i.save(ctx, current); err != nil {
					return imported, err
				}
				imported++
			}
			current = row
			continue
		}

		// Continuation rows (extra images or colors) belong to the
		// current product.
		if current != nil {
			current.ImageURLs = append(current.ImageURLs, row.ImageURLs...)
			current.Colors = append(current.Colors, row.Colors...)
		}
	}

	if current != nil {
		if err := i.save(ctx, current); err != nil {
			return imported, err
		}
		imported++
	}

	return imported, nil
}

func (i *CSVImporter) save(ctx context.Context, row *csvRow) error {
	if row.Name == "" || row.Brand == "" || row.Price <= 0 {
		return fmt.Errorf("invalid product row (missing required fields) for %q", row.Name)
	}
	if row.ID != "" && len(row.ID) != 36 {
		return fmt.Errorf("invalid id for %q: %s", row.Name, row.ID)
	}

	p := domain.Product{
		ID:          row.ID,
		Name:        row.Name,
		Brand:       row.Brand,
		Description: row.Desc,
		Price:       row.Price,
		Stock:       row.Stock,
		Images:      row.ImageURLs,
		Colors:      row.Colors,
	}

	if _, err := i.productRepo.Upsert(ctx, p); err != nil {
		return fmt.Errorf("upsert product %q: %w", row.Name, err)
	}
	return nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[h] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) *csvRow {
	id := pick(record, index, "id")
	name := pick(record, index, "name")
	brand := pick(record, index, "brand")
	desc := pick(record, index, "description")
	priceStr := pick(record, index, "price")
	stockStr := pick(record, index, "stock")
	imageURL := pick(record, index, "image.url")
	colorName := pick(record, index, "color.name")
	colorCode := pick(record, index, "color.code")

	if name == "" && imageURL == "" && colorName == "" {
		return nil
	}

	var price int64
	if priceStr != "" {
		price, _ = strconv.ParseInt(priceStr, 10, 64)
	}
	var stock int
	if stockStr != "" {
		stock, _ = strconv.Atoi(stockStr)
	}

	row := &csvRow{
		ID:    id,
		Name:  name,
		Brand: brand,
		Desc:  desc,
		Price: price,
		Stock: stock,
	}
	if imageURL != "" {
		row.ImageURLs = []string{strings.TrimSpace(imageURL)}
	}
	if colorName != "" {
		row.Colors = []domain.ProductColor{{Name: colorName, Code: colorCode}}
	}
	return row
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
