package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"shopcore/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

type StockWriter interface {
	Provision(ctx context.Context, productID string, quantity int) error
}

// CSVImporter reads catalog exports and inserts/updates products with their
// initial stock. Expected columns: sku, name, description, price, currency,
// stock (header order is free; unknown columns are ignored).
type CSVImporter struct {
	reader   *csv.Reader
	products ProductWriter
	stock    StockWriter
}

func NewCSVImporter(r io.Reader, products ProductWriter, stock StockWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:   csvr,
		products: products,
		stock:    stock,
	}
}

// Run parses CSV rows and upserts one product per row, provisioning stock
// when a stock column is present.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index["sku"]; !ok {
		return 0, errors.New("missing sku column")
	}

	imported := 0
	// rowNum counts physical data rows, including skipped ones, so errors
	// point at the right line of the file.
	rowNum := 0
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}
		rowNum++

		row, err := parseRow(record, index)
		if err != nil {
			return imported, fmt.Errorf("row %d: %w", rowNum, err)
		}
		if row == nil {
			continue
		}

		stored, err := i.products.Upsert(ctx, row.product)
		if err != nil {
			return imported, fmt.Errorf("upsert %s: %w", row.product.SKU, err)
		}
		if row.hasStock {
			if err := i.stock.Provision(ctx, stored.ID, row.stock); err != nil {
				return imported, fmt.Errorf("provision stock for %s: %w", row.product.SKU, err)
			}
		}
		imported++
	}

	return imported, nil
}

type importRow struct {
	product  domain.Product
	stock    int
	hasStock bool
}

func headerIndex(headers []string) map[string]int {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return index
}

func parseRow(record []string, index map[string]int) (*importRow, error) {
	field := func(name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	sku := field("sku")
	if sku == "" {
		return nil, nil
	}

	price, err := decimal.NewFromString(field("price"))
	if err != nil {
		return nil, fmt.Errorf("parse price: %w", err)
	}
	if price.IsNegative() {
		return nil, fmt.Errorf("negative price for sku %s", sku)
	}

	currency := field("currency")
	if currency == "" {
		currency = "USD"
	}

	row := importRow{
		product: domain.Product{
			SKU:         sku,
			Name:        field("name"),
			Description: field("description"),
			Price:       price,
			Currency:    currency,
		},
	}

	if raw := field("stock"); raw != "" {
		quantity, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("parse stock: %w", err)
		}
		if quantity < 0 {
			return nil, fmt.Errorf("negative stock for sku %s", sku)
		}
		row.stock = quantity
		row.hasStock = true
	}

	return &row, nil
}
