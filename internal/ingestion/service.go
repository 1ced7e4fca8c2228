package ingestion

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jmallet/catql/internal/domain"
	"github.com/jmallet/catql/internal/repository"
)

// Service turns uploaded spreadsheets into product rows.
type Service struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
}

func NewService(products repository.ProductRepository, categories repository.CategoryRepository) *Service {
	return &Service{products: products, categories: categories}
}

// RowError reports a rejected row. RowNumber is 1-based and counts the
// header row, matching what the user sees in their spreadsheet tool.
type RowError struct {
	RowNumber int    `json:"rowNumber"`
	Message   string `json:"message"`
}

// Summary reports the outcome of one upload.
type Summary struct {
	TotalRows int        `json:"totalRows"`
	Created   int        `json:"created"`
	Errors    []RowError `json:"errors"`
}

// Ingest parses the payload, validates each row, and batch-inserts the
// valid ones. Malformed files fail outright; malformed rows are reported
// in the summary and skipped.
func (s *Service) Ingest(ctx context.Context, fileName string, payload []byte) (Summary, error) {
	records, err := parseTable(fileName, payload)
	if err != nil {
		return Summary{}, err
	}
	if len(records) == 0 {
		return Summary{}, fmt.Errorf("file %q contains no rows", fileName)
	}

	columns, err := mapHeaders(records[0])
	if err != nil {
		return Summary{}, err
	}

	rows := records[1:]
	summary := Summary{TotalRows: len(rows), Errors: []RowError{}}

	slugCache := map[string]domain.Category{}
	products := make([]domain.Product, 0, len(rows))
	for i, row := range rows {
		rowNumber := i + 2
		product, err := s.buildProduct(ctx, columns, row, slugCache)
		if err != nil {
			summary.Errors = append(summary.Errors, RowError{RowNumber: rowNumber, Message: err.Error()})
			continue
		}
		products = append(products, product)
	}

	created, err := s.products.CreateBatch(ctx, products)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to insert products: %w", err)
	}
	summary.Created = created
	log.Printf("[INGEST] %s: %d rows, %d created, %d rejected",
		fileName, summary.TotalRows, summary.Created, len(summary.Errors))
	return summary, nil
}

func (s *Service) buildProduct(ctx context.Context, columns map[string]int, row []string, slugCache map[string]domain.Category) (domain.Product, error) {
	get := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	name := get("name")
	if name == "" {
		return domain.Product{}, fmt.Errorf("name is required")
	}
	sku := get("sku")
	if sku == "" {
		return domain.Product{}, fmt.Errorf("sku is required")
	}

	slug := get("category_slug")
	if slug == "" {
		return domain.Product{}, fmt.Errorf("category_slug is required")
	}
	category, ok := slugCache[slug]
	if !ok {
		found, err := s.categories.GetBySlug(ctx, slug)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return domain.Product{}, fmt.Errorf("unknown category slug %q", slug)
			}
			return domain.Product{}, fmt.Errorf("failed to look up category %q: %w", slug, err)
		}
		category = found
		slugCache[slug] = category
	}

	price, err := strconv.ParseFloat(get("price"), 64)
	if err != nil {
		return domain.Product{}, fmt.Errorf("invalid price %q", get("price"))
	}
	if price < 0 {
		return domain.Product{}, fmt.Errorf("price must not be negative")
	}

	stock := 0
	if raw := get("stock_quantity"); raw != "" {
		stock, err = strconv.Atoi(raw)
		if err != nil {
			return domain.Product{}, fmt.Errorf("invalid stock_quantity %q", raw)
		}
	}

	isActive := true
	if raw := get("is_active"); raw != "" {
		isActive, err = parseBool(raw)
		if err != nil {
			return domain.Product{}, err
		}
	}

	status := domain.StatusDraft
	if raw := get("status"); raw != "" {
		status, err = domain.ParseStatus(raw)
		if err != nil {
			return domain.Product{}, err
		}
	}

	visibility := domain.VisibilityHidden
	if raw := get("visibility"); raw != "" {
		visibility, err = domain.ParseVisibility(raw)
		if err != nil {
			return domain.Product{}, err
		}
	}

	product := domain.NewProduct(category.ID, name, sku, price)
	product.StockQuantity = stock
	product.IsActive = isActive
	product.Status = status
	product.Visibility = visibility
	if description := get("description"); description != "" {
		product.Description = &description
	}
	return product, nil
}

func parseTable(fileName string, payload []byte) ([][]string, error) {
	lower := strings.ToLower(fileName)
	switch {
	case strings.HasSuffix(lower, ".xlsx"):
		return parseExcel(payload)
	case strings.HasSuffix(lower, ".csv"):
		return parseCSV(payload)
	default:
		return nil, fmt.Errorf("unsupported file type %q, expected .xlsx or .csv", fileName)
	}
}

func parseCSV(payload []byte) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(payload))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	return records, nil
}

func parseExcel(payload []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func mapHeaders(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, raw := range header {
		name := strings.ToLower(strings.TrimSpace(raw))
		name = strings.ReplaceAll(name, " ", "_")
		if name != "" {
			columns[name] = i
		}
	}
	for _, required := range []string{"category_slug", "name", "sku", "price"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}
	return columns, nil
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "yes", "y", "1":
		return true, nil
	case "false", "no", "n", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean %q", raw)
	}
}
