package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jmallet/catql/internal/domain"
	"github.com/jmallet/catql/internal/query"
	"github.com/jmallet/catql/internal/repository"
)

const sheetName = "Products"

var columnHeaders = []any{
	"ID", "Category", "Name", "SKU", "Description", "Price",
	"Stock Quantity", "Active", "Status", "Visibility", "Created At", "Updated At",
}

// Service writes filtered product sets to xlsx workbooks under exportDir.
type Service struct {
	products  repository.ProductRepository
	exportDir string
	pageSize  int
	now       func() time.Time
}

type Option func(*Service)

func WithExportDirectory(dir string) Option {
	return func(s *Service) {
		if strings.TrimSpace(dir) != "" {
			s.exportDir = filepath.Clean(dir)
		}
	}
}

func WithPageSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.pageSize = size
		}
	}
}

func NewService(products repository.ProductRepository, opts ...Option) *Service {
	s := &Service{
		products:  products,
		exportDir: "exports",
		pageSize:  500,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Result describes a completed export.
type Result struct {
	FilePath string
	RowCount int
}

// Export streams every product matching the specification into a new
// workbook. The specification must carry an ordering so pages are stable.
func (s *Service) Export(ctx context.Context, spec *query.Specification[domain.Product]) (Result, error) {
	if err := s.ensureExportDirectory(); err != nil {
		return Result{}, err
	}

	seq, err := s.products.Stream(ctx, spec, s.pageSize)
	if err != nil {
		return Result{}, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return Result{}, fmt.Errorf("failed to name export sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return Result{}, fmt.Errorf("failed to open stream writer: %w", err)
	}

	if err := sw.SetRow("A1", columnHeaders); err != nil {
		return Result{}, fmt.Errorf("failed to write header row: %w", err)
	}

	rowCount := 0
	for product, err := range seq {
		if err != nil {
			return Result{}, fmt.Errorf("failed to stream products: %w", err)
		}
		cell, err := excelize.CoordinatesToCellName(1, rowCount+2)
		if err != nil {
			return Result{}, fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := sw.SetRow(cell, productRow(product)); err != nil {
			return Result{}, fmt.Errorf("failed to write product row: %w", err)
		}
		rowCount++
	}

	if err := sw.Flush(); err != nil {
		return Result{}, fmt.Errorf("failed to flush workbook: %w", err)
	}

	path := filepath.Join(s.exportDir, s.fileName())
	if err := f.SaveAs(path); err != nil {
		return Result{}, fmt.Errorf("failed to save workbook: %w", err)
	}

	return Result{FilePath: path, RowCount: rowCount}, nil
}

func (s *Service) ensureExportDirectory() error {
	if err := os.MkdirAll(s.exportDir, 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	return nil
}

func (s *Service) fileName() string {
	return fmt.Sprintf("products-%s.xlsx", s.now().UTC().Format("20060102-150405"))
}

func productRow(p domain.Product) []any {
	categoryName := ""
	if p.Category != nil {
		categoryName = p.Category.Name
	}
	description := ""
	if p.Description != nil {
		description = *p.Description
	}
	return []any{
		p.ID.String(), categoryName, p.Name, p.SKU, description, p.Price,
		p.StockQuantity, p.IsActive, string(p.Status), int(p.Visibility),
		p.CreatedAt.UTC().Format(time.RFC3339), p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
