package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"path"
	"strconv"

	"github.com/andresuchdata/storeops/backend-go/internal/domain"
	"github.com/andresuchdata/storeops/backend-go/internal/storage"
)

var exportHeader = []string{
	"Product ID", "Product Name", "Category", "Current Stock",
	"Expected Sales", "Recommended Order", "Minimum Stock", "Reorder Quantity", "Estimated Cost",
}

// ExportService renders recommendation reports as CSV and optionally archives them.
type ExportService struct {
	store  storage.ObjectStorage
	prefix string
}

// NewExportService builds an exporter. store may be nil, in which case Upload fails.
func NewExportService(store storage.ObjectStorage, prefix string) *ExportService {
	return &ExportService{store: store, prefix: prefix}
}

// WriteCSV writes the report's recommendations as CSV.
func (s *ExportService) WriteCSV(w io.Writer, report *domain.RecommendationReport) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(exportHeader); err != nil {
		return err
	}

	for _, rec := range report.Recommendations {
		category := ""
		if rec.ProductDetails != nil {
			category = rec.ProductDetails.Category
		}
		cost := ""
		if rec.EstimatedCost.Valid {
			cost = rec.EstimatedCost.Decimal.StringFixed(2)
		}

		row := []string{
			rec.ProductID,
			rec.ProductName,
			category,
			strconv.Itoa(rec.CurrentStock),
			strconv.Itoa(rec.ExpectedSales),
			strconv.Itoa(rec.RecommendedOrder),
			strconv.Itoa(rec.MinimumStock),
			strconv.Itoa(rec.ReorderQuantity),
			cost,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// FileName returns the export name for a report, e.g. recommendations_3_0105-0131.csv
func (s *ExportService) FileName(report *domain.RecommendationReport) string {
	return fmt.Sprintf("recommendations_%s_%s-%s.csv",
		report.StoreID,
		report.DateRange.From.Format("0102"),
		report.DateRange.To.Format("0102"),
	)
}

// Upload stores the CSV under the export prefix and returns its object key.
func (s *ExportService) Upload(ctx context.Context, report *domain.RecommendationReport) (string, error) {
	if s.store == nil {
		return "", fmt.Errorf("object storage is not configured")
	}

	var buf bytes.Buffer
	if err := s.WriteCSV(&buf, report); err != nil {
		return "", fmt.Errorf("failed to render export: %w", err)
	}

	key := path.Join(s.prefix, report.GeneratedAt.Format("20060102"), s.FileName(report))
	if err := s.store.UploadObject(ctx, key, buf.Bytes()); err != nil {
		return "", fmt.Errorf("failed to upload export: %w", err)
	}
	return key, nil
}
