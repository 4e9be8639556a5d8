package pipeline

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/andresuchdata/storeops/backend-go/internal/domain"
	"github.com/andresuchdata/storeops/backend-go/internal/repository"
	"github.com/rs/zerolog/log"
)

const ForecastPipelineName = "sales_forecasts"

// header aliases seen in forecast exports, keyed by canonical column
var forecastColumns = map[string][]string{
	"store_id":   {"store_id", "store", "id store"},
	"product_id": {"product_id", "product", "sku", "id product"},
	"date":       {"date", "forecast_date", "ds"},
	"units":      {"units", "forecasted_quantity", "forecast", "yhat"},
}

var errNoRows = errors.New("file has no header row")

// ForecastPipeline loads sales forecast files (CSV or XLSX) with the columns
// store_id, product_id, date and units.
type ForecastPipeline struct{}

func NewForecastPipeline() *ForecastPipeline {
	return &ForecastPipeline{}
}

func (p *ForecastPipeline) Name() string {
	return ForecastPipelineName
}

func (p *ForecastPipeline) Validate(inputFile string) error {
	switch strings.ToLower(filepath.Ext(inputFile)) {
	case ".csv", ".xlsx":
	default:
		return fmt.Errorf("unsupported file type %q", filepath.Ext(inputFile))
	}

	info, err := os.Stat(inputFile)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", inputFile)
	}
	return nil
}

func (p *ForecastPipeline) Transform(ctx context.Context, inputFile string) ([]domain.ForecastRecord, error) {
	if strings.EqualFold(filepath.Ext(inputFile), ".xlsx") {
		rows, err := readXLSXRows(inputFile)
		if err != nil {
			return nil, err
		}
		return forecastsFromRows(ctx, inputFile, sliceRows(rows))
	}

	f, err := os.Open(inputFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", inputFile, err)
	}
	defer f.Close()

	return ParseForecastCSV(ctx, inputFile, f)
}

// ParseForecastCSV reads forecast rows from CSV. name is used in log and error messages.
func ParseForecastCSV(ctx context.Context, name string, r io.Reader) ([]domain.ForecastRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	return forecastsFromRows(ctx, name, func() ([]string, error) {
		return reader.Read()
	})
}

// rowSource yields one row per call and io.EOF when exhausted.
type rowSource func() ([]string, error)

func sliceRows(rows [][]string) rowSource {
	i := 0
	return func() ([]string, error) {
		if i >= len(rows) {
			return nil, io.EOF
		}
		i++
		return rows[i-1], nil
	}
}

func forecastsFromRows(ctx context.Context, name string, next rowSource) ([]domain.ForecastRecord, error) {
	header, err := next()
	if err == io.EOF {
		return nil, fmt.Errorf("%s: %w", name, errNoRows)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", name, err)
	}

	colMap, err := mapForecastHeader(header)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	var (
		records []domain.ForecastRecord
		skipped int
		line    = 1
	)
	for {
		line++
		if line%10000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		row, err := next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s line %d: %w", name, line, err)
		}

		get := func(col string) string {
			if idx := colMap[col]; idx < len(row) {
				return strings.TrimSpace(row[idx])
			}
			return ""
		}

		storeID := repository.NormalizeID(get("store_id"))
		productID := repository.NormalizeID(get("product_id"))
		if storeID == "" || productID == "" {
			skipped++
			continue
		}

		// Unparseable dates keep the zero time and are not persisted by the forecast repository.
		date, _ := repository.ParseDate(get("date"))

		records = append(records, domain.ForecastRecord{
			StoreID:   storeID,
			ProductID: productID,
			Date:      date,
			Units:     repository.ParseUnits(get("units")),
		})
	}

	if skipped > 0 {
		log.Warn().Str("file", name).Int("skipped", skipped).Msg("forecast pipeline: rows without store or product skipped")
	}
	return records, nil
}

func mapForecastHeader(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, col := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")))
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}

	colMap := make(map[string]int, len(forecastColumns))
	var missing []string
	for canonical, aliases := range forecastColumns {
		found := false
		for _, alias := range aliases {
			if idx, ok := index[alias]; ok {
				colMap[canonical] = idx
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, canonical)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return colMap, nil
}

var _ Pipeline = (*ForecastPipeline)(nil)
