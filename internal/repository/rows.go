package repository

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/andresuchdata/storeops/backend-go/internal/domain"
	"github.com/shopspring/decimal"
)

// FlexID scans identifiers stored as integers, numerics or text into one canonical string.
type FlexID string

func (id *FlexID) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*id = ""
	case int64:
		*id = FlexID(strconv.FormatInt(v, 10))
	case float64:
		*id = FlexID(NormalizeID(strconv.FormatFloat(v, 'f', -1, 64)))
	case []byte:
		*id = FlexID(NormalizeID(string(v)))
	case string:
		*id = FlexID(NormalizeID(v))
	default:
		return fmt.Errorf("unsupported id type %T", src)
	}
	return nil
}

func (id FlexID) Value() (driver.Value, error) {
	return string(id), nil
}

// InventoryRow is a real_time_inventory row as stored. Older rows carry quantity,
// newer ones current_quantity.
type InventoryRow struct {
	ProductID       FlexID          `db:"product_id"`
	StoreID         FlexID          `db:"store_id"`
	ProductName     sql.NullString  `db:"product_name"`
	Quantity        sql.NullFloat64 `db:"quantity"`
	CurrentQuantity sql.NullFloat64 `db:"current_quantity"`
	MinimumStock    sql.NullFloat64 `db:"minimum_stock"`
	ReorderQuantity sql.NullFloat64 `db:"reorder_quantity"`
}

// Record maps the row onto the canonical inventory record.
func (r InventoryRow) Record() domain.InventoryRecord {
	qty := wholeUnits(r.CurrentQuantity)
	if qty == 0 {
		qty = wholeUnits(r.Quantity)
	}

	return domain.InventoryRecord{
		ProductID:       string(r.ProductID),
		StoreID:         string(r.StoreID),
		ProductName:     strings.TrimSpace(r.ProductName.String),
		CurrentQuantity: qty,
		MinimumStock:    positiveOrNil(r.MinimumStock),
		ReorderQuantity: positiveOrNil(r.ReorderQuantity),
	}
}

// ForecastRow is a sales_forecasts row. units superseded forecasted_quantity.
type ForecastRow struct {
	ProductID          FlexID          `db:"product_id"`
	StoreID            FlexID          `db:"store_id"`
	Date               sql.NullString  `db:"date"`
	Units              sql.NullFloat64 `db:"units"`
	ForecastedQuantity sql.NullFloat64 `db:"forecasted_quantity"`
}

func (r ForecastRow) Record() domain.ForecastRecord {
	units := wholeUnits(r.Units)
	if !r.Units.Valid {
		units = wholeUnits(r.ForecastedQuantity)
	}

	date, _ := ParseDate(r.Date.String)
	return domain.ForecastRecord{
		ProductID: string(r.ProductID),
		StoreID:   string(r.StoreID),
		Date:      date,
		Units:     units,
	}
}

// ProductRow is a products catalog row.
type ProductRow struct {
	ProductID FlexID              `db:"product_id"`
	Name      sql.NullString      `db:"product_name"`
	Category  sql.NullString      `db:"product_category"`
	Threshold sql.NullFloat64     `db:"product_threshold"`
	BasePrice decimal.NullDecimal `db:"base_price"`
	Length    sql.NullFloat64     `db:"product_length"`
	Width     sql.NullFloat64     `db:"product_width"`
	Depth     sql.NullFloat64     `db:"product_depth"`
	QRCode    sql.NullString      `db:"qr_code"`
	PhotoURL  sql.NullString      `db:"photo_url"`
}

func (r ProductRow) Details() domain.ProductDetails {
	return domain.ProductDetails{
		ProductID: string(r.ProductID),
		Name:      strings.TrimSpace(r.Name.String),
		Category:  strings.TrimSpace(r.Category.String),
		Threshold: positiveOrNil(r.Threshold),
		BasePrice: r.BasePrice,
		Length:    floatOrNil(r.Length),
		Width:     floatOrNil(r.Width),
		Depth:     floatOrNil(r.Depth),
		QRCode:    r.QRCode.String,
		PhotoURL:  r.PhotoURL.String,
	}
}

// NormalizeID trims whitespace and drops a zero fraction left by spreadsheet exports ("12.0" -> "12").
func NormalizeID(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.Contains(s, ".") {
		return s
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return s
	}
	return strconv.FormatFloat(f, 'f', 0, 64)
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05-07",
	"2006/01/02",
	"01/02/2006",
	"20060102",
}

// ParseDate reads a civil date in any of the layouts seen in forecast sources.
// The written calendar fields are kept; the result is midnight UTC.
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

// ParseUnits reads a quantity cell, treating blanks and garbage as zero and
// clamping negatives to zero.
func ParseUnits(raw string) int {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return wholeUnits(sql.NullFloat64{Float64: f, Valid: true})
}

func wholeUnits(v sql.NullFloat64) int {
	if !v.Valid || math.IsNaN(v.Float64) || math.IsInf(v.Float64, 0) || v.Float64 <= 0 {
		return 0
	}
	return int(math.Round(v.Float64))
}

func positiveOrNil(v sql.NullFloat64) *int {
	n := wholeUnits(v)
	if n == 0 {
		return nil
	}
	return &n
}

func floatOrNil(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
