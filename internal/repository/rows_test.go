package repository

import (
	"database/sql"
	"math"
	"testing"
	"time"
)

func TestFlexID_Scan(t *testing.T) {
	tests := []struct {
		name string
		src  interface{}
		want FlexID
	}{
		{"integer", int64(42), "42"},
		{"text", "  A-17 ", "A-17"},
		{"bytes", []byte("9"), "9"},
		{"spreadsheet float text", "12.0", "12"},
		{"float", float64(7), "7"},
		{"fractional text kept", "1.5", "1.5"},
		{"null", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id FlexID
			if err := id.Scan(tt.src); err != nil {
				t.Fatalf("Scan(%v) error: %v", tt.src, err)
			}
			if id != tt.want {
				t.Errorf("Scan(%v) = %q, want %q", tt.src, id, tt.want)
			}
		})
	}

	var id FlexID
	if err := id.Scan(true); err == nil {
		t.Error("expected error for bool id")
	}
}

func TestInventoryRow_Record(t *testing.T) {
	tests := []struct {
		name        string
		row         InventoryRow
		wantQty     int
		wantMinimum *int
		wantReorder *int
	}{
		{
			name:    "current_quantity preferred",
			row:     InventoryRow{CurrentQuantity: sql.NullFloat64{Float64: 8, Valid: true}, Quantity: sql.NullFloat64{Float64: 3, Valid: true}},
			wantQty: 8,
		},
		{
			name:    "legacy quantity fallback",
			row:     InventoryRow{Quantity: sql.NullFloat64{Float64: 3, Valid: true}},
			wantQty: 3,
		},
		{
			name:    "zero current_quantity falls back to quantity",
			row:     InventoryRow{CurrentQuantity: sql.NullFloat64{Valid: true}, Quantity: sql.NullFloat64{Float64: 5, Valid: true}},
			wantQty: 5,
		},
		{
			name:    "missing quantities are zero",
			row:     InventoryRow{},
			wantQty: 0,
		},
		{
			name:        "thresholds carried",
			row:         InventoryRow{MinimumStock: sql.NullFloat64{Float64: 12, Valid: true}, ReorderQuantity: sql.NullFloat64{Float64: 60, Valid: true}},
			wantMinimum: intPtr(12),
			wantReorder: intPtr(60),
		},
		{
			name: "zero thresholds are absent",
			row:  InventoryRow{MinimumStock: sql.NullFloat64{Valid: true}, ReorderQuantity: sql.NullFloat64{Float64: -4, Valid: true}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := tt.row.Record()
			if rec.CurrentQuantity != tt.wantQty {
				t.Errorf("CurrentQuantity = %d, want %d", rec.CurrentQuantity, tt.wantQty)
			}
			if !equalIntPtr(rec.MinimumStock, tt.wantMinimum) {
				t.Errorf("MinimumStock = %v, want %v", rec.MinimumStock, tt.wantMinimum)
			}
			if !equalIntPtr(rec.ReorderQuantity, tt.wantReorder) {
				t.Errorf("ReorderQuantity = %v, want %v", rec.ReorderQuantity, tt.wantReorder)
			}
		})
	}
}

func TestForecastRow_Record(t *testing.T) {
	row := ForecastRow{
		ProductID: "3",
		StoreID:   "1",
		Date:      sql.NullString{String: "2023-01-05", Valid: true},
		Units:     sql.NullFloat64{Float64: 4.4, Valid: true},
	}
	rec := row.Record()
	if rec.Units != 4 {
		t.Errorf("Units = %d, want 4", rec.Units)
	}
	if !rec.Date.Equal(time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Date = %v", rec.Date)
	}

	legacy := ForecastRow{
		Date:               sql.NullString{String: "not a date", Valid: true},
		ForecastedQuantity: sql.NullFloat64{Float64: 9, Valid: true},
	}
	rec = legacy.Record()
	if rec.Units != 9 {
		t.Errorf("legacy Units = %d, want 9", rec.Units)
	}
	if !rec.Date.IsZero() {
		t.Errorf("expected zero date for malformed input, got %v", rec.Date)
	}
}

func TestRows_TextProjection(t *testing.T) {
	// Optional columns arrive as text, or NULL when the table lacks them.
	var inv InventoryRow
	for _, err := range []error{
		inv.ProductID.Scan([]byte("7")),
		inv.ProductName.Scan(nil),
		inv.Quantity.Scan([]byte("12")),
		inv.CurrentQuantity.Scan(nil),
		inv.MinimumStock.Scan([]byte("4.0")),
		inv.ReorderQuantity.Scan(nil),
	} {
		if err != nil {
			t.Fatalf("scan: %v", err)
		}
	}
	rec := inv.Record()
	if rec.ProductID != "7" || rec.CurrentQuantity != 12 {
		t.Errorf("unexpected inventory record %+v", rec)
	}
	if rec.MinimumStock == nil || *rec.MinimumStock != 4 || rec.ReorderQuantity != nil {
		t.Errorf("unexpected thresholds %v %v", rec.MinimumStock, rec.ReorderQuantity)
	}

	var fc ForecastRow
	for _, err := range []error{
		fc.ProductID.Scan([]byte("7")),
		fc.Date.Scan([]byte("2024-03-01")),
		fc.Units.Scan(nil),
		fc.ForecastedQuantity.Scan([]byte("6.0")),
	} {
		if err != nil {
			t.Fatalf("scan: %v", err)
		}
	}
	if got := fc.Record(); got.Units != 6 {
		t.Errorf("forecasted_quantity-only row Units = %d, want 6", got.Units)
	}
}

func TestInventoryRow_InfiniteQuantity(t *testing.T) {
	row := InventoryRow{
		ProductID:       "1",
		CurrentQuantity: sql.NullFloat64{Float64: math.Inf(1), Valid: true},
		Quantity:        sql.NullFloat64{Float64: 3, Valid: true},
		MinimumStock:    sql.NullFloat64{Float64: math.Inf(-1), Valid: true},
	}
	rec := row.Record()
	if rec.CurrentQuantity != 3 {
		t.Errorf("CurrentQuantity = %d, want fallback to quantity 3", rec.CurrentQuantity)
	}
	if rec.MinimumStock != nil {
		t.Errorf("MinimumStock = %v, want nil", *rec.MinimumStock)
	}
}

func TestParseDate(t *testing.T) {
	want := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	for _, raw := range []string{
		"2024-02-29",
		"2024-02-29T23:30:00+07:00",
		"2024-02-29 08:00:00",
		"2024-02-29 00:00:00+00",
		"2024/02/29",
		"02/29/2024",
		"20240229",
	} {
		got, ok := ParseDate(raw)
		if !ok || !got.Equal(want) {
			t.Errorf("ParseDate(%q) = %v, %v; want %v", raw, got, ok, want)
		}
	}

	for _, raw := range []string{"", "2023-02-29", "yesterday"} {
		if _, ok := ParseDate(raw); ok {
			t.Errorf("ParseDate(%q) should fail", raw)
		}
	}
}

func TestParseUnits(t *testing.T) {
	cases := map[string]int{"5": 5, " 2.6 ": 3, "-3": 0, "": 0, "n/a": 0, "NaN": 0, "Inf": 0, "+Inf": 0, "-Inf": 0}
	for raw, want := range cases {
		if got := ParseUnits(raw); got != want {
			t.Errorf("ParseUnits(%q) = %d, want %d", raw, got, want)
		}
	}
}

func intPtr(v int) *int { return &v }

func equalIntPtr(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
