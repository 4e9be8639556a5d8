package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

func TestParseForecastCSV(t *testing.T) {
	input := "\ufeffid,store_id,product_id,date,units\n" +
		"1,3,12.0,2024-01-05,7\n" +
		"2,3,13,2024-01-06T00:00:00,2.6\n" +
		"3,3,14,not-a-date,4\n" +
		"4,,15,2024-01-07,1\n" +
		"5,3,16,2024-01-08,-3\n"

	records, err := ParseForecastCSV(context.Background(), "test.csv", strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("expected 4 records, got %d: %+v", len(records), records)
	}

	first := records[0]
	if first.StoreID != "3" || first.ProductID != "12" || first.Units != 7 {
		t.Errorf("unexpected first record %+v", first)
	}
	if !first.Date.Equal(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected date %v", first.Date)
	}
	if records[1].Units != 3 {
		t.Errorf("expected rounded units 3, got %d", records[1].Units)
	}
	if !records[2].Date.IsZero() {
		t.Errorf("expected zero date for unparseable value, got %v", records[2].Date)
	}
	if records[3].Units != 0 {
		t.Errorf("expected negative units clamped to 0, got %d", records[3].Units)
	}
}

func TestParseForecastCSV_HeaderAliases(t *testing.T) {
	input := "Store,SKU,DS,Forecasted_Quantity\n1,A1,2024-02-29,5\n"

	records, err := ParseForecastCSV(context.Background(), "alias.csv", strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 || records[0].ProductID != "A1" || records[0].Units != 5 {
		t.Errorf("unexpected records %+v", records)
	}
}

func TestParseForecastCSV_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty file", "", "no header row"},
		{"missing columns", "store_id,product_id\n1,2\n", "missing required columns: date, units"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseForecastCSV(context.Background(), "bad.csv", strings.NewReader(tt.input))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestForecastPipeline_XLSX(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "forecast.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"store_id", "product_id", "date", "units"},
		{"1", "10", "2024-03-01", "4"},
		{"1", "11", "2024-03-02", "6"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save xlsx: %v", err)
	}
	f.Close()

	p := NewForecastPipeline()
	if err := p.Validate(path); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	records, err := p.Transform(context.Background(), path)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if len(records) != 2 || records[1].ProductID != "11" || records[1].Units != 6 {
		t.Errorf("unexpected records %+v", records)
	}

	csvPath := filepath.Join(dir, "forecast.csv")
	if err := ConvertXLSXToCSV(path, csvPath); err != nil {
		t.Fatalf("ConvertXLSXToCSV: %v", err)
	}
	data, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if !strings.HasPrefix(string(data), "store_id,product_id,date,units\n1,10,2024-03-01,4\n") {
		t.Errorf("unexpected csv %q", data)
	}
}

func TestForecastPipeline_Validate(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(txt, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	p := NewForecastPipeline()
	if err := p.Validate(txt); err == nil {
		t.Error("expected error for unsupported extension")
	}
	if err := p.Validate(filepath.Join(dir, "missing.csv")); err == nil {
		t.Error("expected error for missing file")
	}
}
