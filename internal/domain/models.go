// backend-go/internal/domain/models.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Store represents a store that carries inventory
type Store struct {
	ID string `json:"id" db:"store_id"`
}

// InventoryRecord is the current stock of one product at one store
type InventoryRecord struct {
	ProductID       string `json:"product_id"`
	StoreID         string `json:"store_id"`
	ProductName     string `json:"product_name,omitempty"`
	CurrentQuantity int    `json:"current_quantity"`
	// MinimumStock and ReorderQuantity are nil when the source row carries no usable value.
	MinimumStock    *int `json:"minimum_stock,omitempty"`
	ReorderQuantity *int `json:"reorder_quantity,omitempty"`
}

// ForecastRecord is the forecasted demand for one product, store and calendar date.
// Date is the zero time when the source date could not be parsed.
type ForecastRecord struct {
	ProductID string    `json:"product_id"`
	StoreID   string    `json:"store_id"`
	Date      time.Time `json:"date"`
	Units     int       `json:"units"`
}

// ProductDetails is catalog metadata for a product
type ProductDetails struct {
	ProductID string              `json:"product_id"`
	Name      string              `json:"product_name"`
	Category  string              `json:"product_category,omitempty"`
	Threshold *int                `json:"product_threshold,omitempty"`
	BasePrice decimal.NullDecimal `json:"base_price"`
	Length    *float64            `json:"product_length,omitempty"`
	Width     *float64            `json:"product_width,omitempty"`
	Depth     *float64            `json:"product_depth,omitempty"`
	QRCode    string              `json:"qr_code,omitempty"`
	PhotoURL  string              `json:"photo_url,omitempty"`
}

// OrderRecommendation is one row of the computed reorder report
type OrderRecommendation struct {
	ProductID        string              `json:"product_id"`
	ProductName      string              `json:"product_name"`
	CurrentStock     int                 `json:"current_stock"`
	ExpectedSales    int                 `json:"expected_sales"`
	RecommendedOrder int                 `json:"recommended_order"`
	MinimumStock     int                 `json:"minimum_stock"`
	ReorderQuantity  int                 `json:"reorder_quantity"`
	EstimatedCost    decimal.NullDecimal `json:"estimated_cost"`
	ProductDetails   *ProductDetails     `json:"product_details,omitempty"`
}

// DateRange is an inclusive calendar range. Only month and day take part in matching.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Days returns the inclusive number of calendar days between From and To.
func (r DateRange) Days() int {
	if r.From.IsZero() || r.To.IsZero() {
		return 0
	}
	diff := r.To.Sub(r.From)
	if diff < 0 {
		diff = -diff
	}
	days := int(diff / (24 * time.Hour))
	if diff%(24*time.Hour) != 0 {
		days++
	}
	return days + 1
}

// RecommendationRequest selects the store and window for a computation
type RecommendationRequest struct {
	StoreID   string    `json:"store_id"`
	DateRange DateRange `json:"date_range"`
}

// RecommendationReport is the result of one computation
type RecommendationReport struct {
	StoreID         string                `json:"store_id"`
	DateRange       DateRange             `json:"date_range"`
	SelectedDays    int                   `json:"selected_days"`
	Recommendations []OrderRecommendation `json:"recommendations"`
	GeneratedAt     time.Time             `json:"generated_at"`
}

// ProductForecast is the date-ordered forecast series for a single product at a store
type ProductForecast struct {
	StoreID   string           `json:"store_id"`
	ProductID string           `json:"product_id"`
	Forecast  []ForecastRecord `json:"forecast"`
	Message   string           `json:"message,omitempty"`
}
