package postgres

import (
	"fmt"
	"strings"
)

// optionalColumns projects columns that only some versions of a table carry.
// Reading them through the row's jsonb form turns a column the table lacks into
// NULL instead of failing the query. Values arrive as text and scan into the
// sql.Null* and decimal fields of the repository rows.
func optionalColumns(alias string, names ...string) string {
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("to_jsonb(%s) ->> '%s' AS %s", alias, name, name)
	}
	return strings.Join(parts, ",\n\t\t")
}

// real_time_inventory: older rows carry quantity, newer ones current_quantity.
// Thresholds and names may be absent.
var inventoryColumns = `
		i.product_id::text AS product_id,
		i.store_id::text AS store_id,
		` + optionalColumns("i", "product_name", "quantity", "current_quantity", "minimum_stock", "reorder_quantity")

// sales_forecasts: units replaced forecasted_quantity; either may be the only one present.
var forecastColumns = `
		f.product_id::text AS product_id,
		f.store_id::text AS store_id,
		f.date::text AS date,
		` + optionalColumns("f", "units", "forecasted_quantity")

var productColumns = `
		p.product_id::text AS product_id,
		` + optionalColumns("p",
	"product_name",
	"product_category",
	"product_threshold",
	"base_price",
	"product_length",
	"product_width",
	"product_depth",
	"qr_code",
	"photo_url",
)
