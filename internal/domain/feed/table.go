package feed

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// Column binds an internal row field to its business-facing output header.
type Column struct {
	Field  string
	Header string
}

// SalesColumns is the ordered column contract of the sales feed CSV. The
// flattener output and the emitter are coupled through this one list; it is
// validated when the table is assembled.
var SalesColumns = []Column{
	{"div", "DIV"},
	{"order_name", "Order Name"},
	{"order_date", "Order Date"},
	{"update_date", "Update Date"},
	{"order_closed", "Order Status"},
	{"note", "Note"},
	{"sku", "Lineitem SKU"},
	{"alt_sku", "Lineitem Alt SKU"},
	{"product_name", "Lineitem Name"},
	{"quantity", "Ord Qty"},
	{"quantity_cancel", "Cancel Qty"},
	{"vendor", "Vendor"},
	{"requires_shipping", "Shipping Method"},
	{"currency", "Currency"},
	{"original_total", "Lineitem Price"},
	{"adjusted_discounted_total", "Lineitem Gross"},
	{"discount_amount", "Discount Allocation"},
	{"discount_code", "Discount Code"},
	{"tax_rate", "Tax Rate"},
	{"total_tax", "Taxes"},
	{"total_duty", "duties"},
	{"total_shipping", "Shipping"},
	{"sales_kind", "Sales Kind"},
	{"country_code", "Country Code"},
	{"assigned_location", "WH store"},
}

// Table is the assembled output: a header row and one record per final row.
type Table struct {
	Header  []string
	Records [][]string
}

// BuildTable selects and renames the sales feed columns and converts the
// sentinel presentation strings the downstream CSV consumer expects. It
// returns an error when the column contract names a field the row type does
// not provide.
func BuildTable(rows []Row) (*Table, error) {
	table := &Table{
		Header:  make([]string, len(SalesColumns)),
		Records: make([][]string, 0, len(rows)),
	}
	for i, col := range SalesColumns {
		table.Header[i] = col.Header
	}

	for i := range rows {
		record := make([]string, len(SalesColumns))
		for j, col := range SalesColumns {
			value, ok := rows[i].field(col.Field)
			if !ok {
				return nil, fmt.Errorf("sales feed column %q is not provided by the row schema", col.Field)
			}
			record[j] = value
		}
		table.Records = append(table.Records, record)
	}
	return table, nil
}

// field renders one internal column of the row as its output string.
func (r *Row) field(name string) (string, bool) {
	switch name {
	case "div":
		return r.Div, true
	case "order_name":
		return r.OrderName, true
	case "order_date":
		return r.OrderDate, true
	case "update_date":
		return r.UpdateDate, true
	case "order_closed":
		return r.OrderStatus, true
	case "note":
		return r.Note, true
	case "sku":
		return r.SKU, true
	case "alt_sku":
		return r.AltSKU, true
	case "product_name":
		return r.ProductName, true
	case "quantity":
		return strconv.Itoa(r.Quantity), true
	case "quantity_cancel":
		return strconv.Itoa(r.QuantityCancel), true
	case "vendor":
		return r.Vendor, true
	case "requires_shipping":
		return r.ShippingMethod, true
	case "currency":
		return r.Currency, true
	case "original_total":
		return r.OriginalTotal.String(), true
	case "adjusted_discounted_total":
		return r.AdjustedDiscountedTotal.String(), true
	case "discount_amount":
		return formatDiscount(r.DiscountAmount), true
	case "discount_code":
		return r.DiscountCode, true
	case "tax_rate":
		return r.TaxRate.String(), true
	case "total_tax":
		return r.TotalTax.String(), true
	case "total_duty":
		return formatDuty(r.TotalDuty), true
	case "total_shipping":
		return formatShipping(r.TotalShipping), true
	case "sales_kind":
		return r.SalesKind, true
	case "country_code":
		return r.CountryCode, true
	case "assigned_location":
		return r.AssignedLocation, true
	}
	return "", false
}

// The three formatters below reproduce the downstream consumer's CSV-import
// expectations exactly; do not "clean them up".

// formatDiscount renders a positive discount as a deduction ("-12.5") and
// anything else as the literal "-0".
func formatDiscount(d decimal.Decimal) string {
	if d.IsPositive() {
		return d.Neg().String()
	}
	return "-0"
}

// formatDuty renders a non-positive duty as the literal two-character quoted
// marker `""`; the CSV normalizer later collapses the escaped form back to
// those two bytes.
func formatDuty(d decimal.Decimal) string {
	if d.IsPositive() {
		return d.String()
	}
	return `""`
}

// formatShipping renders a non-positive shipping total as the literal "0".
func formatShipping(d decimal.Decimal) string {
	if d.IsPositive() {
		return d.String()
	}
	return "0"
}
