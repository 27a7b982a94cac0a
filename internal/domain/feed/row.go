// Package feed implements the flatten-and-derive transform that turns raw
// Shopify order documents into the tabular sales feed: flattening nested
// documents into rows, deriving business columns, consolidating virtual
// duty/shipping locations and rewriting gift-wrap lines.
package feed

import "github.com/shopspring/decimal"

// Constant column values baked into the sales feed.
const (
	// DivCode is the business division code carried on every row.
	DivCode = "21"
	// SalesKind marks every row as a regular sale.
	SalesKind = "SA"
	// CountryCode is the feed's fixed country of sale.
	CountryCode = "SG"

	// ConsolidationLocation is the physical warehouse that absorbs virtual
	// and gift-wrap rows.
	ConsolidationLocation = "051"
	// DutyLocation and TaxLocation are the virtual locations whose rows are
	// folded into synthetic summary rows.
	DutyLocation = "888"
	TaxLocation  = "999"
	// PreOrderLocation marks gift-wrap placeholder rows.
	PreOrderLocation = "PRE ORDER"

	// DutySKU and DutyName identify the synthetic "Duties & Taxes" row.
	DutySKU  = "900000000-DUTIES"
	DutyName = "Duties & Taxes"
	// DeliverySKU and DeliveryName identify the synthetic "Delivery" row.
	DeliverySKU  = "900000000-DELIVERY"
	DeliveryName = "Delivery"
	// GiftWrapSKU, GiftWrapName and GiftWrapVendor are the fixed gift-wrap
	// product identity rewritten onto surviving PRE ORDER rows.
	GiftWrapSKU    = "900000000-PROPS"
	GiftWrapName   = "Gift Wrapping"
	GiftWrapVendor = "Club21"
)

// Row is the join of Order x FulfillmentOrder x LineItem x (first)
// discount/tax/duty entry. Flatten fills the raw fields; Enrich fills the
// derived ones. Monetary amounts stay unrounded until aggregation.
type Row struct {
	// Order-level, taken verbatim from the source document.
	OrderName       string
	CreatedAt       string
	UpdatedAt       string
	Note            string
	Closed          bool
	ShippingCountry string
	DiscountCode    string

	// Fulfillment group.
	Location string // raw assigned-location name

	// Line item.
	SKU              string
	AltSKU           string
	ProductName      string
	Vendor           string
	Quantity         int
	RequiresShipping bool
	Currency         string
	OriginalTotal    decimal.Decimal
	DiscountedTotal  decimal.Decimal
	DiscountAmount   decimal.Decimal
	TaxRate          decimal.Decimal
	TaxTitle         string
	TaxAmount        decimal.Decimal
	DutyAmount       decimal.Decimal
	DutyTax          decimal.Decimal
	ShippingPrice    decimal.Decimal
	ShippingTax      decimal.Decimal

	// Derived by Enrich.
	Div                     string
	SalesKind               string
	CountryCode             string
	OrderDate               string // business-local, MM-DD-YYYY HH:MM
	UpdateDate              string
	OrderStatus             string // "closed" / "open"
	ShippingMethod          string // "shipping" / "no"
	QuantityCancel          int
	AssignedLocation        string // normalized warehouse code
	AdjustedDiscountedTotal decimal.Decimal
	TotalTax                decimal.Decimal
	TotalDuty               decimal.Decimal
	TotalShipping           decimal.Decimal
}
