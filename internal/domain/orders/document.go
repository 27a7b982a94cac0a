// Package orders defines the typed model for Shopify order detail documents.
//
// A document is the raw response envelope of the order-detail GraphQL query,
// persisted to disk one file per order. Every nested field is optional in the
// source; absence decodes to the Go zero value so the transform stages never
// have to chase nil chains.
package orders

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Document is the raw detail-query response envelope: {"data": {"order": {...}}}.
type Document struct {
	Data *DocumentData `json:"data,omitempty"`
}

// DocumentData wraps the order object inside the envelope.
type DocumentData struct {
	Order *Order `json:"order,omitempty"`
}

// Order is one Shopify order as returned by the order-detail query.
type Order struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
	Note      string `json:"note"`
	Closed    bool   `json:"closed"`

	ShippingAddress      *ShippingAddress      `json:"shippingAddress,omitempty"`
	ShippingLine         *ShippingLine         `json:"shippingLine,omitempty"`
	DiscountApplications *DiscountApplications `json:"discountApplications,omitempty"`
	FulfillmentOrders    *FulfillmentOrders    `json:"fulfillmentOrders,omitempty"`
	LineItems            *LineItems            `json:"lineItems,omitempty"`
}

// NumericID returns the trailing numeric segment of the order GID
// (gid://shopify/Order/12345 -> 12345).
func (o *Order) NumericID() string {
	if i := strings.LastIndex(o.ID, "/"); i >= 0 {
		return o.ID[i+1:]
	}
	return o.ID
}

// NumericID extracts the trailing numeric segment of an order GID such
// as "gid://shopify/Order/12345". Returns "" when the segment is not a
// plain number.
func NumericID(gid string) string {
	tail := gid
	if i := strings.LastIndex(gid, "/"); i >= 0 {
		tail = gid[i+1:]
	}
	if tail == "" {
		return ""
	}
	for _, r := range tail {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return tail
}

// ShippingAddress carries the destination country of the order.
type ShippingAddress struct {
	Country     string `json:"country"`
	CountryCode string `json:"countryCodeV2"`
}

// ShippingLine is the order's shipping charge with its tax lines.
type ShippingLine struct {
	Title              string    `json:"title"`
	DiscountedPriceSet *MoneyBag `json:"discountedPriceSet,omitempty"`
	TaxLines           []TaxLine `json:"taxLines,omitempty"`
}

// DiscountApplications lists the discount applications on the order.
type DiscountApplications struct {
	Nodes []DiscountApplication `json:"nodes,omitempty"`
}

// DiscountApplication is one order-level discount; only code-based
// applications carry a code.
type DiscountApplication struct {
	Code string `json:"code,omitempty"`
}

// FulfillmentOrders lists the order's fulfillment groups.
type FulfillmentOrders struct {
	Nodes []FulfillmentOrder `json:"nodes,omitempty"`
}

// FulfillmentOrder is the subset of an order's line items routed through one
// assigned location.
type FulfillmentOrder struct {
	AssignedLocation *AssignedLocation `json:"assignedLocation,omitempty"`
	LineItems        *FulfillmentLines `json:"lineItems,omitempty"`
}

// LocationName returns the assigned location name, empty when unset.
func (f *FulfillmentOrder) LocationName() string {
	if f.AssignedLocation == nil {
		return ""
	}
	return f.AssignedLocation.Name
}

// AssignedLocation identifies the warehouse or virtual location a fulfillment
// group is bound to. The name may be a physical site code ("051-MAIN") or a
// sentinel such as "888", "999" or "PRE ORDER".
type AssignedLocation struct {
	Name string `json:"name"`
}

// FulfillmentLines lists the line items of one fulfillment group.
type FulfillmentLines struct {
	Nodes []FulfillmentLine `json:"nodes,omitempty"`
}

// FulfillmentLine wraps the underlying order line item inside a fulfillment
// group together with the quantity routed through that group.
type FulfillmentLine struct {
	TotalQuantity int       `json:"totalQuantity"`
	LineItem      *LineItem `json:"lineItem,omitempty"`
}

// LineItems lists the order's line items (order-feed query shape).
type LineItems struct {
	Nodes []LineItem `json:"nodes,omitempty"`
}

// LineItem is one purchasable line of an order.
type LineItem struct {
	ID                  string `json:"id"`
	SKU                 string `json:"sku"`
	Name                string `json:"name"`
	Title               string `json:"title"`
	Quantity            int    `json:"quantity"`
	FulfillableQuantity int    `json:"fulfillableQuantity"`
	Vendor              string `json:"vendor"`
	RequiresShipping    bool   `json:"requiresShipping"`

	OriginalTotalSet    *MoneyBag `json:"originalTotalSet,omitempty"`
	OriginalUnitPrice   *MoneyBag `json:"originalUnitPriceSet,omitempty"`
	DiscountedTotalSet  *MoneyBag `json:"discountedTotalSet,omitempty"`
	DiscountAllocations []DiscountAllocation `json:"discountAllocations,omitempty"`
	TaxLines            []TaxLine            `json:"taxLines,omitempty"`
	Duties              []Duty               `json:"duties,omitempty"`

	Variant *Variant `json:"variant,omitempty"`
}

// Variant carries variant-level fields used by the order-feed variant of the
// transform (SKU, image, product).
type Variant struct {
	SKU     string   `json:"sku"`
	Barcode string   `json:"barcode"`
	Image   *Image   `json:"image,omitempty"`
	Product *Product `json:"product,omitempty"`
}

// Image is a product or variant image.
type Image struct {
	URL string `json:"url"`
}

// Product carries the product-level descriptive fields.
type Product struct {
	Vendor      string     `json:"vendor"`
	ProductType string     `json:"productType"`
	Tags        []string   `json:"tags,omitempty"`
	Metafield   *Metafield `json:"metafield,omitempty"`
}

// Metafield is a single queried product metafield value.
type Metafield struct {
	Value string `json:"value"`
}

// DiscountAllocation is one discount amount allocated to a line item.
type DiscountAllocation struct {
	AllocatedAmountSet *MoneyBag `json:"allocatedAmountSet,omitempty"`
}

// TaxLine is one tax bracket applied to a line item, shipping line or duty.
type TaxLine struct {
	Title    string          `json:"title"`
	Rate     decimal.Decimal `json:"rate"`
	PriceSet *MoneyBag       `json:"priceSet,omitempty"`
}

// Duty is one duty entry on a line item, carrying its own tax lines.
type Duty struct {
	Price    *MoneyBag `json:"price,omitempty"`
	TaxLines []TaxLine `json:"taxLines,omitempty"`
}

// MoneyBag is a Shopify money set: the amount in the shop currency and in the
// presentment (buyer-facing) currency.
type MoneyBag struct {
	ShopMoney        *Money `json:"shopMoney,omitempty"`
	PresentmentMoney *Money `json:"presentmentMoney,omitempty"`
}

// Money is an amount tagged with a currency code. Shopify serializes the
// amount as a JSON string; decimal.Decimal accepts both forms.
type Money struct {
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
}

// UnmarshalJSON decodes a money object, treating a missing, null or
// empty-string amount as zero. A blank amount on one line item must not
// fail the whole order document.
func (m *Money) UnmarshalJSON(data []byte) error {
	var raw struct {
		Amount       json.RawMessage `json:"amount"`
		CurrencyCode string          `json:"currencyCode"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.CurrencyCode = raw.CurrencyCode

	amount := bytes.TrimSpace(raw.Amount)
	if len(amount) == 0 || bytes.Equal(amount, []byte("null")) || bytes.Equal(amount, []byte(`""`)) {
		m.Amount = decimal.Zero
		return nil
	}
	return m.Amount.UnmarshalJSON(amount)
}

// ShopAmount returns the shop-currency amount of a possibly-nil money bag.
func (m *MoneyBag) ShopAmount() decimal.Decimal {
	if m == nil || m.ShopMoney == nil {
		return decimal.Zero
	}
	return m.ShopMoney.Amount
}

// PresentmentAmount returns the presentment-currency amount of a possibly-nil
// money bag.
func (m *MoneyBag) PresentmentAmount() decimal.Decimal {
	if m == nil || m.PresentmentMoney == nil {
		return decimal.Zero
	}
	return m.PresentmentMoney.Amount
}

// ShopCurrency returns the shop currency code of a possibly-nil money bag.
func (m *MoneyBag) ShopCurrency() string {
	if m == nil || m.ShopMoney == nil {
		return ""
	}
	return m.ShopMoney.CurrencyCode
}
