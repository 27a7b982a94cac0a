package feed

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/club21/orderfeed/internal/domain/orders"
)

// ItemRow is one line of the order feed: flattened per line item rather than
// per fulfillment group, with the catalog-oriented columns the order feed
// carries (dual-currency prices, gender, image).
type ItemRow struct {
	OrderName       string
	ShippingCountry string
	DiscountCode    string

	MySKU         string
	SGSKU         string
	Quantity      int
	QuantityReady int
	Brand         string
	Category      string
	Gender        string
	ImageURL      string

	NetPriceSGD decimal.Decimal
	NetPriceMYR decimal.Decimal
	ItemTaxSGD  decimal.Decimal
	ItemTaxMYR  decimal.Decimal
}

// ItemColumns is the ordered column contract of the order feed CSV.
var ItemColumns = []Column{
	{"my_sku", "MY SKU"},
	{"sg_sku", "SG SKU"},
	{"quantity", "Quantity"},
	{"discount_code", "Discount Code"},
	{"brand", "Brand"},
	{"category", "Category"},
	{"net_price_sgd", "Net Price (SGD)"},
	{"net_price_myr", "Net Price (MYR)"},
	{"item_tax_sgd", "Item Tax (SGD)"},
	{"item_tax_myr", "Item Tax (MYR)"},
	{"shipping_country", "Shipping Country"},
	{"order_name", "Order #"},
	{"quantity_ready", "Quantity Ready"},
	{"gender", "Gender"},
	{"image_url", "Image URL"},
}

// FlattenItems produces the order feed rows: one per line item, in document
// then line order. A row is emitted when at least one of MY SKU, SG SKU or
// quantity is truthy.
func FlattenItems(docs []*orders.Order) []ItemRow {
	rows := make([]ItemRow, 0, len(docs))
	for _, order := range docs {
		if order == nil || order.LineItems == nil {
			continue
		}
		base := ItemRow{
			OrderName:    order.Name,
			DiscountCode: discountCodes(order),
		}
		if order.ShippingAddress != nil {
			base.ShippingCountry = order.ShippingAddress.Country
		}
		for i := range order.LineItems.Nodes {
			row := base
			fillItem(&row, &order.LineItems.Nodes[i])
			if row.MySKU == "" && row.SGSKU == "" && row.Quantity == 0 {
				continue
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// fillItem copies one line item's fields into row. The net prices come from
// the original unit price set (shop money is SGD, presentment money is MYR);
// taxes from the first tax line in both currencies.
func fillItem(row *ItemRow, item *orders.LineItem) {
	row.Quantity = item.Quantity
	row.QuantityReady = item.FulfillableQuantity

	row.NetPriceSGD = item.OriginalUnitPrice.ShopAmount()
	row.NetPriceMYR = item.OriginalUnitPrice.PresentmentAmount()
	if len(item.TaxLines) > 0 {
		row.ItemTaxSGD = item.TaxLines[0].PriceSet.ShopAmount()
		row.ItemTaxMYR = item.TaxLines[0].PriceSet.PresentmentAmount()
	}

	row.Gender = InferGender(nil)

	variant := item.Variant
	if variant == nil {
		return
	}
	row.SGSKU = variant.SKU
	if variant.Image != nil {
		row.ImageURL = variant.Image.URL
	}
	if variant.Product != nil {
		product := variant.Product
		row.Brand = product.Vendor
		row.Category = product.ProductType
		row.Gender = InferGender(product.Tags)
		if product.Metafield != nil {
			row.MySKU = product.Metafield.Value
		}
	}
}

// BuildItemTable assembles the order feed table in the ItemColumns order.
func BuildItemTable(rows []ItemRow) (*Table, error) {
	table := &Table{
		Header:  make([]string, len(ItemColumns)),
		Records: make([][]string, 0, len(rows)),
	}
	for i, col := range ItemColumns {
		table.Header[i] = col.Header
	}
	for i := range rows {
		record := make([]string, len(ItemColumns))
		for j, col := range ItemColumns {
			value, ok := rows[i].field(col.Field)
			if !ok {
				return nil, fmt.Errorf("order feed column %q is not provided by the row schema", col.Field)
			}
			record[j] = value
		}
		table.Records = append(table.Records, record)
	}
	return table, nil
}

// field renders one internal column of the item row as its output string.
func (r *ItemRow) field(name string) (string, bool) {
	switch name {
	case "my_sku":
		return r.MySKU, true
	case "sg_sku":
		return r.SGSKU, true
	case "quantity":
		return strconv.Itoa(r.Quantity), true
	case "discount_code":
		return r.DiscountCode, true
	case "brand":
		return r.Brand, true
	case "category":
		return r.Category, true
	case "net_price_sgd":
		return r.NetPriceSGD.String(), true
	case "net_price_myr":
		return r.NetPriceMYR.String(), true
	case "item_tax_sgd":
		return r.ItemTaxSGD.String(), true
	case "item_tax_myr":
		return r.ItemTaxMYR.String(), true
	case "shipping_country":
		return r.ShippingCountry, true
	case "order_name":
		return r.OrderName, true
	case "quantity_ready":
		return strconv.Itoa(r.QuantityReady), true
	case "gender":
		return r.Gender, true
	case "image_url":
		return r.ImageURL, true
	}
	return "", false
}
