package feed

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/club21/orderfeed/internal/domain/orders"
)

// Flatten walks each order document and produces one row per
// (fulfillment order, line item) pair, preserving document, group and line
// order as given. Rows with no SKU, no alternate SKU and zero quantity are
// dropped as degenerate placeholders.
//
// Only the first tax line and the first duty entry (plus its first nested tax
// line) of a line item are read; a line item is assumed to have at most one
// applicable tax bracket. Discount allocations are summed when multiple
// exist.
func Flatten(docs []*orders.Order) []Row {
	rows := make([]Row, 0, len(docs))
	for _, order := range docs {
		if order == nil {
			continue
		}
		base := orderFields(order)
		if order.FulfillmentOrders == nil {
			continue
		}
		for _, group := range order.FulfillmentOrders.Nodes {
			location := group.LocationName()
			if group.LineItems == nil {
				continue
			}
			for _, line := range group.LineItems.Nodes {
				if line.LineItem == nil {
					continue
				}
				row := base
				row.Location = location
				fillLineItem(&row, &line)
				if row.SKU == "" && row.AltSKU == "" && row.Quantity == 0 {
					continue
				}
				rows = append(rows, row)
			}
		}
	}
	return rows
}

// orderFields extracts the order-level fields shared by every row of one
// order. Missing nested fields map to empty/zero values.
func orderFields(order *orders.Order) Row {
	row := Row{
		OrderName: order.Name,
		CreatedAt: order.CreatedAt,
		UpdatedAt: order.UpdatedAt,
		Note:      order.Note,
		Closed:    order.Closed,
	}
	if order.ShippingAddress != nil {
		row.ShippingCountry = order.ShippingAddress.Country
	}
	if order.ShippingLine != nil {
		row.ShippingPrice = order.ShippingLine.DiscountedPriceSet.ShopAmount()
		if len(order.ShippingLine.TaxLines) > 0 {
			row.ShippingTax = order.ShippingLine.TaxLines[0].PriceSet.ShopAmount()
		}
	}
	row.DiscountCode = discountCodes(order)
	return row
}

// discountCodes joins the order's code-based discount applications.
func discountCodes(order *orders.Order) string {
	if order.DiscountApplications == nil {
		return ""
	}
	codes := make([]string, 0, len(order.DiscountApplications.Nodes))
	for _, app := range order.DiscountApplications.Nodes {
		if app.Code != "" {
			codes = append(codes, app.Code)
		}
	}
	return strings.Join(codes, ",")
}

// fillLineItem copies the line-item fields of one fulfillment line into row.
func fillLineItem(row *Row, line *orders.FulfillmentLine) {
	item := line.LineItem

	row.SKU = item.SKU
	row.ProductName = item.Name
	if row.ProductName == "" {
		row.ProductName = item.Title
	}
	row.Vendor = item.Vendor
	row.RequiresShipping = item.RequiresShipping
	if item.Variant != nil {
		row.AltSKU = item.Variant.SKU
	}

	// A split shipment routes part of the quantity through each leg.
	row.Quantity = line.TotalQuantity
	if row.Quantity == 0 {
		row.Quantity = item.Quantity
	}

	row.Currency = item.OriginalTotalSet.ShopCurrency()
	row.OriginalTotal = item.OriginalTotalSet.ShopAmount()
	row.DiscountedTotal = item.DiscountedTotalSet.ShopAmount()

	total := decimal.Zero
	for _, alloc := range item.DiscountAllocations {
		total = total.Add(alloc.AllocatedAmountSet.ShopAmount())
	}
	row.DiscountAmount = total

	if len(item.TaxLines) > 0 {
		row.TaxRate = item.TaxLines[0].Rate
		row.TaxTitle = item.TaxLines[0].Title
		row.TaxAmount = item.TaxLines[0].PriceSet.ShopAmount()
	}

	if len(item.Duties) > 0 {
		duty := item.Duties[0]
		row.DutyAmount = duty.Price.ShopAmount()
		if len(duty.TaxLines) > 0 {
			row.DutyTax = duty.TaxLines[0].PriceSet.ShopAmount()
		}
	}
}
