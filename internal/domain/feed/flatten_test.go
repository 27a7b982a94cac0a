package feed

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/club21/orderfeed/internal/domain/orders"
)

func money(amount, currency string) *orders.MoneyBag {
	return &orders.MoneyBag{
		ShopMoney: &orders.Money{
			Amount:       decimal.RequireFromString(amount),
			CurrencyCode: currency,
		},
	}
}

func fulfillmentOrder(location string, lines ...orders.FulfillmentLine) orders.FulfillmentOrder {
	return orders.FulfillmentOrder{
		AssignedLocation: &orders.AssignedLocation{Name: location},
		LineItems:        &orders.FulfillmentLines{Nodes: lines},
	}
}

func line(sku string, qty int, total string) orders.FulfillmentLine {
	return orders.FulfillmentLine{
		TotalQuantity: qty,
		LineItem: &orders.LineItem{
			SKU:              sku,
			Name:             "Item " + sku,
			Quantity:         qty,
			Vendor:           "Club21",
			RequiresShipping: true,
			OriginalTotalSet: money(total, "SGD"),
		},
	}
}

func testOrder(name string, groups ...orders.FulfillmentOrder) *orders.Order {
	return &orders.Order{
		ID:        "gid://shopify/Order/1001",
		Name:      name,
		CreatedAt: "2025-03-01T10:00:00Z",
		UpdatedAt: "2025-03-01T11:00:00Z",
		ShippingAddress: &orders.ShippingAddress{
			Country: "Singapore", CountryCode: "SG",
		},
		FulfillmentOrders: &orders.FulfillmentOrders{Nodes: groups},
	}
}

func TestFlatten_OneRowPerGroupLinePair(t *testing.T) {
	doc := testOrder("#1001",
		fulfillmentOrder("051-MAIN", line("SKU-A", 1, "10.00"), line("SKU-B", 2, "20.00")),
		fulfillmentOrder("888", line("SKU-A", 1, "10.00")),
	)

	rows := Flatten([]*orders.Order{doc})
	require.Len(t, rows, 3)

	assert.Equal(t, "051-MAIN", rows[0].Location)
	assert.Equal(t, "SKU-A", rows[0].SKU)
	assert.Equal(t, "051-MAIN", rows[1].Location)
	assert.Equal(t, "SKU-B", rows[1].SKU)
	// A line item appearing in two fulfillment groups produces two rows.
	assert.Equal(t, "888", rows[2].Location)
	assert.Equal(t, "SKU-A", rows[2].SKU)

	for _, row := range rows {
		assert.Equal(t, "#1001", row.OrderName)
		assert.Equal(t, "Singapore", row.ShippingCountry)
		assert.Equal(t, "SGD", row.Currency)
	}
}

func TestFlatten_DegenerateRowsExcluded(t *testing.T) {
	empty := orders.FulfillmentLine{LineItem: &orders.LineItem{}}
	doc := testOrder("#1002",
		fulfillmentOrder("051", empty, line("SKU-A", 1, "10.00")),
	)

	rows := Flatten([]*orders.Order{doc})
	require.Len(t, rows, 1)
	assert.Equal(t, "SKU-A", rows[0].SKU)
}

func TestFlatten_QuantityOnlyRowKept(t *testing.T) {
	noSKU := orders.FulfillmentLine{
		TotalQuantity: 3,
		LineItem:      &orders.LineItem{Quantity: 3},
	}
	doc := testOrder("#1003", fulfillmentOrder("051", noSKU))

	rows := Flatten([]*orders.Order{doc})
	require.Len(t, rows, 1)
	assert.Equal(t, 3, rows[0].Quantity)
}

func TestFlatten_DiscountAllocationsSummed(t *testing.T) {
	item := line("SKU-A", 1, "50.00")
	item.LineItem.DiscountAllocations = []orders.DiscountAllocation{
		{AllocatedAmountSet: money("2.50", "SGD")},
		{AllocatedAmountSet: money("1.25", "SGD")},
	}
	doc := testOrder("#1004", fulfillmentOrder("051", item))

	rows := Flatten([]*orders.Order{doc})
	require.Len(t, rows, 1)
	assert.True(t, decimal.RequireFromString("3.75").Equal(rows[0].DiscountAmount))
}

func TestFlatten_FirstTaxAndDutyOnly(t *testing.T) {
	item := line("SKU-A", 1, "50.00")
	item.LineItem.TaxLines = []orders.TaxLine{
		{Title: "GST", Rate: decimal.RequireFromString("0.09"), PriceSet: money("4.50", "SGD")},
		{Title: "Other", Rate: decimal.RequireFromString("0.05"), PriceSet: money("2.50", "SGD")},
	}
	item.LineItem.Duties = []orders.Duty{
		{
			Price: money("5.00", "SGD"),
			TaxLines: []orders.TaxLine{
				{PriceSet: money("0.45", "SGD")},
				{PriceSet: money("9.99", "SGD")},
			},
		},
		{Price: money("7.00", "SGD")},
	}
	doc := testOrder("#1005", fulfillmentOrder("051", item))

	rows := Flatten([]*orders.Order{doc})
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "GST", row.TaxTitle)
	assert.True(t, decimal.RequireFromString("4.50").Equal(row.TaxAmount))
	assert.True(t, decimal.RequireFromString("5.00").Equal(row.DutyAmount))
	assert.True(t, decimal.RequireFromString("0.45").Equal(row.DutyTax))
}

func TestFlatten_ShippingLineAndDiscountCodes(t *testing.T) {
	doc := testOrder("#1006", fulfillmentOrder("051", line("SKU-A", 1, "10.00")))
	doc.ShippingLine = &orders.ShippingLine{
		DiscountedPriceSet: money("8.00", "SGD"),
		TaxLines:           []orders.TaxLine{{PriceSet: money("0.72", "SGD")}},
	}
	doc.DiscountApplications = &orders.DiscountApplications{
		Nodes: []orders.DiscountApplication{{Code: "VIP10"}, {}, {Code: "FREESHIP"}},
	}

	rows := Flatten([]*orders.Order{doc})
	require.Len(t, rows, 1)
	assert.True(t, decimal.RequireFromString("8.00").Equal(rows[0].ShippingPrice))
	assert.True(t, decimal.RequireFromString("0.72").Equal(rows[0].ShippingTax))
	assert.Equal(t, "VIP10,FREESHIP", rows[0].DiscountCode)
}

func TestFlatten_Deterministic(t *testing.T) {
	docs := []*orders.Order{
		testOrder("#1001", fulfillmentOrder("051", line("SKU-A", 1, "10.00"))),
		testOrder("#1002", fulfillmentOrder("888", line("SKU-B", 2, "20.00"))),
	}

	first := Flatten(docs)
	second := Flatten(docs)
	assert.Equal(t, first, second)
}

func TestFlatten_SkipsNilAndEmptyDocuments(t *testing.T) {
	docs := []*orders.Order{
		nil,
		{Name: "#2001"}, // no fulfillment orders at all
		testOrder("#2002", fulfillmentOrder("051", line("SKU-A", 1, "10.00"))),
	}

	rows := Flatten(docs)
	require.Len(t, rows, 1)
	assert.Equal(t, "#2002", rows[0].OrderName)
}
