package feed

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/club21/orderfeed/internal/domain/orders"
)

func dualMoney(shop, presentment string) *orders.MoneyBag {
	return &orders.MoneyBag{
		ShopMoney:        &orders.Money{Amount: decimal.RequireFromString(shop), CurrencyCode: "SGD"},
		PresentmentMoney: &orders.Money{Amount: decimal.RequireFromString(presentment), CurrencyCode: "MYR"},
	}
}

func itemOrder(name string, items ...orders.LineItem) *orders.Order {
	return &orders.Order{
		Name:            name,
		ShippingAddress: &orders.ShippingAddress{Country: "Malaysia"},
		LineItems:       &orders.LineItems{Nodes: items},
	}
}

func TestFlattenItems(t *testing.T) {
	item := orders.LineItem{
		Quantity:            2,
		FulfillableQuantity: 1,
		OriginalUnitPrice:   dualMoney("100.00", "330.00"),
		TaxLines: []orders.TaxLine{
			{PriceSet: dualMoney("9.00", "29.70")},
		},
		Variant: &orders.Variant{
			SKU:   "SG-001",
			Image: &orders.Image{URL: "https://cdn.example.com/img.jpg"},
			Product: &orders.Product{
				Vendor:      "Club21",
				ProductType: "Apparel",
				Tags:        []string{"boys"},
				Metafield:   &orders.Metafield{Value: "MY-001"},
			},
		},
	}

	rows := FlattenItems([]*orders.Order{itemOrder("#2001", item)})
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "#2001", row.OrderName)
	assert.Equal(t, "Malaysia", row.ShippingCountry)
	assert.Equal(t, "MY-001", row.MySKU)
	assert.Equal(t, "SG-001", row.SGSKU)
	assert.Equal(t, 2, row.Quantity)
	assert.Equal(t, 1, row.QuantityReady)
	assert.Equal(t, "Club21", row.Brand)
	assert.Equal(t, "Apparel", row.Category)
	assert.Equal(t, "Male", row.Gender)
	assert.Equal(t, "https://cdn.example.com/img.jpg", row.ImageURL)
	assert.True(t, decimal.RequireFromString("100.00").Equal(row.NetPriceSGD))
	assert.True(t, decimal.RequireFromString("330.00").Equal(row.NetPriceMYR))
	assert.True(t, decimal.RequireFromString("9.00").Equal(row.ItemTaxSGD))
	assert.True(t, decimal.RequireFromString("29.70").Equal(row.ItemTaxMYR))
}

func TestFlattenItems_SkipsDegenerateLines(t *testing.T) {
	rows := FlattenItems([]*orders.Order{itemOrder("#2002",
		orders.LineItem{},                // nothing truthy
		orders.LineItem{Quantity: 1},     // quantity only
		orders.LineItem{Variant: &orders.Variant{SKU: "SG-002"}},
	)})

	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].Quantity)
	assert.Equal(t, "SG-002", rows[1].SGSKU)
}

func TestFlattenItems_MissingVariantDefaults(t *testing.T) {
	rows := FlattenItems([]*orders.Order{itemOrder("#2003",
		orders.LineItem{Quantity: 1},
	)})
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Empty(t, row.SGSKU)
	assert.Empty(t, row.MySKU)
	assert.Empty(t, row.Brand)
	assert.Equal(t, "Unisex", row.Gender)
	assert.Empty(t, row.ImageURL)
}

func TestBuildItemTable(t *testing.T) {
	rows := FlattenItems([]*orders.Order{itemOrder("#2004",
		orders.LineItem{
			Quantity:          1,
			OriginalUnitPrice: dualMoney("50.00", "165.00"),
			Variant:           &orders.Variant{SKU: "SG-003"},
		},
	)})

	table, err := BuildItemTable(rows)
	require.NoError(t, err)

	want := []string{
		"MY SKU", "SG SKU", "Quantity", "Discount Code", "Brand", "Category",
		"Net Price (SGD)", "Net Price (MYR)", "Item Tax (SGD)", "Item Tax (MYR)",
		"Shipping Country", "Order #", "Quantity Ready", "Gender", "Image URL",
	}
	assert.Equal(t, want, table.Header)

	require.Len(t, table.Records, 1)
	record := table.Records[0]
	assert.Equal(t, "SG-003", record[1])
	assert.Equal(t, "1", record[2])
	assert.Equal(t, "50", record[6])
	assert.Equal(t, "165", record[7])
	assert.Equal(t, "#2004", record[11])
}
