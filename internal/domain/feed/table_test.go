package feed

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTable_HeaderOrder(t *testing.T) {
	table, err := BuildTable(nil)
	require.NoError(t, err)

	want := []string{
		"DIV", "Order Name", "Order Date", "Update Date", "Order Status",
		"Note", "Lineitem SKU", "Lineitem Alt SKU", "Lineitem Name",
		"Ord Qty", "Cancel Qty", "Vendor", "Shipping Method", "Currency",
		"Lineitem Price", "Lineitem Gross", "Discount Allocation",
		"Discount Code", "Tax Rate", "Taxes", "duties", "Shipping",
		"Sales Kind", "Country Code", "WH store",
	}
	assert.Equal(t, want, table.Header)
	assert.Empty(t, table.Records)
}

func TestFormatDiscount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"12.50", "-12.5"},
		{"0", "-0"},
		{"-3", "-0"},
		{"0.10", "-0.1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDiscount(decimal.RequireFromString(tt.in)), "input %s", tt.in)
	}
}

func TestFormatDuty(t *testing.T) {
	assert.Equal(t, "5.01", formatDuty(decimal.RequireFromString("5.01")))
	assert.Equal(t, `""`, formatDuty(decimal.Zero))
	assert.Equal(t, `""`, formatDuty(decimal.RequireFromString("-1")))
}

func TestFormatShipping(t *testing.T) {
	assert.Equal(t, "12.96", formatShipping(decimal.RequireFromString("12.96")))
	assert.Equal(t, "0", formatShipping(decimal.Zero))
	assert.Equal(t, "0", formatShipping(decimal.RequireFromString("-2")))
}

func TestBuildTable_Record(t *testing.T) {
	rows := Enrich([]Row{{
		OrderName:      "#1001",
		CreatedAt:      "2025-03-01T10:00:00Z",
		Closed:         true,
		SKU:            "SKU-A",
		ProductName:    "Item A",
		Quantity:       2,
		Vendor:         "Club21",
		Location:       "051-MAIN",
		Currency:       "SGD",
		OriginalTotal:  decimal.RequireFromString("100.00"),
		DiscountAmount: decimal.RequireFromString("12.50"),
	}})

	table, err := BuildTable(rows)
	require.NoError(t, err)
	require.Len(t, table.Records, 1)

	record := table.Records[0]
	byHeader := make(map[string]string, len(record))
	for i, h := range table.Header {
		byHeader[h] = record[i]
	}

	assert.Equal(t, "21", byHeader["DIV"])
	assert.Equal(t, "#1001", byHeader["Order Name"])
	assert.Equal(t, "03-01-2025 18:00", byHeader["Order Date"])
	assert.Equal(t, "closed", byHeader["Order Status"])
	assert.Equal(t, "SKU-A", byHeader["Lineitem SKU"])
	assert.Equal(t, "2", byHeader["Ord Qty"])
	assert.Equal(t, "0", byHeader["Cancel Qty"])
	assert.Equal(t, "87.5", byHeader["Lineitem Gross"])
	assert.Equal(t, "-12.5", byHeader["Discount Allocation"])
	assert.Equal(t, `""`, byHeader["duties"])
	assert.Equal(t, "0", byHeader["Shipping"])
	assert.Equal(t, "SA", byHeader["Sales Kind"])
	assert.Equal(t, "SG", byHeader["Country Code"])
	assert.Equal(t, "051", byHeader["WH store"])
}
