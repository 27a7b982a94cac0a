package feed

import (
	"sync"
	"time"
)

// businessTimeOffset shifts source UTC timestamps into the business timezone.
// Baked in, not configurable.
const businessTimeOffset = 8 * time.Hour

// orderDateLayout is the presentation layout for order timestamps.
const orderDateLayout = "01-02-2006 15:04"

// Enrich applies the pure per-row derivations: normalized warehouse code,
// categorical order status and shipping method, business-local timestamps and
// the rounded monetary aggregates. Rounding is half away from zero at two
// decimal places.
func Enrich(rows []Row) []Row {
	for i := range rows {
		row := &rows[i]

		row.Div = DivCode
		row.SalesKind = SalesKind
		row.CountryCode = CountryCode
		row.QuantityCancel = 0

		row.AssignedLocation = LocationCode(row.Location)

		if row.Closed {
			row.OrderStatus = "closed"
		} else {
			row.OrderStatus = "open"
		}
		if row.RequiresShipping {
			row.ShippingMethod = "shipping"
		} else {
			row.ShippingMethod = "no"
		}

		row.OrderDate = businessTime(row.CreatedAt)
		row.UpdateDate = businessTime(row.UpdatedAt)

		row.AdjustedDiscountedTotal = row.OriginalTotal.Sub(row.DiscountAmount).Round(2)
		row.TotalTax = row.TaxAmount.Round(2)
		row.TotalDuty = row.DutyAmount.Add(row.DutyTax).Round(2)
		row.TotalShipping = row.ShippingPrice.Add(row.ShippingTax).Round(2)
	}
	return rows
}

// businessTime shifts an RFC3339 source timestamp by the fixed business
// offset and renders it as MM-DD-YYYY HH:MM. Unparseable input passes through
// unchanged so a malformed timestamp never drops a row.
func businessTime(value string) string {
	if value == "" {
		return ""
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return value
	}
	return t.UTC().Add(businessTimeOffset).Format(orderDateLayout)
}

// locationCodes memoizes LocationCode results. The mapping is a stateless
// pure function, so the cache never invalidates.
var locationCodes sync.Map

// LocationCode normalizes a raw assigned-location name to its warehouse code:
// the leading digits when the name starts with digits ("051-MAIN" -> "051"),
// otherwise the name unchanged (covers virtual sentinels like "PRE ORDER").
// Idempotent: applying it twice equals applying it once.
func LocationCode(name string) string {
	if cached, ok := locationCodes.Load(name); ok {
		return cached.(string)
	}
	end := 0
	for end < len(name) && name[end] >= '0' && name[end] <= '9' {
		end++
	}
	code := name
	if end > 0 {
		code = name[:end]
	}
	locationCodes.Store(name, code)
	return code
}
