package feed

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Aggregate consolidates virtual duty/tax and shipping locations.
//
// Rows are grouped by order name, preserving first-appearance order. An order
// participates in synthesis when any of its rows sits at the "888" or "999"
// virtual location. For a participating order the totals subset is its rows
// at {"051", "888", "999"}; when the subset is empty the whole order is
// skipped with a warning and none of its rows are emitted. Otherwise a
// synthetic "Duties & Taxes" row is emitted when the summed duty is positive
// and a synthetic "Delivery" row when the maximum shipping total is positive.
// All original "888"/"999" rows are dropped; everything else is kept
// unchanged, with the synthetic rows appended after the order's retained
// rows. Orders without virtual rows pass through untouched.
func Aggregate(rows []Row, logger *zap.Logger) []Row {
	if logger == nil {
		logger = zap.NewNop()
	}

	names := make([]string, 0)
	groups := make(map[string][]Row)
	for _, row := range rows {
		if _, seen := groups[row.OrderName]; !seen {
			names = append(names, row.OrderName)
		}
		groups[row.OrderName] = append(groups[row.OrderName], row)
	}

	out := make([]Row, 0, len(rows))
	for _, name := range names {
		out = append(out, consolidateOrder(name, groups[name], logger)...)
	}
	return out
}

// consolidateOrder applies the synthesis rule to the rows of one order.
func consolidateOrder(name string, rows []Row, logger *zap.Logger) []Row {
	if !hasVirtualLocation(rows) {
		return rows
	}

	subset := make([]Row, 0, len(rows))
	for _, row := range rows {
		switch row.AssignedLocation {
		case ConsolidationLocation, DutyLocation, TaxLocation:
			subset = append(subset, row)
		}
	}
	if len(subset) == 0 {
		// TODO: confirm with the business whether an order whose only
		// virtual rows sit outside the totals subset should really be
		// dropped wholesale.
		logger.Warn("Order with virtual location has no rows in totals subset, skipping order",
			zap.String("order_name", name),
		)
		return nil
	}

	kept := make([]Row, 0, len(rows)+2)
	for _, row := range rows {
		if row.AssignedLocation == DutyLocation || row.AssignedLocation == TaxLocation {
			continue
		}
		kept = append(kept, row)
	}

	dutySum := decimal.Zero
	dutyTaxSum := decimal.Zero
	maxShipping := decimal.Zero
	for _, row := range subset {
		dutySum = dutySum.Add(row.TotalDuty)
		dutyTaxSum = dutyTaxSum.Add(row.DutyTax)
		if row.TotalShipping.GreaterThan(maxShipping) {
			maxShipping = row.TotalShipping
		}
	}

	if dutySum.IsPositive() {
		row := syntheticRow(subset[0], DutySKU, DutyName)
		row.AdjustedDiscountedTotal = dutySum
		row.TotalTax = dutyTaxSum.Round(2)
		kept = append(kept, row)
	}
	// Shipping is assumed identical across a split order's legs; the max
	// guards against partial-zero artifacts.
	if maxShipping.IsPositive() {
		row := syntheticRow(subset[0], DeliverySKU, DeliveryName)
		row.AdjustedDiscountedTotal = maxShipping
		kept = append(kept, row)
	}

	return kept
}

// hasVirtualLocation reports whether any row sits at a virtual location.
func hasVirtualLocation(rows []Row) bool {
	for _, row := range rows {
		if row.AssignedLocation == DutyLocation || row.AssignedLocation == TaxLocation {
			return true
		}
	}
	return false
}

// syntheticRow builds a consolidated pseudo line item carrying the order's
// shared descriptive fields from seed, with every derived monetary field
// zeroed until the caller sets the one it represents.
func syntheticRow(seed Row, sku, name string) Row {
	row := seed
	row.SKU = sku
	row.AltSKU = ""
	row.ProductName = name
	row.Quantity = 1
	row.QuantityCancel = 0
	row.DiscountCode = ""
	row.AssignedLocation = ConsolidationLocation
	row.AdjustedDiscountedTotal = decimal.Zero
	row.OriginalTotal = decimal.Zero
	row.DiscountedTotal = decimal.Zero
	row.DiscountAmount = decimal.Zero
	row.TaxRate = decimal.Zero
	row.TaxAmount = decimal.Zero
	row.TotalTax = decimal.Zero
	row.TotalDuty = decimal.Zero
	row.TotalShipping = decimal.Zero
	row.DutyAmount = decimal.Zero
	row.DutyTax = decimal.Zero
	return row
}
