package feed

// RewriteGiftWrap handles the "PRE ORDER" pseudo-location after aggregation.
// Rows there with a non-positive adjusted total are non-billable placeholders
// and are dropped; the rest are rewritten into the fixed gift-wrap product
// line at the physical consolidation location. The input slice is left
// untouched.
func RewriteGiftWrap(rows []Row) []Row {
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		if row.AssignedLocation == PreOrderLocation {
			if !row.AdjustedDiscountedTotal.IsPositive() {
				continue
			}
			row.AssignedLocation = ConsolidationLocation
			row.SKU = GiftWrapSKU
			row.ProductName = GiftWrapName
			row.Vendor = GiftWrapVendor
			row.DiscountCode = ""
		}
		out = append(out, row)
	}
	return out
}
