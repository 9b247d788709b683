package cleaner

// Policy controls how null repair trades dropping rows against imputing
// values. The thresholds are deliberately configuration, not code: the feed
// upstream never pinned them down, so callers can tighten or loosen repair
// without touching the pass itself.
type Policy struct {
	// ImputePriceFromItem fills a missing unit price with the modal price
	// observed for the same item elsewhere in the dataset.
	ImputePriceFromItem bool

	// DerivePriceFromTotal fills a missing unit price from total/quantity
	// when both are present.
	DerivePriceFromTotal bool

	// DeriveQuantityFromTotal fills a missing quantity from total/price
	// when the division is exact.
	DeriveQuantityFromTotal bool
}

// DefaultPolicy drops rows missing identifying fields (item, quantity) and
// imputes unit price where the rest of the dataset makes that feasible.
func DefaultPolicy() Policy {
	return Policy{
		ImputePriceFromItem:     true,
		DerivePriceFromTotal:    true,
		DeriveQuantityFromTotal: true,
	}
}
