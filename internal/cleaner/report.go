package cleaner

// Drop reasons recorded in the run report.
const (
	DropMissingID       = "missing_id"
	DropMissingItem     = "missing_item"
	DropMissingQuantity = "missing_quantity"
	DropBadQuantity     = "bad_quantity"
	DropMissingPrice    = "missing_price"
	DropBadPrice        = "bad_price"
	DropBadDate         = "bad_date"
)

// Repair kinds recorded in the run report.
const (
	RepairImputedPrice     = "imputed_price"
	RepairDerivedPrice     = "derived_price"
	RepairDerivedQuantity  = "derived_quantity"
	RepairRecomputedTotal  = "recomputed_total"
	RepairPaymentUnknown   = "payment_to_unknown"
	RepairLocationUnknown  = "location_to_unknown"
	RepairNormalizedItem   = "normalized_item"
)

// Report is the audit trail of one cleaning run: how many rows went in, how
// many survived, and why the rest were excluded. Row exclusion is logged and
// counted here, never raised as an error.
type Report struct {
	RowsIn   int
	RowsKept int
	Dropped  map[string]int
	Repaired map[string]int
}

func newReport() *Report {
	return &Report{
		Dropped:  make(map[string]int),
		Repaired: make(map[string]int),
	}
}

// RowsDropped is the total number of excluded rows.
func (r *Report) RowsDropped() int {
	n := 0
	for _, c := range r.Dropped {
		n += c
	}
	return n
}

func (r *Report) drop(reason string) {
	r.Dropped[reason]++
}

func (r *Report) repair(kind string) {
	r.Repaired[kind]++
}
