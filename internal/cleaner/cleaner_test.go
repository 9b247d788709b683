package cleaner

import (
	"strconv"
	"testing"

	"cafesales/internal/core"
	"cafesales/internal/dataset"
)

func newTestCleaner() *Cleaner {
	return New(DefaultRules(), DefaultPolicy(), nil)
}

func rawRow(id, item, qty, price, total, payment, location, date string) dataset.RawRecord {
	return dataset.RawRecord{
		TransactionID:   id,
		Item:            item,
		Quantity:        qty,
		UnitPrice:       price,
		TotalSpent:      total,
		PaymentMethod:   payment,
		Location:        location,
		TransactionDate: date,
	}
}

func TestCleanRecomputesMissingTotal(t *testing.T) {
	// {item: Salad, qty: 2, price: 5.00, total: null, payment: "CASH "}
	// must come out as total 10.00, payment Cash.
	txs, report := newTestCleaner().Clean([]dataset.RawRecord{
		rawRow("TXN_1", "Salad", "2", "5.00", "", "CASH ", "In-store", "2023-03-01"),
	})
	if len(txs) != 1 {
		t.Fatalf("expected 1 row, got %d (dropped: %v)", len(txs), report.Dropped)
	}
	tx := txs[0]
	if tx.Total.StringFixed(2) != "10.00" {
		t.Errorf("expected total 10.00, got %s", tx.Total.StringFixed(2))
	}
	if tx.Payment != core.PaymentCash {
		t.Errorf("expected Cash, got %s", tx.Payment)
	}
	if report.Repaired[RepairRecomputedTotal] != 1 {
		t.Errorf("expected one recomputed total, got %v", report.Repaired)
	}
}

func TestCleanDropsRowMissingItem(t *testing.T) {
	txs, report := newTestCleaner().Clean([]dataset.RawRecord{
		rawRow("TXN_2", "", "1", "3.00", "3.00", "card", "In-store", "2023-03-01"),
	})
	if len(txs) != 0 {
		t.Fatalf("expected row to be dropped, got %d rows", len(txs))
	}
	if report.Dropped[DropMissingItem] != 1 {
		t.Errorf("expected missing_item drop, got %v", report.Dropped)
	}
}

func TestCleanOverridesInconsistentTotal(t *testing.T) {
	txs, _ := newTestCleaner().Clean([]dataset.RawRecord{
		rawRow("TXN_3", "Coffee", "3", "2.00", "5.55", "cash", "Takeaway", "2023-03-02"),
	})
	if len(txs) != 1 {
		t.Fatalf("expected 1 row, got %d", len(txs))
	}
	if txs[0].Total.StringFixed(2) != "6.00" {
		t.Errorf("recomputed product must win, got total %s", txs[0].Total.StringFixed(2))
	}
}

func TestCleanImputesPriceFromItem(t *testing.T) {
	txs, report := newTestCleaner().Clean([]dataset.RawRecord{
		rawRow("TXN_4", "Cake", "1", "3.00", "3.00", "cash", "In-store", "2023-03-01"),
		rawRow("TXN_5", "Cake", "1", "3.00", "3.00", "cash", "In-store", "2023-03-02"),
		rawRow("TXN_6", "cake", "2", "", "", "card", "Takeaway", "2023-03-03"),
	})
	if len(txs) != 3 {
		t.Fatalf("expected 3 rows, got %d (dropped: %v)", len(txs), report.Dropped)
	}
	imputed := txs[2]
	if imputed.UnitPrice.StringFixed(2) != "3.00" || imputed.Total.StringFixed(2) != "6.00" {
		t.Errorf("expected imputed price 3.00 / total 6.00, got %s / %s",
			imputed.UnitPrice.StringFixed(2), imputed.Total.StringFixed(2))
	}
	if report.Repaired[RepairImputedPrice] != 1 {
		t.Errorf("expected one imputed price, got %v", report.Repaired)
	}
}

func TestCleanDerivesQuantityFromTotal(t *testing.T) {
	txs, report := newTestCleaner().Clean([]dataset.RawRecord{
		rawRow("TXN_7", "Tea", "", "1.50", "4.50", "cash", "In-store", "2023-03-01"),
	})
	if len(txs) != 1 {
		t.Fatalf("expected 1 row, got %d (dropped: %v)", len(txs), report.Dropped)
	}
	if txs[0].Quantity != 3 {
		t.Errorf("expected derived quantity 3, got %d", txs[0].Quantity)
	}
}

func TestCleanDropsUnderivableQuantity(t *testing.T) {
	cases := []dataset.RawRecord{
		rawRow("TXN_8", "Tea", "", "1.50", "", "cash", "In-store", "2023-03-01"),
		rawRow("TXN_9", "Tea", "", "1.50", "4.00", "cash", "In-store", "2023-03-01"), // not divisible
	}
	txs, report := newTestCleaner().Clean(cases)
	if len(txs) != 0 {
		t.Fatalf("expected all rows dropped, got %d", len(txs))
	}
	if report.Dropped[DropMissingQuantity] != 2 {
		t.Errorf("expected 2 missing_quantity drops, got %v", report.Dropped)
	}
}

func TestCleanDropsBadDates(t *testing.T) {
	txs, report := newTestCleaner().Clean([]dataset.RawRecord{
		rawRow("TXN_10", "Coffee", "1", "2.00", "2.00", "cash", "In-store", "not a date"),
		rawRow("TXN_11", "Coffee", "1", "2.00", "2.00", "cash", "In-store", ""),
	})
	if len(txs) != 0 {
		t.Fatalf("expected all rows dropped, got %d", len(txs))
	}
	if report.Dropped[DropBadDate] != 2 {
		t.Errorf("expected 2 bad_date drops, got %v", report.Dropped)
	}
}

func TestCleanClassifiesPaymentAndLocation(t *testing.T) {
	txs, _ := newTestCleaner().Clean([]dataset.RawRecord{
		rawRow("TXN_12", "Coffee", "1", "2.00", "2.00", "Gift Voucher", "patio", "2023-03-01"),
		rawRow("TXN_13", "Coffee", "1", "2.00", "2.00", "ERROR", "ERROR", "2023-03-01"),
		rawRow("TXN_14", "Coffee", "1", "2.00", "2.00", "", "", "2023-03-01"),
	})
	if len(txs) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(txs))
	}
	expectations := []struct {
		payment  core.PaymentMethod
		location core.Location
	}{
		{core.PaymentUnknown, core.LocationUnknown},
		{core.PaymentError, core.LocationError},
		{core.PaymentUnknown, core.LocationUnknown},
	}
	for i, want := range expectations {
		if txs[i].Payment != want.payment {
			t.Errorf("row %d: expected payment %s, got %s", i, want.payment, txs[i].Payment)
		}
		if txs[i].Location != want.location {
			t.Errorf("row %d: expected location %s, got %s", i, want.location, txs[i].Location)
		}
	}
}

func TestCleanStripsCurrencyNoise(t *testing.T) {
	txs, _ := newTestCleaner().Clean([]dataset.RawRecord{
		rawRow("TXN_15", "Sandwich", "2", "$4.00", "$8.00", "card", "takeaway", "2023-03-01"),
	})
	if len(txs) != 1 {
		t.Fatalf("expected 1 row, got %d", len(txs))
	}
	if txs[0].UnitPrice.StringFixed(2) != "4.00" {
		t.Errorf("expected price 4.00, got %s", txs[0].UnitPrice.StringFixed(2))
	}
	if txs[0].Location != core.LocationTakeaway {
		t.Errorf("expected Takeaway, got %s", txs[0].Location)
	}
}

func TestCleanNeverInventsRows(t *testing.T) {
	records := []dataset.RawRecord{
		rawRow("TXN_16", "Coffee", "1", "2.00", "2.00", "cash", "In-store", "2023-03-01"),
		rawRow("TXN_17", "", "", "", "", "", "", ""),
		rawRow("TXN_18", "Tea", "x", "", "", "cash", "In-store", "2023-03-01"),
	}
	txs, report := newTestCleaner().Clean(records)
	if len(txs) > len(records) {
		t.Fatalf("cleaning invented rows: %d in, %d out", len(records), len(txs))
	}
	if report.RowsIn != len(records) || report.RowsKept != len(txs) {
		t.Errorf("report counts off: %+v", report)
	}
	if report.RowsKept+report.RowsDropped() != report.RowsIn {
		t.Errorf("kept %d + dropped %d != in %d", report.RowsKept, report.RowsDropped(), report.RowsIn)
	}
}

func TestCleanEveryRowSatisfiesInvariants(t *testing.T) {
	records := []dataset.RawRecord{
		rawRow("TXN_20", "  espresso  ", "2", "2.50", "", "CASH ", "take away", "2023-04-01"),
		rawRow("TXN_21", "Muffin", "1", "", "3.25", "gift", "in store", "2023-04-02"),
		rawRow("TXN_22", "Juice", "3", "3.00", "9.01", "digital wallet", "", "2023/04/03"),
	}
	txs, _ := newTestCleaner().Clean(records)
	if len(txs) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(txs))
	}
	for _, tx := range txs {
		if err := tx.Validate(); err != nil {
			t.Errorf("row %s violates invariants: %v", tx.ID, err)
		}
	}
	if txs[0].Item != "Espresso" {
		t.Errorf("expected normalized item Espresso, got %q", txs[0].Item)
	}
	if txs[0].Location != core.LocationTakeaway {
		t.Errorf("expected Takeaway for 'take away', got %s", txs[0].Location)
	}
}

// asRaw renders a cleaned transaction the way the cleaned file stores it.
func asRaw(tx core.Transaction) dataset.RawRecord {
	return dataset.RawRecord{
		TransactionID:   tx.ID,
		Item:            tx.Item,
		Quantity:        strconv.Itoa(tx.Quantity),
		UnitPrice:       tx.UnitPrice.StringFixed(2),
		TotalSpent:      tx.Total.StringFixed(2),
		PaymentMethod:   string(tx.Payment),
		Location:        string(tx.Location),
		TransactionDate: tx.Date.Key(),
	}
}

func TestCleanIsIdempotent(t *testing.T) {
	records := []dataset.RawRecord{
		rawRow("TXN_30", "Salad", "2", "5.00", "", "CASH ", "In-store", "2023-03-01"),
		rawRow("TXN_31", "coffee", "1", "$2.00", "2.00", "wallet", "take-away", "2023-03-02"),
		rawRow("TXN_32", "Cookie", "4", "1.25", "5.00", "ERROR", "unknown", "2023-03-03"),
	}
	c := newTestCleaner()
	first, _ := c.Clean(records)

	again := make([]dataset.RawRecord, len(first))
	for i, tx := range first {
		again[i] = asRaw(tx)
	}
	second, report := c.Clean(again)

	if len(second) != len(first) {
		t.Fatalf("second pass changed row count: %d -> %d (dropped: %v)", len(first), len(second), report.Dropped)
	}
	for i := range first {
		a, b := first[i], second[i]
		if a.ID != b.ID || a.Item != b.Item || a.Quantity != b.Quantity ||
			!a.UnitPrice.Equal(b.UnitPrice) || !a.Total.Equal(b.Total) ||
			a.Payment != b.Payment || a.Location != b.Location || !a.Date.Equal(b.Date.Time) {
			t.Errorf("row %d changed on second pass:\n first: %+v\nsecond: %+v", i, a, b)
		}
	}
}
