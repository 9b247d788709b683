// Package cleaner repairs the raw sales feed into a dataset whose rows all
// satisfy the Transaction invariants. The whole pass is a single synchronous
// batch over in-memory rows; bad rows are excluded and counted, never fatal.
package cleaner

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"cafesales/internal/core"
	"cafesales/internal/dataset"
)

type Cleaner struct {
	rules  Rules
	policy Policy
	logger *slog.Logger
}

func New(rules Rules, policy Policy, logger *slog.Logger) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{rules: rules, policy: policy, logger: logger}
}

// Clean runs the full repair pass. Output order follows input order, and the
// output can never contain more rows than the input. Running Clean on its
// own output changes nothing.
func (c *Cleaner) Clean(records []dataset.RawRecord) ([]core.Transaction, *Report) {
	report := newReport()
	report.RowsIn = len(records)

	prices := c.learnItemPrices(records)

	txs := make([]core.Transaction, 0, len(records))
	for i, rec := range records {
		tx, reason := c.cleanRow(rec, prices, report)
		if reason != "" {
			report.drop(reason)
			c.logger.Debug("row excluded",
				"row", i+1,
				"id", strings.TrimSpace(rec.TransactionID),
				"reason", reason)
			continue
		}
		txs = append(txs, tx)
	}
	report.RowsKept = len(txs)
	return txs, report
}

// cleanRow repairs one record. It returns a non-empty drop reason when the
// row cannot be salvaged under the current policy.
func (c *Cleaner) cleanRow(rec dataset.RawRecord, prices map[string]decimal.Decimal, report *Report) (core.Transaction, string) {
	id := strings.TrimSpace(rec.TransactionID)
	if c.rules.IsMissing(id) {
		return core.Transaction{}, DropMissingID
	}

	if c.rules.IsMissing(rec.Item) || c.rules.IsEntryError(rec.Item) {
		return core.Transaction{}, DropMissingItem
	}
	item := NormalizeItem(rec.Item)
	if item != strings.TrimSpace(rec.Item) {
		report.repair(RepairNormalizedItem)
	}

	date, err := dataset.ParseDate(rec.TransactionDate)
	if err != nil {
		return core.Transaction{}, DropBadDate
	}

	qty, qtyOK := c.parseQuantity(rec.Quantity)
	price, priceOK := c.parsePrice(rec.UnitPrice)
	total, totalOK := c.parsePrice(rec.TotalSpent)

	if !priceOK {
		switch {
		case c.policy.ImputePriceFromItem && !prices[item].IsZero():
			price = prices[item]
			priceOK = true
			report.repair(RepairImputedPrice)
		case c.policy.DerivePriceFromTotal && totalOK && qtyOK && qty > 0:
			price = total.Div(decimal.NewFromInt(int64(qty)))
			priceOK = true
			report.repair(RepairDerivedPrice)
		default:
			return core.Transaction{}, DropMissingPrice
		}
	}
	// Prices are cent-denominated; rounding here keeps the recomputed
	// total exact when the price was derived by division.
	price = price.Round(2)
	if !price.IsPositive() {
		return core.Transaction{}, DropBadPrice
	}

	if !qtyOK {
		if c.policy.DeriveQuantityFromTotal && totalOK && price.IsPositive() {
			q := total.Div(price)
			if q.IsInteger() && q.IntPart() >= 1 {
				qty = int(q.IntPart())
				qtyOK = true
				report.repair(RepairDerivedQuantity)
			}
		}
		if !qtyOK {
			return core.Transaction{}, DropMissingQuantity
		}
	}
	if qty < 1 {
		return core.Transaction{}, DropBadQuantity
	}

	// The product is authoritative: a stored total that disagrees with
	// quantity times unit price is replaced, not trusted.
	computed := price.Mul(decimal.NewFromInt(int64(qty)))
	if !totalOK || !total.Equal(computed) {
		report.repair(RepairRecomputedTotal)
	}

	payment := c.rules.ClassifyPayment(rec.PaymentMethod)
	if payment == core.PaymentUnknown && !c.rules.IsMissing(rec.PaymentMethod) {
		report.repair(RepairPaymentUnknown)
	}
	location := c.rules.ClassifyLocation(rec.Location)
	if location == core.LocationUnknown && !c.rules.IsMissing(rec.Location) {
		report.repair(RepairLocationUnknown)
	}

	return core.Transaction{
		ID:        id,
		Item:      item,
		Quantity:  qty,
		UnitPrice: price,
		Total:     computed,
		Payment:   payment,
		Location:  location,
		Date:      date,
	}, ""
}

// learnItemPrices builds the per-item modal unit price from rows where both
// item and price are trustworthy. Ties resolve to the lower price so the
// imputation is deterministic.
func (c *Cleaner) learnItemPrices(records []dataset.RawRecord) map[string]decimal.Decimal {
	counts := make(map[string]map[string]int)
	parsed := make(map[string]decimal.Decimal)

	for _, rec := range records {
		if c.rules.IsMissing(rec.Item) || c.rules.IsEntryError(rec.Item) {
			continue
		}
		price, ok := c.parsePrice(rec.UnitPrice)
		if !ok || !price.IsPositive() {
			continue
		}
		item := NormalizeItem(rec.Item)
		key := price.StringFixed(2)
		if counts[item] == nil {
			counts[item] = make(map[string]int)
		}
		counts[item][key]++
		parsed[key] = price
	}

	modal := make(map[string]decimal.Decimal, len(counts))
	for item, byPrice := range counts {
		var best decimal.Decimal
		bestCount := 0
		for key, n := range byPrice {
			price := parsed[key]
			if n > bestCount || (n == bestCount && price.LessThan(best)) {
				best = price
				bestCount = n
			}
		}
		modal[item] = best
	}
	return modal
}

// parseQuantity accepts integers and float strings with an integral value.
func (c *Cleaner) parseQuantity(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if c.rules.IsMissing(s) || c.rules.IsEntryError(s) {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}

// parsePrice strips currency noise ($ and thousands separators) before
// parsing; unparseable values count as missing so the repair policy decides.
func (c *Cleaner) parsePrice(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if c.rules.IsMissing(s) || c.rules.IsEntryError(s) {
		return decimal.Decimal{}, false
	}
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}
