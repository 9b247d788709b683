// Package report computes the aggregate views over the cleaned dataset and
// renders them as static chart images.
package report

import (
	"errors"
	"sort"

	"cafesales/internal/core"
)

// ErrEmptyDataset is returned when an aggregate is requested over zero rows.
var ErrEmptyDataset = errors.New("no transactions to aggregate")

// OtherShareThreshold folds payment methods under this share of all
// transactions into a single "Other" slice.
const OtherShareThreshold = 0.02

// Summarize computes the headline KPIs.
func Summarize(txs []core.Transaction) (core.Summary, error) {
	if len(txs) == 0 {
		return core.Summary{}, ErrEmptyDataset
	}
	var revenue int64
	for _, tx := range txs {
		revenue += tx.TotalCents()
	}
	return core.Summary{
		Revenue:        core.Money{Cents: revenue},
		Transactions:   len(txs),
		AvgTransaction: core.Money{Cents: revenue / int64(len(txs))},
	}, nil
}

// DailyTrend sums revenue per calendar day, ordered by date.
func DailyTrend(txs []core.Transaction) ([]core.DailySales, error) {
	if len(txs) == 0 {
		return nil, ErrEmptyDataset
	}
	byDay := make(map[string]*core.DailySales)
	for _, tx := range txs {
		key := tx.Date.Key()
		if byDay[key] == nil {
			byDay[key] = &core.DailySales{Date: tx.Date}
		}
		byDay[key].Revenue.Cents += tx.TotalCents()
	}
	out := make([]core.DailySales, 0, len(byDay))
	for _, d := range byDay {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date.Time) })
	return out, nil
}

// TopItems returns the n items with the highest revenue, descending. Rows
// whose item reads Unknown or Error are excluded from the ranking.
func TopItems(txs []core.Transaction, n int) ([]core.ItemRevenue, error) {
	if len(txs) == 0 {
		return nil, ErrEmptyDataset
	}
	byItem := make(map[string]int64)
	for _, tx := range txs {
		if tx.Item == "Unknown" || tx.Item == "Error" {
			continue
		}
		byItem[tx.Item] += tx.TotalCents()
	}
	out := make([]core.ItemRevenue, 0, len(byItem))
	for item, cents := range byItem {
		out = append(out, core.ItemRevenue{Item: item, Revenue: core.Money{Cents: cents}})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Revenue.Cents != out[j].Revenue.Cents {
			return out[i].Revenue.Cents > out[j].Revenue.Cents
		}
		return out[i].Item < out[j].Item
	})
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// SalesByLocation sums revenue per channel, sentinel channels excluded,
// ordered by revenue descending.
func SalesByLocation(txs []core.Transaction) ([]core.LocationRevenue, error) {
	if len(txs) == 0 {
		return nil, ErrEmptyDataset
	}
	byLocation := make(map[core.Location]int64)
	for _, tx := range txs {
		if tx.Location == core.LocationUnknown || tx.Location == core.LocationError {
			continue
		}
		byLocation[tx.Location] += tx.TotalCents()
	}
	out := make([]core.LocationRevenue, 0, len(byLocation))
	for loc, cents := range byLocation {
		out = append(out, core.LocationRevenue{Location: loc, Revenue: core.Money{Cents: cents}})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Revenue.Cents != out[j].Revenue.Cents {
			return out[i].Revenue.Cents > out[j].Revenue.Cents
		}
		return out[i].Location < out[j].Location
	})
	return out, nil
}

// ChannelShares reports the relative frequency of each channel over all
// rows, sentinels included, so proportions in the raw mix survive exactly.
func ChannelShares(txs []core.Transaction) ([]core.PaymentShare, error) {
	if len(txs) == 0 {
		return nil, ErrEmptyDataset
	}
	counts := make(map[string]int)
	for _, tx := range txs {
		counts[string(tx.Location)]++
	}
	return sharesFromCounts(counts, len(txs)), nil
}

// PaymentDistribution reports the share of each payment method among rows
// with a known method. Unknown and Error rows are excluded, and methods
// below OtherShareThreshold fold into "Other".
func PaymentDistribution(txs []core.Transaction) ([]core.PaymentShare, error) {
	if len(txs) == 0 {
		return nil, ErrEmptyDataset
	}
	counts := make(map[string]int)
	total := 0
	for _, tx := range txs {
		if tx.Payment == core.PaymentUnknown || tx.Payment == core.PaymentError {
			continue
		}
		counts[string(tx.Payment)]++
		total++
	}
	if total == 0 {
		return nil, ErrEmptyDataset
	}

	shares := sharesFromCounts(counts, total)
	out := make([]core.PaymentShare, 0, len(shares))
	other := core.PaymentShare{Method: "Other"}
	for _, s := range shares {
		if s.Share < OtherShareThreshold {
			other.Count += s.Count
			other.Share += s.Share
			continue
		}
		out = append(out, s)
	}
	if other.Count > 0 {
		out = append(out, other)
	}
	return out, nil
}

func sharesFromCounts(counts map[string]int, total int) []core.PaymentShare {
	out := make([]core.PaymentShare, 0, len(counts))
	for name, n := range counts {
		out = append(out, core.PaymentShare{
			Method: name,
			Count:  n,
			Share:  float64(n) / float64(total),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Method < out[j].Method
	})
	return out
}
