// Package dataset reads and writes the raw and cleaned sales files.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"cafesales/internal/core"
)

var (
	// ErrLoad indicates the input file is missing or structurally unreadable.
	ErrLoad = errors.New("dataset load failed")
	// ErrWrite indicates the output file could not be written.
	ErrWrite = errors.New("dataset write failed")
)

// RawRecord is one row of the raw file, untouched strings only. Cleaning
// decides what each field means.
type RawRecord struct {
	TransactionID   string
	Item            string
	Quantity        string
	UnitPrice       string
	TotalSpent      string
	PaymentMethod   string
	Location        string
	TransactionDate string
}

// CleanedHeader is the column layout of the cleaned file. weekday and month
// are derived columns kept for spreadsheet convenience.
var CleanedHeader = []string{
	"id", "item", "quantity", "unit_price", "total_sale",
	"payment_method", "location", "transaction_date", "weekday", "month",
}

// column aliases; header names are matched after lowercasing and stripping
// spaces and underscores, so "Transaction ID", "transaction_id" and "id"
// all resolve to the same column.
var columnAliases = map[string]string{
	"transactionid":   "id",
	"id":              "id",
	"item":            "item",
	"quantity":        "quantity",
	"priceperunit":    "unit_price",
	"unitprice":       "unit_price",
	"totalspent":      "total_sale",
	"totalsale":       "total_sale",
	"paymentmethod":   "payment_method",
	"location":        "location",
	"transactiondate": "transaction_date",
	"date":            "transaction_date",
}

func normalizeHeader(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " ", "")
	name = strings.ReplaceAll(name, "_", "")
	return name
}

// Load parses a raw (or previously cleaned) sales file into RawRecords.
// Unknown columns are ignored; short rows are padded with empty fields so
// the cleaning pass can decide row by row what to drop.
func Load(path string) ([]RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrLoad, path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: read header of %s: %v", ErrLoad, path, err)
	}

	index := make(map[string]int)
	for i, name := range header {
		if canonical, ok := columnAliases[normalizeHeader(name)]; ok {
			index[canonical] = i
		}
	}
	for _, required := range []string{"id", "item", "quantity", "unit_price"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("%w: %s has no recognizable %q column", ErrLoad, path, required)
		}
	}

	field := func(row []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var records []RawRecord
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", ErrLoad, path, err)
		}
		records = append(records, RawRecord{
			TransactionID:   field(row, "id"),
			Item:            field(row, "item"),
			Quantity:        field(row, "quantity"),
			UnitPrice:       field(row, "unit_price"),
			TotalSpent:      field(row, "total_sale"),
			PaymentMethod:   field(row, "payment_method"),
			Location:        field(row, "location"),
			TransactionDate: field(row, "transaction_date"),
		})
	}
	return records, nil
}

// Save writes cleaned transactions to path, creating parent directories.
func Save(path string, txs []core.Transaction) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("%w: create directory for %s: %v", ErrWrite, path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: create %s: %v", ErrWrite, path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(CleanedHeader); err != nil {
		return fmt.Errorf("%w: write header: %v", ErrWrite, err)
	}
	for _, tx := range txs {
		row := []string{
			tx.ID,
			tx.Item,
			strconv.Itoa(tx.Quantity),
			tx.UnitPrice.StringFixed(2),
			tx.Total.StringFixed(2),
			string(tx.Payment),
			string(tx.Location),
			tx.Date.Key(),
			tx.Date.Weekday().String(),
			tx.Date.Month().String(),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("%w: write row %s: %v", ErrWrite, tx.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("%w: flush %s: %v", ErrWrite, path, err)
	}
	return nil
}

// LoadCleaned parses a cleaned file back into transactions. Unlike Load it
// is strict: the cleaned file is this project's own output and any invalid
// row is a real fault.
func LoadCleaned(path string) ([]core.Transaction, error) {
	records, err := Load(path)
	if err != nil {
		return nil, err
	}

	txs := make([]core.Transaction, 0, len(records))
	for i, rec := range records {
		qty, err := strconv.Atoi(rec.Quantity)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: quantity %q: %v", ErrLoad, i+1, rec.Quantity, err)
		}
		unitPrice, err := decimal.NewFromString(rec.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: unit price %q: %v", ErrLoad, i+1, rec.UnitPrice, err)
		}
		total, err := decimal.NewFromString(rec.TotalSpent)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: total %q: %v", ErrLoad, i+1, rec.TotalSpent, err)
		}
		date, err := ParseDate(rec.TransactionDate)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: date %q: %v", ErrLoad, i+1, rec.TransactionDate, err)
		}
		tx := core.Transaction{
			ID:        rec.TransactionID,
			Item:      rec.Item,
			Quantity:  qty,
			UnitPrice: unitPrice,
			Total:     total,
			Payment:   core.PaymentMethod(rec.PaymentMethod),
			Location:  core.Location(rec.Location),
			Date:      date,
		}
		if err := tx.Validate(); err != nil {
			return nil, fmt.Errorf("%w: row %d (%s): %v", ErrLoad, i+1, tx.ID, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// dateLayouts are the formats the raw feed has been seen to use.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
	"02-01-2006",
}

// ParseDate tries each known layout and truncates to midnight UTC.
func ParseDate(s string) (core.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return core.Date{}, core.ErrInvalidDate
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return core.NewDate(t.Year(), int(t.Month()), t.Day()), nil
		}
	}
	return core.Date{}, core.ErrInvalidDate
}
