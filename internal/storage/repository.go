// Package storage keeps a SQLite snapshot of the cleaned dataset so the
// dashboard can run filtered aggregate queries without re-reading the file.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cafesales/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ReplaceAll swaps the warehouse content for a fresh snapshot of the
// cleaned dataset inside one transaction.
func (r *SQLiteRepository) ReplaceAll(ctx context.Context, txs []core.Transaction) error {
	dbtx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer dbtx.Rollback()

	if _, err := dbtx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}

	stmt, err := dbtx.PrepareContext(ctx, `
		INSERT INTO transactions
			(id, item, quantity, unit_price_cents, total_cents, payment_method, location, transaction_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, tx := range txs {
		_, err := stmt.ExecContext(ctx,
			tx.ID, tx.Item, tx.Quantity,
			tx.UnitPriceCents(), tx.TotalCents(),
			string(tx.Payment), string(tx.Location), tx.Date.Key())
		if err != nil {
			return fmt.Errorf("insert transaction %s: %w", tx.ID, err)
		}
	}

	if err := dbtx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}

	slog.InfoContext(ctx, "Warehouse snapshot replaced", "rows", len(txs))
	return nil
}

// Filter narrows aggregate queries. Zero times mean unbounded; empty slices
// mean no restriction on that column.
type Filter struct {
	From      time.Time
	To        time.Time
	Locations []string
	Payments  []string
}

// Key is a stable cache key for the filter.
func (f Filter) Key() string {
	var b strings.Builder
	if !f.From.IsZero() {
		b.WriteString(f.From.Format("2006-01-02"))
	}
	b.WriteByte('|')
	if !f.To.IsZero() {
		b.WriteString(f.To.Format("2006-01-02"))
	}
	b.WriteByte('|')
	b.WriteString(strings.Join(f.Locations, ","))
	b.WriteByte('|')
	b.WriteString(strings.Join(f.Payments, ","))
	return b.String()
}

// where builds the WHERE clause (with leading keyword) and its arguments.
func (f Filter) where() (string, []any) {
	var conds []string
	var args []any
	if !f.From.IsZero() {
		conds = append(conds, "transaction_date >= ?")
		args = append(args, f.From.Format("2006-01-02"))
	}
	if !f.To.IsZero() {
		conds = append(conds, "transaction_date <= ?")
		args = append(args, f.To.Format("2006-01-02"))
	}
	if len(f.Locations) > 0 {
		conds = append(conds, "location IN ("+placeholders(len(f.Locations))+")")
		for _, l := range f.Locations {
			args = append(args, l)
		}
	}
	if len(f.Payments) > 0 {
		conds = append(conds, "payment_method IN ("+placeholders(len(f.Payments))+")")
		for _, p := range f.Payments {
			args = append(args, p)
		}
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// Summary returns the headline KPIs for the filtered rows.
func (r *SQLiteRepository) Summary(ctx context.Context, f Filter) (core.Summary, error) {
	where, args := f.where()
	row := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(total_cents), 0) FROM transactions`+where, args...)

	var s core.Summary
	if err := row.Scan(&s.Transactions, &s.Revenue.Cents); err != nil {
		return core.Summary{}, fmt.Errorf("summary query: %w", err)
	}
	if s.Transactions > 0 {
		s.AvgTransaction.Cents = s.Revenue.Cents / int64(s.Transactions)
	}
	return s, nil
}

// DailyTrend returns per-day revenue for the filtered rows, ordered by day.
func (r *SQLiteRepository) DailyTrend(ctx context.Context, f Filter) ([]core.DailySales, error) {
	where, args := f.where()
	rows, err := r.db.QueryContext(ctx,
		`SELECT transaction_date, SUM(total_cents) FROM transactions`+where+
			` GROUP BY transaction_date ORDER BY transaction_date`, args...)
	if err != nil {
		return nil, fmt.Errorf("daily trend query: %w", err)
	}
	defer rows.Close()

	var out []core.DailySales
	for rows.Next() {
		var day string
		var d core.DailySales
		if err := rows.Scan(&day, &d.Revenue.Cents); err != nil {
			return nil, fmt.Errorf("scan daily trend: %w", err)
		}
		t, err := time.Parse("2006-01-02", day)
		if err != nil {
			return nil, fmt.Errorf("parse stored date %q: %w", day, err)
		}
		d.Date = core.Date{Time: t}
		out = append(out, d)
	}
	return out, rows.Err()
}

// TopItems returns the n highest-revenue items among the filtered rows.
func (r *SQLiteRepository) TopItems(ctx context.Context, f Filter, n int) ([]core.ItemRevenue, error) {
	where, args := f.where()
	args = append(args, n)
	rows, err := r.db.QueryContext(ctx,
		`SELECT item, SUM(total_cents) AS revenue FROM transactions`+where+
			` GROUP BY item ORDER BY revenue DESC, item LIMIT ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("top items query: %w", err)
	}
	defer rows.Close()

	var out []core.ItemRevenue
	for rows.Next() {
		var it core.ItemRevenue
		if err := rows.Scan(&it.Item, &it.Revenue.Cents); err != nil {
			return nil, fmt.Errorf("scan top items: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// SalesByLocation returns revenue per channel among the filtered rows.
func (r *SQLiteRepository) SalesByLocation(ctx context.Context, f Filter) ([]core.LocationRevenue, error) {
	where, args := f.where()
	rows, err := r.db.QueryContext(ctx,
		`SELECT location, SUM(total_cents) AS revenue FROM transactions`+where+
			` GROUP BY location ORDER BY revenue DESC, location`, args...)
	if err != nil {
		return nil, fmt.Errorf("sales by location query: %w", err)
	}
	defer rows.Close()

	var out []core.LocationRevenue
	for rows.Next() {
		var lr core.LocationRevenue
		var loc string
		if err := rows.Scan(&loc, &lr.Revenue.Cents); err != nil {
			return nil, fmt.Errorf("scan sales by location: %w", err)
		}
		lr.Location = core.Location(loc)
		out = append(out, lr)
	}
	return out, rows.Err()
}

// PaymentShares returns the payment method mix of the filtered rows.
func (r *SQLiteRepository) PaymentShares(ctx context.Context, f Filter) ([]core.PaymentShare, error) {
	where, args := f.where()
	rows, err := r.db.QueryContext(ctx,
		`SELECT payment_method, COUNT(*) AS n FROM transactions`+where+
			` GROUP BY payment_method ORDER BY n DESC, payment_method`, args...)
	if err != nil {
		return nil, fmt.Errorf("payment shares query: %w", err)
	}
	defer rows.Close()

	var out []core.PaymentShare
	total := 0
	for rows.Next() {
		var s core.PaymentShare
		if err := rows.Scan(&s.Method, &s.Count); err != nil {
			return nil, fmt.Errorf("scan payment shares: %w", err)
		}
		total += s.Count
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Share = float64(out[i].Count) / float64(total)
	}
	return out, nil
}

// DateBounds returns the earliest and latest transaction dates in the
// warehouse, for seeding the dashboard's default date range. ok is false
// when the warehouse is empty.
func (r *SQLiteRepository) DateBounds(ctx context.Context) (min, max time.Time, ok bool, err error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MIN(transaction_date), ''), COALESCE(MAX(transaction_date), '') FROM transactions`)

	var lo, hi string
	if err := row.Scan(&lo, &hi); err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("date bounds query: %w", err)
	}
	if lo == "" || hi == "" {
		return time.Time{}, time.Time{}, false, nil
	}
	min, err = time.Parse("2006-01-02", lo)
	if err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("parse min date %q: %w", lo, err)
	}
	max, err = time.Parse("2006-01-02", hi)
	if err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("parse max date %q: %w", hi, err)
	}
	return min, max, true, nil
}
