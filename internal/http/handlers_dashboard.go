package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"cafesales/internal/core"
	"cafesales/internal/storage"
)

const queryTimeout = 7 * time.Second

type optionView struct {
	Name    string
	Checked bool
}

type rowView struct {
	Name  string
	Value string
}

type shareView struct {
	Method string
	Count  int
	Share  string
}

type dashboardView struct {
	From    string
	To      string
	MinDate string
	MaxDate string

	Locations []optionView
	Payments  []optionView

	HasData        bool
	Revenue        string
	Transactions   int
	AvgTransaction string

	Trend           []rowView
	TopItems        []rowView
	SalesByLocation []rowView
	PaymentMix      []shareView
}

// handleDashboard renders the full dashboard page for the current filter.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	f := parseFilter(r)
	view := dashboardView{
		Locations: options(core.KnownLocations(), f.Locations),
		Payments:  paymentOptions(core.KnownPaymentMethods(), f.Payments),
	}
	if !f.From.IsZero() {
		view.From = f.From.Format("2006-01-02")
	}
	if !f.To.IsZero() {
		view.To = f.To.Format("2006-01-02")
	}
	if min, max, ok, err := s.store.DateBounds(ctx); err == nil && ok {
		view.MinDate = min.Format("2006-01-02")
		view.MaxDate = max.Format("2006-01-02")
	}

	summary, err := s.cachedSummary(ctx, f)
	if err != nil {
		slog.ErrorContext(ctx, "Dashboard summary failed", "error", err)
		http.Error(w, "failed to load summary", http.StatusInternalServerError)
		return
	}
	view.HasData = summary.Transactions > 0
	view.Revenue = formatDollars(summary.Revenue.Cents)
	view.Transactions = summary.Transactions
	view.AvgTransaction = formatDollars(summary.AvgTransaction.Cents)

	if view.HasData {
		trend, err := s.cachedTrend(ctx, f)
		if err != nil {
			slog.ErrorContext(ctx, "Dashboard trend failed", "error", err)
			http.Error(w, "failed to load trend", http.StatusInternalServerError)
			return
		}
		for _, d := range trend {
			view.Trend = append(view.Trend, rowView{Name: d.Date.Key(), Value: formatDollars(d.Revenue.Cents)})
		}

		items, err := s.store.TopItems(ctx, f, 3)
		if err != nil {
			slog.ErrorContext(ctx, "Dashboard top items failed", "error", err)
			http.Error(w, "failed to load items", http.StatusInternalServerError)
			return
		}
		for _, it := range items {
			view.TopItems = append(view.TopItems, rowView{Name: it.Item, Value: formatDollars(it.Revenue.Cents)})
		}

		locations, err := s.store.SalesByLocation(ctx, f)
		if err != nil {
			slog.ErrorContext(ctx, "Dashboard locations failed", "error", err)
			http.Error(w, "failed to load locations", http.StatusInternalServerError)
			return
		}
		for _, lr := range locations {
			view.SalesByLocation = append(view.SalesByLocation, rowView{Name: string(lr.Location), Value: formatDollars(lr.Revenue.Cents)})
		}

		shares, err := s.store.PaymentShares(ctx, f)
		if err != nil {
			slog.ErrorContext(ctx, "Dashboard payments failed", "error", err)
			http.Error(w, "failed to load payments", http.StatusInternalServerError)
			return
		}
		for _, sh := range shares {
			view.PaymentMix = append(view.PaymentMix, shareView{Method: sh.Method, Count: sh.Count, Share: formatPercent(sh.Share)})
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "dashboard_page", view); err != nil {
		slog.ErrorContext(ctx, "Dashboard template execution failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	summary, err := s.cachedSummary(ctx, parseFilter(r))
	if err != nil {
		slog.ErrorContext(ctx, "Summary query failed", "error", err)
		http.Error(w, "failed to load summary", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"revenue_cents":         summary.Revenue.Cents,
		"transactions":          summary.Transactions,
		"avg_transaction_cents": summary.AvgTransaction.Cents,
	})
}

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	trend, err := s.cachedTrend(ctx, parseFilter(r))
	if err != nil {
		slog.ErrorContext(ctx, "Trend query failed", "error", err)
		http.Error(w, "failed to load trend", http.StatusInternalServerError)
		return
	}
	type point struct {
		Date         string `json:"date"`
		RevenueCents int64  `json:"revenue_cents"`
	}
	out := make([]point, 0, len(trend))
	for _, d := range trend {
		out = append(out, point{Date: d.Date.Key(), RevenueCents: d.Revenue.Cents})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleTopItems(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	items, err := s.store.TopItems(ctx, parseFilter(r), 3)
	if err != nil {
		slog.ErrorContext(ctx, "Top items query failed", "error", err)
		http.Error(w, "failed to load items", http.StatusInternalServerError)
		return
	}
	type row struct {
		Item         string `json:"item"`
		RevenueCents int64  `json:"revenue_cents"`
	}
	out := make([]row, 0, len(items))
	for _, it := range items {
		out = append(out, row{Item: it.Item, RevenueCents: it.Revenue.Cents})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleLocations(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	locations, err := s.store.SalesByLocation(ctx, parseFilter(r))
	if err != nil {
		slog.ErrorContext(ctx, "Locations query failed", "error", err)
		http.Error(w, "failed to load locations", http.StatusInternalServerError)
		return
	}
	type row struct {
		Location     string `json:"location"`
		RevenueCents int64  `json:"revenue_cents"`
	}
	out := make([]row, 0, len(locations))
	for _, lr := range locations {
		out = append(out, row{Location: string(lr.Location), RevenueCents: lr.Revenue.Cents})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handlePayments(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	shares, err := s.store.PaymentShares(ctx, parseFilter(r))
	if err != nil {
		slog.ErrorContext(ctx, "Payments query failed", "error", err)
		http.Error(w, "failed to load payments", http.StatusInternalServerError)
		return
	}
	type row struct {
		Method string  `json:"method"`
		Count  int     `json:"count"`
		Share  float64 `json:"share"`
	}
	out := make([]row, 0, len(shares))
	for _, sh := range shares {
		out = append(out, row{Method: sh.Method, Count: sh.Count, Share: sh.Share})
	}
	writeJSON(w, http.StatusOK, out)
}

func requireGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func (s *Server) cachedSummary(ctx context.Context, f storage.Filter) (core.Summary, error) {
	key := f.Key()
	if v, ok := s.summaryCache.Get(key); ok {
		return v, nil
	}
	v, err := s.store.Summary(ctx, f)
	if err != nil {
		return core.Summary{}, err
	}
	s.summaryCache.Set(key, v)
	return v, nil
}

func (s *Server) cachedTrend(ctx context.Context, f storage.Filter) ([]core.DailySales, error) {
	key := f.Key()
	if v, ok := s.trendCache.Get(key); ok {
		return v, nil
	}
	v, err := s.store.DailyTrend(ctx, f)
	if err != nil {
		return nil, err
	}
	s.trendCache.Set(key, v)
	return v, nil
}

func options(all []core.Location, selected []string) []optionView {
	chosen := make(map[string]bool, len(selected))
	for _, s := range selected {
		chosen[s] = true
	}
	out := make([]optionView, 0, len(all))
	for _, l := range all {
		out = append(out, optionView{Name: string(l), Checked: chosen[string(l)]})
	}
	return out
}

func paymentOptions(all []core.PaymentMethod, selected []string) []optionView {
	chosen := make(map[string]bool, len(selected))
	for _, s := range selected {
		chosen[s] = true
	}
	out := make([]optionView, 0, len(all))
	for _, p := range all {
		out = append(out, optionView{Name: string(p), Checked: chosen[string(p)]})
	}
	return out
}
