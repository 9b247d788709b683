package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"cafesales/internal/storage"
)

// parseFilter extracts the dashboard filter from query parameters:
// from/to as YYYY-MM-DD, location and payment as repeatable values.
// Unparseable dates are ignored rather than rejected; a bad filter should
// widen the view, not break the page.
func parseFilter(r *http.Request) storage.Filter {
	q := r.URL.Query()
	var f storage.Filter

	if v := strings.TrimSpace(q.Get("from")); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			f.From = t
		}
	}
	if v := strings.TrimSpace(q.Get("to")); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			f.To = t
		}
	}
	f.Locations = cleanValues(q["location"])
	f.Payments = cleanValues(q["payment"])
	return f
}

func cleanValues(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// formatDollars renders cents as a dollar string (e.g. "$12.34").
func formatDollars(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := strconv.FormatInt(cents/100, 10) + "." + fmt.Sprintf("%02d", cents%100)
	if neg {
		return "-$" + s
	}
	return "$" + s
}

// formatPercent renders a 0..1 share as a percentage with one decimal.
func formatPercent(share float64) string {
	return fmt.Sprintf("%.1f%%", share*100)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
