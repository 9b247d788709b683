// Package http serves the interactive dashboard over the cleaned dataset.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"cafesales/internal/cache"
	"cafesales/internal/core"
	"cafesales/internal/middleware/trace"
	"cafesales/internal/storage"
	appweb "cafesales/web"
)

// Store is the read side of the warehouse the dashboard queries.
type Store interface {
	Summary(ctx context.Context, f storage.Filter) (core.Summary, error)
	DailyTrend(ctx context.Context, f storage.Filter) ([]core.DailySales, error)
	TopItems(ctx context.Context, f storage.Filter, n int) ([]core.ItemRevenue, error)
	SalesByLocation(ctx context.Context, f storage.Filter) ([]core.LocationRevenue, error)
	PaymentShares(ctx context.Context, f storage.Filter) ([]core.PaymentShare, error)
	DateBounds(ctx context.Context) (min, max time.Time, ok bool, err error)
}

type Server struct {
	http.Server
	templates *template.Template
	store     Store

	summaryCache *cache.LRU[core.Summary]
	trendCache   *cache.LRU[[]core.DailySales]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// NewServer wires routes, templates and caches. cacheTTL bounds how stale a
// filtered aggregate may be served.
func NewServer(addr string, store Store, cacheTTL time.Duration) (*Server, error) {
	templates, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	s := &Server{
		templates:    templates,
		store:        store,
		summaryCache: cache.NewLRU[core.Summary](128, cacheTTL),
		trendCache:   cache.NewLRU[[]core.DailySales](128, cacheTTL),
		cacheManager: cache.NewManager(),
	}
	s.cacheManager.Register(s.summaryCache)
	s.cacheManager.Register(s.trendCache)
	s.cacheManager.StartCleanup(cacheTTL)

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleDashboard)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/summary", s.handleSummary)
	mux.HandleFunc("/api/trend", s.handleTrend)
	mux.HandleFunc("/api/items", s.handleTopItems)
	mux.HandleFunc("/api/locations", s.handleLocations)
	mux.HandleFunc("/api/payments", s.handlePayments)

	static, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return nil, err
	}
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	s.Addr = addr
	s.Handler = trace.Middleware(mux)
	s.ReadTimeout = 10 * time.Second
	s.WriteTimeout = 10 * time.Second
	s.IdleTimeout = 60 * time.Second
	s.MaxHeaderBytes = 1 << 16

	return s, nil
}

// Shutdown stops the cache sweeper, then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
	})
	return s.Server.Shutdown(ctx)
}
