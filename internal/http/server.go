// Package http is the JSON boundary for the budget engine. It serves
// month summaries and accepts the mutations that drive the ledger.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"budgetkoll/internal/cache"
	applog "budgetkoll/internal/log"
	"budgetkoll/internal/middleware/trace"
	"budgetkoll/internal/services"
)

type Server struct {
	http.Server

	summaries *services.SummaryService
	budgets   *services.BudgetService

	// Month views are expensive to assemble (full ledger recompute plus
	// reconciliation), so they are cached per month key. Any mutation
	// empties the cache: a single change can move every later month.
	viewCache    *cache.LRUCache[services.MonthView]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and caches, returning a ready-to-run server.
func NewServer(addr string, summaries *services.SummaryService, budgets *services.BudgetService, cacheSize int, cacheTTL time.Duration) *Server {
	mux := http.NewServeMux()

	s := &Server{
		summaries:    summaries,
		budgets:      budgets,
		viewCache:    cache.NewLRUCache[services.MonthView](cacheSize, cacheTTL),
		cacheManager: cache.NewManager(),
	}
	s.cacheManager.Register(s.viewCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.HandleFunc("GET /api/months/{month}/summary", s.handleMonthSummary)
	mux.HandleFunc("POST /api/months/{month}/lock", s.handleLockMonth)
	mux.HandleFunc("DELETE /api/months/{month}/lock", s.handleUnlockMonth)
	mux.HandleFunc("DELETE /api/months/{month}", s.handleDeleteMonth)
	mux.HandleFunc("PUT /api/months/{month}/balances/{account}", s.handleSetActualBalance)
	mux.HandleFunc("GET /api/months/{month}/items", s.handleListItems)
	mux.HandleFunc("POST /api/months/{month}/items", s.handlePutItem)
	mux.HandleFunc("DELETE /api/items/{id}", s.handleDeleteItem)

	mux.HandleFunc("GET /api/accounts", s.handleListAccounts)
	mux.HandleFunc("POST /api/accounts", s.handlePutAccount)

	mux.HandleFunc("GET /api/categories", s.handleListCategories)
	mux.HandleFunc("POST /api/categories", s.handlePutCategory)
	mux.HandleFunc("POST /api/categories/{id}/subcategories", s.handlePutSubcategory)

	mux.HandleFunc("GET /api/holidays", s.handleListHolidays)
	mux.HandleFunc("PUT /api/holidays", s.handlePutHoliday)

	mux.HandleFunc("GET /api/goals", s.handleListGoals)
	mux.HandleFunc("POST /api/goals", s.handlePutGoal)
	mux.HandleFunc("DELETE /api/goals/{id}", s.handleDeleteGoal)

	mux.HandleFunc("POST /api/transactions", s.handleImportTransaction)

	mux.HandleFunc("GET /api/settings/transfers", s.handleGetTransferSettings)
	mux.HandleFunc("PUT /api/settings/transfers", s.handleSetTransferSettings)

	tagged := applog.ComponentMiddleware(applog.ComponentHTTP)(mux)
	traced := trace.NewMiddleware(clientIP).Middleware(tagged)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           traced,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Shutdown stops the cache cleanup goroutine and the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// invalidateViews drops every cached month view. Mutations move balances
// across month boundaries, so per-key invalidation is not enough.
func (s *Server) invalidateViews() {
	s.viewCache.Clear()
}
