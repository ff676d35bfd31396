package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"saldo/internal/analytics"
	"saldo/internal/cache"
	"saldo/internal/core"
	"saldo/internal/middleware/ratelimit"
	"saldo/internal/middleware/security"
	"saldo/internal/middleware/trace"
	"saldo/internal/services"
	"saldo/internal/storage"
)

// Store is the read surface the handlers need. *storage.SQLiteRepository
// implements it.
type Store interface {
	CreateAccount(ctx context.Context, a core.Account) (core.Account, error)
	GetAccount(ctx context.Context, id string) (core.Account, error)
	ListAccounts(ctx context.Context) ([]core.Account, error)
	UpdateAccountBalance(ctx context.Context, id string, balance core.Money) error

	GetTransaction(ctx context.Context, id string) (core.Transaction, error)
	ListTransactionsByMonth(ctx context.Context, month time.Time) ([]core.Transaction, error)
	ListTransactionsBetween(ctx context.Context, from, to time.Time) ([]core.Transaction, error)

	CreateRecurring(ctx context.Context, rt core.RecurringTransaction) (core.RecurringTransaction, error)
	GetRecurring(ctx context.Context, id string) (core.RecurringTransaction, error)
	ListRecurring(ctx context.Context, activeOnly bool) ([]core.RecurringTransaction, error)
	SetRecurringActive(ctx context.Context, id string, active bool) error

	ListNotifications(ctx context.Context, unreadOnly bool) ([]storage.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
}

// ReportExporter pushes a monthly comparison to an external sheet.
type ReportExporter interface {
	AppendMonthlyComparison(ctx context.Context, points []analytics.MonthPoint) error
}

type Server struct {
	http.Server
	store        Store
	transactions *services.TransactionService
	exporter     ReportExporter
	labels       core.CategoryLabels

	limiter *ratelimit.Limiter

	// Marshaled report responses keyed by path and query. Short TTL
	// keeps "now"-dependent figures honest.
	reports      *cache.LRUCache[[]byte]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// Options carries the optional collaborators of the server.
type Options struct {
	Exporter       ReportExporter
	CategoryLabels core.CategoryLabels
	ReportCacheTTL time.Duration
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, store Store, transactions *services.TransactionService, opts Options) *Server {
	if opts.ReportCacheTTL <= 0 {
		opts.ReportCacheTTL = time.Minute
	}

	mux := http.NewServeMux()

	s := &Server{
		store:        store,
		transactions: transactions,
		exporter:     opts.Exporter,
		labels:       opts.CategoryLabels,
		limiter:      ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		reports:      cache.NewLRUCache[[]byte](200, opts.ReportCacheTTL),
		cacheManager: cache.NewManager(),
	}
	s.cacheManager.Register(s.reports)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /api/accounts", s.handleCreateAccount)
	mux.HandleFunc("GET /api/accounts", s.handleListAccounts)
	mux.HandleFunc("GET /api/accounts/{id}", s.handleGetAccount)
	mux.HandleFunc("PUT /api/accounts/{id}/balance", s.handleUpdateAccountBalance)

	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("GET /api/transactions/{id}", s.handleGetTransaction)
	mux.HandleFunc("POST /api/transactions/{id}/settle", s.handleSettleTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("POST /api/recurring", s.handleCreateRecurring)
	mux.HandleFunc("GET /api/recurring", s.handleListRecurring)
	mux.HandleFunc("POST /api/recurring/{id}/pause", s.handlePauseRecurring)
	mux.HandleFunc("POST /api/recurring/{id}/resume", s.handleResumeRecurring)

	mux.HandleFunc("GET /api/reports/summary", s.handleSummaryReport)
	mux.HandleFunc("GET /api/reports/categories", s.handleCategoryReport)
	mux.HandleFunc("GET /api/reports/monthly-comparison", s.handleMonthlyComparison)
	mux.HandleFunc("GET /api/reports/balance-evolution", s.handleBalanceEvolution)
	mux.HandleFunc("GET /api/reports/upcoming", s.handleUpcoming)
	mux.HandleFunc("POST /api/reports/export/sheets", s.handleSheetsExport)

	mux.HandleFunc("GET /api/notifications", s.handleListNotifications)
	mux.HandleFunc("POST /api/notifications/{id}/read", s.handleMarkNotificationRead)

	detector := security.NewDetector()
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewMiddleware(detector.ExtractClientIP)
	limited := s.limiter.Middleware(detector.ExtractClientIP, nil)

	s.Server = http.Server{
		Addr:    addr,
		Handler: tracer.Middleware(headers.Middleware(limited(mux))),
	}

	return s
}

// Shutdown gracefully shuts down the server and its background routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// invalidateReports drops all cached report responses. Called on every
// write so reads never serve pre-write figures for a whole TTL.
func (s *Server) invalidateReports() {
	s.reports.Purge()
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
