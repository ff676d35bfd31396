package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"saldo/internal/analytics"
	"saldo/internal/core"
)

// summaryReport is the month-at-a-glance figure set.
type summaryReport struct {
	Month          time.Time  `json:"month"`
	Label          string     `json:"label"`
	Income         core.Money `json:"income"`
	Expense        core.Money `json:"expense"`
	Balance        core.Money `json:"balance"`
	SettledIncome  core.Money `json:"settledIncome"`
	SettledExpense core.Money `json:"settledExpense"`
	PendingCount   int        `json:"pendingCount"`
}

func (s *Server) handleSummaryReport(w http.ResponseWriter, r *http.Request) {
	month, err := parseMonth(r, time.Now())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid month, want YYYY-MM")
		return
	}

	s.cachedReport(w, r, func() (any, error) {
		txs, err := s.store.ListTransactionsByMonth(r.Context(), month)
		if err != nil {
			return nil, err
		}

		settled := analytics.Settled(txs)
		return summaryReport{
			Month:          month,
			Label:          analytics.MonthLabel(month),
			Income:         analytics.TotalIncome(txs),
			Expense:        analytics.TotalExpense(txs),
			Balance:        analytics.Balance(txs),
			SettledIncome:  analytics.TotalIncome(settled),
			SettledExpense: analytics.TotalExpense(settled),
			PendingCount:   len(analytics.Pending(txs)),
		}, nil
	})
}

func (s *Server) handleCategoryReport(w http.ResponseWriter, r *http.Request) {
	month, err := parseMonth(r, time.Now())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid month, want YYYY-MM")
		return
	}

	s.cachedReport(w, r, func() (any, error) {
		txs, err := s.store.ListTransactionsByMonth(r.Context(), month)
		if err != nil {
			return nil, err
		}
		breakdown := analytics.ByCategory(txs, s.labels)
		if breakdown == nil {
			breakdown = []analytics.CategoryBreakdown{}
		}
		return breakdown, nil
	})
}

func (s *Server) handleMonthlyComparison(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	base, err := parseMonth(r, now)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid month, want YYYY-MM")
		return
	}
	months := queryInt(r, "months", 6, 1, 36)

	s.cachedReport(w, r, func() (any, error) {
		points, err := s.comparisonSeries(r, base, months, now)
		if err != nil {
			return nil, err
		}
		return points, nil
	})
}

func (s *Server) handleBalanceEvolution(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	base, err := parseMonth(r, now)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid month, want YYYY-MM")
		return
	}
	months := queryInt(r, "months", 6, 1, 36)

	initial, err := s.initialBalance(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid initial balance")
		return
	}

	s.cachedReport(w, r, func() (any, error) {
		from := base
		to := base.AddDate(0, months, 0)
		txs, err := s.store.ListTransactionsBetween(r.Context(), from, to)
		if err != nil {
			return nil, err
		}
		templates, accounts, err := s.projectionInputs(r)
		if err != nil {
			return nil, err
		}

		points := analytics.BalanceEvolution(txs, months, base, templates, accounts, initial, now)
		if points == nil {
			points = []analytics.EvolutionPoint{}
		}
		return points, nil
	})
}

func (s *Server) handleUpcoming(w http.ResponseWriter, r *http.Request) {
	days := queryInt(r, "days", 7, 1, 365)
	now := time.Now()

	s.cachedReport(w, r, func() (any, error) {
		templates, err := s.store.ListRecurring(r.Context(), true)
		if err != nil {
			return nil, err
		}
		occurrences := analytics.UpcomingOccurrences(templates, now, days)
		if occurrences == nil {
			occurrences = []analytics.Occurrence{}
		}
		return occurrences, nil
	})
}

func (s *Server) handleSheetsExport(w http.ResponseWriter, r *http.Request) {
	if s.exporter == nil {
		writeError(w, http.StatusServiceUnavailable, "sheets export not configured")
		return
	}

	now := time.Now()
	base, err := parseMonth(r, now)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid month, want YYYY-MM")
		return
	}
	months := queryInt(r, "months", 6, 1, 36)

	points, err := s.comparisonSeries(r, base, months, now)
	if err != nil {
		writeStoreError(w, r, err, "build comparison failed")
		return
	}

	if err := s.exporter.AppendMonthlyComparison(r.Context(), points); err != nil {
		slog.ErrorContext(r.Context(), "Sheets export failed", "error", err)
		writeError(w, http.StatusBadGateway, "sheets export failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"exported": len(points)})
}

// comparisonSeries loads everything MonthlyComparison needs for the
// window of `months` entries ending at base.
func (s *Server) comparisonSeries(r *http.Request, base time.Time, months int, now time.Time) ([]analytics.MonthPoint, error) {
	from := base.AddDate(0, -(months - 1), 0)
	to := base.AddDate(0, 1, 0)
	txs, err := s.store.ListTransactionsBetween(r.Context(), from, to)
	if err != nil {
		return nil, err
	}
	templates, accounts, err := s.projectionInputs(r)
	if err != nil {
		return nil, err
	}

	points := analytics.MonthlyComparison(txs, months, base, templates, accounts, now)
	if points == nil {
		points = []analytics.MonthPoint{}
	}
	return points, nil
}

func (s *Server) projectionInputs(r *http.Request) ([]core.RecurringTransaction, []core.Account, error) {
	templates, err := s.store.ListRecurring(r.Context(), true)
	if err != nil {
		return nil, nil, err
	}
	accounts, err := s.store.ListAccounts(r.Context())
	if err != nil {
		return nil, nil, err
	}
	return templates, accounts, nil
}

// initialBalance reads the evolution seed: an explicit initialBalance
// query value wins, otherwise non-credit account balances are summed.
func (s *Server) initialBalance(r *http.Request) (core.Money, error) {
	if v := r.URL.Query().Get("initialBalance"); v != "" {
		return core.ParseSignedMoney(v)
	}

	accounts, err := s.store.ListAccounts(r.Context())
	if err != nil {
		return core.Money{}, err
	}
	var total core.Money
	for _, a := range accounts {
		if a.Type == core.AccountCredit {
			continue
		}
		total = total.Add(a.Balance)
	}
	return total, nil
}

// cachedReport serves a marshaled report from the LRU, computing and
// caching it on a miss. The cache key is the request path and query.
func (s *Server) cachedReport(w http.ResponseWriter, r *http.Request, build func() (any, error)) {
	key := r.URL.Path + "?" + r.URL.RawQuery

	if body, ok := s.reports.Get(key); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Cache", "hit")
		_, _ = w.Write(body)
		return
	}

	report, err := build()
	if err != nil {
		writeStoreError(w, r, err, "build report failed")
		return
	}

	body, err := json.Marshal(report)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to marshal report", "error", err)
		writeError(w, http.StatusInternalServerError, "encode report failed")
		return
	}
	body = append(body, '\n')
	s.reports.Set(key, body)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "miss")
	_, _ = w.Write(body)
}
