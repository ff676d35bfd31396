package http

import (
	"net/http"
	"time"

	"saldo/internal/core"
)

type createTransactionRequest struct {
	Description string        `json:"description"`
	Amount      string        `json:"amount"`
	Type        string        `json:"type"`
	Category    core.Category `json:"category,omitempty"`
	Date        string        `json:"date"`
	AccountID   string        `json:"accountId,omitempty"`
	Pending     *bool         `json:"pending,omitempty"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	amount, err := core.ParseMoney(req.Amount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid date, want YYYY-MM-DD")
		return
	}

	tx := core.Transaction{
		Description: sanitizeInput(req.Description),
		Amount:      amount,
		Type:        core.TransactionType(req.Type),
		Category:    req.Category,
		Date:        date,
		AccountID:   req.AccountID,
	}
	// Absent means settled.
	if req.Pending != nil {
		tx.Pending = *req.Pending
	}

	if err := tx.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	saved, err := s.transactions.RecordTransaction(r.Context(), tx)
	if err != nil {
		writeStoreError(w, r, err, "record transaction failed")
		return
	}

	s.invalidateReports()
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	month, err := parseMonth(r, time.Now())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid month, want YYYY-MM")
		return
	}

	txs, err := s.store.ListTransactionsByMonth(r.Context(), month)
	if err != nil {
		writeStoreError(w, r, err, "list transactions failed")
		return
	}
	if txs == nil {
		txs = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := s.store.GetTransaction(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, r, err, "get transaction failed")
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (s *Server) handleSettleTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.transactions.SettleTransaction(r.Context(), r.PathValue("id")); err != nil {
		writeStoreError(w, r, err, "settle transaction failed")
		return
	}
	s.invalidateReports()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.transactions.DeleteTransaction(r.Context(), r.PathValue("id")); err != nil {
		writeStoreError(w, r, err, "delete transaction failed")
		return
	}
	s.invalidateReports()
	w.WriteHeader(http.StatusNoContent)
}
