package http

import (
	"net/http"
	"strings"

	"saldo/internal/core"
)

type createRecurringRequest struct {
	Description string        `json:"description"`
	Amount      string        `json:"amount"`
	Type        string        `json:"type"`
	Category    core.Category `json:"category,omitempty"`
	AccountID   string        `json:"accountId,omitempty"`
	Frequency   string        `json:"frequency"`
	StartDate   string        `json:"startDate,omitempty"`
	EndDate     string        `json:"endDate,omitempty"`
	NextDue     string        `json:"nextDueDate"`
}

func (s *Server) handleCreateRecurring(w http.ResponseWriter, r *http.Request) {
	var req createRecurringRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	amount, err := core.ParseMoney(req.Amount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}

	rt := core.RecurringTransaction{
		Description: sanitizeInput(req.Description),
		Amount:      amount,
		Type:        core.TransactionType(req.Type),
		Category:    req.Category,
		AccountID:   req.AccountID,
		Frequency:   core.Frequency(strings.ToLower(req.Frequency)),
		Active:      true,
	}

	if rt.NextDue, err = parseDate(req.NextDue); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid next due date, want YYYY-MM-DD")
		return
	}
	if req.StartDate != "" {
		if rt.StartDate, err = parseDate(req.StartDate); err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid start date, want YYYY-MM-DD")
			return
		}
	}
	if req.EndDate != "" {
		if rt.EndDate, err = parseDate(req.EndDate); err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid end date, want YYYY-MM-DD")
			return
		}
	}

	if err := rt.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	saved, err := s.store.CreateRecurring(r.Context(), rt)
	if err != nil {
		writeStoreError(w, r, err, "create recurring transaction failed")
		return
	}

	s.invalidateReports()
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleListRecurring(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"

	templates, err := s.store.ListRecurring(r.Context(), activeOnly)
	if err != nil {
		writeStoreError(w, r, err, "list recurring transactions failed")
		return
	}
	if templates == nil {
		templates = []core.RecurringTransaction{}
	}
	writeJSON(w, http.StatusOK, templates)
}

func (s *Server) handlePauseRecurring(w http.ResponseWriter, r *http.Request) {
	s.setRecurringActive(w, r, false)
}

func (s *Server) handleResumeRecurring(w http.ResponseWriter, r *http.Request) {
	s.setRecurringActive(w, r, true)
}

func (s *Server) setRecurringActive(w http.ResponseWriter, r *http.Request, active bool) {
	if err := s.store.SetRecurringActive(r.Context(), r.PathValue("id"), active); err != nil {
		writeStoreError(w, r, err, "update recurring transaction failed")
		return
	}
	s.invalidateReports()
	w.WriteHeader(http.StatusNoContent)
}
