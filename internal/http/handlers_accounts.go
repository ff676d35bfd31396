package http

import (
	"net/http"

	"saldo/internal/core"
)

type createAccountRequest struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Balance     string `json:"balance,omitempty"`
	CreditLimit string `json:"creditLimit,omitempty"`
	TotalLimit  string `json:"totalLimit,omitempty"`
	DueDay      int    `json:"dueDay,omitempty"`
	ClosingDay  int    `json:"closingDay,omitempty"`
	Color       string `json:"color,omitempty"`
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account := core.Account{
		Name:       sanitizeInput(req.Name),
		Type:       core.AccountType(req.Type),
		DueDay:     req.DueDay,
		ClosingDay: req.ClosingDay,
		Color:      sanitizeInput(req.Color),
	}

	var err error
	if account.Balance, err = optionalMoney(req.Balance); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid balance")
		return
	}
	if account.CreditLimit, err = optionalMoney(req.CreditLimit); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid credit limit")
		return
	}
	if account.TotalLimit, err = optionalMoney(req.TotalLimit); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid total limit")
		return
	}

	if err := account.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	saved, err := s.store.CreateAccount(r.Context(), account)
	if err != nil {
		writeStoreError(w, r, err, "create account failed")
		return
	}

	s.invalidateReports()
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.store.ListAccounts(r.Context())
	if err != nil {
		writeStoreError(w, r, err, "list accounts failed")
		return
	}
	if accounts == nil {
		accounts = []core.Account{}
	}
	writeJSON(w, http.StatusOK, accounts)
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	account, err := s.store.GetAccount(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, r, err, "get account failed")
		return
	}
	writeJSON(w, http.StatusOK, account)
}

type updateBalanceRequest struct {
	Balance string `json:"balance"`
}

func (s *Server) handleUpdateAccountBalance(w http.ResponseWriter, r *http.Request) {
	var req updateBalanceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	balance, err := core.ParseSignedMoney(req.Balance)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid balance")
		return
	}

	if err := s.store.UpdateAccountBalance(r.Context(), r.PathValue("id"), balance); err != nil {
		writeStoreError(w, r, err, "update account balance failed")
		return
	}

	s.invalidateReports()
	w.WriteHeader(http.StatusNoContent)
}

// optionalMoney parses a decimal string, treating empty as zero.
func optionalMoney(s string) (core.Money, error) {
	if s == "" {
		return core.Money{}, nil
	}
	return core.ParseMoney(s)
}
