package core

import (
	"errors"
	"strings"
	"time"
)

const (
	TypeIncome     TransactionType = "INCOME"
	TypeExpense    TransactionType = "EXPENSE"
	TypeTransfer   TransactionType = "TRANSFER"
	TypeAllocation TransactionType = "ALLOCATION"
)

const (
	AccountChecking   AccountType = "CHECKING"
	AccountSavings    AccountType = "SAVINGS"
	AccountCredit     AccountType = "CREDIT"
	AccountCash       AccountType = "CASH"
	AccountInvestment AccountType = "INVESTMENT"
)

type (
	TransactionType string

	AccountType string

	// Transaction is a persisted ledger record. Amount is always a
	// non-negative magnitude; direction is carried by Type.
	Transaction struct {
		ID          string          `json:"id"`
		Description string          `json:"description"`
		Amount      Money           `json:"amount"`
		Type        TransactionType `json:"type"`
		Category    Category        `json:"category"`
		Date        time.Time       `json:"date"`
		AccountID   string          `json:"accountId,omitempty"`
		// Pending marks a transaction that has not settled yet. Records
		// imported without a paid flag map to settled (Pending == false).
		Pending           bool   `json:"pending,omitempty"`
		RecurringID       string `json:"recurringId,omitempty"`
		InstallmentID     string `json:"installmentId,omitempty"`
		InstallmentNumber int    `json:"installmentNumber,omitempty"`
		TotalInstallments int    `json:"totalInstallments,omitempty"`
		AttachmentURL     string `json:"attachmentUrl,omitempty"`
	}

	// RecurringTransaction is a template the projector expands into
	// ephemeral occurrences and the materializer turns into real
	// transactions. It is never mutated by the analytics package.
	RecurringTransaction struct {
		ID          string          `json:"id"`
		Description string          `json:"description"`
		Amount      Money           `json:"amount"`
		Type        TransactionType `json:"type"`
		Category    Category        `json:"category"`
		AccountID   string          `json:"accountId,omitempty"`
		Frequency   Frequency       `json:"frequency"`
		StartDate   time.Time       `json:"startDate,omitempty"` // zero = open start
		EndDate     time.Time       `json:"endDate,omitempty"`   // zero = open end
		NextDue     time.Time       `json:"nextDueDate"`
		Active      bool            `json:"isActive"`
	}

	// Account holds a balance. For CREDIT accounts Balance is the current
	// debt magnitude, not a cash balance.
	Account struct {
		ID          string      `json:"id"`
		Name        string      `json:"name"`
		Type        AccountType `json:"type"`
		Balance     Money       `json:"balance"`
		CreditLimit Money       `json:"creditLimit,omitempty"`
		TotalLimit  Money       `json:"totalLimit,omitempty"`
		DueDay      int         `json:"dueDay,omitempty"`
		ClosingDay  int         `json:"closingDay,omitempty"`
		Color       string      `json:"color,omitempty"`
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidDate      = errors.New("invalid date")
	ErrEmptyDescription = errors.New("empty description")
	ErrUnknownType      = errors.New("unknown transaction type")
	ErrUnknownFrequency = errors.New("unknown frequency")
	ErrUnknownAccount   = errors.New("unknown account type")
)

func (t TransactionType) Valid() bool {
	switch t {
	case TypeIncome, TypeExpense, TypeTransfer, TypeAllocation:
		return true
	}
	return false
}

func (t AccountType) Valid() bool {
	switch t {
	case AccountChecking, AccountSavings, AccountCredit, AccountCash, AccountInvestment:
		return true
	}
	return false
}

// Settled reports whether the transaction counts toward realized totals.
func (t Transaction) Settled() bool {
	return !t.Pending
}

func (t Transaction) Validate() error {
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if !t.Type.Valid() {
		return ErrUnknownType
	}
	return nil
}

func (rt RecurringTransaction) Validate() error {
	if len(strings.TrimSpace(rt.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(rt.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if err := rt.Amount.Validate(); err != nil {
		return err
	}
	if !rt.Type.Valid() {
		return ErrUnknownType
	}
	if !rt.Frequency.Valid() {
		return ErrUnknownFrequency
	}
	if rt.NextDue.IsZero() {
		return errors.New("next due date cannot be zero")
	}
	if !rt.StartDate.IsZero() && !rt.EndDate.IsZero() && rt.EndDate.Before(rt.StartDate) {
		return errors.New("end date must be after start date")
	}
	return nil
}

func (a Account) Validate() error {
	if len(strings.TrimSpace(a.Name)) == 0 {
		return errors.New("empty account name")
	}
	if !a.Type.Valid() {
		return ErrUnknownAccount
	}
	if a.DueDay < 0 || a.DueDay > 31 {
		return errors.New("invalid due day")
	}
	if a.ClosingDay < 0 || a.ClosingDay > 31 {
		return errors.New("invalid closing day")
	}
	return nil
}
