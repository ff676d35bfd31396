package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"saldo/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a row does not exist or was soft deleted.
var ErrNotFound = errors.New("not found")

// Notification is a persisted copy of an event delivered to the worker.
type Notification struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// --- accounts ---

func (r *SQLiteRepository) CreateAccount(ctx context.Context, a core.Account) (core.Account, error) {
	if err := a.Validate(); err != nil {
		return core.Account{}, err
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (id, name, type, balance_cents, credit_limit_cents, total_limit_cents, due_day, closing_day, color)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Name, string(a.Type), a.Balance.Cents, a.CreditLimit.Cents, a.TotalLimit.Cents,
		a.DueDay, a.ClosingDay, a.Color)
	if err != nil {
		return core.Account{}, fmt.Errorf("create account: %w", err)
	}

	slog.InfoContext(ctx, "Account created", "id", a.ID, "name", a.Name, "type", a.Type)
	return a, nil
}

func (r *SQLiteRepository) GetAccount(ctx context.Context, id string) (core.Account, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, type, balance_cents, credit_limit_cents, total_limit_cents, due_day, closing_day, color
		FROM accounts WHERE id = ?`, id)

	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Account{}, ErrNotFound
	}
	if err != nil {
		return core.Account{}, fmt.Errorf("get account %s: %w", id, err)
	}
	return a, nil
}

func (r *SQLiteRepository) ListAccounts(ctx context.Context) ([]core.Account, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, type, balance_cents, credit_limit_cents, total_limit_cents, due_day, closing_day, color
		FROM accounts ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var out []core.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) UpdateAccountBalance(ctx context.Context, id string, balance core.Money) error {
	res, err := r.db.ExecContext(ctx, `UPDATE accounts SET balance_cents = ? WHERE id = ?`, balance.Cents, id)
	if err != nil {
		return fmt.Errorf("update account balance: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- transactions ---

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (id, description, amount_cents, type, category_system, category_custom,
			date, account_id, pending, recurring_id, installment_id, installment_number, total_installments, attachment_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Description, t.Amount.Cents, string(t.Type),
		string(t.Category.System), t.Category.Custom,
		t.Date.Format(time.RFC3339), nullString(t.AccountID), boolToInt(t.Pending),
		nullString(t.RecurringID), t.InstallmentID, t.InstallmentNumber, t.TotalInstallments, t.AttachmentURL)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", t.ID,
		"description", t.Description,
		"amount_cents", t.Amount.Cents,
		"type", t.Type,
		"pending", t.Pending)

	return t, nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, selectTransaction+` WHERE id = ? AND deleted_at IS NULL`, id)

	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %s: %w", id, err)
	}
	return t, nil
}

// ListTransactionsBetween returns live transactions with from <= date < to,
// oldest first. Rows whose stored date no longer parses are skipped.
func (r *SQLiteRepository) ListTransactionsBetween(ctx context.Context, from, to time.Time) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, selectTransaction+`
		WHERE deleted_at IS NULL AND date >= ? AND date < ?
		ORDER BY date`,
		from.Format(time.RFC3339), to.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactions(ctx, rows)
}

func (r *SQLiteRepository) ListTransactionsByMonth(ctx context.Context, month time.Time) ([]core.Transaction, error) {
	start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	return r.ListTransactionsBetween(ctx, start, start.AddDate(0, 1, 0))
}

func (r *SQLiteRepository) SettleTransaction(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions SET pending = 0 WHERE id = ? AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("settle transaction %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	slog.InfoContext(ctx, "Transaction settled", "id", id)
	return nil
}

func (r *SQLiteRepository) SoftDeleteTransaction(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`,
		time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("delete transaction %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	slog.InfoContext(ctx, "Transaction deleted", "id", id)
	return nil
}

// --- recurring templates ---

func (r *SQLiteRepository) CreateRecurring(ctx context.Context, rt core.RecurringTransaction) (core.RecurringTransaction, error) {
	if err := rt.Validate(); err != nil {
		return core.RecurringTransaction{}, err
	}
	if rt.ID == "" {
		rt.ID = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO recurring_transactions (id, description, amount_cents, type, category_system, category_custom,
			account_id, frequency, start_date, end_date, next_due, active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rt.ID, rt.Description, rt.Amount.Cents, string(rt.Type),
		string(rt.Category.System), rt.Category.Custom,
		nullString(rt.AccountID), string(rt.Frequency),
		nullTime(rt.StartDate), nullTime(rt.EndDate),
		rt.NextDue.Format(time.RFC3339), boolToInt(rt.Active))
	if err != nil {
		return core.RecurringTransaction{}, fmt.Errorf("create recurring transaction: %w", err)
	}

	slog.InfoContext(ctx, "Recurring transaction created",
		"id", rt.ID,
		"description", rt.Description,
		"frequency", rt.Frequency,
		"next_due", rt.NextDue)

	return rt, nil
}

func (r *SQLiteRepository) GetRecurring(ctx context.Context, id string) (core.RecurringTransaction, error) {
	row := r.db.QueryRowContext(ctx, selectRecurring+` WHERE id = ?`, id)

	rt, err := scanRecurring(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.RecurringTransaction{}, ErrNotFound
	}
	if err != nil {
		return core.RecurringTransaction{}, fmt.Errorf("get recurring transaction %s: %w", id, err)
	}
	return rt, nil
}

func (r *SQLiteRepository) ListRecurring(ctx context.Context, activeOnly bool) ([]core.RecurringTransaction, error) {
	q := selectRecurring
	if activeOnly {
		q += ` WHERE active = 1`
	}
	q += ` ORDER BY next_due`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list recurring transactions: %w", err)
	}
	defer rows.Close()

	return collectRecurring(ctx, rows)
}

// ListDueRecurring returns active templates with next_due <= asOf.
func (r *SQLiteRepository) ListDueRecurring(ctx context.Context, asOf time.Time) ([]core.RecurringTransaction, error) {
	rows, err := r.db.QueryContext(ctx, selectRecurring+`
		WHERE active = 1 AND next_due <= ?
		ORDER BY next_due`, asOf.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("list due recurring transactions: %w", err)
	}
	defer rows.Close()

	return collectRecurring(ctx, rows)
}

func (r *SQLiteRepository) AdvanceNextDue(ctx context.Context, id string, nextDue time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE recurring_transactions SET next_due = ? WHERE id = ?`,
		nextDue.Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("advance next due for %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) SetRecurringActive(ctx context.Context, id string, active bool) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE recurring_transactions SET active = ? WHERE id = ?`, boolToInt(active), id)
	if err != nil {
		return fmt.Errorf("set recurring active for %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- notifications ---

func (r *SQLiteRepository) CreateNotification(ctx context.Context, n Notification) (Notification, error) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO notifications (id, kind, message, read, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		n.ID, n.Kind, n.Message, boolToInt(n.Read), n.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return Notification{}, fmt.Errorf("create notification: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) ListNotifications(ctx context.Context, unreadOnly bool) ([]Notification, error) {
	q := `SELECT id, kind, message, read, created_at FROM notifications`
	if unreadOnly {
		q += ` WHERE read = 0`
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		var read int
		var createdAt string
		if err := rows.Scan(&n.ID, &n.Kind, &n.Message, &read, &createdAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.Read = read != 0
		if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
			n.CreatedAt = ts
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) MarkNotificationRead(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET read = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- scanning helpers ---

const selectTransaction = `
	SELECT id, description, amount_cents, type, category_system, category_custom,
		date, account_id, pending, recurring_id, installment_id, installment_number,
		total_installments, attachment_url
	FROM transactions`

const selectRecurring = `
	SELECT id, description, amount_cents, type, category_system, category_custom,
		account_id, frequency, start_date, end_date, next_due, active
	FROM recurring_transactions`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (core.Account, error) {
	var a core.Account
	err := row.Scan(&a.ID, &a.Name, &a.Type, &a.Balance.Cents,
		&a.CreditLimit.Cents, &a.TotalLimit.Cents, &a.DueDay, &a.ClosingDay, &a.Color)
	return a, err
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t           core.Transaction
		date        string
		accountID   sql.NullString
		recurringID sql.NullString
		pending     int
	)
	err := row.Scan(&t.ID, &t.Description, &t.Amount.Cents, &t.Type,
		&t.Category.System, &t.Category.Custom, &date, &accountID, &pending,
		&recurringID, &t.InstallmentID, &t.InstallmentNumber,
		&t.TotalInstallments, &t.AttachmentURL)
	if err != nil {
		return core.Transaction{}, err
	}

	t.Date, err = time.Parse(time.RFC3339, date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse date %q: %w", date, err)
	}
	t.AccountID = accountID.String
	t.RecurringID = recurringID.String
	t.Pending = pending != 0
	return t, nil
}

func scanRecurring(row rowScanner) (core.RecurringTransaction, error) {
	var (
		rt        core.RecurringTransaction
		accountID sql.NullString
		startDate sql.NullString
		endDate   sql.NullString
		nextDue   string
		active    int
	)
	err := row.Scan(&rt.ID, &rt.Description, &rt.Amount.Cents, &rt.Type,
		&rt.Category.System, &rt.Category.Custom, &accountID, &rt.Frequency,
		&startDate, &endDate, &nextDue, &active)
	if err != nil {
		return core.RecurringTransaction{}, err
	}

	rt.NextDue, err = time.Parse(time.RFC3339, nextDue)
	if err != nil {
		return core.RecurringTransaction{}, fmt.Errorf("parse next due %q: %w", nextDue, err)
	}
	rt.AccountID = accountID.String
	rt.StartDate = parseNullTime(startDate)
	rt.EndDate = parseNullTime(endDate)
	rt.Active = active != 0
	return rt, nil
}

// collectTransactions drains rows, logging and skipping rows that fail to
// scan so one bad record cannot take a whole report down.
func collectTransactions(ctx context.Context, rows *sql.Rows) ([]core.Transaction, error) {
	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			slog.WarnContext(ctx, "Skipping unreadable transaction row", "error", err)
			continue
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func collectRecurring(ctx context.Context, rows *sql.Rows) ([]core.RecurringTransaction, error) {
	var out []core.RecurringTransaction
	for rows.Next() {
		rt, err := scanRecurring(rows)
		if err != nil {
			slog.WarnContext(ctx, "Skipping unreadable recurring row", "error", err)
			continue
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(time.RFC3339), Valid: true}
}

func parseNullTime(s sql.NullString) time.Time {
	if !s.Valid {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return time.Time{}
	}
	return t
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
