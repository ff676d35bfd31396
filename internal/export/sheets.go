package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"saldo/internal/analytics"
)

// SheetsOptions configures the Google Sheets exporter. Exactly one of
// CredentialsJSON and CredentialsFile must be set.
type SheetsOptions struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsJSON string
	CredentialsFile string
}

// SheetsClient appends report rows to a Google spreadsheet using a
// service account.
type SheetsClient struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// NewSheetsClient builds a Sheets service from service account credentials.
func NewSheetsClient(ctx context.Context, opts SheetsOptions) (*SheetsClient, error) {
	spreadsheetID := strings.TrimSpace(opts.SpreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	sheetName := strings.TrimSpace(opts.SheetName)
	if sheetName == "" {
		sheetName = "Saldo"
	}

	credentialsJSON, err := resolveCredentials(opts)
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	slog.InfoContext(ctx, "Google Sheets exporter ready",
		"spreadsheet_id", spreadsheetID,
		"sheet", sheetName)

	return &SheetsClient{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

func resolveCredentials(opts SheetsOptions) ([]byte, error) {
	switch {
	case strings.TrimSpace(opts.CredentialsJSON) != "":
		return []byte(opts.CredentialsJSON), nil
	case strings.TrimSpace(opts.CredentialsFile) != "":
		raw, err := os.ReadFile(strings.TrimSpace(opts.CredentialsFile))
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return raw, nil
	default:
		return nil, errors.New("missing service account credentials")
	}
}

// AppendMonthlyComparison appends one row per month point below the
// existing data, oldest first.
func (c *SheetsClient) AppendMonthlyComparison(ctx context.Context, points []analytics.MonthPoint) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	if len(points) == 0 {
		return nil
	}

	rng := fmt.Sprintf("%s!A:D", c.sheetName)
	vr := &gsheet.ValueRange{Values: comparisonRows(points)}

	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to sheet %s: %w", c.sheetName, err)
	}
	return nil
}

// comparisonRows converts month points to sheet rows: label, income,
// expense and net, amounts as whole-currency decimals.
func comparisonRows(points []analytics.MonthPoint) [][]any {
	rows := make([][]any, 0, len(points))
	for _, p := range points {
		rows = append(rows, []any{
			p.Label,
			float64(p.Income.Cents) / 100.0,
			float64(p.Expense.Cents) / 100.0,
			float64(p.Net.Cents) / 100.0,
		})
	}
	return rows
}
