package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"budgetkoll/internal/core"
	ports "budgetkoll/internal/export"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Client exports month summaries to a Google Sheet. Each (month, account)
// pair occupies one row; re-exporting a month overwrites its rows.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

var _ ports.SummaryExporter = (*Client)(nil)

// NewFromEnv creates a Sheets client using environment variables.
// Required: GOOGLE_SPREADSHEET_ID.
// Optional: GOOGLE_SHEET_NAME (default "Budget"); credentials via
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	sheetName := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_NAME"))
	if sheetName == "" {
		sheetName = "Budget"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID, sheetName: sheetName}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	inline := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	file := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if inline == "" && file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case inline != "":
		credentialsJSON = []byte(inline)
	case file != "":
		credentialsJSON, err = os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	return gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
}

// ExportMonth writes one row per account: month, account, estimated
// opening, estimated closing, actual (blank when not set), diff, and the
// final flag. Existing rows for the month are overwritten in place;
// anything beyond them is appended.
func (c *Client) ExportMonth(ctx context.Context, summary core.MonthSummary) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	rng := fmt.Sprintf("%s!A:A", c.sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read sheet %s: %w", c.sheetName, err)
	}

	// First row holding this month, or the first free row.
	startRow := len(resp.Values) + 1
	for i, row := range resp.Values {
		if len(row) > 0 && fmt.Sprint(row[0]) == string(summary.Month) {
			startRow = i + 1
			break
		}
	}

	values := make([][]any, 0, len(summary.Accounts))
	for _, acc := range summary.Accounts {
		actual := any("")
		diff := any("")
		if acc.IsSet {
			actual = kronor(acc.Actual)
			diff = kronor(acc.Diff)
		}
		values = append(values, []any{
			string(summary.Month),
			acc.AccountName,
			kronor(acc.EstimatedOpening),
			kronor(acc.EstimatedClosing),
			actual,
			diff,
			summary.Locked,
		})
	}
	if len(values) == 0 {
		return nil
	}

	dataRange := fmt.Sprintf("%s!A%d:G%d", c.sheetName, startRow, startRow+len(values)-1)
	vr := &gsheet.ValueRange{Values: values}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, dataRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", dataRange, err)
	}
	return nil
}

func kronor(ore int64) float64 {
	return float64(ore) / 100.0
}
