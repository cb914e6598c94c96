package sheets

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Appender exports bookings to a Google Sheet, one tab per calendar month,
// creating the tab and its header row on first use. Best-effort: callers log
// failures and move on.
type Appender struct {
	svc           *sheets.Service
	spreadsheetID string
}

func NewAppender(ctx context.Context, credentialsFile, spreadsheetID string) (*Appender, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, err
	}
	return &Appender{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// Row is one exported booking line.
type Row struct {
	Name     string
	Email    string
	Country  string
	Age      string
	Phone    string
	Date     string
	Time     string
	Service  string
	BookedAt time.Time
}

// TabName returns the monthly tab a booking lands in, e.g. "June-2024".
func TabName(t time.Time) string {
	return t.Format("January-2006")
}

func headerRow() []interface{} {
	return []interface{}{"Name", "Email", "Country", "Age", "Phone", "Date", "Time", "Service", "Booked At"}
}

func (r Row) values() []interface{} {
	return []interface{}{
		r.Name, r.Email, r.Country, r.Age, r.Phone, r.Date, r.Time, r.Service,
		r.BookedAt.UTC().Format(time.RFC3339),
	}
}

func (a *Appender) Append(ctx context.Context, row Row) error {
	tab := TabName(row.BookedAt)
	if err := a.ensureTab(ctx, tab); err != nil {
		return fmt.Errorf("ensure tab %q: %w", tab, err)
	}

	_, err := a.svc.Spreadsheets.Values.Append(a.spreadsheetID, tab+"!A:I", &sheets.ValueRange{
		Values: [][]interface{}{row.values()},
	}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return err
}

func (a *Appender) ensureTab(ctx context.Context, tab string) error {
	meta, err := a.svc.Spreadsheets.Get(a.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return err
	}
	for _, sheet := range meta.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == tab {
			return nil
		}
	}

	_, err = a.svc.Spreadsheets.BatchUpdate(a.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: tab},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return err
	}

	_, err = a.svc.Spreadsheets.Values.Update(a.spreadsheetID, tab+"!A1:I1", &sheets.ValueRange{
		Values: [][]interface{}{headerRow()},
	}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	return err
}
