// Package googlesheets implements the row store against a Google
// Spreadsheet. Each partition is one sheet tab; data rows start at sheet row
// 2 below the header.
package googlesheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"homespend/internal/store"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Options configures the Sheets client. Exactly one of ServiceAccountJSON or
// ServiceAccountFile must carry service-account credentials.
type Options struct {
	SpreadsheetID      string
	ServiceAccountJSON string
	ServiceAccountFile string
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
}

var _ store.RowStore = (*Client)(nil)

// New creates a Sheets-backed row store.
func New(ctx context.Context, opts Options) (*Client, error) {
	if strings.TrimSpace(opts.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	svc, err := newSheetsService(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &Client{svc: svc, spreadsheetID: opts.SpreadsheetID}, nil
}

// newSheetsService initializes a Sheets Service using service-account
// credentials, either inline JSON or a key file.
func newSheetsService(ctx context.Context, opts Options) (*gsheet.Service, error) {
	var credentialsJSON []byte
	switch {
	case strings.TrimSpace(opts.ServiceAccountJSON) != "":
		credentialsJSON = []byte(opts.ServiceAccountJSON)
	case strings.TrimSpace(opts.ServiceAccountFile) != "":
		b, err := os.ReadFile(opts.ServiceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = b
	default:
		return nil, errors.New("missing service account credentials")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

func (c *Client) Partitions(ctx context.Context) ([]string, error) {
	resp, err := c.svc.Spreadsheets.Get(c.spreadsheetID).
		Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("list sheets: %w", err)
	}
	out := make([]string, 0, len(resp.Sheets))
	for _, sh := range resp.Sheets {
		if sh.Properties != nil {
			out = append(out, sh.Properties.Title)
		}
	}
	return out, nil
}

func (c *Client) EnsurePartition(ctx context.Context, name string, header store.Row) error {
	names, err := c.Partitions(ctx)
	if err != nil {
		return err
	}
	for _, n := range names {
		if n == name {
			return nil
		}
	}

	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			AddSheet: &gsheet.AddSheetRequest{
				Properties: &gsheet.SheetProperties{Title: name},
			},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("add sheet %s: %w", name, err)
	}

	vr := &gsheet.ValueRange{Values: [][]any{rowToValues(header)}}
	rng := fmt.Sprintf("'%s'!A1", name)
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("RAW").Context(ctx).Do(); err != nil {
		return fmt.Errorf("seed header of %s: %w", name, err)
	}
	slog.InfoContext(ctx, "Created sheet partition", "partition", name)
	return nil
}

func (c *Client) ReadRows(ctx context.Context, name string) ([]store.Row, error) {
	names, err := c.Partitions(ctx)
	if err != nil {
		return nil, err
	}
	found := false
	for _, n := range names {
		if n == name {
			found = true
			break
		}
	}
	if !found {
		return nil, nil
	}

	rng := fmt.Sprintf("'%s'!A2:Z", name)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	out := make([]store.Row, len(resp.Values))
	for i, row := range resp.Values {
		out[i] = valuesToRow(row)
	}
	return out, nil
}

func (c *Client) AppendRow(ctx context.Context, name string, row store.Row) error {
	vr := &gsheet.ValueRange{Values: [][]any{rowToValues(row)}}
	rng := fmt.Sprintf("'%s'!A:Z", name)
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to %s: %w", name, err)
	}
	return nil
}

func (c *Client) UpdateRow(ctx context.Context, name string, index int, row store.Row) error {
	vr := &gsheet.ValueRange{Values: [][]any{rowToValues(row)}}
	rng := fmt.Sprintf("'%s'!A%d", name, sheetRow(index))
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", rng, err)
	}
	return nil
}

func (c *Client) ClearRow(ctx context.Context, name string, index int) error {
	rng := fmt.Sprintf("'%s'!A%d:Z%d", name, sheetRow(index), sheetRow(index))
	_, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear %s: %w", rng, err)
	}
	return nil
}

// sheetRow maps a zero-based data row index to its 1-based sheet row,
// skipping the header row.
func sheetRow(index int) int {
	return index + 2
}

func rowToValues(row store.Row) []any {
	out := make([]any, len(row))
	for i, c := range row {
		out[i] = c
	}
	return out
}

func valuesToRow(in []any) store.Row {
	out := make(store.Row, len(in))
	for i, v := range in {
		if v == nil {
			continue
		}
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}
