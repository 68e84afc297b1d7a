// Package sheets implements the worksheet collaborator on top of the
// Google Sheets API.
package sheets

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/rn-medical/complaints-pipeline/internal/core/domain"
	"github.com/rn-medical/complaints-pipeline/internal/core/ports/driven"
)

// spreadsheetScope is the OAuth scope required for reads and appends.
const spreadsheetScope = "https://www.googleapis.com/auth/spreadsheets"

// Conservative client-side limit, well below Google's 60 reads/min/user.
var defaultLimit = rate.NewLimiter(rate.Limit(0.8), 3)

// Ensure Client implements the interface.
var _ driven.Worksheet = (*Client)(nil)

// Client reads and appends to one worksheet tab of one spreadsheet.
type Client struct {
	svc           *gsheets.Service
	spreadsheetID string
	worksheet     string
	limiter       *rate.Limiter
}

// NewClient authenticates with a service account key file and binds to
// the given spreadsheet and worksheet tab.
func NewClient(ctx context.Context, credentialsFile, spreadsheetID, worksheet string) (*Client, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("reading service account key: %w", err)
	}

	cfg, err := google.JWTConfigFromJSON(data, spreadsheetScope)
	if err != nil {
		return nil, fmt.Errorf("parsing service account key: %w", err)
	}

	svc, err := gsheets.NewService(ctx, option.WithTokenSource(cfg.TokenSource(ctx)))
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		worksheet:     worksheet,
		limiter:       defaultLimit,
	}, nil
}

// ReadHeader returns the header row's cell values in column order.
func (c *Client) ReadHeader(ctx context.Context) ([]string, error) {
	values, err := c.get(ctx, fmt.Sprintf("%s!1:1", c.worksheet))
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if len(values) == 0 {
		return nil, nil
	}
	return stringRow(values[0]), nil
}

// ReadAllRows returns every data row below the header, in sheet order.
func (c *Client) ReadAllRows(ctx context.Context) ([][]string, error) {
	snapshot, err := c.ReadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snapshot.Rows, nil
}

// ReadSnapshot reads header and rows in one request, so both come from
// the same worksheet state.
func (c *Client) ReadSnapshot(ctx context.Context) (*domain.WorksheetSnapshot, error) {
	values, err := c.get(ctx, c.worksheet)
	if err != nil {
		return nil, fmt.Errorf("reading worksheet: %w", err)
	}
	if len(values) == 0 {
		return &domain.WorksheetSnapshot{}, nil
	}

	snapshot := &domain.WorksheetSnapshot{Header: stringRow(values[0])}
	for _, row := range values[1:] {
		snapshot.Rows = append(snapshot.Rows, stringRow(row))
	}
	return snapshot, nil
}

// AppendRow appends one row of values after the last data row.
func (c *Client) AppendRow(ctx context.Context, values []string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}

	_, err := c.svc.Spreadsheets.Values.
		Append(c.spreadsheetID, c.worksheet, &gsheets.ValueRange{Values: [][]any{cells}}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("appending row: %w", WrapError(err))
	}
	return nil
}

func (c *Client) get(ctx context.Context, readRange string) ([][]any, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.svc.Spreadsheets.Values.
		Get(c.spreadsheetID, readRange).
		Context(ctx).
		Do()
	if err != nil {
		return nil, WrapError(err)
	}
	return resp.Values, nil
}

// stringRow flattens a row of API cell values to strings.
func stringRow(cells []any) []string {
	out := make([]string, len(cells))
	for i, cell := range cells {
		if s, ok := cell.(string); ok {
			out[i] = s
			continue
		}
		out[i] = fmt.Sprintf("%v", cell)
	}
	return out
}
