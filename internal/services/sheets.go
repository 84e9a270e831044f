package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/desertthunder/classificone/internal/models"
	"github.com/desertthunder/classificone/internal/shared"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsLedger stores ledger partitions as worksheets of one spreadsheet.
// Each worksheet carries a [models.LedgerColumns] header row followed by the entries.
type SheetsLedger struct {
	service       *sheets.Service
	spreadsheetID string
}

// NewSheetsLedger builds a ledger over spreadsheetID. Pass option.WithCredentialsFile for a service account.
func NewSheetsLedger(ctx context.Context, spreadsheetID string, opts ...option.ClientOption) (*SheetsLedger, error) {
	opts = append([]option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}, opts...)

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: sheets client: %v", shared.ErrLedgerUnavailable, err)
	}
	return &SheetsLedger{service: service, spreadsheetID: spreadsheetID}, nil
}

// sheetRange quotes the worksheet name so numeric titles like 2025 are not read as cell references.
func sheetRange(partition string) string {
	return "'" + strings.ReplaceAll(partition, "'", "''") + "'"
}

// ReadPartition returns every entry of the worksheet named partition, header excluded.
func (l *SheetsLedger) ReadPartition(ctx context.Context, partition string) ([]models.LedgerRow, error) {
	resp, err := l.service.Spreadsheets.Values.Get(l.spreadsheetID, sheetRange(partition)).Context(ctx).Do()
	if err != nil {
		return nil, l.wrap(partition, "read", err)
	}
	if len(resp.Values) == 0 {
		return nil, nil
	}

	header := cellStrings(resp.Values[0])
	rows := make([]models.LedgerRow, 0, len(resp.Values)-1)
	for _, record := range resp.Values[1:] {
		rows = append(rows, models.LedgerRowFromRecord(header, cellStrings(record)))
	}
	return rows, nil
}

// WritePartition overwrites the worksheet from A1 with the header and rows.
func (l *SheetsLedger) WritePartition(ctx context.Context, partition string, rows []models.LedgerRow) error {
	values := make([][]any, 0, len(rows)+1)
	values = append(values, toCells(models.LedgerColumns))
	for _, r := range rows {
		values = append(values, toCells(r.Values()))
	}

	_, err := l.service.Spreadsheets.Values.
		Update(l.spreadsheetID, sheetRange(partition)+"!A1", &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return l.wrap(partition, "write", err)
	}
	return nil
}

// Partitions lists the worksheet titles in spreadsheet order.
func (l *SheetsLedger) Partitions(ctx context.Context) ([]string, error) {
	resp, err := l.service.Spreadsheets.Get(l.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: list sheets: %v", shared.ErrLedgerUnavailable, err)
	}

	names := make([]string, 0, len(resp.Sheets))
	for _, s := range resp.Sheets {
		if s.Properties != nil {
			names = append(names, s.Properties.Title)
		}
	}
	return names, nil
}

// wrap maps an unknown worksheet (HTTP 400 "Unable to parse range") to [shared.ErrPartitionNotFound].
func (l *SheetsLedger) wrap(partition, op string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusBadRequest {
		return fmt.Errorf("%w: %s: %s", shared.ErrPartitionNotFound, partition, apiErr.Message)
	}
	return fmt.Errorf("%w: %s %s: %v", shared.ErrLedgerUnavailable, op, partition, err)
}

func cellStrings(cells []any) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		if c == nil {
			continue
		}
		out[i] = fmt.Sprint(c)
	}
	return out
}

func toCells(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
