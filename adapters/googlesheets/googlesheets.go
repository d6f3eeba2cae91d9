package googlesheets

import (
	"context"
	"fmt"
	"strconv"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Sheet creation defaults: new worksheets get 1000 rows and at least 26
// columns regardless of how narrow the requested schema is.
const (
	defaultRowCount    = 1000
	defaultColumnCount = 26
)

// Backend implements the reservasheet.Backend interface on the Google
// Sheets API. Each Backend is scoped to one spreadsheet document.
type Backend struct {
	service       *sheets.Service
	spreadsheetID string
}

// New creates a Backend for the given spreadsheet using the provided
// client options. Authentication is the caller's concern; NewOpener wires
// in service account credentials for production use.
func New(ctx context.Context, spreadsheetID string, opts ...option.ClientOption) (*Backend, error) {
	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Backend{
		service:       service,
		spreadsheetID: spreadsheetID,
	}, nil
}

// EnsureSheet creates the named sheet if absent and initializes its header
// row when headers is given and row 1 is still empty. A populated header
// row is never rewritten.
func (b *Backend) EnsureSheet(ctx context.Context, title string, headers []string) error {
	spreadsheet, err := b.service.Spreadsheets.Get(b.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to fetch spreadsheet: %w", err)
	}

	exists := false
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == title {
			exists = true
			break
		}
	}

	if !exists {
		cols := int64(defaultColumnCount)
		if len(headers) > defaultColumnCount {
			cols = int64(len(headers))
		}
		rq := &sheets.BatchUpdateSpreadsheetRequest{
			Requests: []*sheets.Request{{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{
						Title: title,
						GridProperties: &sheets.GridProperties{
							RowCount:    defaultRowCount,
							ColumnCount: cols,
						},
					},
				},
			}},
		}
		if _, err := b.service.Spreadsheets.BatchUpdate(b.spreadsheetID, rq).Context(ctx).Do(); err != nil {
			return fmt.Errorf("failed to add sheet %q: %w", title, err)
		}
	}

	if len(headers) == 0 {
		return nil
	}

	first, err := b.ReadRow(ctx, title, 1)
	if err != nil {
		return err
	}
	if len(first) > 0 {
		return nil
	}

	return b.writeRange(ctx, fmt.Sprintf("%s!A1", title), [][]string{headers})
}

// ReadAll returns every populated row of the sheet, header row included.
func (b *Backend) ReadAll(ctx context.Context, title string) ([][]string, error) {
	readRange := fmt.Sprintf("%s!A:ZZ", title)
	resp, err := b.service.Spreadsheets.Values.Get(b.spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get sheet data: %w", err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		rows = append(rows, cellStrings(row))
	}
	return rows, nil
}

// ClearAndWrite removes all sheet content, then writes rows starting at A1.
func (b *Backend) ClearAndWrite(ctx context.Context, title string, rows [][]string) error {
	clearRange := fmt.Sprintf("%s!A:ZZ", title)
	_, err := b.service.Spreadsheets.Values.Clear(b.spreadsheetID, clearRange, &sheets.ClearValuesRequest{}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to clear sheet: %w", err)
	}

	if len(rows) == 0 {
		return nil
	}
	return b.writeRange(ctx, fmt.Sprintf("%s!A1", title), rows)
}

// AppendRows appends rows after the last populated row of the sheet.
func (b *Backend) AppendRows(ctx context.Context, title string, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}

	vr := &sheets.ValueRange{Values: cellValues(rows)}
	_, err := b.service.Spreadsheets.Values.Append(b.spreadsheetID, fmt.Sprintf("%s!A1", title), vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append rows: %w", err)
	}
	return nil
}

// ReadColumn returns one column's values top to bottom. col is 1-based.
func (b *Backend) ReadColumn(ctx context.Context, title string, col int) ([]string, error) {
	name := columnName(col)
	readRange := fmt.Sprintf("%s!%s:%s", title, name, name)
	resp, err := b.service.Spreadsheets.Values.Get(b.spreadsheetID, readRange).
		MajorDimension("COLUMNS").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get column %s: %w", name, err)
	}

	if len(resp.Values) == 0 {
		return nil, nil
	}
	return cellStrings(resp.Values[0]), nil
}

// ReadRow returns one row's values left to right. row is 1-based.
func (b *Backend) ReadRow(ctx context.Context, title string, row int) ([]string, error) {
	readRange := fmt.Sprintf("%s!%d:%d", title, row, row)
	resp, err := b.service.Spreadsheets.Values.Get(b.spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get row %d: %w", row, err)
	}

	if len(resp.Values) == 0 {
		return nil, nil
	}
	return cellStrings(resp.Values[0]), nil
}

// WriteRow overwrites one row starting at column A. row is 1-based.
func (b *Backend) WriteRow(ctx context.Context, title string, row int, values []string) error {
	return b.writeRange(ctx, fmt.Sprintf("%s!A%d", title, row), [][]string{values})
}

func (b *Backend) writeRange(ctx context.Context, writeRange string, rows [][]string) error {
	vr := &sheets.ValueRange{Values: cellValues(rows)}
	_, err := b.service.Spreadsheets.Values.Update(b.spreadsheetID, writeRange, vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to update range %s: %w", writeRange, err)
	}
	return nil
}

// cellStrings converts one API row to strings. The API returns formatted
// values, but numbers and booleans can still decode as typed JSON.
func cellStrings(row []interface{}) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = cellString(v)
	}
	return out
}

func cellString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		if val {
			return "TRUE"
		}
		return "FALSE"
	default:
		return fmt.Sprintf("%v", val)
	}
}

// cellValues converts string rows to the API's value representation.
func cellValues(rows [][]string) [][]interface{} {
	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		values[i] = cells
	}
	return values
}

// columnName converts a 1-based column number to its A1 name
// (1 -> A, 26 -> Z, 27 -> AA).
func columnName(col int) string {
	result := ""
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}
