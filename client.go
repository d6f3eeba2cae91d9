package reservasheet

import (
	"context"
	"strings"
)

// Fixed sheet names for the two persisted reservation tables.
const (
	SheetReservasWeb  = "reservas_web_2026"
	SheetReservasHist = "reservas_2026_full"
)

// DefaultKeyColumn identifies a reservation row for upserts and partial
// updates. Uniqueness of key values is assumed, not enforced; with
// duplicates the first matching row wins.
const DefaultKeyColumn = "ID_RESERVA"

// appendBatchSize bounds the number of rows sent per append request.
const appendBatchSize = 500

// Client performs tabular operations against a sheet backend. Operations
// degrade to a no-op (false / empty result) when the backend is
// unavailable; only transport and authentication failures return errors.
//
// The client holds no session state: every operation opens a fresh handle
// via its Opener. It is not safe for concurrent writes to the same sheet;
// upsert and partial update are read-scan-then-write sequences with no
// concurrency control.
type Client struct {
	opener Opener
}

// New creates a client around the given opener. A nil opener yields a
// permanently unavailable client, which is the supported way to disable
// remote persistence entirely.
func New(opener Opener) *Client {
	return &Client{opener: opener}
}

func (c *Client) open(ctx context.Context) (Backend, error) {
	if c == nil || c.opener == nil {
		return nil, nil
	}
	return c.opener(ctx)
}

// ReadTable loads an entire sheet into a table. The first stored row is
// taken as the header row of the data actually present; when headers is
// given the result is normalized against it. An unavailable backend or an
// empty sheet yields an empty table with columns = headers.
func (c *Client) ReadTable(ctx context.Context, title string, headers []string) (Table, error) {
	backend, err := c.open(ctx)
	if err != nil {
		return Table{}, err
	}
	if backend == nil {
		return NewTable(headers), nil
	}

	if err := backend.EnsureSheet(ctx, title, headers); err != nil {
		return Table{}, err
	}
	values, err := backend.ReadAll(ctx, title)
	if err != nil {
		return Table{}, err
	}
	if len(values) == 0 {
		return NewTable(headers), nil
	}
	return tableFromValues(values).Normalize(headers), nil
}

// WriteTable replaces the sheet's full contents with the table, normalized
// against headers (the table's own columns when headers is nil). The sheet
// is cleared, the header row rewritten, and data rows appended in batches
// of at most 500 rows per request. Returns false without error when the
// backend is unavailable. An empty table still leaves the header row in
// place and reports success.
func (c *Client) WriteTable(ctx context.Context, title string, t Table, headers []string) (bool, error) {
	backend, err := c.open(ctx)
	if err != nil {
		return false, err
	}
	if backend == nil {
		return false, nil
	}

	if headers == nil {
		headers = t.Columns
	}
	target := t.Normalize(headers)

	if err := backend.EnsureSheet(ctx, title, headers); err != nil {
		return false, err
	}
	if err := backend.ClearAndWrite(ctx, title, [][]string{headers}); err != nil {
		return false, err
	}

	rows := target.Values()
	for start := 0; start < len(rows); start += appendBatchSize {
		end := start + appendBatchSize
		if end > len(rows) {
			end = len(rows)
		}
		if err := backend.AppendRows(ctx, title, rows[start:end]); err != nil {
			return false, err
		}
	}
	return true, nil
}

// Upsert inserts or updates a single row identified by keyColumn
// (DefaultKeyColumn when empty). The effective header list is headers, or
// the record's own keys in sorted order when headers is nil. The key
// column is scanned top-down for the first row whose trimmed value equals
// the record's trimmed key; a match is replaced whole, otherwise the row
// is appended. Returns false without error when the backend is
// unavailable, the key value is blank, or the key column is not in the
// header list.
func (c *Client) Upsert(ctx context.Context, title string, rec Record, keyColumn string, headers []string) (bool, error) {
	backend, err := c.open(ctx)
	if err != nil {
		return false, err
	}
	if backend == nil {
		return false, nil
	}

	if keyColumn == "" {
		keyColumn = DefaultKeyColumn
	}
	if headers == nil {
		headers = recordColumns(rec)
	}

	if err := backend.EnsureSheet(ctx, title, headers); err != nil {
		return false, err
	}

	keyValue := strings.TrimSpace(rec[keyColumn])
	if keyValue == "" {
		return false, nil
	}
	keyIdx := indexOf(headers, keyColumn)
	if keyIdx < 0 {
		return false, nil
	}

	column, err := backend.ReadColumn(ctx, title, keyIdx+1)
	if err != nil {
		return false, err
	}
	row := findKeyRow(column, keyValue)

	values := projectRecord(rec, headers)
	if row == 0 {
		if err := backend.AppendRows(ctx, title, [][]string{values}); err != nil {
			return false, err
		}
		return true, nil
	}
	if err := backend.WriteRow(ctx, title, row, values); err != nil {
		return false, err
	}
	return true, nil
}

// UpdateFields overwrites selected cells of the row identified by idValue,
// leaving every other cell of that row untouched. The sheet's own header
// row is authoritative; update keys not present in it are ignored.
// Returns false without error when updates is empty, the backend is
// unavailable, the sheet has no header row, the key column is missing, or
// no row matches.
func (c *Client) UpdateFields(ctx context.Context, title string, idValue string, updates Record, keyColumn string) (bool, error) {
	if len(updates) == 0 {
		return false, nil
	}

	backend, err := c.open(ctx)
	if err != nil {
		return false, err
	}
	if backend == nil {
		return false, nil
	}
	if keyColumn == "" {
		keyColumn = DefaultKeyColumn
	}

	if err := backend.EnsureSheet(ctx, title, nil); err != nil {
		return false, err
	}
	headers, err := backend.ReadRow(ctx, title, 1)
	if err != nil {
		return false, err
	}
	if len(headers) == 0 {
		return false, nil
	}
	keyIdx := indexOf(headers, keyColumn)
	if keyIdx < 0 {
		return false, nil
	}

	column, err := backend.ReadColumn(ctx, title, keyIdx+1)
	if err != nil {
		return false, err
	}
	row := findKeyRow(column, strings.TrimSpace(idValue))
	if row == 0 {
		return false, nil
	}

	current, err := backend.ReadRow(ctx, title, row)
	if err != nil {
		return false, err
	}
	// Stored rows may be shorter than the header when trailing cells are
	// empty; pad before indexing by header position.
	for len(current) < len(headers) {
		current = append(current, "")
	}
	for name, value := range updates {
		if idx := indexOf(headers, name); idx >= 0 {
			current[idx] = value
		}
	}

	if err := backend.WriteRow(ctx, title, row, current); err != nil {
		return false, err
	}
	return true, nil
}

// findKeyRow scans the key column below the header for the first value
// whose trimmed form equals key, returning its 1-based row number or 0.
// Duplicate keys below the first match are never touched.
func findKeyRow(column []string, key string) int {
	if key == "" {
		return 0
	}
	for i := 1; i < len(column); i++ {
		if strings.TrimSpace(column[i]) == key {
			return i + 1
		}
	}
	return 0
}
