package reservasheet

import "context"

// Backend is the minimal capability a tabular store must provide. Row and
// column indices are 1-based to match spreadsheet addressing; row 1 is the
// header row.
type Backend interface {
	// EnsureSheet creates the named sheet if it does not exist and writes
	// headers to row 1 when the row is currently empty. An already populated
	// header row is left untouched.
	EnsureSheet(ctx context.Context, title string, headers []string) error

	// ReadAll returns every row of the sheet, header row included.
	ReadAll(ctx context.Context, title string) ([][]string, error)

	// ClearAndWrite removes all existing content and writes rows starting at A1.
	ClearAndWrite(ctx context.Context, title string, rows [][]string) error

	// AppendRows appends rows after the last populated row.
	AppendRows(ctx context.Context, title string, rows [][]string) error

	// ReadColumn returns the values of one column, top to bottom.
	ReadColumn(ctx context.Context, title string, col int) ([]string, error)

	// ReadRow returns the values of one row, left to right.
	ReadRow(ctx context.Context, title string, row int) ([]string, error)

	// WriteRow overwrites one row starting at column A.
	WriteRow(ctx context.Context, title string, row int, values []string) error
}

// Opener opens a handle to the remote store. It returns (nil, nil) when
// remote persistence is not available (disabled or unconfigured), and an
// error only for genuine transport or authentication failures. Handles are
// not cached: every client operation invokes its Opener afresh.
type Opener func(ctx context.Context) (Backend, error)
