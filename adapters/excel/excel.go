// Package excel implements the reservasheet backend on a local .xlsx
// workbook. It backs the sync tool's offline mirror and offers the same
// sheet semantics as the remote store without network access.
package excel

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/altozano/reservasheet"
	"github.com/xuri/excelize/v2"
)

// Backend implements reservasheet.Backend against one workbook file. Like
// the remote backend it keeps no open handle: every operation opens the
// file, applies its change, and saves.
type Backend struct {
	path string
	mu   sync.Mutex
}

// New creates a workbook backend for the given file path.
func New(path string) (*Backend, error) {
	if path == "" {
		return nil, fmt.Errorf("workbook path is required")
	}
	return &Backend{path: path}, nil
}

// NewOpener returns an Opener for a local workbook. An empty path yields
// a permanently unavailable opener.
func NewOpener(path string) reservasheet.Opener {
	return func(ctx context.Context) (reservasheet.Backend, error) {
		if path == "" {
			return nil, nil
		}
		return New(path)
	}
}

// open loads the workbook, creating a new in-memory file when the path
// does not exist yet. The boolean reports whether the file was created.
func (b *Backend) open() (*excelize.File, bool, error) {
	if _, err := os.Stat(b.path); err == nil {
		f, err := excelize.OpenFile(b.path)
		if err != nil {
			return nil, false, fmt.Errorf("failed to open workbook: %w", err)
		}
		return f, false, nil
	}
	return excelize.NewFile(), true, nil
}

func (b *Backend) save(f *excelize.File) error {
	if dir := filepath.Dir(b.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := f.SaveAs(b.path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// EnsureSheet creates the named sheet if absent and writes the header row
// when headers is given and row 1 is still empty.
func (b *Backend) EnsureSheet(ctx context.Context, title string, headers []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	f, created, err := b.open()
	if err != nil {
		return err
	}
	defer f.Close()

	idx, err := f.GetSheetIndex(title)
	if err != nil {
		return fmt.Errorf("failed to get sheet index: %w", err)
	}
	dirty := false
	if idx == -1 {
		if _, err := f.NewSheet(title); err != nil {
			return fmt.Errorf("failed to create sheet: %w", err)
		}
		// A freshly created workbook carries an unused default sheet.
		if created && title != "Sheet1" {
			_ = f.DeleteSheet("Sheet1")
		}
		dirty = true
	}

	if len(headers) > 0 {
		rows, err := f.GetRows(title)
		if err != nil {
			return fmt.Errorf("failed to get rows: %w", err)
		}
		if len(rows) == 0 || len(rows[0]) == 0 {
			if err := f.SetSheetRow(title, "A1", rowValues(headers)); err != nil {
				return fmt.Errorf("failed to write header: %w", err)
			}
			dirty = true
		}
	}

	if !dirty {
		return nil
	}
	return b.save(f)
}

// ReadAll returns every populated row, header included. A missing file or
// sheet reads as empty.
func (b *Backend) ReadAll(ctx context.Context, title string) ([][]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, created, err := b.open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if created {
		return nil, nil
	}

	idx, err := f.GetSheetIndex(title)
	if err != nil || idx == -1 {
		return nil, nil
	}

	rows, err := f.GetRows(title)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return rows, nil
}

// ClearAndWrite removes all existing cells, then writes rows from A1 down.
func (b *Backend) ClearAndWrite(ctx context.Context, title string, rows [][]string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	f, created, err := b.open()
	if err != nil {
		return err
	}
	defer f.Close()

	idx, err := f.GetSheetIndex(title)
	if err != nil {
		return fmt.Errorf("failed to get sheet index: %w", err)
	}
	if idx == -1 {
		if _, err := f.NewSheet(title); err != nil {
			return fmt.Errorf("failed to create sheet: %w", err)
		}
		if created && title != "Sheet1" {
			_ = f.DeleteSheet("Sheet1")
		}
	} else {
		existing, err := f.GetRows(title)
		if err != nil {
			return fmt.Errorf("failed to get rows: %w", err)
		}
		for range existing {
			if err := f.RemoveRow(title, 1); err != nil {
				return fmt.Errorf("failed to clear sheet: %w", err)
			}
		}
	}

	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(title, cell, rowValues(row)); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	return b.save(f)
}

// AppendRows writes rows after the last populated row of the sheet.
func (b *Backend) AppendRows(ctx context.Context, title string, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	f, _, err := b.open()
	if err != nil {
		return err
	}
	defer f.Close()

	existing, err := f.GetRows(title)
	if err != nil {
		return fmt.Errorf("failed to get rows: %w", err)
	}

	next := len(existing) + 1
	for i, row := range rows {
		cell := fmt.Sprintf("A%d", next+i)
		if err := f.SetSheetRow(title, cell, rowValues(row)); err != nil {
			return fmt.Errorf("failed to write row %d: %w", next+i, err)
		}
	}

	return b.save(f)
}

// ReadColumn returns one column's values top to bottom. col is 1-based.
func (b *Backend) ReadColumn(ctx context.Context, title string, col int) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, created, err := b.open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if created {
		return nil, nil
	}

	cols, err := f.GetCols(title)
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}
	if col < 1 || col > len(cols) {
		return nil, nil
	}
	return cols[col-1], nil
}

// ReadRow returns one row's values left to right. row is 1-based.
func (b *Backend) ReadRow(ctx context.Context, title string, row int) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, created, err := b.open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if created {
		return nil, nil
	}

	rows, err := f.GetRows(title)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	if row < 1 || row > len(rows) {
		return nil, nil
	}
	return rows[row-1], nil
}

// WriteRow overwrites one row starting at column A. row is 1-based.
func (b *Backend) WriteRow(ctx context.Context, title string, row int, values []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	f, _, err := b.open()
	if err != nil {
		return err
	}
	defer f.Close()

	cell := fmt.Sprintf("A%d", row)
	if err := f.SetSheetRow(title, cell, rowValues(values)); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}

	return b.save(f)
}

func rowValues(row []string) *[]interface{} {
	values := make([]interface{}, len(row))
	for i, cell := range row {
		values[i] = cell
	}
	return &values
}
