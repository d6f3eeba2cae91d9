package reservasheet

import "sort"

// Record is one logical row: a mapping from column name to cell value.
type Record map[string]string

// Table is an ordered set of columns plus zero or more records.
type Table struct {
	Columns []string
	Rows    []Record
}

// NewTable creates an empty table with the given columns.
func NewTable(columns []string) Table {
	return Table{Columns: append([]string(nil), columns...)}
}

// Normalize projects the table onto exactly the given columns, in that
// order. Columns absent from the table appear with empty string values;
// columns not listed are dropped. A nil column list returns the table
// unchanged.
func (t Table) Normalize(columns []string) Table {
	if columns == nil {
		return t
	}
	out := Table{
		Columns: append([]string(nil), columns...),
		Rows:    make([]Record, 0, len(t.Rows)),
	}
	for _, row := range t.Rows {
		rec := make(Record, len(columns))
		for _, col := range columns {
			rec[col] = row[col]
		}
		out.Rows = append(out.Rows, rec)
	}
	return out
}

// Values projects every record onto the table's columns, yielding one
// string slice per row with missing cells as empty strings.
func (t Table) Values() [][]string {
	rows := make([][]string, 0, len(t.Rows))
	for _, rec := range t.Rows {
		rows = append(rows, projectRecord(rec, t.Columns))
	}
	return rows
}

// projectRecord builds the cell values for one row in column order.
func projectRecord(rec Record, columns []string) []string {
	values := make([]string, len(columns))
	for i, col := range columns {
		values[i] = rec[col]
	}
	return values
}

// recordColumns returns the record's keys in a stable order.
func recordColumns(rec Record) []string {
	columns := make([]string, 0, len(rec))
	for col := range rec {
		columns = append(columns, col)
	}
	sort.Strings(columns)
	return columns
}

// tableFromValues builds a table from raw sheet rows, taking the first row
// as the header row.
func tableFromValues(values [][]string) Table {
	if len(values) == 0 {
		return Table{}
	}
	t := Table{
		Columns: append([]string(nil), values[0]...),
		Rows:    make([]Record, 0, len(values)-1),
	}
	for _, row := range values[1:] {
		rec := make(Record, len(t.Columns))
		for i, col := range t.Columns {
			if i < len(row) {
				rec[col] = row[i]
			} else {
				rec[col] = ""
			}
		}
		t.Rows = append(t.Rows, rec)
	}
	return t
}

// indexOf returns the position of name in columns, or -1 if absent.
func indexOf(columns []string, name string) int {
	for i, col := range columns {
		if col == name {
			return i
		}
	}
	return -1
}
