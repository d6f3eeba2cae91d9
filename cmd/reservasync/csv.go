package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/altozano/reservasheet"
)

// readCSVTable loads a local CSV file into a table. The first line is the
// header row. Lines with more fields than the header are skipped; short
// lines are padded with empty cells.
func readCSVTable(path string) (reservasheet.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return reservasheet.Table{}, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return reservasheet.Table{}, nil
	}
	if err != nil {
		return reservasheet.Table{}, fmt.Errorf("failed to read header from %s: %w", path, err)
	}

	table := reservasheet.NewTable(header)
	for {
		line, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return reservasheet.Table{}, fmt.Errorf("failed to read %s: %w", path, err)
		}
		if len(line) > len(header) {
			continue
		}

		rec := make(reservasheet.Record, len(header))
		for i, col := range header {
			if i < len(line) {
				rec[col] = line[i]
			} else {
				rec[col] = ""
			}
		}
		table.Rows = append(table.Rows, rec)
	}

	return table, nil
}
