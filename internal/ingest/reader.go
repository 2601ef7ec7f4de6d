// Package ingest loads raw journal rows from CSV and normalizes them into
// typed entries.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

// Row is one raw CSV record keyed by column name.
type Row map[string]string

// ReadFile loads every row from a CSV journal file, keyed by the header row.
func ReadFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Read(f)
}

// Read parses CSV content into ordered rows. The first record is treated
// as the header; an empty input yields no rows.
func Read(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}

	var rows []Row
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}

		row := make(Row, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}
