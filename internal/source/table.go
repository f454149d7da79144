package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrFetch marks a failure to retrieve or parse the raw snapshot. It is fatal
// for a dashboard run.
var ErrFetch = errors.New("fetch failed")

// Source delivers the current raw portfolio snapshot.
type Source interface {
	Fetch(ctx context.Context) (*RawTable, error)
	Name() string
}

// RawRow maps a trimmed column name to the cell text as delivered.
type RawRow map[string]string

// RawTable is an unvalidated table. Columns keeps the header order.
type RawTable struct {
	Columns []string
	Rows    []RawRow
}

func (t *RawTable) Has(col string) bool {
	for _, c := range t.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// NewRawTable builds a table from a header and records. Headers are trimmed
// and a repeated header keeps its first column only. Records shorter than the
// header are padded with empty cells and extra cells are dropped.
func NewRawTable(header []string, records [][]string) *RawTable {
	names := make([]string, len(header))
	cols := make([]string, 0, len(header))
	seen := map[string]bool{}
	for i, h := range header {
		c := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		names[i] = c
		cols = append(cols, c)
	}
	t := &RawTable{Columns: cols, Rows: make([]RawRow, 0, len(records))}
	for _, rec := range records {
		if blank(rec) {
			continue
		}
		row := RawRow{}
		for i, c := range names {
			if c == "" {
				continue
			}
			if i < len(rec) {
				row[c] = rec[i]
			} else {
				row[c] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// ParseCSV reads delimited text whose first record is the header.
func ParseCSV(r io.Reader) (*RawTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: parse csv: %v", ErrFetch, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty csv", ErrFetch)
	}
	return NewRawTable(records[0], records[1:]), nil
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
