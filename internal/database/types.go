package database

import (
	"database/sql"

	"portfolioboard/internal/source"
)

// portfolioRow mirrors one line of the portfolio_rows table. Cells are kept
// as text, exactly as they were typed into the sheet.
type portfolioRow struct {
	Stock        sql.NullString `db:"stock"`
	Broker       sql.NullString `db:"broker"`
	Type         sql.NullString `db:"type"`
	Quantity     sql.NullString `db:"quantity"`
	Investment   sql.NullString `db:"investment"`
	CurrentValue sql.NullString `db:"current_value"`
	Gain         sql.NullString `db:"gain"`
}

// columns maps sheet headers to table columns, in sheet order. Identity
// columns are always reported; the others only when some row has a value.
var columns = []struct {
	header   string
	identity bool
}{
	{"Stock", true},
	{"Broker", true},
	{"Type", false},
	{"Quantity", false},
	{"Investment", false},
	{"Current Value", false},
	{"Gain", false},
}

func (p portfolioRow) cells() []sql.NullString {
	return []sql.NullString{p.Stock, p.Broker, p.Type, p.Quantity, p.Investment, p.CurrentValue, p.Gain}
}

// sheetTable rebuilds the raw table from stored rows. A column that is NULL
// in every row was absent from the seeded sheet and is left out, so the
// pipeline treats it as a missing column rather than as missing cells.
func sheetTable(rows []portfolioRow) *source.RawTable {
	present := make([]bool, len(columns))
	for i, c := range columns {
		present[i] = c.identity
	}
	for _, r := range rows {
		for i, cell := range r.cells() {
			if cell.Valid {
				present[i] = true
			}
		}
	}

	header := []string{}
	for i, c := range columns {
		if present[i] {
			header = append(header, c.header)
		}
	}
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		rec := make([]string, 0, len(header))
		for i, cell := range r.cells() {
			if present[i] {
				rec = append(rec, cell.String)
			}
		}
		records = append(records, rec)
	}
	return source.NewRawTable(header, records)
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
