package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"portfolioboard/internal/source"
)

// Repo serves the portfolio sheet from a Postgres table for deployments that
// keep a copy of the spreadsheet in the database.
type Repo struct {
	db  *sqlx.DB
	log *logrus.Logger
}

func New(db *sqlx.DB, log *logrus.Logger) *Repo {
	return &Repo{db: db, log: log}
}

func (r *Repo) Name() string { return "postgres" }

// Fetch returns the stored rows as a raw table, in insertion order.
func (r *Repo) Fetch(ctx context.Context) (*source.RawTable, error) {
	rows, err := r.db.QueryxContext(ctx, `SELECT stock, broker, type, quantity, investment, current_value, gain FROM portfolio_rows ORDER BY position ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("%w: query portfolio_rows: %v", source.ErrFetch, err)
	}
	defer rows.Close()

	stored := []portfolioRow{}
	for rows.Next() {
		var p portfolioRow
		if err := rows.StructScan(&p); err != nil {
			r.log.Warnf("scan portfolio row failed: %v", err)
			continue
		}
		stored = append(stored, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate portfolio_rows: %v", source.ErrFetch, err)
	}
	return sheetTable(stored), nil
}

// ReplaceRows swaps the stored sheet for the given table in one transaction.
// Columns the table does not carry are stored as NULL; blank cells too.
func (r *Repo) ReplaceRows(ctx context.Context, t *source.RawTable) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM portfolio_rows`); err != nil {
		return 0, err
	}
	q := `INSERT INTO portfolio_rows (position, stock, broker, type, quantity, investment, current_value, gain) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for i, row := range t.Rows {
		if _, err := tx.ExecContext(ctx, q, i,
			nullable(row["Stock"]), nullable(row["Broker"]), nullable(row["Type"]),
			nullable(row["Quantity"]), nullable(row["Investment"]), nullable(row["Current Value"]), nullable(row["Gain"])); err != nil {
			return 0, fmt.Errorf("insert row %d: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	r.log.Infof("stored %d portfolio rows", len(t.Rows))
	return len(t.Rows), nil
}
