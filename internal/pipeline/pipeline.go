package pipeline

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"portfolioboard/internal/models"
	"portfolioboard/internal/source"
)

// Column names of the portfolio sheet.
const (
	ColStock        = "Stock"
	ColBroker       = "Broker"
	ColType         = "Type"
	ColQuantity     = "Quantity"
	ColInvestment   = "Investment"
	ColCurrentValue = "Current Value"
	ColGain         = "Gain"
)

// DefaultTopN is the length of the per-market top gainers list.
const DefaultTopN = 10

// ErrSchema is returned when the table cannot identify holdings at all.
var ErrSchema = errors.New("schema violation")

// Options tunes market classification and ranking.
type Options struct {
	ForeignMarkers []string
	TopN           int
}

// DefaultOptions classifies "us" types as Foreign and keeps the top 10.
func DefaultOptions() Options {
	return Options{ForeignMarkers: []string{"us"}, TopN: DefaultTopN}
}

// Pipeline turns raw sheet tables into dashboards.
type Pipeline struct {
	opts Options
	log  *logrus.Logger
	now  func() time.Time
}

// New fills unset options with their defaults.
func New(opts Options, log *logrus.Logger) *Pipeline {
	if len(opts.ForeignMarkers) == 0 {
		opts.ForeignMarkers = DefaultOptions().ForeignMarkers
	}
	if opts.TopN <= 0 {
		opts.TopN = DefaultTopN
	}
	return &Pipeline{opts: opts, log: log, now: time.Now}
}

// Run cleans the raw table and derives every dashboard view from it.
func (p *Pipeline) Run(sourceName string, t *source.RawTable) (*models.Dashboard, error) {
	holdings, withCurrent, err := p.Normalize(t)
	if err != nil {
		return nil, err
	}

	d := &models.Dashboard{
		ID:          uuid.New(),
		GeneratedAt: p.now().UTC(),
		Source:      sourceName,
		Holdings:    holdings,
		Summaries:   map[models.Market]models.MarketSummary{},
		Brokers:     []models.BrokerAggregate{},
		TopGainers:  map[models.Market][]models.Holding{},
	}
	parts := Partition(holdings)
	for _, m := range models.Markets() {
		d.Summaries[m] = Summarize(m, parts[m], withCurrent)
		d.Brokers = append(d.Brokers, GroupByBroker(m, parts[m])...)
		d.TopGainers[m] = TopGainers(parts[m], p.opts.TopN)
	}
	p.log.Infof("pipeline: %d holdings (%d domestic, %d foreign) from %s",
		len(holdings), len(parts[models.Domestic]), len(parts[models.Foreign]), sourceName)
	return d, nil
}

// Normalize turns raw rows into holdings. The second result reports whether
// the table carries current values, either directly or through the legacy
// Gain column.
func (p *Pipeline) Normalize(t *source.RawTable) ([]models.Holding, bool, error) {
	if t == nil || len(t.Columns) == 0 {
		return nil, false, fmt.Errorf("%w: table has no columns", ErrSchema)
	}
	t = trimHeaders(t)
	for _, col := range []string{ColStock, ColBroker} {
		if !t.Has(col) {
			return nil, false, fmt.Errorf("%w: missing %q column", ErrSchema, col)
		}
	}
	for _, col := range []string{ColType, ColQuantity, ColInvestment} {
		if !t.Has(col) {
			p.log.Warnf("column %q absent; treating as missing for every row", col)
		}
	}

	hasCurrent := t.Has(ColCurrentValue)
	legacyGain := !hasCurrent && t.Has(ColGain)
	if legacyGain {
		p.log.Debugf("no %q column; deriving current value from %q", ColCurrentValue, ColGain)
	}

	holdings := make([]models.Holding, 0, len(t.Rows))
	for i, row := range t.Rows {
		h := models.Holding{
			Stock:   strings.TrimSpace(row[ColStock]),
			Broker:  strings.TrimSpace(row[ColBroker]),
			RawType: strings.TrimSpace(row[ColType]),
		}
		if h.Stock == "" && h.Broker == "" {
			p.log.Debugf("row %d: no stock or broker, skipped", i+1)
			continue
		}
		h.Market = Classify(h.RawType, p.opts.ForeignMarkers)
		h.Quantity = p.number(row, ColQuantity, i)
		h.Investment = p.number(row, ColInvestment, i)

		switch {
		case hasCurrent:
			h.CurrentValue = p.number(row, ColCurrentValue, i)
			h.GainPercent = GainPercent(h.Investment, h.CurrentValue)
		case legacyGain:
			g := p.number(row, ColGain, i)
			if !h.Investment.Valid {
				break
			}
			inv := h.Investment.Decimal
			if g.Valid && !inv.IsZero() {
				h.CurrentValue = decimal.NewNullDecimal(inv.Add(inv.Mul(g.Decimal).Div(hundred)))
				h.GainPercent = g
			} else {
				// no usable gain: carried at cost so it adds no gain to the totals
				h.CurrentValue = h.Investment
			}
		}
		holdings = append(holdings, h)
	}
	return holdings, hasCurrent || legacyGain, nil
}

func (p *Pipeline) number(row source.RawRow, col string, i int) decimal.NullDecimal {
	cell, ok := row[col]
	if !ok {
		return decimal.NullDecimal{}
	}
	n := ParseNumber(cell)
	if !n.Valid && strings.TrimSpace(cell) != "" {
		p.log.Debugf("row %d: %s %q is not a number", i+1, col, cell)
	}
	return n
}

func trimHeaders(t *source.RawTable) *source.RawTable {
	dirty := false
	for _, c := range t.Columns {
		if c != strings.TrimSpace(c) {
			dirty = true
			break
		}
	}
	if !dirty {
		return t
	}
	res := &source.RawTable{Rows: make([]source.RawRow, len(t.Rows))}
	seen := map[string]bool{}
	for _, c := range t.Columns {
		k := strings.TrimSpace(c)
		if !seen[k] {
			seen[k] = true
			res.Columns = append(res.Columns, k)
		}
	}
	for i, row := range t.Rows {
		r := source.RawRow{}
		for _, c := range t.Columns {
			k := strings.TrimSpace(c)
			if _, dup := r[k]; dup {
				continue
			}
			if v, ok := row[c]; ok {
				r[k] = v
			}
		}
		res.Rows[i] = r
	}
	return res
}
