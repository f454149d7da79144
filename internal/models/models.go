package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Market string

const (
	Domestic Market = "domestic"
	Foreign  Market = "foreign"
)

// Markets returns every market in display order.
func Markets() []Market {
	return []Market{Domestic, Foreign}
}

// ParseMarket accepts the market name in any case, plus the "inr"/"usd"
// aliases used by the dashboard front-end.
func ParseMarket(s string) (Market, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "domestic", "inr", "indian":
		return Domestic, nil
	case "foreign", "usd", "us":
		return Foreign, nil
	}
	return "", fmt.Errorf("unknown market %q", s)
}

type Holding struct {
	Stock        string              `json:"stock"`
	Broker       string              `json:"broker"`
	Market       Market              `json:"market"`
	RawType      string              `json:"type"`
	Quantity     decimal.NullDecimal `json:"quantity"`
	Investment   decimal.NullDecimal `json:"investment"`
	CurrentValue decimal.NullDecimal `json:"current_value"`
	GainPercent  decimal.NullDecimal `json:"gain_percent"`
}

type MarketSummary struct {
	Market            Market          `json:"market"`
	Holdings          int             `json:"holdings"`
	HasCurrentValue   bool            `json:"has_current_value"`
	TotalInvestment   decimal.Decimal `json:"total_investment"`
	TotalCurrentValue decimal.Decimal `json:"total_current_value"`
	TotalGain         decimal.Decimal `json:"total_gain"`
	AvgGainPercent    decimal.Decimal `json:"avg_gain_percent"`
}

type BrokerAggregate struct {
	Market       Market          `json:"market"`
	Broker       string          `json:"broker"`
	Holdings     int             `json:"holdings"`
	Investment   decimal.Decimal `json:"investment"`
	CurrentValue decimal.Decimal `json:"current_value"`
}

// Dashboard is the complete output of one pipeline run. It is never mutated
// after construction.
type Dashboard struct {
	ID          uuid.UUID                `json:"snapshot_id"`
	GeneratedAt time.Time                `json:"generated_at"`
	Source      string                   `json:"source"`
	Holdings    []Holding                `json:"holdings"`
	Summaries   map[Market]MarketSummary `json:"summaries"`
	Brokers     []BrokerAggregate        `json:"brokers"`
	TopGainers  map[Market][]Holding     `json:"top_gainers"`
}

// ByMarket returns the holdings of one market in input order.
func (d *Dashboard) ByMarket(m Market) []Holding {
	res := []Holding{}
	for _, h := range d.Holdings {
		if h.Market == m {
			res = append(res, h)
		}
	}
	return res
}

// BrokersFor returns the broker aggregates of one market.
func (d *Dashboard) BrokersFor(m Market) []BrokerAggregate {
	res := []BrokerAggregate{}
	for _, b := range d.Brokers {
		if b.Market == m {
			res = append(res, b)
		}
	}
	return res
}
