package pipeline

import (
	"sort"

	"github.com/shopspring/decimal"

	"portfolioboard/internal/models"
)

var hundred = decimal.NewFromInt(100)

// GainPercent is (current - investment) / investment * 100. It is missing
// unless both inputs are present and the investment is non-zero.
func GainPercent(investment, current decimal.NullDecimal) decimal.NullDecimal {
	if !investment.Valid || !current.Valid || investment.Decimal.IsZero() {
		return decimal.NullDecimal{}
	}
	inv := investment.Decimal
	return decimal.NewNullDecimal(current.Decimal.Sub(inv).Div(inv).Mul(hundred))
}

// Partition splits holdings by market, keeping input order inside each
// market. Every market key is present even when it has no holdings.
func Partition(holdings []models.Holding) map[models.Market][]models.Holding {
	res := map[models.Market][]models.Holding{}
	for _, m := range models.Markets() {
		res[m] = []models.Holding{}
	}
	for _, h := range holdings {
		res[h.Market] = append(res[h.Market], h)
	}
	return res
}

// Summarize totals one market. Missing values contribute nothing to the sums.
// withCurrent reports whether current values exist in the source at all; when
// false the gain figures stay at zero.
func Summarize(m models.Market, holdings []models.Holding, withCurrent bool) models.MarketSummary {
	s := models.MarketSummary{Market: m, Holdings: len(holdings), HasCurrentValue: withCurrent}
	for _, h := range holdings {
		if h.Investment.Valid {
			s.TotalInvestment = s.TotalInvestment.Add(h.Investment.Decimal)
		}
		if h.CurrentValue.Valid {
			s.TotalCurrentValue = s.TotalCurrentValue.Add(h.CurrentValue.Decimal)
		}
	}
	if !withCurrent {
		return s
	}
	s.TotalGain = s.TotalCurrentValue.Sub(s.TotalInvestment)
	if s.TotalInvestment.IsPositive() {
		s.AvgGainPercent = s.TotalGain.Div(s.TotalInvestment).Mul(hundred).Round(2)
	}
	return s
}

// GroupByBroker sums investment and current value per broker. Brokers appear
// in the order they are first seen.
func GroupByBroker(m models.Market, holdings []models.Holding) []models.BrokerAggregate {
	res := []models.BrokerAggregate{}
	idx := map[string]int{}
	for _, h := range holdings {
		i, ok := idx[h.Broker]
		if !ok {
			i = len(res)
			idx[h.Broker] = i
			res = append(res, models.BrokerAggregate{Market: m, Broker: h.Broker})
		}
		b := &res[i]
		b.Holdings++
		if h.Investment.Valid {
			b.Investment = b.Investment.Add(h.Investment.Decimal)
		}
		if h.CurrentValue.Valid {
			b.CurrentValue = b.CurrentValue.Add(h.CurrentValue.Decimal)
		}
	}
	return res
}

// RankByGain returns a copy sorted by gain percent, highest first. Holdings
// without a gain go last; ties keep their input order.
func RankByGain(holdings []models.Holding) []models.Holding {
	res := make([]models.Holding, len(holdings))
	copy(res, holdings)
	sort.SliceStable(res, func(i, j int) bool {
		a, b := res[i].GainPercent, res[j].GainPercent
		if !a.Valid {
			return false
		}
		if !b.Valid {
			return true
		}
		return a.Decimal.GreaterThan(b.Decimal)
	})
	return res
}

// TopGainers returns at most n holdings with a defined gain, best first.
func TopGainers(holdings []models.Holding, n int) []models.Holding {
	res := []models.Holding{}
	for _, h := range RankByGain(holdings) {
		if len(res) == n || !h.GainPercent.Valid {
			break
		}
		res = append(res, h)
	}
	return res
}
