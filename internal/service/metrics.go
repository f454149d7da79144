package service

import (
	"github.com/prometheus/client_golang/prometheus"

	"portfolioboard/internal/models"
)

type Metrics struct {
	refreshes   *prometheus.CounterVec
	holdings    *prometheus.GaugeVec
	investment  *prometheus.GaugeVec
	lastSuccess prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portfolio",
			Name:      "refreshes_total",
			Help:      "Dashboard refreshes by result.",
		}, []string{"result"}),
		holdings: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "portfolio",
			Name:      "holdings",
			Help:      "Holdings in the latest snapshot.",
		}, []string{"market"}),
		investment: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "portfolio",
			Name:      "total_investment",
			Help:      "Total investment in the latest snapshot, in market currency.",
		}, []string{"market"}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "portfolio",
			Name:      "last_refresh_timestamp_seconds",
			Help:      "Unix time of the last successful refresh.",
		}),
	}
	reg.MustRegister(m.refreshes, m.holdings, m.investment, m.lastSuccess)
	return m
}

func (m *Metrics) observe(d *models.Dashboard) {
	m.refreshes.WithLabelValues("ok").Inc()
	for _, mk := range models.Markets() {
		s := d.Summaries[mk]
		m.holdings.WithLabelValues(string(mk)).Set(float64(s.Holdings))
		m.investment.WithLabelValues(string(mk)).Set(s.TotalInvestment.InexactFloat64())
	}
	m.lastSuccess.Set(float64(d.GeneratedAt.Unix()))
}

func (m *Metrics) failed(reason string) {
	m.refreshes.WithLabelValues(reason).Inc()
}
