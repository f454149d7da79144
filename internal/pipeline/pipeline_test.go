package pipeline

import (
	"io"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolioboard/internal/models"
	"portfolioboard/internal/source"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	w := decimal.RequireFromString(want)
	assert.True(t, w.Equal(got), "expected %s, got %s", w, got)
}

func table(header []string, rows ...[]string) *source.RawTable {
	return source.NewRawTable(header, rows)
}

var fullHeader = []string{"Stock", "Broker", "Type", "Quantity", "Investment", "Current Value"}

func TestRun_EndToEnd(t *testing.T) {
	tbl := table(fullHeader,
		[]string{"INFY", "Zerodha", "Indian", "10", "10,000", "12000"},
		[]string{"AAPL", "Schwab", "US", "5", "1000", "900"},
	)
	d, err := New(DefaultOptions(), quietLogger()).Run("test", tbl)
	require.NoError(t, err)

	require.Len(t, d.Holdings, 2)
	assert.Equal(t, "test", d.Source)
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", d.ID.String())

	dom := d.Summaries[models.Domestic]
	assertDecimal(t, "10000", dom.TotalInvestment)
	assertDecimal(t, "12000", dom.TotalCurrentValue)
	assertDecimal(t, "2000", dom.TotalGain)
	assertDecimal(t, "20", dom.AvgGainPercent)

	fgn := d.Summaries[models.Foreign]
	assertDecimal(t, "1000", fgn.TotalInvestment)
	assertDecimal(t, "-10", fgn.AvgGainPercent)

	require.Len(t, d.TopGainers[models.Domestic], 1)
	assert.Equal(t, "INFY", d.TopGainers[models.Domestic][0].Stock)
	require.Len(t, d.TopGainers[models.Foreign], 1)
	assert.Equal(t, "AAPL", d.TopGainers[models.Foreign][0].Stock)
	assertDecimal(t, "-10", d.TopGainers[models.Foreign][0].GainPercent.Decimal)

	require.Len(t, d.Brokers, 2)
	assert.Equal(t, "Zerodha", d.Brokers[0].Broker)
	assert.Equal(t, models.Domestic, d.Brokers[0].Market)
	assert.Equal(t, "Schwab", d.Brokers[1].Broker)
}

func TestNormalize_DegradesBadCells(t *testing.T) {
	tbl := table(fullHeader,
		[]string{"HDFC", "Groww", "indian", "N/A", "0", "500"},
		[]string{"TSLA", "Vested", "US", "2", "abc", "700"},
		[]string{"MSFT", "Vested", "us", "1", "300", ""},
	)
	hs, withCurrent, err := New(DefaultOptions(), quietLogger()).Normalize(tbl)
	require.NoError(t, err)
	require.Len(t, hs, 3)
	assert.True(t, withCurrent)

	assert.False(t, hs[0].Quantity.Valid)
	assert.True(t, hs[0].Investment.Valid)
	assert.False(t, hs[0].GainPercent.Valid, "zero investment must not produce a gain")

	assert.False(t, hs[1].Investment.Valid)
	assert.False(t, hs[1].GainPercent.Valid)

	assert.False(t, hs[2].CurrentValue.Valid)
	assert.False(t, hs[2].GainPercent.Valid)
}

func TestNormalize_TrimsValuesAndHeaders(t *testing.T) {
	tbl := &source.RawTable{
		Columns: []string{" Stock ", "Broker  ", " Type", "Investment "},
		Rows: []source.RawRow{
			{" Stock ": "  RELIANCE ", "Broker  ": " Zerodha", " Type": " Indian ", "Investment ": " 2,500 "},
		},
	}
	hs, withCurrent, err := New(DefaultOptions(), quietLogger()).Normalize(tbl)
	require.NoError(t, err)
	require.Len(t, hs, 1)
	assert.False(t, withCurrent)
	assert.Equal(t, "RELIANCE", hs[0].Stock)
	assert.Equal(t, "Zerodha", hs[0].Broker)
	assert.Equal(t, models.Domestic, hs[0].Market)
	assertDecimal(t, "2500", hs[0].Investment.Decimal)
}

func TestNormalize_SchemaViolation(t *testing.T) {
	p := New(DefaultOptions(), quietLogger())

	_, _, err := p.Normalize(&source.RawTable{})
	assert.ErrorIs(t, err, ErrSchema)

	_, _, err = p.Normalize(nil)
	assert.ErrorIs(t, err, ErrSchema)

	_, _, err = p.Normalize(table([]string{"Stock", "Type", "Investment"}, []string{"INFY", "Indian", "1"}))
	assert.ErrorIs(t, err, ErrSchema)

	_, err = p.Run("test", table([]string{"Broker", "Investment"}))
	assert.ErrorIs(t, err, ErrSchema)
}

func TestNormalize_SkipsRowsWithoutIdentity(t *testing.T) {
	tbl := table(fullHeader,
		[]string{"", "", "US", "", "100", "120"},
		[]string{"INFY", "", "Indian", "", "100", "120"},
	)
	hs, _, err := New(DefaultOptions(), quietLogger()).Normalize(tbl)
	require.NoError(t, err)
	require.Len(t, hs, 1)
	assert.Equal(t, "INFY", hs[0].Stock)
}

func TestNormalize_MissingOptionalColumns(t *testing.T) {
	tbl := table([]string{"Stock", "Broker"}, []string{"INFY", "Zerodha"})
	d, err := New(DefaultOptions(), quietLogger()).Run("test", tbl)
	require.NoError(t, err)

	require.Len(t, d.Holdings, 1)
	h := d.Holdings[0]
	assert.Equal(t, models.Domestic, h.Market)
	assert.False(t, h.Quantity.Valid)
	assert.False(t, h.Investment.Valid)
	assert.False(t, h.GainPercent.Valid)

	s := d.Summaries[models.Domestic]
	assert.False(t, s.HasCurrentValue)
	assert.True(t, s.AvgGainPercent.IsZero())
	assert.Empty(t, d.TopGainers[models.Domestic])
}

func TestNormalize_LegacyGainColumn(t *testing.T) {
	tbl := table([]string{"Stock", "Broker", "Type", "Quantity", "Investment", "Gain"},
		[]string{"TCS", "Zerodha", "Indian", "3", "2000", "15%"},
		[]string{"NVDA", "Vested", "US", "1", "0", "40%"},
	)
	d, err := New(DefaultOptions(), quietLogger()).Run("test", tbl)
	require.NoError(t, err)

	tcs := d.Holdings[0]
	require.True(t, tcs.CurrentValue.Valid)
	assertDecimal(t, "2300", tcs.CurrentValue.Decimal)
	assertDecimal(t, "15", tcs.GainPercent.Decimal)
	assertDecimal(t, "15", d.Summaries[models.Domestic].AvgGainPercent)

	assert.False(t, d.Holdings[1].GainPercent.Valid)
	assert.True(t, d.Summaries[models.Foreign].AvgGainPercent.IsZero())
}

func TestNormalize_LegacyGainMissingCountsAsNoGain(t *testing.T) {
	tbl := table([]string{"Stock", "Broker", "Type", "Investment", "Gain"},
		[]string{"TCS", "Zerodha", "Indian", "1000", "10%"},
		[]string{"INFY", "Zerodha", "Indian", "1000", "N/A"},
		[]string{"WIPRO", "Groww", "Indian", "500", ""},
	)
	d, err := New(DefaultOptions(), quietLogger()).Run("test", tbl)
	require.NoError(t, err)

	infy := d.Holdings[1]
	assert.False(t, infy.GainPercent.Valid)
	require.True(t, infy.CurrentValue.Valid)
	assertDecimal(t, "1000", infy.CurrentValue.Decimal)

	s := d.Summaries[models.Domestic]
	assertDecimal(t, "2500", s.TotalInvestment)
	assertDecimal(t, "2600", s.TotalCurrentValue)
	assertDecimal(t, "100", s.TotalGain)
	assertDecimal(t, "4", s.AvgGainPercent)

	require.Len(t, d.TopGainers[models.Domestic], 1)
	assert.Equal(t, "TCS", d.TopGainers[models.Domestic][0].Stock)
}

func TestNormalize_DuplicateUntrimmedHeaders(t *testing.T) {
	tbl := &source.RawTable{
		Columns: []string{"Stock", "Broker", " Investment", "Investment "},
		Rows: []source.RawRow{
			{"Stock": "INFY", "Broker": "Zerodha", " Investment": "100", "Investment ": "999"},
		},
	}
	hs, _, err := New(DefaultOptions(), quietLogger()).Normalize(tbl)
	require.NoError(t, err)
	require.Len(t, hs, 1)
	assertDecimal(t, "100", hs[0].Investment.Decimal)
}

func TestRun_EmptyMarket(t *testing.T) {
	tbl := table(fullHeader, []string{"AAPL", "Schwab", "US Stock", "1", "100", "150"})
	d, err := New(DefaultOptions(), quietLogger()).Run("test", tbl)
	require.NoError(t, err)

	dom := d.Summaries[models.Domestic]
	assert.Equal(t, 0, dom.Holdings)
	assert.True(t, dom.TotalInvestment.IsZero())
	assert.True(t, dom.AvgGainPercent.IsZero())
	assert.NotNil(t, d.TopGainers[models.Domestic])
	assert.Empty(t, d.TopGainers[models.Domestic])
	assert.Empty(t, d.BrokersFor(models.Domestic))
	assertDecimal(t, "50", d.Summaries[models.Foreign].AvgGainPercent)
}

func TestRun_TopNLimit(t *testing.T) {
	rows := [][]string{}
	for i := 0; i < 15; i++ {
		rows = append(rows, []string{"S" + decimal.NewFromInt(int64(i)).String(), "B", "Indian", "1", "100", decimal.NewFromInt(int64(100 + i)).String()})
	}
	d, err := New(Options{TopN: 10}, quietLogger()).Run("test", source.NewRawTable(fullHeader, rows))
	require.NoError(t, err)

	top := d.TopGainers[models.Domestic]
	require.Len(t, top, 10)
	assert.Equal(t, "S14", top[0].Stock)
	assert.Equal(t, "S5", top[9].Stock)
}

func TestNew_Defaults(t *testing.T) {
	p := New(Options{}, quietLogger())
	assert.Equal(t, []string{"us"}, p.opts.ForeignMarkers)
	assert.Equal(t, DefaultTopN, p.opts.TopN)
}
