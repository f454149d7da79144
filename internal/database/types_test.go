package database

import (
	"database/sql"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolioboard/internal/models"
	"portfolioboard/internal/pipeline"
)

func text(s string) sql.NullString {
	return nullable(s)
}

func TestSheetTable_DropsAllNullColumns(t *testing.T) {
	rows := []portfolioRow{
		{Stock: text("INFY"), Broker: text("Zerodha"), Type: text("Indian"), Investment: text("10,000")},
		{Stock: text("AAPL"), Broker: text("Schwab"), Type: text("US"), Quantity: text("5"), Investment: text("1000")},
	}
	tbl := sheetTable(rows)

	assert.Equal(t, []string{"Stock", "Broker", "Type", "Quantity", "Investment"}, tbl.Columns)
	assert.False(t, tbl.Has("Current Value"))
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "", tbl.Rows[0]["Quantity"])
	assert.Equal(t, "5", tbl.Rows[1]["Quantity"])

	log := logrus.New()
	log.SetOutput(io.Discard)
	d, err := pipeline.New(pipeline.DefaultOptions(), log).Run("postgres", tbl)
	require.NoError(t, err)
	s := d.Summaries[models.Domestic]
	assert.False(t, s.HasCurrentValue)
	assert.True(t, s.TotalGain.IsZero())
	assert.True(t, s.AvgGainPercent.IsZero())
}

func TestSheetTable_KeepsIdentityAndGain(t *testing.T) {
	tbl := sheetTable(nil)
	assert.Equal(t, []string{"Stock", "Broker"}, tbl.Columns)
	assert.Empty(t, tbl.Rows)

	tbl = sheetTable([]portfolioRow{
		{Stock: text("TCS"), Broker: text("Zerodha"), Investment: text("2000"), Gain: text("15%")},
	})
	assert.Equal(t, []string{"Stock", "Broker", "Investment", "Gain"}, tbl.Columns)
	assert.Equal(t, "15%", tbl.Rows[0]["Gain"])
}
