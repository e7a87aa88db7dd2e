package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyTemperature(t *testing.T) {
	tests := []struct {
		score float64
		want  TemperatureLevel
	}{
		{100, TemperatureScorching},
		{80, TemperatureScorching},
		{79.99, TemperatureWarm},
		{50, TemperatureWarm},
		{49.99, TemperatureCold},
		{20, TemperatureCold},
		{19.99, TemperatureFrozen},
		{0, TemperatureFrozen},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyTemperature(tt.score), "score %v", tt.score)
	}
}

func TestSnapshot_Sentiment(t *testing.T) {
	var rows []InstrumentRow
	for _, change := range []float64{10, 6, 4, 1, 0, -2, -4, -10} {
		r := validRow("x")
		r.ChangePct = change
		rows = append(rows, r)
	}

	got := (&Snapshot{Rows: rows}).Sentiment()

	assert.Equal(t, MarketTemperature{Score: 50, Level: TemperatureWarm}, got.Temperature)
	assert.Equal(t, 50.0, got.UpRatio)
	assert.Equal(t, 12.5, got.LimitUpRate)
	assert.Equal(t, 12.5, got.LimitDownRate)
	assert.Equal(t, 0.5, got.MedianChange)
	assert.Equal(t, 0.63, got.MeanChange)
	assert.Equal(t, MarketWidth{
		Above7:      WidthBucket{Count: 1, Pct: 12.5},
		Above5:      WidthBucket{Count: 2, Pct: 25},
		Above3:      WidthBucket{Count: 3, Pct: 37.5},
		Above0:      WidthBucket{Count: 4, Pct: 50},
		Below0:      WidthBucket{Count: 3, Pct: 37.5},
		BelowMinus3: WidthBucket{Count: 2, Pct: 25},
		BelowMinus5: WidthBucket{Count: 1, Pct: 12.5},
		BelowMinus7: WidthBucket{Count: 1, Pct: 12.5},
	}, got.Width)
}

func TestSnapshot_SentimentOddMedianAndExtremes(t *testing.T) {
	hot := make([]InstrumentRow, 0, 5)
	for _, change := range []float64{3, 1, 2, 5, 9.9} {
		r := validRow("x")
		r.ChangePct = change
		hot = append(hot, r)
	}
	got := (&Snapshot{Rows: hot}).Sentiment()
	assert.Equal(t, TemperatureScorching, got.Temperature.Level)
	assert.Equal(t, 3.0, got.MedianChange)

	empty := (*Snapshot)(nil).Sentiment()
	assert.Equal(t, MarketTemperature{Level: TemperatureFrozen}, empty.Temperature)
	assert.Zero(t, empty.MedianChange)
}
