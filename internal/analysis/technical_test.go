package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyeon/stockpilot/internal/external/naver"
)

func seriesFromCloses(closes []float64) []naver.PriceData {
	base := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	prices := make([]naver.PriceData, len(closes))
	for i, c := range closes {
		prices[i] = naver.PriceData{
			StockCode:  "005930",
			TradeDate:  base.AddDate(0, 0, i),
			OpenPrice:  int64(c),
			HighPrice:  int64(c + 500),
			LowPrice:   int64(c - 500),
			ClosePrice: int64(c),
			Volume:     1000000,
		}
	}
	return prices
}

func risingCloses(n int) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 70000 + float64(i)*100
	}
	return closes
}

func TestCalculateRSIAllGains(t *testing.T) {
	rsi, err := CalculateRSI(risingCloses(20), 14)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, rsi, 0.001)
}

func TestCalculateRSIMixed(t *testing.T) {
	// Alternating +200/-100 moves: avg gain 100, avg loss 50, RS=2, RSI=66.67
	closes := []float64{1000}
	for i := 0; i < 14; i += 2 {
		last := closes[len(closes)-1]
		closes = append(closes, last+200)
		closes = append(closes, last+100)
	}

	rsi, err := CalculateRSI(closes, 14)
	require.NoError(t, err)
	assert.InDelta(t, 66.67, rsi, 0.1)
}

func TestCalculateRSIInsufficientData(t *testing.T) {
	_, err := CalculateRSI(risingCloses(10), 14)
	require.Error(t, err)
}

func TestRSISignal(t *testing.T) {
	assert.Equal(t, "과매수", rsiSignal(75))
	assert.Equal(t, "과매도", rsiSignal(25))
	assert.Equal(t, "중립", rsiSignal(50))
}

func TestSMA(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	assert.InDelta(t, 4.0, SMA(values, 3), 0.001)
	assert.InDelta(t, 3.0, SMA(values, 5), 0.001)
	assert.Equal(t, 0.0, SMA(values, 6))
}

func TestTrendLabel(t *testing.T) {
	tests := []struct {
		name    string
		current float64
		mas     MovingAverages
		want    string
	}{
		{"정배열", 110, MovingAverages{MA5: 105, MA20: 100, MA60: 95}, "강한 상승 추세 (정배열)"},
		{"역배열", 90, MovingAverages{MA5: 95, MA20: 100, MA60: 105}, "강한 하락 추세 (역배열)"},
		{"상승", 102, MovingAverages{MA5: 104, MA20: 100, MA60: 95}, "상승 추세"},
		{"하락", 98, MovingAverages{MA5: 97, MA20: 100, MA60: 95}, "하락 추세"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, trendLabel(tt.current, tt.mas))
		})
	}
}

func TestCalculateBollingerBands(t *testing.T) {
	// Constant series: zero std, position defaults to 50
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 70000
	}

	bands, err := CalculateBollingerBands(closes, 20, 2)
	require.NoError(t, err)
	assert.InDelta(t, 70000.0, bands.Middle, 0.001)
	assert.InDelta(t, 70000.0, bands.Upper, 0.001)
	assert.InDelta(t, 50.0, bands.PositionPct, 0.001)
	assert.Equal(t, "중간 구간", bands.Signal)
}

func TestCalculateBollingerBandsSignals(t *testing.T) {
	closes := risingCloses(20)

	bands, err := CalculateBollingerBands(closes, 20, 2)
	require.NoError(t, err)
	assert.Greater(t, bands.Upper, bands.Middle)
	assert.Less(t, bands.Lower, bands.Middle)
	// Steady uptrend puts the last close near the upper band
	assert.Greater(t, bands.PositionPct, 80.0)
	assert.Equal(t, "상단 근접 (과매수)", bands.Signal)
}

func TestAnalyzeTechnical(t *testing.T) {
	prices := seriesFromCloses(risingCloses(70))

	result, err := AnalyzeTechnical("005930", "삼성전자", prices)
	require.NoError(t, err)

	assert.Equal(t, "005930", result.Ticker)
	assert.Equal(t, "삼성전자", result.Name)
	require.NotNil(t, result.RSI)
	assert.Equal(t, "과매수", result.RSI.Signal)
	require.NotNil(t, result.MovingAverages)
	assert.Equal(t, "강한 상승 추세 (정배열)", result.Trend)
	require.NotNil(t, result.Bollinger)
	require.NotNil(t, result.Volume)
	require.NotNil(t, result.Week52)
	assert.Greater(t, result.Week52.PositionPct, 90.0)
}

func TestAnalyzeTechnicalShortSeriesOmitsIndicators(t *testing.T) {
	prices := seriesFromCloses(risingCloses(5))

	result, err := AnalyzeTechnical("005930", "삼성전자", prices)
	require.NoError(t, err)
	assert.Nil(t, result.RSI)
	assert.Nil(t, result.Bollinger)
	assert.NotNil(t, result.MovingAverages)
	assert.NotNil(t, result.Week52)
}

func TestAnalyzeTechnicalEmpty(t *testing.T) {
	_, err := AnalyzeTechnical("005930", "삼성전자", nil)
	require.Error(t, err)
}

func TestCalculatePriceChange(t *testing.T) {
	prices := seriesFromCloses([]float64{100, 110, 120, 130, 140, 150})

	change, err := CalculatePriceChange("005930", prices, 5)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, change.PastPrice, 0.001)
	assert.InDelta(t, 150.0, change.CurrentPrice, 0.001)
	assert.InDelta(t, 50.0, change.ChangePct, 0.001)
}

func TestCalculatePriceChangeClampsToSeriesStart(t *testing.T) {
	prices := seriesFromCloses([]float64{100, 150})

	change, err := CalculatePriceChange("005930", prices, 30)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, change.PastPrice, 0.001)
	assert.InDelta(t, 50.0, change.ChangePct, 0.001)
}
