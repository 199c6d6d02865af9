package chart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyeon/stockpilot/internal/external/naver"
)

func dailySeries(closes []float64) []naver.PriceData {
	start := time.Date(2026, 1, 2, 0, 0, 0, 0, time.Local)
	prices := make([]naver.PriceData, len(closes))
	for i, c := range closes {
		prices[i] = naver.PriceData{
			StockCode:  "005930",
			TradeDate:  start.AddDate(0, 0, i),
			OpenPrice:  int64(c) - 500,
			HighPrice:  int64(c) + 1000,
			LowPrice:   int64(c) - 1000,
			ClosePrice: int64(c),
			Volume:     10000 + int64(i)*100,
		}
	}
	return prices
}

func flatSeries(n int, price float64) []naver.PriceData {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = price
	}
	return dailySeries(closes)
}

func TestPeriodDays(t *testing.T) {
	assert.Equal(t, 30, PeriodDays("1m"))
	assert.Equal(t, 90, PeriodDays("3m"))
	assert.Equal(t, 180, PeriodDays("6m"))
	assert.Equal(t, 365, PeriodDays("1y"))
	assert.Equal(t, 90, PeriodDays("bogus"))
}

func TestBuildCandlestick(t *testing.T) {
	payload, err := BuildCandlestick("005930", "3m", flatSeries(70, 70000))
	require.NoError(t, err)

	assert.Equal(t, "005930", payload.Symbol)
	assert.Equal(t, TypeCandlestick, payload.Type)
	assert.Len(t, payload.Data.Dates, 70)
	assert.Equal(t, "2026-01-02", payload.Data.Dates[0])

	// 70 rows: MA5/MA20 가능, MA60도 가능
	assert.Equal(t, []int{5, 20, 60}, payload.Meta.MA)
	assert.Nil(t, payload.Data.MA5[3])
	require.NotNil(t, payload.Data.MA5[4])
	assert.InDelta(t, 70000.0, *payload.Data.MA5[4], 0.001)
	assert.Nil(t, payload.Data.MA60[58])
	assert.NotNil(t, payload.Data.MA60[59])
}

func TestBuildCandlestickShortSeries(t *testing.T) {
	payload, err := BuildCandlestick("005930", "1m", flatSeries(10, 70000))
	require.NoError(t, err)

	assert.Equal(t, []int{5}, payload.Meta.MA)
	assert.Nil(t, payload.Data.MA20)
	assert.Nil(t, payload.Data.MA60)
}

func TestBuildTailsToPeriod(t *testing.T) {
	payload, err := BuildLine("005930", "1m", flatSeries(120, 70000))
	require.NoError(t, err)
	assert.Len(t, payload.Data.Dates, 30)
}

func TestBuildTechnical(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 70000 + float64(i%5)*300
	}

	payload, err := BuildTechnical("005930", "3m", dailySeries(closes))
	require.NoError(t, err)

	assert.Equal(t, []string{"bollinger", "rsi"}, payload.Meta.Indicators)
	assert.Nil(t, payload.Data.BollingerUpper[18])
	require.NotNil(t, payload.Data.BollingerUpper[19])
	require.NotNil(t, payload.Data.BollingerLower[19])
	assert.True(t, *payload.Data.BollingerUpper[19] > *payload.Data.BollingerLower[19])

	assert.Nil(t, payload.Data.RSI[13])
	require.NotNil(t, payload.Data.RSI[14])
	assert.True(t, *payload.Data.RSI[14] >= 0 && *payload.Data.RSI[14] <= 100)
}

func TestBuildVolume(t *testing.T) {
	payload, err := BuildVolume("005930", "1m", flatSeries(5, 70000))
	require.NoError(t, err)

	assert.Len(t, payload.Data.Volume, 5)
	// close(70000) >= open(69500) → 양봉
	assert.True(t, payload.Data.Rising[0])
}

func TestBuildDispatch(t *testing.T) {
	prices := flatSeries(25, 70000)

	line, err := Build(TypeLine, "005930", "1m", prices)
	require.NoError(t, err)
	assert.Equal(t, TypeLine, line.Type)

	fallback, err := Build("unknown", "005930", "1m", prices)
	require.NoError(t, err)
	assert.Equal(t, TypeCandlestick, fallback.Type)
}

func TestBuildEmptySeries(t *testing.T) {
	_, err := BuildLine("005930", "1m", nil)
	require.Error(t, err)
}

func TestRollingRSIAllGains(t *testing.T) {
	values := make([]float64, 20)
	for i := range values {
		values[i] = 100 + float64(i)
	}

	rsi := rollingRSI(values, 14)
	require.NotNil(t, rsi[14])
	assert.Equal(t, 100.0, *rsi[14])
}
