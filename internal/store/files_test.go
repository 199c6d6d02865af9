package store

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyeon/stockpilot/internal/external/dart"
	"github.com/hyeon/stockpilot/internal/external/naver"
	"github.com/hyeon/stockpilot/pkg/logger"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()

	s, err := NewFileStore(t.TempDir(), logger.NewNop())
	require.NoError(t, err)
	return s
}

func samplePrices(code string) []naver.PriceData {
	base := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	return []naver.PriceData{
		{StockCode: code, TradeDate: base, OpenPrice: 70000, HighPrice: 71500, LowPrice: 69800, ClosePrice: 71000, Volume: 15000000, TradingValue: 71000 * 15000000},
		{StockCode: code, TradeDate: base.AddDate(0, 0, 1), OpenPrice: 71000, HighPrice: 72000, LowPrice: 70500, ClosePrice: 71800, Volume: 12000000, TradingValue: 71800 * 12000000},
	}
}

func TestSaveAndLoadPrices(t *testing.T) {
	s := newTestStore(t)

	asOf := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	path, err := s.SavePrices("005930", samplePrices("005930"), asOf)
	require.NoError(t, err)
	assert.Contains(t, path, "prices_005930_20250110.csv")

	loaded, err := s.LoadLatestPrices("005930")
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "005930", loaded[0].StockCode)
	assert.Equal(t, int64(71000), loaded[0].ClosePrice)
	assert.Equal(t, int64(12000000), loaded[1].Volume)
}

func TestLoadLatestPicksNewestFile(t *testing.T) {
	s := newTestStore(t)

	older := samplePrices("005930")
	newer := samplePrices("005930")
	newer[0].ClosePrice = 99999

	_, err := s.SavePrices("005930", older, time.Date(2025, 1, 9, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	_, err = s.SavePrices("005930", newer, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	loaded, err := s.LoadLatestPrices("005930")
	require.NoError(t, err)
	assert.Equal(t, int64(99999), loaded[0].ClosePrice)
}

func TestLoadLatestPricesNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.LoadLatestPrices("000000")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSaveAndLoadIndex(t *testing.T) {
	s := newTestStore(t)

	series := []naver.IndexData{
		{IndexCode: "KOSPI", TradeDate: time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), OpenValue: 2480.5, HighValue: 2495.1, LowValue: 2470.0, CloseValue: 2490.3, Volume: 450000},
	}

	_, err := s.SaveIndex("KOSPI", series, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	loaded, err := s.LoadLatestIndex("KOSPI")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "KOSPI", loaded[0].IndexCode)
	assert.InDelta(t, 2490.3, loaded[0].CloseValue, 0.001)
}

func TestSaveAndLoadFinancials(t *testing.T) {
	s := newTestStore(t)

	accounts := []dart.FinancialAccount{
		{SjDiv: "IS", AccountNm: "당기순이익", ThstrmAmount: "26408159000000", Currency: "KRW"},
		{SjDiv: "BS", AccountNm: "자본총계", ThstrmAmount: "363677865000000", Currency: "KRW"},
	}

	_, err := s.SaveFinancials("005930", accounts, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	loaded, err := s.LoadLatestFinancials("005930")
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "당기순이익", loaded[0].AccountNm)
	assert.Equal(t, "26408159000000", loaded[0].ThstrmAmount)
}

func TestSaveAndLoadFilings(t *testing.T) {
	s := newTestStore(t)

	filings := []dart.Filing{
		{RceptDt: "20250108", RceptNo: "20250108000001", CorpCls: "Y", ReportNm: "사업보고서 (2024.12)", FlrNm: "삼성전자"},
	}

	_, err := s.SaveFilings("005930", filings, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	loaded, err := s.LoadLatestFilings("005930")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "005930", loaded[0].StockCode)
	assert.Equal(t, "사업보고서 (2024.12)", loaded[0].ReportNm)
}
