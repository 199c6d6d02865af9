package store

import (
	"fmt"
	"strconv"
	"time"

	"github.com/hyeon/stockpilot/internal/external/naver"
)

var priceHeader = []string{"date", "open", "high", "low", "close", "volume", "trading_value"}

// SavePrices writes a dated price CSV for a stock
func (s *FileStore) SavePrices(stockCode string, prices []naver.PriceData, asOf time.Time) (string, error) {
	rows := make([][]string, 0, len(prices))
	for _, p := range prices {
		rows = append(rows, []string{
			p.TradeDate.Format("2006-01-02"),
			strconv.FormatInt(p.OpenPrice, 10),
			strconv.FormatInt(p.HighPrice, 10),
			strconv.FormatInt(p.LowPrice, 10),
			strconv.FormatInt(p.ClosePrice, 10),
			strconv.FormatInt(p.Volume, 10),
			strconv.FormatInt(p.TradingValue, 10),
		})
	}

	filename := fmt.Sprintf("prices_%s_%s.csv", stockCode, asOf.Format("20060102"))
	return s.writeCSV(filename, priceHeader, rows)
}

// LoadLatestPrices loads the most recently collected price CSV for a stock
func (s *FileStore) LoadLatestPrices(stockCode string) ([]naver.PriceData, error) {
	path, err := s.latestFile(fmt.Sprintf("prices_%s_*.csv", stockCode))
	if err != nil {
		return nil, err
	}

	rows, err := s.readCSV(path)
	if err != nil {
		return nil, err
	}

	prices := make([]naver.PriceData, 0, len(rows))
	for _, row := range rows {
		if len(row) < 7 {
			continue
		}

		tradeDate, err := time.Parse("2006-01-02", row[0])
		if err != nil {
			continue
		}

		prices = append(prices, naver.PriceData{
			StockCode:    stockCode,
			TradeDate:    tradeDate,
			OpenPrice:    parseCSVInt(row[1]),
			HighPrice:    parseCSVInt(row[2]),
			LowPrice:     parseCSVInt(row[3]),
			ClosePrice:   parseCSVInt(row[4]),
			Volume:       parseCSVInt(row[5]),
			TradingValue: parseCSVInt(row[6]),
		})
	}

	if len(prices) == 0 {
		return nil, fmt.Errorf("price file %s holds no rows: %w", path, ErrNotFound)
	}
	return prices, nil
}

var indexHeader = []string{"date", "open", "high", "low", "close", "volume"}

// SaveIndex writes a dated index CSV (KOSPI/KOSDAQ)
func (s *FileStore) SaveIndex(indexCode string, series []naver.IndexData, asOf time.Time) (string, error) {
	rows := make([][]string, 0, len(series))
	for _, v := range series {
		rows = append(rows, []string{
			v.TradeDate.Format("2006-01-02"),
			strconv.FormatFloat(v.OpenValue, 'f', 2, 64),
			strconv.FormatFloat(v.HighValue, 'f', 2, 64),
			strconv.FormatFloat(v.LowValue, 'f', 2, 64),
			strconv.FormatFloat(v.CloseValue, 'f', 2, 64),
			strconv.FormatInt(v.Volume, 10),
		})
	}

	filename := fmt.Sprintf("index_%s_%s.csv", indexCode, asOf.Format("20060102"))
	return s.writeCSV(filename, indexHeader, rows)
}

// LoadLatestIndex loads the most recently collected index CSV
func (s *FileStore) LoadLatestIndex(indexCode string) ([]naver.IndexData, error) {
	path, err := s.latestFile(fmt.Sprintf("index_%s_*.csv", indexCode))
	if err != nil {
		return nil, err
	}

	rows, err := s.readCSV(path)
	if err != nil {
		return nil, err
	}

	series := make([]naver.IndexData, 0, len(rows))
	for _, row := range rows {
		if len(row) < 6 {
			continue
		}

		tradeDate, err := time.Parse("2006-01-02", row[0])
		if err != nil {
			continue
		}

		series = append(series, naver.IndexData{
			IndexCode:  indexCode,
			TradeDate:  tradeDate,
			OpenValue:  parseCSVFloat(row[1]),
			HighValue:  parseCSVFloat(row[2]),
			LowValue:   parseCSVFloat(row[3]),
			CloseValue: parseCSVFloat(row[4]),
			Volume:     parseCSVInt(row[5]),
		})
	}

	if len(series) == 0 {
		return nil, fmt.Errorf("index file %s holds no rows: %w", path, ErrNotFound)
	}
	return series, nil
}

func parseCSVInt(s string) int64 {
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}

func parseCSVFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
