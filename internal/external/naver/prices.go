package naver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// FetchPrices fetches daily price data for a stock from the Naver chart API
// ⭐ SSOT: Naver Finance 가격 API 호출은 이 함수에서만
func (c *Client) FetchPrices(ctx context.Context, stockCode string, from, to time.Time) ([]PriceData, error) {
	body, err := c.fetchChart(ctx, stockCode, from, to)
	if err != nil {
		return nil, err
	}

	prices, err := parsePriceResponse(body)
	if err != nil {
		return nil, fmt.Errorf("parse response failed: %w", err)
	}

	for i := range prices {
		prices[i].StockCode = stockCode
	}

	c.logger.WithFields(map[string]interface{}{
		"stock_code": stockCode,
		"count":      len(prices),
	}).Debug("Fetched prices")
	return prices, nil
}

// FetchIndex fetches daily values of a market index (KOSPI or KOSDAQ).
// The chart API serves indices under their plain symbol names.
func (c *Client) FetchIndex(ctx context.Context, indexCode string, from, to time.Time) ([]IndexData, error) {
	symbol := strings.ToUpper(indexCode)
	if symbol != "KOSPI" && symbol != "KOSDAQ" {
		return nil, fmt.Errorf("index code must be KOSPI or KOSDAQ, got %q", indexCode)
	}

	body, err := c.fetchChart(ctx, symbol, from, to)
	if err != nil {
		return nil, err
	}

	prices, err := parsePriceResponse(body)
	if err != nil {
		return nil, fmt.Errorf("parse response failed: %w", err)
	}

	series := make([]IndexData, 0, len(prices))
	for _, p := range prices {
		series = append(series, IndexData{
			IndexCode:  symbol,
			TradeDate:  p.TradeDate,
			OpenValue:  float64(p.OpenPrice),
			HighValue:  float64(p.HighPrice),
			LowValue:   float64(p.LowPrice),
			CloseValue: float64(p.ClosePrice),
			Volume:     p.Volume,
		})
	}

	c.logger.WithFields(map[string]interface{}{
		"index": symbol,
		"count": len(series),
	}).Debug("Fetched index series")
	return series, nil
}

// fetchChart calls the siseJson chart endpoint for a symbol
func (c *Client) fetchChart(ctx context.Context, symbol string, from, to time.Time) (string, error) {
	fullURL := fmt.Sprintf(
		"%s/siseJson.naver?symbol=%s&requestType=1&startTime=%s&endTime=%s&timeframe=day",
		c.chartURL, symbol, from.Format("20060102"), to.Format("20060102"),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request failed: %w", err)
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")
	req.Header.Set("Referer", "https://finance.naver.com/")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response body failed: %w", err)
	}

	return string(body), nil
}

// parsePriceResponse parses the siseJson response. The endpoint returns a
// JavaScript-style array with single quotes, so the body is normalized to
// JSON first; a regex scan is the fallback.
func parsePriceResponse(body string) ([]PriceData, error) {
	body = strings.TrimSpace(body)
	body = strings.ReplaceAll(body, "'", "\"")

	var rawData [][]interface{}
	if err := json.Unmarshal([]byte(body), &rawData); err == nil {
		return parsePriceJSON(rawData)
	}

	return parsePriceRegex(body)
}

// parsePriceJSON parses the JSON array format
func parsePriceJSON(rawData [][]interface{}) ([]PriceData, error) {
	var prices []PriceData
	for i, row := range rawData {
		if i == 0 || len(row) < 6 {
			continue // Skip header
		}

		dateStr, ok := row[0].(string)
		if !ok {
			continue
		}
		dateStr = strings.Trim(dateStr, "\"")
		if len(dateStr) == 8 {
			dateStr = dateStr[:4] + "-" + dateStr[4:6] + "-" + dateStr[6:8]
		}

		tradeDate, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			continue
		}

		openPrice := toInt64(row[1])
		highPrice := toInt64(row[2])
		lowPrice := toInt64(row[3])
		closePrice := toInt64(row[4])
		volume := toInt64(row[5])

		prices = append(prices, PriceData{
			TradeDate:    tradeDate,
			OpenPrice:    openPrice,
			HighPrice:    highPrice,
			LowPrice:     lowPrice,
			ClosePrice:   closePrice,
			Volume:       volume,
			TradingValue: closePrice * volume,
		})
	}
	return prices, nil
}

// parsePriceRegex parses using regex (fallback)
func parsePriceRegex(body string) ([]PriceData, error) {
	re := regexp.MustCompile(`\["(\d{8})",\s*(\d+),\s*(\d+),\s*(\d+),\s*(\d+),\s*(\d+)\]`)
	matches := re.FindAllStringSubmatch(body, -1)

	var prices []PriceData
	for _, match := range matches {
		if len(match) < 7 {
			continue
		}

		dateStr := match[1][:4] + "-" + match[1][4:6] + "-" + match[1][6:8]
		tradeDate, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			continue
		}

		openPrice, _ := strconv.ParseInt(match[2], 10, 64)
		highPrice, _ := strconv.ParseInt(match[3], 10, 64)
		lowPrice, _ := strconv.ParseInt(match[4], 10, 64)
		closePrice, _ := strconv.ParseInt(match[5], 10, 64)
		volume, _ := strconv.ParseInt(match[6], 10, 64)

		prices = append(prices, PriceData{
			TradeDate:    tradeDate,
			OpenPrice:    openPrice,
			HighPrice:    highPrice,
			LowPrice:     lowPrice,
			ClosePrice:   closePrice,
			Volume:       volume,
			TradingValue: closePrice * volume,
		})
	}
	return prices, nil
}

// toInt64 converts various JSON value types to int64
func toInt64(v interface{}) int64 {
	switch val := v.(type) {
	case float64:
		return int64(val)
	case int64:
		return val
	case int:
		return int64(val)
	case string:
		n, _ := strconv.ParseInt(val, 10, 64)
		return n
	default:
		return 0
	}
}
