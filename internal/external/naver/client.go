package naver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/hyeon/stockpilot/pkg/httputil"
	"github.com/hyeon/stockpilot/pkg/logger"
)

// Client handles communication with Naver Finance
// ⭐ SSOT: Naver Finance API 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	chartURL   string

	// company name cache (stock code -> name)
	nameMu sync.RWMutex
	names  map[string]string
}

// NewClient creates a new Naver Finance client
func NewClient(httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    "https://finance.naver.com",
		chartURL:   "https://fchart.stock.naver.com",
		names:      make(map[string]string),
	}
}

// fetchHTML fetches an HTML page from Naver Finance
func (c *Client) fetchHTML(ctx context.Context, path string, params url.Values) (string, error) {
	fullURL := fmt.Sprintf("%s%s", c.baseURL, path)
	if len(params) > 0 {
		fullURL = fmt.Sprintf("%s?%s", fullURL, params.Encode())
	}

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	return string(body), nil
}

// PriceData represents daily OHLCV price data
type PriceData struct {
	StockCode    string
	TradeDate    time.Time
	OpenPrice    int64
	HighPrice    int64
	LowPrice     int64
	ClosePrice   int64
	Volume       int64
	TradingValue int64
}

// IndexData represents a daily market index value
type IndexData struct {
	IndexCode  string // KOSPI / KOSDAQ
	TradeDate  time.Time
	OpenValue  float64
	HighValue  float64
	LowValue   float64
	CloseValue float64
	Volume     int64
}
