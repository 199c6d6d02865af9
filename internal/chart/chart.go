// Package chart builds the JSON chart payloads consumed by the web
// front-end: candlestick, close-price line, technical overlay and volume.
// Rendering is the front-end's job; this package only ships the series.
package chart

import (
	"fmt"
	"time"

	"github.com/hyeon/stockpilot/internal/external/naver"
)

// Chart types understood by the API
const (
	TypeCandlestick = "candlestick"
	TypeLine        = "line"
	TypeTechnical   = "technical"
	TypeVolume      = "volume"
)

var periodDays = map[string]int{
	"1d": 1,
	"1w": 7,
	"1m": 30,
	"3m": 90,
	"6m": 180,
	"1y": 365,
	"3y": 1095,
}

// PeriodDays maps a period token to trading-day row count. Unknown
// periods fall back to 90 (3m).
func PeriodDays(period string) int {
	if days, ok := periodDays[period]; ok {
		return days
	}
	return 90
}

// Payload is one chart response
type Payload struct {
	Symbol string      `json:"symbol"`
	Range  string      `json:"range"`
	Type   string      `json:"type"`
	Data   *SeriesData `json:"data"`
	Meta   Meta        `json:"meta"`
}

// SeriesData carries the aligned series. Overlay slots stay nil when the
// chart type does not include them; warmup slots inside a series are nil.
type SeriesData struct {
	Dates  []string `json:"dates"`
	Open   []int64  `json:"open,omitempty"`
	High   []int64  `json:"high,omitempty"`
	Low    []int64  `json:"low,omitempty"`
	Close  []int64  `json:"close"`
	Volume []int64  `json:"volume,omitempty"`
	Rising []bool   `json:"rising,omitempty"` // 양봉 여부 (close >= open)

	MA5  []*float64 `json:"ma5,omitempty"`
	MA20 []*float64 `json:"ma20,omitempty"`
	MA60 []*float64 `json:"ma60,omitempty"`

	BollingerUpper []*float64 `json:"bollinger_upper,omitempty"`
	BollingerLower []*float64 `json:"bollinger_lower,omitempty"`
	RSI            []*float64 `json:"rsi,omitempty"`
}

type Meta struct {
	MA          []int    `json:"ma,omitempty"`
	Indicators  []string `json:"indicators,omitempty"`
	GeneratedAt string   `json:"generatedAt"`
}

// Build dispatches on chart type. Unknown types fall back to candlestick.
func Build(chartType, ticker, period string, prices []naver.PriceData) (*Payload, error) {
	switch chartType {
	case TypeLine:
		return BuildLine(ticker, period, prices)
	case TypeTechnical:
		return BuildTechnical(ticker, period, prices)
	case TypeVolume:
		return BuildVolume(ticker, period, prices)
	default:
		return BuildCandlestick(ticker, period, prices)
	}
}

// BuildCandlestick returns OHLCV rows plus MA5/20/60 overlays. Overlays
// shorter than their window are dropped from meta.
func BuildCandlestick(ticker, period string, prices []naver.PriceData) (*Payload, error) {
	window, err := tail(prices, period)
	if err != nil {
		return nil, err
	}

	data := baseSeries(window, true)
	closes := closesOf(window)

	var maPeriods []int
	for _, p := range []int{5, 20, 60} {
		if len(closes) < p {
			continue
		}
		ma := rollingMean(closes, p)
		switch p {
		case 5:
			data.MA5 = ma
		case 20:
			data.MA20 = ma
		case 60:
			data.MA60 = ma
		}
		maPeriods = append(maPeriods, p)
	}

	return &Payload{
		Symbol: ticker,
		Range:  period,
		Type:   TypeCandlestick,
		Data:   data,
		Meta:   Meta{MA: maPeriods, GeneratedAt: time.Now().Format(time.RFC3339)},
	}, nil
}

// BuildLine returns the close-price series only
func BuildLine(ticker, period string, prices []naver.PriceData) (*Payload, error) {
	window, err := tail(prices, period)
	if err != nil {
		return nil, err
	}

	data := &SeriesData{
		Dates: datesOf(window),
		Close: make([]int64, len(window)),
	}
	for i, p := range window {
		data.Close[i] = p.ClosePrice
	}

	return &Payload{
		Symbol: ticker,
		Range:  period,
		Type:   TypeLine,
		Data:   data,
		Meta:   Meta{GeneratedAt: time.Now().Format(time.RFC3339)},
	}, nil
}

// BuildTechnical returns close + Bollinger(20,2) bands + RSI(14)
func BuildTechnical(ticker, period string, prices []naver.PriceData) (*Payload, error) {
	window, err := tail(prices, period)
	if err != nil {
		return nil, err
	}

	closes := closesOf(window)

	data := &SeriesData{
		Dates: datesOf(window),
		Close: make([]int64, len(window)),
	}
	for i, p := range window {
		data.Close[i] = p.ClosePrice
	}

	data.MA20 = rollingMean(closes, 20)
	upper, lower := rollingBollinger(closes, 20, 2.0)
	data.BollingerUpper = upper
	data.BollingerLower = lower
	data.RSI = rollingRSI(closes, 14)

	return &Payload{
		Symbol: ticker,
		Range:  period,
		Type:   TypeTechnical,
		Data:   data,
		Meta: Meta{
			Indicators:  []string{"bollinger", "rsi"},
			GeneratedAt: time.Now().Format(time.RFC3339),
		},
	}, nil
}

// BuildVolume returns volume bars with per-bar rising flags
func BuildVolume(ticker, period string, prices []naver.PriceData) (*Payload, error) {
	window, err := tail(prices, period)
	if err != nil {
		return nil, err
	}

	data := &SeriesData{
		Dates:  datesOf(window),
		Close:  make([]int64, len(window)),
		Volume: make([]int64, len(window)),
		Rising: make([]bool, len(window)),
	}
	for i, p := range window {
		data.Close[i] = p.ClosePrice
		data.Volume[i] = p.Volume
		data.Rising[i] = p.ClosePrice >= p.OpenPrice
	}

	return &Payload{
		Symbol: ticker,
		Range:  period,
		Type:   TypeVolume,
		Data:   data,
		Meta:   Meta{GeneratedAt: time.Now().Format(time.RFC3339)},
	}, nil
}

func tail(prices []naver.PriceData, period string) ([]naver.PriceData, error) {
	if len(prices) == 0 {
		return nil, fmt.Errorf("no price data")
	}
	days := PeriodDays(period)
	if len(prices) > days {
		prices = prices[len(prices)-days:]
	}
	return prices, nil
}

func baseSeries(window []naver.PriceData, withVolume bool) *SeriesData {
	data := &SeriesData{
		Dates: datesOf(window),
		Open:  make([]int64, len(window)),
		High:  make([]int64, len(window)),
		Low:   make([]int64, len(window)),
		Close: make([]int64, len(window)),
	}
	if withVolume {
		data.Volume = make([]int64, len(window))
		data.Rising = make([]bool, len(window))
	}

	for i, p := range window {
		data.Open[i] = p.OpenPrice
		data.High[i] = p.HighPrice
		data.Low[i] = p.LowPrice
		data.Close[i] = p.ClosePrice
		if withVolume {
			data.Volume[i] = p.Volume
			data.Rising[i] = p.ClosePrice >= p.OpenPrice
		}
	}
	return data
}

func datesOf(window []naver.PriceData) []string {
	dates := make([]string, len(window))
	for i, p := range window {
		dates[i] = p.TradeDate.Format("2006-01-02")
	}
	return dates
}

func closesOf(window []naver.PriceData) []float64 {
	closes := make([]float64, len(window))
	for i, p := range window {
		closes[i] = float64(p.ClosePrice)
	}
	return closes
}
