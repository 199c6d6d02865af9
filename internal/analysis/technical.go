package analysis

import (
	"fmt"
	"math"

	"github.com/hyeon/stockpilot/internal/external/naver"
)

// Indicator parameters
const (
	RSIPeriod       = 14
	BollingerPeriod = 20
	BollingerStd    = 2.0
)

// RSIResult carries the latest RSI value with its signal label
type RSIResult struct {
	Value  float64 `json:"value"`
	Signal string  `json:"signal"` // 과매수 / 과매도 / 중립
}

// MovingAverages holds the standard 5/20/60-day simple moving averages
type MovingAverages struct {
	MA5  float64 `json:"ma5"`
	MA20 float64 `json:"ma20"`
	MA60 float64 `json:"ma60"`
}

// BollingerBands holds the 20-day, 2-sigma band values
type BollingerBands struct {
	Upper       float64 `json:"upper"`
	Middle      float64 `json:"middle"`
	Lower       float64 `json:"lower"`
	PositionPct float64 `json:"position_pct"`
	Signal      string  `json:"signal"`
}

// VolumeAnalysis compares recent 5-day volume against the whole series
type VolumeAnalysis struct {
	Recent5dAvg float64 `json:"recent_5d_avg"`
	OverallAvg  float64 `json:"overall_avg"`
	ChangePct   float64 `json:"change_pct"`
}

// Week52 holds the 52-week range and the current price's position in it
type Week52 struct {
	High        float64 `json:"high"`
	Low         float64 `json:"low"`
	PositionPct float64 `json:"current_position_pct"`
}

// TechnicalAnalysis is the full indicator readout for one stock
type TechnicalAnalysis struct {
	Ticker         string          `json:"ticker"`
	Name           string          `json:"name"`
	CurrentPrice   float64         `json:"current_price"`
	AsOf           string          `json:"as_of"`
	RSI            *RSIResult      `json:"rsi,omitempty"`
	MovingAverages *MovingAverages `json:"moving_averages,omitempty"`
	Trend          string          `json:"trend,omitempty"`
	Bollinger      *BollingerBands `json:"bollinger_bands,omitempty"`
	Volume         *VolumeAnalysis `json:"volume,omitempty"`
	Week52         *Week52         `json:"week52,omitempty"`
}

// CalculateRSI returns the latest 14-day RSI. Gains and losses are averaged
// with a simple rolling mean over the last `period` deltas.
func CalculateRSI(closes []float64, period int) (float64, error) {
	if len(closes) < period+1 {
		return 0, fmt.Errorf("RSI needs %d closes, got %d", period+1, len(closes))
	}

	var gain, loss float64
	for i := len(closes) - period; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gain += delta
		} else {
			loss += -delta
		}
	}
	gain /= float64(period)
	loss /= float64(period)

	if loss == 0 {
		return 100, nil
	}

	rs := gain / loss
	return 100 - (100 / (1 + rs)), nil
}

// rsiSignal labels an RSI value
func rsiSignal(rsi float64) string {
	switch {
	case rsi > 70:
		return "과매수"
	case rsi < 30:
		return "과매도"
	default:
		return "중립"
	}
}

// SMA returns the simple moving average over the last `window` values.
// Returns 0 when the series is shorter than the window.
func SMA(values []float64, window int) float64 {
	if len(values) < window || window <= 0 {
		return 0
	}

	var sum float64
	for _, v := range values[len(values)-window:] {
		sum += v
	}
	return sum / float64(window)
}

// CalculateMovingAverages returns the 5/20/60-day SMAs of the closes
func CalculateMovingAverages(closes []float64) MovingAverages {
	return MovingAverages{
		MA5:  SMA(closes, 5),
		MA20: SMA(closes, 20),
		MA60: SMA(closes, 60),
	}
}

// trendLabel classifies the MA alignment.
// 정배열 (current > MA5 > MA20 > MA60) signals a strong uptrend, 역배열 the
// reverse. Missing MAs fall back to the current price, matching short series.
func trendLabel(current float64, mas MovingAverages) string {
	ma5, ma20, ma60 := mas.MA5, mas.MA20, mas.MA60
	if ma5 == 0 {
		ma5 = current
	}
	if ma20 == 0 {
		ma20 = current
	}
	if ma60 == 0 {
		ma60 = current
	}

	switch {
	case current > ma5 && ma5 > ma20 && ma20 > ma60:
		return "강한 상승 추세 (정배열)"
	case current < ma5 && ma5 < ma20 && ma20 < ma60:
		return "강한 하락 추세 (역배열)"
	case current > ma20:
		return "상승 추세"
	default:
		return "하락 추세"
	}
}

// CalculateBollingerBands returns the 20-day, 2-sigma bands plus the
// current price's position between them as a percentage.
func CalculateBollingerBands(closes []float64, period int, numStd float64) (BollingerBands, error) {
	if len(closes) < period {
		return BollingerBands{}, fmt.Errorf("bollinger needs %d closes, got %d", period, len(closes))
	}

	window := closes[len(closes)-period:]
	sma := SMA(closes, period)

	var variance float64
	for _, v := range window {
		variance += (v - sma) * (v - sma)
	}
	// Sample standard deviation, as the reference rolling std computes
	std := math.Sqrt(variance / float64(period-1))

	upper := sma + std*numStd
	lower := sma - std*numStd

	current := closes[len(closes)-1]
	position := 50.0
	if upper != lower {
		position = (current - lower) / (upper - lower) * 100
	}

	bands := BollingerBands{
		Upper:       upper,
		Middle:      sma,
		Lower:       lower,
		PositionPct: position,
	}

	switch {
	case position > 80:
		bands.Signal = "상단 근접 (과매수)"
	case position < 20:
		bands.Signal = "하단 근접 (과매도)"
	default:
		bands.Signal = "중간 구간"
	}

	return bands, nil
}

// AnalyzeTechnical computes the full indicator set over a price series.
// Indicators that need more history than available are omitted rather than
// failing the whole analysis.
func AnalyzeTechnical(ticker, name string, prices []naver.PriceData) (*TechnicalAnalysis, error) {
	if len(prices) == 0 {
		return nil, fmt.Errorf("no price data for %s", ticker)
	}

	closes := make([]float64, len(prices))
	volumes := make([]float64, len(prices))
	for i, p := range prices {
		closes[i] = float64(p.ClosePrice)
		volumes[i] = float64(p.Volume)
	}

	last := prices[len(prices)-1]
	result := &TechnicalAnalysis{
		Ticker:       ticker,
		Name:         name,
		CurrentPrice: closes[len(closes)-1],
		AsOf:         last.TradeDate.Format("2006-01-02"),
	}

	if rsi, err := CalculateRSI(closes, RSIPeriod); err == nil {
		result.RSI = &RSIResult{Value: rsi, Signal: rsiSignal(rsi)}
	}

	mas := CalculateMovingAverages(closes)
	result.MovingAverages = &mas
	result.Trend = trendLabel(result.CurrentPrice, mas)

	if bands, err := CalculateBollingerBands(closes, BollingerPeriod, BollingerStd); err == nil {
		result.Bollinger = &bands
	}

	if len(volumes) > 0 {
		recentWindow := 5
		if len(volumes) < recentWindow {
			recentWindow = len(volumes)
		}

		var recentSum, totalSum float64
		for _, v := range volumes[len(volumes)-recentWindow:] {
			recentSum += v
		}
		for _, v := range volumes {
			totalSum += v
		}

		recentAvg := recentSum / float64(recentWindow)
		overallAvg := totalSum / float64(len(volumes))

		vol := &VolumeAnalysis{
			Recent5dAvg: recentAvg,
			OverallAvg:  overallAvg,
		}
		if overallAvg > 0 {
			vol.ChangePct = (recentAvg/overallAvg - 1) * 100
		}
		result.Volume = vol
	}

	high, low := float64(prices[0].HighPrice), float64(prices[0].LowPrice)
	for _, p := range prices {
		if float64(p.HighPrice) > high {
			high = float64(p.HighPrice)
		}
		if float64(p.LowPrice) < low {
			low = float64(p.LowPrice)
		}
	}

	week52 := &Week52{High: high, Low: low}
	if high > low {
		week52.PositionPct = (result.CurrentPrice - low) / (high - low) * 100
	}
	result.Week52 = week52

	return result, nil
}

// PriceChange reports the N-day change of a price series
type PriceChange struct {
	Ticker       string  `json:"ticker"`
	PeriodDays   int     `json:"period_days"`
	PastPrice    float64 `json:"past_price"`
	CurrentPrice float64 `json:"current_price"`
	ChangePct    float64 `json:"change_pct"`
	ChangeAmount float64 `json:"change_amount"`
}

// CalculatePriceChange computes the change over the last `days` rows,
// clamping to the series start when history is short.
func CalculatePriceChange(ticker string, prices []naver.PriceData, days int) (*PriceChange, error) {
	if len(prices) < 2 {
		return nil, fmt.Errorf("price change needs at least 2 rows, got %d", len(prices))
	}

	current := float64(prices[len(prices)-1].ClosePrice)

	idx := len(prices) - 1 - days
	if idx < 0 {
		idx = 0
	}
	past := float64(prices[idx].ClosePrice)

	change := &PriceChange{
		Ticker:       ticker,
		PeriodDays:   days,
		PastPrice:    past,
		CurrentPrice: current,
		ChangeAmount: current - past,
	}
	if past > 0 {
		change.ChangePct = (current - past) / past * 100
	}

	return change, nil
}
