package analysis

import (
	"fmt"

	"github.com/hyeon/stockpilot/internal/external/kis"
	"github.com/hyeon/stockpilot/internal/external/naver"
)

// HoldingDetail is one position inside a portfolio summary
type HoldingDetail struct {
	Ticker         string  `json:"ticker"`
	Name           string  `json:"name"`
	Quantity       int64   `json:"quantity"`
	AvgBuyPrice    float64 `json:"avg_buy_price"`
	CurrentPrice   float64 `json:"current_price"`
	Value          int64   `json:"value"`
	ProfitLoss     int64   `json:"profit_loss"`
	ProfitLossRate float64 `json:"profit_loss_rate"`
}

// PortfolioSummary is the whole-account valuation breakdown
type PortfolioSummary struct {
	Cash        int64           `json:"cash"`
	StockValue  int64           `json:"stock_value"`
	TotalAssets int64           `json:"total_assets"`
	CashRatio   float64         `json:"cash_ratio"`
	StockRatio  float64         `json:"stock_ratio"`
	Holdings    []HoldingDetail `json:"holdings"`
}

// BuildPortfolioSummary derives the cash/stock split and per-holding detail
// from a balance inquiry.
func BuildPortfolioSummary(balance *kis.Balance, holdings []kis.Holding) *PortfolioSummary {
	summary := &PortfolioSummary{
		Cash:     balance.AvailableCash,
		Holdings: make([]HoldingDetail, 0, len(holdings)),
	}

	for _, h := range holdings {
		summary.StockValue += h.EvalAmount
		summary.Holdings = append(summary.Holdings, HoldingDetail{
			Ticker:         h.StockCode,
			Name:           h.StockName,
			Quantity:       h.Quantity,
			AvgBuyPrice:    h.AvgBuyPrice,
			CurrentPrice:   h.CurrentPrice,
			Value:          h.EvalAmount,
			ProfitLoss:     h.ProfitLoss,
			ProfitLossRate: h.ProfitLossRate,
		})
	}

	summary.TotalAssets = summary.Cash + summary.StockValue
	if summary.TotalAssets > 0 {
		summary.CashRatio = float64(summary.Cash) / float64(summary.TotalAssets) * 100
		summary.StockRatio = float64(summary.StockValue) / float64(summary.TotalAssets) * 100
	}

	return summary
}

// StockReturn is one holding's period performance
type StockReturn struct {
	Ticker       string  `json:"ticker"`
	Name         string  `json:"name"`
	Quantity     int64   `json:"quantity"`
	PastPrice    float64 `json:"past_price"`
	CurrentPrice float64 `json:"current_price"`
	ReturnPct    float64 `json:"return_pct"`
	Profit       float64 `json:"profit"`
}

// PortfolioReturn is the portfolio's performance over a period
type PortfolioReturn struct {
	PeriodDays  int           `json:"period_days"`
	Stocks      []StockReturn `json:"stocks"`
	TotalProfit float64       `json:"total_profit"`
}

// CalculatePortfolioReturn computes each holding's return over periodDays
// from stored price series. Holdings without enough price history are
// skipped.
func CalculatePortfolioReturn(holdings []kis.Holding, pricesByTicker map[string][]naver.PriceData, periodDays int) (*PortfolioReturn, error) {
	if len(holdings) == 0 {
		return nil, fmt.Errorf("no holdings to analyze")
	}

	result := &PortfolioReturn{PeriodDays: periodDays}

	for _, h := range holdings {
		prices := pricesByTicker[h.StockCode]
		if len(prices) < 2 {
			continue
		}

		current := float64(prices[len(prices)-1].ClosePrice)

		idx := len(prices) - 1 - periodDays
		if idx < 0 {
			idx = 0
		}
		past := float64(prices[idx].ClosePrice)
		if past == 0 {
			continue
		}

		sr := StockReturn{
			Ticker:       h.StockCode,
			Name:         h.StockName,
			Quantity:     h.Quantity,
			PastPrice:    past,
			CurrentPrice: current,
			ReturnPct:    (current - past) / past * 100,
			Profit:       (current - past) * float64(h.Quantity),
		}

		result.Stocks = append(result.Stocks, sr)
		result.TotalProfit += sr.Profit
	}

	return result, nil
}
