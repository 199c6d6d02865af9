package report

import (
	"context"
	"fmt"
	"sort"

	"github.com/hyeon/stockpilot/internal/external/kis"
)

// TransactionReport summarizes a period of executed orders plus the
// current account standing.
type TransactionReport struct {
	Metadata     TransactionMetadata     `json:"metadata"`
	Summary      TradingSummary          `json:"summary"`
	Holdings     HoldingsOverview        `json:"holdings"`
	StockSummary []kis.StockTradeSummary `json:"stock_summary"`
	Transactions []kis.Transaction       `json:"transactions"`
}

type TransactionMetadata struct {
	Period      kis.HistoryPeriod `json:"period"`
	PeriodText  string            `json:"period_text"`
	GeneratedAt string            `json:"generated_at"`
}

type TradingSummary struct {
	TotalBuyAmount  int64 `json:"total_buy_amount"`
	TotalSellAmount int64 `json:"total_sell_amount"`
	NetAmount       int64 `json:"net_amount"`
	TotalTrades     int   `json:"total_trades"`
	BuyTrades       int   `json:"buy_trades"`
	SellTrades      int   `json:"sell_trades"`
}

type HoldingsOverview struct {
	Stocks      []kis.Holding `json:"stocks"`
	TotalEval   int64         `json:"total_eval"`
	TotalProfit int64         `json:"total_profit"`
	Cash        int64         `json:"cash"`
	TotalAsset  int64         `json:"total_asset"`
}

// ErrNoTransactions reports an empty trading period
var ErrNoTransactions = fmt.Errorf("해당 기간에 거래 내역이 없습니다")

// PeriodText maps a history period to its Korean label
func PeriodText(period kis.HistoryPeriod) string {
	switch period {
	case kis.Period1Month:
		return "최근 1개월"
	case kis.Period3Months:
		return "최근 3개월"
	case kis.Period1Year:
		return "최근 1년"
	default:
		return string(period)
	}
}

// GenerateTransactionReport builds the period trade report: summary,
// per-stock realized P/L sorted by profit rate, and current holdings.
func (g *Generator) GenerateTransactionReport(ctx context.Context, period kis.HistoryPeriod) (*TransactionReport, error) {
	transactions, err := g.brokerage.GetTransactionHistory(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("fetch transaction history: %w", err)
	}
	if len(transactions) == 0 {
		return nil, ErrNoTransactions
	}

	summary := kis.SummarizeTransactions(transactions)

	holdings, err := g.brokerage.GetHoldings(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch holdings: %w", err)
	}

	cash, err := g.brokerage.GetHoldingCash(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch cash: %w", err)
	}

	var totalEval, totalProfit int64
	for _, h := range holdings {
		totalEval += h.EvalAmount
		totalProfit += h.ProfitLoss
	}

	stockSummary := make([]kis.StockTradeSummary, 0, len(summary.ByStock))
	for _, s := range summary.ByStock {
		stockSummary = append(stockSummary, *s)
	}
	sort.Slice(stockSummary, func(i, j int) bool {
		return stockSummary[i].ProfitRate > stockSummary[j].ProfitRate
	})

	return &TransactionReport{
		Metadata: TransactionMetadata{
			Period:      period,
			PeriodText:  PeriodText(period),
			GeneratedAt: g.now().Format(generatedAtLayout),
		},
		Summary: TradingSummary{
			TotalBuyAmount:  summary.TotalBuyAmount,
			TotalSellAmount: summary.TotalSellAmount,
			NetAmount:       summary.NetAmount,
			TotalTrades:     summary.TotalTrades,
			BuyTrades:       summary.BuyTrades,
			SellTrades:      summary.SellTrades,
		},
		Holdings: HoldingsOverview{
			Stocks:      holdings,
			TotalEval:   totalEval,
			TotalProfit: totalProfit,
			Cash:        cash,
			TotalAsset:  totalEval + cash,
		},
		StockSummary: stockSummary,
		Transactions: transactions,
	}, nil
}
