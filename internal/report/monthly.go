package report

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/hyeon/stockpilot/internal/external/kis"
)

// MonthlyReport is the monthly portfolio summary
type MonthlyReport struct {
	Metadata      MonthlyMetadata   `json:"metadata"`
	Portfolio     PortfolioOverview `json:"portfolio"`
	Trading       TradingSummary    `json:"trading"`
	Holdings      []kis.Holding     `json:"holdings"`
	TopPerformers TopPerformers     `json:"top_performers"`
	Insights      string            `json:"insights,omitempty"`
}

type MonthlyMetadata struct {
	ReportType  string `json:"report_type"`
	GeneratedAt string `json:"generated_at"`
}

type PortfolioOverview struct {
	TotalAsset      int64   `json:"total_asset"`
	TotalEval       int64   `json:"total_eval"`
	Cash            int64   `json:"cash"`
	TotalProfit     int64   `json:"total_profit"`
	TotalProfitRate float64 `json:"total_profit_rate"`
	StockCount      int     `json:"stock_count"`
}

// Performer is the best or worst holding by profit rate
type Performer struct {
	Name       string  `json:"name"`
	ProfitRate float64 `json:"profit_rate"`
}

type TopPerformers struct {
	Best  *Performer `json:"best,omitempty"`
	Worst *Performer `json:"worst,omitempty"`
}

// GenerateMonthlySummary builds the monthly portfolio report. The LLM
// insight is best-effort; a missing LLM or a failed call leaves it empty.
func (g *Generator) GenerateMonthlySummary(ctx context.Context) (*MonthlyReport, error) {
	summary, err := g.brokerage.GetTransactionSummary(ctx, kis.Period1Month)
	if err != nil {
		return nil, fmt.Errorf("fetch transaction summary: %w", err)
	}

	holdings, err := g.brokerage.GetHoldings(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch holdings: %w", err)
	}

	cash, err := g.brokerage.GetHoldingCash(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch cash: %w", err)
	}

	var totalEval, totalProfit int64
	var totalInvested float64
	for _, h := range holdings {
		totalEval += h.EvalAmount
		totalProfit += h.ProfitLoss
		totalInvested += h.AvgBuyPrice * float64(h.Quantity)
	}

	var profitRate float64
	if totalInvested > 0 {
		profitRate = float64(totalProfit) / totalInvested * 100
	}

	// 평가금액 기준 정렬
	sorted := make([]kis.Holding, len(holdings))
	copy(sorted, holdings)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].EvalAmount > sorted[j].EvalAmount })

	report := &MonthlyReport{
		Metadata: MonthlyMetadata{
			ReportType:  "monthly_summary",
			GeneratedAt: g.now().Format(generatedAtLayout),
		},
		Portfolio: PortfolioOverview{
			TotalAsset:      totalEval + cash,
			TotalEval:       totalEval,
			Cash:            cash,
			TotalProfit:     totalProfit,
			TotalProfitRate: roundRate(profitRate),
			StockCount:      len(holdings),
		},
		Trading: TradingSummary{
			TotalBuyAmount:  summary.TotalBuyAmount,
			TotalSellAmount: summary.TotalSellAmount,
			NetAmount:       summary.NetAmount,
			TotalTrades:     summary.TotalTrades,
			BuyTrades:       summary.BuyTrades,
			SellTrades:      summary.SellTrades,
		},
		Holdings:      sorted,
		TopPerformers: topPerformers(holdings),
	}

	if g.llm != nil && (len(holdings) > 0 || summary.TotalTrades > 0) {
		insights, err := g.llm.GenerateSummary(ctx, buildInsightPrompt(summary, holdings, profitRate))
		if err != nil {
			g.logger.WithError(err).Warn("Monthly insight generation failed")
		} else {
			report.Insights = insights
		}
	}

	return report, nil
}

func topPerformers(holdings []kis.Holding) TopPerformers {
	if len(holdings) == 0 {
		return TopPerformers{}
	}

	byRate := make([]kis.Holding, len(holdings))
	copy(byRate, holdings)
	sort.Slice(byRate, func(i, j int) bool { return byRate[i].ProfitLossRate > byRate[j].ProfitLossRate })

	best := byRate[0]
	worst := byRate[len(byRate)-1]
	return TopPerformers{
		Best:  &Performer{Name: best.StockName, ProfitRate: best.ProfitLossRate},
		Worst: &Performer{Name: worst.StockName, ProfitRate: worst.ProfitLossRate},
	}
}

func buildInsightPrompt(summary *kis.TransactionSummary, holdings []kis.Holding, profitRate float64) string {
	var holdingsText strings.Builder
	limit := len(holdings)
	if limit > 5 {
		limit = 5
	}
	for _, h := range holdings[:limit] {
		emoji := "🟢"
		if h.ProfitLossRate < 0 {
			emoji = "🔴"
		}
		fmt.Fprintf(&holdingsText, "- %s: %s %+.2f%%\n", h.StockName, emoji, h.ProfitLossRate)
	}

	var sb strings.Builder
	sb.WriteString("당신은 주식 초보 투자자를 위한 친절한 투자 어드바이저입니다.\n")
	sb.WriteString("다음 월간 투자 데이터를 분석하여 초보자도 이해하기 쉬운 인사이트를 제공해주세요.\n\n")
	sb.WriteString("## 이번 달 투자 현황\n\n### 포트폴리오\n")
	fmt.Fprintf(&sb, "- 총 수익률: %+.2f%%\n", profitRate)
	fmt.Fprintf(&sb, "- 보유 종목 수: %d개\n\n", len(holdings))

	sb.WriteString("### 보유 종목 수익률\n")
	if holdingsText.Len() > 0 {
		sb.WriteString(holdingsText.String())
	} else {
		sb.WriteString("보유 종목 없음\n")
	}

	sb.WriteString("\n### 거래 활동\n")
	fmt.Fprintf(&sb, "- 총 거래: %d건 (매수 %d건, 매도 %d건)\n", summary.TotalTrades, summary.BuyTrades, summary.SellTrades)
	fmt.Fprintf(&sb, "- 매수 금액: %d원\n", summary.TotalBuyAmount)
	fmt.Fprintf(&sb, "- 매도 금액: %d원\n\n", summary.TotalSellAmount)

	sb.WriteString("---\n\n다음 형식으로 간단한 인사이트를 작성해주세요 (3-5문장):\n\n")
	sb.WriteString("1. 이번 달 포트폴리오 성과 한 줄 평가\n")
	sb.WriteString("2. 잘한 점 또는 개선할 점 1가지\n")
	sb.WriteString("3. 초보 투자자를 위한 간단한 조언 1가지\n\n")
	sb.WriteString("친근하고 이해하기 쉬운 말로 작성해주세요.")

	return sb.String()
}

func roundRate(v float64) float64 {
	return float64(int64(v*100+sign(v)*0.5)) / 100
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
