package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hyeon/stockpilot/internal/external/kis"
	"github.com/hyeon/stockpilot/internal/report"
)

// transactionsCmd represents the transactions command
var transactionsCmd = &cobra.Command{
	Use:   "transactions",
	Short: "거래 내역 리포트",
	Long: `기간별 거래 내역을 집계해 출력합니다.

--monthly 를 주면 보유 현황과 AI 인사이트가 포함된
월간 요약 리포트를 생성합니다.

Example:
  go run ./cmd/stockpilot transactions
  go run ./cmd/stockpilot transactions --period 3m
  go run ./cmd/stockpilot transactions --monthly`,
	RunE: runTransactions,
}

var (
	txPeriod  string
	txMonthly bool
)

func init() {
	rootCmd.AddCommand(transactionsCmd)

	transactionsCmd.Flags().StringVar(&txPeriod, "period", "1m", "조회 기간 (1m|3m|1y)")
	transactionsCmd.Flags().BoolVar(&txMonthly, "monthly", false, "월간 요약 리포트 생성")
}

func runTransactions(cmd *cobra.Command, args []string) error {
	d, err := buildDeps()
	if err != nil {
		return err
	}
	if err := d.cfg.RequireKIS(); err != nil {
		return err
	}

	generator := d.reportGenerator()

	if txMonthly {
		rep, err := generator.GenerateMonthlySummary(cmd.Context())
		if err != nil {
			return fmt.Errorf("generate monthly summary: %w", err)
		}

		fmt.Println("=== 월간 요약 ===")
		fmt.Printf("총자산:   %d원\n", rep.Portfolio.TotalAsset)
		fmt.Printf("평가손익: %d원 (%+.2f%%)\n", rep.Portfolio.TotalProfit, rep.Portfolio.TotalProfitRate)
		fmt.Printf("거래 횟수: %d회\n", rep.Trading.TotalTrades)
		if rep.TopPerformers.Best != nil {
			fmt.Printf("🏆 최고: %s (%+.2f%%)\n", rep.TopPerformers.Best.Name, rep.TopPerformers.Best.ProfitRate)
		}
		if rep.TopPerformers.Worst != nil {
			fmt.Printf("📉 최저: %s (%+.2f%%)\n", rep.TopPerformers.Worst.Name, rep.TopPerformers.Worst.ProfitRate)
		}
		if rep.Insights != "" {
			fmt.Printf("\n💡 인사이트\n%s\n", rep.Insights)
		}
		return nil
	}

	period := kis.HistoryPeriod(txPeriod)
	rep, err := generator.GenerateTransactionReport(cmd.Context(), period)
	if errors.Is(err, report.ErrNoTransactions) {
		fmt.Printf("%s 거래 내역이 없습니다.\n", report.PeriodText(period))
		return nil
	}
	if err != nil {
		return fmt.Errorf("generate transaction report: %w", err)
	}

	fmt.Printf("=== 거래 내역 (%s) ===\n", rep.Metadata.PeriodText)
	fmt.Printf("거래 횟수: %d회 (매수 %d / 매도 %d)\n",
		rep.Summary.TotalTrades, rep.Summary.BuyTrades, rep.Summary.SellTrades)
	fmt.Printf("매수 금액: %d원\n", rep.Summary.TotalBuyAmount)
	fmt.Printf("매도 금액: %d원\n", rep.Summary.TotalSellAmount)
	fmt.Printf("순매수:    %d원\n", rep.Summary.NetAmount)

	if len(rep.StockSummary) > 0 {
		fmt.Println("\n=== 종목별 ===")
		for _, s := range rep.StockSummary {
			fmt.Printf("%s(%s) %d건 | 실현손익 %+d원 (%+.2f%%)\n",
				s.StockName, s.StockCode, s.Trades, s.RealizedProfit, s.ProfitRate)
		}
	}
	return nil
}
