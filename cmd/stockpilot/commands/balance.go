package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// balanceCmd represents the balance command
var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "계좌 잔고 조회",
	Long: `증권 계좌의 잔고와 보유 종목을 조회합니다.

Example:
  go run ./cmd/stockpilot balance`,
	RunE: runBalance,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}

func runBalance(cmd *cobra.Command, args []string) error {
	d, err := buildDeps()
	if err != nil {
		return err
	}
	if err := d.cfg.RequireKIS(); err != nil {
		return err
	}

	ctx := cmd.Context()

	balance, err := d.kis.GetBalance(ctx)
	if err != nil {
		return fmt.Errorf("get balance: %w", err)
	}

	holdings, err := d.kis.GetHoldings(ctx)
	if err != nil {
		return fmt.Errorf("get holdings: %w", err)
	}

	fmt.Println("=== 계좌 현황 ===")
	fmt.Printf("예수금:       %d원\n", balance.TotalDeposit)
	fmt.Printf("출금가능금액: %d원\n", balance.AvailableCash)
	fmt.Printf("평가금액:     %d원\n", balance.TotalEvaluation)
	fmt.Printf("평가손익:     %d원 (%.2f%%)\n", balance.TotalProfitLoss, balance.ProfitLossRate)
	fmt.Printf("총자산:       %d원\n", balance.TotalAsset)

	if len(holdings) == 0 {
		fmt.Println("\n보유 종목 없음")
		return nil
	}

	fmt.Printf("\n=== 보유 종목 (%d) ===\n", len(holdings))
	for _, h := range holdings {
		emoji := "🟢"
		if h.ProfitLoss < 0 {
			emoji = "🔴"
		}
		fmt.Printf("%s %s(%s) %d주 | 평단 %.0f원 | 현재 %.0f원 | %+d원 (%+.2f%%)\n",
			emoji, h.StockName, h.StockCode, h.Quantity,
			h.AvgBuyPrice, h.CurrentPrice, h.ProfitLoss, h.ProfitLossRate)
	}
	return nil
}
