package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hyeon/stockpilot/internal/collector"
)

// collectCmd represents the collect command
var collectCmd = &cobra.Command{
	Use:   "collect [prices|index|financials|filings|all]",
	Short: "데이터 수집",
	Long: `관심 종목의 데이터를 수집해 CSV 캐시에 저장합니다.

수집 대상은 TICKERS 환경변수로, 기간은 DAYS로 설정합니다.

Example:
  go run ./cmd/stockpilot collect all
  go run ./cmd/stockpilot collect prices
  TICKERS=005930,035720 go run ./cmd/stockpilot collect financials`,
	Args: cobra.ExactArgs(1),
	RunE: runCollect,
}

func init() {
	rootCmd.AddCommand(collectCmd)
}

func runCollect(cmd *cobra.Command, args []string) error {
	d, err := buildDeps()
	if err != nil {
		return err
	}

	col := collector.New(d.naver, d.dart, d.files, d.cfg, d.log)

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
	defer cancel()

	start := time.Now()

	switch args[0] {
	case "prices":
		err = col.CollectPrices(ctx)
	case "index":
		err = col.CollectIndex(ctx)
	case "financials":
		err = col.CollectFinancials(ctx)
	case "filings":
		err = col.CollectFilings(ctx)
	case "all":
		err = col.CollectAll(ctx)
	default:
		return fmt.Errorf("unknown target %q (prices|index|financials|filings|all)", args[0])
	}

	if err != nil {
		return fmt.Errorf("collect %s: %w", args[0], err)
	}

	fmt.Printf("✅ %s 수집 완료 (%.1fs)\n", args[0], time.Since(start).Seconds())
	return nil
}
