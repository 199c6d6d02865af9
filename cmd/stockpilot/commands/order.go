package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hyeon/stockpilot/internal/external/kis"
)

// orderCmd represents the order command
var orderCmd = &cobra.Command{
	Use:   "order [buy|sell] <ticker> <quantity>",
	Short: "주문 실행",
	Long: `현금 매수/매도 주문을 제출합니다.

--price 0 (기본값)은 시장가 주문입니다.
--cash 를 주면 수량 대신 금액(원)으로 주문합니다.

Example:
  go run ./cmd/stockpilot order buy 005930 10
  go run ./cmd/stockpilot order buy 005930 500000 --cash
  go run ./cmd/stockpilot order sell 005930 5 --price 72000`,
	Args: cobra.ExactArgs(3),
	RunE: runOrder,
}

var (
	orderPrice int64
	orderCash  bool
)

func init() {
	rootCmd.AddCommand(orderCmd)

	orderCmd.Flags().Int64Var(&orderPrice, "price", 0, "지정가 (0 = 시장가)")
	orderCmd.Flags().BoolVar(&orderCash, "cash", false, "수량을 금액(원)으로 해석")
}

func runOrder(cmd *cobra.Command, args []string) error {
	d, err := buildDeps()
	if err != nil {
		return err
	}
	if err := d.cfg.RequireKIS(); err != nil {
		return err
	}

	side, ticker := args[0], args[1]
	quantity, err := strconv.ParseFloat(args[2], 64)
	if err != nil || quantity <= 0 {
		return fmt.Errorf("invalid quantity %q", args[2])
	}

	scale := kis.ScaleStock
	if orderCash {
		scale = kis.ScaleCash
	}

	var result *kis.OrderResult
	switch side {
	case "buy":
		result, err = d.kis.Buy(cmd.Context(), ticker, orderPrice, quantity, scale)
	case "sell":
		result, err = d.kis.Sell(cmd.Context(), ticker, orderPrice, quantity, scale)
	default:
		return fmt.Errorf("side must be buy or sell (got %q)", side)
	}
	if err != nil {
		return fmt.Errorf("%s order: %w", side, err)
	}

	fmt.Printf("✅ 주문 접수 | 주문번호 %s | %d주\n", result.OrderNo, result.Quantity)
	if d.cfg.KIS.IsVirtual() {
		fmt.Println("(모의투자 계좌)")
	}
	return nil
}
