package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report <ticker>",
	Short: "AI 종목 리포트 생성",
	Long: `종목 데이터를 모아 AI 투자 리포트를 생성해 출력합니다.

Example:
  go run ./cmd/stockpilot report 005930`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

// newsCmd represents the news command
var newsCmd = &cobra.Command{
	Use:   "news <ticker|기업명>",
	Short: "뉴스 요약 생성",
	Long: `웹 검색 결과를 모아 AI 뉴스 요약을 생성해 출력합니다.

Example:
  go run ./cmd/stockpilot news 005930
  go run ./cmd/stockpilot news 삼성전자`,
	Args: cobra.ExactArgs(1),
	RunE: runNews,
}

func init() {
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(newsCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	d, err := buildDeps()
	if err != nil {
		return err
	}

	rep, err := d.reportGenerator().GenerateStockReport(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("generate report: %w", err)
	}

	fmt.Printf("=== %s ===\n", rep.Title)
	fmt.Printf("생성 시각: %s\n\n", rep.Metadata.GeneratedAt)
	fmt.Println(rep.FullText)
	return nil
}

func runNews(cmd *cobra.Command, args []string) error {
	d, err := buildDeps()
	if err != nil {
		return err
	}

	input := args[0]
	ticker := ""
	companyName := input

	// 6자리 숫자면 종목코드로 보고 이름을 조회
	if len(input) == 6 {
		if name, err := d.naver.GetStockName(cmd.Context(), input); err == nil {
			ticker = input
			companyName = name
		}
	}

	rep, err := d.reportGenerator().GenerateNewsSummary(cmd.Context(), companyName, ticker)
	if err != nil {
		return fmt.Errorf("generate news summary: %w", err)
	}

	fmt.Printf("=== %s 뉴스 요약 ===\n\n", rep.Metadata.CompanyName)
	fmt.Println(rep.FullText)
	return nil
}
