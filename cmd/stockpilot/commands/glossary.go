package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hyeon/stockpilot/internal/glossary"
	"github.com/hyeon/stockpilot/pkg/config"
	"github.com/hyeon/stockpilot/pkg/logger"
)

// glossaryCmd represents the glossary command
var glossaryCmd = &cobra.Command{
	Use:   "glossary [term]",
	Short: "투자 용어 조회",
	Long: `투자 용어 사전에서 용어를 조회합니다.
용어 없이 실행하면 카테고리 목록을 출력합니다.

Example:
  go run ./cmd/stockpilot glossary PER
  go run ./cmd/stockpilot glossary 주가수익비율
  go run ./cmd/stockpilot glossary`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGlossary,
}

func init() {
	rootCmd.AddCommand(glossaryCmd)
}

func runGlossary(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	terms, err := glossary.Load(cfg.Data.GlossaryPath, log)
	if err != nil {
		return fmt.Errorf("load glossary: %w", err)
	}

	if len(args) == 0 {
		fmt.Println(terms.FormatCategoryList())
		return nil
	}

	fmt.Println(terms.FormatTermCard(args[0]))
	return nil
}
