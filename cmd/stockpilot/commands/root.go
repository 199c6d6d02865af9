package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	env        string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "stockpilot",
	Short: "StockPilot - 카카오톡 주식 비서",
	Long: `StockPilot Unified CLI

주식 데이터 수집부터 AI 리포트 생성, 카카오톡 스킬 서버까지.

Usage:
  go run ./cmd/stockpilot [command]

Examples:
  go run ./cmd/stockpilot api
  go run ./cmd/stockpilot collect all
  go run ./cmd/stockpilot report 005930
  go run ./cmd/stockpilot balance`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().StringVar(&env, "env", "development", "environment (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
