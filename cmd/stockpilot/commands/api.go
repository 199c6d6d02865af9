package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hyeon/stockpilot/internal/api"
	"github.com/hyeon/stockpilot/internal/api/handlers"
	"github.com/hyeon/stockpilot/internal/averaging"
	"github.com/hyeon/stockpilot/internal/glossary"
	"github.com/hyeon/stockpilot/internal/store"
	"github.com/hyeon/stockpilot/pkg/database"
	"github.com/hyeon/stockpilot/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API + 카카오톡 스킬 서버를 시작합니다.

Endpoints:
  GET  /health                 - Health check
  GET  /api/report/{ticker}    - 종목 리포트
  GET  /api/chart/{ticker}     - 차트 데이터
  GET  /api/portfolio          - 계좌 현황
  GET  /api/glossary/{term}    - 용어 조회
  POST /skill/report           - 카카오 스킬: 종목 리포트
  POST /skill/averaging        - 카카오 스킬: 물타기 계산
  POST /skill/news             - 카카오 스킬: 뉴스 요약
  POST /skill/transaction      - 카카오 스킬: 거래 내역
  POST /skill/glossary         - 카카오 스킬: 용어 사전

Example:
  go run ./cmd/stockpilot api
  go run ./cmd/stockpilot api --port 8090`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== StockPilot API Server ===")

	d, err := buildDeps()
	if err != nil {
		return err
	}

	// Override port if flag is set
	if apiPort != "" {
		d.cfg.Port = apiPort
	}

	d.log.WithFields(map[string]interface{}{
		"port": d.cfg.Port,
		"env":  d.cfg.Env,
	}).Info("Initializing API server")

	// Domain services
	history, err := averaging.NewHistoryStore(d.cfg.Data.AveragingDir, d.log)
	if err != nil {
		return fmt.Errorf("init averaging history: %w", err)
	}

	terms, err := glossary.Load(d.cfg.Data.GlossaryPath, d.log)
	if err != nil {
		return fmt.Errorf("load glossary: %w", err)
	}

	generator := d.reportGenerator()

	reportHandler := handlers.NewReportHandler(generator, d.naver, d.cfg, d.log)
	portfolioHandler := handlers.NewPortfolioHandler(d.kis, d.files, d.log)

	if d.redis != nil {
		reportHandler.WithCache(redis.NewCache(d.redis, "stockpilot"))
	}

	// 리포트 보관 + 잔고 추이는 DB가 켜져 있을 때만
	if d.cfg.Database.Enabled {
		db, err := database.New(d.cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()

		snapshots := store.NewSnapshotStore(db, d.log)
		reportHandler.WithSnapshots(snapshots)
		portfolioHandler.WithSnapshots(snapshots)
	}

	// Handlers and router
	router := api.NewRouter(api.Handlers{
		Report:    reportHandler,
		Chart:     handlers.NewChartHandler(d.files, d.naver, d.log),
		Portfolio: portfolioHandler,
		Glossary:  handlers.NewGlossaryHandler(terms, d.log),
		Averaging: handlers.NewAveragingHandler(history, d.log),
	}, d.log)

	server := api.New(d.cfg, d.log, router)

	// Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			d.log.WithError(err).Fatal("Failed to start server")
		}
	}()

	d.log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", d.cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	d.log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	d.log.Info("Server stopped")
	return nil
}
