package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hyeon/stockpilot/internal/collector"
	"github.com/hyeon/stockpilot/internal/scheduler"
	"github.com/hyeon/stockpilot/internal/scheduler/jobs"
	"github.com/hyeon/stockpilot/internal/store"
	"github.com/hyeon/stockpilot/pkg/database"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "스케줄러 시작",
	Long: `정기 작업 스케줄러를 시작합니다.

등록 작업:
  data_collection   평일 16:30  전 종목 데이터 수집
  balance_snapshot  평일 17:00  계좌 잔고 스냅샷 (DB 필요)

Example:
  go run ./cmd/stockpilot scheduler`,
	RunE: runScheduler,
}

func init() {
	rootCmd.AddCommand(schedulerCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	fmt.Println("=== StockPilot Scheduler ===")

	d, err := buildDeps()
	if err != nil {
		return err
	}

	sched := scheduler.New(d.log)

	col := collector.New(d.naver, d.dart, d.files, d.cfg, d.log)
	if err := sched.AddJob(jobs.NewDataCollectionJob(col, d.log)); err != nil {
		return fmt.Errorf("register collection job: %w", err)
	}

	// 잔고 스냅샷은 DB가 켜져 있을 때만
	if d.cfg.Database.Enabled {
		db, err := database.New(d.cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()

		snapshots := store.NewSnapshotStore(db, d.log)
		if err := sched.AddJob(jobs.NewBalanceSnapshotJob(d.kis, snapshots, d.log)); err != nil {
			return fmt.Errorf("register snapshot job: %w", err)
		}
	} else {
		d.log.Info("Database disabled, skipping balance snapshot job")
	}

	sched.Start()
	defer sched.Stop()

	fmt.Printf("✅ Scheduler running with jobs: %v\n", sched.GetAllJobs())
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	d.log.Info("Scheduler stopped")
	return nil
}
