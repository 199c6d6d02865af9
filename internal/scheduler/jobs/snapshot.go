package jobs

import (
	"context"
	"fmt"

	"github.com/hyeon/stockpilot/internal/external/kis"
	"github.com/hyeon/stockpilot/internal/store"
	"github.com/hyeon/stockpilot/pkg/logger"
)

// BalanceSnapshotJob records the daily account balance for the monthly
// summary trend.
type BalanceSnapshotJob struct {
	kis       *kis.Client
	snapshots *store.SnapshotStore
	logger    *logger.Logger
}

// NewBalanceSnapshotJob creates the balance snapshot job
func NewBalanceSnapshotJob(kisClient *kis.Client, snapshots *store.SnapshotStore, log *logger.Logger) *BalanceSnapshotJob {
	return &BalanceSnapshotJob{kis: kisClient, snapshots: snapshots, logger: log}
}

// Name returns the job name
func (j *BalanceSnapshotJob) Name() string {
	return "balance_snapshot"
}

// Schedule returns the cron schedule (weekdays 5 PM KST)
func (j *BalanceSnapshotJob) Schedule() string {
	return "0 0 17 * * 1-5"
}

// Run fetches the balance and stores the snapshot
func (j *BalanceSnapshotJob) Run(ctx context.Context) error {
	balance, err := j.kis.GetBalance(ctx)
	if err != nil {
		return fmt.Errorf("fetch balance: %w", err)
	}

	if err := j.snapshots.SaveBalance(ctx, balance.AvailableCash, balance.TotalEvaluation, balance.TotalAsset); err != nil {
		return fmt.Errorf("save balance snapshot: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"cash":        balance.AvailableCash,
		"stock_value": balance.TotalEvaluation,
		"total_asset": balance.TotalAsset,
	}).Info("Balance snapshot saved")

	return nil
}
