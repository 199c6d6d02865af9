// Package jobs holds the scheduled job implementations.
package jobs

import (
	"context"

	"github.com/hyeon/stockpilot/internal/collector"
	"github.com/hyeon/stockpilot/pkg/logger"
)

// DataCollectionJob runs the full daily collection after market close
// ⭐ SSOT: 데이터 수집 스케줄은 이 Job에서만
type DataCollectionJob struct {
	collector *collector.Collector
	logger    *logger.Logger
}

// NewDataCollectionJob creates the daily collection job
func NewDataCollectionJob(col *collector.Collector, log *logger.Logger) *DataCollectionJob {
	return &DataCollectionJob{collector: col, logger: log}
}

// Name returns the job name
func (j *DataCollectionJob) Name() string {
	return "data_collection"
}

// Schedule returns the cron schedule (weekdays 4:30 PM KST, after close)
func (j *DataCollectionJob) Schedule() string {
	return "0 30 16 * * 1-5"
}

// Run executes the full collection
func (j *DataCollectionJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled data collection")
	return j.collector.CollectAll(ctx)
}
