package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/hyeon/stockpilot/pkg/database"
	"github.com/hyeon/stockpilot/pkg/logger"
)

// SnapshotStore persists generated reports and balance snapshots in Postgres
type SnapshotStore struct {
	db     *database.DB
	logger *logger.Logger
}

// NewSnapshotStore creates the Postgres-backed snapshot store
func NewSnapshotStore(db *database.DB, log *logger.Logger) *SnapshotStore {
	return &SnapshotStore{db: db, logger: log}
}

// ReportSnapshot is one stored generated report
type ReportSnapshot struct {
	ID          int64     `json:"id"`
	Ticker      string    `json:"ticker"`
	CompanyName string    `json:"company_name"`
	ReportType  string    `json:"report_type"`
	Payload     []byte    `json:"payload"`
	GeneratedAt time.Time `json:"generated_at"`
}

// BalanceSnapshot is one stored point-in-time account valuation
type BalanceSnapshot struct {
	ID          int64     `json:"id"`
	Cash        int64     `json:"cash"`
	StockValue  int64     `json:"stock_value"`
	TotalAssets int64     `json:"total_assets"`
	TakenAt     time.Time `json:"taken_at"`
}

// SaveReport stores a generated report payload
func (s *SnapshotStore) SaveReport(ctx context.Context, ticker, companyName, reportType string, payload []byte) error {
	_, err := s.db.Pool.Exec(ctx,
		`INSERT INTO report_snapshots (ticker, company_name, report_type, payload)
		 VALUES ($1, $2, $3, $4)`,
		ticker, companyName, reportType, payload)
	if err != nil {
		return fmt.Errorf("save report snapshot: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"ticker":      ticker,
		"report_type": reportType,
	}).Debug("Report snapshot saved")
	return nil
}

// LatestReport returns the newest stored report of a type for a ticker
func (s *SnapshotStore) LatestReport(ctx context.Context, ticker, reportType string) (*ReportSnapshot, error) {
	row := s.db.Pool.QueryRow(ctx,
		`SELECT id, ticker, company_name, report_type, payload, generated_at
		 FROM report_snapshots
		 WHERE ticker = $1 AND report_type = $2
		 ORDER BY generated_at DESC
		 LIMIT 1`,
		ticker, reportType)

	var snap ReportSnapshot
	err := row.Scan(&snap.ID, &snap.Ticker, &snap.CompanyName, &snap.ReportType, &snap.Payload, &snap.GeneratedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("no %s report for %s: %w", reportType, ticker, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load report snapshot: %w", err)
	}

	return &snap, nil
}

// SaveBalance stores a balance snapshot
func (s *SnapshotStore) SaveBalance(ctx context.Context, cash, stockValue, totalAssets int64) error {
	_, err := s.db.Pool.Exec(ctx,
		`INSERT INTO balance_snapshots (cash, stock_value, total_assets)
		 VALUES ($1, $2, $3)`,
		cash, stockValue, totalAssets)
	if err != nil {
		return fmt.Errorf("save balance snapshot: %w", err)
	}
	return nil
}

// RecentBalances returns the newest balance snapshots, newest first
func (s *SnapshotStore) RecentBalances(ctx context.Context, limit int) ([]BalanceSnapshot, error) {
	if limit <= 0 {
		limit = 30
	}

	rows, err := s.db.Pool.Query(ctx,
		`SELECT id, cash, stock_value, total_assets, taken_at
		 FROM balance_snapshots
		 ORDER BY taken_at DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("load balance snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []BalanceSnapshot
	for rows.Next() {
		var snap BalanceSnapshot
		if err := rows.Scan(&snap.ID, &snap.Cash, &snap.StockValue, &snap.TotalAssets, &snap.TakenAt); err != nil {
			return nil, fmt.Errorf("scan balance snapshot: %w", err)
		}
		snaps = append(snaps, snap)
	}

	return snaps, rows.Err()
}
