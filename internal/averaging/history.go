package averaging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/hyeon/stockpilot/pkg/logger"
)

// HistoryStore keeps saved calculations as JSON files, one directory per
// stock under the averaging_history base path.
type HistoryStore struct {
	baseDir string
	logger  *logger.Logger

	// now is swapped out in tests for deterministic IDs
	now func() time.Time
}

// NewHistoryStore creates the JSON history store
func NewHistoryStore(baseDir string, log *logger.Logger) (*HistoryStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create averaging history dir: %w", err)
	}
	return &HistoryStore{baseDir: baseDir, logger: log, now: time.Now}, nil
}

// SavedCalculation is one persisted averaging calculation
type SavedCalculation struct {
	CalculationID string   `json:"calculation_id"`
	Symbol        string   `json:"symbol"`
	CompanyName   string   `json:"company_name"`
	SavedAt       string   `json:"saved_at"`
	Snapshot      Snapshot `json:"snapshot"`
	Result        *Result  `json:"result"`
}

// Snapshot captures the inputs at calculation time
type Snapshot struct {
	AvgPrice     float64 `json:"current_avg_price"`
	Quantity     int64   `json:"current_quantity"`
	CurrentPrice float64 `json:"current_price"`
	AddQuantity  int64   `json:"additional_quantity"`
}

// Save persists a calculation and returns its generated ID
// (calc_YYYYMMDD_HHMMSS_<symbol> 형식)
func (s *HistoryStore) Save(symbol, companyName string, snapshot Snapshot, result *Result) (*SavedCalculation, error) {
	symbolDir := filepath.Join(s.baseDir, symbol)
	if err := os.MkdirAll(symbolDir, 0o755); err != nil {
		return nil, fmt.Errorf("create symbol dir: %w", err)
	}

	now := s.now()
	saved := &SavedCalculation{
		CalculationID: fmt.Sprintf("calc_%s_%s", now.Format("20060102_150405"), symbol),
		Symbol:        symbol,
		CompanyName:   companyName,
		SavedAt:       now.Format("2006-01-02 15:04:05"),
		Snapshot:      snapshot,
		Result:        result,
	}

	data, err := json.MarshalIndent(saved, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal calculation: %w", err)
	}

	path := filepath.Join(symbolDir, saved.CalculationID+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("write calculation: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"calculation_id": saved.CalculationID,
		"symbol":         symbol,
	}).Debug("Averaging calculation saved")

	return saved, nil
}

// List returns up to limit saved calculations for a symbol, newest first
func (s *HistoryStore) List(symbol string, limit int) ([]SavedCalculation, error) {
	if limit <= 0 {
		limit = 10
	}

	symbolDir := filepath.Join(s.baseDir, symbol)
	matches, err := filepath.Glob(filepath.Join(symbolDir, "calc_*.json"))
	if err != nil {
		return nil, fmt.Errorf("glob history: %w", err)
	}

	// IDs embed the timestamp, so name order is chronological
	sort.Sort(sort.Reverse(sort.StringSlice(matches)))
	if len(matches) > limit {
		matches = matches[:limit]
	}

	calculations := make([]SavedCalculation, 0, len(matches))
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		var saved SavedCalculation
		if err := json.Unmarshal(data, &saved); err != nil {
			continue
		}
		calculations = append(calculations, saved)
	}

	return calculations, nil
}

// Delete removes a saved calculation by ID. The symbol is the ID's last
// underscore-separated segment.
func (s *HistoryStore) Delete(calculationID string) error {
	parts := strings.Split(calculationID, "_")
	if len(parts) < 2 {
		return fmt.Errorf("malformed calculation id %q", calculationID)
	}
	symbol := parts[len(parts)-1]

	path := filepath.Join(s.baseDir, symbol, calculationID+".json")
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("calculation %s not found", calculationID)
		}
		return fmt.Errorf("delete calculation: %w", err)
	}

	return nil
}
