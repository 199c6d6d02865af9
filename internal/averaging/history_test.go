package averaging

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyeon/stockpilot/pkg/logger"
)

func newTestHistoryStore(t *testing.T) *HistoryStore {
	t.Helper()

	store, err := NewHistoryStore(filepath.Join(t.TempDir(), "averaging_history"), logger.NewNop())
	require.NoError(t, err)
	return store
}

func TestHistoryStoreSaveAndList(t *testing.T) {
	store := newTestHistoryStore(t)

	base := time.Date(2026, 8, 30, 9, 30, 0, 0, time.Local)
	calls := 0
	store.now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Second)
	}

	result, err := Calculate(70000, 10, 60000, 10)
	require.NoError(t, err)

	snapshot := Snapshot{AvgPrice: 70000, Quantity: 10, CurrentPrice: 60000, AddQuantity: 10}

	first, err := store.Save("005930", "삼성전자", snapshot, result)
	require.NoError(t, err)
	assert.Equal(t, "calc_20260830_093001_005930", first.CalculationID)
	assert.Equal(t, "2026-08-30 09:30:01", first.SavedAt)

	second, err := store.Save("005930", "삼성전자", snapshot, result)
	require.NoError(t, err)

	history, err := store.List("005930", 10)
	require.NoError(t, err)
	require.Len(t, history, 2)

	// 최신순
	assert.Equal(t, second.CalculationID, history[0].CalculationID)
	assert.Equal(t, first.CalculationID, history[1].CalculationID)
	assert.Equal(t, int64(65000), history[0].Result.NewAvg)
	assert.Equal(t, float64(70000), history[0].Snapshot.AvgPrice)
}

func TestHistoryStoreListLimit(t *testing.T) {
	store := newTestHistoryStore(t)

	base := time.Date(2026, 8, 30, 9, 0, 0, 0, time.Local)
	calls := 0
	store.now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Minute)
	}

	result, err := Calculate(70000, 10, 60000, 5)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := store.Save("035720", "카카오", Snapshot{AvgPrice: 70000, Quantity: 10, CurrentPrice: 60000, AddQuantity: 5}, result)
		require.NoError(t, err)
	}

	history, err := store.List("035720", 2)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestHistoryStoreListEmpty(t *testing.T) {
	store := newTestHistoryStore(t)

	history, err := store.List("000660", 0)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestHistoryStoreDelete(t *testing.T) {
	store := newTestHistoryStore(t)

	result, err := Calculate(70000, 10, 60000, 5)
	require.NoError(t, err)

	saved, err := store.Save("005930", "삼성전자", Snapshot{AvgPrice: 70000, Quantity: 10, CurrentPrice: 60000, AddQuantity: 5}, result)
	require.NoError(t, err)

	require.NoError(t, store.Delete(saved.CalculationID))

	history, err := store.List("005930", 10)
	require.NoError(t, err)
	assert.Empty(t, history)

	err = store.Delete(saved.CalculationID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestHistoryStoreDeleteMalformedID(t *testing.T) {
	store := newTestHistoryStore(t)
	require.Error(t, store.Delete("bogus"))
}
