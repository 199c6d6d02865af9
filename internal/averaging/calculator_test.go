package averaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	// 70,000원 평단 10주 + 60,000원 10주 추가
	result, err := Calculate(70000, 10, 60000, 10)
	require.NoError(t, err)

	assert.Equal(t, int64(65000), result.NewAvg)
	assert.Equal(t, int64(-5000), result.Change)
	assert.InDelta(t, -7.14, result.ChangePct, 0.01)
	assert.Equal(t, int64(20), result.TotalQty)
	assert.Equal(t, int64(1300000), result.TotalCost)
	assert.Equal(t, int64(65000), result.BreakevenPrice)
	assert.Equal(t, int64(-100000), result.ProfitIfSellNow)
	assert.InDelta(t, -7.69, result.ProfitPct, 0.01)
}

func TestCalculateAveragingUp(t *testing.T) {
	result, err := Calculate(50000, 10, 60000, 5)
	require.NoError(t, err)

	assert.Equal(t, int64(53333), result.NewAvg)
	assert.True(t, result.Change > 0)
	assert.True(t, result.ProfitIfSellNow > 0)
}

func TestCalculateInvalidInputs(t *testing.T) {
	_, err := Calculate(0, 10, 60000, 5)
	require.Error(t, err)

	_, err = Calculate(70000, 10, -1, 5)
	require.Error(t, err)
}

func TestCalculateScenarios(t *testing.T) {
	results, err := CalculateScenarios(70000, 10, 60000, nil)
	require.NoError(t, err)
	require.Len(t, results, len(DefaultScenarios))

	for i, r := range results {
		assert.Equal(t, DefaultScenarios[i], r.AddQty)
	}

	// 더 많이 살수록 평단가는 현재가 쪽으로 내려간다
	assert.True(t, results[3].NewAvg < results[0].NewAvg)
	assert.True(t, results[3].NewAvg >= 60000)
}

func TestCalculateTargetQuantity(t *testing.T) {
	// 70,000 평단 10주, 현재가 60,000, 목표 65,000 → 정확히 10주
	result, err := CalculateTargetQuantity(70000, 10, 60000, 65000)
	require.NoError(t, err)

	assert.True(t, result.Feasible)
	assert.Equal(t, int64(10), result.RequiredQty)
	assert.Equal(t, int64(600000), result.AdditionalCost)
	assert.Equal(t, int64(65000), result.ActualAvg)
	assert.Equal(t, int64(0), result.Difference)
}

func TestCalculateTargetQuantityInfeasible(t *testing.T) {
	tests := []struct {
		name         string
		avgPrice     float64
		currentPrice float64
		targetAvg    float64
		reason       string
	}{
		{"lower target above current price", 70000, 80000, 65000, "현재가가 평단가보다 높아서"},
		{"raise target below current price", 70000, 60000, 75000, "현재가가 평단가보다 낮아서"},
		{"target below current price", 70000, 60000, 55000, "달성 불가능합니다"},
		{"target equals current price", 70000, 60000, 60000, "거의 같아"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := CalculateTargetQuantity(tt.avgPrice, 10, tt.currentPrice, tt.targetAvg)
			require.NoError(t, err)
			assert.False(t, result.Feasible)
			assert.Contains(t, result.Reason, tt.reason)
		})
	}
}
