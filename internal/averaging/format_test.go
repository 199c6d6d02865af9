package averaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatResult(t *testing.T) {
	result, err := Calculate(70000, 10, 60000, 10)
	require.NoError(t, err)

	text := FormatResult(result)

	assert.Contains(t, text, "물타기 계산 결과")
	assert.Contains(t, text, "새 평단가: 65,000원")
	assert.Contains(t, text, "▼ 평단가 변화: 5,000원")
	assert.Contains(t, text, "총 보유: 20주")
	assert.Contains(t, text, "총 투자금: 1,300,000원")
	assert.Contains(t, text, "📉 평가손익: -100,000원")
}

func TestFormatScenarios(t *testing.T) {
	results, err := CalculateScenarios(70000, 10, 60000, nil)
	require.NoError(t, err)

	text := FormatScenarios(results, 60000)

	assert.Contains(t, text, "물타기 시나리오 분석")
	assert.Contains(t, text, "현재가: 60,000원")
	assert.Contains(t, text, "▶ 1주 추가 매수")
	assert.Contains(t, text, "▶ 20주 추가 매수")
	assert.Contains(t, text, "추가 투자금: 1,200,000원")
}

func TestFormatTargetResult(t *testing.T) {
	result, err := CalculateTargetQuantity(70000, 10, 60000, 65000)
	require.NoError(t, err)

	text := FormatTargetResult(result)
	assert.Contains(t, text, "목표 평단가: 65,000원")
	assert.Contains(t, text, "필요 수량: 10주")
	assert.Contains(t, text, "필요 금액: 600,000원")
}

func TestFormatTargetResultInfeasible(t *testing.T) {
	result, err := CalculateTargetQuantity(70000, 10, 80000, 65000)
	require.NoError(t, err)

	text := FormatTargetResult(result)
	assert.Contains(t, text, "⚠️")
	assert.Contains(t, text, "낮출 수 없습니다")
}

func TestComma(t *testing.T) {
	assert.Equal(t, "0", comma(0))
	assert.Equal(t, "999", comma(999))
	assert.Equal(t, "1,000", comma(1000))
	assert.Equal(t, "1,234,567", comma(1234567))
	assert.Equal(t, "-45,000", comma(-45000))
}
