package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyeon/stockpilot/internal/external/dart"
)

func healthyStatement() []dart.FinancialAccount {
	return []dart.FinancialAccount{
		{SjDiv: "BS", AccountNm: "자산총계", ThstrmAmount: "400000000000"},
		{SjDiv: "BS", AccountNm: "부채총계", ThstrmAmount: "80000000000"},
		{SjDiv: "BS", AccountNm: "자본총계", ThstrmAmount: "320000000000"},
		{SjDiv: "BS", AccountNm: "유동자산", ThstrmAmount: "150000000000"},
		{SjDiv: "BS", AccountNm: "유동부채", ThstrmAmount: "60000000000"},
		{SjDiv: "IS", AccountNm: "당기순이익", ThstrmAmount: "40000000000"},
		{SjDiv: "IS", AccountNm: "매출액", ThstrmAmount: "200000000000"},
		{SjDiv: "IS", AccountNm: "영업이익", ThstrmAmount: "50000000000"},
	}
}

func TestCalculateFinancialRatios(t *testing.T) {
	r, err := CalculateFinancialRatios("005930", healthyStatement())
	require.NoError(t, err)

	assert.InDelta(t, 25.0, r.DebtRatio, 0.001)
	assert.InDelta(t, 250.0, r.CurrentRatio, 0.001)
	assert.InDelta(t, 12.5, r.ROE, 0.001)
	assert.InDelta(t, 10.0, r.ROA, 0.001)
	assert.InDelta(t, 25.0, r.OperatingMargin, 0.001)

	assert.Equal(t, "A+", r.Grades.Debt)
	assert.Equal(t, "A+", r.Grades.Liquidity)
	assert.Equal(t, "A", r.Grades.Profitability)

	assert.Contains(t, r.Comments.Debt, "매우 안전한")
	assert.Contains(t, r.Comments.Summary, "재무 건전성이 우수합니다")
	assert.Contains(t, r.Comments.Summary, "낮은 부채비율")
}

func TestCalculateFinancialRatiosWeakCompany(t *testing.T) {
	accounts := []dart.FinancialAccount{
		{AccountNm: "자산총계", ThstrmAmount: "100000000000"},
		{AccountNm: "부채총계", ThstrmAmount: "75000000000"},
		{AccountNm: "자본총계", ThstrmAmount: "25000000000"},
		{AccountNm: "유동자산", ThstrmAmount: "20000000000"},
		{AccountNm: "유동부채", ThstrmAmount: "30000000000"},
		{AccountNm: "당기순이익", ThstrmAmount: "500000000"},
	}

	r, err := CalculateFinancialRatios("000000", accounts)
	require.NoError(t, err)

	assert.InDelta(t, 300.0, r.DebtRatio, 0.001)
	assert.InDelta(t, 66.7, r.CurrentRatio, 0.1)
	assert.InDelta(t, 2.0, r.ROE, 0.001)

	assert.Equal(t, "D", r.Grades.Debt)
	assert.Equal(t, "D", r.Grades.Liquidity)
	assert.Equal(t, "D", r.Grades.Profitability)
	assert.Contains(t, r.Comments.Summary, "재무 개선이 필요합니다")
}

func TestCalculateFinancialRatiosEmpty(t *testing.T) {
	_, err := CalculateFinancialRatios("005930", nil)
	require.Error(t, err)
}

func TestGradeBoundaries(t *testing.T) {
	assert.Equal(t, "A+", gradeDebtRatio(49.9))
	assert.Equal(t, "A", gradeDebtRatio(50))
	assert.Equal(t, "B", gradeDebtRatio(100))
	assert.Equal(t, "C", gradeDebtRatio(150))
	assert.Equal(t, "D", gradeDebtRatio(200))

	assert.Equal(t, "A+", gradeCurrentRatio(200))
	assert.Equal(t, "B", gradeCurrentRatio(100))
	assert.Equal(t, "D", gradeCurrentRatio(79.9))

	assert.Equal(t, "A+", gradeROE(15))
	assert.Equal(t, "B", gradeROE(7))
	assert.Equal(t, "D", gradeROE(4.9))
}
