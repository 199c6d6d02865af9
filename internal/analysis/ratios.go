package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/hyeon/stockpilot/internal/external/dart"
)

// FinancialRatios is the rule-based health readout of a filed statement
type FinancialRatios struct {
	Ticker string `json:"ticker"`

	DebtRatio       float64 `json:"debt_ratio"`
	CurrentRatio    float64 `json:"current_ratio"`
	ROE             float64 `json:"roe"`
	ROA             float64 `json:"roa"`
	OperatingMargin float64 `json:"operating_margin"`

	Grades   RatioGrades   `json:"grades"`
	Comments RatioComments `json:"comments"`

	TotalAssets int64 `json:"total_assets"`
	TotalDebt   int64 `json:"total_debt"`
	TotalEquity int64 `json:"total_equity"`
	NetIncome   int64 `json:"net_income"`
}

// RatioGrades are rule-based letter grades per ratio family
type RatioGrades struct {
	Debt          string `json:"debt"`
	Liquidity     string `json:"liquidity"`
	Profitability string `json:"profitability"`
}

// RatioComments are the Korean commentary strings per ratio family
type RatioComments struct {
	Debt          string `json:"debt"`
	Liquidity     string `json:"liquidity"`
	Profitability string `json:"profitability"`
	Summary       string `json:"summary"`
}

// CalculateFinancialRatios computes debt/current/ROE/ROA ratios with letter
// grades and templated Korean commentary. No LLM involved.
func CalculateFinancialRatios(ticker string, accounts []dart.FinancialAccount) (*FinancialRatios, error) {
	if len(accounts) == 0 {
		return nil, fmt.Errorf("no financial accounts for %s", ticker)
	}

	totalAssets := extractAmount(accounts, "자산총계")
	totalDebt := extractAmount(accounts, "부채총계")
	totalEquity := extractAmount(accounts, "자본총계")
	currentAssets := extractAmount(accounts, "유동자산")
	currentLiabilities := extractAmount(accounts, "유동부채")
	netIncome := extractNetIncome(accounts)
	revenue := extractAmount(accounts, "매출액")
	operatingProfit := extractAmount(accounts, "영업이익")

	r := &FinancialRatios{
		Ticker:      ticker,
		TotalAssets: int64(totalAssets),
		TotalDebt:   int64(totalDebt),
		TotalEquity: int64(totalEquity),
		NetIncome:   int64(netIncome),
	}

	if totalEquity > 0 {
		r.DebtRatio = round1(totalDebt / totalEquity * 100)
		r.ROE = round1(netIncome / totalEquity * 100)
	}
	if currentLiabilities > 0 {
		r.CurrentRatio = round1(currentAssets / currentLiabilities * 100)
	}
	if totalAssets > 0 {
		r.ROA = round1(netIncome / totalAssets * 100)
	}
	if revenue > 0 {
		r.OperatingMargin = round1(operatingProfit / revenue * 100)
	}

	r.Grades = RatioGrades{
		Debt:          gradeDebtRatio(r.DebtRatio),
		Liquidity:     gradeCurrentRatio(r.CurrentRatio),
		Profitability: gradeROE(r.ROE),
	}
	r.Comments = RatioComments{
		Debt:          commentDebtRatio(r.DebtRatio),
		Liquidity:     commentCurrentRatio(r.CurrentRatio),
		Profitability: commentROE(r.ROE),
		Summary:       summarizeRatios(r.DebtRatio, r.ROE, r.CurrentRatio),
	}

	return r, nil
}

// 부채비율 등급 (낮을수록 좋음)
func gradeDebtRatio(ratio float64) string {
	switch {
	case ratio < 50:
		return "A+"
	case ratio < 100:
		return "A"
	case ratio < 150:
		return "B"
	case ratio < 200:
		return "C"
	default:
		return "D"
	}
}

// 유동비율 등급 (높을수록 좋음)
func gradeCurrentRatio(ratio float64) string {
	switch {
	case ratio >= 200:
		return "A+"
	case ratio >= 150:
		return "A"
	case ratio >= 100:
		return "B"
	case ratio >= 80:
		return "C"
	default:
		return "D"
	}
}

// ROE 등급 (높을수록 좋음)
func gradeROE(roe float64) string {
	switch {
	case roe >= 15:
		return "A+"
	case roe >= 10:
		return "A"
	case roe >= 7:
		return "B"
	case roe >= 5:
		return "C"
	default:
		return "D"
	}
}

func commentDebtRatio(ratio float64) string {
	switch {
	case ratio < 50:
		return fmt.Sprintf("부채비율 %.1f%%로 매우 안전한 재무구조입니다.", ratio)
	case ratio < 100:
		return fmt.Sprintf("부채비율 %.1f%%로 양호한 재무구조입니다.", ratio)
	case ratio < 150:
		return fmt.Sprintf("부채비율 %.1f%%로 적정 수준입니다.", ratio)
	case ratio < 200:
		return fmt.Sprintf("부채비율 %.1f%%로 다소 높은 편입니다.", ratio)
	default:
		return fmt.Sprintf("부채비율 %.1f%%로 높은 편입니다. 부채 관리가 필요합니다.", ratio)
	}
}

func commentCurrentRatio(ratio float64) string {
	switch {
	case ratio >= 200:
		return fmt.Sprintf("유동비율 %.1f%%로 단기 지급능력이 매우 우수합니다.", ratio)
	case ratio >= 150:
		return fmt.Sprintf("유동비율 %.1f%%로 단기 지급능력이 양호합니다.", ratio)
	case ratio >= 100:
		return fmt.Sprintf("유동비율 %.1f%%로 단기 지급능력이 적정 수준입니다.", ratio)
	default:
		return fmt.Sprintf("유동비율 %.1f%%로 단기 유동성에 주의가 필요합니다.", ratio)
	}
}

func commentROE(roe float64) string {
	switch {
	case roe >= 15:
		return fmt.Sprintf("ROE %.1f%%로 매우 우수한 수익성을 보입니다.", roe)
	case roe >= 10:
		return fmt.Sprintf("ROE %.1f%%로 양호한 수익성입니다.", roe)
	case roe >= 7:
		return fmt.Sprintf("ROE %.1f%%로 보통 수준의 수익성입니다.", roe)
	case roe >= 5:
		return fmt.Sprintf("ROE %.1f%%로 수익성이 다소 낮습니다.", roe)
	default:
		return fmt.Sprintf("ROE %.1f%%로 수익성 개선이 필요합니다.", roe)
	}
}

// summarizeRatios builds the overall strengths/weaknesses line
func summarizeRatios(debt, roe, current float64) string {
	var strengths, weaknesses []string

	if debt < 100 {
		strengths = append(strengths, "낮은 부채비율")
	}
	if roe >= 10 {
		strengths = append(strengths, "우수한 수익성")
	}
	if current >= 150 {
		strengths = append(strengths, "탄탄한 유동성")
	}

	if debt >= 150 {
		weaknesses = append(weaknesses, "높은 부채")
	}
	if roe < 7 {
		weaknesses = append(weaknesses, "낮은 수익성")
	}
	if current < 100 {
		weaknesses = append(weaknesses, "부족한 유동성")
	}

	var summary string
	switch {
	case len(strengths) >= 2:
		summary = "재무 건전성이 우수합니다. "
	case len(weaknesses) >= 2:
		summary = "재무 개선이 필요합니다. "
	default:
		summary = "재무 상태가 양호합니다. "
	}

	if len(strengths) > 0 {
		summary += fmt.Sprintf("강점: %s. ", strings.Join(strengths, ", "))
	}
	if len(weaknesses) > 0 {
		summary += fmt.Sprintf("주의: %s.", strings.Join(weaknesses, ", "))
	}

	return summary
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
