package analysis

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/hyeon/stockpilot/internal/external/dart"
)

// ValuationMetrics are per-share valuation figures derived from a filed
// statement plus the current price.
type ValuationMetrics struct {
	SharesOutstanding int64   `json:"shares_outstanding"`
	EPS               int64   `json:"eps"`
	BPS               int64   `json:"bps"`
	PER               float64 `json:"per"`
	PBR               float64 `json:"pbr"`
	ROE               float64 `json:"roe"`
}

// CalculateValuationMetrics derives PER/PBR/EPS/BPS/ROE from the statement.
// Shares outstanding are back-solved from net income and the filed basic
// EPS, since DART statements do not carry a share count directly.
func CalculateValuationMetrics(accounts []dart.FinancialAccount, currentPrice float64) (*ValuationMetrics, error) {
	netIncome := extractNetIncome(accounts)
	equity := extractEquity(accounts)
	eps := extractEPS(accounts)

	if eps == 0 {
		return nil, fmt.Errorf("statement carries no basic EPS account")
	}

	shares := netIncome / eps

	metrics := &ValuationMetrics{
		SharesOutstanding: int64(shares),
		EPS:               int64(eps),
	}

	if shares > 0 {
		bps := equity / shares
		metrics.BPS = int64(bps)
		if bps > 0 {
			metrics.PBR = round2(currentPrice / bps)
		}
	}
	if eps > 0 {
		metrics.PER = round2(currentPrice / eps)
	}
	if equity > 0 {
		metrics.ROE = round2(netIncome / equity * 100)
	}

	return metrics, nil
}

// extractAmount finds an account by exact name and parses its 당기 amount
func extractAmount(accounts []dart.FinancialAccount, accountName string) float64 {
	for _, a := range accounts {
		if a.AccountNm == accountName {
			return parseAmount(a.ThstrmAmount)
		}
	}
	return 0
}

// extractNetIncome prefers net income attributable to owners of the parent
func extractNetIncome(accounts []dart.FinancialAccount) float64 {
	for _, name := range []string{
		"지배기업의 소유주에게 귀속되는 당기순이익(손실)",
		"당기순이익(손실)",
		"당기순이익",
	} {
		if v := extractAmount(accounts, name); v != 0 {
			return v
		}
	}
	return 0
}

// extractEquity prefers equity attributable to owners of the parent
func extractEquity(accounts []dart.FinancialAccount) float64 {
	for _, name := range []string{
		"지배기업의 소유주에게 귀속되는 자본",
		"자본총계",
	} {
		if v := extractAmount(accounts, name); v != 0 {
			return v
		}
	}
	return 0
}

// extractEPS matches any account containing 기본주당순이익
func extractEPS(accounts []dart.FinancialAccount) float64 {
	for _, a := range accounts {
		if strings.Contains(a.AccountNm, "기본주당순이익") {
			if v := parseAmount(a.ThstrmAmount); v != 0 {
				return v
			}
		}
	}
	return 0
}

// parseAmount parses DART amount strings, tolerating thousands separators
func parseAmount(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
