package kakao

import (
	"regexp"
	"strings"
)

// Opinion is the distilled investment view pulled out of LLM report text
type Opinion struct {
	Opinion     string `json:"opinion"`      // 매수/보유/매도/관망
	TargetPrice string `json:"target_price"` // 예: "115,000원"
	RiskLevel   string `json:"risk_level"`   // 높음/중간/낮음
}

var (
	targetPricePattern = regexp.MustCompile(`목표주가[:\s]*([0-9,]+)\s*원`)
	anyPricePattern    = regexp.MustCompile(`([0-9,]+)\s*원`)
)

// ExtractOpinion pulls the opinion, target price and risk level out of a
// free-form investment-opinion section. Unrecognized fields stay "N/A".
func ExtractOpinion(text string) Opinion {
	result := Opinion{Opinion: "N/A", TargetPrice: "N/A", RiskLevel: "N/A"}
	if text == "" {
		return result
	}

	lower := strings.ToLower(text)

	switch {
	case strings.Contains(text, "매수") || strings.Contains(lower, "buy"):
		result.Opinion = "매수"
	case strings.Contains(text, "보유") || strings.Contains(lower, "hold"):
		result.Opinion = "보유"
	case strings.Contains(text, "매도") || strings.Contains(lower, "sell"):
		result.Opinion = "매도"
	case strings.Contains(text, "관망"):
		result.Opinion = "관망"
	}

	if m := targetPricePattern.FindStringSubmatch(text); m != nil {
		result.TargetPrice = m[1] + "원"
	} else if m := anyPricePattern.FindStringSubmatch(text); m != nil {
		result.TargetPrice = m[1] + "원"
	}

	switch {
	case strings.Contains(text, "높은 리스크") || strings.Contains(lower, "high risk"):
		result.RiskLevel = "높음"
	case strings.Contains(text, "중간 리스크") || strings.Contains(lower, "medium risk"):
		result.RiskLevel = "중간"
	case strings.Contains(text, "낮은 리스크") || strings.Contains(lower, "low risk"):
		result.RiskLevel = "낮음"
	}

	return result
}

// OpinionEmoji maps an opinion label to its bubble marker
func OpinionEmoji(opinion string) string {
	switch opinion {
	case "매수":
		return "🟢"
	case "보유":
		return "🟡"
	case "매도":
		return "🔴"
	default:
		return "⚪"
	}
}
