package averaging

import (
	"fmt"
	"strings"
)

const divider = "━━━━━━━━━━━━━━━━━━━━━━━━━━"

// FormatResult renders one simulation as a KakaoTalk-style text block
func FormatResult(result *Result) string {
	changeSymbol := "▲"
	if result.Change < 0 {
		changeSymbol = "▼"
	}
	profitSymbol := "💰"
	if result.ProfitIfSellNow < 0 {
		profitSymbol = "📉"
	}

	absChange := result.Change
	if absChange < 0 {
		absChange = -absChange
	}

	var sb strings.Builder
	sb.WriteString(divider + "\n")
	sb.WriteString("💰 물타기 계산 결과\n")
	sb.WriteString(divider + "\n\n")
	sb.WriteString("【 결과 】\n")
	sb.WriteString(fmt.Sprintf("✅ 새 평단가: %s원\n", comma(result.NewAvg)))
	sb.WriteString(fmt.Sprintf("%s 평단가 변화: %s원 (%+.2f%%)\n\n", changeSymbol, comma(absChange), result.ChangePct))
	sb.WriteString("【 투자 현황 】\n")
	sb.WriteString(fmt.Sprintf("├ 총 보유: %s주\n", comma(result.TotalQty)))
	sb.WriteString(fmt.Sprintf("├ 총 투자금: %s원\n", comma(result.TotalCost)))
	sb.WriteString(fmt.Sprintf("└ 손익분기: %s원\n\n", comma(result.BreakevenPrice)))
	sb.WriteString("【 현재 손익 】\n")
	sb.WriteString(fmt.Sprintf("%s 평가손익: %s원 (%+.2f%%)\n\n", profitSymbol, comma(result.ProfitIfSellNow), result.ProfitPct))
	sb.WriteString(divider + "\n")
	sb.WriteString(fmt.Sprintf("💡 평단가 %s원 이상이면 수익!", comma(result.BreakevenPrice)))

	return sb.String()
}

// FormatScenarios renders the multi-quantity table
func FormatScenarios(scenarios []*Result, currentPrice float64) string {
	var sb strings.Builder
	sb.WriteString(divider + "\n")
	sb.WriteString("💰 물타기 시나리오 분석\n")
	sb.WriteString(divider + "\n\n")
	sb.WriteString(fmt.Sprintf("현재가: %s원\n\n", comma(int64(currentPrice))))

	for _, s := range scenarios {
		sb.WriteString(fmt.Sprintf("▶ %s주 추가 매수\n", comma(s.AddQty)))
		sb.WriteString(fmt.Sprintf("├ 새 평단가: %s원 (%+.2f%%)\n", comma(s.NewAvg), s.ChangePct))
		sb.WriteString(fmt.Sprintf("└ 추가 투자금: %s원\n\n", comma(int64(currentPrice)*s.AddQty)))
	}

	sb.WriteString(divider)
	return sb.String()
}

// FormatTargetResult renders the target back-solve outcome
func FormatTargetResult(result *TargetResult) string {
	if !result.Feasible {
		return fmt.Sprintf("%s\n💰 목표 평단가 계산\n%s\n\n⚠️ %s", divider, divider, result.Reason)
	}

	var sb strings.Builder
	sb.WriteString(divider + "\n")
	sb.WriteString("💰 목표 평단가 계산\n")
	sb.WriteString(divider + "\n\n")
	sb.WriteString(fmt.Sprintf("🎯 목표 평단가: %s원\n\n", comma(result.TargetAvg)))
	sb.WriteString(fmt.Sprintf("✅ 필요 수량: %s주\n", comma(result.RequiredQty)))
	sb.WriteString(fmt.Sprintf("✅ 필요 금액: %s원\n", comma(result.AdditionalCost)))
	sb.WriteString(fmt.Sprintf("✅ 실제 평단가: %s원", comma(result.ActualAvg)))

	return sb.String()
}

// comma formats an integer with thousands separators
func comma(n int64) string {
	s := fmt.Sprintf("%d", n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)

	out := strings.Join(parts, ",")
	if neg {
		out = "-" + out
	}
	return out
}
