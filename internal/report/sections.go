package report

import "strings"

// splitSections slices LLM output into named sections. A line counts as a
// section header when it contains both a mapped keyword and a '[' or '#'
// marker, matching the prompt's requested format.
func splitSections(text string, sectionMap map[string]string) map[string]string {
	sections := make(map[string]string, len(sectionMap))
	for _, key := range sectionMap {
		sections[key] = ""
	}

	var current string
	var content []string

	flush := func() {
		if current != "" && len(content) > 0 {
			sections[current] = strings.TrimSpace(strings.Join(content, "\n"))
		}
	}

	for _, line := range strings.Split(text, "\n") {
		header := false
		if strings.Contains(line, "[") || strings.Contains(line, "#") {
			for keyword, key := range sectionMap {
				if strings.Contains(line, keyword) {
					flush()
					current = key
					content = nil
					header = true
					break
				}
			}
		}
		if !header && current != "" {
			content = append(content, line)
		}
	}
	flush()

	return sections
}

var stockSectionMap = map[string]string{
	"투자 요약": "summary",
	"주가 동향": "price_analysis",
	"재무 상태": "financial_analysis",
	"밸류에이션": "valuation",
	"투자 의견": "investment_opinion",
}

var newsSectionMap = map[string]string{
	"핵심 이슈":  "key_issues",
	"시장 반응":  "market_reaction",
	"주요 키워드": "keywords",
	"투자자 참고": "investor_notes",
}
