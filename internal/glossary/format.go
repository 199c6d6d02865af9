package glossary

import (
	"fmt"
	"sort"
	"strings"
)

const divider = "━━━━━━━━━━━━━━━━━━━━━━━━━━"

// FormatTermCard renders a term as a KakaoTalk text card. Misses render
// the similar-term suggestion block instead.
func (g *Glossary) FormatTermCard(term string) string {
	result := g.Lookup(term)

	if !result.Found {
		var sb strings.Builder
		sb.WriteString(divider + "\n")
		sb.WriteString("❌ 용어를 찾을 수 없습니다\n")
		sb.WriteString(divider + "\n\n")
		sb.WriteString(fmt.Sprintf("검색어: %s\n", result.Term))

		if len(result.Similar) > 0 {
			sb.WriteString("\n💡 혹시 이 용어를 찾으셨나요?\n")
			for i, sim := range result.Similar {
				sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, sim))
			}
		}

		sb.WriteString("\n" + divider)
		return sb.String()
	}

	data := result.Data

	var sb strings.Builder
	sb.WriteString(divider + "\n")
	sb.WriteString(fmt.Sprintf("📖 용어 사전: %s\n", result.Term))
	sb.WriteString(divider + "\n\n")
	sb.WriteString(fmt.Sprintf("📌 정식 명칭: %s\n", data.FullName))
	sb.WriteString(fmt.Sprintf("🔤 영문: %s\n", data.English))
	sb.WriteString(fmt.Sprintf("📂 분류: %s\n\n", data.Category))
	sb.WriteString(fmt.Sprintf("📝 설명:\n%s\n", data.Description))

	if data.Formula != "" {
		sb.WriteString(fmt.Sprintf("\n📐 공식:\n%s\n", data.Formula))
	}
	if data.Example != "" {
		sb.WriteString(fmt.Sprintf("\n💡 예시:\n%s\n", data.Example))
	}

	if len(data.Interpretation) > 0 {
		sb.WriteString("\n📊 해석:\n")
		keys := make([]string, 0, len(data.Interpretation))
		for k := range data.Interpretation {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			sb.WriteString(fmt.Sprintf("• %s\n", data.Interpretation[k]))
		}
	}

	if len(data.RelatedTerms) > 0 {
		sb.WriteString(fmt.Sprintf("\n🔗 연관 용어: %s\n", strings.Join(data.RelatedTerms, ", ")))
	}

	sb.WriteString("\n" + divider)
	return sb.String()
}

// FormatCategoryList renders the category index with per-category counts
func (g *Glossary) FormatCategoryList() string {
	var sb strings.Builder
	sb.WriteString(divider + "\n")
	sb.WriteString("📚 용어 사전 카테고리\n")
	sb.WriteString(divider + "\n\n")

	for i, cat := range g.Categories() {
		sb.WriteString(fmt.Sprintf("%d. %s (%d개)\n", i+1, cat, len(g.SearchByCategory(cat))))
	}

	sb.WriteString("\n" + divider + "\n")
	sb.WriteString("💡 카테고리명을 입력하면 해당 용어 목록을 볼 수 있어요!")
	return sb.String()
}
