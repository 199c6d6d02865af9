package glossary

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyeon/stockpilot/pkg/logger"
)

const glossaryJSON = `{
	"PER": {
		"full_name": "주가수익비율",
		"english": "Price Earnings Ratio",
		"category": "재무비율",
		"description": "주가를 주당순이익으로 나눈 값으로, 이익 대비 주가 수준을 나타냅니다.",
		"formula": "PER = 주가 / EPS",
		"example": "주가 70,000원, EPS 5,000원이면 PER은 14배",
		"interpretation": {
			"low": "낮을수록 저평가 가능성",
			"high": "높을수록 고평가 또는 성장 기대"
		},
		"related_terms": ["PBR", "EPS"]
	},
	"PBR": {
		"full_name": "주가순자산비율",
		"english": "Price Book-value Ratio",
		"category": "재무비율",
		"description": "주가를 주당순자산으로 나눈 값입니다."
	},
	"EPS": {
		"full_name": "주당순이익",
		"english": "Earnings Per Share",
		"category": "재무비율",
		"description": "당기순이익을 발행주식수로 나눈 값입니다."
	},
	"RSI": {
		"full_name": "상대강도지수",
		"english": "Relative Strength Index",
		"category": "기술적지표",
		"description": "일정 기간의 상승폭과 하락폭을 비교해 과매수/과매도를 판단합니다."
	}
}`

func loadTestGlossary(t *testing.T) *Glossary {
	t.Helper()

	path := filepath.Join(t.TempDir(), "glossary.json")
	require.NoError(t, os.WriteFile(path, []byte(glossaryJSON), 0o644))

	g, err := Load(path, logger.NewNop())
	require.NoError(t, err)
	return g
}

func TestLoadMissingFile(t *testing.T) {
	g, err := Load(filepath.Join(t.TempDir(), "none.json"), logger.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 0, g.Count())
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glossary.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Load(path, logger.NewNop())
	require.Error(t, err)
}

func TestLookup(t *testing.T) {
	g := loadTestGlossary(t)

	tests := []struct {
		name  string
		query string
		found bool
		term  string
	}{
		{"abbreviation", "PER", true, "PER"},
		{"lowercase abbreviation", "per", true, "PER"},
		{"korean full name", "주가수익비율", true, "PER"},
		{"korean partial name", "순자산", true, "PBR"},
		{"miss", "없는용어", false, "없는용어"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := g.Lookup(tt.query)
			assert.Equal(t, tt.found, result.Found)
			assert.Equal(t, tt.term, result.Term)
		})
	}
}

func TestFindSimilar(t *testing.T) {
	g := loadTestGlossary(t)

	similar := g.FindSimilar("P", 5)
	assert.Contains(t, similar, "EPS")
	assert.Contains(t, similar, "PBR")
	assert.Contains(t, similar, "PER")

	byKorean := g.FindSimilar("순이익", 5)
	require.Len(t, byKorean, 1)
	assert.Equal(t, "EPS (주당순이익)", byKorean[0])

	assert.Len(t, g.FindSimilar("P", 2), 2)
}

func TestCategories(t *testing.T) {
	g := loadTestGlossary(t)

	assert.Equal(t, []string{"기술적지표", "재무비율"}, g.Categories())

	ratios := g.SearchByCategory("재무비율")
	assert.Len(t, ratios, 3)

	assert.Empty(t, g.SearchByCategory("없는카테고리"))
}

func TestRelatedTerms(t *testing.T) {
	g := loadTestGlossary(t)

	related := g.RelatedTerms("PER")
	require.Len(t, related, 2)
	assert.Equal(t, "PBR", related[0].Term)
	assert.Equal(t, "EPS", related[1].Term)

	assert.Empty(t, g.RelatedTerms("없는용어"))
}

func TestFormatTermCard(t *testing.T) {
	g := loadTestGlossary(t)

	card := g.FormatTermCard("PER")
	assert.Contains(t, card, "📖 용어 사전: PER")
	assert.Contains(t, card, "정식 명칭: 주가수익비율")
	assert.Contains(t, card, "📐 공식:\nPER = 주가 / EPS")
	assert.Contains(t, card, "🔗 연관 용어: PBR, EPS")
}

func TestFormatTermCardMiss(t *testing.T) {
	g := loadTestGlossary(t)

	card := g.FormatTermCard("PE")
	assert.Contains(t, card, "❌ 용어를 찾을 수 없습니다")
	assert.Contains(t, card, "혹시 이 용어를 찾으셨나요?")
	assert.Contains(t, card, "1. PER")
}

func TestFormatCategoryList(t *testing.T) {
	g := loadTestGlossary(t)

	list := g.FormatCategoryList()
	assert.Contains(t, list, "재무비율 (3개)")
	assert.Contains(t, list, "기술적지표 (1개)")
}
