package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/hyeon/stockpilot/internal/external/tavily"
)

// NewsReport is the LLM summary of recent news and market sentiment
type NewsReport struct {
	Metadata  NewsMetadata           `json:"metadata"`
	FullText  string                 `json:"full_text"`
	Sections  map[string]string      `json:"sections"`
	News      *tavily.SearchResponse `json:"news,omitempty"`
	Sentiment *tavily.SearchResponse `json:"sentiment,omitempty"`
}

type NewsMetadata struct {
	CompanyName    string `json:"company_name"`
	Ticker         string `json:"ticker"`
	GeneratedAt    string `json:"generated_at"`
	NewsCount      int    `json:"news_count"`
	SentimentCount int    `json:"sentiment_count"`
}

// ErrNoSearchResults reports an empty news/sentiment search
var ErrNoSearchResults = fmt.Errorf("검색 결과가 없습니다")

// GenerateNewsSummary searches recent news and market reaction, then has
// the LLM write the sectioned summary.
func (g *Generator) GenerateNewsSummary(ctx context.Context, companyName, ticker string) (*NewsReport, error) {
	news, err := g.search.SearchStockNews(ctx, companyName)
	if err != nil {
		return nil, fmt.Errorf("search news for %s: %w", companyName, err)
	}

	sentiment, err := g.search.SearchMarketSentiment(ctx, companyName)
	if err != nil {
		return nil, fmt.Errorf("search sentiment for %s: %w", companyName, err)
	}

	if len(news.Results) == 0 && len(sentiment.Results) == 0 {
		return nil, ErrNoSearchResults
	}

	prompt := buildNewsPrompt(companyName, ticker, news, sentiment)

	text, err := g.llm.GenerateSummary(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("summarize news for %s: %w", companyName, err)
	}

	return &NewsReport{
		Metadata: NewsMetadata{
			CompanyName:    companyName,
			Ticker:         ticker,
			GeneratedAt:    g.now().Format(generatedAtLayout),
			NewsCount:      len(news.Results),
			SentimentCount: len(sentiment.Results),
		},
		FullText:  text,
		Sections:  splitSections(text, newsSectionMap),
		News:      news,
		Sentiment: sentiment,
	}, nil
}

func buildNewsPrompt(companyName, ticker string, news, sentiment *tavily.SearchResponse) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "당신은 주식 시장 전문 애널리스트입니다. 다음 %s(%s) 관련 뉴스와 시장 반응을 분석하여 요약해주세요.\n\n",
		companyName, ticker)

	sb.WriteString("## 수집된 데이터\n\n")
	sb.WriteString("### 최신 뉴스\n")
	sb.WriteString(formatSearchResults(news, "뉴스") + "\n\n")
	sb.WriteString("### 시장 반응 / 투자자 의견\n")
	sb.WriteString(formatSearchResults(sentiment, "시장 반응") + "\n\n")

	sb.WriteString("---\n\n## 요약 작성 요청\n\n")
	sb.WriteString("위 데이터를 바탕으로 다음 형식으로 요약해주세요:\n\n")
	sb.WriteString("### [1. 핵심 이슈] (3줄 이내)\n가장 중요한 뉴스/이슈를 간결하게 요약\n\n")
	sb.WriteString("### [2. 시장 반응]\n- 긍정적 요인: (있다면)\n- 부정적 요인: (있다면)\n- 전반적 분위기: (긍정/중립/부정)\n\n")
	sb.WriteString("### [3. 주요 키워드]\n관련 키워드 3-5개 나열\n\n")
	sb.WriteString("### [4. 투자자 참고사항]\n초보 투자자가 알아야 할 핵심 포인트 (2-3줄)\n\n")
	sb.WriteString("---\n\n요약을 시작해주세요:")

	return sb.String()
}

// formatSearchResults renders a search response as prompt text
func formatSearchResults(data *tavily.SearchResponse, label string) string {
	if data == nil || (data.Answer == "" && len(data.Results) == 0) {
		return fmt.Sprintf("❌ %s 데이터 없음", label)
	}

	var lines []string
	if data.Answer != "" {
		lines = append(lines, fmt.Sprintf("**AI 요약**: %s", clipRunes(data.Answer, 300)), "")
	}

	results := data.Results
	if len(results) > 5 {
		results = results[:5]
	}
	for i, r := range results {
		title := r.Title
		if title == "" {
			title = "제목 없음"
		}
		lines = append(lines,
			fmt.Sprintf("%d. [%s]", i+1, title),
			fmt.Sprintf("   %s...", clipRunes(r.Content, 200)),
			"")
	}

	return strings.Join(lines, "\n")
}

func clipRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
