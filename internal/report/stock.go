package report

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/hyeon/stockpilot/internal/analysis"
	"github.com/hyeon/stockpilot/internal/external/dart"
	"github.com/hyeon/stockpilot/internal/external/naver"
)

// StockReport is the realtime per-ticker investment report
type StockReport struct {
	Metadata StockMetadata     `json:"metadata"`
	Title    string            `json:"title"`
	FullText string            `json:"full_text"`
	Sections map[string]string `json:"sections"`
	RawData  StockRawData      `json:"raw_data"`
}

type StockMetadata struct {
	Ticker        string `json:"ticker"`
	CompanyName   string `json:"company_name"`
	GeneratedAt   string `json:"generated_at"`
	HasFinancials bool   `json:"has_financials"`
}

// StockRawData is the quantitative input the LLM report was built from
type StockRawData struct {
	Basic     BasicInfo                   `json:"basic"`
	Trend     PriceTrend                  `json:"price_trend"`
	Metrics   *analysis.ValuationMetrics  `json:"metrics,omitempty"`
	Technical *analysis.TechnicalAnalysis `json:"technical,omitempty"`
}

type BasicInfo struct {
	Name           string  `json:"name"`
	CurrentPrice   int64   `json:"current_price"`
	PriceChange    int64   `json:"price_change"`
	PriceChangePct float64 `json:"price_change_pct"`
}

// PriceTrend holds period returns and the 52-week band
type PriceTrend struct {
	Return1M   *float64 `json:"1m,omitempty"`
	Return3M   *float64 `json:"3m,omitempty"`
	Return1Y   *float64 `json:"1y,omitempty"`
	Week52High float64  `json:"52w_high"`
	Week52Low  float64  `json:"52w_low"`
}

// GenerateStockReport collects quant data, fetches the latest annual
// statement when available, and has the LLM write the sectioned report.
// Missing financials narrow the analysis instead of failing it.
func (g *Generator) GenerateStockReport(ctx context.Context, ticker string) (*StockReport, error) {
	name, err := g.market.GetStockName(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("resolve company name for %s: %w", ticker, err)
	}

	quote, err := g.quotes.GetCurrentPrice(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("fetch quote for %s: %w", ticker, err)
	}

	now := g.now()
	prices, err := g.market.FetchPrices(ctx, ticker, now.AddDate(-1, 0, -14), now)
	if err != nil {
		return nil, fmt.Errorf("fetch price history for %s: %w", ticker, err)
	}

	technical, err := analysis.AnalyzeTechnical(ticker, name, prices)
	if err != nil {
		return nil, fmt.Errorf("technical analysis for %s: %w", ticker, err)
	}

	trend := buildPriceTrend(ticker, prices, technical)

	raw := StockRawData{
		Basic: BasicInfo{
			Name:           name,
			CurrentPrice:   quote.CurrentPrice,
			PriceChange:    quote.Change,
			PriceChangePct: quote.ChangeRate,
		},
		Trend:     trend,
		Technical: technical,
	}

	// 재무제표는 없어도 리포트는 나간다
	accounts := g.loadAnnualFinancials(ctx, ticker)
	if len(accounts) > 0 {
		metrics, err := analysis.CalculateValuationMetrics(accounts, float64(quote.CurrentPrice))
		if err != nil {
			g.logger.WithError(err).WithField("ticker", ticker).Warn("Valuation metrics unavailable")
		} else {
			raw.Metrics = metrics
		}
	}

	prompt := buildStockPrompt(ticker, raw, accounts)

	text, err := g.llm.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate report for %s: %w", ticker, err)
	}

	return &StockReport{
		Metadata: StockMetadata{
			Ticker:        ticker,
			CompanyName:   name,
			GeneratedAt:   g.now().Format(generatedAtLayout),
			HasFinancials: len(accounts) > 0,
		},
		Title:    fmt.Sprintf("%s 투자 리포트", name),
		FullText: text,
		Sections: splitSections(text, stockSectionMap),
		RawData:  raw,
	}, nil
}

func (g *Generator) loadAnnualFinancials(ctx context.Context, ticker string) []dart.FinancialAccount {
	if g.financials == nil {
		return nil
	}

	corpCode, err := g.financials.GetCorpCode(ctx, ticker)
	if err != nil {
		g.logger.WithError(err).WithField("ticker", ticker).Warn("Corp code lookup failed")
		return nil
	}

	// 직전 사업연도 사업보고서
	year := strconv.Itoa(g.now().Year() - 1)
	accounts, err := g.financials.FetchAnnualFinancials(ctx, corpCode, year)
	if err != nil {
		g.logger.WithError(err).WithField("ticker", ticker).Warn("Annual financials fetch failed")
		return nil
	}
	return accounts
}

func buildPriceTrend(ticker string, prices []naver.PriceData, technical *analysis.TechnicalAnalysis) PriceTrend {
	trend := PriceTrend{}
	if technical.Week52 != nil {
		trend.Week52High = technical.Week52.High
		trend.Week52Low = technical.Week52.Low
	}

	for _, p := range []struct {
		days int
		dest **float64
	}{
		{21, &trend.Return1M},
		{63, &trend.Return3M},
		{248, &trend.Return1Y},
	} {
		change, err := analysis.CalculatePriceChange(ticker, prices, p.days)
		if err != nil {
			continue
		}
		pct := change.ChangePct
		*p.dest = &pct
	}
	return trend
}

func buildStockPrompt(ticker string, raw StockRawData, accounts []dart.FinancialAccount) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "당신은 전문 금융 애널리스트입니다. 다음 데이터를 바탕으로 %s(%s)의 투자 리포트를 작성해주세요.\n\n",
		raw.Basic.Name, ticker)

	sb.WriteString("## 📊 제공된 데이터\n\n")
	sb.WriteString("### 1. 기본 정보\n")
	fmt.Fprintf(&sb, "- 종목명: %s\n", raw.Basic.Name)
	fmt.Fprintf(&sb, "- 현재가: %d원\n", raw.Basic.CurrentPrice)
	fmt.Fprintf(&sb, "- 전일 대비: %d원 (%+.2f%%)\n\n", raw.Basic.PriceChange, raw.Basic.PriceChangePct)

	sb.WriteString("### 2. 가격 추세\n")
	fmt.Fprintf(&sb, "- 1개월 수익률: %s\n", pctOrNA(raw.Trend.Return1M))
	fmt.Fprintf(&sb, "- 3개월 수익률: %s\n", pctOrNA(raw.Trend.Return3M))
	fmt.Fprintf(&sb, "- 1년 수익률: %s\n", pctOrNA(raw.Trend.Return1Y))
	fmt.Fprintf(&sb, "- 52주 최고가: %.0f원\n", raw.Trend.Week52High)
	fmt.Fprintf(&sb, "- 52주 최저가: %.0f원\n\n", raw.Trend.Week52Low)

	sb.WriteString("### 3. 투자 지표\n")
	if raw.Metrics != nil {
		fmt.Fprintf(&sb, "- PER: %.2f배\n", raw.Metrics.PER)
		fmt.Fprintf(&sb, "- PBR: %.2f배\n", raw.Metrics.PBR)
		fmt.Fprintf(&sb, "- ROE: %.2f%%\n", raw.Metrics.ROE)
		fmt.Fprintf(&sb, "- EPS: %d원 / BPS: %d원\n\n", raw.Metrics.EPS, raw.Metrics.BPS)
	} else {
		sb.WriteString("- PER/PBR/ROE: N/A\n\n")
	}

	sb.WriteString("### 4. 기술적 분석\n")
	if raw.Technical != nil && raw.Technical.RSI != nil {
		fmt.Fprintf(&sb, "- RSI: %.2f (%s)\n", raw.Technical.RSI.Value, raw.Technical.RSI.Signal)
	} else {
		sb.WriteString("- RSI: N/A\n")
	}
	if raw.Technical != nil && raw.Technical.Trend != "" {
		fmt.Fprintf(&sb, "- 추세: %s\n\n", raw.Technical.Trend)
	} else {
		sb.WriteString("- 추세: N/A\n\n")
	}

	sb.WriteString("### 5. 재무제표 데이터\n")
	if summary := summarizeAccounts(accounts); summary != "" {
		sb.WriteString(summary + "\n")
	} else {
		sb.WriteString("❌ 재무제표 데이터 없음\n")
	}

	sb.WriteString("\n---\n\n## 📝 리포트 작성 요청\n\n")
	sb.WriteString("위 데이터를 종합하여 다음 섹션으로 구성된 투자 리포트를 작성해주세요:\n\n")
	sb.WriteString("### [1. 투자 요약] (3-5줄)\n핵심 투자 포인트를 간결하게 요약\n\n")
	sb.WriteString("### [2. 주가 동향 분석]\n최근 주가 흐름 및 기술적 지표 분석\n\n")
	sb.WriteString("### [3. 재무 상태 분석]\n")
	if len(accounts) > 0 {
		sb.WriteString("재무제표 데이터를 바탕으로 재무 안정성 및 수익성 분석\n\n")
	} else {
		sb.WriteString("재무제표 데이터가 없어 제한적 분석만 가능. 주가 및 밸류에이션 지표 중심으로 분석\n\n")
	}
	sb.WriteString("### [4. 밸류에이션]\n제공된 PER, PBR, ROE 지표를 바탕으로 현재 주가의 적정성을 평가하세요.\n\n")
	sb.WriteString("### [5. 투자 의견]\n- 종합 투자 의견 (매수/보유/매도)\n- 목표주가 제시\n- 투자 리스크 요인\n- 주요 모니터링 포인트\n\n")
	sb.WriteString("---\n\n리포트 작성을 시작해주세요:")

	return sb.String()
}

// summarizeAccounts pulls the headline BS/IS lines into prompt text
func summarizeAccounts(accounts []dart.FinancialAccount) string {
	wanted := []string{"자산총계", "부채총계", "자본총계", "매출액", "영업이익", "당기순이익"}

	var lines []string
	for _, name := range wanted {
		for _, acc := range accounts {
			if acc.AccountNm == name {
				lines = append(lines, fmt.Sprintf("- %s: 당기 %s / 전기 %s",
					name, acc.ThstrmAmount, acc.FrmtrmAmount))
				break
			}
		}
	}
	return strings.Join(lines, "\n")
}

func pctOrNA(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%+.2f%%", *v)
}
