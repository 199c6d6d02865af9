package report

import (
	"fmt"
	"strings"

	"github.com/hyeon/stockpilot/internal/kakao"
)

// FormatStockReportForKakao renders a stock report as a basicCard with
// the brief summary plus a listCard carrying the key figures.
func FormatStockReportForKakao(r *StockReport, detailURL string) *kakao.Response {
	if detailURL == "" {
		detailURL = fmt.Sprintf("https://example.com/report/%s", r.Metadata.Ticker)
	}

	opinion := kakao.ExtractOpinion(r.Sections["investment_opinion"])

	basic := r.RawData.Basic
	priceEmoji := "➡️"
	if basic.PriceChange > 0 {
		priceEmoji = "📈"
	} else if basic.PriceChange < 0 {
		priceEmoji = "📉"
	}

	valuation := "PER N/A | PBR N/A | ROE N/A"
	if m := r.RawData.Metrics; m != nil {
		valuation = fmt.Sprintf("PER %.2f배 | PBR %.2f배 | ROE %.2f%%", m.PER, m.PBR, m.ROE)
	}

	detailButton := kakao.Button{
		Action:     "webLink",
		Label:      "📄 상세 리포트 보기",
		WebLinkURL: detailURL,
	}

	return kakao.NewOutputsResponse(
		kakao.Output{BasicCard: &kakao.BasicCard{
			Title:       fmt.Sprintf("📊 %s (%s)", r.Metadata.CompanyName, r.Metadata.Ticker),
			Description: briefSummary(r.Sections["summary"]),
			Thumbnail:   &kakao.Thumbnail{ImageURL: fmt.Sprintf("https://example.com/chart/%s.png", r.Metadata.Ticker)},
			Buttons:     []kakao.Button{detailButton},
		}},
		kakao.Output{ListCard: &kakao.ListCard{
			Header: kakao.ListHeader{Title: "📈 핵심 정보"},
			Items: []kakao.ListItem{
				{
					Title:       "현재가",
					Description: fmt.Sprintf("%d원\n%s %+d원 (%+.2f%%)", basic.CurrentPrice, priceEmoji, basic.PriceChange, basic.PriceChangePct),
				},
				{
					Title:       "밸류에이션",
					Description: valuation,
				},
				{
					Title:       "투자 의견",
					Description: fmt.Sprintf("%s %s\n목표주가: %s", kakao.OpinionEmoji(opinion.Opinion), opinion.Opinion, opinion.TargetPrice),
				},
			},
			Buttons: []kakao.Button{detailButton},
		}},
	)
}

// briefSummary takes the first sentence of the summary section, clipped
// to 100 chars.
func briefSummary(summary string) string {
	if summary == "" {
		return ""
	}

	brief := summary
	if idx := strings.Index(summary, "."); idx >= 0 {
		brief = summary[:idx+1]
	}

	runes := []rune(brief)
	if len(runes) > 100 {
		brief = string(runes[:97]) + "..."
	}
	return brief
}

// FormatNewsForKakao renders a news summary as a textCard with the key
// issues plus follow-up quick replies.
func FormatNewsForKakao(r *NewsReport) *kakao.Response {
	keyIssues := r.Sections["key_issues"]
	if keyIssues == "" {
		keyIssues = "요약 정보 없음"
	}
	if runes := []rune(keyIssues); len(runes) > 200 {
		keyIssues = string(runes[:197]) + "..."
	}

	return kakao.NewOutputsResponse(
		kakao.Output{TextCard: &kakao.TextCard{
			Title:       fmt.Sprintf("📰 %s 뉴스 요약", r.Metadata.CompanyName),
			Description: keyIssues,
			Buttons: []kakao.Button{{
				Action:     "webLink",
				Label:      "📄 상세 보기",
				WebLinkURL: fmt.Sprintf("https://example.com/news/%s", r.Metadata.Ticker),
			}},
		}},
	).WithQuickReplies(
		kakao.QuickReply{Action: "message", Label: "📊 종목 리포트", MessageText: fmt.Sprintf("%s 리포트", r.Metadata.CompanyName)},
		kakao.QuickReply{Action: "message", Label: "📈 차트 보기", MessageText: fmt.Sprintf("%s 차트", r.Metadata.CompanyName)},
	)
}

// FormatTransactionForKakao renders a trade report as a textCard summary
// plus a top-3 profit-rate listCard and period quick replies.
func FormatTransactionForKakao(r *TransactionReport) *kakao.Response {
	netEmoji := "📈"
	if r.Summary.NetAmount < 0 {
		netEmoji = "📉"
	}

	var items []kakao.ListItem
	top := r.StockSummary
	if len(top) > 3 {
		top = top[:3]
	}
	for _, s := range top {
		profitEmoji := "🟢"
		if s.ProfitRate < 0 {
			profitEmoji = "🔴"
		}
		items = append(items, kakao.ListItem{
			Title:       s.StockName,
			Description: fmt.Sprintf("%s 수익률: %+.2f%%\n거래 %d건", profitEmoji, s.ProfitRate, s.Trades),
		})
	}
	if len(items) == 0 {
		items = []kakao.ListItem{{Title: "거래 내역 없음", Description: "-"}}
	}

	return kakao.NewOutputsResponse(
		kakao.Output{TextCard: &kakao.TextCard{
			Title: fmt.Sprintf("📊 %s 거래 리포트", r.Metadata.PeriodText),
			Description: fmt.Sprintf("총 %d건 거래\n매수: %d원\n매도: %d원\n%s 순손익: %+d원",
				r.Summary.TotalTrades, r.Summary.TotalBuyAmount, r.Summary.TotalSellAmount, netEmoji, r.Summary.NetAmount),
			Buttons: []kakao.Button{{
				Action:     "webLink",
				Label:      "📄 상세 내역 보기",
				WebLinkURL: "https://example.com/transactions",
			}},
		}},
		kakao.Output{ListCard: &kakao.ListCard{
			Header: kakao.ListHeader{Title: "📈 종목별 수익률 TOP 3"},
			Items:  items,
		}},
	).WithQuickReplies(
		kakao.QuickReply{Action: "message", Label: "1개월", MessageText: "거래내역 1개월"},
		kakao.QuickReply{Action: "message", Label: "3개월", MessageText: "거래내역 3개월"},
		kakao.QuickReply{Action: "message", Label: "1년", MessageText: "거래내역 1년"},
	)
}

// FormatMonthlyForKakao renders the monthly summary as a textCard plus a
// best/worst performer listCard.
func FormatMonthlyForKakao(r *MonthlyReport) *kakao.Response {
	profitEmoji := "📈"
	if r.Portfolio.TotalProfitRate < 0 {
		profitEmoji = "📉"
	}

	description := fmt.Sprintf("%s 총 수익률: %+.2f%%\n총 자산: %d원\n이번 달 거래: %d건",
		profitEmoji, r.Portfolio.TotalProfitRate, r.Portfolio.TotalAsset, r.Trading.TotalTrades)

	var items []kakao.ListItem
	if best := r.TopPerformers.Best; best != nil {
		items = append(items, kakao.ListItem{
			Title:       fmt.Sprintf("🏆 최고 수익: %s", best.Name),
			Description: fmt.Sprintf("%+.2f%%", best.ProfitRate),
		})
	}
	if worst := r.TopPerformers.Worst; worst != nil {
		items = append(items, kakao.ListItem{
			Title:       fmt.Sprintf("📉 최저 수익: %s", worst.Name),
			Description: fmt.Sprintf("%+.2f%%", worst.ProfitRate),
		})
	}
	if len(items) == 0 {
		items = []kakao.ListItem{{Title: "보유 종목 없음", Description: "-"}}
	}

	return kakao.NewOutputsResponse(
		kakao.Output{TextCard: &kakao.TextCard{
			Title:       "📊 이번 달 투자 요약",
			Description: description,
			Buttons: []kakao.Button{{
				Action:     "webLink",
				Label:      "📄 상세 리포트 보기",
				WebLinkURL: "https://example.com/summary",
			}},
		}},
		kakao.Output{ListCard: &kakao.ListCard{
			Header: kakao.ListHeader{Title: "📈 종목 성과"},
			Items:  items,
		}},
	).WithQuickReplies(
		kakao.QuickReply{Action: "message", Label: "거래 내역", MessageText: "거래내역 1개월"},
		kakao.QuickReply{Action: "message", Label: "보유 종목", MessageText: "보유 종목"},
	)
}
