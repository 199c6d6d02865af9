// Package report assembles the LLM-backed reports served over KakaoTalk
// and the web: realtime stock reports, news/community summaries, period
// transaction reports and the monthly portfolio summary.
package report

import (
	"context"
	"time"

	"github.com/hyeon/stockpilot/internal/external/dart"
	"github.com/hyeon/stockpilot/internal/external/kis"
	"github.com/hyeon/stockpilot/internal/external/naver"
	"github.com/hyeon/stockpilot/internal/external/tavily"
	"github.com/hyeon/stockpilot/pkg/logger"
)

// TextGenerator is the LLM surface the generators need
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	GenerateSummary(ctx context.Context, prompt string) (string, error)
}

// MarketData supplies daily prices and company names
type MarketData interface {
	FetchPrices(ctx context.Context, stockCode string, from, to time.Time) ([]naver.PriceData, error)
	GetStockName(ctx context.Context, stockCode string) (string, error)
}

// QuoteProvider supplies the realtime price snapshot
type QuoteProvider interface {
	GetCurrentPrice(ctx context.Context, stockCode string) (*kis.Quote, error)
}

// FinancialsProvider resolves corp codes and annual statements
type FinancialsProvider interface {
	GetCorpCode(ctx context.Context, stockCode string) (string, error)
	FetchAnnualFinancials(ctx context.Context, corpCode, year string) ([]dart.FinancialAccount, error)
}

// Brokerage is the account-side surface for transaction/monthly reports
type Brokerage interface {
	GetTransactionHistory(ctx context.Context, period kis.HistoryPeriod) ([]kis.Transaction, error)
	GetTransactionSummary(ctx context.Context, period kis.HistoryPeriod) (*kis.TransactionSummary, error)
	GetHoldings(ctx context.Context) ([]kis.Holding, error)
	GetHoldingCash(ctx context.Context) (int64, error)
}

// NewsSearcher is the web-search surface for the news summary
type NewsSearcher interface {
	SearchStockNews(ctx context.Context, stockName string) (*tavily.SearchResponse, error)
	SearchMarketSentiment(ctx context.Context, stockName string) (*tavily.SearchResponse, error)
}

// Generator wires the data sources into report builders
type Generator struct {
	llm        TextGenerator
	market     MarketData
	quotes     QuoteProvider
	financials FinancialsProvider
	brokerage  Brokerage
	search     NewsSearcher
	logger     *logger.Logger

	now func() time.Time
}

// NewGenerator creates a report generator. Sources a deployment does not
// configure may be nil; the affected report kinds then degrade.
func NewGenerator(
	llm TextGenerator,
	market MarketData,
	quotes QuoteProvider,
	financials FinancialsProvider,
	brokerage Brokerage,
	search NewsSearcher,
	log *logger.Logger,
) *Generator {
	return &Generator{
		llm:        llm,
		market:     market,
		quotes:     quotes,
		financials: financials,
		brokerage:  brokerage,
		search:     search,
		logger:     log,
		now:        time.Now,
	}
}

const generatedAtLayout = "2006-01-02 15:04:05"
