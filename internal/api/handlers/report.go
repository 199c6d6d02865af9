package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/hyeon/stockpilot/internal/external/kis"
	"github.com/hyeon/stockpilot/internal/external/naver"
	"github.com/hyeon/stockpilot/internal/kakao"
	"github.com/hyeon/stockpilot/internal/report"
	"github.com/hyeon/stockpilot/internal/store"
	"github.com/hyeon/stockpilot/pkg/config"
	"github.com/hyeon/stockpilot/pkg/logger"
	"github.com/hyeon/stockpilot/pkg/redis"
)

// ReportHandler serves generated reports over REST and the skill endpoints
// ⭐ SSOT: 리포트 API 핸들러는 이 구조체에서만
type ReportHandler struct {
	generator *report.Generator
	naver     *naver.Client
	cfg       *config.Config
	logger    *logger.Logger

	cache     *redis.Cache         // optional, 생성된 리포트 캐시
	snapshots *store.SnapshotStore // optional, 리포트 보관
}

// NewReportHandler creates a new report handler
func NewReportHandler(gen *report.Generator, naverClient *naver.Client, cfg *config.Config, log *logger.Logger) *ReportHandler {
	return &ReportHandler{
		generator: gen,
		naver:     naverClient,
		cfg:       cfg,
		logger:    log,
	}
}

// WithCache enables redis caching of generated reports
func (h *ReportHandler) WithCache(cache *redis.Cache) *ReportHandler {
	h.cache = cache
	return h
}

// WithSnapshots enables report persistence
func (h *ReportHandler) WithSnapshots(snapshots *store.SnapshotStore) *ReportHandler {
	h.snapshots = snapshots
	return h
}

// GetReport generates a full stock report. A fresh cached copy short-
// circuits generation; a failed generation falls back to the last stored
// snapshot when one exists.
// GET /api/report/{ticker}
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	ticker := mux.Vars(r)["ticker"]
	if ticker == "" {
		respondError(w, http.StatusBadRequest, "ticker is required")
		return
	}

	if cached := h.cachedStockReport(r.Context(), ticker); cached != nil {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"cached":  true,
			"data":    cached,
		})
		return
	}

	rep, err := h.generateAndStore(r.Context(), ticker)
	if err != nil {
		h.logger.WithError(err).WithField("ticker", ticker).Error("Failed to generate stock report")

		if h.snapshots != nil {
			if snap, snapErr := h.snapshots.LatestReport(r.Context(), ticker, "stock"); snapErr == nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusOK)
				fmt.Fprintf(w, `{"success":true,"stale":true,"data":%s}`, snap.Payload)
				return
			}
		}

		respondError(w, http.StatusInternalServerError, "Failed to generate report")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    rep,
	})
}

// cachedStockReport returns a fresh cached report, or nil
func (h *ReportHandler) cachedStockReport(ctx context.Context, ticker string) *report.StockReport {
	if h.cache == nil {
		return nil
	}
	var rep report.StockReport
	hit, err := h.cache.Get(ctx, redis.ReportKey(ticker, "stock"), &rep)
	if err != nil || !hit {
		return nil
	}
	return &rep
}

// generateAndStore generates a report and best-effort caches/persists it
func (h *ReportHandler) generateAndStore(ctx context.Context, ticker string) (*report.StockReport, error) {
	rep, err := h.generator.GenerateStockReport(ctx, ticker)
	if err != nil {
		return nil, err
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, redis.ReportKey(ticker, "stock"), rep, redis.TTLMedium); err != nil {
			h.logger.WithError(err).Warn("Failed to cache report")
		}
	}

	if h.snapshots != nil {
		if payload, err := json.Marshal(rep); err == nil {
			if err := h.snapshots.SaveReport(ctx, ticker, rep.Metadata.CompanyName, "stock", payload); err != nil {
				h.logger.WithError(err).Warn("Failed to persist report snapshot")
			}
		}
	}

	return rep, nil
}

// SkillReport handles the chatbot stock-report request
// POST /skill/report
func (h *ReportHandler) SkillReport(w http.ResponseWriter, r *http.Request) {
	req := decodeSkillRequest(r)
	ticker := extractTicker(req.ParamOrUtterance("ticker"))
	if ticker == "" {
		respondKakao(w, kakao.NewErrorResponse("종목코드를 입력해주세요. (예: 005930)"))
		return
	}

	rep := h.cachedStockReport(r.Context(), ticker)
	if rep == nil {
		generated, err := h.generateAndStore(r.Context(), ticker)
		if err != nil {
			h.logger.WithError(err).WithField("ticker", ticker).Error("Skill report failed")
			respondKakao(w, kakao.NewErrorResponse("리포트 생성에 실패했습니다. 잠시 후 다시 시도해주세요."))
			return
		}
		rep = generated
	}

	detailURL := fmt.Sprintf("%s/%s", h.cfg.Kakao.DetailBaseURL, ticker)
	respondKakao(w, report.FormatStockReportForKakao(rep, detailURL))
}

// SkillNews handles the chatbot news-summary request
// POST /skill/news
func (h *ReportHandler) SkillNews(w http.ResponseWriter, r *http.Request) {
	req := decodeSkillRequest(r)
	input := strings.TrimSpace(req.ParamOrUtterance("ticker"))
	if input == "" {
		respondKakao(w, kakao.NewErrorResponse("종목코드 또는 기업명을 입력해주세요."))
		return
	}

	// 6자리 숫자면 종목코드, 아니면 기업명으로 취급
	ticker := extractTicker(input)
	companyName := input
	if ticker != "" {
		companyName = h.stockName(r.Context(), ticker)
	}

	rep, err := h.generator.GenerateNewsSummary(r.Context(), companyName, ticker)
	if errors.Is(err, report.ErrNoSearchResults) {
		respondKakao(w, kakao.NewErrorResponse(fmt.Sprintf("%s 관련 뉴스를 찾지 못했습니다.", companyName)))
		return
	}
	if err != nil {
		h.logger.WithError(err).WithField("company", companyName).Error("Skill news failed")
		respondKakao(w, kakao.NewErrorResponse("뉴스 요약에 실패했습니다. 잠시 후 다시 시도해주세요."))
		return
	}

	respondKakao(w, report.FormatNewsForKakao(rep))
}

// SkillTransaction handles the chatbot transaction-report request. An
// utterance mentioning 월간 routes to the monthly portfolio summary.
// POST /skill/transaction
func (h *ReportHandler) SkillTransaction(w http.ResponseWriter, r *http.Request) {
	req := decodeSkillRequest(r)

	if strings.Contains(req.UserRequest.Utterance, "월간") || req.Param("type") == "monthly" {
		rep, err := h.generator.GenerateMonthlySummary(r.Context())
		if err != nil {
			h.logger.WithError(err).Error("Skill monthly summary failed")
			respondKakao(w, kakao.NewErrorResponse("월간 요약 생성에 실패했습니다."))
			return
		}
		respondKakao(w, report.FormatMonthlyForKakao(rep))
		return
	}

	period := parsePeriod(req.ParamOrUtterance("period"))
	rep, err := h.generator.GenerateTransactionReport(r.Context(), period)
	if errors.Is(err, report.ErrNoTransactions) {
		respondKakao(w, kakao.NewErrorResponse(fmt.Sprintf("%s 거래 내역이 없습니다.", report.PeriodText(period))))
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Skill transaction report failed")
		respondKakao(w, kakao.NewErrorResponse("거래 내역 조회에 실패했습니다."))
		return
	}

	respondKakao(w, report.FormatTransactionForKakao(rep))
}

// stockName resolves a ticker to its listed name, via the cache when
// available. Falls back to the ticker itself.
func (h *ReportHandler) stockName(ctx context.Context, ticker string) string {
	var name string
	if h.cache != nil {
		if hit, err := h.cache.Get(ctx, redis.StockNameKey(ticker), &name); err == nil && hit {
			return name
		}
	}

	name, err := h.naver.GetStockName(ctx, ticker)
	if err != nil {
		h.logger.WithError(err).WithField("ticker", ticker).Warn("Stock name lookup failed")
		return ticker
	}

	if h.cache != nil {
		_ = h.cache.Set(ctx, redis.StockNameKey(ticker), name, redis.TTLLong)
	}
	return name
}

// extractTicker returns the 6-digit stock code in s, or "" when absent
func extractTicker(s string) string {
	s = strings.TrimSpace(s)
	for i := 0; i+6 <= len(s); i++ {
		candidate := s[i : i+6]
		if isDigits(candidate) {
			// 앞뒤가 숫자면 6자리 코드가 아님
			if i > 0 && isDigits(s[i-1:i]) {
				continue
			}
			if i+6 < len(s) && isDigits(s[i+6:i+7]) {
				continue
			}
			return candidate
		}
	}
	return ""
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// parsePeriod maps user wording to a history period, defaulting to one month
func parsePeriod(s string) kis.HistoryPeriod {
	switch {
	case strings.Contains(s, "3개월"), strings.Contains(s, "3m"):
		return kis.Period3Months
	case strings.Contains(s, "1년"), strings.Contains(s, "1y"), strings.Contains(s, "12개월"):
		return kis.Period1Year
	default:
		return kis.Period1Month
	}
}
