package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/hyeon/stockpilot/internal/averaging"
	"github.com/hyeon/stockpilot/internal/kakao"
	"github.com/hyeon/stockpilot/pkg/logger"
)

// AveragingHandler serves the averaging-down calculator skill
type AveragingHandler struct {
	history *averaging.HistoryStore
	logger  *logger.Logger
}

// NewAveragingHandler creates a new averaging handler
func NewAveragingHandler(history *averaging.HistoryStore, log *logger.Logger) *AveragingHandler {
	return &AveragingHandler{history: history, logger: log}
}

// SkillAveraging handles the chatbot averaging calculation. A target_price
// parameter switches to the required-quantity calculation.
// POST /skill/averaging
func (h *AveragingHandler) SkillAveraging(w http.ResponseWriter, r *http.Request) {
	req := decodeSkillRequest(r)

	avgPrice, err1 := parseNumber(req.Param("avg_price"))
	quantity, err2 := parseCount(req.Param("quantity"))
	currentPrice, err3 := parseNumber(req.Param("current_price"))
	if err1 != nil || err2 != nil || err3 != nil {
		respondKakao(w, kakao.NewErrorResponse("평단가, 보유수량, 현재가를 숫자로 입력해주세요."))
		return
	}

	// 목표 평단가 모드
	if targetStr := req.Param("target_price"); targetStr != "" {
		target, err := parseNumber(targetStr)
		if err != nil {
			respondKakao(w, kakao.NewErrorResponse("목표 평단가를 숫자로 입력해주세요."))
			return
		}

		result, err := averaging.CalculateTargetQuantity(avgPrice, quantity, currentPrice, target)
		if err != nil {
			respondKakao(w, kakao.NewErrorResponse(err.Error()))
			return
		}
		respondKakao(w, kakao.NewSimpleTextResponse(averaging.FormatTargetResult(result)))
		return
	}

	addQuantity, err := parseCount(req.Param("add_quantity"))
	if err != nil {
		respondKakao(w, kakao.NewErrorResponse("추가 매수 수량을 숫자로 입력해주세요."))
		return
	}

	result, err := averaging.Calculate(avgPrice, quantity, currentPrice, addQuantity)
	if err != nil {
		respondKakao(w, kakao.NewErrorResponse(err.Error()))
		return
	}

	// 종목코드가 오면 계산 이력으로 남김
	if ticker := extractTicker(req.Param("ticker")); ticker != "" && h.history != nil {
		snapshot := averaging.Snapshot{
			AvgPrice:     avgPrice,
			Quantity:     quantity,
			CurrentPrice: currentPrice,
			AddQuantity:  addQuantity,
		}
		if _, err := h.history.Save(ticker, req.Param("company_name"), snapshot, result); err != nil {
			h.logger.WithError(err).WithField("ticker", ticker).Warn("Failed to save averaging history")
		}
	}

	respondKakao(w, kakao.NewSimpleTextResponse(averaging.FormatResult(result)))
}

// parseNumber parses a price that may carry commas or a 원 suffix
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSuffix(s, "원")
	return strconv.ParseFloat(s, 64)
}

// parseCount parses a share count that may carry commas or a 주 suffix
func parseCount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSuffix(s, "주")
	return strconv.ParseInt(s, 10, 64)
}
