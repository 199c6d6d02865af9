package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/hyeon/stockpilot/internal/chart"
	"github.com/hyeon/stockpilot/internal/external/naver"
	"github.com/hyeon/stockpilot/internal/store"
	"github.com/hyeon/stockpilot/pkg/logger"
)

// ChartHandler serves chart payloads built from the collected price cache
type ChartHandler struct {
	files  *store.FileStore
	naver  *naver.Client
	logger *logger.Logger
}

// NewChartHandler creates a new chart handler
func NewChartHandler(files *store.FileStore, naverClient *naver.Client, log *logger.Logger) *ChartHandler {
	return &ChartHandler{
		files:  files,
		naver:  naverClient,
		logger: log,
	}
}

// GetChart returns a renderable chart payload
// GET /api/chart/{ticker}?range=3m&type=candlestick
func (h *ChartHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	ticker := mux.Vars(r)["ticker"]
	if ticker == "" {
		respondError(w, http.StatusBadRequest, "ticker is required")
		return
	}

	chartRange := r.URL.Query().Get("range")
	chartType := r.URL.Query().Get("type")

	prices, err := h.files.LoadLatestPrices(ticker)
	if err != nil {
		// 캐시에 없으면 실시간으로 당겨옴
		now := time.Now()
		from := now.AddDate(0, 0, -chart.PeriodDays(chartRange)-30)
		prices, err = h.naver.FetchPrices(r.Context(), ticker, from, now)
		if err != nil {
			h.logger.WithError(err).WithField("ticker", ticker).Error("Failed to load prices for chart")
			respondError(w, http.StatusInternalServerError, "Failed to load price data")
			return
		}
	}

	payload, err := chart.Build(chartType, ticker, chartRange, prices)
	if err != nil {
		h.logger.WithError(err).WithField("ticker", ticker).Error("Failed to build chart payload")
		respondError(w, http.StatusInternalServerError, "Failed to build chart")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    payload,
	})
}
