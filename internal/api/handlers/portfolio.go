package handlers

import (
	"net/http"
	"strconv"

	"github.com/hyeon/stockpilot/internal/analysis"
	"github.com/hyeon/stockpilot/internal/external/kis"
	"github.com/hyeon/stockpilot/internal/external/naver"
	"github.com/hyeon/stockpilot/internal/store"
	"github.com/hyeon/stockpilot/pkg/logger"
)

// PortfolioHandler serves the brokerage account view
type PortfolioHandler struct {
	kis    *kis.Client
	files  *store.FileStore
	logger *logger.Logger

	snapshots *store.SnapshotStore // optional, 잔고 추이
}

// NewPortfolioHandler creates a new portfolio handler
func NewPortfolioHandler(kisClient *kis.Client, files *store.FileStore, log *logger.Logger) *PortfolioHandler {
	return &PortfolioHandler{kis: kisClient, files: files, logger: log}
}

// WithSnapshots enables the balance-history endpoint
func (h *PortfolioHandler) WithSnapshots(snapshots *store.SnapshotStore) *PortfolioHandler {
	h.snapshots = snapshots
	return h
}

// GetHistory returns recent balance snapshots, newest first
// GET /api/portfolio/history?limit=30
func (h *PortfolioHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	if h.snapshots == nil {
		respondError(w, http.StatusServiceUnavailable, "balance history requires the database")
		return
	}

	limit := 30
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			limit = n
		}
	}

	snaps, err := h.snapshots.RecentBalances(r.Context(), limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load balance history")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve balance history")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    snaps,
	})
}

// GetPortfolio returns the account valuation breakdown. A days query
// parameter adds the period-return analysis from the price cache.
// GET /api/portfolio?days=30
func (h *PortfolioHandler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	balance, err := h.kis.GetBalance(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get balance")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve balance")
		return
	}

	holdings, err := h.kis.GetHoldings(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get holdings")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve holdings")
		return
	}

	summary := analysis.BuildPortfolioSummary(balance, holdings)

	resp := map[string]interface{}{
		"success": true,
		"balance": balance,
		"summary": summary,
	}

	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		if days, err := strconv.Atoi(daysStr); err == nil && days > 0 {
			if ret := h.periodReturn(holdings, days); ret != nil {
				resp["returns"] = ret
			}
		}
	}

	respondJSON(w, http.StatusOK, resp)
}

// periodReturn loads cached prices per holding and computes the period
// performance. Missing cache entries are skipped.
func (h *PortfolioHandler) periodReturn(holdings []kis.Holding, days int) *analysis.PortfolioReturn {
	pricesByTicker := make(map[string][]naver.PriceData, len(holdings))
	for _, holding := range holdings {
		prices, err := h.files.LoadLatestPrices(holding.StockCode)
		if err != nil {
			h.logger.WithError(err).WithField("ticker", holding.StockCode).Debug("No cached prices for holding")
			continue
		}
		pricesByTicker[holding.StockCode] = prices
	}

	ret, err := analysis.CalculatePortfolioReturn(holdings, pricesByTicker, days)
	if err != nil {
		h.logger.WithError(err).Warn("Portfolio return analysis failed")
		return nil
	}
	return ret
}
