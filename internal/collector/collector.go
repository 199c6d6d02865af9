// Package collector pulls market data, financial statements and filings
// into the processed/ CSV cache for the configured watchlist.
package collector

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/hyeon/stockpilot/internal/external/dart"
	"github.com/hyeon/stockpilot/internal/external/naver"
	"github.com/hyeon/stockpilot/internal/store"
	"github.com/hyeon/stockpilot/pkg/config"
	"github.com/hyeon/stockpilot/pkg/logger"
)

// Collector orchestrates the daily pulls
// ⭐ SSOT: 데이터 수집 진입점은 이 Collector에서만
type Collector struct {
	naver  *naver.Client
	dart   *dart.Client
	files  *store.FileStore
	cfg    *config.Config
	logger *logger.Logger

	now func() time.Time
}

// New creates a collector
func New(naverClient *naver.Client, dartClient *dart.Client, files *store.FileStore, cfg *config.Config, log *logger.Logger) *Collector {
	return &Collector{
		naver:  naverClient,
		dart:   dartClient,
		files:  files,
		cfg:    cfg,
		logger: log,
		now:    time.Now,
	}
}

// CollectPrices pulls daily OHLCV for every watchlist ticker. A failing
// ticker is logged and skipped so one bad symbol doesn't kill the run.
func (c *Collector) CollectPrices(ctx context.Context) error {
	now := c.now()
	from := now.AddDate(0, 0, -c.cfg.Data.Days)

	var failed int
	for _, ticker := range c.cfg.Data.Tickers {
		prices, err := c.naver.FetchPrices(ctx, ticker, from, now)
		if err != nil {
			failed++
			c.logger.WithError(err).WithField("ticker", ticker).Warn("Price collection failed")
			continue
		}

		path, err := c.files.SavePrices(ticker, prices, now)
		if err != nil {
			return fmt.Errorf("save prices for %s: %w", ticker, err)
		}

		c.logger.WithFields(map[string]interface{}{
			"ticker": ticker,
			"rows":   len(prices),
			"file":   path,
		}).Info("Prices collected")
	}

	if len(c.cfg.Data.Tickers) > 0 && failed == len(c.cfg.Data.Tickers) {
		return fmt.Errorf("price collection failed for all %d tickers", failed)
	}
	return nil
}

// CollectIndex pulls the KOSPI and KOSDAQ daily series
func (c *Collector) CollectIndex(ctx context.Context) error {
	now := c.now()
	from := now.AddDate(0, 0, -c.cfg.Data.Days)

	for _, indexCode := range []string{"KOSPI", "KOSDAQ"} {
		series, err := c.naver.FetchIndex(ctx, indexCode, from, now)
		if err != nil {
			return fmt.Errorf("fetch index %s: %w", indexCode, err)
		}

		path, err := c.files.SaveIndex(indexCode, series, now)
		if err != nil {
			return fmt.Errorf("save index %s: %w", indexCode, err)
		}

		c.logger.WithFields(map[string]interface{}{
			"index": indexCode,
			"rows":  len(series),
			"file":  path,
		}).Info("Index collected")
	}
	return nil
}

// CollectFinancials pulls the latest annual statement per ticker. Tickers
// without DART financials (status 013) are skipped quietly.
func (c *Collector) CollectFinancials(ctx context.Context) error {
	year := strconv.Itoa(c.now().Year() - 1)

	for _, ticker := range c.cfg.Data.Tickers {
		corpCode, err := c.dart.GetCorpCode(ctx, ticker)
		if err != nil {
			c.logger.WithError(err).WithField("ticker", ticker).Warn("Corp code lookup failed")
			continue
		}

		accounts, err := c.dart.FetchAnnualFinancials(ctx, corpCode, year)
		if err != nil {
			c.logger.WithError(err).WithField("ticker", ticker).Warn("Financials fetch failed")
			continue
		}
		if len(accounts) == 0 {
			c.logger.WithField("ticker", ticker).Debug("No financials published")
			continue
		}

		path, err := c.files.SaveFinancials(ticker, accounts, c.now())
		if err != nil {
			return fmt.Errorf("save financials for %s: %w", ticker, err)
		}

		c.logger.WithFields(map[string]interface{}{
			"ticker":   ticker,
			"accounts": len(accounts),
			"file":     path,
		}).Info("Financials collected")
	}
	return nil
}

// CollectFilings pulls the last 30 days of filings per ticker
func (c *Collector) CollectFilings(ctx context.Context) error {
	now := c.now()
	from := now.AddDate(0, 0, -30)

	for _, ticker := range c.cfg.Data.Tickers {
		corpCode, err := c.dart.GetCorpCode(ctx, ticker)
		if err != nil {
			c.logger.WithError(err).WithField("ticker", ticker).Warn("Corp code lookup failed")
			continue
		}

		filings, err := c.dart.FetchFilings(ctx, corpCode, from, now)
		if err != nil {
			c.logger.WithError(err).WithField("ticker", ticker).Warn("Filings fetch failed")
			continue
		}

		path, err := c.files.SaveFilings(ticker, filings, now)
		if err != nil {
			return fmt.Errorf("save filings for %s: %w", ticker, err)
		}

		c.logger.WithFields(map[string]interface{}{
			"ticker":  ticker,
			"filings": len(filings),
			"file":    path,
		}).Info("Filings collected")
	}
	return nil
}

// CollectAll runs every collection step, continuing past step failures
// and reporting the first error.
func (c *Collector) CollectAll(ctx context.Context) error {
	steps := []struct {
		name string
		run  func(context.Context) error
	}{
		{"prices", c.CollectPrices},
		{"index", c.CollectIndex},
		{"financials", c.CollectFinancials},
		{"filings", c.CollectFilings},
	}

	var firstErr error
	for _, step := range steps {
		if err := step.run(ctx); err != nil {
			c.logger.WithError(err).WithField("step", step.name).Error("Collection step failed")
			if firstErr == nil {
				firstErr = fmt.Errorf("collect %s: %w", step.name, err)
			}
		}
	}
	return firstErr
}
