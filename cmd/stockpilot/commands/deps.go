package commands

import (
	"fmt"

	"github.com/hyeon/stockpilot/internal/external/dart"
	"github.com/hyeon/stockpilot/internal/external/genai"
	"github.com/hyeon/stockpilot/internal/external/kis"
	"github.com/hyeon/stockpilot/internal/external/naver"
	"github.com/hyeon/stockpilot/internal/external/tavily"
	"github.com/hyeon/stockpilot/internal/report"
	"github.com/hyeon/stockpilot/internal/store"
	"github.com/hyeon/stockpilot/pkg/config"
	"github.com/hyeon/stockpilot/pkg/httputil"
	"github.com/hyeon/stockpilot/pkg/logger"
	"github.com/hyeon/stockpilot/pkg/redis"
)

// deps holds the wired clients shared by the CLI commands
// ⭐ SSOT: 외부 클라이언트 조립은 여기서만
type deps struct {
	cfg    *config.Config
	log    *logger.Logger
	naver  *naver.Client
	dart   *dart.Client
	kis    *kis.Client
	tavily *tavily.Client
	genai  *genai.Client
	files  *store.FileStore
	redis  *redis.Client // nil when REDIS_ENABLED=false
}

// limitedClient builds an HTTP client throttled per external service.
// redis가 켜져 있으면 공유 슬라이딩 윈도우, 아니면 로컬 토큰 버킷.
func limitedClient(log *logger.Logger, limiter *redis.RateLimiter, cfg redis.RateLimitConfig) *httputil.Client {
	client := httputil.New(log)
	if limiter != nil {
		return client.WithRateLimiter(limiter, cfg)
	}
	return client.WithLocalRateLimit(float64(cfg.Limit)/cfg.Window.Seconds(), cfg.Limit)
}

// buildDeps loads config and wires the external clients
func buildDeps() (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	var redisClient *redis.Client
	var limiter *redis.RateLimiter
	if cfg.Redis.Enabled {
		redisClient, err = redis.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		limiter = redis.NewRateLimiter(redisClient, "ratelimit")
	}

	files, err := store.NewFileStore(cfg.Data.ProcessedDir, log)
	if err != nil {
		return nil, fmt.Errorf("init file store: %w", err)
	}

	dartClient := dart.NewClient(cfg.DART.APIKey, log)
	if limiter != nil {
		dartClient.WithRateLimiter(limiter, redis.DARTRateLimit)
	}

	return &deps{
		cfg:    cfg,
		log:    log,
		naver:  naver.NewClient(limitedClient(log, limiter, redis.NaverRateLimit), log),
		dart:   dartClient,
		kis:    kis.NewClient(cfg.KIS, limitedClient(log, limiter, redis.KISRateLimit), log),
		tavily: tavily.NewClient(cfg.Tavily.APIKey, limitedClient(log, limiter, redis.TavilyRateLimit), log),
		genai:  genai.NewClient(cfg.Gemini, httputil.New(log), log),
		files:  files,
		redis:  redisClient,
	}, nil
}

// reportGenerator wires the full report generator from the deps
func (d *deps) reportGenerator() *report.Generator {
	return report.NewGenerator(d.genai, d.naver, d.kis, d.dart, d.kis, d.tavily, d.log)
}
