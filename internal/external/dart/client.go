package dart

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/hyeon/stockpilot/pkg/logger"
	"github.com/hyeon/stockpilot/pkg/redis"
)

// Client handles communication with DART (Data Analysis, Retrieval and Transfer System) API
// ⭐ SSOT: DART API 호출은 이 클라이언트에서만
type Client struct {
	httpClient *http.Client
	logger     *logger.Logger
	apiKey     string
	baseURL    string

	// corp-code directory cache (stock code -> corp code)
	corpMu    sync.RWMutex
	corpCodes map[string]CorpInfo

	rateLimiter  *redis.RateLimiter
	rateLimitCfg *redis.RateLimitConfig
}

// NewClient creates a new DART API client
// DART API requires legacy TLS configuration (RSA key exchange)
func NewClient(apiKey string, log *logger.Logger) *Client {
	return &Client{
		httpClient: newLegacyCompatibleClient(30 * time.Second),
		logger:     log,
		apiKey:     apiKey,
		baseURL:    "https://opendart.fss.or.kr",
	}
}

// WithRateLimiter sets the redis sliding-window limiter for this client.
// DART uses its own legacy-TLS transport, so the limiter hooks in here
// instead of pkg/httputil.
func (c *Client) WithRateLimiter(limiter *redis.RateLimiter, cfg redis.RateLimitConfig) *Client {
	c.rateLimiter = limiter
	c.rateLimitCfg = &cfg
	return c
}

// throttle blocks until the rate limit allows the next request
func (c *Client) throttle(ctx context.Context) error {
	if c.rateLimiter == nil {
		return nil
	}
	return c.rateLimiter.Wait(ctx, *c.rateLimitCfg)
}

// newLegacyCompatibleClient creates an HTTP client compatible with legacy TLS servers
// DART server requires RSA key exchange cipher suites which Go 1.22+ no longer offers by default
func newLegacyCompatibleClient(timeout time.Duration) *http.Client {
	tlsCfg := &tls.Config{
		MinVersion: tls.VersionTLS12,
		MaxVersion: tls.VersionTLS12,

		// Include RSA KEX cipher suites for legacy server compatibility
		// DART server doesn't support ECDHE, so we need RSA key exchange
		CipherSuites: []uint16{
			// ECDHE (modern) - will be used if server supports
			tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
			tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
			tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256,

			// RSA KEX (legacy) - required for DART API
			tls.TLS_RSA_WITH_AES_128_GCM_SHA256,
			tls.TLS_RSA_WITH_AES_256_GCM_SHA384,
			tls.TLS_RSA_WITH_AES_128_CBC_SHA,
			tls.TLS_RSA_WITH_AES_256_CBC_SHA,
		},
	}

	tr := &http.Transport{
		Proxy:             http.ProxyFromEnvironment,
		ForceAttemptHTTP2: false, // Disable HTTP/2 for legacy server compatibility

		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,

		TLSHandshakeTimeout:   10 * time.Second,
		TLSClientConfig:       tlsCfg,
		MaxIdleConns:          20,
		MaxConnsPerHost:       5, // Reduced to avoid overwhelming DART API
		IdleConnTimeout:       90 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &http.Client{
		Transport: tr,
		Timeout:   timeout,
	}
}
