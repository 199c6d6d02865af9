package kis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/hyeon/stockpilot/pkg/config"
	"github.com/hyeon/stockpilot/pkg/httputil"
	"github.com/hyeon/stockpilot/pkg/logger"
)

// Client handles communication with KIS (한국투자증권) API
// ⭐ SSOT: KIS API 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	cfg        config.KISConfig

	// Token management
	accessToken string
	tokenExpiry time.Time
	tokenMu     sync.RWMutex

	// Throttle retry policy (과호출 제한 응답용)
	retry httputil.RetryConfig

	// sleep is swapped out in tests
	sleep func(time.Duration)
}

// NewClient creates a new KIS API client
func NewClient(cfg config.KISConfig, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		cfg:        cfg,
		retry:      httputil.DefaultRetryConfig(),
		sleep:      time.Sleep,
	}
}

// TR-ID routing. The numeric code selects the back-end handler; the prefix
// selects real ("TTTC") vs paper trading ("VTTC").
const (
	trInquireBalance = "inquire-balance"
	trOrderBuy       = "order-buy"
	trOrderSell      = "order-sell"
	trOrderHistory   = "order-history"
)

var trCodes = map[string]string{
	trInquireBalance: "8434R",
	trOrderBuy:       "0012U",
	trOrderSell:      "0011U",
	trOrderHistory:   "8001R",
}

// trID returns the full TR-ID for the given operation key
func (c *Client) trID(key string) string {
	prefix := "TTTC"
	if c.cfg.IsVirtual() {
		prefix = "VTTC"
	}
	return prefix + trCodes[key]
}

// Throttling message codes returned with rt_cd != "0" that warrant a retry
var throttleCodes = map[string]bool{
	"EGW00201": true, // 초당 거래건수 초과
	"EGW00123": true,
}

// TokenResponse represents the OAuth token response
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// getToken gets a valid access token, refreshing if necessary
func (c *Client) getToken(ctx context.Context) (string, error) {
	c.tokenMu.RLock()
	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		token := c.accessToken
		c.tokenMu.RUnlock()
		return token, nil
	}
	c.tokenMu.RUnlock()

	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()

	// Double-check after acquiring write lock
	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	// 실전은 /oauth2/token, 모의는 /oauth2/tokenP
	tokenPath := "/oauth2/token"
	if c.cfg.IsVirtual() {
		tokenPath = "/oauth2/tokenP"
	}

	reqURL := c.cfg.BaseURL + tokenPath
	body := fmt.Sprintf(`{"grant_type":"client_credentials","appkey":"%s","appsecret":"%s"}`,
		c.cfg.AppKey, c.cfg.AppSecret)

	resp, err := c.httpClient.Post(ctx, reqURL, "application/json", strings.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("token request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var tokenResp TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}

	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("token response missing access_token")
	}

	c.accessToken = tokenResp.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn-60) * time.Second) // 1분 여유

	c.logger.WithFields(map[string]interface{}{
		"expires_in": tokenResp.ExpiresIn,
	}).Info("KIS access token refreshed")

	return c.accessToken, nil
}

// apiEnvelope is the common KIS response wrapper
type apiEnvelope struct {
	RtCd  string `json:"rt_cd"`
	MsgCd string `json:"msg_cd"`
	Msg1  string `json:"msg1"`
}

// apiResult carries the raw body plus the continuation header
type apiResult struct {
	Body   []byte
	TrCont string // "F"/"M" = more pages, "D"/"E" = last page
}

// call executes one authenticated TR request. Throttling responses
// (rt_cd != 0 with EGW00201/EGW00123) are retried with the same capped
// backoff schedule used everywhere else; other API-level failures return
// an *APIError.
func (c *Client) call(ctx context.Context, method, path, trID string, query url.Values, body interface{}, cont bool) (*apiResult, error) {
	delay := c.retry.InitialDelay

	for attempt := 1; ; attempt++ {
		result, envelope, err := c.doCall(ctx, method, path, trID, query, body, cont)
		if err != nil {
			return nil, err
		}

		if envelope.RtCd == "0" {
			return result, nil
		}

		if throttleCodes[envelope.MsgCd] && attempt < c.retry.MaxAttempts {
			c.logger.WithFields(map[string]interface{}{
				"msg_cd":  envelope.MsgCd,
				"attempt": attempt,
				"delay":   delay,
			}).Warn("KIS throttled, retrying")

			c.sleep(delay)
			delay *= 2
			if delay > c.retry.MaxDelay {
				delay = c.retry.MaxDelay
			}
			continue
		}

		return nil, &APIError{Code: envelope.MsgCd, Message: envelope.Msg1, TrID: trID}
	}
}

// doCall performs a single authenticated request
func (c *Client) doCall(ctx context.Context, method, path, trID string, query url.Values, body interface{}, cont bool) (*apiResult, *apiEnvelope, error) {
	token, err := c.getToken(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("get token: %w", err)
	}

	reqURL := c.cfg.BaseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, nil, fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("authorization", "Bearer "+token)
	req.Header.Set("appkey", c.cfg.AppKey)
	req.Header.Set("appsecret", c.cfg.AppSecret)
	req.Header.Set("tr_id", trID)
	if cont {
		req.Header.Set("tr_cont", "N") // 연속 조회
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("API error status %d: %s", resp.StatusCode, string(respBody))
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return nil, nil, fmt.Errorf("decode response envelope: %w", err)
	}

	return &apiResult{
		Body:   respBody,
		TrCont: resp.Header.Get("tr_cont"),
	}, &envelope, nil
}

// hasMorePages reports whether a continuation page follows
func hasMorePages(trCont string) bool {
	return trCont == "F" || trCont == "M"
}
