package kis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyeon/stockpilot/pkg/config"
	"github.com/hyeon/stockpilot/pkg/httputil"
	"github.com/hyeon/stockpilot/pkg/logger"
)

func newTestClient(t *testing.T, serverURL string, virtual bool) *Client {
	t.Helper()

	env := "prod"
	if virtual {
		env = "vps"
	}
	cfg := config.KISConfig{
		AppKey:        "test-app-key",
		AppSecret:     "test-app-secret",
		AccountID:     "12345678",
		AccountSuffix: "01",
		Env:           env,
		BaseURL:       serverURL,
	}

	log := logger.NewNop()
	httpClient := httputil.New(log).DisableRetry()

	client := NewClient(cfg, httpClient, log)
	client.sleep = func(time.Duration) {}
	return client
}

func writeToken(w http.ResponseWriter) {
	json.NewEncoder(w).Encode(TokenResponse{
		AccessToken: "test-token",
		TokenType:   "Bearer",
		ExpiresIn:   86400,
	})
}

func TestTokenPathDependsOnEnvironment(t *testing.T) {
	tests := []struct {
		name     string
		virtual  bool
		wantPath string
	}{
		{"real trading", false, "/oauth2/token"},
		{"paper trading", true, "/oauth2/tokenP"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				writeToken(w)
			}))
			defer server.Close()

			client := newTestClient(t, server.URL, tt.virtual)
			token, err := client.getToken(context.Background())
			require.NoError(t, err)
			assert.Equal(t, "test-token", token)
			assert.Equal(t, tt.wantPath, gotPath)
		})
	}
}

func TestTokenIsCachedUntilExpiry(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		writeToken(w)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, false)

	for i := 0; i < 3; i++ {
		_, err := client.getToken(context.Background())
		require.NoError(t, err)
	}

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestTrIDPrefixSwitchesWithEnvironment(t *testing.T) {
	real := newTestClient(t, "http://unused", false)
	paper := newTestClient(t, "http://unused", true)

	assert.Equal(t, "TTTC8434R", real.trID(trInquireBalance))
	assert.Equal(t, "VTTC8434R", paper.trID(trInquireBalance))
	assert.Equal(t, "TTTC0012U", real.trID(trOrderBuy))
	assert.Equal(t, "VTTC0011U", paper.trID(trOrderSell))
	assert.Equal(t, "TTTC8001R", real.trID(trOrderHistory))
}

func TestCallRetriesOnThrottle(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth2/token" {
			writeToken(w)
			return
		}

		n := atomic.AddInt32(&calls, 1)
		if n < 3 {
			json.NewEncoder(w).Encode(map[string]string{
				"rt_cd":  "1",
				"msg_cd": "EGW00201",
				"msg1":   "초당 거래건수를 초과하였습니다",
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"rt_cd": "0", "msg_cd": "MCA00000"})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, false)

	var slept []time.Duration
	client.sleep = func(d time.Duration) { slept = append(slept, d) }

	_, err := client.call(context.Background(), http.MethodGet, "/test", "TTTC0000R", nil, nil, false)
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Equal(t, []time.Duration{500 * time.Millisecond, time.Second}, slept)
}

func TestCallThrottleBackoffIsCapped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth2/token" {
			writeToken(w)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{
			"rt_cd":  "1",
			"msg_cd": "EGW00123",
			"msg1":   "throttled",
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, false)

	var slept []time.Duration
	client.sleep = func(d time.Duration) { slept = append(slept, d) }

	_, err := client.call(context.Background(), http.MethodGet, "/test", "TTTC0000R", nil, nil, false)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "EGW00123", apiErr.Code)

	// 0.5s, 1s, 2s, 4s, then capped at 5s
	assert.Equal(t, []time.Duration{
		500 * time.Millisecond,
		time.Second,
		2 * time.Second,
		4 * time.Second,
		5 * time.Second,
	}, slept)
}

func TestCallReturnsAPIErrorOnNonThrottleFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth2/token" {
			writeToken(w)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{
			"rt_cd":  "1",
			"msg_cd": "APBK0656",
			"msg1":   "주문가능금액을 초과했습니다",
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, false)

	_, err := client.call(context.Background(), http.MethodGet, "/test", "TTTC0012U", nil, nil, false)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "APBK0656", apiErr.Code)
	assert.Equal(t, "TTTC0012U", apiErr.TrID)
}

func TestDoCallSetsHeaders(t *testing.T) {
	var gotHeader http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth2/token" {
			writeToken(w)
			return
		}
		gotHeader = r.Header.Clone()
		json.NewEncoder(w).Encode(map[string]string{"rt_cd": "0"})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, false)

	_, err := client.call(context.Background(), http.MethodGet, "/test", "TTTC8434R", nil, nil, true)
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-token", gotHeader.Get("authorization"))
	assert.Equal(t, "test-app-key", gotHeader.Get("appkey"))
	assert.Equal(t, "test-app-secret", gotHeader.Get("appsecret"))
	assert.Equal(t, "TTTC8434R", gotHeader.Get("tr_id"))
	assert.Equal(t, "N", gotHeader.Get("tr_cont"))
}

func TestHasMorePages(t *testing.T) {
	assert.True(t, hasMorePages("F"))
	assert.True(t, hasMorePages("M"))
	assert.False(t, hasMorePages("D"))
	assert.False(t, hasMorePages("E"))
	assert.False(t, hasMorePages(""))
}
