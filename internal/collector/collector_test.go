package collector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hyeon/stockpilot/internal/store"
	"github.com/hyeon/stockpilot/pkg/config"
	"github.com/hyeon/stockpilot/pkg/logger"
)

func TestCollectPricesEmptyWatchlist(t *testing.T) {
	files, err := store.NewFileStore(t.TempDir(), logger.NewNop())
	require.NoError(t, err)

	cfg := &config.Config{
		Data: config.DataConfig{Tickers: nil, Days: 120},
	}

	// 빈 관심 목록은 실패가 아니라 no-op
	c := New(nil, nil, files, cfg, logger.NewNop())
	require.NoError(t, c.CollectPrices(context.Background()))
}
