package kis

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Quotation TR-IDs are shared between real and paper trading
const (
	trIDCurrentPrice = "FHKST01010100" // 국내주식 현재가
)

const currentPricePath = "/uapi/domestic-stock/v1/quotations/inquire-price"

// GetCurrentPrice returns a realtime price snapshot for a stock
func (c *Client) GetCurrentPrice(ctx context.Context, stockCode string) (*Quote, error) {
	query := url.Values{
		"fid_cond_mrkt_div_code": {"J"},
		"fid_input_iscd":         {stockCode},
	}

	result, err := c.call(ctx, http.MethodGet, currentPricePath, trIDCurrentPrice, query, nil, false)
	if err != nil {
		return nil, fmt.Errorf("current price inquiry: %w", err)
	}

	var page struct {
		Output struct {
			StckPrpr   string `json:"stck_prpr"`    // 현재가
			PrdyVrss   string `json:"prdy_vrss"`    // 전일 대비
			PrdyCtrt   string `json:"prdy_ctrt"`    // 전일 대비율
			StckOprc   string `json:"stck_oprc"`    // 시가
			StckHgpr   string `json:"stck_hgpr"`    // 고가
			StckLwpr   string `json:"stck_lwpr"`    // 저가
			AcmlVol    string `json:"acml_vol"`     // 누적 거래량
			AcmlTrPbmn string `json:"acml_tr_pbmn"` // 누적 거래대금
		} `json:"output"`
	}
	if err := json.Unmarshal(result.Body, &page); err != nil {
		return nil, fmt.Errorf("decode current price: %w", err)
	}

	quote := &Quote{
		StockCode:    stockCode,
		CurrentPrice: parseIntSafe(page.Output.StckPrpr),
		Change:       parseIntSafe(page.Output.PrdyVrss),
		ChangeRate:   parseFloatSafe(page.Output.PrdyCtrt),
		Open:         parseIntSafe(page.Output.StckOprc),
		High:         parseIntSafe(page.Output.StckHgpr),
		Low:          parseIntSafe(page.Output.StckLwpr),
		Volume:       parseIntSafe(page.Output.AcmlVol),
		TradingValue: parseIntSafe(page.Output.AcmlTrPbmn),
	}

	if quote.CurrentPrice == 0 {
		return nil, fmt.Errorf("no price data for %s", stockCode)
	}

	return quote, nil
}
