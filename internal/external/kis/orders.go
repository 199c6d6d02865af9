package kis

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
)

const orderCashPath = "/uapi/domestic-stock/v1/trading/order-cash"

// orderRequestBody is the KIS cash-order payload
type orderRequestBody struct {
	CANO       string `json:"CANO"`
	AcntPrdtCd string `json:"ACNT_PRDT_CD"`
	PDNO       string `json:"PDNO"`
	OrdDvsn    string `json:"ORD_DVSN"` // 00=지정가, 01=시장가
	OrdQty     string `json:"ORD_QTY"`
	OrdUnpr    string `json:"ORD_UNPR"` // "0" for market orders
}

// PlaceOrder places a cash order. Quantity sizing follows the request's
// Scale: STOCK takes the quantity as a share count; CASH divides a KRW
// amount by the reference price (the limit price, or the current price for
// market orders) and floors to whole shares.
func (c *Client) PlaceOrder(ctx context.Context, req OrderRequest) (*OrderResult, error) {
	qty, ordDvsn, ordUnpr, err := c.resolveOrder(ctx, req)
	if err != nil {
		return nil, err
	}
	if qty <= 0 {
		return nil, fmt.Errorf("resolved order quantity is zero for %s", req.StockCode)
	}

	trKey := trOrderBuy
	if req.Side == OrderSideSell {
		trKey = trOrderSell
	}

	body := orderRequestBody{
		CANO:       c.cfg.AccountID,
		AcntPrdtCd: c.cfg.AccountSuffix,
		PDNO:       req.StockCode,
		OrdDvsn:    ordDvsn,
		OrdQty:     fmt.Sprintf("%d", qty),
		OrdUnpr:    ordUnpr,
	}

	result, err := c.call(ctx, http.MethodPost, orderCashPath, c.trID(trKey), nil, body, false)
	if err != nil {
		return nil, fmt.Errorf("place %s order: %w", req.Side, err)
	}

	var page struct {
		Output struct {
			ODNO string `json:"ODNO"`
		} `json:"output"`
	}
	if err := json.Unmarshal(result.Body, &page); err != nil {
		return nil, fmt.Errorf("decode order response: %w", err)
	}

	if page.Output.ODNO == "" {
		return nil, fmt.Errorf("order accepted without order number for %s", req.StockCode)
	}

	c.logger.WithFields(map[string]interface{}{
		"stock_code": req.StockCode,
		"side":       req.Side,
		"order_no":   page.Output.ODNO,
		"quantity":   qty,
	}).Info("Order placed")

	return &OrderResult{OrderNo: page.Output.ODNO, Quantity: qty}, nil
}

// Buy is a convenience wrapper for a buy order
func (c *Client) Buy(ctx context.Context, stockCode string, price int64, quantity float64, scale QuantityScale) (*OrderResult, error) {
	return c.PlaceOrder(ctx, OrderRequest{
		StockCode: stockCode,
		Side:      OrderSideBuy,
		Price:     price,
		Quantity:  quantity,
		Scale:     scale,
	})
}

// Sell is a convenience wrapper for a sell order
func (c *Client) Sell(ctx context.Context, stockCode string, price int64, quantity float64, scale QuantityScale) (*OrderResult, error) {
	return c.PlaceOrder(ctx, OrderRequest{
		StockCode: stockCode,
		Side:      OrderSideSell,
		Price:     price,
		Quantity:  quantity,
		Scale:     scale,
	})
}

// resolveOrder turns the request into KIS wire fields
func (c *Client) resolveOrder(ctx context.Context, req OrderRequest) (qty int64, ordDvsn, ordUnpr string, err error) {
	var refPrice float64

	if req.Price <= 0 {
		// 시장가
		ordDvsn = "01"
		ordUnpr = "0"

		if req.Scale == ScaleCash {
			quote, qErr := c.GetCurrentPrice(ctx, req.StockCode)
			if qErr != nil {
				return 0, "", "", fmt.Errorf("reference price for cash sizing: %w", qErr)
			}
			refPrice = float64(quote.CurrentPrice)
		}
	} else {
		// 지정가
		ordDvsn = "00"
		ordUnpr = fmt.Sprintf("%d", req.Price)
		refPrice = float64(req.Price)
	}

	switch req.Scale {
	case ScaleStock:
		qty = int64(req.Quantity)
	case ScaleCash:
		if refPrice <= 0 {
			return 0, "", "", fmt.Errorf("no reference price for cash-scaled order")
		}
		qty = int64(math.Floor(req.Quantity / refPrice))
	default:
		return 0, "", "", fmt.Errorf("quantity scale must be CASH or STOCK, got %q", req.Scale)
	}

	return qty, ordDvsn, ordUnpr, nil
}
