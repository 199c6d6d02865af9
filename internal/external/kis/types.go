package kis

import "fmt"

// APIError is a KIS API-level failure (rt_cd != 0)
type APIError struct {
	Code    string // msg_cd
	Message string // msg1
	TrID    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("KIS API error [%s] %s: %s", e.TrID, e.Code, e.Message)
}

// ============================================================
// Balance & Holding Types
// ============================================================

// Balance represents account balance summary
type Balance struct {
	TotalDeposit    int64   `json:"total_deposit"`     // 예수금
	AvailableCash   int64   `json:"available_cash"`    // 출금가능금액 (prvs_rcdl_excc_amt)
	TotalPurchase   int64   `json:"total_purchase"`    // 매입금액합계
	TotalEvaluation int64   `json:"total_evaluation"`  // 평가금액합계
	TotalProfitLoss int64   `json:"total_profit_loss"` // 평가손익합계
	ProfitLossRate  float64 `json:"profit_loss_rate"`  // 수익률
	TotalAsset      int64   `json:"total_asset"`       // 총자산
}

// Holding represents a held stock position with valuation detail
type Holding struct {
	StockCode      string  `json:"stock_code"`       // pdno
	StockName      string  `json:"stock_name"`       // prdt_name
	Quantity       int64   `json:"quantity"`         // hldg_qty
	AvgBuyPrice    float64 `json:"avg_buy_price"`    // pchs_avg_prc
	CurrentPrice   float64 `json:"current_price"`    // prpr
	EvalAmount     int64   `json:"eval_amount"`      // evlu_amt
	ProfitLoss     int64   `json:"profit_loss"`      // evlu_pfls_amt
	ProfitLossRate float64 `json:"profit_loss_rate"` // evlu_pfls_rt
}

// ============================================================
// Order Types
// ============================================================

// OrderSide represents buy or sell
type OrderSide string

const (
	OrderSideBuy  OrderSide = "buy"
	OrderSideSell OrderSide = "sell"
)

// QuantityScale declares how Quantity is interpreted when placing orders
type QuantityScale string

const (
	// ScaleStock: quantity is a share count
	ScaleStock QuantityScale = "STOCK"
	// ScaleCash: quantity is a KRW amount, converted at the reference price
	ScaleCash QuantityScale = "CASH"
)

// OrderRequest represents a cash order to place
type OrderRequest struct {
	StockCode string        `json:"stock_code"`
	Side      OrderSide     `json:"side"`
	Price     int64         `json:"price"`    // 0 = 시장가
	Quantity  float64       `json:"quantity"` // share count or KRW amount
	Scale     QuantityScale `json:"scale"`
}

// OrderResult represents the outcome of placing an order
type OrderResult struct {
	OrderNo  string `json:"order_no"` // ODNO
	Quantity int64  `json:"quantity"` // resolved share count
}

// ============================================================
// Transaction History Types
// ============================================================

// Transaction represents a single executed-order history row
type Transaction struct {
	OrderDate     string    `json:"order_date"` // YYYYMMDD
	OrderNo       string    `json:"order_no"`
	StockCode     string    `json:"stock_code"`
	StockName     string    `json:"stock_name"`
	Side          OrderSide `json:"side"`
	OrderQuantity int64     `json:"order_quantity"`
	ExecQuantity  int64     `json:"exec_quantity"`
	ExecAmount    int64     `json:"exec_amount"` // 총체결금액
	AvgPrice      float64   `json:"avg_price"`
}

// StockTradeSummary aggregates trades of a single stock over a period
type StockTradeSummary struct {
	StockCode      string  `json:"stock_code"`
	StockName      string  `json:"stock_name"`
	BuyQuantity    int64   `json:"buy_quantity"`
	SellQuantity   int64   `json:"sell_quantity"`
	BuyAmount      int64   `json:"buy_amount"`
	SellAmount     int64   `json:"sell_amount"`
	Trades         int     `json:"trades"`
	RealizedProfit int64   `json:"realized_profit"`
	ProfitRate     float64 `json:"profit_rate"`
}

// TransactionSummary aggregates all trades over a period
type TransactionSummary struct {
	TotalBuyAmount  int64                         `json:"total_buy_amount"`
	TotalSellAmount int64                         `json:"total_sell_amount"`
	NetAmount       int64                         `json:"net_amount"`
	TotalTrades     int                           `json:"total_trades"`
	BuyTrades       int                           `json:"buy_trades"`
	SellTrades      int                           `json:"sell_trades"`
	ByStock         map[string]*StockTradeSummary `json:"by_stock"`
}

// ============================================================
// Quote Types
// ============================================================

// Quote represents a realtime price snapshot
type Quote struct {
	StockCode    string  `json:"stock_code"`
	CurrentPrice int64   `json:"current_price"`
	Change       int64   `json:"change"`      // 전일 대비
	ChangeRate   float64 `json:"change_rate"` // 전일 대비율
	Open         int64   `json:"open"`
	High         int64   `json:"high"`
	Low          int64   `json:"low"`
	Volume       int64   `json:"volume"`
	TradingValue int64   `json:"trading_value"`
}
