package kis

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const dailyCcldPath = "/uapi/domestic-stock/v1/trading/inquire-daily-ccld"

// HistoryPeriod selects the transaction-history date range
type HistoryPeriod string

const (
	Period1Month  HistoryPeriod = "1m"
	Period3Months HistoryPeriod = "3m"
	Period1Year   HistoryPeriod = "1y"
)

// periodRange converts a period key into start/end dates (YYYYMMDD)
func periodRange(period HistoryPeriod, now time.Time) (start, end string, err error) {
	end = now.Format("20060102")
	switch period {
	case Period1Month:
		start = now.AddDate(0, -1, 0).Format("20060102")
	case Period3Months:
		start = now.AddDate(0, -3, 0).Format("20060102")
	case Period1Year:
		start = now.AddDate(-1, 0, 0).Format("20060102")
	default:
		return "", "", fmt.Errorf("history period must be 1m, 3m or 1y, got %q", period)
	}
	return start, end, nil
}

// historyRow is one executed-order row (output1)
type historyRow struct {
	OrdDt        string `json:"ord_dt"`
	Odno         string `json:"odno"`
	Pdno         string `json:"pdno"`
	PrdtName     string `json:"prdt_name"`
	SllBuyDvsnCd string `json:"sll_buy_dvsn_cd"` // 01=매도, 02=매수
	OrdQty       string `json:"ord_qty"`
	TotCcldQty   string `json:"tot_ccld_qty"`
	TotCcldAmt   string `json:"tot_ccld_amt"`
	AvgPrvs      string `json:"avg_prvs"`
}

type historyPage struct {
	Output1 []historyRow `json:"output1"`
	CtxFK   string       `json:"ctx_area_fk100"`
	CtxNK   string       `json:"ctx_area_nk100"`
}

// GetTransactionHistory returns executed orders over the period, newest
// first as the API delivers them. Unfilled orders (체결수량 0) are skipped.
func (c *Client) GetTransactionHistory(ctx context.Context, period HistoryPeriod) ([]Transaction, error) {
	start, end, err := periodRange(period, time.Now())
	if err != nil {
		return nil, err
	}

	var (
		transactions []Transaction
		fk, nk       string
		cont         bool
	)

	for {
		query := url.Values{
			"CANO":            {c.cfg.AccountID},
			"ACNT_PRDT_CD":    {c.cfg.AccountSuffix},
			"INQR_STRT_DT":    {start},
			"INQR_END_DT":     {end},
			"SLL_BUY_DVSN_CD": {"00"}, // 전체
			"INQR_DVSN":       {"00"},
			"PDNO":            {""},
			"CCLD_DVSN":       {"01"}, // 체결만
			"ORD_GNO_BRNO":    {""},
			"ODNO":            {""},
			"INQR_DVSN_3":     {"00"},
			"INQR_DVSN_1":     {""},
			"CTX_AREA_FK100":  {fk},
			"CTX_AREA_NK100":  {nk},
		}

		result, err := c.call(ctx, http.MethodGet, dailyCcldPath, c.trID(trOrderHistory), query, nil, cont)
		if err != nil {
			return nil, fmt.Errorf("transaction history inquiry: %w", err)
		}

		var page historyPage
		if err := json.Unmarshal(result.Body, &page); err != nil {
			return nil, fmt.Errorf("decode history page: %w", err)
		}

		for _, row := range page.Output1 {
			execQty := parseIntSafe(row.TotCcldQty)
			if execQty == 0 {
				continue
			}

			side := OrderSideSell
			if strings.TrimSpace(row.SllBuyDvsnCd) == "02" {
				side = OrderSideBuy
			}

			transactions = append(transactions, Transaction{
				OrderDate:     row.OrdDt,
				OrderNo:       row.Odno,
				StockCode:     row.Pdno,
				StockName:     row.PrdtName,
				Side:          side,
				OrderQuantity: parseIntSafe(row.OrdQty),
				ExecQuantity:  execQty,
				ExecAmount:    parseIntSafe(row.TotCcldAmt),
				AvgPrice:      parseFloatSafe(row.AvgPrvs),
			})
		}

		if !hasMorePages(result.TrCont) {
			break
		}

		fk, nk = page.CtxFK, page.CtxNK
		cont = true
	}

	c.logger.WithFields(map[string]interface{}{
		"period": period,
		"count":  len(transactions),
	}).Debug("Transaction history fetched")

	return transactions, nil
}

// GetTransactionSummary aggregates the period's executed trades per stock.
// Realized profit is computed only for stocks that have both buys and sells
// in the period, pro-rated to the sold quantity at the period's average buy
// price.
func (c *Client) GetTransactionSummary(ctx context.Context, period HistoryPeriod) (*TransactionSummary, error) {
	transactions, err := c.GetTransactionHistory(ctx, period)
	if err != nil {
		return nil, err
	}
	return SummarizeTransactions(transactions), nil
}

// SummarizeTransactions builds a per-stock and overall trade summary
func SummarizeTransactions(transactions []Transaction) *TransactionSummary {
	summary := &TransactionSummary{
		ByStock: make(map[string]*StockTradeSummary),
	}

	for _, tx := range transactions {
		stock, ok := summary.ByStock[tx.StockCode]
		if !ok {
			stock = &StockTradeSummary{
				StockCode: tx.StockCode,
				StockName: tx.StockName,
			}
			summary.ByStock[tx.StockCode] = stock
		}

		stock.Trades++
		summary.TotalTrades++

		if tx.Side == OrderSideBuy {
			stock.BuyQuantity += tx.ExecQuantity
			stock.BuyAmount += tx.ExecAmount
			summary.TotalBuyAmount += tx.ExecAmount
			summary.BuyTrades++
		} else {
			stock.SellQuantity += tx.ExecQuantity
			stock.SellAmount += tx.ExecAmount
			summary.TotalSellAmount += tx.ExecAmount
			summary.SellTrades++
		}
	}

	for _, stock := range summary.ByStock {
		if stock.BuyQuantity == 0 || stock.SellQuantity == 0 {
			continue
		}

		avgBuy := float64(stock.BuyAmount) / float64(stock.BuyQuantity)
		costOfSold := avgBuy * float64(stock.SellQuantity)
		stock.RealizedProfit = stock.SellAmount - int64(costOfSold)
		if costOfSold > 0 {
			stock.ProfitRate = float64(stock.RealizedProfit) / costOfSold * 100
		}
	}

	summary.NetAmount = summary.TotalSellAmount - summary.TotalBuyAmount
	return summary
}
