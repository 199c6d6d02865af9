package kis

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const balancePath = "/uapi/domestic-stock/v1/trading/inquire-balance"

// balanceRow is one holding row (output1)
type balanceRow struct {
	Pdno        string `json:"pdno"`
	PrdtName    string `json:"prdt_name"`
	HldgQty     string `json:"hldg_qty"`
	PchsAvgPric string `json:"pchs_avg_prc"`
	Prpr        string `json:"prpr"`
	EvluAmt     string `json:"evlu_amt"`
	EvluPflsAmt string `json:"evlu_pfls_amt"`
	EvluPflsRt  string `json:"evlu_pfls_rt"`
}

// balanceSummaryRow is the account-level summary (output2)
type balanceSummaryRow struct {
	DncaTotAmt      string `json:"dnca_tot_amt"`
	PrvsRcdlExccAmt string `json:"prvs_rcdl_excc_amt"`
	PchsAmtSmtlAmt  string `json:"pchs_amt_smtl_amt"`
	EvluAmtSmtlAmt  string `json:"evlu_amt_smtl_amt"`
	EvluPflsSmtlAmt string `json:"evlu_pfls_smtl_amt"`
	TotEvluAmt      string `json:"tot_evlu_amt"`
}

type balancePage struct {
	Output1 []balanceRow        `json:"output1"`
	Output2 []balanceSummaryRow `json:"output2"`
	CtxFK   string              `json:"ctx_area_fk100"`
	CtxNK   string              `json:"ctx_area_nk100"`
}

// inquireBalance walks every continuation page of the balance inquiry and
// returns all holding rows plus the account summary from the first page.
func (c *Client) inquireBalance(ctx context.Context) ([]balanceRow, *balanceSummaryRow, error) {
	var (
		rows    []balanceRow
		summary *balanceSummaryRow
		fk, nk  string
		cont    bool
	)

	for {
		query := url.Values{
			"CANO":                  {c.cfg.AccountID},
			"ACNT_PRDT_CD":          {c.cfg.AccountSuffix},
			"AFHR_FLPR_YN":          {"N"},
			"OFL_YN":                {"N"},
			"INQR_DVSN":             {"01"},
			"UNPR_DVSN":             {"01"},
			"FUND_STTL_ICLD_YN":     {"N"},
			"FNCG_AMT_AUTO_RDPT_YN": {"N"},
			"PRCS_DVSN":             {"01"},
			"CTX_AREA_FK100":        {fk},
			"CTX_AREA_NK100":        {nk},
		}

		result, err := c.call(ctx, http.MethodGet, balancePath, c.trID(trInquireBalance), query, nil, cont)
		if err != nil {
			return nil, nil, fmt.Errorf("balance inquiry: %w", err)
		}

		var page balancePage
		if err := json.Unmarshal(result.Body, &page); err != nil {
			return nil, nil, fmt.Errorf("decode balance page: %w", err)
		}

		rows = append(rows, page.Output1...)
		if summary == nil && len(page.Output2) > 0 {
			summary = &page.Output2[0]
		}

		if !hasMorePages(result.TrCont) {
			break
		}

		fk, nk = page.CtxFK, page.CtxNK
		cont = true
	}

	return rows, summary, nil
}

// GetBalance returns the account-level balance summary
func (c *Client) GetBalance(ctx context.Context) (*Balance, error) {
	_, summary, err := c.inquireBalance(ctx)
	if err != nil {
		return nil, err
	}
	if summary == nil {
		return &Balance{}, nil
	}

	balance := &Balance{
		TotalDeposit:    parseIntSafe(summary.DncaTotAmt),
		AvailableCash:   parseIntSafe(summary.PrvsRcdlExccAmt),
		TotalPurchase:   parseIntSafe(summary.PchsAmtSmtlAmt),
		TotalEvaluation: parseIntSafe(summary.EvluAmtSmtlAmt),
		TotalProfitLoss: parseIntSafe(summary.EvluPflsSmtlAmt),
		TotalAsset:      parseIntSafe(summary.TotEvluAmt),
	}

	if balance.TotalPurchase > 0 {
		balance.ProfitLossRate = float64(balance.TotalProfitLoss) / float64(balance.TotalPurchase) * 100
	}

	return balance, nil
}

// GetHoldingCash returns the withdrawable cash amount
func (c *Client) GetHoldingCash(ctx context.Context) (int64, error) {
	balance, err := c.GetBalance(ctx)
	if err != nil {
		return 0, err
	}
	return balance.AvailableCash, nil
}

// GetHoldingQuantities returns held quantity per stock code.
// Stock warrants (종목코드가 J로 시작) are filtered out.
func (c *Client) GetHoldingQuantities(ctx context.Context) (map[string]int64, error) {
	rows, _, err := c.inquireBalance(ctx)
	if err != nil {
		return nil, err
	}

	result := make(map[string]int64, len(rows))
	for _, row := range rows {
		if isStockWarrant(row.Pdno) {
			continue
		}
		result[row.Pdno] = parseIntSafe(row.HldgQty)
	}
	return result, nil
}

// GetHoldingQuantity returns the held quantity of one stock (0 if none)
func (c *Client) GetHoldingQuantity(ctx context.Context, stockCode string) (int64, error) {
	rows, _, err := c.inquireBalance(ctx)
	if err != nil {
		return 0, err
	}

	for _, row := range rows {
		if row.Pdno == stockCode {
			return parseIntSafe(row.HldgQty), nil
		}
	}
	return 0, nil
}

// GetHoldings returns detailed holding rows. Zero-quantity positions and
// stock warrants are skipped.
func (c *Client) GetHoldings(ctx context.Context) ([]Holding, error) {
	rows, _, err := c.inquireBalance(ctx)
	if err != nil {
		return nil, err
	}

	holdings := make([]Holding, 0, len(rows))
	for _, row := range rows {
		if isStockWarrant(row.Pdno) {
			continue
		}

		qty := parseIntSafe(row.HldgQty)
		if qty == 0 {
			continue
		}

		holdings = append(holdings, Holding{
			StockCode:      row.Pdno,
			StockName:      row.PrdtName,
			Quantity:       qty,
			AvgBuyPrice:    parseFloatSafe(row.PchsAvgPric),
			CurrentPrice:   parseFloatSafe(row.Prpr),
			EvalAmount:     parseIntSafe(row.EvluAmt),
			ProfitLoss:     parseIntSafe(row.EvluPflsAmt),
			ProfitLossRate: parseFloatSafe(row.EvluPflsRt),
		})
	}

	c.logger.WithFields(map[string]interface{}{
		"holdings_count": len(holdings),
	}).Debug("Holdings fetched")

	return holdings, nil
}

// isStockWarrant reports whether the code is a stock warrant (신주인수권)
func isStockWarrant(code string) bool {
	return strings.HasPrefix(code, "J")
}
