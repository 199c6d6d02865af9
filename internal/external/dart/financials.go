package dart

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Report codes for the financial statement API (보고서 코드)
const (
	ReportQ1     = "11013" // 1분기보고서
	ReportHalf   = "11012" // 반기보고서
	ReportQ3     = "11014" // 3분기보고서
	ReportAnnual = "11011" // 사업보고서
)

// Statement division codes
const (
	FSConsolidated = "CFS" // 연결재무제표
	FSSeparate     = "OFS" // 별도재무제표
)

// FinancialAccount is a single account row from the full-statement API
type FinancialAccount struct {
	RceptNo      string `json:"rcept_no"`
	BsnsYear     string `json:"bsns_year"`
	CorpCode     string `json:"corp_code"`
	SjDiv        string `json:"sj_div"` // BS/IS/CIS/CF/SCE
	SjNm         string `json:"sj_nm"`  // 재무제표명
	AccountID    string `json:"account_id"`
	AccountNm    string `json:"account_nm"`       // 계정명
	ThstrmAmount string `json:"thstrm_amount"`    // 당기
	FrmtrmAmount string `json:"frmtrm_amount"`    // 전기
	BfefrmtrmAmt string `json:"bfefrmtrm_amount"` // 전전기
	Currency     string `json:"currency"`
}

type financialsResponse struct {
	Status  string             `json:"status"`
	Message string             `json:"message"`
	List    []FinancialAccount `json:"list"`
}

// FetchFinancials fetches the full single-company account list for a fiscal
// year. Status 013 (no data) is not an error and yields an empty slice.
func (c *Client) FetchFinancials(ctx context.Context, corpCode, year, reportCode, fsDiv string) ([]FinancialAccount, error) {
	query := url.Values{
		"crtfc_key":  {c.apiKey},
		"corp_code":  {corpCode},
		"bsns_year":  {year},
		"reprt_code": {reportCode},
		"fs_div":     {fsDiv},
	}
	reqURL := fmt.Sprintf("%s/api/fnlttSinglAcntAll.json?%s", c.baseURL, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if err := c.throttle(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var result financialsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	switch result.Status {
	case "000":
		return result.List, nil
	case "013":
		return nil, nil // 조회 데이터 없음
	default:
		return nil, fmt.Errorf("API error: %s - %s", result.Status, result.Message)
	}
}

// FetchAnnualFinancials fetches the consolidated annual statement, falling
// back to the separate statement when no consolidated one is filed.
func (c *Client) FetchAnnualFinancials(ctx context.Context, corpCode, year string) ([]FinancialAccount, error) {
	accounts, err := c.FetchFinancials(ctx, corpCode, year, ReportAnnual, FSConsolidated)
	if err != nil {
		return nil, err
	}
	if len(accounts) > 0 {
		return accounts, nil
	}

	c.logger.WithFields(map[string]interface{}{
		"corp_code": corpCode,
		"year":      year,
	}).Debug("No consolidated statement, trying separate")

	return c.FetchFinancials(ctx, corpCode, year, ReportAnnual, FSSeparate)
}
