package dart

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// FilingsResponse represents the DART list.json response
type FilingsResponse struct {
	Status     string   `json:"status"`
	Message    string   `json:"message"`
	PageNo     int      `json:"page_no"`
	PageCount  int      `json:"page_count"`
	TotalCount int      `json:"total_count"`
	TotalPage  int      `json:"total_page"`
	Filings    []Filing `json:"list"`
}

// Filing represents a single disclosure filing
type Filing struct {
	CorpCode  string `json:"corp_code"`
	CorpName  string `json:"corp_name"`
	StockCode string `json:"stock_code"`
	CorpCls   string `json:"corp_cls"`  // Y: 유가, K: 코스닥, N: 코넥스, E: 기타
	ReportNm  string `json:"report_nm"` // 공시 제목
	RceptNo   string `json:"rcept_no"`  // 접수번호
	FlrNm     string `json:"flr_nm"`    // 공시 제출인
	RceptDt   string `json:"rcept_dt"`  // 접수일자 (YYYYMMDD)
	Rm        string `json:"rm"`        // 비고
}

// FilingCategory represents the market a filer is listed on
type FilingCategory string

const (
	CategoryKOSPI  FilingCategory = "KOSPI"
	CategoryKOSDAQ FilingCategory = "KOSDAQ"
	CategoryKONEX  FilingCategory = "KONEX"
	CategoryETC    FilingCategory = "ETC"
)

var majorFilingKeywords = []string{
	"사업보고서",
	"분기보고서",
	"반기보고서",
	"주요사항보고서",
	"유상증자",
	"무상증자",
	"합병",
	"분할",
	"영업양수도",
	"자기주식",
	"전환사채",
	"신주인수권부사채",
}

// IsMajorFiling checks if the filing is a major one
func IsMajorFiling(reportName string) bool {
	for _, keyword := range majorFilingKeywords {
		if strings.Contains(reportName, keyword) {
			return true
		}
	}
	return false
}

// GetCategory returns the market category based on corp_cls
func GetCategory(corpCls string) FilingCategory {
	switch corpCls {
	case "Y":
		return CategoryKOSPI
	case "K":
		return CategoryKOSDAQ
	case "N":
		return CategoryKONEX
	default:
		return CategoryETC
	}
}

// FilingURL builds the public DART viewer URL for a filing
func FilingURL(rceptNo string) string {
	return "https://dart.fss.or.kr/dsaf001/main.do?rcpNo=" + rceptNo
}

// FetchFilings fetches filings for a specific corp_code within a date range
// ⭐ SSOT: DART 공시 데이터 호출은 이 함수에서만
func (c *Client) FetchFilings(ctx context.Context, corpCode string, from, to time.Time) ([]Filing, error) {
	bgn := from.Format("20060102")
	end := to.Format("20060102")

	return c.fetchByCorpCodeWithRetry(ctx, corpCode, bgn, end)
}

// FetchFilingsPage fetches a single page of filings across all companies
func (c *Client) FetchFilingsPage(ctx context.Context, from, to time.Time, page int) ([]Filing, int, error) {
	bgn := from.Format("20060102")
	end := to.Format("20060102")

	query := url.Values{
		"crtfc_key":  {c.apiKey},
		"bgn_de":     {bgn},
		"end_de":     {end},
		"page_no":    {fmt.Sprintf("%d", page)},
		"page_count": {"100"},
	}

	result, err := c.fetchList(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	return result.Filings, result.TotalPage, nil
}

func (c *Client) fetchByCorpCode(ctx context.Context, corpCode, bgn, end string) ([]Filing, error) {
	query := url.Values{
		"crtfc_key":  {c.apiKey},
		"corp_code":  {corpCode},
		"bgn_de":     {bgn},
		"end_de":     {end},
		"page_count": {"100"},
	}

	result, err := c.fetchList(ctx, query)
	if err != nil {
		return nil, err
	}
	return result.Filings, nil
}

// fetchList calls list.json with the given query.
// Status codes: 000 = success, 013 = no data (ok), others = error.
func (c *Client) fetchList(ctx context.Context, query url.Values) (*FilingsResponse, error) {
	reqURL := fmt.Sprintf("%s/api/list.json?%s", c.baseURL, query.Encode())

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

	var result FilingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if result.Status != "000" {
		if result.Status == "013" {
			return &FilingsResponse{}, nil // No data is not an error
		}
		return nil, fmt.Errorf("API error: %s - %s", result.Status, result.Message)
	}

	return &result, nil
}

// fetchByCorpCodeWithRetry fetches filings with exponential backoff retry
func (c *Client) fetchByCorpCodeWithRetry(ctx context.Context, corpCode, bgn, end string) ([]Filing, error) {
	const maxRetries = 3
	const initialBackoff = 500 * time.Millisecond
	const maxBackoff = 5 * time.Second

	var lastErr error
	backoff := initialBackoff

	for attempt := 0; attempt < maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		filings, err := c.fetchByCorpCode(ctx, corpCode, bgn, end)
		if err == nil {
			return filings, nil
		}

		lastErr = err

		if !isRetryableError(err) {
			// Non-retryable error (e.g., auth failure)
			return nil, err
		}

		if attempt == maxRetries-1 {
			break
		}

		c.logger.WithError(err).WithFields(map[string]interface{}{
			"attempt":   attempt + 1,
			"corp_code": corpCode,
			"backoff":   backoff,
		}).Debug("Retrying DART API call")

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		backoff = backoff * 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}

	return nil, fmt.Errorf("max retries exceeded for corp_code %s: %w", corpCode, lastErr)
}

// isRetryableError checks if an error should trigger a retry
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())

	retryablePatterns := []string{
		"connection reset by peer",
		"eof",
		"connection refused",
		"network unreachable",
		"timeout",
		"i/o timeout",
		"connect: operation timed out",
	}

	for _, pattern := range retryablePatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}

	return false
}
