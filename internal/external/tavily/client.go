package tavily

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/hyeon/stockpilot/pkg/httputil"
	"github.com/hyeon/stockpilot/pkg/logger"
)

// Client handles communication with the Tavily search API
// ⭐ SSOT: 웹 검색 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	apiKey     string
	baseURL    string
}

// NewClient creates a new Tavily search client
func NewClient(apiKey string, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		apiKey:     apiKey,
		baseURL:    "https://api.tavily.com",
	}
}

// koreanFinanceDomains restricts searches to Korean finance media
var koreanFinanceDomains = []string{
	"news.naver.com",
	"finance.naver.com",
	"hankyung.com",
	"mk.co.kr",
	"sedaily.com",
	"edaily.co.kr",
	"mt.co.kr",
	"fnnews.com",
}

// maxContentLength truncates each result's content snippet
const maxContentLength = 300

// searchRequest is the Tavily search payload
type searchRequest struct {
	APIKey         string   `json:"api_key"`
	Query          string   `json:"query"`
	SearchDepth    string   `json:"search_depth"`
	IncludeAnswer  bool     `json:"include_answer"`
	MaxResults     int      `json:"max_results"`
	IncludeDomains []string `json:"include_domains,omitempty"`
}

type searchResponse struct {
	Answer  string `json:"answer"`
	Results []struct {
		Title   string  `json:"title"`
		URL     string  `json:"url"`
		Content string  `json:"content"`
		Score   float64 `json:"score"`
	} `json:"results"`
}

// SearchResult is one truncated search hit
type SearchResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// SearchResponse carries the answer summary plus individual hits
type SearchResponse struct {
	Query   string         `json:"query"`
	Answer  string         `json:"answer"`
	Results []SearchResult `json:"results"`
}

// Search runs a Tavily search with include_answer enabled. Result content
// is truncated to keep LLM prompts bounded.
func (c *Client) Search(ctx context.Context, query string, maxResults int, domains []string) (*SearchResponse, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("tavily API key not configured")
	}
	if maxResults <= 0 {
		maxResults = 5
	}

	payload := searchRequest{
		APIKey:         c.apiKey,
		Query:          query,
		SearchDepth:    "basic",
		IncludeAnswer:  true,
		MaxResults:     maxResults,
		IncludeDomains: domains,
	}

	httpResp, err := c.httpClient.PostJSON(ctx, c.baseURL+"/search", payload)
	if err != nil {
		return nil, fmt.Errorf("tavily search: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tavily search: unexpected status %d", httpResp.StatusCode)
	}

	var raw searchResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode tavily response: %w", err)
	}

	resp := &SearchResponse{
		Query:   query,
		Answer:  raw.Answer,
		Results: make([]SearchResult, 0, len(raw.Results)),
	}
	for _, r := range raw.Results {
		resp.Results = append(resp.Results, SearchResult{
			Title:   r.Title,
			URL:     r.URL,
			Content: truncate(r.Content, maxContentLength),
			Score:   r.Score,
		})
	}

	c.logger.WithFields(map[string]interface{}{
		"query":   query,
		"results": len(resp.Results),
	}).Debug("Tavily search completed")

	return resp, nil
}

// SearchStockNews searches recent news for a stock, restricted to Korean
// finance media.
func (c *Client) SearchStockNews(ctx context.Context, stockName string) (*SearchResponse, error) {
	query := fmt.Sprintf("%s 주가 최근 뉴스", stockName)
	return c.Search(ctx, query, 5, koreanFinanceDomains)
}

// SearchAnalystOpinions searches analyst reports and target prices
func (c *Client) SearchAnalystOpinions(ctx context.Context, stockName string) (*SearchResponse, error) {
	query := fmt.Sprintf("%s 증권사 리포트 목표주가 투자의견", stockName)
	return c.Search(ctx, query, 5, koreanFinanceDomains)
}

// SearchMarketSentiment searches investor community sentiment
func (c *Client) SearchMarketSentiment(ctx context.Context, stockName string) (*SearchResponse, error) {
	query := fmt.Sprintf("%s 주식 투자자 여론 전망", stockName)
	return c.Search(ctx, query, 5, nil)
}

// truncate cuts s to max runes, appending an ellipsis when cut
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
