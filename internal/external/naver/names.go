package naver

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// GetStockName resolves a stock code to its listed company name by scraping
// the Naver Finance item page. Results are cached in-process.
func (c *Client) GetStockName(ctx context.Context, stockCode string) (string, error) {
	c.nameMu.RLock()
	if name, ok := c.names[stockCode]; ok {
		c.nameMu.RUnlock()
		return name, nil
	}
	c.nameMu.RUnlock()

	html, err := c.fetchHTML(ctx, "/item/main.naver", url.Values{"code": {stockCode}})
	if err != nil {
		return "", fmt.Errorf("fetch item page: %w", err)
	}

	name, err := parseStockName(html)
	if err != nil {
		return "", fmt.Errorf("stock %s: %w", stockCode, err)
	}

	c.nameMu.Lock()
	c.names[stockCode] = name
	c.nameMu.Unlock()

	return name, nil
}

// parseStockName extracts the company name from the item page header
func parseStockName(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse HTML: %w", err)
	}

	name := strings.TrimSpace(doc.Find(".wrap_company h2 a").First().Text())
	if name == "" {
		// 구형 마크업
		name = strings.TrimSpace(doc.Find(".wrap_company h2").First().Text())
	}
	if name == "" {
		return "", fmt.Errorf("company name not found in page")
	}

	return name, nil
}
