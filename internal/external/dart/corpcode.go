package dart

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// CorpInfo maps a listed company to its DART corp code
type CorpInfo struct {
	CorpCode  string `xml:"corp_code"`
	CorpName  string `xml:"corp_name"`
	StockCode string `xml:"stock_code"`
}

// corpCodeDirectory is the XML payload inside the corpCode.xml zip
type corpCodeDirectory struct {
	XMLName xml.Name   `xml:"result"`
	List    []CorpInfo `xml:"list"`
}

// LoadCorpCodes downloads and unpacks the full corp-code directory.
// DART ships it as a zip archive containing a single CORPCODE.xml. Only
// listed companies (종목코드 있는 법인) are kept.
func (c *Client) LoadCorpCodes(ctx context.Context) error {
	url := fmt.Sprintf("%s/api/corpCode.xml?crtfc_key=%s", c.baseURL, c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	if err := c.throttle(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("corp code download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("corp code download: unexpected status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read corp code archive: %w", err)
	}

	codes, err := parseCorpCodeArchive(raw)
	if err != nil {
		return err
	}

	c.corpMu.Lock()
	c.corpCodes = codes
	c.corpMu.Unlock()

	c.logger.WithFields(map[string]interface{}{
		"listed_count": len(codes),
	}).Info("DART corp code directory loaded")

	return nil
}

// parseCorpCodeArchive unpacks the corpCode.xml zip into a stock-code index
func parseCorpCodeArchive(raw []byte) (map[string]CorpInfo, error) {
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("open corp code zip: %w", err)
	}

	var xmlFile *zip.File
	for _, f := range zr.File {
		if strings.HasSuffix(strings.ToUpper(f.Name), ".XML") {
			xmlFile = f
			break
		}
	}
	if xmlFile == nil {
		return nil, fmt.Errorf("corp code zip contains no XML file")
	}

	rc, err := xmlFile.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", xmlFile.Name, err)
	}
	defer rc.Close()

	var directory corpCodeDirectory
	if err := xml.NewDecoder(rc).Decode(&directory); err != nil {
		return nil, fmt.Errorf("decode corp code XML: %w", err)
	}

	codes := make(map[string]CorpInfo)
	for _, info := range directory.List {
		stockCode := strings.TrimSpace(info.StockCode)
		if stockCode == "" {
			continue // 비상장 법인
		}
		info.StockCode = stockCode
		info.CorpName = strings.TrimSpace(info.CorpName)
		codes[stockCode] = info
	}

	return codes, nil
}

// GetCorpCode resolves a stock code to its DART corp code, loading the
// directory on first use.
func (c *Client) GetCorpCode(ctx context.Context, stockCode string) (string, error) {
	info, err := c.lookupCorp(ctx, stockCode)
	if err != nil {
		return "", err
	}
	return info.CorpCode, nil
}

// GetCorpName returns the registered company name for a stock code
func (c *Client) GetCorpName(ctx context.Context, stockCode string) (string, error) {
	info, err := c.lookupCorp(ctx, stockCode)
	if err != nil {
		return "", err
	}
	return info.CorpName, nil
}

// lookupCorp reads the directory cache, loading it on first use
func (c *Client) lookupCorp(ctx context.Context, stockCode string) (CorpInfo, error) {
	c.corpMu.RLock()
	codes := c.corpCodes
	c.corpMu.RUnlock()

	if codes == nil {
		if err := c.LoadCorpCodes(ctx); err != nil {
			return CorpInfo{}, err
		}
		c.corpMu.RLock()
		codes = c.corpCodes
		c.corpMu.RUnlock()
	}

	info, ok := codes[stockCode]
	if !ok {
		return CorpInfo{}, fmt.Errorf("no DART corp code for stock %s", stockCode)
	}
	return info, nil
}
