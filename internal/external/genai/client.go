package genai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/hyeon/stockpilot/pkg/config"
	"github.com/hyeon/stockpilot/pkg/httputil"
	"github.com/hyeon/stockpilot/pkg/logger"
)

// Client handles communication with the Gemini generateContent API
// ⭐ SSOT: LLM 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	cfg        config.GeminiConfig
}

// NewClient creates a new Gemini client
func NewClient(cfg config.GeminiConfig, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		cfg:        cfg,
	}
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// GenerateContent sends a single-turn prompt and returns the model's text
func (c *Client) GenerateContent(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, prompt, 0.7, 4096)
}

// GenerateSummary sends a prompt tuned for short factual summaries
func (c *Client) GenerateSummary(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, prompt, 0.3, 1024)
}

func (c *Client) generate(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error) {
	if c.cfg.APIKey == "" {
		return "", fmt.Errorf("gemini API key not configured")
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		c.cfg.BaseURL, c.cfg.Model, c.cfg.APIKey)

	payload := generateRequest{
		Contents: []content{
			{Role: "user", Parts: []part{{Text: prompt}}},
		},
		GenerationConfig: &generationConfig{
			Temperature:     temperature,
			MaxOutputTokens: maxTokens,
		},
	}

	resp, err := c.httpClient.PostJSON(ctx, url, payload)
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read gemini response: %w", err)
	}

	var result generateResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("decode gemini response: %w", err)
	}

	if result.Error != nil {
		return "", fmt.Errorf("gemini API error %d (%s): %s",
			result.Error.Code, result.Error.Status, result.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini request: unexpected status %d", resp.StatusCode)
	}

	if len(result.Candidates) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, p := range result.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("gemini returned empty text (finish: %s)",
			result.Candidates[0].FinishReason)
	}

	c.logger.WithFields(map[string]interface{}{
		"model":        c.cfg.Model,
		"prompt_len":   len(prompt),
		"response_len": len(text),
	}).Debug("Gemini content generated")

	return text, nil
}
