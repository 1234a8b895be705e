package structure

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"souschef-api/internal/infrastructure/config"
	"souschef-api/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// OpenRouterClient OpenRouter 聊天補全客戶端
type OpenRouterClient struct {
	config *config.OpenRouterConfig
	client *resty.Client
}

// NewOpenRouterClient 創建 OpenRouter 客戶端
func NewOpenRouterClient(cfg *config.OpenRouterConfig) *OpenRouterClient {
	client := resty.New().
		SetBaseURL("https://openrouter.ai/api/v1").
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey)).
		SetHeader("HTTP-Referer", "https://souschef.app").
		SetHeader("X-Title", "SousChef")

	return &OpenRouterClient{
		config: cfg,
		client: client,
	}
}

// GenerateResponse 發送 prompt 並返回模型的文字回應
func (c *OpenRouterClient) GenerateResponse(ctx context.Context, prompt string) (string, error) {
	timeout := c.config.Timeout
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req := map[string]interface{}{
		"model": c.config.Model,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": prompt,
			},
		},
		"max_tokens":  c.config.MaxTokens,
		"temperature": c.config.Temperature,
	}

	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/chat/completions")
	common.LogAICall(c.config.Model, time.Since(start), err)

	if err != nil {
		return "", fmt.Errorf("failed to send request to OpenRouter: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		common.LogWarn("OpenRouter API 返回非 200",
			zap.Int("status", resp.StatusCode()),
			zap.String("body", truncateForLog(resp.String(), 200)),
		)
		return "", fmt.Errorf("OpenRouter API returned status %d", resp.StatusCode())
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("failed to parse OpenRouter response: %w", err)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in OpenRouter response")
	}

	return result.Choices[0].Message.Content, nil
}

func truncateForLog(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
