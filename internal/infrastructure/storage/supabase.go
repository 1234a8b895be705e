package storage

import (
	"context"
	"fmt"
	"net/http"

	"souschef-api/internal/infrastructure/config"
	"souschef-api/internal/pkg/common"

	"github.com/go-resty/resty/v2"
)

// Client Supabase PostgREST 列操作客戶端。
// 不發多語句交易：每次呼叫就是一個獨立的 REST 請求，
// 父列與子列之間接受最終一致。
type Client struct {
	client *resty.Client
}

// NewClient 創建 Supabase 客戶端
func NewClient(cfg *config.SupabaseConfig) *Client {
	client := resty.New().
		SetBaseURL(fmt.Sprintf("%s/rest/v1", cfg.URL)).
		SetHeader("apikey", cfg.Key).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.Key)).
		SetHeader("Content-Type", "application/json")

	return &Client{client: client}
}

// Insert 插入一列或多列
func (c *Client) Insert(ctx context.Context, table string, rows interface{}) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=minimal").
		SetBody(rows).
		Post("/" + table)

	if err != nil {
		return fmt.Errorf("supabase insert %s failed: %w", table, err)
	}
	if resp.StatusCode() != http.StatusCreated && resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("supabase insert %s returned status %d: %s",
			table, resp.StatusCode(), truncateBody(resp.String()))
	}
	return nil
}

// Select 依過濾條件查詢；filters 的值使用 PostgREST 運算式（如 "eq.xxx"），
// order 可為空（如 "created_at.desc"），結果解析到 dest
func (c *Client) Select(ctx context.Context, table string, filters map[string]string, order string, dest interface{}) error {
	req := c.client.R().
		SetContext(ctx).
		SetQueryParam("select", "*")
	for column, expr := range filters {
		req.SetQueryParam(column, expr)
	}
	if order != "" {
		req.SetQueryParam("order", order)
	}

	resp, err := req.Get("/" + table)
	if err != nil {
		return fmt.Errorf("supabase select %s failed: %w", table, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("supabase select %s returned status %d: %s",
			table, resp.StatusCode(), truncateBody(resp.String()))
	}

	return common.ParseJSONBytes(resp.Body(), dest)
}

// Update 依過濾條件更新欄位
func (c *Client) Update(ctx context.Context, table string, filters map[string]string, values interface{}) error {
	req := c.client.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=minimal").
		SetBody(values)
	for column, expr := range filters {
		req.SetQueryParam(column, expr)
	}

	resp, err := req.Patch("/" + table)
	if err != nil {
		return fmt.Errorf("supabase update %s failed: %w", table, err)
	}
	if resp.StatusCode() != http.StatusNoContent && resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("supabase update %s returned status %d: %s",
			table, resp.StatusCode(), truncateBody(resp.String()))
	}
	return nil
}

// Delete 依過濾條件刪除
func (c *Client) Delete(ctx context.Context, table string, filters map[string]string) error {
	req := c.client.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=minimal")
	for column, expr := range filters {
		req.SetQueryParam(column, expr)
	}

	resp, err := req.Delete("/" + table)
	if err != nil {
		return fmt.Errorf("supabase delete %s failed: %w", table, err)
	}
	if resp.StatusCode() != http.StatusNoContent && resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("supabase delete %s returned status %d: %s",
			table, resp.StatusCode(), truncateBody(resp.String()))
	}
	return nil
}

func truncateBody(s string) string {
	if len(s) > 200 {
		return s[:200]
	}
	return s
}
