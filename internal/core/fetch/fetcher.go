package fetch

import (
	"context"
	"fmt"
	"net/http"

	"souschef-api/internal/infrastructure/config"
	"souschef-api/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// browserHeaders 模擬一般瀏覽器的請求頭，避免被網站擋下
var browserHeaders = map[string]string{
	"User-Agent":                "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Accept-Language":           "en-US,en;q=0.5",
	"Connection":                "keep-alive",
	"Upgrade-Insecure-Requests": "1",
}

// Fetcher 網頁抓取器：固定超時、跟隨轉址、限制回應大小
type Fetcher struct {
	client   *resty.Client
	maxBytes int64
}

// NewFetcher 創建網頁抓取器
func NewFetcher(cfg *config.FetchConfig) *Fetcher {
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeaders(browserHeaders).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(10))

	return &Fetcher{
		client:   client,
		maxBytes: cfg.MaxBytes,
	}
}

// FetchPage 抓取網頁 HTML；超時、非 200、超過大小上限都轉為 FetchError
func (f *Fetcher) FetchPage(ctx context.Context, url string) (string, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		common.LogWarn("網頁抓取失敗",
			zap.String("url", url),
			zap.Error(err),
		)
		return "", common.NewError(common.ErrCodeFetchFailed,
			"Failed to fetch webpage content or content is empty",
			http.StatusBadGateway, err)
	}

	if resp.StatusCode() != http.StatusOK {
		common.LogWarn("網頁回應非 200",
			zap.String("url", url),
			zap.Int("status", resp.StatusCode()),
		)
		return "", common.NewError(common.ErrCodeFetchFailed,
			fmt.Sprintf("HTTP %d error fetching the webpage", resp.StatusCode()),
			http.StatusBadGateway, nil)
	}

	body := resp.Body()
	if int64(len(body)) > f.maxBytes {
		common.LogWarn("網頁內容過大",
			zap.String("url", url),
			zap.Int("bytes", len(body)),
			zap.Int64("max_bytes", f.maxBytes),
		)
		return "", common.NewError(common.ErrCodeFetchFailed,
			"Webpage content too large",
			http.StatusBadGateway, nil)
	}

	common.LogDebug("網頁抓取完成",
		zap.String("url", url),
		zap.Int("bytes", len(body)),
	)
	return string(body), nil
}
