package extract

import (
	"strings"

	"souschef-api/internal/pkg/common"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// WebExtractor 網頁食譜內容擷取器。
// 依固定順序嘗試四種策略：JSON-LD → microdata → CSS 選擇器 → 一般內容，
// 第一個產出非空內容的策略獲勝，之後的策略不再嘗試。
type WebExtractor struct{}

// NewWebExtractor 創建網頁擷取器
func NewWebExtractor() *WebExtractor {
	return &WebExtractor{}
}

// ExtractContent 從 HTML 擷取食譜文字內容；沒有任何策略命中時返回 ok=false
func (e *WebExtractor) ExtractContent(html string) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		common.LogWarn("HTML 解析失敗", zap.Error(err))
		return "", false
	}

	strategies := []struct {
		name string
		fn   func(*goquery.Document) (string, bool)
	}{
		{"json-ld", extractJSONLD},
		{"microdata", extractMicrodata},
		{"selectors", extractBySelectors},
		{"generic", extractGenericContent},
	}

	for _, s := range strategies {
		if text, ok := s.fn(doc); ok {
			common.LogInfo("網頁擷取策略命中",
				zap.String("strategy", s.name),
				zap.Int("chars", len(text)),
			)
			return text, true
		}
	}

	return "", false
}

// sectionBuilder 組裝帶標題的人類可讀文字區塊
type sectionBuilder struct {
	parts []string
}

func (b *sectionBuilder) title(s string) {
	if s != "" {
		b.parts = append(b.parts, "# "+s)
	}
}

func (b *sectionBuilder) section(header string, lines ...string) {
	if len(lines) == 0 {
		return
	}
	b.parts = append(b.parts, "\n## "+header)
	b.parts = append(b.parts, lines...)
}

func (b *sectionBuilder) line(s string) {
	b.parts = append(b.parts, s)
}

func (b *sectionBuilder) build() string {
	return strings.Join(b.parts, "\n")
}

func (b *sectionBuilder) len() int {
	return len(b.parts)
}
