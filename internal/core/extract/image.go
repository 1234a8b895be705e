package extract

import (
	"strings"

	"souschef-api/internal/pkg/common"

	"github.com/PuerkitoBio/goquery"
)

// 食譜主圖的候選選擇器
var imageSelectors = []string{
	".recipe-image img",
	".recipe-photo img",
	".recipe img",
	`[class*="recipe"] img`,
	`img[alt*="recipe" i]`,
}

// ExtractMainImageURL 從頁面找出食譜主圖：
// 食譜專用選擇器 → og:image → 主要內容區的第一張圖，相對路徑解析為絕對 URL
func (e *WebExtractor) ExtractMainImageURL(html, baseURL string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	for _, selector := range imageSelectors {
		if img := doc.Find(selector).First(); img.Length() > 0 {
			if src, ok := img.Attr("src"); ok && src != "" {
				return common.ResolveURL(baseURL, src)
			}
		}
	}

	if og := doc.Find(`meta[property="og:image"]`).First(); og.Length() > 0 {
		if content, ok := og.Attr("content"); ok && content != "" {
			return common.ResolveURL(baseURL, content)
		}
	}

	if main := doc.Find("main, article, .content, .recipe").First(); main.Length() > 0 {
		if img := main.Find("img").First(); img.Length() > 0 {
			if src, ok := img.Attr("src"); ok && src != "" {
				return common.ResolveURL(baseURL, src)
			}
		}
	}

	return ""
}
