package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// 與內容無關的元素，擷取前先移除
var noiseSelectors = []string{
	"script", "style", "nav", "header", "footer", "aside",
}

// 主要內容容器，依語意正確性排序
var mainContentSelectors = []string{
	"main", ".main-content", ".content", "article", ".recipe",
}

const (
	minGenericLength = 200
	maxGenericLength = 5000
)

// extractGenericContent 最後的保底策略：去除雜訊元素後攤平主要容器的文字。
// 內容不足 200 字元視為沒有可用內容。
func extractGenericContent(doc *goquery.Document) (string, bool) {
	for _, sel := range noiseSelectors {
		doc.Find(sel).Remove()
	}

	for _, selector := range mainContentSelectors {
		if elem := doc.Find(selector).First(); elem.Length() > 0 {
			if text := flattenText(elem); len(text) > minGenericLength {
				return truncate(text, maxGenericLength), true
			}
		}
	}

	// 保底：整個 body
	if body := doc.Find("body").First(); body.Length() > 0 {
		if text := flattenText(body); len(text) > minGenericLength {
			return truncate(text, maxGenericLength), true
		}
	}

	return "", false
}

// flattenText 將元素文字攤平成以換行分隔的非空行
func flattenText(s *goquery.Selection) string {
	var lines []string
	for _, line := range strings.Split(s.Text(), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return strings.Join(lines, "\n")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
