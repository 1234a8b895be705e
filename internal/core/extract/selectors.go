package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// 常見食譜網站的 CSS 選擇器，依命中率排序，第一個命中者獲勝
var (
	titleSelectors = []string{
		"h1.recipe-title", ".recipe-header h1", ".recipe-title", "h1",
	}
	ingredientSelectors = []string{
		".recipe-ingredients li", ".ingredients li", ".recipe-ingredient", `[class*="ingredient"]`,
	}
	instructionSelectors = []string{
		".recipe-instructions li", ".instructions li", ".recipe-instruction", `[class*="instruction"]`,
	}
)

const (
	minIngredientItems   = 3
	maxIngredientItems   = 20
	minInstructionItems  = 2
	maxInstructionItems  = 15
	minInstructionLength = 10
)

// extractBySelectors 以啟發式 CSS 選擇器擷取食譜。
// 食材至少 3 項、步驟至少 2 項才算命中；湊不滿兩個區塊時整體放棄。
func extractBySelectors(doc *goquery.Document) (string, bool) {
	b := &sectionBuilder{}

	for _, selector := range titleSelectors {
		title := doc.Find(selector).First()
		if text := strings.TrimSpace(title.Text()); text != "" {
			b.title(text)
			break
		}
	}

	for _, selector := range ingredientSelectors {
		items := doc.Find(selector)
		if items.Length() >= minIngredientItems {
			var lines []string
			items.EachWithBreak(func(_ int, s *goquery.Selection) bool {
				text := strings.TrimSpace(s.Text())
				if text != "" && len(text) > 3 {
					lines = append(lines, "- "+text)
				}
				return len(lines) < maxIngredientItems
			})
			if len(lines) >= minIngredientItems {
				b.section("Ingredients", lines...)
				break
			}
		}
	}

	for _, selector := range instructionSelectors {
		items := doc.Find(selector)
		if items.Length() >= minInstructionItems {
			var lines []string
			items.EachWithBreak(func(_ int, s *goquery.Selection) bool {
				text := strings.TrimSpace(s.Text())
				if len(text) > minInstructionLength {
					lines = append(lines, fmt.Sprintf("%d. %s", len(lines)+1, text))
				}
				return len(lines) < maxInstructionItems
			})
			if len(lines) >= minInstructionItems {
				b.section("Instructions", lines...)
				break
			}
		}
	}

	// 只有標題（或更少）不足以構成食譜
	if b.len() <= 1 {
		return "", false
	}
	return b.build(), true
}
