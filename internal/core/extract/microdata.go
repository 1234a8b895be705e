package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// extractMicrodata 從 microdata 標記擷取食譜。
// 找出第一個 itemtype 含 "recipe"（不分大小寫）的元素，
// 再依 itemprop 名稱取出標題、描述、食材與步驟。
func extractMicrodata(doc *goquery.Document) (string, bool) {
	var recipeElem *goquery.Selection
	doc.Find("[itemtype]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		itemtype, _ := s.Attr("itemtype")
		if strings.Contains(strings.ToLower(itemtype), "recipe") {
			recipeElem = s
			return false
		}
		return true
	})

	if recipeElem == nil {
		return "", false
	}

	b := &sectionBuilder{}

	if title := recipeElem.Find(`[itemprop="name"]`).First(); title.Length() > 0 {
		b.title(strings.TrimSpace(title.Text()))
	}

	if desc := recipeElem.Find(`[itemprop="description"]`).First(); desc.Length() > 0 {
		if text := strings.TrimSpace(desc.Text()); text != "" {
			b.section("Description", text)
		}
	}

	var ingredients []string
	recipeElem.Find(`[itemprop="recipeIngredient"], [itemprop="ingredients"]`).Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			ingredients = append(ingredients, "- "+text)
		}
	})
	b.section("Ingredients", ingredients...)

	var instructions []string
	recipeElem.Find(`[itemprop="recipeInstructions"]`).Each(func(i int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			instructions = append(instructions, fmt.Sprintf("%d. %s", len(instructions)+1, text))
		}
	})
	b.section("Instructions", instructions...)

	if b.len() == 0 {
		return "", false
	}
	return b.build(), true
}
