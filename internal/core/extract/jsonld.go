package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// extractJSONLD 掃描所有 JSON-LD 區塊，尋找 @type 為 Recipe 的物件。
// 單一區塊解析失敗只跳過該區塊，不會中斷整個擷取。
func extractJSONLD(doc *goquery.Document) (string, bool) {
	var result string
	found := false

	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var data interface{}
		if err := json.Unmarshal([]byte(s.Text()), &data); err != nil {
			return true // 解析失敗，繼續下一個區塊
		}

		if recipe := findRecipeObject(data); recipe != nil {
			result = formatJSONLDRecipe(recipe)
			found = result != ""
			return !found
		}
		return true
	})

	return result, found
}

// findRecipeObject 在 JSON-LD 資料中尋找 Recipe 物件：
// 頂層物件、頂層陣列、以及 WordPress 常見的 @graph 包裝都要處理
func findRecipeObject(data interface{}) map[string]interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		if isRecipeType(v["@type"]) {
			return v
		}
		if graph, ok := v["@graph"].([]interface{}); ok {
			for _, item := range graph {
				if obj, ok := item.(map[string]interface{}); ok && isRecipeType(obj["@type"]) {
					return obj
				}
			}
		}
	case []interface{}:
		for _, item := range v {
			if obj, ok := item.(map[string]interface{}); ok && isRecipeType(obj["@type"]) {
				return obj
			}
		}
	}
	return nil
}

// isRecipeType @type 可能是字串或字串陣列
func isRecipeType(t interface{}) bool {
	switch v := t.(type) {
	case string:
		return v == "Recipe"
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok && s == "Recipe" {
				return true
			}
		}
	}
	return false
}

// formatJSONLDRecipe 將 Recipe 物件格式化為帶區塊標題的可讀文字；缺的區塊直接省略
func formatJSONLDRecipe(recipe map[string]interface{}) string {
	b := &sectionBuilder{}

	b.title(stringValue(recipe["name"]))

	if desc := stringValue(recipe["description"]); desc != "" {
		b.section("Description", desc)
	}

	prep := stringValue(recipe["prepTime"])
	cook := stringValue(recipe["cookTime"])
	if prep != "" || cook != "" {
		var lines []string
		if prep != "" {
			lines = append(lines, "Prep Time: "+prep)
		}
		if cook != "" {
			lines = append(lines, "Cook Time: "+cook)
		}
		b.section("Timing", lines...)
	}

	if yield := stringValue(recipe["recipeYield"]); yield != "" {
		b.line("Servings: " + yield)
	}

	if ingredients, ok := recipe["recipeIngredient"].([]interface{}); ok && len(ingredients) > 0 {
		var lines []string
		for _, ing := range ingredients {
			if s := stringValue(ing); s != "" {
				lines = append(lines, "- "+s)
			}
		}
		b.section("Ingredients", lines...)
	}

	if instructions, ok := recipe["recipeInstructions"].([]interface{}); ok && len(instructions) > 0 {
		var lines []string
		for i, inst := range instructions {
			text := instructionText(inst)
			if text != "" {
				lines = append(lines, fmt.Sprintf("%d. %s", i+1, text))
			}
		}
		b.section("Instructions", lines...)
	}

	return b.build()
}

// instructionText 步驟可能是純字串，或帶 text 欄位的 HowToStep 物件
func instructionText(inst interface{}) string {
	switch v := inst.(type) {
	case string:
		return strings.TrimSpace(v)
	case map[string]interface{}:
		if text := stringValue(v["text"]); text != "" {
			return text
		}
		return stringValue(v["name"])
	}
	return ""
}

// stringValue 將任意 JSON 值轉為去除空白的字串；陣列取第一個元素
func stringValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	case []interface{}:
		if len(val) > 0 {
			return stringValue(val[0])
		}
	}
	return ""
}
