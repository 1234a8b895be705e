package structure

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"souschef-api/internal/pkg/common"
)

// 模型輸出不可信：這裡把任何形狀的 JSON 決定性地壓成 canonical schema。
// 所有規則都是純函數，不碰 I/O。

const (
	defaultTitle      = "Untitled Recipe"
	defaultDifficulty = "Medium"
	defaultQuantity   = "1"
	defaultServings   = 2
	maxTags           = 10
	maxTagLength      = 50
)

// unitWords safeInt 解析前要剝掉的單位字
var unitWords = []string{
	"minutes", "minute", "mins", "min",
	"hours", "hour", "hrs", "hr",
	"servings", "serving", "serves", "people",
}

// Normalize 把模型返回的原始 map 轉成 canonical Recipe
func Normalize(raw map[string]interface{}) *common.Recipe {
	recipe := &common.Recipe{
		Title:          safeString(raw["title"]),
		Description:    safeString(raw["description"]),
		PrepTime:       safeInt(raw["prepTime"], 0),
		CookTime:       safeInt(raw["cookTime"], 0),
		Servings:       normalizeServings(raw["servings"]),
		Difficulty:     normalizeDifficulty(raw["difficulty"]),
		Ingredients:    normalizeIngredients(raw["ingredients"]),
		Instructions:   normalizeInstructions(raw["instructions"]),
		Tags:           normalizeTags(raw["tags"]),
		NutritionNotes: safeString(raw["nutritionNotes"]),
	}

	if recipe.Title == "" {
		recipe.Title = defaultTitle
	}

	// totalTime 一律重算，不採用模型給的值
	recipe.TotalTime = recipe.PrepTime + recipe.CookTime

	return recipe
}

// safeString 任意值轉成去除前後空白的字串；nil 返回空字串
func safeString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", val))
	}
}

// safeInt 任意值轉 int：字串會先剝單位字，再取連字號區間的第一個數字，
// 最後以浮點解析後截斷；無法解析或為負數返回 fallback
func safeInt(v interface{}, fallback int) int {
	f, ok := looseFloat(v)
	if !ok || f < 0 {
		return fallback
	}
	return int(f)
}

// looseFloat 數值型別直接取用；字串先剝單位字、
// 取連字號區間的第一個數字（"10-15" → 10）再以浮點解析
func looseFloat(v interface{}) (float64, bool) {
	if f, ok := toFloat(v); ok {
		return f, true
	}

	s, isString := v.(string)
	if !isString {
		return 0, false
	}

	s = strings.ToLower(strings.TrimSpace(s))
	for _, word := range unitWords {
		s = strings.ReplaceAll(s, word, "")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	if idx := strings.Index(s, "-"); idx > 0 {
		s = strings.TrimSpace(s[:idx])
	}

	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}

// toFloat 從 JSON 解析出的數值型別取 float64
func toFloat(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	case float64:
		return val, true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	default:
		return 0, false
	}
}

// normalizeServings 份數政策：缺值、非整數或 ≤0 一律強制為 2。
// 字串（"4 servings"）也走同一套整數檢查，"4.5 servings" 不會被截斷放行
func normalizeServings(v interface{}) int {
	f, ok := looseFloat(v)
	if !ok || f <= 0 || f != math.Trunc(f) {
		return defaultServings
	}
	return int(f)
}

// normalizeDifficulty 只接受 Easy/Medium/Hard，其餘一律 Medium
func normalizeDifficulty(v interface{}) string {
	s := safeString(v)
	switch s {
	case "Easy", "Medium", "Hard":
		return s
	default:
		return defaultDifficulty
	}
}

// normalizeIngredients 沒有名稱的食材直接丟棄，不補佔位列
func normalizeIngredients(v interface{}) []common.Ingredient {
	items, ok := v.([]interface{})
	if !ok {
		return []common.Ingredient{}
	}

	ingredients := make([]common.Ingredient, 0, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		name := safeString(entry["name"])
		if name == "" {
			continue
		}
		ingredients = append(ingredients, common.Ingredient{
			Name:     name,
			Quantity: normalizeQuantity(entry["quantity"]),
			Unit:     safeString(entry["unit"]),
		})
	}
	return ingredients
}

// normalizeQuantity 份量規則：
//   - 分數（"1/2"）換算成小數
//   - 區間（"a-b"）兩端都是 ≥7 的整數時取下界（視為保守的計數），
//     否則取中點，整數輸出為整數、小數保留一位
//   - 無法解析或缺值一律 "1"
func normalizeQuantity(v interface{}) string {
	if f, ok := toFloat(v); ok {
		return formatQuantity(f)
	}

	s, isString := v.(string)
	if !isString {
		return defaultQuantity
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultQuantity
	}

	if numerator, denominator, ok := parseFraction(s); ok && denominator != 0 {
		return formatQuantity(numerator / denominator)
	}

	if low, high, ok := parseRange(s); ok {
		if low == math.Trunc(low) && high == math.Trunc(high) && low >= 7 && high >= 7 {
			return formatQuantity(low)
		}
		return formatQuantity((low + high) / 2)
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return formatQuantity(f)
	}

	return defaultQuantity
}

func parseFraction(s string) (float64, float64, bool) {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	numerator, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	denominator, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return numerator, denominator, true
}

func parseRange(s string) (float64, float64, bool) {
	idx := strings.Index(s, "-")
	if idx <= 0 {
		return 0, 0, false
	}
	low, err1 := strconv.ParseFloat(strings.TrimSpace(s[:idx]), 64)
	high, err2 := strconv.ParseFloat(strings.TrimSpace(s[idx+1:]), 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return low, high, true
}

func formatQuantity(f float64) string {
	if f == math.Trunc(f) {
		return strconv.Itoa(int(f))
	}
	return strconv.FormatFloat(f, 'f', 1, 64)
}

// normalizeInstructions 沒有描述的步驟丟棄；步驟編號缺漏時用位置補
func normalizeInstructions(v interface{}) []common.Instruction {
	items, ok := v.([]interface{})
	if !ok {
		return []common.Instruction{}
	}

	instructions := make([]common.Instruction, 0, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		description := safeString(entry["description"])
		if description == "" {
			continue
		}
		// 模型常會漏編或亂編步驟號，一律採位置序
		instructions = append(instructions, common.Instruction{
			StepNumber:   len(instructions) + 1,
			Description:  description,
			TimeEstimate: safeInt(entry["timeEstimate"], 0),
		})
	}

	return instructions
}

// normalizeTags 非字串丟棄、去前後空白、Title Case、去重、
// 超過 50 字元丟棄、最多保留 10 個（維持首次出現順序）
func normalizeTags(v interface{}) []string {
	items, ok := v.([]interface{})
	if !ok {
		return []string{}
	}

	tags := make([]string, 0, len(items))
	seen := make(map[string]bool)
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			continue
		}
		tag := titleCase(strings.TrimSpace(s))
		if tag == "" || utf8.RuneCountInString(tag) > maxTagLength {
			continue
		}
		key := strings.ToLower(tag)
		if seen[key] {
			continue
		}
		seen[key] = true
		tags = append(tags, tag)
		if len(tags) >= maxTags {
			break
		}
	}
	return tags
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		runes := []rune(strings.ToLower(word))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
