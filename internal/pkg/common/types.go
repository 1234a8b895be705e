package common

import "time"

// Ingredient 食材：quantity 一律是單一數值字串（由 Normalizer 保證）
type Ingredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit,omitempty"`
}

// Instruction 食譜步驟
type Instruction struct {
	StepNumber   int    `json:"stepNumber"`
	Description  string `json:"description"`
	TimeEstimate int    `json:"timeEstimate,omitempty"` // 分鐘
}

// Recipe 標準化後的食譜結構，所有擷取策略最終都收斂到這個形狀
type Recipe struct {
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	PrepTime       int           `json:"prepTime"`  // 分鐘
	CookTime       int           `json:"cookTime"`  // 分鐘
	TotalTime      int           `json:"totalTime"` // 一律等於 prepTime+cookTime
	Servings       int           `json:"servings"`
	Difficulty     string        `json:"difficulty"` // Easy / Medium / Hard
	Ingredients    []Ingredient  `json:"ingredients"`
	Instructions   []Instruction `json:"instructions"`
	Tags           []string      `json:"tags"`
	NutritionNotes string        `json:"nutritionNotes,omitempty"`
}

// RecipeRecord 持久化後的食譜記錄
type RecipeRecord struct {
	Recipe
	ID        string    `json:"id"`
	SourceURL string    `json:"sourceUrl"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	UserID    string    `json:"userId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ExtractionResult 每次擷取的統一回應：要嘛成功帶食譜，要嘛帶結構化失敗原因
type ExtractionResult struct {
	Success    bool        `json:"success"`
	RecipeID   string      `json:"recipe_id,omitempty"`
	SourceURL  string      `json:"source_url,omitempty"`
	ImageURL   string      `json:"image_url,omitempty"`
	Source     string      `json:"source,omitempty"` // web / instagram / image / pdf / text
	Recipe     *Recipe     `json:"recipe,omitempty"`
	ImageCount int         `json:"image_count,omitempty"`
	Social     *SocialMeta `json:"instagram_data,omitempty"`

	ErrorCode  string `json:"error,omitempty"`
	Message    string `json:"message,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// SocialMeta 社群貼文的附加資訊
type SocialMeta struct {
	Username  string `json:"username,omitempty"`
	Shortcode string `json:"shortcode,omitempty"`
	Likes     int    `json:"likes"`
	Comments  int    `json:"comments"`
}

// Failure 建立失敗結果
func Failure(err *CustomError) *ExtractionResult {
	return &ExtractionResult{
		Success:    false,
		ErrorCode:  err.Code,
		Message:    err.Message,
		Suggestion: err.Suggestion,
	}
}
