package storage

import (
	"context"
	"time"

	"souschef-api/internal/pkg/common"

	"go.uber.org/zap"
)

// recipeRow recipes 表的列結構；可為空的欄位用指標搭配 omitempty，
// 寫入前即剝除 null 值
type recipeRow struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	PrepTime       int       `json:"prep_time"`
	CookTime       int       `json:"cook_time"`
	TotalTime      int       `json:"total_time"`
	Servings       int       `json:"servings"`
	Difficulty     string    `json:"difficulty"`
	Tags           []string  `json:"tags"`
	NutritionNotes string    `json:"nutrition_notes"`
	SourceURL      string    `json:"source_url"`
	ImageURL       *string   `json:"image_url,omitempty"`
	UserID         *string   `json:"user_id,omitempty"`
	CreatedAt      time.Time `json:"created_at,omitempty"`
	UpdatedAt      time.Time `json:"updated_at,omitempty"`
}

type ingredientRow struct {
	ID       string `json:"id"`
	RecipeID string `json:"recipe_id"`
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
}

type instructionRow struct {
	ID           string `json:"id"`
	RecipeID     string `json:"recipe_id"`
	StepNumber   int    `json:"step_number"`
	Description  string `json:"description"`
	TimeEstimate int    `json:"time_estimate"`
}

// Repository 食譜持久化層
type Repository struct {
	db *Client
}

// NewRepository 創建食譜持久化層
func NewRepository(db *Client) *Repository {
	return &Repository{db: db}
}

// Save 寫入食譜與其食材、步驟。父列寫入失敗整個保存失敗；
// 子列失敗只記錄不回滾，寧可保留部分資料
func (r *Repository) Save(ctx context.Context, recipe *common.Recipe, sourceURL, imageURL, userID string) (string, error) {
	recipeID := common.GenerateUUID()

	parent := recipeRow{
		ID:             recipeID,
		Title:          recipe.Title,
		Description:    recipe.Description,
		PrepTime:       recipe.PrepTime,
		CookTime:       recipe.CookTime,
		TotalTime:      recipe.TotalTime,
		Servings:       recipe.Servings,
		Difficulty:     recipe.Difficulty,
		Tags:           recipe.Tags,
		NutritionNotes: recipe.NutritionNotes,
		SourceURL:      sourceURL,
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}
	if imageURL != "" {
		parent.ImageURL = &imageURL
	}
	if userID != "" {
		parent.UserID = &userID
	}

	if err := r.db.Insert(ctx, "recipes", parent); err != nil {
		common.LogError("食譜父列寫入失敗", zap.Error(err))
		return "", common.ErrSaveFailed
	}

	if len(recipe.Ingredients) > 0 {
		rows := make([]ingredientRow, 0, len(recipe.Ingredients))
		for _, ingredient := range recipe.Ingredients {
			rows = append(rows, ingredientRow{
				ID:       common.GenerateUUID(),
				RecipeID: recipeID,
				Name:     ingredient.Name,
				Quantity: ingredient.Quantity,
				Unit:     ingredient.Unit,
			})
		}
		if err := r.db.Insert(ctx, "ingredients", rows); err != nil {
			common.LogWarn("食材子列寫入失敗，父列保留",
				zap.String("recipe_id", recipeID),
				zap.Error(err),
			)
		}
	}

	if len(recipe.Instructions) > 0 {
		rows := make([]instructionRow, 0, len(recipe.Instructions))
		for _, instruction := range recipe.Instructions {
			rows = append(rows, instructionRow{
				ID:           common.GenerateUUID(),
				RecipeID:     recipeID,
				StepNumber:   instruction.StepNumber,
				Description:  instruction.Description,
				TimeEstimate: instruction.TimeEstimate,
			})
		}
		if err := r.db.Insert(ctx, "instructions", rows); err != nil {
			common.LogWarn("步驟子列寫入失敗，父列保留",
				zap.String("recipe_id", recipeID),
				zap.Error(err),
			)
		}
	}

	common.LogInfo("食譜已保存",
		zap.String("recipe_id", recipeID),
		zap.String("title", recipe.Title),
	)
	return recipeID, nil
}

// FetchByUser 取得某使用者的所有食譜，最新的在前
func (r *Repository) FetchByUser(ctx context.Context, userID string) ([]common.RecipeRecord, error) {
	var parents []recipeRow
	err := r.db.Select(ctx, "recipes",
		map[string]string{"user_id": "eq." + userID},
		"created_at.desc", &parents)
	if err != nil {
		return nil, err
	}

	records := make([]common.RecipeRecord, 0, len(parents))
	for _, parent := range parents {
		records = append(records, r.toRecord(ctx, parent))
	}
	return records, nil
}

// FetchOne 取得單一食譜；id 與 userID 都要匹配，否則視為不存在
func (r *Repository) FetchOne(ctx context.Context, recipeID, userID string) (*common.RecipeRecord, error) {
	var parents []recipeRow
	err := r.db.Select(ctx, "recipes",
		map[string]string{
			"id":      "eq." + recipeID,
			"user_id": "eq." + userID,
		}, "", &parents)
	if err != nil {
		return nil, err
	}
	if len(parents) == 0 {
		return nil, nil
	}

	record := r.toRecord(ctx, parents[0])
	return &record, nil
}

// Delete 刪除食譜：先確認所有權，再刪子列後刪父列。
// 不屬於該使用者時返回 false 且不動任何資料
func (r *Repository) Delete(ctx context.Context, recipeID, userID string) (bool, error) {
	owned, err := r.FetchOne(ctx, recipeID, userID)
	if err != nil {
		return false, err
	}
	if owned == nil {
		return false, nil
	}

	filter := map[string]string{"recipe_id": "eq." + recipeID}
	if err := r.db.Delete(ctx, "ingredients", filter); err != nil {
		common.LogWarn("食材子列刪除失敗", zap.String("recipe_id", recipeID), zap.Error(err))
	}
	if err := r.db.Delete(ctx, "instructions", filter); err != nil {
		common.LogWarn("步驟子列刪除失敗", zap.String("recipe_id", recipeID), zap.Error(err))
	}

	if err := r.db.Delete(ctx, "recipes", map[string]string{"id": "eq." + recipeID}); err != nil {
		return false, err
	}

	common.LogInfo("食譜已刪除", zap.String("recipe_id", recipeID))
	return true, nil
}

// toRecord 組裝完整記錄；子列讀取失敗時返回空集合而非錯誤
func (r *Repository) toRecord(ctx context.Context, parent recipeRow) common.RecipeRecord {
	record := common.RecipeRecord{
		Recipe: common.Recipe{
			Title:          parent.Title,
			Description:    parent.Description,
			PrepTime:       parent.PrepTime,
			CookTime:       parent.CookTime,
			TotalTime:      parent.TotalTime,
			Servings:       parent.Servings,
			Difficulty:     parent.Difficulty,
			Tags:           parent.Tags,
			NutritionNotes: parent.NutritionNotes,
			Ingredients:    []common.Ingredient{},
			Instructions:   []common.Instruction{},
		},
		ID:        parent.ID,
		SourceURL: parent.SourceURL,
		CreatedAt: parent.CreatedAt,
		UpdatedAt: parent.UpdatedAt,
	}
	if parent.ImageURL != nil {
		record.ImageURL = *parent.ImageURL
	}
	if parent.UserID != nil {
		record.UserID = *parent.UserID
	}

	filter := map[string]string{"recipe_id": "eq." + parent.ID}

	var ingredients []ingredientRow
	if err := r.db.Select(ctx, "ingredients", filter, "", &ingredients); err != nil {
		common.LogWarn("食材子列讀取失敗", zap.String("recipe_id", parent.ID), zap.Error(err))
	}
	for _, row := range ingredients {
		record.Ingredients = append(record.Ingredients, common.Ingredient{
			Name:     row.Name,
			Quantity: row.Quantity,
			Unit:     row.Unit,
		})
	}

	var instructions []instructionRow
	if err := r.db.Select(ctx, "instructions", filter, "step_number.asc", &instructions); err != nil {
		common.LogWarn("步驟子列讀取失敗", zap.String("recipe_id", parent.ID), zap.Error(err))
	}
	for _, row := range instructions {
		record.Instructions = append(record.Instructions, common.Instruction{
			StepNumber:   row.StepNumber,
			Description:  row.Description,
			TimeEstimate: row.TimeEstimate,
		})
	}

	return record
}
