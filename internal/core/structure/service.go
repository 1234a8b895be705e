package structure

import (
	"context"

	"souschef-api/internal/pkg/common"

	"go.uber.org/zap"
)

// Completer 文字補全服務的抽象，方便測試替換
type Completer interface {
	GenerateResponse(ctx context.Context, prompt string) (string, error)
}

// Service 食譜結構化服務：prompt → 模型 → JSON 擷取 → 正規化
type Service struct {
	completer Completer
}

// NewService 創建結構化服務
func NewService(completer Completer) *Service {
	return &Service{completer: completer}
}

// StructureRecipe 把擷取到的原始文字結構化成 canonical Recipe。
// 模型的任何失敗（非 200、逾時、回應沒有 JSON、解析失敗）都轉成
// AI_EXTRACTION_FAILED，不讓原始錯誤外洩給呼叫端。
func (s *Service) StructureRecipe(ctx context.Context, content string) (*common.Recipe, error) {
	prompt := buildExtractionPrompt(content)

	response, err := s.completer.GenerateResponse(ctx, prompt)
	if err != nil {
		common.LogWarn("模型補全失敗", zap.Error(err))
		return nil, common.ErrAIExtractionFailed
	}

	jsonText, ok := common.ExtractJSONObject(response)
	if !ok {
		common.LogWarn("模型回應中找不到 JSON 物件",
			zap.Int("response_length", len(response)),
		)
		return nil, common.ErrAIExtractionFailed
	}

	var raw map[string]interface{}
	if err := common.ParseJSON(jsonText, &raw); err != nil {
		// 模型偶爾輸出未加引號的鍵，補上引號後重試一次
		if retryErr := common.ParseJSON(common.QuoteJSONKeys(jsonText), &raw); retryErr != nil {
			common.LogWarn("模型返回的 JSON 無法解析", zap.Error(err))
			return nil, common.ErrAIExtractionFailed
		}
	}

	recipe := Normalize(raw)
	common.LogInfo("食譜結構化完成",
		zap.String("title", recipe.Title),
		zap.Int("ingredients", len(recipe.Ingredients)),
		zap.Int("instructions", len(recipe.Instructions)),
	)

	return recipe, nil
}
