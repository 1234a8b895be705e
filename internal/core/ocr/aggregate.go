package ocr

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"souschef-api/internal/pkg/common"

	"go.uber.org/zap"
)

// MaxImagesPerRequest 未另行配置時單次請求可處理的圖片上限
const MaxImagesPerRequest = 10

// 多圖內容的排序說明，後續的結構化模型必須按這個順序理解內容
const orderingPreamble = "IMPORTANT: The following content comes from multiple images in order. " +
	"Process them sequentially - ingredients may be in early images, " +
	"instructions in later images.\n\n"

// TextExtractor 單張圖片轉文字的抽象，方便測試替換
type TextExtractor interface {
	ExtractText(ctx context.Context, imagePath string) string
}

// Aggregator 多圖 OCR 聚合器：嚴格依上傳順序處理並標注每張圖的位置
type Aggregator struct {
	engine    TextExtractor
	maxImages int
	delay     time.Duration
}

// NewAggregator 創建多圖聚合器；maxImages 未配置（≤0）時用預設上限
func NewAggregator(engine TextExtractor, maxImages int, delay time.Duration) *Aggregator {
	if maxImages <= 0 {
		maxImages = MaxImagesPerRequest
	}
	return &Aggregator{
		engine:    engine,
		maxImages: maxImages,
		delay:     delay,
	}
}

// MaxImages 返回聚合器的圖片數量上限
func (a *Aggregator) MaxImages() int {
	return a.maxImages
}

// ExtractAll 依序對每張圖片做 OCR 並串接結果。
// 圖與圖之間插入短暫延遲，避免把 OCR 後端打滿；這是限速手段，不是正確性需求。
// 所有圖片都讀不出文字時返回錯誤。
func (a *Aggregator) ExtractAll(ctx context.Context, imagePaths []string) (string, error) {
	if len(imagePaths) == 0 {
		return "", common.ErrNoImagesProvided
	}
	if len(imagePaths) > a.maxImages {
		return "", common.ErrTooManyImages
	}

	// 單張圖片不需要排序標注
	if len(imagePaths) == 1 {
		text := a.extractOne(ctx, imagePaths[0])
		if strings.TrimSpace(text) == "" {
			return "", noReadableText()
		}
		return text, nil
	}

	var blocks []string
	for i, path := range imagePaths {
		if i > 0 {
			select {
			case <-time.After(a.delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		common.LogInfo("處理圖片",
			zap.Int("index", i+1),
			zap.Int("total", len(imagePaths)),
		)

		if text := a.extractOne(ctx, path); text != "" {
			blocks = append(blocks, fmt.Sprintf("--- Image %d ---\n%s", i+1, text))
		}
	}

	if len(blocks) == 0 {
		return "", noReadableText()
	}

	return orderingPreamble + strings.Join(blocks, "\n\n"), nil
}

// extractOne 正規化單張圖片後執行 OCR；正規化失敗時直接對原圖嘗試
func (a *Aggregator) extractOne(ctx context.Context, path string) string {
	normalized, err := NormalizeForOCR(path)
	if err != nil {
		common.LogWarn("圖片正規化失敗，改用原圖",
			zap.String("image", path),
			zap.Error(err),
		)
		return a.engine.ExtractText(ctx, path)
	}
	defer os.Remove(normalized)

	return a.engine.ExtractText(ctx, normalized)
}

func noReadableText() error {
	return common.NewError("NO_READABLE_TEXT",
		"No readable text found in the provided image(s). Please ensure images are clear and contain recipe text.",
		400, nil)
}
