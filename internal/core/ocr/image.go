package ocr

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	// 註冊 OCR 允許的各種圖片格式解碼器
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"souschef-api/internal/pkg/common"

	"go.uber.org/zap"
)

// 允許的上傳圖片副檔名
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
	".webp": true,
}

// ValidateImageFile 在處理前驗證副檔名與大小
func ValidateImageFile(filename string, size int64, maxSize int64) error {
	if filename == "" {
		return common.ErrInvalidImageFormat
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return common.NewError("INVALID_IMAGE_FORMAT",
			fmt.Sprintf("Unsupported file extension: %s", ext),
			400, nil)
	}

	if size > maxSize {
		return common.NewError("INVALID_IMAGE_SIZE",
			fmt.Sprintf("File too large: %d bytes (max: %d)", size, maxSize),
			400, nil)
	}

	return nil
}

// NormalizeForOCR 把圖片轉成純 RGB（透明背景壓成白底）後存成 PNG。
// tesseract 對帶 alpha 通道的圖片辨識效果很差。
// 返回正規化後的檔案路徑；呼叫方負責清理。
func NormalizeForOCR(imagePath string) (string, error) {
	f, err := os.Open(imagePath)
	if err != nil {
		return "", fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	// 白底攤平
	bounds := img.Bounds()
	flattened := image.NewRGBA(bounds)
	draw.Draw(flattened, bounds, image.White, image.Point{}, draw.Src)
	draw.Draw(flattened, bounds, img, bounds.Min, draw.Over)

	normalized := strings.TrimSuffix(imagePath, filepath.Ext(imagePath)) + "_ocr.png"
	out, err := os.Create(normalized)
	if err != nil {
		return "", fmt.Errorf("failed to create normalized image: %w", err)
	}
	defer out.Close()

	if err := png.Encode(out, flattened); err != nil {
		return "", fmt.Errorf("failed to encode normalized image: %w", err)
	}

	common.LogDebug("圖片正規化完成",
		zap.String("source_format", format),
		zap.String("normalized", normalized),
	)
	return normalized, nil
}
