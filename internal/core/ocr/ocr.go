package ocr

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"souschef-api/internal/infrastructure/config"
	"souschef-api/internal/pkg/common"

	"go.uber.org/zap"
)

// Engine tesseract OCR 引擎包裝。
// 走 CLI 而不是 cgo 綁定：部署機器上只要裝了 tesseract 就能用。
type Engine struct {
	args []string
}

// NewEngine 創建 OCR 引擎
func NewEngine(cfg *config.OCRConfig) *Engine {
	args := cfg.TesseractArgs
	if len(args) == 0 {
		args = []string{"--oem", "3", "--psm", "6"}
	}
	return &Engine{args: args}
}

// Available 檢查 tesseract 是否安裝且可執行
func (e *Engine) Available() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "tesseract", "--version")
	out, err := cmd.Output()
	if err != nil {
		common.LogError("找不到 tesseract 執行檔", zap.Error(err))
		return false
	}

	version := strings.TrimSpace(string(out))
	if idx := strings.IndexByte(version, '\n'); idx > 0 {
		version = version[:idx]
	}
	common.LogInfo("tesseract 檢測成功", zap.String("version", version))
	return true
}

// ExtractText 對單一圖片執行 OCR。
// 讀不出文字返回空字串而非錯誤，由上層決定總產出是否足夠。
func (e *Engine) ExtractText(ctx context.Context, imagePath string) string {
	args := append([]string{imagePath, "stdout"}, e.args...)
	cmd := exec.CommandContext(ctx, "tesseract", args...)

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		common.LogWarn("OCR 執行失敗",
			zap.String("image", imagePath),
			zap.Error(err),
		)
		return ""
	}

	text := strings.TrimSpace(out.String())
	common.LogInfo("OCR 完成",
		zap.String("image", imagePath),
		zap.Int("chars", len(text)),
	)
	return text
}
