package pdf

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"souschef-api/internal/core/ocr"
	"souschef-api/internal/infrastructure/config"
	"souschef-api/internal/pkg/common"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// minTextYield 文字層產出低於這個字元數就視為掃描檔，改走 OCR
const minTextYield = 50

// Extractor PDF 食譜文字擷取器。
// 先嘗試內嵌文字層（快速路徑）；產出太少時把每頁渲染成圖片再跑 OCR。
type Extractor struct {
	engine *ocr.Engine
	dpi    int
}

// NewExtractor 創建 PDF 擷取器
func NewExtractor(engine *ocr.Engine, cfg *config.OCRConfig) *Extractor {
	dpi := cfg.PDFRenderDPI
	if dpi <= 0 {
		dpi = 150
	}
	return &Extractor{
		engine: engine,
		dpi:    dpi,
	}
}

// ExtractText 從 PDF 內容擷取文字；兩條路徑都失敗時返回結構化錯誤
func (e *Extractor) ExtractText(ctx context.Context, content []byte) (string, error) {
	text := extractTextLayer(content)

	if len(strings.TrimSpace(text)) < minTextYield {
		common.LogInfo("文字層產出不足，改用 OCR",
			zap.Int("text_layer_chars", len(text)),
		)
		ocrText, err := e.extractViaOCR(ctx, content)
		if err != nil {
			common.LogWarn("PDF OCR 失敗", zap.Error(err))
		} else if strings.TrimSpace(ocrText) != "" {
			text = ocrText
		}
	}

	if strings.TrimSpace(text) == "" {
		return "", common.ErrPDFNoText.
			WithSuggestion("Ensure the PDF contains recipe content and is not corrupted.")
	}

	return strings.TrimSpace(text), nil
}

// extractTextLayer 讀取所有頁面的內嵌文字層；解析失敗返回空字串
func extractTextLayer(content []byte) string {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		common.LogWarn("PDF 文字層解析失敗", zap.Error(err))
		return ""
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	return strings.TrimSpace(sb.String())
}

// extractViaOCR 用 pdftoppm 把每頁渲染成 PNG 後逐頁 OCR
func (e *Extractor) extractViaOCR(ctx context.Context, content []byte) (string, error) {
	tmpDir, err := os.MkdirTemp("", "souschef-pdf-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	pdfPath := filepath.Join(tmpDir, "input.pdf")
	if err := os.WriteFile(pdfPath, content, 0600); err != nil {
		return "", fmt.Errorf("failed to write temp pdf: %w", err)
	}

	imagePrefix := filepath.Join(tmpDir, "page")
	cmd := exec.CommandContext(ctx, "pdftoppm", "-png", "-r", fmt.Sprintf("%d", e.dpi), pdfPath, imagePrefix)
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("pdftoppm failed (install Poppler): %w", err)
	}

	pages, err := filepath.Glob(imagePrefix + "*")
	if err != nil || len(pages) == 0 {
		return "", fmt.Errorf("no page images generated from PDF")
	}
	// pdftoppm 以 page-1.png, page-2.png... 命名，字典序即頁序
	sort.Strings(pages)

	var sb strings.Builder
	for i, pagePath := range pages {
		common.LogInfo("OCR 處理 PDF 頁面",
			zap.Int("page", i+1),
			zap.Int("total", len(pages)),
		)
		if text := e.engine.ExtractText(ctx, pagePath); text != "" {
			sb.WriteString(fmt.Sprintf("Page %d:\n%s\n\n", i+1, text))
		}
	}

	return strings.TrimSpace(sb.String()), nil
}
