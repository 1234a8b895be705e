package recipe

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"souschef-api/internal/pkg/common"

	"go.uber.org/zap"
)

// saveUpload 把上傳檔存到上傳目錄，用 UUID 命名避免碰撞
func saveUpload(file *multipart.FileHeader, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(file.Filename))
	path := filepath.Join(dir, common.GenerateUUID()+ext)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}

	return path, nil
}

// cleanupFiles 回應產出後盡力刪除暫存檔，失敗只記錄不重試
func cleanupFiles(paths []string) {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			common.LogWarn("暫存檔刪除失敗",
				zap.String("path", path),
				zap.Error(err),
			)
		}
	}
}
