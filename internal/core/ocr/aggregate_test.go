package ocr

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"souschef-api/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExtractor 依路徑返回預設文字，並記錄處理順序
type fakeExtractor struct {
	texts map[string]string
	calls []string
}

func (f *fakeExtractor) ExtractText(_ context.Context, imagePath string) string {
	f.calls = append(f.calls, imagePath)
	return f.texts[imagePath]
}

func writeTempImages(t *testing.T, names ...string) []string {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("not a real image"), 0600))
		paths = append(paths, path)
	}
	return paths
}

func TestExtractAllOrderingAndLabels(t *testing.T) {
	paths := writeTempImages(t, "ingredients.png", "steps1.png", "steps2.png")
	fake := &fakeExtractor{texts: map[string]string{
		paths[0]: "flour, eggs, sugar",
		paths[1]: "mix everything",
		paths[2]: "bake at 180C",
	}}

	text, err := NewAggregator(fake, 0, 0).ExtractAll(context.Background(), paths)
	require.NoError(t, err)

	assert.Equal(t, paths, fake.calls, "images must be processed in submission order")
	assert.True(t, strings.HasPrefix(text, "IMPORTANT:"), "ordering instruction must come first")

	positions := []int{
		strings.Index(text, "--- Image 1 ---"),
		strings.Index(text, "--- Image 2 ---"),
		strings.Index(text, "--- Image 3 ---"),
	}
	for i, pos := range positions {
		assert.GreaterOrEqual(t, pos, 0, "missing label for image %d", i+1)
		if i > 0 {
			assert.Greater(t, pos, positions[i-1])
		}
	}
	assert.Contains(t, text, "flour, eggs, sugar")
	assert.Contains(t, text, "bake at 180C")
}

func TestExtractAllSingleImageNoLabels(t *testing.T) {
	paths := writeTempImages(t, "recipe.png")
	fake := &fakeExtractor{texts: map[string]string{paths[0]: "1 cup rice"}}

	text, err := NewAggregator(fake, 0, 0).ExtractAll(context.Background(), paths)
	require.NoError(t, err)
	assert.Equal(t, "1 cup rice", text)
}

func TestExtractAllSkipsUnreadableImages(t *testing.T) {
	paths := writeTempImages(t, "a.png", "blank.png", "c.png")
	fake := &fakeExtractor{texts: map[string]string{
		paths[0]: "first block",
		paths[2]: "third block",
	}}

	text, err := NewAggregator(fake, 0, 0).ExtractAll(context.Background(), paths)
	require.NoError(t, err)
	assert.Contains(t, text, "--- Image 1 ---")
	assert.NotContains(t, text, "--- Image 2 ---")
	assert.Contains(t, text, "--- Image 3 ---")
}

func TestExtractAllAllUnreadable(t *testing.T) {
	paths := writeTempImages(t, "a.png", "b.png")
	fake := &fakeExtractor{texts: map[string]string{}}

	_, err := NewAggregator(fake, 0, 0).ExtractAll(context.Background(), paths)
	require.Error(t, err)
	assert.Equal(t, "NO_READABLE_TEXT", common.AsCustomError(err).Code)
}

func TestExtractAllTooManyImages(t *testing.T) {
	paths := make([]string, MaxImagesPerRequest+1)
	for i := range paths {
		paths[i] = "img.png"
	}

	_, err := NewAggregator(&fakeExtractor{}, 0, 0).ExtractAll(context.Background(), paths)
	require.Error(t, err)
	assert.Equal(t, common.ErrTooManyImages.Code, common.AsCustomError(err).Code)
}

func TestExtractAllHonorsConfiguredCap(t *testing.T) {
	paths := []string{"a.png", "b.png", "c.png"}

	_, err := NewAggregator(&fakeExtractor{}, 2, 0).ExtractAll(context.Background(), paths)
	require.Error(t, err)
	assert.Equal(t, common.ErrTooManyImages.Code, common.AsCustomError(err).Code)
}

func TestValidateImageFile(t *testing.T) {
	maxSize := int64(10 << 20)

	assert.NoError(t, ValidateImageFile("photo.JPG", 1024, maxSize))
	assert.NoError(t, ValidateImageFile("scan.webp", 1024, maxSize))
	assert.Error(t, ValidateImageFile("document.txt", 1024, maxSize))
	assert.Error(t, ValidateImageFile("photo.jpg", maxSize+1, maxSize))
}
