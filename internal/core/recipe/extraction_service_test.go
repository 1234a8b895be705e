package recipe

import (
	"context"
	"mime/multipart"
	"testing"

	"souschef-api/internal/core/social"
	"souschef-api/internal/core/structure"
	"souschef-api/internal/infrastructure/config"
	"souschef-api/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	response string
}

func (f *fakeCompleter) GenerateResponse(_ context.Context, _ string) (string, error) {
	return f.response, nil
}

type fakePageFetcher struct {
	html  string
	calls int
}

func (f *fakePageFetcher) FetchPage(_ context.Context, _ string) (string, error) {
	f.calls++
	return f.html, nil
}

type fakePostScraper struct {
	post  *social.Post
	calls int
}

func (f *fakePostScraper) ScrapePost(_ context.Context, _ string) (*social.Post, error) {
	f.calls++
	return f.post, nil
}

func newTestService(response string) *ExtractionService {
	return newRoutedTestService(response, nil, nil)
}

func newRoutedTestService(response string, fetcher PageFetcher, scraper PostScraper) *ExtractionService {
	cfg := &config.Config{}
	cfg.Upload.MaxSizeBytes = 10 << 20
	structurer := structure.NewService(&fakeCompleter{response: response})
	return NewExtractionService(cfg, fetcher, scraper, nil, structurer, nil, nil)
}

const modelRecipeJSON = `{"title": "Garlic Noodles", "servings": 2,
 "ingredients": [{"name": "noodles", "quantity": "200", "unit": "g"}],
 "instructions": [{"description": "Boil the noodles and toss with garlic"}]}`

const recipePage = `<html><head><script type="application/ld+json">
{"@type": "Recipe", "name": "Garlic Noodles",
 "recipeIngredient": ["200g noodles", "3 cloves garlic", "2 tbsp butter"],
 "recipeInstructions": ["Boil the noodles until tender", "Saute the garlic in butter"]}
</script></head><body></body></html>`

func TestExtractFromURLRoutesInstagramToScraper(t *testing.T) {
	fetcher := &fakePageFetcher{html: recipePage}
	scraper := &fakePostScraper{post: &social.Post{
		Caption:       "Garlic noodles: boil noodles, fry garlic, toss together.",
		OwnerUsername: "noodlechef",
		LikesCount:    12,
	}}
	svc := newRoutedTestService(modelRecipeJSON, fetcher, scraper)

	result := svc.ExtractFromURL(context.Background(), "https://www.instagram.com/p/ABC123/", "")
	require.True(t, result.Success)
	assert.Equal(t, "instagram", result.Source)
	assert.Equal(t, 1, scraper.calls)
	assert.Equal(t, 0, fetcher.calls, "social posts must never hit the web fetcher")
	require.NotNil(t, result.Social)
	assert.Equal(t, "noodlechef", result.Social.Username)
	assert.Equal(t, "ABC123", result.Social.Shortcode)
}

func TestExtractFromURLRoutesWebToFetcher(t *testing.T) {
	fetcher := &fakePageFetcher{html: recipePage}
	scraper := &fakePostScraper{}
	svc := newRoutedTestService(modelRecipeJSON, fetcher, scraper)

	result := svc.ExtractFromURL(context.Background(), "https://example.com/garlic-noodles", "")
	require.True(t, result.Success)
	assert.Equal(t, "web", result.Source)
	assert.Equal(t, 1, fetcher.calls)
	assert.Equal(t, 0, scraper.calls)
	assert.Nil(t, result.Social)
}

func TestExtractFromURLRejectsInvalidURL(t *testing.T) {
	svc := newTestService("")

	result := svc.ExtractFromURL(context.Background(), "not-a-url", "")
	assert.False(t, result.Success)
	assert.Equal(t, common.ErrCodeInvalidURL, result.ErrorCode)
}

func TestExtractFromTextStructuresAndNormalizes(t *testing.T) {
	svc := newTestService(`Here you go:
{"title": "Fried Rice", "servings": 0, "prepTime": 5, "cookTime": 10,
 "ingredients": [{"name": "rice", "quantity": "7-8"}, {"quantity": "2"}],
 "instructions": [{"description": "Fry the rice"}]}`)

	result := svc.ExtractFromText(context.Background(), "leftover rice recipe", "")
	require.True(t, result.Success)
	require.NotNil(t, result.Recipe)

	assert.Equal(t, "Fried Rice", result.Recipe.Title)
	assert.Equal(t, "text", result.Source)
	assert.Equal(t, "pasted_text", result.SourceURL)
	assert.Equal(t, 2, result.Recipe.Servings, "zero servings must be forced to 2")
	assert.Equal(t, 15, result.Recipe.TotalTime)
	require.Len(t, result.Recipe.Ingredients, 1, "nameless ingredient must be dropped")
	assert.Equal(t, "7", result.Recipe.Ingredients[0].Quantity)
}

func TestExtractFromTextEmpty(t *testing.T) {
	svc := newTestService("")

	result := svc.ExtractFromText(context.Background(), "   ", "")
	assert.False(t, result.Success)
	assert.Equal(t, common.ErrCodeInvalidRequest, result.ErrorCode)
}

func TestExtractFromTextModelGarbage(t *testing.T) {
	svc := newTestService("I have no idea what that was.")

	result := svc.ExtractFromText(context.Background(), "some text", "")
	assert.False(t, result.Success)
	assert.Equal(t, common.ErrCodeAIExtractionFailed, result.ErrorCode)
	assert.NotEmpty(t, result.Suggestion)
}

func TestExtractFromImagesBatchValidation(t *testing.T) {
	svc := newTestService("")

	result := svc.ExtractFromImages(context.Background(), nil, "")
	assert.Equal(t, "NO_IMAGES_PROVIDED", result.ErrorCode)

	files := make([]*multipart.FileHeader, 11)
	for i := range files {
		files[i] = &multipart.FileHeader{Filename: "a.png", Size: 10}
	}
	result = svc.ExtractFromImages(context.Background(), files, "")
	assert.Equal(t, "TOO_MANY_IMAGES", result.ErrorCode)
}

func TestExtractFromImagesConfiguredCap(t *testing.T) {
	cfg := &config.Config{}
	cfg.Upload.MaxImages = 2
	cfg.Upload.MaxSizeBytes = 10 << 20
	svc := NewExtractionService(cfg, nil, nil, nil,
		structure.NewService(&fakeCompleter{}), nil, nil)

	files := make([]*multipart.FileHeader, 3)
	for i := range files {
		files[i] = &multipart.FileHeader{Filename: "a.png", Size: 10}
	}
	result := svc.ExtractFromImages(context.Background(), files, "")
	assert.Equal(t, "TOO_MANY_IMAGES", result.ErrorCode)
}
