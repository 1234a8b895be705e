package recipe

import (
	"context"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"souschef-api/internal/core/extract"
	"souschef-api/internal/core/ocr"
	"souschef-api/internal/core/pdf"
	"souschef-api/internal/core/social"
	"souschef-api/internal/core/structure"
	"souschef-api/internal/infrastructure/config"
	"souschef-api/internal/infrastructure/storage"
	"souschef-api/internal/pkg/common"

	"go.uber.org/zap"
)

// structuringSettleDelay 多圖 OCR 完成後到送模型前的緩衝
const structuringSettleDelay = 500 * time.Millisecond

// PageFetcher 取回網頁 HTML 的抽象，方便測試替換
type PageFetcher interface {
	FetchPage(ctx context.Context, url string) (string, error)
}

// PostScraper 抓取社群貼文的抽象，方便測試替換
type PostScraper interface {
	ScrapePost(ctx context.Context, url string) (*social.Post, error)
}

// ExtractionService 食譜擷取協調層：
// 來源分派（網頁 / Instagram / 圖片 / PDF / 純文字）→ 文字擷取 →
// 結構化 → 正規化 → 持久化。每個請求獨佔自己的暫存檔與文字緩衝。
type ExtractionService struct {
	config     *config.Config
	fetcher    PageFetcher
	web        *extract.WebExtractor
	scraper    PostScraper
	engine     *ocr.Engine
	aggregator *ocr.Aggregator
	pdf        *pdf.Extractor
	structurer *structure.Service
	cache      *Cache
	repo       *storage.Repository
}

// NewExtractionService 創建擷取服務；repo 為 nil 時跳過持久化
func NewExtractionService(
	cfg *config.Config,
	fetcher PageFetcher,
	scraper PostScraper,
	engine *ocr.Engine,
	structurer *structure.Service,
	cache *Cache,
	repo *storage.Repository,
) *ExtractionService {
	return &ExtractionService{
		config:     cfg,
		fetcher:    fetcher,
		web:        extract.NewWebExtractor(),
		scraper:    scraper,
		engine:     engine,
		aggregator: ocr.NewAggregator(engine, cfg.Upload.MaxImages, cfg.OCR.ImageDelay),
		pdf:        pdf.NewExtractor(engine, &cfg.OCR),
		structurer: structurer,
		cache:      cache,
		repo:       repo,
	}
}

// ExtractFromURL 從 URL 擷取食譜；Instagram 連結走社群路徑，其餘走網頁路徑
func (s *ExtractionService) ExtractFromURL(ctx context.Context, url, userID string) *common.ExtractionResult {
	if !common.IsValidURL(url) {
		return common.Failure(common.ErrInvalidURL)
	}

	if social.IsInstagramURL(url) {
		return s.extractFromInstagram(ctx, url, userID)
	}
	return s.extractFromWeb(ctx, url, userID)
}

func (s *ExtractionService) extractFromWeb(ctx context.Context, url, userID string) *common.ExtractionResult {
	common.LogInfo("開始網頁食譜擷取",
		zap.String("domain", common.ExtractDomain(url)),
	)

	html, err := s.fetcher.FetchPage(ctx, url)
	if err != nil {
		return common.Failure(common.AsCustomError(err))
	}

	content, ok := s.web.ExtractContent(html)
	if !ok {
		return common.Failure(common.ErrNoRecipeContent.
			WithSuggestion("Try a different URL or a page that contains a full recipe."))
	}

	imageURL := s.web.ExtractMainImageURL(html, url)

	return s.structureAndSave(ctx, content, url, imageURL, userID, "web", nil, 0)
}

func (s *ExtractionService) extractFromInstagram(ctx context.Context, url, userID string) *common.ExtractionResult {
	common.LogInfo("開始 Instagram 食譜擷取",
		zap.String("shortcode", social.ExtractShortcode(url)),
	)

	post, err := s.scraper.ScrapePost(ctx, url)
	if err != nil {
		return common.Failure(common.AsCustomError(err))
	}

	caption := strings.TrimSpace(post.Caption)
	if caption == "" {
		return common.Failure(common.ErrNoRecipeContent.
			WithSuggestion("The post caption is empty. Try a post that includes the recipe in its caption."))
	}

	meta := &common.SocialMeta{
		Username:  post.OwnerUsername,
		Shortcode: social.ExtractShortcode(url),
		Likes:     post.LikesCount,
		Comments:  post.CommentsCount,
	}

	result := s.structureAndSave(ctx, caption, url, post.ImageURL(), userID, "instagram", meta, 0)
	return result
}

// ExtractFromImages 從多張圖片擷取食譜。圖片嚴格按提交順序處理，
// 暫存檔在回應產出後一律清除
func (s *ExtractionService) ExtractFromImages(ctx context.Context, files []*multipart.FileHeader, userID string) *common.ExtractionResult {
	if len(files) == 0 {
		return common.Failure(common.ErrNoImagesProvided)
	}
	if len(files) > s.aggregator.MaxImages() {
		return common.Failure(common.ErrTooManyImages)
	}
	if !s.engine.Available() {
		return common.Failure(common.ErrOCRUnavailable)
	}

	for _, file := range files {
		if err := ocr.ValidateImageFile(file.Filename, file.Size, s.config.Upload.MaxSizeBytes); err != nil {
			return common.Failure(common.AsCustomError(err))
		}
	}

	paths := make([]string, 0, len(files))
	defer func() { cleanupFiles(paths) }()

	for _, file := range files {
		path, err := saveUpload(file, s.config.Upload.Dir)
		if err != nil {
			common.LogError("上傳檔保存失敗", zap.Error(err))
			return common.Failure(common.ErrInternalError)
		}
		paths = append(paths, path)
	}

	text, err := s.aggregator.ExtractAll(ctx, paths)
	if err != nil {
		return common.Failure(common.AsCustomError(err))
	}

	// OCR 後稍作緩衝再送模型
	select {
	case <-time.After(structuringSettleDelay):
	case <-ctx.Done():
		return common.Failure(common.ErrRequestTimeout)
	}

	source := "image"
	if len(files) > 1 {
		source = "images"
	}
	return s.structureAndSave(ctx, text, "uploaded_"+source, "", userID, "image", nil, len(files))
}

// ExtractFromPDF 從 PDF 擷取食譜
func (s *ExtractionService) ExtractFromPDF(ctx context.Context, file *multipart.FileHeader, userID string) *common.ExtractionResult {
	if !strings.EqualFold(filepath.Ext(file.Filename), ".pdf") {
		return common.Failure(common.ErrInvalidRequest.
			WithSuggestion("Only PDF files are accepted on this endpoint."))
	}
	if file.Size > s.config.Upload.MaxSizeBytes {
		return common.Failure(common.ErrInvalidImageSize)
	}

	src, err := file.Open()
	if err != nil {
		common.LogError("PDF 上傳檔開啟失敗", zap.Error(err))
		return common.Failure(common.ErrInternalError)
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		common.LogError("PDF 上傳檔讀取失敗", zap.Error(err))
		return common.Failure(common.ErrInternalError)
	}

	text, err := s.pdf.ExtractText(ctx, content)
	if err != nil {
		return common.Failure(common.AsCustomError(err))
	}

	return s.structureAndSave(ctx, text, "uploaded_pdf:"+file.Filename, "", userID, "pdf", nil, 0)
}

// ExtractFromText 直接結構化一段文字，不經任何擷取策略
func (s *ExtractionService) ExtractFromText(ctx context.Context, text, userID string) *common.ExtractionResult {
	text = strings.TrimSpace(text)
	if text == "" {
		return common.Failure(common.ErrInvalidRequest.
			WithSuggestion("Provide the recipe text to process."))
	}
	return s.structureAndSave(ctx, text, "pasted_text", "", userID, "text", nil, 0)
}

// structureAndSave 共用尾段：快取 → 模型結構化 → 正規化 → 持久化
func (s *ExtractionService) structureAndSave(
	ctx context.Context,
	content, sourceURL, imageURL, userID, source string,
	socialMeta *common.SocialMeta,
	imageCount int,
) *common.ExtractionResult {
	var recipe *common.Recipe

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, content); err == nil {
			common.LogInfo("結構化結果快取命中", zap.String("source", source))
			recipe = cached
		}
	}

	if recipe == nil {
		structured, err := s.structurer.StructureRecipe(ctx, content)
		if err != nil {
			return common.Failure(common.AsCustomError(err).
				WithSuggestion("The content may not contain a complete recipe. Try a different source."))
		}
		recipe = structured

		if s.cache != nil {
			if err := s.cache.Set(ctx, content, recipe); err != nil {
				common.LogDebug("結構化結果快取寫入失敗", zap.Error(err))
			}
		}
	}

	result := &common.ExtractionResult{
		Success:    true,
		SourceURL:  sourceURL,
		ImageURL:   imageURL,
		Source:     source,
		Recipe:     recipe,
		ImageCount: imageCount,
		Social:     socialMeta,
	}

	if s.repo != nil {
		recipeID, err := s.repo.Save(ctx, recipe, sourceURL, imageURL, userID)
		if err != nil {
			return common.Failure(common.AsCustomError(err))
		}
		result.RecipeID = recipeID
	}

	return result
}

// ListRecipes 列出使用者的食譜，最新的在前
func (s *ExtractionService) ListRecipes(ctx context.Context, userID string) ([]common.RecipeRecord, error) {
	if s.repo == nil {
		return []common.RecipeRecord{}, nil
	}
	return s.repo.FetchByUser(ctx, userID)
}

// GetRecipe 取得使用者的單一食譜；不存在或非本人返回 nil
func (s *ExtractionService) GetRecipe(ctx context.Context, recipeID, userID string) (*common.RecipeRecord, error) {
	if s.repo == nil {
		return nil, nil
	}
	return s.repo.FetchOne(ctx, recipeID, userID)
}

// DeleteRecipe 刪除使用者的食譜；所有權不符返回 false
func (s *ExtractionService) DeleteRecipe(ctx context.Context, recipeID, userID string) (bool, error) {
	if s.repo == nil {
		return false, nil
	}
	return s.repo.Delete(ctx, recipeID, userID)
}
