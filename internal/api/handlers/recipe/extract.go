package recipe

import (
	"net/http"

	recipeService "souschef-api/internal/core/recipe"
	"souschef-api/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 食譜擷取相關的 HTTP 處理器
type Handler struct {
	service *recipeService.ExtractionService
}

// NewHandler 創建處理器
func NewHandler(service *recipeService.ExtractionService) *Handler {
	return &Handler{service: service}
}

// ExtractURLRequest 從 URL 擷取食譜
type ExtractURLRequest struct {
	URL string `json:"url" binding:"required"` // 食譜網頁或 Instagram 貼文連結
}

// ExtractTextRequest 直接結構化一段食譜文字
type ExtractTextRequest struct {
	Text string `json:"text" binding:"required"`
}

// HandleExtractURL POST /api/extract
func (h *Handler) HandleExtractURL(c *gin.Context) {
	var req ExtractURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondResult(c, common.Failure(common.ErrInvalidRequest.
			WithSuggestion("Request body must be JSON with a \"url\" field.")))
		return
	}

	common.LogInfo("收到 URL 擷取請求",
		zap.String("domain", common.ExtractDomain(req.URL)),
		zap.Bool("authenticated", currentUserID(c) != ""),
	)

	result := h.service.ExtractFromURL(c.Request.Context(), req.URL, currentUserID(c))
	respondResult(c, result)
}

// HandleExtractText POST /api/extract-text
func (h *Handler) HandleExtractText(c *gin.Context) {
	var req ExtractTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondResult(c, common.Failure(common.ErrInvalidRequest.
			WithSuggestion("Request body must be JSON with a \"text\" field.")))
		return
	}

	result := h.service.ExtractFromText(c.Request.Context(), req.Text, currentUserID(c))
	respondResult(c, result)
}

// HandleExtractImages POST /api/extract-images（multipart，欄位名 images）
func (h *Handler) HandleExtractImages(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		respondResult(c, common.Failure(common.ErrInvalidRequest.
			WithSuggestion("Send images as multipart form data under the \"images\" field.")))
		return
	}

	files := form.File["images"]
	common.LogInfo("收到圖片擷取請求",
		zap.Int("image_count", len(files)),
		zap.Bool("authenticated", currentUserID(c) != ""),
	)

	result := h.service.ExtractFromImages(c.Request.Context(), files, currentUserID(c))
	respondResult(c, result)
}

// HandleExtractPDF POST /api/extract-pdf（multipart，欄位名 pdf）
func (h *Handler) HandleExtractPDF(c *gin.Context) {
	file, err := c.FormFile("pdf")
	if err != nil {
		respondResult(c, common.Failure(common.ErrInvalidRequest.
			WithSuggestion("Send the PDF as multipart form data under the \"pdf\" field.")))
		return
	}

	common.LogInfo("收到 PDF 擷取請求",
		zap.String("filename", file.Filename),
		zap.Int64("size", file.Size),
	)

	result := h.service.ExtractFromPDF(c.Request.Context(), file, currentUserID(c))
	respondResult(c, result)
}

// supportedRecipeDomains 擷取品質穩定的食譜網站
var supportedRecipeDomains = []gin.H{
	{"domain": "allrecipes.com", "supported": true},
	{"domain": "foodnetwork.com", "supported": true},
	{"domain": "bbcgoodfood.com", "supported": true},
	{"domain": "seriouseats.com", "supported": true},
	{"domain": "simplyrecipes.com", "supported": true},
}

// HandleSupportedDomains GET /api/supported-domains
func (h *Handler) HandleSupportedDomains(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"instagram": gin.H{
			"domain":    "instagram.com",
			"supported": true,
			"notes":     "Posts with recipe content in captions",
		},
		"recipe_sites": supportedRecipeDomains,
		"general_web": gin.H{
			"supported":  true,
			"notes":      "Any website with readable recipe content",
			"confidence": "variable",
		},
	})
}
