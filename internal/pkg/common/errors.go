package common

import (
	"errors"
	"net/http"
)

// ErrorResponse 定義 API 錯誤響應結構
type ErrorResponse struct {
	Code       string `json:"code"`                 // 錯誤代碼
	Message    string `json:"message"`              // 錯誤信息
	Suggestion string `json:"suggestion,omitempty"` // 給用戶的建議
	Details    string `json:"details,omitempty"`    // 詳細信息（僅在開發模式顯示）
}

// CustomError 定義自定義錯誤類型
type CustomError struct {
	Code       string // 錯誤代碼
	Message    string // 錯誤信息
	Suggestion string // 給用戶的建議
	Err        error  // 原始錯誤
	Status     int    // HTTP 狀態碼
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewError 創建新的自定義錯誤
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// StatusForCode 錯誤代碼對應的 HTTP 狀態碼；未知代碼一律 500
func StatusForCode(code string) int {
	for _, err := range []*CustomError{
		ErrInvalidRequest, ErrUnauthorized, ErrForbidden, ErrNotFound,
		ErrRequestTimeout, ErrTooManyRequests, ErrServiceUnavailable,
		ErrGatewayTimeout, ErrInvalidURL, ErrFetchFailed, ErrNoRecipeContent,
		ErrAIExtractionFailed, ErrOCRUnavailable, ErrPDFNoText, ErrSaveFailed,
		ErrInvalidImageFormat, ErrInvalidImageSize, ErrTooManyImages, ErrNoImagesProvided,
	} {
		if err.Code == code {
			return err.Status
		}
	}
	return http.StatusInternalServerError
}

// AsCustomError 把任意錯誤轉成 CustomError；不是的話包成內部錯誤
func AsCustomError(err error) *CustomError {
	var customErr *CustomError
	if errors.As(err, &customErr) {
		return customErr
	}
	return NewError(ErrCodeInternalError, "服務器內部錯誤", http.StatusInternalServerError, err)
}

// WithSuggestion 附加建議訊息後返回副本
func (e *CustomError) WithSuggestion(suggestion string) *CustomError {
	clone := *e
	clone.Suggestion = suggestion
	return &clone
}

// 預定義錯誤代碼
const (
	// 客戶端錯誤 (4xx)
	ErrCodeInvalidRequest  = "INVALID_REQUEST"   // 400
	ErrCodeUnauthorized    = "UNAUTHORIZED"      // 401
	ErrCodeForbidden       = "FORBIDDEN"         // 403
	ErrCodeNotFound        = "NOT_FOUND"         // 404
	ErrCodeRequestTimeout  = "REQUEST_TIMEOUT"   // 408
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS" // 429

	// 服務器錯誤 (5xx)
	ErrCodeInternalError      = "INTERNAL_ERROR"      // 500
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE" // 503
	ErrCodeGatewayTimeout     = "GATEWAY_TIMEOUT"     // 504

	// 擷取流程錯誤
	ErrCodeInvalidURL         = "INVALID_URL"
	ErrCodeFetchFailed        = "FETCH_FAILED"
	ErrCodeNoRecipeContent    = "NO_RECIPE_CONTENT"
	ErrCodeAIExtractionFailed = "AI_EXTRACTION_FAILED"
	ErrCodeOCRUnavailable     = "OCR_UNAVAILABLE"
	ErrCodePDFNoText          = "PDF_NO_TEXT"
	ErrCodeSaveFailed         = "SAVE_FAILED"
)

// 預定義錯誤
var (
	// 客戶端錯誤
	ErrInvalidRequest  = NewError(ErrCodeInvalidRequest, "無效的請求", http.StatusBadRequest, nil)
	ErrUnauthorized    = NewError(ErrCodeUnauthorized, "未授權的訪問", http.StatusUnauthorized, nil)
	ErrForbidden       = NewError(ErrCodeForbidden, "禁止訪問", http.StatusForbidden, nil)
	ErrNotFound        = NewError(ErrCodeNotFound, "資源不存在", http.StatusNotFound, nil)
	ErrRequestTimeout  = NewError(ErrCodeRequestTimeout, "請求超時", http.StatusRequestTimeout, nil)
	ErrTooManyRequests = NewError(ErrCodeTooManyRequests, "請求過於頻繁", http.StatusTooManyRequests, nil)

	// 服務器錯誤
	ErrInternalError      = NewError(ErrCodeInternalError, "服務器內部錯誤", http.StatusInternalServerError, nil)
	ErrServiceUnavailable = NewError(ErrCodeServiceUnavailable, "服務暫時不可用", http.StatusServiceUnavailable, nil)
	ErrGatewayTimeout     = NewError(ErrCodeGatewayTimeout, "網關超時", http.StatusGatewayTimeout, nil)

	// 擷取流程錯誤
	ErrInvalidURL = NewError(ErrCodeInvalidURL,
		"Invalid URL format. Please provide a valid HTTP/HTTPS URL.", http.StatusBadRequest, nil)
	ErrFetchFailed = NewError(ErrCodeFetchFailed,
		"Failed to fetch webpage content or content is empty", http.StatusBadGateway, nil)
	ErrNoRecipeContent = NewError(ErrCodeNoRecipeContent,
		"No recipe content found on the webpage", http.StatusUnprocessableEntity, nil)
	ErrAIExtractionFailed = NewError(ErrCodeAIExtractionFailed,
		"AI failed to extract recipe information from the content", http.StatusUnprocessableEntity, nil)
	ErrOCRUnavailable = NewError(ErrCodeOCRUnavailable,
		"OCR service unavailable. Tesseract is not installed or accessible.", http.StatusServiceUnavailable, nil)
	ErrPDFNoText = NewError(ErrCodePDFNoText,
		"The PDF file doesn't contain any readable text or images with text.", http.StatusUnprocessableEntity, nil)
	ErrSaveFailed = NewError(ErrCodeSaveFailed,
		"Failed to save recipe to database", http.StatusInternalServerError, nil)

	// 上傳錯誤
	ErrInvalidImageFormat = NewError("INVALID_IMAGE_FORMAT", "無效的圖片格式", http.StatusBadRequest, nil)
	ErrInvalidImageSize   = NewError("INVALID_IMAGE_SIZE", "圖片大小超出限制", http.StatusBadRequest, nil)
	ErrTooManyImages      = NewError("TOO_MANY_IMAGES", "Too many images. Maximum 10 images allowed.", http.StatusBadRequest, nil)
	ErrNoImagesProvided   = NewError("NO_IMAGES_PROVIDED", "No images provided", http.StatusBadRequest, nil)
)
