package recipe

import (
	"net/http"

	"souschef-api/internal/api/middleware"
	"souschef-api/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// respondResult 統一輸出擷取結果：成功 200，失敗依錯誤代碼對應狀態碼
func respondResult(c *gin.Context, result *common.ExtractionResult) {
	if result.Success {
		c.JSON(http.StatusOK, result)
		return
	}
	c.JSON(common.StatusForCode(result.ErrorCode), result)
}

// currentUserID 取出中間件驗證過的 user id；匿名請求返回空字串
func currentUserID(c *gin.Context) string {
	return c.GetString(middleware.ContextUserID)
}
