package recipe

import (
	"net/http"

	"souschef-api/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HandleListRecipes GET /api/recipes。
// 已登入返回該使用者的食譜（新的在前），匿名返回空列表
func (h *Handler) HandleListRecipes(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		c.JSON(http.StatusOK, gin.H{
			"success":       true,
			"recipes":       []common.RecipeRecord{},
			"user_specific": false,
		})
		return
	}

	records, err := h.service.ListRecipes(c.Request.Context(), userID)
	if err != nil {
		common.LogError("食譜列表讀取失敗", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   common.ErrCodeInternalError,
			"message": "Failed to fetch recipes",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"recipes":       records,
		"user_specific": true,
	})
}

// HandleGetRecipe GET /api/recipes/:id
func (h *Handler) HandleGetRecipe(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		c.JSON(common.ErrUnauthorized.Status, gin.H{
			"success": false,
			"error":   common.ErrCodeUnauthorized,
			"message": "Authentication required",
		})
		return
	}

	record, err := h.service.GetRecipe(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		common.LogError("食譜讀取失敗", zap.String("recipe_id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   common.ErrCodeInternalError,
			"message": "Failed to fetch recipe",
		})
		return
	}
	if record == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   common.ErrCodeNotFound,
			"message": "Recipe not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"recipe":  record,
	})
}

// HandleDeleteRecipe DELETE /api/recipes/:id。
// 所有權不符與不存在同樣返回 404，不洩漏他人食譜的存在
func (h *Handler) HandleDeleteRecipe(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		c.JSON(common.ErrUnauthorized.Status, gin.H{
			"success": false,
			"error":   common.ErrCodeUnauthorized,
			"message": "Authentication required",
		})
		return
	}

	deleted, err := h.service.DeleteRecipe(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		common.LogError("食譜刪除失敗", zap.String("recipe_id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   common.ErrCodeInternalError,
			"message": "Failed to delete recipe",
		})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   common.ErrCodeNotFound,
			"message": "Recipe not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Recipe deleted",
	})
}
