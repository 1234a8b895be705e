package health

import (
	"net/http"
	"runtime"
	"time"

	"souschef-api/internal/core/ocr"
	"souschef-api/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
)

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Services  map[string]string      `json:"services"`
	Runtime   map[string]interface{} `json:"runtime"`
}

// Handler 健康檢查處理器
type Handler struct {
	config *config.Config
	engine *ocr.Engine
}

// NewHandler 創建健康檢查處理器
func NewHandler(cfg *config.Config, engine *ocr.Engine) *Handler {
	return &Handler{config: cfg, engine: engine}
}

// HealthCheck GET /health
func (h *Handler) HealthCheck(c *gin.Context) {
	services := map[string]string{
		"recipe_extraction": "active",
		"instagram_support": serviceStatus(h.config.Apify.Token != ""),
		"ai_processing":     serviceStatus(h.config.OpenRouter.APIKey != ""),
		"persistence":       serviceStatus(h.config.Supabase.URL != ""),
		"ocr":               serviceStatus(h.engine.Available()),
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   h.config.App.Version,
		Services:  services,
		Runtime: map[string]interface{}{
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	})
}

// LivenessCheck GET /live
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

// ReadinessCheck GET /ready：模型金鑰沒配置就不算就緒
func (h *Handler) ReadinessCheck(c *gin.Context) {
	if h.config.OpenRouter.APIKey == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not_ready",
			"reason": "model API key not configured",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func serviceStatus(active bool) string {
	if active {
		return "active"
	}
	return "inactive"
}
