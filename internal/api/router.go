package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	healthHandler "souschef-api/internal/api/handlers/health"
	recipeHandler "souschef-api/internal/api/handlers/recipe"
	"souschef-api/internal/api/middleware"
	"souschef-api/internal/core/auth"
	"souschef-api/internal/core/fetch"
	"souschef-api/internal/core/ocr"
	recipeService "souschef-api/internal/core/recipe"
	"souschef-api/internal/core/social"
	"souschef-api/internal/core/structure"
	"souschef-api/internal/infrastructure/config"
	"souschef-api/internal/infrastructure/storage"
	"souschef-api/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 整條擷取管線（含 OCR 與模型呼叫）的請求超時
	timeoutDuration = 120 * time.Second
	// 請求體大小限制 (32MB，多圖上傳要留餘裕)
	maxBodySize = 32 << 20
)

// SetupRouter 組裝服務與路由
func SetupRouter(cfg *config.Config) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(requestid.New())

	verifier := auth.NewVerifier(cfg.Supabase.JWTSecret)
	router.Use(middleware.Auth(verifier))
	router.Use(middleware.Logger())

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(maxBodySize))

	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	// 請求超時
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if ctx.Err() == context.DeadlineExceeded && !c.Writer.Written() {
			c.AbortWithStatusJSON(http.StatusGatewayTimeout, gin.H{
				"success": false,
				"error":   common.ErrCodeRequestTimeout,
				"message": "Request timeout",
			})
		}
	})

	// 初始化服務
	fetcher := fetch.NewFetcher(&cfg.Fetch)
	scraper := social.NewScraper(&cfg.Apify)
	engine := ocr.NewEngine(&cfg.OCR)
	structurer := structure.NewService(structure.NewOpenRouterClient(&cfg.OpenRouter))

	cache, err := recipeService.NewCache(&cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}

	var repo *storage.Repository
	if cfg.Supabase.URL != "" && cfg.Supabase.Key != "" {
		repo = storage.NewRepository(storage.NewClient(&cfg.Supabase))
	} else {
		common.LogWarn("Supabase 未配置，擷取結果不會持久化")
	}

	extractionSvc := recipeService.NewExtractionService(
		cfg, fetcher, scraper, engine, structurer, cache, repo)

	common.LogInfo("Services initialized",
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.Bool("persistence_enabled", repo != nil),
		zap.Bool("ocr_available", engine.Available()),
		zap.String("model", cfg.OpenRouter.Model),
	)

	// 健康檢查路由
	health := healthHandler.NewHandler(cfg, engine)
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	// API 路由組
	handler := recipeHandler.NewHandler(extractionSvc)
	api := router.Group("/api")
	{
		api.POST("/extract", handler.HandleExtractURL)
		api.POST("/extract-text", handler.HandleExtractText)
		api.POST("/extract-images", handler.HandleExtractImages)
		api.POST("/extract-pdf", handler.HandleExtractPDF)

		api.GET("/recipes", handler.HandleListRecipes)
		api.GET("/recipes/:id", handler.HandleGetRecipe)
		api.DELETE("/recipes/:id", handler.HandleDeleteRecipe)

		api.GET("/supported-domains", handler.HandleSupportedDomains)
	}

	common.LogInfo("Router setup completed",
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}
