package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	OpenRouter OpenRouterConfig `mapstructure:"openrouter"`
	Apify      ApifyConfig      `mapstructure:"apify"`
	Supabase   SupabaseConfig   `mapstructure:"supabase"`
	Fetch      FetchConfig      `mapstructure:"fetch"`
	Upload     UploadConfig     `mapstructure:"upload"`
	OCR        OCRConfig        `mapstructure:"ocr"`
	Cache      CacheConfig      `mapstructure:"cache"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	LogLevel   string           `mapstructure:"log_level"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// OpenRouterConfig OpenRouter 配置
type OpenRouterConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// ApifyConfig Instagram 貼文抓取服務配置
type ApifyConfig struct {
	Token string `mapstructure:"token"`
	Actor string `mapstructure:"actor"`
}

// SupabaseConfig 持久化存儲配置
type SupabaseConfig struct {
	URL       string `mapstructure:"url"`
	Key       string `mapstructure:"key"`
	JWTSecret string `mapstructure:"jwt_secret"`
}

// FetchConfig 網頁抓取配置
type FetchConfig struct {
	Timeout  time.Duration `mapstructure:"timeout"`
	MaxBytes int64         `mapstructure:"max_bytes"`
}

// UploadConfig 上傳配置
type UploadConfig struct {
	Dir          string `mapstructure:"dir"`
	MaxSizeBytes int64  `mapstructure:"max_size_bytes"`
	MaxImages    int    `mapstructure:"max_images"`
}

// OCRConfig OCR 引擎配置
type OCRConfig struct {
	TesseractArgs []string      `mapstructure:"tesseract_args"`
	PDFRenderDPI  int           `mapstructure:"pdf_render_dpi"`
	ImageDelay    time.Duration `mapstructure:"image_delay"`
}

// CacheConfig 結構化結果快取配置（redis）
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Addr    string        `mapstructure:"addr"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// 加載 .env 文件（不存在時不視為錯誤）
	_ = godotenv.Load()

	// 設定預設值
	setDefaults()

	// 設定環境變數前綴
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// 綁定環境變量
	viper.BindEnv("openrouter.api_key", "OPENROUTER_API_KEY")
	viper.BindEnv("openrouter.model", "OPENROUTER_MODEL")
	viper.BindEnv("openrouter.max_tokens", "MODEL_MAX_TOKENS")
	viper.BindEnv("apify.token", "APIFY_TOKEN")
	viper.BindEnv("apify.actor", "APIFY_ACTOR")
	viper.BindEnv("supabase.url", "SUPABASE_URL")
	viper.BindEnv("supabase.key", "SUPABASE_KEY")
	viper.BindEnv("supabase.jwt_secret", "SUPABASE_JWT_SECRET")
	viper.BindEnv("upload.dir", "UPLOAD_DIR")
	viper.BindEnv("cache.enabled", "CACHE_ENABLED")
	viper.BindEnv("cache.addr", "REDIS_ADDR")
	viper.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	viper.BindEnv("rate_limit.requests", "RATE_LIMIT_REQUESTS")
	viper.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	viper.BindEnv("server.port", "PORT")
	viper.BindEnv("log_level", "LOG_LEVEL")

	// 設定設定檔名稱和路徑
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	// 讀取設定檔
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// 添加調試日誌（logger 尚未初始化，改用 fmt.Println）
	fmt.Println("Loading configuration",
		"openrouter_api_key:", maskAPIKey(viper.GetString("openrouter.api_key")),
		"openrouter_model:", viper.GetString("openrouter.model"),
		"supabase_url:", viper.GetString("supabase.url"))

	// 解析設定
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 驗證必要設定
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// maskAPIKey 遮罩 API Key，只顯示前後各 4 個字符
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// setDefaults 設定預設值
func setDefaults() {
	// 應用程式設定
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.debug", true)
	viper.SetDefault("app.version", "1.0.0")
	viper.SetDefault("app.name", "souschef-api")

	// 伺服器設定
	viper.SetDefault("server.port", 8000)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "120s")
	viper.SetDefault("server.idle_timeout", "120s")

	// OpenRouter 設定
	viper.SetDefault("openrouter.model", "anthropic/claude-3-haiku")
	viper.SetDefault("openrouter.max_tokens", 2048)
	viper.SetDefault("openrouter.temperature", 0.1)
	viper.SetDefault("openrouter.timeout", "45s")

	// Apify 設定
	viper.SetDefault("apify.actor", "apify/instagram-post-scraper")

	// 網頁抓取設定
	viper.SetDefault("fetch.timeout", "30s")
	viper.SetDefault("fetch.max_bytes", 1_000_000) // 1MB

	// 上傳設定
	viper.SetDefault("upload.dir", "uploads")
	viper.SetDefault("upload.max_size_bytes", 10*1024*1024) // 10MB
	viper.SetDefault("upload.max_images", 10)

	// OCR 設定：--oem 3 --psm 6 對整塊文字版面效果最穩定
	viper.SetDefault("ocr.tesseract_args", []string{"--oem", "3", "--psm", "6"})
	viper.SetDefault("ocr.pdf_render_dpi", 150)
	viper.SetDefault("ocr.image_delay", "300ms")

	// 快取設定
	viper.SetDefault("cache.enabled", false)
	viper.SetDefault("cache.addr", "localhost:6379")
	viper.SetDefault("cache.ttl", "24h")

	// 限流設定
	viper.SetDefault("rate_limit.enabled", true)
	viper.SetDefault("rate_limit.requests", 100)
	viper.SetDefault("rate_limit.window", "1m")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	if config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}

	if config.Fetch.Timeout <= 0 {
		return fmt.Errorf("invalid fetch timeout")
	}
	if config.Fetch.MaxBytes <= 0 {
		return fmt.Errorf("invalid fetch max bytes")
	}

	if config.Upload.MaxImages <= 0 {
		return fmt.Errorf("invalid upload max images")
	}

	if config.Cache.Enabled {
		if config.Cache.Addr == "" {
			return fmt.Errorf("cache addr is required when cache is enabled")
		}
		if config.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache ttl")
		}
	}

	return nil
}
