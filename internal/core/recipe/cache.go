package recipe

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"souschef-api/internal/infrastructure/config"
	"souschef-api/internal/pkg/common"

	"github.com/go-redis/redis/v8"
)

// Cache 結構化結果快取：同一段擷取文字不重複打模型。
// 鍵用文字的 sha256，避免把整段內容塞進 redis key。
type Cache struct {
	client *redis.Client
	config *config.CacheConfig
}

// NewCache 創建快取；未啟用時返回永遠 miss 的空殼
func NewCache(cfg *config.CacheConfig) (*Cache, error) {
	if !cfg.Enabled {
		return &Cache{config: cfg}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
	})

	// 測試連接
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Cache{
		client: client,
		config: cfg,
	}, nil
}

// Get 獲取快取的結構化結果
func (c *Cache) Get(ctx context.Context, content string) (*common.Recipe, error) {
	if !c.config.Enabled || c.client == nil {
		return nil, fmt.Errorf("cache is disabled")
	}

	data, err := c.client.Get(ctx, c.generateKey(content)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("cache miss")
		}
		return nil, fmt.Errorf("failed to get cache: %w", err)
	}

	var recipe common.Recipe
	if err := common.ParseJSONBytes(data, &recipe); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache: %w", err)
	}

	return &recipe, nil
}

// Set 設置快取
func (c *Cache) Set(ctx context.Context, content string, recipe *common.Recipe) error {
	if !c.config.Enabled || c.client == nil {
		return nil
	}

	data, err := common.ToJSON(recipe)
	if err != nil {
		return fmt.Errorf("failed to marshal recipe: %w", err)
	}

	if err := c.client.Set(ctx, c.generateKey(content), data, c.config.TTL).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}

	return nil
}

// generateKey 生成快取鍵
func (c *Cache) generateKey(content string) string {
	sum := sha256.Sum256([]byte(content))
	return "recipe:structured:" + hex.EncodeToString(sum[:])
}
