package social

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"souschef-api/internal/infrastructure/config"
	"souschef-api/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const apifyBaseURL = "https://api.apify.com/v2"

// Instagram 貼文 URL 的合法樣式（p / reel / tv）
var instagramPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^https?://(?:www\.)?instagram\.com/p/[A-Za-z0-9_-]+`),
	regexp.MustCompile(`^https?://(?:www\.)?instagram\.com/reel/[A-Za-z0-9_-]+`),
	regexp.MustCompile(`^https?://(?:www\.)?instagram\.com/tv/[A-Za-z0-9_-]+`),
}

var shortcodePattern = regexp.MustCompile(`instagram\.com/(?:p|reel|tv)/([A-Za-z0-9_-]+)`)

// IsInstagramURL 驗證是否為 Instagram 貼文 URL
func IsInstagramURL(url string) bool {
	url = strings.TrimSpace(url)
	for _, p := range instagramPatterns {
		if p.MatchString(url) {
			return true
		}
	}
	return false
}

// ExtractShortcode 從貼文 URL 取出 shortcode
func ExtractShortcode(url string) string {
	if m := shortcodePattern.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	return ""
}

// Post 抓取到的貼文內容
type Post struct {
	Caption       string `json:"caption"`
	DisplayURL    string `json:"displayUrl"`
	ThumbnailSrc  string `json:"thumbnailSrc"`
	OwnerUsername string `json:"ownerUsername"`
	LikesCount    int    `json:"likesCount"`
	CommentsCount int    `json:"commentsCount"`
	Timestamp     string `json:"timestamp"`
}

// ImageURL 取出貼文主圖，依欄位可用性退讓
func (p *Post) ImageURL() string {
	if p.DisplayURL != "" {
		return p.DisplayURL
	}
	return p.ThumbnailSrc
}

// Scraper Instagram 貼文抓取服務（透過 Apify actor）
type Scraper struct {
	client *resty.Client
	actor  string
	token  string
}

// NewScraper 創建 Instagram 抓取服務
func NewScraper(cfg *config.ApifyConfig) *Scraper {
	client := resty.New().
		SetBaseURL(apifyBaseURL)

	return &Scraper{
		client: client,
		actor:  cfg.Actor,
		token:  cfg.Token,
	}
}

// ScrapePost 抓取單一貼文。失敗原因分類：認證失敗、配額用盡、找不到/私人貼文
func (s *Scraper) ScrapePost(ctx context.Context, url string) (*Post, error) {
	shortcode := ExtractShortcode(url)
	if shortcode == "" {
		return nil, common.NewError(common.ErrCodeInvalidURL,
			"Invalid Instagram URL format",
			http.StatusBadRequest, nil).
			WithSuggestion("Please provide a valid Instagram post, reel, or TV URL, e.g. https://www.instagram.com/p/ABC123/")
	}

	// actor id 在 API 路徑中以 ~ 取代 /
	actorPath := strings.ReplaceAll(s.actor, "/", "~")

	var posts []Post
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("token", s.token).
		SetBody(map[string]interface{}{
			"directUrls":   []string{url},
			"resultsType":  "posts",
			"resultsLimit": 1,
		}).
		SetResult(&posts).
		Post(fmt.Sprintf("/acts/%s/run-sync-get-dataset-items", actorPath))

	if err != nil {
		common.LogError("Apify 請求失敗",
			zap.String("url", url),
			zap.Error(err),
		)
		return nil, common.NewError(common.ErrCodeFetchFailed,
			"Failed to reach the Instagram scraping service",
			http.StatusBadGateway, err).
			WithSuggestion("Try again later or check if the Instagram post is publicly accessible.")
	}

	switch {
	case resp.StatusCode() == http.StatusUnauthorized || resp.StatusCode() == http.StatusForbidden:
		return nil, common.NewError(common.ErrCodeUnauthorized,
			"Invalid or missing Apify token",
			http.StatusBadGateway, nil).
			WithSuggestion("Set the APIFY_TOKEN environment variable with a valid token.")
	case resp.StatusCode() == http.StatusTooManyRequests || resp.StatusCode() == http.StatusPaymentRequired:
		return nil, common.NewError(common.ErrCodeTooManyRequests,
			"Apify usage limits have been reached",
			http.StatusBadGateway, nil).
			WithSuggestion("Wait for quota reset or upgrade your Apify plan.")
	case resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusCreated:
		return nil, common.NewError(common.ErrCodeFetchFailed,
			fmt.Sprintf("Instagram scraping failed (status %d)", resp.StatusCode()),
			http.StatusBadGateway, nil).
			WithSuggestion("Try again later or check if the Instagram post is publicly accessible.")
	}

	if len(posts) == 0 {
		return nil, common.NewError(common.ErrCodeNotFound,
			"The Instagram post could not be scraped or contains no data",
			http.StatusNotFound, nil).
			WithSuggestion("The post may be private, deleted, or temporarily unavailable.")
	}

	common.LogInfo("Instagram 貼文抓取成功",
		zap.String("shortcode", shortcode),
		zap.String("username", posts[0].OwnerUsername),
	)
	return &posts[0], nil
}
