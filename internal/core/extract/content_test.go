package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jsonLDPage = `<html><head>
<script type="application/ld+json">
{"@type":"Recipe","name":"Test Recipe",
 "recipeIngredient":["1 cup flour","2 eggs"],
 "recipeInstructions":[{"text":"Mix"},{"text":"Bake"}]}
</script>
</head><body></body></html>`

const selectorPage = `<html><body>
<h1 class="recipe-title">Selector Soup</h1>
<ul class="recipe-ingredients">
<li>2 carrots, chopped</li>
<li>1 onion, diced</li>
<li>4 cups vegetable stock</li>
</ul>
<ol class="recipe-instructions">
<li>Saute the onion until translucent.</li>
<li>Add carrots and stock, then simmer for 20 minutes.</li>
</ol>
</body></html>`

func TestExtractContentJSONLD(t *testing.T) {
	text, ok := NewWebExtractor().ExtractContent(jsonLDPage)
	require.True(t, ok)

	// 內容與相對順序都要保留
	positions := []int{
		strings.Index(text, "Test Recipe"),
		strings.Index(text, "1 cup flour"),
		strings.Index(text, "Mix"),
		strings.Index(text, "Bake"),
	}
	for i, pos := range positions {
		assert.GreaterOrEqual(t, pos, 0, "missing expected fragment %d", i)
		if i > 0 {
			assert.Greater(t, pos, positions[i-1], "fragment %d out of order", i)
		}
	}
}

func TestExtractContentJSONLDGraph(t *testing.T) {
	page := `<html><head><script type="application/ld+json">
	{"@graph":[{"@type":"WebSite","name":"Food Blog"},
	 {"@type":["Recipe","Thing"],"name":"Graph Recipe",
	  "recipeIngredient":["salt"],
	  "recipeInstructions":"Season to taste."}]}
	</script></head><body></body></html>`

	text, ok := NewWebExtractor().ExtractContent(page)
	require.True(t, ok)
	assert.Contains(t, text, "Graph Recipe")
	assert.Contains(t, text, "Season to taste.")
}

func TestExtractContentJSONLDWinsOverSelectors(t *testing.T) {
	// 同頁面同時有 JSON-LD 和可命中的選擇器，JSON-LD 獲勝
	combined := strings.Replace(jsonLDPage, "<body></body>",
		"<body>"+selectorPage[strings.Index(selectorPage, "<h1"):strings.Index(selectorPage, "</body>")]+"</body>", 1)

	text, ok := NewWebExtractor().ExtractContent(combined)
	require.True(t, ok)
	assert.Contains(t, text, "Test Recipe")
	assert.NotContains(t, text, "Selector Soup")
}

func TestExtractContentSelectors(t *testing.T) {
	text, ok := NewWebExtractor().ExtractContent(selectorPage)
	require.True(t, ok)
	assert.Contains(t, text, "Selector Soup")
	assert.Contains(t, text, "- 2 carrots, chopped")
	assert.Contains(t, text, "1. Saute the onion until translucent.")
}

func TestExtractContentSelectorsTooFewIngredients(t *testing.T) {
	page := `<html><body>
	<ul class="recipe-ingredients"><li>2 carrots, chopped</li><li>1 onion, diced</li></ul>
	</body></html>`

	_, ok := NewWebExtractor().ExtractContent(page)
	assert.False(t, ok)
}

func TestExtractContentMicrodata(t *testing.T) {
	page := `<html><body>
	<div itemscope itemtype="https://schema.org/Recipe">
	  <span itemprop="name">Microdata Muffins</span>
	  <span itemprop="recipeIngredient">2 cups flour</span>
	  <span itemprop="recipeIngredient">1 cup sugar</span>
	  <div itemprop="recipeInstructions">Combine and bake at 180C.</div>
	</div>
	</body></html>`

	text, ok := NewWebExtractor().ExtractContent(page)
	require.True(t, ok)
	assert.Contains(t, text, "Microdata Muffins")
	assert.Contains(t, text, "2 cups flour")
	assert.Contains(t, text, "Combine and bake at 180C.")
}

func TestExtractContentGenericFallback(t *testing.T) {
	body := strings.Repeat("Slow roasted tomatoes with garlic and fresh basil. ", 10)
	page := `<html><body>
	<nav>Home | Recipes | About</nav>
	<main><p>` + body + `</p></main>
	<footer>Copyright</footer>
	</body></html>`

	text, ok := NewWebExtractor().ExtractContent(page)
	require.True(t, ok)
	assert.Contains(t, text, "Slow roasted tomatoes")
	assert.NotContains(t, text, "Copyright")
}

func TestExtractContentNothingFound(t *testing.T) {
	_, ok := NewWebExtractor().ExtractContent("<html><body><p>Hi.</p></body></html>")
	assert.False(t, ok)
}

func TestExtractMainImageURL(t *testing.T) {
	page := `<html><head>
	<meta property="og:image" content="/images/hero.jpg">
	</head><body></body></html>`

	url := NewWebExtractor().ExtractMainImageURL(page, "https://example.com/recipes/1")
	assert.Equal(t, "https://example.com/images/hero.jpg", url)
}
