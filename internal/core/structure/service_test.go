package structure

import (
	"context"
	"errors"
	"testing"

	"souschef-api/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	response string
	err      error
}

func (f *fakeCompleter) GenerateResponse(_ context.Context, _ string) (string, error) {
	return f.response, f.err
}

func TestStructureRecipeParsesSurroundedJSON(t *testing.T) {
	svc := NewService(&fakeCompleter{
		response: "Here is the recipe you asked for:\n```json\n" +
			`{"title": "Tomato Soup", "servings": 4, "ingredients": [{"name": "tomato", "quantity": "6"}]}` +
			"\n```\nLet me know if you need anything else!",
	})

	recipe, err := svc.StructureRecipe(context.Background(), "some extracted text")
	require.NoError(t, err)
	assert.Equal(t, "Tomato Soup", recipe.Title)
	assert.Equal(t, 4, recipe.Servings)
	require.Len(t, recipe.Ingredients, 1)
	assert.Equal(t, "tomato", recipe.Ingredients[0].Name)
}

func TestStructureRecipeCompleterFailure(t *testing.T) {
	svc := NewService(&fakeCompleter{err: errors.New("connection refused")})

	_, err := svc.StructureRecipe(context.Background(), "text")
	require.Error(t, err)
	assert.Equal(t, common.ErrCodeAIExtractionFailed, common.AsCustomError(err).Code)
}

func TestStructureRecipeNoJSONInResponse(t *testing.T) {
	svc := NewService(&fakeCompleter{response: "Sorry, I could not find a recipe in that content."})

	_, err := svc.StructureRecipe(context.Background(), "text")
	require.Error(t, err)
	assert.Equal(t, common.ErrCodeAIExtractionFailed, common.AsCustomError(err).Code)
}

func TestStructureRecipeRetriesUnquotedKeys(t *testing.T) {
	svc := NewService(&fakeCompleter{
		response: `{title: "Quick Salad", servings: 3, ingredients: [{name: "lettuce", quantity: "1"}]}`,
	})

	recipe, err := svc.StructureRecipe(context.Background(), "salad text")
	require.NoError(t, err)
	assert.Equal(t, "Quick Salad", recipe.Title)
	assert.Equal(t, 3, recipe.Servings)
	require.Len(t, recipe.Ingredients, 1)
	assert.Equal(t, "lettuce", recipe.Ingredients[0].Name)
}

func TestStructureRecipeMalformedJSON(t *testing.T) {
	svc := NewService(&fakeCompleter{response: `{"title": "Broken", "servings": }`})

	_, err := svc.StructureRecipe(context.Background(), "text")
	require.Error(t, err)
	assert.Equal(t, common.ErrCodeAIExtractionFailed, common.AsCustomError(err).Code)
}

func TestBuildExtractionPromptEmbedsContent(t *testing.T) {
	prompt := buildExtractionPrompt("1 cup flour\n2 eggs")

	assert.Contains(t, prompt, "1 cup flour")
	assert.Contains(t, prompt, "Return ONLY a JSON object")
	assert.Contains(t, prompt, "MUST be exactly 2")
}
