package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"souschef-api/internal/infrastructure/config"
	"souschef-api/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePostgREST 記錄列操作的假 PostgREST 後端
type fakePostgREST struct {
	mu        map[string][]map[string]interface{} // table -> inserted rows
	deletes   []string                            // "table?rawquery"
	failTable string                              // 這個表的 insert 一律 500
	selects   map[string]string                   // table -> canned JSON array
}

func newFakePostgREST() *fakePostgREST {
	return &fakePostgREST{
		mu:      map[string][]map[string]interface{}{},
		selects: map[string]string{},
	}
}

func (f *fakePostgREST) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		table := strings.TrimPrefix(r.URL.Path, "/rest/v1/")

		switch r.Method {
		case http.MethodPost:
			if table == f.failTable {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			body, _ := io.ReadAll(r.Body)
			var rows []map[string]interface{}
			if err := json.Unmarshal(body, &rows); err != nil {
				var row map[string]interface{}
				if err := json.Unmarshal(body, &row); err == nil {
					rows = []map[string]interface{}{row}
				}
			}
			f.mu[table] = append(f.mu[table], rows...)
			w.WriteHeader(http.StatusCreated)

		case http.MethodGet:
			w.Header().Set("Content-Type", "application/json")
			if canned, ok := f.selects[table]; ok {
				fmt.Fprint(w, canned)
				return
			}
			fmt.Fprint(w, "[]")

		case http.MethodDelete:
			f.deletes = append(f.deletes, table+"?"+r.URL.RawQuery)
			w.WriteHeader(http.StatusNoContent)
		}
	})
}

func newTestRepository(t *testing.T, fake *fakePostgREST) *Repository {
	t.Helper()
	server := httptest.NewServer(fake.handler())
	t.Cleanup(server.Close)

	client := NewClient(&config.SupabaseConfig{URL: server.URL, Key: "test-key"})
	return NewRepository(client)
}

func sampleRecipe() *common.Recipe {
	return &common.Recipe{
		Title:      "Test Soup",
		PrepTime:   10,
		CookTime:   20,
		TotalTime:  30,
		Servings:   2,
		Difficulty: "Easy",
		Ingredients: []common.Ingredient{
			{Name: "carrot", Quantity: "2", Unit: ""},
			{Name: "stock", Quantity: "1", Unit: "l"},
		},
		Instructions: []common.Instruction{
			{StepNumber: 1, Description: "Chop the carrots"},
			{StepNumber: 2, Description: "Simmer in stock"},
		},
		Tags: []string{"Soup"},
	}
}

func TestSaveInsertsParentAndDependents(t *testing.T) {
	fake := newFakePostgREST()
	repo := newTestRepository(t, fake)

	recipeID, err := repo.Save(context.Background(), sampleRecipe(),
		"https://example.com/soup", "https://example.com/soup.jpg", "user-1")
	require.NoError(t, err)
	assert.NotEmpty(t, recipeID)

	require.Len(t, fake.mu["recipes"], 1)
	parent := fake.mu["recipes"][0]
	assert.Equal(t, recipeID, parent["id"])
	assert.Equal(t, "Test Soup", parent["title"])
	assert.Equal(t, "user-1", parent["user_id"])

	assert.Len(t, fake.mu["ingredients"], 2)
	assert.Len(t, fake.mu["instructions"], 2)
	for _, row := range fake.mu["ingredients"] {
		assert.Equal(t, recipeID, row["recipe_id"])
	}
}

func TestSaveStripsEmptyOptionalFields(t *testing.T) {
	fake := newFakePostgREST()
	repo := newTestRepository(t, fake)

	_, err := repo.Save(context.Background(), sampleRecipe(), "https://example.com", "", "")
	require.NoError(t, err)

	parent := fake.mu["recipes"][0]
	_, hasImage := parent["image_url"]
	_, hasUser := parent["user_id"]
	assert.False(t, hasImage, "empty image_url must not be written")
	assert.False(t, hasUser, "empty user_id must not be written")
}

func TestSaveDependentFailureIsNonFatal(t *testing.T) {
	fake := newFakePostgREST()
	fake.failTable = "ingredients"
	repo := newTestRepository(t, fake)

	recipeID, err := repo.Save(context.Background(), sampleRecipe(), "https://example.com", "", "user-1")
	require.NoError(t, err, "ingredient insert failure must not fail the save")
	assert.NotEmpty(t, recipeID)
	assert.Len(t, fake.mu["recipes"], 1)
	assert.Len(t, fake.mu["instructions"], 2)
}

func TestSaveParentFailureAborts(t *testing.T) {
	fake := newFakePostgREST()
	fake.failTable = "recipes"
	repo := newTestRepository(t, fake)

	_, err := repo.Save(context.Background(), sampleRecipe(), "https://example.com", "", "user-1")
	require.Error(t, err)
	assert.Equal(t, common.ErrCodeSaveFailed, common.AsCustomError(err).Code)
}

func TestDeleteRefusesForeignRecipe(t *testing.T) {
	fake := newFakePostgREST()
	// select 返回空：這筆食譜存在但屬於別的使用者
	repo := newTestRepository(t, fake)

	deleted, err := repo.Delete(context.Background(), "recipe-1", "intruder")
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Empty(t, fake.deletes, "no delete may be issued without ownership")
}

func TestDeleteCascadesDependentsFirst(t *testing.T) {
	fake := newFakePostgREST()
	fake.selects["recipes"] = `[{"id":"recipe-1","title":"Mine","source_url":"https://example.com","user_id":"user-1"}]`
	repo := newTestRepository(t, fake)

	deleted, err := repo.Delete(context.Background(), "recipe-1", "user-1")
	require.NoError(t, err)
	assert.True(t, deleted)

	require.Len(t, fake.deletes, 3)
	assert.Contains(t, fake.deletes[0], "ingredients?")
	assert.Contains(t, fake.deletes[1], "instructions?")
	assert.Contains(t, fake.deletes[2], "recipes?")
}

func TestFetchOneAbsent(t *testing.T) {
	repo := newTestRepository(t, newFakePostgREST())

	record, err := repo.FetchOne(context.Background(), "missing", "user-1")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestFetchByUserAssemblesDependents(t *testing.T) {
	fake := newFakePostgREST()
	fake.selects["recipes"] = `[{"id":"recipe-1","title":"Mine","source_url":"https://example.com","user_id":"user-1"}]`
	fake.selects["ingredients"] = `[{"id":"i1","recipe_id":"recipe-1","name":"salt","quantity":"1","unit":"tsp"}]`
	fake.selects["instructions"] = `[{"id":"s1","recipe_id":"recipe-1","step_number":1,"description":"Season"}]`
	repo := newTestRepository(t, fake)

	records, err := repo.FetchByUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Mine", records[0].Title)
	require.Len(t, records[0].Ingredients, 1)
	assert.Equal(t, "salt", records[0].Ingredients[0].Name)
	require.Len(t, records[0].Instructions, 1)
	assert.Equal(t, "Season", records[0].Instructions[0].Description)
}
