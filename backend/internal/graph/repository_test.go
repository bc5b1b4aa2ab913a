package graph

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// These tests require a running Neo4j instance at bolt://localhost:7687
// (user neo4j, password password). They run the full vertex/edge/query
// contract against real data and clean up after themselves.

func TestRepository_UpsertVertexIdempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	repo, cleanup := newTestRepository(t, ctx)
	defer cleanup()

	key := testKey("tomato,onion")

	first, err := repo.AddIngredient(ctx, key, `[{"id":1,"title":"Soup"}]`)
	if err != nil {
		t.Fatalf("AddIngredient failed: %v", err)
	}

	// Second upsert with different detail must return the same vertex with
	// the original detail intact (first write wins).
	second, err := repo.AddIngredient(ctx, key, `[{"id":2,"title":"Other"}]`)
	if err != nil {
		t.Fatalf("AddIngredient failed: %v", err)
	}

	if first.ElementID != second.ElementID {
		t.Errorf("Expected same vertex identity, got %s and %s", first.ElementID, second.ElementID)
	}
	if second.Detail != first.Detail {
		t.Errorf("Detail was overwritten: %q", second.Detail)
	}
}

func TestRepository_SelectionCounterMonotonic(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	repo, cleanup := newTestRepository(t, ctx)
	defer cleanup()

	user, err := repo.AddUser(ctx, testKey("user"))
	if err != nil {
		t.Fatalf("AddUser failed: %v", err)
	}
	recipe, err := repo.AddRecipe(ctx, testKey("1"), "Soup", "steps")
	if err != nil {
		t.Fatalf("AddRecipe failed: %v", err)
	}

	for i := 1; i <= 3; i++ {
		count, err := repo.RecordSelection(ctx, user.ElementID, recipe.ElementID)
		if err != nil {
			t.Fatalf("RecordSelection failed: %v", err)
		}
		if count != int64(i) {
			t.Errorf("Expected count %d, got %d", i, count)
		}
	}
}

func TestRepository_FavoritesOrderedByCount(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	repo, cleanup := newTestRepository(t, ctx)
	defer cleanup()

	user, err := repo.AddUser(ctx, testKey("user"))
	if err != nil {
		t.Fatalf("AddUser failed: %v", err)
	}

	// Three recipes selected 3, 1 and 5 times respectively
	counts := map[string]int{"a": 3, "b": 1, "c": 5}
	for id, n := range counts {
		recipe, err := repo.AddRecipe(ctx, testKey(id), "Recipe "+id, "steps")
		if err != nil {
			t.Fatalf("AddRecipe failed: %v", err)
		}
		for i := 0; i < n; i++ {
			if _, err := repo.RecordSelection(ctx, user.ElementID, recipe.ElementID); err != nil {
				t.Fatalf("RecordSelection failed: %v", err)
			}
		}
	}

	favorites, err := repo.FavoriteRecipes(ctx, user.Name, 5)
	if err != nil {
		t.Fatalf("FavoriteRecipes failed: %v", err)
	}
	if len(favorites) != 3 {
		t.Fatalf("Expected 3 favorites, got %d", len(favorites))
	}
	want := []string{testKey("c"), testKey("a"), testKey("b")}
	for i, id := range want {
		if favorites[i].ID != id {
			t.Errorf("Position %d: expected %s, got %s", i, id, favorites[i].ID)
		}
	}
}

func TestRepository_FavoritesEmptyForNewUser(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	repo, cleanup := newTestRepository(t, ctx)
	defer cleanup()

	user, err := repo.AddUser(ctx, testKey("newuser"))
	if err != nil {
		t.Fatalf("AddUser failed: %v", err)
	}

	favorites, err := repo.FavoriteRecipes(ctx, user.Name, 5)
	if err != nil {
		t.Fatalf("FavoriteRecipes failed: %v", err)
	}
	if len(favorites) != 0 {
		t.Errorf("Expected empty favorites, got %d entries", len(favorites))
	}
}

func TestRepository_RecommendationsExcludeRequester(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	repo, cleanup := newTestRepository(t, ctx)
	defer cleanup()

	ingredientName := testKey("onion,tomato")
	requester, other := seedRecommendationGraph(t, ctx, repo, ingredientName)

	// The requester's own repeat selections must never surface.
	recs, err := repo.recommendedRecipes(ctx, LabelIngredient, ingredientName, requester, 5)
	if err != nil {
		t.Fatalf("recommendedRecipes failed: %v", err)
	}
	for _, rec := range recs {
		if rec.ID == testKey("own") {
			t.Errorf("Requester's own recipe %s surfaced in recommendations", rec.ID)
		}
	}

	// The other user sees the requester's repeat selection instead.
	recs, err = repo.recommendedRecipes(ctx, LabelIngredient, ingredientName, other, 5)
	if err != nil {
		t.Fatalf("recommendedRecipes failed: %v", err)
	}
	found := false
	for _, rec := range recs {
		if rec.ID == testKey("own") {
			found = true
		}
	}
	if !found {
		t.Error("Expected requester's recipe in the other user's recommendations")
	}
}

// seedRecommendationGraph creates two users who both selected the same
// ingredient, each with one recipe selected twice through it.
func seedRecommendationGraph(t *testing.T, ctx context.Context, repo *Repository, ingredientName string) (requester, other string) {
	t.Helper()

	ingredient, err := repo.AddIngredient(ctx, ingredientName, "[]")
	if err != nil {
		t.Fatalf("AddIngredient failed: %v", err)
	}

	users := map[string]string{testKey("requester"): testKey("own"), testKey("other"): testKey("theirs")}
	for userID, recipeID := range users {
		user, err := repo.AddUser(ctx, userID)
		if err != nil {
			t.Fatalf("AddUser failed: %v", err)
		}
		if _, err := repo.RecordSelection(ctx, user.ElementID, ingredient.ElementID); err != nil {
			t.Fatalf("RecordSelection failed: %v", err)
		}
		recipe, err := repo.AddRecipe(ctx, recipeID, "Recipe "+recipeID, "steps")
		if err != nil {
			t.Fatalf("AddRecipe failed: %v", err)
		}
		// count > 1 marks genuine interest, so select twice
		for i := 0; i < 2; i++ {
			if err := repo.RecordRecipeSelection(ctx, user, ingredient, recipe); err != nil {
				t.Fatalf("RecordRecipeSelection failed: %v", err)
			}
		}
	}

	return testKey("requester"), testKey("other")
}

var testRunID = time.Now().Format("20060102150405")

func testKey(s string) string {
	return fmt.Sprintf("test-%s-%s", testRunID, s)
}

func newTestRepository(t *testing.T, ctx context.Context) (*Repository, func()) {
	t.Helper()

	driver, err := neo4j.NewDriverWithContext("bolt://localhost:7687", neo4j.BasicAuth("neo4j", "password", ""))
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		t.Fatalf("Failed to verify Neo4j connectivity: %v", err)
	}

	repo := NewRepository(driver)
	if _, err := repo.EnsureSchema(ctx); err != nil {
		driver.Close(ctx)
		t.Fatalf("EnsureSchema failed: %v", err)
	}

	cleanup := func() {
		session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
		_, _ = session.Run(ctx, "MATCH (v) WHERE v.name STARTS WITH $prefix DETACH DELETE v",
			map[string]interface{}{"prefix": "test-" + testRunID})
		session.Close(ctx)
		driver.Close(ctx)
	}

	return repo, cleanup
}
