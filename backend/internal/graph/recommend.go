package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	apperrors "sous-chef/backend/pkg/errors"
)

// ============================================================================
// Recommendation Query Engine
// ============================================================================

// recommendationRow is one qualifying path from the traversal: a distinct
// (other person, recipe) pair reaching a recipe through the anchor.
type recommendationRow struct {
	ID    string
	Title string
}

// RecommendedIngredientRecipes finds popular recipes for an ingredient based
// on other users' repeat selections.
func (r *Repository) RecommendedIngredientRecipes(ctx context.Context, ingredientsStr, excludeUserID string, limit int) ([]Recommendation, error) {
	return r.recommendedRecipes(ctx, LabelIngredient, IngredientKey(ingredientsStr), excludeUserID, limit)
}

// RecommendedCuisineRecipes finds popular recipes for a cuisine based on
// other users' repeat selections.
func (r *Repository) RecommendedCuisineRecipes(ctx context.Context, cuisine, excludeUserID string, limit int) ([]Recommendation, error) {
	return r.recommendedRecipes(ctx, LabelCuisine, CuisineKey(cuisine), excludeUserID, limit)
}

// recommendedRecipes walks two hops out from the anchor vertex: back along
// SELECTS edges to the other persons who selected this anchor (the
// requesting user is excluded), then forward along their SELECTS edges with
// count > 1 to recipe vertices that also connect back to the same anchor.
// Rows come back ordered by the person-to-recipe count; the dedup fold and
// the distinct-recipe limit are applied in foldRecommendations.
func (r *Repository) recommendedRecipes(ctx context.Context, anchorLabel, anchorName, excludeUserID string, limit int) ([]Recommendation, error) {
	if anchorLabel != LabelIngredient && anchorLabel != LabelCuisine {
		return nil, fmt.Errorf("invalid anchor label: %s", anchorLabel)
	}

	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := fmt.Sprintf(`
		MATCH (a:%s {name: $anchor})<-[:SELECTS]-(p:Person)
		WHERE p.name <> $exclude
		MATCH (p)-[s:SELECTS]->(r:Recipe)<-[:SELECTS]-(a)
		WHERE s.count > 1
		RETURN r.name as id, r.title as title
		ORDER BY s.count DESC
	`, anchorLabel)

	result, err := session.Run(ctx, query, map[string]interface{}{
		"anchor":  anchorName,
		"exclude": excludeUserID,
	})
	if err != nil {
		return nil, apperrors.NewGraphQueryFailed("recommended recipes", err)
	}

	rows := []recommendationRow{}
	for result.Next(ctx) {
		record := result.Record()
		rows = append(rows, recommendationRow{
			ID:    getStringFromRecord(record, "id"),
			Title: getStringFromRecord(record, "title"),
		})
	}
	if err := result.Err(); err != nil {
		return nil, apperrors.NewGraphQueryFailed("recommended recipes", err)
	}

	return foldRecommendations(rows, limit), nil
}

// foldRecommendations deduplicates ordered traversal rows by recipe id.
// The first occurrence of a recipe claims a slot with a user count of 1;
// every later occurrence increments that count instead of adding a
// duplicate. Once limit distinct recipes are collected no new recipes are
// admitted, but counts of recipes already in the result keep folding.
func foldRecommendations(rows []recommendationRow, limit int) []Recommendation {
	recipes := []Recommendation{}
	seen := make(map[string]int, len(rows))

	for _, row := range rows {
		if idx, ok := seen[row.ID]; ok {
			recipes[idx].RecommendedUserCount++
			continue
		}
		if len(recipes) >= limit {
			continue
		}
		seen[row.ID] = len(recipes)
		recipes = append(recipes, Recommendation{
			ID:                   row.ID,
			Title:                row.Title,
			RecommendedUserCount: 1,
		})
	}

	return recipes
}
