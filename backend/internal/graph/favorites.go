package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	apperrors "sous-chef/backend/pkg/errors"
)

// FavoriteRecipes returns the recipes the user has selected most often,
// ordered by the selection count on the user's edges, highest first.
// Edges landing on ingredient or cuisine vertices are ignored. Returns an
// empty slice, not an error, when the user has no recipe edges yet.
func (r *Repository) FavoriteRecipes(ctx context.Context, userID string, limit int) ([]RecipeRef, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (p:Person {name: $userID})-[s:SELECTS]->(r:Recipe)
		RETURN r.name as id, r.title as title
		ORDER BY s.count DESC
		LIMIT $limit
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"userID": userID,
		"limit":  limit,
	})
	if err != nil {
		return nil, apperrors.NewGraphQueryFailed("favorite recipes", err)
	}

	recipes := []RecipeRef{}
	for result.Next(ctx) {
		record := result.Record()
		recipes = append(recipes, RecipeRef{
			ID:    getStringFromRecord(record, "id"),
			Title: getStringFromRecord(record, "title"),
		})
	}
	if err := result.Err(); err != nil {
		return nil, apperrors.NewGraphQueryFailed("favorite recipes", err)
	}

	return recipes, nil
}
