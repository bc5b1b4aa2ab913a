package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	apperrors "sous-chef/backend/pkg/errors"
)

// ============================================================================
// Vertex Operations
// ============================================================================

// AddUser gets or creates the person vertex for a chat user
func (r *Repository) AddUser(ctx context.Context, userID string) (*Vertex, error) {
	return r.upsertVertex(ctx, LabelPerson, map[string]interface{}{
		"name": userID,
	})
}

// FindIngredient finds the ingredient vertex for the given free-text
// ingredient list. Returns nil without error when no vertex exists.
func (r *Repository) FindIngredient(ctx context.Context, ingredientsStr string) (*Vertex, error) {
	return r.findVertex(ctx, LabelIngredient, IngredientKey(ingredientsStr))
}

// AddIngredient creates the ingredient vertex if it does not exist yet.
// detail holds the serialized catalog match list; an existing vertex keeps
// its original detail (cache semantics, first write wins).
func (r *Repository) AddIngredient(ctx context.Context, ingredientsStr, detail string) (*Vertex, error) {
	return r.upsertVertex(ctx, LabelIngredient, map[string]interface{}{
		"name":   IngredientKey(ingredientsStr),
		"detail": detail,
	})
}

// FindCuisine finds the cuisine vertex for the given cuisine string.
// Returns nil without error when no vertex exists.
func (r *Repository) FindCuisine(ctx context.Context, cuisine string) (*Vertex, error) {
	return r.findVertex(ctx, LabelCuisine, CuisineKey(cuisine))
}

// AddCuisine creates the cuisine vertex if it does not exist yet
func (r *Repository) AddCuisine(ctx context.Context, cuisine, detail string) (*Vertex, error) {
	return r.upsertVertex(ctx, LabelCuisine, map[string]interface{}{
		"name":   CuisineKey(cuisine),
		"detail": detail,
	})
}

// FindRecipe finds the recipe vertex for the given catalog recipe id.
// Returns nil without error when no vertex exists.
func (r *Repository) FindRecipe(ctx context.Context, recipeID string) (*Vertex, error) {
	return r.findVertex(ctx, LabelRecipe, RecipeKey(recipeID))
}

// AddRecipe creates the recipe vertex if it does not exist yet
func (r *Repository) AddRecipe(ctx context.Context, recipeID, title, detail string) (*Vertex, error) {
	return r.upsertVertex(ctx, LabelRecipe, map[string]interface{}{
		"name":   RecipeKey(recipeID),
		"title":  title,
		"detail": detail,
	})
}

// upsertVertex creates a vertex with the given properties unless one with
// the same label and name already exists, in which case the existing vertex
// is returned unchanged. The unique constraint on name is the backstop
// against concurrent duplicate creation.
func (r *Repository) upsertVertex(ctx context.Context, label string, props map[string]interface{}) (*Vertex, error) {
	if !validLabel(label) {
		return nil, fmt.Errorf("unknown vertex label: %s", label)
	}

	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	now := time.Now().UTC().Format(time.RFC3339)

	query := fmt.Sprintf(`
		MERGE (v:%s {name: $name})
		ON CREATE SET v += $props, v.created_at = datetime($now)
		RETURN elementId(v) as id, v.name as name, v.title as title, v.detail as detail
	`, label)

	result, err := session.Run(ctx, query, map[string]interface{}{
		"name":  props["name"],
		"props": props,
		"now":   now,
	})
	if err != nil {
		return nil, apperrors.NewGraphQueryFailed("upsert "+label, err)
	}

	record, err := result.Single(ctx)
	if err != nil {
		return nil, apperrors.NewGraphQueryFailed("upsert "+label, err)
	}

	r.logger.Debug("Vertex upserted",
		zap.String("label", label),
		zap.Any("name", props["name"]),
	)

	return vertexFromRecord(record, label), nil
}

// findVertex is a point lookup by label and canonical name.
// Returns nil without error when no vertex matches.
func (r *Repository) findVertex(ctx context.Context, label, name string) (*Vertex, error) {
	if !validLabel(label) {
		return nil, fmt.Errorf("unknown vertex label: %s", label)
	}

	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := fmt.Sprintf(`
		MATCH (v:%s {name: $name})
		RETURN elementId(v) as id, v.name as name, v.title as title, v.detail as detail
	`, label)

	result, err := session.Run(ctx, query, map[string]interface{}{
		"name": name,
	})
	if err != nil {
		return nil, apperrors.NewGraphQueryFailed("find "+label, err)
	}

	if result.Next(ctx) {
		return vertexFromRecord(result.Record(), label), nil
	}
	if err := result.Err(); err != nil {
		return nil, apperrors.NewGraphQueryFailed("find "+label, err)
	}

	return nil, nil
}

func vertexFromRecord(record *neo4j.Record, label string) *Vertex {
	return &Vertex{
		ElementID: getStringFromRecord(record, "id"),
		Label:     label,
		Name:      getStringFromRecord(record, "name"),
		Title:     getStringFromRecord(record, "title"),
		Detail:    getStringFromRecord(record, "detail"),
	}
}
