package graph

import (
	"sort"
	"strings"
)

// IngredientKey returns the canonical unique name for an ingredient vertex.
// The input is a free-text ingredient or comma-separated list of ingredients;
// terms are trimmed, lowercased, sorted and re-joined so that "Tomato, Onion"
// and " onion , tomato" map to the same vertex.
func IngredientKey(ingredientsStr string) string {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(ingredientsStr)), ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

// CuisineKey returns the canonical unique name for a cuisine vertex
func CuisineKey(cuisine string) string {
	return strings.ToLower(strings.TrimSpace(cuisine))
}

// RecipeKey returns the canonical unique name for a recipe vertex,
// derived from the catalog's recipe id
func RecipeKey(recipeID string) string {
	return strings.ToLower(strings.TrimSpace(recipeID))
}
