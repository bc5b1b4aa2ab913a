package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"sous-chef/backend/pkg/logger"
)

// Vertex labels and relationship types used by the recipe graph.
const (
	LabelPerson     = "Person"
	LabelIngredient = "Ingredient"
	LabelCuisine    = "Cuisine"
	LabelRecipe     = "Recipe"

	relSelects = "SELECTS"
)

// Repository handles all Neo4j database operations for the recipe graph
type Repository struct {
	driver neo4j.DriverWithContext
	logger *zap.Logger
}

// NewRepository creates a new graph repository
func NewRepository(driver neo4j.DriverWithContext) *Repository {
	return &Repository{
		driver: driver,
		logger: logger.Get(),
	}
}

// Close closes the Neo4j driver connection
func (r *Repository) Close() error {
	return r.driver.Close(context.Background())
}

func validLabel(label string) bool {
	switch label {
	case LabelPerson, LabelIngredient, LabelCuisine, LabelRecipe:
		return true
	}
	return false
}
