package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	apperrors "sous-chef/backend/pkg/errors"
)

// uniqueness constraints backing the one-vertex-per-(label, name) invariant
var schemaConstraints = map[string]string{
	"person_name_unique":     LabelPerson,
	"ingredient_name_unique": LabelIngredient,
	"cuisine_name_unique":    LabelCuisine,
	"recipe_name_unique":     LabelRecipe,
}

// EnsureSchema registers the recipe graph schema if it is not present yet:
// one unique constraint on name per vertex label. Idempotent; must complete
// before any other graph operation is issued. A failure here is fatal to
// startup.
func (r *Repository) EnsureSchema(ctx context.Context) (*SchemaDescriptor, error) {
	existing, err := r.listConstraints(ctx)
	if err != nil {
		return nil, apperrors.NewGraphSchemaFailed(err)
	}

	missing := make([]string, 0, len(schemaConstraints))
	for name := range schemaConstraints {
		if !existing[name] {
			missing = append(missing, name)
		}
	}

	descriptor := &SchemaDescriptor{
		Labels:            []string{LabelPerson, LabelIngredient, LabelCuisine, LabelRecipe},
		RelationshipTypes: []string{relSelects},
		Created:           len(missing) > 0,
	}
	for name := range schemaConstraints {
		descriptor.Constraints = append(descriptor.Constraints, name)
	}

	if len(missing) == 0 {
		r.logger.Info("Graph schema exists")
		return descriptor, nil
	}

	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	r.logger.Info("Creating graph schema", zap.Strings("constraints", missing))
	for _, name := range missing {
		label := schemaConstraints[name]
		query := fmt.Sprintf(
			"CREATE CONSTRAINT %s IF NOT EXISTS FOR (v:%s) REQUIRE v.name IS UNIQUE",
			name, label,
		)
		if _, err := session.Run(ctx, query, nil); err != nil {
			return nil, apperrors.NewGraphSchemaFailed(fmt.Errorf("create constraint %s: %w", name, err))
		}
	}

	return descriptor, nil
}

func (r *Repository) listConstraints(ctx context.Context) (map[string]bool, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, "SHOW CONSTRAINTS YIELD name", nil)
	if err != nil {
		return nil, err
	}

	constraints := make(map[string]bool)
	for result.Next(ctx) {
		if name := getStringFromRecord(result.Record(), "name"); name != "" {
			constraints[name] = true
		}
	}
	if err := result.Err(); err != nil {
		return nil, err
	}

	return constraints, nil
}
