package graph

import (
	"context"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	apperrors "sous-chef/backend/pkg/errors"
)

// ============================================================================
// Edge Counter Operations
// ============================================================================

// RecordSelection creates a SELECTS edge between the two vertices or, when
// the edge already exists, increments its access counter. The count starts
// at 1 and grows by exactly 1 per recorded interaction; edges are never
// deleted. MERGE resolves create-vs-increment inside a single statement, so
// concurrent turns for the same pair do not lose updates.
func (r *Repository) RecordSelection(ctx context.Context, fromElementID, toElementID string) (int64, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	now := time.Now().UTC().Format(time.RFC3339)

	query := `
		MATCH (a) WHERE elementId(a) = $fromID
		MATCH (b) WHERE elementId(b) = $toID
		MERGE (a)-[s:SELECTS]->(b)
		ON CREATE SET
			s.count = 1,
			s.first_selected = datetime($now)
		ON MATCH SET
			s.count = coalesce(s.count, 0) + 1
		SET s.last_selected = datetime($now)
		RETURN s.count as count
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"fromID": fromElementID,
		"toID":   toElementID,
		"now":    now,
	})
	if err != nil {
		return 0, apperrors.NewGraphQueryFailed("record selection", err)
	}

	record, err := result.Single(ctx)
	if err != nil {
		return 0, apperrors.NewGraphQueryFailed("record selection", err)
	}

	count := getInt64FromRecord(record, "count")
	r.logger.Debug("Selection recorded",
		zap.String("from", fromElementID),
		zap.String("to", toElementID),
		zap.Int64("count", count),
	)

	return count, nil
}

// RecordRecipeSelection records a recipe choice: one edge from the user to
// the recipe (drives favorites) and, when an ingredient or cuisine anchored
// the choice, one edge from that anchor to the recipe (drives
// recommendations).
func (r *Repository) RecordRecipeSelection(ctx context.Context, userVertex, anchorVertex, recipeVertex *Vertex) error {
	if _, err := r.RecordSelection(ctx, userVertex.ElementID, recipeVertex.ElementID); err != nil {
		return err
	}
	if anchorVertex != nil {
		if _, err := r.RecordSelection(ctx, anchorVertex.ElementID, recipeVertex.ElementID); err != nil {
			return err
		}
	}
	return nil
}
