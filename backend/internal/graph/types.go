package graph

// Vertex is a node in the recipe graph. Name is the canonical unique key
// within the vertex's label; Title and Detail are only set for some labels.
type Vertex struct {
	ElementID string `json:"element_id"`
	Label     string `json:"label"`
	Name      string `json:"name"`
	Title     string `json:"title,omitempty"`
	Detail    string `json:"detail,omitempty"`
}

// RecipeRef identifies a recipe by its catalog id and display title
type RecipeRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Recommendation is a recipe surfaced from other users' repeat selections.
// RecommendedUserCount is the number of distinct contributing paths.
type Recommendation struct {
	ID                   string `json:"id"`
	Title                string `json:"title"`
	RecommendedUserCount int    `json:"recommended_user_count"`
}

// SchemaDescriptor describes the logical schema registered in the store
type SchemaDescriptor struct {
	Labels            []string `json:"labels"`
	RelationshipTypes []string `json:"relationship_types"`
	Constraints       []string `json:"constraints"`
	Created           bool     `json:"created"`
}
