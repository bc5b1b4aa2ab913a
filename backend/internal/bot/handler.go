package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sous-chef/backend/internal/constants"
	"sous-chef/backend/internal/graph"
	"sous-chef/backend/internal/nlu"
	"sous-chef/backend/internal/notify"
	"sous-chef/backend/internal/recipes"
	"sous-chef/backend/internal/session"
	"sous-chef/backend/pkg/logger"
)

// GraphStore is the graph layer surface the turn handler depends on
type GraphStore interface {
	AddUser(ctx context.Context, userID string) (*graph.Vertex, error)
	FindIngredient(ctx context.Context, ingredientsStr string) (*graph.Vertex, error)
	AddIngredient(ctx context.Context, ingredientsStr, detail string) (*graph.Vertex, error)
	FindCuisine(ctx context.Context, cuisine string) (*graph.Vertex, error)
	AddCuisine(ctx context.Context, cuisine, detail string) (*graph.Vertex, error)
	FindRecipe(ctx context.Context, recipeID string) (*graph.Vertex, error)
	AddRecipe(ctx context.Context, recipeID, title, detail string) (*graph.Vertex, error)
	RecordSelection(ctx context.Context, fromElementID, toElementID string) (int64, error)
	RecordRecipeSelection(ctx context.Context, userVertex, anchorVertex, recipeVertex *graph.Vertex) error
	FavoriteRecipes(ctx context.Context, userID string, limit int) ([]graph.RecipeRef, error)
	RecommendedIngredientRecipes(ctx context.Context, ingredientsStr, excludeUserID string, limit int) ([]graph.Recommendation, error)
	RecommendedCuisineRecipes(ctx context.Context, cuisine, excludeUserID string, limit int) ([]graph.Recommendation, error)
}

// Conversation is the NLU service surface the turn handler depends on
type Conversation interface {
	Message(ctx context.Context, text string, convContext map[string]interface{}) (*nlu.MessageResponse, error)
}

// Catalog is the recipe catalog surface the turn handler depends on
type Catalog interface {
	FindByIngredients(ctx context.Context, ingredients string) ([]recipes.Recipe, error)
	FindByCuisine(ctx context.Context, cuisine string) ([]recipes.Recipe, error)
	GetInfoByID(ctx context.Context, id string) (*recipes.Info, error)
	GetStepsByID(ctx context.Context, id string) ([]recipes.Step, error)
}

// Notifier is the best-effort action log sink
type Notifier interface {
	PostStart(state notify.State)
	PostFavorites(state notify.State)
	PostIngredient(state notify.State, ingredientStr string)
	PostCuisine(state notify.State, cuisineStr string)
	PostRecipe(state notify.State, recipeTitle string)
}

// InvalidSelectionReply is the fixed response to an out-of-range selection
const InvalidSelectionReply = "Invalid selection! Say anything to see your choices again..."

// FailureReply is the generic response when a turn fails internally
const FailureReply = "Sorry, something went wrong on my end. Say anything to start over..."

// Handler drives one conversation turn per inbound message: NLU
// classification, graph lookups and bookkeeping, reply formatting. All
// failures are recovered at the turn boundary; the caller gets a reply
// string either way.
type Handler struct {
	sessions *session.Store
	store    GraphStore
	nlu      Conversation
	catalog  Catalog
	notifier Notifier
	logger   *zap.Logger
}

// NewHandler creates a new dialogue turn handler
func NewHandler(sessions *session.Store, store GraphStore, conversation Conversation, catalog Catalog, notifier Notifier) *Handler {
	return &Handler{
		sessions: sessions,
		store:    store,
		nlu:      conversation,
		catalog:  catalog,
		notifier: notifier,
		logger:   logger.Get(),
	}
}

// HandleTurn processes one inbound message and returns the reply text.
// Turns for the same user are serialized on the session; on any internal
// failure the session is reset so the next message starts clean, and the
// generic failure reply is returned alongside the error.
func (h *Handler) HandleTurn(ctx context.Context, userID, text string) (string, error) {
	turnID := uuid.NewString()
	sess := h.sessions.Get(userID)
	sess.Lock()
	defer sess.Unlock()

	resp, err := h.nlu.Message(ctx, text, sess.NLUContext)
	if err != nil {
		sess.Reset()
		h.logger.Error("Conversation request failed",
			zap.String("turn_id", turnID),
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return FailureReply, err
	}
	sess.NLUContext = resp.Context

	signals := resp.Signals()
	var reply string
	switch {
	case signals.Favorites:
		reply, err = h.handleFavorites(ctx, sess)
	case signals.Ingredients:
		reply, err = h.handleIngredients(ctx, sess, text)
	case signals.Cuisine != "":
		reply, err = h.handleCuisine(ctx, sess, signals.Cuisine)
	case signals.Selection:
		reply, err = h.handleSelection(ctx, sess, signals.SelectionNumber)
	default:
		reply, err = h.handleStart(ctx, sess, resp)
	}

	if err != nil {
		sess.Reset()
		h.logger.Error("Turn failed",
			zap.String("turn_id", turnID),
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return FailureReply, err
	}

	return reply, nil
}

// handleStart replies with the dialogue service's own output and makes sure
// the person vertex exists.
func (h *Handler) handleStart(ctx context.Context, sess *session.Session, resp *nlu.MessageResponse) (string, error) {
	if err := h.ensureUser(ctx, sess); err != nil {
		return "", err
	}
	if !sess.Started {
		sess.Started = true
		h.notifier.PostStart(h.notifyState(sess))
	}

	reply := ""
	for _, line := range resp.Output.Text {
		reply += line + "\n"
	}
	return reply, nil
}

func (h *Handler) handleFavorites(ctx context.Context, sess *session.Session) (string, error) {
	if err := h.ensureUser(ctx, sess); err != nil {
		return "", err
	}

	favorites, err := h.store.FavoriteRecipes(ctx, sess.UserID, constants.MaxDisplayedRecipes)
	if err != nil {
		return "", err
	}

	sess.Matches = favorites
	sess.Anchor = nil
	h.notifier.PostFavorites(h.notifyState(sess))

	items := make([]listItem, len(favorites))
	for i, f := range favorites {
		items[i] = listItem{RecipeRef: f}
	}
	return formatRecipeList(items), nil
}

func (h *Handler) handleIngredients(ctx context.Context, sess *session.Session, text string) (string, error) {
	if err := h.ensureUser(ctx, sess); err != nil {
		return "", err
	}

	ingredient, err := h.store.FindIngredient(ctx, text)
	if err != nil {
		return "", err
	}
	if ingredient != nil {
		h.logger.Info("Ingredient cache hit", zap.String("name", ingredient.Name))
	} else {
		h.logger.Info("Ingredient not cached, querying catalog", zap.String("input", text))
		matches, err := h.catalog.FindByIngredients(ctx, text)
		if err != nil {
			return "", err
		}
		detail, err := json.Marshal(matches)
		if err != nil {
			return "", fmt.Errorf("failed to serialize catalog matches: %w", err)
		}
		ingredient, err = h.store.AddIngredient(ctx, text, string(detail))
		if err != nil {
			return "", err
		}
	}

	if _, err := h.store.RecordSelection(ctx, sess.UserVertex.ElementID, ingredient.ElementID); err != nil {
		return "", err
	}

	recommendations, err := h.store.RecommendedIngredientRecipes(ctx, text, sess.UserID, constants.MaxDisplayedRecipes)
	if err != nil {
		return "", err
	}

	sess.Anchor = ingredient
	h.notifier.PostIngredient(h.notifyState(sess), ingredient.Name)

	return h.replyWithMatches(sess, ingredient, recommendations)
}

func (h *Handler) handleCuisine(ctx context.Context, sess *session.Session, cuisine string) (string, error) {
	if err := h.ensureUser(ctx, sess); err != nil {
		return "", err
	}

	vertex, err := h.store.FindCuisine(ctx, cuisine)
	if err != nil {
		return "", err
	}
	if vertex != nil {
		h.logger.Info("Cuisine cache hit", zap.String("name", vertex.Name))
	} else {
		h.logger.Info("Cuisine not cached, querying catalog", zap.String("input", cuisine))
		matches, err := h.catalog.FindByCuisine(ctx, cuisine)
		if err != nil {
			return "", err
		}
		detail, err := json.Marshal(matches)
		if err != nil {
			return "", fmt.Errorf("failed to serialize catalog matches: %w", err)
		}
		vertex, err = h.store.AddCuisine(ctx, cuisine, string(detail))
		if err != nil {
			return "", err
		}
	}

	if _, err := h.store.RecordSelection(ctx, sess.UserVertex.ElementID, vertex.ElementID); err != nil {
		return "", err
	}

	recommendations, err := h.store.RecommendedCuisineRecipes(ctx, cuisine, sess.UserID, constants.MaxDisplayedRecipes)
	if err != nil {
		return "", err
	}

	sess.Anchor = vertex
	h.notifier.PostCuisine(h.notifyState(sess), vertex.Name)

	return h.replyWithMatches(sess, vertex, recommendations)
}

func (h *Handler) handleSelection(ctx context.Context, sess *session.Session, selection int) (string, error) {
	if selection < 1 || selection > len(sess.Matches) || selection > constants.MaxDisplayedRecipes {
		// A normal branch, not an error: corrective prompt plus context
		// reset, no graph mutation.
		sess.Reset()
		return InvalidSelectionReply, nil
	}
	if err := h.ensureUser(ctx, sess); err != nil {
		return "", err
	}

	chosen := sess.Matches[selection-1]

	recipe, err := h.store.FindRecipe(ctx, chosen.ID)
	if err != nil {
		return "", err
	}
	if recipe != nil {
		h.logger.Info("Recipe cache hit", zap.String("id", chosen.ID))
	} else {
		h.logger.Info("Recipe not cached, querying catalog", zap.String("id", chosen.ID))
		info, err := h.catalog.GetInfoByID(ctx, chosen.ID)
		if err != nil {
			return "", err
		}
		steps, err := h.catalog.GetStepsByID(ctx, chosen.ID)
		if err != nil {
			return "", err
		}
		recipe, err = h.store.AddRecipe(ctx, chosen.ID, info.Title, formatSteps(info, steps))
		if err != nil {
			return "", err
		}
	}

	if err := h.store.RecordRecipeSelection(ctx, sess.UserVertex, sess.Anchor, recipe); err != nil {
		return "", err
	}

	state := h.notifyState(sess)
	state.Recipe = recipe.Name
	h.notifier.PostRecipe(state, recipe.Title)

	// Per-turn context is cleared so the next message starts a fresh cycle
	reply := recipe.Detail
	sess.Reset()
	return reply, nil
}

// replyWithMatches merges recommendations ahead of the cached catalog
// matches, remembers the displayed list for selection resolution, and
// renders the numbered reply.
func (h *Handler) replyWithMatches(sess *session.Session, anchor *graph.Vertex, recommendations []graph.Recommendation) (string, error) {
	cached, err := decodeCachedMatches(anchor.Detail)
	if err != nil {
		return "", fmt.Errorf("failed to decode cached matches for %s: %w", anchor.Name, err)
	}

	items := mergeMatches(recommendations, cached, constants.MaxDisplayedRecipes)

	sess.Matches = make([]graph.RecipeRef, len(items))
	for i, item := range items {
		sess.Matches[i] = item.RecipeRef
	}

	return formatRecipeList(items), nil
}

// ensureUser lazily creates the person vertex for the session's user
func (h *Handler) ensureUser(ctx context.Context, sess *session.Session) error {
	if sess.UserVertex != nil {
		return nil
	}
	vertex, err := h.store.AddUser(ctx, sess.UserID)
	if err != nil {
		return err
	}
	sess.UserVertex = vertex
	return nil
}

func (h *Handler) notifyState(sess *session.Session) notify.State {
	state := notify.State{User: sess.UserID}
	if sess.Anchor != nil {
		switch sess.Anchor.Label {
		case graph.LabelIngredient:
			state.Ingredient = sess.Anchor.Name
		case graph.LabelCuisine:
			state.Cuisine = sess.Anchor.Name
		}
	}
	return state
}

// decodeCachedMatches parses the detail snapshot stored on an ingredient
// or cuisine vertex back into recipe references.
func decodeCachedMatches(detail string) ([]graph.RecipeRef, error) {
	if detail == "" {
		return nil, nil
	}
	var matches []recipes.Recipe
	if err := json.Unmarshal([]byte(detail), &matches); err != nil {
		return nil, err
	}
	refs := make([]graph.RecipeRef, len(matches))
	for i, m := range matches {
		refs[i] = graph.RecipeRef{
			ID:    strconv.FormatInt(m.ID, 10),
			Title: m.Title,
		}
	}
	return refs, nil
}
