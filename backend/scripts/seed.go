package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"strconv"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"sous-chef/backend/internal/graph"
	"sous-chef/backend/internal/recipes"
	"sous-chef/backend/pkg/config"
	"sous-chef/backend/pkg/logger"
)

// Seeds the taste graph with a few users, ingredients, cuisines and recipe
// selections so the recommendation queries return data on a fresh database.
func main() {
	reset := flag.Bool("reset", false, "Delete all existing data before seeding")
	flag.Parse()

	if err := logger.Init("development"); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting database seeding...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	driver, err := neo4j.NewDriverWithContext(
		cfg.Neo4jURI,
		neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""),
	)
	if err != nil {
		log.Fatal("Failed to create Neo4j driver", zap.Error(err))
	}
	defer driver.Close(context.Background())

	ctx := context.Background()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		log.Fatal("Failed to verify Neo4j connectivity", zap.Error(err))
	}

	if *reset {
		log.Info("Deleting all existing data...")
		if err := deleteAllData(ctx, driver); err != nil {
			log.Fatal("Failed to delete data", zap.Error(err))
		}
	}

	repo := graph.NewRepository(driver)

	log.Info("Creating constraints...")
	if _, err := repo.EnsureSchema(ctx); err != nil {
		log.Fatal("Failed to initialize schema", zap.Error(err))
	}

	if err := seedSelections(ctx, repo, log); err != nil {
		log.Fatal("Failed to seed selections", zap.Error(err))
	}

	log.Info("Seeding complete")
}

type seedSelection struct {
	user       string
	ingredient string
	recipe     recipes.Recipe
	times      int
}

func seedSelections(ctx context.Context, repo *graph.Repository, log *zap.Logger) error {
	selections := []seedSelection{
		{user: "alice", ingredient: "onion, tomato", recipe: recipes.Recipe{ID: 1001, Title: "Tomato Soup"}, times: 3},
		{user: "alice", ingredient: "onion, tomato", recipe: recipes.Recipe{ID: 1002, Title: "Bruschetta"}, times: 1},
		{user: "brook", ingredient: "onion, tomato", recipe: recipes.Recipe{ID: 1001, Title: "Tomato Soup"}, times: 2},
		{user: "brook", ingredient: "basil", recipe: recipes.Recipe{ID: 1003, Title: "Pesto Pasta"}, times: 2},
		{user: "casey", ingredient: "basil", recipe: recipes.Recipe{ID: 1003, Title: "Pesto Pasta"}, times: 1},
	}

	for _, s := range selections {
		user, err := repo.AddUser(ctx, s.user)
		if err != nil {
			return err
		}

		ingredient, err := repo.FindIngredient(ctx, s.ingredient)
		if err != nil {
			return err
		}
		if ingredient == nil {
			detail, err := json.Marshal([]recipes.Recipe{s.recipe})
			if err != nil {
				return err
			}
			ingredient, err = repo.AddIngredient(ctx, s.ingredient, string(detail))
			if err != nil {
				return err
			}
		}

		recipeID := strconv.FormatInt(s.recipe.ID, 10)
		recipe, err := repo.AddRecipe(ctx, recipeID, s.recipe.Title, "Seeded recipe, no instructions.")
		if err != nil {
			return err
		}

		for i := 0; i < s.times; i++ {
			if _, err := repo.RecordSelection(ctx, user.ElementID, ingredient.ElementID); err != nil {
				return err
			}
			if err := repo.RecordRecipeSelection(ctx, user, ingredient, recipe); err != nil {
				return err
			}
		}

		log.Info("Seeded selection",
			zap.String("user", s.user),
			zap.String("ingredient", ingredient.Name),
			zap.String("recipe", s.recipe.Title),
			zap.Int("times", s.times),
		)
	}

	return nil
}

func deleteAllData(ctx context.Context, driver neo4j.DriverWithContext) error {
	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.Run(ctx, "MATCH (n) DETACH DELETE n", nil)
	return err
}
