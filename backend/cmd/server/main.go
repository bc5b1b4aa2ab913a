package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"sous-chef/backend/internal/constants"
	"sous-chef/backend/internal/graph"
	"sous-chef/backend/pkg/config"
	"sous-chef/backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}

	if err := logger.Init(cfg.Env); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting HTTP API server...")

	// Initialize Neo4j driver
	driver, err := neo4j.NewDriverWithContext(
		cfg.Neo4jURI,
		neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""),
	)
	if err != nil {
		log.Fatal("Failed to create Neo4j driver", zap.Error(err))
	}
	defer driver.Close(context.Background())

	if err := driver.VerifyConnectivity(context.Background()); err != nil {
		log.Fatal("Failed to verify Neo4j connectivity", zap.Error(err))
	}

	graphRepo := graph.NewRepository(driver)

	// Setup Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(ginLogger(log))
	router.Use(gin.Recovery())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Read-only views over the taste graph
	api := router.Group("/api")
	{
		// Most-selected recipes for one user
		api.GET("/users/:id/favorites", func(c *gin.Context) {
			userID := c.Param("id")
			limit := parseLimit(c.Query("limit"))

			favorites, err := graphRepo.FavoriteRecipes(c.Request.Context(), userID, limit)
			if err != nil {
				log.Error("Failed to fetch favorites", zap.String("user_id", userID), zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch favorites"})
				return
			}

			c.JSON(http.StatusOK, gin.H{
				"user_id": userID,
				"recipes": favorites,
			})
		})

		// Recipes other users repeatedly picked for an ingredient or cuisine
		api.GET("/recommendations", func(c *gin.Context) {
			ingredient := c.Query("ingredient")
			cuisine := c.Query("cuisine")
			exclude := c.Query("user")
			limit := parseLimit(c.Query("limit"))

			var (
				recs []graph.Recommendation
				err  error
			)
			switch {
			case ingredient != "" && cuisine != "":
				c.JSON(http.StatusBadRequest, gin.H{"error": "Provide either ingredient or cuisine, not both"})
				return
			case ingredient != "":
				recs, err = graphRepo.RecommendedIngredientRecipes(c.Request.Context(), ingredient, exclude, limit)
			case cuisine != "":
				recs, err = graphRepo.RecommendedCuisineRecipes(c.Request.Context(), cuisine, exclude, limit)
			default:
				c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter ingredient or cuisine is required"})
				return
			}
			if err != nil {
				log.Error("Failed to fetch recommendations", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recommendations"})
				return
			}

			c.JSON(http.StatusOK, gin.H{"recipes": recs})
		})
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("Server started", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("Server exited with error", zap.Error(err))
		return
	}
	log.Info("Server exited")
}

// parseLimit clamps the limit query parameter to the displayed list size
func parseLimit(raw string) int {
	limit := constants.MaxDisplayedRecipes
	if raw == "" {
		return limit
	}
	if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= limit {
		return n
	}
	return limit
}

// ginLogger is a custom logger middleware for Gin
func ginLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		log.Info("HTTP Request",
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
		)
	}
}
