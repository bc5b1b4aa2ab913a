package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"sous-chef/backend/internal/bot"
	"sous-chef/backend/internal/discord"
	"sous-chef/backend/internal/graph"
	"sous-chef/backend/internal/nlu"
	"sous-chef/backend/internal/notify"
	"sous-chef/backend/internal/recipes"
	"sous-chef/backend/internal/session"
	"sous-chef/backend/pkg/config"
	"sous-chef/backend/pkg/logger"
)

func main() {
	// Load configuration first so the logger knows the environment
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}

	if err := logger.Init(cfg.Env); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting recipe bot...")

	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration", zap.Error(err))
	}
	if cfg.DiscordBotToken == "" {
		log.Fatal("DISCORD_BOT_TOKEN is required")
	}

	// Initialize Neo4j driver
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

	// Initialize dependencies
	graphRepo := graph.NewRepository(driver)

	// Uniqueness constraints must exist before any upsert runs
	schema, err := graphRepo.EnsureSchema(ctx)
	if err != nil {
		log.Fatal("Failed to initialize graph schema", zap.Error(err))
	}
	log.Info("Graph schema ready",
		zap.Strings("labels", schema.Labels),
		zap.Bool("created", schema.Created),
	)

	nluClient := nlu.NewClient(cfg.NLUURL, cfg.NLUAPIKey, cfg.NLUWorkspaceID, cfg.HTTPTimeout)
	catalogClient := recipes.NewClient(cfg.CatalogHost, cfg.CatalogAPIKey, cfg.HTTPTimeout)
	notifyClient := notify.NewClient(cfg.NotifyURL, cfg.NotifyAPIKey, cfg.HTTPTimeout)

	sessions := session.NewStore(cfg.SessionTTL)
	defer sessions.Close()

	turnHandler := bot.NewHandler(sessions, graphRepo, nluClient, catalogClient, notifyClient)

	// Create Discord session
	dg, err := discordgo.New("Bot " + cfg.DiscordBotToken)
	if err != nil {
		log.Fatal("Failed to create Discord session", zap.Error(err))
	}

	messageHandler := discord.NewHandler(turnHandler, log)
	dg.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		messageHandler.HandleMessage(s, m)
	})

	// The bot converses over DMs and guild mentions, no other events needed
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages

	if err := dg.Open(); err != nil {
		log.Fatal("Failed to open Discord connection", zap.Error(err))
	}
	defer dg.Close()

	log.Info("Recipe bot is running. Press CTRL-C to exit.")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-quit

	log.Info("Shutting down recipe bot...")
}
