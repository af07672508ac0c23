package main

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/storyloom/backend/internal/llm"
	"github.com/storyloom/backend/internal/moderation"
	"github.com/storyloom/backend/internal/router"
	"github.com/storyloom/backend/pkg/config"
	"github.com/storyloom/backend/validators"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	if cfg.Env == "development" {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	// Initialize database connection
	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	// A broken wordlist means stories go unscreened, so refuse to start
	classifier, err := moderation.NewClassifier(cfg.BadwordsPath)
	if err != nil {
		log.Fatalf("Failed to load content classifier: %v", err)
	}

	generator := llm.NewClient(llm.Options{
		Endpoint:     cfg.LLMEndpoint,
		APIKey:       cfg.LLMAPIKey,
		DefaultModel: cfg.LLMModel,
		MaxTokens:    cfg.LLMMaxTokens,
		Timeout:      time.Duration(cfg.LLMTimeoutSecs) * time.Second,
	})

	engine := moderation.NewEngine(db.Postgres, classifier, generator, log)

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	if err := router.SetupRoutes(e, db.Postgres, cfg, engine, log); err != nil {
		log.Fatalf("Failed to set up routes: %v", err)
	}

	// Validator
	e.Validator = validators.NewValidator()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
