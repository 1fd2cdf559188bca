package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	firebase "firebase.google.com/go/v4"
	"github.com/gin-gonic/gin"
	"github.com/navbryce/next-dorm-blog/app"
	"github.com/navbryce/next-dorm-blog/cache"
	"github.com/navbryce/next-dorm-blog/config"
	"github.com/navbryce/next-dorm-blog/db"
	"github.com/navbryce/next-dorm-blog/db/firestoredb"
	"github.com/navbryce/next-dorm-blog/db/memory"
	"github.com/navbryce/next-dorm-blog/db/planetscale"
	"github.com/navbryce/next-dorm-blog/middleware"
	"github.com/navbryce/next-dorm-blog/routes"
)

func main() {
	if os.Getenv("DEBUG") == "true" {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}
	if err := run(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	ctx := context.Background()

	firebaseApp, err := newFirebaseApp(ctx, cfg)
	if err != nil {
		return err
	}

	database, err := getDatabase(ctx, cfg, firebaseApp)
	if err != nil {
		return fmt.Errorf("received err when attempting to connect to DB: %w", err)
	}
	defer database.Close()

	var collection db.PostCollection = database
	if cfg.CacheEnabled() {
		postCache, err := cache.New(cfg, database)
		if err != nil {
			return err
		}
		defer postCache.Close()
		collection = postCache
	}

	var verifier middleware.TokenVerifier = middleware.RejectAll{}
	if firebaseApp != nil {
		authClient, err := firebaseApp.Auth(ctx)
		if err != nil {
			return fmt.Errorf("error initializing auth client: %w", err)
		}
		verifier = authClient
	}

	renderer, err := app.NewRenderer(cfg.DisplayLocation)
	if err != nil {
		return err
	}

	gin.SetMode(cfg.GinMode)
	r := routes.NewRouter(&routes.RouterOpts{
		Collection: collection,
		Verifier:   verifier,
		Renderer:   renderer,
		Blog: &app.BlogOpts{
			Collection: cfg.PostsCollection,
			PageSize:   cfg.PageSize,
		},
		FEOrigins: cfg.FEOrigins,
	})

	slog.Info("starting server", "port", cfg.Port, "backend", cfg.PostsBackend, "cache", cfg.CacheEnabled())
	if err := r.Run(":" + cfg.Port); err != nil {
		return fmt.Errorf("error when attempting to run web server: %w", err)
	}
	return nil
}

// newFirebaseApp returns nil when running in memory without credentials.
func newFirebaseApp(ctx context.Context, cfg config.Config) (*firebase.App, error) {
	if err := configureFirebaseCredentials(); err != nil {
		if cfg.PostsBackend == config.PostsBackendMemory {
			slog.Warn("firebase not configured; post writes are disabled", "error", err)
			return nil, nil
		}
		return nil, fmt.Errorf("an error occurred while configuring firebase credentials: %w", err)
	}
	var firebaseConfig *firebase.Config
	if cfg.FirebaseProjectID != "" {
		firebaseConfig = &firebase.Config{ProjectID: cfg.FirebaseProjectID}
	}
	firebaseApp, err := firebase.NewApp(ctx, firebaseConfig)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase: %w", err)
	}
	return firebaseApp, nil
}

func getDatabase(ctx context.Context, cfg config.Config, firebaseApp *firebase.App) (db.Database, error) {
	switch cfg.PostsBackend {
	case config.PostsBackendMySQL:
		return planetscale.GetDatabase(cfg)
	case config.PostsBackendMemory:
		// Posts written through the API need firebase credentials for the admin
		// check, so local runs start from sample posts.
		mdb := memory.GetDatabase()
		mdb.SeedSamples(cfg.PostsCollection, cfg.MemorySeedPosts)
		return mdb, nil
	default:
		return firestoredb.GetDatabase(ctx, firebaseApp)
	}
}

const (
	CredentialsPathEnvVar = "GOOGLE_APPLICATION_CREDENTIALS"
	CredentialsJsonEnvVar = "GOOGLE_APPLICATION_CREDENTIALS_JSON"
	TargetCredentialsFile = "./google-application-credentials.json"
)

func configureFirebaseCredentials() error {
	credentialsPath, hasCredentialsPath := os.LookupEnv(CredentialsPathEnvVar)
	if hasCredentialsPath {
		slog.Info("credentials path detected in env", "path", credentialsPath)
		return nil
	}
	credentialsJson, hasCredentialsJson := os.LookupEnv(CredentialsJsonEnvVar)
	if hasCredentialsJson {
		slog.Info("credentials JSON string detected in env")
		err := os.WriteFile(TargetCredentialsFile, []byte(credentialsJson), 0400)
		if err != nil {
			return fmt.Errorf("error writing credentials to temp file, %w", err)
		}
		err = os.Setenv(CredentialsPathEnvVar, TargetCredentialsFile)
		if err != nil {
			return fmt.Errorf("error setting %v env var %w", CredentialsPathEnvVar, err)
		}
		return nil
	}
	return fmt.Errorf("must specify either %v (a path)"+
		" or %v (credentials as JSON string)", CredentialsPathEnvVar, CredentialsJsonEnvVar)
}
