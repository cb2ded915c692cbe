package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/ignite/floody/internal/api"
	"github.com/ignite/floody/internal/config"
	"github.com/ignite/floody/internal/dcm"
	"github.com/ignite/floody/internal/gtm"
	"github.com/ignite/floody/internal/pkg/distlock"
	"github.com/ignite/floody/internal/repository/postgres"
	"github.com/ignite/floody/internal/service/gtmrequest"
	"github.com/ignite/floody/internal/sheets"
	"github.com/ignite/floody/internal/syncer"
)

// googleScopes covers all three APIs the server talks to.
var googleScopes = []string{
	"https://www.googleapis.com/auth/dfatrafficking",
	"https://www.googleapis.com/auth/spreadsheets",
	"https://www.googleapis.com/auth/tagmanager.edit.containers",
	"https://www.googleapis.com/auth/tagmanager.readonly",
}

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the configuration file")
	flag.Parse()

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Google.ProfileID == 0 {
		log.Fatal("google.profile_id is required")
	}
	if cfg.Storage.DatabaseURL == "" {
		log.Fatal("storage.database_url is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tokenSource, err := buildTokenSource(ctx, cfg.Google)
	if err != nil {
		log.Fatalf("Failed to build Google credentials: %v", err)
	}

	db, err := sql.Open("postgres", cfg.Storage.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("Failed to reach database: %v", err)
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Printf("Redis unreachable, sync locks fall back to PostgreSQL: %v", err)
			redisClient = nil
		}
	}

	platform := dcm.NewClient(dcm.Config{BaseURL: cfg.Google.DCMBaseURL, TokenSource: tokenSource})
	spreadsheets := sheets.NewClient(sheets.Config{BaseURL: cfg.Google.SheetsBaseURL, TokenSource: tokenSource})
	tagManager := gtm.NewClient(gtm.Config{BaseURL: cfg.Google.TagManagerBaseURL, TokenSource: tokenSource})

	requests := gtmrequest.NewService(postgres.NewGtmExportRepo(db), tagManager)
	manager := syncer.NewManager(platform, spreadsheets, requests,
		cfg.Google.ProfileID, cfg.Google.DefaultAudienceLifespanDays)

	newLock := func(key string) distlock.DistLock {
		return distlock.NewLock(redisClient, db, key, 10*time.Minute)
	}
	server := api.NewServer(cfg.Server, api.NewHandlers(manager, requests, newLock))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		addr := cfg.Server.Addr()
		log.Printf("Starting server on %s (profile %d)", addr, cfg.Google.ProfileID)
		if err := server.ListenAndServe(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}

// buildTokenSource prefers an explicit service-account key file and falls
// back to application default credentials.
func buildTokenSource(ctx context.Context, cfg config.GoogleConfig) (oauth2.TokenSource, error) {
	if cfg.CredentialsFile != "" {
		data, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, err
		}
		creds, err := google.CredentialsFromJSON(ctx, data, googleScopes...)
		if err != nil {
			return nil, err
		}
		return creds.TokenSource, nil
	}
	return google.DefaultTokenSource(ctx, googleScopes...)
}
