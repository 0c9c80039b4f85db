package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"fittrack-client/internal/api"
	"fittrack-client/internal/config"
	"fittrack-client/internal/database"
	"fittrack-client/internal/services"
	"fittrack-client/internal/session"
)

func main() {
	cfg := config.Load()

	store, closeStore, err := openTokenStore(cfg)
	if err != nil {
		log.Fatalf("✗ Token store unavailable: %v", err)
	}
	defer closeStore()
	log.Printf("✓ Token store ready (%s)", cfg.TokenStore)

	sess := session.New(store)
	client := api.NewClient(cfg.APIBaseURL, &http.Client{Timeout: cfg.HTTPTimeout}, sess)

	var completer services.Completer = client
	if cfg.GeminiAPIKey != "" {
		gemini, err := services.NewGeminiCompleter(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiConcurrentReqs)
		if err != nil {
			log.Fatalf("✗ Gemini client initialization failed: %v", err)
		}
		defer gemini.Close()
		completer = gemini
		log.Printf("✓ Assistant answers from Gemini (%s)", cfg.GeminiModel)
	}

	a := newApp(client, sess, completer, cfg.ChatModel, newPrompter(os.Stdin), os.Stdout)

	fmt.Printf("Welcome to FitTrack (%s)\n", cfg.APIBaseURL)
	a.run(context.Background())
}

// openTokenStore picks the session slot backend named by TOKEN_STORE.
func openTokenStore(cfg *config.Config) (session.Store, func(), error) {
	switch cfg.TokenStore {
	case "redis":
		rdb, err := database.NewRedisClient(cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return session.NewRedisStore(rdb, cfg.RedisKeyPrefix), func() { rdb.Close() }, nil
	case "memory":
		return session.NewMemoryStore(), func() {}, nil
	case "file", "":
		return session.NewFileStore(cfg.TokenPath), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown token store %q", cfg.TokenStore)
}
