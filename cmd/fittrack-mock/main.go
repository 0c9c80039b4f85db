package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fittrack-client/internal/config"
	"fittrack-client/internal/mockapi"
)

func main() {
	log.Println("🚀 Starting FitTrack mock backend...")

	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	srv := mockapi.New(mockapi.Options{
		JWTSecret:     cfg.MockJWTSecret,
		AuthRateLimit: cfg.MockAuthRateLimit,
		ChatModel:     cfg.ChatModel,
		Logging:       true,
	})
	defer srv.Close()
	log.Printf("✓ In-memory store ready (auth rate limit %d/min)", cfg.MockAuthRateLimit)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.MockPort),
		Handler:      srv.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ Mock backend ready on http://localhost:%s", cfg.MockPort)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.MockPort)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
