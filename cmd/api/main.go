package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/share-project-api/internal/config"
	"github.com/share-project-api/internal/infrastructure/archive"
	"github.com/share-project-api/internal/infrastructure/filestore"
	"github.com/share-project-api/internal/infrastructure/smtp"
	"github.com/share-project-api/internal/infrastructure/staging"
	transporthttp "github.com/share-project-api/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// The public root and the staging directory must exist before the
	// first request.
	for _, dir := range []string{cfg.DataDir, cfg.DataTmpDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("create data directory %s: %v", dir, err)
		}
	}

	stagingStore := staging.NewStore(cfg.DataTmpDir)
	// Reap abandoned uploads once they are past any live token's TTL.
	stagingStore.StartReaper(5*time.Minute, cfg.TokenTTL+5*time.Minute)

	deps := &transporthttp.Deps{
		Tokens:    filestore.NewTokenStore(filepath.Join(cfg.DataTmpDir, cfg.TokenCacheFile), cfg.TokenTTL),
		Registry:  filestore.NewProjectRegistry(filepath.Join(cfg.DataDir, cfg.RegistryFile)),
		Validator: archive.NewValidator(cfg.DataDir),
		Stager:    archive.NewStager(cfg.DataDir),
		Staging:   stagingStore,
		Mailer:    smtp.NewMailer(cfg),
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
