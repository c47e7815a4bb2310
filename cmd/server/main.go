package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/citygrid/sambag-alert-be/internal/botcheck"
	"github.com/citygrid/sambag-alert-be/internal/config"
	"github.com/citygrid/sambag-alert-be/internal/identity"
	"github.com/citygrid/sambag-alert-be/internal/identity/localident"
	"github.com/citygrid/sambag-alert-be/internal/server"
	"github.com/citygrid/sambag-alert-be/internal/storage/postgres"
)

func main() {
	loadLocalEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	store, err := postgres.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	defer store.Close()

	var provider identity.Provider
	var local *localident.Provider
	if cfg.IdentityMode == config.IdentityModeLocal {
		local = localident.New(store, cfg.IdentityProviderKey)
		provider = local
	} else {
		provider = identity.NewClient(cfg.IdentityProviderURL, cfg.IdentityProviderKey)
	}

	verifier := botcheck.New(cfg.RecaptchaSecret, cfg.RecaptchaVerifyURL)

	srv := server.New(cfg, store, provider, local, verifier)

	go func() {
		log.Printf("alert backend listening on %s", cfg.HTTPAddress())
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Printf("graceful shutdown error: %v", err)
	}
}

func loadLocalEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found; relying on existing environment")
	}
}
