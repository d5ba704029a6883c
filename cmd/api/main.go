package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"cvstudio/api/internal/app"
	"cvstudio/api/internal/assets"
	"cvstudio/api/internal/config"
	"cvstudio/api/internal/search"
	"cvstudio/api/internal/share"
	"cvstudio/api/internal/store"
)

func main() {
	cfg := config.Load()

	fileStore, err := store.NewFileStore(cfg.DataDir)
	if err != nil {
		log.Fatalf("data dir setup failed: %v", err)
	}

	var meiliClient *search.Meili
	if strings.TrimSpace(cfg.MeiliURL) != "" {
		meiliClient = search.NewMeili(cfg.MeiliURL, cfg.MeiliMasterKey)
	}
	searchService := search.NewService(meiliClient, search.NewStoreScan(fileStore))
	if meiliClient != nil {
		defer meiliClient.Close()
	}

	// Share links need Redis; without it the endpoint reports unavailable.
	var shareStore *share.RedisStore
	if strings.TrimSpace(cfg.RedisURL) != "" {
		shareStore, err = share.NewRedisStore(cfg.RedisURL, cfg.ShareTTL)
		if err != nil {
			log.Fatalf("redis connection failed: %v", err)
		}
		defer shareStore.Close()
		log.Printf("Share links enabled via Redis")
	}

	// Photo storage needs an S3-compatible endpoint; optional as well.
	var assetStore *assets.Store
	if strings.TrimSpace(cfg.S3Endpoint) != "" {
		assetStore, err = assets.New(cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3UseSSL)
		if err != nil {
			log.Fatalf("object store connection failed: %v", err)
		}
		log.Printf("Photo storage enabled via %s", cfg.S3Endpoint)
	}

	service := app.New(cfg, fileStore, searchService, shareStore, assetStore)

	httpServer := app.NewHTTPServer(service, cfg.CORSOrigin)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("CV Studio API listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
