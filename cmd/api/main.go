package main

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"menuparser/internal/app"
	"menuparser/internal/config"
	"menuparser/internal/db"
	"menuparser/internal/parsing"
	"menuparser/internal/router"
	"menuparser/internal/storage"
)

func main() {
	ctx := context.Background()

	// ───────────────────────── ENV ─────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg.ConfigureLogging()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// ───────────────────────── DB ─────────────────────────
	pgDB, err := db.ConnectPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Postgres init failed: %v", err)
	}
	defer pgDB.Close()

	// ───────────────────────── STORAGE ─────────────────────────
	r2Client, err := storage.NewR2Client(ctx, storage.R2Config{
		Endpoint:  cfg.R2Endpoint,
		AccessKey: cfg.R2AccessKey,
		SecretKey: cfg.R2SecretKey,
		Bucket:    cfg.R2Bucket,
	})
	if err != nil {
		log.Fatalf("R2 init failed: %v", err)
	}

	// ───────────────────────── LLM + PIPELINES ─────────────────────────
	llmClient, err := app.NewLLMClient(ctx, cfg)
	if err != nil {
		log.Fatalf("LLM init failed: %v", err)
	}
	pipelines, err := app.Build(cfg, llmClient, r2Client)
	if err != nil {
		log.Fatalf("Pipeline init failed: %v", err)
	}

	// ───────────────────────── SERVICE ─────────────────────────
	repo := parsing.NewPostgresRepository(pgDB)
	service := parsing.NewService(repo, pipelines.Text, pipelines.Files, r2Client)
	handler := parsing.NewHandler(service)

	var secret []byte
	if cfg.ServiceJWTSecret != "" {
		secret = []byte(cfg.ServiceJWTSecret)
	}
	r := router.NewRouter(handler, router.Options{
		ServiceSecret: secret,
		CORSOrigins:   cfg.Origins(),
	})

	// ───────────────────────── START ─────────────────────────
	addr := fmt.Sprintf(":%d", cfg.Port)
	log.WithFields(log.Fields{
		"addr":     addr,
		"provider": cfg.LLMProvider,
		"auth":     secret != nil,
	}).Info("menu parser API running")
	if err := r.Run(addr); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
