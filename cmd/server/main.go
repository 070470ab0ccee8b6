package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ndewijer/Broker-Document-Importer/internal/api"
	"github.com/ndewijer/Broker-Document-Importer/internal/config"
	"github.com/ndewijer/Broker-Document-Importer/internal/database"
	"github.com/ndewijer/Broker-Document-Importer/internal/parser"
	"github.com/ndewijer/Broker-Document-Importer/internal/parser/traderepublic"
	"github.com/ndewijer/Broker-Document-Importer/internal/repository"
	"github.com/ndewijer/Broker-Document-Importer/internal/secret"
	"github.com/ndewijer/Broker-Document-Importer/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	log.Printf("Connected to database: %s", cfg.Database.Path)

	if err := database.Migrate(context.Background(), db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Source retention is only enabled with an encryption key
	var box *secret.Box
	if cfg.Import.EncryptionKey != "" {
		if box, err = secret.NewBox(cfg.Import.EncryptionKey); err != nil {
			log.Fatalf("Invalid DOCUMENT_ENCRYPTION_KEY: %v", err)
		}
	} else {
		log.Println("DOCUMENT_ENCRYPTION_KEY not set, document sources will not be retained")
	}

	registry := parser.NewRegistry(traderepublic.New())
	activityRepo := repository.NewActivityRepository(db)

	// Create services
	systemService := service.NewSystemService(db, registry, map[string]bool{
		"source_retention": box != nil,
		"inbox":            cfg.Import.InboxDir != "",
	})
	importService := service.NewImportService(registry, activityRepo, box, cfg.Import.Workers)
	activityService := service.NewActivityService(activityRepo, registry, box)

	var scheduler *service.InboxScheduler
	if cfg.Import.InboxDir != "" {
		scheduler, err = service.NewInboxScheduler(importService, cfg.Import.InboxDir, cfg.Import.Schedule)
		if err != nil {
			log.Fatalf("Failed to create inbox scheduler: %v", err)
		}
		scheduler.RunOnce(context.Background())
		scheduler.Start()
		log.Printf("Watching inbox %s (%s)", cfg.Import.InboxDir, cfg.Import.Schedule)
	}

	// Create router
	router := api.NewRouter(systemService, importService, activityService, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if scheduler != nil {
		select {
		case <-scheduler.Stop().Done():
		case <-ctx.Done():
			log.Println("Inbox import still running at shutdown")
		}
	}

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
