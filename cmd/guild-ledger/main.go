package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"guild-ledger/internal/bot"
	"guild-ledger/internal/config"
	"guild-ledger/internal/handler"
	"guild-ledger/internal/logger"
	"guild-ledger/internal/service"
	"guild-ledger/internal/storage"
)

func main() {
	// Define command line flags
	configPath := flag.String("config", "configs/config.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set up logging first
	if err := logger.Setup(cfg); err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}

	// Open the persistence backend
	store, err := storage.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	log.Printf("Storage backend ready: %s", cfg.Storage.Backend)

	// Create context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize bot with the interaction handler
	h := handler.New(cfg, store)
	botService, healthServer, err := bot.Initialize(cfg, h)
	if err != nil {
		log.Fatalf("Failed to initialize bot: %v", err)
	}

	// Start health server in a goroutine
	go func() {
		if err := healthServer.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	// Connect to Discord
	if err := botService.Start(ctx); err != nil {
		log.Fatalf("Failed to start bot: %v", err)
	}

	// Start the probation reminder scanner
	var scanner *service.Scanner
	if cfg.Reminder.Enabled {
		notifier, err := bot.NewChannelNotifier(botService.Client, cfg)
		if err != nil {
			log.Fatalf("Failed to create reminder notifier: %v", err)
		}
		scanner = service.NewScanner(store, notifier,
			time.Duration(cfg.Reminder.IntervalMins)*time.Minute,
			time.Duration(cfg.Reminder.ProbationDays)*24*time.Hour,
		)
		scanner.Start()
	}

	// Create a channel for receiving OS signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, os.Kill, syscall.SIGTERM)

	// Wait for signal
	sig := <-sigChan
	log.Printf("Received signal: %v, shutting down...", sig)

	if scanner != nil {
		scanner.Stop()
	}

	// Gracefully shutdown server and gateway
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	botService.Stop(shutdownCtx)
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
	if err := store.Close(); err != nil {
		log.Printf("Storage close error: %v", err)
	}

	log.Println("Server gracefully stopped")
}
