package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"contentregistry/internal/api"
	"contentregistry/internal/archive"
	"contentregistry/internal/config"
	"contentregistry/internal/identity"
	"contentregistry/internal/payments"
	"contentregistry/internal/registry"
	"contentregistry/internal/storage"
	"contentregistry/internal/storage/retry"

	"github.com/joho/godotenv"
)

func main() {
	fmt.Println("🌟 Starting Content Registry...")

	// 1. Load configuration
	_ = godotenv.Load()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	// 2. Configure logger
	var logLevel slog.Level
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	slog.Info("Configuration loaded",
		"api_port", cfg.APIPort,
		"max_contents", cfg.MaxContents,
		"registration_fee", cfg.RegistrationFee,
		"log_level", cfg.LogLevel,
	)

	// 3. Initialize database connection and schema
	ctx := context.Background()
	repository, err := storage.NewPostgresRepository(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer repository.Close()

	if err := repository.Migrate(ctx); err != nil {
		log.Fatalf("❌ Failed to run migrations: %v", err)
	}
	slog.Info("Database connected successfully")

	// 4. Create the registry, restoring from the archive when one exists
	reg := registry.New(registry.Options{
		MaxContents:     cfg.MaxContents,
		RegistrationFee: &cfg.RegistrationFee,
		Transferor:      payments.NewJournal(repository),
		StrictAuthority: cfg.StrictAuthority,
	})

	state, err := repository.GetRegistryState(ctx)
	if err != nil {
		log.Fatalf("❌ Failed to read archived state: %v", err)
	}
	if state != nil {
		records, err := repository.ListAllContents(ctx)
		if err != nil {
			log.Fatalf("❌ Failed to load archived contents: %v", err)
		}
		updates, err := repository.ListAllContentUpdates(ctx)
		if err != nil {
			log.Fatalf("❌ Failed to load archived updates: %v", err)
		}
		if err := reg.Restore(records, updates, *state); err != nil {
			log.Fatalf("❌ Failed to restore registry: %v", err)
		}
		slog.Info("Registry restored from archive",
			"contents", len(records),
			"next_content_id", state.NextContentID,
		)
	} else if cfg.AuthorityAddress != "" {
		// Fresh deployment; claim the authority slot before serving traffic.
		authority := identity.Address(cfg.AuthorityAddress)
		if err := authority.Validate(); err != nil {
			log.Fatalf("❌ Invalid AUTHORITY_ADDRESS: %v", err)
		}
		if err := reg.SetAuthority(ctx, authority); err != nil {
			log.Fatalf("❌ Failed to set authority: %v", err)
		}
		slog.Info("Authority set from configuration", "authority", authority)
	}

	// 5. Create the archive fan-out with retrying storage
	strategy := retry.NewStrategy(retry.LoadConfig())
	orch := archive.New([]archive.Service{
		archive.NewStorageService(repository, strategy),
		archive.NewMetricsService(),
	})
	reg.SetDispatcher(orch)
	slog.Info("Archive enabled",
		"services", len(orch.Services()),
	)

	// 6. Start the API server
	server := api.NewServer(cfg.APIPort, reg, repository)
	if err := server.Start(); err != nil {
		log.Fatalf("❌ Failed to start API server: %v", err)
	}

	// 7. Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	slog.Warn("Interrupt received, shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Error stopping API server", "error", err)
	}

	// Flush any queued changes to the archive before exiting.
	reg.Close()

	slog.Info("Content Registry stopped")
}
