package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/hongminglow/codemorph-be/internal/config"
	"github.com/hongminglow/codemorph-be/internal/logging"
	"github.com/hongminglow/codemorph-be/internal/server"
	"github.com/hongminglow/codemorph-be/internal/storage"
	"github.com/hongminglow/codemorph-be/internal/storage/postgres"
	"github.com/hongminglow/codemorph-be/internal/storage/sqlite"
)

func main() {
	loadLocalEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.IsDevelopment())

	ctx := context.Background()
	userStore, err := openUserStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	defer userStore.Close()

	srv, err := server.New(cfg, userStore, logger)
	if err != nil {
		log.Fatalf("init server: %v", err)
	}

	go func() {
		logger.Info(ctx, "CodeMorph backend listening", "addr", cfg.HTTPAddress(), "env", cfg.Environment)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Error(ctxShutdown, "graceful shutdown error", "error", err)
	}
}

func loadLocalEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found; relying on existing environment")
	}
}

// openUserStore picks the credential store from the DATABASE_URL scheme.
func openUserStore(ctx context.Context, databaseURL string) (storage.UserStore, error) {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		store, err := postgres.NewUserStore(ctx, databaseURL)
		if err != nil {
			return nil, err
		}
		return store, nil
	case strings.HasPrefix(databaseURL, "sqlite:"), strings.HasPrefix(databaseURL, "file:"):
		store, err := sqlite.NewUserStore(ctx, databaseURL)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported DATABASE_URL scheme in %q", redact(databaseURL))
	}
}

func redact(databaseURL string) string {
	if i := strings.Index(databaseURL, "://"); i >= 0 {
		return databaseURL[:i+3] + "..."
	}
	return "..."
}
