package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/splitproof/splitproof/internal/auth"
	"github.com/splitproof/splitproof/internal/config"
	"github.com/splitproof/splitproof/internal/middleware"
	"github.com/splitproof/splitproof/internal/service"
	"github.com/splitproof/splitproof/internal/storage/sqlite"
	"github.com/splitproof/splitproof/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.LogLevel, cfg.IsProduction())

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	logger := slog.Default()
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	router := service.NewRouter(service.RouterConfig{
		AuthService:    service.NewAuthService(authenticator, jwtManager, store, logger),
		SettleService:  service.NewSettleService(store, service.NewSettlementMetrics("splitproof", nil), logger),
		JWTManager:     jwtManager,
		Metrics:        middleware.NewHTTPMetrics("splitproof", nil),
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	// h2c lets gRPC-style and browser clients share one cleartext port.
	server := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           h2c.NewHandler(router, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server starting", "address", cfg.HTTPAddr(), "env", cfg.AppEnv)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	slog.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}
