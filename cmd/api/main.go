package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/vaughan-dsouza/gamehub/internal/auth"
	"github.com/vaughan-dsouza/gamehub/internal/config"
	"github.com/vaughan-dsouza/gamehub/internal/db"
	"github.com/vaughan-dsouza/gamehub/internal/handlers"
	"github.com/vaughan-dsouza/gamehub/internal/logging"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.Setup(cfg.LogLevel)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dbConn, err := db.Open(startCtx, cfg.DatabaseURL, cfg.IsPostgres(), db.Pool{
		MaxOpen:     cfg.DBMaxOpen,
		MaxIdle:     cfg.DBMaxIdle,
		MaxLifetime: cfg.DBMaxLifetime,
	})
	if err != nil {
		return err
	}
	defer dbConn.Close()

	// The signing key is read once here; tokens are not revocable, so
	// changing JWT_SECRET is the only way to invalidate them.
	tokenCfg := auth.TokenConfig{Secret: []byte(cfg.JWTSecret), TTL: auth.TokenLifetime}
	issuer, err := auth.NewIssuer(tokenCfg)
	if err != nil {
		return err
	}
	verifier, err := auth.NewVerifier(tokenCfg)
	if err != nil {
		return err
	}

	h := handlers.NewHandler(handlers.Deps{
		DB:       dbConn,
		Hasher:   auth.NewPasswordHasher(cfg.BcryptCost),
		Issuer:   issuer,
		Verifier: verifier,
		Log:      logger,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr, "postgres", cfg.IsPostgres())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}
	logger.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("server exited")
	return nil
}
