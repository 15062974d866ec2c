package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ammar1510/chatterbox/internal/api"
	"github.com/ammar1510/chatterbox/internal/auth"
	"github.com/ammar1510/chatterbox/internal/config"
	"github.com/ammar1510/chatterbox/internal/database"
	"github.com/ammar1510/chatterbox/internal/logger"
	"github.com/ammar1510/chatterbox/internal/service"
	"github.com/ammar1510/chatterbox/internal/storage"
)

var log = logger.New("server")

func main() {
	cfg, err := config.Load(".env", os.Args[1:])
	if err != nil {
		log.Error("Invalid configuration: %v", err)
		os.Exit(1)
	}

	closeLog, err := setupLogging(cfg)
	if err != nil {
		log.Error("Failed to set up logging: %v", err)
		os.Exit(1)
	}
	defer closeLog()

	if err := run(cfg); err != nil {
		log.Error("Server stopped: %v", err)
		closeLog()
		os.Exit(1)
	}
}

// setupLogging picks the log format from the configured environment,
// tees output to LOG_FILE when set and applies LOG_LEVEL.
func setupLogging(cfg *config.Config) (func(), error) {
	var out io.Writer = os.Stdout
	closeLog := func() {}

	if cfg.LogFile != "" {
		logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, err
		}
		out = io.MultiWriter(os.Stdout, logFile)
		closeLog = func() { _ = logFile.Close() }
	}

	logger.Configure(cfg.IsDevelopment(), out)

	if cfg.LogLevel != "" {
		level, err := logger.ParseLevel(cfg.LogLevel)
		if err != nil {
			closeLog()
			return nil, err
		}
		logger.SetMinLevel(level)
	}

	if cfg.LogFile != "" {
		log.Info("Logging to console and %s", cfg.LogFile)
	}
	return closeLog, nil
}

func run(cfg *config.Config) error {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	issuer, err := auth.NewTokenIssuer([]byte(cfg.JWTSecret), cfg.SessionTTL)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	connStr, err := cfg.ConnectionString()
	if err != nil {
		return err
	}
	db, err := database.NewDatabase(ctx, database.DatabaseType(cfg.DBType), connStr)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info("Connected to %s database successfully", cfg.DBType)

	blobs, err := storage.NewBlobStore(ctx, storage.BackendType(cfg.BlobBackend), storage.S3Config{
		Bucket:    cfg.S3Bucket,
		Region:    cfg.S3Region,
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		PublicURL: cfg.S3PublicURL,
	})
	if err != nil {
		return err
	}
	log.Info("Using %s blob storage", cfg.BlobBackend)

	router := api.NewRouter(db,
		service.NewAuthService(db, blobs, issuer, cfg.MaxImageBytes),
		service.NewMessageService(db, blobs, cfg.MaxImageBytes),
		api.RouterConfig{
			AllowedOrigins: cfg.AllowedOrigins,
			SecureCookies:  !cfg.IsDevelopment(),
		})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for an interrupt or a listener failure
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-quit:
	}
	log.Info("Shutting down server...")

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info("Server exited properly")
	return nil
}
