package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	gsessions "github.com/gin-contrib/sessions/postgres"
	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for database/sql (session store)
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"quizgen/internal/api"
	"quizgen/internal/api/handlers"
	"quizgen/internal/artifact"
	"quizgen/internal/config"
	"quizgen/internal/db"
	"quizgen/internal/extract"
	"quizgen/internal/gemini"
	"quizgen/internal/logger"
	"quizgen/internal/quiz"
	"quizgen/internal/r2"
)

func main() {
	// .env is optional; the environment always wins over it.
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if envErr != nil && !os.IsNotExist(envErr) {
		log.Fatal("failed to load .env file", zap.Error(envErr))
	} else if envErr != nil {
		log.Info(".env file not found, relying on the process environment")
	}

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
	log.Info("server exited properly")
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Working directories
	for _, dir := range []string{cfg.UploadDir, cfg.ResultsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	// Initialize Gemini client
	geminiClient, err := gemini.NewClient(ctx, cfg.GoogleAPIKey, log)
	if err != nil {
		return fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	defer geminiClient.Close()

	opts := quiz.Options{
		UploadDir:        cfg.UploadDir,
		IsolateArtifacts: cfg.IsolateArtifacts,
	}

	// Optional artifact mirror
	mirror, err := r2.NewClient(ctx, cfg.R2, log)
	if err != nil {
		return fmt.Errorf("failed to initialize R2 client: %w", err)
	}
	if mirror != nil {
		opts.Mirror = mirror
		log.Info("mirroring artifacts to R2", zap.String("bucket", cfg.R2.Bucket))
	}

	// Optional database: generation history and session storage
	var history handlers.HistoryStore
	var store sessions.Store
	if cfg.DatabaseURL != "" {
		database, err := db.NewDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()
		opts.Recorder = database
		history = database

		sessionDB, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to open database connection for session store: %w", err)
		}
		defer sessionDB.Close()

		pgStore, err := gsessions.NewStore(sessionDB, sessionSecret(cfg, log))
		if err != nil {
			return fmt.Errorf("failed to create postgres session store: %w", err)
		}
		store = pgStore
	} else {
		log.Info("DATABASE_URL not set, history disabled and sessions kept in cookies")
		store = cookie.NewStore(sessionSecret(cfg, log))
	}
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	service := quiz.NewService(
		extract.New(log),
		quiz.NewGenerator(geminiClient, cfg.GenerateTimeout, log),
		artifact.NewWriter(cfg.ResultsDir, log),
		opts,
		log,
	)

	// Set up HTTP handlers
	gin.SetMode(gin.ReleaseMode)
	handler := handlers.NewHandler(service, history, handlers.Config{
		ResultsDir:     cfg.ResultsDir,
		MaxQuestions:   cfg.MaxQuestions,
		MaxUploadBytes: cfg.MaxUploadBytes,
	}, log)
	router, err := api.NewRouter(handler, store, log)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.WithCORS(router, cfg.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Set up graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		return fmt.Errorf("failed to start server: %w", err)
	case sig := <-quit:
		log.Info("shutting down server", zap.String("signal", sig.String()))
	}

	// Give server 5 seconds to shut down gracefully
	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

// sessionSecret returns the configured session key, or a random one that
// lasts until the process exits.
func sessionSecret(cfg config.Config, log *zap.Logger) []byte {
	if cfg.SessionSecret != "" {
		return []byte(cfg.SessionSecret)
	}
	log.Warn("SESSION_SECRET is not set, sessions will not survive a restart")
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatal("failed to generate session secret", zap.Error(err))
	}
	return key
}
