package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/chzyer/readline"
	"github.com/lmittmann/tint"

	"github.com/bryanwahyu/media-analysis-bot/internal/application"
	appanalysis "github.com/bryanwahyu/media-analysis-bot/internal/application/analysis"
	"github.com/bryanwahyu/media-analysis-bot/internal/config"
	domain "github.com/bryanwahyu/media-analysis-bot/internal/domain/analysis"
	"github.com/bryanwahyu/media-analysis-bot/internal/infra/ai/groq"
	"github.com/bryanwahyu/media-analysis-bot/internal/infra/db/mysql"
	"github.com/bryanwahyu/media-analysis-bot/internal/infra/db/postgres"
	"github.com/bryanwahyu/media-analysis-bot/internal/infra/encoder"
	"github.com/bryanwahyu/media-analysis-bot/internal/infra/httpserver"
	minioStore "github.com/bryanwahyu/media-analysis-bot/internal/infra/storage"
	"github.com/bryanwahyu/media-analysis-bot/internal/infra/video"
	"github.com/bryanwahyu/media-analysis-bot/internal/middleware"
)

func main() {
	log := slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: slog.LevelInfo}))
	slog.SetDefault(log)

	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Error("config load error", "err", err)
		os.Exit(1)
	}

	// The credential must exist before any request machinery starts.
	if cfg.Groq.APIKey == "" {
		key, err := promptAPIKey()
		if err != nil {
			log.Error("api key prompt failed", "err", err)
			os.Exit(1)
		}
		cfg.Groq.APIKey = key
	}
	if cfg.Groq.APIKey == "" {
		log.Error("no Groq API key configured: set groq.apiKey or GROQ_API_KEY")
		os.Exit(1)
	}

	ctx := context.Background()

	checkers := map[string]middleware.HealthChecker{
		"ffmpeg":  middleware.BinaryChecker{Path: orDefault(cfg.FFmpeg.FFmpegPath, "ffmpeg")},
		"ffprobe": middleware.BinaryChecker{Path: orDefault(cfg.FFmpeg.FFprobePath, "ffprobe")},
	}

	// optional analysis history
	var history domain.Repository
	switch cfg.Database.Driver {
	case "":
	case "mysql":
		db, err := mysql.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Error("mysql connect error", "err", err)
			os.Exit(1)
		}
		defer db.Close()
		repo := mysql.NewHistoryRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Error("mysql schema error", "err", err)
			os.Exit(1)
		}
		history = repo
		checkers["database"] = &middleware.DatabaseHealthChecker{DB: db}
	case "postgres":
		db, err := postgres.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Error("postgres connect error", "err", err)
			os.Exit(1)
		}
		defer db.Close()
		repo := postgres.NewHistoryRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Error("postgres schema error", "err", err)
			os.Exit(1)
		}
		history = repo
		checkers["database"] = &middleware.DatabaseHealthChecker{DB: db}
	default:
		log.Error("unknown database driver", "driver", cfg.Database.Driver)
		os.Exit(1)
	}

	// optional frame archive
	var artifacts domain.ArtifactStore
	if cfg.ArchiveEnabled() {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			log.Error("minio init error", "err", err)
			os.Exit(1)
		}
		artifacts = store
	}

	svc := &appanalysis.Service{
		Encoder:        encoder.New(),
		Extractor:      video.NewExtractor(cfg.FFmpeg.FFmpegPath, cfg.FFmpeg.FFprobePath, cfg.FFmpeg.TempDir),
		Vision:         groq.NewClient(cfg.Groq.APIKey, cfg.Groq.Model, cfg.Groq.BaseURL),
		History:        history,
		Artifacts:      artifacts,
		Clock:          application.SystemClock{},
		MaxUploadBytes: cfg.MaxUploadBytes(),
		Log:            log,
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: httpserver.NewRouter(svc, log, checkers),
		// generous write timeout: the vision call blocks for its full duration
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Info("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Warn("shutdown error", "err", err)
	}
}

// promptAPIKey asks for the credential on the terminal without echoing it.
func promptAPIKey() (string, error) {
	rl, err := readline.New("")
	if err != nil {
		return "", err
	}
	defer rl.Close()

	key, err := rl.ReadPassword("Enter your Groq API key: ")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(key)), nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
