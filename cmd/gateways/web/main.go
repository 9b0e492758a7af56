package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	config "github.com/xilidan/voicestock/config/web"
	"github.com/xilidan/voicestock/gateways/web"
	"github.com/xilidan/voicestock/gateways/web/handler"
	"github.com/xilidan/voicestock/pkg/gen"
	"github.com/xilidan/voicestock/pkg/logger"
	"github.com/xilidan/voicestock/pkg/postgres"
	"github.com/xilidan/voicestock/services/asr/ingest"
	asrstorage "github.com/xilidan/voicestock/services/asr/storage"
	"github.com/xilidan/voicestock/services/asr/transcriber"
	asrusecase "github.com/xilidan/voicestock/services/asr/usecase"
	ssostorage "github.com/xilidan/voicestock/services/sso/storage"
	ssousecase "github.com/xilidan/voicestock/services/sso/usecase"
	"google.golang.org/api/option"
)

func main() {
	log := logger.Default()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn("failed to load .env", slog.String("error", err.Error()))
	}

	cfg := config.MustLoad()

	log = logger.New(logger.Config{
		Level:      logger.ParseLevel(cfg.LogLevel),
		Output:     os.Stderr,
		AddSource:  true,
		JSONFormat: cfg.LogJSON,
	})
	slog.SetDefault(log)

	ctx := logger.WithContext(context.Background(), log)

	rootCtx, cancel := signal.NotifyContext(ctx, syscall.SIGTERM)
	defer cancel()

	if err := run(rootCtx, cfg, log); err != nil {
		log.Error("failed to run()", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	var db *sql.DB
	if cfg.ASR.Storage.Backend == "postgres" || cfg.SSO.Directory.Backend == "postgres" {
		var err error
		db, err = postgres.Open(ctx, cfg.Database.DSN())
		if err != nil {
			return err
		}
		defer db.Close()
	}

	blob, err := recordBlob(ctx, cfg, db)
	if err != nil {
		return err
	}

	directory, err := userDirectory(ctx, cfg, db)
	if err != nil {
		return err
	}

	asrUC := asrusecase.New(
		ingest.New(cfg.ASR.Storage.UploadDir, gen.UUID()),
		transcriber.New(&cfg.ASR.Transcription),
		asrstorage.New(blob),
	)
	ssoUC := ssousecase.New(&cfg.SSO, directory)

	log.Info("configuration loaded",
		slog.Int("port", cfg.Port),
		slog.String("record_store", cfg.ASR.Storage.Backend),
		slog.String("user_directory", cfg.SSO.Directory.Backend),
		slog.String("model", cfg.ASR.Transcription.Model),
		slog.Duration("transcribe_timeout", cfg.ASR.Transcription.Timeout))

	srv := web.New(cfg, log, handler.New(asrUC, ssoUC))
	return srv.Start(ctx)
}

func recordBlob(ctx context.Context, cfg *config.Config, db *sql.DB) (asrstorage.Blob, error) {
	switch cfg.ASR.Storage.Backend {
	case "fs":
		return asrstorage.NewFS(cfg.ASR.Storage.DataDir), nil
	case "postgres":
		blob := asrstorage.NewPostgres(db)
		if err := blob.Migrate(ctx); err != nil {
			return nil, err
		}
		return blob, nil
	default:
		return nil, fmt.Errorf("unknown RECORD_STORE %q", cfg.ASR.Storage.Backend)
	}
}

func userDirectory(ctx context.Context, cfg *config.Config, db *sql.DB) (ssostorage.Storage, error) {
	switch cfg.SSO.Directory.Backend {
	case "sheets":
		var opts []option.ClientOption
		if cfg.SSO.Directory.CredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.SSO.Directory.CredentialsFile))
		}
		return ssostorage.NewSheets(ctx, cfg.SSO.Directory.SheetID, opts...)
	case "sheet":
		return ssostorage.NewSheet(cfg.SSO.Directory.SheetPath), nil
	case "postgres":
		return ssostorage.NewPostgres(db), nil
	default:
		return nil, fmt.Errorf("unknown USER_DIRECTORY %q", cfg.SSO.Directory.Backend)
	}
}
