package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/tkoskim/breachpoint/internal/envstruct"
	"github.com/tkoskim/breachpoint/internal/errors"
	"github.com/tkoskim/breachpoint/internal/game"
	"github.com/tkoskim/breachpoint/internal/logging"
	"github.com/tkoskim/breachpoint/internal/pprofserver"
	"github.com/tkoskim/breachpoint/internal/repositories"
	"github.com/tkoskim/breachpoint/internal/sqlite"
)

type application struct {
	logger   *slog.Logger
	content  *repositories.ContentRepository
	progress *repositories.ProgressRepository
	engine   *game.Engine
}

type config struct {
	// Addr is the address the server listens on. Use port 0 to let the OS pick a free port.
	Addr string `env:"BREACHPOINT_ADDR" envDefault:"localhost:4000"`
	// SQLiteURL is the database file path. The default keeps all state in memory for the
	// lifetime of the process.
	SQLiteURL string `env:"BREACHPOINT_SQLITE_URL" envDefault:":memory:"`
	// PprofPort enables a localhost pprof server on the given port, e.g. ":6060". Empty
	// disables it.
	PprofPort string `env:"BREACHPOINT_PPROF_PORT" envDefault:""`
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var cfg config
	if err := envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "parse config")
	}

	if cfg.PprofPort != "" {
		// pprof listens on localhost only so that it's not open to the world.
		pprofserver.Launch(cfg.PprofPort, logger)
	}

	dbs, err := sqlite.NewDatabase(ctx, cfg.SQLiteURL, logger)
	if err != nil {
		return errors.Wrap(err, "connect to database", slog.String("url", cfg.SQLiteURL))
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "connected to db", slog.String("url", cfg.SQLiteURL))
	go dbs.StartDatabaseOptimizer(ctx)

	content := repositories.NewContentRepository(dbs, logger)
	progress := repositories.NewProgressRepository(dbs, logger)
	users := repositories.NewUserRepository(dbs, logger)
	engine := game.NewEngine(content, progress, users, logger)

	// Authoring mistakes in the catalog are tolerated at runtime but worth shouting about.
	findings, err := engine.ValidateContent(ctx)
	if err != nil {
		return errors.Wrap(err, "validate content")
	}
	for _, finding := range findings {
		logger.LogAttrs(ctx, slog.LevelWarn, "case catalog problem", slog.String("finding", finding))
	}

	app := application{
		logger:   logger,
		content:  content,
		progress: progress,
		engine:   engine,
	}

	return app.configureAndStartServer(ctx, cfg.Addr)
}

func main() {
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   true,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	ctx := context.Background()

	// .env is for local development; it's fine for it to be missing elsewhere.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Error(err.Error())
		os.Exit(1)
	}

	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server failed", errors.SlogError(err))
		os.Exit(1)
	}
}
