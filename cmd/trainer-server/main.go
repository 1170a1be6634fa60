package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/rainhsu/pokertrainer/internal/history"
	"github.com/rainhsu/pokertrainer/internal/randutil"
	"github.com/rainhsu/pokertrainer/internal/server"
	"github.com/rainhsu/pokertrainer/internal/strategy"
)

var CLI struct {
	Config    string `short:"c" long:"config" default:"trainer.hcl" help:"Path to HCL configuration file"`
	Addr      string `short:"a" long:"addr" help:"Listen address (overrides config)"`
	LogLevel  string `short:"l" long:"log-level" help:"Log level (overrides config)"`
	TableSize int    `short:"t" long:"table-size" help:"Table size, 6 or 9 (overrides config)"`
	Seed      int64  `short:"s" long:"seed" help:"Deterministic deal seed (overrides config)"`
}

func main() {
	kctx := kong.Parse(&CLI)

	// .env carries the OpenAI key and database URL in development.
	_ = godotenv.Load()

	cfg, err := server.LoadConfig(CLI.Config)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		kctx.Exit(1)
	}

	// Apply command line overrides
	if CLI.Addr != "" {
		cfg.Server.Address = CLI.Addr
	}
	if CLI.LogLevel != "" {
		cfg.Server.LogLevel = CLI.LogLevel
	}
	if CLI.TableSize != 0 {
		cfg.Game.TableSize = CLI.TableSize
	}
	if CLI.Seed != 0 {
		cfg.Game.Seed = CLI.Seed
	}
	if cfg.Server.DatabaseURL == "" {
		cfg.Server.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		kctx.Exit(1)
	}

	logger := log.New(os.Stderr)
	switch cfg.Server.LogLevel {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "info":
		logger.SetLevel(log.InfoLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clock := quartz.NewReal()
	store, cleanup, err := openStore(ctx, cfg.Server.DatabaseURL, clock, logger)
	if err != nil {
		logger.Error("Failed to open history store", "err", err)
		kctx.Exit(1)
	}
	defer cleanup()

	// Opponents and analysis share one model client; without a key the rule
	// bot plays and analysis serves placeholders.
	client := strategy.NewClient(strategy.ConfigFromEnv(), logger)
	var bots strategy.DecisionSource = strategy.NewRuleBot(randutil.NewFromTime(), logger)
	if client != nil {
		bots = client
		logger.Info("Model-backed opponents enabled")
	} else {
		logger.Info("No OpenAI key configured, using rule-based opponents")
	}
	advisor := strategy.NewAdvisor(client, logger)

	hub := server.NewHub(logger)
	svc, err := server.NewService(cfg.Game, bots, advisor, store, hub, logger)
	if err != nil {
		logger.Error("Failed to build table service", "err", err)
		kctx.Exit(1)
	}

	httpServer := &http.Server{
		Addr:    cfg.ListenAddress(),
		Handler: server.Router(svc, hub, cfg.Server.StaticDir),
	}

	logger.Info("Starting trainer server",
		"addr", cfg.ListenAddress(),
		"table_size", cfg.Game.TableSize,
		"big_blind", cfg.Game.BigBlind)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "err", err)
		kctx.Exit(1)
	}
	logger.Info("Server stopped")
}

// openStore picks Postgres when a DSN is configured, in-memory otherwise.
func openStore(ctx context.Context, dsn string, clock quartz.Clock, logger *log.Logger) (history.Store, func(), error) {
	if dsn == "" {
		logger.Info("No database configured, hand history kept in memory")
		return history.NewMemoryStore(clock), func() {}, nil
	}

	pg, err := history.OpenPG(ctx, dsn, clock, logger)
	if err != nil {
		return nil, nil, err
	}
	if err := pg.Ping(ctx); err != nil {
		pg.Close()
		return nil, nil, fmt.Errorf("pinging history database: %w", err)
	}
	if err := pg.Migrate(ctx); err != nil {
		pg.Close()
		return nil, nil, fmt.Errorf("migrating history schema: %w", err)
	}
	logger.Info("Hand history stored in Postgres")
	return pg, pg.Close, nil
}
