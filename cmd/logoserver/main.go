package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-git/go-billy/v5/osfs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/time/rate"

	"github.com/tickerlogos/tickerlogos/internal/api"
	"github.com/tickerlogos/tickerlogos/internal/config"
	"github.com/tickerlogos/tickerlogos/internal/indexer"
	"github.com/tickerlogos/tickerlogos/internal/lookup"
	"github.com/tickerlogos/tickerlogos/internal/util"
)

var version = "1.0.0"

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(2)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	}()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
}

// parseFlags builds the configuration from defaults, an optional YAML file,
// the environment and finally explicitly set flags.
func parseFlags(args []string) (config.Config, error) {
	fs := flag.NewFlagSet("logoserver", flag.ContinueOnError)

	defaults := config.Default()
	var (
		configFile     = fs.String("config", "", "Path to a YAML config file.")
		addr           = fs.String("addr", defaults.Addr, "Address to listen on.")
		logosRoot      = fs.String("logos-root", defaults.LogosRoot, "Directory scanned for logo images (default from "+config.RootEnvVar+" when set).")
		docsURL        = fs.String("docs-url", defaults.DocsURL, "Redirect target for /logo without a ticker.")
		fallbackMode   = fs.String("fallback-mode", string(defaults.FallbackMode), "Fallback scan selection: first or deterministic.")
		fallbackRate   = fs.Float64("fallback-rate", defaults.FallbackRate, "Maximum fallback scans per second (0 = unlimited).")
		fallbackBurst  = fs.Int("fallback-burst", defaults.FallbackBurst, "Fallback scan burst size.")
		allowedOrigins = fs.String("allowed-origins", "*", "Comma-separated CORS origins; empty disables CORS.")
		logLevel       = fs.String("log-level", defaults.LogLevel, "Log level: debug, info, warn, error.")
		tlsCertFile    = fs.String("tls-cert-file", "", "Path to TLS certificate file (optional).")
		tlsKeyFile     = fs.String("tls-key-file", "", "Path to TLS key file (optional).")
	)
	if err := fs.Parse(args); err != nil {
		return config.Config{}, err
	}

	cfg := defaults
	if *configFile != "" {
		loaded, err := config.Load(*configFile)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	cfg.ApplyEnv()

	// Flags given on the command line win over file and environment.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Addr = *addr
		case "logos-root":
			cfg.LogosRoot = *logosRoot
		case "docs-url":
			cfg.DocsURL = *docsURL
		case "fallback-mode":
			cfg.FallbackMode = lookup.FallbackMode(*fallbackMode)
		case "fallback-rate":
			cfg.FallbackRate = *fallbackRate
		case "fallback-burst":
			cfg.FallbackBurst = *fallbackBurst
		case "allowed-origins":
			cfg.AllowedOrigins = util.SplitCSV(*allowedOrigins)
		case "log-level":
			cfg.LogLevel = *logLevel
		case "tls-cert-file":
			cfg.TLSCertFile = *tlsCertFile
		case "tls-key-file":
			cfg.TLSKeyFile = *tlsKeyFile
		}
	})

	return cfg, cfg.Validate()
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	logConfig := zap.NewProductionConfig()
	logConfig.Level = lvl
	logConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return logConfig.Build()
}

// run contains the main application logic, separated from main() for testability.
func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	logger.Info("Starting ticker logos server",
		zap.String("version", version),
		zap.String("addr", cfg.Addr),
		zap.String("logos_root", cfg.LogosRoot),
		zap.String("fallback_mode", string(cfg.FallbackMode)),
	)

	svc, err := newService(cfg, logger)
	if err != nil {
		return err
	}

	handler := api.NewRouter(svc, logger, api.Options{
		Version:        version,
		DocsURL:        cfg.DocsURL,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	server := NewServer(ServerConfig{
		Addr:            cfg.Addr,
		TLSCertFile:     cfg.TLSCertFile,
		TLSKeyFile:      cfg.TLSKeyFile,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		IdleTimeout:     cfg.IdleTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, handler, logger)
	if err := server.Start(ctx); err != nil {
		return err
	}

	logger.Info("Server stopped")
	return nil
}

// newService scans the logos root and wires the lookup service.
func newService(cfg config.Config, logger *zap.Logger) (*lookup.Service, error) {
	fsys := osfs.New(cfg.LogosRoot)

	idx := indexer.New(func(event indexer.IndexEvent) {
		logger.Debug("Index event",
			zap.String("type", event.Type),
			zap.String("key", string(event.Key)),
			zap.String("path", event.Path),
			zap.Int("size", event.Size),
		)
	})
	if _, err := indexer.Load(idx, fsys, logger.Named("indexer")); err != nil {
		return nil, fmt.Errorf("failed to build logo index: %w", err)
	}

	var limiter *rate.Limiter
	if cfg.FallbackRate > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.FallbackRate), cfg.FallbackBurst)
	}

	return lookup.NewService(fsys, idx, lookup.Options{
		FallbackMode:    cfg.FallbackMode,
		FallbackLimiter: limiter,
		Logger:          logger,
	}), nil
}
