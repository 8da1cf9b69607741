package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"mercator-hq/callisto/pkg/audit/recorder"
	"mercator-hq/callisto/pkg/audit/retention"
	"mercator-hq/callisto/pkg/audit/storage"
	"mercator-hq/callisto/pkg/cli"
	"mercator-hq/callisto/pkg/config"
	"mercator-hq/callisto/pkg/registry"
	"mercator-hq/callisto/pkg/server"
	"mercator-hq/callisto/pkg/telemetry/metrics"
)

var serveFlags struct {
	listenAddress string
	grammarsDir   string
	logLevel      string
	dryRun        bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Callisto parsing server",
	Long: `Start the Callisto parsing server with the specified configuration.

The server loads all grammars from the configured directory, compiles them
into process trees, and serves parse requests over HTTP.

Examples:
  # Start with default config
  callisto serve

  # Start with custom config
  callisto serve --config /etc/callisto/config.yaml

  # Override grammar directory
  callisto serve --grammars ./grammars

  # Validate config and grammars without starting the server
  callisto serve --dry-run`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.listenAddress, "listen", "l", "", "override listen address")
	serveCmd.Flags().StringVarP(&serveFlags.grammarsDir, "grammars", "g", "", "override grammar directory")
	serveCmd.Flags().StringVar(&serveFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	serveCmd.Flags().BoolVar(&serveFlags.dryRun, "dry-run", false, "validate config and grammars without starting the server")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return cli.NewConfigError(cfgFile, "", fmt.Sprintf("failed to load config: %v", err))
	}

	// Apply flag overrides
	if serveFlags.listenAddress != "" {
		cfg.Server.ListenAddress = serveFlags.listenAddress
	}
	if serveFlags.grammarsDir != "" {
		cfg.Grammars.Dir = serveFlags.grammarsDir
	}
	if serveFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = serveFlags.logLevel
	}

	setupLogging(&cfg.Telemetry.Logging)

	// Metrics collector (nil when disabled; all recording becomes a no-op)
	collector := metrics.NewCollector(&metrics.Config{
		Enabled: cfg.Telemetry.Metrics.Enabled,
	}, nil)

	// Grammar registry with eager compilation; a broken grammar directory
	// fails startup rather than serving a partial set.
	reg, err := registry.New(&registry.Config{
		Dir:          cfg.Grammars.Dir,
		MatchTimeout: cfg.Grammars.MatchTimeout,
	}, collector, slog.Default())
	if err != nil {
		return cli.NewCommandError("serve", fmt.Errorf("failed to load grammars: %w", err))
	}

	if serveFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		fmt.Printf("✓ %d grammars compiled from %s\n", reg.Len(), cfg.Grammars.Dir)
		return nil
	}

	fmt.Printf("Callisto v%s\n", Version)
	fmt.Printf("Loading configuration from: %s\n", cfgFile)
	fmt.Println("✓ Configuration loaded")
	fmt.Printf("✓ %d grammars compiled from %s\n", reg.Len(), cfg.Grammars.Dir)

	// Cancelled on SIGINT/SIGTERM so the watcher, retention scheduler, and
	// server all shut down together.
	ctx, cancel := context.WithCancel(cli.SetupSignalHandler())
	defer cancel()

	// Audit trail (optional)
	var auditRecorder *recorder.Recorder
	if cfg.Audit.Enabled {
		slog.Info("initializing audit trail", "path", cfg.Audit.SQLite.Path)

		auditStorage, err := storage.NewSQLiteStorage(&storage.SQLiteConfig{
			Path:        cfg.Audit.SQLite.Path,
			BusyTimeout: cfg.Audit.SQLite.BusyTimeout,
		}, slog.Default())
		if err != nil {
			return cli.NewCommandError("serve", fmt.Errorf("failed to open audit storage: %w", err))
		}
		defer auditStorage.Close()

		auditRecorder = recorder.NewRecorder(auditStorage, &recorder.Config{
			Enabled:      true,
			AsyncBuffer:  cfg.Audit.Recorder.AsyncBuffer,
			WriteTimeout: cfg.Audit.Recorder.WriteTimeout,
			OnDrop:       collector.RecordAuditDrop,
		}, slog.Default())
		defer auditRecorder.Close()

		pruner := retention.NewPruner(auditStorage, &retention.Config{
			RetentionDays: cfg.Audit.Retention.Days,
			MaxRecords:    cfg.Audit.Retention.MaxRecords,
			PruneSchedule: cfg.Audit.Retention.Schedule,
		}, slog.Default())

		scheduler := retention.NewScheduler(pruner)
		if err := scheduler.Start(ctx); err != nil {
			slog.Warn("failed to start retention scheduler", "error", err)
		} else {
			defer scheduler.Stop()
		}

		fmt.Println("✓ Audit trail initialized")
	}

	// Grammar hot-reload (optional)
	if cfg.Grammars.Watch {
		go func() {
			if err := reg.Watch(ctx); err != nil {
				slog.Error("grammar watcher stopped", "error", err)
			}
		}()
		fmt.Println("✓ Watching grammar directory for changes")
	}

	metricsPath := ""
	if cfg.Telemetry.Metrics.Enabled {
		metricsPath = cfg.Telemetry.Metrics.Path
	}

	srv := server.NewServer(&cfg.Server, metricsPath, reg, collector, auditRecorder)

	fmt.Printf("✓ Server listening on %s\n", cfg.Server.ListenAddress)
	fmt.Println("\nPress Ctrl+C to stop")

	// Start blocks until a shutdown signal, context cancellation, or a
	// server error.
	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("serve", err)
	}

	fmt.Println("✓ Server stopped")
	return nil
}

// setupLogging configures the process-wide default logger.
func setupLogging(cfg *config.LoggingConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
