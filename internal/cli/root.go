package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/textsnap/textsnap-daemon/internal/config"
	"github.com/textsnap/textsnap-daemon/internal/dispatcher"
	"github.com/textsnap/textsnap-daemon/internal/notify"
	"github.com/textsnap/textsnap-daemon/internal/pasteboard"
	"github.com/textsnap/textsnap-daemon/internal/recognition"
	"github.com/textsnap/textsnap-daemon/internal/storage"
	"github.com/textsnap/textsnap-daemon/internal/watcher"
	"github.com/textsnap/textsnap-daemon/pkg/utils"
)

var (
	logLevel      string
	cfgFile       string
	screenshotDir string
	noHistory     bool

	cfg    *config.Config
	logger *zap.Logger

	// Version information - set by main
	Version   = "dev"
	BuildTime = "unknown"
	Commit    = "none"
)

// RootCmd is the daemon entry point. There is no detection-level CLI
// surface; flags only affect process bootstrap.
var RootCmd = &cobra.Command{
	Use:   "textsnapd",
	Short: "Textsnap watches screenshots and clipboard images and copies recognized text",
	Long: `Textsnap is a background daemon that watches for new screen captures and
clipboard images, runs text and QR code recognition on them, and places the
recognized text on the clipboard, optionally after confirmation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDaemon(cmd.Context())
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil && !errors.Is(err, config.ErrMalformed) {
			return fmt.Errorf("failed to load config: %w", err)
		}
		malformed := errors.Is(err, config.ErrMalformed)

		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		if screenshotDir != "" {
			cfg.ScreenshotDir = screenshotDir
		}

		logger = utils.NewLogger(utils.LoggerOptions{
			Level:  cfg.LogLevel,
			LogDir: cfg.SystemPaths.LogDir,
		})
		if malformed {
			logger.Warn("Config file is malformed, continuing with defaults", zap.Error(err))
		}

		logger.Debug("Configuration loaded",
			zap.String("device_id", cfg.DeviceID),
			zap.String("screenshot_dir", cfg.ScreenshotDir),
			zap.String("gateway_url", cfg.GatewayURL))
		return nil
	},
}

func init() {
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	RootCmd.PersistentFlags().StringVar(&screenshotDir, "screenshot-dir", "", "directory watched for new screen captures")
	RootCmd.PersistentFlags().BoolVar(&noHistory, "no-history", false, "disable the detection history database")
}

func runDaemon(ctx context.Context) error {
	logger.Info("Starting textsnapd",
		zap.String("version", Version),
		zap.String("commit", Commit))

	var history dispatcher.HistoryStore
	if !noHistory {
		store, err := storage.NewBoltStorage(storage.Config{
			DBPath:    cfg.Storage.DBPath,
			MaxSize:   cfg.Storage.MaxSize,
			KeepItems: cfg.Storage.KeepItems,
			Logger:    logger,
		})
		if err != nil {
			logger.Error("Failed to open detection history, continuing without it", zap.Error(err))
		} else {
			defer store.Close()
			history = store
		}
	}

	var board pasteboard.Board
	var notifier notify.Notifier
	sysBoard, err := pasteboard.NewSystemBoard()
	if err != nil {
		logger.Warn("System clipboard unavailable, running headless", zap.Error(err))
		board = pasteboard.NewMemoryBoard()
		notifier = notify.NewLogNotifier(logger)
	} else {
		board = sysBoard
		notifier = notify.NewZenityNotifier(logger)
	}

	w := watcher.New(cfg.ScreenshotDir, logger)
	if err := w.Start(); err != nil {
		return fmt.Errorf("failed to start screenshot watcher: %w", err)
	}
	defer w.Stop()

	configPath := cfgFile
	if configPath == "" {
		configPath = cfg.SystemPaths.ActiveConfig
	}

	d := dispatcher.New(dispatcher.Options{
		Settings: cfg.Detection,
		Store:    config.NewStore(configPath, cfg),
		Gateway:  recognition.NewHTTPGateway(cfg.GatewayURL),
		Board:    board,
		Notifier: notifier,
		History:  history,
		Logger:   logger,
		Events:   w.Events(),
		Interval: cfg.Interval(),
	})

	d.Run(ctx)
	logger.Info("Shutting down")
	return nil
}

// SetVersionInfo records build metadata injected by the linker.
func SetVersionInfo(version, buildTime, commit string) {
	Version = version
	BuildTime = buildTime
	Commit = commit
	RootCmd.Version = version
}

// Execute runs the root command with signal-driven shutdown.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := RootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
