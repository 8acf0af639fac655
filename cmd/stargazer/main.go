package main

import (
	"errors"
	"fmt"
	"os"

	"constellation/internal/app"
	"constellation/internal/catalog"
	"constellation/internal/config"
	"constellation/internal/domain"
	"constellation/internal/i18n"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const defaultConfigPath = "data/game_config.json"

var (
	verbose     bool
	langFlag    string
	catalogPath string
	configPath  string
	logFile     string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "stargazer",
	Short: "Constellation Connect in the terminal",
	Long: `Stargazer plays Constellation Connect: click two stars to draw a line
between them and trace every line of the constellation.

Run without arguments to start playing.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapCfg := zap.NewProductionConfig()
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		if logFile != "" {
			zapCfg.OutputPaths = []string{logFile}
			zapCfg.ErrorOutputPaths = []string{logFile}
		} else if cmd.Name() == playCmd.Name() || cmd == cmd.Root() {
			// The board owns the screen; log only when asked to log to a file.
			logger = zap.NewNop()
			return nil
		}
		var err error
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&langFlag, "lang", "", "Display language: en or es (default from config)")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "Constellation catalog YAML file (default: built-in)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath, "Game config JSON file")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(demoCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads --config. A missing default file falls back to built-in defaults.
func loadConfig(cmd *cobra.Command) (*config.GameConfig, error) {
	cfg, err := config.Load(configPath)
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, os.ErrNotExist) && !cmd.Flags().Changed("config") {
		logger.Debug("config file not found, using defaults", zap.String("path", configPath))
		d := config.Defaults()
		return &d, nil
	}
	return nil, err
}

// loadCatalog returns the --catalog file, validated against cfg, or the built-in catalog.
func loadCatalog(cfg *config.GameConfig) (*catalog.Catalog, error) {
	if catalogPath == "" {
		return catalog.Default()
	}
	cat, err := catalog.LoadFile(catalogPath)
	if err != nil {
		return nil, err
	}
	if err := cat.Validate(limits(cfg)); err != nil {
		return nil, fmt.Errorf("catalog %s is invalid:\n%w", catalogPath, err)
	}
	logger.Debug("loaded catalog", zap.String("path", catalogPath), zap.Int("constellations", cat.Len()))
	return cat, nil
}

func limits(cfg *config.GameConfig) catalog.Limits {
	return catalog.Limits{CanvasSize: cfg.CanvasSize, PickRadius: cfg.PickRadius}
}

func language(cfg *config.GameConfig) domain.Language {
	if langFlag != "" {
		return i18n.Parse(langFlag)
	}
	return i18n.Parse(cfg.DefaultLanguage)
}

// setup loads config and catalog and builds the puzzle service.
func setup(cmd *cobra.Command) (*config.GameConfig, *app.Service, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	cat, err := loadCatalog(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, app.NewService(cat, cfg.PickRadius), nil
}
