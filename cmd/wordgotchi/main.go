package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/YutaTadokoro/WordGotchi/internal/analysis"
	"github.com/YutaTadokoro/WordGotchi/internal/config"
	"github.com/YutaTadokoro/WordGotchi/internal/engine"
	"github.com/YutaTadokoro/WordGotchi/internal/kv"
	"github.com/YutaTadokoro/WordGotchi/internal/pet"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "wordgotchi",
	Short: "A word-fed virtual pet",
	Long:  "Feed words to your pet, watch it grow, and keep its memories in local storage.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath,
		"config",
		filepath.Join(os.Getenv("HOME"), ".wordgotchi", "config.json"),
		"config file path")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() *config.Config {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func setupLogging(cfg *config.Config) {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// openService wires the storage stack and pet service from config. Callers
// must flush the returned engine before exiting.
func openService(cfg *config.Config) (*pet.Service, *engine.Engine, error) {
	store, err := kv.NewFileStore(filepath.Join(cfg.DataDir, "storage"), cfg.Storage.MaxBytes)
	if err != nil {
		return nil, nil, fmt.Errorf("open storage: %w", err)
	}
	eng := engine.New(kv.NewAdapter(store), engine.Options{
		Prefix:     cfg.Storage.Prefix,
		Debounce:   time.Duration(cfg.Storage.DebounceMs) * time.Millisecond,
		BatchSize:  cfg.Storage.BatchSize,
		MaxBytes:   cfg.Storage.MaxBytes,
		MaxHistory: cfg.Storage.MaxHistory,
		MaxGallery: cfg.Storage.MaxGallery,
	})

	var analyzer pet.Analyzer
	if cfg.Backend.BaseURL != "" {
		analyzer = analysis.New(analysis.Config{
			BaseURL:         cfg.Backend.BaseURL,
			APIKey:          cfg.Backend.APIKey,
			Model:           cfg.Backend.Model,
			MaxTokens:       cfg.Backend.MaxTokens,
			MaxPromptTokens: cfg.Backend.MaxPromptTokens,
		})
	} else {
		slog.Debug("no backend configured, using offline scoring")
	}

	return pet.New(eng, analyzer), eng, nil
}
