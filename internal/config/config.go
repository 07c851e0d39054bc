package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

type Config struct {
	DataDir  string `json:"data_dir"`
	LogLevel string `json:"log_level"`
	Storage  struct {
		Prefix     string `json:"prefix"`
		MaxBytes   int64  `json:"max_bytes"`
		DebounceMs int    `json:"debounce_ms"`
		BatchSize  int    `json:"batch_size"`
		MaxHistory int    `json:"max_history"`
		MaxGallery int    `json:"max_gallery"`
	} `json:"storage"`
	Backend struct {
		BaseURL         string `json:"base_url"`
		APIKey          string `json:"api_key"`
		Model           string `json:"model"`
		MaxTokens       int    `json:"max_tokens"`
		MaxPromptTokens int    `json:"max_prompt_tokens"`
	} `json:"backend"`
	Decay struct {
		Schedule string  `json:"schedule"`
		Factor   float64 `json:"factor"`
	} `json:"decay"`
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		DataDir:  filepath.Join(os.Getenv("HOME"), ".wordgotchi"),
		LogLevel: "info",
	}
	cfg.Storage.Prefix = "wordgotchi"
	cfg.Storage.MaxBytes = 5 * 1024 * 1024
	cfg.Storage.DebounceMs = 1000
	cfg.Storage.BatchSize = 10
	cfg.Storage.MaxHistory = 1000
	cfg.Storage.MaxGallery = 500
	cfg.Backend.Model = "claude-3-5-haiku-latest"
	cfg.Backend.MaxTokens = 1024
	cfg.Backend.MaxPromptTokens = 2000
	cfg.Decay.Schedule = "0 * * * *"
	cfg.Decay.Factor = 0.98

	// Load from file if exists, otherwise write defaults
	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	} else if os.IsNotExist(err) {
		if err := writeDefaults(path, cfg); err != nil {
			return nil, err
		}
	}

	// Override from env (highest precedence)
	if baseURL := os.Getenv("WORDGOTCHI_BACKEND_URL"); baseURL != "" {
		cfg.Backend.BaseURL = baseURL
	}
	if apiKey := os.Getenv("WORDGOTCHI_API_KEY"); apiKey != "" {
		cfg.Backend.APIKey = apiKey
	}
	if dataDir := os.Getenv("WORDGOTCHI_DATA_DIR"); dataDir != "" {
		cfg.DataDir = dataDir
	}

	return cfg, nil
}

func writeDefaults(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}
	data = append(data, '\n')
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename default config: %w", err)
	}
	return nil
}
