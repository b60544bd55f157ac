package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config is the process configuration shared by the train and score commands.
type Config struct {
	Store struct {
		Backend   string `yaml:"backend"` // file or sqlite
		Path      string `yaml:"path"`
		BundleKey string `yaml:"bundle_key"`
	} `yaml:"store"`
	Cohort struct {
		Count     int    `yaml:"count"`
		Seed      int64  `yaml:"seed"`
		PatientID string `yaml:"patient_id"`
		CSVPath   string `yaml:"csv_path"`
	} `yaml:"cohort"`
	Training struct {
		Seed      int64   `yaml:"seed"`
		TestRatio float64 `yaml:"test_ratio"`
		LearnRate float64 `yaml:"learn_rate"`
		Epochs    int     `yaml:"epochs"`
		L2        float64 `yaml:"l2"`
	} `yaml:"training"`
	Log LogConfig `yaml:"log"`
}

// LogConfig controls the zap logger and its lumberjack rotation.
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.Store.Backend = "file"
	cfg.Store.Path = "./data/bundles"
	cfg.Store.BundleKey = "current"
	cfg.Cohort.Count = 1000
	cfg.Cohort.Seed = 42
	cfg.Cohort.PatientID = "P001"
	cfg.Training.Seed = 42
	cfg.Training.TestRatio = 0.2
	cfg.Training.LearnRate = 0.5
	cfg.Training.Epochs = 500
	cfg.Training.L2 = 1e-4
	cfg.Log.Level = "info"
	cfg.Log.MaxSizeMB = 50
	cfg.Log.MaxBackups = 3
	cfg.Log.MaxAgeDays = 14
	return cfg
}

// Load reads a YAML config file over the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Store.Backend != "file" && cfg.Store.Backend != "sqlite" {
		return nil, fmt.Errorf("unsupported store backend %q", cfg.Store.Backend)
	}
	return cfg, nil
}
