package config

import (
	"fmt"
	"gopkg.in/yaml.v3"
	"os"
	"strconv"
)

const (
	EnvConfigPath = "DASHBOARD_CONFIG"
	defaultPath   = "config/dashboard.yaml"
)

type Config struct {
	Backend   BackendConfig   `yaml:"backend"`
	Log       LogConfig       `yaml:"log"`
	Mirror    MirrorConfig    `yaml:"mirror"`
	LogServer LogServerConfig `yaml:"logserver"`
}

type BackendConfig struct {
	BaseURL string `yaml:"base_url"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
	// File receives the dashboard's own log while the terminal UI owns the screen.
	File string `yaml:"file"`
}

type MirrorConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

type LogServerConfig struct {
	Addr   string `yaml:"addr"`
	Dir    string `yaml:"dir"`
	Marker string `yaml:"marker"`
}

func defaults() Config {
	return Config{
		Backend: BackendConfig{
			BaseURL: "http://localhost:8080",
		},
		Log: LogConfig{
			Level:  "info",
			Pretty: true,
			File:   "dashboard.log",
		},
		Mirror: MirrorConfig{
			Enabled: false,
			Addr:    ":8090",
		},
		LogServer: LogServerConfig{
			Addr:   ":8080",
			Dir:    "logs",
			Marker: "io.a2a",
		},
	}
}

// Load reads the YAML file named by DASHBOARD_CONFIG (or the default path,
// which may be absent) and applies environment overrides on top.
func Load() (*Config, error) {
	path := os.Getenv(EnvConfigPath)
	if path == "" {
		path = defaultPath
	}
	return LoadFile(path)
}

func LoadFile(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(&cfg)

	if cfg.Backend.BaseURL == "" {
		return nil, fmt.Errorf("backend.base_url is empty")
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("DASHBOARD_BASE_URL"); v != "" {
		cfg.Backend.BaseURL = v
	}
	if v := os.Getenv("DASHBOARD_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("DASHBOARD_LOG_PRETTY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Log.Pretty = b
		}
	}
	if v := os.Getenv("DASHBOARD_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv("DASHBOARD_MIRROR_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Mirror.Enabled = b
		}
	}
	if v := os.Getenv("DASHBOARD_MIRROR_ADDR"); v != "" {
		cfg.Mirror.Addr = v
	}
	if v := os.Getenv("DASHBOARD_LOGSERVER_ADDR"); v != "" {
		cfg.LogServer.Addr = v
	}
	if v := os.Getenv("DASHBOARD_LOGSERVER_DIR"); v != "" {
		cfg.LogServer.Dir = v
	}
	if v := os.Getenv("DASHBOARD_LOGSERVER_MARKER"); v != "" {
		cfg.LogServer.Marker = v
	}
}
