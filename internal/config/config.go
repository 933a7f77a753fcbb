// Package config handles ReadyDay configuration.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config holds all configuration
type Config struct {
	// Paths
	DataDir string `json:"data_dir"`

	// Server
	Server ServerConfig `json:"server"`

	// Connectors
	Whoop  WhoopConfig  `json:"whoop"`
	Google GoogleConfig `json:"google"`

	// Briefing delivery
	Briefing BriefingConfig `json:"briefing"`

	// Features
	Features FeatureConfig `json:"features"`
}

// ServerConfig for HTTP server
type ServerConfig struct {
	Port int    `json:"port"`
	Host string `json:"host"`
}

// WhoopConfig for the Whoop API connector
type WhoopConfig struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"-"`
	RedirectURL  string `json:"redirect_url"`
}

// GoogleConfig for the Google Calendar connector
type GoogleConfig struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"-"`
	RedirectURL  string `json:"redirect_url"`
}

// BriefingConfig for scheduled briefing delivery
type BriefingConfig struct {
	DeliveryTime string `json:"delivery_time"` // "07:30" format
	Timezone     string `json:"timezone"`
}

// FeatureConfig for feature flags
type FeatureConfig struct {
	EnableScheduler bool `json:"enable_scheduler"`
	DebugMode       bool `json:"debug_mode"`
}

// Default returns default configuration
func Default() *Config {
	home, _ := os.UserHomeDir()

	return &Config{
		DataDir: filepath.Join(home, ".readyday"),
		Server: ServerConfig{
			Port: 8090,
			Host: "localhost",
		},
		Whoop: WhoopConfig{
			ClientID:     os.Getenv("WHOOP_CLIENT_ID"),
			ClientSecret: os.Getenv("WHOOP_CLIENT_SECRET"),
			RedirectURL:  "http://localhost:8766/callback",
		},
		Google: GoogleConfig{
			ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			RedirectURL:  "http://localhost:8765/callback",
		},
		Briefing: BriefingConfig{
			DeliveryTime: "07:30",
			Timezone:     "Local",
		},
		Features: FeatureConfig{
			EnableScheduler: true,
			DebugMode:       false,
		},
	}
}

// Load loads config from file, falling back to defaults
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = filepath.Join(cfg.DataDir, "config.json")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	// Secrets always come from the environment, never the file
	if v := os.Getenv("WHOOP_CLIENT_ID"); v != "" {
		cfg.Whoop.ClientID = v
	}
	if v := os.Getenv("WHOOP_CLIENT_SECRET"); v != "" {
		cfg.Whoop.ClientSecret = v
	}
	if v := os.Getenv("GOOGLE_CLIENT_ID"); v != "" {
		cfg.Google.ClientID = v
	}
	if v := os.Getenv("GOOGLE_CLIENT_SECRET"); v != "" {
		cfg.Google.ClientSecret = v
	}

	return cfg, nil
}

// Save saves config to file
func (c *Config) Save(path string) error {
	if path == "" {
		path = filepath.Join(c.DataDir, "config.json")
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}
