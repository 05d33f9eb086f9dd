package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Monitor MonitorConfig `yaml:"monitor"`
	Client  ClientConfig  `yaml:"client"`
	Secrets SecretsConfig `yaml:"secrets"`
}

type ServerConfig struct {
	Port    int    `yaml:"port"`
	Host    string `yaml:"host"`
	DataDir string `yaml:"data_dir"`
}

type MonitorConfig struct {
	LivenessInterval time.Duration `yaml:"liveness_interval"`
}

type ClientConfig struct {
	BaseURL      string        `yaml:"base_url"`
	PollInterval time.Duration `yaml:"poll_interval"`
}

type SecretsConfig struct {
	// Backend selects the secret store: "pass", "file", or "auto"
	// (pass with file fallback).
	Backend  string `yaml:"backend"`
	FileRoot string `yaml:"file_root"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Server: ServerConfig{
			Port:    10001,
			Host:    "127.0.0.1",
			DataDir: filepath.Join(home, ".devon", "sessions"),
		},
		Monitor: MonitorConfig{
			LivenessInterval: 5 * time.Second,
		},
		Client: ClientConfig{
			BaseURL:      "http://127.0.0.1:10001",
			PollInterval: 4 * time.Second,
		},
		Secrets: SecretsConfig{
			Backend:  "auto",
			FileRoot: filepath.Join(home, ".devon", "secrets"),
		},
	}
}

// Load reads the YAML config at path, filling defaults for any field
// the file omits. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
