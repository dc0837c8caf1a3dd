// Package utils holds the application configuration and logging
// setup.
package utils

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Config represents the application configuration.
type Config struct {
	LLMProviders map[string]ProviderConfig `json:"llm_providers"`
	Data         DataConfig                `json:"data"`
	Chat         ChatConfig                `json:"chat"`
}

// ProviderConfig represents LLM provider configuration.
type ProviderConfig struct {
	DisplayName  string   `json:"display_name,omitempty"`
	APIKey       string   `json:"api_key"`
	BaseURL      string   `json:"base_url,omitempty"`
	DefaultModel string   `json:"default_model,omitempty"`
	Models       []string `json:"models,omitempty"`
	Enabled      bool     `json:"enabled"`
	MaxTokens    int      `json:"max_tokens,omitempty"`
	Temperature  float64  `json:"temperature,omitempty"`
}

// DataConfig represents data storage configuration.
type DataConfig struct {
	DBPath  string `json:"db_path"`
	Backend string `json:"backend"` // "bolt" (default) or "sqlite"
}

// ChatConfig represents chat defaults.
type ChatConfig struct {
	DefaultModel    string `json:"default_model"`
	DefaultMode     string `json:"default_mode"`
	DefaultLanguage string `json:"default_language"`
}

// DefaultConfig returns the configuration used when no config file
// exists.
func DefaultConfig() *Config {
	return &Config{
		LLMProviders: map[string]ProviderConfig{
			"openai":    {Enabled: true},
			"anthropic": {Enabled: false},
		},
		Data: DataConfig{
			DBPath:  filepath.Join(".", "data", "chat.db"),
			Backend: "bolt",
		},
		Chat: ChatConfig{
			DefaultModel:    "gpt-3.5-turbo",
			DefaultMode:     "chat",
			DefaultLanguage: "tr",
		},
	}
}

// LoadConfig loads configuration from a JSON file, falling back to
// defaults when the file is missing, and finally applies API keys
// from the environment (with optional .env loading).
func LoadConfig(configPath string) (*Config, error) {
	// Proceed even without a .env file
	_ = godotenv.Load()

	config := DefaultConfig()

	data, err := os.ReadFile(configPath)
	if err == nil {
		if err := json.Unmarshal(data, config); err != nil {
			return nil, errors.Wrap(err, "failed to parse config")
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	if config.Data.DBPath != "" {
		config.Data.DBPath = expandPath(config.Data.DBPath)
	}
	config.applyEnv()

	return config, nil
}

// applyEnv fills in provider API keys from the environment when the
// config file does not carry them.
func (c *Config) applyEnv() {
	envKeys := map[string]string{
		"openai":    "OPENAI_API_KEY",
		"anthropic": "ANTHROPIC_API_KEY",
	}
	for name, envVar := range envKeys {
		pc, ok := c.LLMProviders[name]
		if !ok {
			continue
		}
		if pc.APIKey == "" {
			if v := os.Getenv(envVar); v != "" {
				pc.APIKey = v
				c.LLMProviders[name] = pc
			}
		}
	}
}

// SaveConfig saves configuration to file.
func SaveConfig(configPath string, config *Config) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}
	return nil
}

// expandPath expands ~ and relative paths.
func expandPath(path string) string {
	if len(path) == 0 {
		return path
	}

	if path[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[1:])
		}
	}

	absPath, err := filepath.Abs(path)
	if err == nil {
		return absPath
	}
	return path
}

// GetConfigPath returns the default config path.
func GetConfigPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", "config", "default.json")
	}
	return filepath.Join(configDir, "ai-chatbot", "config.json")
}
