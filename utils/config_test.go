package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	require.Equal(t, "bolt", cfg.Data.Backend)
	require.Equal(t, "chat", cfg.Chat.DefaultMode)
	require.Contains(t, cfg.LLMProviders, "openai")
}

func TestLoadConfigParsesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{
		"llm_providers": {"openai": {"api_key": "sk-from-file", "enabled": true}},
		"data": {"db_path": "data/chat.db", "backend": "sqlite"},
		"chat": {"default_model": "gpt-4", "default_mode": "hotel", "default_language": "en"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "sqlite", cfg.Data.Backend)
	require.Equal(t, "gpt-4", cfg.Chat.DefaultModel)
	require.Equal(t, "sk-from-file", cfg.LLMProviders["openai"].APIKey)
	require.True(t, filepath.IsAbs(cfg.Data.DBPath))
}

func TestLoadConfigInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestEnvFillsMissingAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-from-env")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	require.Equal(t, "sk-from-env", cfg.LLMProviders["openai"].APIKey)
}

func TestEnvDoesNotOverrideConfiguredKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-from-env")

	path := filepath.Join(t.TempDir(), "config.json")
	body := `{"llm_providers": {"openai": {"api_key": "sk-from-file", "enabled": true}}}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "sk-from-file", cfg.LLMProviders["openai"].APIKey)
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.json")
	cfg := DefaultConfig()
	cfg.Chat.DefaultModel = "gpt-4"

	require.NoError(t, SaveConfig(path, cfg))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "gpt-4", loaded.Chat.DefaultModel)
}
