// Package config loads taime settings from a YAML file with
// environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/sadopc/taime/internal/analyze"
	"github.com/sadopc/taime/internal/jira"
)

// Config holds credentials and preferences for the external
// integrations. Everything is optional; features that need a missing
// credential report it when invoked.
type Config struct {
	GeminiAPIKey  string
	Language      string
	CalendarToken string
	Jira          jira.Config
}

// DefaultPath returns the standard config file location,
// ~/.config/taime/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home dir: %w", err)
	}
	return filepath.Join(home, ".config", "taime", "config.yaml"), nil
}

// Load reads the config file at path. A missing file is not an error;
// defaults and TAIME_* environment variables still apply. Environment
// variables win over file values (TAIME_GEMINI_API_KEY,
// TAIME_JIRA_DOMAIN, and so on).
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("TAIME")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("language", analyze.LangEnglish)
	v.SetDefault("gemini_api_key", "")
	v.SetDefault("calendar_token", "")
	v.SetDefault("jira.domain", "")
	v.SetDefault("jira.email", "")
	v.SetDefault("jira.api_token", "")
	v.SetDefault("jira.project_key", "")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading %s: %w", path, err)
		}
	}

	cfg := Config{
		GeminiAPIKey:  v.GetString("gemini_api_key"),
		Language:      v.GetString("language"),
		CalendarToken: v.GetString("calendar_token"),
		Jira: jira.Config{
			Domain:     v.GetString("jira.domain"),
			Email:      v.GetString("jira.email"),
			APIToken:   v.GetString("jira.api_token"),
			ProjectKey: strings.ToUpper(v.GetString("jira.project_key")),
		},
	}

	if cfg.Language != analyze.LangEnglish && cfg.Language != analyze.LangPortuguese {
		return Config{}, fmt.Errorf("unsupported language %q", cfg.Language)
	}
	return cfg, nil
}

// JiraConfigured reports whether enough Jira settings are present to
// make API calls.
func (c Config) JiraConfigured() bool {
	return c.Jira.Domain != "" && c.Jira.Email != "" && c.Jira.APIToken != ""
}
