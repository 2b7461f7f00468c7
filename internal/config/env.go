package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	ferrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
)

// EnvOverrides are DOCNAV_* variables that take precedence over the file.
type EnvOverrides struct {
	OutputDir   string `envconfig:"OUTPUT_DIR"`
	HistoryPath string `envconfig:"HISTORY_PATH"`
	SiteURL     string `envconfig:"SITE_URL"`
	BaseURL     string `envconfig:"BASE_URL"`
	LogLevel    string `envconfig:"LOG_LEVEL"`
}

// ReadEnvOverrides reads the DOCNAV_* variables.
func ReadEnvOverrides() (EnvOverrides, error) {
	var o EnvOverrides
	if err := envconfig.Process("docnav", &o); err != nil {
		return o, ferrors.WrapError(err, ferrors.CategoryConfig, "invalid DOCNAV_* environment").Fatal().Build()
	}
	return o, nil
}

// ApplyEnvOverrides copies non-empty DOCNAV_* values onto cfg.
func ApplyEnvOverrides(cfg *Config) error {
	o, err := ReadEnvOverrides()
	if err != nil {
		return err
	}
	if o.OutputDir != "" {
		cfg.Output.Directory = o.OutputDir
	}
	if o.HistoryPath != "" {
		cfg.History.Path = o.HistoryPath
	}
	if o.SiteURL != "" {
		cfg.URL = o.SiteURL
	}
	if o.BaseURL != "" {
		cfg.BaseURL = o.BaseURL
	}
	return nil
}

// loadEnvFiles loads .env and .env.local from dir. Existing process
// environment variables are not overwritten.
func loadEnvFiles(dir string) {
	for _, name := range []string{".env", ".env.local"} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			fmt.Fprintf(os.Stderr, "Note: %s could not be loaded: %v\n", p, err)
		}
	}
}
