package config

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
)

// Load reads, expands, defaults and validates the configuration file at configPath.
func Load(configPath string) (*Config, error) {
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to resolve config path").
			WithContext("path", configPath).Fatal().Build()
	}

	loadEnvFiles(filepath.Dir(absPath))

	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return nil, ferrors.ConfigError("configuration file not found").WithContext("path", configPath).Build()
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to read config file").
			WithContext("path", configPath).Build()
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	cfg.Root = filepath.Dir(absPath)

	if err := ApplyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := ApplyDefaults(cfg); err != nil {
		return nil, err
	}
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes raw YAML after expanding environment variables. It does not
// apply defaults or validate.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to parse config").Fatal().Build()
	}
	return &cfg, nil
}

// ResolvePath resolves p relative to the configuration root.
func (c *Config) ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) || c.Root == "" {
		return p
	}
	return filepath.Join(c.Root, p)
}

// DocsDir returns the resolved docs source directory.
func (c *Config) DocsDir() string { return c.ResolvePath(c.Docs.Path) }

// SidebarFile returns the resolved sidebar specification path.
func (c *Config) SidebarFile() string { return c.ResolvePath(c.Docs.SidebarPath) }

// OutputDir returns the resolved output directory.
func (c *Config) OutputDir() string { return c.ResolvePath(c.Output.Directory) }
