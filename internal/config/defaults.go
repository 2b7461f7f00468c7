package config

import (
	"strings"
	"time"
)

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// ApplyDefaults runs every domain applier in order.
func ApplyDefaults(cfg *Config) error {
	appliers := []DefaultApplier{
		&SiteDefaultApplier{},
		&DocsDefaultApplier{},
		&ThemeDefaultApplier{},
		&OutputDefaultApplier{},
	}
	for _, a := range appliers {
		if err := a.ApplyDefaults(cfg); err != nil {
			return err
		}
	}
	return nil
}

// SiteDefaultApplier handles site metadata, link policy and i18n defaults.
type SiteDefaultApplier struct{}

func (s *SiteDefaultApplier) Domain() string { return "site" }

func (s *SiteDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Title == "" {
		cfg.Title = "Documentation"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "/"
	}
	cfg.OnBrokenLinks = defaultPolicy(cfg.OnBrokenLinks, PolicyThrow)
	cfg.OnBrokenMarkdownLinks = defaultPolicy(cfg.OnBrokenMarkdownLinks, PolicyWarn)

	if cfg.I18n.DefaultLocale == "" {
		cfg.I18n.DefaultLocale = "en"
	}
	if len(cfg.I18n.Locales) == 0 {
		cfg.I18n.Locales = []string{cfg.I18n.DefaultLocale}
	}
	return nil
}

func defaultPolicy(p, fallback Policy) Policy {
	if p == "" {
		return fallback
	}
	if norm := NormalizePolicy(string(p)); norm != "" {
		return norm
	}
	// Left as-is so validation can name the bad value.
	return p
}

// DocsDefaultApplier handles docs plugin defaults.
type DocsDefaultApplier struct{}

func (d *DocsDefaultApplier) Domain() string { return "docs" }

func (d *DocsDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Docs.Path == "" {
		cfg.Docs.Path = "docs"
	}
	if cfg.Docs.RouteBasePath == "" {
		cfg.Docs.RouteBasePath = "docs"
	}
	if cfg.Docs.SidebarPath == "" {
		cfg.Docs.SidebarPath = "sidebars.yaml"
	}
	cfg.Docs.EditURL = strings.TrimSuffix(cfg.Docs.EditURL, "/")
	return nil
}

// ThemeDefaultApplier handles navbar, footer, color mode and prism defaults.
type ThemeDefaultApplier struct{}

func (t *ThemeDefaultApplier) Domain() string { return "theme" }

func (t *ThemeDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Navbar.Title == "" {
		cfg.Navbar.Title = cfg.Title
	}
	for i := range cfg.Navbar.Items {
		item := &cfg.Navbar.Items[i]
		if item.Type == "" {
			switch {
			case item.SidebarID != "":
				item.Type = NavbarItemDocSidebar
			case item.DocID != "":
				item.Type = NavbarItemDoc
			default:
				item.Type = NavbarItemLink
			}
		}
		if item.Position == "" {
			item.Position = "left"
		}
	}
	if cfg.Footer.Style == "" {
		cfg.Footer.Style = "light"
	}
	if cfg.ColorMode.DefaultMode == "" {
		cfg.ColorMode.DefaultMode = "light"
	} else if mode, ok := colorModeNormalizer.Lookup(cfg.ColorMode.DefaultMode); ok {
		cfg.ColorMode.DefaultMode = mode
	}
	if cfg.Prism.Theme == "" {
		cfg.Prism.Theme = "github"
	}
	if cfg.Prism.DarkTheme == "" {
		cfg.Prism.DarkTheme = "dracula"
	}
	return nil
}

// History retention defaults.
const (
	DefaultHistoryRetain        = 100
	DefaultHistoryPruneInterval = time.Hour
)

// OutputDefaultApplier handles output, history, link event and monitoring defaults.
type OutputDefaultApplier struct{}

func (o *OutputDefaultApplier) Domain() string { return "output" }

func (o *OutputDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Output.Directory == "" {
		cfg.Output.Directory = "build"
		cfg.Output.Clean = true
	}
	if cfg.History.Path != "" {
		if cfg.History.Retain == 0 {
			cfg.History.Retain = DefaultHistoryRetain
		}
		if cfg.History.PruneInterval == 0 {
			cfg.History.PruneInterval = DefaultHistoryPruneInterval
		}
	}
	if cfg.LinkEvents.Enabled {
		if cfg.LinkEvents.NATSURL == "" {
			cfg.LinkEvents.NATSURL = "nats://127.0.0.1:4222"
		}
		if cfg.LinkEvents.Subject == "" {
			cfg.LinkEvents.Subject = "docnav.links.broken"
		}
	}
	if cfg.Monitoring.Metrics.Path == "" {
		cfg.Monitoring.Metrics.Path = "/metrics"
	}
	return nil
}
