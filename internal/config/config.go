package config

import "time"

// Config is the site-wide configuration object. Keys mirror the options a
// documentation site generator recognizes; unknown keys are rejected on load.
type Config struct {
	Title                 string           `json:"title" yaml:"title"`
	Tagline               string           `json:"tagline,omitempty" yaml:"tagline,omitempty"`
	Favicon               string           `json:"favicon,omitempty" yaml:"favicon,omitempty"`
	URL                   string           `json:"url" yaml:"url"`
	BaseURL               string           `json:"base_url" yaml:"base_url"`
	OrganizationName      string           `json:"organization_name,omitempty" yaml:"organization_name,omitempty"`
	ProjectName           string           `json:"project_name,omitempty" yaml:"project_name,omitempty"`
	OnBrokenLinks         Policy           `json:"on_broken_links" yaml:"on_broken_links"`
	OnBrokenMarkdownLinks Policy           `json:"on_broken_markdown_links" yaml:"on_broken_markdown_links"`
	I18n                  I18nConfig       `json:"i18n" yaml:"i18n"`
	Docs                  DocsConfig       `json:"docs" yaml:"docs"`
	Navbar                NavbarConfig     `json:"navbar" yaml:"navbar"`
	Footer                FooterConfig     `json:"footer" yaml:"footer"`
	ColorMode             ColorModeConfig  `json:"color_mode" yaml:"color_mode"`
	Prism                 PrismConfig      `json:"prism" yaml:"prism"`
	Homepage              HomepageConfig   `json:"homepage" yaml:"homepage"`
	Output                OutputConfig     `json:"output" yaml:"output"`
	Debug                 bool             `json:"debug,omitempty" yaml:"debug,omitempty"`
	History               HistoryConfig    `json:"history" yaml:"history"`
	LinkEvents            LinkEventsConfig `json:"link_events" yaml:"link_events"`
	Monitoring            MonitoringConfig `json:"monitoring" yaml:"monitoring"`

	// Root is the directory relative paths are resolved against (the config file's directory).
	Root string `json:"-" yaml:"-"`
}

// I18nConfig lists the locales the site is built for.
type I18nConfig struct {
	DefaultLocale string   `json:"default_locale" yaml:"default_locale"`
	Locales       []string `json:"locales" yaml:"locales"`
}

// DocsConfig configures the docs content plugin.
type DocsConfig struct {
	Path          string `json:"path" yaml:"path"`                       // directory holding markdown sources
	RouteBasePath string `json:"route_base_path" yaml:"route_base_path"` // URL namespace for docs, "/" for docs-only sites
	SidebarPath   string `json:"sidebar_path" yaml:"sidebar_path"`
	EditURL       string `json:"edit_url,omitempty" yaml:"edit_url,omitempty"`
	IncludeDrafts bool   `json:"include_drafts,omitempty" yaml:"include_drafts,omitempty"`
}

// NavbarConfig describes the top navigation bar.
type NavbarConfig struct {
	Title string       `json:"title,omitempty" yaml:"title,omitempty"`
	Logo  *LogoConfig  `json:"logo,omitempty" yaml:"logo,omitempty"`
	Items []NavbarItem `json:"items,omitempty" yaml:"items,omitempty"`
}

// LogoConfig describes the navbar logo.
type LogoConfig struct {
	Alt     string `json:"alt,omitempty" yaml:"alt,omitempty"`
	Src     string `json:"src" yaml:"src"`
	SrcDark string `json:"src_dark,omitempty" yaml:"src_dark,omitempty"`
	Width   int    `json:"width,omitempty" yaml:"width,omitempty"`
	Height  int    `json:"height,omitempty" yaml:"height,omitempty"`
}

// NavbarItemType enumerates navbar entry kinds.
type NavbarItemType string

const (
	NavbarItemLink       NavbarItemType = "link"
	NavbarItemDocSidebar NavbarItemType = "doc_sidebar"
	NavbarItemDoc        NavbarItemType = "doc"
)

// NavbarItem is one navbar entry. Exactly one of To, Href, SidebarID or DocID
// is meaningful depending on Type.
type NavbarItem struct {
	Type      NavbarItemType `json:"type,omitempty" yaml:"type,omitempty"`
	Label     string         `json:"label" yaml:"label"`
	Position  string         `json:"position,omitempty" yaml:"position,omitempty"`
	To        string         `json:"to,omitempty" yaml:"to,omitempty"`
	Href      string         `json:"href,omitempty" yaml:"href,omitempty"`
	SidebarID string         `json:"sidebar_id,omitempty" yaml:"sidebar_id,omitempty"`
	DocID     string         `json:"doc_id,omitempty" yaml:"doc_id,omitempty"`
}

// FooterConfig describes the footer link groups.
type FooterConfig struct {
	Style     string            `json:"style,omitempty" yaml:"style,omitempty"`
	Links     []FooterLinkGroup `json:"links,omitempty" yaml:"links,omitempty"`
	Copyright string            `json:"copyright,omitempty" yaml:"copyright,omitempty"`
}

// FooterLinkGroup is a titled column of footer links.
type FooterLinkGroup struct {
	Title string       `json:"title" yaml:"title"`
	Items []FooterLink `json:"items" yaml:"items"`
}

// FooterLink is an internal (To) or external (Href) footer link.
type FooterLink struct {
	Label string `json:"label" yaml:"label"`
	To    string `json:"to,omitempty" yaml:"to,omitempty"`
	Href  string `json:"href,omitempty" yaml:"href,omitempty"`
}

// ColorModeConfig controls the light/dark scheme.
type ColorModeConfig struct {
	DefaultMode               string `json:"default_mode" yaml:"default_mode"`
	DisableSwitch             bool   `json:"disable_switch" yaml:"disable_switch"`
	RespectPrefersColorScheme bool   `json:"respect_prefers_color_scheme" yaml:"respect_prefers_color_scheme"`
}

// PrismConfig selects code highlighting themes.
type PrismConfig struct {
	Theme               string   `json:"theme,omitempty" yaml:"theme,omitempty"`
	DarkTheme           string   `json:"dark_theme,omitempty" yaml:"dark_theme,omitempty"`
	AdditionalLanguages []string `json:"additional_languages,omitempty" yaml:"additional_languages,omitempty"`
}

// HomepageConfig holds the homepage feature list. An empty list renders the stock features.
type HomepageConfig struct {
	Features []FeatureConfig `json:"features,omitempty" yaml:"features,omitempty"`
}

// FeatureConfig is one homepage feature entry.
type FeatureConfig struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

// OutputConfig represents output configuration.
type OutputConfig struct {
	Directory string `json:"directory" yaml:"directory"`
	Clean     bool   `json:"clean" yaml:"clean"`
}

// HistoryConfig enables the sqlite build history when Path is set. Retain
// bounds the number of builds kept; preview prunes older ones every
// PruneInterval.
type HistoryConfig struct {
	Path          string        `json:"path,omitempty" yaml:"path,omitempty"`
	Retain        int           `json:"retain,omitempty" yaml:"retain,omitempty"`
	PruneInterval time.Duration `json:"prune_interval,omitempty" yaml:"prune_interval,omitempty"`
}

// LinkEventsConfig publishes broken link events to NATS JetStream.
type LinkEventsConfig struct {
	Enabled bool        `json:"enabled" yaml:"enabled"`
	NATSURL string      `json:"nats_url,omitempty" yaml:"nats_url,omitempty"`
	Subject string      `json:"subject,omitempty" yaml:"subject,omitempty"`
	Retry   RetryConfig `json:"retry" yaml:"retry"`
}

// RetryConfig controls publish retries. Attempts counts the first try; 0 means the default.
type RetryConfig struct {
	Backoff  string        `json:"backoff,omitempty" yaml:"backoff,omitempty"`
	Initial  time.Duration `json:"initial,omitempty" yaml:"initial,omitempty"`
	Max      time.Duration `json:"max,omitempty" yaml:"max,omitempty"`
	Attempts int           `json:"attempts,omitempty" yaml:"attempts,omitempty"`
}

// MonitoringConfig represents monitoring configuration for the preview server.
type MonitoringConfig struct {
	Metrics MonitoringMetrics `json:"metrics" yaml:"metrics"`
}

// MonitoringMetrics represents metrics endpoint configuration.
type MonitoringMetrics struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Path    string `json:"path,omitempty" yaml:"path,omitempty"`
}
