package config

import (
	"os"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
)

// Example returns the configuration written by Init.
func Example() *Config {
	return &Config{
		Title:                 "My Project Docs",
		Tagline:               "Guides and API reference",
		Favicon:               "img/favicon.ico",
		URL:                   "https://docs.example.com",
		BaseURL:               "/",
		OrganizationName:      "example",
		ProjectName:           "example-docs",
		OnBrokenLinks:         PolicyThrow,
		OnBrokenMarkdownLinks: PolicyWarn,
		I18n:                  I18nConfig{DefaultLocale: "en", Locales: []string{"en"}},
		Docs: DocsConfig{
			Path:          "docs",
			RouteBasePath: "docs",
			SidebarPath:   "sidebars.yaml",
			EditURL:       "https://github.com/example/example-docs/tree/main/docs",
		},
		Navbar: NavbarConfig{
			Title: "My Project",
			Logo:  &LogoConfig{Alt: "Logo", Src: "img/logo.png"},
			Items: []NavbarItem{
				{Type: NavbarItemDocSidebar, SidebarID: "tutorialSidebar", Label: "Documentation", Position: "left"},
				{Type: NavbarItemLink, Href: "https://github.com/example/example-docs", Label: "GitHub", Position: "right"},
			},
		},
		Footer: FooterConfig{
			Style: "dark",
			Links: []FooterLinkGroup{
				{Title: "Docs", Items: []FooterLink{{Label: "Introduction", To: "/docs/intro"}}},
				{Title: "More", Items: []FooterLink{{Label: "GitHub", Href: "https://github.com/example/example-docs"}}},
			},
			Copyright: "Copyright © {year} Example, Inc.",
		},
		ColorMode: ColorModeConfig{DefaultMode: "dark", RespectPrefersColorScheme: true},
		Prism:     PrismConfig{Theme: "github", DarkTheme: "dracula", AdditionalLanguages: []string{"python"}},
		Output:    OutputConfig{Directory: "build", Clean: true},
	}
}

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return ferrors.ValidationError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).Build()
	}

	data, err := yaml.Marshal(Example())
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "failed to marshal example config").Build()
	}

	header := []byte("# docnav site configuration\n")
	if err := os.WriteFile(configPath, append(header, data...), 0o600); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write config file").
			WithContext("path", configPath).Build()
	}
	return nil
}
