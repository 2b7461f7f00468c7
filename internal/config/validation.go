package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	ferrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/retry"
)

// ValidateConfig validates the complete configuration structure. Defaults
// must have been applied first.
func ValidateConfig(cfg *Config) error {
	return newConfigurationValidator(cfg).validate()
}

// configurationValidator coordinates validation across all configuration domains.
type configurationValidator struct {
	config *Config
}

func newConfigurationValidator(config *Config) *configurationValidator {
	return &configurationValidator{config: config}
}

func (cv *configurationValidator) validate() error {
	checks := []func() error{
		cv.validateSite,
		cv.validatePolicies,
		cv.validateI18n,
		cv.validateDocs,
		cv.validateNavbar,
		cv.validateFooter,
		cv.validateColorMode,
		cv.validateHomepage,
		cv.validateHistory,
		cv.validateLinkEvents,
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

func invalid(field, msg string, value any) error {
	return ferrors.ConfigError(msg).WithContext("field", field).WithContext("value", value).Build()
}

func (cv *configurationValidator) validateSite() error {
	c := cv.config
	if c.URL != "" {
		u, err := url.Parse(c.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return invalid("url", "url must be an absolute http(s) URL", c.URL)
		}
		if u.Path != "" && u.Path != "/" {
			return invalid("url", "url must not contain a path; use base_url", c.URL)
		}
	}
	if !strings.HasPrefix(c.BaseURL, "/") || !strings.HasSuffix(c.BaseURL, "/") {
		return invalid("base_url", "base_url must start and end with '/'", c.BaseURL)
	}
	return nil
}

func (cv *configurationValidator) validatePolicies() error {
	valid := []Policy{PolicyThrow, PolicyWarn, PolicyIgnore}
	if !slices.Contains(valid, cv.config.OnBrokenLinks) {
		return invalid("on_broken_links", "unsupported policy (throw|warn|ignore)", cv.config.OnBrokenLinks)
	}
	if !slices.Contains(valid, cv.config.OnBrokenMarkdownLinks) {
		return invalid("on_broken_markdown_links", "unsupported policy (throw|warn|ignore)", cv.config.OnBrokenMarkdownLinks)
	}
	return nil
}

func (cv *configurationValidator) validateI18n() error {
	seen := make(map[string]bool, len(cv.config.I18n.Locales))
	for _, l := range cv.config.I18n.Locales {
		if strings.TrimSpace(l) == "" {
			return invalid("i18n.locales", "locale code cannot be empty", l)
		}
		if seen[l] {
			return invalid("i18n.locales", "duplicate locale", l)
		}
		seen[l] = true
	}
	if !seen[cv.config.I18n.DefaultLocale] {
		return invalid("i18n.default_locale", "default locale must be listed in i18n.locales", cv.config.I18n.DefaultLocale)
	}
	return nil
}

func (cv *configurationValidator) validateDocs() error {
	d := cv.config.Docs
	if strings.Contains(d.RouteBasePath, "*") {
		return invalid("docs.route_base_path", "route base path cannot contain '*'", d.RouteBasePath)
	}
	if d.EditURL != "" {
		if u, err := url.Parse(d.EditURL); err != nil || u.Scheme == "" || u.Host == "" {
			return invalid("docs.edit_url", "edit_url must be an absolute URL", d.EditURL)
		}
	}
	return nil
}

func (cv *configurationValidator) validateNavbar() error {
	for i, item := range cv.config.Navbar.Items {
		field := fmt.Sprintf("navbar.items[%d]", i)
		if item.Position != "left" && item.Position != "right" {
			return invalid(field+".position", "position must be left or right", item.Position)
		}
		switch item.Type {
		case NavbarItemDocSidebar:
			if item.SidebarID == "" {
				return invalid(field+".sidebar_id", "doc_sidebar item requires sidebar_id", item.Label)
			}
		case NavbarItemDoc:
			if item.DocID == "" {
				return invalid(field+".doc_id", "doc item requires doc_id", item.Label)
			}
		case NavbarItemLink:
			if err := validateLinkTarget(field, item.To, item.Href); err != nil {
				return err
			}
		default:
			return invalid(field+".type", "unsupported navbar item type", item.Type)
		}
		if item.Label == "" {
			return invalid(field+".label", "navbar item requires a label", "")
		}
	}
	return nil
}

func (cv *configurationValidator) validateFooter() error {
	f := cv.config.Footer
	if f.Style != "light" && f.Style != "dark" {
		return invalid("footer.style", "footer style must be light or dark", f.Style)
	}
	for gi, group := range f.Links {
		for ii, item := range group.Items {
			field := fmt.Sprintf("footer.links[%d].items[%d]", gi, ii)
			if item.Label == "" {
				return invalid(field+".label", "footer link requires a label", "")
			}
			if err := validateLinkTarget(field, item.To, item.Href); err != nil {
				return err
			}
		}
	}
	return nil
}

// validateLinkTarget requires exactly one of an in-site path or an external URL.
func validateLinkTarget(field, to, href string) error {
	switch {
	case to != "" && href != "":
		return invalid(field, "link must set only one of to or href", to)
	case to == "" && href == "":
		return invalid(field, "link requires to or href", "")
	case to != "" && !strings.HasPrefix(to, "/"):
		return invalid(field+".to", "in-site link must be an absolute path", to)
	case href != "":
		if u, err := url.Parse(href); err != nil || u.Scheme == "" {
			return invalid(field+".href", "href must be an absolute URL", href)
		}
	}
	return nil
}

func (cv *configurationValidator) validateColorMode() error {
	mode := cv.config.ColorMode.DefaultMode
	if _, ok := colorModeNormalizer.Lookup(mode); !ok {
		return invalid("color_mode.default_mode", "default mode must be one of "+strings.Join(colorModeNormalizer.ValidKeys(), "|"), mode)
	}
	return nil
}

func (cv *configurationValidator) validateHomepage() error {
	for i, f := range cv.config.Homepage.Features {
		if strings.TrimSpace(f.Title) == "" {
			return invalid(fmt.Sprintf("homepage.features[%d].title", i), "feature requires a title", "")
		}
		if strings.TrimSpace(f.Description) == "" {
			return invalid(fmt.Sprintf("homepage.features[%d].description", i), "feature requires a description", "")
		}
	}
	return nil
}

func (cv *configurationValidator) validateHistory() error {
	h := cv.config.History
	if h.Retain < 0 {
		return invalid("history.retain", "retain cannot be negative", h.Retain)
	}
	if h.PruneInterval < 0 {
		return invalid("history.prune_interval", "prune_interval cannot be negative", h.PruneInterval)
	}
	return nil
}

func (cv *configurationValidator) validateLinkEvents() error {
	le := cv.config.LinkEvents
	if !le.Enabled {
		return nil
	}
	if u, err := url.Parse(le.NATSURL); err != nil || u.Scheme == "" {
		return invalid("link_events.nats_url", "nats_url must be a URL", le.NATSURL)
	}
	if strings.ContainsAny(le.Subject, " \t*>") {
		return invalid("link_events.subject", "subject must be a literal NATS subject", le.Subject)
	}
	if !retry.ValidMode(le.Retry.Backoff) {
		return invalid("link_events.retry.backoff", "backoff must be fixed, linear or exponential", le.Retry.Backoff)
	}
	if le.Retry.Attempts < 0 || le.Retry.Initial < 0 || le.Retry.Max < 0 {
		return invalid("link_events.retry", "retry settings cannot be negative", le.Retry)
	}
	return nil
}
