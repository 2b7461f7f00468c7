package config

import (
	"strconv"
	"strings"
)

// CopyrightFor renders the footer copyright, substituting {year}.
func (f FooterConfig) CopyrightFor(year int) string {
	return strings.ReplaceAll(f.Copyright, "{year}", strconv.Itoa(year))
}

// SiteURL joins url and base_url into the canonical site root.
func (c *Config) SiteURL() string {
	return strings.TrimSuffix(c.URL, "/") + c.BaseURL
}
