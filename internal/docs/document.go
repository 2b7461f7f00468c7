// Package docs holds the explicit document registry that sidebar and route
// construction are threaded through.
package docs

import (
	"path"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/docnav/internal/markdown"
)

// Document is the metadata the navigation model needs about one source document.
type Document struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	SidebarLabel    string          `json:"sidebar_label,omitempty"`
	SidebarPosition int             `json:"sidebar_position,omitempty"`
	Slug            string          `json:"slug,omitempty"`
	Description     string          `json:"description,omitempty"`
	SourcePath      string          `json:"-"`
	RelativePath    string          `json:"relative_path"` // slash separated, relative to the docs root
	Fingerprint     string          `json:"fingerprint,omitempty"`
	Draft           bool            `json:"draft,omitempty"`
	Links           []markdown.Link `json:"-"`
}

// Label is the text shown for the document in a sidebar.
func (d Document) Label() string {
	if d.SidebarLabel != "" {
		return d.SidebarLabel
	}
	if d.Title != "" {
		return d.Title
	}
	return Humanize(d.ID)
}

// EditURL joins base with the document's relative source path. Empty base yields "".
func (d Document) EditURL(base string) string {
	if base == "" || d.RelativePath == "" {
		return ""
	}
	return strings.TrimSuffix(base, "/") + "/" + d.RelativePath
}

// Humanize turns the last segment of an id like "getting-started/first_steps"
// into "First Steps".
func Humanize(id string) string {
	base := path.Base(id)
	if base == "." || base == "/" {
		return ""
	}
	base = strings.NewReplacer("-", " ", "_", " ").Replace(base)
	return cases.Title(language.English).String(strings.Join(strings.Fields(base), " "))
}
