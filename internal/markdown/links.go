package markdown

import (
	"net/url"
	"path"
	"strings"
)

// LinkKind classifies where a link was found.
type LinkKind string

const (
	LinkKindInline              LinkKind = "inline"
	LinkKindImage               LinkKind = "image"
	LinkKindAuto                LinkKind = "auto"
	LinkKindReferenceDefinition LinkKind = "reference_definition"
	LinkKindHTML                LinkKind = "html"
)

// Link is a link-like construct found in a markdown body.
type Link struct {
	Kind        LinkKind `json:"kind"`
	Destination string   `json:"destination"`
}

// Target strips the query string and fragment from the destination.
func (l Link) Target() string {
	d := l.Destination
	if i := strings.IndexAny(d, "?#"); i >= 0 {
		d = d[:i]
	}
	return d
}

// IsExternal reports whether the destination carries a scheme (http:, mailto:, ...)
// or is protocol-relative.
func (l Link) IsExternal() bool {
	if strings.HasPrefix(l.Destination, "//") {
		return true
	}
	u, err := url.Parse(l.Destination)
	return err == nil && u.Scheme != ""
}

// IsMarkdownFile reports whether the link points at a markdown source file.
func (l Link) IsMarkdownFile() bool {
	if l.IsExternal() || l.Kind == LinkKindImage {
		return false
	}
	ext := strings.ToLower(path.Ext(l.Target()))
	return ext == ".md" || ext == ".mdx"
}

// IsSitePath reports whether the link is an absolute in-site URL path such as /docs/intro.
func (l Link) IsSitePath() bool {
	if l.IsExternal() || l.Kind == LinkKindImage {
		return false
	}
	t := l.Target()
	return strings.HasPrefix(t, "/") && !l.IsMarkdownFile()
}
