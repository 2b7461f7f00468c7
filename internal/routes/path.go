package routes

import (
	"path"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// CatchAllPath is the path of the terminal not-found route.
const CatchAllPath = "*"

// NormalizePath returns the canonical form of a URL path: NFC, a single
// leading slash, duplicate slashes collapsed, dot segments resolved and no
// trailing slash except for the root. Collisions are detected on this form,
// so "/docs/intro/" and "/docs//intro" are the same route.
func NormalizePath(p string) string {
	if p == CatchAllPath {
		return p
	}
	p = norm.NFC.String(p)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}

// Join joins segments and normalizes the result.
func Join(elem ...string) string {
	return NormalizePath(strings.Join(elem, "/"))
}

// within reports whether p equals scope or lies below it.
func within(p, scope string) bool {
	if scope == "/" {
		return strings.HasPrefix(p, "/")
	}
	return p == scope || strings.HasPrefix(p, scope+"/")
}

// WithBase prefixes a site-absolute path with base unless it already lies below it.
func WithBase(base, p string) string {
	base, p = NormalizePath(base), NormalizePath(p)
	if within(p, base) {
		return p
	}
	return Join(base, p)
}
