// Package routes derives the route manifest consumed by a client-side router
// from the validated sidebar tree and the document registry.
package routes

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Component names emitted by the generator.
const (
	ComponentDocsRoot       = "layout/docs-root"        // theme chrome
	ComponentDocVersionRoot = "layout/doc-version-root" // docs plugin metadata
	ComponentDocRoot        = "layout/doc-root"         // version selection
	ComponentDocPage        = "page/doc"
	ComponentHome           = "page/index"
	ComponentNotFound       = "page/not-found"
	ComponentDebug          = "page/debug"
)

// ComponentRef names the renderable unit of a route plus a short
// cache-busting token. The token is not a security hash.
type ComponentRef struct {
	Name string `json:"name"`
	Hash string `json:"hash,omitempty"`
}

// Node is one addressable route. Non-exact nodes with children are layout
// wrappers whose scope contains every child path.
type Node struct {
	Path      string       `json:"path"`
	Component ComponentRef `json:"component"`
	Exact     bool         `json:"exact,omitempty"`
	Sidebar   string       `json:"sidebar,omitempty"`
	DocID     string       `json:"doc_id,omitempty"`
	Routes    []*Node      `json:"routes,omitempty"`
}

// IsCatchAll reports whether n is the not-found terminal.
func (n *Node) IsCatchAll() bool { return n.Path == CatchAllPath }

// IsLeaf reports whether n is a document page.
func (n *Node) IsLeaf() bool { return n.Exact && n.DocID != "" }

const tokenLen = 3

// token derives the cache-busting token from the route path, the component
// name and, for documents, the content fingerprint.
func token(p, component, fingerprint string) string {
	sum := blake3.Sum256([]byte(p + "\x00" + component + "\x00" + fingerprint))
	return hex.EncodeToString(sum[:2])[:tokenLen]
}
