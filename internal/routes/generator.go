package routes

import (
	"log/slog"
	"path"
	"strings"

	"git.home.luguber.info/inful/docnav/internal/docs"
	ferrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/logfields"
	"git.home.luguber.info/inful/docnav/internal/sidebar"
)

// ErrRouteCollision is returned when two exact routes normalize to the same path.
var ErrRouteCollision = ferrors.RoutesError("route collision").Build()

// DebugPrefix is where debug pages are mounted below the base URL.
const DebugPrefix = "__docnav/debug"

var debugPages = []string{"", "config", "content", "globalData", "metadata", "registry", "routes"}

// Options configure route generation.
type Options struct {
	BaseURL       string // site base URL, "/" by default
	RouteBasePath string // docs namespace below BaseURL, "docs" by default; "/" serves docs at the base
	Debug         bool
	Logger        *slog.Logger
}

// Generator builds route tables. It holds no state between calls.
type Generator struct {
	opts   Options
	logger *slog.Logger
}

// NewGenerator creates a route generator.
func NewGenerator(opts Options) *Generator {
	if opts.BaseURL == "" {
		opts.BaseURL = "/"
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{opts: opts, logger: logger}
}

// Namespace is the normalized docs route prefix.
func (g *Generator) Namespace() string {
	return Join(g.opts.BaseURL, g.opts.RouteBasePath)
}

// DocPath computes the route path of a document: its slug when set, otherwise its id.
// An absolute slug is taken relative to the docs namespace; a relative slug
// replaces the last segment of the id.
func (g *Generator) DocPath(d docs.Document) string {
	ns := g.Namespace()
	switch {
	case strings.HasPrefix(d.Slug, "/"):
		return Join(ns, d.Slug)
	case d.Slug != "":
		dir := path.Dir(d.ID)
		if dir == "." {
			return Join(ns, d.Slug)
		}
		return Join(ns, dir, d.Slug)
	default:
		return Join(ns, d.ID)
	}
}

// Generate derives the route table. Leaves follow sidebar authored order
// (sidebars in declaration order, items depth-first), then documents that no
// sidebar references, by id. The home page and the catch-all come last.
func (g *Generator) Generate(tree *sidebar.Tree, reg *docs.Registry) (*Table, error) {
	c := newCollector()

	var top []*Node
	if g.opts.Debug {
		for _, page := range debugPages {
			p := Join(g.opts.BaseURL, DebugPrefix, page)
			name := ComponentDebug
			if page != "" {
				name += "-" + page
			}
			n := &Node{Path: p, Component: ComponentRef{Name: name, Hash: token(p, name, "")}, Exact: true}
			if err := c.claim(n, name); err != nil {
				return nil, err
			}
			top = append(top, n)
		}
	}

	ns := g.Namespace()
	inner := layout(ns, ComponentDocRoot)
	for _, id := range orderedIDs(tree, reg) {
		d, ok := reg.Get(id)
		if !ok {
			return nil, sidebar.ErrDanglingReference.WithContext("doc_id", id)
		}
		p := g.DocPath(d)
		if !within(p, ns) {
			return nil, ferrors.RoutesError("document route escapes the docs namespace").
				WithContext("doc_id", id).WithContext("route", p).Build()
		}
		leaf := &Node{
			Path:      p,
			Component: ComponentRef{Name: ComponentDocPage, Hash: token(p, ComponentDocPage, d.Fingerprint)},
			Exact:     true,
			DocID:     id,
		}
		if tree != nil {
			if name, ok := tree.SidebarFor(id); ok {
				leaf.Sidebar = name
			}
		}
		if err := c.claim(leaf, id); err != nil {
			return nil, err
		}
		g.logger.Debug("Doc route", logfields.DocID(id), logfields.Route(p))
		inner.Routes = append(inner.Routes, leaf)
		c.leaves = append(c.leaves, leaf)
	}
	version := layout(ns, ComponentDocVersionRoot)
	version.Routes = []*Node{inner}
	root := layout(ns, ComponentDocsRoot)
	root.Routes = []*Node{version}
	top = append(top, root)

	home := NormalizePath(g.opts.BaseURL)
	homeNode := &Node{Path: home, Component: ComponentRef{Name: ComponentHome, Hash: token(home, ComponentHome, "")}, Exact: true}
	if err := c.claim(homeNode, ComponentHome); err != nil {
		return nil, err
	}
	top = append(top, homeNode, &Node{Path: CatchAllPath, Component: ComponentRef{Name: ComponentNotFound}})

	t := newTable(top, c.leaves)
	g.logger.Debug("Generated routes", logfields.Path(ns), logfields.Count(len(c.leaves)))
	return t, nil
}

func layout(p, component string) *Node {
	return &Node{Path: p, Component: ComponentRef{Name: component, Hash: token(p, component, "")}}
}

func orderedIDs(tree *sidebar.Tree, reg *docs.Registry) []string {
	var ids []string
	seen := make(map[string]struct{})
	if tree != nil {
		for _, id := range tree.OrderedDocIDs() {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	for _, id := range reg.IDs() {
		if _, ok := seen[id]; !ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// collector tracks claimed exact paths during one generation.
type collector struct {
	owners map[string]string
	leaves []*Node
}

func newCollector() *collector {
	return &collector{owners: make(map[string]string)}
}

func (c *collector) claim(n *Node, owner string) error {
	if first, taken := c.owners[n.Path]; taken {
		return ErrRouteCollision.
			WithContext("route", n.Path).
			WithContext("first", first).
			WithContext("second", owner)
	}
	c.owners[n.Path] = owner
	return nil
}
