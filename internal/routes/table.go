package routes

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	ferrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
)

// ErrInvalidTable is returned by Validate for a structurally broken table.
var ErrInvalidTable = ferrors.RoutesError("invalid route table").Build()

// Table is a generated route tree. Matching is first-match-wins over the
// top-level sequence.
type Table struct {
	routes []*Node
	leaves []*Node
	byPath map[string]*Node
	byDoc  map[string]*Node
}

func newTable(routes, leaves []*Node) *Table {
	t := &Table{
		routes: routes,
		leaves: leaves,
		byPath: make(map[string]*Node),
		byDoc:  make(map[string]*Node, len(leaves)),
	}
	walk(routes, func(n *Node) {
		if n.Exact {
			t.byPath[n.Path] = n
		}
		if n.DocID != "" {
			t.byDoc[n.DocID] = n
		}
	})
	return t
}

func walk(nodes []*Node, fn func(*Node)) {
	for _, n := range nodes {
		fn(n)
		walk(n.Routes, fn)
	}
}

// Routes returns the top-level route sequence.
func (t *Table) Routes() []*Node { return t.routes }

// Leaves returns the document pages in emission order.
func (t *Table) Leaves() []*Node { return t.leaves }

// Lookup returns the exact route for a path (normalized first).
func (t *Table) Lookup(p string) (*Node, bool) {
	n, ok := t.byPath[NormalizePath(p)]
	return n, ok
}

// PathFor returns the route path of a document.
func (t *Table) PathFor(docID string) (string, bool) {
	n, ok := t.byDoc[docID]
	if !ok {
		return "", false
	}
	return n.Path, true
}

// Match resolves p the way a client-side router would and returns the chain
// of nodes from the outermost layout to the matched page. A layout only
// matches when one of its children does, so unmatched paths fall through to
// the catch-all.
func (t *Table) Match(p string) []*Node {
	p = NormalizePath(p)
	for _, n := range t.routes {
		if chain := match(n, p); chain != nil {
			return chain
		}
	}
	return nil
}

func match(n *Node, p string) []*Node {
	switch {
	case n.IsCatchAll():
		return []*Node{n}
	case n.Exact:
		if n.Path == p {
			return []*Node{n}
		}
		return nil
	case !within(p, n.Path):
		return nil
	}
	for _, c := range n.Routes {
		if chain := match(c, p); chain != nil {
			return append([]*Node{n}, chain...)
		}
	}
	return nil
}

// Validate checks the structural invariants: exactly one catch-all and it is
// the last top-level node, every child lies within its parent's scope and no
// two exact nodes share a path.
func (t *Table) Validate() error {
	if len(t.routes) == 0 || !t.routes[len(t.routes)-1].IsCatchAll() {
		return ErrInvalidTable.WithContext("reason", "catch-all must be the last top-level route")
	}
	catchAll := 0
	seen := make(map[string]struct{})
	var check func(nodes []*Node, parent *Node) error
	check = func(nodes []*Node, parent *Node) error {
		for _, n := range nodes {
			if n.IsCatchAll() {
				catchAll++
				if parent != nil {
					return ErrInvalidTable.WithContext("reason", "catch-all must be top-level")
				}
				continue
			}
			if n.Path != NormalizePath(n.Path) {
				return ErrInvalidTable.WithContext("reason", "path not normalized").WithContext("route", n.Path)
			}
			if parent != nil && !within(n.Path, parent.Path) {
				return ErrInvalidTable.WithContext("reason", "child outside parent scope").
					WithContext("route", n.Path).WithContext("parent", parent.Path)
			}
			if n.Exact {
				if _, dup := seen[n.Path]; dup {
					return ErrRouteCollision.WithContext("route", n.Path)
				}
				seen[n.Path] = struct{}{}
			}
			if err := check(n.Routes, n); err != nil {
				return err
			}
		}
		return nil
	}
	if err := check(t.routes, nil); err != nil {
		return err
	}
	if catchAll != 1 {
		return ErrInvalidTable.WithContext("reason", "expected exactly one catch-all").WithContext("count", catchAll)
	}
	return nil
}

// MarshalJSON encodes the top-level route sequence.
func (t *Table) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.routes)
}

// Write encodes the manifest as indented JSON.
func (t *Table) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(t.routes)
}

// Print writes a human readable tree, one route per line.
func (t *Table) Print(w io.Writer) error {
	var err error
	var pr func(nodes []*Node, depth int)
	pr = func(nodes []*Node, depth int) {
		for _, n := range nodes {
			if err != nil {
				return
			}
			var extra []string
			if n.Exact {
				extra = append(extra, "exact")
			}
			if n.Sidebar != "" {
				extra = append(extra, "sidebar="+n.Sidebar)
			}
			if n.DocID != "" {
				extra = append(extra, "doc="+n.DocID)
			}
			line := fmt.Sprintf("%s%s -> %s", strings.Repeat("  ", depth), n.Path, n.Component.Name)
			if n.Component.Hash != "" {
				line += "@" + n.Component.Hash
			}
			if len(extra) > 0 {
				line += " [" + strings.Join(extra, " ") + "]"
			}
			_, err = fmt.Fprintln(w, line)
			pr(n.Routes, depth+1)
		}
	}
	pr(t.routes, 0)
	return err
}
