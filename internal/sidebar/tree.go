package sidebar

import (
	"git.home.luguber.info/inful/docnav/internal/docs"
	ferrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
)

var (
	// ErrDuplicateDocumentReference is returned when a document id appears twice in one sidebar.
	ErrDuplicateDocumentReference = ferrors.SidebarError("duplicate document reference").Build()
	// ErrDanglingReference is returned when a sidebar names a document the registry does not know.
	ErrDanglingReference = ferrors.SidebarError("dangling document reference").Build()
)

// Kind tags a validated sidebar entry.
type Kind string

const (
	KindDoc      Kind = "doc"
	KindCategory Kind = "category"
)

// Entry is a validated NavEntry: a document leaf or a labelled category.
type Entry struct {
	Kind      Kind     `json:"type"`
	DocID     string   `json:"id,omitempty"`
	Label     string   `json:"label"`
	Collapsed bool     `json:"collapsed,omitempty"`
	Items     []*Entry `json:"items,omitempty"`
}

// IsLeaf reports whether e references a document.
func (e *Entry) IsLeaf() bool { return e.Kind == KindDoc }

// Sidebar is one validated, named sidebar.
type Sidebar struct {
	Name  string   `json:"name"`
	Items []*Entry `json:"items"`

	leaves []*Entry
}

// Leaves returns the document entries in authored (depth-first) order.
func (s *Sidebar) Leaves() []*Entry { return s.leaves }

// Tree is the set of validated sidebars in declaration order.
type Tree struct {
	Sidebars []*Sidebar `json:"sidebars"`

	owner  map[string]string // doc id -> first sidebar referencing it
	byName map[string]*Sidebar
}

// Build validates definitions against the registry. It is a pure function of
// its input; on error no tree is returned.
func Build(defs []Definition, reg *docs.Registry) (*Tree, error) {
	t := &Tree{
		Sidebars: make([]*Sidebar, 0, len(defs)),
		owner:    make(map[string]string),
		byName:   make(map[string]*Sidebar, len(defs)),
	}
	for _, def := range defs {
		sb := &Sidebar{Name: def.Name}
		seen := make(map[string]struct{})
		items, err := buildItems(def.Items, sb, seen, reg)
		if err != nil {
			return nil, err
		}
		sb.Items = items
		for _, leaf := range sb.leaves {
			if _, ok := t.owner[leaf.DocID]; !ok {
				t.owner[leaf.DocID] = sb.Name
			}
		}
		t.Sidebars = append(t.Sidebars, sb)
		t.byName[sb.Name] = sb
	}
	return t, nil
}

func buildItems(items []Item, sb *Sidebar, seen map[string]struct{}, reg *docs.Registry) ([]*Entry, error) {
	out := make([]*Entry, 0, len(items))
	for _, it := range items {
		switch it.Type {
		case ItemCategory:
			children, err := buildItems(it.Items, sb, seen, reg)
			if err != nil {
				return nil, err
			}
			e := &Entry{Kind: KindCategory, Label: it.Label, Items: children}
			if it.Collapsed != nil {
				e.Collapsed = *it.Collapsed
			}
			out = append(out, e)
		default:
			if _, dup := seen[it.ID]; dup {
				return nil, ErrDuplicateDocumentReference.
					WithContext("doc_id", it.ID).
					WithContext("sidebar", sb.Name)
			}
			doc, ok := reg.Get(it.ID)
			if !ok {
				return nil, ErrDanglingReference.
					WithContext("doc_id", it.ID).
					WithContext("sidebar", sb.Name)
			}
			seen[it.ID] = struct{}{}
			label := it.Label
			if label == "" {
				label = doc.Label()
			}
			e := &Entry{Kind: KindDoc, DocID: it.ID, Label: label}
			sb.leaves = append(sb.leaves, e)
			out = append(out, e)
		}
	}
	return out, nil
}

// Sidebar returns the sidebar with the given name.
func (t *Tree) Sidebar(name string) (*Sidebar, bool) {
	sb, ok := t.byName[name]
	return sb, ok
}

// Names returns sidebar names in declaration order.
func (t *Tree) Names() []string {
	names := make([]string, 0, len(t.Sidebars))
	for _, sb := range t.Sidebars {
		names = append(names, sb.Name)
	}
	return names
}

// SidebarFor returns the first sidebar, in declaration order, that references docID.
func (t *Tree) SidebarFor(docID string) (string, bool) {
	name, ok := t.owner[docID]
	return name, ok
}

// DocIDs returns the document ids of a sidebar in authored order.
func (t *Tree) DocIDs(name string) []string {
	sb, ok := t.byName[name]
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(sb.leaves))
	for _, l := range sb.leaves {
		ids = append(ids, l.DocID)
	}
	return ids
}

// OrderedDocIDs returns every referenced document id once: sidebars in
// declaration order, items depth-first.
func (t *Tree) OrderedDocIDs() []string {
	var ids []string
	seen := make(map[string]struct{}, len(t.owner))
	for _, sb := range t.Sidebars {
		for _, l := range sb.leaves {
			if _, ok := seen[l.DocID]; ok {
				continue
			}
			seen[l.DocID] = struct{}{}
			ids = append(ids, l.DocID)
		}
	}
	return ids
}

// Navigation returns the previous and next document entries around docID in
// its owning sidebar. Either may be nil.
func (t *Tree) Navigation(docID string) (prev, next *Entry) {
	name, ok := t.owner[docID]
	if !ok {
		return nil, nil
	}
	leaves := t.byName[name].leaves
	for i, l := range leaves {
		if l.DocID != docID {
			continue
		}
		if i > 0 {
			prev = leaves[i-1]
		}
		if i+1 < len(leaves) {
			next = leaves[i+1]
		}
		return prev, next
	}
	return nil, nil
}
