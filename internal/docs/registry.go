package docs

import (
	"sort"

	ferrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
)

// ErrDuplicateDocumentID is returned when two documents resolve to the same id.
var ErrDuplicateDocumentID = ferrors.DocsError("duplicate document id").UserAction().Build()

// Registry maps document ids to documents. It is built once per build and not
// mutated afterwards.
type Registry struct {
	byID  map[string]Document
	byRel map[string]string
	ids   []string
}

// NewRegistry builds a registry from an explicit document list.
func NewRegistry(documents ...Document) (*Registry, error) {
	r := &Registry{
		byID:  make(map[string]Document, len(documents)),
		byRel: make(map[string]string, len(documents)),
		ids:   make([]string, 0, len(documents)),
	}
	for _, d := range documents {
		if prev, ok := r.byID[d.ID]; ok {
			return nil, ErrDuplicateDocumentID.
				WithContext("doc_id", d.ID).
				WithContext("first", prev.RelativePath).
				WithContext("second", d.RelativePath)
		}
		r.byID[d.ID] = d
		r.ids = append(r.ids, d.ID)
		if d.RelativePath != "" {
			r.byRel[d.RelativePath] = d.ID
		}
	}
	sort.Strings(r.ids)
	return r, nil
}

// Get returns the document with the given id.
func (r *Registry) Get(id string) (Document, bool) {
	d, ok := r.byID[id]
	return d, ok
}

// Has reports whether id is a known document.
func (r *Registry) Has(id string) bool {
	_, ok := r.byID[id]
	return ok
}

// IDs returns all document ids, sorted.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.ids))
	copy(out, r.ids)
	return out
}

func (r *Registry) Len() int { return len(r.ids) }

// All returns the documents in id order.
func (r *Registry) All() []Document {
	out := make([]Document, 0, len(r.ids))
	for _, id := range r.ids {
		out = append(out, r.byID[id])
	}
	return out
}

// ByRelativePath looks up a document by its slash-separated source path
// relative to the docs root.
func (r *Registry) ByRelativePath(rel string) (Document, bool) {
	id, ok := r.byRel[rel]
	if !ok {
		return Document{}, false
	}
	return r.byID[id], true
}
