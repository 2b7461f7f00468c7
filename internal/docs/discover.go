package docs

import (
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/frontmatter"
	"git.home.luguber.info/inful/docnav/internal/logfields"
	"git.home.luguber.info/inful/docnav/internal/markdown"
)

// DiscoverOptions controls document discovery.
type DiscoverOptions struct {
	IncludeDrafts bool
	Logger        *slog.Logger
}

// IsDocFile reports whether name is a markdown source docnav picks up.
func IsDocFile(name string) bool {
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".md" || ext == ".mdx"
}

// Discover walks root for markdown documents and returns them as a registry.
func Discover(root string, opts DiscoverOptions) (*Registry, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryDocs, "docs directory not accessible").
			WithContext("path", root).Fatal().UserAction().Build()
	}
	if !info.IsDir() {
		return nil, errors.DocsError("docs path is not a directory").WithContext("path", root).Build()
	}

	var found []Document
	walkErr := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != root && (strings.HasPrefix(d.Name(), ".") || strings.HasPrefix(d.Name(), "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsDocFile(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		doc, err := Load(p, filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		if doc.Draft && !opts.IncludeDrafts {
			logger.Debug("Skipping draft document", logfields.DocID(doc.ID), logfields.File(doc.RelativePath))
			return nil
		}
		found = append(found, doc)
		return nil
	})
	if walkErr != nil {
		if errors.IsClassified(walkErr) {
			return nil, walkErr
		}
		return nil, errors.WrapError(walkErr, errors.CategoryFileSystem, "failed to walk docs directory").
			WithContext("path", root).Build()
	}

	reg, err := NewRegistry(found...)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered documents", logfields.Path(root), logfields.Count(reg.Len()))
	return reg, nil
}

// Load reads a single document. rel is the slash-separated path relative to the docs root.
func Load(sourcePath, rel string) (Document, error) {
	content, err := os.ReadFile(sourcePath)
	if err != nil {
		return Document{}, errors.WrapError(err, errors.CategoryFileSystem, "failed to read document").
			WithContext("file", rel).Build()
	}
	return FromContent(rel, content)
}

// FromContent builds a Document from raw file content.
func FromContent(rel string, content []byte) (Document, error) {
	fields, _, body, err := frontmatter.Parse(content)
	if err != nil {
		return Document{}, errors.WrapError(err, errors.CategoryDocs, "invalid front matter").
			WithContext("file", rel).Fatal().UserAction().Build()
	}

	analysis := markdown.Analyze(body)
	doc := Document{
		ID:              DeriveID(rel, fields.ID),
		Title:           fields.Title,
		SidebarLabel:    fields.SidebarLabel,
		SidebarPosition: fields.SidebarPosition,
		Slug:            fields.Slug,
		Description:     fields.Description,
		RelativePath:    rel,
		Draft:           fields.Draft,
		Links:           analysis.Links,
		Fingerprint:     fingerprint(content, body),
	}
	if doc.Title == "" {
		doc.Title = analysis.Title
	}
	if doc.Title == "" {
		doc.Title = Humanize(doc.ID)
	}
	return doc, nil
}

// DeriveID computes a document id from its relative path; a front matter id
// replaces the last path segment.
func DeriveID(rel, frontMatterID string) string {
	rel = filepath.ToSlash(rel)
	id := strings.TrimSuffix(rel, path.Ext(rel))
	if frontMatterID == "" {
		return id
	}
	dir := path.Dir(id)
	if dir == "." {
		return frontMatterID
	}
	return dir + "/" + frontMatterID
}

func fingerprint(content, body []byte) string {
	raw := strings.TrimSuffix(string(frontmatter.Raw(content)), "\n")
	return mdfp.CalculateFingerprintFromParts(raw, string(body))
}
