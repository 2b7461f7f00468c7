package docs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDoc(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
}

func TestDeriveID(t *testing.T) {
	tests := []struct {
		rel, fmID, want string
	}{
		{"intro.md", "", "intro"},
		{"guides/install.mdx", "", "guides/install"},
		{"guides/install.md", "setup", "guides/setup"},
		{"intro.md", "welcome", "welcome"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DeriveID(tt.rel, tt.fmID), tt.rel)
	}
}

func TestHumanize(t *testing.T) {
	assert.Equal(t, "Getting Started", Humanize("getting-started"))
	assert.Equal(t, "First Steps", Humanize("guides/first_steps"))
	assert.Equal(t, "Intro", Humanize("intro"))
}

func TestFromContent_TitleFallbacks(t *testing.T) {
	withFM, err := FromContent("a.md", []byte("---\ntitle: From FM\nsidebar_label: Short\n---\n# Heading\n"))
	require.NoError(t, err)
	assert.Equal(t, "From FM", withFM.Title)
	assert.Equal(t, "Short", withFM.Label())
	assert.NotEmpty(t, withFM.Fingerprint)

	fromHeading, err := FromContent("b.md", []byte("# From Heading\n\nBody"))
	require.NoError(t, err)
	assert.Equal(t, "From Heading", fromHeading.Title)
	assert.Equal(t, "From Heading", fromHeading.Label())

	fromID, err := FromContent("guides/quick-start.md", []byte("no heading here"))
	require.NoError(t, err)
	assert.Equal(t, "Quick Start", fromID.Title)
}

func TestFromContent_InvalidFrontMatter(t *testing.T) {
	_, err := FromContent("bad.md", []byte("---\ntitle: x\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.md")
}

func TestFingerprint_ChangesWithContent(t *testing.T) {
	a, err := FromContent("a.md", []byte("# A\n"))
	require.NoError(t, err)
	b, err := FromContent("a.md", []byte("# B\n"))
	require.NoError(t, err)
	again, err := FromContent("a.md", []byte("# A\n"))
	require.NoError(t, err)

	assert.NotEqual(t, a.Fingerprint, b.Fingerprint)
	assert.Equal(t, a.Fingerprint, again.Fingerprint)
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "intro.md", "# Intro\n\nSee [install](getting-started/install.md).")
	writeDoc(t, root, "getting-started/install.md", "---\nsidebar_position: 1\n---\n# Install\n")
	writeDoc(t, root, "getting-started/config.mdx", "---\nid: configuration\n---\n# Config\n")
	writeDoc(t, root, "draft.md", "---\ndraft: true\n---\n# Draft\n")
	writeDoc(t, root, "_partial.md", "# Partial\n")
	writeDoc(t, root, ".hidden/secret.md", "# Secret\n")
	writeDoc(t, root, "img/logo.png", "png")

	reg, err := Discover(root, DiscoverOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"getting-started/configuration", "getting-started/install", "intro"}, reg.IDs())

	intro, ok := reg.Get("intro")
	require.True(t, ok)
	require.Len(t, intro.Links, 1)
	assert.Equal(t, "getting-started/install.md", intro.Links[0].Destination)

	byRel, ok := reg.ByRelativePath("getting-started/config.mdx")
	require.True(t, ok)
	assert.Equal(t, "getting-started/configuration", byRel.ID)

	withDrafts, err := Discover(root, DiscoverOptions{IncludeDrafts: true})
	require.NoError(t, err)
	assert.True(t, withDrafts.Has("draft"))
}

func TestDiscover_MissingRoot(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "nope"), DiscoverOptions{})
	require.Error(t, err)
}

func TestNewRegistry_DuplicateID(t *testing.T) {
	_, err := NewRegistry(
		Document{ID: "intro", RelativePath: "intro.md"},
		Document{ID: "intro", RelativePath: "other.md"},
	)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateDocumentID))
	assert.Contains(t, err.Error(), "other.md")
}

func TestRegistry_Accessors(t *testing.T) {
	reg, err := NewRegistry(Document{ID: "b"}, Document{ID: "a"})
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Len())
	assert.Equal(t, []string{"a", "b"}, reg.IDs())
	assert.Equal(t, "a", reg.All()[0].ID)
	assert.False(t, reg.Has("c"))

	_, ok := reg.ByRelativePath("a.md")
	assert.False(t, ok)
}

func TestEditURL(t *testing.T) {
	d := Document{RelativePath: "guides/install.md"}
	assert.Equal(t, "https://git.example.com/docs/edit/main/docs/guides/install.md", d.EditURL("https://git.example.com/docs/edit/main/docs/"))
	assert.Empty(t, d.EditURL(""))
}
