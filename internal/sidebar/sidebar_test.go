package sidebar

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docnav/internal/docs"
)

func registry(t *testing.T, ids ...string) *docs.Registry {
	t.Helper()
	list := make([]docs.Document, 0, len(ids))
	for _, id := range ids {
		list = append(list, docs.Document{ID: id, Title: docs.Humanize(id), RelativePath: id + ".md"})
	}
	reg, err := docs.NewRegistry(list...)
	require.NoError(t, err)
	return reg
}

const tutorialYAML = `
tutorial:
  - type: doc
    id: intro
    label: Introduction
  - type: category
    label: Getting Started
    collapsed: false
    items:
      - install
      - config
reference:
  - API: [api/client]
  - install
`

func TestParse_PreservesOrder(t *testing.T) {
	defs, err := Parse([]byte(tutorialYAML))
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, "tutorial", defs[0].Name)
	assert.Equal(t, "reference", defs[1].Name)

	items := defs[0].Items
	require.Len(t, items, 2)
	assert.Equal(t, Item{Type: ItemDoc, ID: "intro", Label: "Introduction", Line: 3}, items[0])
	assert.Equal(t, ItemCategory, items[1].Type)
	require.NotNil(t, items[1].Collapsed)
	assert.False(t, *items[1].Collapsed)
	assert.Equal(t, "install", items[1].Items[0].ID)
	assert.Equal(t, "config", items[1].Items[1].ID)

	short := defs[1].Items[0]
	assert.Equal(t, ItemCategory, short.Type)
	assert.Equal(t, "API", short.Label)
	assert.Equal(t, "api/client", short.Items[0].ID)
}

func TestParse_Empty(t *testing.T) {
	defs, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, defs)
}

func TestParse_Invalid(t *testing.T) {
	tests := map[string]string{
		"not a mapping":        "- intro\n",
		"items not a list":     "tutorial: intro\n",
		"category no label":    "tutorial:\n  - type: category\n    items: [a]\n",
		"category no items":    "tutorial:\n  - type: category\n    label: X\n",
		"doc without id":       "tutorial:\n  - type: doc\n    label: X\n",
		"unknown type":         "tutorial:\n  - type: link\n    label: X\n",
		"unknown key":          "tutorial:\n  - id: a\n    href: x\n",
		"duplicate sidebar":    "a: [x]\na: [y]\n",
		"collapsed not bool":   "tutorial:\n  - type: category\n    label: X\n    collapsed: maybe\n    items: [a]\n",
		"sequence item nested": "tutorial:\n  - [a, b]\n",
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(src))
			require.Error(t, err)
		})
	}
}

func TestBuild_Scenario(t *testing.T) {
	defs, err := Parse([]byte("tutorial:\n  - intro\n  - category: x\n"))
	require.Error(t, err, "a mapping without known keys and no list value is invalid")
	_ = defs

	defs, err = Parse([]byte("tutorial:\n  - intro\n  - type: category\n    label: Getting Started\n    items: [install, config]\n"))
	require.NoError(t, err)

	tree, err := Build(defs, registry(t, "intro", "install", "config"))
	require.NoError(t, err)
	assert.Equal(t, []string{"intro", "install", "config"}, tree.DocIDs("tutorial"))

	sb, ok := tree.Sidebar("tutorial")
	require.True(t, ok)
	assert.Equal(t, "Intro", sb.Items[0].Label, "label falls back to the document title")
	assert.Equal(t, KindCategory, sb.Items[1].Kind)
	assert.Len(t, sb.Leaves(), 3)
}

func TestBuild_DanglingReference(t *testing.T) {
	defs, err := Parse([]byte("tutorial:\n  - intro\n  - missing-doc\n"))
	require.NoError(t, err)

	_, err = Build(defs, registry(t, "intro"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDanglingReference))
	assert.Contains(t, err.Error(), "missing-doc")
}

func TestBuild_DuplicateDocumentReference(t *testing.T) {
	defs, err := Parse([]byte("tutorial:\n  - intro\n  - Nested:\n      - intro\n"))
	require.NoError(t, err)

	_, err = Build(defs, registry(t, "intro"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateDocumentReference))
	assert.False(t, errors.Is(err, ErrDanglingReference))
	assert.Contains(t, err.Error(), "intro")
}

func TestBuild_SameDocInTwoSidebars(t *testing.T) {
	defs, err := Parse([]byte(tutorialYAML))
	require.NoError(t, err)

	tree, err := Build(defs, registry(t, "intro", "install", "config", "api/client"))
	require.NoError(t, err)

	owner, ok := tree.SidebarFor("install")
	require.True(t, ok)
	assert.Equal(t, "tutorial", owner)
	owner, ok = tree.SidebarFor("api/client")
	require.True(t, ok)
	assert.Equal(t, "reference", owner)
	_, ok = tree.SidebarFor("nope")
	assert.False(t, ok)

	assert.Equal(t, []string{"intro", "install", "config", "api/client"}, tree.OrderedDocIDs())
	assert.Equal(t, []string{"tutorial", "reference"}, tree.Names())
}

func TestNavigation(t *testing.T) {
	defs, err := Parse([]byte(tutorialYAML))
	require.NoError(t, err)
	tree, err := Build(defs, registry(t, "intro", "install", "config", "api/client"))
	require.NoError(t, err)

	prev, next := tree.Navigation("intro")
	assert.Nil(t, prev)
	require.NotNil(t, next)
	assert.Equal(t, "install", next.DocID)

	prev, next = tree.Navigation("install")
	assert.Equal(t, "intro", prev.DocID)
	assert.Equal(t, "config", next.DocID)

	prev, next = tree.Navigation("config")
	assert.Equal(t, "install", prev.DocID)
	assert.Nil(t, next)

	prev, next = tree.Navigation("unknown")
	assert.Nil(t, prev)
	assert.Nil(t, next)
}

func TestLoad(t *testing.T) {
	p := filepath.Join(t.TempDir(), "sidebars.yaml")
	require.NoError(t, os.WriteFile(p, []byte(tutorialYAML), 0o600))
	defs, err := Load(p)
	require.NoError(t, err)
	assert.Len(t, defs, 2)

	require.NoError(t, os.WriteFile(p, []byte("a: b\n"), 0o600))
	_, err = Load(p)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidSpec))
	assert.Contains(t, err.Error(), p)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
