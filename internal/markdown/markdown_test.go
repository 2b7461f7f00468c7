package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze_InlineLink(t *testing.T) {
	links := ExtractLinks([]byte("See [API](api.md) for details."))
	require.Len(t, links, 1)
	assert.Equal(t, LinkKindInline, links[0].Kind)
	assert.Equal(t, "api.md", links[0].Destination)
}

func TestAnalyze_ImageAndAutoLink(t *testing.T) {
	links := ExtractLinks([]byte("![Diagram](diagram.png)\n\n<https://example.com/path>\n"))
	require.Len(t, links, 2)
	assert.Equal(t, Link{Kind: LinkKindImage, Destination: "diagram.png"}, links[0])
	assert.Equal(t, Link{Kind: LinkKindAuto, Destination: "https://example.com/path"}, links[1])
}

func TestAnalyze_ReferenceLink(t *testing.T) {
	links := ExtractLinks([]byte("See [API][ref].\n\n[ref]: api.md\n"))
	require.Len(t, links, 2)
	assert.Equal(t, LinkKindInline, links[0].Kind)
	assert.Equal(t, "api.md", links[0].Destination)
	assert.Equal(t, LinkKindReferenceDefinition, links[1].Kind)
}

func TestAnalyze_RawHTML(t *testing.T) {
	src := []byte("Inline <a href=\"./inline.md\">x</a> link.\n\n<div>\n<a href=\"/docs/intro\">Intro</a>\n<img src=\"logo.png\"/>\n</div>\n")
	links := ExtractLinks(src)

	var dests []string
	for _, l := range links {
		dests = append(dests, l.Destination)
	}
	assert.Contains(t, dests, "./inline.md")
	assert.Contains(t, dests, "/docs/intro")
	assert.Contains(t, dests, "logo.png")
}

func TestFirstHeading(t *testing.T) {
	assert.Equal(t, "Installing the SDK", FirstHeading([]byte("Intro text\n\n# Installing the `SDK`\n\n## Sub\n")))
	assert.Empty(t, FirstHeading([]byte("## Only level two\n")))
}

func TestLinkClassification(t *testing.T) {
	tests := []struct {
		link     Link
		external bool
		mdFile   bool
		sitePath bool
		target   string
	}{
		{Link{Kind: LinkKindInline, Destination: "https://example.com"}, true, false, false, "https://example.com"},
		{Link{Kind: LinkKindInline, Destination: "mailto:a@b.c"}, true, false, false, "mailto:a@b.c"},
		{Link{Kind: LinkKindInline, Destination: "./install.md#step-2"}, false, true, false, "./install.md"},
		{Link{Kind: LinkKindInline, Destination: "../api/client.mdx?x=1"}, false, true, false, "../api/client.mdx"},
		{Link{Kind: LinkKindInline, Destination: "/docs/intro#top"}, false, false, true, "/docs/intro"},
		{Link{Kind: LinkKindImage, Destination: "/img/logo.png"}, false, false, false, "/img/logo.png"},
		{Link{Kind: LinkKindInline, Destination: "#section"}, false, false, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.link.Destination, func(t *testing.T) {
			assert.Equal(t, tt.external, tt.link.IsExternal())
			assert.Equal(t, tt.mdFile, tt.link.IsMarkdownFile())
			assert.Equal(t, tt.sitePath, tt.link.IsSitePath())
			assert.Equal(t, tt.target, tt.link.Target())
		})
	}
}
