// Package markdown extracts the navigation-relevant facts from markdown bodies:
// the first heading and every link-like construct.
package markdown

import (
	"bytes"
	"sort"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

var md = goldmark.New()

// Analysis is the result of a single parse of a markdown body.
type Analysis struct {
	Title string // text of the first level-1 heading, empty when absent
	Links []Link
}

// Analyze parses a markdown body (front matter already removed) once and
// returns its first H1 and links.
func Analyze(body []byte) Analysis {
	ctx := parser.NewContext()
	root := md.Parser().Parse(text.NewReader(body), parser.WithContext(ctx))

	var a Analysis
	a.Links = make([]Link, 0)
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.Heading:
			if node.Level == 1 && a.Title == "" {
				a.Title = string(bytes.TrimSpace(collectText(node, body)))
			}
		case *gmast.AutoLink:
			a.Links = append(a.Links, Link{Kind: LinkKindAuto, Destination: string(node.URL(body))})
		case *gmast.Image:
			a.Links = append(a.Links, Link{Kind: LinkKindImage, Destination: string(node.Destination)})
		case *gmast.Link:
			// Reference-style usages resolve to Link nodes too.
			a.Links = append(a.Links, Link{Kind: LinkKindInline, Destination: string(node.Destination)})
		case *gmast.RawHTML:
			a.Links = append(a.Links, htmlLinks(segmentsValue(node.Segments, body))...)
		case *gmast.HTMLBlock:
			raw := segmentsValue(node.Lines(), body)
			if node.HasClosure() {
				raw = append(raw, node.ClosureLine.Value(body)...)
			}
			a.Links = append(a.Links, htmlLinks(raw)...)
			return gmast.WalkSkipChildren, nil
		}
		return gmast.WalkContinue, nil
	})

	// Reference definitions live in the parse context, not the AST.
	refs := ctx.References()
	sort.Slice(refs, func(i, j int) bool {
		return string(refs[i].Label()) < string(refs[j].Label())
	})
	for _, ref := range refs {
		a.Links = append(a.Links, Link{Kind: LinkKindReferenceDefinition, Destination: string(ref.Destination())})
	}
	return a
}

// ExtractLinks returns every link-like construct in body.
func ExtractLinks(body []byte) []Link {
	return Analyze(body).Links
}

// FirstHeading returns the text of the first level-1 heading.
func FirstHeading(body []byte) string {
	return Analyze(body).Title
}

func collectText(n gmast.Node, source []byte) []byte {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *gmast.Text:
			buf.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		case *gmast.String:
			buf.Write(t.Value)
		default:
			buf.Write(collectText(c, source))
		}
	}
	return buf.Bytes()
}

func segmentsValue(segs *text.Segments, source []byte) []byte {
	var buf bytes.Buffer
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		buf.Write(seg.Value(source))
	}
	return buf.Bytes()
}
