// Package linkcheck finds broken markdown and site links and applies the
// configured on_broken_links / on_broken_markdown_links policies.
package linkcheck

import (
	"net/url"
	"path"
	"strings"

	"git.home.luguber.info/inful/docnav/internal/config"
	"git.home.luguber.info/inful/docnav/internal/docs"
	"git.home.luguber.info/inful/docnav/internal/markdown"
	"git.home.luguber.info/inful/docnav/internal/routes"
	"git.home.luguber.info/inful/docnav/internal/sidebar"
)

// Kind distinguishes the two broken link classes, each with its own policy.
type Kind string

const (
	KindBrokenMarkdownLink Kind = "broken_markdown_link"
	KindBrokenLink         Kind = "broken_link"
)

// Issue is one broken link.
type Issue struct {
	Kind   Kind   `json:"kind"`
	Source string `json:"source"`         // doc id, "navbar" or "footer"
	File   string `json:"file,omitempty"` // source file relative to the docs root
	Target string `json:"target"`
	Reason string `json:"reason"`
}

// Input is everything a check needs. All fields are read-only.
type Input struct {
	Config   *config.Config
	Registry *docs.Registry
	Tree     *sidebar.Tree
	Table    *routes.Table
}

// Check returns every broken link in document order, then navbar, then footer.
func Check(in Input) []Issue {
	c := checker{in: in, base: routes.NormalizePath(in.Config.BaseURL)}
	var issues []Issue
	for _, d := range in.Registry.All() {
		issues = append(issues, c.checkDocument(d)...)
	}
	issues = append(issues, c.checkNavbar()...)
	issues = append(issues, c.checkFooter()...)
	return issues
}

type checker struct {
	in   Input
	base string
}

func (c checker) checkDocument(d docs.Document) []Issue {
	var issues []Issue
	for _, l := range d.Links {
		switch {
		case l.IsExternal() || l.Kind == markdown.LinkKindImage:
			continue
		case l.IsMarkdownFile():
			if !c.markdownTargetExists(d, l.Target()) {
				issues = append(issues, Issue{
					Kind: KindBrokenMarkdownLink, Source: d.ID, File: d.RelativePath,
					Target: l.Destination, Reason: "no document at this path",
				})
			}
		default:
			target := l.Target()
			if target == "" || path.Ext(target) != "" {
				// Fragment-only links and static assets are not routes.
				continue
			}
			var resolved string
			if strings.HasPrefix(target, "/") {
				resolved = c.withBase(target)
			} else {
				from, ok := c.in.Table.PathFor(d.ID)
				if !ok {
					continue
				}
				resolved = routes.Join(path.Dir(from), target)
			}
			if _, ok := c.in.Table.Lookup(resolved); !ok {
				issues = append(issues, Issue{
					Kind: KindBrokenLink, Source: d.ID, File: d.RelativePath,
					Target: l.Destination, Reason: "no route " + resolved,
				})
			}
		}
	}
	return issues
}

func (c checker) markdownTargetExists(d docs.Document, target string) bool {
	if unescaped, err := url.PathUnescape(target); err == nil {
		target = unescaped
	}
	var rel string
	if strings.HasPrefix(target, "/") {
		rel = strings.TrimPrefix(path.Clean(target), "/")
	} else {
		rel = path.Join(path.Dir(d.RelativePath), target)
	}
	_, ok := c.in.Registry.ByRelativePath(rel)
	return ok
}

func (c checker) checkNavbar() []Issue {
	var issues []Issue
	for _, item := range c.in.Config.Navbar.Items {
		switch item.Type {
		case config.NavbarItemDocSidebar:
			sb, ok := c.sidebar(item.SidebarID)
			if !ok || len(sb.Leaves()) == 0 {
				issues = append(issues, Issue{Kind: KindBrokenLink, Source: "navbar", Target: item.SidebarID, Reason: "unknown or empty sidebar"})
			}
		case config.NavbarItemDoc:
			if _, ok := c.in.Table.PathFor(item.DocID); !ok {
				issues = append(issues, Issue{Kind: KindBrokenLink, Source: "navbar", Target: item.DocID, Reason: "unknown document"})
			}
		default:
			if issue, broken := c.checkTo("navbar", item.To); broken {
				issues = append(issues, issue)
			}
		}
	}
	return issues
}

func (c checker) checkFooter() []Issue {
	var issues []Issue
	for _, group := range c.in.Config.Footer.Links {
		for _, link := range group.Items {
			if issue, broken := c.checkTo("footer", link.To); broken {
				issues = append(issues, issue)
			}
		}
	}
	return issues
}

func (c checker) checkTo(source, to string) (Issue, bool) {
	if to == "" {
		return Issue{}, false
	}
	resolved := c.withBase(strings.SplitN(strings.SplitN(to, "#", 2)[0], "?", 2)[0])
	if _, ok := c.in.Table.Lookup(resolved); ok {
		return Issue{}, false
	}
	return Issue{Kind: KindBrokenLink, Source: source, Target: to, Reason: "no route " + resolved}, true
}

func (c checker) sidebar(name string) (*sidebar.Sidebar, bool) {
	if c.in.Tree == nil {
		return nil, false
	}
	return c.in.Tree.Sidebar(name)
}

// withBase prefixes site-absolute paths with the base URL unless already present.
func (c checker) withBase(p string) string {
	return routes.WithBase(c.base, p)
}
