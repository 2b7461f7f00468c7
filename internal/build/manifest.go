package build

import (
	"git.home.luguber.info/inful/docnav/internal/config"
	"git.home.luguber.info/inful/docnav/internal/docs"
	"git.home.luguber.info/inful/docnav/internal/routes"
	"git.home.luguber.info/inful/docnav/internal/sidebar"
)

// SidebarsManifest is the content of sidebars.json.
type SidebarsManifest struct {
	Sidebars []SidebarJSON         `json:"sidebars"`
	Docs     map[string]DocNavJSON `json:"docs"`
}

// SidebarJSON is one sidebar with resolved paths.
type SidebarJSON struct {
	Name  string         `json:"name"`
	Items []SidebarEntry `json:"items"`
}

// SidebarEntry mirrors sidebar.Entry and adds the resolved route path of doc items.
type SidebarEntry struct {
	Type      sidebar.Kind   `json:"type"`
	ID        string         `json:"id,omitempty"`
	Label     string         `json:"label"`
	Path      string         `json:"path,omitempty"`
	Collapsed bool           `json:"collapsed,omitempty"`
	Items     []SidebarEntry `json:"items,omitempty"`
}

// DocNavJSON is the per-document navigation record.
type DocNavJSON struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Label       string   `json:"label"`
	Description string   `json:"description,omitempty"`
	Path        string   `json:"path"`
	Source      string   `json:"source"`
	Sidebar     string   `json:"sidebar,omitempty"`
	EditURL     string   `json:"edit_url,omitempty"`
	Previous    *NavLink `json:"previous,omitempty"`
	Next        *NavLink `json:"next,omitempty"`
}

// NavLink points at a neighbouring document.
type NavLink struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Path  string `json:"path"`
}

func sidebarsManifest(cfg *config.Config, reg *docs.Registry, tree *sidebar.Tree, table *routes.Table) SidebarsManifest {
	m := SidebarsManifest{
		Sidebars: make([]SidebarJSON, 0, len(tree.Sidebars)),
		Docs:     make(map[string]DocNavJSON, reg.Len()),
	}
	for _, sb := range tree.Sidebars {
		m.Sidebars = append(m.Sidebars, SidebarJSON{Name: sb.Name, Items: sidebarEntries(sb.Items, table)})
	}

	link := func(e *sidebar.Entry) *NavLink {
		if e == nil {
			return nil
		}
		p, _ := table.PathFor(e.DocID)
		return &NavLink{ID: e.DocID, Label: e.Label, Path: p}
	}
	for _, d := range reg.All() {
		p, _ := table.PathFor(d.ID)
		owner, _ := tree.SidebarFor(d.ID)
		prev, next := tree.Navigation(d.ID)
		m.Docs[d.ID] = DocNavJSON{
			ID:          d.ID,
			Title:       d.Title,
			Label:       d.Label(),
			Description: d.Description,
			Path:        p,
			Source:      d.RelativePath,
			Sidebar:     owner,
			EditURL:     d.EditURL(cfg.Docs.EditURL),
			Previous:    link(prev),
			Next:        link(next),
		}
	}
	return m
}

func sidebarEntries(entries []*sidebar.Entry, table *routes.Table) []SidebarEntry {
	out := make([]SidebarEntry, 0, len(entries))
	for _, e := range entries {
		se := SidebarEntry{Type: e.Kind, ID: e.DocID, Label: e.Label, Collapsed: e.Collapsed}
		if e.IsLeaf() {
			se.Path, _ = table.PathFor(e.DocID)
		} else {
			se.Items = sidebarEntries(e.Items, table)
		}
		out = append(out, se)
	}
	return out
}

// SiteManifest is the content of site.json: the theme surface with every
// internal link resolved to a route path.
type SiteManifest struct {
	Title            string                 `json:"title"`
	Tagline          string                 `json:"tagline,omitempty"`
	Favicon          string                 `json:"favicon,omitempty"`
	URL              string                 `json:"url"`
	BaseURL          string                 `json:"base_url"`
	SiteURL          string                 `json:"site_url"`
	DocsPath         string                 `json:"docs_path"`
	OrganizationName string                 `json:"organization_name,omitempty"`
	ProjectName      string                 `json:"project_name,omitempty"`
	I18n             config.I18nConfig      `json:"i18n"`
	Navbar           NavbarJSON             `json:"navbar"`
	Footer           config.FooterConfig    `json:"footer"`
	ColorMode        config.ColorModeConfig `json:"color_mode"`
	Prism            config.PrismConfig     `json:"prism"`
	Revision         string                 `json:"revision,omitempty"`
}

// NavbarJSON is the navbar with doc and sidebar items resolved.
type NavbarJSON struct {
	Title string             `json:"title,omitempty"`
	Logo  *config.LogoConfig `json:"logo,omitempty"`
	Items []NavbarItemJSON   `json:"items"`
}

// NavbarItemJSON is a navbar entry pointing at either an internal path or an external href.
type NavbarItemJSON struct {
	Label    string `json:"label"`
	Position string `json:"position"`
	To       string `json:"to,omitempty"`
	Href     string `json:"href,omitempty"`
}

func siteManifest(bs *BuildState) SiteManifest {
	cfg := bs.Config
	footer := config.FooterConfig{
		Style:     cfg.Footer.Style,
		Links:     make([]config.FooterLinkGroup, 0, len(cfg.Footer.Links)),
		Copyright: cfg.Footer.CopyrightFor(bs.Report.Start.Year()),
	}
	for _, g := range cfg.Footer.Links {
		group := config.FooterLinkGroup{Title: g.Title, Items: make([]config.FooterLink, 0, len(g.Items))}
		for _, l := range g.Items {
			if l.To != "" {
				l.To = routes.WithBase(cfg.BaseURL, l.To)
			}
			group.Items = append(group.Items, l)
		}
		footer.Links = append(footer.Links, group)
	}

	return SiteManifest{
		Title:            cfg.Title,
		Tagline:          cfg.Tagline,
		Favicon:          cfg.Favicon,
		URL:              cfg.URL,
		BaseURL:          cfg.BaseURL,
		SiteURL:          cfg.SiteURL(),
		DocsPath:         bs.Routes.Namespace(),
		OrganizationName: cfg.OrganizationName,
		ProjectName:      cfg.ProjectName,
		I18n:             cfg.I18n,
		Navbar:           navbarJSON(cfg, bs.Tree, bs.Table),
		Footer:           footer,
		ColorMode:        cfg.ColorMode,
		Prism:            cfg.Prism,
		Revision:         bs.Report.Revision,
	}
}

func navbarJSON(cfg *config.Config, tree *sidebar.Tree, table *routes.Table) NavbarJSON {
	nb := NavbarJSON{Title: cfg.Navbar.Title, Logo: cfg.Navbar.Logo, Items: make([]NavbarItemJSON, 0, len(cfg.Navbar.Items))}
	for _, item := range cfg.Navbar.Items {
		out := NavbarItemJSON{Label: item.Label, Position: item.Position, Href: item.Href}
		if out.Position == "" {
			out.Position = "left"
		}
		switch item.Type {
		case config.NavbarItemDocSidebar:
			if ids := tree.DocIDs(item.SidebarID); len(ids) > 0 {
				out.To, _ = table.PathFor(ids[0])
			}
		case config.NavbarItemDoc:
			out.To, _ = table.PathFor(item.DocID)
		default:
			if item.To != "" {
				out.To = routes.WithBase(cfg.BaseURL, item.To)
			}
		}
		nb.Items = append(nb.Items, out)
	}
	return nb
}
