package build

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"git.home.luguber.info/inful/docnav/internal/config"
	"git.home.luguber.info/inful/docnav/internal/docs"
	"git.home.luguber.info/inful/docnav/internal/features"
	ferrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/git"
	"git.home.luguber.info/inful/docnav/internal/linkcheck"
	"git.home.luguber.info/inful/docnav/internal/logfields"
	"git.home.luguber.info/inful/docnav/internal/routes"
	"git.home.luguber.info/inful/docnav/internal/sidebar"
)

var (
	// ErrSidebarFileMissing is the warning raised when the configured sidebar file does not exist.
	ErrSidebarFileMissing = ferrors.SidebarError("sidebar file not found; every document is unreferenced").Warning().Build()
	// ErrLinksReported is the warning raised when broken links were logged under the warn policy.
	ErrLinksReported = ferrors.LinksError("broken links reported").Warning().Build()
)

func stageResolveRevision(_ context.Context, bs *BuildState) error {
	root := bs.Config.Root
	if root == "" {
		root = bs.Config.DocsDir()
	}
	rev, ok, err := git.HeadRevision(root)
	if err != nil {
		return NewWarnStageError(StageResolveRevision, err)
	}
	if !ok {
		bs.logger().Debug("Docs are not in a git repository with commits", logfields.Path(root))
		return nil
	}
	bs.Revision, bs.HasRevision = rev, true
	bs.Report.Revision = rev.String()
	return nil
}

func stageLoadDocs(ctx context.Context, bs *BuildState) error {
	reg, err := docs.Discover(bs.Config.DocsDir(), docs.DiscoverOptions{
		IncludeDrafts: bs.Config.Docs.IncludeDrafts,
		Logger:        bs.logger(),
	})
	if err != nil {
		return NewFatalStageError(StageLoadDocs, err)
	}
	if err := ctx.Err(); err != nil {
		return NewCanceledStageError(StageLoadDocs, err)
	}
	bs.Registry = reg
	bs.Report.Documents = reg.Len()
	bs.Recorder.SetDocuments(reg.Len())
	return nil
}

func stageBuildSidebars(_ context.Context, bs *BuildState) error {
	file := bs.Config.SidebarFile()
	var defs []sidebar.Definition
	var warn error
	if _, err := os.Stat(file); errors.Is(err, fs.ErrNotExist) {
		warn = ErrSidebarFileMissing.WithContext("path", file)
	} else {
		defs, err = sidebar.Load(file)
		if err != nil {
			return NewFatalStageError(StageBuildSidebars, err)
		}
	}

	tree, err := sidebar.Build(defs, bs.Registry)
	if err != nil {
		return NewFatalStageError(StageBuildSidebars, err)
	}
	bs.Tree = tree
	bs.Report.Sidebars = len(tree.Sidebars)
	warnSharedDocuments(bs.logger(), tree)

	if warn != nil {
		return NewWarnStageError(StageBuildSidebars, warn)
	}
	return nil
}

// warnSharedDocuments logs every document listed by more than one sidebar.
// The first sidebar keeps it for routing and navigation.
func warnSharedDocuments(logger *slog.Logger, tree *sidebar.Tree) {
	for _, sb := range tree.Sidebars {
		for _, leaf := range sb.Leaves() {
			owner, _ := tree.SidebarFor(leaf.DocID)
			if owner != sb.Name {
				logger.Warn("Document listed in several sidebars; first one wins",
					logfields.DocID(leaf.DocID),
					logfields.Sidebar(sb.Name),
					slog.String("owner", owner))
			}
		}
	}
}

func stageGenerateRoutes(_ context.Context, bs *BuildState) error {
	gen := routes.NewGenerator(routes.Options{
		BaseURL:       bs.Config.BaseURL,
		RouteBasePath: bs.Config.Docs.RouteBasePath,
		Debug:         bs.Config.Debug,
		Logger:        bs.logger(),
	})
	table, err := gen.Generate(bs.Tree, bs.Registry)
	if err != nil {
		return NewFatalStageError(StageGenerateRoutes, err)
	}
	if err := table.Validate(); err != nil {
		return NewFatalStageError(StageGenerateRoutes, err)
	}
	bs.Routes = gen
	bs.Table = table
	bs.Report.Routes = len(table.Leaves())
	bs.Recorder.SetRoutes(len(table.Leaves()))
	return nil
}

func stageCheckLinks(ctx context.Context, bs *BuildState) error {
	issues := linkcheck.Check(linkcheck.Input{
		Config:   bs.Config,
		Registry: bs.Registry,
		Tree:     bs.Tree,
		Table:    bs.Table,
	})
	bs.LinkIssues = issues
	bs.Report.LinkIssues = issues

	for _, kind := range []linkcheck.Kind{linkcheck.KindBrokenMarkdownLink, linkcheck.KindBrokenLink} {
		if n := len(linkcheck.Filter(issues, kind)); n > 0 {
			bs.Recorder.AddBrokenLinks(string(kind), n)
		}
	}
	if err := linkcheck.PublishAll(ctx, bs.Publisher, bs.BuildID, issues, bs.logger()); err != nil {
		bs.logger().Warn("Link events were not all published", logfields.Error(err))
	}

	if err := linkcheck.Enforce(issues, bs.Config, bs.logger()); err != nil {
		return NewFatalStageError(StageCheckLinks, err)
	}
	if n := warnedLinks(issues, bs); n > 0 {
		return NewWarnStageError(StageCheckLinks, ErrLinksReported.WithContext("count", n))
	}
	return nil
}

// warnedLinks counts the issues whose policy is warn.
func warnedLinks(issues []linkcheck.Issue, bs *BuildState) int {
	n := 0
	if bs.Config.OnBrokenMarkdownLinks == config.PolicyWarn {
		n += len(linkcheck.Filter(issues, linkcheck.KindBrokenMarkdownLink))
	}
	if bs.Config.OnBrokenLinks == config.PolicyWarn {
		n += len(linkcheck.Filter(issues, linkcheck.KindBrokenLink))
	}
	return n
}

func stageRenderFeatures(_ context.Context, bs *BuildState) error {
	list := features.Default()
	if configured := bs.Config.Homepage.Features; len(configured) > 0 {
		list = make([]features.Feature, 0, len(configured))
		for _, f := range configured {
			list = append(list, features.Feature{Title: f.Title, Description: f.Description})
		}
	}
	var buf bytes.Buffer
	if err := features.Render(&buf, list); err != nil {
		return NewFatalStageError(StageRenderFeatures, err)
	}
	bs.Features = list
	bs.FeaturesHTML = buf.Bytes()
	return nil
}

func stageWriteOutput(_ context.Context, bs *BuildState) error {
	dir, err := writeOutput(bs)
	if err != nil {
		return NewFatalStageError(StageWriteOutput, err)
	}
	bs.Report.OutputDir = dir
	return nil
}
