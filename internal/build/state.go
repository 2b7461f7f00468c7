package build

import (
	"log/slog"

	"git.home.luguber.info/inful/docnav/internal/config"
	"git.home.luguber.info/inful/docnav/internal/docs"
	"git.home.luguber.info/inful/docnav/internal/features"
	"git.home.luguber.info/inful/docnav/internal/git"
	"git.home.luguber.info/inful/docnav/internal/linkcheck"
	"git.home.luguber.info/inful/docnav/internal/metrics"
	"git.home.luguber.info/inful/docnav/internal/routes"
	"git.home.luguber.info/inful/docnav/internal/sidebar"
)

// BuildState is the mutable state threaded through the stages of one build.
// Each stage fills in the fields the next ones read.
type BuildState struct {
	Config    *config.Config
	BuildID   string
	Logger    *slog.Logger
	Recorder  metrics.Recorder
	Publisher linkcheck.Publisher
	Report    *Report

	Revision    git.Revision
	HasRevision bool

	Registry *docs.Registry
	Tree     *sidebar.Tree
	Routes   *routes.Generator
	Table    *routes.Table

	LinkIssues   []linkcheck.Issue
	Features     []features.Feature
	FeaturesHTML []byte
}

func (bs *BuildState) logger() *slog.Logger {
	if bs.Logger == nil {
		return slog.Default()
	}
	return bs.Logger
}
