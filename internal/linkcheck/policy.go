package linkcheck

import (
	"fmt"
	"log/slog"
	"strings"

	"git.home.luguber.info/inful/docnav/internal/config"
	ferrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/logfields"
)

var (
	// ErrBrokenMarkdownLinks is returned under the throw policy for markdown file links.
	ErrBrokenMarkdownLinks = ferrors.LinksError("broken markdown links").Fatal().Build()
	// ErrBrokenLinks is returned under the throw policy for site links.
	ErrBrokenLinks = ferrors.LinksError("broken links").Fatal().Build()
)

// Filter returns the issues of one kind.
func Filter(issues []Issue, kind Kind) []Issue {
	var out []Issue
	for _, i := range issues {
		if i.Kind == kind {
			out = append(out, i)
		}
	}
	return out
}

// Apply enforces policy on the issues of kind. Under throw it returns one
// error naming every offender; under warn each issue is logged.
func Apply(issues []Issue, kind Kind, policy config.Policy, logger *slog.Logger) error {
	matched := Filter(issues, kind)
	if len(matched) == 0 {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}

	switch policy {
	case config.PolicyIgnore:
		return nil
	case config.PolicyWarn:
		for _, i := range matched {
			logger.Warn("Broken link",
				slog.String("kind", string(i.Kind)),
				logfields.DocID(i.Source),
				logfields.URL(i.Target),
				slog.String("reason", i.Reason))
		}
		return nil
	default:
		sentinel := ErrBrokenLinks
		if kind == KindBrokenMarkdownLink {
			sentinel = ErrBrokenMarkdownLinks
		}
		offenders := make([]string, 0, len(matched))
		for _, i := range matched {
			offenders = append(offenders, fmt.Sprintf("%s -> %s", i.Source, i.Target))
		}
		return sentinel.
			WithContext("count", len(matched)).
			WithContext("links", strings.Join(offenders, "; ")).
			WithContext("policy", string(config.PolicyThrow))
	}
}

// Enforce applies both policies from cfg. Markdown link issues are evaluated first.
func Enforce(issues []Issue, cfg *config.Config, logger *slog.Logger) error {
	if err := Apply(issues, KindBrokenMarkdownLink, cfg.OnBrokenMarkdownLinks, logger); err != nil {
		return err
	}
	return Apply(issues, KindBrokenLink, cfg.OnBrokenLinks, logger)
}
