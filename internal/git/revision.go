// Package git stamps builds with the source revision of the docs checkout.
package git

import (
	"errors"

	"github.com/go-git/go-git/v5"

	ferrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
)

// Revision identifies the checkout a build was produced from.
type Revision struct {
	Commit string `json:"commit"`
	Branch string `json:"branch,omitempty"`
	Dirty  bool   `json:"dirty,omitempty"`
}

// Short returns the abbreviated commit hash.
func (r Revision) Short() string {
	if len(r.Commit) > 12 {
		return r.Commit[:12]
	}
	return r.Commit
}

func (r Revision) String() string {
	s := r.Short()
	if r.Branch != "" {
		s = r.Branch + "@" + s
	}
	if r.Dirty {
		s += "+dirty"
	}
	return s
}

// HeadRevision resolves HEAD of the repository containing path, searching
// parent directories for .git. ok is false when path is not inside a
// repository or the repository has no commits yet.
func HeadRevision(path string) (rev Revision, ok bool, err error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return Revision{}, false, nil
	}
	if err != nil {
		return Revision{}, false, ferrors.WrapError(err, ferrors.CategoryRuntime, "failed to open git repository").
			WithContext("path", path).Build()
	}

	head, err := repo.Head()
	if err != nil {
		// Unborn branch: nothing committed yet.
		return Revision{}, false, nil
	}
	rev.Commit = head.Hash().String()
	if head.Name().IsBranch() {
		rev.Branch = head.Name().Short()
	}

	if wt, wtErr := repo.Worktree(); wtErr == nil {
		if status, stErr := wt.Status(); stErr == nil {
			rev.Dirty = !status.IsClean()
		}
	}
	return rev, true, nil
}
