// Package git reads version-control provenance for the content tree.
package git

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Revision identifies the commit a build read its content from.
type Revision struct {
	Commit      string    `json:"commit"`
	Branch      string    `json:"branch,omitempty"`
	CommittedAt time.Time `json:"committedAt"`
}

// Short returns the abbreviated commit hash.
func (r *Revision) Short() string {
	if len(r.Commit) < 8 {
		return r.Commit
	}
	return r.Commit[:8]
}

// HeadRevision returns HEAD of the repository containing dir. It returns
// nil without error when dir is not inside a repository or the repository
// has no commits yet.
func HeadRevision(dir string) (*Revision, error) {
	repository, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, nil
		}
		return nil, fmt.Errorf("open repository: %w", err)
	}

	ref, err := repository.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("resolve HEAD: %w", err)
	}

	commit, err := repository.CommitObject(ref.Hash())
	if err != nil {
		return nil, fmt.Errorf("get commit object: %w", err)
	}

	rev := &Revision{
		Commit:      ref.Hash().String(),
		CommittedAt: commit.Committer.When.UTC(),
	}
	if ref.Name().IsBranch() {
		rev.Branch = ref.Name().Short()
	}
	return rev, nil
}
