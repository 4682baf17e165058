package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeadRevision_NotARepository(t *testing.T) {
	rev, err := HeadRevision(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, rev)
}

func TestHeadRevision_EmptyRepository(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	rev, err := HeadRevision(dir)
	require.NoError(t, err)
	assert.Nil(t, rev)
}

func TestHeadRevision_FromSubdirectory(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	sub := filepath.Join(dir, "data", "blog")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "2024-01-01-a.mdx"), []byte("---\n---\n"), 0o644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("data/blog/2024-01-01-a.mdx")
	require.NoError(t, err)
	when := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	hash, err := wt.Commit("add post", &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: when},
	})
	require.NoError(t, err)

	rev, err := HeadRevision(sub)
	require.NoError(t, err)
	require.NotNil(t, rev)
	assert.Equal(t, hash.String(), rev.Commit)
	assert.Equal(t, hash.String()[:8], rev.Short())
	assert.Equal(t, "master", rev.Branch)
	assert.True(t, rev.CommittedAt.Equal(when))
}
