// Package vcstest builds real git repositories for tests.
//
// Mocking a repository is more trouble than creating one in a temporary directory.
package vcstest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// Options to build a test repository
type Options struct {
	// RemoteURL sets a remote called "origin"
	RemoteURL string
	// Tags created on the initial commit (lightweight tags)
	Tags []string
	// AnnotatedTags created on the initial commit, with their message
	AnnotatedTags map[string]string
	// Branches created on the initial commit
	Branches []string
}

var testTime = time.Date(2019, 12, 5, 14, 1, 18, 0, time.UTC)

func signature() *object.Signature {
	return &object.Signature{Name: "Catalog Tester", Email: "tester@example.com", When: testTime}
}

// InitRepo initializes a repository called "repo" under parent, with one commit on branch master.
//
// It returns the path of the working copy.
func InitRepo(t testing.TB, parent string, opts Options) string {
	wd := filepath.Join(parent, "repo")
	repo, err := git.PlainInit(wd, false)
	require.NoError(t, err)

	head := Commit(t, wd, "README.md", "abc", "initial commit")

	for _, tag := range opts.Tags {
		_, err = repo.CreateTag(tag, head, nil)
		require.NoError(t, err)
	}
	for tag, msg := range opts.AnnotatedTags {
		_, err = repo.CreateTag(tag, head, &git.CreateTagOptions{Tagger: signature(), Message: msg})
		require.NoError(t, err)
	}
	for _, branch := range opts.Branches {
		require.NoError(t, repo.Storer.SetReference(
			plumbing.NewHashReference(plumbing.NewBranchReferenceName(branch), head)),
		)
	}
	if opts.RemoteURL != "" {
		_, err = repo.CreateRemote(&gitconfig.RemoteConfig{Name: "origin", URLs: []string{opts.RemoteURL}})
		require.NoError(t, err)
	}
	return wd
}

// Commit writes a file in the working copy and commits it, returning the commit hash
func Commit(t testing.TB, wd, file, content, msg string) plumbing.Hash {
	repo, err := git.PlainOpen(wd)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(wd, file), []byte(content), 0o600))
	_, err = wt.Add(file)
	require.NoError(t, err)

	hash, err := wt.Commit(msg, &git.CommitOptions{Author: signature(), Committer: signature()})
	require.NoError(t, err)
	return hash
}

// Tag creates a lightweight tag on HEAD
func Tag(t testing.TB, wd, tag string) {
	repo, err := git.PlainOpen(wd)
	require.NoError(t, err)
	head, err := repo.Head()
	require.NoError(t, err)
	_, err = repo.CreateTag(tag, head.Hash(), nil)
	require.NoError(t, err)
}

// Head yields the commit hash HEAD points to
func Head(t testing.TB, wd string) plumbing.Hash {
	repo, err := git.PlainOpen(wd)
	require.NoError(t, err)
	head, err := repo.Head()
	require.NoError(t, err)
	return head.Hash()
}
