package vcs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/oneconcern/catalog/pkg/vcs"
	"github.com/oneconcern/catalog/pkg/vcs/vcstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// abbrev is the length of abbreviated hashes in describe labels
const abbrev = 7

func openTestRepo(t *testing.T, opts vcstest.Options) (vcs.Handle, string) {
	wd := vcstest.InitRepo(t, t.TempDir(), opts)
	h, err := vcs.Git{}.Open(wd)
	require.NoError(t, err)
	return h, wd
}

func TestOpenInvalid(t *testing.T) {
	_, err := vcs.Git{}.Open(filepath.Join(t.TempDir(), "no"))
	require.Error(t, err)

	_, err = vcs.Git{}.Open(t.TempDir())
	require.Error(t, err)
}

func TestActiveBranchAndCheckout(t *testing.T) {
	h, wd := openTestRepo(t, vcstest.Options{Tags: []string{"v1.0"}, Branches: []string{"other"}})
	assert.Equal(t, wd, h.WorkingDir())

	branch, err := h.ActiveBranch()
	require.NoError(t, err)
	assert.Equal(t, "master", branch)

	require.NoError(t, h.Checkout("other"))
	branch, err = h.ActiveBranch()
	require.NoError(t, err)
	assert.Equal(t, "other", branch)

	require.NoError(t, h.Checkout("v1.0"))
	branch, err = h.ActiveBranch()
	require.NoError(t, err)
	assert.Empty(t, branch, "expected a detached HEAD")

	require.Error(t, h.Checkout("no-such-ref"))
}

func TestRemoteURL(t *testing.T) {
	h, _ := openTestRepo(t, vcstest.Options{RemoteURL: "https://github.com/org/repo.git"})
	u, err := h.RemoteURL("origin")
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/org/repo.git", u)

	u, err = h.RemoteURL("upstream")
	require.NoError(t, err)
	assert.Empty(t, u)
}

func TestTags(t *testing.T) {
	h, _ := openTestRepo(t, vcstest.Options{
		Tags:          []string{"v1.0", "notag"},
		AnnotatedTags: map[string]string{"v1.1": "Release 1.1\n\nwith details"},
	})
	tags, err := h.Tags()
	require.NoError(t, err)
	assert.Equal(t, []vcs.Tag{
		{Name: "notag", Message: "initial commit"},
		{Name: "v1.0", Message: "initial commit"},
		{Name: "v1.1", Message: "Release 1.1"},
	}, tags)
}

func TestDescribe(t *testing.T) {
	h, wd := openTestRepo(t, vcstest.Options{})

	d, err := h.Describe()
	require.NoError(t, err)
	assert.Len(t, d, abbrev, "without tags, describe falls back to the abbreviated hash")

	vcstest.Tag(t, wd, "v1.0")
	vcstest.Tag(t, wd, "v0.9")
	d, err = h.Describe()
	require.NoError(t, err)
	assert.Equal(t, "v1.0", d)

	head := vcstest.Commit(t, wd, "data.csv", "a,b", "second commit")
	third := vcstest.Commit(t, wd, "data.csv", "a,b,c", "third commit")
	d, err = h.Describe()
	require.NoError(t, err)
	assert.Equal(t, "v1.0-2-g"+vcstest.Head(t, wd).String()[:abbrev], d)

	// a describe label is a valid checkout reference
	require.NoError(t, h.Checkout("v1.0"))
	require.NoError(t, h.Checkout(d))
	assert.Equal(t, third, vcstest.Head(t, wd))
	require.NoError(t, h.Checkout(head.String()))
	d, err = h.Describe()
	require.NoError(t, err)
	assert.Equal(t, "v1.0-1-g"+head.String()[:abbrev], d)
}

func TestIsDirty(t *testing.T) {
	h, wd := openTestRepo(t, vcstest.Options{Tags: []string{"v1.0"}})

	dirty, err := h.IsDirty()
	require.NoError(t, err)
	assert.False(t, dirty)

	require.NoError(t, os.WriteFile(filepath.Join(wd, "untracked.txt"), []byte("x"), 0o600))
	dirty, err = h.IsDirty()
	require.NoError(t, err)
	assert.False(t, dirty, "untracked files do not make the tree dirty")

	require.NoError(t, os.WriteFile(filepath.Join(wd, "README.md"), []byte("other"), 0o600))
	dirty, err = h.IsDirty()
	require.NoError(t, err)
	assert.True(t, dirty)
}

func TestCloneAndFetch(t *testing.T) {
	origin := vcstest.InitRepo(t, t.TempDir(), vcstest.Options{Tags: []string{"v1.0"}})
	target := filepath.Join(t.TempDir(), "clone")

	h, err := vcs.Git{}.Clone(context.Background(), origin, target)
	require.NoError(t, err)
	assert.Equal(t, target, h.WorkingDir())

	u, err := h.RemoteURL("origin")
	require.NoError(t, err)
	assert.Equal(t, origin, u)

	vcstest.Commit(t, origin, "new.txt", "new", "upstream change")
	vcstest.Tag(t, origin, "v1.1")

	results, err := h.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "origin", results[0].Remote)
	require.NoError(t, results[0].Err)

	tags, err := h.Tags()
	require.NoError(t, err)
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	assert.Contains(t, names, "v1.1")

	results, err = h.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].UpToDate)
}

func TestCloneFailure(t *testing.T) {
	target := filepath.Join(t.TempDir(), "clone")
	_, err := vcs.Git{}.Clone(context.Background(), filepath.Join(t.TempDir(), "nowhere"), target)
	require.Error(t, err)
	assert.NoDirExists(t, target)
}
