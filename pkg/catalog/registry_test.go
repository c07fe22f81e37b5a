package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/oneconcern/catalog/pkg/catalog/status"
	"github.com/oneconcern/catalog/pkg/config"
	"github.com/oneconcern/catalog/pkg/registry"
	"github.com/oneconcern/catalog/pkg/vcs/vcstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func withConfigDir(t *testing.T) string {
	dir := filepath.Join(t.TempDir(), "config")
	t.Setenv(config.DirEnv, dir)
	return dir
}

func resolved(t *testing.T, p string) string {
	r, err := filepath.EvalSymlinks(p)
	require.NoError(t, err)
	return r
}

func TestDefaultLocalPath(t *testing.T) {
	dir := withConfigDir(t)
	p, err := DefaultLocalPath("glottolog")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "glottolog"), p)

	p, err = DefaultLocalPath(Definition{TypeName: "Concepticon"}.CanonicalName())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "concepticon"), p)
}

func TestCloneAndRegister(t *testing.T) {
	dir := withConfigDir(t)
	origin := vcstest.InitRepo(t, t.TempDir(), vcstest.Options{Tags: []string{"v1.0"}})

	c, err := CloneAndRegister(context.Background(), glottolog, origin, "", WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	assert.Equal(t, resolved(t, filepath.Join(dir, "glottolog")), resolved(t, c.Dir()))

	versions, err := c.SupportedVersions()
	require.NoError(t, err)
	assert.Equal(t, []string{"v1.0"}, versions)

	r, err := registry.Load(nil, "")
	require.NoError(t, err)
	registered, err := r.Get("glottolog")
	require.NoError(t, err)
	assert.Equal(t, resolved(t, c.Dir()), registered)

	reopened, err := OpenFromRegistry(glottolog, "", WithVersion("v1.0"))
	require.NoError(t, err)
	assert.Equal(t, registered, resolved(t, reopened.Dir()))
	require.NoError(t, reopened.With(func(c *Catalog) error {
		described, err := c.Describe()
		require.NoError(t, err)
		assert.Equal(t, "v1.0", described)
		return nil
	}))
}

func TestCloneAndRegisterExplicitTarget(t *testing.T) {
	withConfigDir(t)
	origin := vcstest.InitRepo(t, t.TempDir(), vcstest.Options{})
	reg := filepath.Join(t.TempDir(), "elsewhere", "catalog.ini")
	target := filepath.Join(t.TempDir(), "clone")

	c, err := CloneAndRegister(context.Background(), glottolog, origin, target, WithRegistry(reg))
	require.NoError(t, err)
	assert.Equal(t, target, c.Dir())

	_, err = OpenFromRegistry(glottolog, reg)
	require.NoError(t, err)
	_, err = OpenFromRegistry(glottolog, "", WithRegistry(reg))
	require.NoError(t, err)

	_, err = OpenFromRegistry(glottolog, "")
	assert.True(t, errors.Is(err, status.ErrUnknownCatalog), "the default registry is left untouched")
}

func TestCloneFailureDoesNotRegister(t *testing.T) {
	dir := withConfigDir(t)

	_, err := CloneAndRegister(context.Background(), glottolog, filepath.Join(t.TempDir(), "no-origin"), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrCloneFailed))

	_, err = os.Stat(filepath.Join(dir, config.RegistryFile))
	assert.True(t, os.IsNotExist(err))
}

func TestCloneIntoExistingTarget(t *testing.T) {
	withConfigDir(t)
	target := t.TempDir()

	_, err := CloneAndRegister(context.Background(), glottolog, "https://example.com/repo.git", target)
	assert.True(t, errors.Is(err, status.ErrPreconditionViolation))
}

func TestOpenFromRegistryUnknown(t *testing.T) {
	dir := withConfigDir(t)

	_, err := OpenFromRegistry(glottolog, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrUnknownCatalog))
	assert.Contains(t, err.Error(), "glottolog")
	assert.Contains(t, err.Error(), filepath.Join(dir, config.RegistryFile))
}
