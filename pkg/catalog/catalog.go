/*
 * Copyright © 2020 One Concern
 *
 */

// Package catalog resolves versioned catalogs to local directories.
//
// A catalog is either a clone of a git repository, where tags are versions,
// or a directory of versions downloaded from an archival service.
//
// A catalog opened with a version is pinned to that version for the duration of
// a scope, then restored to its previous state:
//
//	c, err := catalog.Open(def, dir, catalog.WithVersion("v1.0"))
//	if err != nil {
//		return err
//	}
//	err = c.With(func(c *catalog.Catalog) error {
//		// c.Dir() holds version v1.0
//		return nil
//	})
package catalog

import (
	"context"
	"iter"
	"path/filepath"

	"github.com/oneconcern/catalog/pkg/archive"
	"github.com/oneconcern/catalog/pkg/catalog/status"
	"github.com/oneconcern/catalog/pkg/cldf"
	"github.com/oneconcern/catalog/pkg/config"
	"github.com/oneconcern/catalog/pkg/registry"
	"github.com/oneconcern/catalog/pkg/repository"
	"github.com/oneconcern/catalog/pkg/version"
	"github.com/oneconcern/catalog/pkg/zenodo"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Backend holds the local copies of the versions of a catalog
type Backend interface {
	// Dir is the directory of the selected version
	Dir() string
	// URL of the origin of the catalog, empty when unknown
	URL() string
	// Versions available locally, unfiltered
	Versions() ([]string, error)
	// Describe the current state with a short label
	Describe() (string, error)
	// Update local copies from the origin, for some version or all of them
	Update(ctx context.Context, version string, logger *zap.Logger) error
	// JSONLD describes the catalog, suitable for inclusion in CLDF metadata
	JSONLD(dc map[string]string) map[string]interface{}
}

// pinner is a backend with a single mutable working state, like a git working copy
type pinner interface {
	ActiveBranch() (string, error)
	Describe() (string, error)
	Checkout(string) error
}

type annotator interface {
	Annotations() (map[string]string, error)
}

// Discoverer locates a dataset in a directory
type Discoverer interface {
	FirstDataset(dir string) (interface{}, error)
}

// type safeguards
var (
	_ Backend    = &repository.Repository{}
	_ Backend    = &archive.Backend{}
	_ pinner     = &repository.Repository{}
	_ annotator  = &repository.Repository{}
	_ Discoverer = &cldf.Discoverer{}
)

// VersionInfo is a version with its release notes, if any
type VersionInfo struct {
	Tag   string `json:"tag" yaml:"tag"`
	Notes string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Catalog is a catalog opened on a local directory
type Catalog struct {
	def        Definition
	backend    Backend
	version    string
	logger     *zap.Logger
	discoverer Discoverer

	pinned   bool
	previous string

	api      interface{}
	apiBuilt bool
}

// Open a catalog located at path.
//
// Catalogs with a concept DOI are archived catalogs. Other catalogs are git working copies.
func Open(def Definition, path string, opts ...Option) (*Catalog, error) {
	s := defaultSettings()
	for _, apply := range opts {
		apply(&s)
	}

	doi := s.doi
	if doi == "" {
		doi = def.DOI
	}

	var backend Backend
	if doi != "" {
		svc := s.service
		if svc == nil {
			svc = zenodo.New(zenodo.Fs(s.fs), zenodo.Logger(s.logger))
		}
		b, err := archive.Open(s.fs, path, s.version, doi, svc, archive.Logger(s.logger))
		if err != nil {
			return nil, err
		}
		backend = b
	} else {
		r, err := repository.Open(s.vcs, path,
			repository.Permissive(s.permissive),
			repository.Title(def.Description),
			repository.Logger(s.logger),
		)
		if err != nil {
			return nil, err
		}
		backend = r
	}
	return newCatalog(def, backend, s), nil
}

func newCatalog(def Definition, backend Backend, s settings) *Catalog {
	discoverer := s.discoverer
	if discoverer == nil {
		discoverer = cldf.NewDiscoverer(cldf.Fs(s.fs), cldf.Logger(s.logger))
	}
	return &Catalog{
		def:        def,
		backend:    backend,
		version:    s.version,
		logger:     s.logger,
		discoverer: discoverer,
	}
}

// Name of the catalog
func (c *Catalog) Name() string {
	return c.def.CanonicalName()
}

// Definition of the catalog
func (c *Catalog) Definition() Definition {
	return c.def
}

// Backend holding the catalog
func (c *Catalog) Backend() Backend {
	return c.backend
}

// Version requested when opening the catalog, if any
func (c *Catalog) Version() string {
	return c.version
}

// Pinned tells if the catalog is currently switched to the requested version
func (c *Catalog) Pinned() bool {
	return c.pinned
}

// Dir of the selected version
func (c *Catalog) Dir() string {
	return c.backend.Dir()
}

// URL of the origin
func (c *Catalog) URL() string {
	return c.backend.URL()
}

// Describe the current state of the catalog
func (c *Catalog) Describe() (string, error) {
	return c.backend.Describe()
}

// Update the local copy of the catalog
func (c *Catalog) Update(ctx context.Context, v string, logger *zap.Logger) error {
	if logger == nil {
		logger = c.logger
	}
	return c.backend.Update(ctx, v, logger)
}

// JSONLD describes the catalog
func (c *Catalog) JSONLD(dc map[string]string) map[string]interface{} {
	return c.backend.JSONLD(dc)
}

// Enter pins the catalog to the requested version, remembering the current state.
//
// This is a no-op when no version has been requested, or when the backend holds all versions
// side by side. Entering twice without Exit fails with status.ErrReentrancyViolation.
func (c *Catalog) Enter() error {
	if c.version == "" {
		return nil
	}
	p, ok := c.backend.(pinner)
	if !ok {
		return nil
	}
	if c.pinned {
		return status.ErrReentrancyViolation.Detail("%s is already pinned to %s", c.Dir(), c.version)
	}

	previous, err := p.ActiveBranch()
	if err != nil {
		return err
	}
	if previous == "" {
		// detached HEAD
		label, derr := p.Describe()
		if derr != nil {
			c.logger.Debug("cannot describe detached state, it will not be restored",
				zap.String("dir", c.Dir()), zap.Error(derr))
		}
		previous = label
	}

	if err = p.Checkout(c.version); err != nil {
		return err
	}
	c.pinned, c.previous = true, previous
	c.logger.Debug("pinned catalog",
		zap.String("catalog", c.Name()),
		zap.String("version", c.version),
		zap.String("previous", previous))
	return nil
}

// Exit restores the state remembered by Enter. The catalog is unpinned even when restoring fails.
func (c *Catalog) Exit() error {
	if !c.pinned {
		return nil
	}
	previous := c.previous
	c.pinned, c.previous = false, ""
	if previous == "" {
		return nil
	}
	p := c.backend.(pinner)
	if err := p.Checkout(previous); err != nil {
		return err
	}
	c.logger.Debug("restored catalog", zap.String("catalog", c.Name()), zap.String("ref", previous))
	return nil
}

// With runs fn with the catalog pinned to the requested version.
//
// The previous state is restored whatever the outcome of fn, including a panic.
func (c *Catalog) With(fn func(*Catalog) error) (err error) {
	if err = c.Enter(); err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, c.Exit())
	}()
	return fn(c)
}

// SupportedVersions of the catalog, most recent first
func (c *Catalog) SupportedVersions() ([]string, error) {
	tags, err := c.backend.Versions()
	if err != nil {
		return nil, err
	}
	return version.FilterAndSort(tags), nil
}

// IterVersions iterates over supported versions, most recent first, with their release notes.
//
// Every iteration reflects the current state of the backend.
func (c *Catalog) IterVersions() iter.Seq2[VersionInfo, error] {
	return func(yield func(VersionInfo, error) bool) {
		versions, err := c.SupportedVersions()
		if err != nil {
			yield(VersionInfo{}, err)
			return
		}
		var notes map[string]string
		if a, ok := c.backend.(annotator); ok {
			if notes, err = a.Annotations(); err != nil {
				yield(VersionInfo{}, err)
				return
			}
		}
		for _, v := range versions {
			if !yield(VersionInfo{Tag: v, Notes: notes[v]}, nil) {
				return
			}
		}
	}
}

// API of the catalog, built once on first use.
//
// Archived catalogs without declared API yield the first dataset found in their directory.
// The result is nil when there is no way to build an API.
func (c *Catalog) API() (interface{}, error) {
	if c.apiBuilt {
		return c.api, nil
	}

	var (
		api interface{}
		err error
	)
	_, pinnable := c.backend.(pinner)
	switch {
	case c.def.API != nil:
		api, err = c.def.API(c.Dir())
	case !pinnable && c.discoverer != nil:
		api, err = c.discoverer.FirstDataset(c.Dir())
	}
	if err != nil {
		return nil, err
	}
	c.api, c.apiBuilt = api, true
	return api, nil
}

// APIVersion is the version of the API declared for this catalog
func (c *Catalog) APIVersion() string {
	return c.def.APIVersion
}

// DefaultLocalPath is the default location of the clone of a catalog, in the user configuration directory
func DefaultLocalPath(name string) (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// CloneAndRegister clones the git repository of a catalog and records its location in the registry.
//
// An empty target stands for the default location. Nothing is registered if cloning fails.
func CloneAndRegister(ctx context.Context, def Definition, url, target string, opts ...Option) (*Catalog, error) {
	s := defaultSettings()
	for _, apply := range opts {
		apply(&s)
	}
	name := def.CanonicalName()
	if url == "" {
		url = def.URL
	}
	if target == "" {
		p, err := DefaultLocalPath(name)
		if err != nil {
			return nil, err
		}
		target = p
	}

	repo, err := repository.Clone(ctx, s.vcs, url, target,
		repository.Title(def.Description),
		repository.Logger(s.logger),
	)
	if err != nil {
		return nil, err
	}

	if err = registry.Update(s.fs, s.registryPath, func(r *registry.Registry) error {
		return r.Add(name, repo.Dir())
	}); err != nil {
		return nil, err
	}
	s.logger.Info("registered catalog", zap.String("catalog", name), zap.String("dir", repo.Dir()))
	return newCatalog(def, repo, s), nil
}

// OpenFromRegistry opens a catalog at the location recorded in the registry.
//
// An empty configPath stands for the registry set with WithRegistry, or else the default registry.
func OpenFromRegistry(def Definition, configPath string, opts ...Option) (*Catalog, error) {
	s := defaultSettings()
	for _, apply := range opts {
		apply(&s)
	}
	if configPath == "" {
		configPath = s.registryPath
	}
	r, err := registry.Load(s.fs, configPath)
	if err != nil {
		return nil, err
	}
	path, err := r.Get(def.CanonicalName())
	if err != nil {
		return nil, err
	}
	return Open(def, path, opts...)
}
