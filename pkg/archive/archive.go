/*
 * Copyright © 2020 One Concern
 *
 */

// Package archive exposes a catalog distributed as archived, per-version downloads.
//
// Locally, an archived catalog is a directory holding one subdirectory per downloaded version:
//
//	<root>/
//	  v1.0/
//	  v1.1/
//
// Selecting a version amounts to picking a subdirectory. Downloaded versions are never modified.
package archive

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/oneconcern/catalog/pkg/catalog/status"
	"github.com/oneconcern/catalog/pkg/dlogger"
	"github.com/oneconcern/catalog/pkg/version"
	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const doiResolver = "https://doi.org/"

// Service is an archival service holding all versions of a dataset under a concept identifier
type Service interface {
	// Versions associated with the concept identifier, most recent first
	Versions(ctx context.Context, conceptID string) ([]string, error)
	// Download one version into destination, which must not exist yet
	Download(ctx context.Context, conceptID, version, destination string, logger *zap.Logger) error
}

// Backend for archived catalogs
type Backend struct {
	fs        afero.Fs
	root      string
	version   string
	conceptID string
	service   Service
	logger    *zap.Logger

	versions []string
	scanned  bool
}

// Open an archived catalog rooted at root.
//
// When a version is requested, it must have been downloaded already.
func Open(fs afero.Fs, root, requested, conceptID string, service Service, opts ...Option) (*Backend, error) {
	settings := defaultSettings()
	for _, apply := range opts {
		apply(&settings)
	}
	if fs == nil {
		fs = afero.NewOsFs()
	}
	b := &Backend{
		fs:        fs,
		root:      root,
		version:   requested,
		conceptID: conceptID,
		service:   service,
		logger:    settings.logger,
	}
	if requested == "" {
		return b, nil
	}
	versions, err := b.Versions()
	if err != nil {
		return nil, err
	}
	for _, v := range versions {
		if v == requested {
			return b, nil
		}
	}
	return nil, status.ErrVersionUnavailable.Detail("%s has not been downloaded into %s", requested, root)
}

// Root directory holding all downloaded versions
func (b *Backend) Root() string {
	return b.root
}

// ConceptID identifies all versions of the dataset on the archival service
func (b *Backend) ConceptID() string {
	return b.conceptID
}

// Dir is the directory of the requested version, or of the most recent downloaded version.
//
// When no version has been downloaded yet, this is the root directory.
func (b *Backend) Dir() string {
	if b.version != "" {
		return filepath.Join(b.root, b.version)
	}
	versions, err := b.Versions()
	if err != nil {
		b.logger.Debug("cannot scan downloaded versions", zap.String("root", b.root), zap.Error(err))
		return b.root
	}
	latest, ok := version.Latest(versions)
	if !ok {
		return b.root
	}
	return filepath.Join(b.root, latest)
}

// URL resolving the concept DOI
func (b *Backend) URL() string {
	if b.conceptID == "" {
		return ""
	}
	return doiResolver + strings.TrimPrefix(b.conceptID, doiResolver)
}

// Versions lists the downloaded versions, i.e. the subdirectories of the root named like a version tag.
//
// The root is scanned once: a Backend assumes its directory is stable for its lifetime.
// A missing root holds no version.
func (b *Backend) Versions() ([]string, error) {
	if b.scanned {
		return b.versions, nil
	}
	entries, err := afero.ReadDir(b.fs, b.root)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	versions := make([]string, 0, len(entries))
	for _, fi := range entries {
		if fi.IsDir() && version.IsTag(fi.Name()) {
			versions = append(versions, fi.Name())
		}
	}
	sort.Strings(versions)
	b.versions, b.scanned = versions, true
	return versions, nil
}

// Describe the selected version
func (b *Backend) Describe() (string, error) {
	return filepath.Base(b.Dir()), nil
}

// RemoteVersions available on the archival service, most recent first
func (b *Backend) RemoteVersions(ctx context.Context) ([]string, error) {
	if b.service == nil {
		return nil, status.ErrUnsupportedOperation.Detail("no archival service configured for %s", b.root)
	}
	versions, err := b.service.Versions(ctx, b.conceptID)
	if err != nil {
		return nil, err
	}
	return versions, nil
}

// Update downloads the versions available remotely, or only the requested one, unless already downloaded.
//
// A failed download does not prevent attempting the other versions: failures are reported together.
func (b *Backend) Update(ctx context.Context, requested string, logger *zap.Logger) error {
	logger = dlogger.OrNop(logger)
	remote, err := b.RemoteVersions(ctx)
	if err != nil {
		return err
	}
	if err := b.fs.MkdirAll(b.root, 0o755); err != nil {
		return err
	}

	var merr error
	for _, v := range remote {
		if requested != "" && v != requested {
			continue
		}
		out := filepath.Join(b.root, v)
		exists, err := afero.Exists(b.fs, out)
		if err != nil {
			merr = multierr.Append(merr, err)
			continue
		}
		if exists {
			logger.Debug("version already downloaded", zap.String("version", v), zap.String("dir", out))
			continue
		}
		logger.Info("downloading", zap.String("concept", b.conceptID), zap.String("version", v))
		if err := b.service.Download(ctx, b.conceptID, v, out, logger); err != nil {
			logger.Warn("download failed", zap.String("version", v), zap.Error(err))
			merr = multierr.Append(merr, status.ErrDownloadFailed.Detail("version %s", v).Wrap(err))
		}
	}
	return merr
}

// JSONLD describes the archived catalog, suitable for inclusion in CLDF metadata
func (b *Backend) JSONLD(dc map[string]string) map[string]interface{} {
	res := make(map[string]interface{}, len(dc))
	for k, v := range dc {
		res["dc:"+strings.TrimPrefix(k, "dc:")] = v
	}
	return res
}
