/*
 * Copyright © 2020 One Concern
 *
 */

// Package repository exposes a git working copy holding a catalog,
// following the facade pattern over a small portion of the vcs primitives.
package repository

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/oneconcern/catalog/pkg/catalog/status"
	"github.com/oneconcern/catalog/pkg/dlogger"
	"github.com/oneconcern/catalog/pkg/vcs"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const originRemote = "origin"

var githubRex = regexp.MustCompile(`github\.com/(?P<org>[^/]+)/(?P<repo>[^.]+)`)

// Repository is a (clone of a) git repository.
//
// A Repository opened in permissive mode on a plain directory has no handle:
// all version control operations then fail with status.ErrUnsupportedOperation.
type Repository struct {
	handle vcs.Handle
	dir    string
	url    string
	urlSet bool
	title  string
	logger *zap.Logger
}

// Open a working copy
func Open(client vcs.Client, path string, opts ...Option) (*Repository, error) {
	settings := defaultSettings()
	for _, apply := range opts {
		apply(&settings)
	}
	if client == nil {
		client = vcs.Git{}
	}

	handle, err := client.Open(path)
	if err == nil {
		return &Repository{
			handle: handle,
			dir:    handle.WorkingDir(),
			title:  settings.title,
			logger: settings.logger,
		}, nil
	}
	if !settings.permissive {
		return nil, status.ErrInvalidRepository.Detail("%s", path).Wrap(err)
	}

	fi, serr := os.Stat(path)
	if serr != nil || !fi.IsDir() {
		return nil, status.ErrInvalidRepository.Detail("%s", path).Wrap(err)
	}
	abs, aerr := filepath.Abs(path)
	if aerr != nil {
		return nil, aerr
	}
	settings.logger.Debug("opening plain directory", zap.String("dir", abs), zap.Error(err))
	return &Repository{dir: abs, title: settings.title, logger: settings.logger}, nil
}

// Clone a remote repository into target, which must not exist yet while its parent must exist.
func Clone(ctx context.Context, client vcs.Client, remote, target string, opts ...Option) (*Repository, error) {
	if _, err := os.Stat(target); err == nil {
		return nil, status.ErrPreconditionViolation.Detail("clone target %s already exists", target)
	}
	parent := filepath.Dir(target)
	fi, err := os.Stat(parent)
	if err != nil || !fi.IsDir() {
		return nil, status.ErrPreconditionViolation.Detail("parent directory of clone target %s does not exist", target)
	}
	if client == nil {
		client = vcs.Git{}
	}

	if _, err := client.Clone(ctx, remote, target); err != nil {
		return nil, status.ErrCloneFailed.Detail("%s", remote).Wrap(err)
	}
	return Open(client, target, opts...)
}

// Dir is the root of the working copy
func (r *Repository) Dir() string {
	return r.dir
}

// Plain tells if this repository has been opened as a plain directory
func (r *Repository) Plain() bool {
	return r.handle == nil
}

// URL of the remote called origin, without credentials and without any ".git" suffix.
//
// It is empty when no such remote is configured. Since the origin is not expected to change,
// the result is cached.
func (r *Repository) URL() string {
	if r.urlSet || r.handle == nil {
		return r.url
	}
	raw, err := r.handle.RemoteURL(originRemote)
	if err != nil {
		r.logger.Debug("cannot determine remote url", zap.String("dir", r.dir), zap.Error(err))
		return ""
	}
	r.url = canonicalURL(raw)
	r.urlSet = true
	return r.url
}

func canonicalURL(raw string) string {
	if raw == "" {
		return ""
	}
	res := raw
	if u, err := url.Parse(raw); err == nil && u.Scheme != "" && u.Host != "" {
		u.User = nil
		res = u.String()
	}
	return strings.TrimSuffix(res, ".git")
}

// GitHubRepo yields the repository name in the form "ORG/REPO", or an empty string if the URL is not on GitHub
func (r *Repository) GitHubRepo() string {
	m := githubRex.FindStringSubmatch(r.URL())
	if m == nil {
		return ""
	}
	return m[1] + "/" + m[2]
}

// ActiveBranch yields the name of the active branch. It is empty when HEAD is detached.
func (r *Repository) ActiveBranch() (string, error) {
	if r.handle == nil {
		return "", status.ErrUnsupportedOperation.Detail("active branch of %s", r.dir)
	}
	return r.handle.ActiveBranch()
}

// Versions lists all tags of the repository, unfiltered. A tag can be checked out.
func (r *Repository) Versions() ([]string, error) {
	tags, err := r.tags()
	if err != nil {
		return nil, err
	}
	res := make([]string, len(tags))
	for i, tag := range tags {
		res[i] = tag.Name
	}
	return res, nil
}

// Annotations maps every tag to the first line of its message, like "git tag -n"
func (r *Repository) Annotations() (map[string]string, error) {
	tags, err := r.tags()
	if err != nil {
		return nil, err
	}
	res := make(map[string]string, len(tags))
	for _, tag := range tags {
		res[tag.Name] = tag.Message
	}
	return res, nil
}

func (r *Repository) tags() ([]vcs.Tag, error) {
	if r.handle == nil {
		return nil, status.ErrUnsupportedOperation.Detail("tags of %s", r.dir)
	}
	return r.handle.Tags()
}

// Checkout a branch, a tag or a commit-like reference
func (r *Repository) Checkout(ref string) error {
	if r.handle == nil {
		return status.ErrUnsupportedOperation.Detail("checkout %s in %s", ref, r.dir)
	}
	if err := r.handle.Checkout(ref); err != nil {
		return status.ErrCheckoutFailed.Detail("%s in %s", ref, r.dir).Wrap(err)
	}
	r.logger.Debug("checked out", zap.String("dir", r.dir), zap.String("ref", ref))
	return nil
}

// IsDirty tells if the working copy has uncommitted changes
func (r *Repository) IsDirty() (bool, error) {
	if r.handle == nil {
		return false, status.ErrUnsupportedOperation.Detail("status of %s", r.dir)
	}
	return r.handle.IsDirty()
}

// Describe the current state: the exact tag, or the nearest tag followed by the distance and the abbreviated hash
func (r *Repository) Describe() (string, error) {
	if r.handle == nil {
		return "", status.ErrUnsupportedOperation.Detail("describe %s", r.dir)
	}
	return r.handle.Describe()
}

// Hash yields the abbreviated commit hash at the end of Describe
func (r *Repository) Hash() (string, error) {
	d, err := r.Describe()
	if err != nil {
		return "", err
	}
	if i := strings.LastIndex(d, "-g"); i >= 0 {
		return d[i+2:], nil
	}
	return d, nil
}

// FetchAll runs a fetch for each remote. A failing remote does not prevent fetching the others.
func (r *Repository) FetchAll(ctx context.Context) ([]vcs.FetchResult, error) {
	if r.handle == nil {
		return nil, status.ErrUnsupportedOperation.Detail("fetch %s", r.dir)
	}
	return r.handle.FetchAll(ctx)
}

// Update fetches new versions from all remotes.
//
// The version argument is ignored: fetching a remote retrieves all its tags.
func (r *Repository) Update(ctx context.Context, _ string, logger *zap.Logger) error {
	logger = dlogger.OrNop(logger)
	results, err := r.FetchAll(ctx)
	if err != nil {
		return err
	}
	var merr error
	for _, res := range results {
		if res.Err != nil {
			logger.Warn("fetch failed", zap.String("remote", res.Remote), zap.Error(res.Err))
			merr = multierr.Append(merr, status.ErrFetchFailed.Detail("remote %s", res.Remote).Wrap(res.Err))
			continue
		}
		logger.Info("fetched", zap.String("remote", res.Remote), zap.Bool("up-to-date", res.UpToDate))
	}
	return merr
}

// JSONLD describes the repository in JSON-LD, suitable for inclusion in CLDF metadata
func (r *Repository) JSONLD(dc map[string]string) map[string]interface{} {
	about := r.URL()
	if about == "" {
		about = filepath.Base(r.dir)
	}
	res := map[string]interface{}{
		"rdf:about": about,
		"rdf:type":  "prov:Entity",
	}
	if r.title != "" {
		res["dc:title"] = r.title
	}
	if r.handle != nil {
		if d, err := r.Describe(); err == nil {
			res["dc:created"] = d
		}
	}
	for k, v := range dc {
		res["dc:"+strings.TrimPrefix(k, "dc:")] = v
	}
	return res
}
