package zenodo

import (
	"archive/zip"
	"compress/gzip"
	"context"
	"crypto/md5" // #nosec: checksums are published as md5 by the service
	"encoding/hex"
	"fmt"
	"io"
	iofs "io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	units "github.com/docker/go-units"
	tarfs "github.com/nlepage/go-tarfs"
	"github.com/oneconcern/catalog/pkg/catalog/status"
	"github.com/segmentio/ksuid"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const (
	stagingSuffix  = ".partial"
	downloadSuffix = ".download"
)

// Download all files of a version of a concept into destination.
//
// Zip and tar.gz archives are extracted, dropping the single top-level folder
// the GitHub integration wraps releases in. Other files are copied as is.
func (c *Client) Download(ctx context.Context, concept, version, destination string, logger *zap.Logger) error {
	if logger == nil {
		logger = c.logger
	}
	exists, err := afero.Exists(c.fs, destination)
	if err != nil {
		return err
	}
	if exists {
		return status.ErrPreconditionViolation.Detail("destination %s already exists", destination)
	}

	rec, err := c.Record(ctx, concept, version)
	if err != nil {
		return err
	}
	if len(rec.Files) == 0 {
		return ErrAPI.Detail("record %d has no files", rec.ID)
	}

	staging, downloads, err := stagingDirs(destination)
	if err != nil {
		return err
	}
	for _, dir := range []string{staging, downloads} {
		if err = c.fs.RemoveAll(dir); err != nil {
			return err
		}
		if err = c.fs.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		defer func(d string) { _ = c.fs.RemoveAll(d) }(dir)
	}

	for _, f := range rec.Files {
		if err = ctx.Err(); err != nil {
			return err
		}
		local, err := c.fetch(ctx, rec, f, downloads, logger)
		if err != nil {
			return err
		}
		switch lower := strings.ToLower(f.Key); {
		case strings.HasSuffix(lower, ".zip"):
			err = c.extractZip(local, staging)
		case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
			err = c.extractTarGz(local, staging)
		default:
			err = c.fs.Rename(local, filepath.Join(staging, filepath.Base(local)))
		}
		if err != nil {
			return fmt.Errorf("unpacking %s: %w", f.Key, err)
		}
	}

	if err = moveTree(c.fs, staging, destination); err != nil {
		return err
	}
	logger.Info("downloaded version",
		zap.String("concept", concept),
		zap.String("version", version),
		zap.String("doi", rec.DOI),
		zap.String("destination", destination))
	return nil
}

// stagingDirs are hidden siblings of destination, unique to a single download
func stagingDirs(destination string) (string, string, error) {
	id, err := ksuid.NewRandom()
	if err != nil {
		return "", "", err
	}
	prefix := filepath.Join(filepath.Dir(destination), "."+filepath.Base(destination)+"-"+id.String())
	return prefix + stagingSuffix, prefix + downloadSuffix, nil
}

// fetch a single file into dir, verifying its checksum when published as md5
func (c *Client) fetch(ctx context.Context, rec Record, f File, dir string, logger *zap.Logger) (string, error) {
	source := f.Links.Self
	if source == "" {
		source = fmt.Sprintf("%s/api/records/%d/files/%s/content", c.baseURL, rec.ID, url.PathEscape(f.Key))
	}
	logger.Info("downloading file",
		zap.String("file", f.Key),
		zap.String("size", units.HumanSize(float64(f.Size))))

	body, err := c.get(ctx, source)
	if err != nil {
		return "", err
	}
	defer func() { _ = body.Close() }()

	local := filepath.Join(dir, filepath.Base(filepath.FromSlash(f.Key)))
	out, err := c.fs.OpenFile(local, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", err
	}
	hasher := md5.New() // #nosec
	n, err := io.Copy(io.MultiWriter(out, hasher), body)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", fmt.Errorf("downloading %s: %w", source, err)
	}

	if expected, ok := strings.CutPrefix(f.Checksum, "md5:"); ok {
		if actual := hex.EncodeToString(hasher.Sum(nil)); !strings.EqualFold(actual, expected) {
			return "", ErrChecksum.Detail("%s: expected %s, got %s", f.Key, expected, actual)
		}
	}
	logger.Debug("downloaded file", zap.String("file", f.Key), zap.String("size", units.HumanSize(float64(n))))
	return local, nil
}

func (c *Client) extractZip(archivePath, dest string) error {
	f, err := c.fs.Open(archivePath)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	zr, err := zip.NewReader(f, info.Size())
	if err != nil {
		return err
	}

	names := make([]string, 0, len(zr.File))
	for _, zf := range zr.File {
		names = append(names, zf.Name)
	}
	prefix := commonRoot(names)

	for _, zf := range zr.File {
		rel, err := entryPath(zf.Name, prefix)
		if err != nil {
			return err
		}
		if rel == "" {
			continue
		}
		target := filepath.Join(dest, rel)
		if zf.FileInfo().IsDir() {
			if err = c.fs.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}
		rc, err := zf.Open()
		if err != nil {
			return err
		}
		err = c.writeFile(target, rc, zf.Mode().Perm())
		_ = rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) extractTarGz(archivePath, dest string) error {
	f, err := c.fs.Open(archivePath)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return err
	}
	defer func() { _ = gz.Close() }()

	tfs, err := tarfs.New(gz)
	if err != nil {
		return err
	}

	var names []string
	err = iofs.WalkDir(tfs, ".", func(p string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			names = append(names, p)
		}
		return nil
	})
	if err != nil {
		return err
	}
	prefix := commonRoot(names)

	for _, name := range names {
		rel, err := entryPath(name, prefix)
		if err != nil {
			return err
		}
		if rel == "" {
			continue
		}
		src, err := tfs.Open(name)
		if err != nil {
			return err
		}
		err = c.writeFile(filepath.Join(dest, rel), src, 0o644)
		_ = src.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) writeFile(target string, r io.Reader, perm os.FileMode) error {
	if perm == 0 {
		perm = 0o644
	}
	if err := c.fs.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	out, err := c.fs.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	_, err = io.Copy(out, r)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return err
}

// commonRoot returns the top-level folder shared by all entries, with a trailing slash,
// or an empty string if entries are not all nested under the same folder
func commonRoot(names []string) string {
	if len(names) == 0 {
		return ""
	}
	first, _, nested := strings.Cut(names[0], "/")
	if !nested || first == "" {
		return ""
	}
	prefix := first + "/"
	for _, name := range names[1:] {
		if !strings.HasPrefix(name, prefix) {
			return ""
		}
	}
	return prefix
}

// entryPath yields the local relative path of an archive entry, rejecting entries escaping the destination
func entryPath(name, prefix string) (string, error) {
	rel := strings.TrimSuffix(strings.TrimPrefix(name, prefix), "/")
	if rel == "" {
		return "", nil
	}
	local := filepath.FromSlash(rel)
	if !filepath.IsLocal(local) {
		return "", fmt.Errorf("archive entry %q escapes destination", name)
	}
	return local, nil
}

// moveTree moves src to dst, in a single rename on the OS file system.
//
// Other file systems get the files moved one by one. A partially moved dst is removed.
func moveTree(fs afero.Fs, src, dst string) error {
	if _, isOS := fs.(*afero.OsFs); isOS {
		if err := fs.Rename(src, dst); err == nil {
			return nil
		}
	}
	if err := moveFiles(fs, src, dst); err != nil {
		_ = fs.RemoveAll(dst)
		return err
	}
	return fs.RemoveAll(src)
}

func moveFiles(fs afero.Fs, src, dst string) error {
	return afero.Walk(fs, src, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return fs.MkdirAll(target, 0o755)
		}
		return fs.Rename(p, target)
	})
}
