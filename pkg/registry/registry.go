// Package registry persists the mapping of catalog names to local clone directories.
//
// The registry is an INI file (catalog.ini in the user configuration directory by default)
// holding a single "clones" section. There is no file lock: concurrent writers may
// overwrite each other's changes.
package registry

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"

	"github.com/oneconcern/catalog/pkg/catalog/status"
	"github.com/oneconcern/catalog/pkg/config"
	"github.com/spf13/afero"
	"gopkg.in/ini.v1"
)

// Section of the INI file holding registered clones
const Section = "clones"

// Registry of local clones
type Registry struct {
	fs   afero.Fs
	path string
	cfg  *ini.File
}

// DefaultPath of the registry file, in the user configuration directory
func DefaultPath() (string, error) {
	return config.RegistryPath()
}

// Load a registry. An empty path stands for the default location.
//
// A missing file yields an empty registry: the file is created on Save.
func Load(fs afero.Fs, path string) (*Registry, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	r := &Registry{fs: fs, path: path}
	raw, err := afero.ReadFile(fs, path)
	switch {
	case os.IsNotExist(err):
		r.cfg = ini.Empty()
	case err != nil:
		return nil, err
	default:
		if r.cfg, err = ini.Load(raw); err != nil {
			return nil, status.ErrInvalidRegistry.Detail("%s", path).Wrap(err)
		}
	}
	return r, nil
}

// Update loads a registry, applies fn and saves the result. Nothing is saved if fn fails.
func Update(fs afero.Fs, path string, fn func(*Registry) error) error {
	r, err := Load(fs, path)
	if err != nil {
		return err
	}
	if err = fn(r); err != nil {
		return err
	}
	return r.Save()
}

// Path of the registry file
func (r *Registry) Path() string {
	return r.path
}

// Add or replace a clone. The path is made absolute, with symbolic links resolved.
func (r *Registry) Add(name, path string) error {
	if name == "" {
		return status.ErrPreconditionViolation.Detail("empty catalog name")
	}
	resolved, err := r.resolve(path)
	if err != nil {
		return err
	}
	r.cfg.Section(Section).Key(name).SetValue(resolved)
	return nil
}

// Get the local path registered for a catalog
func (r *Registry) Get(name string) (string, error) {
	if !r.cfg.HasSection(Section) || !r.cfg.Section(Section).HasKey(name) {
		return "", status.ErrUnknownCatalog.Detail("no key %q in section [%s] of %s", name, Section, r.path)
	}
	return r.cfg.Section(Section).Key(name).String(), nil
}

// Names of all registered catalogs, sorted
func (r *Registry) Names() []string {
	if !r.cfg.HasSection(Section) {
		return nil
	}
	names := r.cfg.Section(Section).KeyStrings()
	sort.Strings(names)
	return names
}

// List all registered clones
func (r *Registry) List() map[string]string {
	res := make(map[string]string)
	if !r.cfg.HasSection(Section) {
		return res
	}
	for _, k := range r.cfg.Section(Section).Keys() {
		res[k.Name()] = k.String()
	}
	return res
}

// Remove a clone from the registry. The local directory is left untouched.
func (r *Registry) Remove(name string) error {
	if _, err := r.Get(name); err != nil {
		return err
	}
	r.cfg.Section(Section).DeleteKey(name)
	return nil
}

// Save the registry, creating its parent directory when missing
func (r *Registry) Save() error {
	if err := r.fs.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return err
	}
	var buf bytes.Buffer
	if _, err := r.cfg.WriteTo(&buf); err != nil {
		return err
	}
	return afero.WriteFile(r.fs, r.path, buf.Bytes(), 0o644)
}

func (r *Registry) resolve(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if _, isOS := r.fs.(*afero.OsFs); !isOS {
		return abs, nil
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return abs, nil
		}
		return "", err
	}
	return resolved, nil
}
