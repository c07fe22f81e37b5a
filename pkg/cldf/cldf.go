// Package cldf locates CLDF datasets in a directory tree.
//
// A CLDF dataset is described by a JSON metadata file, conventionally named
// <Module>-metadata.json, which declares conformance to the CLDF ontology.
package cldf

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const (
	// TermsURI prefixes every CLDF module declared in dc:conformsTo
	TermsURI = "http://cldf.clld.org/v1.0/terms.rdf#"

	// DefaultPattern matches metadata files at any depth
	DefaultPattern = "**/*-metadata.json"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Dataset is a CLDF dataset found on disk
type Dataset struct {
	// Path to the metadata file
	Path string
	// Module is the CLDF module, e.g. StructureDataset or Wordlist
	Module   string
	Title    string
	Metadata map[string]interface{}
}

// Dir holding the dataset
func (d *Dataset) Dir() string {
	return filepath.Dir(d.Path)
}

// Discoverer walks directories for CLDF metadata files
type Discoverer struct {
	fs      afero.Fs
	pattern string
	logger  *zap.Logger
}

// Option for the Discoverer
type Option func(*Discoverer)

// Fs sets the file system to walk
func Fs(fs afero.Fs) Option {
	return func(d *Discoverer) {
		if fs != nil {
			d.fs = fs
		}
	}
}

// Pattern restricts the metadata files considered, as a glob relative to the searched directory.
// "**" matches any number of directories.
func Pattern(glob string) Option {
	return func(d *Discoverer) {
		if glob != "" {
			d.pattern = glob
		}
	}
}

// Logger for the Discoverer
func Logger(l *zap.Logger) Option {
	return func(d *Discoverer) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDiscoverer builds a Discoverer on the OS file system by default
func NewDiscoverer(opts ...Option) *Discoverer {
	d := &Discoverer{
		fs:      afero.NewOsFs(),
		pattern: DefaultPattern,
		logger:  zap.NewNop(),
	}
	for _, apply := range opts {
		apply(d)
	}
	return d
}

// Datasets found under dir, in lexical order of their metadata path.
//
// Unreadable or non-CLDF JSON files are skipped. Hidden directories are not searched.
func (d *Discoverer) Datasets(dir string) ([]*Dataset, error) {
	var datasets []*Dataset
	err := afero.Walk(d.fs, dir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if p != dir && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		match, err := doublestar.Match(d.pattern, filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		if !match {
			return nil
		}
		ds, ok := d.load(p)
		if ok {
			datasets = append(datasets, ds)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(datasets, func(i, j int) bool { return datasets[i].Path < datasets[j].Path })
	return datasets, nil
}

// FirstDataset found under dir, or nil when there is none
func (d *Discoverer) FirstDataset(dir string) (interface{}, error) {
	datasets, err := d.Datasets(dir)
	if err != nil {
		return nil, err
	}
	if len(datasets) == 0 {
		return nil, nil
	}
	d.logger.Debug("found dataset", zap.String("path", datasets[0].Path), zap.String("module", datasets[0].Module))
	return datasets[0], nil
}

func (d *Discoverer) load(p string) (*Dataset, bool) {
	raw, err := afero.ReadFile(d.fs, p)
	if err != nil {
		d.logger.Debug("skipping unreadable metadata", zap.String("path", p), zap.Error(err))
		return nil, false
	}
	var md map[string]interface{}
	if err = json.Unmarshal(raw, &md); err != nil {
		d.logger.Debug("skipping invalid metadata", zap.String("path", p), zap.Error(err))
		return nil, false
	}
	module, ok := conformsTo(md["dc:conformsTo"])
	if !ok {
		return nil, false
	}
	ds := &Dataset{Path: p, Module: module, Metadata: md}
	if title, isString := md["dc:title"].(string); isString {
		ds.Title = title
	}
	return ds, true
}

// conformsTo accepts a single URI or a list of URIs
func conformsTo(v interface{}) (string, bool) {
	switch t := v.(type) {
	case string:
		if strings.HasPrefix(t, TermsURI) {
			return strings.TrimPrefix(t, TermsURI), true
		}
	case []interface{}:
		for _, item := range t {
			if module, ok := conformsTo(item); ok {
				return module, true
			}
		}
	}
	return "", false
}
