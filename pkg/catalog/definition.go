package catalog

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/oneconcern/catalog/pkg/catalog/status"
	"github.com/oneconcern/catalog/pkg/config"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v2"
)

// APIFunc builds the programmatic API of a catalog from the directory of the selected version
type APIFunc func(dir string) (interface{}, error)

// Definition declares a catalog: how it is named, where it comes from and how to access its data.
type Definition struct {
	// Name is the short name used on the command line and as key in the registry
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	// TypeName names the catalog when no short name is declared
	TypeName    string `json:"type,omitempty" yaml:"type,omitempty"`
	URL         string `json:"url,omitempty" yaml:"url,omitempty"`
	DOI         string `json:"doi,omitempty" yaml:"doi,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	APIVersion  string `json:"api_version,omitempty" yaml:"api_version,omitempty"`

	API APIFunc `json:"-" yaml:"-"`
}

// CanonicalName of the catalog: its declared name, or else its lowercased type name
func (d Definition) CanonicalName() string {
	if d.Name != "" {
		return d.Name
	}
	return strings.ToLower(d.TypeName)
}

// Validate a catalog definition
func (d Definition) Validate() error {
	name := d.CanonicalName()
	if name == "" {
		return status.ErrInvalidDefinition.Detail("empty field: catalog name is empty")
	}
	for _, c := range name {
		if !unicode.IsDigit(c) && !unicode.IsLetter(c) && !unicode.Is(unicode.Hyphen, c) {
			return status.ErrInvalidDefinition.Detail("invalid name: catalog name:%s contains unsupported character %q", name, string(c))
		}
	}
	if d.DOI != "" && !strings.HasPrefix(strings.TrimPrefix(d.DOI, "https://doi.org/"), "10.") {
		return status.ErrInvalidDefinition.Detail("catalog %s: invalid DOI %q", name, d.DOI)
	}
	return nil
}

type definitionsFile struct {
	Catalogs []Definition `yaml:"catalogs"`
}

// LoadDefinitions reads catalog definitions from a YAML file like:
//
//	catalogs:
//	  - name: glottolog
//	    url: https://github.com/glottolog/glottolog
//	  - name: wals
//	    doi: 10.5281/zenodo.3260727
//
// An empty path stands for the default location. A missing file declares no catalog.
func LoadDefinitions(fs afero.Fs, path string) ([]Definition, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if path == "" {
		p, err := config.DefinitionsPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	raw, err := afero.ReadFile(fs, path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var file definitionsFile
	if err = yaml.Unmarshal(raw, &file); err != nil {
		return nil, status.ErrInvalidDefinition.Detail("%s", path).Wrap(err)
	}
	seen := make(map[string]bool, len(file.Catalogs))
	for _, def := range file.Catalogs {
		if err = def.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		name := def.CanonicalName()
		if seen[name] {
			return nil, status.ErrInvalidDefinition.Detail("%s: duplicate catalog %s", path, name)
		}
		seen[name] = true
	}
	return file.Catalogs, nil
}

// Lookup a definition by canonical name
func Lookup(defs []Definition, name string) (Definition, bool) {
	for _, def := range defs {
		if def.CanonicalName() == name {
			return def, true
		}
	}
	return Definition{}, false
}
