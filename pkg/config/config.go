// Package config locates the per-user configuration directory of the catalog tools.
//
// The location is discovered from the environment at every call and is never cached.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// AppName is the name of the configuration directory under the user config dir
	AppName = "catalog"

	// DirEnv overrides the configuration directory
	DirEnv = "CATALOG_CONFIG_DIR"

	// RegistryFile is the name of the local registry of clones
	RegistryFile = "catalog.ini"

	// DefinitionsFile is the name of the file declaring known catalogs
	DefinitionsFile = "catalogs.yaml"
)

// Dir yields the configuration directory, and creates it on first use.
func Dir() (string, error) {
	dir, err := dir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating config directory %q: %w", dir, err)
	}
	return dir, nil
}

func dir() (string, error) {
	if d := os.Getenv(DirEnv); d != "" {
		return filepath.Abs(d)
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating user config directory: %w", err)
	}
	return filepath.Join(base, AppName), nil
}

// RegistryPath is the default location of the local registry
func RegistryPath() (string, error) {
	return inDir(RegistryFile)
}

// DefinitionsPath is the default location of the catalog definitions
func DefinitionsPath() (string, error) {
	return inDir(DefinitionsFile)
}

func inDir(name string) (string, error) {
	d, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, name), nil
}
