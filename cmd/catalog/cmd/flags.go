package cmd

import (
	"github.com/oneconcern/catalog/pkg/dlogger"
	"github.com/spf13/cobra"
)

const (
	registryKey = "registry"
	catalogsKey = "catalogs"
	logLevelKey = "loglevel"
)

type flagsT struct {
	root struct {
		logLevel string
		registry string
		catalogs string
	}
	catalog struct {
		version    string
		doi        string
		path       string
		target     string
		permissive bool
	}
	output struct {
		format string
	}
	upgrade upgradeFlags
}

var catalogFlags = flagsT{}

func addLogLevelFlag(cmd *cobra.Command) string {
	cmd.PersistentFlags().StringVar(&catalogFlags.root.logLevel, logLevelKey, dlogger.LogLevelInfo,
		`The logging level. Levels by increasing order of verbosity: none, error, warn, info, debug`)
	return logLevelKey
}

func addRegistryFlag(cmd *cobra.Command) string {
	cmd.PersistentFlags().StringVar(&catalogFlags.root.registry, registryKey, "",
		"The registry of local clones. Defaults to catalog.ini in the user configuration directory")
	return registryKey
}

func addCatalogsFlag(cmd *cobra.Command) string {
	cmd.PersistentFlags().StringVar(&catalogFlags.root.catalogs, catalogsKey, "",
		"The YAML file declaring known catalogs. Defaults to catalogs.yaml in the user configuration directory")
	return catalogsKey
}

func addVersionFlag(cmd *cobra.Command) string {
	v := "version"
	cmd.Flags().StringVar(&catalogFlags.catalog.version, v, "", "The version of the catalog, e.g. v1.0")
	return v
}

func addDOIFlag(cmd *cobra.Command) string {
	doi := "doi"
	cmd.Flags().StringVar(&catalogFlags.catalog.doi, doi, "",
		"The concept DOI of a catalog archived on Zenodo, overriding its declared DOI")
	return doi
}

func addPathFlag(cmd *cobra.Command) string {
	path := "path"
	cmd.Flags().StringVar(&catalogFlags.catalog.path, path, "",
		"The local directory of the catalog. Defaults to the location recorded in the registry")
	return path
}

func addTargetFlag(cmd *cobra.Command) string {
	target := "target"
	cmd.Flags().StringVar(&catalogFlags.catalog.target, target, "",
		"The directory to clone into. Defaults to a directory named after the catalog in the user configuration directory")
	return target
}

func addPermissiveFlag(cmd *cobra.Command) string {
	permissive := "permissive"
	cmd.Flags().BoolVar(&catalogFlags.catalog.permissive, permissive, false,
		"Accept a plain directory in place of a git working copy")
	return permissive
}

func addUpgradeCheckOnlyFlag(cmd *cobra.Command) string {
	c := "check-version"
	cmd.Flags().BoolVar(&catalogFlags.upgrade.checkOnly, c, false, "Checks if a new version is available but does not upgrade")
	return c
}

func addUpgradeForceFlag(cmd *cobra.Command) string {
	c := "force"
	cmd.Flags().BoolVar(&catalogFlags.upgrade.forceUpgrade, c, false, "Forces upgrade even if the current version is not a released version")
	return c
}
