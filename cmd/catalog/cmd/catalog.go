package cmd

import (
	"github.com/oneconcern/catalog/pkg/catalog"
	"github.com/oneconcern/catalog/pkg/dlogger"
	"go.uber.org/zap"
)

func newLogger() *zap.Logger {
	level := dlogger.LogLevelInfo
	if cliConfig != nil && cliConfig.LogLevel != "" {
		level = cliConfig.LogLevel
	}
	l, err := dlogger.GetLoggerWithFormat(level, dlogger.FormatConsole)
	if err != nil {
		wrapFatalln("create logger", err)
		return zap.NewNop()
	}
	return l
}

func registryPath() string {
	if cliConfig == nil {
		return ""
	}
	return cliConfig.Registry
}

// definitionFor a catalog: the declared definition if any, or else a bare definition with that name
func definitionFor(name string) (catalog.Definition, error) {
	var catalogs string
	if cliConfig != nil {
		catalogs = cliConfig.Catalogs
	}
	defs, err := catalog.LoadDefinitions(nil, catalogs)
	if err != nil {
		return catalog.Definition{}, err
	}
	if def, ok := catalog.Lookup(defs, name); ok {
		return def, nil
	}
	def := catalog.Definition{Name: name}
	return def, def.Validate()
}

func catalogOptions(logger *zap.Logger, pinned bool) []catalog.Option {
	opts := []catalog.Option{
		catalog.WithLogger(logger),
		catalog.WithRegistry(registryPath()),
		catalog.WithPermissive(catalogFlags.catalog.permissive),
	}
	if pinned && catalogFlags.catalog.version != "" {
		opts = append(opts, catalog.WithVersion(catalogFlags.catalog.version))
	}
	if catalogFlags.catalog.doi != "" {
		opts = append(opts, catalog.WithDOI(catalogFlags.catalog.doi))
	}
	return opts
}

// openCatalog by name, from an explicit path or else from the registry.
//
// When pinned, the catalog is opened for the version set with the version flag.
func openCatalog(name string, logger *zap.Logger, pinned bool) (*catalog.Catalog, error) {
	def, err := definitionFor(name)
	if err != nil {
		return nil, err
	}
	opts := catalogOptions(logger, pinned)
	if catalogFlags.catalog.path != "" {
		return catalog.Open(def, catalogFlags.catalog.path, opts...)
	}
	return catalog.OpenFromRegistry(def, registryPath(), opts...)
}
