package catalog

import (
	"github.com/oneconcern/catalog/pkg/archive"
	"github.com/oneconcern/catalog/pkg/vcs"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Option is a functor to open a catalog with some options
type Option func(*settings)

type settings struct {
	version      string
	doi          string
	logger       *zap.Logger
	vcs          vcs.Client
	service      archive.Service
	fs           afero.Fs
	permissive   bool
	discoverer   Discoverer
	registryPath string
}

func defaultSettings() settings {
	return settings{
		logger: zap.NewNop(),
		fs:     afero.NewOsFs(),
	}
}

// WithVersion requests a version of the catalog
func WithVersion(v string) Option {
	return func(s *settings) {
		s.version = v
	}
}

// WithDOI sets the concept DOI of an archived catalog, overriding the one of the definition
func WithDOI(doi string) Option {
	return func(s *settings) {
		s.doi = doi
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithVCS sets the version control client for catalogs held in git repositories. It defaults to go-git.
func WithVCS(c vcs.Client) Option {
	return func(s *settings) {
		s.vcs = c
	}
}

// WithArchiveService sets the archival service for archived catalogs. It defaults to Zenodo.
func WithArchiveService(svc archive.Service) Option {
	return func(s *settings) {
		s.service = svc
	}
}

// WithFs sets the file system holding archived catalogs and the registry
func WithFs(fs afero.Fs) Option {
	return func(s *settings) {
		if fs != nil {
			s.fs = fs
		}
	}
}

// WithPermissive accepts plain directories in place of git working copies
func WithPermissive(enabled bool) Option {
	return func(s *settings) {
		s.permissive = enabled
	}
}

// WithDiscovery sets the dataset discovery for archived catalogs without API. It defaults to CLDF datasets.
func WithDiscovery(d Discoverer) Option {
	return func(s *settings) {
		s.discoverer = d
	}
}

// WithRegistry sets the location of the registry file
func WithRegistry(path string) Option {
	return func(s *settings) {
		s.registryPath = path
	}
}
