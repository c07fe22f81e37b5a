// Package status exports errors produced by the catalog packages.
//
// NOTE: such constants are located in a separate package to avoid
// creating undue cyclical dependencies between pkg/catalog and its backends.
package status

import (
	"github.com/oneconcern/catalog/pkg/errors"
)

var (
	// ErrInvalidRepository indicates that a path does not exist or is not a valid git working copy
	ErrInvalidRepository = errors.New("invalid git repository")

	// ErrUnsupportedOperation indicates a capability invoked on a plain directory opened in permissive mode
	ErrUnsupportedOperation = errors.New("operation not supported on a plain directory")

	// ErrVersionUnavailable indicates that a requested version has not been downloaded locally
	ErrVersionUnavailable = errors.New("version not available locally")

	// ErrCheckoutFailed indicates that switching the working copy to some reference failed
	ErrCheckoutFailed = errors.New("checkout failed")

	// ErrCloneFailed indicates that cloning a remote repository failed
	ErrCloneFailed = errors.New("clone failed")

	// ErrUnknownCatalog indicates that a catalog has no entry in the local registry
	ErrUnknownCatalog = errors.New("unknown catalog")

	// ErrPreconditionViolation indicates that an operation was called in a state which does not permit it
	ErrPreconditionViolation = errors.New("precondition violation")

	// ErrReentrancyViolation indicates that a catalog was pinned while already pinned
	ErrReentrancyViolation = errors.New("catalog is already pinned to a version")

	// ErrDownloadFailed indicates that a version could not be downloaded from the archival service
	ErrDownloadFailed = errors.New("download failed")

	// ErrFetchFailed indicates that a remote could not be fetched
	ErrFetchFailed = errors.New("fetch failed")

	// ErrInvalidRegistry indicates a registry file which cannot be parsed
	ErrInvalidRegistry = errors.New("invalid registry file")

	// ErrInvalidDefinition indicates a catalog definition with missing or malformed fields
	ErrInvalidDefinition = errors.New("invalid catalog definition")
)
