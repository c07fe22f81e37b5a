// Package vcs defines the narrow set of version control primitives needed
// to resolve catalogs held in git working copies, and implements them with go-git.
package vcs

import "context"

// Client knows how to open and clone working copies
type Client interface {
	// Open an existing working copy
	Open(path string) (Handle, error)
	// Clone a remote repository into target
	Clone(ctx context.Context, url, target string) (Handle, error)
}

// Handle on a working copy
type Handle interface {
	// WorkingDir is the absolute path of the working copy root
	WorkingDir() string

	// ActiveBranch yields the name of the checked out branch.
	//
	// An empty name with a nil error means that HEAD is detached.
	ActiveBranch() (string, error)

	// RemoteURL yields the first URL of a remote, or an empty string if there is no such remote
	RemoteURL(name string) (string, error)

	// Tags lists all tags, with the first line of their message
	Tags() ([]Tag, error)

	// Checkout a branch, a tag or any commit-like reference
	Checkout(ref string) error

	// IsDirty tells if tracked files carry uncommitted changes
	IsDirty() (bool, error)

	// Describe the current state, like "git describe --always --tags"
	Describe() (string, error)

	// FetchAll fetches every configured remote, one result per remote
	FetchAll(ctx context.Context) ([]FetchResult, error)
}

// Tag in a repository
type Tag struct {
	Name    string
	Message string
}

// FetchResult is the outcome of fetching one remote
type FetchResult struct {
	Remote   string
	UpToDate bool
	Err      error
}
