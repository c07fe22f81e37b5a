package vcstest

import (
	"context"

	"github.com/oneconcern/catalog/pkg/vcs"
)

// type safeguard
var (
	_ vcs.Handle = &HandleMock{}
	_ vcs.Client = &ClientMock{}
)

// ClientMock is a mock implementation of vcs.Client
type ClientMock struct {
	OpenFunc  func(path string) (vcs.Handle, error)
	CloneFunc func(ctx context.Context, url, target string) (vcs.Handle, error)

	CloneCalls []string
}

// Open calls OpenFunc
func (m *ClientMock) Open(path string) (vcs.Handle, error) {
	if m.OpenFunc == nil {
		panic("ClientMock.OpenFunc: method is nil but Client.Open was just called")
	}
	return m.OpenFunc(path)
}

// Clone calls CloneFunc
func (m *ClientMock) Clone(ctx context.Context, url, target string) (vcs.Handle, error) {
	if m.CloneFunc == nil {
		panic("ClientMock.CloneFunc: method is nil but Client.Clone was just called")
	}
	m.CloneCalls = append(m.CloneCalls, url)
	return m.CloneFunc(ctx, url, target)
}

// HandleMock is a mock implementation of vcs.Handle.
//
// Unset functions fall back to a benign default, so tests only set what they exercise.
type HandleMock struct {
	Dir              string
	ActiveBranchFunc func() (string, error)
	RemoteURLFunc    func(name string) (string, error)
	TagsFunc         func() ([]vcs.Tag, error)
	CheckoutFunc     func(ref string) error
	IsDirtyFunc      func() (bool, error)
	DescribeFunc     func() (string, error)
	FetchAllFunc     func(ctx context.Context) ([]vcs.FetchResult, error)

	CheckoutCalls []string
}

// WorkingDir yields Dir
func (m *HandleMock) WorkingDir() string { return m.Dir }

// ActiveBranch calls ActiveBranchFunc
func (m *HandleMock) ActiveBranch() (string, error) {
	if m.ActiveBranchFunc == nil {
		return "master", nil
	}
	return m.ActiveBranchFunc()
}

// RemoteURL calls RemoteURLFunc
func (m *HandleMock) RemoteURL(name string) (string, error) {
	if m.RemoteURLFunc == nil {
		return "", nil
	}
	return m.RemoteURLFunc(name)
}

// Tags calls TagsFunc
func (m *HandleMock) Tags() ([]vcs.Tag, error) {
	if m.TagsFunc == nil {
		return nil, nil
	}
	return m.TagsFunc()
}

// Checkout records the reference and calls CheckoutFunc
func (m *HandleMock) Checkout(ref string) error {
	m.CheckoutCalls = append(m.CheckoutCalls, ref)
	if m.CheckoutFunc == nil {
		return nil
	}
	return m.CheckoutFunc(ref)
}

// IsDirty calls IsDirtyFunc
func (m *HandleMock) IsDirty() (bool, error) {
	if m.IsDirtyFunc == nil {
		return false, nil
	}
	return m.IsDirtyFunc()
}

// Describe calls DescribeFunc
func (m *HandleMock) Describe() (string, error) {
	if m.DescribeFunc == nil {
		return "", nil
	}
	return m.DescribeFunc()
}

// FetchAll calls FetchAllFunc
func (m *HandleMock) FetchAll(ctx context.Context) ([]vcs.FetchResult, error) {
	if m.FetchAllFunc == nil {
		return nil, nil
	}
	return m.FetchAllFunc(ctx)
}
