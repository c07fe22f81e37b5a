package vcs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/oneconcern/catalog/pkg/version"
)

const abbrevLength = 7

var describeRex = regexp.MustCompile(`-[0-9]+-g([0-9a-f]{4,40})$`)

// type safeguard
var (
	_ Client = Git{}
	_ Handle = &gitHandle{}
)

// Git is a Client backed by go-git
type Git struct{}

// Open a working copy
func (Git) Open(path string) (Handle, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	repo, err := git.PlainOpen(abs)
	if err != nil {
		return nil, err
	}
	return &gitHandle{repo: repo, dir: abs}, nil
}

// Clone a remote repository. A partially cloned target is removed on failure.
func (Git) Clone(ctx context.Context, url, target string) (Handle, error) {
	abs, err := filepath.Abs(target)
	if err != nil {
		return nil, err
	}
	repo, err := git.PlainCloneContext(ctx, abs, false, &git.CloneOptions{URL: url, Tags: git.AllTags})
	if err != nil {
		_ = os.RemoveAll(abs)
		return nil, err
	}
	return &gitHandle{repo: repo, dir: abs}, nil
}

type gitHandle struct {
	repo *git.Repository
	dir  string
}

func (g *gitHandle) WorkingDir() string {
	return g.dir
}

func (g *gitHandle) ActiveBranch() (string, error) {
	head, err := g.repo.Reference(plumbing.HEAD, false)
	if err != nil {
		return "", err
	}
	if head.Type() == plumbing.SymbolicReference && head.Target().IsBranch() {
		return head.Target().Short(), nil
	}
	return "", nil
}

func (g *gitHandle) RemoteURL(name string) (string, error) {
	remote, err := g.repo.Remote(name)
	if err == git.ErrRemoteNotFound {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", nil
	}
	return urls[0], nil
}

func (g *gitHandle) Tags() ([]Tag, error) {
	iter, err := g.repo.Tags()
	if err != nil {
		return nil, err
	}
	var tags []Tag
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		tag := Tag{Name: ref.Name().Short()}
		if annotated, e := g.repo.TagObject(ref.Hash()); e == nil {
			tag.Message = firstLine(annotated.Message)
		} else if commit, e := g.repo.CommitObject(ref.Hash()); e == nil {
			tag.Message = firstLine(commit.Message)
		}
		tags = append(tags, tag)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
	return tags, nil
}

func (g *gitHandle) Checkout(ref string) error {
	wt, err := g.repo.Worktree()
	if err != nil {
		return err
	}
	branch := plumbing.NewBranchReferenceName(ref)
	if _, err = g.repo.Reference(branch, true); err == nil {
		return wt.Checkout(&git.CheckoutOptions{Branch: branch})
	}
	hash, err := g.resolve(ref)
	if err != nil {
		return err
	}
	return wt.Checkout(&git.CheckoutOptions{Hash: hash})
}

// resolve any revision, including labels produced by Describe
func (g *gitHandle) resolve(ref string) (plumbing.Hash, error) {
	hash, err := g.repo.ResolveRevision(plumbing.Revision(ref))
	if err == nil {
		return *hash, nil
	}
	if m := describeRex.FindStringSubmatch(ref); m != nil {
		if h, e := g.commitByPrefix(m[1]); e == nil {
			return h, nil
		}
	}
	return plumbing.ZeroHash, fmt.Errorf("cannot resolve reference %q: %w", ref, err)
}

func (g *gitHandle) commitByPrefix(prefix string) (plumbing.Hash, error) {
	iter, err := g.repo.CommitObjects()
	if err != nil {
		return plumbing.ZeroHash, err
	}
	var (
		found   plumbing.Hash
		matches int
	)
	err = iter.ForEach(func(c *object.Commit) error {
		if strings.HasPrefix(c.Hash.String(), prefix) {
			found = c.Hash
			matches++
		}
		return nil
	})
	if err != nil {
		return plumbing.ZeroHash, err
	}
	if matches != 1 {
		return plumbing.ZeroHash, fmt.Errorf("%d commits match the abbreviated hash %q", matches, prefix)
	}
	return found, nil
}

func (g *gitHandle) IsDirty() (bool, error) {
	wt, err := g.repo.Worktree()
	if err != nil {
		return false, err
	}
	st, err := wt.Status()
	if err != nil {
		return false, err
	}
	for _, fs := range st {
		if fs.Staging == git.Untracked && fs.Worktree == git.Untracked {
			continue
		}
		if fs.Staging != git.Unmodified || fs.Worktree != git.Unmodified {
			return true, nil
		}
	}
	return false, nil
}

func (g *gitHandle) Describe() (string, error) {
	head, err := g.repo.Head()
	if err != nil {
		return "", err
	}
	headCommit, err := g.repo.CommitObject(head.Hash())
	if err != nil {
		return "", err
	}
	tagged, err := g.taggedCommits()
	if err != nil {
		return "", err
	}

	var (
		nearest string
		target  *object.Commit
	)
	err = object.NewCommitIterBSF(headCommit, nil, nil).ForEach(func(c *object.Commit) error {
		if names, ok := tagged[c.Hash]; ok {
			nearest, target = names[0], c
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	short := head.Hash().String()[:abbrevLength]
	if target == nil {
		return short, nil
	}
	if target.Hash == head.Hash() {
		return nearest, nil
	}
	distance, err := g.distance(headCommit, target)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%d-g%s", nearest, distance, short), nil
}

// taggedCommits maps commits to the names of the tags pointing to them, preferred name first
func (g *gitHandle) taggedCommits() (map[plumbing.Hash][]string, error) {
	iter, err := g.repo.Tags()
	if err != nil {
		return nil, err
	}
	res := make(map[plumbing.Hash][]string)
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		hash := ref.Hash()
		if annotated, e := g.repo.TagObject(hash); e == nil {
			c, e := annotated.Commit()
			if e != nil {
				// tags on trees or blobs do not describe anything
				return nil
			}
			hash = c.Hash
		}
		res[hash] = append(res[hash], ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, names := range res {
		sort.Slice(names, func(i, j int) bool {
			if c := version.Compare(names[i], names[j]); c != 0 {
				return c > 0
			}
			return names[i] > names[j]
		})
	}
	return res, nil
}

// distance counts the commits reachable from head which are not reachable from base
func (g *gitHandle) distance(head, base *object.Commit) (int, error) {
	seen := make(map[plumbing.Hash]bool)
	if err := object.NewCommitPreorderIter(base, nil, nil).ForEach(func(c *object.Commit) error {
		seen[c.Hash] = true
		return nil
	}); err != nil {
		return 0, err
	}
	count := 0
	err := object.NewCommitPreorderIter(head, seen, nil).ForEach(func(c *object.Commit) error {
		if !seen[c.Hash] {
			count++
		}
		return nil
	})
	return count, err
}

func (g *gitHandle) FetchAll(ctx context.Context) ([]FetchResult, error) {
	remotes, err := g.repo.Remotes()
	if err != nil {
		return nil, err
	}
	results := make([]FetchResult, 0, len(remotes))
	for _, remote := range remotes {
		name := remote.Config().Name
		err := remote.FetchContext(ctx, &git.FetchOptions{RemoteName: name, Tags: git.AllTags})
		switch err {
		case nil:
			results = append(results, FetchResult{Remote: name})
		case git.NoErrAlreadyUpToDate:
			results = append(results, FetchResult{Remote: name, UpToDate: true})
		default:
			results = append(results, FetchResult{Remote: name, Err: err})
		}
	}
	return results, nil
}

func firstLine(msg string) string {
	msg = strings.TrimSpace(msg)
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		return strings.TrimSpace(msg[:i])
	}
	return msg
}
