package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/yargevad/filepathx"
)

// readmeNames are tried in order when looking for an existing README.
var readmeNames = []string{"README.md", "readme.md", "Readme.md", "README.markdown", "README"}

// RepoSnapshot is what a checkout tells us about a repository beyond the
// REST API: its README and which files sit where.
type RepoSnapshot struct {
	Readme     *string
	RootFiles  []string
	Manifests  []string
	HeadCommit string
}

type GitService struct {
	// CloneDepth limits fetched history; 0 clones everything.
	CloneDepth int
	// TempDir is where checkouts are made; empty means os.TempDir.
	TempDir string
}

func NewGitService() *GitService {
	return &GitService{CloneDepth: 1}
}

// ShallowClone clones branch of url into path, fetching CloneDepth commits.
// An empty branch means the remote HEAD.
func (g *GitService) ShallowClone(ctx context.Context, url, branch, token, path string) (*git.Repository, error) {
	if url == "" {
		return nil, fmt.Errorf("clone url cannot be empty")
	}
	if path == "" {
		return nil, fmt.Errorf("clone path cannot be empty")
	}

	opts := &git.CloneOptions{
		URL:          url,
		Depth:        g.CloneDepth,
		SingleBranch: true,
		Tags:         git.NoTags,
	}
	if branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(branch)
	}
	if token != "" {
		opts.Auth = &githttp.BasicAuth{Username: "x-access-token", Password: token}
	}

	repo, err := git.PlainCloneContext(ctx, path, false, opts)
	if err != nil {
		return nil, err
	}
	return repo, nil
}

// Inspect clones url into a throwaway directory and snapshots it. The
// checkout is removed before returning.
func (g *GitService) Inspect(ctx context.Context, url, branch, token string) (*RepoSnapshot, error) {
	dir, err := os.MkdirTemp(g.TempDir, "rmgen-clone-")
	if err != nil {
		return nil, fmt.Errorf("create clone dir: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			log.Printf("git: failed to remove %s: %v", dir, rmErr)
		}
	}()

	if _, err := g.ShallowClone(ctx, url, branch, token, dir); err != nil {
		return nil, fmt.Errorf("clone %s: %w", url, err)
	}
	return g.Snapshot(dir)
}

// Snapshot reads the README, root listing and nested manifests of the
// worktree at dir.
func (g *GitService) Snapshot(dir string) (*RepoSnapshot, error) {
	if dir == "" {
		return nil, fmt.Errorf("repository path cannot be empty")
	}
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return nil, fmt.Errorf("not a valid git repository: %w", err)
	}

	snap := &RepoSnapshot{}
	if ref, err := repo.Head(); err == nil {
		snap.HeadCommit = ref.Hash().String()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	for _, e := range entries {
		if e.Name() == ".git" {
			continue
		}
		snap.RootFiles = append(snap.RootFiles, e.Name())
	}

	for _, name := range readmeNames {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		readme := string(data)
		snap.Readme = &readme
		break
	}

	manifests, err := g.findManifests(dir)
	if err != nil {
		return nil, err
	}
	snap.Manifests = manifests
	return snap, nil
}

// findManifests returns the slash-separated paths, relative to dir, of
// build manifests below the root.
func (g *GitService) findManifests(dir string) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, name := range manifestNames() {
		matches, err := filepathx.Glob(filepath.Join(dir, "**", name))
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", name, err)
		}
		for _, m := range matches {
			rel, err := filepath.Rel(dir, m)
			if err != nil {
				continue
			}
			rel = filepath.ToSlash(rel)
			if !strings.Contains(rel, "/") || strings.HasPrefix(rel, ".git/") || strings.Contains(rel, "node_modules/") {
				continue
			}
			if !seen[rel] {
				seen[rel] = true
				out = append(out, rel)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}
