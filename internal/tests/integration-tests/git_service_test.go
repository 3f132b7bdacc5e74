package integration_tests

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rmgen/internal/services"
)

// newSourceRepo creates a committed repository with a README, a root
// manifest and a nested one.
func newSourceRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	files := map[string]string{
		"README.md":                "# Sample\n\nHello.\n",
		"go.mod":                   "module sample\n",
		"web/package.json":         "{}\n",
		"web/node_modules/x/go.mod": "module x\n",
	}
	w, err := repo.Worktree()
	require.NoError(t, err)
	for name, body := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0644))
		_, err = w.Add(name)
		require.NoError(t, err)
	}
	_, err = w.Commit("initial commit", &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Test",
			Email: "test@example.com",
		},
	})
	require.NoError(t, err)
	return dir
}

func TestGitService_Snapshot(t *testing.T) {
	gs := services.NewGitService()
	dir := newSourceRepo(t)

	snap, err := gs.Snapshot(dir)
	require.NoError(t, err)

	require.NotNil(t, snap.Readme)
	assert.Equal(t, "# Sample\n\nHello.\n", *snap.Readme)
	assert.ElementsMatch(t, []string{"README.md", "go.mod", "web"}, snap.RootFiles)
	assert.Equal(t, []string{"web/package.json"}, snap.Manifests)
	assert.Len(t, snap.HeadCommit, 40)
}

func TestGitService_SnapshotRejectsPlainDirectory(t *testing.T) {
	gs := services.NewGitService()
	_, err := gs.Snapshot(t.TempDir())
	assert.Error(t, err)
}

func TestGitService_InspectClonesAndCleansUp(t *testing.T) {
	gs := services.NewGitService()
	// Local transports do not negotiate shallow fetches.
	gs.CloneDepth = 0
	gs.TempDir = t.TempDir()
	source := newSourceRepo(t)

	snap, err := gs.Inspect(context.Background(), source, "", "")
	require.NoError(t, err)

	require.NotNil(t, snap.Readme)
	assert.Contains(t, *snap.Readme, "# Sample")
	assert.Contains(t, snap.RootFiles, "go.mod")

	leftovers, err := os.ReadDir(gs.TempDir)
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestGitService_ShallowCloneValidatesArguments(t *testing.T) {
	gs := services.NewGitService()
	_, err := gs.ShallowClone(context.Background(), "", "", "", t.TempDir())
	assert.EqualError(t, err, "clone url cannot be empty")
	_, err = gs.ShallowClone(context.Background(), "https://example.com/x.git", "", "", "")
	assert.EqualError(t, err, "clone path cannot be empty")
}
