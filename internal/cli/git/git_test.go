package git

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/variantly/imgvariant/pkg/converter"
)

func testClient() *Client {
	return NewClient(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// initRepo creates a repository with the given files committed and returns
// its root and worktree.
func initRepo(t *testing.T, files ...string) (string, *gogit.Worktree) {
	t.Helper()
	root := t.TempDir()
	repo, err := gogit.PlainInit(root, false)
	require.NoError(t, err)
	worktree, err := repo.Worktree()
	require.NoError(t, err)

	for _, f := range files {
		writeFile(t, root, f, "v1 of "+f)
		_, err = worktree.Add(filepath.ToSlash(f))
		require.NoError(t, err)
	}
	_, err = worktree.Commit("initial", &gogit.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return root, worktree
}

func TestChangedFilesCleanTree(t *testing.T) {
	root, _ := initRepo(t, "assets/logo.png", "assets/photo.jpg")

	changed, err := testClient().ChangedFiles(filepath.Join(root, "assets"))

	require.NoError(t, err)
	assert.Empty(t, changed)
}

func TestChangedFilesDetectsModificationsAndAdditions(t *testing.T) {
	root, worktree := initRepo(t, "assets/logo.png", "assets/photo.jpg", "README.md")

	// Modify one committed file, stage another change, add a new file.
	writeFile(t, root, "assets/logo.png", "v2")
	writeFile(t, root, "assets/photo.jpg", "v2")
	_, err := worktree.Add("assets/photo.jpg")
	require.NoError(t, err)
	writeFile(t, root, "assets/new.png", "brand new")

	changed, err := testClient().ChangedFiles(filepath.Join(root, "assets"))

	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{
		"logo.png":  {},
		"photo.jpg": {},
		"new.png":   {},
	}, changed)
}

func TestChangedFilesExcludesPathsOutsideInput(t *testing.T) {
	root, _ := initRepo(t, "assets/logo.png", "docs/readme.md")

	writeFile(t, root, "docs/readme.md", "v2")
	writeFile(t, root, "assets/logo.png", "v2")

	changed, err := testClient().ChangedFiles(filepath.Join(root, "assets"))

	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{"logo.png": {}}, changed)
}

func TestChangedFilesNestedPathsStaySlashRelative(t *testing.T) {
	root, _ := initRepo(t, "assets/img/deep/a.png")

	writeFile(t, root, "assets/img/deep/a.png", "v2")

	changed, err := testClient().ChangedFiles(filepath.Join(root, "assets"))

	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{"img/deep/a.png": {}}, changed)
}

func TestChangedFilesNoRepository(t *testing.T) {
	dir := t.TempDir()

	_, err := testClient().ChangedFiles(dir)

	require.Error(t, err)
	assert.ErrorIs(t, err, converter.ErrGitOperation)
}
