// Package git resolves the working-tree file set used by --changed-only
// runs. It uses go-git rather than shelling out, so the feature works
// without a git binary on PATH.
package git

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"

	"github.com/variantly/imgvariant/pkg/converter"
)

// Client answers which files under a directory differ from the committed
// state of the enclosing repository.
type Client struct {
	logger *slog.Logger
}

// NewClient creates a Client logging through the given handler.
func NewClient(loggerHandler slog.Handler) *Client {
	if loggerHandler == nil {
		loggerHandler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	logger := slog.New(loggerHandler).With(slog.String("component", "gitClient"))
	return &Client{logger: logger}
}

// ChangedFiles returns the set of files under inputPath that are modified,
// staged, or untracked relative to HEAD. Keys are slash-separated paths
// relative to inputPath, matching the walker's relative-path convention.
// Untracked files count as changed: a newly added image has no variants
// yet and is exactly what an incremental run must pick up.
func (c *Client) ChangedFiles(inputPath string) (map[string]struct{}, error) {
	absInput, err := filepath.Abs(inputPath)
	if err != nil {
		return nil, fmt.Errorf("%w: resolving input path '%s': %v", converter.ErrGitOperation, inputPath, err)
	}

	repo, err := gogit.PlainOpenWithOptions(absInput, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w: no repository found at or above '%s'", converter.ErrGitOperation, absInput)
		}
		return nil, fmt.Errorf("%w: opening repository for '%s': %v", converter.ErrGitOperation, absInput, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("%w: getting worktree: %v", converter.ErrGitOperation, err)
	}

	status, err := worktree.Status()
	if err != nil {
		return nil, fmt.Errorf("%w: reading worktree status: %v", converter.ErrGitOperation, err)
	}

	repoRoot := worktree.Filesystem.Root()
	changed := make(map[string]struct{})
	for repoRelPath, fileStatus := range status {
		if fileStatus.Staging == gogit.Unmodified && fileStatus.Worktree == gogit.Unmodified {
			continue
		}
		absPath := filepath.Join(repoRoot, filepath.FromSlash(repoRelPath))
		relPath, err := filepath.Rel(absInput, absPath)
		if err != nil || strings.HasPrefix(relPath, "..") {
			// Changed, but outside the scanned directory.
			continue
		}
		changed[filepath.ToSlash(relPath)] = struct{}{}
	}

	c.logger.Debug("Resolved changed files from worktree status",
		slog.String("repoRoot", repoRoot),
		slog.Int("count", len(changed)))
	return changed, nil
}
