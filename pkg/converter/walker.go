package converter

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/variantly/imgvariant/pkg/util"
)

// Walker traverses the input directory, applies the extension allow-list
// and filters, and dispatches eligible file paths to the worker pool.
type Walker struct {
	opts                 *Options
	workerChan           chan<- string
	hooks                Hooks
	logger               *slog.Logger
	dispatchWarnDuration time.Duration
}

// NewWalker creates a Walker that feeds workerChan.
func NewWalker(opts *Options, workerChan chan<- string, handler slog.Handler) *Walker {
	warn := opts.DispatchWarnThreshold
	if warn <= 0 {
		warn = time.Second
	}
	return &Walker{
		opts:                 opts,
		workerChan:           workerChan,
		hooks:                opts.EventHooks,
		logger:               slog.New(handler).With(slog.String("component", "walker")),
		dispatchWarnDuration: warn,
	}
}

// StartWalk traverses the input root and closes workerChan when done. A
// nonexistent root is not an error: it produces an empty run so the caller
// can report "no files found" and exit successfully. A root that exists but
// cannot be read is fatal.
func (w *Walker) StartWalk(ctx context.Context) error {
	defer close(w.workerChan)

	if _, err := os.Stat(w.opts.InputPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			w.logger.Info("Input directory does not exist, nothing to do",
				slog.String("path", w.opts.InputPath))
			return nil
		}
		return fmt.Errorf("%w: %s: %v", ErrInputInaccessible, w.opts.InputPath, err)
	}

	w.logger.Info("Starting directory walk", slog.String("path", w.opts.InputPath))
	walkErr := filepath.WalkDir(w.opts.InputPath, w.walkFunc(ctx))
	if walkErr != nil {
		if errors.Is(walkErr, context.Canceled) || errors.Is(walkErr, context.DeadlineExceeded) {
			w.logger.Info("Directory walk cancelled", slog.String("reason", walkErr.Error()))
			return walkErr
		}
		return fmt.Errorf("directory walk failed: %w", walkErr)
	}
	w.logger.Debug("Directory walk completed")
	return nil
}

func (w *Walker) walkFunc(ctx context.Context) fs.WalkDirFunc {
	return func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// The root itself being unreadable is fatal; anything below
			// it is logged and the walk continues.
			if path == w.opts.InputPath {
				return fmt.Errorf("%w: %s: %v", ErrInputInaccessible, path, err)
			}
			w.logger.Warn("Error accessing path during walk",
				slog.String("path", path), slog.String("error", err.Error()))
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if d.Type()&fs.ModeSymlink != 0 {
			w.logger.Debug("Skipping symbolic link", slog.String("path", path))
			return nil
		}

		relPath, relErr := filepath.Rel(w.opts.InputPath, path)
		if relErr != nil {
			w.logger.Warn("Could not calculate relative path",
				slog.String("path", path), slog.String("error", relErr.Error()))
			return nil
		}
		relPath = filepath.ToSlash(relPath)
		if relPath == "." {
			return nil
		}

		isDir := d.IsDir()
		if util.MatchesAny(w.opts.IgnorePatterns, relPath) {
			w.logger.Debug("Path ignored", slog.String("path", relPath), slog.Bool("isDir", isDir))
			if isDir {
				return filepath.SkipDir
			}
			return nil
		}
		if isDir {
			return nil
		}

		if !imageExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		if w.opts.ChangedOnly {
			if _, found := w.opts.ChangedFiles[relPath]; !found {
				w.logger.Debug("Path excluded by git diff", slog.String("path", relPath))
				return nil
			}
		}

		if hookErr := w.hooks.OnFileDiscovered(relPath); hookErr != nil {
			w.logger.Warn("OnFileDiscovered hook failed",
				slog.String("path", relPath), slog.String("error", hookErr.Error()))
		}

		return w.dispatch(ctx, path, relPath)
	}
}

// dispatch sends path to the worker channel, logging when workers cannot
// keep up within the warn threshold.
func (w *Walker) dispatch(ctx context.Context, absPath, relPath string) error {
	timer := time.NewTimer(w.dispatchWarnDuration)
	defer timer.Stop()

	select {
	case w.workerChan <- absPath:
		return nil
	case <-timer.C:
		w.logger.Warn("Worker channel dispatch blocked, workers busy",
			slog.String("path", relPath),
			slog.Duration("threshold", w.dispatchWarnDuration))
		select {
		case w.workerChan <- absPath:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}
