// Package hooks bridges converter events to the CLI's presentation layer:
// the Bubble Tea TUI on interactive terminals, a progress bar when the TUI
// is disabled, or plain logging otherwise.
package hooks

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/variantly/imgvariant/pkg/converter"
)

// FileDiscoveredMsg signals that the walker found an eligible input file.
type FileDiscoveredMsg struct{ Path string }

// FileStatusUpdateMsg signals a per-target state change.
type FileStatusUpdateMsg struct {
	Path     string
	Status   converter.Status
	Message  string
	Duration time.Duration
}

// RunCompleteMsg carries the final report to the TUI.
type RunCompleteMsg struct{ Report converter.Report }

// TUIProgram is the slice of *tea.Program the hooks need.
type TUIProgram interface {
	Send(msg tea.Msg)
}

// ProgressBar is the slice of *progressbar.ProgressBar the hooks need.
type ProgressBar interface {
	Add(num int) error
	Describe(description string)
	Close() error
}

// CLIHooks implements converter.Hooks. Exactly one of the presentation
// targets is active per run; the others are nil.
type CLIHooks struct {
	logger      *slog.Logger
	verbose     bool
	tuiProgram  TUIProgram
	progressBar ProgressBar
	mu          sync.Mutex
}

// NewCLIHooks creates hooks routing to the given TUI program or progress
// bar. Both may be nil, in which case only failures are logged.
func NewCLIHooks(logger *slog.Logger, verbose bool, tuiProg TUIProgram, progBar ProgressBar) *CLIHooks {
	return &CLIHooks{
		logger:      logger,
		verbose:     verbose,
		tuiProgram:  tuiProg,
		progressBar: progBar,
	}
}

// OnFileDiscovered implements converter.Hooks.
func (h *CLIHooks) OnFileDiscovered(path string) error {
	if h.tuiProgram != nil {
		h.tuiProgram.Send(FileDiscoveredMsg{Path: path})
	} else if h.verbose {
		h.logger.Debug("File discovered", slog.String("path", path))
	}
	return nil
}

// OnFileStatusUpdate implements converter.Hooks. Called concurrently by
// worker goroutines.
func (h *CLIHooks) OnFileStatusUpdate(path string, status converter.Status, message string, duration time.Duration) error {
	if h.tuiProgram != nil {
		h.tuiProgram.Send(FileStatusUpdateMsg{
			Path:     path,
			Status:   status,
			Message:  message,
			Duration: duration,
		})
		return nil
	}

	if h.progressBar != nil && isFinal(status) {
		h.mu.Lock()
		_ = h.progressBar.Add(1)
		h.mu.Unlock()
	}

	// Failures surface on stderr in every mode except the TUI, which
	// renders them itself.
	if status == converter.StatusFailed {
		h.logger.Warn("Conversion failed", slog.String("target", path), slog.String("error", message))
		return nil
	}

	if h.verbose {
		attrs := []any{slog.String("target", path), slog.String("status", string(status))}
		if duration > 0 {
			attrs = append(attrs, slog.Duration("duration", duration))
		}
		if message != "" {
			attrs = append(attrs, slog.String("message", message))
		}
		h.logger.Debug("Target status updated", attrs...)
	}
	return nil
}

// OnRunComplete implements converter.Hooks.
func (h *CLIHooks) OnRunComplete(report converter.Report) error {
	if h.tuiProgram != nil {
		h.tuiProgram.Send(RunCompleteMsg{Report: report})
		return nil
	}
	if h.progressBar != nil {
		h.mu.Lock()
		_ = h.progressBar.Close()
		h.mu.Unlock()
		// Keep the shell prompt off the finished bar's line.
		fmt.Fprintln(os.Stderr)
	}
	return nil
}

func isFinal(status converter.Status) bool {
	switch status {
	case converter.StatusGenerated, converter.StatusFailed, converter.StatusSkipped:
		return true
	}
	return false
}
