package converter

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testHandler() slog.Handler {
	return slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug})
}

// statusEvent records one OnFileStatusUpdate call.
type statusEvent struct {
	Path    string
	Status  Status
	Message string
}

// mockHooks records every hook invocation. Safe for concurrent use.
type mockHooks struct {
	mu         sync.Mutex
	discovered []string
	updates    []statusEvent
	report     *Report
}

func (h *mockHooks) OnFileDiscovered(path string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.discovered = append(h.discovered, path)
	return nil
}

func (h *mockHooks) OnFileStatusUpdate(path string, status Status, message string, _ time.Duration) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.updates = append(h.updates, statusEvent{Path: path, Status: status, Message: message})
	return nil
}

func (h *mockHooks) OnRunComplete(report Report) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.report = &report
	return nil
}

func (h *mockHooks) discoveredPaths() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.discovered...)
}

func (h *mockHooks) statusEvents() []statusEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]statusEvent(nil), h.updates...)
}

// invocation is one recorded external command.
type invocation struct {
	Name string
	Args []string
}

// fakeRunner records invocations instead of spawning encoders. When
// writeOutput is set, it creates the output file (the final argument) the
// way a real encoder would. failMatching makes invocations whose input
// path contains the substring fail.
type fakeRunner struct {
	mu           sync.Mutex
	calls        []invocation
	writeOutput  bool
	failMatching string
	stderr       string
}

func (r *fakeRunner) Run(_ context.Context, name string, args ...string) (CommandResult, error) {
	r.mu.Lock()
	r.calls = append(r.calls, invocation{Name: name, Args: append([]string(nil), args...)})
	r.mu.Unlock()

	if r.failMatching != "" {
		for _, a := range args {
			if filepath.Base(a) == r.failMatching {
				return CommandResult{ExitCode: 1, Stderr: r.stderr}, fmt.Errorf("exit status 1")
			}
		}
	}
	if r.writeOutput && len(args) > 0 {
		out := args[len(args)-1]
		if err := os.WriteFile(out, []byte("encoded"), 0o644); err != nil {
			return CommandResult{ExitCode: 1}, err
		}
	}
	return CommandResult{}, nil
}

func (r *fakeRunner) invocations() []invocation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]invocation(nil), r.calls...)
}

// writeTestImage creates a placeholder input file and returns its path.
func writeTestImage(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("image-bytes"), 0o644))
	return path
}
