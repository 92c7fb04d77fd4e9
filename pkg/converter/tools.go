package converter

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"strings"
)

// LookPathFunc resolves an executable name on the search path. It matches
// the signature of exec.LookPath so tests can substitute a fake.
type LookPathFunc func(name string) (string, error)

// Toolset is the capability set of external encoders resolved once at
// startup and passed explicitly into the processor, so per-file conversion
// stays pure with respect to its inputs.
type Toolset struct {
	Magick  bool // unified converter, output format inferred from extension
	CWebP   bool // specialized WebP encoder
	AvifEnc bool // specialized AVIF encoder
}

// ProbeToolset checks which of the three encoders are resolvable. Pure
// query; no processes are spawned.
func ProbeToolset(lookPath LookPathFunc) Toolset {
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	found := func(name string) bool {
		_, err := lookPath(name)
		return err == nil
	}
	return Toolset{
		Magick:  found(ToolMagick),
		CWebP:   found(ToolCWebP),
		AvifEnc: found(ToolAvifEnc),
	}
}

// Any reports whether at least one encoder is available.
func (t Toolset) Any() bool { return t.Magick || t.CWebP || t.AvifEnc }

// CanEncode reports whether some available tool can produce the format.
func (t Toolset) CanEncode(f Format) bool {
	if t.Magick {
		return true
	}
	switch f {
	case FormatWebP:
		return t.CWebP
	case FormatAVIF:
		return t.AvifEnc
	}
	return false
}

// String renders the set for the startup log line.
func (t Toolset) String() string {
	var names []string
	if t.Magick {
		names = append(names, ToolMagick)
	}
	if t.CWebP {
		names = append(names, ToolCWebP)
	}
	if t.AvifEnc {
		names = append(names, ToolAvifEnc)
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}

// CommandResult holds the outcome of a single external invocation.
type CommandResult struct {
	ExitCode int
	Stderr   string
}

// CommandRunner is the single OS boundary of the library: every external
// encoder call goes through it, so tests can substitute a recorder instead
// of spawning processes.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (CommandResult, error)
}

// ExecRunner runs commands with os/exec, capturing stderr for diagnostics.
// Stdout is discarded; the encoders write their product to the output path.
type ExecRunner struct {
	logger *slog.Logger
}

// NewExecRunner creates the default CommandRunner.
func NewExecRunner(handler slog.Handler) *ExecRunner {
	return &ExecRunner{logger: slog.New(handler).With(slog.String("component", "runner"))}
}

// Run executes name with args and waits for it to exit. A non-zero exit is
// returned as an error alongside the captured stderr; the caller decides
// severity.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (CommandResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stderrBuf bytes.Buffer
	cmd.Stderr = &stderrBuf

	r.logger.Debug("Invoking external tool",
		slog.String("command", name),
		slog.String("args", strings.Join(args, " ")))

	err := cmd.Run()
	res := CommandResult{Stderr: stderrBuf.String()}
	if err != nil {
		res.ExitCode = -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		}
		return res, err
	}
	return res, nil
}
