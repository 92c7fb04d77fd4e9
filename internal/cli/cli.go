// Package cli orchestrates a conversion run on behalf of the cobra
// command: it resolves the git-changed file set, picks a presentation mode
// for the terminal, invokes the converter library, and renders the result.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"github.com/variantly/imgvariant/internal/cli/git"
	"github.com/variantly/imgvariant/internal/cli/hooks"
	"github.com/variantly/imgvariant/internal/cli/ui"
	"github.com/variantly/imgvariant/pkg/converter"
	"github.com/variantly/imgvariant/pkg/util"
)

// Run executes a full conversion run with the given options. It returns an
// error only for fatal conditions (bad configuration, inaccessible input,
// git failures, cancellation); per-file conversion failures are reported
// and still yield a nil error so the process exits zero.
func Run(ctx context.Context, opts converter.Options, logger *slog.Logger) error {
	if opts.ChangedOnly {
		changed, err := git.NewClient(opts.Logger).ChangedFiles(opts.InputPath)
		if err != nil {
			return err
		}
		opts.ChangedFiles = changed
		logger.Info("Restricting run to git-changed files", slog.Int("count", len(changed)))
	}

	interactive := term.IsTerminal(int(os.Stderr.Fd()))
	useTUI := interactive && opts.TuiEnabled && !opts.Verbose && opts.OutputFormat == converter.OutputFormatText

	var report converter.Report
	var runErr error

	if useTUI {
		report, runErr = runWithTUI(ctx, opts)
	} else {
		var bar hooks.ProgressBar
		if interactive && opts.OutputFormat == converter.OutputFormatText && !opts.Verbose {
			bar = newProgressBar()
		}
		opts.EventHooks = hooks.NewCLIHooks(logger, opts.Verbose, nil, bar)
		report, runErr = converter.Generate(ctx, opts)
	}
	if runErr != nil {
		return runErr
	}

	switch opts.OutputFormat {
	case converter.OutputFormatJSON:
		if err := report.WriteJSON(os.Stdout); err != nil {
			return fmt.Errorf("failed to write JSON report: %w", err)
		}
	default:
		renderSummaryTable(os.Stdout, report)
	}

	if report.Summary.ErrorCount > 0 {
		logger.Warn("Run completed with conversion failures",
			slog.Int("failed", report.Summary.ErrorCount),
			slog.Int("generated", report.Summary.GeneratedCount))
	}
	return nil
}

// runWithTUI drives the Bubble Tea program in the foreground while the
// conversion runs in a goroutine. The program quits itself once the final
// report message has been delivered.
func runWithTUI(ctx context.Context, opts converter.Options) (converter.Report, error) {
	model := ui.NewModel(opts.AppVersion)
	program := tea.NewProgram(&model, tea.WithContext(ctx), tea.WithOutput(os.Stderr))

	logger := slog.New(opts.Logger)
	opts.EventHooks = hooks.NewCLIHooks(logger, opts.Verbose, program, nil)

	type outcome struct {
		report converter.Report
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		report, err := converter.Generate(ctx, opts)
		done <- outcome{report, err}
		// Leave the summary on screen briefly before tearing down.
		time.Sleep(150 * time.Millisecond)
		program.Quit()
	}()

	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		// A TUI failure (e.g. terminal torn away) should not kill the
		// conversion; fall through and wait for its outcome.
		logger.Warn("Interactive display terminated early", slog.Any("error", err))
	}

	res := <-done
	return res.report, res.err
}

// newProgressBar builds the non-TUI progress indicator. The total is
// unknown until the walk finishes, so the bar runs in spinner mode.
func newProgressBar() hooks.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("Converting"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionThrottle(65*time.Millisecond),
	)
}

// renderSummaryTable prints the human-readable run summary.
func renderSummaryTable(w *os.File, report converter.Report) {
	s := report.Summary

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRows([]table.Row{
		{"Files scanned", s.TotalFilesScanned},
		{"Variants generated", s.GeneratedCount},
		{"Up to date", s.UpToDateCount},
		{"No encoder", s.NoEncoderCount},
		{"Failed", s.ErrorCount},
		{"Bytes written", util.FormatBytes(s.BytesWritten)},
		{"Duration", fmt.Sprintf("%.2fs", s.DurationSeconds)},
	})
	t.AppendFooter(table.Row{"Encoders", s.ToolsDetected})
	t.Render()
}
