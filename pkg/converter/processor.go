package converter

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// TargetResult is the recorded outcome for one output format of one file.
type TargetResult struct {
	InputPath  string `json:"inputPath"`
	OutputPath string `json:"outputPath"`
	Format     Format `json:"format"`
	Status     Status `json:"status"`
	SkipReason string `json:"skipReason,omitempty"`
	Error      string `json:"error,omitempty"`
	DurationMs int64  `json:"durationMs,omitempty"`
	SizeBytes  int64  `json:"sizeBytes,omitempty"`
}

// FileResult groups the per-format outcomes of one discovered file.
type FileResult struct {
	Path    string         `json:"path"`
	Targets []TargetResult `json:"targets"`
}

// FileProcessor converts one file at a time. It holds no per-file state, so
// a single instance is shared by all workers.
type FileProcessor struct {
	opts   *Options
	tools  Toolset
	runner CommandRunner
	hooks  Hooks
	logger *slog.Logger
}

// NewFileProcessor creates a processor bound to the resolved toolset.
func NewFileProcessor(opts *Options, handler slog.Handler, tools Toolset, runner CommandRunner) *FileProcessor {
	return &FileProcessor{
		opts:   opts,
		tools:  tools,
		runner: runner,
		hooks:  opts.EventHooks,
		logger: slog.New(handler).With(slog.String("component", "processor")),
	}
}

// ProcessFile converts one input file to both target formats under the
// skip/force policy. Failures are captured in the result, never returned:
// one file or format failing must not disturb the rest of the batch.
func (p *FileProcessor) ProcessFile(ctx context.Context, absPath, relPath string) FileResult {
	plan := BuildPlan(absPath, relPath, p.opts.Force)

	result := FileResult{Path: relPath, Targets: make([]TargetResult, 0, len(plan.Targets))}
	for _, target := range plan.Targets {
		result.Targets = append(result.Targets, p.processTarget(ctx, plan, target))
	}
	return result
}

func (p *FileProcessor) processTarget(ctx context.Context, plan FilePlan, target TargetPlan) TargetResult {
	res := TargetResult{
		InputPath:  plan.InputPath,
		OutputPath: target.OutputPath,
		Format:     target.Format,
	}
	label := plan.TargetLabel(target)

	if !target.Generate {
		res.Status = StatusSkipped
		res.SkipReason = target.SkipReason
		p.logger.Debug("Target up to date, skipping",
			slog.String("output", target.OutputPath))
		p.notify(label, StatusSkipped, target.SkipReason, 0)
		return res
	}

	if !p.tools.CanEncode(target.Format) {
		// Silent per spec: the only diagnostic for missing encoders is
		// the startup warning.
		res.Status = StatusSkipped
		res.SkipReason = SkipReasonNoEncoder
		p.notify(label, StatusSkipped, SkipReasonNoEncoder, 0)
		return res
	}

	p.notify(label, StatusProcessing, "", 0)

	name, args := p.encoderCommand(target.Format, plan.InputPath, target.OutputPath)
	start := time.Now()
	cmdRes, err := p.runner.Run(ctx, name, args...)
	res.DurationMs = time.Since(start).Milliseconds()

	if err != nil {
		msg := err.Error()
		if tail := stderrTail(cmdRes.Stderr); tail != "" {
			msg = tail
		}
		p.logger.Warn("Conversion failed, continuing with batch",
			slog.String("file", plan.RelPath),
			slog.String("format", string(target.Format)),
			slog.String("tool", name),
			slog.Int("exitCode", cmdRes.ExitCode),
			slog.String("error", msg))
		res.Status = StatusFailed
		res.Error = msg
		p.notify(label, StatusFailed, msg, time.Duration(res.DurationMs)*time.Millisecond)
		return res
	}

	if fi, statErr := os.Stat(target.OutputPath); statErr == nil {
		res.SizeBytes = fi.Size()
	}
	res.Status = StatusGenerated
	p.logger.Debug("Target generated",
		slog.String("output", target.OutputPath),
		slog.Int64("bytes", res.SizeBytes),
		slog.Int64("durationMs", res.DurationMs))
	p.notify(label, StatusGenerated, "", time.Duration(res.DurationMs)*time.Millisecond)
	return res
}

// encoderCommand builds the external invocation for one target. The
// unified converter wins when present; otherwise each format uses its
// specialized encoder. Callers must have checked CanEncode first.
func (p *FileProcessor) encoderCommand(format Format, input, output string) (string, []string) {
	q := strconv.Itoa(p.opts.quality(format))
	if p.tools.Magick {
		// Output format is inferred from the output extension.
		return ToolMagick, []string{input, "-quality", q, output}
	}
	if format == FormatWebP {
		return ToolCWebP, []string{"-q", q, input, "-o", output}
	}
	// avifenc maps quality onto its quantizer scale; the same value is
	// used for both bounds.
	return ToolAvifEnc, []string{"--min", q, "--max", q, input, output}
}

func (p *FileProcessor) notify(label string, status Status, message string, d time.Duration) {
	if err := p.hooks.OnFileStatusUpdate(label, status, message, d); err != nil {
		p.logger.Warn("OnFileStatusUpdate hook failed",
			slog.String("path", label), slog.String("error", err.Error()))
	}
}

// stderrTail returns the last non-empty stderr line, which for the
// supported encoders carries the actual failure cause.
func stderrTail(stderr string) string {
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return ""
}
