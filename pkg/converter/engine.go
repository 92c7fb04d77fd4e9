package converter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Engine orchestrates one conversion run: tool probing, directory walking,
// the worker pool, and report aggregation.
type Engine struct {
	opts        *Options
	logger      *slog.Logger
	tools       Toolset
	runner      CommandRunner
	processor   *FileProcessor
	aggregator  *reportAggregator
	runID       string
	concurrency int
}

// NewEngine validates options, resolves the encoder toolset, and prepares a
// run. A missing toolset is a warning, not an error: the run proceeds and
// skips every needed target.
func NewEngine(opts Options) (*Engine, error) {
	if opts.EventHooks == nil {
		opts.EventHooks = &NoOpHooks{}
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	logger := slog.New(opts.Logger).With(slog.String("component", "engine"))

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
		opts.Concurrency = concurrency
		logger.Debug("Concurrency auto-detected", slog.Int("count", concurrency))
	}

	runner := opts.Runner
	if runner == nil {
		runner = NewExecRunner(opts.Logger)
	}

	var tools Toolset
	if opts.Tools != nil {
		tools = *opts.Tools
	} else {
		tools = ProbeToolset(opts.LookPath)
	}
	if tools.Any() {
		logger.Info("Conversion tools detected", slog.String("tools", tools.String()))
	} else {
		logger.Warn(ErrNoEncoders.Error() + "; all conversions will be skipped")
	}

	return &Engine{
		opts:        &opts,
		logger:      logger,
		tools:       tools,
		runner:      runner,
		processor:   NewFileProcessor(&opts, opts.Logger, tools, runner),
		aggregator:  newReportAggregator(),
		runID:       uuid.NewString(),
		concurrency: concurrency,
	}, nil
}

// Run executes the batch. Per-file and per-format failures are recorded in
// the report; the returned error is non-nil only for fatal conditions (an
// unreadable input root or cancellation).
func (e *Engine) Run(ctx context.Context) (Report, error) {
	startTime := time.Now()
	e.logger.Info("Starting conversion run",
		slog.String("input", e.opts.InputPath),
		slog.Int("concurrency", e.concurrency),
		slog.Int("qualityWebp", e.opts.QualityWebP),
		slog.Int("qualityAvif", e.opts.QualityAVIF),
		slog.Bool("force", e.opts.Force))

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	workerChan := make(chan string, e.concurrency)
	var wg sync.WaitGroup
	for i := 0; i < e.concurrency; i++ {
		wg.Add(1)
		go e.worker(runCtx, &wg, workerChan)
	}

	walker := NewWalker(e.opts, workerChan, e.opts.Logger)
	walkErr := walker.StartWalk(runCtx)
	wg.Wait()

	report := e.aggregator.getReport(e.opts, e.runID, e.tools, startTime)

	var finalErr error
	switch {
	case walkErr != nil && (errors.Is(walkErr, context.Canceled) || errors.Is(walkErr, context.DeadlineExceeded)):
		finalErr = walkErr
	case walkErr != nil:
		finalErr = fmt.Errorf("enumeration failed: %w", walkErr)
	case ctx.Err() != nil:
		finalErr = ctx.Err()
	}

	if finalErr == nil && report.Summary.TotalFilesScanned == 0 {
		e.logger.Info("No image files found", slog.String("input", e.opts.InputPath))
	}

	e.logger.Info("Conversion run finished",
		slog.Duration("duration", time.Since(startTime)),
		slog.Int("scanned", report.Summary.TotalFilesScanned),
		slog.Int("generated", report.Summary.GeneratedCount),
		slog.Int("upToDate", report.Summary.UpToDateCount),
		slog.Int("errors", report.Summary.ErrorCount))

	if hookErr := e.opts.EventHooks.OnRunComplete(report); hookErr != nil {
		e.logger.Warn("OnRunComplete hook returned an error", slog.String("error", hookErr.Error()))
	}
	return report, finalErr
}

// worker drains the walker's channel until it closes or the run is
// cancelled. A panic in one file's conversion is contained so the rest of
// the batch survives.
func (e *Engine) worker(ctx context.Context, wg *sync.WaitGroup, workerChan <-chan string) {
	defer wg.Done()
	for {
		select {
		case absPath, ok := <-workerChan:
			if !ok {
				return
			}
			e.processOne(ctx, absPath)
		case <-ctx.Done():
			return
		}
	}
}

func (e *Engine) processOne(ctx context.Context, absPath string) {
	relPath, err := filepath.Rel(e.opts.InputPath, absPath)
	if err != nil || relPath == "." {
		relPath = filepath.Base(absPath)
	}
	relPath = filepath.ToSlash(relPath)

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Panic recovered while converting file",
				slog.String("path", relPath), slog.Any("panicValue", r))
			e.aggregator.add(FileResult{Path: relPath, Targets: []TargetResult{{
				InputPath: absPath,
				Status:    StatusFailed,
				Error:     fmt.Sprintf("panic: %v", r),
			}}})
		}
	}()

	e.aggregator.add(e.processor.ProcessFile(ctx, absPath, relPath))
}
