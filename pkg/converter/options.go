package converter

import (
	"fmt"
	"log/slog"
	"time"
)

// Hooks defines callbacks for status updates during a conversion run.
// Implementations MUST be thread-safe; methods are called concurrently from
// worker goroutines.
type Hooks interface {
	// OnFileDiscovered fires once per eligible input file found by the
	// walker. path is slash-separated and relative to the input root.
	OnFileDiscovered(path string) error
	// OnFileStatusUpdate fires for every target state change. path is the
	// relative input path suffixed with the target extension, e.g.
	// "img/logo.png -> logo.webp".
	OnFileStatusUpdate(path string, status Status, message string, duration time.Duration) error
	// OnRunComplete fires once with the final report.
	OnRunComplete(report Report) error
}

// NoOpHooks is the default do-nothing Hooks implementation.
type NoOpHooks struct{}

func (h *NoOpHooks) OnFileDiscovered(string) error { return nil }

func (h *NoOpHooks) OnFileStatusUpdate(string, Status, string, time.Duration) error { return nil }

func (h *NoOpHooks) OnRunComplete(Report) error { return nil }

// Options holds all configuration for a Generate run.
type Options struct {
	// InputPath is the directory scanned recursively for JPEG/PNG files.
	InputPath string `mapstructure:"inputPath"`

	// QualityWebP and QualityAVIF are encoder qualities on a 0-100 scale
	// where higher means better quality and larger output.
	QualityWebP int `mapstructure:"qualityWebp"`
	QualityAVIF int `mapstructure:"qualityAvif"`

	// Force regenerates targets even when the output file already exists.
	Force bool `mapstructure:"force"`

	// Concurrency is the worker count; 0 auto-detects CPU cores. Files
	// are independent, so any worker count preserves skip/force
	// semantics.
	Concurrency int `mapstructure:"concurrency"`

	// IgnorePatterns are glob patterns matched against slash-relative
	// paths; matching files and directories are excluded.
	IgnorePatterns []string `mapstructure:"ignore"`

	// ChangedOnly restricts the run to files listed in ChangedFiles,
	// populated by the CLI from the git working tree.
	ChangedOnly  bool                `mapstructure:"changedOnly"`
	ChangedFiles map[string]struct{} `mapstructure:"-"`

	// Presentation.
	Verbose      bool         `mapstructure:"verbose"`
	TuiEnabled   bool         `mapstructure:"tuiEnabled"`
	OutputFormat OutputFormat `mapstructure:"outputFormat"`

	// ConfigFilePath records the loaded config file for reporting.
	ConfigFilePath string `mapstructure:"-"`
	// AppVersion is stamped into the report. Populated by the caller.
	AppVersion string `mapstructure:"-"`

	// Injected dependencies.
	EventHooks Hooks        `mapstructure:"-"` // defaults to NoOpHooks
	Logger     slog.Handler `mapstructure:"-"` // required
	Runner     CommandRunner `mapstructure:"-"` // defaults to ExecRunner
	// Tools, when non-nil, bypasses PATH probing (testing).
	Tools *Toolset `mapstructure:"-"`
	// LookPath overrides executable resolution during probing (testing).
	LookPath LookPathFunc `mapstructure:"-"`

	// DispatchWarnThreshold bounds how long the walker waits on a full
	// worker channel before logging; zero selects a default.
	DispatchWarnThreshold time.Duration `mapstructure:"-"`
}

// validate checks the option invariants the engine relies on. Quality
// bounds mirror what the external encoders accept.
func (o *Options) validate() error {
	if o.Logger == nil {
		return fmt.Errorf("%w: Logger implementation (slog.Handler) cannot be nil", ErrConfigValidation)
	}
	if o.InputPath == "" {
		return fmt.Errorf("%w: input path cannot be empty", ErrConfigValidation)
	}
	if o.QualityWebP < 0 || o.QualityWebP > 100 {
		return fmt.Errorf("%w: WebP quality %d outside 0-100", ErrConfigValidation, o.QualityWebP)
	}
	if o.QualityAVIF < 0 || o.QualityAVIF > 100 {
		return fmt.Errorf("%w: AVIF quality %d outside 0-100", ErrConfigValidation, o.QualityAVIF)
	}
	if o.Concurrency < 0 {
		return fmt.Errorf("%w: concurrency cannot be negative", ErrConfigValidation)
	}
	if o.ChangedOnly && o.ChangedFiles == nil {
		return fmt.Errorf("%w: changed-only mode requires a changed-files set", ErrConfigValidation)
	}
	return nil
}

// quality returns the configured quality for a target format.
func (o *Options) quality(f Format) int {
	if f == FormatAVIF {
		return o.QualityAVIF
	}
	return o.QualityWebP
}
