package converter

// Status is the processing state of a single conversion target.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusGenerated  Status = "generated"
	StatusFailed     Status = "failed"
	StatusSkipped    Status = "skipped"
)

// Format identifies one of the sibling output formats produced for every
// discovered image.
type Format string

const (
	FormatWebP Format = "webp"
	FormatAVIF Format = "avif"
)

// Targets lists the output formats generated per input file, in the order
// they are attempted.
var Targets = [2]Format{FormatWebP, FormatAVIF}

// Ext returns the output file extension for the format, with leading dot.
func (f Format) Ext() string { return "." + string(f) }

// OutputFormat selects how the final summary is rendered when the TUI is
// disabled.
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
)

// Skip reasons recorded in the Report for targets that were not generated.
const (
	SkipReasonUpToDate   = "up_to_date"
	SkipReasonNoEncoder  = "no_encoder"
	SkipReasonIgnored    = "ignored_pattern"
	SkipReasonGitExclude = "excluded_by_git_diff"
)
