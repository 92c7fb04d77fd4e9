package converter

import "errors"

// Error categories returned by Generate. Callers can check against these
// with errors.Is. Per-target encoder failures are not errors at this
// level; they are recorded in the report.
var (
	// ErrConfigValidation indicates the Options struct failed validation
	// before the run started. Always fatal.
	ErrConfigValidation = errors.New("invalid configuration options provided")

	// ErrInputInaccessible indicates the input root exists but cannot be
	// read (typically a permission problem). Fatal: nothing can be
	// enumerated. A nonexistent root is NOT an error; it yields an empty
	// run.
	ErrInputInaccessible = errors.New("input directory inaccessible")

	// ErrNoEncoders indicates none of the external encoders were found on
	// PATH. Never fatal: the run proceeds and every needed target is
	// skipped, which turns the batch into an inventory pass.
	ErrNoEncoders = errors.New("no conversion tools found on PATH")

	// ErrGitOperation indicates the changed-files lookup failed when
	// changed-only mode was requested. Fatal, since the requested filter
	// cannot be applied.
	ErrGitOperation = errors.New("git operation failed")
)
