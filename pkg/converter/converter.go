// Package converter scans a directory tree for JPEG/PNG images and invokes
// external encoders to produce WebP and AVIF sibling files. Existing
// outputs are skipped unless forced, per-file failures never abort the
// batch, and all process execution goes through the CommandRunner boundary.
package converter

import "context"

// Generate is the main entry point of the library: it validates opts, runs
// the engine, and returns the aggregated report. Per-file conversion
// failures are recorded in the report, not returned; the error is non-nil
// only for invalid options, an unreadable input root, or cancellation.
func Generate(ctx context.Context, opts Options) (Report, error) {
	engine, err := NewEngine(opts)
	if err != nil {
		return Report{}, err
	}
	return engine.Run(ctx)
}
