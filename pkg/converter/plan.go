package converter

import (
	"os"
	"path/filepath"
	"strings"
)

// TargetPlan is the decision for one output format of one input file:
// where the output goes and whether it must be (re)generated.
type TargetPlan struct {
	Format     Format
	OutputPath string
	// Generate is force OR the output does not exist. When false,
	// SkipReason explains why.
	Generate   bool
	SkipReason string
}

// FilePlan pairs an input file with its two target decisions. Plans are
// computed fresh per file from current filesystem state and never cached or
// shared, so re-runs and any worker ordering see consistent decisions.
type FilePlan struct {
	InputPath string
	RelPath   string
	Targets   [2]TargetPlan
}

// BuildPlan derives the sibling output paths for input and decides, per
// format, whether generation is needed under the skip/force policy. The
// existence check is the single point where the skip decision is made and
// reported.
func BuildPlan(inputPath, relPath string, force bool) FilePlan {
	stem := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))

	plan := FilePlan{InputPath: inputPath, RelPath: relPath}
	for i, format := range Targets {
		out := stem + format.Ext()
		tp := TargetPlan{Format: format, OutputPath: out, Generate: true}
		if !force {
			if _, err := os.Stat(out); err == nil {
				tp.Generate = false
				tp.SkipReason = SkipReasonUpToDate
			}
		}
		plan.Targets[i] = tp
	}
	return plan
}

// TargetLabel names one target for hooks and logs, e.g.
// "img/logo.png -> logo.webp".
func (p FilePlan) TargetLabel(t TargetPlan) string {
	return p.RelPath + " -> " + filepath.Base(t.OutputPath)
}
