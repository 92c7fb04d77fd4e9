package converter

import (
	"encoding/json"
	"io"
	"sync"
	"time"
)

// Report summarizes the result of a single Generate run.
type Report struct {
	Summary ReportSummary `json:"summary"`
	Files   []FileResult  `json:"files"`
}

// ReportSummary contains aggregated statistics for a run.
type ReportSummary struct {
	RunID             string    `json:"runId"`
	AppVersion        string    `json:"appVersion,omitempty"`
	InputPath         string    `json:"inputPath"`
	ConfigFilePath    string    `json:"configFilePath,omitempty"`
	ToolsDetected     string    `json:"toolsDetected"`
	TotalFilesScanned int       `json:"totalFilesScanned"`
	GeneratedCount    int       `json:"generatedCount"`
	UpToDateCount     int       `json:"upToDateCount"`
	NoEncoderCount    int       `json:"noEncoderCount"`
	ErrorCount        int       `json:"errorCount"`
	BytesWritten      int64     `json:"bytesWritten"`
	Force             bool      `json:"force"`
	Concurrency       int       `json:"concurrency"`
	DurationSeconds   float64   `json:"durationSeconds"`
	Timestamp         time.Time `json:"timestamp"`
	SchemaVersion     string    `json:"schemaVersion"`
}

// WriteJSON renders the full report as indented JSON.
func (r Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// reportAggregator collects worker results during the run.
type reportAggregator struct {
	mu    sync.Mutex
	files []FileResult
}

func newReportAggregator() *reportAggregator {
	return &reportAggregator{files: make([]FileResult, 0, 128)}
}

func (a *reportAggregator) add(result FileResult) {
	a.mu.Lock()
	a.files = append(a.files, result)
	a.mu.Unlock()
}

// getReport compiles the final Report. The returned slice is a copy, so the
// aggregator's state never escapes.
func (a *reportAggregator) getReport(opts *Options, runID string, tools Toolset, startTime time.Time) Report {
	a.mu.Lock()
	files := make([]FileResult, len(a.files))
	copy(files, a.files)
	a.mu.Unlock()

	summary := ReportSummary{
		RunID:          runID,
		AppVersion:     opts.AppVersion,
		InputPath:      opts.InputPath,
		ConfigFilePath: opts.ConfigFilePath,
		ToolsDetected:  tools.String(),
		Force:          opts.Force,
		Concurrency:    opts.Concurrency,
		Timestamp:      time.Now().UTC(),
		SchemaVersion:  ReportSchemaVersion,
	}
	summary.TotalFilesScanned = len(files)
	for _, f := range files {
		for _, t := range f.Targets {
			switch t.Status {
			case StatusGenerated:
				summary.GeneratedCount++
				summary.BytesWritten += t.SizeBytes
			case StatusFailed:
				summary.ErrorCount++
			case StatusSkipped:
				if t.SkipReason == SkipReasonNoEncoder {
					summary.NoEncoderCount++
				} else {
					summary.UpToDateCount++
				}
			}
		}
	}
	summary.DurationSeconds = time.Since(startTime).Seconds()

	return Report{Summary: summary, Files: files}
}
