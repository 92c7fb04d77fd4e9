package converter

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportAggregatorCounts(t *testing.T) {
	agg := newReportAggregator()
	agg.add(FileResult{Path: "a.png", Targets: []TargetResult{
		{Format: FormatWebP, Status: StatusGenerated, SizeBytes: 100},
		{Format: FormatAVIF, Status: StatusGenerated, SizeBytes: 50},
	}})
	agg.add(FileResult{Path: "b.jpg", Targets: []TargetResult{
		{Format: FormatWebP, Status: StatusSkipped, SkipReason: SkipReasonUpToDate},
		{Format: FormatAVIF, Status: StatusFailed, Error: "boom"},
	}})
	agg.add(FileResult{Path: "c.jpg", Targets: []TargetResult{
		{Format: FormatWebP, Status: StatusSkipped, SkipReason: SkipReasonNoEncoder},
		{Format: FormatAVIF, Status: StatusSkipped, SkipReason: SkipReasonNoEncoder},
	}})

	opts := validOptions()
	opts.Force = true
	report := agg.getReport(&opts, "run-1", Toolset{CWebP: true}, time.Now().Add(-2*time.Second))

	s := report.Summary
	assert.Equal(t, "run-1", s.RunID)
	assert.Equal(t, 3, s.TotalFilesScanned)
	assert.Equal(t, 2, s.GeneratedCount)
	assert.Equal(t, 1, s.UpToDateCount)
	assert.Equal(t, 2, s.NoEncoderCount)
	assert.Equal(t, 1, s.ErrorCount)
	assert.Equal(t, int64(150), s.BytesWritten)
	assert.True(t, s.Force)
	assert.Equal(t, "cwebp", s.ToolsDetected)
	assert.InDelta(t, 2.0, s.DurationSeconds, 0.5)
	assert.Len(t, report.Files, 3)
}

func TestReportWriteJSON(t *testing.T) {
	report := Report{
		Summary: ReportSummary{
			RunID:         "run-2",
			InputPath:     "assets",
			ToolsDetected: "magick",
			SchemaVersion: ReportSchemaVersion,
		},
		Files: []FileResult{{
			Path: "logo.png",
			Targets: []TargetResult{{
				InputPath:  "assets/logo.png",
				OutputPath: "assets/logo.webp",
				Format:     FormatWebP,
				Status:     StatusGenerated,
			}},
		}},
	}

	var buf bytes.Buffer
	require.NoError(t, report.WriteJSON(&buf))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	summary, ok := decoded["summary"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "run-2", summary["runId"])
	assert.Equal(t, ReportSchemaVersion, summary["schemaVersion"])
	files, ok := decoded["files"].([]any)
	require.True(t, ok)
	require.Len(t, files, 1)
}

func TestReportJSONOmitsEmptyOptionalFields(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Report{}.WriteJSON(&buf))
	assert.NotContains(t, buf.String(), "appVersion")
	assert.NotContains(t, buf.String(), "configFilePath")
}
