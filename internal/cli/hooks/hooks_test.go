package hooks

import (
	"io"
	"log/slog"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/variantly/imgvariant/pkg/converter"
)

type recordingProgram struct {
	msgs []interface{}
}

func (p *recordingProgram) Send(msg tea.Msg) { p.msgs = append(p.msgs, msg) }

type recordingBar struct {
	added  int
	closed bool
}

func (b *recordingBar) Add(n int) error   { b.added += n; return nil }
func (b *recordingBar) Describe(_ string) {}
func (b *recordingBar) Close() error      { b.closed = true; return nil }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestCLIHooksForwardToTUI(t *testing.T) {
	program := &recordingProgram{}
	h := NewCLIHooks(testLogger(), false, program, nil)

	require.NoError(t, h.OnFileDiscovered("img/logo.png"))
	require.NoError(t, h.OnFileStatusUpdate("img/logo.png -> logo.webp", converter.StatusGenerated, "", 10*time.Millisecond))
	require.NoError(t, h.OnRunComplete(converter.Report{}))

	require.Len(t, program.msgs, 3)
	assert.Equal(t, FileDiscoveredMsg{Path: "img/logo.png"}, program.msgs[0])
	update, ok := program.msgs[1].(FileStatusUpdateMsg)
	require.True(t, ok)
	assert.Equal(t, converter.StatusGenerated, update.Status)
	_, ok = program.msgs[2].(RunCompleteMsg)
	assert.True(t, ok)
}

func TestCLIHooksAdvanceProgressBarOnFinalStatesOnly(t *testing.T) {
	bar := &recordingBar{}
	h := NewCLIHooks(testLogger(), false, nil, bar)

	require.NoError(t, h.OnFileStatusUpdate("a", converter.StatusProcessing, "", 0))
	require.NoError(t, h.OnFileStatusUpdate("a", converter.StatusGenerated, "", 0))
	require.NoError(t, h.OnFileStatusUpdate("b", converter.StatusSkipped, converter.SkipReasonUpToDate, 0))
	require.NoError(t, h.OnFileStatusUpdate("c", converter.StatusFailed, "boom", 0))

	assert.Equal(t, 3, bar.added)

	require.NoError(t, h.OnRunComplete(converter.Report{}))
	assert.True(t, bar.closed)
}

func TestCLIHooksPlainModeIsSilentOnSuccess(t *testing.T) {
	h := NewCLIHooks(testLogger(), false, nil, nil)

	assert.NoError(t, h.OnFileDiscovered("a.png"))
	assert.NoError(t, h.OnFileStatusUpdate("a.png -> a.webp", converter.StatusGenerated, "", 0))
	assert.NoError(t, h.OnRunComplete(converter.Report{}))
}
