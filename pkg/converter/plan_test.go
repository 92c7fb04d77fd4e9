package converter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPlanSiblingPaths(t *testing.T) {
	dir := t.TempDir()
	input := writeTestImage(t, dir, filepath.Join("img", "logo.png"))

	plan := BuildPlan(input, "img/logo.png", false)

	require.Len(t, plan.Targets, 2)
	assert.Equal(t, FormatWebP, plan.Targets[0].Format)
	assert.Equal(t, filepath.Join(dir, "img", "logo.webp"), plan.Targets[0].OutputPath)
	assert.Equal(t, FormatAVIF, plan.Targets[1].Format)
	assert.Equal(t, filepath.Join(dir, "img", "logo.avif"), plan.Targets[1].OutputPath)
	assert.True(t, plan.Targets[0].Generate)
	assert.True(t, plan.Targets[1].Generate)
}

func TestBuildPlanUppercaseExtension(t *testing.T) {
	dir := t.TempDir()
	input := writeTestImage(t, dir, "PHOTO.JPG")

	plan := BuildPlan(input, "PHOTO.JPG", false)

	assert.Equal(t, filepath.Join(dir, "PHOTO.webp"), plan.Targets[0].OutputPath)
	assert.Equal(t, filepath.Join(dir, "PHOTO.avif"), plan.Targets[1].OutputPath)
}

func TestBuildPlanSkipsExistingOutputs(t *testing.T) {
	dir := t.TempDir()
	input := writeTestImage(t, dir, "logo.png")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logo.webp"), []byte("x"), 0o644))

	plan := BuildPlan(input, "logo.png", false)

	assert.False(t, plan.Targets[0].Generate)
	assert.Equal(t, SkipReasonUpToDate, plan.Targets[0].SkipReason)
	// The missing AVIF sibling is still generated.
	assert.True(t, plan.Targets[1].Generate)
}

func TestBuildPlanForceOverridesExisting(t *testing.T) {
	dir := t.TempDir()
	input := writeTestImage(t, dir, "logo.png")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logo.webp"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logo.avif"), []byte("x"), 0o644))

	plan := BuildPlan(input, "logo.png", true)

	assert.True(t, plan.Targets[0].Generate)
	assert.True(t, plan.Targets[1].Generate)
	assert.Empty(t, plan.Targets[0].SkipReason)
}

func TestTargetLabel(t *testing.T) {
	plan := BuildPlan(filepath.Join(t.TempDir(), "img", "logo.png"), "img/logo.png", false)
	assert.Equal(t, "img/logo.png -> logo.webp", plan.TargetLabel(plan.Targets[0]))
	assert.Equal(t, "img/logo.png -> logo.avif", plan.TargetLabel(plan.Targets[1]))
}
