package main

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dupscan/dupscan/domain"
)

const duplicatedFunction = `def total(items):
    result = 0
    for item in items:
        result = result + item.price
        result = result - item.discount
    return result
`

func TestDetectCommand_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.py"), []byte(duplicatedFunction), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.py"), []byte(duplicatedFunction), 0o644))

	var out strings.Builder
	cmd := NewDetectCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{dir, "--format", "json", "--no-progress"})

	require.NoError(t, cmd.Execute())

	var response domain.CloneResponse
	require.NoError(t, json.Unmarshal([]byte(out.String()), &response))
	assert.True(t, response.Success)
	require.NotNil(t, response.Report)
	assert.Len(t, response.Report.Classes, 1)
	assert.Equal(t, 2, response.Report.Metrics.FilesAnalyzed)
}

func TestDetectCommand_WritesReportFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.py"), []byte(duplicatedFunction), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.py"), []byte(duplicatedFunction), 0o644))
	reportPath := filepath.Join(dir, "report.csv")

	cmd := NewDetectCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{dir, "--format", "csv", "-o", reportPath, "--no-progress"})

	require.NoError(t, cmd.Execute())

	content, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "class_id,clone_type,similarity")
}

func TestDetectCommand_NoSourceFiles(t *testing.T) {
	cmd := NewDetectCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{t.TempDir(), "--no-progress"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no supported source files")
}

func TestInitCommand_CreatesConfigFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".dupscan.toml")

	cmd := NewInitCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"-c", configPath})

	require.NoError(t, cmd.Execute())

	content, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "[detection]")

	// A second run without --force refuses to overwrite.
	again := NewInitCmd()
	again.SetOut(io.Discard)
	again.SetErr(io.Discard)
	again.SetArgs([]string{"-c", configPath})
	err = again.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestVersionCommand_Short(t *testing.T) {
	var out strings.Builder
	cmd := NewVersionCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--short"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "dev\n", out.String())
}
