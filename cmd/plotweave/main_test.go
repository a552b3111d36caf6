package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Harshitk-cp/plotweave/internal/domain"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = "Alice said hello to Bob. Bob smiled and walked away. Alice was angry."

func init() {
	color.NoColor = true
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func runCommand(t *testing.T, cmd *cobra.Command, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestAnalyze_Summary(t *testing.T) {
	path := writeFile(t, "story.txt", sample)

	out, err := runCommand(t, newAnalyzeCmd(), "", path)
	require.NoError(t, err)

	assert.Contains(t, out, "Characters (2)")
	assert.Contains(t, out, "Alice protagonist")
	assert.Contains(t, out, "Events (1)")
	assert.NotContains(t, out, "Conflicts")
}

func TestAnalyze_JSONFromStdin(t *testing.T) {
	out, err := runCommand(t, newAnalyzeCmd(), sample, "--json", "--story-id", "6f1c1d2e-8d7a-4f0e-9a51-2b0c3e4d5f60", "-")
	require.NoError(t, err)

	var result domain.AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "6f1c1d2e-8d7a-4f0e-9a51-2b0c3e4d5f60", result.StoryID.String())
	assert.Len(t, result.Characters, 2)
	assert.False(t, result.Persisted)
}

func TestAnalyze_OptionsFileAndFlags(t *testing.T) {
	path := writeFile(t, "story.txt", sample)
	optionsPath := writeFile(t, "options.yaml", "extract_events: false\nconfidence_threshold: 0.5\n")

	out, err := runCommand(t, newAnalyzeCmd(), "", "--json", "--options", optionsPath, "--threshold", "0.9", path)
	require.NoError(t, err)

	var result domain.AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Characters, 1)
	assert.Equal(t, "Alice", result.Characters[0].Name)
	assert.Empty(t, result.Events)
}

func TestAnalyze_Errors(t *testing.T) {
	path := writeFile(t, "story.txt", sample)
	badOptions := writeFile(t, "options.yaml", "confidence_threshold: [nope\n")
	nanOptions := writeFile(t, "nan.yaml", "confidence_threshold: .nan\n")

	tests := []struct {
		name string
		args []string
	}{
		{"missing file", []string{filepath.Join(t.TempDir(), "absent.txt")}},
		{"bad options", []string{"--options", badOptions, path}},
		{"bad story id", []string{"--story-id", "nope", path}},
		{"threshold out of range", []string{"--threshold", "2", path}},
		{"NaN threshold flag", []string{"--threshold", "NaN", path}},
		{"NaN threshold in options", []string{"--options", nanOptions, path}},
		{"empty input", []string{"-"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCommand(t, newAnalyzeCmd(), "", tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestResolveStoryID_StableForPath(t *testing.T) {
	a, err := resolveStoryID(newAnalyzeCmd(), "chapter1.txt")
	require.NoError(t, err)
	b, err := resolveStoryID(newAnalyzeCmd(), "chapter1.txt")
	require.NoError(t, err)
	c, err := resolveStoryID(newAnalyzeCmd(), "chapter2.txt")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)

	assert.True(t, strings.HasPrefix(out.String(), "plotweave "))
}
