package cmdutil

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsStdin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     string
		expected bool
	}{
		{name: "dash is stdin", path: "-", expected: true},
		{name: "empty is not stdin", path: "", expected: false},
		{name: "file path is not stdin", path: "app.tsx", expected: false},
		{name: "dash prefix is not stdin", path: "-file", expected: false},
		{name: "double dash is not stdin", path: "--", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, IsStdin(tt.path))
		})
	}
}

func TestFilesFromArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{name: "no args returns stdin indicator", args: []string{}, expected: []string{StdinIndicator}},
		{name: "nil args returns stdin indicator", args: nil, expected: []string{StdinIndicator}},
		{name: "single file arg", args: []string{"app.tsx"}, expected: []string{"app.tsx"}},
		{name: "multiple args kept in order", args: []string{"b.ts", "a.ts"}, expected: []string{"b.ts", "a.ts"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, FilesFromArgs(tt.args))
		})
	}
}

func TestArgAt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		index      int
		defaultVal string
		expected   string
	}{
		{name: "returns value at index", args: []string{"a", "b", "c"}, index: 1, defaultVal: "", expected: "b"},
		{name: "returns default when out of range", args: []string{"a"}, index: 1, defaultVal: "default", expected: "default"},
		{name: "returns default for nil args", args: nil, index: 0, defaultVal: "default", expected: "default"},
		{name: "returns default for negative index", args: []string{"a", "b"}, index: -1, defaultVal: "default", expected: "default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, ArgAt(tt.args, tt.index, tt.defaultVal))
		})
	}
}

func TestStdinOrFileArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		min     int
		max     int
		args    []string
		wantErr string
	}{
		{name: "accepts one arg", min: 1, max: 2, args: []string{"app.tsx"}},
		{name: "unbounded max accepts many args", min: 1, max: -1, args: []string{"a", "b", "c", "d"}},
		{name: "zero min accepts no args", min: 0, max: 2, args: []string{}},
		{name: "rejects too many args", min: 1, max: 2, args: []string{"a", "b", "c"}, wantErr: "accepts at most 2 arg(s)"},
		{name: "rejects too few args", min: 3, max: 5, args: []string{"a", "b"}, wantErr: "requires at least 3 arg(s)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := StdinOrFileArgs(tt.min, tt.max)(nil, tt.args)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	var quiet, verbose bytes.Buffer
	NewLogger(&quiet, false).Debug("running rule", "rule", "no-console")
	NewLogger(&verbose, true).Debug("running rule", "rule", "no-console")

	assert.Empty(t, quiet.String())
	assert.Contains(t, verbose.String(), "level=DEBUG")
	assert.Contains(t, verbose.String(), "rule=no-console")
}

func TestVerbose(t *testing.T) {
	t.Parallel()

	cmd := &cobra.Command{Use: "lint"}
	assert.False(t, Verbose(cmd), "missing flag is not verbose")

	cmd.Flags().BoolP("verbose", "v", false, "verbose output")
	require.NoError(t, cmd.Flags().Set("verbose", "true"))
	assert.True(t, Verbose(cmd))
}
