package lint

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/speakeasy-api/lintperf/linter"
	"github.com/speakeasy-api/lintperf/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	appSource  = "const count = signal(0);\nexport const App = () => <div>{count.value}</div>;\n"
	utilSource = "console.log(\"debug\");\n"
)

func testFS(files map[string]string) fstest.MapFS {
	fsys := fstest.MapFS{
		"src/app.tsx": &fstest.MapFile{Data: []byte(appSource)},
		"src/util.ts": &fstest.MapFile{Data: []byte(utilSource)},
	}
	for name, content := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return fsys
}

func testOptions(fsys fstest.MapFS) (lintOptions, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return lintOptions{
		Concurrency: 2,
		FS:          fsys,
		Stdin:       strings.NewReader(""),
		Stdout:      &stdout,
		Stderr:      &stderr,
	}, &stdout, &stderr
}

func TestLintFiles_Text(t *testing.T) {
	t.Parallel()

	opts, stdout, _ := testOptions(testFS(nil))

	err := lintFiles(t.Context(), opts, []string{"src/app.tsx", "src/util.ts"})
	require.NoError(t, err, "warnings do not fail the run")

	out := stdout.String()
	assert.Less(t, strings.Index(out, "src/app.tsx"), strings.Index(out, "src/util.ts"), "files are printed in argument order")
	assert.Contains(t, out, "signals-no-value-in-jsx")
	assert.Contains(t, out, "no-console")
}

func TestLintFiles_ErrorsFailTheRun(t *testing.T) {
	t.Parallel()

	opts, _, _ := testOptions(testFS(map[string]string{
		".lintperf.yaml": "rules:\n  signals-no-value-in-jsx:\n    severity: error\n",
	}))

	err := lintFiles(t.Context(), opts, []string{"src/app.tsx", "src/util.ts"})
	require.Error(t, err)
	assert.Equal(t, "linting found 1 errors", err.Error())
}

func TestLintFiles_JSON(t *testing.T) {
	t.Parallel()

	opts, stdout, _ := testOptions(testFS(nil))
	opts.Format = "json"

	require.NoError(t, lintFiles(t.Context(), opts, []string{"src/app.tsx", "src/util.ts"}))

	var out struct {
		Results []struct {
			Rule     string `json:"rule"`
			Document string `json:"document"`
		} `json:"results"`
		Summary struct {
			Total    int `json:"total"`
			Warnings int `json:"warnings"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &out))

	assert.Equal(t, 2, out.Summary.Total, "results of all files are merged")
	assert.Equal(t, 2, out.Summary.Warnings)
	require.Len(t, out.Results, 2)
	assert.Equal(t, "src/app.tsx", out.Results[0].Document)
	assert.Equal(t, "src/util.ts", out.Results[1].Document)
}

func TestLintFiles_Stdin(t *testing.T) {
	t.Parallel()

	opts, stdout, _ := testOptions(testFS(nil))
	opts.Stdin = strings.NewReader(appSource)

	require.NoError(t, lintFiles(t.Context(), opts, []string{"-"}))
	assert.True(t, strings.HasPrefix(stdout.String(), "stdin.tsx\n"))
	assert.Contains(t, stdout.String(), "signals-no-value-in-jsx")
}

func TestLintFiles_Performance(t *testing.T) {
	t.Parallel()

	config := `performance:
  enabled: true
  budget:
    max_nodes: 1
`
	textfile := filepath.Join(t.TempDir(), "lintperf.prom")

	opts, _, stderr := testOptions(testFS(map[string]string{"lint.yaml": config}))
	opts.ConfigFile = "lint.yaml"
	opts.MetricsTextfile = textfile

	require.NoError(t, lintFiles(t.Context(), opts, []string{"src/app.tsx", "src/util.ts"}))

	assert.Contains(t, stderr.String(), "2 of 3 rule sessions exceeded their budget")
	assert.Contains(t, stderr.String(), "[perf] signals-no-value-in-jsx: 3 nodes")
	assert.Contains(t, stderr.String(), "[perf] no-console: 2 nodes")

	data, err := os.ReadFile(textfile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `lintperf_rule_nodes_total{rule="no-console"} 3`)
	assert.Contains(t, string(data), `lintperf_budget_exceeded_total{dimension="nodes",rule="no-console"} 1`)
}

func TestLintFiles_VerboseListsEverySession(t *testing.T) {
	t.Parallel()

	opts, _, stderr := testOptions(testFS(map[string]string{
		".lintperf.yaml": "performance:\n  enabled: true\n",
	}))
	opts.Verbose = true

	require.NoError(t, lintFiles(t.Context(), opts, []string{"src/util.ts"}))

	assert.Contains(t, stderr.String(), "All 1 rule sessions within budget")
	assert.Contains(t, stderr.String(), "Rule sessions")
	assert.Contains(t, stderr.String(), "[perf] no-console: 1 nodes")
	assert.Contains(t, stderr.String(), "running rule", "debug logs are written when verbose")
}

func TestLintFiles_BudgetWarningsAreLogged(t *testing.T) {
	t.Parallel()

	opts, _, stderr := testOptions(testFS(map[string]string{
		".lintperf.yaml": "performance:\n  budget:\n    max_time: -5\n",
	}))

	require.NoError(t, lintFiles(t.Context(), opts, []string{"src/util.ts"}))
	assert.Contains(t, stderr.String(), "invalid performance budget")
	assert.Contains(t, stderr.String(), "max_time must be >= 0, got -5")
}

func TestLintFiles_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		config string
		format string
		files  []string
		errIs  error
	}{
		{
			name:  "missing source file",
			files: []string{"src/missing.ts"},
			errIs: source.ErrLoad,
		},
		{
			name:   "unknown format",
			format: "xml",
			files:  []string{"src/util.ts"},
			errIs:  linter.ErrInvalidConfig,
		},
		{
			name:   "invalid config",
			config: "extends: [\n",
			files:  []string{"src/util.ts"},
			errIs:  linter.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			files := map[string]string{}
			if tt.config != "" {
				files[DefaultConfigFile] = tt.config
			}
			opts, _, _ := testOptions(testFS(files))
			opts.Format = tt.format

			err := lintFiles(t.Context(), opts, tt.files)
			require.ErrorIs(t, err, tt.errIs)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("default config when no file exists", func(t *testing.T) {
		t.Parallel()

		config, err := loadConfig(fstest.MapFS{}, "")
		require.NoError(t, err)
		assert.Equal(t, linter.NewConfig(), config)
	})

	t.Run("reads the default file", func(t *testing.T) {
		t.Parallel()

		config, err := loadConfig(testFS(map[string]string{DefaultConfigFile: "extends: recommended\n"}), "")
		require.NoError(t, err)
		assert.Equal(t, linter.StringList{"recommended"}, config.Extends)
	})

	t.Run("explicit file must exist", func(t *testing.T) {
		t.Parallel()

		_, err := loadConfig(fstest.MapFS{}, "missing.yaml")
		require.ErrorIs(t, err, linter.ErrInvalidConfig)
	})
}
