package jslint_test

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/speakeasy-api/lintperf/jslint"
	"github.com/speakeasy-api/lintperf/jslint/rules"
	"github.com/speakeasy-api/lintperf/linter"
	"github.com/speakeasy-api/lintperf/perf"
	"github.com/speakeasy-api/lintperf/pointer"
	"github.com/speakeasy-api/lintperf/source"
	"github.com/speakeasy-api/lintperf/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const appSource = `import { signal } from "@preact/signals";
const count = signal(0);
// TODO drop the debug output
export const App = () => <div>{count.value}</div>;
console.log(count.value);
`

const todoRule = `registerRule({
  id: function () { return "custom-todo"; },
  category: function () { return "style"; },
  description: function () { return "Flags TODO comments."; },
  summary: function () { return "no TODO"; },
  run: function (ctx, doc, config) {
    var out = [];
    for (var i = 0; i < doc.lines.length; i++) {
      config.trackNode("Line");
      if (doc.lines[i].indexOf("TODO") >= 0) {
        out.push(createDiagnostic("warning", "custom-todo", "TODO left in source", i + 1, doc.lines[i].indexOf("TODO") + 1));
      }
    }
    return out;
  },
});
`

func ruleCounts(t *testing.T, results []error) map[string]int {
	t.Helper()

	counts := map[string]int{}
	for _, err := range results {
		var vErr *validation.Error
		require.True(t, errors.As(err, &vErr), "expected validation error, got %v", err)
		counts[vErr.Rule]++
	}
	return counts
}

func TestNewLinter_DefaultRules(t *testing.T) {
	t.Parallel()

	l, err := jslint.NewLinter(linter.NewConfig())
	require.NoError(t, err)

	assert.Equal(t, []string{rules.RuleNoConsole, rules.RuleSignalsNoValueInJSX}, l.Registry().AllRuleIDs())
	assert.Equal(t, []string{"all", "recommended", "strict"}, l.Registry().AllRulesets())

	out, err := l.Lint(t.Context(), source.New("app.tsx", appSource))
	require.NoError(t, err)

	assert.Equal(t, map[string]int{rules.RuleNoConsole: 1, rules.RuleSignalsNoValueInJSX: 1}, ruleCounts(t, out.Results))
	assert.False(t, out.HasErrors())
	assert.Empty(t, out.PerformanceRecords, "tracking is off by default")
}

func TestNewLinter_Extends(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		extends  linter.StringList
		path     string
		expected map[string]int
	}{
		{
			name:     "recommended",
			extends:  linter.StringList{"recommended"},
			path:     "app.tsx",
			expected: map[string]int{rules.RuleSignalsNoValueInJSX: 1},
		},
		{
			name:     "strict",
			extends:  linter.StringList{"strict"},
			path:     "app.tsx",
			expected: map[string]int{rules.RuleNoConsole: 1, rules.RuleSignalsNoValueInJSX: 1},
		},
		{
			name:     "jsx rule skips plain ts files",
			extends:  linter.StringList{"all"},
			path:     "app.ts",
			expected: map[string]int{rules.RuleNoConsole: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			config := linter.NewConfig()
			config.Extends = tt.extends

			l, err := jslint.NewLinter(config)
			require.NoError(t, err)

			out, err := l.Lint(t.Context(), source.New(tt.path, appSource))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ruleCounts(t, out.Results))
		})
	}
}

func TestNewLinter_CustomRules(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"rules/todo.js": &fstest.MapFile{Data: []byte(todoRule)},
	}

	config := linter.NewConfig()
	config.CustomRules = &linter.CustomRulesConfig{Paths: []string{"rules/*.js"}}

	l, err := jslint.NewLinter(config, jslint.WithoutDefaultRules(), jslint.WithFS(fsys))
	require.NoError(t, err)
	assert.Equal(t, []string{"custom-todo"}, l.Registry().AllRuleIDs())

	out, err := l.Lint(t.Context(), source.New("app.tsx", appSource))
	require.NoError(t, err)
	require.Len(t, out.Results, 1)

	var vErr *validation.Error
	require.ErrorAs(t, out.Results[0], &vErr)
	assert.Equal(t, "custom-todo", vErr.Rule)
	assert.Equal(t, "TODO left in source", vErr.Message())
	assert.Equal(t, 3, vErr.Line)
	assert.Equal(t, 4, vErr.Column)
	assert.Equal(t, "app.tsx", vErr.DocumentLocation)
}

func TestNewLinter_CustomRules_Error(t *testing.T) {
	t.Parallel()

	config := linter.NewConfig()
	config.CustomRules = &linter.CustomRulesConfig{Paths: []string{"rules/[.js"}}

	_, err := jslint.NewLinter(config, jslint.WithFS(fstest.MapFS{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading custom rules")
}

func TestLinter_Performance(t *testing.T) {
	t.Parallel()

	config := linter.NewConfig()
	config.Performance = linter.PerformanceConfig{
		Enabled: true,
		Report:  true,
		Budget:  &perf.Budget{MaxNodes: pointer.From(int64(3))},
	}

	var observed []*perf.Metrics
	tracker := perf.New(perf.WithSessionScopedPhases(), perf.WithObserver(perf.ObserverFunc(func(m *perf.Metrics) {
		observed = append(observed, m)
	})))

	l, err := jslint.NewLinter(config, jslint.WithTracker(tracker), jslint.WithConcurrency(1))
	require.NoError(t, err)
	assert.Same(t, tracker, l.Tracker())

	out, err := l.Lint(t.Context(), source.New("app.tsx", appSource))
	require.NoError(t, err)

	require.Len(t, out.PerformanceRecords, 2)
	assert.Len(t, out.ExceededBudgets(), 2)
	assert.Len(t, observed, 2)

	for _, m := range out.PerformanceRecords {
		assert.Equal(t, "app.tsx", m.FilePath)
		assert.Positive(t, m.NodesExceededBy, m.RuleName)
	}

	counts := ruleCounts(t, out.Results)
	assert.Equal(t, 2, counts[validation.RulePerformanceReport])
}
