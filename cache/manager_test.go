package cache

import (
	"testing"
	"testing/fstest"

	"github.com/speakeasy-api/lintperf/customrules"
	"github.com/speakeasy-api/lintperf/linter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ruleSource = `registerRule({
  id: function () { return "custom-noop"; },
  category: function () { return "style"; },
  description: function () { return "Does nothing."; },
  summary: function () { return "noop"; },
  run: function () { return []; },
});`

func populateTranspileCache(t *testing.T, name string) {
	t.Helper()

	fsys := fstest.MapFS{name: &fstest.MapFile{Data: []byte(ruleSource)}}
	rules, err := customrules.NewLoader(&customrules.Config{FS: fsys}).LoadRules(&linter.CustomRulesConfig{
		Paths: []string{name},
	})
	require.NoError(t, err)
	require.Len(t, rules, 1)
}

func TestClearAllCaches_Success(t *testing.T) { //nolint:paralleltest
	populateTranspileCache(t, "rules/a.js")
	populateTranspileCache(t, "rules/b.js")

	stats := GetAllCacheStats()
	assert.GreaterOrEqual(t, stats.TranspileCacheSize, int64(2), "transpile cache should have entries")

	ClearAllCaches()

	stats = GetAllCacheStats()
	assert.Equal(t, int64(0), stats.TranspileCacheSize, "transpile cache should be empty")
}

func TestClearTranspileCache_Success(t *testing.T) { //nolint:paralleltest
	ClearTranspileCache()
	populateTranspileCache(t, "rules/c.js")

	assert.Equal(t, int64(1), GetAllCacheStats().TranspileCacheSize)

	// loading the same unchanged file again is a cache hit
	populateTranspileCache(t, "rules/c.js")
	assert.Equal(t, int64(1), GetAllCacheStats().TranspileCacheSize)

	ClearTranspileCache()
	assert.Equal(t, int64(0), GetAllCacheStats().TranspileCacheSize)
}
