package customrules_test

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/speakeasy-api/lintperf/customrules"
	"github.com/speakeasy-api/lintperf/linter"
	"github.com/speakeasy-api/lintperf/source"
	"github.com/stretchr/testify/require"
)

// capturingLogger records console output from rules.
type capturingLogger struct {
	mu    sync.Mutex
	logs  []string
	warns []string
	errs  []string
}

func (l *capturingLogger) Log(args ...any)   { l.add(&l.logs, args) }
func (l *capturingLogger) Warn(args ...any)  { l.add(&l.warns, args) }
func (l *capturingLogger) Error(args ...any) { l.add(&l.errs, args) }

func (l *capturingLogger) add(dst *[]string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*dst = append(*dst, strings.TrimSuffix(fmt.Sprintln(args...), "\n"))
}

func (l *capturingLogger) warnings() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.warns...)
}

func (l *capturingLogger) messages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.logs...)
}

func testdataPath(t *testing.T, name string) string {
	t.Helper()
	p, err := filepath.Abs(filepath.Join("testdata", name))
	require.NoError(t, err)
	return p
}

func loadRule(t *testing.T, name string, config *customrules.Config) linter.RuleRunner[*source.File] {
	t.Helper()

	rules, err := customrules.NewLoader(config).LoadRules(&linter.CustomRulesConfig{
		Paths: []string{testdataPath(t, name)},
	})
	require.NoError(t, err)
	require.Len(t, rules, 1)
	return rules[0]
}

const appSource = `export function App() {
  const count = useSignal(0);
  return <div>{count.value}</div>;
}
const label = <span>{name.value}</span>;
`
