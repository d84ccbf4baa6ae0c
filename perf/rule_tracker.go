package perf

import (
	"github.com/speakeasy-api/lintperf/validation"
)

// Reporter receives performance diagnostics.
type Reporter interface {
	Report(diag *validation.Error)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(diag *validation.Error)

func (f ReporterFunc) Report(diag *validation.Error) {
	f(diag)
}

// RuleTracker is the per-invocation view of a Tracker session used by rules during a single
// traversal. All methods are safe on a nil *RuleTracker so rules can run untracked.
type RuleTracker struct {
	tracker  *Tracker
	key      string
	ruleName string
	filePath string
	budget   *Budget
	reporter Reporter

	nodeLimit    int64
	checkNodes   bool
	nodesTripped bool
	result       *Metrics
	completed    bool
}

// NewRuleTracker starts a session on t. reporter may be nil, in which case no performance
// diagnostic is emitted on completion.
func NewRuleTracker(t *Tracker, ruleName, filePath string, budget *Budget, reporter Reporter) *RuleTracker {
	rt := &RuleTracker{
		tracker:  t,
		ruleName: ruleName,
		filePath: filePath,
		budget:   budget,
		reporter: reporter,
	}
	rt.nodeLimit, rt.checkNodes = budget.NodeLimit()
	rt.key = t.Start(ruleName, filePath, budget)
	return rt
}

// Key returns the underlying session key.
func (r *RuleTracker) Key() string {
	if r == nil {
		return ""
	}
	return r.key
}

// RuleName returns the tracked rule.
func (r *RuleTracker) RuleName() string {
	if r == nil {
		return ""
	}
	return r.ruleName
}

// TrackNode counts a visited node and flags the session as soon as the node budget is passed.
func (r *RuleTracker) TrackNode(nodeType string) {
	if r == nil {
		return
	}
	r.tracker.IncrementNode(r.key, nodeType)

	if r.checkNodes && !r.nodesTripped {
		r.nodesTripped = r.tracker.exceedNodeBudget(r.key, r.nodeLimit)
	}
}

// TrackOperation counts count units of the named operation. It returns a *LimitExceededError
// once the operation passes its cap, and the rule should stop its traversal.
func (r *RuleTracker) TrackOperation(name string, count int) error {
	if r == nil {
		return nil
	}
	return r.tracker.TrackOperation(r.key, name, count)
}

func (r *RuleTracker) StartPhase(name string) {
	if r == nil {
		return
	}
	r.tracker.StartPhase(r.key, name)
}

func (r *RuleTracker) EndPhase(name string) {
	if r == nil {
		return
	}
	r.tracker.EndPhase(r.key, name)
}

func (r *RuleTracker) RecordMetric(name string, value any) {
	if r == nil {
		return
	}
	r.tracker.RecordMetric(r.key, name, value)
}

// OnTraversalComplete stops the session, re-checks the time and memory budgets and hands the
// performance diagnostic to the reporter. Subsequent calls return the same record.
func (r *RuleTracker) OnTraversalComplete() *Metrics {
	if r == nil {
		return nil
	}
	if r.completed {
		return r.result
	}
	r.completed = true

	m := r.tracker.Stop(r.key)
	if m == nil {
		return nil
	}

	if limit, ok := r.budget.TimeLimit(); ok && m.BudgetExceededBy == 0 {
		if elapsed := m.DurationMillis(); elapsed > limit {
			m.ExceededBudget = true
			m.BudgetExceededBy = elapsed - limit
		}
	}
	if limit, ok := r.budget.MemoryLimit(); ok && limit >= 0 && m.MemoryExceededBy == 0 && m.MemoryAtStop != nil {
		if used := m.MemoryAtStop.HeapUsed; used > uint64(limit) {
			m.ExceededBudget = true
			m.MemoryExceededBy = int64(used) - limit
		}
	}

	r.result = m

	if r.reporter != nil {
		r.reporter.Report(NewReportDiagnostic(m))
	}

	return m
}
