// Package perf tracks the cost of individual lint rule invocations and enforces performance
// budgets against them.
//
// A Tracker owns every piece of mutable state: a store of live session records and the phase
// stacks used to time nested named intervals. One session corresponds to one rule running
// against one file:
//
//	key := tracker.Start("signals-no-value-in-jsx", "src/App.tsx", budget)
//	tracker.IncrementNode(key, "JSXExpressionContainer")
//	if err := tracker.TrackOperation(key, "signalAccess", 1); err != nil {
//	    // *LimitExceededError, stop traversing and report it
//	}
//	tracker.StartPhase(key, "analysis")
//	tracker.EndPhase(key, "analysis")
//	metrics := tracker.Stop(key)
//	fmt.Println(perf.FormatReport(metrics))
//
// Every operation other than Start and TrackOperation is a silent no-op for an unknown or
// already stopped session key. TrackOperation is the only call that can interrupt the caller:
// it returns a *LimitExceededError once an operation passes its configured cap. Time, memory and
// node budgets are evaluated when the session stops.
//
// RuleTracker bundles the calls a rule makes during a single traversal and hands the finished
// record to a Reporter as a performance diagnostic.
package perf
