package validation

const (
	// RulePerformanceReport is the rule id used for per-invocation performance summaries.
	RulePerformanceReport = "performance-report"
	// RulePerformanceLimit is the rule id used when a rule hits a per-operation cap.
	RulePerformanceLimit = "performance-limit"
	// RuleInternal is reported for failures that are not diagnostics.
	RuleInternal = "internal"
)
