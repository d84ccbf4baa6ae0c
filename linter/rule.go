package linter

import (
	"context"

	"github.com/speakeasy-api/lintperf/validation"
)

// Rule represents a single linting rule
type Rule interface {
	// ID returns the unique identifier for this rule (e.g., "signals-no-value-in-jsx")
	ID() string

	// Category returns the rule category (e.g., "signals", "style", "correctness")
	Category() string

	// Description returns a human-readable description of what the rule checks
	Description() string

	// Summary returns a short summary of what the rule checks
	Summary() string

	// Link returns an optional URL to documentation for this rule
	Link() string

	// DefaultSeverity returns the default severity level for this rule
	DefaultSeverity() validation.Severity

	// Extensions returns the file extensions this rule applies to (nil = all files).
	// Extensions include the leading dot (".tsx").
	Extensions() []string
}

// RuleRunner is the interface rules must implement to execute their logic
type RuleRunner[T any] interface {
	Rule

	// Run executes the rule against the provided document.
	// config.Tracker is the performance session of this invocation; it is nil when tracking is
	// disabled, and every method on it is safe to call regardless.
	// Returning a *perf.LimitExceededError reports that the rule stopped early.
	Run(ctx context.Context, docInfo *DocumentInfo[T], config *RuleConfig) []error
}

// DocumentedRule provides extended documentation for a rule
type DocumentedRule interface {
	Rule

	// GoodExample returns source showing correct usage
	GoodExample() string

	// BadExample returns source showing incorrect usage
	BadExample() string

	// Rationale explains why this rule exists
	Rationale() string
}

// ConfigurableRule indicates a rule has configurable options
type ConfigurableRule interface {
	Rule

	// ConfigSchema returns JSON Schema for rule-specific options
	ConfigSchema() map[string]any

	// ConfigDefaults returns default values for options
	ConfigDefaults() map[string]any
}
