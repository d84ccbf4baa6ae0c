package linter

import (
	"fmt"
	"path"
	"regexp"
	"slices"
	"time"

	"github.com/speakeasy-api/lintperf/errors"
	"github.com/speakeasy-api/lintperf/perf"
	"github.com/speakeasy-api/lintperf/validation"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned when a lint configuration cannot be used.
const ErrInvalidConfig errors.Error = "invalid lint config"

// DefaultCustomRuleTimeout bounds a single custom rule invocation when no timeout is configured.
const DefaultCustomRuleTimeout = 30 * time.Second

// Config represents the linter configuration
type Config struct {
	// Extends specifies rulesets to extend (e.g., "recommended", "all")
	Extends StringList `yaml:"extends,omitempty" json:"extends,omitempty"`

	// Rules contains per-rule configuration
	Rules map[string]RuleConfig `yaml:"rules,omitempty" json:"rules,omitempty"`

	// Categories contains per-category configuration
	Categories map[string]CategoryConfig `yaml:"categories,omitempty" json:"categories,omitempty"`

	// Ignores contains global ignore patterns
	Ignores []IgnorePattern `yaml:"ignores,omitempty" json:"ignores,omitempty"`

	// OutputFormat specifies the output format
	OutputFormat OutputFormat `yaml:"output_format,omitempty" json:"output_format,omitempty"`

	// Performance configures rule performance tracking and budgets
	Performance PerformanceConfig `yaml:"performance,omitempty" json:"performance,omitempty"`

	// CustomRules configures TypeScript/JavaScript rules loaded at runtime
	CustomRules *CustomRulesConfig `yaml:"custom_rules,omitempty" json:"custom_rules,omitempty"`
}

// StringList accepts either a single string or a list of strings.
type StringList []string

func (s *StringList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*s = StringList{value.Value}
		return nil
	}
	var list []string
	if err := value.Decode(&list); err != nil {
		return err
	}
	*s = list
	return nil
}

// RuleConfig configures a specific rule
type RuleConfig struct {
	// Enabled controls whether the rule is active
	Enabled *bool `yaml:"enabled,omitempty" json:"enabled,omitempty"`

	// Severity overrides the default severity
	Severity *validation.Severity `yaml:"severity,omitempty" json:"severity,omitempty"`

	// Options contains rule-specific configuration
	Options map[string]any `yaml:"options,omitempty" json:"options,omitempty"`

	// Tracker is the performance session of the running invocation (not serialized).
	// It is set by the linter engine when running rules and is nil when tracking is disabled.
	Tracker *perf.RuleTracker `yaml:"-" json:"-"`
}

// GetSeverity returns the effective severity, falling back to default if not overridden
func (c *RuleConfig) GetSeverity(defaultSeverity validation.Severity) validation.Severity {
	if c != nil && c.Severity != nil {
		return *c.Severity
	}
	return defaultSeverity
}

// CategoryConfig configures an entire category of rules
type CategoryConfig struct {
	// Enabled controls whether all rules in the category are active
	Enabled *bool `yaml:"enabled,omitempty" json:"enabled,omitempty"`

	// Severity overrides the default severity for all rules in the category
	Severity *validation.Severity `yaml:"severity,omitempty" json:"severity,omitempty"`
}

// IgnorePattern specifies a pattern for ignoring results
type IgnorePattern struct {
	// Rule is the rule ID to ignore (empty = all rules)
	Rule string `yaml:"rule,omitempty" json:"rule,omitempty"`

	// Path is a path.Match pattern matched against the document location (empty = all files)
	Path string `yaml:"path,omitempty" json:"path,omitempty"`

	// Message pattern to match (regex)
	MessagePattern string `yaml:"message_pattern,omitempty" json:"message_pattern,omitempty"`

	messageRe *regexp.Regexp
}

func (p *IgnorePattern) compile() error {
	if p.Path != "" {
		if _, err := path.Match(p.Path, ""); err != nil {
			return fmt.Errorf("ignore path %q: %w", p.Path, err)
		}
	}
	if p.MessagePattern != "" {
		re, err := regexp.Compile(p.MessagePattern)
		if err != nil {
			return fmt.Errorf("ignore message_pattern %q: %w", p.MessagePattern, err)
		}
		p.messageRe = re
	}
	return nil
}

// Matches reports whether a diagnostic of rule with msg in document should be dropped.
func (p *IgnorePattern) Matches(rule, document, msg string) bool {
	if p.Rule != "" && p.Rule != rule {
		return false
	}
	if p.Path != "" {
		if ok, _ := path.Match(p.Path, document); !ok {
			return false
		}
	}
	if p.MessagePattern != "" {
		re := p.messageRe
		if re == nil {
			var err error
			if re, err = regexp.Compile(p.MessagePattern); err != nil {
				return false
			}
		}
		if !re.MatchString(msg) {
			return false
		}
	}
	return true
}

// PerformanceConfig configures performance tracking of rule invocations.
type PerformanceConfig struct {
	// Enabled tracks every rule invocation as a performance session
	Enabled bool `yaml:"enabled,omitempty" json:"enabled,omitempty"`

	// Report appends a performance diagnostic for every tracked invocation
	Report bool `yaml:"report,omitempty" json:"report,omitempty"`

	// Budget is the default budget applied to every rule
	Budget *perf.Budget `yaml:"budget,omitempty" json:"budget,omitempty"`

	// Rules contains per-rule budgets, merged over Budget field by field
	Rules map[string]*perf.Budget `yaml:"rules,omitempty" json:"rules,omitempty"`
}

// BudgetFor returns the effective budget for a rule, or nil when none is configured.
func (c PerformanceConfig) BudgetFor(ruleID string) *perf.Budget {
	return c.Budget.Merge(c.Rules[ruleID])
}

// BudgetWarnings validates every configured budget. Invalid budgets never fail config loading;
// the problems are returned for the caller to surface.
func (c PerformanceConfig) BudgetWarnings() []string {
	var warnings []string

	if res := perf.ValidateBudget(c.Budget); !res.Valid {
		for _, e := range res.Errors {
			warnings = append(warnings, "performance.budget: "+e)
		}
	}

	ids := make([]string, 0, len(c.Rules))
	for id := range c.Rules {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		if res := perf.ValidateBudget(c.Rules[id]); !res.Valid {
			for _, e := range res.Errors {
				warnings = append(warnings, fmt.Sprintf("performance.rules.%s: %s", id, e))
			}
		}
	}

	return warnings
}

// CustomRulesConfig configures custom rules written in TypeScript or JavaScript.
type CustomRulesConfig struct {
	// Paths are glob patterns of rule files
	Paths []string `yaml:"paths,omitempty" json:"paths,omitempty"`

	// Timeout bounds a single rule invocation (default 30s)
	Timeout time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`
}

// GetTimeout returns the configured timeout or DefaultCustomRuleTimeout.
func (c *CustomRulesConfig) GetTimeout() time.Duration {
	if c == nil || c.Timeout <= 0 {
		return DefaultCustomRuleTimeout
	}
	return c.Timeout
}

type OutputFormat string

const (
	OutputFormatText    OutputFormat = "text"
	OutputFormatJSON    OutputFormat = "json"
	OutputFormatSummary OutputFormat = "summary"
)

// NewConfig creates a new default configuration
func NewConfig() *Config {
	return &Config{
		Extends:      StringList{"all"},
		Rules:        make(map[string]RuleConfig),
		Categories:   make(map[string]CategoryConfig),
		OutputFormat: OutputFormatText,
	}
}

// Validate checks the parts of the configuration the schema cannot express.
func (c *Config) Validate() error {
	var errs []error

	switch c.OutputFormat {
	case "", OutputFormatText, OutputFormatJSON, OutputFormatSummary:
	default:
		errs = append(errs, fmt.Errorf("unknown output_format %q", c.OutputFormat))
	}

	for i := range c.Ignores {
		if err := c.Ignores[i].compile(); err != nil {
			errs = append(errs, err)
		}
	}

	if c.CustomRules != nil && c.CustomRules.Timeout < 0 {
		errs = append(errs, fmt.Errorf("custom_rules.timeout must be positive, got %s", c.CustomRules.Timeout))
	}

	if len(errs) > 0 {
		return ErrInvalidConfig.Wrap(errors.Join(errs...))
	}
	return nil
}
