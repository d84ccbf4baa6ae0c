package linter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"sort"
	"sync"

	"github.com/speakeasy-api/lintperf/linter/format"
	"github.com/speakeasy-api/lintperf/perf"
	"github.com/speakeasy-api/lintperf/validation"
	"golang.org/x/sync/errgroup"
)

// Option configures a Linter.
type Option func(o *options)

type options struct {
	tracker     *perf.Tracker
	logger      *slog.Logger
	concurrency int
}

// WithTracker sets the tracker rule invocations are recorded on. The tracker should use
// session-scoped phases as rules run concurrently.
func WithTracker(tracker *perf.Tracker) Option {
	return func(o *options) {
		o.tracker = tracker
	}
}

// WithLogger sets the logger used by the linter and its default tracker.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithConcurrency limits how many rules run at once for a single document (0 = unlimited).
func WithConcurrency(n int) Option {
	return func(o *options) {
		o.concurrency = n
	}
}

// Linter is the main linting engine
type Linter[T any] struct {
	config      *Config
	registry    *Registry[T]
	tracker     *perf.Tracker
	logger      *slog.Logger
	concurrency int
}

// NewLinter creates a new linter with the given configuration
func NewLinter[T any](config *Config, registry *Registry[T], opts ...Option) *Linter[T] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	if o.tracker == nil {
		o.tracker = perf.New(perf.WithSessionScopedPhases(), perf.WithLogger(o.logger))
	}
	if config == nil {
		config = NewConfig()
	}

	return &Linter[T]{
		config:      config,
		registry:    registry,
		tracker:     o.tracker,
		logger:      o.logger,
		concurrency: o.concurrency,
	}
}

// Registry returns the rule registry
func (l *Linter[T]) Registry() *Registry[T] {
	return l.registry
}

// Tracker returns the tracker rule invocations are recorded on
func (l *Linter[T]) Tracker() *perf.Tracker {
	return l.tracker
}

// Lint runs all configured rules against the document
func (l *Linter[T]) Lint(ctx context.Context, docInfo *DocumentInfo[T], preExistingErrors []error) (*Output, error) {
	var allErrs []error

	if len(preExistingErrors) > 0 {
		allErrs = append(allErrs, preExistingErrors...)
	}

	results, err := l.runRules(ctx, docInfo)
	if err != nil {
		return nil, err
	}

	var records []*perf.Metrics
	for _, res := range results {
		allErrs = append(allErrs, res.errs...)
		if res.metrics != nil {
			records = append(records, res.metrics)
		}
	}

	// Apply severity overrides from config
	allErrs = l.applySeverityOverrides(allErrs)
	allErrs = l.applyIgnores(allErrs, docInfo.Location)

	// Sort errors by location
	validation.SortValidationErrors(allErrs)

	sort.Slice(records, func(i, j int) bool {
		return records[i].RuleName < records[j].RuleName
	})

	return l.formatOutput(allErrs, records), nil
}

type ruleResult struct {
	errs    []error
	metrics *perf.Metrics
}

func (l *Linter[T]) runRules(ctx context.Context, docInfo *DocumentInfo[T]) ([]ruleResult, error) {
	enabledRules := l.getEnabledRules()

	var (
		mu      sync.Mutex
		results []ruleResult
	)

	g, gctx := errgroup.WithContext(ctx)
	if l.concurrency > 0 {
		g.SetLimit(l.concurrency)
	}

	for _, rule := range enabledRules {
		if !appliesTo(rule, docInfo.Location) {
			continue
		}

		ruleConfig := l.getRuleConfig(rule.ID())

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			res := l.runRule(gctx, rule, ruleConfig, docInfo)

			mu.Lock()
			results = append(results, res)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// runRule runs one rule as one tracked session. Limit errors returned by the rule are turned
// into diagnostics and the performance report, if enabled, is appended.
func (l *Linter[T]) runRule(ctx context.Context, rule RuleRunner[T], cfg RuleConfig, docInfo *DocumentInfo[T]) (res ruleResult) {
	var report *validation.Error

	perfCfg := l.config.Performance
	if perfCfg.Enabled {
		var reporter perf.Reporter
		if perfCfg.Report {
			reporter = perf.ReporterFunc(func(diag *validation.Error) {
				report = diag
			})
		}
		cfg.Tracker = perf.NewRuleTracker(l.tracker, rule.ID(), docInfo.Location, perfCfg.BudgetFor(rule.ID()), reporter)
	}

	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("rule panicked", slog.String("rule", rule.ID()), slog.String("file", docInfo.Location), slog.Any("panic", r))
			res.errs = append(res.errs, fmt.Errorf("rule %s panicked: %v", rule.ID(), r))
		}

		res.metrics = cfg.Tracker.OnTraversalComplete()
		if report != nil {
			res.errs = append(res.errs, report)
		}
	}()

	l.logger.Debug("running rule", slog.String("rule", rule.ID()), slog.String("file", docInfo.Location))

	for _, err := range rule.Run(ctx, docInfo, &cfg) {
		var limitErr *perf.LimitExceededError
		if errors.As(err, &limitErr) {
			res.errs = append(res.errs, perf.NewLimitDiagnostic(rule.ID(), docInfo.Location, limitErr))
			continue
		}
		res.errs = append(res.errs, err)
	}

	return res
}

func appliesTo(rule Rule, location string) bool {
	exts := rule.Extensions()
	if len(exts) == 0 {
		return true
	}
	return slices.Contains(exts, filepath.Ext(location))
}

func (l *Linter[T]) getEnabledRules() []RuleRunner[T] {
	// Map to track enabled status: ruleID -> enabled
	ruleStatus := make(map[string]bool)

	// Apply rulesets
	for _, ruleset := range l.config.Extends {
		if ids, ok := l.registry.GetRuleset(ruleset); ok {
			for _, id := range ids {
				ruleStatus[id] = true
			}
		}
	}

	// Category config overrides ruleset config but is overridden by individual rule config
	for _, rule := range l.registry.AllRules() {
		if catConfig, ok := l.config.Categories[rule.Category()]; ok {
			if catConfig.Enabled != nil {
				ruleStatus[rule.ID()] = *catConfig.Enabled
			}
		}
	}

	for id, ruleConfig := range l.config.Rules {
		if ruleConfig.Enabled != nil {
			ruleStatus[id] = *ruleConfig.Enabled
		}
	}

	var enabled []RuleRunner[T]
	for id, enabledFlag := range ruleStatus {
		if enabledFlag {
			if rule, ok := l.registry.GetRule(id); ok {
				enabled = append(enabled, rule)
			}
		}
	}

	// Sort for deterministic order
	sort.Slice(enabled, func(i, j int) bool {
		return enabled[i].ID() < enabled[j].ID()
	})

	return enabled
}

func (l *Linter[T]) getRuleConfig(ruleID string) RuleConfig {
	config := RuleConfig{}

	if rule, ok := l.registry.GetRule(ruleID); ok {
		if catConfig, ok := l.config.Categories[rule.Category()]; ok {
			if catConfig.Severity != nil {
				config.Severity = catConfig.Severity
			}
		}
	}

	if ruleConfig, ok := l.config.Rules[ruleID]; ok {
		if ruleConfig.Severity != nil {
			config.Severity = ruleConfig.Severity
		}
		if ruleConfig.Options != nil {
			config.Options = ruleConfig.Options
		}
	}

	return config
}

// applySeverityOverrides leaves performance diagnostics alone as their severity reflects the
// budget outcome.
func (l *Linter[T]) applySeverityOverrides(errs []error) []error {
	for _, err := range errs {
		var vErr *validation.Error
		if errors.As(err, &vErr) && !vErr.IsPerformance() {
			config := l.getRuleConfig(vErr.Rule)
			if config.Severity != nil {
				vErr.Severity = *config.Severity
			}
		}
	}
	return errs
}

func (l *Linter[T]) applyIgnores(errs []error, location string) []error {
	if len(l.config.Ignores) == 0 {
		return errs
	}

	return slices.DeleteFunc(errs, func(err error) bool {
		var vErr *validation.Error
		if !errors.As(err, &vErr) || vErr.IsPerformance() {
			return false
		}
		document := location
		if vErr.DocumentLocation != "" {
			document = vErr.DocumentLocation
		}
		for i := range l.config.Ignores {
			if l.config.Ignores[i].Matches(vErr.Rule, document, vErr.Message()) {
				return true
			}
		}
		return false
	})
}

func (l *Linter[T]) formatOutput(errs []error, records []*perf.Metrics) *Output {
	return &Output{
		Results:            errs,
		Format:             l.config.OutputFormat,
		PerformanceRecords: records,
	}
}

// Output represents the result of linting
type Output struct {
	Results []error
	Format  OutputFormat

	// PerformanceRecords holds one finished session per tracked rule invocation, sorted by rule.
	PerformanceRecords []*perf.Metrics
}

func (o *Output) HasErrors() bool {
	return o.ErrorCount() > 0
}

func (o *Output) ErrorCount() int {
	count := 0
	for _, err := range o.Results {
		var vErr *validation.Error
		if errors.As(err, &vErr) {
			if vErr.Severity == validation.SeverityError {
				count++
			}
		} else {
			// Non-validation errors are treated as errors
			count++
		}
	}
	return count
}

// ExceededBudgets returns the records of invocations that went over their budget.
func (o *Output) ExceededBudgets() []*perf.Metrics {
	var exceeded []*perf.Metrics
	for _, m := range o.PerformanceRecords {
		if m.ExceededBudget {
			exceeded = append(exceeded, m)
		}
	}
	return exceeded
}

// Formatter returns the formatter for the output's format.
func (o *Output) Formatter() format.Formatter {
	switch o.Format {
	case OutputFormatJSON:
		return format.NewJSONFormatter()
	case OutputFormatSummary:
		return format.NewSummaryFormatter()
	default:
		return format.NewTextFormatter()
	}
}

func (o *Output) FormatText() string {
	s, _ := format.NewTextFormatter().Format(o.Results)
	return s
}

func (o *Output) FormatJSON() string {
	s, _ := format.NewJSONFormatter().Format(o.Results)
	return s
}

func (o *Output) FormatSummary() string {
	s, _ := format.NewSummaryFormatter().Format(o.Results)
	return s
}
