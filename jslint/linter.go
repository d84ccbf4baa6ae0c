// Package jslint lints JavaScript and TypeScript sources with the built-in rules and any custom
// rules named by the configuration.
package jslint

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/speakeasy-api/lintperf/customrules"
	"github.com/speakeasy-api/lintperf/jslint/rules"
	baseLinter "github.com/speakeasy-api/lintperf/linter"
	"github.com/speakeasy-api/lintperf/perf"
	"github.com/speakeasy-api/lintperf/source"
	"github.com/speakeasy-api/lintperf/system"
)

// Linter lints source files.
type Linter struct {
	base *baseLinter.Linter[*source.File]
}

// NewLinterOption is a functional option for configuring linter creation.
type NewLinterOption func(*newLinterOpts)

type newLinterOpts struct {
	skipDefaultRules bool
	tracker          *perf.Tracker
	logger           *slog.Logger
	fs               system.VirtualFS
	concurrency      int
}

// WithoutDefaultRules creates a linter with no built-in rules registered.
//
// Example:
//
//	linter, err := NewLinter(config, WithoutDefaultRules())
//	linter.Registry().Register(&rules.NoConsoleRule{})
func WithoutDefaultRules() NewLinterOption {
	return func(o *newLinterOpts) {
		o.skipDefaultRules = true
	}
}

// WithTracker records rule sessions on tracker instead of a private one.
func WithTracker(tracker *perf.Tracker) NewLinterOption {
	return func(o *newLinterOpts) {
		o.tracker = tracker
	}
}

// WithLogger sets the logger for the engine and for console output of custom rules.
func WithLogger(logger *slog.Logger) NewLinterOption {
	return func(o *newLinterOpts) {
		o.logger = logger
	}
}

// WithFS sets the file system custom rule files are read from.
func WithFS(fsys system.VirtualFS) NewLinterOption {
	return func(o *newLinterOpts) {
		o.fs = fsys
	}
}

// WithConcurrency limits how many rules run at once per file.
func WithConcurrency(n int) NewLinterOption {
	return func(o *newLinterOpts) {
		o.concurrency = n
	}
}

// NewLinter creates a new source linter.
// By default, all built-in rules are registered. Use WithoutDefaultRules()
// to create a linter with only custom rules.
//
// Returns an error if custom rules are configured and fail to load.
func NewLinter(config *baseLinter.Config, opts ...NewLinterOption) (*Linter, error) {
	options := &newLinterOpts{}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.New(slog.DiscardHandler)
	}

	registry := baseLinter.NewRegistry[*source.File]()

	if !options.skipDefaultRules {
		if err := registerDefaultRules(registry); err != nil {
			return nil, err
		}
	}

	if config != nil && config.CustomRules != nil && len(config.CustomRules.Paths) > 0 {
		ids, err := customrules.RegisterRules(registry, config.CustomRules, &customrules.Config{
			Logger: customrules.NewSlogLogger(options.logger),
			FS:     options.fs,
		})
		if err != nil {
			return nil, fmt.Errorf("loading custom rules: %w", err)
		}
		options.logger.Debug("registered custom rules", slog.Any("rules", ids))
	}

	baseOpts := []baseLinter.Option{
		baseLinter.WithLogger(options.logger),
		baseLinter.WithConcurrency(options.concurrency),
	}
	if options.tracker != nil {
		baseOpts = append(baseOpts, baseLinter.WithTracker(options.tracker))
	}

	return &Linter{
		base: baseLinter.NewLinter(config, registry, baseOpts...),
	}, nil
}

// Registry returns the rule registry for documentation generation
func (l *Linter) Registry() *baseLinter.Registry[*source.File] {
	return l.base.Registry()
}

// Tracker returns the tracker rule sessions are recorded on
func (l *Linter) Tracker() *perf.Tracker {
	return l.base.Tracker()
}

// Lint runs all configured rules against file.
func (l *Linter) Lint(ctx context.Context, file *source.File) (*baseLinter.Output, error) {
	return l.base.Lint(ctx, baseLinter.NewDocumentInfo(file, file.Path), nil)
}

func registerDefaultRules(registry *baseLinter.Registry[*source.File]) error {
	registry.Register(&rules.SignalsNoValueInJSXRule{})
	registry.Register(&rules.NoConsoleRule{})

	if err := registry.RegisterRuleset("recommended", []string{rules.RuleSignalsNoValueInJSX}); err != nil {
		return err
	}
	return registry.RegisterRuleset("strict", []string{rules.RuleSignalsNoValueInJSX, rules.RuleNoConsole})
}
