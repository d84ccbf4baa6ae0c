package rules

import (
	"context"
	"fmt"
	"regexp"
	"slices"

	"github.com/speakeasy-api/lintperf/linter"
	"github.com/speakeasy-api/lintperf/source"
	"github.com/speakeasy-api/lintperf/validation"
)

const RuleNoConsole = "no-console"

var consoleCall = regexp.MustCompile(`\bconsole\.([a-z]+)\s*\(`)

// NoConsoleRule flags console calls left in source files.
type NoConsoleRule struct{}

func (r *NoConsoleRule) ID() string {
	return RuleNoConsole
}

func (r *NoConsoleRule) Description() string {
	return "Console calls are debugging leftovers that leak internals to the browser console and slow hot paths. Use the application logger instead."
}

func (r *NoConsoleRule) Summary() string {
	return "Disallow console calls."
}

func (r *NoConsoleRule) Category() string {
	return CategoryBestPractices
}

func (r *NoConsoleRule) DefaultSeverity() validation.Severity {
	return validation.SeverityWarning
}

func (r *NoConsoleRule) Link() string {
	return "https://github.com/speakeasy-api/lintperf/blob/main/jslint/README.md#no-console"
}

func (r *NoConsoleRule) Extensions() []string {
	return jsExtensions
}

func (r *NoConsoleRule) ConfigSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"allow": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Console methods that are allowed, e.g. [\"error\"]",
			},
		},
	}
}

func (r *NoConsoleRule) ConfigDefaults() map[string]any {
	return map[string]any{"allow": []string{}}
}

func (r *NoConsoleRule) Run(ctx context.Context, docInfo *linter.DocumentInfo[*source.File], config *linter.RuleConfig) []error {
	if docInfo == nil || docInfo.Document == nil {
		return nil
	}

	allowed := stringOptions(config.Options["allow"])
	tracker := config.Tracker
	severity := config.GetSeverity(r.DefaultSeverity())

	var errs []error
	for i, line := range docInfo.Document.Lines() {
		if ctx.Err() != nil {
			break
		}
		tracker.TrackNode("Line")

		for _, m := range consoleCall.FindAllStringSubmatchIndex(line, -1) {
			method := line[m[2]:m[3]]
			if slices.Contains(allowed, method) {
				continue
			}
			if err := tracker.TrackOperation(OperationConsoleCall, 1); err != nil {
				return append(errs, err)
			}
			errs = append(errs, newDiagnostic(severity, RuleNoConsole, docInfo.Location,
				fmt.Errorf("unexpected console.%s call", method), i+1, m[0]+1))
		}
	}

	return errs
}

// stringOptions reads a list option decoded from YAML.
func stringOptions(v any) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
