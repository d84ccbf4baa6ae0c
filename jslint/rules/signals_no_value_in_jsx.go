package rules

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/speakeasy-api/lintperf/linter"
	"github.com/speakeasy-api/lintperf/source"
	"github.com/speakeasy-api/lintperf/validation"
)

const RuleSignalsNoValueInJSX = "signals-no-value-in-jsx"

var (
	jsxExpression = regexp.MustCompile(`\{([^{}]*)\}`)
	signalValue   = regexp.MustCompile(`\b([A-Za-z_$][\w$]*)\.value\b`)
)

// SignalsNoValueInJSXRule flags signal.value reads inside JSX expressions. Passing the signal
// itself lets the renderer bind the text node directly instead of re-rendering the component.
type SignalsNoValueInJSXRule struct{}

func (r *SignalsNoValueInJSXRule) ID() string {
	return RuleSignalsNoValueInJSX
}

func (r *SignalsNoValueInJSXRule) Description() string {
	return "Reading signal.value inside JSX subscribes the whole component to the signal. Pass the signal itself so only the bound text node updates."
}

func (r *SignalsNoValueInJSXRule) Summary() string {
	return "Avoid reading signal.value inside JSX."
}

func (r *SignalsNoValueInJSXRule) Category() string {
	return CategorySignals
}

func (r *SignalsNoValueInJSXRule) DefaultSeverity() validation.Severity {
	return validation.SeverityWarning
}

func (r *SignalsNoValueInJSXRule) Link() string {
	return "https://github.com/speakeasy-api/lintperf/blob/main/jslint/README.md#signals-no-value-in-jsx"
}

func (r *SignalsNoValueInJSXRule) Extensions() []string {
	return []string{".jsx", ".tsx"}
}

func (r *SignalsNoValueInJSXRule) GoodExample() string {
	return "<div>{count}</div>"
}

func (r *SignalsNoValueInJSXRule) BadExample() string {
	return "<div>{count.value}</div>"
}

func (r *SignalsNoValueInJSXRule) Rationale() string {
	return "Binding the signal keeps updates scoped to the text node and avoids re-running the component body."
}

func (r *SignalsNoValueInJSXRule) ConfigSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"allowInAttributes": map[string]any{
				"type":        "boolean",
				"description": "Do not report reads in attribute values such as value={name.value}",
			},
		},
	}
}

func (r *SignalsNoValueInJSXRule) ConfigDefaults() map[string]any {
	return map[string]any{"allowInAttributes": false}
}

func (r *SignalsNoValueInJSXRule) Run(ctx context.Context, docInfo *linter.DocumentInfo[*source.File], config *linter.RuleConfig) []error {
	if docInfo == nil || docInfo.Document == nil {
		return nil
	}

	allowInAttributes, _ := config.Options["allowInAttributes"].(bool)
	tracker := config.Tracker
	severity := config.GetSeverity(r.DefaultSeverity())

	var errs []error

	tracker.StartPhase("scan")
	defer tracker.EndPhase("scan")

	for i, line := range docInfo.Document.Lines() {
		if i%256 == 0 && ctx.Err() != nil {
			break
		}
		tracker.TrackNode("Line")

		if !strings.Contains(line, "<") && !strings.Contains(line, "/>") {
			continue
		}

		for _, expr := range jsxExpression.FindAllStringSubmatchIndex(line, -1) {
			tracker.TrackNode("JSXExpressionContainer")

			if allowInAttributes && expr[0] > 0 && line[expr[0]-1] == '=' {
				continue
			}

			inner := line[expr[2]:expr[3]]
			for _, m := range signalValue.FindAllStringSubmatchIndex(inner, -1) {
				if err := tracker.TrackOperation(OperationSignalAccess, 1); err != nil {
					return append(errs, err)
				}

				name := inner[m[2]:m[3]]
				errs = append(errs, newDiagnostic(severity, RuleSignalsNoValueInJSX, docInfo.Location,
					fmt.Errorf("read of %s.value inside JSX; pass %s instead", name, name),
					i+1, expr[2]+m[0]+1))
			}
		}
	}

	return errs
}

func newDiagnostic(severity validation.Severity, rule, location string, err error, line, column int) *validation.Error {
	diag := validation.NewValidationError(severity, rule, err, line, column)
	diag.DocumentLocation = location
	return diag
}
