package format

import (
	"errors"
	"fmt"
	"strings"

	"github.com/speakeasy-api/lintperf/validation"
)

type TextFormatter struct{}

func NewTextFormatter() *TextFormatter {
	return &TextFormatter{}
}

type textRow struct {
	location string
	severity string
	rule     string
	message  string
}

// Format writes one line per result with the location, severity and rule columns aligned.
func (f *TextFormatter) Format(results []error) (string, error) {
	rows := make([]textRow, 0, len(results))

	var c counts
	performance := 0

	for _, err := range results {
		var vErr *validation.Error
		if errors.As(err, &vErr) {
			msg := vErr.Message()
			if vErr.DocumentLocation != "" && !vErr.IsPerformance() {
				msg = fmt.Sprintf("%s (document: %s)", msg, vErr.DocumentLocation)
			}

			rows = append(rows, textRow{
				location: fmt.Sprintf("%d:%d", vErr.GetLineNumber(), vErr.GetColumnNumber()),
				severity: vErr.Severity.String(),
				rule:     vErr.Rule,
				message:  msg,
			})

			c.add(vErr.Severity)
			if vErr.IsPerformance() {
				performance++
			}
		} else {
			// Non-validation error
			rows = append(rows, textRow{
				location: "-",
				severity: validation.SeverityError.String(),
				rule:     validation.RuleInternal,
				message:  err.Error(),
			})
			c.errors++
		}
	}

	var locWidth, sevWidth, ruleWidth int
	for _, r := range rows {
		locWidth = max(locWidth, len(r.location))
		sevWidth = max(sevWidth, len(r.severity))
		ruleWidth = max(ruleWidth, len(r.rule))
	}

	var sb strings.Builder
	for _, r := range rows {
		fmt.Fprintf(&sb, "%*s %-*s %-*s %s\n", locWidth, r.location, sevWidth, r.severity, ruleWidth, r.rule, r.message)
	}

	if len(results) > 0 {
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "✖ %d problems (%d errors, %d warnings, %d hints)\n", len(results), c.errors, c.warnings, c.hints)
		if performance > 0 {
			fmt.Fprintf(&sb, "  %d of them performance reports\n", performance)
		}
	}

	return sb.String(), nil
}
