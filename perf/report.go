package perf

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/speakeasy-api/lintperf/validation"
)

var byteUnits = []string{"Bytes", "KB", "MB", "GB", "TB"}

// FormatBytes renders a byte count using binary units (factor 1024), rounded to at most
// decimals places with trailing zeros dropped.
func FormatBytes(bytes uint64, decimals int) string {
	if bytes == 0 {
		return "0 Bytes"
	}
	if decimals < 0 {
		decimals = 0
	}

	value := float64(bytes)
	unit := 0
	for value >= 1024 && unit < len(byteUnits)-1 {
		value /= 1024
		unit++
	}

	return formatFloat(value, decimals) + " " + byteUnits[unit]
}

func formatFloat(v float64, decimals int) string {
	scale := math.Pow(10, float64(decimals))
	return strconv.FormatFloat(math.Round(v*scale)/scale, 'f', -1, 64)
}

// FormatReport renders a finished session as a single line, for example:
//
//	[perf] signals-no-value-in-jsx: 1200 nodes in 12.5ms, memory 3.2 MB / 8 MB [BUDGET EXCEEDED by 2.5ms]
func FormatReport(m *Metrics) string {
	if m == nil {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "[perf] %s: %d nodes in %sms", m.RuleName, m.NodeCount, formatFloat(m.DurationMillis(), 2))

	if m.MemoryAtStop != nil {
		fmt.Fprintf(&sb, ", memory %s / %s", FormatBytes(m.MemoryAtStop.HeapUsed, 2), FormatBytes(m.MemoryAtStop.HeapTotal, 2))
	}

	if m.ExceededBudget {
		var overages []string
		if m.BudgetExceededBy > 0 {
			overages = append(overages, "by "+formatFloat(m.BudgetExceededBy, 2)+"ms")
		}
		if m.NodesExceededBy > 0 {
			overages = append(overages, fmt.Sprintf("nodes +%d", m.NodesExceededBy))
		}
		if m.MemoryExceededBy > 0 {
			overages = append(overages, "memory +"+FormatBytes(uint64(m.MemoryExceededBy), 2))
		}

		if len(overages) == 0 {
			sb.WriteString(" [BUDGET EXCEEDED]")
		} else {
			sb.WriteString(" [BUDGET EXCEEDED " + strings.Join(overages, ", ") + "]")
		}
	}

	return sb.String()
}

// NewReportDiagnostic turns a finished session into a performance diagnostic anchored at the
// start of the linted file.
func NewReportDiagnostic(m *Metrics) *validation.Error {
	severity := validation.SeverityHint
	if m.ExceededBudget {
		severity = validation.SeverityWarning
	}
	return validation.NewPerformanceError(severity, validation.RulePerformanceReport, m.FilePath, FormatReport(m))
}

// NewLimitDiagnostic describes a rule that was cut short by an operation cap.
func NewLimitDiagnostic(ruleName, filePath string, err *LimitExceededError) *validation.Error {
	msg := fmt.Sprintf("rule %s stopped early: operation %s reached %d (limit %d)", ruleName, err.Metric, err.Actual, err.Limit)
	return validation.NewPerformanceError(validation.SeverityWarning, validation.RulePerformanceLimit, filePath, msg)
}
