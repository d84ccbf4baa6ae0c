package format

import (
	"errors"
	"sort"
	"strings"

	"github.com/speakeasy-api/lintperf/validation"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// SummaryFormatter formats results as a per-rule summary table.
type SummaryFormatter struct {
	printer *message.Printer
}

// NewSummaryFormatter creates a new SummaryFormatter printing counts for English.
func NewSummaryFormatter() *SummaryFormatter {
	return NewSummaryFormatterForLanguage(language.English)
}

// NewSummaryFormatterForLanguage creates a SummaryFormatter that groups digits for tag.
func NewSummaryFormatterForLanguage(tag language.Tag) *SummaryFormatter {
	return &SummaryFormatter{printer: message.NewPrinter(tag)}
}

type ruleSummary struct {
	rule     string
	category string
	severity validation.Severity
	count    int
}

// Format outputs a per-rule summary table sorted by count descending.
func (f *SummaryFormatter) Format(results []error) (string, error) {
	byRule := make(map[string]*ruleSummary)

	var c counts
	for _, err := range results {
		var vErr *validation.Error
		if errors.As(err, &vErr) {
			rs, ok := byRule[vErr.Rule]
			if !ok {
				rs = &ruleSummary{
					rule:     vErr.Rule,
					category: categoryOf(vErr),
					severity: vErr.Severity,
				}
				byRule[vErr.Rule] = rs
			}
			// a rule's row shows its most severe diagnostic
			if severityRank(vErr.Severity) < severityRank(rs.severity) {
				rs.severity = vErr.Severity
			}
			rs.count++
			c.add(vErr.Severity)
		} else {
			rs, ok := byRule[validation.RuleInternal]
			if !ok {
				rs = &ruleSummary{
					rule:     validation.RuleInternal,
					category: validation.RuleInternal,
					severity: validation.SeverityError,
				}
				byRule[validation.RuleInternal] = rs
			}
			rs.count++
			c.errors++
		}
	}

	// Sort by count descending, then by rule name
	sorted := make([]*ruleSummary, 0, len(byRule))
	for _, rs := range byRule {
		sorted = append(sorted, rs)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].count != sorted[j].count {
			return sorted[i].count > sorted[j].count
		}
		return sorted[i].rule < sorted[j].rule
	})

	var sb strings.Builder
	p := f.printer
	if p == nil {
		p = message.NewPrinter(language.English)
	}

	// Header
	p.Fprintf(&sb, "%-50s %8s %12s %8s\n", "Rule", "Severity", "Category", "Count")
	sb.WriteString(strings.Repeat("─", 81))
	sb.WriteString("\n")

	for _, rs := range sorted {
		p.Fprintf(&sb, "%-50s %8s %12s %8d\n", rs.rule, rs.severity, rs.category, rs.count)
	}

	sb.WriteString(strings.Repeat("─", 81))
	sb.WriteString("\n")
	p.Fprintf(&sb, "✖ %d problems (%d errors, %d warnings, %d hints) across %d rules\n",
		len(results), c.errors, c.warnings, c.hints, len(byRule))

	return sb.String(), nil
}

func severityRank(s validation.Severity) int {
	switch s {
	case validation.SeverityError:
		return 0
	case validation.SeverityWarning:
		return 1
	default:
		return 2
	}
}
