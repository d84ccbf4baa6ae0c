package format

import (
	"strings"

	"github.com/speakeasy-api/lintperf/validation"
)

type Formatter interface {
	Format(results []error) (string, error)
}

// CategoryPerformance groups the diagnostics describing how rules performed.
const CategoryPerformance = "performance"

func categoryOf(vErr *validation.Error) string {
	if vErr.IsPerformance() {
		return CategoryPerformance
	}
	if idx := strings.Index(vErr.Rule, "-"); idx > 0 {
		return vErr.Rule[:idx]
	}
	return "unknown"
}

type counts struct {
	errors   int
	warnings int
	hints    int
}

func (c *counts) add(severity validation.Severity) {
	switch severity {
	case validation.SeverityError:
		c.errors++
	case validation.SeverityWarning:
		c.warnings++
	case validation.SeverityHint:
		c.hints++
	}
}
