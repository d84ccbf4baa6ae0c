package format

import (
	"encoding/json"
	"errors"

	"github.com/speakeasy-api/lintperf/validation"
)

type JSONFormatter struct{}

func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

type jsonOutput struct {
	Results []jsonResult `json:"results"`
	Summary jsonSummary  `json:"summary"`
}

type jsonResult struct {
	Rule     string       `json:"rule"`
	Category string       `json:"category"`
	Kind     string       `json:"kind"`
	Severity string       `json:"severity"`
	Message  string       `json:"message"`
	Location jsonLocation `json:"location"`
	Document string       `json:"document,omitempty"`
}

type jsonLocation struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

type jsonSummary struct {
	Total       int `json:"total"`
	Errors      int `json:"errors"`
	Warnings    int `json:"warnings"`
	Hints       int `json:"hints"`
	Performance int `json:"performance"`
}

func (f *JSONFormatter) Format(results []error) (string, error) {
	output := jsonOutput{
		Results: make([]jsonResult, 0, len(results)),
	}

	var c counts
	for _, err := range results {
		var vErr *validation.Error
		if errors.As(err, &vErr) {
			kind := vErr.Kind
			if kind == "" {
				kind = validation.KindViolation
			}

			output.Results = append(output.Results, jsonResult{
				Rule:     vErr.Rule,
				Category: categoryOf(vErr),
				Kind:     string(kind),
				Severity: vErr.Severity.String(),
				Message:  vErr.Message(),
				Location: jsonLocation{
					Line:   vErr.GetLineNumber(),
					Column: vErr.GetColumnNumber(),
				},
				Document: vErr.DocumentLocation,
			})

			c.add(vErr.Severity)
			if vErr.IsPerformance() {
				output.Summary.Performance++
			}
		} else {
			// Non-validation error
			output.Results = append(output.Results, jsonResult{
				Rule:     validation.RuleInternal,
				Category: validation.RuleInternal,
				Kind:     string(validation.KindViolation),
				Severity: validation.SeverityError.String(),
				Message:  err.Error(),
			})
			c.errors++
		}
	}

	output.Summary.Total = len(results)
	output.Summary.Errors = c.errors
	output.Summary.Warnings = c.warnings
	output.Summary.Hints = c.hints

	bytes, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return "", err
	}

	return string(bytes), nil
}
