package customrules

import (
	"context"
	"fmt"
	"time"

	"github.com/dop251/goja"
	"github.com/go-sourcemap/sourcemap"
	"github.com/speakeasy-api/lintperf/errors"
	"github.com/speakeasy-api/lintperf/linter"
	"github.com/speakeasy-api/lintperf/perf"
	"github.com/speakeasy-api/lintperf/source"
	"github.com/speakeasy-api/lintperf/validation"
)

// ErrRuleTimeout is returned when a custom rule runs longer than its configured timeout.
const ErrRuleTimeout errors.Error = "custom rule execution timeout"

// CustomRule wraps a JavaScript rule object and implements linter.RuleRunner.
type CustomRule struct {
	runtime    *Runtime
	jsRule     goja.Value
	sourceFile string
	sourceMap  *sourcemap.Consumer
	config     *Config

	// Cached metadata from JS
	id          string
	category    string
	description string
	summary     string
	link        string
	severity    validation.Severity
	extensions  []string
}

var _ linter.RuleRunner[*source.File] = (*CustomRule)(nil)

// NewCustomRule creates a new CustomRule from a JavaScript rule object.
func NewCustomRule(rt *Runtime, jsRule goja.Value, sourceFile string, sm *sourcemap.Consumer, config *Config) (*CustomRule, error) {
	rule := &CustomRule{
		runtime:    rt,
		jsRule:     jsRule,
		sourceFile: sourceFile,
		sourceMap:  sm,
		config:     config,
	}

	if err := rule.extractMetadata(); err != nil {
		return nil, err
	}

	return rule, nil
}

// extractMetadata calls JS methods to extract rule metadata.
func (r *CustomRule) extractMetadata() error {
	id, err := r.callStringMethod("id")
	if err != nil {
		return fmt.Errorf("getting rule id: %w", err)
	}
	if id == "" {
		return errors.New("rule id() returned empty string")
	}
	r.id = id

	category, err := r.callStringMethod("category")
	if err != nil {
		return fmt.Errorf("getting rule category: %w", err)
	}
	r.category = category

	description, err := r.callStringMethod("description")
	if err != nil {
		return fmt.Errorf("getting rule description: %w", err)
	}
	r.description = description

	summary, err := r.callStringMethod("summary")
	if err != nil {
		return fmt.Errorf("getting rule summary: %w", err)
	}
	r.summary = summary

	// Optional
	r.link, _ = r.callStringMethod("link")

	severityStr, _ := r.callStringMethod("defaultSeverity")
	r.severity = validation.ParseSeverity(severityStr)
	if severityStr == "" {
		r.severity = validation.SeverityWarning
	}

	r.extensions, _ = r.callStringArrayMethod("extensions")

	return nil
}

func (r *CustomRule) callStringMethod(method string) (string, error) {
	result, err := r.runtime.CallMethod(r.jsRule, method)
	if err != nil {
		return "", err
	}
	if result == nil || goja.IsUndefined(result) || goja.IsNull(result) {
		return "", nil
	}
	return result.String(), nil
}

func (r *CustomRule) callStringArrayMethod(method string) ([]string, error) {
	result, err := r.runtime.CallMethod(r.jsRule, method)
	if err != nil {
		return nil, err
	}
	if result == nil || goja.IsUndefined(result) || goja.IsNull(result) {
		return nil, nil
	}

	arr, ok := result.Export().([]any)
	if !ok || len(arr) == 0 {
		return nil, nil
	}
	out := make([]string, len(arr))
	for i, v := range arr {
		out[i] = fmt.Sprint(v)
	}
	return out, nil
}

func (r *CustomRule) ID() string                           { return r.id }
func (r *CustomRule) Category() string                     { return r.category }
func (r *CustomRule) Description() string                  { return r.description }
func (r *CustomRule) Summary() string                      { return r.summary }
func (r *CustomRule) Link() string                         { return r.link }
func (r *CustomRule) DefaultSeverity() validation.Severity { return r.severity }
func (r *CustomRule) Extensions() []string                 { return r.extensions }

// SourceFile returns the rule file the rule was loaded from.
func (r *CustomRule) SourceFile() string { return r.sourceFile }

// Run executes the JavaScript rule against the document as rule.run(ctx, doc, config).
func (r *CustomRule) Run(ctx context.Context, docInfo *linter.DocumentInfo[*source.File], config *linter.RuleConfig) []error {
	rt := r.runtime
	rt.mu.Lock()
	defer rt.mu.Unlock()

	rt.ClearInterrupt()

	timeout := r.config.GetTimeout()
	timer := time.AfterFunc(timeout, func() {
		rt.Interrupt(ErrRuleTimeout.Wrapf("rule %s exceeded %s", r.id, timeout))
	})
	stopCtx := context.AfterFunc(ctx, func() {
		rt.Interrupt(ctx.Err())
	})
	defer func() {
		timer.Stop()
		stopCtx()
		rt.ClearInterrupt()
	}()

	runMethod := r.jsRule.ToObject(rt.vm).Get("run")
	if runMethod == nil || goja.IsUndefined(runMethod) {
		return []error{fmt.Errorf("rule %s has no run method", r.id)}
	}

	callable, ok := goja.AssertFunction(runMethod)
	if !ok {
		return []error{fmt.Errorf("rule %s: run is not a function", r.id)}
	}

	helper := newRuleConfigHelper(config)

	result, err := callable(
		r.jsRule,
		rt.ToValue(NewBridgedContext(ctx)),
		r.documentValue(docInfo),
		rt.ToValue(helper),
	)
	if err != nil {
		if helper.limitErr != nil {
			return []error{helper.limitErr}
		}
		return r.handleError(err)
	}

	errs := r.convertErrors(result, docInfo.Location)
	if helper.limitErr != nil {
		errs = append(errs, helper.limitErr)
	}
	return errs
}

// documentValue exposes the document to JS as {path, content, lines, lineCol(offset)}.
func (r *CustomRule) documentValue(docInfo *linter.DocumentInfo[*source.File]) goja.Value {
	vm := r.runtime.vm
	doc := vm.NewObject()

	file := docInfo.Document
	if file == nil {
		file = source.New(docInfo.Location, "")
	}

	lines := file.Lines()
	jsLines := make([]any, len(lines))
	for i, l := range lines {
		jsLines[i] = l
	}

	_ = doc.Set("path", docInfo.Location)
	_ = doc.Set("content", file.Content)
	_ = doc.Set("lines", vm.NewArray(jsLines...))
	_ = doc.Set("lineCol", func(offset int) map[string]int {
		line, col := file.LineCol(offset)
		return map[string]int{"line": line, "column": col}
	})

	return doc
}

// handleError handles errors from JS execution.
func (r *CustomRule) handleError(err error) []error {
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		if cause := interrupted.Unwrap(); cause != nil {
			return []error{cause}
		}
		return []error{ErrRuleTimeout.Wrapf("rule %s interrupted", r.id)}
	}

	var exc *goja.Exception
	if errors.As(err, &exc) {
		return []error{fmt.Errorf("rule %s: %w", r.id, MapException(exc, r.sourceFile, r.sourceMap))}
	}

	return []error{fmt.Errorf("rule %s: %w", r.id, err)}
}

// convertErrors converts the JS result array to Go errors.
func (r *CustomRule) convertErrors(result goja.Value, location string) []error {
	if result == nil || goja.IsUndefined(result) || goja.IsNull(result) {
		return nil
	}

	arr, ok := result.Export().([]any)
	if !ok {
		return nil
	}

	var errs []error
	for _, item := range arr {
		switch v := item.(type) {
		case *validation.Error:
			if v.Rule == "" {
				v.Rule = r.id
			}
			if v.DocumentLocation == "" {
				v.DocumentLocation = location
			}
			errs = append(errs, v)
		case error:
			errs = append(errs, v)
		case string:
			diag := validation.NewValidationError(r.severity, r.id, errors.New(v), 1, 1)
			diag.DocumentLocation = location
			errs = append(errs, diag)
		}
	}

	return errs
}

// ruleConfigHelper provides JS-friendly access to RuleConfig and its performance session.
type ruleConfigHelper struct {
	config   *linter.RuleConfig
	tracker  *perf.RuleTracker
	limitErr *perf.LimitExceededError
}

func newRuleConfigHelper(config *linter.RuleConfig) *ruleConfigHelper {
	h := &ruleConfigHelper{config: config}
	if config != nil {
		h.tracker = config.Tracker
	}
	return h
}

// GetSeverity returns the effective severity as a string.
func (h *ruleConfigHelper) GetSeverity(defaultSeverity string) string {
	defSev := validation.ParseSeverity(defaultSeverity)
	return string(h.config.GetSeverity(defSev))
}

// Enabled returns whether the rule is enabled.
func (h *ruleConfigHelper) Enabled() bool {
	if h.config == nil || h.config.Enabled == nil {
		return true
	}
	return *h.config.Enabled
}

// Options returns the rule options from the lint config.
func (h *ruleConfigHelper) Options() map[string]any {
	if h.config == nil || h.config.Options == nil {
		return map[string]any{}
	}
	return h.config.Options
}

// Tracked reports whether the invocation is tracked.
func (h *ruleConfigHelper) Tracked() bool {
	return h.tracker != nil
}

func (h *ruleConfigHelper) TrackNode(nodeType string) {
	h.tracker.TrackNode(nodeType)
}

// TrackOperation counts an operation (1 when count is omitted). Passing the operation cap
// throws in JS; the limit error is reported even if the rule catches it.
func (h *ruleConfigHelper) TrackOperation(name string, count ...int) error {
	n := 1
	if len(count) > 0 {
		n = count[0]
	}

	err := h.tracker.TrackOperation(name, n)
	if err == nil {
		return nil
	}

	var limitErr *perf.LimitExceededError
	if errors.As(err, &limitErr) && h.limitErr == nil {
		h.limitErr = limitErr
	}
	return err
}

func (h *ruleConfigHelper) StartPhase(name string) {
	h.tracker.StartPhase(name)
}

func (h *ruleConfigHelper) EndPhase(name string) {
	h.tracker.EndPhase(name)
}

func (h *ruleConfigHelper) RecordMetric(name string, value any) {
	h.tracker.RecordMetric(name, value)
}
