package customrules

import (
	"context"
	"fmt"
	"sync"

	"github.com/dop251/goja"
	"github.com/dop251/goja/parser"
	"github.com/speakeasy-api/lintperf/errors"
	"github.com/speakeasy-api/lintperf/validation"
)

// Runtime wraps a goja JavaScript runtime with custom rule support.
// goja runtimes are not thread-safe; rules sharing a Runtime serialize their calls through it.
type Runtime struct {
	mu     sync.Mutex
	vm     *goja.Runtime
	logger Logger

	// registeredRules holds rules registered via registerRule()
	registeredRules []goja.Value
}

// NewRuntime creates a new JavaScript runtime configured for custom rules.
func NewRuntime(logger Logger) (*Runtime, error) {
	vm := goja.New()

	// Go fields and methods are exposed with their first letter lowercased
	vm.SetFieldNameMapper(goja.UncapFieldNameMapper())

	rt := &Runtime{
		vm:     vm,
		logger: logger,
	}

	if err := rt.setupConsole(); err != nil {
		return nil, fmt.Errorf("setting up console: %w", err)
	}

	if err := rt.setupGlobals(); err != nil {
		return nil, fmt.Errorf("setting up globals: %w", err)
	}

	return rt, nil
}

// setupConsole creates the console object with log, info, warn, error methods.
func (rt *Runtime) setupConsole() error {
	console := rt.vm.NewObject()

	methods := map[string]func(args ...any){
		"log":   rt.logger.Log,
		"info":  rt.logger.Log,
		"warn":  rt.logger.Warn,
		"error": rt.logger.Error,
	}
	for name, fn := range methods {
		if err := console.Set(name, func(call goja.FunctionCall) goja.Value {
			fn(rt.formatArgs(call.Arguments)...)
			return goja.Undefined()
		}); err != nil {
			return err
		}
	}

	return rt.vm.Set("console", console)
}

// formatArgs converts goja values to Go values for logging.
func (rt *Runtime) formatArgs(args []goja.Value) []any {
	result := make([]any, len(args))
	for i, arg := range args {
		result[i] = arg.Export()
	}
	return result
}

// setupGlobals sets up global functions available to custom rules.
func (rt *Runtime) setupGlobals() error {
	// registerRule(rule) registers a rule class instance
	if err := rt.vm.Set("registerRule", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 || goja.IsUndefined(call.Arguments[0]) || goja.IsNull(call.Arguments[0]) {
			panic(rt.vm.NewTypeError("registerRule requires a rule argument"))
		}
		rt.registeredRules = append(rt.registeredRules, call.Arguments[0])
		return goja.Undefined()
	}); err != nil {
		return err
	}

	// createDiagnostic(severity, ruleId, message, line?, column?)
	return rt.vm.Set("createDiagnostic", rt.createDiagnostic)
}

// createDiagnostic is the JS-callable function for creating diagnostics.
func (rt *Runtime) createDiagnostic(call goja.FunctionCall) goja.Value {
	if len(call.Arguments) < 3 {
		panic(rt.vm.NewTypeError("createDiagnostic requires at least 3 arguments: severity, ruleId, message"))
	}

	severity := validation.ParseSeverity(call.Argument(0).String())
	ruleID := call.Argument(1).String()
	message := call.Argument(2).String()

	line, column := 1, 1
	if v := call.Argument(3); !goja.IsUndefined(v) && !goja.IsNull(v) {
		line = int(v.ToInteger())
	}
	if v := call.Argument(4); !goja.IsUndefined(v) && !goja.IsNull(v) {
		column = int(v.ToInteger())
	}

	return rt.vm.ToValue(validation.NewValidationError(severity, ruleID, errors.New(message), line, column))
}

// RunScript executes JavaScript code in the runtime. Inline source maps are left to the caller,
// so exception positions refer to the generated code.
func (rt *Runtime) RunScript(name, code string) (goja.Value, error) {
	ast, err := goja.Parse(name, code, parser.WithDisableSourceMaps)
	if err != nil {
		return nil, err
	}
	prg, err := goja.CompileAST(ast, false)
	if err != nil {
		return nil, err
	}

	rt.mu.Lock()
	defer rt.mu.Unlock()

	return rt.vm.RunProgram(prg)
}

// GetRegisteredRules returns all rules registered via registerRule().
func (rt *Runtime) GetRegisteredRules() []goja.Value {
	return rt.registeredRules
}

// ToValue converts a Go value to a goja value.
func (rt *Runtime) ToValue(v any) goja.Value {
	return rt.vm.ToValue(v)
}

// Interrupt interrupts the currently running JavaScript.
func (rt *Runtime) Interrupt(reason any) {
	rt.vm.Interrupt(reason)
}

// ClearInterrupt clears any pending interrupt.
func (rt *Runtime) ClearInterrupt() {
	rt.vm.ClearInterrupt()
}

// CallMethod calls a method on a JavaScript object.
func (rt *Runtime) CallMethod(obj goja.Value, method string, args ...goja.Value) (goja.Value, error) {
	objVal := obj.ToObject(rt.vm)
	if objVal == nil {
		return nil, errors.New("object is nil")
	}

	methodVal := objVal.Get(method)
	if methodVal == nil || goja.IsUndefined(methodVal) {
		return nil, fmt.Errorf("method %s not found", method)
	}

	callable, ok := goja.AssertFunction(methodVal)
	if !ok {
		return nil, fmt.Errorf("%s is not a function", method)
	}

	return callable(obj, args...)
}

// BridgedContext wraps a Go context for JavaScript access.
type BridgedContext struct {
	ctx context.Context
}

// NewBridgedContext creates a JavaScript-accessible context wrapper.
func NewBridgedContext(ctx context.Context) *BridgedContext {
	return &BridgedContext{ctx: ctx}
}

// IsCancelled returns true if the context has been cancelled.
func (bc *BridgedContext) IsCancelled() bool {
	return bc.ctx.Err() != nil
}

// Deadline returns the deadline in milliseconds since epoch, or null if no deadline.
func (bc *BridgedContext) Deadline() any {
	deadline, ok := bc.ctx.Deadline()
	if !ok {
		return nil
	}
	return deadline.UnixMilli()
}
