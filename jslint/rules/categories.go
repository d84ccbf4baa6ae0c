package rules

// Rule categories for JS/TS source linting

const (
	// CategorySignals represents rules about reactive signal usage
	// Examples: reading signal.value in JSX, subscribing whole components
	CategorySignals = "signals"

	// CategoryBestPractices represents rules that flag code which works but should not ship
	// Examples: leftover console calls, debugger statements
	CategoryBestPractices = "best-practices"
)

// Operation names counted against max_operations budgets.
const (
	OperationSignalAccess = "signalAccess"
	OperationConsoleCall  = "consoleCall"
)

// jsExtensions are the source files the built-in rules understand.
var jsExtensions = []string{".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs"}
