package lint

import "github.com/spf13/cobra"

// Apply adds the lint, rules and budget commands to the provided root command
func Apply(rootCmd *cobra.Command) {
	rulesCmds.AddCommand(listRulesCmd)
	budgetCmds.AddCommand(validateBudgetCmd)

	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(rulesCmds)
	rootCmd.AddCommand(budgetCmds)
}

var rulesCmds = &cobra.Command{
	Use:   "rules",
	Short: "Inspect the available lint rules",
}

var budgetCmds = &cobra.Command{
	Use:   "budget",
	Short: "Work with performance budgets",
	Long: `Commands for working with the performance budgets of a lint configuration.

Budgets cap how long a rule may run on one file (max_time, in milliseconds), how many
nodes it may visit (max_nodes), how much heap may be in use when it finishes (max_memory,
in bytes) and how often it may perform a named operation (max_operations).`,
}
