package lint

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/speakeasy-api/lintperf/cmd/lintperf/commands/cmdutil"
	"github.com/speakeasy-api/lintperf/jslint"
	"github.com/speakeasy-api/lintperf/linter"
	"github.com/speakeasy-api/lintperf/perf"
	"github.com/speakeasy-api/lintperf/system"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var validateBudgetCmd = &cobra.Command{
	Use:   "validate [config]",
	Short: "Validate the performance budgets of a lint configuration",
	Long: `Validate every performance budget of a lint configuration.

Invalid budgets never stop linting: the linter logs them and keeps going. This command
reports them and exits with an error so they can be caught in CI.

With --show the effective budget of every registered rule, after merging the per-rule
budget over the default budget, is printed as YAML.

Examples:
  lintperf budget validate
  lintperf budget validate .lintperf.yaml --show`,
	Args: cobra.MaximumNArgs(1),
	Run:  runValidateBudget,
}

var validateBudgetShow bool

func init() {
	validateBudgetCmd.Flags().BoolVar(&validateBudgetShow, "show", false, "Print the effective budget of every rule as YAML")
}

func runValidateBudget(cmd *cobra.Command, args []string) {
	logger := cmdutil.NewLogger(os.Stderr, cmdutil.Verbose(cmd))
	if err := validateBudgets(&system.FileSystem{}, cmdutil.ArgAt(args, 0, ""), validateBudgetShow, os.Stdout, logger); err != nil {
		cmdutil.Die(err)
	}
}

func validateBudgets(fsys system.VirtualFS, configFile string, show bool, w io.Writer, logger *slog.Logger) error {
	config, err := loadConfig(fsys, configFile)
	if err != nil {
		return err
	}

	warnings := config.Performance.BudgetWarnings()
	if len(warnings) == 0 {
		fmt.Fprintln(w, okStyle.Render("✓ performance budgets are valid"))
	} else {
		fmt.Fprintln(w, errorStyle.Render(fmt.Sprintf("✗ %d invalid performance budget setting(s)", len(warnings))))
		for _, warning := range warnings {
			fmt.Fprintf(w, "  %s\n", warning)
		}
	}

	if show {
		lint, err := jslint.NewLinter(config, jslint.WithFS(fsys), jslint.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("failed to create linter: %w", err)
		}
		if err := writeEffectiveBudgets(w, config.Performance, lint.Registry().AllRuleIDs()); err != nil {
			return err
		}
	}

	if len(warnings) > 0 {
		return fmt.Errorf("found %d invalid budget setting(s)", len(warnings))
	}
	return nil
}

func writeEffectiveBudgets(w io.Writer, cfg linter.PerformanceConfig, ruleIDs []string) error {
	budgets := make(map[string]*perf.Budget, len(ruleIDs))
	for _, id := range ruleIDs {
		if b := cfg.BudgetFor(id); b != nil {
			budgets[id] = b
		}
	}

	fmt.Fprintln(w, titleStyle.Render("Effective budgets"))
	if len(budgets) == 0 {
		fmt.Fprintln(w, detailStyle.Render("  no budgets configured"))
		return nil
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(budgets); err != nil {
		return fmt.Errorf("failed to encode budgets: %w", err)
	}
	return enc.Close()
}
