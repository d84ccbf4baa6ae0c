package lint

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/speakeasy-api/lintperf/cmd/lintperf/commands/cmdutil"
	"github.com/speakeasy-api/lintperf/jslint"
	"github.com/speakeasy-api/lintperf/linter"
	"github.com/speakeasy-api/lintperf/system"
	"github.com/spf13/cobra"
)

var listRulesCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available lint rules",
	Long: `List the built-in rules and the custom rules named by the configuration.

The table shows each rule's ID, category, default severity and summary, whether the
configuration enables it and, when performance tracking is enabled, its effective budget.

Examples:
  lintperf rules list
  lintperf rules list --config .lintperf.yaml
  lintperf rules list --json`,
	Args: cobra.NoArgs,
	Run:  runListRules,
}

var (
	listRulesConfigFile string
	listRulesJSON       bool
)

func init() {
	listRulesCmd.Flags().StringVarP(&listRulesConfigFile, "config", "c", "", "Path to lint config file (default: ./"+DefaultConfigFile+")")
	listRulesCmd.Flags().BoolVar(&listRulesJSON, "json", false, "Output rule documentation as JSON")
}

func runListRules(cmd *cobra.Command, _ []string) {
	err := listRules(&system.FileSystem{}, listRulesConfigFile, listRulesJSON, os.Stdout, cmdutil.NewLogger(os.Stderr, cmdutil.Verbose(cmd)))
	if err != nil {
		cmdutil.Die(err)
	}
}

func listRules(fsys system.VirtualFS, configFile string, asJSON bool, w io.Writer, logger *slog.Logger) error {
	config, err := loadConfig(fsys, configFile)
	if err != nil {
		return err
	}

	lint, err := jslint.NewLinter(config, jslint.WithFS(fsys), jslint.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to create linter: %w", err)
	}

	gen := linter.NewDocGenerator(lint.Registry()).WithConfig(config)
	if asJSON {
		return gen.WriteJSON(w)
	}
	return gen.WriteTable(w)
}
