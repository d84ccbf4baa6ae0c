package lint

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/speakeasy-api/lintperf/cmd/lintperf/commands/cmdutil"
	"github.com/speakeasy-api/lintperf/jslint"
	"github.com/speakeasy-api/lintperf/linter"
	"github.com/speakeasy-api/lintperf/perf"
	"github.com/speakeasy-api/lintperf/perf/promexport"
	"github.com/speakeasy-api/lintperf/source"
	"github.com/speakeasy-api/lintperf/system"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var lintCmd = &cobra.Command{
	Use:   "lint [files...]",
	Short: "Lint JavaScript and TypeScript sources",
	Long: `Lint JavaScript and TypeScript sources and track the performance of every rule.

Each rule invocation on each file is tracked as one performance session. When performance
tracking is enabled in the configuration, rules that exceed their budget are listed after
the findings, and with --metrics-textfile the sessions are written in the Prometheus text
format for the node exporter textfile collector.

Use '-' as the file argument, or pipe data without arguments, to read from stdin:
  cat app.tsx | lintperf lint

CONFIGURATION:

By default, the linter reads .lintperf.yaml from the working directory if it exists.
Use --config to specify a custom configuration file.

Available rulesets: all (default), recommended, strict

Example configuration (.lintperf.yaml):

  extends: recommended

  rules:
    signals-no-value-in-jsx:
      severity: error

  performance:
    enabled: true
    budget:
      max_time: 100
      max_nodes: 5000
      max_operations:
        signalAccess: 200

  custom_rules:
    paths:
      - ./rules/*.ts`,
	Args: cmdutil.StdinOrFileArgs(0, -1),
	Run:  runLint,
}

var (
	lintConfigFile      string
	lintOutputFormat    string
	lintMetricsTextfile string
	lintConcurrency     int
)

func init() {
	lintCmd.Flags().StringVarP(&lintConfigFile, "config", "c", "", "Path to lint config file (default: ./"+DefaultConfigFile+")")
	lintCmd.Flags().StringVarP(&lintOutputFormat, "format", "f", "", "Output format: text, json or summary (default loads from config)")
	lintCmd.Flags().StringVar(&lintMetricsTextfile, "metrics-textfile", "", "Write rule performance metrics to this file in Prometheus text format")
	lintCmd.Flags().IntVar(&lintConcurrency, "concurrency", 4, "Number of files linted at once (0 = unlimited)")
}

type lintOptions struct {
	ConfigFile      string
	Format          string
	MetricsTextfile string
	Concurrency     int
	Verbose         bool

	FS     system.VirtualFS
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func runLint(cmd *cobra.Command, args []string) {
	start := time.Now()

	err := lintFiles(cmd.Context(), lintOptions{
		ConfigFile:      lintConfigFile,
		Format:          lintOutputFormat,
		MetricsTextfile: lintMetricsTextfile,
		Concurrency:     lintConcurrency,
		Verbose:         cmdutil.Verbose(cmd),
		FS:              &system.FileSystem{},
		Stdin:           os.Stdin,
		Stdout:          os.Stdout,
		Stderr:          os.Stderr,
	}, cmdutil.FilesFromArgs(args))
	reportElapsed(os.Stderr, "Linting", time.Since(start))

	if err != nil {
		cmdutil.Die(err)
	}
}

func lintFiles(ctx context.Context, opts lintOptions, files []string) error {
	logger := cmdutil.NewLogger(opts.Stderr, opts.Verbose)

	config, err := loadConfig(opts.FS, opts.ConfigFile)
	if err != nil {
		return err
	}
	if opts.Format != "" {
		config.OutputFormat = linter.OutputFormat(opts.Format)
		if err := config.Validate(); err != nil {
			return err
		}
	}
	for _, warning := range config.Performance.BudgetWarnings() {
		logger.Warn("invalid performance budget", slog.String("problem", warning))
	}

	trackerOpts := []perf.Option{perf.WithSessionScopedPhases(), perf.WithLogger(logger)}

	var exporter *promexport.Exporter
	if opts.MetricsTextfile != "" {
		exporter = promexport.New()
		trackerOpts = append(trackerOpts, perf.WithObserver(exporter))
	}

	lint, err := jslint.NewLinter(config,
		jslint.WithTracker(perf.New(trackerOpts...)),
		jslint.WithLogger(logger),
		jslint.WithFS(opts.FS),
	)
	if err != nil {
		return fmt.Errorf("failed to create linter: %w", err)
	}

	outputs, err := lintAll(ctx, lint, opts, files)
	if err != nil {
		return err
	}

	if err := writeOutputs(opts.Stdout, config.OutputFormat, files, outputs); err != nil {
		return err
	}

	if config.Performance.Enabled {
		writePerformanceSummary(opts.Stderr, outputs, opts.Verbose)
	}

	if exporter != nil {
		if err := exporter.WriteTextfile(opts.MetricsTextfile); err != nil {
			return err
		}
		logger.Debug("wrote metrics textfile", slog.String("path", opts.MetricsTextfile))
	}

	errorCount := 0
	for _, output := range outputs {
		errorCount += output.ErrorCount()
	}
	if errorCount > 0 {
		return fmt.Errorf("linting found %d errors", errorCount)
	}

	return nil
}

// lintAll lints files concurrently. Outputs are returned in the order of files.
func lintAll(ctx context.Context, lint *jslint.Linter, opts lintOptions, files []string) ([]*linter.Output, error) {
	outputs := make([]*linter.Output, len(files))

	g, ctx := errgroup.WithContext(ctx)
	if opts.Concurrency > 0 {
		g.SetLimit(opts.Concurrency)
	}

	for i, path := range files {
		g.Go(func() error {
			file, err := readSource(opts, path)
			if err != nil {
				return err
			}

			output, err := lint.Lint(ctx, file)
			if err != nil {
				return fmt.Errorf("linting %s failed: %w", file.Path, err)
			}
			outputs[i] = output
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outputs, nil
}

func readSource(opts lintOptions, path string) (*source.File, error) {
	if !cmdutil.IsStdin(path) {
		return source.Load(opts.FS, path)
	}

	data, err := io.ReadAll(opts.Stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return source.New(cmdutil.StdinName, string(data)), nil
}

func writeOutputs(w io.Writer, format linter.OutputFormat, files []string, outputs []*linter.Output) error {
	switch format {
	case linter.OutputFormatJSON, linter.OutputFormatSummary:
		var all []error
		for _, output := range outputs {
			all = append(all, output.Results...)
		}
		merged := &linter.Output{Results: all, Format: format}

		s, err := merged.Formatter().Format(merged.Results)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, s)
		return err
	default:
		for i, output := range outputs {
			name := files[i]
			if cmdutil.IsStdin(name) {
				name = cmdutil.StdinName
			}
			if _, err := fmt.Fprintf(w, "%s\n%s\n", name, output.FormatText()); err != nil {
				return err
			}
		}
		return nil
	}
}

// writePerformanceSummary lists the sessions that went over budget. When verbose every session
// is listed.
func writePerformanceSummary(w io.Writer, outputs []*linter.Output, verbose bool) {
	var records, exceeded []*perf.Metrics
	for _, output := range outputs {
		records = append(records, output.PerformanceRecords...)
		exceeded = append(exceeded, output.ExceededBudgets()...)
	}

	if len(exceeded) == 0 {
		fmt.Fprintln(w, okStyle.Render(fmt.Sprintf("All %d rule sessions within budget", len(records))))
	} else {
		fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("%d of %d rule sessions exceeded their budget", len(exceeded), len(records))))
		for _, m := range exceeded {
			fmt.Fprintf(w, "  %s %s\n", perf.FormatReport(m), detailStyle.Render(m.FilePath))
		}
	}

	if !verbose {
		return
	}

	fmt.Fprintln(w, titleStyle.Render("Rule sessions"))
	for _, m := range records {
		if m.ExceededBudget {
			continue
		}
		fmt.Fprintf(w, "  %s %s\n", perf.FormatReport(m), detailStyle.Render(m.FilePath))
	}
}
