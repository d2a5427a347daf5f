package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mungbai/rangecat/internal/version"
	"github.com/mungbai/rangecat/pkg/rangecat"
	"github.com/mungbai/rangecat/pkg/rangecat/config"
	"github.com/mungbai/rangecat/pkg/rangecat/errors"
	"github.com/mungbai/rangecat/pkg/rangecat/logging"
	"github.com/mungbai/rangecat/pkg/rangecat/present"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	var (
		verbosity  int
		configPath string
		outputFile string
		workers    int
	)

	rootCmd := &cobra.Command{
		Use:   "rangecat <min> <max>",
		Short: "Categorize every integer in a range",
		Long: `rangecat runs every integer in [min, max] through a configured set of
categories and reports the labels each number earned. Categories are
either built in (even, odd, prime) or small Python-style lambda rules
compiled from the configuration file.`,
		Version: version.Version,
		Args:    cobra.ExactArgs(2),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(args, configPath, outputFile, workers)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the configuration file")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0, "Number of analysis workers (0 = serial)")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write results to an RTF file instead of the console")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newServeCmd(&configPath, &workers))

	return rootCmd
}

func runAnalyze(args []string, configPath, outputFile string, workers int) error {
	logger := logging.GetLogger("cmd")

	min, err := parseBound(args[0], "minimum")
	if err != nil {
		return err
	}
	max, err := parseBound(args[1], "maximum")
	if err != nil {
		return err
	}

	engine, cfg, err := buildEngine(configPath, workers)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	records, err := engine.Analyze(ctx, min, max)
	if err != nil {
		return err
	}

	logger.Info().
		Int64("min", min).
		Int64("max", max).
		Int("records", len(records)).
		Int("categories", len(engine.Categories())).
		Msg("Analysis complete")

	outputDir := cfg.Output.Dir

	if outputFile != "" {
		path, err := present.SaveRTF(outputDir, outputFile, min, max, records)
		if err != nil {
			return err
		}
		fmt.Printf("Results saved to: %s\n", path)
		return nil
	}

	size := rangecat.RangeSize(min, max)
	if size > uint64(engine.Limits().RangeWarning) && promptSaveToFile(size) {
		path, err := present.SaveRTF(outputDir, "", min, max, records)
		if err != nil {
			return err
		}
		fmt.Printf("Results saved to: %s\n", path)
		return nil
	}

	return present.NewConsoleWriter(os.Stdout).Write(min, max, records)
}

// buildEngine loads configuration, compiles the configured categories,
// and assembles the analysis engine shared by the CLI and the
// dashboard.
func buildEngine(configPath string, workers int) (*rangecat.Engine, *config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	categories, skipped := rangecat.CompileCategories(cfg.RuleSpecs(), cfg.AnalysisLimits())
	if len(categories) == 0 {
		return nil, nil, errors.New(errors.ErrConfigInvalid,
			"no usable categories: every configured rule failed to compile").
			WithDetail("failures", len(skipped))
	}

	engine := rangecat.NewEngine(categories, cfg.AnalysisLimits())
	if workers > 0 {
		engine.SetWorkers(workers)
	}
	return engine, cfg, nil
}

func parseBound(arg, name string) (int64, error) {
	v, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, errors.Newf(errors.ErrInvalidInput, "invalid %s %q: expected an integer", name, arg)
	}
	return v, nil
}
