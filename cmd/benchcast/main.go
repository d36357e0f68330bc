package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aouyang1/go-benchcast"
	"github.com/aouyang1/go-benchcast/dataset"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configFile string
	verbose    bool
	cpuProfile string

	trainFile  string
	testFile   string
	schemaFile string

	reportFile string
	plotFile   string
	dbFile     string
	skipSubmit bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "benchcast",
		Short: "Benchmark forecasting methods on an hourly passenger count series",
		Long: `Splits the labelled history into a training prefix and a validation suffix, scores each
forecasting method by RMSE on the suffix, and writes submissions for holt's linear trend and
holt-winters refit on the full history.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Options file (JSON), defaults apply when omitted")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose logging")
	rootCmd.PersistentFlags().StringVar(&cpuProfile, "cpuprofile", "", "Write a cpu profile into this directory")
	rootCmd.PersistentFlags().StringVar(&trainFile, "train", "Train_SU63ISt.csv", "Labelled historical table")

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(diagnoseCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// setup loads the options and logger shared by every command and starts profiling when asked.
// The returned func stops profiling and flushes the logger.
func setup() (*benchcast.Options, *zap.Logger, func(), error) {
	logger, err := newLogger()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	opt, err := benchcast.LoadOptions(configFile)
	if err != nil {
		_ = logger.Sync()
		return nil, nil, nil, fmt.Errorf("failed to load options: %w", err)
	}

	var prof interface{ Stop() }
	if cpuProfile != "" {
		prof = profile.Start(profile.CPUProfile, profile.ProfilePath(cpuProfile), profile.Quiet)
	}
	return opt, logger, func() {
		if prof != nil {
			prof.Stop()
		}
		_ = logger.Sync()
	}, nil
}

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Evaluate every method and write the submissions",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opt, logger, done, err := setup()
			if err != nil {
				return err
			}
			defer done()

			if skipSubmit {
				opt.SubmissionOptions.Enabled = false
			}

			labeled, err := dataset.LoadLabeledFile(trainFile, opt.CSVOptions)
			if err != nil {
				return fmt.Errorf("failed to load labelled table: %w", err)
			}
			var (
				unlabeled *dataset.Unlabeled
				header    []string
			)
			if opt.SubmissionOptions.Enabled {
				if unlabeled, err = dataset.LoadUnlabeledFile(testFile, opt.CSVOptions); err != nil {
					return fmt.Errorf("failed to load unlabelled table: %w", err)
				}
				if header, err = dataset.LoadSchemaFile(schemaFile); err != nil {
					return fmt.Errorf("failed to load submission schema: %w", err)
				}
			}
			logger.Info("loaded tables", zap.Int("labeled", labeled.Series.Len()), zap.Int("unlabeled", unlabeled.Len()))

			b, err := benchcast.New(opt, logger)
			if err != nil {
				return err
			}
			report, err := b.Run(ctx, labeled, unlabeled, header)
			if err != nil {
				return fmt.Errorf("benchmark failed: %w", err)
			}

			if err := report.TablePrint(os.Stdout, "", "  "); err != nil {
				return err
			}

			if reportFile != "" {
				if err := report.WriteJSONFile(reportFile); err != nil {
					return err
				}
				logger.Info("wrote report", zap.String("path", reportFile))
			}
			if plotFile != "" {
				if err := writePlot(plotFile, report.PlotReport); err != nil {
					return err
				}
				logger.Info("wrote charts", zap.String("path", plotFile))
			}
			if dbFile != "" {
				if err := saveReport(ctx, dbFile, report, logger); err != nil {
					return err
				}
				logger.Info("stored run", zap.String("path", dbFile), zap.String("run_id", report.RunID.String()))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&testFile, "test", "Test_0qrQsBZ.csv", "Unlabelled future table")
	cmd.Flags().StringVar(&schemaFile, "schema", "Sample_Submission_QChS6c3.csv", "Sample submission whose header is reused")
	cmd.Flags().StringVar(&reportFile, "report", "", "Write the json report to this file")
	cmd.Flags().StringVar(&plotFile, "plot", "", "Write html charts of every forecast to this file")
	cmd.Flags().StringVar(&dbFile, "db", "", "Append the run to this duckdb database")
	cmd.Flags().BoolVar(&skipSubmit, "no-submit", false, "Skip the refit and the submission files")
	return cmd
}

func diagnoseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diagnose",
		Short: "Print the stationarity diagnostics of the labelled series",
		RunE: func(cmd *cobra.Command, args []string) error {
			opt, logger, done, err := setup()
			if err != nil {
				return err
			}
			defer done()

			labeled, err := dataset.LoadLabeledFile(trainFile, opt.CSVOptions)
			if err != nil {
				return fmt.Errorf("failed to load labelled table: %w", err)
			}
			b, err := benchcast.New(opt, logger)
			if err != nil {
				return err
			}
			diag, err := b.Diagnose(cmd.Context(), labeled.Series)
			if err != nil {
				return fmt.Errorf("diagnostic failed: %w", err)
			}
			if err := diag.ADF.TablePrint(os.Stdout, "", "  "); err != nil {
				return err
			}
			if plotFile != "" {
				if err := writePlot(plotFile, diag.PlotDiagnostic); err != nil {
					return err
				}
				logger.Info("wrote charts", zap.String("path", plotFile))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&plotFile, "plot", "", "Write html charts of the rolling statistics and decomposition to this file")
	return cmd
}
