package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ormasoftchile/subcheck/pkg/config"
	"github.com/ormasoftchile/subcheck/pkg/policy"
	"github.com/ormasoftchile/subcheck/pkg/report"
)

// Version is set at build time via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// options carries flag values and the state resolved from them before a
// subcommand runs.
type options struct {
	configPath string
	flags      config.Config
	strict     bool
	verbose    bool

	cfg    config.Config
	policy *policy.Policy
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	o := &options{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "subcheck",
		Short: "Validate an evaluation submission file",
		Long: "subcheck checks a line-delimited JSON submission: indices must be in ascending order\n" +
			"and must match the ground-truth index set of a reference CSV file.",
		SilenceUsage:      true,
		PersistentPreRunE: o.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = o.logger.Sync()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&o.configPath, "config", "c", "", "config file (default ./"+config.DefaultFile+" if present)")
	pf.StringVarP(&o.flags.Submission, "submission", "s", "", "submission file, one JSON object per line (default "+config.DefaultSubmission+")")
	pf.StringVarP(&o.flags.Reference, "reference", "r", "", "ground-truth CSV file (default "+config.DefaultReference+")")
	pf.StringVar(&o.flags.Column, "column", "", "reference column holding indices (default "+config.DefaultColumn+")")
	pf.StringVar(&o.flags.Format, "format", "", "output format: text or json (default text)")
	pf.IntVar(&o.flags.Width, "width", 0, "truncate index lists to this many columns (0 = no limit)")
	pf.StringVar(&o.flags.FailWhen, "fail-when", "", "expression over check counts that turns discrepancies into a non-zero exit")
	pf.BoolVar(&o.strict, "strict", false, "exit non-zero on any ordering or completeness discrepancy")
	pf.BoolVarP(&o.verbose, "verbose", "v", false, "enable debug logging on stderr")

	root.AddCommand(
		newOrderCmd(o),
		newMissingCmd(o),
		newAllCmd(o),
		newSchemaCmd(),
		newVersionCmd(),
	)
	return root
}

// setup builds the logger and resolves the effective configuration.
func (o *options) setup(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(o.verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	o.logger = logger

	path, required := o.configPath, true
	if path == "" {
		path, required = config.DefaultFile, false
	}
	fileCfg, err := config.LoadFile(path, required)
	if err != nil {
		return err
	}

	cfg := config.Default().Merge(*fileCfg).Merge(o.flags)
	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Width = o.flags.Width
	}
	switch {
	case flags.Changed("fail-when"):
		cfg.FailWhen = o.flags.FailWhen
	case flags.Changed("strict") && o.strict:
		if fileCfg.FailWhen != "" {
			o.logger.Info("--strict replaces fail_when from config",
				zap.String("config", path),
				zap.String("fail_when", fileCfg.FailWhen))
		}
		cfg.FailWhen = policy.Strict
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	o.cfg = cfg

	o.policy, err = policy.Compile(cfg.FailWhen)
	if err != nil {
		return err
	}

	o.logger.Debug("Configuration resolved",
		zap.String("config", path),
		zap.String("submission", cfg.Submission),
		zap.String("reference", cfg.Reference),
		zap.String("column", cfg.Column),
		zap.String("format", cfg.Format),
		zap.String("fail_when", cfg.FailWhen))
	return nil
}

func (o *options) reporter(cmd *cobra.Command) (report.Reporter, error) {
	return report.New(o.cfg.Format, cmd.OutOrStdout(), o.cfg.Width)
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

// skipSetup replaces the root setup hook for commands that never read the
// configuration.
func skipSetup(cmd *cobra.Command, args []string) error { return nil }

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "version",
		Short:             "Print version information",
		Args:              cobra.NoArgs,
		PersistentPreRunE: skipSetup,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "subcheck %s (%s)\n", version, commit)
			return err
		},
	}
}
