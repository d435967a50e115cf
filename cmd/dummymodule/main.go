package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dummymodule/internal/config"
	"dummymodule/internal/dispatch"
	"dummymodule/internal/expr"
	"dummymodule/internal/fault"
	"dummymodule/internal/flagmap"
	"dummymodule/internal/input"
	"dummymodule/internal/logging"
	"dummymodule/internal/metrics"
)

// Confirmation is printed to stdout when --ok is given.
const Confirmation = "all good!"

// newRootCmd builds the root command. Flag parsing is disabled: every
// argument belongs to the simulated module and goes to the flag map as is.
func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dummymodule [--flag [value]]...",
		Short: "Configurable stand-in for a pipeline stage",
		Long: `dummymodule behaves like a pipeline stage whose behaviour is chosen by flags.

It always logs the flags it received to <output_dir>/cli.txt, then in order:
  --fail              abort with an injected failure
  --evaluate EXPR     evaluate digits, "input", + and * (input from --input)
  --input FLAG        read "result" from the JSON file named by --FLAG
  --name NAME         write <output_dir>/NAME_data.json
  --output PATH       write PATH under <output_dir>
  --ok                print a confirmation and exit 0

Configuration comes from the YAML file named by DUMMYMODULE_CONFIG and
DUMMYMODULE_* environment variables.`,
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		SilenceErrors:      true,
		SilenceUsage:       true,
		RunE:               runHarness,
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, errorLine(err))
		os.Exit(1)
	}
}

// errorLine formats a failed run for stderr.
func errorLine(err error) string {
	return "dummymodule: " + fault.Describe(err)
}

func runHarness(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.LoadFromEnv()
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		return &fault.Error{Kind: fault.KindConfiguration, Reason: "invalid configuration", Err: err}
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	logger = logger.With(zap.String(logging.FieldRunID, uuid.NewString()))
	logging.For(logger, logging.CategoryBoot).Debug("config loaded",
		zap.String("path", os.Getenv(config.EnvConfigPath)),
		zap.Any("limits", cfg.Limits),
	)

	collector := metrics.NewCollector(cfg.Metrics.Namespace, logging.For(logger, logging.CategoryMetrics))
	pipeline := dispatch.New(
		expr.New(cfg.EvaluatorLimits(), logging.For(logger, logging.CategoryEval)),
		input.NewResolver(logging.For(logger, logging.CategoryInput)),
		collector,
		logger,
	)

	flags := flagmap.Parse(args)
	logging.For(logger, logging.CategoryFlags).Debug("arguments parsed",
		zap.Int("tokens", len(args)),
		zap.Int("flags", flags.Len()),
	)

	out, runErr := pipeline.Run(ctx, flags)

	if path := cfg.Metrics.Textfile; path != "" {
		if err := collector.WriteTextfile(path); err != nil {
			logger.Warn("metrics export failed", zap.Error(err))
		}
	}

	if runErr != nil {
		logger.Error("run failed",
			zap.String("kind", fault.KindOf(runErr).String()),
			zap.Error(runErr),
		)
		return runErr
	}

	logger.Info("run finished", zap.Int("artifacts", len(out.Artifacts)), zap.Bool("ok", out.OK))
	if out.OK {
		fmt.Fprintln(cmd.OutOrStdout(), Confirmation)
	}
	return nil
}
