package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/aifeels-org/aifeels-conformance-suite/pkg/aifeels"
	"github.com/aifeels-org/aifeels-conformance-suite/pkg/assertion"
	"github.com/aifeels-org/aifeels-conformance-suite/pkg/env"
	"github.com/aifeels-org/aifeels-conformance-suite/pkg/logging"
	"github.com/aifeels-org/aifeels-conformance-suite/pkg/metrics"
	"github.com/aifeels-org/aifeels-conformance-suite/pkg/monitor"
	"github.com/aifeels-org/aifeels-conformance-suite/pkg/plugin"
	"github.com/aifeels-org/aifeels-conformance-suite/pkg/remote"
	"github.com/aifeels-org/aifeels-conformance-suite/pkg/report"
	"github.com/aifeels-org/aifeels-conformance-suite/pkg/runner"
	"github.com/aifeels-org/aifeels-conformance-suite/pkg/subject"
	"github.com/aifeels-org/aifeels-conformance-suite/pkg/vector"
)

// Default file locations, mirroring the reference validator layout.
const (
	DefaultVectorsPath = "test-vectors/test-vectors.json"
	DefaultReportPath  = "conformance-report.json"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions

	Vectors     string
	Report      string
	Format      string
	History     string
	Parallel    int
	Timeout     time.Duration
	MonitorAddr string
	RemoteURL   string
	RemoteToken string
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <implementation>",
		Short: "Run the conformance suite against an implementation",
		Long: `Run every test vector against the named implementation and write a
conformance report.

The implementation is resolved against the registry of built-in
implementations, plus the remote service when --remote is given.
Exit code 0 means every test passed.

Example:
  aifeels-conformance run aifeels-go
  aifeels-conformance run aifeels-py --remote http://localhost:8080`,
		Args: exactArgsWithUsage(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConformance(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Vectors, "vectors", "",
		"test vector file (default AIFEELS_VECTORS or "+DefaultVectorsPath+")")
	cmd.Flags().StringVar(&opts.Report, "report", "",
		"report output path (default AIFEELS_REPORT or "+DefaultReportPath+")")
	cmd.Flags().StringVar(&opts.Format, "format", "json",
		"report format (json|markdown|html)")
	cmd.Flags().StringVar(&opts.History, "history", "",
		"append a run summary line to this JSON-lines history file")
	cmd.Flags().IntVar(&opts.Parallel, "parallel", 1,
		"number of tests to run concurrently")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 0,
		"per-test timeout (0 disables)")
	cmd.Flags().StringVar(&opts.MonitorAddr, "monitor", "",
		"serve live run events on this address (default AIFEELS_MONITOR_ADDR)")
	cmd.Flags().StringVar(&opts.RemoteURL, "remote", "",
		"base URL of a remote implementation service (default AIFEELS_REMOTE_URL)")
	cmd.Flags().StringVar(&opts.RemoteToken, "token", "",
		"bearer token for the remote service (default AIFEELS_REMOTE_TOKEN)")

	return cmd
}

func runConformance(
	opts *RunOptions,
	implementation string,
	cmd *cobra.Command,
) error {
	renderer, err := report.RendererFor(opts.Format)
	if err != nil {
		return err
	}
	if opts.Parallel < 1 {
		return fmt.Errorf("parallel must be at least 1, got %d", opts.Parallel)
	}

	settings, err := loadSettings(opts.RootOptions)
	if err != nil {
		return err
	}

	remoteURL := resolve(opts.RemoteURL, settings, env.SettingRemoteURL, "")
	remoteToken := resolve(opts.RemoteToken, settings, env.SettingRemoteToken, "")

	logger, err := buildLogger(opts, settings, remoteToken)
	if err != nil {
		return err
	}
	defer logger.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	engine := assertion.NewEngine()
	registry := opts.registry()
	if err := installImplementations(registry, engine, logger); err != nil {
		return WrapExitError(ExitCommandError,
			"install built-in implementations", err)
	}

	if remoteURL != "" {
		adapter, err := remote.Connect(ctx, remoteURL,
			remote.WithToken(remoteToken),
			remote.WithLogger(logger),
		)
		if err != nil {
			return WrapExitError(ExitCommandError,
				"connect remote implementation", err)
		}
		if err := adapter.Register(registry); err != nil {
			return WrapExitError(ExitCommandError,
				"register remote implementation", err)
		}
		logger.Info("remote implementation connected",
			logging.StringField("url", remoteURL),
			logging.StringField("name", adapter.Info().Name),
		)
	}

	registration, err := registry.Lookup(implementation)
	if err != nil {
		return NewExitError(ExitCommandError, fmt.Sprintf(
			"%v (registered: %s)",
			err, strings.Join(registry.Names(), ", "),
		))
	}

	vectorsPath := resolve(opts.Vectors, settings, env.SettingVectors,
		DefaultVectorsPath)
	suite, err := vector.Load(vectorsPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "load test vectors", err)
	}

	runID := uuid.NewString()
	mem := metrics.NewMemoryMetrics()
	collector := monitor.NewCollector()
	stopMonitor := startMonitor(ctx, opts, settings, collector, runID, cmd)
	defer stopMonitor()

	runnerOpts := []runner.RunnerOption{
		runner.WithEngine(engine),
		runner.WithLogger(logger),
		runner.WithOutput(cmd.OutOrStdout()),
		runner.WithMetrics(mem),
		runner.WithCollector(collector),
		runner.WithImplementationName(registration.Info.Name),
	}
	if opts.Timeout > 0 {
		runnerOpts = append(runnerOpts, runner.WithTestTimeout(opts.Timeout))
	}

	suiteRunner := runner.NewSuiteRunner(registration.Factory, runnerOpts...)

	var results []*runner.Result
	var allPassed bool
	if opts.Parallel > 1 {
		results, allPassed = suiteRunner.RunParallel(ctx, suite, opts.Parallel)
	} else {
		results, allPassed = suiteRunner.Run(ctx, suite)
	}

	steps, intervals := mem.DecayFallbacks()
	logger.Info("suite finished",
		logging.StringField("run_id", runID),
		logging.BoolField("conformant", allPassed),
		logging.IntField("decay_fallback_steps", steps),
		logging.IntField("decay_fallback_intervals", intervals),
	)

	rep := report.Build(registration.Info, suite, results,
		report.WithRunID(runID))

	reportPath := resolve(opts.Report, settings, env.SettingReport,
		DefaultReportPath)
	if err := writeReport(reportPath, renderer, rep); err != nil {
		return WrapExitError(ExitCommandError, "write report", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\nReport written to: %s\n", reportPath)

	if opts.History != "" {
		if err := report.AppendHistory(opts.History, rep, reportPath); err != nil {
			return WrapExitError(ExitCommandError, "append run history", err)
		}
	}

	if !allPassed {
		return NewExitError(ExitFailure, fmt.Sprintf(
			"%d of %d tests failed",
			rep.TestResults.Failed, rep.TestResults.Total,
		))
	}
	return nil
}

// loadSettings builds the environment loader, reading the env file
// when one applies. An explicitly flagged file must exist; the
// default .env is optional.
func loadSettings(opts *RootOptions) (env.Loader, error) {
	loader := env.NewLoader()

	path := opts.EnvFile
	if path == "" {
		if _, err := os.Stat(".env"); err != nil {
			return loader, nil
		}
		path = ".env"
	}
	if err := loader.Load(path); err != nil {
		return nil, WrapExitError(ExitCommandError, "load env file", err)
	}
	return loader, nil
}

// resolve picks the first non-empty value: explicit flag, environment
// setting, fallback.
func resolve(flag string, settings env.Loader, setting, fallback string) string {
	if flag != "" {
		return flag
	}
	if v := settings.GetSetting(setting); v != "" {
		return v
	}
	return fallback
}

// buildLogger assembles the harness logger: a rotated JSON file under
// the logs directory, with remote credentials redacted when present.
func buildLogger(
	opts *RunOptions,
	settings env.Loader,
	remoteToken string,
) (logging.Logger, error) {
	logsDir := resolve(opts.LogsDir, settings, env.SettingLogsDir, "logs")
	logger, err := logging.SetupLogging(logsDir, opts.Verbose)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "set up logging", err)
	}
	if remoteToken != "" {
		return logging.NewRedactingLogger(logger, remoteToken), nil
	}
	return logger, nil
}

// installImplementations loads the built-in reference implementation
// through the plugin surface. Names already present are left alone,
// so repeated invocations against a shared registry stay valid.
func installImplementations(
	registry subject.Registry,
	engine assertion.Engine,
	logger logging.Logger,
) error {
	if _, err := registry.Lookup(aifeels.Info.Name); err == nil {
		return nil
	}
	loader := plugin.NewLoader(plugin.NewRegistry())
	return loader.LoadOne(aifeels.NewPlugin(), &plugin.Context{
		Subjects:   registry,
		Assertions: engine,
		Logger:     logger,
	})
}

// startMonitor serves live run events over WebSocket when a monitor
// address is configured. The returned stop function shuts the server
// down; monitoring problems are reported as warnings and never change
// the run verdict.
func startMonitor(
	ctx context.Context,
	opts *RunOptions,
	settings env.Loader,
	collector *monitor.Collector,
	runID string,
	cmd *cobra.Command,
) func() {
	addr := resolve(opts.MonitorAddr, settings, env.SettingMonitorAddr, "")
	if addr == "" {
		return func() {}
	}

	hub := monitor.NewHub(addr, collector, monitor.NewDashboard(runID))
	hubCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() {
		done <- hub.Start(hubCtx)
	}()

	return func() {
		cancel()
		if err := <-done; err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(),
				"Warning: monitor server: %v\n", err)
		}
	}
}

// writeReport renders the report to path, creating parent directories
// as needed.
func writeReport(path string, renderer report.Renderer, rep *report.Report) error {
	var buf bytes.Buffer
	if err := renderer.Render(&buf, rep); err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report directory: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write report file: %w", err)
	}
	return nil
}
