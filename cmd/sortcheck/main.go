// Command sortcheck runs the reference sorting scenarios and the randomized
// stress harness.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/amp-labs/flatsort/build"
	"github.com/amp-labs/flatsort/envutil"
	"github.com/amp-labs/flatsort/harness"
	"github.com/amp-labs/flatsort/logger"
	"github.com/amp-labs/flatsort/shutdown"
	"github.com/amp-labs/flatsort/spans"
	"github.com/amp-labs/flatsort/telemetry"
	"github.com/google/subcommands"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"golang.org/x/net/netutil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	app             = "sortcheck"
	flushTimeout    = 10 * time.Second
	readHeaderLimit = 5 * time.Second
	maxMetricsConns = 8
)

type scenariosCmd struct {
	out io.Writer
}

func (*scenariosCmd) Name() string     { return "scenarios" }
func (*scenariosCmd) Synopsis() string { return "run the reference sorting scenarios" }
func (*scenariosCmd) Usage() string    { return "scenarios\n" }

func (*scenariosCmd) SetFlags(*flag.FlagSet) {}

func (c *scenariosCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	report := harness.RunScenarios(ctx)

	for _, r := range report.Results {
		if r.Err != nil {
			fmt.Fprintf(c.out, "FAIL %s: %v\n", r.Name, r.Err)
		} else {
			fmt.Fprintf(c.out, "ok   %s\n", r.Name)
		}
	}

	fmt.Fprintf(c.out, "%d passed, %d failed\n", report.Passed, report.Failed)

	if !report.OK() {
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}

type stressCmd struct {
	out io.Writer

	configPath  string
	trials      int
	workers     int
	seed        uint64
	metricsAddr string
	quiet       bool
}

func (*stressCmd) Name() string     { return "stress" }
func (*stressCmd) Synopsis() string { return "sort random sub-ranges concurrently and verify every result" }
func (*stressCmd) Usage() string {
	return "stress [-config file] [-trials n] [-workers n] [-seed n] [-metrics-addr addr] [-quiet]\n"
}

func (c *stressCmd) SetFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "YAML config file")
	fs.IntVar(&c.trials, "trials", 0, "number of trials (overrides config and "+harness.EnvTrials+")")
	fs.IntVar(&c.workers, "workers", 0, "concurrent trials (overrides config and "+harness.EnvWorkers+")")
	fs.Uint64Var(&c.seed, "seed", 0, "random seed (overrides config and "+harness.EnvSeed+")")
	fs.StringVar(&c.metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address, e.g. :9090")
	fs.BoolVar(&c.quiet, "quiet", false, "mute per-trial logging")
}

func (c *stressCmd) config(ctx context.Context, fs *flag.FlagSet) (harness.Config, error) {
	cfg, err := harness.LoadConfig(ctx, c.configPath)
	if err != nil {
		return harness.Config{}, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "trials":
			cfg.Trials = c.trials
		case "workers":
			cfg.Workers = c.workers
		case "seed":
			cfg.Seed = c.seed
		case "quiet":
			cfg.Quiet = c.quiet
		}
	})

	return cfg, cfg.Validate()
}

func (c *stressCmd) Execute(ctx context.Context, fs *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	cfg, err := c.config(ctx, fs)
	if err != nil {
		logger.Get(ctx).Error("invalid stress configuration", "error", err)

		return subcommands.ExitUsageError
	}

	if c.metricsAddr != "" {
		stop, err := serveMetrics(ctx, c.metricsAddr)
		if err != nil {
			logger.Get(ctx).Error("cannot serve metrics", "error", err)

			return subcommands.ExitFailure
		}

		defer stop()
	}

	summary, err := harness.Stress(ctx, cfg)
	if err != nil {
		logger.Get(ctx).Error("stress run aborted", "error", err)

		return subcommands.ExitFailure
	}

	p := message.NewPrinter(language.English)

	p.Fprintf(c.out, "run %s: %d trials, %d records, %d failures\n",
		summary.RunID, summary.Trials, summary.Records, summary.Failures)
	p.Fprintf(c.out, "latency p50=%v p99=%v max=%v\n", summary.P50, summary.P99, summary.Max)
	p.Fprintf(c.out, "comparisons per n*log2(n): mean=%.3f stddev=%.3f\n",
		summary.ComparisonRatioMean, summary.ComparisonRatioStdDev)

	if summary.Failures > 0 {
		p.Fprintf(c.out, "first failure: %v\n", summary.FirstFailure)

		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}

type versionCmd struct {
	out io.Writer
}

func (*versionCmd) Name() string           { return "version" }
func (*versionCmd) Synopsis() string       { return "print build information" }
func (*versionCmd) Usage() string          { return "version\n" }
func (*versionCmd) SetFlags(*flag.FlagSet) {}

func (c *versionCmd) Execute(context.Context, *flag.FlagSet, ...any) subcommands.ExitStatus {
	info := build.Current()

	fmt.Fprintf(c.out, "%s %s\n", app, info.Version)

	if info.GitCommit != "" {
		fmt.Fprintf(c.out, "commit %s (%s)\n", info.GitCommit, info.BuildTime)
	}

	fmt.Fprintf(c.out, "%s\n", info.GoVersion)

	return subcommands.ExitSuccess
}

// serveMetrics exposes the default prometheus registry until the returned
// function is called.
func serveMetrics(ctx context.Context, addr string) (func(), error) {
	ln, err := (&net.ListenConfig{}).Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	logger.Get(ctx).Info("serving metrics", "addr", ln.Addr().String())

	return serveMetricsOn(ctx, ln), nil
}

// serveMetricsOn serves metrics on ln. A server that stops on its own calls
// shutdown.Shutdown.
func serveMetricsOn(ctx context.Context, ln net.Listener) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: readHeaderLimit,
	}

	go func() {
		err := srv.Serve(netutil.LimitListener(ln, maxMetricsConns))
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Get(ctx).Error("metrics server failed, shutting down", "error", err)
			shutdown.Shutdown()
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), flushTimeout)
		defer cancel()

		_ = srv.Shutdown(ctx)
	}
}

// setupTelemetry starts tracing and returns an extra log handler when log
// export is on. Failures leave telemetry off.
func setupTelemetry(ctx context.Context) (slog.Handler, error) { //nolint:ireturn
	env := envutil.String(ctx, "ENVIRONMENT", envutil.Default("local")).ValueOrElse("local")

	cfg, err := telemetry.LoadConfigFromEnv(ctx, env)
	if err != nil {
		return nil, err
	}

	if err := telemetry.Initialize(ctx, cfg); err != nil {
		return nil, err
	}

	handler, err := telemetry.InitializeLogs(ctx, cfg)
	if err != nil {
		return nil, err
	}

	shutdown.BeforeShutdown(func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), flushTimeout)
		defer cancel()

		if err := telemetry.Shutdown(ctx); err != nil {
			slog.Warn("failed to flush telemetry", "error", err)
		}
	})

	return handler, nil
}

// setupLogging configures console logging from the environment, then starts
// telemetry. When log export is on, logging is configured again with the OTLP
// handler added next to the console.
func setupLogging(ctx context.Context, opts ...logger.Option) {
	logger.ConfigureLogging(ctx, app, opts...)

	handler, err := setupTelemetry(ctx)
	if err != nil {
		logger.Get(ctx).Warn("telemetry disabled", "error", err)

		return
	}

	if handler != nil {
		logger.ConfigureLogging(ctx, app, append(opts, logger.WithHandler(handler))...)
	}
}

func run(ctx context.Context) int {
	ctx = logger.WithSubsystem(ctx, app)

	setupLogging(ctx)

	defer shutdown.Cleanup()

	logger.Get(ctx).Debug("starting", "build", build.Current())

	ctx = spans.WithTracer(ctx, otel.Tracer("flatsort"))

	return int(subcommands.Execute(ctx))
}

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&scenariosCmd{out: os.Stdout}, "")
	subcommands.Register(&stressCmd{out: os.Stdout}, "")
	subcommands.Register(&versionCmd{out: os.Stdout}, "")

	flag.Parse()

	os.Exit(run(shutdown.SetupHandler(context.Background())))
}
