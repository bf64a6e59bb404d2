package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dantte-lp/gosubtype/internal/config"
	"github.com/dantte-lp/gosubtype/internal/dotfmt"
	"github.com/dantte-lp/gosubtype/internal/fsm"
	"github.com/dantte-lp/gosubtype/internal/subtype"
	"github.com/dantte-lp/gosubtype/internal/telemetry"
)

var (
	checkVisits      int
	checkConfigPath  string
	checkMetricsAddr string
)

func checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [LEFT RIGHT]",
		Short: "Decide whether LEFT is an asynchronous subtype of RIGHT",
		Long: "check parses two DOT files and decides asynchronous subtyping between\n" +
			"them. With --config, it instead runs every check entry named in a\n" +
			"batch configuration file concurrently, optionally exposing Prometheus\n" +
			"metrics over promhttp.\n\n" +
			"Exit status: for a single LEFT RIGHT pair, check exits 0 whenever the\n" +
			"decision completes, whether or not LEFT is a subtype; only the printed\n" +
			"phrase carries the result. With --config, check exits 1 if any entry\n" +
			"failed or is not a subtype.",
		Args: cobra.MaximumNArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			if checkConfigPath != "" {
				return runBatchCheck(checkConfigPath)
			}
			if len(args) != 2 {
				return fmt.Errorf("check: expected LEFT and RIGHT positional args, or --config")
			}
			name := fmt.Sprintf("%s->%s", args[0], args[1])
			_, err := runSingleCheck(name, args[0], args[1], checkVisits, nil)
			return err
		},
	}

	cmd.Flags().IntVar(&checkVisits, "visits", 100, "visit budget per state pair")
	cmd.Flags().StringVar(&checkConfigPath, "config", "", "path to a batch-check YAML configuration")
	cmd.Flags().StringVar(&checkMetricsAddr, "metrics-addr", "",
		"expose Prometheus metrics on this address in batch mode (overrides the config's metrics.addr)")

	return cmd
}

// runSingleCheck parses leftPath and rightPath, decides subtyping, and
// prints the colored result phrase. Per spec.md's documented exit-code
// behavior, the returned error is non-nil only for parse/IO/role-mismatch
// failures, never for a "not a subtype" decision — the boolean is conveyed
// only in the printed phrase. When metrics is non-nil, the decision's
// outcome and wall-clock duration are recorded under name.
func runSingleCheck(name, leftPath, rightPath string, visits int, metrics *telemetry.Collector) (bool, error) {
	left, leftErr := loadFsm(leftPath)
	right, rightErr := loadFsm(rightPath)
	if leftErr != nil {
		return false, leftErr
	}
	if rightErr != nil {
		return false, rightErr
	}

	start := time.Now()
	isSubtype, err := decide(left, right, visits)
	if err != nil {
		return false, err
	}
	if metrics != nil {
		metrics.RecordDecision(name, isSubtype, time.Since(start).Seconds())
	}

	printResult(os.Stdout, leftPath, rightPath, isSubtype)
	return isSubtype, nil
}

// decide calls subtype.IsSubtype, converting its role-mismatch panic into
// an error (subtype.IsSubtype panics rather than returning an error because
// a role mismatch is a programming-contract violation, not ordinary input
// error -- but the CLI boundary still must not crash).
func decide(left, right *fsm.Fsm[string, string], visits int) (isSubtype bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("check: %v", r)
		}
	}()
	return subtype.IsSubtype(left, right, visits), nil
}

func loadFsm(path string) (*fsm.Fsm[string, string], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	f, errs := dotfmt.Parse(string(data))
	if len(errs) > 0 {
		return nil, fmt.Errorf("parse %s: %w (and %d more error(s))", path, errs[0], len(errs)-1)
	}
	return f, nil
}

func printResult(w io.Writer, leftPath, rightPath string, isSubtype bool) {
	verb := "IS NOT"
	printer := color.New(color.FgRed)
	if isSubtype {
		verb = "IS"
		printer = color.New(color.FgGreen)
	}
	printer.Fprintf(w, "%s %s a subtype of %s\n", leftPath, verb, rightPath)
}

// runBatchCheck loads a batch configuration and runs every check entry
// concurrently, aggregating the outcome into the exit code: unlike single-
// pair mode, batch mode has no single boolean to suppress, so a nonzero
// count of "IS NOT" results is reported as an error here. It also builds a
// logger from cfg.Log and, unless the metrics address resolves empty,
// exposes a promhttp endpoint over cfg.Metrics (or --metrics-addr).
func runBatchCheck(path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := newLogger(cfg.Log)
	logger.Info("batch check starting", slog.Int("checks", len(cfg.Checks)))

	reg := prometheus.NewRegistry()
	metrics := telemetry.NewCollector(reg)

	metricsAddr := checkMetricsAddr
	if metricsAddr == "" {
		metricsAddr = cfg.Metrics.Addr
	}

	if metricsAddr != "" {
		metricsSrv := newMetricsServer(cfg.Metrics, metricsAddr, reg)
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server exited", slog.String("error", err.Error()))
			}
		}()
		defer metricsSrv.Close()
		logger.Info("metrics endpoint listening",
			slog.String("addr", metricsAddr), slog.String("path", cfg.Metrics.Path))
	}

	results := make([]bool, len(cfg.Checks))
	errs := make([]error, len(cfg.Checks))

	g := new(errgroup.Group)
	for i, c := range cfg.Checks {
		i, c := i, c
		g.Go(func() error {
			isSubtype, err := runSingleCheck(c.Name, c.Left, c.Right, c.Visits, metrics)
			results[i] = isSubtype
			errs[i] = err
			return nil
		})
	}
	_ = g.Wait()

	var failed, notSubtype int
	for i, c := range cfg.Checks {
		if errs[i] != nil {
			failed++
			logger.Error("check failed", slog.String("name", c.Name), slog.String("error", errs[i].Error()))
			continue
		}
		if !results[i] {
			notSubtype++
		}
	}

	fmt.Printf("%d check(s): %d subtype, %d not subtype, %d failed\n",
		len(cfg.Checks), len(cfg.Checks)-notSubtype-failed, notSubtype, failed)

	logger.Info("batch check finished",
		slog.Int("subtype", len(cfg.Checks)-notSubtype-failed),
		slog.Int("not_subtype", notSubtype),
		slog.Int("failed", failed))

	if failed > 0 || notSubtype > 0 {
		return fmt.Errorf("batch check: %d failed, %d not subtype", failed, notSubtype)
	}
	return nil
}

// newLogger builds a structured logger from cfg, mirroring the teacher's
// cmd/gobfd/main.go::newLoggerWithLevel (minus the SIGHUP-driven dynamic
// level, which a one-shot batch command has no use for).
func newLogger(cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: config.ParseLogLevel(cfg.Level)}

	var handler slog.Handler
	switch cfg.Format {
	case "text":
		handler = slog.NewTextHandler(os.Stdout, opts)
	default:
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

// newMetricsServer creates an HTTP server for the Prometheus metrics
// endpoint, grounded on the teacher's cmd/gobfd/main.go::newMetricsServer.
func newMetricsServer(cfg config.MetricsConfig, addr string, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
