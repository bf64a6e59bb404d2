package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/dantte-lp/gosubtype/internal/runtime"
	"github.com/dantte-lp/gosubtype/internal/telemetry"
)

var runTimeout time.Duration

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run EXAMPLE",
		Short: "Run a bundled session-runtime example to completion",
		Long: "run drives one of the bundled multiparty examples over the in-process\n" +
			"session runtime, one goroutine per role, logging every send and\n" +
			"receive: ring-optimisation, double-buffering, video-streaming-client.",
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runExample(args[0])
		},
	}

	cmd.Flags().DurationVar(&runTimeout, "timeout", 5*time.Second, "maximum time to let the session run")
	return cmd
}

func runExample(name string) error {
	fsms, err := buildExample(name)
	if err != nil {
		return err
	}

	roles := make([]string, 0, len(fsms))
	for role := range fsms {
		roles = append(roles, role)
	}
	sort.Strings(roles)

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil)).With(slog.String("example", name))
	reg := prometheus.NewRegistry()
	metrics := telemetry.NewCollector(reg)

	network := runtime.NewNetwork(roles)
	defer network.Close()

	sessions := make([]*runtime.Session[string], 0, len(roles))
	for _, role := range roles {
		sessions = append(sessions, runtime.NewSession(role, fsms[role], network, nil, metrics, logger))
	}

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	if err := runtime.RunAll(ctx, sessions); err != nil {
		return fmt.Errorf("run %s: %w", name, err)
	}

	logger.Info("example completed", slog.Int("roles", len(roles)))
	return nil
}
