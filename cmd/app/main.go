package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fooddelivery/cmd"
	consolein "fooddelivery/internal/adapters/in/console"
	"fooddelivery/internal/adapters/in/yamlfile"
	"fooddelivery/internal/adapters/out/console"
	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/platform/observability"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

type flags struct {
	envFile        string
	couriers       int
	transit        time.Duration
	jitter         time.Duration
	capacity       int
	wait           bool
	ordersFile     string
	journal        string
	httpPort       string
	reportSchedule string
	logLevel       string
	otel           bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	var f flags
	defaults := cmd.DefaultConfig()

	root := &cobra.Command{
		Use:           "fooddelivery",
		Short:         "Take food orders and deliver them with a fleet of couriers",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(c *cobra.Command, _ []string) error {
			if err := cmd.LoadEnvFiles(f.envFile); err != nil {
				return err
			}
			cfg, err := cmd.ConfigFromEnv(os.LookupEnv)
			if err != nil {
				return err
			}
			applyFlags(c, f, &cfg)
			return run(c.Context(), cfg, c.InOrStdin(), c.OutOrStdout())
		},
	}

	fs := root.Flags()
	fs.StringVar(&f.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	fs.IntVarP(&f.couriers, "couriers", "c", defaults.Couriers, "number of couriers (COURIERS)")
	fs.DurationVar(&f.transit, "transit", defaults.TransitDelay, "transit time per delivery (TRANSIT_DELAY)")
	fs.DurationVar(&f.jitter, "jitter", defaults.TransitJitter, "random extra transit time (TRANSIT_JITTER)")
	fs.IntVar(&f.capacity, "capacity", defaults.BacklogCapacity, "orders per courier trip (BACKLOG_CAPACITY)")
	fs.BoolVar(&f.wait, "wait", defaults.WaitForDeliveries, "wait for every delivery before exiting (WAIT_FOR_DELIVERIES)")
	fs.StringVarP(&f.ordersFile, "orders", "f", "", "YAML file with orders instead of the console (ORDERS_FILE)")
	fs.StringVar(&f.journal, "journal", defaults.JournalDriver, "delivery journal: memory, sqlite or postgres (JOURNAL_DRIVER)")
	fs.StringVar(&f.httpPort, "http-port", "", "serve the status API on this port (HTTP_PORT)")
	fs.StringVar(&f.reportSchedule, "report-schedule", "", "cron schedule with seconds for fleet reports (REPORT_SCHEDULE)")
	fs.StringVar(&f.logLevel, "log-level", defaults.LogLevel, "debug, info, warn or error (LOG_LEVEL)")
	fs.BoolVar(&f.otel, "otel", defaults.OTELEnabled, "export traces to stderr (OTEL_ENABLED)")

	return root
}

// applyFlags overrides cfg with every flag given on the command line.
func applyFlags(c *cobra.Command, f flags, cfg *cmd.Config) {
	changed := c.Flags().Changed
	if changed("couriers") {
		cfg.Couriers = f.couriers
	}
	if changed("transit") {
		cfg.TransitDelay = f.transit
	}
	if changed("jitter") {
		cfg.TransitJitter = f.jitter
	}
	if changed("capacity") {
		cfg.BacklogCapacity = f.capacity
	}
	if changed("wait") {
		cfg.WaitForDeliveries = f.wait
	}
	if changed("orders") {
		cfg.OrdersFile = f.ordersFile
	}
	if changed("journal") {
		cfg.JournalDriver = f.journal
	}
	if changed("http-port") {
		cfg.HTTPPort = f.httpPort
	}
	if changed("report-schedule") {
		cfg.ReportSchedule = f.reportSchedule
	}
	if changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if changed("otel") {
		cfg.OTELEnabled = f.otel
	}
}

func run(parent context.Context, cfg cmd.Config, in io.Reader, out io.Writer) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := observability.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	instruments, shutdownTelemetry, err := observability.Init(ctx, observability.Options{
		ServiceName: "fooddelivery",
		Enabled:     cfg.OTELEnabled,
		TraceOutput: os.Stderr,
	})
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown failed", "error", err)
		}
	}()

	app, err := cmd.NewCompositionRoot(ctx, cfg, out, instruments, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("closing journal failed", "error", err)
		}
	}()

	if jm := app.CreateJobManager(); jm != nil {
		if err := jm.StartAll(); err != nil {
			return err
		}
		defer jm.StopAll()
	}

	requests, err := readOrders(cfg, in, out, logger)
	if err != nil {
		return err
	}

	result, err := app.CreatePlaceOrdersCommandHandler().Handle(ctx, commands.NewPlaceOrdersCommand(requests))
	if err != nil {
		return err
	}
	logger.Info("orders placed",
		"accepted", len(result.Accepted),
		"dropped", len(result.Dropped),
		"launched", result.Launched,
	)

	if cfg.WaitForDeliveries {
		if err := app.Dispatcher().Wait(); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
	}

	if cfg.HTTPPort != "" {
		return serveHTTP(ctx, app, cfg.HTTPPort, logger)
	}

	return nil
}

// serveHTTP runs the status API until ctx ends. It starts only after the
// optional Wait, so orders placed over HTTP never race that join.
func serveHTTP(ctx context.Context, app *cmd.CompositionRoot, port string, logger *slog.Logger) error {
	e := app.CreateHTTPServer(ctx)
	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Start(fmt.Sprintf("0.0.0.0:%s", port))
	}()
	logger.Info("serving status API until interrupted", "port", port)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", "error", err)
	}
	return nil
}

// readOrders prints the menu and prompts on the console unless an orders file is configured.
func readOrders(cfg cmd.Config, in io.Reader, out io.Writer, logger *slog.Logger) ([]commands.OrderRequest, error) {
	if cfg.OrdersFile != "" {
		logger.Info("reading orders from file", "path", cfg.OrdersFile)
		return yamlfile.LoadOrders(cfg.OrdersFile)
	}

	if err := console.NewMenuPrinter(out, nil).Print(); err != nil {
		return nil, err
	}
	return consolein.NewIntake(in, out).ReadOrders()
}
