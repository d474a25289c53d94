package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"fooddelivery/internal/adapters/in/http"
	"fooddelivery/internal/adapters/out/console"
	"fooddelivery/internal/adapters/out/fanout"
	"fooddelivery/internal/adapters/out/memory"
	"fooddelivery/internal/adapters/out/observability"
	"fooddelivery/internal/adapters/out/postgres"
	"fooddelivery/internal/adapters/out/postgres/deliveryrepo"
	"fooddelivery/internal/adapters/out/sqlite"
	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/core/domain/model/courier"
	"fooddelivery/internal/core/domain/services"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/jobs"
	platform "fooddelivery/internal/platform/observability"

	"github.com/labstack/echo/v4"
)

const instrumentationName = "fooddelivery"

// Journal is a delivery journal that can also report per-courier totals.
type Journal interface {
	ports.DeliveryJournal
	jobs.DeliveryCounter
}

// CompositionRoot owns every long-lived collaborator of the application.
type CompositionRoot struct {
	cfg        Config
	logger     *slog.Logger
	journal    Journal
	dispatcher *services.OrderDispatcher
	closers    []func() error
}

// NewCompositionRoot opens the journal, builds the observer chain and creates the couriers.
// Deliveries are printed to out.
func NewCompositionRoot(
	ctx context.Context,
	cfg Config,
	out io.Writer,
	instruments *platform.Instruments,
	logger *slog.Logger,
) (*CompositionRoot, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	c := &CompositionRoot{cfg: cfg, logger: logger}

	journal, err := c.openJournal(ctx)
	if err != nil {
		return nil, err
	}
	c.journal = journal

	observer := observability.New(
		fanout.New(
			console.NewPrinter(out, logger),
			fanout.NewJournalObserver(journal, logger),
		),
		observability.WithLogger(logger),
		observability.WithTracer(instruments.Tracer(instrumentationName)),
		observability.WithMeter(instruments.Meter(instrumentationName)),
	)

	c.dispatcher = services.NewOrderDispatcher(services.DispatcherConfig{
		Transit:         courier.JitteredTransit(cfg.TransitDelay, cfg.TransitJitter),
		Observer:        observer,
		BacklogCapacity: cfg.BacklogCapacity,
		Logger:          logger,
	})
	if err = c.dispatcher.CreateCouriers(cfg.Couriers); err != nil {
		_ = c.Close()
		return nil, err
	}

	return c, nil
}

func (c *CompositionRoot) openJournal(ctx context.Context) (Journal, error) {
	switch c.cfg.JournalDriver {
	case JournalSQLite:
		journal, err := sqlite.NewJournal(c.cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite journal: %w", err)
		}
		c.closers = append(c.closers, journal.Close)
		c.logger.Info("delivery journal opened", "driver", JournalSQLite, "path", c.cfg.SQLitePath)
		return journal, nil

	case JournalPostgres:
		dsn, err := postgres.MakeConnectionString(postgres.ConnectionConfig{
			Host:     c.cfg.DBHost,
			Port:     c.cfg.DBPort,
			User:     c.cfg.DBUser,
			Password: c.cfg.DBPassword,
			Name:     c.cfg.DBName,
			SslMode:  c.cfg.DBSslMode,
		})
		if err != nil {
			return nil, err
		}
		db, err := postgres.Open(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("open postgres journal: %w", err)
		}
		sqlDB, err := postgres.SQLDB(db)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, sqlDB.Close)
		c.logger.Info("delivery journal opened", "driver", JournalPostgres, "host", c.cfg.DBHost)
		return deliveryrepo.NewGormDeliveryRepository(db), nil

	default:
		return memory.NewJournal(), nil
	}
}

func (c *CompositionRoot) Dispatcher() *services.OrderDispatcher {
	return c.dispatcher
}

func (c *CompositionRoot) Journal() Journal {
	return c.journal
}

func (c *CompositionRoot) CreatePlaceOrdersCommandHandler() commands.PlaceOrdersCommandHandler {
	return commands.NewPlaceOrdersCommandHandler(c.dispatcher)
}

func (c *CompositionRoot) CreateGetCouriersQueryHandler() queries.GetCouriersQueryHandler {
	return queries.NewGetCouriersQueryHandler(c.dispatcher)
}

func (c *CompositionRoot) CreateGetDeliveriesQueryHandler() queries.GetDeliveriesQueryHandler {
	return queries.NewGetDeliveriesQueryHandler(c.journal)
}

// CreateJobManager returns nil when no report schedule is configured.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	if c.cfg.ReportSchedule == "" {
		return nil
	}
	return jobs.NewJobManager(c.cfg.ReportSchedule, c.CreateGetCouriersQueryHandler(), c.journal, c.logger)
}

// CreateHTTPServer returns an echo instance with every route registered.
// Couriers launched by HTTP requests drain under drainCtx.
func (c *CompositionRoot) CreateHTTPServer(drainCtx context.Context) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	server := http.NewServer(
		drainCtx,
		c.CreatePlaceOrdersCommandHandler(),
		c.CreateGetCouriersQueryHandler(),
		c.CreateGetDeliveriesQueryHandler(),
	)
	http.RegisterHandlers(e, server)
	return e
}

// Close releases the journal connection.
func (c *CompositionRoot) Close() error {
	var errList []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		errList = append(errList, c.closers[i]())
	}
	c.closers = nil
	return errors.Join(errList...)
}
