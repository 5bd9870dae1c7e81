package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"aircare/internal/api"
	"aircare/internal/config"
	"aircare/internal/database"
	"aircare/internal/fleet"
	"aircare/internal/metrics"
	"aircare/internal/models"
	"aircare/internal/prediction"
	"aircare/internal/scheduler"
	"aircare/internal/sensors"
	"aircare/internal/tasks"

	"github.com/labstack/echo/v4"
)

const (
	readingBuffer   = 1000
	shutdownTimeout = 10 * time.Second
)

// Daemon represents the main daemon structure
type Daemon struct {
	ctx         context.Context
	cancel      context.CancelFunc
	cfg         *config.Config
	scheduler   *scheduler.Scheduler
	database    *database.DB
	server      *echo.Echo
	collector   *tasks.ReadingCollector
	simulator   *sensors.Simulator
	readingChan chan *models.ReadingRecord
	errs        chan error
	wg          sync.WaitGroup
}

// New opens the database, seeds the fleet and wires every component
func New(cfg *config.Config, version string) (*Daemon, error) {
	ctx, cancel := context.WithCancel(context.Background())

	db, err := database.New(cfg.DBPath)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	d, err := build(ctx, cfg, db, version)
	if err != nil {
		cancel()
		_ = db.Close()
		return nil, err
	}
	d.cancel = cancel
	return d, nil
}

func build(ctx context.Context, cfg *config.Config, db *database.DB, version string) (*Daemon, error) {
	metrics.Init(db.SQL())

	catalog, err := fleet.Load()
	if err != nil {
		return nil, err
	}

	aircraftRepo := database.NewAircraftRepository(db.SQL())
	readingRepo := database.NewReadingRepository(db.SQL())
	predictionRepo := database.NewPredictionRepository(db.SQL())

	if err := fleet.Seed(ctx, aircraftRepo, catalog); err != nil {
		return nil, fmt.Errorf("failed to seed fleet: %w", err)
	}

	gateway, err := prediction.NewClient(cfg.Prediction.BaseURL, cfg.Prediction.TimeoutDuration())
	if err != nil {
		return nil, err
	}

	readingChan := make(chan *models.ReadingRecord, readingBuffer)
	collector := tasks.NewReadingCollectorWithConfig(readingRepo, readingChan, cfg.BatchSize, cfg.BatchTimeoutDuration())

	sched := scheduler.New(ctx)
	sched.AddTask(tasks.NewPredictionRefresher(aircraftRepo, readingRepo, gateway, tasks.RefresherConfig{
		Interval:       cfg.Prediction.RefreshDuration(),
		Origin:         cfg.Prediction.Origin,
		Destination:    cfg.Prediction.Destination,
		FlightDuration: cfg.Prediction.FlightDurationValue(),
	}))

	var simulator *sensors.Simulator
	if cfg.Sensors.Enabled {
		list, err := aircraftRepo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list fleet: %w", err)
		}
		ids := make([]string, 0, len(list))
		for _, ac := range list {
			ids = append(ids, ac.ID)
		}
		simulator = sensors.NewSimulator(ids, cfg.Sensors.IntervalDuration(), cfg.Sensors.ExcursionRate, cfg.Sensors.Seed)
	}

	server := api.NewServer(&api.Dependencies{
		Aircraft:       aircraftRepo,
		Readings:       readingRepo,
		Predictions:    predictionRepo,
		Gateway:        gateway,
		Catalog:        catalog,
		Tasks:          sched,
		Version:        version,
		FlightDuration: cfg.Prediction.FlightDurationValue(),
	})

	return &Daemon{
		ctx:         ctx,
		cfg:         cfg,
		scheduler:   sched,
		database:    db,
		server:      server,
		collector:   collector,
		simulator:   simulator,
		readingChan: readingChan,
		errs:        make(chan error, 1),
	}, nil
}

// Start launches the collector, the simulator, the scheduler and the HTTP server
func (d *Daemon) Start() error {
	slog.Info("Starting daemon")

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := d.collector.Start(d.ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("Reading collector stopped", "error", err)
		}
	}()

	if d.simulator != nil {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			if err := d.simulator.Stream(d.ctx, d.readingChan); err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("Sensor simulator stopped", "error", err)
			}
		}()
	} else {
		slog.Info("Sensor simulator disabled, readings arrive over HTTP only")
	}

	d.scheduler.Start()

	go func() {
		slog.Info("HTTP server listening", "addr", d.cfg.HTTPAddr)
		if err := d.server.Start(d.cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			d.errs <- fmt.Errorf("http server: %w", err)
		}
	}()

	slog.Info("Daemon started successfully")
	return nil
}

// Errors reports fatal runtime failures, such as the HTTP listener dying
func (d *Daemon) Errors() <-chan error {
	return d.errs
}

// Stop gracefully stops the daemon
func (d *Daemon) Stop() error {
	slog.Info("Stopping daemon")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := d.server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Error shutting down HTTP server", "error", err)
	}

	d.cancel()
	d.scheduler.Stop()
	// collector flushes its last batch before returning
	d.wg.Wait()

	if err := d.database.Close(); err != nil {
		slog.Error("Error closing database", "error", err)
	}

	slog.Info("Daemon stopped")
	return nil
}
