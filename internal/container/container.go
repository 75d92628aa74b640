package container

import (
	"context"
	"fmt"
	"sync"

	"edalens/adapters/excel"
	"edalens/app"
	"edalens/internal"
	"edalens/internal/analysis"
	"edalens/internal/config"
	"edalens/internal/metrics"
	"edalens/internal/session"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	Metrics  *metrics.Metrics
	Sessions *session.Store
	Reader   *excel.DataReader

	// Services
	Uploads    *app.UploadService
	Dashboards *app.DashboardService

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new dependency injection container
func New(cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.NewNopLogger()
	}

	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics.New(),
	}

	c.Sessions = session.NewStore(cfg.Session.TTL, logger,
		session.WithResizeHook(c.Metrics.SetActiveSessions))

	readerConfig := excel.DefaultReaderConfig()
	readerConfig.MaxBytes = cfg.Server.UploadLimitBytes()
	c.Reader = excel.NewDataReader(readerConfig, logger)

	opts := analysis.OptionsFromConfig(cfg.Analysis)
	c.Uploads = app.NewUploadService(c.Reader, c.Sessions, logger, c.Metrics.RecordUpload)
	c.Dashboards = app.NewDashboardService(opts, logger, c.Metrics.ObserveDashboardBuild)

	return c, nil
}

// Start launches the session janitor
func (c *Container) Start(ctx context.Context) {
	ctx, c.cancel = context.WithCancel(ctx)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.Sessions.Run(ctx, c.Config.Session.SweepInterval)
	}()
	c.Logger.Debug("[Container] Session janitor started (ttl %s, sweep every %s)",
		c.Config.Session.TTL, c.Config.Session.SweepInterval)
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	if c.cancel != nil {
		c.cancel()
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
