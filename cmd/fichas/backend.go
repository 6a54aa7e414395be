package main

import (
	"context"
	"fmt"

	"github.com/ukaji3/fichas-go/internal/config"
	"github.com/ukaji3/fichas-go/pkg/fichas"
	"github.com/ukaji3/fichas-go/pkg/fichas/backend"
	"github.com/ukaji3/fichas-go/pkg/fichas/dashboard"
	"github.com/ukaji3/fichas-go/pkg/fichas/journal"
	"github.com/ukaji3/fichas-go/pkg/fichas/metrics"
	"go.uber.org/zap"
)

func newOptions(cfg *config.Config) (fichas.Options, error) {
	loc, err := cfg.Location()
	if err != nil {
		return fichas.Options{}, err
	}
	return fichas.Options{Location: loc}, nil
}

func newBackend(cfg *config.Config, opts fichas.Options, logger *zap.Logger) (fichas.Backend, error) {
	mode, err := fichas.ParseMode(cfg.Backend.Mode)
	if err != nil {
		return nil, err
	}

	switch mode {
	case fichas.ModeRemote:
		return backend.NewRemote(backend.RemoteConfig{
			FichasURL:   cfg.Backend.FichasURL,
			RegistryURL: cfg.Backend.RegistryURL,
			ProcessURL:  cfg.Backend.ProcessURL,
			Client: backend.ClientConfig{
				Timeout:    cfg.GetBackendTimeout(),
				MaxRetries: cfg.Backend.MaxRetries,
			},
		}, opts, logger)
	case fichas.ModeWorkbook:
		return backend.NewWorkbook(backend.WorkbookConfig{
			Path:          cfg.Backend.Workbook.Path,
			FichasSheet:   cfg.Backend.Workbook.FichasSheet,
			RegistrySheet: cfg.Backend.Workbook.RegistrySheet,
			PrintSheet:    cfg.Backend.Workbook.PrintSheet,
			PrintURL:      cfg.Backend.Workbook.PrintURL,
		}, opts, logger)
	case fichas.ModeFixture:
		logger.Warn("Using fixture backend, processing is simulated")
		return backend.NewFixture(opts), nil
	case fichas.ModeDisconnected:
		return backend.Disconnected{}, nil
	}
	return nil, fmt.Errorf("unsupported backend mode: %s", mode)
}

// newController wires backend, metrics and journal into a controller. The
// returned journal is nil when none is configured; the caller closes it.
func (a *app) newController(ctx context.Context, m *metrics.Metrics) (*dashboard.Controller, *journal.Journal, error) {
	opts, err := newOptions(a.cfg)
	if err != nil {
		return nil, nil, err
	}
	b, err := newBackend(a.cfg, opts, a.logger)
	if err != nil {
		return nil, nil, err
	}

	ctrlOpts := []dashboard.Option{
		dashboard.WithLogger(a.logger),
		dashboard.WithMetrics(m),
	}

	var j *journal.Journal
	if a.cfg.Journal.Path != "" {
		j, err = journal.Open(ctx, a.cfg.Journal.Path)
		if err != nil {
			return nil, nil, err
		}
		ctrlOpts = append(ctrlOpts, dashboard.WithJournal(j))
	}

	a.logger.Debug("Backend ready",
		zap.String("mode", a.cfg.Backend.Mode),
		zap.String("timezone", opts.Loc().String()))
	return dashboard.New(b, ctrlOpts...), j, nil
}
