package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.opentelemetry.io/otel"

	"github.com/jask/regionhub/app"
	"github.com/jask/regionhub/internal/api"
	"github.com/jask/regionhub/internal/auth"
	"github.com/jask/regionhub/internal/config"
	"github.com/jask/regionhub/internal/credentials"
	"github.com/jask/regionhub/internal/dispatch"
	"github.com/jask/regionhub/internal/localstore"
	"github.com/jask/regionhub/internal/logging"
	"github.com/jask/regionhub/internal/store"
	"github.com/jask/regionhub/internal/telemetry"
	"github.com/jask/regionhub/tabs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// run owns every resource main opens, so deferred cleanup happens before the
// process exits on any error.
func run() error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger, logCloser, err := logging.OpenFile(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("log: %w", err)
	}
	defer logCloser.Close()

	shutdown, err := telemetry.Setup(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTelEndpoint)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := shutdown(sctx); err != nil {
			logger.Warn("telemetry shutdown", "err", err)
		}
	}()

	db, err := localstore.OpenMigrated(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	creds := credentials.New(localstore.NewKV(db))
	journal := telemetry.NewJournal(localstore.NewFaultJournal(db), logger)
	defer journal.Close()
	sink := telemetry.Multi{
		telemetry.LogSink{Logger: logger},
		telemetry.NewTraceSink(otel.GetTracerProvider()),
		journal,
	}

	client, err := api.NewClient(cfg.API.BaseURL,
		api.WithTokenSource(creds),
		api.WithTimeout(cfg.API.Timeout),
		api.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("api client: %w", err)
	}
	fetcher := api.NewRetrying(client, cfg.API.Retries, api.WithRetryLogger(logger))

	st := store.New()
	api.RegisterSlices(st)
	d := dispatch.New(st, fetcher,
		dispatch.WithLogger(logger),
		dispatch.WithRecorder(sink),
		dispatch.WithTimeout(api.FetchBudget(cfg.API.Timeout, cfg.API.Retries)),
	)
	defer d.ReleaseAll()

	if ok, err := auth.Restore(ctx, d, creds, time.Now()); err != nil {
		logger.Warn("restore session", "err", err)
	} else if ok {
		logger.Info("session restored")
	}

	m := app.NewModel(app.Options{
		Dispatcher: d,
		Fetcher:    fetcher,
		Tokens:     creds,
		Logger:     logger,
		Reporter:   sink,
		Money:      tabs.NewMoney(cfg.UI.Locale, cfg.UI.Currency),
		StartPath:  cfg.UI.StartPath,
	})

	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		logger.Error("program exited", "err", err)
		return err
	}
	return nil
}
