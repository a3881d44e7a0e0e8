package main

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/timmy/ingestq/internal/api"
	"github.com/timmy/ingestq/internal/config"
	"github.com/timmy/ingestq/internal/logger"
	"github.com/timmy/ingestq/internal/notify"
	"github.com/timmy/ingestq/internal/repository"
	"github.com/timmy/ingestq/internal/scheduler"
	"github.com/timmy/ingestq/internal/service"
	"github.com/timmy/ingestq/internal/storage"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Support CONFIG_PATH environment variable for production deployments
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		stdlog.Fatalf("Failed to load config: %v", err)
	}

	log := logger.New(nil)
	logger.SetDefaultLogger(log)
	defer logger.Sync()

	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize database")
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	journal := service.NewJournalService(repository.NewEventRepository(db))
	opts := []scheduler.Option{scheduler.WithObserver(journal)}

	var notifier *notify.WebhookNotifier
	if cfg.Notify.WebhookURL != "" {
		notifier = notify.NewWebhookNotifier(&notify.WebhookConfig{
			URL:     cfg.Notify.WebhookURL,
			Timeout: cfg.Notify.Timeout,
		})
		opts = append(opts, scheduler.WithObserver(notifier))
		log.WithField("url", cfg.Notify.WebhookURL).Info("Completion webhook enabled")
	}

	// Reports read the journal, so the archiver is registered after it.
	var archiver *service.ReportArchiver
	if cfg.Archive.Enabled {
		objectStorage, err := storage.NewStorage(&cfg.Archive)
		if err != nil {
			log.WithError(err).Fatal("Failed to initialize report storage")
		}
		if err := objectStorage.EnsureBucket(context.Background()); err != nil {
			log.WithError(err).Fatal("Failed to ensure report bucket")
		}
		archiver = service.NewReportArchiver(objectStorage, journal, cfg.Archive.Prefix)
		opts = append(opts, scheduler.WithObserver(archiver))
		log.WithField("bucket", cfg.Archive.Bucket).Info("Completion report archive enabled")
	}

	sched := scheduler.New(scheduler.Config{
		BatchSize:        cfg.Scheduler.BatchSize,
		IdlePollInterval: cfg.Scheduler.IdlePollInterval,
		ProcessingDelay:  cfg.Scheduler.ProcessingDelay,
		MaxQueueDepth:    cfg.Scheduler.MaxQueueDepth,
	}, opts...)

	router := api.SetupRouter(service.NewIngestService(sched, journal), &cfg.Server, log)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.WithFields(logger.Fields{
			"port":       cfg.Server.Port,
			"mode":       cfg.Server.Mode,
			"batch_size": cfg.Scheduler.BatchSize,
		}).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return sched.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Error("Server exited with error")
	}

	if notifier != nil {
		notifier.Wait()
	}
	if archiver != nil {
		archiver.Wait()
	}
	log.Info("Server exited")
}
