package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"veriscan/internal/adapters/fetcher"
	httpadapter "veriscan/internal/adapters/http"
	"veriscan/internal/adapters/llm"
	"veriscan/internal/adapters/pii"
	pg "veriscan/internal/adapters/postgres"
	"veriscan/internal/config"
	"veriscan/internal/notify"
	"veriscan/internal/ports"
	"veriscan/internal/scan"
	reportsvc "veriscan/internal/services/reports"
	scansvc "veriscan/internal/services/scanner"
	scanworker "veriscan/internal/workers/scanrunner"
)

func main() {
	cfg, err := config.Load()

	log := newLogger(cfg.Env)
	defer func() { _ = log.Sync() }()

	if err != nil {
		log.Warn("config", zap.Error(err))
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required for Postgres adapters")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := pg.Migrate(cfg.DatabaseURL); err != nil {
		log.Fatal("migrate", zap.Error(err))
	}

	db, err := pg.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("db connect error", zap.Error(err))
	}
	defer db.Close()

	// Wire repositories to services (ports)
	var _ ports.DomainRepository = db
	var _ ports.ScanRepository = db
	var _ ports.ResultRepository = db
	var _ ports.JobRepository = db

	catalog, err := scan.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		log.Fatal("catalog", zap.Error(err))
	}

	gen, err := llm.New(cfg.OpenAIKey, cfg.OpenAIModel)
	if err != nil {
		log.Fatal("text generator", zap.Error(err))
	}

	fetchTimeout := time.Duration(cfg.FetchTimeoutSecs) * time.Second
	orchestrator := scan.NewOrchestrator(
		fetcher.New(fetchTimeout),
		gen,
		pii.New(),
		catalog,
		&http.Client{Timeout: fetchTimeout},
		log.Named("scan"),
	)

	processor := &scanworker.Pipeline{
		Scans:        db,
		Jobs:         db,
		Results:      db,
		Orchestrator: orchestrator,
		Notifier:     notify.NewLogNotifier(log.Named("notify")),
		Log:          log.Named("pipeline"),
	}

	scanner := scansvc.New(db, db)
	reports := reportsvc.New(db)
	srv := httpadapter.New(scanner, reports, db, processor, log.Named("http"))
	r := chi.NewRouter()
	r.Mount("/", srv.Routes())

	// Optional background job workers
	if cfg.ScanWorkers > 0 {
		go scanworker.Run(ctx, db, processor, cfg.ScanWorkers, 500*time.Millisecond, log.Named("worker"))
		log.Info("scan workers started", zap.Int("count", cfg.ScanWorkers))
	}

	errCh := make(chan error, 1)
	go func() { errCh <- http.ListenAndServe(cfg.ListenAddr, r) }()
	log.Info("listening", zap.String("addr", cfg.ListenAddr))

	// graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		log.Info("shutting down", zap.String("signal", sig.String()))
		cancel()
		time.Sleep(300 * time.Millisecond)
	case err := <-errCh:
		log.Fatal("server error", zap.Error(err))
	}
}

func newLogger(env string) *zap.Logger {
	if env == "development" {
		log, _ := zap.NewDevelopment()
		return log
	}
	log, _ := zap.NewProduction()
	return log
}
