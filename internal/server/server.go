// Package server builds the application from configuration: storage
// backends, the attestation signer, every module service and the HTTP
// router that exposes them.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	applicanthandler "jobgate/internal/applicants/handler"
	applicantmodels "jobgate/internal/applicants/models"
	applicantservice "jobgate/internal/applicants/service"
	applicantstore "jobgate/internal/applicants/store"
	applicationhandler "jobgate/internal/applications/handler"
	applicationmetrics "jobgate/internal/applications/metrics"
	applicationmodels "jobgate/internal/applications/models"
	applicationservice "jobgate/internal/applications/service"
	applicationstore "jobgate/internal/applications/store"
	"jobgate/internal/attestation"
	attestationhandler "jobgate/internal/attestation/handler"
	"jobgate/internal/docstore"
	"jobgate/internal/eligibility"
	eligibilityhandler "jobgate/internal/eligibility/handler"
	employerhandler "jobgate/internal/employers/handler"
	employermodels "jobgate/internal/employers/models"
	employerservice "jobgate/internal/employers/service"
	employerstore "jobgate/internal/employers/store"
	httpapi "jobgate/internal/http"
	jobhandler "jobgate/internal/jobs/handler"
	jobmetrics "jobgate/internal/jobs/metrics"
	jobmodels "jobgate/internal/jobs/models"
	"jobgate/internal/jobs/search"
	jobservice "jobgate/internal/jobs/service"
	jobstore "jobgate/internal/jobs/store"
	"jobgate/internal/platform/config"
	"jobgate/internal/platform/metrics"
	"jobgate/internal/platform/postgres"
	"jobgate/internal/platform/redis"
	"jobgate/internal/seed"
	audit "jobgate/pkg/platform/audit"
	"jobgate/pkg/platform/audit/kafka"
	"jobgate/pkg/platform/audit/publisher"
	auditmemory "jobgate/pkg/platform/audit/store/memory"
	auditpostgres "jobgate/pkg/platform/audit/store/postgres"
	"jobgate/pkg/platform/circuit"
)

const auditBuffer = 1024

// App is a fully wired instance. Close releases everything Build opened.
type App struct {
	Handler  http.Handler
	Registry *prometheus.Registry
	Audit    *publisher.Publisher
	Signer   *attestation.Signer

	Employers    *employerservice.Service
	Jobs         *jobservice.Service
	Applicants   *applicantservice.Service
	Applications *applicationservice.Service

	closers []func()
}

// Close runs cleanup in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func (a *App) onClose(fn func()) { a.closers = append(a.closers, fn) }

// Build connects to the configured backends and assembles the handler tree.
// On error every resource opened so far is released.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *App, err error) {
	app := &App{Registry: prometheus.NewRegistry()}
	defer func() {
		if err != nil {
			app.Close()
		}
	}()
	app.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	checks := map[string]httpapi.HealthCheck{}

	var db *postgres.DB
	if cfg.Storage.Backend == config.StoragePostgres {
		db, err = postgres.Connect(ctx, postgres.Config{
			URL:            cfg.Storage.DatabaseURL,
			MaxConns:       cfg.Storage.MaxConns,
			HealthCheck:    30 * time.Second,
			ConnectTimeout: cfg.Storage.ConnectTimeout,
			MigrateOnStart: cfg.Storage.MigrateOnStart,
		})
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		app.onClose(db.Close)
		checks["postgres"] = db.Health
		logger.InfoContext(ctx, "postgres storage ready")
	}

	rdb, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	if rdb != nil {
		app.onClose(func() { _ = rdb.Close() })
		checks["redis"] = rdb.Health
		logger.InfoContext(ctx, "redis connected")
	}

	if err := buildAudit(ctx, app, cfg, db, logger); err != nil {
		return nil, err
	}

	app.Signer, err = attestation.NewSigner(cfg.AttestationSeed(), cfg.Attestation.Issuer,
		attestation.WithTTL(cfg.Attestation.TTL),
		attestation.WithRevocations(revocations(rdb, db)),
		attestation.WithMetrics(attestation.NewMetricsWith(app.Registry)),
	)
	if err != nil {
		return nil, fmt.Errorf("attestation signer: %w", err)
	}

	index, err := buildSearch(ctx, cfg.Search, checks, logger)
	if err != nil {
		return nil, err
	}

	evaluator := eligibility.NewEvaluator(eligibility.DefaultCatalog).
		WithDefaultMinScore(cfg.Eligibility.DefaultMinScore)
	var pool *pgxpool.Pool
	if db != nil {
		pool = db.Pool
	}

	app.Applicants = applicantservice.New(
		applicantstore.New(
			docstore.Open[applicantmodels.Applicant](pool, "applicants"),
			docstore.Open[string](pool, "applicant_dids"),
			docstore.Open[string](pool, "applicant_emails"),
		),
		applicantservice.WithCatalog(evaluator.Catalog()),
		applicantservice.WithLogger(logger),
		applicantservice.WithAuditPublisher(app.Audit),
	)
	app.Employers = employerservice.New(
		employerstore.New(
			docstore.Open[employermodels.Employer](pool, "employers"),
			docstore.Open[string](pool, "employer_dids"),
			docstore.Open[string](pool, "employer_emails"),
		),
		app.Signer,
		employerservice.WithWallet(app.Applicants),
		employerservice.WithLogger(logger),
		employerservice.WithAuditPublisher(app.Audit),
	)
	app.Jobs = jobservice.New(
		jobstore.New(docstore.Open[jobmodels.Job](pool, "jobs")),
		jobservice.WithIndex(index),
		jobservice.WithSigner(app.Signer),
		jobservice.WithEmployers(app.Employers),
		jobservice.WithEvaluator(evaluator),
		jobservice.WithMetrics(jobmetrics.NewWith(app.Registry)),
		jobservice.WithLogger(logger),
		jobservice.WithAuditPublisher(app.Audit),
	)
	app.Applications = applicationservice.New(
		applicationstore.New(docstore.Open[applicationmodels.Application](pool, "applications")),
		app.Jobs,
		app.Applicants,
		applicationservice.WithSigner(app.Signer),
		applicationservice.WithEvaluator(evaluator),
		applicationservice.WithMetrics(applicationmetrics.NewWith(app.Registry)),
		applicationservice.WithLogger(logger),
		applicationservice.WithAuditPublisher(app.Audit),
	)

	if db != nil {
		n, err := app.Jobs.Reindex(ctx)
		if err != nil {
			return nil, fmt.Errorf("reindex jobs: %w", err)
		}
		logger.InfoContext(ctx, "search index rebuilt", "jobs", n)
	}
	if cfg.Seed.Enabled {
		if _, err := seed.Load(ctx, app.Employers, app.Jobs, app.Applicants, logger); err != nil {
			return nil, fmt.Errorf("load demo data: %w", err)
		}
	}

	app.Handler = httpapi.NewRouter(httpapi.Options{
		Logger:   logger,
		Observer: metrics.NewHTTPWith(app.Registry),
		Gatherer: app.Registry,
		Checks:   checks,
		Handlers: []httpapi.Registrar{
			eligibilityhandler.New(evaluator, logger),
			jobhandler.New(app.Jobs, logger),
			applicanthandler.New(app.Applicants, logger),
			employerhandler.New(app.Employers, logger),
			applicationhandler.New(app.Applications, logger),
			attestationhandler.New(app.Signer, logger),
		},
	})
	return app, nil
}

// buildAudit picks the event store for the storage backend and, when Kafka
// is enabled, streams every stored event to the audit topic.
func buildAudit(ctx context.Context, app *App, cfg *config.Config, db *postgres.DB, logger *slog.Logger) error {
	var store audit.Store = auditmemory.NewInMemoryStore()
	if db != nil {
		store = auditpostgres.New(db.SQL)
	}
	opts := []publisher.Option{
		publisher.WithAsyncBuffer(auditBuffer),
		publisher.WithLogger(logger),
	}
	if cfg.Kafka.Enabled {
		sink, err := kafka.New(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			return fmt.Errorf("kafka audit sink: %w", err)
		}
		if err := sink.EnsureTopic(ctx, 3, 1); err != nil {
			sink.Close()
			return err
		}
		// The publisher closes its sink after draining.
		opts = append(opts, publisher.WithSink(sink))
		logger.InfoContext(ctx, "streaming audit events", "topic", cfg.Kafka.Topic)
	}
	app.Audit = publisher.NewPublisher(store, opts...)
	app.onClose(app.Audit.Close)
	return nil
}

func revocations(rdb *redis.Client, db *postgres.DB) attestation.RevocationList {
	switch {
	case rdb != nil:
		return attestation.NewRedisRevocations(rdb.Client)
	case db != nil:
		return attestation.NewPostgresRevocations(db.SQL, time.Now)
	default:
		return attestation.NewMemoryRevocations(time.Now)
	}
}

// buildSearch returns an in-memory index, or Elasticsearch behind a
// breaker with the in-memory index as fallback.
func buildSearch(ctx context.Context, cfg config.SearchConfig, checks map[string]httpapi.HealthCheck, logger *slog.Logger) (search.Index, error) {
	memory := search.NewMemory()
	if !cfg.Enabled {
		return memory, nil
	}
	elastic, err := search.NewElastic(search.ElasticConfig{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
		Index:     cfg.Index,
	})
	if err != nil {
		return nil, err
	}
	if err := elastic.EnsureIndex(ctx); err != nil {
		logger.WarnContext(ctx, "elasticsearch unavailable, serving search from memory", "error", err)
	}
	resilient := search.NewResilient(elastic, memory,
		search.WithLogger(logger),
		search.WithBreaker(circuit.New("search",
			circuit.WithFailureThreshold(5),
			circuit.WithSuccessThreshold(2),
		)),
	)
	checks["search"] = func(context.Context) error {
		if resilient.Degraded() {
			return errors.New("serving from in-memory fallback")
		}
		return nil
	}
	return resilient, nil
}
