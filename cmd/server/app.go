package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/parlons/parlons-api/internal/api"
	apimiddleware "github.com/parlons/parlons-api/internal/api/middleware"
	"github.com/parlons/parlons-api/internal/config"
	"github.com/parlons/parlons-api/internal/domain"
	"github.com/parlons/parlons-api/internal/domain/mastery"
	"github.com/parlons/parlons-api/internal/events"
	"github.com/parlons/parlons-api/internal/platform/logger"
	"github.com/parlons/parlons-api/internal/platform/remote"
	"github.com/parlons/parlons-api/internal/platform/sqlite"
	"github.com/parlons/parlons-api/internal/scheduler"
	"github.com/parlons/parlons-api/internal/service/revision"
	"github.com/parlons/parlons-api/internal/service/session"
	"github.com/parlons/parlons-api/internal/store"
	"github.com/parlons/parlons-api/internal/store/memstore"
	"github.com/parlons/parlons-api/internal/syncer"
)

// application holds the fully wired dependency graph for one engine
// instance. Everything is explicitly constructed here; packages never
// reach for process-wide singletons.
type application struct {
	cfg         *config.Config
	logger      *slog.Logger
	db          *sqlite.Store
	records     store.RecordStore
	coordinator *syncer.Coordinator
	revision    revision.Service
	sessions    session.Manager
	scheduler   *scheduler.Scheduler
}

// initializeApp loads configuration, sets up logging, restores persisted
// state, and wires the service graph.
func initializeApp() (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(logger.LoggerConfig{Level: cfg.Server.LogLevel})
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"language", cfg.Engine.Language,
		"context_key", cfg.Engine.ContextKey,
		"remote_enabled", cfg.Remote.BaseURL != "")

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	language := domain.LanguageCode(cfg.Engine.Language)

	// Boot from durable state so a restart resumes where the last run left
	// off.
	loadCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	persisted, err := db.LoadRecords(loadCtx, language, cfg.Engine.ContextKey)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to load persisted records: %w", err)
	}
	records := memstore.NewFromRecords(persisted)
	slog.Info("record store restored", "records", records.Len())

	var remoteStore store.RemoteStore
	if cfg.Remote.BaseURL != "" {
		remoteStore = remote.NewClient(cfg.Remote.BaseURL, cfg.Remote.Timeout, appLogger)
	}

	emitter := events.NewInMemoryEmitter(appLogger)

	coordinator := syncer.NewCoordinator(
		syncer.Config{
			Language:    language,
			ContextKey:  cfg.Engine.ContextKey,
			Window:      cfg.Engine.DebounceWindow,
			PushTimeout: cfg.Remote.Timeout,
		},
		records,
		remoteStore,
		emitter,
		appLogger,
	)

	revisionService := revision.NewService(
		revision.Config{
			Language:   language,
			ContextKey: cfg.Engine.ContextKey,
			StoreCap:   cfg.Engine.StoreCap,
			LessonSize: cfg.Engine.LessonSize,
		},
		records,
		db,
		remoteStore,
		coordinator,
		appLogger,
	)

	sessionManager := session.NewManager(
		mastery.NewStrictEvaluator(),
		coordinator,
		cfg.Engine.XPPerMastered,
		appLogger,
	)

	return &application{
		cfg:         cfg,
		logger:      appLogger,
		db:          db,
		records:     records,
		coordinator: coordinator,
		revision:    revisionService,
		sessions:    sessionManager,
		scheduler:   scheduler.New(revisionService, cfg.Engine.ReconcileInterval, appLogger),
	}, nil
}

// httpServer builds the HTTP server with the full route table.
func (a *application) httpServer() *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler:           a.router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func (a *application) router() chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(apimiddleware.TraceMiddleware)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	sessionHandler := api.NewSessionHandler(a.sessions, a.revision, a.logger)
	revisionHandler := api.NewRevisionHandler(a.revision, a.logger)

	r.Route("/api", func(r chi.Router) {
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", sessionHandler.StartSession)
			r.Post("/attempts", sessionHandler.AddAttempt)
			r.Post("/finish", sessionHandler.FinishSession)
			r.Delete("/", sessionHandler.AbandonSession)
		})
		r.Route("/revision", func(r chi.Router) {
			r.Get("/progress", revisionHandler.GetProgress)
			r.Post("/pass", revisionHandler.StartPass)
			r.Post("/result", revisionHandler.RecordResult)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	return r
}

// persistFinal writes the current record table to the local store one last
// time before exit. Failures are logged; in-memory state is gone either
// way once the process exits.
func (a *application) persistFinal(ctx context.Context) {
	language := domain.LanguageCode(a.cfg.Engine.Language)
	snapshot := a.records.Compact(a.cfg.Engine.StoreCap)
	if err := a.db.SaveRecords(ctx, language, a.cfg.Engine.ContextKey, snapshot); err != nil {
		slog.Warn("final persist failed", "error", err)
		return
	}
	slog.Info("final persist complete", "records", len(snapshot))
}

// Close releases held resources.
func (a *application) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}
