package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/RubachokBoss/internhub/internal/config"
	"github.com/RubachokBoss/internhub/internal/database"
	"github.com/RubachokBoss/internhub/internal/delivery/httpd"
	httpmw "github.com/RubachokBoss/internhub/internal/middleware"
	"github.com/RubachokBoss/internhub/internal/repository"
	"github.com/RubachokBoss/internhub/internal/scheduler"
	"github.com/RubachokBoss/internhub/internal/service"
	"github.com/RubachokBoss/internhub/internal/service/integration"
	"github.com/RubachokBoss/internhub/internal/service/membership"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

type App struct {
	server    *http.Server
	logger    zerolog.Logger
	config    *config.Config
	store     repository.DocumentStore
	publisher integration.EventPublisher
	scheduler *scheduler.Scheduler
}

func New(cfg *config.Config, log zerolog.Logger) (*App, error) {
	store, err := openStore(cfg, log)
	if err != nil {
		return nil, err
	}

	policy, err := membership.ParsePolicy(cfg.Membership.TargetGroupPolicy)
	if err != nil {
		store.Close()
		return nil, err
	}

	publisher := newPublisher(cfg.RabbitMQ, log)
	files := newFileStorage(cfg, log)

	loader := repository.NewSnapshotLoader(store, log)
	mutator := membership.NewMutator(loader, policy, publisher, log)

	// Создаем сервисы
	services := httpd.Services{
		Interns:     service.NewInternService(loader, mutator, log),
		Supervisors: service.NewSupervisorService(loader, log),
		Groups:      service.NewGroupService(loader, mutator, publisher, log),
		Assignments: service.NewAssignmentService(loader, files, publisher, log),
		Projects:    service.NewProjectService(loader, log),
		Submissions: service.NewSubmissionService(loader, publisher, log),
		Documents:   service.NewDocumentService(loader, files, publisher, log),
		Grades:      service.NewGradeService(loader, log),
		Dashboard:   service.NewDashboardService(loader, log),
	}

	auth := httpmw.NewAuthenticator(cfg.Auth, log)
	if !cfg.Auth.Enabled {
		log.Warn().Msg("Authentication disabled, identity is taken from X-User-ID/X-User-Role headers")
	}

	handler := httpd.NewHandler(services, auth, store, cfg.Server.MaxUploadSize, log)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(httpmw.RequestLogger(log))
	router.Use(httpmw.Recovery(log))
	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	}))

	handler.RegisterRoutes(router)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	a := &App{
		server:    server,
		logger:    log,
		config:    cfg,
		store:     store,
		publisher: publisher,
	}

	if cfg.Scheduler.Enabled {
		job := scheduler.NewProjectStatusJob(loader, log)
		a.scheduler, err = scheduler.New(cfg.Scheduler.ProjectStatusSpec, job, log)
		if err != nil {
			a.closeResources()
			return nil, err
		}
	}

	return a, nil
}

func (a *App) Run() error {
	if a.scheduler != nil {
		a.scheduler.Start()
	}

	a.logger.Info().
		Str("store", a.config.Store.Driver).
		Msgf("Starting internhub on %s", a.config.Server.Address)

	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info().Msg("Shutting down internhub...")

	if a.scheduler != nil {
		a.scheduler.Stop(ctx)
	}

	err := a.server.Shutdown(ctx)
	a.closeResources()

	if err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

func (a *App) closeResources() {
	if err := a.publisher.Close(); err != nil {
		a.logger.Error().Err(err).Msg("Failed to close RabbitMQ connection")
	}
	if err := a.store.Close(); err != nil {
		a.logger.Error().Err(err).Msg("Failed to close store")
	}
}

func openStore(cfg *config.Config, log zerolog.Logger) (repository.DocumentStore, error) {
	switch cfg.Store.Driver {
	case repository.DriverMemory:
		log.Warn().Msg("Using in-memory store, data is lost on restart")
		return repository.NewMemoryStore(), nil

	case repository.DriverPostgres:
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		log.Info().Msg("Database connection established")
		return repository.NewPostgresStore(db, log), nil

	case repository.DriverMongo:
		client, err := database.NewMongo(context.Background(), cfg.Mongo)
		if err != nil {
			return nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("MongoDB connection established")
		return repository.NewMongoStore(client, cfg.Mongo.Database, log), nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// newPublisher: без RabbitMQ события не отправляются, но операции продолжают работать.
func newPublisher(cfg config.RabbitMQConfig, log zerolog.Logger) integration.EventPublisher {
	if !cfg.Enabled {
		return integration.NewNoopPublisher()
	}

	publisher, err := integration.NewRabbitMQPublisher(cfg.URL, cfg.Exchange, log)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create RabbitMQ publisher, events disabled")
		return integration.NewNoopPublisher()
	}
	return publisher
}

func newFileStorage(cfg *config.Config, log zerolog.Logger) integration.FileStorage {
	if !cfg.MinIO.Enabled {
		return integration.NewDisabledStorage()
	}

	files, err := integration.NewMinIOStorage(integration.MinIOStorageConfig{
		Endpoint:  cfg.MinIO.Endpoint,
		AccessKey: cfg.MinIO.AccessKey,
		SecretKey: cfg.MinIO.SecretKey,
		UseSSL:    cfg.MinIO.UseSSL,
		Bucket:    cfg.Storage.BucketName,
		Region:    cfg.Storage.Region,
		PublicURL: cfg.Storage.PublicURL,
		URLExpiry: cfg.Storage.URLExpiry,
		Timeout:   cfg.MinIO.Timeout,
	}, log)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create MinIO storage, uploads disabled")
		return integration.NewDisabledStorage()
	}
	return files
}
