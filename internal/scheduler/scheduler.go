package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/RubachokBoss/internhub/internal/models"
	"github.com/RubachokBoss/internhub/internal/repository"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

const jobTimeout = 2 * time.Minute

// ProjectStatusJob сохраняет статус overdue у активных проектов с прошедшим дедлайном.
// Читатели и так выводят этот статус из дедлайна; job только делает его видимым в хранилище.
type ProjectStatusJob struct {
	loader *repository.SnapshotLoader
	logger zerolog.Logger
	now    func() time.Time
}

func NewProjectStatusJob(loader *repository.SnapshotLoader, logger zerolog.Logger) *ProjectStatusJob {
	return &ProjectStatusJob{
		loader: loader,
		logger: logger,
		now:    time.Now,
	}
}

// Run возвращает число проектов, помеченных overdue.
func (j *ProjectStatusJob) Run(ctx context.Context) (int, error) {
	snap, err := j.loader.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load projects: %w", err)
	}

	now := j.now()
	store := j.loader.Store()
	marked := 0

	for _, p := range snap.Projects {
		if p.Status == models.ProjectStatusCompleted || p.Status == models.ProjectStatusOverdue {
			continue
		}
		if p.EffectiveStatus(now) != models.ProjectStatusOverdue {
			continue
		}

		// Update создает отсутствующую запись, поэтому удаленный после Load проект пропускаем.
		if _, err := repository.GetProject(ctx, store, p.ID); err != nil {
			if repository.IsNotFound(err) {
				j.logger.Debug().Str("project_id", string(p.ID)).Msg("Project removed before marking, skipped")
				continue
			}
			return marked, fmt.Errorf("failed to recheck project %s: %w", p.ID, err)
		}

		err := store.Update(ctx, models.CollectionProjects, string(p.ID), map[string]interface{}{
			"status": models.ProjectStatusOverdue,
		})
		if err != nil {
			return marked, fmt.Errorf("failed to mark project %s overdue: %w", p.ID, err)
		}
		marked++

		j.logger.Info().
			Str("project_id", string(p.ID)).
			Time("deadline", p.Deadline).
			Msg("Project marked overdue")
	}

	return marked, nil
}

type Scheduler struct {
	cron   *cron.Cron
	logger zerolog.Logger
}

func New(spec string, job *ProjectStatusJob, logger zerolog.Logger) (*Scheduler, error) {
	cronLog := cronLogger{logger: logger}
	c := cron.New(cron.WithLogger(cronLog), cron.WithChain(
		cron.Recover(cronLog),
		cron.SkipIfStillRunning(cronLog),
	))

	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		marked, err := job.Run(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("Project status job failed")
			return
		}
		logger.Debug().Int("marked", marked).Msg("Project status job finished")
	})
	if err != nil {
		return nil, fmt.Errorf("failed to schedule project status job %q: %w", spec, err)
	}

	return &Scheduler{cron: c, logger: logger}, nil
}

func (s *Scheduler) Start() {
	s.logger.Info().Msg("Scheduler started")
	s.cron.Start()
}

// Stop ждет завершения запущенного job или отмены ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn().Msg("Scheduler stop timed out")
	}
}

// cronLogger направляет логи cron в zerolog.
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
