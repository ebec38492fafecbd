package service

import (
	"context"
	"fmt"
	"time"

	"github.com/RubachokBoss/internhub/internal/models"
	"github.com/RubachokBoss/internhub/internal/repository"
	"github.com/RubachokBoss/internhub/internal/service/stats"
	"github.com/RubachokBoss/internhub/pkg/validate"
	"github.com/rs/zerolog"
)

type ProjectService interface {
	CreateProject(ctx context.Context, actor models.Actor, req *models.ProjectRequest) (*models.Project, error)
	UpdateProject(ctx context.Context, actor models.Actor, id models.ProjectID, req *models.ProjectRequest) (*models.Project, error)
	DeleteProject(ctx context.Context, actor models.Actor, id models.ProjectID) error
	CompleteProject(ctx context.Context, actor models.Actor, id models.ProjectID) (*models.Project, error)
	GetProject(ctx context.Context, id models.ProjectID) (*models.Project, error)
	// ListProjects: пустой supervisorID — все проекты. Статус вычисляется на момент запроса.
	ListProjects(ctx context.Context, supervisorID models.SupervisorID) ([]models.Project, error)
	ListForIntern(ctx context.Context, internID models.InternID) ([]models.Project, error)
}

type projectService struct {
	loader *repository.SnapshotLoader
	store  repository.DocumentStore
	logger zerolog.Logger
	now    func() time.Time
}

func NewProjectService(loader *repository.SnapshotLoader, logger zerolog.Logger) ProjectService {
	return &projectService{
		loader: loader,
		store:  loader.Store(),
		logger: logger,
		now:    time.Now,
	}
}

func (s *projectService) CreateProject(ctx context.Context, actor models.Actor, req *models.ProjectRequest) (*models.Project, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	supervisorID := models.SupervisorID(req.SupervisorID)
	if actor.IsSupervisor() {
		supervisorID = models.SupervisorID(actor.ID)
	}
	if supervisorID == "" {
		return nil, models.NewValidationError(models.FieldError{Field: "supervisor_id", Error: "is required"})
	}
	if !actor.Owns(supervisorID) {
		return nil, models.ErrForbidden
	}

	if _, err := repository.GetSupervisor(ctx, s.store, supervisorID); err != nil {
		if repository.IsNotFound(err) {
			return nil, models.ErrSupervisorNotFound
		}
		return nil, fmt.Errorf("failed to get supervisor: %w", err)
	}

	p := &models.Project{
		Title:        req.Title,
		Description:  req.Description,
		Deadline:     req.Deadline.UTC(),
		AssignedTo:   models.ProjectAssignee(req.AssignedTo),
		AssignedIDs:  dedupeStrings(req.AssignedIDs),
		SupervisorID: supervisorID,
		Status:       models.ProjectStatusActive,
	}
	p.Status = p.EffectiveStatus(s.now())

	id, err := s.store.Push(ctx, models.CollectionProjects, p)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	p.ID = models.ProjectID(id)

	s.logger.Info().
		Str("project_id", id).
		Str("supervisor_id", string(supervisorID)).
		Str("assigned_to", req.AssignedTo).
		Msg("Project created")

	return p, nil
}

func (s *projectService) UpdateProject(ctx context.Context, actor models.Actor, id models.ProjectID, req *models.ProjectRequest) (*models.Project, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	existing, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	p := &models.Project{
		ID:           id,
		Title:        req.Title,
		Description:  req.Description,
		Deadline:     req.Deadline.UTC(),
		AssignedTo:   models.ProjectAssignee(req.AssignedTo),
		AssignedIDs:  dedupeStrings(req.AssignedIDs),
		SupervisorID: existing.SupervisorID,
		Status:       existing.Status,
	}
	p.Status = p.EffectiveStatus(s.now())

	if err := s.store.Set(ctx, models.CollectionProjects, string(id), p); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	s.logger.Info().
		Str("project_id", string(id)).
		Msg("Project updated")

	return p, nil
}

func (s *projectService) DeleteProject(ctx context.Context, actor models.Actor, id models.ProjectID) error {
	if _, err := s.owned(ctx, actor, id); err != nil {
		return err
	}

	if err := s.store.Remove(ctx, models.CollectionProjects, string(id)); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	s.logger.Info().
		Str("project_id", string(id)).
		Msg("Project deleted")

	return nil
}

func (s *projectService) CompleteProject(ctx context.Context, actor models.Actor, id models.ProjectID) (*models.Project, error) {
	p, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if p.Status == models.ProjectStatusCompleted {
		return nil, models.ErrProjectCompleted
	}

	err = s.store.Update(ctx, models.CollectionProjects, string(id), map[string]interface{}{
		"status": models.ProjectStatusCompleted,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to complete project: %w", err)
	}
	p.Status = models.ProjectStatusCompleted

	s.logger.Info().
		Str("project_id", string(id)).
		Msg("Project completed")

	return p, nil
}

func (s *projectService) GetProject(ctx context.Context, id models.ProjectID) (*models.Project, error) {
	p, err := s.existing(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Status = p.EffectiveStatus(s.now())
	return p, nil
}

func (s *projectService) ListProjects(ctx context.Context, supervisorID models.SupervisorID) ([]models.Project, error) {
	v, err := loadView(ctx, s.loader)
	if err != nil {
		return nil, err
	}

	now := s.now()
	result := make([]models.Project, 0, len(v.snap.Projects))
	for _, p := range v.snap.Projects {
		if supervisorID != "" && p.SupervisorID != supervisorID {
			continue
		}
		p.Status = p.EffectiveStatus(now)
		result = append(result, p)
	}
	return result, nil
}

func (s *projectService) ListForIntern(ctx context.Context, internID models.InternID) ([]models.Project, error) {
	v, err := loadView(ctx, s.loader)
	if err != nil {
		return nil, err
	}
	if _, ok := v.res.Intern(internID); !ok {
		return nil, models.ErrInternNotFound
	}

	now := s.now()
	projects := stats.New(v.res).ProjectsOf(internID)
	result := make([]models.Project, 0, len(projects))
	for _, p := range projects {
		p.Status = p.EffectiveStatus(now)
		result = append(result, p)
	}
	return result, nil
}

func (s *projectService) existing(ctx context.Context, id models.ProjectID) (*models.Project, error) {
	p, err := repository.GetProject(ctx, s.store, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, models.ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return p, nil
}

func (s *projectService) owned(ctx context.Context, actor models.Actor, id models.ProjectID) (*models.Project, error) {
	p, err := s.existing(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Owns(p.SupervisorID) {
		return nil, models.ErrForbidden
	}
	return p, nil
}
