package service

import (
	"context"
	"fmt"

	"github.com/RubachokBoss/internhub/internal/models"
	"github.com/RubachokBoss/internhub/internal/repository"
	"github.com/RubachokBoss/internhub/internal/service/resolver"
	"github.com/RubachokBoss/internhub/pkg/validate"
	"github.com/rs/zerolog"
)

// Супервайзеры создаются вне сервиса; здесь только чтение и правка профиля.
type SupervisorService interface {
	GetSupervisor(ctx context.Context, id models.SupervisorID) (*models.SupervisorWithStats, error)
	ListSupervisors(ctx context.Context) ([]models.SupervisorWithStats, error)
	UpdateProfile(ctx context.Context, actor models.Actor, id models.SupervisorID, req *models.UpdateSupervisorRequest) (*models.Supervisor, error)
}

type supervisorService struct {
	loader *repository.SnapshotLoader
	store  repository.DocumentStore
	logger zerolog.Logger
}

func NewSupervisorService(loader *repository.SnapshotLoader, logger zerolog.Logger) SupervisorService {
	return &supervisorService{
		loader: loader,
		store:  loader.Store(),
		logger: logger,
	}
}

func (s *supervisorService) GetSupervisor(ctx context.Context, id models.SupervisorID) (*models.SupervisorWithStats, error) {
	v, err := loadView(ctx, s.loader)
	if err != nil {
		return nil, err
	}

	sup, ok := v.res.Supervisor(id)
	if !ok {
		return nil, models.ErrSupervisorNotFound
	}

	result := supervisorStats(v.res, *sup)
	return &result, nil
}

func (s *supervisorService) ListSupervisors(ctx context.Context) ([]models.SupervisorWithStats, error) {
	v, err := loadView(ctx, s.loader)
	if err != nil {
		return nil, err
	}

	result := make([]models.SupervisorWithStats, 0, len(v.snap.Supervisors))
	for _, sup := range v.snap.Supervisors {
		result = append(result, supervisorStats(v.res, sup))
	}
	return result, nil
}

func (s *supervisorService) UpdateProfile(ctx context.Context, actor models.Actor, id models.SupervisorID, req *models.UpdateSupervisorRequest) (*models.Supervisor, error) {
	if !actor.Owns(id) {
		return nil, models.ErrForbidden
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	if _, err := repository.GetSupervisor(ctx, s.store, id); err != nil {
		if repository.IsNotFound(err) {
			return nil, models.ErrSupervisorNotFound
		}
		return nil, fmt.Errorf("failed to get supervisor: %w", err)
	}

	patch := map[string]interface{}{
		"name":       req.Name,
		"department": optional(req.Department),
		"notes":      optional(req.Notes),
	}
	if req.Email != "" {
		patch["email"] = req.Email
	}

	if err := s.store.Update(ctx, models.CollectionSupervisors, string(id), patch); err != nil {
		return nil, fmt.Errorf("failed to update supervisor: %w", err)
	}

	s.logger.Info().
		Str("supervisor_id", string(id)).
		Msg("Supervisor profile updated")

	return repository.GetSupervisor(ctx, s.store, id)
}

func supervisorStats(res *resolver.Resolver, sup models.Supervisor) models.SupervisorWithStats {
	return models.SupervisorWithStats{
		Supervisor:   sup,
		TotalGroups:  len(res.GroupsOfSupervisor(sup.UID)),
		TotalInterns: len(res.InternsOfSupervisor(sup.UID)),
	}
}
