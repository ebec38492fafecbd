package service

import (
	"context"
	"fmt"

	"github.com/RubachokBoss/internhub/internal/models"
	"github.com/RubachokBoss/internhub/internal/repository"
	"github.com/RubachokBoss/internhub/internal/service/membership"
	"github.com/RubachokBoss/internhub/internal/service/resolver"
	"github.com/RubachokBoss/internhub/pkg/validate"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type InternService interface {
	CreateIntern(ctx context.Context, req *models.CreateInternRequest) (*models.Intern, error)
	UpdateIntern(ctx context.Context, id models.InternID, req *models.UpdateInternRequest) (*models.Intern, error)
	DeleteIntern(ctx context.Context, id models.InternID) error
	GetIntern(ctx context.Context, id models.InternID) (*models.InternWithRelations, error)
	ListInterns(ctx context.Context) ([]models.InternWithRelations, error)
	SetNickname(ctx context.Context, id models.InternID, req *models.SetNicknameRequest) (*models.Intern, error)
}

type internService struct {
	loader  *repository.SnapshotLoader
	store   repository.DocumentStore
	mutator membership.Mutator
	logger  zerolog.Logger
}

func NewInternService(loader *repository.SnapshotLoader, mutator membership.Mutator, logger zerolog.Logger) InternService {
	return &internService{
		loader:  loader,
		store:   loader.Store(),
		mutator: mutator,
		logger:  logger,
	}
}

func (s *internService) CreateIntern(ctx context.Context, req *models.CreateInternRequest) (*models.Intern, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	uid := req.UID
	if uid == "" {
		uid = uuid.New().String()
	} else {
		_, err := repository.GetIntern(ctx, s.store, models.InternID(uid))
		if err == nil {
			return nil, models.ErrInternExists
		}
		if !repository.IsNotFound(err) {
			return nil, fmt.Errorf("failed to check intern existence: %w", err)
		}
	}

	intern := &models.Intern{
		UID:        models.InternID(uid),
		Name:       req.Name,
		Nickname:   req.Nickname,
		Email:      req.Email,
		University: req.University,
		GPA:        req.GPA,
		Skills:     nonNil(req.Skills),
		Weaknesses: nonNil(req.Weaknesses),
		Batch:      req.Batch,
	}

	if err := s.store.Set(ctx, models.CollectionInterns, uid, intern); err != nil {
		return nil, fmt.Errorf("failed to create intern: %w", err)
	}

	s.logger.Info().
		Str("intern_id", uid).
		Str("batch", req.Batch).
		Msg("Intern created")

	return intern, nil
}

func (s *internService) UpdateIntern(ctx context.Context, id models.InternID, req *models.UpdateInternRequest) (*models.Intern, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	if _, err := s.existing(ctx, id); err != nil {
		return nil, err
	}

	patch := map[string]interface{}{
		"name":       req.Name,
		"email":      req.Email,
		"university": req.University,
		"gpa":        req.GPA,
		"skills":     nonNil(req.Skills),
		"weaknesses": nonNil(req.Weaknesses),
		"nickname":   optional(req.Nickname),
		"batch":      optional(req.Batch),
	}
	if err := s.store.Update(ctx, models.CollectionInterns, string(id), patch); err != nil {
		return nil, fmt.Errorf("failed to update intern: %w", err)
	}

	s.logger.Info().
		Str("intern_id", string(id)).
		Msg("Intern updated")

	return repository.GetIntern(ctx, s.store, id)
}

// DeleteIntern сначала убирает интерна из групп, затем удаляет запись.
func (s *internService) DeleteIntern(ctx context.Context, id models.InternID) error {
	if _, err := s.existing(ctx, id); err != nil {
		return err
	}

	if err := s.mutator.DetachIntern(ctx, id); err != nil {
		return fmt.Errorf("failed to detach intern from groups: %w", err)
	}

	if err := s.store.Remove(ctx, models.CollectionInterns, string(id)); err != nil {
		return fmt.Errorf("failed to delete intern: %w", err)
	}

	s.logger.Info().
		Str("intern_id", string(id)).
		Msg("Intern deleted")

	return nil
}

func (s *internService) GetIntern(ctx context.Context, id models.InternID) (*models.InternWithRelations, error) {
	v, err := loadView(ctx, s.loader)
	if err != nil {
		return nil, err
	}

	intern, ok := v.res.Intern(id)
	if !ok {
		return nil, models.ErrInternNotFound
	}

	result := withRelations(v.res, *intern)
	return &result, nil
}

func (s *internService) ListInterns(ctx context.Context) ([]models.InternWithRelations, error) {
	v, err := loadView(ctx, s.loader)
	if err != nil {
		return nil, err
	}

	interns := make([]models.InternWithRelations, 0, len(v.snap.Interns))
	for _, intern := range v.snap.Interns {
		interns = append(interns, withRelations(v.res, intern))
	}
	return interns, nil
}

func (s *internService) SetNickname(ctx context.Context, id models.InternID, req *models.SetNicknameRequest) (*models.Intern, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	if _, err := s.existing(ctx, id); err != nil {
		return nil, err
	}

	err := s.store.Update(ctx, models.CollectionInterns, string(id), map[string]interface{}{
		"nickname": optional(req.Nickname),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update nickname: %w", err)
	}

	return repository.GetIntern(ctx, s.store, id)
}

func (s *internService) existing(ctx context.Context, id models.InternID) (*models.Intern, error) {
	intern, err := repository.GetIntern(ctx, s.store, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, models.ErrInternNotFound
		}
		return nil, fmt.Errorf("failed to get intern: %w", err)
	}
	return intern, nil
}

// withRelations: интерн без группы или с удаленным супервайзером получает "Unknown Supervisor".
func withRelations(res *resolver.Resolver, intern models.Intern) models.InternWithRelations {
	result := models.InternWithRelations{
		Intern:         intern,
		SupervisorName: resolver.UnknownSupervisor,
	}

	g, ok := res.GroupOf(intern.UID)
	if !ok {
		return result
	}

	result.GroupID = g.ID
	result.GroupName = g.Name
	result.SupervisorID = g.SupervisorID
	result.SupervisorName = res.SupervisorName(g.SupervisorID)
	return result
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

// optional: пустая строка удаляет необязательное поле из записи.
func optional(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}
