package service

import (
	"context"
	"fmt"

	"github.com/RubachokBoss/internhub/internal/models"
	"github.com/RubachokBoss/internhub/internal/repository"
	"github.com/RubachokBoss/internhub/internal/service/integration"
	"github.com/RubachokBoss/internhub/internal/service/resolver"
	"github.com/RubachokBoss/internhub/internal/service/stats"
	"github.com/RubachokBoss/internhub/pkg/validate"
	"github.com/rs/zerolog"
)

type AssignmentService interface {
	CreateAssignment(ctx context.Context, req *models.AssignmentRequest) (*models.AssignmentWithTargets, error)
	UpdateAssignment(ctx context.Context, id models.AssignmentID, req *models.AssignmentRequest) (*models.AssignmentWithTargets, error)
	DeleteAssignment(ctx context.Context, id models.AssignmentID) error
	GetAssignment(ctx context.Context, id models.AssignmentID) (*models.AssignmentWithTargets, error)
	ListAssignments(ctx context.Context) ([]models.AssignmentWithTargets, error)
	// ListForIntern возвращает задания, которые видит дашборд интерна.
	ListForIntern(ctx context.Context, internID models.InternID) ([]models.AssignmentWithTargets, error)
	UploadAttachment(ctx context.Context, id models.AssignmentID, file *models.FileUpload) (*models.AssignmentWithTargets, error)
}

type assignmentService struct {
	loader    *repository.SnapshotLoader
	store     repository.DocumentStore
	files     integration.FileStorage
	publisher integration.EventPublisher
	logger    zerolog.Logger
}

func NewAssignmentService(
	loader *repository.SnapshotLoader,
	files integration.FileStorage,
	publisher integration.EventPublisher,
	logger zerolog.Logger,
) AssignmentService {
	return &assignmentService{
		loader:    loader,
		store:     loader.Store(),
		files:     files,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *assignmentService) CreateAssignment(ctx context.Context, req *models.AssignmentRequest) (*models.AssignmentWithTargets, error) {
	a, err := assignmentFromRequest(req)
	if err != nil {
		return nil, err
	}

	id, err := s.store.Push(ctx, models.CollectionAssignments, a)
	if err != nil {
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}

	integration.Notify(ctx, s.publisher, s.logger, models.NewEvent(models.EventAssignmentCreated, id, map[string]string{
		"target_audience": string(a.TargetAudience),
	}))

	s.logger.Info().
		Str("assignment_id", id).
		Str("target_audience", string(a.TargetAudience)).
		Int("targets", len(a.TargetIDs)).
		Msg("Assignment created")

	return s.GetAssignment(ctx, models.AssignmentID(id))
}

func (s *assignmentService) UpdateAssignment(ctx context.Context, id models.AssignmentID, req *models.AssignmentRequest) (*models.AssignmentWithTargets, error) {
	a, err := assignmentFromRequest(req)
	if err != nil {
		return nil, err
	}

	existing, err := s.existing(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.FileURL == "" {
		a.FileURL = existing.FileURL
	}
	a.ID = id

	if err := s.store.Set(ctx, models.CollectionAssignments, string(id), a); err != nil {
		return nil, fmt.Errorf("failed to update assignment: %w", err)
	}

	s.logger.Info().
		Str("assignment_id", string(id)).
		Msg("Assignment updated")

	return s.GetAssignment(ctx, id)
}

func (s *assignmentService) DeleteAssignment(ctx context.Context, id models.AssignmentID) error {
	if _, err := s.existing(ctx, id); err != nil {
		return err
	}

	if err := s.store.Remove(ctx, models.CollectionAssignments, string(id)); err != nil {
		return fmt.Errorf("failed to delete assignment: %w", err)
	}

	s.logger.Info().
		Str("assignment_id", string(id)).
		Msg("Assignment deleted")

	return nil
}

func (s *assignmentService) GetAssignment(ctx context.Context, id models.AssignmentID) (*models.AssignmentWithTargets, error) {
	v, err := loadView(ctx, s.loader)
	if err != nil {
		return nil, err
	}

	a, ok := v.snap.Assignment(id)
	if !ok {
		return nil, models.ErrAssignmentNotFound
	}

	result := withTargets(v.res, *a)
	return &result, nil
}

func (s *assignmentService) ListAssignments(ctx context.Context) ([]models.AssignmentWithTargets, error) {
	v, err := loadView(ctx, s.loader)
	if err != nil {
		return nil, err
	}

	result := make([]models.AssignmentWithTargets, 0, len(v.snap.Assignments))
	for _, a := range v.snap.Assignments {
		result = append(result, withTargets(v.res, a))
	}
	return result, nil
}

func (s *assignmentService) ListForIntern(ctx context.Context, internID models.InternID) ([]models.AssignmentWithTargets, error) {
	v, err := loadView(ctx, s.loader)
	if err != nil {
		return nil, err
	}
	if _, ok := v.res.Intern(internID); !ok {
		return nil, models.ErrInternNotFound
	}

	visible := stats.New(v.res).DashboardAssignments(internID)
	result := make([]models.AssignmentWithTargets, 0, len(visible))
	for _, a := range visible {
		result = append(result, withTargets(v.res, a))
	}
	return result, nil
}

func (s *assignmentService) UploadAttachment(ctx context.Context, id models.AssignmentID, file *models.FileUpload) (*models.AssignmentWithTargets, error) {
	if _, err := s.existing(ctx, id); err != nil {
		return nil, err
	}

	stored, err := s.files.Upload(ctx, &integration.UploadRequest{
		Category:    integration.CategoryAssignments,
		FileName:    file.FileName,
		ContentType: file.ContentType,
		Size:        file.Size,
		Body:        file.Body,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload attachment: %w", err)
	}

	err = s.store.Update(ctx, models.CollectionAssignments, string(id), map[string]interface{}{
		"fileUrl": stored.URL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to attach file: %w", err)
	}

	s.logger.Info().
		Str("assignment_id", string(id)).
		Str("key", stored.Key).
		Msg("Assignment attachment uploaded")

	return s.GetAssignment(ctx, id)
}

func (s *assignmentService) existing(ctx context.Context, id models.AssignmentID) (*models.Assignment, error) {
	a, err := repository.GetAssignment(ctx, s.store, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, models.ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	return a, nil
}

func assignmentFromRequest(req *models.AssignmentRequest) (*models.Assignment, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	targets, err := checkAudience(req.TargetAudience, req.TargetIDs)
	if err != nil {
		return nil, err
	}

	return &models.Assignment{
		Title:          req.Title,
		Description:    req.Description,
		Deadline:       req.Deadline.UTC(),
		TargetAudience: models.TargetAudience(req.TargetAudience),
		TargetIDs:      targets,
		FileURL:        req.FileURL,
	}, nil
}

func withTargets(res *resolver.Resolver, a models.Assignment) models.AssignmentWithTargets {
	set := res.ResolveTargets(a.TargetAudience, a.TargetIDs)
	return models.AssignmentWithTargets{
		Assignment:   a,
		TargetLabels: set.Labels(),
		InternCount:  len(set.Interns),
	}
}
