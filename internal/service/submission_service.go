package service

import (
	"context"
	"fmt"
	"time"

	"github.com/RubachokBoss/internhub/internal/models"
	"github.com/RubachokBoss/internhub/internal/repository"
	"github.com/RubachokBoss/internhub/internal/service/integration"
	"github.com/RubachokBoss/internhub/pkg/validate"
	"github.com/rs/zerolog"
)

type SubmissionService interface {
	Submit(ctx context.Context, internID models.InternID, req *models.CreateSubmissionRequest) (*models.Submission, error)
	Review(ctx context.Context, actor models.Actor, id models.SubmissionID, req *models.ReviewRequest) (*models.Submission, error)
	ListByIntern(ctx context.Context, internID models.InternID) ([]models.Submission, error)
}

type submissionService struct {
	loader    *repository.SnapshotLoader
	store     repository.DocumentStore
	publisher integration.EventPublisher
	logger    zerolog.Logger
}

func NewSubmissionService(loader *repository.SnapshotLoader, publisher integration.EventPublisher, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		loader:    loader,
		store:     loader.Store(),
		publisher: publisher,
		logger:    logger,
	}
}

func (s *submissionService) Submit(ctx context.Context, internID models.InternID, req *models.CreateSubmissionRequest) (*models.Submission, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	v, err := loadView(ctx, s.loader)
	if err != nil {
		return nil, err
	}
	if _, ok := v.res.Intern(internID); !ok {
		return nil, models.ErrInternNotFound
	}
	if req.AssignmentID != "" {
		if _, ok := v.snap.Assignment(models.AssignmentID(req.AssignmentID)); !ok {
			return nil, models.ErrAssignmentNotFound
		}
	}
	if req.ProjectID != "" {
		if _, ok := v.snap.Project(models.ProjectID(req.ProjectID)); !ok {
			return nil, models.ErrProjectNotFound
		}
	}

	sub := &models.Submission{
		InternID:     internID,
		AssignmentID: models.AssignmentID(req.AssignmentID),
		ProjectID:    models.ProjectID(req.ProjectID),
		Type:         models.SubmissionType(req.Type),
		URL:          req.URL,
		SubmittedAt:  time.Now().UTC(),
	}

	id, err := s.store.Push(ctx, models.CollectionSubmissions, sub)
	if err != nil {
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}
	sub.ID = models.SubmissionID(id)

	s.logger.Info().
		Str("submission_id", id).
		Str("intern_id", string(internID)).
		Str("type", req.Type).
		Msg("Submission created")

	return sub, nil
}

func (s *submissionService) Review(ctx context.Context, actor models.Actor, id models.SubmissionID, req *models.ReviewRequest) (*models.Submission, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	sub, err := repository.GetSubmission(ctx, s.store, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, models.ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	v, err := loadView(ctx, s.loader)
	if err != nil {
		return nil, err
	}
	if !canReviewIntern(v, actor, sub.InternID) {
		return nil, models.ErrForbidden
	}

	patch := map[string]interface{}{
		"feedback": optional(req.Feedback),
		"reviewed": true,
	}
	if req.Grade != nil {
		patch["grade"] = *req.Grade
	}
	if err := s.store.Update(ctx, models.CollectionSubmissions, string(id), patch); err != nil {
		return nil, fmt.Errorf("failed to review submission: %w", err)
	}

	integration.Notify(ctx, s.publisher, s.logger, models.NewEvent(models.EventSubmissionReviewed, string(id), map[string]string{
		"intern_id":   string(sub.InternID),
		"reviewer_id": actor.ID,
	}))

	s.logger.Info().
		Str("submission_id", string(id)).
		Str("reviewer_id", actor.ID).
		Msg("Submission reviewed")

	return repository.GetSubmission(ctx, s.store, id)
}

func (s *submissionService) ListByIntern(ctx context.Context, internID models.InternID) ([]models.Submission, error) {
	v, err := loadView(ctx, s.loader)
	if err != nil {
		return nil, err
	}

	result := []models.Submission{}
	for _, sub := range v.snap.Submissions {
		if sub.InternID == internID {
			result = append(result, sub)
		}
	}
	return result, nil
}
