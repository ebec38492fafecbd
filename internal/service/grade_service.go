package service

import (
	"context"
	"fmt"

	"github.com/RubachokBoss/internhub/internal/models"
	"github.com/RubachokBoss/internhub/internal/repository"
	"github.com/RubachokBoss/internhub/pkg/validate"
	"github.com/rs/zerolog"
)

type GradeService interface {
	RecordGrade(ctx context.Context, actor models.Actor, req *models.CreateGradeRequest) (*models.Grade, error)
	ListByIntern(ctx context.Context, internID models.InternID) ([]models.Grade, error)
}

type gradeService struct {
	loader *repository.SnapshotLoader
	store  repository.DocumentStore
	logger zerolog.Logger
}

func NewGradeService(loader *repository.SnapshotLoader, logger zerolog.Logger) GradeService {
	return &gradeService{
		loader: loader,
		store:  loader.Store(),
		logger: logger,
	}
}

func (s *gradeService) RecordGrade(ctx context.Context, actor models.Actor, req *models.CreateGradeRequest) (*models.Grade, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	v, err := loadView(ctx, s.loader)
	if err != nil {
		return nil, err
	}
	internID := models.InternID(req.InternID)
	if _, ok := v.res.Intern(internID); !ok {
		return nil, models.ErrInternNotFound
	}
	if !canReviewIntern(v, actor, internID) {
		return nil, models.ErrForbidden
	}

	g := &models.Grade{
		InternID: internID,
		Grade:    req.Grade,
		MaxGrade: req.MaxGrade,
		Feedback: req.Feedback,
	}

	id, err := s.store.Push(ctx, models.CollectionGrades, g)
	if err != nil {
		return nil, fmt.Errorf("failed to record grade: %w", err)
	}
	g.ID = models.GradeID(id)

	s.logger.Info().
		Str("grade_id", id).
		Str("intern_id", req.InternID).
		Float64("grade", req.Grade).
		Float64("max_grade", req.MaxGrade).
		Msg("Grade recorded")

	return g, nil
}

func (s *gradeService) ListByIntern(ctx context.Context, internID models.InternID) ([]models.Grade, error) {
	v, err := loadView(ctx, s.loader)
	if err != nil {
		return nil, err
	}

	result := []models.Grade{}
	for _, g := range v.snap.Grades {
		if g.InternID == internID {
			result = append(result, g)
		}
	}
	return result, nil
}
