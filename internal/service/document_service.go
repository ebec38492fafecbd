package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/RubachokBoss/internhub/internal/models"
	"github.com/RubachokBoss/internhub/internal/repository"
	"github.com/RubachokBoss/internhub/internal/service/integration"
	"github.com/RubachokBoss/internhub/pkg/validate"
	"github.com/rs/zerolog"
)

type DocumentService interface {
	// UploadReport сохраняет отчет интерна в файловое хранилище и создает запись с хэшем файла.
	UploadReport(ctx context.Context, req *models.UploadDocumentRequest) (*models.DocumentSubmission, error)
	ReviewReport(ctx context.Context, actor models.Actor, id models.DocumentID, req *models.ReviewRequest) (*models.DocumentSubmission, error)
	ListReportsByIntern(ctx context.Context, internID models.InternID) ([]models.DocumentSubmission, error)
	// ListPending — непроверенные отчеты интернов супервайзера, старые первыми.
	ListPending(ctx context.Context, supervisorID models.SupervisorID) ([]models.DocumentSubmission, error)

	ShareDocument(ctx context.Context, actor models.Actor, req *models.ShareDocumentRequest) (*models.SupervisorDocument, error)
	ListShared(ctx context.Context, supervisorID models.SupervisorID) ([]models.SupervisorDocument, error)
	ListSharedForIntern(ctx context.Context, internID models.InternID) ([]models.SupervisorDocument, error)
}

type documentService struct {
	loader    *repository.SnapshotLoader
	store     repository.DocumentStore
	files     integration.FileStorage
	publisher integration.EventPublisher
	logger    zerolog.Logger
}

func NewDocumentService(
	loader *repository.SnapshotLoader,
	files integration.FileStorage,
	publisher integration.EventPublisher,
	logger zerolog.Logger,
) DocumentService {
	return &documentService{
		loader:    loader,
		store:     loader.Store(),
		files:     files,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *documentService) UploadReport(ctx context.Context, req *models.UploadDocumentRequest) (*models.DocumentSubmission, error) {
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

	stored, err := s.upload(ctx, integration.CategoryDocuments, req.File)
	if err != nil {
		return nil, err
	}

	doc := &models.DocumentSubmission{
		InternID:     internID,
		AssignmentID: models.AssignmentID(req.AssignmentID),
		ProjectID:    models.ProjectID(req.ProjectID),
		Title:        req.Title,
		FileName:     req.File.FileName,
		FileURL:      stored.URL,
		FileHash:     stored.Hash,
		SubmittedAt:  time.Now().UTC(),
	}

	id, err := s.store.Push(ctx, models.CollectionDocumentSubmissions, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to create document submission: %w", err)
	}
	doc.ID = models.DocumentID(id)

	s.logger.Info().
		Str("document_id", id).
		Str("intern_id", req.InternID).
		Str("hash", stored.Hash).
		Int64("size", stored.Size).
		Msg("Report uploaded")

	return doc, nil
}

func (s *documentService) ReviewReport(ctx context.Context, actor models.Actor, id models.DocumentID, req *models.ReviewRequest) (*models.DocumentSubmission, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	doc, err := repository.GetDocumentSubmission(ctx, s.store, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, models.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	v, err := loadView(ctx, s.loader)
	if err != nil {
		return nil, err
	}
	if !canReviewIntern(v, actor, doc.InternID) {
		return nil, models.ErrForbidden
	}

	patch := map[string]interface{}{
		"feedback": optional(req.Feedback),
		"reviewed": true,
	}
	if req.Grade != nil {
		patch["grade"] = *req.Grade
	}
	if err := s.store.Update(ctx, models.CollectionDocumentSubmissions, string(id), patch); err != nil {
		return nil, fmt.Errorf("failed to review document: %w", err)
	}

	integration.Notify(ctx, s.publisher, s.logger, models.NewEvent(models.EventDocumentReviewed, string(id), map[string]string{
		"intern_id":   string(doc.InternID),
		"reviewer_id": actor.ID,
	}))

	s.logger.Info().
		Str("document_id", string(id)).
		Str("reviewer_id", actor.ID).
		Msg("Report reviewed")

	return repository.GetDocumentSubmission(ctx, s.store, id)
}

func (s *documentService) ListReportsByIntern(ctx context.Context, internID models.InternID) ([]models.DocumentSubmission, error) {
	v, err := loadView(ctx, s.loader)
	if err != nil {
		return nil, err
	}

	result := []models.DocumentSubmission{}
	for _, d := range v.snap.DocumentSubmissions {
		if d.InternID == internID {
			result = append(result, d)
		}
	}
	return result, nil
}

func (s *documentService) ListPending(ctx context.Context, supervisorID models.SupervisorID) ([]models.DocumentSubmission, error) {
	v, err := loadView(ctx, s.loader)
	if err != nil {
		return nil, err
	}
	if _, ok := v.res.Supervisor(supervisorID); !ok {
		return nil, models.ErrSupervisorNotFound
	}

	mine := make(map[models.InternID]struct{})
	for _, i := range v.res.InternsOfSupervisor(supervisorID) {
		mine[i.UID] = struct{}{}
	}

	result := []models.DocumentSubmission{}
	for _, d := range v.snap.DocumentSubmissions {
		if _, ok := mine[d.InternID]; ok && !d.Reviewed {
			result = append(result, d)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].SubmittedAt.Before(result[j].SubmittedAt)
	})
	return result, nil
}

func (s *documentService) ShareDocument(ctx context.Context, actor models.Actor, req *models.ShareDocumentRequest) (*models.SupervisorDocument, error) {
	if actor.IsSupervisor() {
		req.SupervisorID = actor.ID
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	supervisorID := models.SupervisorID(req.SupervisorID)
	if !actor.Owns(supervisorID) {
		return nil, models.ErrForbidden
	}

	targets, err := checkAudience(req.TargetAudience, req.TargetIDs)
	if err != nil {
		return nil, err
	}

	if _, err := repository.GetSupervisor(ctx, s.store, supervisorID); err != nil {
		if repository.IsNotFound(err) {
			return nil, models.ErrSupervisorNotFound
		}
		return nil, fmt.Errorf("failed to get supervisor: %w", err)
	}

	stored, err := s.upload(ctx, integration.CategorySupervisorDocuments, req.File)
	if err != nil {
		return nil, err
	}

	doc := &models.SupervisorDocument{
		SupervisorID:   supervisorID,
		Title:          req.Title,
		FileName:       req.File.FileName,
		FileURL:        stored.URL,
		TargetAudience: models.TargetAudience(req.TargetAudience),
		TargetIDs:      targets,
		UploadedAt:     time.Now().UTC(),
	}

	id, err := s.store.Push(ctx, models.CollectionSupervisorDocuments, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to share document: %w", err)
	}
	doc.ID = models.DocumentID(id)

	s.logger.Info().
		Str("document_id", id).
		Str("supervisor_id", req.SupervisorID).
		Str("target_audience", req.TargetAudience).
		Msg("Document shared")

	return doc, nil
}

func (s *documentService) ListShared(ctx context.Context, supervisorID models.SupervisorID) ([]models.SupervisorDocument, error) {
	v, err := loadView(ctx, s.loader)
	if err != nil {
		return nil, err
	}

	result := []models.SupervisorDocument{}
	for _, d := range v.snap.SupervisorDocuments {
		if supervisorID == "" || d.SupervisorID == supervisorID {
			result = append(result, d)
		}
	}
	return result, nil
}

func (s *documentService) ListSharedForIntern(ctx context.Context, internID models.InternID) ([]models.SupervisorDocument, error) {
	v, err := loadView(ctx, s.loader)
	if err != nil {
		return nil, err
	}
	if _, ok := v.res.Intern(internID); !ok {
		return nil, models.ErrInternNotFound
	}

	result := []models.SupervisorDocument{}
	for _, d := range v.snap.SupervisorDocuments {
		if v.res.Includes(d.TargetAudience, d.TargetIDs, internID) {
			result = append(result, d)
		}
	}
	return result, nil
}

func (s *documentService) upload(ctx context.Context, category string, file *models.FileUpload) (*integration.StoredFile, error) {
	stored, err := s.files.Upload(ctx, &integration.UploadRequest{
		Category:    category,
		FileName:    file.FileName,
		ContentType: file.ContentType,
		Size:        file.Size,
		Body:        file.Body,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}
	return stored, nil
}
