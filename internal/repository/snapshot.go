package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/RubachokBoss/internhub/internal/models"
	"github.com/rs/zerolog"
)

// SnapshotLoader читает коллекции целиком и декодирует их в типизированный снапшот.
// Кэша нет: каждый вызов Load заново читает хранилище.
type SnapshotLoader struct {
	store  DocumentStore
	logger zerolog.Logger
}

func NewSnapshotLoader(store DocumentStore, logger zerolog.Logger) *SnapshotLoader {
	return &SnapshotLoader{
		store:  store,
		logger: logger,
	}
}

func (l *SnapshotLoader) Store() DocumentStore {
	return l.store
}

func (l *SnapshotLoader) Load(ctx context.Context) (*models.Snapshot, error) {
	var (
		snap models.Snapshot
		err  error
	)

	if snap.Interns, err = fetchAll(ctx, l, models.CollectionInterns, func(r *models.Intern, id string) { r.UID = models.InternID(id) }); err != nil {
		return nil, err
	}
	if snap.Supervisors, err = fetchAll(ctx, l, models.CollectionSupervisors, func(r *models.Supervisor, id string) { r.UID = models.SupervisorID(id) }); err != nil {
		return nil, err
	}
	if snap.Groups, err = fetchAll(ctx, l, models.CollectionGroups, func(r *models.Group, id string) { r.ID = models.GroupID(id) }); err != nil {
		return nil, err
	}
	if snap.Assignments, err = fetchAll(ctx, l, models.CollectionAssignments, func(r *models.Assignment, id string) { r.ID = models.AssignmentID(id) }); err != nil {
		return nil, err
	}
	if snap.Projects, err = fetchAll(ctx, l, models.CollectionProjects, func(r *models.Project, id string) { r.ID = models.ProjectID(id) }); err != nil {
		return nil, err
	}
	if snap.Submissions, err = fetchAll(ctx, l, models.CollectionSubmissions, func(r *models.Submission, id string) { r.ID = models.SubmissionID(id) }); err != nil {
		return nil, err
	}
	if snap.Grades, err = fetchAll(ctx, l, models.CollectionGrades, func(r *models.Grade, id string) { r.ID = models.GradeID(id) }); err != nil {
		return nil, err
	}
	if snap.DocumentSubmissions, err = fetchAll(ctx, l, models.CollectionDocumentSubmissions, func(r *models.DocumentSubmission, id string) { r.ID = models.DocumentID(id) }); err != nil {
		return nil, err
	}
	if snap.SupervisorDocuments, err = fetchAll(ctx, l, models.CollectionSupervisorDocuments, func(r *models.SupervisorDocument, id string) { r.ID = models.DocumentID(id) }); err != nil {
		return nil, err
	}

	return &snap, nil
}

// fetchAll декодирует коллекцию в срез, упорядоченный по ключу. Битые записи пропускаются,
// чтобы страница оставалась отображаемой.
func fetchAll[T any](ctx context.Context, l *SnapshotLoader, collection models.Collection, assignID func(*T, string)) ([]T, error) {
	raw, err := l.store.Fetch(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", collection, err)
	}

	ids := make([]string, 0, len(raw))
	for id := range raw {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	records := make([]T, 0, len(ids))
	for _, id := range ids {
		var record T
		if err := json.Unmarshal(raw[id], &record); err != nil {
			l.logger.Warn().
				Err(err).
				Str("collection", collection.String()).
				Str("id", id).
				Msg("Skipping malformed record")
			continue
		}
		assignID(&record, id)
		records = append(records, record)
	}

	return records, nil
}

func getRecord[T any](ctx context.Context, store DocumentStore, collection models.Collection, id string, assignID func(*T, string)) (*T, error) {
	raw, err := store.Get(ctx, collection, id)
	if err != nil {
		return nil, err
	}

	var record T
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("failed to decode %s/%s: %w", collection, id, err)
	}
	assignID(&record, id)

	return &record, nil
}

func GetIntern(ctx context.Context, store DocumentStore, id models.InternID) (*models.Intern, error) {
	return getRecord(ctx, store, models.CollectionInterns, string(id), func(r *models.Intern, id string) { r.UID = models.InternID(id) })
}

func GetSupervisor(ctx context.Context, store DocumentStore, id models.SupervisorID) (*models.Supervisor, error) {
	return getRecord(ctx, store, models.CollectionSupervisors, string(id), func(r *models.Supervisor, id string) { r.UID = models.SupervisorID(id) })
}

func GetGroup(ctx context.Context, store DocumentStore, id models.GroupID) (*models.Group, error) {
	return getRecord(ctx, store, models.CollectionGroups, string(id), func(r *models.Group, id string) { r.ID = models.GroupID(id) })
}

func GetAssignment(ctx context.Context, store DocumentStore, id models.AssignmentID) (*models.Assignment, error) {
	return getRecord(ctx, store, models.CollectionAssignments, string(id), func(r *models.Assignment, id string) { r.ID = models.AssignmentID(id) })
}

func GetProject(ctx context.Context, store DocumentStore, id models.ProjectID) (*models.Project, error) {
	return getRecord(ctx, store, models.CollectionProjects, string(id), func(r *models.Project, id string) { r.ID = models.ProjectID(id) })
}

func GetSubmission(ctx context.Context, store DocumentStore, id models.SubmissionID) (*models.Submission, error) {
	return getRecord(ctx, store, models.CollectionSubmissions, string(id), func(r *models.Submission, id string) { r.ID = models.SubmissionID(id) })
}

func GetDocumentSubmission(ctx context.Context, store DocumentStore, id models.DocumentID) (*models.DocumentSubmission, error) {
	return getRecord(ctx, store, models.CollectionDocumentSubmissions, string(id), func(r *models.DocumentSubmission, id string) { r.ID = models.DocumentID(id) })
}
