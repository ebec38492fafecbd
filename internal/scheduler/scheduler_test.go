package scheduler

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/RubachokBoss/internhub/internal/models"
	"github.com/RubachokBoss/internhub/internal/repository"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectStatusJob(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	store := repository.NewMemoryStore()
	projects := map[string]models.Project{
		"p1": {Title: "late", Deadline: now.Add(-time.Hour), Status: models.ProjectStatusActive},
		"p2": {Title: "future", Deadline: now.Add(time.Hour), Status: models.ProjectStatusActive},
		"p3": {Title: "done", Deadline: now.Add(-time.Hour), Status: models.ProjectStatusCompleted},
		"p4": {Title: "already", Deadline: now.Add(-time.Hour), Status: models.ProjectStatusOverdue},
	}
	for id, p := range projects {
		require.NoError(t, store.Set(ctx, models.CollectionProjects, id, p))
	}

	loader := repository.NewSnapshotLoader(store, zerolog.Nop())
	job := NewProjectStatusJob(loader, zerolog.Nop())
	job.now = func() time.Time { return now }

	marked, err := job.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, marked)

	want := map[string]models.ProjectStatus{
		"p1": models.ProjectStatusOverdue,
		"p2": models.ProjectStatusActive,
		"p3": models.ProjectStatusCompleted,
		"p4": models.ProjectStatusOverdue,
	}
	for id, status := range want {
		p, err := repository.GetProject(ctx, store, models.ProjectID(id))
		require.NoError(t, err)
		assert.Equal(t, status, p.Status, id)
	}

	marked, err = job.Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, marked)
}

// vanishingStore удаляет проект сразу после того, как коллекция прочитана.
type vanishingStore struct {
	*repository.MemoryStore
	removeID string
}

func (s *vanishingStore) Fetch(ctx context.Context, collection models.Collection) (map[string]json.RawMessage, error) {
	result, err := s.MemoryStore.Fetch(ctx, collection)
	if err != nil || collection != models.CollectionProjects {
		return result, err
	}
	return result, s.MemoryStore.Remove(ctx, collection, s.removeID)
}

func TestProjectStatusJob_SkipsProjectRemovedAfterLoad(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	store := &vanishingStore{MemoryStore: repository.NewMemoryStore(), removeID: "p1"}
	require.NoError(t, store.Set(ctx, models.CollectionProjects, "p1", models.Project{
		Title: "late", Deadline: now.Add(-time.Hour), Status: models.ProjectStatusActive,
	}))
	require.NoError(t, store.Set(ctx, models.CollectionProjects, "p2", models.Project{
		Title: "also late", Deadline: now.Add(-time.Hour), Status: models.ProjectStatusActive,
	}))

	job := NewProjectStatusJob(repository.NewSnapshotLoader(store, zerolog.Nop()), zerolog.Nop())
	job.now = func() time.Time { return now }

	marked, err := job.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, marked)

	_, err = store.Get(ctx, models.CollectionProjects, "p1")
	assert.True(t, repository.IsNotFound(err))

	p2, err := repository.GetProject(ctx, store, "p2")
	require.NoError(t, err)
	assert.Equal(t, models.ProjectStatusOverdue, p2.Status)
	assert.Equal(t, "also late", p2.Title)
}

func TestNew_InvalidSpec(t *testing.T) {
	loader := repository.NewSnapshotLoader(repository.NewMemoryStore(), zerolog.Nop())

	_, err := New("not a spec", NewProjectStatusJob(loader, zerolog.Nop()), zerolog.Nop())
	assert.Error(t, err)

	s, err := New("@every 1h", NewProjectStatusJob(loader, zerolog.Nop()), zerolog.Nop())
	require.NoError(t, err)
	s.Start()
	s.Stop(context.Background())
}
