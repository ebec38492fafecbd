package integration

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/RubachokBoss/internhub/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingPublisher struct{ calls int }

func (f *failingPublisher) Publish(ctx context.Context, event *models.Event) error {
	f.calls++
	return errors.New("channel closed")
}

func (f *failingPublisher) Close() error { return nil }

func TestNotify_SwallowsPublishErrors(t *testing.T) {
	var logs bytes.Buffer
	logger := zerolog.New(&logs)
	p := &failingPublisher{}

	Notify(context.Background(), p, logger, models.NewEvent(models.EventGroupDeleted, "g1", nil))

	assert.Equal(t, 1, p.calls)
	assert.Contains(t, logs.String(), "Failed to publish event")
	assert.Contains(t, logs.String(), `"entity_id":"g1"`)

	Notify(context.Background(), nil, logger, models.NewEvent(models.EventGroupDeleted, "g1", nil))
}

func TestRecordingPublisher(t *testing.T) {
	r := &RecordingPublisher{}
	require.NoError(t, r.Publish(context.Background(), models.NewEvent(models.EventAssignmentCreated, "a1", nil)))
	require.NoError(t, NewNoopPublisher().Publish(context.Background(), models.NewEvent(models.EventAssignmentCreated, "a2", nil)))

	assert.Equal(t, []models.EventType{models.EventAssignmentCreated}, r.Types())
	assert.Equal(t, "a1", r.Events()[0].EntityID)
}

func TestObjectKey(t *testing.T) {
	key := ObjectKey(CategoryDocuments, "Weekly Report.PDF")
	assert.True(t, strings.HasPrefix(key, "documents/"))
	assert.True(t, strings.HasSuffix(key, ".pdf"))
	assert.NotEqual(t, key, ObjectKey(CategoryDocuments, "Weekly Report.PDF"))
}

func TestMemoryStorage_Upload(t *testing.T) {
	s := NewMemoryStorage("http://files.local/")

	f, err := s.Upload(context.Background(), &UploadRequest{
		Category: CategoryAssignments,
		FileName: "task.txt",
		Body:     strings.NewReader("hello"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), f.Size)
	assert.Equal(t, "http://files.local/"+f.Key, f.URL)
	assert.Equal(t, "sha256:2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", f.Hash)

	data, ok := s.Object(f.Key)
	require.True(t, ok)
	assert.Equal(t, "hello", string(data))

	require.NoError(t, s.Delete(context.Background(), f.Key))
	_, ok = s.Object(f.Key)
	assert.False(t, ok)
}

func TestDisabledStorage(t *testing.T) {
	_, err := NewDisabledStorage().Upload(context.Background(), &UploadRequest{Body: strings.NewReader("x")})
	assert.ErrorIs(t, err, models.ErrStorageDisabled)
}
