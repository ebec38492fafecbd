package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/RubachokBoss/internhub/internal/models"
)

// MemoryStore хранит коллекции в памяти процесса. Используется в тестах и для локального запуска.
type MemoryStore struct {
	mu     sync.RWMutex
	tables map[models.Collection]map[string][]byte

	// NewID генерирует ключи для Push.
	NewID func() string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tables: make(map[models.Collection]map[string][]byte),
		NewID:  newID,
	}
}

func (s *MemoryStore) table(collection models.Collection) map[string][]byte {
	t, ok := s.tables[collection]
	if !ok {
		t = make(map[string][]byte)
		s.tables[collection] = t
	}
	return t
}

func (s *MemoryStore) Fetch(ctx context.Context, collection models.Collection) (map[string]json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]json.RawMessage, len(s.tables[collection]))
	for id, data := range s.tables[collection] {
		result[id] = append(json.RawMessage(nil), data...)
	}
	return result, nil
}

func (s *MemoryStore) Get(ctx context.Context, collection models.Collection, id string) (json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.tables[collection][id]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	return append(json.RawMessage(nil), data...), nil
}

func (s *MemoryStore) Push(ctx context.Context, collection models.Collection, doc interface{}) (string, error) {
	id := s.NewID()
	data, err := withID(doc, id)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.table(collection)[id] = data
	return id, nil
}

func (s *MemoryStore) Set(ctx context.Context, collection models.Collection, id string, doc interface{}) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	if _, err := toFields(doc); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.table(collection)[id] = data
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, collection models.Collection, id string, patch map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.table(collection)
	data, err := mergePatch(t[id], patch)
	if err != nil {
		return err
	}
	t[id] = data
	return nil
}

func (s *MemoryStore) Remove(ctx context.Context, collection models.Collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tables[collection], id)
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
