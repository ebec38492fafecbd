package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/RubachokBoss/internhub/internal/models"
	"github.com/google/uuid"
)

// ErrNotFound возвращается Get, если записи нет по указанному пути.
var ErrNotFound = models.ErrNotFound

// DocumentStore — доступ к именованным коллекциям документного хранилища.
// Каждая операция — отдельный запрос; атомарных записей по нескольким путям нет.
type DocumentStore interface {
	// Fetch возвращает всю коллекцию: id -> JSON-объект записи.
	Fetch(ctx context.Context, collection models.Collection) (map[string]json.RawMessage, error)
	Get(ctx context.Context, collection models.Collection, id string) (json.RawMessage, error)
	// Push вставляет запись под сгенерированным id и возвращает его.
	Push(ctx context.Context, collection models.Collection, doc interface{}) (string, error)
	// Set перезаписывает запись целиком.
	Set(ctx context.Context, collection models.Collection, id string, doc interface{}) error
	// Update сливает patch с верхним уровнем записи; отсутствующая запись создается.
	// Значение nil удаляет поле.
	Update(ctx context.Context, collection models.Collection, id string, patch map[string]interface{}) error
	// Remove удаляет запись; удаление отсутствующей записи не ошибка.
	Remove(ctx context.Context, collection models.Collection, id string) error
	Ping(ctx context.Context) error
	Close() error
}

// Driver names.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// newID выдает UUIDv7: ключи растут со временем создания, поэтому сортировка по id
// совпадает с порядком вставки и "первая" группа — самая старая.
func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// toFields превращает документ в набор полей верхнего уровня.
func toFields(doc interface{}) (map[string]json.RawMessage, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}

	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("document must be a JSON object: %w", err)
	}

	return fields, nil
}

// withID проставляет поле id, чтобы запись, созданная через Push, знала свой ключ.
func withID(doc interface{}, id string) ([]byte, error) {
	fields, err := toFields(doc)
	if err != nil {
		return nil, err
	}

	idValue, _ := json.Marshal(id)
	fields["id"] = idValue

	return json.Marshal(fields)
}

// mergePatch применяет patch к JSON-объекту записи.
func mergePatch(existing []byte, patch map[string]interface{}) ([]byte, error) {
	fields := make(map[string]json.RawMessage)
	if len(existing) > 0 {
		if err := json.Unmarshal(existing, &fields); err != nil {
			return nil, fmt.Errorf("failed to decode stored document: %w", err)
		}
	}

	for key, value := range patch {
		if value == nil {
			delete(fields, key)
			continue
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal field %s: %w", key, err)
		}
		fields[key] = raw
	}

	return json.Marshal(fields)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
