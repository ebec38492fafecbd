package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/RubachokBoss/internhub/internal/models"
	"github.com/rs/zerolog"
)

// postgresStore держит каждую запись строкой таблицы documents (collection, id, data jsonb).
type postgresStore struct {
	*PostgresRepository
}

func NewPostgresStore(db *sql.DB, logger zerolog.Logger) DocumentStore {
	return &postgresStore{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *postgresStore) Fetch(ctx context.Context, collection models.Collection) (map[string]json.RawMessage, error) {
	query := `
		SELECT id, data
		FROM documents
		WHERE collection = $1
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, collection.String())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", collection, err)
	}
	defer rows.Close()

	result := make(map[string]json.RawMessage)
	for rows.Next() {
		var (
			id   string
			data []byte
		)
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", collection, err)
		}
		result[id] = json.RawMessage(data)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", collection, err)
	}

	return result, nil
}

func (r *postgresStore) Get(ctx context.Context, collection models.Collection, id string) (json.RawMessage, error) {
	query := `SELECT data FROM documents WHERE collection = $1 AND id = $2`

	var data []byte
	err := r.db.QueryRowContext(ctx, query, collection.String(), id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s/%s: %w", collection, id, err)
	}

	return json.RawMessage(data), nil
}

func (r *postgresStore) Push(ctx context.Context, collection models.Collection, doc interface{}) (string, error) {
	id := newID()
	data, err := withID(doc, id)
	if err != nil {
		return "", err
	}

	if err := r.insertDocument(ctx, collection, id, data); err != nil {
		return "", fmt.Errorf("failed to push into %s: %w", collection, err)
	}

	return id, nil
}

func (r *postgresStore) Set(ctx context.Context, collection models.Collection, id string, doc interface{}) error {
	fields, err := toFields(doc)
	if err != nil {
		return err
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	return r.replaceDocument(ctx, collection, id, data)
}

func (r *postgresStore) Update(ctx context.Context, collection models.Collection, id string, patch map[string]interface{}) error {
	set := make(map[string]interface{}, len(patch))
	removed := []string{}
	for key, value := range patch {
		if value == nil {
			removed = append(removed, key)
			continue
		}
		set[key] = value
	}

	data, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("failed to marshal patch: %w", err)
	}

	return r.mergeDocument(ctx, collection, id, data, removed)
}

func (r *postgresStore) Remove(ctx context.Context, collection models.Collection, id string) error {
	return r.deleteDocument(ctx, collection, id)
}
