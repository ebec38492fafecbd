package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/RubachokBoss/internhub/internal/models"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

const pingTimeout = 5 * time.Second

// PostgresRepository владеет соединением и SQL для таблицы documents.
// Сборка JSON и разбор patch остаются в postgresStore.
type PostgresRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewPostgresRepository(db *sql.DB, logger zerolog.Logger) *PostgresRepository {
	return &PostgresRepository{
		db:     db,
		logger: logger.With().Str("component", "postgres_store").Logger(),
	}
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping postgres: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Close() error {
	r.logger.Info().Msg("Closing postgres connection")
	return r.db.Close()
}

// insertDocument падает на конфликте ключа: Push не должен затирать чужую запись.
func (r *PostgresRepository) insertDocument(ctx context.Context, collection models.Collection, id string, data []byte) error {
	query := `
		INSERT INTO documents (collection, id, data, created_at, updated_at)
		VALUES ($1, $2, $3::jsonb, NOW(), NOW())
	`

	if _, err := r.db.ExecContext(ctx, query, collection.String(), id, string(data)); err != nil {
		return fmt.Errorf("failed to insert %s/%s: %w", collection, id, err)
	}
	return nil
}

func (r *PostgresRepository) replaceDocument(ctx context.Context, collection models.Collection, id string, data []byte) error {
	query := `
		INSERT INTO documents (collection, id, data, created_at, updated_at)
		VALUES ($1, $2, $3::jsonb, NOW(), NOW())
		ON CONFLICT (collection, id)
		DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()
	`

	if _, err := r.db.ExecContext(ctx, query, collection.String(), id, string(data)); err != nil {
		return fmt.Errorf("failed to set %s/%s: %w", collection, id, err)
	}
	return nil
}

// mergeDocument: data сливается поверх верхнего уровня, ключи removed удаляются.
func (r *PostgresRepository) mergeDocument(ctx context.Context, collection models.Collection, id string, data []byte, removed []string) error {
	query := `
		INSERT INTO documents (collection, id, data, created_at, updated_at)
		VALUES ($1, $2, $3::jsonb - $4::text[], NOW(), NOW())
		ON CONFLICT (collection, id)
		DO UPDATE SET data = (documents.data || EXCLUDED.data) - $4::text[], updated_at = NOW()
	`

	if _, err := r.db.ExecContext(ctx, query, collection.String(), id, string(data), pq.Array(removed)); err != nil {
		return fmt.Errorf("failed to update %s/%s: %w", collection, id, err)
	}

	r.logger.Debug().
		Str("collection", collection.String()).
		Str("id", id).
		Int("removed", len(removed)).
		Msg("Document merged")

	return nil
}

func (r *PostgresRepository) deleteDocument(ctx context.Context, collection models.Collection, id string) error {
	query := `DELETE FROM documents WHERE collection = $1 AND id = $2`
	if _, err := r.db.ExecContext(ctx, query, collection.String(), id); err != nil {
		return fmt.Errorf("failed to remove %s/%s: %w", collection, id, err)
	}
	return nil
}
