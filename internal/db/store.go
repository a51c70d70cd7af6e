// exposes the datasets table as a dataset storage backend
package db

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/phcfinder/internal/storage"
)

type Dataset struct {
	Name      string    `db:"name"`
	Body      string    `db:"body"`
	UpdatedAt time.Time `db:"updated_at"`
}

type Store interface {
	storage.Storage
	PutDataset(ctx context.Context, name string, body []byte) error
	ListDatasets(ctx context.Context) ([]Dataset, error)
}

type pgStore struct {
	db *sqlx.DB
}

// compile-time check that pgStore implements Store
var _ Store = (*pgStore)(nil)

func NewStore(db *sqlx.DB) Store {
	return &pgStore{db: db}
}

func (s *pgStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	var body string
	err := s.db.GetContext(ctx, &body, `SELECT body::text FROM datasets WHERE name = $1;`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", name, storage.ErrNotFound)
	}
	if err != nil {
		log.Error().Err(err).Str("dataset", name).Msg("GetDataset failed")
		return nil, fmt.Errorf("failed to read dataset %s: %w", name, err)
	}
	return io.NopCloser(bytes.NewReader([]byte(body))), nil
}

func (s *pgStore) String() string { return "postgres:datasets" }

func (s *pgStore) PutDataset(ctx context.Context, name string, body []byte) error {
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO datasets (name, body, updated_at)
	VALUES ($1, $2::jsonb, now())
	ON CONFLICT (name) DO UPDATE SET body = EXCLUDED.body, updated_at = now();`, name, string(body))
	if err != nil {
		log.Error().Err(err).Str("dataset", name).Msg("PutDataset failed")
	}
	return err
}

func (s *pgStore) ListDatasets(ctx context.Context) ([]Dataset, error) {
	var out []Dataset
	const q = `
	SELECT name, body::text AS body, updated_at
	  FROM datasets
	 ORDER BY name;`
	if err := s.db.SelectContext(ctx, &out, q); err != nil {
		log.Error().Err(err).Msg("ListDatasets failed")
		return nil, err
	}
	return out, nil
}
