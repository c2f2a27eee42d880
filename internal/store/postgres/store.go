package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sweeplab/leaderboard/internal/models"
	"github.com/sweeplab/leaderboard/internal/store"
)

// uniqueViolation is the Postgres error code for a broken unique
// constraint, including primary keys.
const uniqueViolation = "23505"

type PostgresStore struct {
	store.BaseStore
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &PostgresStore{BaseStore: store.BaseStore{
		DB: db,
		Converter: func(query string) string {
			out := query
			for i := 1; strings.Contains(out, "?"); i++ {
				out = strings.Replace(out, "?", fmt.Sprintf("$%d", i), 1)
			}
			return out
		},
	}}

	if err := s.EnsureSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *PostgresStore) EnsureSchema() error {
	return s.BaseStore.EnsureSchema(nil)
}

func (s *PostgresStore) CreateScore(score *models.Score) error {
	_, err := s.DB.NamedExec(`
		INSERT INTO scores (name, difficulty, seconds, unix_time, uuid_str)
		VALUES (:name, :difficulty, :seconds, :unix_time, :uuid_str)
	`, score)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return store.ErrDuplicateScore
	}
	if err != nil {
		return fmt.Errorf("failed to create score: %w", err)
	}
	return nil
}
