// internal/store/sqlite/store.go
package sqlite

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"

	"github.com/sweeplab/leaderboard/internal/models"
	"github.com/sweeplab/leaderboard/internal/store"
)

type SQLiteStore struct {
	store.BaseStore
}

func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to sqlite: %w", err)
	}

	s := &SQLiteStore{BaseStore: store.BaseStore{
		DB: db,
		Converter: func(query string) string {
			return query
		},
	}}

	if err := s.EnsureSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *SQLiteStore) EnsureSchema() error {
	return s.BaseStore.EnsureSchema(translateToSQLite)
}

// translateToSQLite converts the Postgres DDL to SQLite dialect
func translateToSQLite(sql string) string {
	replacements := map[string]string{
		"BIGINT":       "INTEGER",
		"VARCHAR(255)": "TEXT",
		"VARCHAR(32)":  "TEXT",
		"CHAR(36)":     "TEXT",
	}
	result := sql
	for from, to := range replacements {
		result = strings.ReplaceAll(result, from, to)
	}
	return result
}

// CreateScore commits a new record. A primary key hit maps to
// store.ErrDuplicateScore so the caller can treat a lost
// exists-then-insert race the same as an ordinary duplicate.
func (s *SQLiteStore) CreateScore(score *models.Score) error {
	_, err := s.DB.NamedExec(`
		INSERT INTO scores (name, difficulty, seconds, unix_time, uuid_str)
		VALUES (:name, :difficulty, :seconds, :unix_time, :uuid_str)
	`, score)

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		if sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return store.ErrDuplicateScore
		}
	}
	if err != nil {
		return fmt.Errorf("failed to create score: %w", err)
	}
	return nil
}
