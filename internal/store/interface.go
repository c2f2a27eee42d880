package store

import (
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sweeplab/leaderboard/internal/models"
)

// ErrDuplicateScore is returned by CreateScore when a row with the same
// uuid_str is already committed. The primary key on scores is the final
// line of defense for two concurrent submissions racing on one uuid.
var ErrDuplicateScore = errors.New("score already saved")

type ScoreStore interface {
	Close() error
	EnsureSchema() error

	HasScore(uuid string) (bool, error)
	CreateScore(score *models.Score) error
	TopScores(difficulty string, limit int) ([]models.Score, error)

	// DeleteScore is a maintenance primitive (e.g. removing foul
	// language) and stays off the HTTP surface.
	DeleteScore(uuid string) (int64, error)
}

// schema is written in Postgres dialect; sqlite translates it on the way in.
const schema = `
CREATE TABLE IF NOT EXISTS scores (
	name VARCHAR(255) NOT NULL,
	difficulty VARCHAR(32) NOT NULL,
	seconds BIGINT NOT NULL,
	unix_time BIGINT NOT NULL,
	uuid_str CHAR(36) PRIMARY KEY
)`

// BaseStore provides common functionality for different DB implementations
type BaseStore struct {
	DB        *sqlx.DB
	Converter func(string) string
}

func (s *BaseStore) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

// EnsureSchema creates the scores table on first acquisition against a
// fresh backing store, translating dialect if needed.
func (s *BaseStore) EnsureSchema(translateSQL func(string) string) error {
	ddl := schema
	if translateSQL != nil {
		ddl = translateSQL(ddl)
	}
	if _, err := s.DB.Exec(ddl); err != nil {
		return fmt.Errorf("failed to create scores table: %w", err)
	}
	return nil
}

func (s *BaseStore) HasScore(uuid string) (bool, error) {
	var count int
	query := s.Converter(`SELECT COUNT(*) FROM scores WHERE uuid_str = ?`)

	if err := s.DB.Get(&count, query, uuid); err != nil {
		return false, fmt.Errorf("failed to check score uuid: %w", err)
	}
	return count > 0, nil
}

// TopScores returns up to limit records for one difficulty, fastest
// first. Ties on seconds come back in storage order.
func (s *BaseStore) TopScores(difficulty string, limit int) ([]models.Score, error) {
	// empty slice, not nil: an empty tier must serialize as []
	scores := []models.Score{}
	query := s.Converter(`
		SELECT name, difficulty, seconds, unix_time, uuid_str
		FROM scores
		WHERE difficulty = ?
		ORDER BY seconds ASC
		LIMIT ?
	`)

	if err := s.DB.Select(&scores, query, difficulty, limit); err != nil {
		return nil, fmt.Errorf("failed to fetch top scores: %w", err)
	}
	return scores, nil
}

func (s *BaseStore) DeleteScore(uuid string) (int64, error) {
	query := s.Converter(`DELETE FROM scores WHERE uuid_str = ?`)

	res, err := s.DB.Exec(query, uuid)
	if err != nil {
		return 0, fmt.Errorf("failed to delete score: %w", err)
	}
	return res.RowsAffected()
}
