package postgres

import (
	"context"
	"flag"
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/sweeplab/leaderboard/internal/models"
	"github.com/sweeplab/leaderboard/internal/store"
)

// setupTestDB spins up a throwaway Postgres container; the store
// creates its schema on connect
func setupTestDB(t *testing.T) (*PostgresStore, func()) {
	ctx := context.Background()

	postgres, err := postgres.Run(
		ctx,
		"postgres:16-alpine",
		testcontainers.WithEnv(map[string]string{
			"POSTGRES_DB":       "testdb",
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
		}),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	require.NoError(t, err)

	dsn, err := postgres.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := NewPostgresStore(dsn)
	require.NoError(t, err, "Failed to create store")

	cleanup := func() {
		s.Close()
		postgres.Terminate(ctx)
	}

	return s, cleanup
}

func testScore(uuid string, difficulty string, seconds int64) *models.Score {
	return &models.Score{
		Name:       "john",
		Difficulty: difficulty,
		Seconds:    seconds,
		UnixTime:   time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC).Unix(),
		UUID:       uuid,
	}
}

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		log.Println("Skipping Postgres integration tests. Use -short=false to run them.")
		os.Exit(0)
	}
	log.Println("Starting Postgres store tests...")
	code := m.Run()
	log.Println("Finished Postgres store tests")
	os.Exit(code)
}

func TestScoreRoundTrip(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	score := testScore("e1748dc1-3882-4b2b-8c5d-fb72a151a2cf", models.DifficultyBeginner, 42)

	t.Run("create score", func(t *testing.T) {
		require.NoError(t, s.CreateScore(score))
	})

	t.Run("has score", func(t *testing.T) {
		got, err := s.HasScore(score.UUID)
		require.NoError(t, err)
		assert.True(t, got)
	})

	t.Run("duplicate insert", func(t *testing.T) {
		err := s.CreateScore(score)
		assert.ErrorIs(t, err, store.ErrDuplicateScore)
	})

	t.Run("top scores", func(t *testing.T) {
		require.NoError(t, s.CreateScore(
			testScore("22222222-2222-4222-8222-222222222222", models.DifficultyBeginner, 17),
		))

		got, err := s.TopScores(models.DifficultyBeginner, 100)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, int64(17), got[0].Seconds)
		assert.Equal(t, int64(42), got[1].Seconds)
	})

	t.Run("delete score", func(t *testing.T) {
		removed, err := s.DeleteScore(score.UUID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), removed)

		got, err := s.HasScore(score.UUID)
		require.NoError(t, err)
		assert.False(t, got)
	})
}
