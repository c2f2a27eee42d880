// internal/store/sqlite/store_test.go
package sqlite

import (
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweeplab/leaderboard/internal/models"
	"github.com/sweeplab/leaderboard/internal/store"
)

// setupTestDB creates an in-memory SQLite database; the store creates
// its schema on open
func setupTestDB(t *testing.T) (*SQLiteStore, func()) {
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err, "Failed to create store")

	cleanup := func() {
		err := s.Close()
		require.NoError(t, err, "Failed to close database")
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
	log.Println("Starting SQLite store tests...")
	code := m.Run()
	log.Println("Finished SQLite store tests")
	os.Exit(code)
}

func TestCreateAndHasScore(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	score := testScore("e1748dc1-3882-4b2b-8c5d-fb72a151a2cf", models.DifficultyBeginner, 42)

	t.Run("create score", func(t *testing.T) {
		err := s.CreateScore(score)
		require.NoError(t, err, "Failed to create score")
	})

	t.Run("has score", func(t *testing.T) {
		got, err := s.HasScore(score.UUID)
		require.NoError(t, err)
		assert.True(t, got)
	})

	t.Run("has unknown score", func(t *testing.T) {
		got, err := s.HasScore("00000000-0000-0000-0000-000000000000")
		require.NoError(t, err)
		assert.False(t, got)
	})
}

func TestCreateScoreDuplicate(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	score := testScore("e1748dc1-3882-4b2b-8c5d-fb72a151a2cf", models.DifficultyExpert, 130)
	require.NoError(t, s.CreateScore(score))

	err := s.CreateScore(score)
	assert.ErrorIs(t, err, store.ErrDuplicateScore)

	got, err := s.TopScores(models.DifficultyExpert, 100)
	require.NoError(t, err)
	assert.Len(t, got, 1, "duplicate insert must not add a second row")
}

func TestTopScores(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	// deliberately out of order
	seconds := []int64{55, 12, 347, 99, 31}
	uuids := []string{
		"11111111-1111-4111-8111-111111111111",
		"22222222-2222-4222-8222-222222222222",
		"33333333-3333-4333-8333-333333333333",
		"44444444-4444-4444-8444-444444444444",
		"55555555-5555-4555-8555-555555555555",
	}
	for i, sec := range seconds {
		require.NoError(t, s.CreateScore(testScore(uuids[i], models.DifficultyBeginner, sec)))
	}
	require.NoError(t, s.CreateScore(
		testScore("66666666-6666-4666-8666-666666666666", models.DifficultyIntermediate, 1),
	))

	t.Run("ascending by seconds", func(t *testing.T) {
		got, err := s.TopScores(models.DifficultyBeginner, 100)
		require.NoError(t, err)
		require.Len(t, got, 5)
		for i := 1; i < len(got); i++ {
			assert.LessOrEqual(t, got[i-1].Seconds, got[i].Seconds)
		}
		assert.Equal(t, int64(12), got[0].Seconds)
	})

	t.Run("filters by difficulty", func(t *testing.T) {
		got, err := s.TopScores(models.DifficultyIntermediate, 100)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, int64(1), got[0].Seconds)
	})

	t.Run("truncates at limit", func(t *testing.T) {
		got, err := s.TopScores(models.DifficultyBeginner, 3)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, []int64{12, 31, 55}, []int64{got[0].Seconds, got[1].Seconds, got[2].Seconds})
	})

	t.Run("empty tier is an empty slice", func(t *testing.T) {
		got, err := s.TopScores(models.DifficultyExpert, 100)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Len(t, got, 0)
	})
}

func TestDeleteScore(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	score := testScore("e1748dc1-3882-4b2b-8c5d-fb72a151a2cf", models.DifficultyBeginner, 77)
	require.NoError(t, s.CreateScore(score))

	t.Run("delete existing", func(t *testing.T) {
		removed, err := s.DeleteScore(score.UUID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), removed)

		got, err := s.HasScore(score.UUID)
		require.NoError(t, err)
		assert.False(t, got)

		top, err := s.TopScores(models.DifficultyBeginner, 100)
		require.NoError(t, err)
		assert.Len(t, top, 0)
	})

	t.Run("delete again is a no-op", func(t *testing.T) {
		removed, err := s.DeleteScore(score.UUID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), removed)
	})
}
