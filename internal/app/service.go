package app

import (
	"errors"
	"fmt"

	"github.com/sweeplab/leaderboard/internal/models"
	"github.com/sweeplab/leaderboard/internal/store"
)

// top100Limit is the fixed leaderboard cutoff per difficulty tier.
const top100Limit = 100

type Service struct {
	Config   *Config
	Store    store.ScoreStore
	Verifier *Verifier
	Limiter  *RateLimiter
}

func NewService(config *Config) (*Service, error) {
	st, err := NewStore(config.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to init store: %w", err)
	}

	limiter, err := NewRateLimiter(config)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to init rate limiter: %w", err)
	}

	return &Service{
		Config:   config,
		Store:    st,
		Verifier: NewVerifier(config),
		Limiter:  limiter,
	}, nil
}

// SubmitResult is the body of every 200 response on the submit path.
// ok=0 with a description is a soft failure: the client may resubmit.
type SubmitResult struct {
	OK          int    `json:"ok"`
	Description string `json:"description,omitempty"`
}

// SubmitScore runs an already-validated record through dedup and
// persistence. Test-only submissions report success without touching
// the store.
func (s *Service) SubmitScore(score *models.Score, testOnly bool) (SubmitResult, error) {
	if testOnly {
		return SubmitResult{OK: 1, Description: "Testing. Not persisting"}, nil
	}

	exists, err := s.Store.HasScore(score.UUID)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("failed to check score uuid %s: %w", score.UUID, err)
	}
	if exists {
		return SubmitResult{OK: 0, Description: "Score already saved"}, nil
	}

	if err := s.Store.CreateScore(score); err != nil {
		// a concurrent writer won the uuid between the check and the
		// insert; same outcome as the pre-check hit
		if errors.Is(err, store.ErrDuplicateScore) {
			return SubmitResult{OK: 0, Description: "Score already saved"}, nil
		}
		return SubmitResult{}, fmt.Errorf("failed to save score %s: %w", score.UUID, err)
	}

	return SubmitResult{OK: 1}, nil
}

// TopScores assembles the per-tier leaderboard, fastest first, capped
// at 100 records per tier. Empty tiers come back as empty slices.
func (s *Service) TopScores() (map[string][]models.Score, error) {
	top := make(map[string][]models.Score, len(models.Difficulties))
	for _, difficulty := range models.Difficulties {
		scores, err := s.Store.TopScores(difficulty, top100Limit)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch top scores for %s: %w", difficulty, err)
		}
		top[difficulty] = scores
	}
	return top, nil
}

func (s *Service) Close() error {
	var errs []error

	if err := s.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("store: %w", err))
	}
	if err := s.Limiter.Close(); err != nil {
		errs = append(errs, fmt.Errorf("rate limiter: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors while closing: %v", errs)
	}
	return nil
}
