package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreValidate(t *testing.T) {
	valid := Score{
		Name:       "anna",
		Difficulty: DifficultyExpert,
		Seconds:    130,
		UnixTime:   1714567890,
		UUID:       "e1748dc1-3882-4b2b-8c5d-fb72a151a2cf",
	}

	testCases := []struct {
		name    string
		mutate  func(*Score)
		wantErr bool
	}{
		{
			name:    "valid score",
			mutate:  func(s *Score) {},
			wantErr: false,
		},
		{
			name:    "zero seconds is fine",
			mutate:  func(s *Score) { s.Seconds = 0 },
			wantErr: false,
		},
		{
			name:    "empty name",
			mutate:  func(s *Score) { s.Name = "" },
			wantErr: true,
		},
		{
			name:    "difficulty outside the three tiers",
			mutate:  func(s *Score) { s.Difficulty = "Nightmare" },
			wantErr: true,
		},
		{
			name:    "negative seconds",
			mutate:  func(s *Score) { s.Seconds = -1 },
			wantErr: true,
		},
		{
			name:    "not a uuid",
			mutate:  func(s *Score) { s.UUID = "definitely-not-a-uuid" },
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := valid
			tc.mutate(&s)
			err := s.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
