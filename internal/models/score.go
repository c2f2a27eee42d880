package models

import (
	"github.com/go-playground/validator/v10"
)

// The three difficulty tiers the game client submits. Tags are fixed,
// anything else is rejected at validation time.
const (
	DifficultyBeginner     = "Beginner"
	DifficultyIntermediate = "Intermediate"
	DifficultyExpert       = "Expert"
)

// Difficulties lists the tiers in leaderboard display order.
var Difficulties = []string{
	DifficultyBeginner,
	DifficultyIntermediate,
	DifficultyExpert,
}

// Score is a single finished game. UUID comes from the browser
// (crypto.randomUUID()) and doubles as the idempotency token: a record
// is written at most once and never mutated afterwards.
type Score struct {
	Name       string `db:"name" json:"name" validate:"required,max=255"`
	Difficulty string `db:"difficulty" json:"difficulty" validate:"required,oneof=Beginner Intermediate Expert"`
	Seconds    int64  `db:"seconds" json:"seconds" validate:"gte=0"`
	UnixTime   int64  `db:"unix_time" json:"unix_time" validate:"gte=0"`
	UUID       string `db:"uuid_str" json:"uuid_str" validate:"required,uuid"`
}

func (s *Score) Validate() error {
	validate := validator.New()
	return validate.Struct(s)
}
