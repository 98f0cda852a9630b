package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	Name         string
	PasswordHash string
}

// Profile carries the public part of a user shown on the leaderboard.
// XP is a denormalized mirror of the ledger, kept only for ranking.
type Profile struct {
	UserID      uuid.UUID `json:"uid"`
	DisplayName string    `json:"display_name"`
	Avatar      string    `json:"avatar"`
	Sport       string    `json:"sport"`
	Goal        string    `json:"goal"`
	Experience  string    `json:"experience"`
	XP          int       `json:"xp"`
	LastLogin   time.Time `json:"last_login"`
	CreatedAt   time.Time `json:"created_at"`
}

// CompletedWorkout is an append-only log entry. Rows are never mutated
// after creation and are cleared in bulk when a new training cycle starts.
type CompletedWorkout struct {
	ID       int64     `json:"id"`
	UserID   uuid.UUID `json:"uid"`
	Date     time.Time `json:"date"`
	Label    string    `json:"label"`
	Duration int       `json:"duration_min"`
	Volume   float64   `json:"volume_kg"`
}

type RoutineExercise struct {
	Name     string  `json:"name"`
	Sets     int     `json:"sets"`
	Reps     string  `json:"reps"`
	WeightKg float64 `json:"weight_kg,omitempty"`
	RestSec  int     `json:"rest_sec,omitempty"`
}

type RoutineDay struct {
	Day       string            `json:"day"`
	Focus     string            `json:"focus"`
	Exercises []RoutineExercise `json:"exercises"`
}

// Routine is the AI-generated weekly plan, stored as a document.
type Routine struct {
	UserID    uuid.UUID    `json:"uid"`
	Cycle     int          `json:"cycle"`
	Days      []RoutineDay `json:"days"`
	Notes     string       `json:"notes,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

type LeaderboardEntry struct {
	Profile
	Rank int `json:"rank"`
}

type Leaderboard struct {
	TopTen      []LeaderboardEntry `json:"top_ten"`
	CurrentUser *LeaderboardEntry  `json:"current_user,omitempty"`
}
