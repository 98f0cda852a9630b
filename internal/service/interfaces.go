package service

import (
	"context"
	"time"

	"github.com/fitquest/fitquest/internal/assistant"
	"github.com/fitquest/fitquest/internal/gamestate"
	"github.com/fitquest/fitquest/pkg/entity"
	"github.com/google/uuid"
)

type RegisterRequest struct {
	Name     string `validate:"required,alphanum_underscore,min=3,max=100"`
	Password string `validate:"required,min=8,max=72"`
}

type ProfileRequest struct {
	DisplayName string `validate:"required,min=1,max=100"`
	Avatar      string `validate:"max=255"`
	Sport       string `validate:"required,max=100"`
	Goal        string `validate:"required,max=100"`
	Experience  string `validate:"required,oneof=beginner intermediate advanced"`
}

type LogWorkoutRequest struct {
	Label    string  `validate:"required,max=200"`
	Duration int     `validate:"min=0,max=1440"`
	Volume   float64 `validate:"min=0"`
}

type PaginationOpts struct {
	Limit  int
	Offset int
}

type UserServiceI interface {
	// Validates user's credentials, creates new row in database together
	// with a default profile. Returns user's data with ID
	Register(ctx context.Context, req *RegisterRequest) (*entity.User, error)
	// Compares given credentials. If ok, gives back user's data with ID
	// and stamps the profile's last_login
	Login(ctx context.Context, name, password string) (*entity.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	// Onboarding: creates or overwrites the public profile
	SaveProfile(ctx context.Context, id uuid.UUID, req *ProfileRequest) error
	GetProfile(ctx context.Context, id uuid.UUID) (*entity.Profile, error)
	// Destructive, irreversible account reset. Everything cascades
	DeleteAccount(ctx context.Context, id uuid.UUID, password string) error
}

// ProgressServiceI owns the per-session gamification stores: one snapshot
// cache per signed-in user, write-through to the progress repository.
type ProgressServiceI interface {
	// Appends the workout to the log and folds it into streak, missions
	// and ledger. The returned result carries everything the UI toasts
	LogWorkout(ctx context.Context, uid uuid.UUID, req *LogWorkoutRequest) (*gamestate.WorkoutResult, error)
	Workouts(ctx context.Context, uid uuid.UUID, pagination PaginationOpts) ([]*entity.CompletedWorkout, error)
	State(ctx context.Context, uid uuid.UUID) (*gamestate.Snapshot, error)
	// Active weekly missions, lazily reset when the week rolled over
	Missions(ctx context.Context, uid uuid.UUID, now time.Time) (*gamestate.WeeklyMissions, error)
	GrantXP(ctx context.Context, uid uuid.UUID, amount int, reason string) (*gamestate.XPGrant, error)
	EarnDiamonds(ctx context.Context, uid uuid.UUID, amount int) (int, error)
	SpendDiamonds(ctx context.Context, uid uuid.UUID, amount int) (int, error)
	// Drops the session store, e.g. after account deletion
	Evict(uid uuid.UUID)
}

type RoutineServiceI interface {
	// Calls the plan generator with the onboarding profile and stores the
	// first cycle
	Generate(ctx context.Context, uid uuid.UUID, req *assistant.RoutineRequest) (*entity.Routine, error)
	Get(ctx context.Context, uid uuid.UUID) (*entity.Routine, error)
	// Adaptive progression: generates the next cycle from the logged
	// history, then clears the workout log in bulk
	Progress(ctx context.Context, uid uuid.UUID) (*entity.Routine, error)
}

type GamesServiceI interface {
	Trivia(ctx context.Context, req *assistant.TriviaRequest) (*assistant.TriviaResponse, error)
	Quiz(ctx context.Context, req *assistant.QuizRequest) (*assistant.QuizResponse, error)
	Debate(ctx context.Context, req *assistant.DebateRequest) (*assistant.DebateResponse, error)
	Chat(ctx context.Context, req *assistant.ChatRequest) (*assistant.ChatResponse, error)
}

type LeaderboardServiceI interface {
	Get(ctx context.Context, uid uuid.UUID) (*entity.Leaderboard, error)
	Invalidate(ctx context.Context)
}
