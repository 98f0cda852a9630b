package repository

import (
	"context"
	"fmt"

	"github.com/fitquest/fitquest/internal/gamestate"
	"github.com/fitquest/fitquest/pkg/entity"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type UsersRepositoryI interface {
	// Creates new user in database and returns the generated id
	Create(ctx context.Context, user *entity.User) (uuid.UUID, error)
	// Looks up user by name. Can be used for login
	FindByName(ctx context.Context, name string) (*entity.User, error)
	// Looks up user by uid. Can be used for authorization middleware
	FindByID(ctx context.Context, uid uuid.UUID) (*entity.User, error)
	// Deletes user. Profiles, progress, workouts and routines cascade
	Delete(ctx context.Context, uid uuid.UUID) error
}

type ProfilesRepositoryI interface {
	// Creates or overwrites the user's public profile
	Upsert(ctx context.Context, profile *entity.Profile) error
	// Fetches one profile
	GetByUserID(ctx context.Context, uid uuid.UUID) (*entity.Profile, error)
	// Overwrites the denormalized XP mirror used for ranking
	SetXP(ctx context.Context, uid uuid.UUID, xp int) error
	// Stamps last_login with the current time
	TouchLastLogin(ctx context.Context, uid uuid.UUID) error
	// Lists the top-n profiles ordered by XP descending, stable tie order
	TopByXP(ctx context.Context, n int) ([]entity.Profile, error)
	// Computes the 1-based rank of uid over the full ordered scan.
	// Returns ErrProfileNotFound when the user has no profile
	Rank(ctx context.Context, uid uuid.UUID) (int, error)
}

type ProgressRepositoryI interface {
	// Reads the per-user gamification record
	GetSnapshot(ctx context.Context, uid uuid.UUID) (*gamestate.Snapshot, error)
	// Full-record overwrite, including the profile XP mirror
	SaveSnapshot(ctx context.Context, snap gamestate.Snapshot) error
	// Deletes the record (account reset)
	Delete(ctx context.Context, uid uuid.UUID) error
	// Zeroes weekly mission state stamped before weekStart. Cron sweep,
	// belt and braces next to the lazy on-read reset
	ResetStaleWeeks(ctx context.Context, weekStart string) (int64, error)
}

type WorkoutsRepositoryI interface {
	// Appends one completed workout. Entries are immutable afterwards
	Create(ctx context.Context, w *entity.CompletedWorkout) (int64, error)
	// Lists the user's workouts, newest first
	GetByUserID(ctx context.Context, uid uuid.UUID, limit, offset int) ([]*entity.CompletedWorkout, error)
	// Bulk delete when a new training cycle begins
	ClearByUserID(ctx context.Context, uid uuid.UUID) (int64, error)
}

type RoutinesRepositoryI interface {
	// Creates or overwrites the user's routine document
	Save(ctx context.Context, routine *entity.Routine) error
	GetByUserID(ctx context.Context, uid uuid.UUID) (*entity.Routine, error)
}

type DBConfig interface {
	ConnString() string
}

type PgConnection interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PGCfg struct {
	Address  string
	Username string
	Password string
	DB       string
}

func (pgcfg *PGCfg) ConnString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s/%s", pgcfg.Username, pgcfg.Password, pgcfg.Address, pgcfg.DB)
}
