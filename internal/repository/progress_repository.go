package repository

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/bytedance/sonic"
	errorvalues "github.com/fitquest/fitquest/internal/error_values"
	"github.com/fitquest/fitquest/internal/gamestate"
	"github.com/fitquest/fitquest/pkg/cleanup"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProgressRepository stores the per-user gamification record as one row:
// streak columns, the weekly mission state as JSONB, and the two ledger
// counters. Saves are full-record overwrites, matching the upstream
// "last local state wins" write model.
type ProgressRepository struct {
	conn PgConnection
}

func NewProgressRepo(cfg DBConfig) *ProgressRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for progressRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for progressRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &ProgressRepository{
		conn: pool,
	}
}

func NewProgressRepoWithConn(conn PgConnection) *ProgressRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for progressRepo: " + err.Error())
	}
	return &ProgressRepository{
		conn: conn,
	}
}

func (pr *ProgressRepository) GetSnapshot(ctx context.Context, uid uuid.UUID) (*gamestate.Snapshot, error) {
	var (
		snap        gamestate.Snapshot
		lastWorkout *time.Time
		weekStart   time.Time
		missionsRaw []byte
	)
	snap.UserID = uid
	row := pr.conn.QueryRow(ctx, `SELECT current_streak, last_workout, week_start, missions, xp, diamonds
		FROM progress WHERE user_id = $1;`, uid)
	if err := row.Scan(&snap.Streak.Current, &lastWorkout, &weekStart, &missionsRaw, &snap.Ledger.XP, &snap.Ledger.Diamonds); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrProgressNotFound
		}
		return nil, errors.New("getting progress error: " + err.Error())
	}
	snap.Streak.LastWorkout = lastWorkout
	snap.Missions.WeekStart = weekStart
	if len(missionsRaw) > 0 {
		if err := sonic.Unmarshal(missionsRaw, &snap.Missions.Progress); err != nil {
			return nil, errors.New("unmarshalling missions error: " + err.Error())
		}
	}
	return &snap, nil
}

func (pr *ProgressRepository) SaveSnapshot(ctx context.Context, snap gamestate.Snapshot) error {
	missionsRaw, err := sonic.Marshal(snap.Missions.Progress)
	if err != nil {
		return errors.New("marshalling missions error: " + err.Error())
	}
	// Progress row and the profile XP mirror go together so the
	// leaderboard never lags behind a committed grant.
	tx, err := pr.conn.Begin(ctx)
	if err != nil {
		return errors.New("beginning progress tx error: " + err.Error())
	}
	defer tx.Rollback(ctx)
	_, err = tx.Exec(ctx, `INSERT INTO progress (user_id, current_streak, last_workout, week_start, missions, xp, diamonds)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET current_streak = $2, last_workout = $3, week_start = $4, missions = $5, xp = $6, diamonds = $7, updated_at = NOW();`,
		snap.UserID, snap.Streak.Current, snap.Streak.LastWorkout, snap.Missions.WeekStart, missionsRaw, snap.Ledger.XP, snap.Ledger.Diamonds,
	)
	if err != nil {
		return errors.New("saving progress error: " + err.Error())
	}
	_, err = tx.Exec(ctx, `UPDATE profiles SET xp = $1 WHERE user_id = $2;`, snap.Ledger.XP, snap.UserID)
	if err != nil {
		return errors.New("mirroring xp error: " + err.Error())
	}
	if err = tx.Commit(ctx); err != nil {
		return errors.New("committing progress tx error: " + err.Error())
	}
	return nil
}

func (pr *ProgressRepository) Delete(ctx context.Context, uid uuid.UUID) error {
	ct, err := pr.conn.Exec(ctx, `DELETE FROM progress WHERE user_id = $1;`, uid)
	if err != nil {
		return errors.New("deleting progress error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrProgressNotFound
	}
	return nil
}

func (pr *ProgressRepository) ResetStaleWeeks(ctx context.Context, weekStart string) (int64, error) {
	ct, err := pr.conn.Exec(ctx, `UPDATE progress SET week_start = $1, missions = '{}'::jsonb, updated_at = NOW()
		WHERE week_start < $1;`, weekStart)
	if err != nil {
		return 0, errors.New("resetting stale weeks error: " + err.Error())
	}
	return ct.RowsAffected(), nil
}
