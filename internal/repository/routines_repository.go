package repository

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/bytedance/sonic"
	errorvalues "github.com/fitquest/fitquest/internal/error_values"
	"github.com/fitquest/fitquest/pkg/cleanup"
	"github.com/fitquest/fitquest/pkg/entity"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RoutinesRepository keeps one routine document per user. The plan body is
// JSONB because its shape belongs to the AI contract, not the schema.
type RoutinesRepository struct {
	conn PgConnection
}

func NewRoutinesRepo(cfg DBConfig) *RoutinesRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for routinesRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for routinesRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &RoutinesRepository{
		conn: pool,
	}
}

func NewRoutinesRepoWithConn(conn PgConnection) *RoutinesRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for routinesRepo: " + err.Error())
	}
	return &RoutinesRepository{
		conn: conn,
	}
}

func (rr *RoutinesRepository) Save(ctx context.Context, routine *entity.Routine) error {
	if routine == nil {
		return errors.New("routine is nil")
	}
	daysRaw, err := sonic.Marshal(routine.Days)
	if err != nil {
		return errors.New("marshalling routine days error: " + err.Error())
	}
	_, err = rr.conn.Exec(ctx, `INSERT INTO routines (user_id, cycle, days, notes)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET cycle = $2, days = $3, notes = $4, created_at = NOW();`,
		routine.UserID, routine.Cycle, daysRaw, routine.Notes,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// FK violation
			case "23503":
				return errorvalues.ErrUserNotFound
			}
		}
		return errors.New("saving routine db error: " + err.Error())
	}
	return nil
}

func (rr *RoutinesRepository) GetByUserID(ctx context.Context, uid uuid.UUID) (*entity.Routine, error) {
	var (
		routine   entity.Routine
		daysRaw   []byte
		createdAt time.Time
	)
	routine.UserID = uid
	row := rr.conn.QueryRow(ctx, `SELECT cycle, days, notes, created_at FROM routines WHERE user_id = $1;`, uid)
	if err := row.Scan(&routine.Cycle, &daysRaw, &routine.Notes, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrRoutineNotFound
		}
		return nil, errors.New("getting routine error: " + err.Error())
	}
	routine.CreatedAt = createdAt
	if err := sonic.Unmarshal(daysRaw, &routine.Days); err != nil {
		return nil, errors.New("unmarshalling routine days error: " + err.Error())
	}
	return &routine, nil
}
