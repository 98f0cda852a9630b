package repository

import (
	"context"
	"errors"
	"log"

	errorvalues "github.com/fitquest/fitquest/internal/error_values"
	"github.com/fitquest/fitquest/pkg/cleanup"
	"github.com/fitquest/fitquest/pkg/entity"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type WorkoutsRepository struct {
	conn PgConnection
}

func NewWorkoutsRepo(cfg DBConfig) *WorkoutsRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for workoutsRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for workoutsRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &WorkoutsRepository{
		conn: pool,
	}
}

func NewWorkoutsRepoWithConn(conn PgConnection) *WorkoutsRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for workoutsRepo: " + err.Error())
	}
	return &WorkoutsRepository{
		conn: conn,
	}
}

func (wr *WorkoutsRepository) Create(ctx context.Context, w *entity.CompletedWorkout) (int64, error) {
	if w == nil {
		return 0, errors.New("workout is nil")
	}
	var id int64
	row := wr.conn.QueryRow(ctx, `INSERT INTO workouts (user_id, date, label, duration_min, volume_kg)
		VALUES ($1, $2, $3, $4, $5) RETURNING id;`,
		w.UserID, w.Date, w.Label, w.Duration, w.Volume,
	)
	if err := row.Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// FK violation
			case "23503":
				return 0, errorvalues.ErrUserNotFound
			}
		}
		return 0, errors.New("creating workout db error: " + err.Error())
	}
	return id, nil
}

func (wr *WorkoutsRepository) GetByUserID(ctx context.Context, uid uuid.UUID, limit, offset int) ([]*entity.CompletedWorkout, error) {
	workouts := make([]*entity.CompletedWorkout, 0)
	rows, err := wr.conn.Query(ctx, `SELECT id, user_id, date, label, duration_min, volume_kg
		FROM workouts WHERE user_id = $1 ORDER BY date DESC LIMIT $2 OFFSET $3;`, uid, limit, offset)
	if err != nil {
		return nil, errors.New("getting workouts by uid error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		w := entity.CompletedWorkout{}
		err = rows.Scan(&w.ID, &w.UserID, &w.Date, &w.Label, &w.Duration, &w.Volume)
		if err != nil {
			return nil, errors.New("scanning workout error: " + err.Error())
		}
		workouts = append(workouts, &w)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning: " + rows.Err().Error())
	}
	return workouts, nil
}

func (wr *WorkoutsRepository) ClearByUserID(ctx context.Context, uid uuid.UUID) (int64, error) {
	ct, err := wr.conn.Exec(ctx, `DELETE FROM workouts WHERE user_id = $1;`, uid)
	if err != nil {
		return 0, errors.New("clearing workouts error: " + err.Error())
	}
	return ct.RowsAffected(), nil
}
