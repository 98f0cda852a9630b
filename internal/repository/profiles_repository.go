package repository

import (
	"context"
	"errors"
	"log"

	errorvalues "github.com/fitquest/fitquest/internal/error_values"
	"github.com/fitquest/fitquest/pkg/cleanup"
	"github.com/fitquest/fitquest/pkg/entity"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProfilesRepository struct {
	conn PgConnection
}

func NewProfilesRepo(cfg DBConfig) *ProfilesRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for profilesRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for profilesRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &ProfilesRepository{
		conn: pool,
	}
}

func NewProfilesRepoWithConn(conn PgConnection) *ProfilesRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for profilesRepo: " + err.Error())
	}
	return &ProfilesRepository{
		conn: conn,
	}
}

func (pr *ProfilesRepository) Upsert(ctx context.Context, profile *entity.Profile) error {
	if profile == nil {
		return errors.New("profile is nil")
	}
	_, err := pr.conn.Exec(ctx, `INSERT INTO profiles (user_id, display_name, avatar, sport, goal, experience)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE SET display_name = $2, avatar = $3, sport = $4, goal = $5, experience = $6;`,
		profile.UserID, profile.DisplayName, profile.Avatar, profile.Sport, profile.Goal, profile.Experience,
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
		return errors.New("upserting profile db error: " + err.Error())
	}
	return nil
}

func (pr *ProfilesRepository) GetByUserID(ctx context.Context, uid uuid.UUID) (*entity.Profile, error) {
	var p entity.Profile
	p.UserID = uid
	row := pr.conn.QueryRow(ctx, `SELECT display_name, avatar, sport, goal, experience, xp, last_login, created_at
		FROM profiles WHERE user_id = $1;`, uid)
	if err := row.Scan(&p.DisplayName, &p.Avatar, &p.Sport, &p.Goal, &p.Experience, &p.XP, &p.LastLogin, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrProfileNotFound
		}
		return nil, errors.New("getting profile error: " + err.Error())
	}
	return &p, nil
}

func (pr *ProfilesRepository) SetXP(ctx context.Context, uid uuid.UUID, xp int) error {
	ct, err := pr.conn.Exec(ctx, `UPDATE profiles SET xp = $1 WHERE user_id = $2;`, xp, uid)
	if err != nil {
		return errors.New("updating xp mirror error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrProfileNotFound
	}
	return nil
}

func (pr *ProfilesRepository) TouchLastLogin(ctx context.Context, uid uuid.UUID) error {
	ct, err := pr.conn.Exec(ctx, `UPDATE profiles SET last_login = NOW() WHERE user_id = $1;`, uid)
	if err != nil {
		return errors.New("touching last_login error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrProfileNotFound
	}
	return nil
}

func (pr *ProfilesRepository) TopByXP(ctx context.Context, n int) ([]entity.Profile, error) {
	profiles := make([]entity.Profile, 0, n)
	// created_at tiebreak keeps equal-XP users in stable insertion order.
	rows, err := pr.conn.Query(ctx, `SELECT user_id, display_name, avatar, sport, goal, experience, xp, last_login, created_at
		FROM profiles ORDER BY xp DESC, created_at ASC LIMIT $1;`, n)
	if err != nil {
		return nil, errors.New("getting top profiles error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		var p entity.Profile
		err = rows.Scan(&p.UserID, &p.DisplayName, &p.Avatar, &p.Sport, &p.Goal, &p.Experience, &p.XP, &p.LastLogin, &p.CreatedAt)
		if err != nil {
			return nil, errors.New("scanning profile error: " + err.Error())
		}
		profiles = append(profiles, p)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning: " + rows.Err().Error())
	}
	return profiles, nil
}

func (pr *ProfilesRepository) Rank(ctx context.Context, uid uuid.UUID) (int, error) {
	var rank int
	row := pr.conn.QueryRow(ctx, `SELECT rank FROM (
			SELECT user_id, ROW_NUMBER() OVER (ORDER BY xp DESC, created_at ASC) AS rank FROM profiles
		) ranked WHERE user_id = $1;`, uid)
	if err := row.Scan(&rank); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, errorvalues.ErrProfileNotFound
		}
		return 0, errors.New("computing rank error: " + err.Error())
	}
	return rank, nil
}
