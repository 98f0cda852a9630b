package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	errorvalues "github.com/fitquest/fitquest/internal/error_values"
	"github.com/fitquest/fitquest/internal/repository"
	"github.com/fitquest/fitquest/pkg/entity"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDays = []entity.RoutineDay{
	{
		Day:   "monday",
		Focus: "push",
		Exercises: []entity.RoutineExercise{
			{Name: "Bench press", Sets: 4, Reps: "8-10", WeightKg: 60},
		},
	},
}

func TestSaveRoutine(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewRoutinesRepoWithConn(mock)
	routine := entity.Routine{
		UserID: userID,
		Cycle:  1,
		Days:   testDays,
		Notes:  "focus on form",
	}
	daysRaw, err := sonic.Marshal(routine.Days)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	query := regexp.QuoteMeta(`INSERT INTO routines (user_id, cycle, days, notes)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET cycle = $2, days = $3, notes = $4, created_at = NOW();`)
	t.Run("saved", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(routine.UserID, routine.Cycle, daysRaw, routine.Notes).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		assert.NoError(t, repo.Save(ctx, &routine))
	})
	t.Run("fk violation", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(routine.UserID, routine.Cycle, daysRaw, routine.Notes).
			WillReturnError(&pgconn.PgError{Code: "23503"})
		assert.ErrorIs(t, repo.Save(ctx, &routine), errorvalues.ErrUserNotFound)
	})
	t.Run("db error", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(routine.UserID, routine.Cycle, daysRaw, routine.Notes).
			WillReturnError(errors.New("db error"))
		assert.Error(t, repo.Save(ctx, &routine))
	})
	t.Run("nil routine", func(t *testing.T) {
		assert.Error(t, repo.Save(ctx, nil))
	})
}

func TestGetRoutineByUserID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewRoutinesRepoWithConn(mock)
	ctx := context.Background()
	query := regexp.QuoteMeta(`SELECT cycle, days, notes, created_at FROM routines WHERE user_id = $1;`)
	t.Run("provided", func(t *testing.T) {
		daysRaw, err := sonic.Marshal(testDays)
		if err != nil {
			t.Fatal(err)
		}
		mock.ExpectQuery(query).
			WithArgs(userID).
			WillReturnRows(pgxmock.
				NewRows([]string{"cycle", "days", "notes", "created_at"}).
				AddRow(2, daysRaw, "deload week", time.Now()))
		routine, err := repo.GetByUserID(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 2, routine.Cycle)
		require.Len(t, routine.Days, 1)
		assert.Equal(t, "push", routine.Days[0].Focus)
	})
	t.Run("no routine yet", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(userID).
			WillReturnError(pgx.ErrNoRows)
		_, err := repo.GetByUserID(ctx, userID)
		assert.ErrorIs(t, err, errorvalues.ErrRoutineNotFound)
	})
	t.Run("corrupt document", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(userID).
			WillReturnRows(pgxmock.
				NewRows([]string{"cycle", "days", "notes", "created_at"}).
				AddRow(1, []byte("{not json"), "", time.Now()))
		_, err := repo.GetByUserID(ctx, userID)
		assert.Error(t, err)
	})
}
