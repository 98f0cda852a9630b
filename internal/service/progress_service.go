package service

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"sync"
	"time"

	errorvalues "github.com/fitquest/fitquest/internal/error_values"
	"github.com/fitquest/fitquest/internal/gamestate"
	"github.com/fitquest/fitquest/internal/repository"
	"github.com/fitquest/fitquest/pkg/entity"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ProgressService keeps one gamestate.Store per signed-in user: the local
// snapshot answers reads synchronously, mutations write through to the
// progress repository best-effort. The store is seeded from the repository
// on the first touch of a session and evicted on teardown.
type ProgressService struct {
	progressRepo repository.ProgressRepositoryI
	workoutsRepo repository.WorkoutsRepositoryI

	mu     sync.Mutex
	stores map[uuid.UUID]*gamestate.Store

	bonusPerDay int
	logger      *slog.Logger
}

func NewProgressService(progressRepo repository.ProgressRepositoryI, workoutsRepo repository.WorkoutsRepositoryI, bonusPerDay int) *ProgressService {
	if progressRepo == nil || workoutsRepo == nil {
		log.Fatal("provided nil repos to progress service")
	}
	return &ProgressService{
		progressRepo: progressRepo,
		workoutsRepo: workoutsRepo,
		stores:       make(map[uuid.UUID]*gamestate.Store),
		bonusPerDay:  bonusPerDay,
		logger:       slog.Default(),
	}
}

// store returns the session store for uid, syncing it from the repository
// when the session is fresh. A missing remote record seeds a default
// snapshot: the weekly mission state is created lazily on first observation.
func (ps *ProgressService) store(ctx context.Context, uid uuid.UUID) (*gamestate.Store, error) {
	ps.mu.Lock()
	st, ok := ps.stores[uid]
	if !ok {
		st = gamestate.NewStore(ps.progressRepo, ps.logger)
		ps.stores[uid] = st
	}
	ps.mu.Unlock()
	if st.Phase() == gamestate.PhaseReady {
		return st, nil
	}

	st.BeginSync(uid)
	snap, err := ps.progressRepo.GetSnapshot(ctx, uid)
	switch {
	case err == nil:
		snap.Ledger.BonusPerDay = ps.bonusPerDay
		st.Reconcile(*snap)
	case errors.Is(err, errorvalues.ErrProgressNotFound):
		fresh := gamestate.NewSnapshot(uid, time.Now())
		fresh.Ledger.BonusPerDay = ps.bonusPerDay
		st.Reconcile(fresh)
	default:
		return nil, errors.New("progress repository error: " + err.Error())
	}
	return st, nil
}

func (ps *ProgressService) LogWorkout(ctx context.Context, uid uuid.UUID, req *LogWorkoutRequest) (*gamestate.WorkoutResult, error) {
	err := validate.Struct(*req)
	if err != nil {
		if validationError, ok := err.(validator.ValidationErrors); ok {
			err = errors.New("validation error: ")
			for _, fieldErr := range validationError {
				err = errors.Join(err, fieldErr)
			}
			return nil, err
		}
		return nil, errors.New("validation unexpected error: " + err.Error())
	}
	st, err := ps.store(ctx, uid)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	// The append-only log entry is written first; the gamification fold is
	// local and catches up through its own async write.
	_, err = ps.workoutsRepo.Create(ctx, &entity.CompletedWorkout{
		UserID:   uid,
		Date:     now,
		Label:    req.Label,
		Duration: req.Duration,
		Volume:   req.Volume,
	})
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, err
		}
		return nil, errors.New("workouts repository error: " + err.Error())
	}
	result, ok := st.LogWorkout(gamestate.WorkoutEvent{Volume: req.Volume, Date: now})
	if !ok {
		// Store not ready: per the missing-precondition policy this is a
		// no-op, the workout row still stands in the log.
		return &gamestate.WorkoutResult{}, nil
	}
	return &result, nil
}

func (ps *ProgressService) Workouts(ctx context.Context, uid uuid.UUID, pagination PaginationOpts) ([]*entity.CompletedWorkout, error) {
	workouts, err := ps.workoutsRepo.GetByUserID(ctx, uid, pagination.Limit, pagination.Offset)
	if err != nil {
		return nil, errors.New("workouts repository error: " + err.Error())
	}
	return workouts, nil
}

func (ps *ProgressService) State(ctx context.Context, uid uuid.UUID) (*gamestate.Snapshot, error) {
	st, err := ps.store(ctx, uid)
	if err != nil {
		return nil, err
	}
	snap := st.Snapshot()
	return &snap, nil
}

func (ps *ProgressService) Missions(ctx context.Context, uid uuid.UUID, now time.Time) (*gamestate.WeeklyMissions, error) {
	st, err := ps.store(ctx, uid)
	if err != nil {
		return nil, err
	}
	wm, ok := st.Missions(now)
	if !ok {
		return nil, errorvalues.ErrProgressNotFound
	}
	return &wm, nil
}

func (ps *ProgressService) GrantXP(ctx context.Context, uid uuid.UUID, amount int, reason string) (*gamestate.XPGrant, error) {
	st, err := ps.store(ctx, uid)
	if err != nil {
		return nil, err
	}
	grant, ok := st.GrantXP(amount, reason)
	if !ok {
		return nil, errorvalues.ErrProgressNotFound
	}
	return &grant, nil
}

func (ps *ProgressService) EarnDiamonds(ctx context.Context, uid uuid.UUID, amount int) (int, error) {
	st, err := ps.store(ctx, uid)
	if err != nil {
		return 0, err
	}
	balance, ok := st.AddDiamonds(amount)
	if !ok {
		return 0, errorvalues.ErrProgressNotFound
	}
	return balance, nil
}

func (ps *ProgressService) SpendDiamonds(ctx context.Context, uid uuid.UUID, amount int) (int, error) {
	st, err := ps.store(ctx, uid)
	if err != nil {
		return 0, err
	}
	balance, ok := st.ConsumeDiamonds(amount)
	if !ok {
		return 0, errorvalues.ErrProgressNotFound
	}
	return balance, nil
}

// Evict drops the session store and waits out its in-flight writes. Called
// after account deletion and from session teardown.
func (ps *ProgressService) Evict(uid uuid.UUID) {
	ps.mu.Lock()
	st, ok := ps.stores[uid]
	delete(ps.stores, uid)
	ps.mu.Unlock()
	if ok {
		st.Wait()
	}
}
