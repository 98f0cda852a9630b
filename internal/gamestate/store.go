package gamestate

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Phase tracks where a session store is in its lifecycle.
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseSyncing
	PhaseReady
	// PhaseAnonymous means no identity resolved: all reads return zero
	// values and no remote writes are ever attempted.
	PhaseAnonymous
)

// StreakState is the persisted streak: the counter plus the date of the
// last workout that moved it.
type StreakState struct {
	Current     int        `json:"current"`
	LastWorkout *time.Time `json:"last_workout,omitempty"`
}

// Snapshot is the full per-user gamification record mirrored from the
// remote store.
type Snapshot struct {
	UserID   uuid.UUID      `json:"uid"`
	Streak   StreakState    `json:"streak"`
	Missions WeeklyMissions `json:"missions"`
	Ledger   Ledger         `json:"ledger"`
}

// NewSnapshot seeds a default record for a fresh or reset account.
func NewSnapshot(userID uuid.UUID, now time.Time) Snapshot {
	return Snapshot{
		UserID:   userID,
		Missions: NewWeeklyMissions(now),
	}
}

// Persister is the write half of the remote store contract. Writes are
// best-effort: the store logs failures and keeps its local state.
type Persister interface {
	SaveSnapshot(ctx context.Context, snap Snapshot) error
}

// Store is the single source of truth for one user's gamification state
// during a session. Every mutator updates the cached snapshot synchronously
// and then issues a fire-and-forget write through the Persister; the two
// steps are deliberately not transactional, the remote record catches up or
// the next Reconcile overwrites the cache.
type Store struct {
	mu        sync.Mutex
	phase     Phase
	snap      Snapshot
	persister Persister
	logger    *slog.Logger

	persistTimeout time.Duration
	// wg lets callers that tear a session down wait for in-flight writes.
	wg sync.WaitGroup
}

func NewStore(persister Persister, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		persister:      persister,
		logger:         logger,
		persistTimeout: 10 * time.Second,
	}
}

// NewAnonymousStore returns a store serving zero values that never writes.
func NewAnonymousStore() *Store {
	return &Store{phase: PhaseAnonymous, logger: slog.Default()}
}

func (s *Store) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// BeginSync marks the store as loading the remote record for userID.
func (s *Store) BeginSync(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = PhaseSyncing
	s.snap.UserID = userID
}

// Reconcile replaces the cached snapshot with a remote observation. This is
// the reconciliation point for the optimistic-local / eventual-remote pair:
// whatever the remote store pushes wins.
func (s *Store) Reconcile(remote Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = remote
	s.phase = PhaseReady
}

// ReconcileDeleted handles the remote record disappearing (account reset):
// the store re-seeds a fresh default snapshot and persists it.
func (s *Store) ReconcileDeleted(now time.Time) {
	s.mu.Lock()
	fresh := NewSnapshot(s.snap.UserID, now)
	s.snap = fresh
	s.phase = PhaseReady
	s.mu.Unlock()
	s.persistAsync(fresh)
}

// Snapshot returns a copy of the cached state. Mission progress is deep
// copied so callers cannot mutate the cache.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copySnapshot(s.snap)
}

// WorkoutResult reports everything a single logged workout changed.
type WorkoutResult struct {
	NewStreak      int       `json:"new_streak"`
	NewlyCompleted []Mission `json:"newly_completed,omitempty"`
	Grants         []XPGrant `json:"grants,omitempty"`
	XP             int       `json:"xp"`
}

// LogWorkout runs the whole pipeline for one completed workout: streak
// computation, mission progress, mission rewards through the XP ledger.
// Mission rewards pass through GrantXP, so each carries the streak bonus.
func (s *Store) LogWorkout(event WorkoutEvent) (WorkoutResult, bool) {
	s.mu.Lock()
	if !s.ready() {
		s.mu.Unlock()
		return WorkoutResult{}, false
	}

	newStreak := ComputeStreak(s.snap.Streak.LastWorkout, s.snap.Streak.Current, event.Date)
	s.snap.Streak.Current = newStreak
	date := event.Date
	s.snap.Streak.LastWorkout = &date

	missions, newlyCompleted := ApplyWorkout(s.snap.Missions, event, newStreak)
	s.snap.Missions = missions

	result := WorkoutResult{NewStreak: newStreak, NewlyCompleted: newlyCompleted}
	for _, m := range newlyCompleted {
		grant := s.snap.Ledger.GrantXP(m.XPReward, newStreak, m.Title)
		s.logger.Info("mission completed", slog.String("mission", string(m.ID)), slog.String("toast", grant.Notification()))
		result.Grants = append(result.Grants, grant)
	}
	result.XP = s.snap.Ledger.XP

	snap := copySnapshot(s.snap)
	s.mu.Unlock()

	s.persistAsync(snap)
	return result, true
}

// GrantXP applies a manual XP grant using the current streak for the bonus.
// Returns false without effect when the store isn't ready (silent no-op per
// the missing-precondition policy).
func (s *Store) GrantXP(amount int, reason string) (XPGrant, bool) {
	s.mu.Lock()
	if !s.ready() {
		s.mu.Unlock()
		return XPGrant{}, false
	}
	grant := s.snap.Ledger.GrantXP(amount, s.snap.Streak.Current, reason)
	snap := copySnapshot(s.snap)
	s.mu.Unlock()

	s.persistAsync(snap)
	return grant, true
}

func (s *Store) AddDiamonds(n int) (int, bool) {
	s.mu.Lock()
	if !s.ready() {
		s.mu.Unlock()
		return 0, false
	}
	balance := s.snap.Ledger.AddDiamonds(n)
	snap := copySnapshot(s.snap)
	s.mu.Unlock()

	s.persistAsync(snap)
	return balance, true
}

func (s *Store) ConsumeDiamonds(n int) (int, bool) {
	s.mu.Lock()
	if !s.ready() {
		s.mu.Unlock()
		return 0, false
	}
	balance := s.snap.Ledger.ConsumeDiamonds(n)
	snap := copySnapshot(s.snap)
	s.mu.Unlock()

	s.persistAsync(snap)
	return balance, true
}

// Missions returns the active weekly state, lazily replacing a stale week
// before returning. The replacement is persisted.
func (s *Store) Missions(now time.Time) (WeeklyMissions, bool) {
	s.mu.Lock()
	if !s.ready() {
		s.mu.Unlock()
		return WeeklyMissions{}, false
	}
	if s.snap.Missions.Stale(now) || len(s.snap.Missions.Progress) == 0 {
		s.snap.Missions = NewWeeklyMissions(now)
		snap := copySnapshot(s.snap)
		s.mu.Unlock()
		s.persistAsync(snap)
		return snap.Missions, true
	}
	snap := copySnapshot(s.snap)
	s.mu.Unlock()
	return snap.Missions, true
}

// Wait blocks until in-flight persistence settles. Used on session teardown
// and in tests.
func (s *Store) Wait() {
	s.wg.Wait()
}

func (s *Store) ready() bool {
	return s.phase == PhaseReady
}

func (s *Store) persistAsync(snap Snapshot) {
	if s.persister == nil {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.persistTimeout)
		defer cancel()
		if err := s.persister.SaveSnapshot(ctx, snap); err != nil {
			// No retry and no rollback: the local snapshot stands and the
			// next successful write or Reconcile resolves the divergence.
			s.logger.Error("persisting snapshot failed", slog.String("uid", snap.UserID.String()), slog.String("error", err.Error()))
		}
	}()
}

func copySnapshot(snap Snapshot) Snapshot {
	out := snap
	if snap.Missions.Progress != nil {
		progress := make(map[MissionID]MissionProgress, len(snap.Missions.Progress))
		for id, p := range snap.Missions.Progress {
			progress[id] = p
		}
		out.Missions.Progress = progress
	}
	if snap.Streak.LastWorkout != nil {
		t := *snap.Streak.LastWorkout
		out.Streak.LastWorkout = &t
	}
	return out
}
