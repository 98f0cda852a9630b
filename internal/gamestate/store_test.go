package gamestate_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fitquest/fitquest/internal/gamestate"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type persisterMock struct {
	mu    sync.Mutex
	saved []gamestate.Snapshot
	fail  bool
}

func (pm *persisterMock) SaveSnapshot(ctx context.Context, snap gamestate.Snapshot) error {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	if pm.fail {
		return errors.New("remote store unavailable")
	}
	pm.saved = append(pm.saved, snap)
	return nil
}

func (pm *persisterMock) count() int {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	return len(pm.saved)
}

func readyStore(t *testing.T, pm *persisterMock) *gamestate.Store {
	t.Helper()
	store := gamestate.NewStore(pm, nil)
	uid := uuid.New()
	store.BeginSync(uid)
	assert.Equal(t, gamestate.PhaseSyncing, store.Phase())
	store.Reconcile(gamestate.NewSnapshot(uid, noon))
	require.Equal(t, gamestate.PhaseReady, store.Phase())
	return store
}

func TestLogWorkoutEndToEnd(t *testing.T) {
	// Streak 2 with a workout yesterday, lift_10000_kg already at 7000.
	// A 4000 kg workout must: bump streak to 3, complete the mission,
	// grant 150 XP with a 30 XP streak bonus.
	pm := &persisterMock{}
	store := gamestate.NewStore(pm, nil)
	uid := uuid.New()
	store.BeginSync(uid)

	yesterday := noon.AddDate(0, 0, -1)
	snap := gamestate.NewSnapshot(uid, noon)
	snap.Streak = gamestate.StreakState{Current: 2, LastWorkout: &yesterday}
	p := snap.Missions.Progress[gamestate.MissionLiftTenThousandKg]
	p.Current = 7000
	snap.Missions.Progress[gamestate.MissionLiftTenThousandKg] = p
	// The streak mission was already completed earlier this week, so only
	// the lift mission fires below.
	snap.Missions.Progress[gamestate.MissionStreakThreeDays] = gamestate.MissionProgress{Current: 3, Completed: true}
	store.Reconcile(snap)

	result, ok := store.LogWorkout(gamestate.WorkoutEvent{Volume: 4000, Date: noon})
	require.True(t, ok)
	assert.Equal(t, 3, result.NewStreak)
	require.Len(t, result.NewlyCompleted, 1)
	assert.Equal(t, gamestate.MissionLiftTenThousandKg, result.NewlyCompleted[0].ID)
	require.Len(t, result.Grants, 1)
	assert.Equal(t, 150, result.Grants[0].Base)
	assert.Equal(t, 30, result.Grants[0].Bonus)
	assert.Equal(t, 180, result.XP)

	after := store.Snapshot()
	assert.Equal(t, float64(11000), after.Missions.Progress[gamestate.MissionLiftTenThousandKg].Current)
	assert.True(t, after.Missions.Progress[gamestate.MissionLiftTenThousandKg].Completed)

	store.Wait()
	assert.Equal(t, 1, pm.count())
}

func TestStoreMutatorsBeforeReady(t *testing.T) {
	// Missing precondition policy: everything is a silent no-op until the
	// remote record has been observed.
	store := gamestate.NewStore(&persisterMock{}, nil)
	store.BeginSync(uuid.New())

	_, ok := store.LogWorkout(gamestate.WorkoutEvent{Volume: 100, Date: noon})
	assert.False(t, ok)
	_, ok = store.GrantXP(50, "manual")
	assert.False(t, ok)
	_, ok = store.AddDiamonds(5)
	assert.False(t, ok)
	_, ok = store.Missions(noon)
	assert.False(t, ok)
}

func TestAnonymousStoreNeverWrites(t *testing.T) {
	store := gamestate.NewAnonymousStore()
	assert.Equal(t, gamestate.PhaseAnonymous, store.Phase())
	_, ok := store.GrantXP(100, "")
	assert.False(t, ok)
}

func TestPersistFailureKeepsLocalState(t *testing.T) {
	pm := &persisterMock{fail: true}
	store := readyStore(t, pm)

	grant, ok := store.GrantXP(100, "ad reward")
	require.True(t, ok)
	assert.Equal(t, 100, grant.Total)
	store.Wait()

	// Write failed, optimistic local state stands.
	assert.Equal(t, 100, store.Snapshot().Ledger.XP)
	assert.Zero(t, pm.count())
}

func TestMissionsLazyWeeklyReset(t *testing.T) {
	pm := &persisterMock{}
	store := readyStore(t, pm)

	_, ok := store.LogWorkout(gamestate.WorkoutEvent{Volume: 2000, Date: noon})
	require.True(t, ok)

	nextWeek := noon.AddDate(0, 0, 7)
	wm, ok := store.Missions(nextWeek)
	require.True(t, ok)
	assert.Equal(t, gamestate.WeekStart(nextWeek), wm.WeekStart)
	assert.Zero(t, wm.Progress[gamestate.MissionLiftTenThousandKg].Current)
	store.Wait()
}

func TestReconcileDeletedReseedsDefaults(t *testing.T) {
	pm := &persisterMock{}
	store := readyStore(t, pm)
	_, ok := store.GrantXP(500, "")
	require.True(t, ok)

	store.ReconcileDeleted(noon)
	store.Wait()

	snap := store.Snapshot()
	assert.Zero(t, snap.Ledger.XP)
	assert.Zero(t, snap.Streak.Current)
	assert.Equal(t, gamestate.PhaseReady, store.Phase())
}

func TestSnapshotIsACopy(t *testing.T) {
	store := readyStore(t, &persisterMock{})
	snap := store.Snapshot()
	p := snap.Missions.Progress[gamestate.MissionCompleteFiveWorkouts]
	p.Current = 999
	snap.Missions.Progress[gamestate.MissionCompleteFiveWorkouts] = p

	fresh := store.Snapshot()
	assert.Zero(t, fresh.Missions.Progress[gamestate.MissionCompleteFiveWorkouts].Current)
}

func TestSameDayDoubleLogKeepsStreak(t *testing.T) {
	store := readyStore(t, &persisterMock{})
	first, ok := store.LogWorkout(gamestate.WorkoutEvent{Volume: 1000, Date: noon})
	require.True(t, ok)
	second, ok := store.LogWorkout(gamestate.WorkoutEvent{Volume: 1000, Date: noon.Add(2 * time.Hour)})
	require.True(t, ok)
	assert.Equal(t, first.NewStreak, second.NewStreak)
	store.Wait()
}
