package gamestate

import "time"

// MissionProgress tracks one mission within the active week. Completed is
// monotonic: once set it stays set until the weekly reset.
type MissionProgress struct {
	Current   float64 `json:"current"`
	Completed bool    `json:"completed"`
}

// WeeklyMissions is the active weekly state: the Monday identifying the
// week plus a progress record for every catalog mission.
type WeeklyMissions struct {
	WeekStart time.Time                     `json:"week_start"`
	Progress  map[MissionID]MissionProgress `json:"progress"`
}

// NewWeeklyMissions returns a zeroed state over the full catalog for the
// week containing now.
func NewWeeklyMissions(now time.Time) WeeklyMissions {
	progress := make(map[MissionID]MissionProgress, len(Catalog))
	for _, m := range Catalog {
		progress[m.ID] = MissionProgress{}
	}
	return WeeklyMissions{WeekStart: WeekStart(now), Progress: progress}
}

// Stale reports whether wm belongs to an earlier week than now.
func (wm WeeklyMissions) Stale(now time.Time) bool {
	return !wm.WeekStart.Equal(WeekStart(now))
}

// WorkoutEvent is the slice of a completed workout the mission tracker
// cares about.
type WorkoutEvent struct {
	Volume float64
	Date   time.Time
}

// ApplyWorkout folds a completed workout into the weekly state and returns
// the missions that crossed their goal on this event. A stale state is
// replaced with a fresh one before the event is applied, so progress from a
// previous week never leaks in. Missions already completed are skipped
// entirely, which makes the reward side effect fire at most once per
// mission per week.
func ApplyWorkout(wm WeeklyMissions, event WorkoutEvent, newStreak int) (WeeklyMissions, []Mission) {
	if wm.Stale(event.Date) || len(wm.Progress) == 0 {
		wm = NewWeeklyMissions(event.Date)
	}

	var newlyCompleted []Mission
	for _, m := range Catalog {
		p := wm.Progress[m.ID]
		if p.Completed {
			continue
		}
		switch m.Metric {
		case MetricWorkoutsCompleted:
			p.Current++
		case MetricTotalVolume:
			p.Current += event.Volume
		case MetricStreak:
			// High-water mark, not a sum: the mission tracks the best
			// streak reached this week.
			if float64(newStreak) > p.Current {
				p.Current = float64(newStreak)
			}
		}
		if p.Current >= m.Goal {
			p.Completed = true
			newlyCompleted = append(newlyCompleted, m)
		}
		wm.Progress[m.ID] = p
	}
	return wm, newlyCompleted
}
