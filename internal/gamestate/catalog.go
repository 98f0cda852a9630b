package gamestate

// Metric names the quantity a weekly mission accumulates.
type Metric string

const (
	MetricWorkoutsCompleted Metric = "workouts_completed"
	MetricTotalVolume       Metric = "total_volume"
	MetricStreak            Metric = "streak"
)

type MissionID string

const (
	MissionCompleteFiveWorkouts  MissionID = "complete_5_workouts"
	MissionLiftTenThousandKg     MissionID = "lift_10000_kg"
	MissionStreakThreeDays       MissionID = "streak_3_days"
	MissionCompleteSevenWorkouts MissionID = "complete_7_workouts"
)

// Mission is a catalog entry. The catalog is fixed at build time.
type Mission struct {
	ID       MissionID `json:"id"`
	Title    string    `json:"title"`
	Metric   Metric    `json:"metric"`
	Goal     float64   `json:"goal"`
	XPReward int       `json:"xp_reward"`
}

// Catalog lists every weekly mission. Order is stable, it defines the order
// missions are evaluated and rendered in.
var Catalog = []Mission{
	{ID: MissionCompleteFiveWorkouts, Title: "Complete 5 workouts", Metric: MetricWorkoutsCompleted, Goal: 5, XPReward: 100},
	{ID: MissionLiftTenThousandKg, Title: "Lift 10 000 kg", Metric: MetricTotalVolume, Goal: 10000, XPReward: 150},
	{ID: MissionStreakThreeDays, Title: "Hold a 3 day streak", Metric: MetricStreak, Goal: 3, XPReward: 120},
	{ID: MissionCompleteSevenWorkouts, Title: "Complete 7 workouts", Metric: MetricWorkoutsCompleted, Goal: 7, XPReward: 200},
}

func FindMission(id MissionID) (Mission, bool) {
	for _, m := range Catalog {
		if m.ID == id {
			return m, true
		}
	}
	return Mission{}, false
}
