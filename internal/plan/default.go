package plan

import "time"

// DefaultName is the name of the compiled-in program.
const DefaultName = "Week One Plan"

var workoutItems = []ChecklistItem{
	{Key: "protein_shake", Label: "Morning protein shake", Category: CategoryHabit},
	{Key: "wall_pushups", Label: "Wall push-ups — 3 × 10", Category: CategoryWorkout},
	{Key: "bodyweight_squats", Label: "Bodyweight squats — 3 × 15", Category: CategoryWorkout},
	{Key: "band_rows", Label: "Resistance band rows — 3 × 12", Category: CategoryWorkout},
	{Key: "dead_bug", Label: "Dead bug — 3 × 8 per side", Category: CategoryWorkout},
}

var walkItems = []ChecklistItem{
	{Key: "protein_shake", Label: "Morning protein shake", Category: CategoryHabit},
	{Key: "walk", Label: "Go for a walk (any distance)", Category: CategoryWalk},
}

var restItems = []ChecklistItem{
	{Key: "protein_shake", Label: "Morning protein shake", Category: CategoryHabit},
}

// Default returns the compiled-in weekly program. Used whenever no active
// plan is stored remotely or the remote fetch fails.
func Default() WeeklyProgram {
	return WeeklyProgram{
		Name: DefaultName,
		Days: map[time.Weekday]DayProgram{
			time.Monday:    {Type: DayWorkout, Items: workoutItems},
			time.Tuesday:   {Type: DayWalk, Items: walkItems},
			time.Wednesday: {Type: DayWorkout, Items: workoutItems},
			time.Thursday:  {Type: DayWalk, Items: walkItems},
			time.Friday:    {Type: DayWorkout, Items: workoutItems},
			time.Saturday:  {Type: DayRest, Items: restItems},
			time.Sunday:    {Type: DayRest, Items: restItems},
		},
	}
}
