package gamification

import "github.com/nutrisync/backend/internal/types"

// Achievement is one entry of the fixed rule set. Condition is evaluated
// against the live daily goals and the day's activity count.
type Achievement struct {
	ID          string
	Title       string
	Description string
	Condition   func(goals types.DailyGoals, activityCount int) bool
}

func metTarget(goals types.DailyGoals, key string) bool {
	p := goals.Nutrients[key]
	return p.Target > 0 && p.Current >= p.Target
}

// Achievements is the ordered rule set. Order is stable so unlock
// evaluation is deterministic.
var Achievements = []Achievement{
	{
		ID:          "first_meal",
		Title:       "First Bite",
		Description: "Log your first meal",
		Condition: func(g types.DailyGoals, _ int) bool {
			return g.Nutrients[types.NutrientCalories].Current > 0
		},
	},
	{
		ID:          "hydration_hero",
		Title:       "Hydration Hero",
		Description: "Reach your daily water target",
		Condition: func(g types.DailyGoals, _ int) bool {
			return metTarget(g, types.NutrientWater)
		},
	},
	{
		ID:          "protein_pro",
		Title:       "Protein Pro",
		Description: "Reach your daily protein target",
		Condition: func(g types.DailyGoals, _ int) bool {
			return metTarget(g, types.NutrientProtein)
		},
	},
	{
		ID:          "balanced_day",
		Title:       "Balanced Day",
		Description: "Hit protein, carb and fat targets in one day",
		Condition: func(g types.DailyGoals, _ int) bool {
			return metTarget(g, types.NutrientProtein) &&
				metTarget(g, types.NutrientCarbs) &&
				metTarget(g, types.NutrientFat)
		},
	},
	{
		ID:          "supplement_taken",
		Title:       "Covered",
		Description: "Take your supplement",
		Condition: func(g types.DailyGoals, _ int) bool {
			return g.SupplementTaken
		},
	},
	{
		ID:          "first_workout",
		Title:       "Warmed Up",
		Description: "Log an activity",
		Condition: func(_ types.DailyGoals, activityCount int) bool {
			return activityCount >= 1
		},
	},
	{
		ID:          "triple_session",
		Title:       "On a Roll",
		Description: "Log three activities in one day",
		Condition: func(_ types.DailyGoals, activityCount int) bool {
			return activityCount >= 3
		},
	},
}
