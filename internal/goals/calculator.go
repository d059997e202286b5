// Package goals derives daily macro and water targets from a user profile
// using Mifflin-St Jeor BMR and objective-based macro splits.
package goals

import (
	"math"

	"github.com/nutrisync/backend/internal/types"
)

// activityMultipliers maps activity levels to their TDEE multiplier.
var activityMultipliers = map[types.ActivityLevel]float64{
	types.ActivitySedentary:  1.2,
	types.ActivityLight:      1.375,
	types.ActivityModerate:   1.55,
	types.ActivityActive:     1.725,
	types.ActivityVeryActive: 1.9,
}

// minCalories is the floor applied to the daily calorie target.
const minCalories = 1200

// macroSplit holds the protein/carb/fat share of total calories.
type macroSplit struct {
	protein, carbs, fat float64
}

// objectiveSplits maps each objective to its macro ratio.
var objectiveSplits = map[types.Objective]macroSplit{
	types.ObjectiveMaintain:   {0.30, 0.40, 0.30},
	types.ObjectiveGainMuscle: {0.30, 0.50, 0.20},
	types.ObjectiveLoseWeight: {0.40, 0.30, 0.30},
}

// BMR computes the basal metabolic rate (Mifflin-St Jeor).
func BMR(weightKg, heightCm float64, age int, gender types.Gender) float64 {
	bmr := 10*weightKg + 6.25*heightCm - 5*float64(age)
	if gender == types.GenderMale {
		return bmr + 5
	}
	return bmr - 161
}

// TDEE scales BMR by the profile's activity multiplier. Unrecognized
// levels fall back to sedentary.
func TDEE(bmr float64, level types.ActivityLevel) float64 {
	mult, ok := activityMultipliers[level]
	if !ok {
		mult = 1.2
	}
	return bmr * mult
}

// Compute returns a new goal set whose calorie/macro/water targets are
// derived from the profile. Every current value, the supplement flag, and
// all other nutrient targets are carried over from prev unchanged.
func Compute(profile types.UserProfile, prev types.DailyGoals) types.DailyGoals {
	out := prev.Clone()
	if out.Nutrients == nil {
		out = types.DefaultDailyGoals()
		out.SupplementTaken = prev.SupplementTaken
	}

	tdee := TDEE(BMR(profile.WeightKg, profile.HeightCm, profile.Age, profile.Gender), profile.ActivityLevel)

	calories := tdee
	switch profile.Objective {
	case types.ObjectiveLoseWeight:
		calories -= 500
	case types.ObjectiveGainMuscle:
		calories += 300
	}
	if calories < minCalories {
		calories = minCalories
	}

	split, ok := objectiveSplits[profile.Objective]
	if !ok {
		split = objectiveSplits[types.ObjectiveMaintain]
	}

	setTarget(&out, types.NutrientCalories, math.Round(calories))
	// 4 kcal/g protein and carbs, 9 kcal/g fat.
	setTarget(&out, types.NutrientProtein, math.Round(calories*split.protein/4))
	setTarget(&out, types.NutrientCarbs, math.Round(calories*split.carbs/4))
	setTarget(&out, types.NutrientFat, math.Round(calories*split.fat/9))
	setTarget(&out, types.NutrientWater, math.Round(profile.WeightKg*35))

	return out
}

func setTarget(g *types.DailyGoals, key string, target float64) {
	p := g.Nutrients[key]
	p.Target = target
	g.Nutrients[key] = p
}
