// Package gamification awards XP for user actions, derives the level from
// total XP, and evaluates the fixed achievement rule set. The engine is
// pure: preference gating and persistence belong to the caller.
package gamification

import (
	"math"
	"time"

	"github.com/nutrisync/backend/internal/types"
)

// Action identifies an XP-earning user action.
type Action string

const (
	ActionLogMeal           Action = "log_meal"
	ActionLogWater          Action = "log_water"
	ActionTakeSupplement    Action = "take_supplement"
	ActionLogActivity       Action = "log_activity"
	ActionLogMood           Action = "log_mood"
	ActionLogWeight         Action = "log_weight"
	ActionSavePlan          Action = "save_plan"
	ActionCompleteTask      Action = "complete_challenge_task"
	ActionGeneratePlan      Action = "generate_health_plan"
	ActionStartFast         Action = "start_fast"
	ActionCompleteFast      Action = "complete_fast"
	ActionAddRecipe         Action = "add_recipe"
)

// xpAwards is the fixed point value per action.
var xpAwards = map[Action]int{
	ActionLogMeal:        50,
	ActionLogWater:       10,
	ActionTakeSupplement: 20,
	ActionLogActivity:    50,
	ActionLogMood:        15,
	ActionLogWeight:      20,
	ActionSavePlan:       50,
	ActionCompleteTask:   50,
	ActionGeneratePlan:   100,
	ActionStartFast:      10,
	ActionCompleteFast:   100,
	ActionAddRecipe:      30,
}

// XPFor returns the award for an action, zero for unknown actions.
func XPFor(action Action) int {
	return xpAwards[action]
}

// Level derives the level from total XP: floor(1 + sqrt(xp/100)).
// Monotonic in xp; level 1 at 0 XP.
func Level(xp int) int {
	if xp < 0 {
		return 1
	}
	return int(math.Floor(1 + math.Sqrt(float64(xp)/100)))
}

// AddXP adds the amount and rederives the level. The level field is never
// advanced independently of XP.
func AddXP(state *types.GamificationState, amount int) {
	if amount <= 0 {
		return
	}
	state.XP += amount
	state.Level = Level(state.XP)
}

// CheckAchievements evaluates the rule set against the current goals and
// activity count, appending any newly satisfied achievements to the
// unlocked set. Already-unlocked ids are never re-evaluated. Returns the
// ids unlocked by this pass.
func CheckAchievements(state *types.GamificationState, goals types.DailyGoals, activityCount int, now time.Time) []string {
	var unlocked []string
	for _, a := range Achievements {
		if state.HasUnlocked(a.ID) {
			continue
		}
		if a.Condition(goals, activityCount) {
			state.Unlocked = append(state.Unlocked, types.UnlockedAchievement{ID: a.ID, UnlockedAt: now})
			unlocked = append(unlocked, a.ID)
		}
	}
	return unlocked
}
