package state

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nutrisync/backend/internal/gamification"
	"github.com/nutrisync/backend/internal/goals"
	"github.com/nutrisync/backend/internal/store"
	"github.com/nutrisync/backend/internal/types"
)

var (
	ErrAlreadyFasting  = errors.New("a fast is already running")
	ErrNotFasting      = errors.New("no fast is running")
	ErrNoPlan          = errors.New("no generated plan to modify")
	ErrBadPlanSlot     = errors.New("unknown plan day or meal slot")
	ErrNoChallenge     = errors.New("no active challenge task for today")
	ErrTaskDone        = errors.New("today's challenge task is already completed")
	ErrBadItemIndex    = errors.New("shopping item index out of range")
	ErrRecipeNotFound  = errors.New("recipe not found")
)

// maxFrequentFoods caps the most-recent-distinct foods list.
const maxFrequentFoods = 5

var foodTitler = cases.Title(language.English)

// award adds XP for an action and persists gamification state. No-op when
// the gamification preference is disabled. Caller holds the lock.
func (s *Session) award(action gamification.Action) {
	if !s.prefs.ShowGamification {
		return
	}
	gamification.AddXP(&s.gamification, gamification.XPFor(action))
	s.save(store.KeyGamification, s.gamification)
}

// checkAchievements evaluates the rule set after goal or activity
// changes. Caller holds the lock.
func (s *Session) checkAchievements() {
	if !s.prefs.ShowGamification {
		return
	}
	if unlocked := gamification.CheckAchievements(&s.gamification, s.dailyGoals, len(s.activityLog), s.now()); len(unlocked) > 0 {
		s.save(store.KeyGamification, s.gamification)
	}
}

// LogMeal applies an analyzed meal: every macro/micro current is increased
// by the meal's value, today's calorie record accumulates the kcal, and
// the meal's identified foods are merged into the frequent-foods list.
func (s *Session) LogMeal(analysis types.MealAnalysis) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dailyGoals.Add(types.NutrientCalories, analysis.Calories)
	s.dailyGoals.Add(types.NutrientProtein, analysis.Macros.Protein)
	s.dailyGoals.Add(types.NutrientCarbs, analysis.Macros.Carbs)
	s.dailyGoals.Add(types.NutrientFat, analysis.Macros.Fat)
	for key, amount := range analysis.Micros {
		s.dailyGoals.Add(key, amount)
	}

	today := types.DateKey(s.now())
	s.calorieHistory = types.AddCalories(s.calorieHistory, today, analysis.Calories)
	s.frequentFoods = mergeFrequentFoods(s.frequentFoods, analysis.IdentifiedFoods)

	s.saveGoals()
	s.save(store.KeyCalorieHistory, s.calorieHistory)
	s.save(store.KeyFrequentFoods, s.frequentFoods)
	s.award(gamification.ActionLogMeal)
	s.checkAchievements()
	s.notify()
}

// mergeFrequentFoods prepends newly identified foods, most recent first,
// deduplicated case-insensitively and capped at maxFrequentFoods.
func mergeFrequentFoods(existing []string, identified []string) []string {
	merged := make([]string, 0, maxFrequentFoods)
	seen := make(map[string]bool)

	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" || len(merged) >= maxFrequentFoods {
			return
		}
		key := strings.ToLower(name)
		if seen[key] {
			return
		}
		seen[key] = true
		merged = append(merged, foodTitler.String(name))
	}

	for _, name := range identified {
		add(name)
	}
	for _, name := range existing {
		add(name)
	}
	return merged
}

// LogWater adds milliliters to the water counter.
func (s *Session) LogWater(ml float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dailyGoals.Add(types.NutrientWater, ml)
	s.saveGoals()
	s.award(gamification.ActionLogWater)
	s.checkAchievements()
	s.notify()
}

// SetSupplementTaken toggles today's supplement flag. XP is awarded only
// on the off-to-on transition.
func (s *Session) SetSupplementTaken(taken bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if taken && !s.dailyGoals.SupplementTaken {
		s.award(gamification.ActionTakeSupplement)
	}
	s.dailyGoals.SupplementTaken = taken
	s.saveGoals()
	s.checkAchievements()
	s.notify()
}

// LogActivity appends an exercise entry to the daily activity log.
func (s *Session) LogActivity(name string, durationMin int, caloriesBurned float64) types.ActivityEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := types.ActivityEntry{
		ID:             uuid.New().String(),
		Name:           name,
		DurationMin:    durationMin,
		CaloriesBurned: caloriesBurned,
		LoggedAt:       s.now(),
	}
	s.activityLog = append(s.activityLog, entry)
	s.save(store.KeyActivityLog, s.activityLog)
	s.award(gamification.ActionLogActivity)
	s.checkAchievements()
	s.notify()
	return entry
}

// LogMood upserts today's mood record.
func (s *Session) LogMood(mood string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.moodHistory = types.UpsertMood(s.moodHistory, types.DateKey(s.now()), mood)
	s.save(store.KeyMoodHistory, s.moodHistory)
	s.award(gamification.ActionLogMood)
	s.notify()
}

// LogWeight upserts today's weight record, updates the profile weight and
// recalculates the derived goal targets.
func (s *Session) LogWeight(kg float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.weightHistory = types.UpsertWeight(s.weightHistory, types.DateKey(s.now()), kg)
	s.profile.WeightKg = kg
	s.profile.RecalculateBMI()
	s.dailyGoals = goals.Compute(s.profile, s.dailyGoals)

	s.save(store.KeyWeightHistory, s.weightHistory)
	s.save(store.KeyUserProfile, s.profile)
	s.saveGoals()
	s.award(gamification.ActionLogWeight)
	s.notify()
}

// LogSleep upserts today's sleep record.
func (s *Session) LogSleep(hours float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sleepHistory = types.UpsertSleep(s.sleepHistory, types.DateKey(s.now()), hours)
	s.save(store.KeySleepHistory, s.sleepHistory)
	s.notify()
}

// UpdateProfile replaces the profile and recalculates goal targets.
func (s *Session) UpdateProfile(p types.UserProfile) types.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.BackfillDefaults()
	p.RecalculateBMI()
	s.profile = p
	s.dailyGoals = goals.Compute(s.profile, s.dailyGoals)

	s.save(store.KeyUserProfile, s.profile)
	s.saveGoals()
	s.notify()
	return s.profile
}

// UpdatePreferences replaces the feature toggles.
func (s *Session) UpdatePreferences(p types.Preferences) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prefs = p
	s.save(store.KeyPreferences, s.prefs)
	s.notify()
}

// SetAssistantName renames the chat assistant persona.
func (s *Session) SetAssistantName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		name = types.DefaultAssistantName
	}
	s.assistantName = name
	s.save(store.KeyAssistantName, s.assistantName)
	s.notify()
}

// AppendChat records one conversation turn.
func (s *Session) AppendChat(role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.chatHistory = append(s.chatHistory, types.ChatMessage{Role: role, Content: content, SentAt: s.now()})
	s.save(store.KeyChatHistory, s.chatHistory)
	s.notify()
}

// StartFasting transitions Idle -> Fasting.
func (s *Session) StartFasting(targetHours float64, protocol string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fasting.IsFasting {
		return ErrAlreadyFasting
	}
	start := s.now()
	s.fasting = types.FastingState{
		IsFasting:   true,
		StartTime:   &start,
		TargetHours: targetHours,
		Protocol:    protocol,
	}
	s.save(store.KeyFastingState, s.fasting)
	s.award(gamification.ActionStartFast)
	s.notify()
	return nil
}

// StopFasting transitions Fasting -> Idle. When the elapsed time met the
// target duration, the completion bonus is awarded. Protocol and target
// are retained for display of the last protocol.
func (s *Session) StopFasting() (completed bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.fasting.IsFasting || s.fasting.StartTime == nil {
		return false, ErrNotFasting
	}
	elapsed := s.now().Sub(*s.fasting.StartTime)
	completed = elapsed.Hours() >= s.fasting.TargetHours
	if completed {
		s.award(gamification.ActionCompleteFast)
	}
	s.fasting.IsFasting = false
	s.fasting.StartTime = nil
	s.save(store.KeyFastingState, s.fasting)
	s.notify()
	return completed, nil
}

// SetGeneratedPlan stores a freshly generated weekly plan as the current
// one and awards the generation XP.
func (s *Session) SetGeneratedPlan(plan types.WeeklyPlan) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastPlan = &plan
	s.save(store.KeyLastPlan, s.lastPlan)
	s.award(gamification.ActionGeneratePlan)
	s.notify()
}

// SaveCurrentPlan appends the current generated plan to the saved plans
// timeline.
func (s *Session) SaveCurrentPlan() (types.SavedPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastPlan == nil {
		return types.SavedPlan{}, ErrNoPlan
	}
	saved := types.SavedPlan{
		ID:        uuid.New().String(),
		CreatedAt: s.now(),
		Plan:      *s.lastPlan,
	}
	s.savedPlans = append(s.savedPlans, saved)
	s.save(store.KeySavedPlans, s.savedPlans)
	s.award(gamification.ActionSavePlan)
	s.notify()
	return saved, nil
}

// ReplacePlanMeal swaps one meal of the current generated plan.
func (s *Session) ReplacePlanMeal(dayIndex int, slot string, meal types.Meal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastPlan == nil {
		return ErrNoPlan
	}
	target := s.lastPlan.MealAt(dayIndex, slot)
	if target == nil {
		return ErrBadPlanSlot
	}
	*target = meal
	s.save(store.KeyLastPlan, s.lastPlan)
	s.notify()
	return nil
}

// AddRecipe appends an AI-generated recipe with the next sequential id.
func (s *Session) AddRecipe(r types.Recipe) types.Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()

	maxID := 0
	for _, existing := range s.recipes {
		if existing.ID > maxID {
			maxID = existing.ID
		}
	}
	r.ID = maxID + 1
	r.CreatedAt = s.now()
	s.recipes = append(s.recipes, r)
	s.save(store.KeyRecipes, s.recipes)
	s.award(gamification.ActionAddRecipe)
	s.notify()
	return r
}

// SaveRecipe copies a recipe from the collection into saved recipes.
// Saving twice is a no-op.
func (s *Session) SaveRecipe(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, saved := range s.savedRecipes {
		if saved.ID == id {
			return nil
		}
	}
	for _, r := range s.recipes {
		if r.ID == id {
			s.savedRecipes = append(s.savedRecipes, r)
			s.save(store.KeySavedRecipes, s.savedRecipes)
			s.notify()
			return nil
		}
	}
	return ErrRecipeNotFound
}

// StartChallenge activates the challenge starting today with a fresh task
// list. No-op when the challenge preference is disabled.
func (s *Session) StartChallenge() types.ChallengeState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.prefs.ShowChallenges {
		return s.challenge
	}
	s.challenge = types.ChallengeState{
		IsActive:  true,
		StartDate: types.DateKey(s.now()),
		Tasks:     DefaultChallengeTasks(),
	}
	s.save(store.KeyChallenge, s.challenge)
	s.notify()
	return s.challenge
}

// CompleteChallengeTask marks the current (clock-derived) task completed
// and awards XP. The challenge deactivates when every task is done.
func (s *Session) CompleteChallengeTask() (types.ChallengeTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.challenge.CurrentTaskIndex(s.now())
	if idx < 0 {
		return types.ChallengeTask{}, ErrNoChallenge
	}
	if s.challenge.Tasks[idx].Completed {
		return types.ChallengeTask{}, ErrTaskDone
	}
	s.challenge.Tasks[idx].Completed = true
	s.award(gamification.ActionCompleteTask)

	allDone := true
	for _, t := range s.challenge.Tasks {
		if !t.Completed {
			allDone = false
			break
		}
	}
	if allDone {
		s.challenge.IsActive = false
	}
	s.save(store.KeyChallenge, s.challenge)
	s.notify()
	return s.challenge.Tasks[idx], nil
}

// AbandonChallenge deactivates the running challenge, keeping completed
// task state for a later restart decision.
func (s *Session) AbandonChallenge() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.challenge.IsActive = false
	s.save(store.KeyChallenge, s.challenge)
	s.notify()
}

// SetShoppingList replaces the list with a freshly generated one.
func (s *Session) SetShoppingList(items []types.ShoppingItem) types.ShoppingList {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.shoppingList = types.ShoppingList{GeneratedAt: s.now(), Items: items}
	s.save(store.KeyShoppingList, s.shoppingList)
	s.notify()
	return s.shoppingList
}

// ToggleShoppingItem flips one item's checked flag in place. The list's
// generation timestamp is untouched.
func (s *Session) ToggleShoppingItem(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.shoppingList.Items) {
		return ErrBadItemIndex
	}
	s.shoppingList.Items[index].Checked = !s.shoppingList.Items[index].Checked
	s.save(store.KeyShoppingList, s.shoppingList)
	s.notify()
	return nil
}
