package state

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrisync/backend/internal/store"
	"github.com/nutrisync/backend/internal/types"
)

// fakeClock is an injectable, advanceable wall clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{now: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// recordingPusher counts MarkDirty notifications.
type recordingPusher struct {
	mu    sync.Mutex
	count int
}

func (p *recordingPusher) MarkDirty() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.count++
}

func (p *recordingPusher) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.count
}

var testDay = time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)

func newTestSession(t *testing.T) (*Session, store.Backend, *fakeClock, *recordingPusher) {
	t.Helper()
	backend := store.NewMemoryBackend()
	clock := newFakeClock(testDay)
	pusher := &recordingPusher{}
	sess := NewSession("user-1", store.New(backend, "user-1"),
		WithClock(clock.Now), WithPusher(pusher))
	return sess, backend, clock, pusher
}

func reopenSession(backend store.Backend, clock *fakeClock) *Session {
	return NewSession("user-1", store.New(backend, "user-1"), WithClock(clock.Now))
}

func TestLogMealAppliesAnalysis(t *testing.T) {
	sess, _, _, pusher := newTestSession(t)

	sess.LogMeal(types.MealAnalysis{
		Calories: 650,
		Macros:   types.MacroBreakdown{Protein: 40, Carbs: 70, Fat: 20},
		Micros: map[string]float64{
			types.NutrientIron: 4,
			"unknownNutrient":  99,
		},
		IdentifiedFoods: []string{"chicken breast", "rice"},
	})

	goals := sess.DailyGoals()
	assert.Equal(t, 650.0, goals.Nutrients[types.NutrientCalories].Current)
	assert.Equal(t, 40.0, goals.Nutrients[types.NutrientProtein].Current)
	assert.Equal(t, 70.0, goals.Nutrients[types.NutrientCarbs].Current)
	assert.Equal(t, 20.0, goals.Nutrients[types.NutrientFat].Current)
	assert.Equal(t, 4.0, goals.Nutrients[types.NutrientIron].Current)
	// Unknown analyzer keys never grow the tracked set.
	_, ok := goals.Nutrients["unknownNutrient"]
	assert.False(t, ok)

	history := sess.CalorieHistory()
	require.Len(t, history, 1)
	assert.Equal(t, "2026-08-28", history[0].Date)
	assert.Equal(t, 650.0, history[0].Kcal)

	assert.Equal(t, []string{"Chicken Breast", "Rice"}, sess.FrequentFoods())
	assert.Positive(t, pusher.Count())
}

func TestLogMealAccumulatesSameDay(t *testing.T) {
	sess, _, _, _ := newTestSession(t)

	sess.LogMeal(types.MealAnalysis{Calories: 400})
	sess.LogMeal(types.MealAnalysis{Calories: 300})

	history := sess.CalorieHistory()
	require.Len(t, history, 1)
	assert.Equal(t, 700.0, history[0].Kcal)
}

func TestFrequentFoodsMostRecentDistinct(t *testing.T) {
	sess, _, _, _ := newTestSession(t)

	sess.LogMeal(types.MealAnalysis{IdentifiedFoods: []string{"eggs", "toast", "avocado"}})
	sess.LogMeal(types.MealAnalysis{IdentifiedFoods: []string{"EGGS", "salmon", "rice", "beans"}})

	foods := sess.FrequentFoods()
	assert.Equal(t, []string{"Eggs", "Salmon", "Rice", "Beans", "Toast"}, foods)
	assert.LessOrEqual(t, len(foods), 5)
}

func TestStatePersistsAcrossSessions(t *testing.T) {
	sess, backend, clock, _ := newTestSession(t)

	sess.LogWater(500)
	sess.SetAssistantName("Coach")

	reopened := reopenSession(backend, clock)
	assert.Equal(t, 500.0, reopened.DailyGoals().Nutrients[types.NutrientWater].Current)
	assert.Equal(t, "Coach", reopened.AssistantName())
}

func TestRolloverOnReopenAcrossMidnight(t *testing.T) {
	sess, backend, clock, _ := newTestSession(t)

	sess.LogMeal(types.MealAnalysis{Calories: 900})
	sess.LogActivity("run", 30, 250)

	clock.Advance(24 * time.Hour)
	reopened := reopenSession(backend, clock)

	goals := reopened.DailyGoals()
	assert.Equal(t, 0.0, goals.Nutrients[types.NutrientCalories].Current)
	assert.Empty(t, reopened.ActivityLog())

	history := reopened.GoalsHistory()
	require.Len(t, history, 1)
	assert.Equal(t, "2026-08-28", history[0].Date)
	assert.Equal(t, 900.0, history[0].Goals.Nutrients[types.NutrientCalories].Current)
}

func TestRolloverIdempotentOnSecondReopen(t *testing.T) {
	sess, backend, clock, _ := newTestSession(t)
	sess.LogMeal(types.MealAnalysis{Calories: 900})

	clock.Advance(24 * time.Hour)
	reopenSession(backend, clock)
	reopened := reopenSession(backend, clock)

	assert.Len(t, reopened.GoalsHistory(), 1)
}

func TestRolloverSkipsEmptyDay(t *testing.T) {
	sess, backend, clock, _ := newTestSession(t)
	// Persist a dated goals envelope without any intake.
	sess.SetSupplementTaken(false)

	clock.Advance(24 * time.Hour)
	reopened := reopenSession(backend, clock)

	assert.Empty(t, reopened.GoalsHistory())
}

func TestSupplementXPOnlyOnFirstTake(t *testing.T) {
	sess, _, _, _ := newTestSession(t)

	sess.SetSupplementTaken(true)
	xpAfterFirst := sess.Gamification().XP
	assert.Equal(t, 20, xpAfterFirst)

	sess.SetSupplementTaken(true)
	sess.SetSupplementTaken(false)
	sess.SetSupplementTaken(true)
	assert.Equal(t, xpAfterFirst+20, sess.Gamification().XP)
}

func TestGamificationDisabledAwardsNothing(t *testing.T) {
	sess, _, _, _ := newTestSession(t)
	sess.UpdatePreferences(types.Preferences{ShowGamification: false, ShowChallenges: true})

	sess.LogWater(500)
	sess.LogMeal(types.MealAnalysis{Calories: 300})

	state := sess.Gamification()
	assert.Equal(t, 0, state.XP)
	assert.Empty(t, state.Unlocked)
}

func TestLogWeightRecalculatesGoals(t *testing.T) {
	sess, _, _, _ := newTestSession(t)
	before := sess.DailyGoals().Nutrients[types.NutrientWater].Target

	sess.LogWeight(80)

	profile := sess.Profile()
	assert.Equal(t, 80.0, profile.WeightKg)
	assert.InDelta(t, 80.0/(1.7*1.7), profile.BMI, 0.01)

	after := sess.DailyGoals().Nutrients[types.NutrientWater].Target
	assert.NotEqual(t, before, after)
	assert.Equal(t, 2800.0, after)

	history := sess.WeightHistory()
	require.Len(t, history, 1)
	assert.Equal(t, 80.0, history[0].WeightKg)
}

func TestLogWeightUpsertsSameDay(t *testing.T) {
	sess, _, _, _ := newTestSession(t)

	sess.LogWeight(80)
	sess.LogWeight(79.5)

	history := sess.WeightHistory()
	require.Len(t, history, 1)
	assert.Equal(t, 79.5, history[0].WeightKg)
}

func TestFastingLifecycle(t *testing.T) {
	sess, _, clock, _ := newTestSession(t)

	require.NoError(t, sess.StartFasting(16, "16:8"))
	assert.ErrorIs(t, sess.StartFasting(16, "16:8"), ErrAlreadyFasting)

	xpAfterStart := sess.Gamification().XP

	clock.Advance(17 * time.Hour)
	completed, err := sess.StopFasting()
	require.NoError(t, err)
	assert.True(t, completed)
	// Completion bonus on top of the start award.
	assert.Equal(t, xpAfterStart+100, sess.Gamification().XP)

	state := sess.Fasting()
	assert.False(t, state.IsFasting)
	assert.Nil(t, state.StartTime)
	assert.Equal(t, "16:8", state.Protocol)

	_, err = sess.StopFasting()
	assert.ErrorIs(t, err, ErrNotFasting)
}

func TestFastingStoppedEarlyNotCompleted(t *testing.T) {
	sess, _, clock, _ := newTestSession(t)

	require.NoError(t, sess.StartFasting(16, "16:8"))
	xpAfterStart := sess.Gamification().XP

	clock.Advance(3 * time.Hour)
	completed, err := sess.StopFasting()
	require.NoError(t, err)
	assert.False(t, completed)
	assert.Equal(t, xpAfterStart, sess.Gamification().XP)
}

func TestPlanLifecycle(t *testing.T) {
	sess, _, _, _ := newTestSession(t)

	_, err := sess.SaveCurrentPlan()
	assert.ErrorIs(t, err, ErrNoPlan)

	plan := types.WeeklyPlan{Days: make([]types.DayPlan, 7)}
	for i := range plan.Days {
		plan.Days[i].Day = types.WeekDays[i]
	}
	sess.SetGeneratedPlan(plan)

	saved, err := sess.SaveCurrentPlan()
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Len(t, sess.SavedPlans(), 1)

	meal := types.Meal{Name: "Omelette", Calories: 420}
	require.NoError(t, sess.ReplacePlanMeal(2, types.MealSlotLunch, meal))
	assert.Equal(t, "Omelette", sess.LastPlan().Days[2].Lunch.Name)

	assert.ErrorIs(t, sess.ReplacePlanMeal(9, types.MealSlotLunch, meal), ErrBadPlanSlot)
	assert.ErrorIs(t, sess.ReplacePlanMeal(0, "brunch", meal), ErrBadPlanSlot)
}

func TestRecipeIDsSequential(t *testing.T) {
	sess, _, _, _ := newTestSession(t)

	r1 := sess.AddRecipe(types.Recipe{Name: "Salad"})
	r2 := sess.AddRecipe(types.Recipe{Name: "Soup"})
	r3 := sess.AddRecipe(types.Recipe{Name: "Stew"})

	assert.Equal(t, 1, r1.ID)
	assert.Equal(t, 2, r2.ID)
	assert.Equal(t, 3, r3.ID)
}

func TestSaveRecipe(t *testing.T) {
	sess, _, _, _ := newTestSession(t)
	r := sess.AddRecipe(types.Recipe{Name: "Salad"})

	require.NoError(t, sess.SaveRecipe(r.ID))
	require.NoError(t, sess.SaveRecipe(r.ID)) // idempotent
	assert.Len(t, sess.SavedRecipes(), 1)

	assert.ErrorIs(t, sess.SaveRecipe(999), ErrRecipeNotFound)
}

func TestVisibleRecipesRotation(t *testing.T) {
	sess, _, _, _ := newTestSession(t)
	for i := 0; i < 8; i++ {
		sess.AddRecipe(types.Recipe{Name: "R"})
	}

	// ISO week of 2026-08-28 is 35: ids where (id+35)%4==0 are hidden,
	// i.e. ids 1 and 5.
	now := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	_, week := now.ISOWeek()
	require.Equal(t, 35, week)

	visible := sess.VisibleRecipes(now)
	ids := make([]int, 0, len(visible))
	for _, r := range visible {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []int{2, 3, 4, 6, 7, 8}, ids)

	// The following week hides a different slice of the collection.
	nextWeek := sess.VisibleRecipes(now.AddDate(0, 0, 7))
	assert.NotEqual(t, len(visible), 0)
	nextIDs := make([]int, 0, len(nextWeek))
	for _, r := range nextWeek {
		nextIDs = append(nextIDs, r.ID)
	}
	assert.NotEqual(t, ids, nextIDs)
}

func TestChallengeLifecycle(t *testing.T) {
	sess, _, clock, _ := newTestSession(t)

	challenge := sess.StartChallenge()
	assert.True(t, challenge.IsActive)
	assert.Equal(t, "2026-08-28", challenge.StartDate)
	require.Len(t, challenge.Tasks, 30)

	task, err := sess.CompleteChallengeTask()
	require.NoError(t, err)
	assert.Equal(t, 1, task.Day)
	assert.True(t, task.Completed)

	_, err = sess.CompleteChallengeTask()
	assert.ErrorIs(t, err, ErrTaskDone)

	// Next day unlocks the next task.
	clock.Advance(24 * time.Hour)
	task, err = sess.CompleteChallengeTask()
	require.NoError(t, err)
	assert.Equal(t, 2, task.Day)

	sess.AbandonChallenge()
	assert.False(t, sess.Challenge().IsActive)
	_, err = sess.CompleteChallengeTask()
	assert.ErrorIs(t, err, ErrNoChallenge)
}

func TestChallengeDisabledByPreference(t *testing.T) {
	sess, _, _, _ := newTestSession(t)
	sess.UpdatePreferences(types.Preferences{ShowGamification: true, ShowChallenges: false})

	challenge := sess.StartChallenge()
	assert.False(t, challenge.IsActive)
}

func TestShoppingListToggle(t *testing.T) {
	sess, _, _, _ := newTestSession(t)

	list := sess.SetShoppingList([]types.ShoppingItem{
		{Name: "Oats", Quantity: "500g"},
		{Name: "Milk", Quantity: "1l"},
	})
	require.Len(t, list.Items, 2)

	require.NoError(t, sess.ToggleShoppingItem(1))
	assert.True(t, sess.ShoppingList().Items[1].Checked)
	require.NoError(t, sess.ToggleShoppingItem(1))
	assert.False(t, sess.ShoppingList().Items[1].Checked)

	assert.ErrorIs(t, sess.ToggleShoppingItem(5), ErrBadItemIndex)
}

func TestSnapshotExcludesFrequentFoods(t *testing.T) {
	sess, _, _, _ := newTestSession(t)
	sess.LogMeal(types.MealAnalysis{Calories: 100, IdentifiedFoods: []string{"eggs"}})

	doc := sess.Snapshot()
	require.NotNil(t, doc)
	require.NotNil(t, doc.CalorieHistory)
	assert.NotEmpty(t, sess.FrequentFoods())
	// frequentFoods is local-only and never leaves the device.
}

func TestApplyCloudDocumentOverwritesPresentKeys(t *testing.T) {
	sess, backend, clock, _ := newTestSession(t)
	sess.SetAssistantName("LocalName")
	sess.LogWater(250)

	name := "CloudName"
	goals := types.DefaultDailyGoals()
	p := goals.Nutrients[types.NutrientCalories]
	p.Current = 1234
	goals.Nutrients[types.NutrientCalories] = p

	sess.ApplyCloudDocument(&types.CloudDocument{
		AssistantName: &name,
		Goals:         &goals,
	})

	// Present keys are overwritten wholesale.
	assert.Equal(t, "CloudName", sess.AssistantName())
	assert.Equal(t, 1234.0, sess.DailyGoals().Nutrients[types.NutrientCalories].Current)
	// Water progress came from the overwriting document, not local state.
	assert.Equal(t, 0.0, sess.DailyGoals().Nutrients[types.NutrientWater].Current)

	// The overwrite was persisted.
	reopened := reopenSession(backend, clock)
	assert.Equal(t, "CloudName", reopened.AssistantName())
}

func TestApplyCloudDocumentNilAndEmpty(t *testing.T) {
	sess, _, _, _ := newTestSession(t)
	sess.SetAssistantName("Keeper")

	sess.ApplyCloudDocument(nil)
	sess.ApplyCloudDocument(&types.CloudDocument{})

	// Absent keys leave local state untouched.
	assert.Equal(t, "Keeper", sess.AssistantName())
}

func TestSnapshotApplyRoundTrip(t *testing.T) {
	sess, _, _, _ := newTestSession(t)
	sess.LogMeal(types.MealAnalysis{Calories: 500})
	sess.SetAssistantName("Nova")
	require.NoError(t, sess.StartFasting(14, "14:10"))

	doc := sess.Snapshot()

	other := NewSession("user-2", store.New(store.NewMemoryBackend(), "user-2"),
		WithClock(newFakeClock(testDay).Now))
	other.ApplyCloudDocument(doc)

	assert.Equal(t, "Nova", other.AssistantName())
	assert.Equal(t, 500.0, other.DailyGoals().Nutrients[types.NutrientCalories].Current)
	assert.True(t, other.Fasting().IsFasting)
}
