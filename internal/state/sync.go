package state

import (
	"github.com/nutrisync/backend/internal/store"
	"github.com/nutrisync/backend/internal/types"
)

// Snapshot builds the full consolidated cloud document from every slice.
// Called by the sync outbox at send time.
func (s *Session) Snapshot() *types.CloudDocument {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile := s.profile
	goalsCopy := s.dailyGoals.Clone()
	prefs := s.prefs
	gamify := s.gamification
	gamify.Unlocked = append([]types.UnlockedAchievement(nil), s.gamification.Unlocked...)
	recipes := append([]types.Recipe(nil), s.recipes...)
	savedRecipes := append([]types.Recipe(nil), s.savedRecipes...)
	savedPlans := append([]types.SavedPlan(nil), s.savedPlans...)
	calorieHistory := append([]types.CalorieRecord(nil), s.calorieHistory...)
	goalsHistory := append([]types.GoalsHistoryItem(nil), s.goalsHistory...)
	fasting := s.fasting
	chatHistory := append([]types.ChatMessage(nil), s.chatHistory...)
	shopping := s.shoppingList
	shopping.Items = append([]types.ShoppingItem(nil), s.shoppingList.Items...)
	activityLog := append([]types.ActivityEntry(nil), s.activityLog...)
	assistantName := s.assistantName
	moodHistory := append([]types.MoodRecord(nil), s.moodHistory...)
	weightHistory := append([]types.WeightRecord(nil), s.weightHistory...)
	challenge := s.challenge
	challenge.Tasks = append([]types.ChallengeTask(nil), s.challenge.Tasks...)
	sleepHistory := append([]types.SleepRecord(nil), s.sleepHistory...)

	doc := &types.CloudDocument{
		Profile:        &profile,
		Goals:          &goalsCopy,
		Preferences:    &prefs,
		Gamification:   &gamify,
		Recipes:        &recipes,
		SavedRecipes:   &savedRecipes,
		SavedPlans:     &savedPlans,
		CalorieHistory: &calorieHistory,
		GoalsHistory:   &goalsHistory,
		FastingState:   &fasting,
		ChatHistory:    &chatHistory,
		ShoppingList:   &shopping,
		ActivityLog:    &activityLog,
		AssistantName:  &assistantName,
		MoodHistory:    &moodHistory,
		WeightHistory:  &weightHistory,
		Challenge:      &challenge,
		SleepHistory:   &sleepHistory,
		UpdatedAt:      s.now(),
	}
	if s.lastPlan != nil {
		plan := *s.lastPlan
		plan.Days = append([]types.DayPlan(nil), s.lastPlan.Days...)
		doc.LastGeneratedPlan = &plan
	}
	return doc
}

// ApplyCloudDocument overwrites local slices with the ones present in the
// pulled document and persists each. Keys absent from the payload leave
// local state untouched; there is no per-item merge. Called once on the
// login transition.
func (s *Session) ApplyCloudDocument(doc *types.CloudDocument) {
	if doc == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if doc.Profile != nil {
		s.profile = *doc.Profile
		s.profile.BackfillDefaults()
		s.save(store.KeyUserProfile, s.profile)
	}
	if doc.Goals != nil {
		s.dailyGoals = doc.Goals.Clone()
		s.dailyGoals.Backfill(types.DefaultDailyGoals())
		s.saveGoals()
	}
	if doc.Preferences != nil {
		s.prefs = *doc.Preferences
		s.save(store.KeyPreferences, s.prefs)
	}
	if doc.Gamification != nil {
		s.gamification = *doc.Gamification
		s.save(store.KeyGamification, s.gamification)
	}
	if doc.Recipes != nil {
		s.recipes = *doc.Recipes
		s.save(store.KeyRecipes, s.recipes)
	}
	if doc.SavedRecipes != nil {
		s.savedRecipes = *doc.SavedRecipes
		s.save(store.KeySavedRecipes, s.savedRecipes)
	}
	if doc.LastGeneratedPlan != nil {
		plan := *doc.LastGeneratedPlan
		s.lastPlan = &plan
		s.save(store.KeyLastPlan, s.lastPlan)
	}
	if doc.SavedPlans != nil {
		s.savedPlans = *doc.SavedPlans
		s.save(store.KeySavedPlans, s.savedPlans)
	}
	if doc.CalorieHistory != nil {
		s.calorieHistory = *doc.CalorieHistory
		s.save(store.KeyCalorieHistory, s.calorieHistory)
	}
	if doc.GoalsHistory != nil {
		s.goalsHistory = *doc.GoalsHistory
		s.save(store.KeyGoalsHistory, s.goalsHistory)
	}
	if doc.FastingState != nil {
		s.fasting = *doc.FastingState
		s.save(store.KeyFastingState, s.fasting)
	}
	if doc.ChatHistory != nil {
		s.chatHistory = *doc.ChatHistory
		s.save(store.KeyChatHistory, s.chatHistory)
	}
	if doc.ShoppingList != nil {
		s.shoppingList = *doc.ShoppingList
		s.save(store.KeyShoppingList, s.shoppingList)
	}
	if doc.ActivityLog != nil {
		s.activityLog = *doc.ActivityLog
		s.save(store.KeyActivityLog, s.activityLog)
	}
	if doc.AssistantName != nil {
		s.assistantName = *doc.AssistantName
		s.save(store.KeyAssistantName, s.assistantName)
	}
	if doc.MoodHistory != nil {
		s.moodHistory = *doc.MoodHistory
		s.save(store.KeyMoodHistory, s.moodHistory)
	}
	if doc.WeightHistory != nil {
		s.weightHistory = *doc.WeightHistory
		s.save(store.KeyWeightHistory, s.weightHistory)
	}
	if doc.Challenge != nil {
		s.challenge = *doc.Challenge
		s.save(store.KeyChallenge, s.challenge)
	}
	if doc.SleepHistory != nil {
		s.sleepHistory = *doc.SleepHistory
		s.save(store.KeySleepHistory, s.sleepHistory)
	}
}
