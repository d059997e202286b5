package state

import (
	"time"

	"github.com/nutrisync/backend/internal/types"
)

// Read accessors. Each returns a copy taken under the session lock so
// callers never observe a torn mutation.

func (s *Session) Profile() types.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

func (s *Session) DailyGoals() types.DailyGoals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dailyGoals.Clone()
}

func (s *Session) Preferences() types.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs
}

func (s *Session) Gamification() types.GamificationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.gamification
	out.Unlocked = append([]types.UnlockedAchievement(nil), s.gamification.Unlocked...)
	return out
}

func (s *Session) Fasting() types.FastingState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fasting
}

func (s *Session) Challenge() types.ChallengeState {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.challenge
	out.Tasks = append([]types.ChallengeTask(nil), s.challenge.Tasks...)
	return out
}

func (s *Session) Recipes() []types.Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]types.Recipe(nil), s.recipes...)
}

// VisibleRecipes applies the weekly rotation filter: a recipe is hidden in
// calendar weeks where (id + isoWeek) is divisible by 4.
func (s *Session) VisibleRecipes(now time.Time) []types.Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, week := now.ISOWeek()
	visible := make([]types.Recipe, 0, len(s.recipes))
	for _, r := range s.recipes {
		if (r.ID+week)%4 != 0 {
			visible = append(visible, r)
		}
	}
	return visible
}

func (s *Session) SavedRecipes() []types.Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]types.Recipe(nil), s.savedRecipes...)
}

func (s *Session) LastPlan() *types.WeeklyPlan {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastPlan == nil {
		return nil
	}
	plan := *s.lastPlan
	plan.Days = append([]types.DayPlan(nil), s.lastPlan.Days...)
	return &plan
}

func (s *Session) SavedPlans() []types.SavedPlan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]types.SavedPlan(nil), s.savedPlans...)
}

func (s *Session) CalorieHistory() []types.CalorieRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]types.CalorieRecord(nil), s.calorieHistory...)
}

func (s *Session) GoalsHistory() []types.GoalsHistoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]types.GoalsHistoryItem(nil), s.goalsHistory...)
}

func (s *Session) WeightHistory() []types.WeightRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]types.WeightRecord(nil), s.weightHistory...)
}

func (s *Session) MoodHistory() []types.MoodRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]types.MoodRecord(nil), s.moodHistory...)
}

func (s *Session) SleepHistory() []types.SleepRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]types.SleepRecord(nil), s.sleepHistory...)
}

func (s *Session) ActivityLog() []types.ActivityEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]types.ActivityEntry(nil), s.activityLog...)
}

func (s *Session) FrequentFoods() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.frequentFoods...)
}

func (s *Session) ChatHistory() []types.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]types.ChatMessage(nil), s.chatHistory...)
}

func (s *Session) AssistantName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.assistantName
}

func (s *Session) ShoppingList() types.ShoppingList {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.shoppingList
	out.Items = append([]types.ShoppingItem(nil), s.shoppingList.Items...)
	return out
}
