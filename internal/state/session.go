// Package state owns the per-user application state: it loads every slice
// from the local snapshot store, runs the daily rollover at start, exposes
// the action surface that mutates state, and feeds the cloud sync outbox.
// All mutations are serialized behind one mutex so every action is an
// atomic read-modify-write against the latest state.
package state

import (
	"log"
	"sync"
	"time"

	"github.com/nutrisync/backend/internal/rollover"
	"github.com/nutrisync/backend/internal/store"
	"github.com/nutrisync/backend/internal/types"
)

// Pusher receives change notifications for the cloud sync bridge.
type Pusher interface {
	MarkDirty()
}

// Session is the working copy of one user's state. The local store is
// authoritative for the session; the cloud document is a mirror.
type Session struct {
	userID string
	store  *store.Store
	pusher Pusher
	now    func() time.Time

	mu             sync.Mutex
	profile        types.UserProfile
	dailyGoals     types.DailyGoals
	calorieHistory []types.CalorieRecord
	frequentFoods  []string
	lastPlan       *types.WeeklyPlan
	recipes        []types.Recipe
	savedRecipes   []types.Recipe
	goalsHistory   []types.GoalsHistoryItem
	savedPlans     []types.SavedPlan
	fasting        types.FastingState
	chatHistory    []types.ChatMessage
	shoppingList   types.ShoppingList
	activityLog    []types.ActivityEntry
	assistantName  string
	gamification   types.GamificationState
	moodHistory    []types.MoodRecord
	weightHistory  []types.WeightRecord
	challenge      types.ChallengeState
	prefs          types.Preferences
	sleepHistory   []types.SleepRecord
}

// Option configures a Session.
type Option func(*Session)

// WithClock injects the wall clock. Tests use it to simulate date
// transitions and fasting durations.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithPusher attaches the sync outbox notification target.
func WithPusher(p Pusher) Option {
	return func(s *Session) { s.pusher = p }
}

// NewSession loads all slices from the snapshot store and applies the
// daily rollover once. Missing or corrupt slices come back as defaults;
// session construction cannot fail.
func NewSession(userID string, st *store.Store, opts ...Option) *Session {
	s := &Session{
		userID: userID,
		store:  st,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.profile = store.Load(st, store.KeyUserProfile, types.DefaultUserProfile())
	goals, storedDate := store.LoadDated(st, store.KeyDailyGoals, types.DefaultDailyGoals())
	s.dailyGoals = goals
	s.calorieHistory = store.Load(st, store.KeyCalorieHistory, []types.CalorieRecord(nil))
	s.frequentFoods = store.Load(st, store.KeyFrequentFoods, []string(nil))
	s.lastPlan = store.Load(st, store.KeyLastPlan, (*types.WeeklyPlan)(nil))
	s.recipes = store.Load(st, store.KeyRecipes, []types.Recipe(nil))
	s.savedRecipes = store.Load(st, store.KeySavedRecipes, []types.Recipe(nil))
	s.goalsHistory = store.Load(st, store.KeyGoalsHistory, []types.GoalsHistoryItem(nil))
	s.savedPlans = store.Load(st, store.KeySavedPlans, []types.SavedPlan(nil))
	s.fasting = store.Load(st, store.KeyFastingState, types.FastingState{})
	s.chatHistory = store.Load(st, store.KeyChatHistory, []types.ChatMessage(nil))
	s.shoppingList = store.Load(st, store.KeyShoppingList, types.ShoppingList{})
	s.activityLog = store.Load(st, store.KeyActivityLog, []types.ActivityEntry(nil))
	s.assistantName = store.Load(st, store.KeyAssistantName, types.DefaultAssistantName)
	s.gamification = store.Load(st, store.KeyGamification, types.DefaultGamificationState())
	s.moodHistory = store.Load(st, store.KeyMoodHistory, []types.MoodRecord(nil))
	s.weightHistory = store.Load(st, store.KeyWeightHistory, []types.WeightRecord(nil))
	s.challenge = store.Load(st, store.KeyChallenge, types.ChallengeState{})
	s.prefs = store.Load(st, store.KeyPreferences, types.DefaultPreferences())
	s.sleepHistory = store.Load(st, store.KeySleepHistory, []types.SleepRecord(nil))

	s.runRollover(storedDate)

	return s
}

// runRollover applies the once-per-date-transition reset. Called at
// session start only.
func (s *Session) runRollover(storedDate string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := types.DateKey(s.now())
	outcome := rollover.Run(storedDate, today, s.dailyGoals, &s.dailyGoals, &s.goalsHistory, &s.activityLog)
	if !outcome.Rolled {
		return
	}
	s.saveGoals()
	if outcome.Archived {
		s.save(store.KeyGoalsHistory, s.goalsHistory)
	}
	s.save(store.KeyActivityLog, s.activityLog)
	s.notify()
}

// UserID returns the owning user id.
func (s *Session) UserID() string {
	return s.userID
}

// save persists one slice, logging rather than propagating failures: the
// in-memory state already advanced and remains the working copy.
func (s *Session) save(key string, v any) {
	if err := store.Save(s.store, key, v); err != nil {
		log.Printf("[Session] persist %s for user %s failed: %v", key, s.userID, err)
	}
}

// saveGoals persists the daily goals with today's date stamp.
func (s *Session) saveGoals() {
	if err := store.SaveDated(s.store, store.KeyDailyGoals, s.dailyGoals, types.DateKey(s.now())); err != nil {
		log.Printf("[Session] persist dailyGoals for user %s failed: %v", s.userID, err)
	}
}

func (s *Session) notify() {
	if s.pusher != nil {
		s.pusher.MarkDirty()
	}
}
