package types

import "time"

// UnlockedAchievement marks one achievement id as earned. The unlocked set
// only grows; ids are never re-added or removed.
type UnlockedAchievement struct {
	ID         string    `json:"id"`
	UnlockedAt time.Time `json:"unlockedAt"`
}

// GamificationState holds total XP, the level derived from it, and the
// unlocked achievement set. Level is persisted for display but must always
// equal the value derived from XP.
type GamificationState struct {
	XP       int                   `json:"xp"`
	Level    int                   `json:"level"`
	Unlocked []UnlockedAchievement `json:"unlockedAchievements"`
}

// DefaultGamificationState starts at level 1 with nothing unlocked.
func DefaultGamificationState() GamificationState {
	return GamificationState{Level: 1}
}

// HasUnlocked reports whether the achievement id is already in the set.
func (g GamificationState) HasUnlocked(id string) bool {
	for _, u := range g.Unlocked {
		if u.ID == id {
			return true
		}
	}
	return false
}

// ChallengeTask is one day of the multi-day challenge.
type ChallengeTask struct {
	Day         int    `json:"day"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// ChallengeState tracks the running challenge. The current task is derived
// from StartDate and the wall clock, never stored.
type ChallengeState struct {
	IsActive  bool            `json:"isActive"`
	StartDate string          `json:"startDate"`
	Tasks     []ChallengeTask `json:"tasks"`
}

// CurrentTaskIndex derives the active task index from the start date and
// now. Returns -1 when the challenge is inactive, unstarted, or finished.
func (c ChallengeState) CurrentTaskIndex(now time.Time) int {
	if !c.IsActive || c.StartDate == "" {
		return -1
	}
	start, err := time.Parse("2006-01-02", c.StartDate)
	if err != nil {
		return -1
	}
	day := int(now.Sub(start).Hours() / 24)
	if day < 0 || day >= len(c.Tasks) {
		return -1
	}
	return day
}

// FastingState is the two-state fasting machine: Idle <-> Fasting.
// After a stop, protocol and target are retained for "last protocol"
// display; StartTime is cleared.
type FastingState struct {
	IsFasting   bool       `json:"isFasting"`
	StartTime   *time.Time `json:"startTime"`
	TargetHours float64    `json:"targetDuration"`
	Protocol    string     `json:"protocol"`
}
