package state

import (
	"fmt"

	"github.com/nutrisync/backend/internal/types"
)

// challengeDays is the length of the wellness challenge.
const challengeDays = 30

// challengeCatalog cycles through a fixed week of task themes.
var challengeCatalog = []struct {
	title       string
	description string
}{
	{"Hydration day", "Drink your full water target"},
	{"Protein focus", "Hit your protein target"},
	{"Move your body", "Log at least one activity"},
	{"Mindful eating", "Log every meal you eat today"},
	{"Early night", "Log at least 7 hours of sleep"},
	{"Micronutrient check", "Take your supplement"},
	{"Reflection", "Log your mood"},
}

// DefaultChallengeTasks builds the fresh 30-day task list.
func DefaultChallengeTasks() []types.ChallengeTask {
	tasks := make([]types.ChallengeTask, challengeDays)
	for i := range tasks {
		entry := challengeCatalog[i%len(challengeCatalog)]
		tasks[i] = types.ChallengeTask{
			Day:         i + 1,
			Title:       fmt.Sprintf("Day %d: %s", i+1, entry.title),
			Description: entry.description,
		}
	}
	return tasks
}
