// Package rollover implements the daily reset-and-archive transition
// applied to goal counters at the start of a new calendar day.
package rollover

import (
	"log"

	"github.com/nutrisync/backend/internal/types"
)

// Outcome reports what a rollover pass did.
type Outcome struct {
	// Rolled is true when the stored date differed from today and the
	// live counters were reset.
	Rolled bool
	// Archived is true when the stale day had activity and was appended
	// to the goals history.
	Archived bool
	// ArchivedDate is the date that was archived, when Archived is true.
	ArchivedDate string
}

// Run compares the stored goals envelope date against today and, when
// stale, archives the stored day (once per date), zeroes every live
// current counter, clears the supplement flag, and empties the activity
// log. It mutates live, history and activity in place.
//
// Idempotent: a second call with the same stale date finds the date
// already present in history and archives nothing, and running with
// storedDate empty ("" means first run) or equal to today is a no-op.
func Run(storedDate, today string, stored types.DailyGoals, live *types.DailyGoals, history *[]types.GoalsHistoryItem, activity *[]types.ActivityEntry) Outcome {
	if storedDate == "" || storedDate == today {
		return Outcome{}
	}

	out := Outcome{Rolled: true}

	// Archive the stale day only if it saw activity and is not already
	// in the history (guards against double-rollover from remounts).
	if stored.HasActivity() && !hasDate(*history, storedDate) {
		*history = append(*history, types.GoalsHistoryItem{Date: storedDate, Goals: stored.Clone()})
		out.Archived = true
		out.ArchivedDate = storedDate
		log.Printf("[Rollover] archived goals for %s", storedDate)
	}

	live.ResetCurrents()
	*activity = nil

	return out
}

func hasDate(history []types.GoalsHistoryItem, date string) bool {
	for _, item := range history {
		if item.Date == date {
			return true
		}
	}
	return false
}
