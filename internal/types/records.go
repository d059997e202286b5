package types

import "time"

// DateKey formats a time as the YYYY-MM-DD key used for all calendar-keyed
// records and envelopes.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// CalorieRecord accumulates kcal logged on one calendar day.
type CalorieRecord struct {
	Date string  `json:"date"`
	Kcal float64 `json:"kcal"`
}

// WeightRecord is one weight measurement per calendar day.
type WeightRecord struct {
	Date     string  `json:"date"`
	WeightKg float64 `json:"weight"`
}

// MoodRecord is one mood entry per calendar day.
type MoodRecord struct {
	Date string `json:"date"`
	Mood string `json:"mood"`
}

// SleepRecord is one sleep entry per calendar day.
type SleepRecord struct {
	Date  string  `json:"date"`
	Hours float64 `json:"hours"`
}

// ActivityEntry is a logged exercise session. The activity log is a daily
// record: the rollover engine clears it at each date transition.
type ActivityEntry struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	DurationMin    int       `json:"durationMin"`
	CaloriesBurned float64   `json:"caloriesBurned"`
	LoggedAt       time.Time `json:"loggedAt"`
}

// GoalsHistoryItem is a frozen snapshot of one archived day's goals.
// The history is append-only with at most one entry per date.
type GoalsHistoryItem struct {
	Date  string     `json:"date"`
	Goals DailyGoals `json:"goals"`
}

// AddCalories upserts today's calorie record by summing kcal.
func AddCalories(history []CalorieRecord, date string, kcal float64) []CalorieRecord {
	for i := range history {
		if history[i].Date == date {
			history[i].Kcal += kcal
			return history
		}
	}
	return append(history, CalorieRecord{Date: date, Kcal: kcal})
}

// UpsertWeight replaces the day's weight record, keeping dates ascending.
func UpsertWeight(history []WeightRecord, date string, kg float64) []WeightRecord {
	for i := range history {
		if history[i].Date == date {
			history[i].WeightKg = kg
			return history
		}
	}
	return insertSortedByDate(history, WeightRecord{Date: date, WeightKg: kg}, func(r WeightRecord) string { return r.Date })
}

// UpsertMood replaces the day's mood record, keeping dates ascending.
func UpsertMood(history []MoodRecord, date, mood string) []MoodRecord {
	for i := range history {
		if history[i].Date == date {
			history[i].Mood = mood
			return history
		}
	}
	return insertSortedByDate(history, MoodRecord{Date: date, Mood: mood}, func(r MoodRecord) string { return r.Date })
}

// UpsertSleep replaces the day's sleep record, keeping dates ascending.
func UpsertSleep(history []SleepRecord, date string, hours float64) []SleepRecord {
	for i := range history {
		if history[i].Date == date {
			history[i].Hours = hours
			return history
		}
	}
	return insertSortedByDate(history, SleepRecord{Date: date, Hours: hours}, func(r SleepRecord) string { return r.Date })
}

// insertSortedByDate appends rec and keeps the slice ordered by its date
// key ascending. Date keys sort lexicographically.
func insertSortedByDate[T any](history []T, rec T, dateOf func(T) string) []T {
	history = append(history, rec)
	for i := len(history) - 1; i > 0; i-- {
		if dateOf(history[i-1]) <= dateOf(history[i]) {
			break
		}
		history[i-1], history[i] = history[i], history[i-1]
	}
	return history
}
