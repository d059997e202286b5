package types

import "time"

// Meal slots within a day plan.
const (
	MealSlotBreakfast = "breakfast"
	MealSlotLunch     = "lunch"
	MealSlotDinner    = "dinner"
)

// Meal is one planned meal with its estimated nutrition.
type Meal struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Calories    float64 `json:"calories"`
	Protein     float64 `json:"protein"`
	Carbs       float64 `json:"carbs"`
	Fat         float64 `json:"fat"`
}

// DayPlan is one day of a weekly plan.
type DayPlan struct {
	Day       string `json:"day"`
	Breakfast Meal   `json:"breakfast"`
	Lunch     Meal   `json:"lunch"`
	Dinner    Meal   `json:"dinner"`
}

// WeekDays is the Monday-first day ordering of a WeeklyPlan.
var WeekDays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// WeeklyPlan is a 7-day (Mon-Sun) meal plan.
type WeeklyPlan struct {
	Days []DayPlan `json:"days"`
}

// MealAt returns a pointer to the meal in the given day index and slot,
// or nil when either is out of range.
func (p *WeeklyPlan) MealAt(dayIndex int, slot string) *Meal {
	if dayIndex < 0 || dayIndex >= len(p.Days) {
		return nil
	}
	d := &p.Days[dayIndex]
	switch slot {
	case MealSlotBreakfast:
		return &d.Breakfast
	case MealSlotLunch:
		return &d.Lunch
	case MealSlotDinner:
		return &d.Dinner
	}
	return nil
}

// SavedPlan wraps a weekly plan with its creation timestamp. Saved plans
// are append-only and ordered by timestamp to represent successive weeks.
type SavedPlan struct {
	ID        string     `json:"id"`
	CreatedAt time.Time  `json:"createdAt"`
	Plan      WeeklyPlan `json:"plan"`
}

// ShoppingItem is one entry of a generated shopping list.
type ShoppingItem struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Checked  bool   `json:"checked"`
}

// ShoppingList is the current generated list. Only item Checked flags are
// mutable in place; everything else is frozen until regenerated.
type ShoppingList struct {
	GeneratedAt time.Time      `json:"generatedAt"`
	Items       []ShoppingItem `json:"items"`
}
