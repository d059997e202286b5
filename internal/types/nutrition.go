package types

// Nutrient keys tracked in DailyGoals. Macros are grams, water is ml,
// micros are mg/mcg/IU depending on the nutrient.
const (
	NutrientCalories   = "calories"
	NutrientProtein    = "protein"
	NutrientCarbs      = "carbs"
	NutrientFat        = "fat"
	NutrientWater      = "water"
	NutrientVitaminC   = "vitaminC"
	NutrientVitaminD   = "vitaminD"
	NutrientIron       = "iron"
	NutrientCalcium    = "calcium"
	NutrientMagnesium  = "magnesium"
	NutrientVitaminA   = "vitaminA"
	NutrientVitaminB12 = "vitaminB12"
	NutrientPotassium  = "potassium"
	NutrientSodium     = "sodium"
	NutrientZinc       = "zinc"
)

// NutrientKeys is the canonical ordered set of tracked nutrients.
var NutrientKeys = []string{
	NutrientCalories,
	NutrientProtein,
	NutrientCarbs,
	NutrientFat,
	NutrientWater,
	NutrientVitaminC,
	NutrientVitaminD,
	NutrientIron,
	NutrientCalcium,
	NutrientMagnesium,
	NutrientVitaminA,
	NutrientVitaminB12,
	NutrientPotassium,
	NutrientSodium,
	NutrientZinc,
}

// NutrientProgress is the per-nutrient {current, target} pair of a daily goal.
type NutrientProgress struct {
	Current float64 `json:"current"`
	Target  float64 `json:"target"`
}

// DailyGoals is the single live goal record for the current calendar day.
// Prior days are frozen into GoalsHistoryItem entries on rollover.
type DailyGoals struct {
	Nutrients       map[string]NutrientProgress `json:"nutrients"`
	SupplementTaken bool                        `json:"supplementTaken"`
}

// DefaultDailyGoals returns a zero-progress goal set with baseline targets.
// Targets for calories/macros/water get overwritten as soon as a profile is
// saved; micro targets are general adult reference values.
func DefaultDailyGoals() DailyGoals {
	return DailyGoals{
		Nutrients: map[string]NutrientProgress{
			NutrientCalories:   {Target: 2000},
			NutrientProtein:    {Target: 150},
			NutrientCarbs:      {Target: 250},
			NutrientFat:        {Target: 70},
			NutrientWater:      {Target: 2000},
			NutrientVitaminC:   {Target: 90},
			NutrientVitaminD:   {Target: 20},
			NutrientIron:       {Target: 18},
			NutrientCalcium:    {Target: 1000},
			NutrientMagnesium:  {Target: 400},
			NutrientVitaminA:   {Target: 900},
			NutrientVitaminB12: {Target: 2.4},
			NutrientPotassium:  {Target: 3500},
			NutrientSodium:     {Target: 2300},
			NutrientZinc:       {Target: 11},
		},
	}
}

// Clone returns a deep copy.
func (g DailyGoals) Clone() DailyGoals {
	out := DailyGoals{
		Nutrients:       make(map[string]NutrientProgress, len(g.Nutrients)),
		SupplementTaken: g.SupplementTaken,
	}
	for k, v := range g.Nutrients {
		out.Nutrients[k] = v
	}
	return out
}

// Add increases a nutrient's current value. Unknown keys are ignored so a
// meal analysis carrying extra fields cannot grow the tracked set.
func (g *DailyGoals) Add(key string, amount float64) {
	p, ok := g.Nutrients[key]
	if !ok {
		return
	}
	p.Current += amount
	g.Nutrients[key] = p
}

// ResetCurrents zeroes every nutrient's current value and clears the
// supplement flag. Targets are untouched.
func (g *DailyGoals) ResetCurrents() {
	for k, p := range g.Nutrients {
		p.Current = 0
		g.Nutrients[k] = p
	}
	g.SupplementTaken = false
}

// HasActivity reports whether the day saw any logged intake. Used by the
// rollover engine to decide whether the day is worth archiving.
func (g DailyGoals) HasActivity() bool {
	return g.Nutrients[NutrientCalories].Current+g.Nutrients[NutrientWater].Current > 0
}

// Backfill inserts any nutrient keys present in def but missing from g.
// Older persisted payloads predate some micros; this keeps them loadable.
func (g *DailyGoals) Backfill(def DailyGoals) {
	if g.Nutrients == nil {
		g.Nutrients = make(map[string]NutrientProgress, len(def.Nutrients))
	}
	for k, v := range def.Nutrients {
		if _, ok := g.Nutrients[k]; !ok {
			g.Nutrients[k] = v
		}
	}
}

// MacroBreakdown is the macro portion of an AI meal analysis, in grams.
type MacroBreakdown struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fat     float64 `json:"fat"`
}

// MealAnalysis is the structured result of analyzing a meal photo.
// Micros carries whatever nutrient keys the analyzer identified; missing
// keys are treated as zero when applied to the daily goals.
type MealAnalysis struct {
	Calories        float64            `json:"calories"`
	Macros          MacroBreakdown     `json:"macros"`
	Micros          map[string]float64 `json:"micros"`
	IdentifiedFoods []string           `json:"identifiedFoods"`
	ServingSize     string             `json:"servingSize"`
}
