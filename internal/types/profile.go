package types

// DietaryPreference is the user's chosen diet style.
type DietaryPreference string

const (
	DietOmnivore   DietaryPreference = "omnivore"
	DietVegetarian DietaryPreference = "vegetarian"
	DietVegan      DietaryPreference = "vegan"
	DietPescatarian DietaryPreference = "pescatarian"
	DietKeto       DietaryPreference = "keto"
)

// Gender as used by the BMR formula.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// ActivityLevel maps to a TDEE multiplier in the goals calculator.
type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very_active"
)

// Objective is the user's body-composition goal.
type Objective string

const (
	ObjectiveLoseWeight Objective = "lose_weight"
	ObjectiveMaintain   Objective = "maintain"
	ObjectiveGainMuscle Objective = "gain_muscle"
)

// UserProfile holds the editable profile used to derive daily targets.
// It always exists; absent fields are defaulted on load.
type UserProfile struct {
	Name              string            `json:"name"`
	Age               int               `json:"age"`
	HeightCm          float64           `json:"height"`
	WeightKg          float64           `json:"weight"`
	BMI               float64           `json:"bmi"`
	DietaryPreference DietaryPreference `json:"dietaryPreference"`
	Gender            Gender            `json:"gender"`
	ActivityLevel     ActivityLevel     `json:"activityLevel"`
	Objective         Objective         `json:"objective"`
	TakesMultivitamin bool              `json:"takesMultivitamin"`
}

// DefaultUserProfile returns the profile used before the user fills one in.
func DefaultUserProfile() UserProfile {
	p := UserProfile{
		Name:              "User",
		Age:               30,
		HeightCm:          170,
		WeightKg:          70,
		DietaryPreference: DietOmnivore,
		Gender:            GenderFemale,
		ActivityLevel:     ActivitySedentary,
		Objective:         ObjectiveMaintain,
	}
	p.RecalculateBMI()
	return p
}

// RecalculateBMI refreshes the derived BMI field from height and weight.
func (p *UserProfile) RecalculateBMI() {
	if p.HeightCm <= 0 {
		p.BMI = 0
		return
	}
	m := p.HeightCm / 100
	p.BMI = p.WeightKg / (m * m)
}

// BackfillDefaults fills fields introduced after the profile format first
// shipped. Older stored payloads lack them entirely.
func (p *UserProfile) BackfillDefaults() {
	if p.DietaryPreference == "" {
		p.DietaryPreference = DietOmnivore
	}
	if p.Gender == "" {
		p.Gender = GenderFemale
	}
	if p.ActivityLevel == "" {
		p.ActivityLevel = ActivitySedentary
	}
	if p.Objective == "" {
		p.Objective = ObjectiveMaintain
	}
}

// Preferences gates optional engine side effects.
type Preferences struct {
	ShowGamification bool `json:"showGamification"`
	ShowChallenges   bool `json:"showChallenges"`
}

// DefaultPreferences enables every feature.
func DefaultPreferences() Preferences {
	return Preferences{ShowGamification: true, ShowChallenges: true}
}
