// Package goals computes daily calorie needs and a macronutrient split from a
// user's body profile. Everything here is pure arithmetic; the clock and the
// fallback observer are injected so callers and tests control both.
package goals

import (
	"math"
	"time"
)

// Sex selects the BMR formula. Anything other than SexFemale uses the male formula.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

func (s Sex) known() bool { return s == SexMale || s == SexFemale }

// ActivityLevel selects the TDEE multiplier.
type ActivityLevel string

const (
	Sedentary        ActivityLevel = "sedentary"
	LightlyActive    ActivityLevel = "lightly-active"
	ModeratelyActive ActivityLevel = "moderately-active"
	VeryActive       ActivityLevel = "very-active"
	SuperActive      ActivityLevel = "super-active"
)

// activityMultipliers is the single source of truth for valid activity levels.
var activityMultipliers = map[ActivityLevel]float64{
	Sedentary:        1.2,
	LightlyActive:    1.375,
	ModeratelyActive: 1.55,
	VeryActive:       1.725,
	SuperActive:      1.9,
}

// ActivityLevels returns the known levels ordered from least to most active.
func ActivityLevels() []ActivityLevel {
	return []ActivityLevel{Sedentary, LightlyActive, ModeratelyActive, VeryActive, SuperActive}
}

// Multiplier returns the TDEE multiplier for a, and false for unknown levels.
func (a ActivityLevel) Multiplier() (float64, bool) {
	m, ok := activityMultipliers[a]
	return m, ok
}

// Goal is the dietary intent. It drives both the calorie adjustment and the
// macro split, so the two always agree.
type Goal string

const (
	GoalLoseWeight Goal = "lose-weight"
	GoalGainMuscle Goal = "gain-muscle"
	GoalMaintain   Goal = "maintain"
)

// goalAliases maps older form values onto the canonical goals.
var goalAliases = map[Goal]Goal{
	"weight loss": GoalLoseWeight,
	"muscle gain": GoalGainMuscle,
	"":            GoalMaintain,
}

// Normalize returns the canonical goal for g and whether g was recognised.
// Unrecognised goals normalise to GoalMaintain.
func (g Goal) Normalize() (Goal, bool) {
	switch g {
	case GoalLoseWeight, GoalGainMuscle, GoalMaintain:
		return g, true
	}
	if canon, ok := goalAliases[g]; ok {
		return canon, true
	}
	return GoalMaintain, false
}

// calorieAdjustment is added to the activity-scaled BMR.
func (g Goal) calorieAdjustment() int {
	switch g {
	case GoalLoseWeight:
		return -300
	case GoalGainMuscle:
		return 200
	}
	return 0
}

// Split is the share of total energy given to each macronutrient.
type Split struct {
	Carbs   float64
	Protein float64
	Fat     float64
}

// SplitFor returns the macro split for a normalised goal.
func SplitFor(g Goal) Split {
	switch g {
	case GoalLoseWeight:
		return Split{Carbs: 0.5, Protein: 0.3, Fat: 0.2}
	case GoalGainMuscle:
		return Split{Carbs: 0.4, Protein: 0.35, Fat: 0.25}
	}
	return Split{Carbs: 0.5, Protein: 0.2, Fat: 0.3}
}

// Energy density in kcal per gram.
const (
	kcalPerGramProtein = 4
	kcalPerGramCarbs   = 4
	kcalPerGramFat     = 9
)

// Macros holds daily macronutrient targets in grams.
type Macros struct {
	Protein int `json:"protein"`
	Fat     int `json:"fat"`
	Carbs   int `json:"carbs"`
}

// Energy returns the kcal represented by m.
func (m Macros) Energy() int {
	return m.Protein*kcalPerGramProtein + m.Fat*kcalPerGramFat + m.Carbs*kcalPerGramCarbs
}

// Profile is everything the calculator needs for one computation.
type Profile struct {
	Sex      Sex
	Birthday time.Time
	HeightCM float64
	WeightKG float64
	Activity ActivityLevel
	Goal     Goal
}

// Result is the output of Calculator.Compute.
type Result struct {
	CalorieNeeds int    `json:"calorie_needs"`
	Macros       Macros `json:"macros"`
	Goal         Goal   `json:"goal"`
}

// Age returns whole years between birthday and now, one less when now falls
// before this year's birthday. Only the calendar date of each is considered.
func Age(birthday, now time.Time) int {
	age := now.Year() - birthday.Year()
	if now.Month() < birthday.Month() ||
		(now.Month() == birthday.Month() && now.Day() < birthday.Day()) {
		age--
	}
	return age
}

// BMR returns basal metabolic rate in kcal/day using the revised
// Harris-Benedict equations. Unrounded.
func BMR(sex Sex, weightKG, heightCM float64, age int) float64 {
	if sex == SexFemale {
		return 447.593 + 9.247*weightKG + 3.098*heightCM - 4.330*float64(age)
	}
	return 88.362 + 13.397*weightKG + 4.799*heightCM - 5.677*float64(age)
}

// Macronutrients converts a calorie target into grams per macronutrient using
// the split for goal. Each figure is rounded on its own. weightKG is accepted
// for callers that already pass it and does not affect the result.
func Macronutrients(weightKG float64, calorieNeeds int, goal Goal) Macros {
	canon, _ := goal.Normalize()
	split := SplitFor(canon)
	kcal := float64(calorieNeeds)
	return Macros{
		Protein: roundHalfUp(kcal * split.Protein / kcalPerGramProtein),
		Fat:     roundHalfUp(kcal * split.Fat / kcalPerGramFat),
		Carbs:   roundHalfUp(kcal * split.Carbs / kcalPerGramCarbs),
	}
}

// roundHalfUp rounds .5 toward positive infinity, so -2.5 becomes -2.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
