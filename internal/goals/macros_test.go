package goals

import (
	"math"
	"testing"
	"time"
)

func TestMacronutrients_SplitByGoal(t *testing.T) {
	cases := []struct {
		goal Goal
		want Macros
	}{
		// 2000*0.30/4, 2000*0.20/9, 2000*0.50/4
		{"weight loss", Macros{Protein: 150, Fat: 44, Carbs: 250}},
		{GoalLoseWeight, Macros{Protein: 150, Fat: 44, Carbs: 250}},
		// 2000*0.35/4, 2000*0.25/9, 2000*0.40/4
		{"muscle gain", Macros{Protein: 175, Fat: 56, Carbs: 200}},
		{GoalGainMuscle, Macros{Protein: 175, Fat: 56, Carbs: 200}},
		// 2000*0.20/4, 2000*0.30/9, 2000*0.50/4
		{GoalMaintain, Macros{Protein: 100, Fat: 67, Carbs: 250}},
		{"anything else", Macros{Protein: 100, Fat: 67, Carbs: 250}},
	}
	for _, tc := range cases {
		t.Run(string(tc.goal), func(t *testing.T) {
			if got := Macronutrients(70, 2000, tc.goal); got != tc.want {
				t.Errorf("Macronutrients(2000, %q) = %+v, want %+v", tc.goal, got, tc.want)
			}
		})
	}
}

func TestMacronutrients_WeightIgnored(t *testing.T) {
	a := Macronutrients(50, 2200, GoalGainMuscle)
	b := Macronutrients(120, 2200, GoalGainMuscle)
	if a != b {
		t.Errorf("weight changed the result: %+v vs %+v", a, b)
	}
}

// TestMacronutrients_EnergyConserved checks that the grams add back up to the
// target. Each term is rounded to half a gram, so the worst case drift is
// 0.5*(4+9+4) = 8.5 kcal.
func TestMacronutrients_EnergyConserved(t *testing.T) {
	for _, goal := range []Goal{GoalLoseWeight, GoalGainMuscle, GoalMaintain} {
		for kcal := 1200; kcal <= 4000; kcal += 7 {
			m := Macronutrients(0, kcal, goal)
			if diff := math.Abs(float64(m.Energy() - kcal)); diff > 8.5 {
				t.Fatalf("%s @ %d kcal: macros %+v carry %d kcal (off by %.0f)",
					goal, kcal, m, m.Energy(), diff)
			}
		}
	}
}

// TestMacronutrients_NegativeRoundsHalfUp locks in half-up rounding for the
// negative figures an unknown activity level can produce.
func TestMacronutrients_NegativeRoundsHalfUp(t *testing.T) {
	got := Macronutrients(70, -300, GoalLoseWeight)
	// -22.5 -> -22, -6.67 -> -7, -37.5 -> -37
	want := Macros{Protein: -22, Fat: -7, Carbs: -37}
	if got != want {
		t.Errorf("Macronutrients(-300) = %+v, want %+v", got, want)
	}
}

func TestCompute(t *testing.T) {
	c := New(WithClock(func() time.Time { return fixedNow }))
	res, err := c.Compute(thirtyYearOld(Sedentary, "weight loss"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 2035 - 300
	if res.CalorieNeeds != 1735 {
		t.Errorf("CalorieNeeds = %d, want 1735", res.CalorieNeeds)
	}
	if res.Goal != GoalLoseWeight {
		t.Errorf("Goal = %q, want %q", res.Goal, GoalLoseWeight)
	}
	if want := Macronutrients(70, 1735, GoalLoseWeight); res.Macros != want {
		t.Errorf("Macros = %+v, want %+v", res.Macros, want)
	}
}
