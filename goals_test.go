package main

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"

	"lg/fastfood-nutrition-api/internal/goals"
)

var fixedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

/* ─── numericField ───────────────────────────────────────────────────── */

// TestNumericField_UnmarshalJSON verifies that height/weight accept both JSON
// numbers and strings, and keep the raw text for ParseMeasurement.
func TestNumericField_UnmarshalJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want numericField
	}{
		{"integer", `{"height": 175}`, "175"},
		{"decimal", `{"height": 72.5}`, "72.5"},
		{"string", `{"height": "180"}`, "180"},
		{"non-numeric string kept for later rejection", `{"height": "tall"}`, "tall"},
		{"null", `{"height": null}`, ""},
		{"absent", `{}`, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var f bodyForm
			if err := json.Unmarshal([]byte(tc.in), &f); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if f.Height != tc.want {
				t.Errorf("Height = %q, want %q", f.Height, tc.want)
			}
		})
	}
}

func TestNumericField_RejectsNonScalar(t *testing.T) {
	var f bodyForm
	if err := json.Unmarshal([]byte(`{"weight": [70]}`), &f); err == nil {
		t.Error("expected an error for an array weight")
	}
}

/* ─── bodyForm ───────────────────────────────────────────────────────── */

func TestBodyForm_Measurements(t *testing.T) {
	cases := []struct {
		name    string
		form    bodyForm
		wantErr string
	}{
		{"valid", bodyForm{Height: "175", Weight: "70"}, ""},
		{"missing height", bodyForm{Weight: "70"}, "height is required"},
		{"non-numeric weight", bodyForm{Height: "175", Weight: "heavy"}, "weight must be a number"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, w, err := tc.form.measurements()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if h != 175 || w != 70 {
					t.Errorf("got (%v, %v), want (175, 70)", h, w)
				}
				return
			}
			if err == nil || err.Error() != tc.wantErr {
				t.Errorf("expected %q, got %v", tc.wantErr, err)
			}
		})
	}
}

// TestNewCalculator_LogsFallbacks checks that an unknown activity level is
// logged with the field and value rather than silently absorbed.
func TestNewCalculator_LogsFallbacks(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	calc := newCalculator(goals.WithClock(fixedClock))
	form := bodyForm{Sex: "male", Activity: "couch", Goal: "lose-weight"}
	res, err := calc.Compute(form.profile(time.Date(1994, 1, 1, 0, 0, 0, 0, time.UTC), 175, 70))
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if res.CalorieNeeds != -300 {
		t.Errorf("CalorieNeeds = %d, want -300", res.CalorieNeeds)
	}

	entry := hook.LastEntry()
	if entry == nil {
		t.Fatal("expected a fallback warning to be logged")
	}
	if entry.Data["field"] != "activity" || entry.Data["value"] != "couch" {
		t.Errorf("unexpected log fields: %v", entry.Data)
	}
}
