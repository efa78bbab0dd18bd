package goals

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ValidationError reports a profile field that cannot produce a meaningful
// estimate.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// Validate checks the numeric and date fields of p as of now. Enumerated
// fields are never rejected; unknown values fall back during computation.
func (p Profile) Validate(now time.Time) error {
	if err := checkRange("height", p.HeightCM, MaxHeightCM); err != nil {
		return err
	}
	if err := checkRange("weight", p.WeightKG, MaxWeightKG); err != nil {
		return err
	}
	if p.Birthday.IsZero() {
		return &ValidationError{Field: "birthday", Reason: "is required"}
	}
	if Age(p.Birthday, now) < 0 {
		return &ValidationError{Field: "birthday", Reason: "must not be in the future"}
	}
	return nil
}

// Upper bounds on body measurements. Anything above these is a typo or an
// attempt to overflow the integer calorie figure.
const (
	MaxHeightCM = 300
	MaxWeightKG = 1000
)

func checkRange(field string, v, max float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &ValidationError{Field: field, Reason: "must be a finite number"}
	}
	if v <= 0 {
		return &ValidationError{Field: field, Reason: "must be greater than 0"}
	}
	if v > max {
		return &ValidationError{Field: field, Reason: fmt.Sprintf("must be at most %g", max)}
	}
	return nil
}

// ParseBirthday parses a YYYY-MM-DD date in UTC.
func ParseBirthday(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, &ValidationError{Field: "birthday", Reason: "must be a date in YYYY-MM-DD format"}
	}
	return t, nil
}

// ParseMeasurement coerces a submitted form value such as "175" or " 72.5 "
// to a float. Range checks happen in Validate.
func ParseMeasurement(field, raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, &ValidationError{Field: field, Reason: "is required"}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &ValidationError{Field: field, Reason: "must be a number"}
	}
	return v, nil
}
