package goals

import "time"

// Fallback describes an input the calculator did not recognise and the default
// it used in its place.
type Fallback struct {
	Field string // "sex", "activity" or "goal"
	Value string // the value as submitted
	Used  string // what the calculation used instead
}

// FallbackObserver is told about every fallback taken during a computation.
type FallbackObserver func(Fallback)

// Calculator computes goals against an injected clock. The zero value is not
// usable; construct with New.
type Calculator struct {
	now      func() time.Time
	observer FallbackObserver
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithClock overrides time.Now, which is used to derive age.
func WithClock(now func() time.Time) Option {
	return func(c *Calculator) { c.now = now }
}

// WithFallbackObserver registers fn to receive fallback notifications.
func WithFallbackObserver(fn FallbackObserver) Option {
	return func(c *Calculator) { c.observer = fn }
}

// New returns a Calculator using time.Now and no observer unless overridden.
func New(opts ...Option) *Calculator {
	c := &Calculator{now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Age returns the age in whole years of someone born on birthday as of the
// calculator's clock.
func (c *Calculator) Age(birthday time.Time) int {
	return Age(birthday, c.now())
}

// CalorieNeeds returns daily calorie needs for p: BMR scaled by the activity
// multiplier, rounded, then shifted by the goal adjustment. An unknown
// activity level contributes zero, leaving only the adjustment. The result is
// not clamped and can be negative for extreme inputs.
func (c *Calculator) CalorieNeeds(p Profile) (int, error) {
	if err := p.Validate(c.now()); err != nil {
		return 0, err
	}
	if !p.Sex.known() {
		c.fallback("sex", string(p.Sex), string(SexMale))
	}
	bmr := BMR(p.Sex, p.WeightKG, p.HeightCM, c.Age(p.Birthday))

	var needs int
	if mult, ok := p.Activity.Multiplier(); ok {
		needs = roundHalfUp(bmr * mult)
	} else {
		c.fallback("activity", string(p.Activity), "0")
	}

	goal, ok := p.Goal.Normalize()
	if !ok {
		c.fallback("goal", string(p.Goal), string(goal))
	}
	return needs + goal.calorieAdjustment(), nil
}

// Compute runs CalorieNeeds and Macronutrients with the same goal.
func (c *Calculator) Compute(p Profile) (Result, error) {
	needs, err := c.CalorieNeeds(p)
	if err != nil {
		return Result{}, err
	}
	goal, _ := p.Goal.Normalize()
	return Result{
		CalorieNeeds: needs,
		Macros:       Macronutrients(p.WeightKG, needs, goal),
		Goal:         goal,
	}, nil
}

func (c *Calculator) fallback(field, value, used string) {
	if c.observer != nil {
		c.observer(Fallback{Field: field, Value: value, Used: used})
	}
}
