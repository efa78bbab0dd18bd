package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"lg/fastfood-nutrition-api/internal/goals"
	"lg/fastfood-nutrition-api/internal/metrics"
)

// newCalculator builds the shared goal calculator. Unrecognised sex, activity
// or goal values are logged and counted rather than silently absorbed.
func newCalculator(opts ...goals.Option) *goals.Calculator {
	observe := goals.WithFallbackObserver(func(f goals.Fallback) {
		log.WithFields(log.Fields{
			"field": f.Field,
			"value": f.Value,
			"used":  f.Used,
		}).Warn("unrecognised profile value, using default")
		metrics.IncGoalFallback(f.Field)
	})
	return goals.New(append([]goals.Option{observe}, opts...)...)
}

// measurements parses height and weight. Both are checked before any database
// access so bad input never costs a round trip.
func (f bodyForm) measurements() (heightCM, weightKG float64, err error) {
	if heightCM, err = goals.ParseMeasurement("height", string(f.Height)); err != nil {
		return 0, 0, err
	}
	if weightKG, err = goals.ParseMeasurement("weight", string(f.Weight)); err != nil {
		return 0, 0, err
	}
	return heightCM, weightKG, nil
}

func (f bodyForm) profile(birthday time.Time, heightCM, weightKG float64) goals.Profile {
	return goals.Profile{
		Sex:      goals.Sex(f.Sex),
		Birthday: birthday,
		HeightCM: heightCM,
		WeightKG: weightKG,
		Activity: goals.ActivityLevel(f.Activity),
		Goal:     goals.Goal(f.Goal),
	}
}

// computeGoals runs the calculator and records which endpoint asked.
func (h *Handler) computeGoals(p goals.Profile, source string) (goals.Result, error) {
	res, err := h.calc.Compute(p)
	if err != nil {
		return goals.Result{}, err
	}
	metrics.IncGoalsComputed(string(res.Goal), source)
	return res, nil
}

// goalInputError writes a 400 for a *goals.ValidationError and reports
// whether it did. Other errors are left to the caller.
func goalInputError(c *gin.Context, err error) bool {
	var verr *goals.ValidationError
	if errors.As(err, &verr) {
		apiError(c, http.StatusBadRequest, verr.Error())
		return true
	}
	return false
}
