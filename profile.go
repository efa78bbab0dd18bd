package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"

	"lg/fastfood-nutrition-api/internal/goals"
)

// saveProfile upserts the body profile and the computed goals. The canonical
// goal is stored so that "weight loss" and "lose-weight" read back the same.
func saveProfile(q querier, ctx context.Context, userID int, f bodyForm, heightCM, weightKG float64, res goals.Result) (userProfile, error) {
	return queryOne[userProfile](q, ctx,
		`INSERT INTO user_profiles
		   (user_id, sex, height_cm, weight_kg, activity_level, goal,
		    calorie_needs, protein_g, fat_g, carbs_g, updated_at)
		 VALUES
		   (@userID, @sex, @heightCM, @weightKG, @activity, @goal,
		    @calorieNeeds, @protein, @fat, @carbs, NOW())
		 ON CONFLICT (user_id) DO UPDATE SET
		   sex = EXCLUDED.sex,
		   height_cm = EXCLUDED.height_cm,
		   weight_kg = EXCLUDED.weight_kg,
		   activity_level = EXCLUDED.activity_level,
		   goal = EXCLUDED.goal,
		   calorie_needs = EXCLUDED.calorie_needs,
		   protein_g = EXCLUDED.protein_g,
		   fat_g = EXCLUDED.fat_g,
		   carbs_g = EXCLUDED.carbs_g,
		   updated_at = NOW()
		 RETURNING *`,
		pgx.NamedArgs{
			"userID":       userID,
			"sex":          f.Sex,
			"heightCM":     heightCM,
			"weightKG":     weightKG,
			"activity":     f.Activity,
			"goal":         string(res.Goal),
			"calorieNeeds": res.CalorieNeeds,
			"protein":      res.Macros.Protein,
			"fat":          res.Macros.Fat,
			"carbs":        res.Macros.Carbs,
		})
}

// onboardingGoal stores the first body profile for a new user and computes
// their goals from it and the birthday given at signup.
// POST /api/profile/onboarding.
func (h *Handler) onboardingGoal(c *gin.Context) {
	userID := currentUserID(c)

	var body bodyForm
	if err := c.ShouldBind(&body); err != nil {
		apiError(c, http.StatusBadRequest, validationMessage(err))
		return
	}
	heightCM, weightKG, err := body.measurements()
	if goalInputError(c, err) {
		return
	}

	var birthday DateOnly
	err = h.db.QueryRow(c, "SELECT birthday FROM users WHERE id = $1", userID).Scan(&birthday)
	if errors.Is(err, pgx.ErrNoRows) {
		apiError(c, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("[onboardingGoal] birthday lookup failed")
		apiError(c, http.StatusInternalServerError, "failed to load user")
		return
	}

	res, err := h.computeGoals(body.profile(birthday.Time, heightCM, weightKG), "onboarding")
	if goalInputError(c, err) {
		return
	}
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to compute goals")
		return
	}

	p, err := saveProfile(h.db, c, userID, body, heightCM, weightKG, res)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to save profile")
		return
	}
	c.JSON(http.StatusOK, goalsResponse{Profile: p, Goals: res})
}

// updateProfile replaces the user's name, birthday and body profile and
// recomputes their goals. The users and user_profiles writes share one
// transaction so a failure never leaves goals computed from a stale birthday.
// PUT /api/profile.
func (h *Handler) updateProfile(c *gin.Context) {
	userID := currentUserID(c)

	var body updateProfileRequest
	if err := c.ShouldBind(&body); err != nil {
		apiError(c, http.StatusBadRequest, validationMessage(err))
		return
	}
	birthday, err := goals.ParseBirthday(body.Birthday)
	if goalInputError(c, err) {
		return
	}
	heightCM, weightKG, err := body.measurements()
	if goalInputError(c, err) {
		return
	}
	res, err := h.computeGoals(body.profile(birthday, heightCM, weightKG), "profile")
	if goalInputError(c, err) {
		return
	}
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to compute goals")
		return
	}

	var saved userProfile
	err = pgx.BeginFunc(c, h.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(c,
			`UPDATE users SET first_name = @firstName, last_name = @lastName, birthday = @birthday
			 WHERE id = @userID`,
			pgx.NamedArgs{
				"firstName": body.FirstName,
				"lastName":  body.LastName,
				"birthday":  birthday,
				"userID":    userID,
			})
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		saved, err = saveProfile(tx, c, userID, body.bodyForm, heightCM, weightKG, res)
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		apiError(c, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("[updateProfile] transaction failed")
		apiError(c, http.StatusInternalServerError, "failed to update profile")
		return
	}
	c.JSON(http.StatusOK, goalsResponse{Profile: saved, Goals: res})
}

// getProfile returns the user's name, birthday, body profile and stored goals.
// GET /api/profile.
func (h *Handler) getProfile(c *gin.Context) {
	p, err := queryOne[profileResponse](h.db, c,
		`SELECT u.first_name, u.last_name, u.birthday, p.*
		 FROM users u JOIN user_profiles p ON p.user_id = u.id
		 WHERE u.id = @userID`,
		pgx.NamedArgs{"userID": currentUserID(c)})
	if err != nil {
		apiError(c, http.StatusNotFound, "profile not found")
		return
	}
	c.JSON(http.StatusOK, p)
}

// getHome returns what the landing page shows: the first name, the goals, and
// whether onboarding has happened yet.
// GET /api/home.
func (h *Handler) getHome(c *gin.Context) {
	type homeRow struct {
		FirstName string `db:"first_name"`
		userGoals
	}
	row, err := queryOne[homeRow](h.db, c,
		`SELECT u.first_name, p.calorie_needs, p.protein_g, p.fat_g, p.carbs_g
		 FROM users u LEFT JOIN user_profiles p ON p.user_id = u.id
		 WHERE u.id = @userID`,
		pgx.NamedArgs{"userID": currentUserID(c)})
	if err != nil {
		apiError(c, http.StatusNotFound, "user not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"first_name": row.FirstName,
		"goals":      row.userGoals,
		"onboarded":  row.CalorieNeeds != nil,
	})
}

// previewGoals computes goals from the submitted fields without saving them.
// POST /api/goals/preview (public).
func (h *Handler) previewGoals(c *gin.Context) {
	var body previewRequest
	if err := c.ShouldBind(&body); err != nil {
		apiError(c, http.StatusBadRequest, validationMessage(err))
		return
	}
	birthday, err := goals.ParseBirthday(body.Birthday)
	if goalInputError(c, err) {
		return
	}
	heightCM, weightKG, err := body.measurements()
	if goalInputError(c, err) {
		return
	}
	res, err := h.computeGoals(body.profile(birthday, heightCM, weightKG), "preview")
	if goalInputError(c, err) {
		return
	}
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to compute goals")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"goals": res,
		"age":   h.calc.Age(birthday),
	})
}
