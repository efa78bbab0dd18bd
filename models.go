package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"lg/fastfood-nutrition-api/internal/goals"
)

// DateOnly wraps time.Time to serialize as "YYYY-MM-DD" in JSON.
type DateOnly struct{ time.Time }

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time.Format("2006-01-02") + `"`), nil
}

func (d *DateOnly) UnmarshalJSON(b []byte) error {
	t, err := time.Parse(`"2006-01-02"`, string(b))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// ScanDate implements pgtype.DateScanner so pgx can scan PostgreSQL date
// columns (OID 1082) into DateOnly. NULL values zero the time and return nil
// so that *DateOnly pointer fields can be set to nil by pgx's NULL handling.
func (d *DateOnly) ScanDate(v pgtype.Date) error {
	if !v.Valid {
		d.Time = time.Time{}
		return nil
	}
	d.Time = v.Time
	return nil
}

// numericField accepts a JSON number, a JSON string or a form value and keeps
// the raw text; goals.ParseMeasurement does the conversion so that every
// entry point reports bad input the same way.
type numericField string

func (n *numericField) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*n = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = numericField(s)
	default:
		var num json.Number
		if err := json.Unmarshal(b, &num); err != nil {
			return fmt.Errorf("expected a number or numeric string: %w", err)
		}
		*n = numericField(num)
	}
	return nil
}

// UnmarshalParam implements gin's binding.BindUnmarshaler for form values.
func (n *numericField) UnmarshalParam(param string) error {
	*n = numericField(param)
	return nil
}

/* ─── Domain structs ─────────────────────────────────────────────────── */

// user maps to the users table. AuthToken and Password are hidden from JSON responses.
type user struct {
	ID        int        `json:"id"         db:"id"`
	Username  string     `json:"username"   db:"username"`
	FirstName string     `json:"first_name" db:"first_name"`
	LastName  string     `json:"last_name"  db:"last_name"`
	Email     string     `json:"email"      db:"email"`
	Birthday  DateOnly   `json:"birthday"   db:"birthday"`
	AuthToken string     `json:"-"          db:"auth_token"`
	Password  string     `json:"-"          db:"password"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// userProfile maps to user_profiles. Body fields stay NULL until onboarding;
// the goal columns hold the last computed result.
type userProfile struct {
	UserID        int        `json:"user_id"        db:"user_id"`
	Sex           *string    `json:"sex"            db:"sex"`
	HeightCM      *float64   `json:"height_cm"      db:"height_cm"`
	WeightKG      *float64   `json:"weight_kg"      db:"weight_kg"`
	ActivityLevel *string    `json:"activity_level" db:"activity_level"`
	Goal          *string    `json:"goal"           db:"goal"`
	CalorieNeeds  *int       `json:"calorie_needs"  db:"calorie_needs"`
	ProteinG      *int       `json:"protein_g"      db:"protein_g"`
	FatG          *int       `json:"fat_g"          db:"fat_g"`
	CarbsG        *int       `json:"carbs_g"        db:"carbs_g"`
	UpdatedAt     *time.Time `json:"updated_at"     db:"updated_at"`
}

// profileResponse is the GET /api/profile shape: the user's name and birthday
// alongside their profile row.
type profileResponse struct {
	FirstName string   `json:"first_name" db:"first_name"`
	LastName  string   `json:"last_name"  db:"last_name"`
	Birthday  DateOnly `json:"birthday"   db:"birthday"`
	userProfile
}

// userGoals is the goal projection shown next to menu items and comparisons.
type userGoals struct {
	CalorieNeeds *int `json:"calorie_needs" db:"calorie_needs"`
	ProteinG     *int `json:"protein_g"     db:"protein_g"`
	FatG         *int `json:"fat_g"         db:"fat_g"`
	CarbsG       *int `json:"carbs_g"       db:"carbs_g"`
}

// restaurant maps to the restaurants table.
type restaurant struct {
	ID      int     `json:"id"       db:"id"`
	Name    string  `json:"name"     db:"name"`
	LogoURL *string `json:"logo_url" db:"logo_url"`
	Website *string `json:"website"  db:"website"`
}

// menuItem maps to menu_items. Vitamin A, vitamin C and calcium are NULL
// where the source data had "NA".
type menuItem struct {
	ID          int      `json:"id"          db:"id"`
	Restaurant  string   `json:"restaurant"  db:"restaurant"`
	Item        string   `json:"item"        db:"item"`
	Calories    int      `json:"calories"    db:"calories"`
	CalFat      float64  `json:"cal_fat"     db:"cal_fat"`
	TotalFat    float64  `json:"total_fat"   db:"total_fat"`
	SatFat      float64  `json:"sat_fat"     db:"sat_fat"`
	TransFat    float64  `json:"trans_fat"   db:"trans_fat"`
	Cholesterol float64  `json:"cholesterol" db:"cholesterol"`
	Sodium      float64  `json:"sodium"      db:"sodium"`
	TotalCarb   float64  `json:"total_carb"  db:"total_carb"`
	Fiber       float64  `json:"fiber"       db:"fiber"`
	Sugar       float64  `json:"sugar"       db:"sugar"`
	Protein     float64  `json:"protein"     db:"protein"`
	VitA        *float64 `json:"vit_a"       db:"vit_a"`
	VitC        *float64 `json:"vit_c"       db:"vit_c"`
	Calcium     *float64 `json:"calcium"     db:"calcium"`
}

/* ─── Request bodies ─────────────────────────────────────────────────── */

// signupRequest is the body for POST /api/signup.
type signupRequest struct {
	Username  string `json:"username"   form:"username"   binding:"required,alphanum,max=20"`
	FirstName string `json:"first_name" form:"first_name" binding:"required,max=20"`
	LastName  string `json:"last_name"  form:"last_name"  binding:"required,max=20"`
	Email     string `json:"email"      form:"email"      binding:"required,max=30"`
	Birthday  string `json:"birthday"   form:"birthday"   binding:"required,datetime=2006-01-02"`
	Password  string `json:"password"   form:"password"   binding:"required,max=20"`
}

// bodyForm holds the body-profile fields submitted at onboarding, on profile
// update and for a goal preview. Height and weight arrive as strings from
// HTML forms and as numbers from JSON clients.
type bodyForm struct {
	Sex      string       `json:"sex"      form:"sex"`
	Height   numericField `json:"height"   form:"height"`
	Weight   numericField `json:"weight"   form:"weight"`
	Activity string       `json:"activity" form:"activity"`
	Goal     string       `json:"goal"     form:"goal"`
}

// updateProfileRequest is the body for PUT /api/profile.
type updateProfileRequest struct {
	FirstName string `json:"first_name" form:"first_name" binding:"required,max=20"`
	LastName  string `json:"last_name"  form:"last_name"  binding:"required,max=20"`
	Birthday  string `json:"birthday"   form:"birthday"   binding:"required"`
	bodyForm
}

// previewRequest is the body for POST /api/goals/preview.
type previewRequest struct {
	Birthday string `json:"birthday" form:"birthday" binding:"required"`
	bodyForm
}

// goalsResponse pairs a stored profile with the freshly computed result.
type goalsResponse struct {
	Profile userProfile  `json:"profile"`
	Goals   goals.Result `json:"goals"`
}

// compareRequest is the body for POST /api/compare.
type compareRequest struct {
	MenuItemID int `json:"menu_item_id" form:"menu_item_id" binding:"required,min=1"`
}
