package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"lg/fastfood-nutrition-api/internal/goals"
)

// dummyHash is a pre-computed bcrypt hash used when a login username isn't found.
// Running bcrypt against it (instead of returning early) keeps response time
// constant, preventing timing-based username enumeration.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy"), bcrypt.DefaultCost)

// errDuplicate carries the message shown when a unique column is already taken.
type errDuplicate struct{ message string }

func (e errDuplicate) Error() string { return e.message }

// duplicateMessage reports whether err means the username or email is taken,
// either from the pre-insert checks or from a unique violation when a
// concurrent signup won the race.
func duplicateMessage(err error) (string, bool) {
	var dup errDuplicate
	if errors.As(err, &dup) {
		return dup.message, true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch {
		case strings.Contains(pgErr.ConstraintName, "email"):
			return "Email already exists", true
		case strings.Contains(pgErr.ConstraintName, "username"):
			return "Username is already taken", true
		}
	}
	return "", false
}

// signup creates an account and an empty profile row, then returns the auth
// token so the client can go straight to onboarding.
// POST /api/signup (public).
func (h *Handler) signup(c *gin.Context) {
	var body signupRequest
	if err := c.ShouldBind(&body); err != nil {
		apiError(c, http.StatusBadRequest, validationMessage(err))
		return
	}
	birthday, err := goals.ParseBirthday(body.Birthday)
	if goalInputError(c, err) {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to hash password")
		return
	}
	token := uuid.NewString()

	var userID int
	err = pgx.BeginFunc(c, h.db, func(tx pgx.Tx) error {
		var taken bool
		err := tx.QueryRow(c, "SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)", body.Username).Scan(&taken)
		if err != nil {
			return err
		}
		if taken {
			return errDuplicate{"Username is already taken"}
		}
		err = tx.QueryRow(c, "SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)", body.Email).Scan(&taken)
		if err != nil {
			return err
		}
		if taken {
			return errDuplicate{"Email already exists"}
		}

		err = tx.QueryRow(c,
			`INSERT INTO users (username, first_name, last_name, email, birthday, password, auth_token)
			 VALUES (@username, @firstName, @lastName, @email, @birthday, @password, @token)
			 RETURNING id`,
			pgx.NamedArgs{
				"username":  body.Username,
				"firstName": body.FirstName,
				"lastName":  body.LastName,
				"email":     body.Email,
				"birthday":  birthday,
				"password":  string(hash),
				"token":     token,
			}).Scan(&userID)
		if err != nil {
			return err
		}
		_, err = tx.Exec(c, "INSERT INTO user_profiles (user_id) VALUES ($1)", userID)
		return err
	})

	if msg, ok := duplicateMessage(err); ok {
		apiError(c, http.StatusBadRequest, msg)
		return
	}
	if err != nil {
		log.WithError(err).Error("[signup] failed to create user")
		apiError(c, http.StatusInternalServerError, "failed to create user")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token, "user_id": userID})
}

// login verifies username/password and returns the user's auth token.
// POST /api/login (public).
func (h *Handler) login(c *gin.Context) {
	var body struct {
		Username string `json:"username" form:"username"`
		Password string `json:"password" form:"password"`
	}
	if err := c.ShouldBind(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	u, lookupErr := queryOne[user](h.db, c,
		"SELECT * FROM users WHERE username = @username",
		pgx.NamedArgs{"username": body.Username})

	// Always run bcrypt to keep response time constant regardless of whether the
	// username was found.
	hashToCheck := string(dummyHash)
	if lookupErr == nil {
		hashToCheck = u.Password
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(hashToCheck), []byte(body.Password))

	if lookupErr != nil || compareErr != nil {
		apiError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": u.AuthToken, "user_id": u.ID})
}

// logout rotates the caller's token, invalidating every client holding the old one.
// POST /api/logout.
func (h *Handler) logout(c *gin.Context) {
	_, err := h.db.Exec(c, "UPDATE users SET auth_token = $1 WHERE id = $2", uuid.NewString(), currentUserID(c))
	if err != nil {
		log.WithError(err).Error("[logout] token rotation failed")
		apiError(c, http.StatusInternalServerError, "failed to log out")
		return
	}
	c.Status(http.StatusNoContent)
}

// authMiddleware validates the Bearer token and sets user_id on the context.
func (h *Handler) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			apiError(c, http.StatusUnauthorized, "missing or invalid authorization header")
			c.Abort()
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")

		var userID int
		err := h.db.QueryRow(c, "SELECT id FROM users WHERE auth_token = $1", token).Scan(&userID)
		if err != nil {
			apiError(c, http.StatusUnauthorized, "invalid token")
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}
