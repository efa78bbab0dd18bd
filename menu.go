package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// listRestaurants returns every restaurant, alphabetically.
// GET /api/restaurants.
func (h *Handler) listRestaurants(c *gin.Context) {
	rs, err := queryMany[restaurant](h.db, c, "SELECT * FROM restaurants ORDER BY name", nil)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to load restaurants")
		return
	}
	c.JSON(http.StatusOK, rs)
}

// getRestaurantMenu returns one restaurant and its items.
// GET /api/restaurants/:name/menu.
func (h *Handler) getRestaurantMenu(c *gin.Context) {
	name := c.Param("name")
	r, err := queryOne[restaurant](h.db, c,
		"SELECT * FROM restaurants WHERE name = @name",
		pgx.NamedArgs{"name": name})
	if errors.Is(err, pgx.ErrNoRows) {
		apiError(c, http.StatusNotFound, "restaurant not found")
		return
	}
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to load restaurant")
		return
	}

	items, err := queryMany[menuItem](h.db, c,
		"SELECT * FROM menu_items WHERE restaurant = @name ORDER BY item",
		pgx.NamedArgs{"name": name})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to load menu")
		return
	}
	c.JSON(http.StatusOK, gin.H{"restaurant": r, "items": items})
}

// getMenuItem returns an item's full nutrition next to the caller's goals.
// GET /api/items/:restaurant/:item.
func (h *Handler) getMenuItem(c *gin.Context) {
	item, err := queryOne[menuItem](h.db, c,
		"SELECT * FROM menu_items WHERE restaurant = @restaurant AND item = @item",
		pgx.NamedArgs{"restaurant": c.Param("restaurant"), "item": c.Param("item")})
	if errors.Is(err, pgx.ErrNoRows) {
		apiError(c, http.StatusNotFound, "item not found")
		return
	}
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to load item")
		return
	}

	g, err := h.loadGoals(c, currentUserID(c))
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to load goals")
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item, "goals": g})
}

// loadGoals reads the stored goals; all fields are nil before onboarding.
func (h *Handler) loadGoals(c *gin.Context, userID int) (userGoals, error) {
	g, err := queryOne[userGoals](h.db, c,
		`SELECT calorie_needs, protein_g, fat_g, carbs_g
		 FROM user_profiles WHERE user_id = @userID`,
		pgx.NamedArgs{"userID": userID})
	if errors.Is(err, pgx.ErrNoRows) {
		return userGoals{}, nil
	}
	return g, err
}
