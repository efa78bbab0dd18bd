package main

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
)

// maxCompareItems is how many items fit side by side on the compare page.
const maxCompareItems = 2

var (
	errCompareFull   = errors.New("compare list is full")
	errUnknownItem   = errors.New("menu item not found")
	errAlreadyListed = errors.New("item already in compare list")
)

// compareItems returns the caller's compare list, oldest first.
func compareItems(q querier, ctx context.Context, userID int) ([]menuItem, error) {
	return queryMany[menuItem](q, ctx,
		`SELECT m.* FROM compare_items ci
		 JOIN menu_items m ON m.id = ci.menu_item_id
		 WHERE ci.user_id = @userID
		 ORDER BY ci.added_at, m.id`,
		pgx.NamedArgs{"userID": userID})
}

// getCompare returns the compare list next to the caller's goals.
// GET /api/compare.
func (h *Handler) getCompare(c *gin.Context) {
	userID := currentUserID(c)
	items, err := compareItems(h.db, c, userID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to load compare list")
		return
	}
	g, err := h.loadGoals(c, userID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to load goals")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "goals": g})
}

// addCompareItem adds a menu item to the compare list. Adding an item that is
// already listed is a no-op. The user row is locked for the duration so two
// concurrent adds cannot both pass the size check.
// POST /api/compare.
func (h *Handler) addCompareItem(c *gin.Context) {
	userID := currentUserID(c)

	var body compareRequest
	if err := c.ShouldBind(&body); err != nil {
		apiError(c, http.StatusBadRequest, validationMessage(err))
		return
	}

	var items []menuItem
	err := pgx.BeginFunc(c, h.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(c, "SELECT id FROM users WHERE id = $1 FOR UPDATE", userID); err != nil {
			return err
		}

		var exists bool
		err := tx.QueryRow(c, "SELECT EXISTS(SELECT 1 FROM menu_items WHERE id = $1)", body.MenuItemID).Scan(&exists)
		if err != nil {
			return err
		}
		if !exists {
			return errUnknownItem
		}

		current, err := compareItems(tx, c, userID)
		if err != nil {
			return err
		}
		if err := decideCompareAdd(current, body.MenuItemID); err != nil {
			items = current
			return err
		}

		_, err = tx.Exec(c,
			"INSERT INTO compare_items (user_id, menu_item_id, added_at) VALUES (@userID, @itemID, NOW())",
			pgx.NamedArgs{"userID": userID, "itemID": body.MenuItemID})
		if err != nil {
			return err
		}
		items, err = compareItems(tx, c, userID)
		return err
	})

	status, message := compareAddStatus(err)
	if status == http.StatusInternalServerError {
		log.WithError(err).WithField("user_id", userID).Error("[addCompareItem] failed")
	}
	if message != "" {
		apiError(c, status, message)
		return
	}
	c.JSON(status, gin.H{"items": items})
}

// decideCompareAdd checks whether itemID may join a list that currently holds
// current. Re-adding a listed item is reported as errAlreadyListed.
func decideCompareAdd(current []menuItem, itemID int) error {
	for _, it := range current {
		if it.ID == itemID {
			return errAlreadyListed
		}
	}
	if len(current) >= maxCompareItems {
		return errCompareFull
	}
	return nil
}

// compareAddStatus maps the outcome of an add to a status code. message is
// empty when the response carries the list instead of an error.
func compareAddStatus(err error) (status int, message string) {
	switch {
	case err == nil:
		return http.StatusCreated, ""
	case errors.Is(err, errAlreadyListed):
		return http.StatusOK, ""
	case errors.Is(err, errUnknownItem):
		return http.StatusNotFound, "item not found"
	case errors.Is(err, errCompareFull):
		return http.StatusConflict, "you can only compare two items at a time"
	default:
		return http.StatusInternalServerError, "failed to update compare list"
	}
}

// removeCompareItem drops one item from the compare list.
// DELETE /api/compare/:id.
func (h *Handler) removeCompareItem(c *gin.Context) {
	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil || itemID < 1 {
		apiError(c, http.StatusBadRequest, "invalid id")
		return
	}

	tag, err := h.db.Exec(c,
		"DELETE FROM compare_items WHERE user_id = @userID AND menu_item_id = @itemID",
		pgx.NamedArgs{"userID": currentUserID(c), "itemID": itemID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to update compare list")
		return
	}
	if tag.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "item not in compare list")
		return
	}
	c.Status(http.StatusNoContent)
}
