package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"lg/fastfood-nutrition-api/internal/catalog"
)

// search returns the full searchable menu. Clients filter by name locally.
// GET /api/search.
func (h *Handler) search(c *gin.Context) {
	items, err := h.catalog.Items(c)
	if err != nil {
		log.WithError(err).Error("[search] catalog unavailable")
		apiError(c, http.StatusServiceUnavailable, "search is temporarily unavailable")
		return
	}
	c.JSON(http.StatusOK, items)
}

// filter returns the items passing every requested nutrient filter.
// GET /api/filter?filter=calorie,protein (or repeated filter params).
func (h *Handler) filter(c *gin.Context) {
	values, ok := c.GetQueryArray("filter")
	if !ok {
		apiError(c, http.StatusBadRequest, "filter query parameter is required")
		return
	}
	items, err := h.catalog.Items(c)
	if err != nil {
		log.WithError(err).Error("[filter] catalog unavailable")
		apiError(c, http.StatusServiceUnavailable, "search is temporarily unavailable")
		return
	}
	filters := catalog.ParseFilters(values)
	c.JSON(http.StatusOK, gin.H{
		"filters": filters,
		"items":   catalog.Apply(items, filters),
	})
}
