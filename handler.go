package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"

	"lg/fastfood-nutrition-api/internal/catalog"
	"lg/fastfood-nutrition-api/internal/goals"
)

// Handler holds shared dependencies (db pool, calculator, search cache) for all route handlers.
type Handler struct {
	db      *pgxpool.Pool
	calc    *goals.Calculator
	catalog *catalog.Cache
}

/* ─── Database helpers ────────────────────────────────────────────────── */

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so the helpers below
// work inside and outside a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// queryOne runs a query and scans the first row into T using RowToStructByName.
// Logs query and scan errors for debugging (e.g. struct/column mismatches);
// pgx.ErrNoRows is returned quietly since callers map it to a 404.
func queryOne[T any](q querier, ctx context.Context, sql string, args pgx.NamedArgs) (T, error) {
	rows, err := q.Query(ctx, sql, args)
	if err != nil {
		log.WithError(err).Error("[queryOne] query failed")
		var zero T
		return zero, err
	}
	result, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		log.WithError(err).Error("[queryOne] scan failed")
	}
	return result, err
}

// queryMany runs a query and scans all rows into []T using RowToStructByName.
func queryMany[T any](q querier, ctx context.Context, sql string, args pgx.NamedArgs) ([]T, error) {
	rows, err := q.Query(ctx, sql, args)
	if err != nil {
		log.WithError(err).Error("[queryMany] query failed")
		return nil, err
	}
	results, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		log.WithError(err).Error("[queryMany] scan failed")
	}
	return results, err
}

// apiError returns a consistent JSON error response: {"error": "message"}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// currentUserID reads the id set by authMiddleware.
func currentUserID(c *gin.Context) int {
	return c.GetInt("user_id")
}

/* ─── Server setup ────────────────────────────────────────────────────── */

// getDBPool creates a connection pool. We use a pool (not a single conn) because
// Neon closes idle connections after ~5 minutes.
func getDBPool(ctx context.Context, url string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, err
	}
	// Use simple query protocol to avoid "cached plan must not change result type"
	// errors from Neon's server-side prepared statement cache after schema changes.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	return pgxpool.NewWithConfig(ctx, config)
}

// loadSearchItems is the catalog.Loader backed by menu_items.
func (h *Handler) loadSearchItems(ctx context.Context) ([]catalog.SearchItem, error) {
	return queryMany[catalog.SearchItem](h.db, ctx,
		`SELECT id, restaurant, item, calories, total_fat, total_carb, protein
		 FROM menu_items ORDER BY restaurant, item`, nil)
}

// registerRoutes registers all API routes on the router.
func (h *Handler) registerRoutes(router *gin.Engine, metricsEnabled bool) {
	router.GET("/healthz", h.healthz)
	if metricsEnabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// Public routes
	router.POST("/api/signup", h.signup)
	router.POST("/api/login", h.login)
	router.POST("/api/goals/preview", h.previewGoals)
	router.GET("/api/restaurants", h.listRestaurants)
	router.GET("/api/restaurants/:name/menu", h.getRestaurantMenu)
	router.GET("/api/search", h.search)
	router.GET("/api/filter", h.filter)

	// Authenticated routes
	api := router.Group("/api", h.authMiddleware())
	api.POST("/logout", h.logout)
	api.GET("/home", h.getHome)
	api.GET("/profile", h.getProfile)
	api.PUT("/profile", h.updateProfile)
	api.POST("/profile/onboarding", h.onboardingGoal)
	api.GET("/items/:restaurant/:item", h.getMenuItem)
	api.GET("/compare", h.getCompare)
	api.POST("/compare", h.addCompareItem)
	api.DELETE("/compare/:id", h.removeCompareItem)
}

// healthz pings the database; the search snapshot age is reported for operators.
func (h *Handler) healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, 2*time.Second)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		apiError(c, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "catalog_loaded_at": h.catalog.LoadedAt()})
}

/* ─── Middleware ──────────────────────────────────────────────────────── */

// corsMiddleware adapts rs/cors to gin. Preflight requests are answered here
// and never reach the route handlers.
func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	policy := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           600,
	})
	return func(c *gin.Context) {
		policy.HandlerFunc(c.Writer, c.Request)
		if c.Request.Method == http.MethodOptions && c.GetHeader("Access-Control-Request-Method") != "" {
			if c.Writer.Written() {
				c.Abort()
			} else {
				c.AbortWithStatus(http.StatusNoContent)
			}
			return
		}
		c.Next()
	}
}

// requestLogger writes one structured line per request.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		entry := log.WithFields(log.Fields{
			"method":  c.Request.Method,
			"path":    c.FullPath(),
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		})
		if id, ok := c.Get("user_id"); ok {
			entry = entry.WithField("user_id", id)
		}
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			entry.Error("request")
		case c.Writer.Status() >= http.StatusBadRequest:
			entry.Warn("request")
		default:
			entry.Info("request")
		}
	}
}
