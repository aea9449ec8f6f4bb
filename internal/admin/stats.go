package admin

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/bazaar/internal/catalog"
	"github.com/sudo-init-do/bazaar/internal/errx"
	"github.com/sudo-init-do/bazaar/internal/jobs"
	"github.com/sudo-init-do/bazaar/internal/logx"
	mware "github.com/sudo-init-do/bazaar/internal/middleware"
)

// Handler serves the operator endpoints of the catalog.
type Handler struct {
	Registry *catalog.Registry
	Shuffler *jobs.Shuffler
	Source   catalog.Source
	// Listeners reports open live connections; optional.
	Listeners func(catalog.Vertical) int
}

// Register mounts the routes on a group that already verified the JWT.
// Operators may read stats; every change needs the admin role.
func (h *Handler) Register(g *echo.Group) {
	g.GET("/catalog/stats", h.Stats, mware.RequireRoles("admin", "operator"))
	g.POST("/catalog/:vertical/shuffle", h.Shuffle, mware.AdminGuard)
	g.POST("/catalog/:vertical/reload", h.Reload, mware.AdminGuard)
	g.PUT("/catalog/:vertical/vendors/:id", h.UpsertVendor, mware.AdminGuard)
}

// GET /admin/catalog/stats
func (h *Handler) Stats(c echo.Context) error {
	verticals := make([]echo.Map, 0, len(h.Registry.All()))
	for _, store := range h.Registry.All() {
		snap := store.Snapshot()
		offerings := 0
		for _, v := range snap.Vendors {
			offerings += len(v.Offerings)
		}
		row := echo.Map{
			"vertical":  snap.Vertical,
			"version":   snap.Version,
			"vendors":   len(snap.Vendors),
			"offerings": offerings,
		}
		if h.Listeners != nil {
			row["listeners"] = h.Listeners(snap.Vertical)
		}
		verticals = append(verticals, row)
	}
	return c.JSON(http.StatusOK, echo.Map{"verticals": verticals})
}

// POST /admin/catalog/:vertical/shuffle?seed=
func (h *Handler) Shuffle(c echo.Context) error {
	store, ok := h.Registry.Lookup(c.Param("vertical"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown vertical"})
	}
	var seed int64
	if s := c.QueryParam("seed"); s != "" {
		var err error
		if seed, err = strconv.ParseInt(s, 10, 64); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seed"})
		}
	}
	if err := h.Shuffler.Shuffle(store.Vertical(), seed); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": errx.SystemErrorMessage})
	}
	logx.Info().Str("vertical", string(store.Vertical())).Interface("by", c.Get("user_id")).Msg("catalog shuffled by admin")
	return c.JSON(http.StatusOK, echo.Map{
		"vertical": store.Vertical(),
		"version":  store.Snapshot().Version,
	})
}

// POST /admin/catalog/:vertical/reload
func (h *Handler) Reload(c echo.Context) error {
	store, ok := h.Registry.Lookup(c.Param("vertical"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown vertical"})
	}
	next, err := store.Reload(c.Request().Context(), h.Source)
	if err != nil {
		logx.Error().Err(err).Str("vertical", string(store.Vertical())).Msg("catalog reload failed")
		status, msg := errx.Status(err)
		return c.JSON(status, echo.Map{"error": msg})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"vertical": next.Vertical,
		"version":  next.Version,
		"vendors":  len(next.Vendors),
	})
}
