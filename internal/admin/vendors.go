package admin

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/bazaar/internal/catalog"
	"github.com/sudo-init-do/bazaar/internal/logx"
)

// PUT /admin/catalog/:vertical/vendors/:id
// Replaces the vendor in place or appends it. The change lives in memory
// until the next reload from the catalog source.
func (h *Handler) UpsertVendor(c echo.Context) error {
	store, ok := h.Registry.Lookup(c.Param("vertical"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown vertical"})
	}

	var v catalog.Vendor
	if err := c.Bind(&v); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	id := c.Param("id")
	if v.ID != "" && v.ID != id {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "vendor id does not match path"})
	}
	v.ID = id
	if strings.TrimSpace(v.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	seen := map[string]bool{}
	for _, o := range v.Offerings {
		if o.ID == "" || strings.TrimSpace(o.Name) == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "offering id and name are required"})
		}
		if o.Price.Amount.IsNegative() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "offering price must not be negative"})
		}
		if seen[o.ID] {
			return c.JSON(http.StatusConflict, echo.Map{"error": "duplicate offering id " + o.ID})
		}
		seen[o.ID] = true
		if owner, _, found := store.Offering(o.ID); found && owner.ID != id {
			return c.JSON(http.StatusConflict, echo.Map{"error": "offering id " + o.ID + " belongs to another vendor"})
		}
	}

	next := store.Dispatch(catalog.Upsert{Vendor: v})
	saved, _ := store.Vendor(id)
	logx.Info().Str("vertical", string(next.Vertical)).Str("vendor", id).Interface("by", c.Get("user_id")).Msg("vendor upserted by admin")
	return c.JSON(http.StatusOK, echo.Map{
		"vertical": next.Vertical,
		"version":  next.Version,
		"vendor":   saved,
	})
}
