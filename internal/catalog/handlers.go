package catalog

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// Handler serves the read side of the catalog pages.
type Handler struct {
	Registry     *Registry
	DefaultLimit int
	MaxLimit     int
}

// Register mounts the catalog routes on g.
func (h *Handler) Register(g *echo.Group) {
	g.GET("/:vertical/vendors", h.ListVendors)
	g.GET("/:vertical/vendors/:id", h.GetVendor)
	g.GET("/:vertical/offerings/:id", h.GetOffering)
	g.GET("/:vertical/facets", h.GetFacets)
}

// ListVendors - filtered, sorted and windowed vendors of one vertical
func (h *Handler) ListVendors(c echo.Context) error {
	store, ok := h.Registry.Lookup(c.Param("vertical"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown vertical"})
	}

	f, err := ParseFilter(c.QueryParams().Get)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	offset, limit, err := h.window(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	snap := store.Snapshot()
	page := Window(Apply(snap.Vendors, f), offset, limit)

	return c.JSON(http.StatusOK, echo.Map{
		"vertical": snap.Vertical,
		"version":  snap.Version,
		"vendors":  page.Vendors,
		"pagination": echo.Map{
			"offset":      page.Offset,
			"limit":       page.Limit,
			"total":       page.Total,
			"has_more":    page.HasMore,
			"next_offset": page.NextOffset,
		},
	})
}

func (h *Handler) window(c echo.Context) (offset, limit int, err error) {
	limit = h.DefaultLimit
	if s := c.QueryParam("offset"); s != "" {
		if offset, err = strconv.Atoi(s); err != nil || offset < 0 {
			return 0, 0, errBadParam("offset")
		}
	}
	if s := c.QueryParam("limit"); s != "" {
		if limit, err = strconv.Atoi(s); err != nil || limit < 1 {
			return 0, 0, errBadParam("limit")
		}
	}
	if h.MaxLimit > 0 && limit > h.MaxLimit {
		limit = h.MaxLimit
	}
	return offset, limit, nil
}

type paramError string

func (e paramError) Error() string { return "invalid " + string(e) }

func errBadParam(name string) error { return paramError(name) }

// ParseFilter builds a Filter from query values. get is usually
// url.Values.Get.
func ParseFilter(get func(string) string) (Filter, error) {
	f := Filter{
		Search:      get("q"),
		Category:    get("category"),
		Subcategory: get("subcategory"),
		Gender:      get("gender"),
		Brand:       get("brand"),
	}

	var err error
	if f.Sort, err = ParseSortOrder(get("sort")); err != nil {
		return Filter{}, errBadParam("sort")
	}
	if f.Flag, err = ParseFlag(get("flag")); err != nil {
		return Filter{}, errBadParam("flag")
	}
	if f.MinPrice, err = parseBound(get("min_price")); err != nil {
		return Filter{}, errBadParam("min_price")
	}
	if f.MaxPrice, err = parseBound(get("max_price")); err != nil {
		return Filter{}, errBadParam("max_price")
	}
	if f.MinPrice.Valid && f.MaxPrice.Valid && f.MinPrice.Decimal.GreaterThan(f.MaxPrice.Decimal) {
		return Filter{}, errBadParam("price range")
	}
	if s := get("in_stock"); s != "" {
		if f.InStockOnly, err = strconv.ParseBool(s); err != nil {
			return Filter{}, errBadParam("in_stock")
		}
	}
	return f, nil
}

func parseBound(s string) (decimal.NullDecimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

// GetVendor - vendor detail with every offering
func (h *Handler) GetVendor(c echo.Context) error {
	store, ok := h.Registry.Lookup(c.Param("vertical"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown vertical"})
	}
	v, ok := store.Vendor(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "vendor not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"vendor": v})
}

// GetOffering - offering detail with its vendor summary and deal state
func (h *Handler) GetOffering(c echo.Context) error {
	store, ok := h.Registry.Lookup(c.Param("vertical"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown vertical"})
	}
	v, o, ok := store.Offering(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "offering not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"offering":         o,
		"discount_percent": o.DiscountPercent(),
		"deal_active":      o.DealActive(time.Now()),
		"vendor": echo.Map{
			"id":       v.ID,
			"name":     v.Name,
			"location": v.Location,
			"contact":  v.Contact,
			"verified": v.Verified,
		},
	})
}

// GetFacets - filter controls for a vertical page
func (h *Handler) GetFacets(c echo.Context) error {
	store, ok := h.Registry.Lookup(c.Param("vertical"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown vertical"})
	}
	return c.JSON(http.StatusOK, BuildFacets(store.Snapshot().Vendors))
}
