package notepad

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/sudo-init-do/bazaar/internal/errx"
	"github.com/sudo-init-do/bazaar/internal/logx"
)

type Handler struct {
	Service *Service
}

type noteRequest struct {
	Text   string              `json:"text"`
	Amount decimal.NullDecimal `json:"amount"`
}

func (h *Handler) Register(g *echo.Group) {
	g.GET("/:page", h.List)
	g.POST("/:page", h.Add)
	g.DELETE("/:page", h.Clear)
	g.GET("/:page/export.pdf", h.Export)
	g.PATCH("/:page/:id", h.Edit)
	g.DELETE("/:page/:id", h.Delete)
}

func fail(c echo.Context, err error) error {
	status, msg := errx.Status(err)
	if status >= http.StatusInternalServerError {
		logx.Error().Err(err).Str("path", c.Path()).Msg("notepad request failed")
	}
	return c.JSON(status, echo.Map{"error": msg})
}

// List - notes of a page with their total
func (h *Handler) List(c echo.Context) error {
	page, err := PageKey(c.Param("page"))
	if err != nil {
		return fail(c, err)
	}
	entries, err := h.Service.List(c.Request().Context(), page)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"page":    page,
		"entries": entries,
		"total":   Total(entries),
	})
}

// Add - append a note
func (h *Handler) Add(c echo.Context) error {
	page, err := PageKey(c.Param("page"))
	if err != nil {
		return fail(c, err)
	}
	var req noteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	entry, err := h.Service.Add(c.Request().Context(), page, req.Text, req.Amount)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"entry": entry})
}

// Edit - replace the text and amount of a note
func (h *Handler) Edit(c echo.Context) error {
	page, err := PageKey(c.Param("page"))
	if err != nil {
		return fail(c, err)
	}
	var req noteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	entry, err := h.Service.Edit(c.Request().Context(), page, c.Param("id"), req.Text, req.Amount)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"entry": entry})
}

func (h *Handler) Delete(c echo.Context) error {
	page, err := PageKey(c.Param("page"))
	if err != nil {
		return fail(c, err)
	}
	if err := h.Service.Delete(c.Request().Context(), page, c.Param("id")); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "note deleted"})
}

func (h *Handler) Clear(c echo.Context) error {
	page, err := PageKey(c.Param("page"))
	if err != nil {
		return fail(c, err)
	}
	if err := h.Service.Clear(c.Request().Context(), page); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "notepad cleared"})
}

// Export - notes of a page as a PDF download
func (h *Handler) Export(c echo.Context) error {
	page, err := PageKey(c.Param("page"))
	if err != nil {
		return fail(c, err)
	}
	entries, err := h.Service.List(c.Request().Context(), page)
	if err != nil {
		return fail(c, err)
	}
	doc, err := ExportPDF(page, entries, time.Now())
	if err != nil {
		return fail(c, errx.New(err, http.StatusInternalServerError, errx.ExportFailedMessage))
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="notepad-`+page+`.pdf"`)
	return c.Blob(http.StatusOK, "application/pdf", doc)
}
