package roster

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type Handler struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHandler(svc *Service, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger.With().Str("component", "roster").Logger()}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/patients", h.List)
	api.DELETE("/patients/:id", h.Delete)
	api.GET("/patients/export", h.Export)
}

// List returns the roster with dashboard stats. An optional ?search= term
// narrows the rows; stats always cover the full roster.
func (h *Handler) List(c echo.Context) error {
	ov, err := h.svc.Overview(c.Request().Context(), c.QueryParam("search"))
	if err != nil {
		h.logger.Error().Err(err).Msg("roster load failed")
		return echo.NewHTTPError(http.StatusBadGateway, "failed to load patients")
	}
	return c.JSON(http.StatusOK, ov)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		h.logger.Error().Err(err).Int64("patient_id", id).Msg("delete failed")
		return echo.NewHTTPError(http.StatusBadGateway, "failed to delete patient")
	}
	return c.NoContent(http.StatusNoContent)
}

// Export streams the roster as an .xlsx workbook, honoring the same
// ?search= filter as the listing.
func (h *Handler) Export(c echo.Context) error {
	ov, err := h.svc.Overview(c.Request().Context(), c.QueryParam("search"))
	if err != nil {
		h.logger.Error().Err(err).Msg("roster export failed")
		return echo.NewHTTPError(http.StatusBadGateway, "failed to load patients")
	}
	f, err := ExportXLSX(ov.Patients)
	if err != nil {
		h.logger.Error().Err(err).Msg("workbook build failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to build export")
	}
	defer f.Close()

	name := "patients-" + time.Now().Format("2006-01-02") + ".xlsx"
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	c.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().WriteHeader(http.StatusOK)
	return f.Write(c.Response())
}
