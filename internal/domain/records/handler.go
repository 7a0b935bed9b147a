package records

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Handler exposes the record editor over HTTP: loading the editor form for an
// existing patient and saving a created or edited record. Each request gets
// its own orchestrator; form state is never shared between requests.
type Handler struct {
	patients  PatientAPI
	addresses AddressAPI
	details   DetailAPI
	logger    zerolog.Logger
}

func NewHandler(patients PatientAPI, addresses AddressAPI, details DetailAPI, logger zerolog.Logger) *Handler {
	return &Handler{patients: patients, addresses: addresses, details: details, logger: logger}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/records/new", h.NewRecord)
	api.GET("/records/:id", h.LoadRecord)
	api.POST("/records", h.SaveRecord)
}

func (h *Handler) newOrchestrator() *Orchestrator {
	return NewOrchestrator(h.patients, h.addresses, h.details, h.logger)
}

// NewRecord returns the empty create-mode form.
func (h *Handler) NewRecord(c echo.Context) error {
	o := h.newOrchestrator()
	return c.JSON(http.StatusOK, o.Form())
}

// LoadRecord returns the populated edit-mode form for a patient.
func (h *Handler) LoadRecord(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	o := h.newOrchestrator()
	if err := o.Load(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, o.Form())
}

// saveResponse wraps a save outcome or its validation errors.
type saveResponse struct {
	Result *SaveResult       `json:"result,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

// SaveRecord validates and persists a submitted editor form.
func (h *Handler) SaveRecord(c echo.Context) error {
	var form FormState
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	o := h.newOrchestrator()
	o.SetForm(form)

	res, err := o.Save(c.Request().Context())
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			return c.JSON(http.StatusUnprocessableEntity, saveResponse{Errors: verr.Fields})
		}
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}

	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	return c.JSON(status, saveResponse{Result: res})
}
