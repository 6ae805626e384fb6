package appointment

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/careops/careops/internal/platform/auth"
	"github.com/careops/careops/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/appointments")
	g.POST("", h.Schedule, auth.RequireCapability(auth.CapAppointmentWrite))
	g.GET("/:id", h.Get, auth.RequireCapability(auth.CapAppointmentRead))
	g.POST("/:id/complete", h.Complete, auth.RequireCapability(auth.CapAppointmentWrite))
	g.POST("/:id/cancel", h.Cancel, auth.RequireCapability(auth.CapAppointmentWrite))
	g.POST("/:id/no-show", h.NoShow, auth.RequireCapability(auth.CapAppointmentWrite))
	api.GET("/patients/:patientId/appointments", h.ListByPatient,
		auth.RequireCapability(auth.CapAppointmentRead))
}

func (h *Handler) Schedule(c echo.Context) error {
	identity := auth.IdentityFromContext(c.Request().Context())
	if identity == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	var a Appointment
	if err := c.Bind(&a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Schedule(c.Request().Context(), identity, &a); err != nil {
		if errors.Is(err, ErrOverlap) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) Get(c echo.Context) error {
	identity := auth.IdentityFromContext(c.Request().Context())
	if identity == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := h.svc.Get(c.Request().Context(), identity, id)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, a)
}

type completeRequest struct {
	Notes *string `json:"notes,omitempty"`
}

func (h *Handler) Complete(c echo.Context) error {
	identity := auth.IdentityFromContext(c.Request().Context())
	if identity == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req completeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a, err := h.svc.Complete(c.Request().Context(), identity, id, req.Notes)
	return h.respond(c, a, err)
}

func (h *Handler) Cancel(c echo.Context) error {
	identity := auth.IdentityFromContext(c.Request().Context())
	if identity == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := h.svc.Cancel(c.Request().Context(), identity, id)
	return h.respond(c, a, err)
}

func (h *Handler) NoShow(c echo.Context) error {
	identity := auth.IdentityFromContext(c.Request().Context())
	if identity == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := h.svc.MarkNoShow(c.Request().Context(), identity, id)
	return h.respond(c, a, err)
}

func (h *Handler) respond(c echo.Context, a *Appointment, err error) error {
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) ListByPatient(c echo.Context) error {
	identity := auth.IdentityFromContext(c.Request().Context())
	if identity == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	patientID, err := uuid.Parse(c.Param("patientId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	p := pagination.FromContext(c)
	appointments, total, err := h.svc.ListByPatient(c.Request().Context(), identity, patientID, p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(appointments, total, p.Limit, p.Offset))
}
