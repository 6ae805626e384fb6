package laborder

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
	g := api.Group("/lab-orders")
	g.POST("", h.Create, auth.RequireCapability(auth.CapLabOrderWrite))
	g.GET("/:id", h.Get, auth.RequireCapability(auth.CapLabOrderRead))
	g.POST("/:id/collect", h.Collect, auth.RequireCapability(auth.CapLabOrderWrite))
	g.POST("/:id/complete", h.Complete, auth.RequireCapability(auth.CapLabOrderWrite))
	g.POST("/:id/cancel", h.Cancel, auth.RequireCapability(auth.CapLabOrderWrite))
	api.GET("/patients/:patientId/lab-orders", h.ListByPatient,
		auth.RequireCapability(auth.CapLabOrderRead))
}

func (h *Handler) Create(c echo.Context) error {
	identity := auth.IdentityFromContext(c.Request().Context())
	if identity == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	var o LabOrder
	if err := c.Bind(&o); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), identity, &o); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, o)
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
	o, err := h.svc.Get(c.Request().Context(), identity, id)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "lab order not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, o)
}

func (h *Handler) Collect(c echo.Context) error {
	identity, id, err := h.params(c)
	if err != nil {
		return err
	}
	o, err := h.svc.MarkCollected(c.Request().Context(), identity, id)
	return h.respond(c, o, err)
}

type completeRequest struct {
	Results string `json:"results"`
}

func (h *Handler) Complete(c echo.Context) error {
	identity, id, err := h.params(c)
	if err != nil {
		return err
	}
	var req completeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	o, err := h.svc.Complete(c.Request().Context(), identity, id, req.Results)
	return h.respond(c, o, err)
}

func (h *Handler) Cancel(c echo.Context) error {
	identity, id, err := h.params(c)
	if err != nil {
		return err
	}
	o, err := h.svc.Cancel(c.Request().Context(), identity, id)
	return h.respond(c, o, err)
}

func (h *Handler) params(c echo.Context) (*auth.Identity, uuid.UUID, error) {
	identity := auth.IdentityFromContext(c.Request().Context())
	if identity == nil {
		return nil, uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return nil, uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return identity, id, nil
}

func (h *Handler) respond(c echo.Context, o *LabOrder, err error) error {
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "lab order not found")
	}
	if errors.Is(err, ErrInvalidTransition) {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, o)
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
	orders, total, err := h.svc.ListByPatient(c.Request().Context(), identity, patientID, p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(orders, total, p.Limit, p.Offset))
}
