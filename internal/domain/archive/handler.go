package archive

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
	g := api.Group("/archived-records", auth.RequireCapability(auth.CapArchiveSearch))
	g.GET("/search", h.Search)
	g.GET("/:id", h.Get)
	api.GET("/shifts/:shiftId/archived-records", h.ListByShift,
		auth.RequireCapability(auth.CapArchiveSearch))
}

func (h *Handler) Search(c echo.Context) error {
	identity := auth.IdentityFromContext(c.Request().Context())
	if identity == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	var recordType *RecordType
	if raw := c.QueryParam("type"); raw != "" {
		rt := RecordType(raw)
		if !rt.Valid() {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown record type")
		}
		recordType = &rt
	}

	p := pagination.FromContext(c)
	records, total, err := h.svc.Search(c.Request().Context(), identity, c.QueryParam("q"), recordType, p.Limit, p.Offset)
	if errors.Is(err, ErrQueryTooShort) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(records, total, p.Limit, p.Offset))
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
	rec, err := h.svc.Get(c.Request().Context(), identity, id)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "archived record not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *Handler) ListByShift(c echo.Context) error {
	identity := auth.IdentityFromContext(c.Request().Context())
	if identity == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	shiftID, err := uuid.Parse(c.Param("shiftId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid shift id")
	}
	records, err := h.svc.ListByShift(c.Request().Context(), identity, shiftID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, records)
}
