package handler

import (
	"errors"
	"net/http"
	"strconv"

	"espacios-api/internal/dto"
	"espacios-api/internal/repository"
	"espacios-api/internal/service"

	"github.com/labstack/echo/v4"
)

type SpaceHandler struct {
	svc service.SpaceService
}

func NewSpaceHandler(svc service.SpaceService) *SpaceHandler {
	return &SpaceHandler{svc: svc}
}

func (h *SpaceHandler) RegisterRoutes(e *echo.Echo, auth echo.MiddlewareFunc) {
	e.GET("/espacios", h.List)
	e.GET("/espacios/:id", h.Get)
	e.POST("/espacios", h.Create, auth)
	e.PUT("/espacios/:id", h.Update, auth)
	e.DELETE("/espacios/:id", h.Delete, auth)
}

func (h *SpaceHandler) List(c echo.Context) error {
	var filter repository.SpaceFilter

	if v := c.QueryParam("tipo"); v != "" {
		filter.Category = &v
	}
	if v := c.QueryParam("disponible"); v != "" {
		available, err := strconv.ParseBool(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "disponible debe ser booleano")
		}
		filter.Available = &available
	}
	if v := c.QueryParam("capacidad_minima"); v != "" {
		min, err := strconv.Atoi(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "capacidad_minima debe ser un entero")
		}
		filter.MinCapacity = &min
	}

	spaces, err := h.svc.List(c.Request().Context(), filter)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, spaces)
}

func (h *SpaceHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	space, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrSpaceNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Espacio no encontrado")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, space)
}

func (h *SpaceHandler) Create(c echo.Context) error {
	var req dto.CreateSpaceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cuerpo de la petición inválido")
	}
	if errs := req.Validate(); errs != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, errs)
	}

	space, err := h.svc.Create(c.Request().Context(), &req)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, dto.SpaceResponse{
		Message: "Espacio creado exitosamente",
		Space:   space,
	})
}

func (h *SpaceHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req dto.UpdateSpaceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cuerpo de la petición inválido")
	}
	if errs := req.Validate(); errs != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, errs)
	}

	space, err := h.svc.Update(c.Request().Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrSpaceNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Espacio no encontrado")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, dto.SpaceResponse{
		Message: "Espacio actualizado exitosamente",
		Space:   space,
	})
}

func (h *SpaceHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, service.ErrSpaceNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Espacio no encontrado")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Espacio eliminado exitosamente"})
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "id inválido")
	}
	return uint(id), nil
}
