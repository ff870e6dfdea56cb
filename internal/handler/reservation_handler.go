package handler

import (
	"errors"
	"net/http"
	"time"

	"espacios-api/internal/dto"
	"espacios-api/internal/middleware"
	"espacios-api/internal/service"

	"github.com/labstack/echo/v4"
)

type ReservationHandler struct {
	svc service.ReservationService
}

func NewReservationHandler(svc service.ReservationService) *ReservationHandler {
	return &ReservationHandler{svc: svc}
}

func (h *ReservationHandler) RegisterRoutes(e *echo.Echo, auth echo.MiddlewareFunc) {
	e.GET("/espacios/:id/reservas", h.ListForSpace)

	e.GET("/reservas", h.ListMine, auth)
	e.POST("/reservas", h.Create, auth)
	e.GET("/reservas/:id", h.Get, auth)
	e.PUT("/reservas/:id", h.Update, auth)
	e.DELETE("/reservas/:id", h.Cancel, auth)
}

// ListForSpace is the public calendar view of a space: active reservations
// only, owner identity stripped.
func (h *ReservationHandler) ListForSpace(c echo.Context) error {
	spaceID, err := parseID(c)
	if err != nil {
		return err
	}

	reservations, err := h.svc.ListForSpace(c.Request().Context(), spaceID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]dto.PublicReservation, len(reservations))
	for i, r := range reservations {
		resp[i] = dto.ToPublicReservation(&r)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *ReservationHandler) ListMine(c echo.Context) error {
	reservations, err := h.svc.ListForUser(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, reservations)
}

func (h *ReservationHandler) Create(c echo.Context) error {
	var req dto.CreateReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cuerpo de la petición inválido")
	}
	start, end, errs := req.Validate(time.Now())
	if errs != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, errs)
	}

	reservation, err := h.svc.Create(c.Request().Context(), middleware.UserID(c), req.SpaceID, req.EventName, start, end)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSpaceNotFound):
			return echo.NewHTTPError(http.StatusUnprocessableEntity, map[string]string{
				"espacio_id": "el espacio seleccionado no existe",
			})
		case errors.Is(err, service.ErrSpaceUnavailable):
			return echo.NewHTTPError(http.StatusBadRequest, "El espacio no está disponible")
		case errors.Is(err, service.ErrScheduleConflict):
			return echo.NewHTTPError(http.StatusConflict, "Ya existe una reserva en ese horario para este espacio")
		case errors.Is(err, service.ErrInvalidInterval):
			return echo.NewHTTPError(http.StatusUnprocessableEntity, map[string]string{
				"fecha_fin": "la fecha_fin debe ser posterior a la fecha_inicio",
			})
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusCreated, dto.ReservationResponse{
		Message:     "Reserva creada exitosamente",
		Reservation: reservation,
	})
}

func (h *ReservationHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	reservation, err := h.svc.GetOwned(c.Request().Context(), id, middleware.UserID(c))
	if err != nil {
		return reservationError(err)
	}
	return c.JSON(http.StatusOK, reservation)
}

func (h *ReservationHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req dto.UpdateReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cuerpo de la petición inválido")
	}
	start, end, errs := req.Validate(time.Now())
	if errs != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, errs)
	}

	patch := service.ReservationPatch{
		EventName: req.EventName,
		StartsAt:  start,
		EndsAt:    end,
	}
	reservation, err := h.svc.Update(c.Request().Context(), id, middleware.UserID(c), patch)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSpaceNotFound):
			return echo.NewHTTPError(http.StatusUnprocessableEntity, map[string]string{
				"espacio_id": "el espacio seleccionado no existe",
			})
		case errors.Is(err, service.ErrScheduleConflict):
			return echo.NewHTTPError(http.StatusConflict, "Ya existe una reserva en ese horario para este espacio")
		case errors.Is(err, service.ErrInvalidInterval):
			return echo.NewHTTPError(http.StatusUnprocessableEntity, map[string]string{
				"fecha_fin": "la fecha_fin debe ser posterior a la fecha_inicio",
			})
		default:
			return reservationError(err)
		}
	}

	return c.JSON(http.StatusOK, dto.ReservationResponse{
		Message:     "Reserva actualizada exitosamente",
		Reservation: reservation,
	})
}

func (h *ReservationHandler) Cancel(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if _, err := h.svc.Cancel(c.Request().Context(), id, middleware.UserID(c)); err != nil {
		return reservationError(err)
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Reserva cancelada exitosamente"})
}

func reservationError(err error) error {
	switch {
	case errors.Is(err, service.ErrReservationNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Reserva no encontrada")
	case errors.Is(err, service.ErrNotOwner):
		return echo.NewHTTPError(http.StatusForbidden, "No autorizado")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
