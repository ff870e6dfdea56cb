package handler

import (
	"errors"
	"net/http"

	"espacios-api/internal/dto"
	"espacios-api/internal/middleware"
	"espacios-api/internal/service"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	svc service.AuthService
}

func NewAuthHandler(svc service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo, auth echo.MiddlewareFunc) {
	e.POST("/registrar", h.Register)
	e.POST("/login", h.Login)
	e.POST("/logout", h.Logout, auth)
	e.POST("/refrescar", h.Refresh, auth)
	e.GET("/yo", h.Me, auth)
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cuerpo de la petición inválido")
	}
	if errs := req.Validate(); errs != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, errs)
	}

	user, err := h.svc.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, map[string]string{
				"email": "el email ya está registrado",
			})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, dto.RegisterResponse{
		Message: "Usuario registrado exitosamente",
		User:    user,
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cuerpo de la petición inválido")
	}

	session, err := h.svc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Credenciales inválidas")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, dto.TokenResponse{
		AccessToken: session.AccessToken,
		TokenType:   "bearer",
		ExpiresIn:   session.ExpiresIn,
		User:        session.User,
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.svc.Logout(c.Request().Context(), middleware.TokenClaims(c)); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Sesión cerrada exitosamente"})
}

func (h *AuthHandler) Refresh(c echo.Context) error {
	session, err := h.svc.Refresh(c.Request().Context(), middleware.TokenClaims(c))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Token inválido o expirado")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, dto.TokenResponse{
		AccessToken: session.AccessToken,
		TokenType:   "bearer",
		ExpiresIn:   session.ExpiresIn,
		User:        session.User,
	})
}

func (h *AuthHandler) Me(c echo.Context) error {
	user, err := h.svc.Me(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Usuario no encontrado")
	}
	return c.JSON(http.StatusOK, user)
}
