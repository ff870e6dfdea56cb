package middleware

import (
	"net/http"
	"strings"

	"espacios-api/internal/token"

	"github.com/labstack/echo/v4"
)

const (
	ContextUserID = "userID"
	ContextClaims = "tokenClaims"
)

// RequireAuth validates the bearer token once at the boundary and stores the
// subject id in the request context. Handlers thread that id explicitly into
// every service call.
func RequireAuth(tokens *token.Manager, denylist *token.Denylist) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "No autenticado")
			}

			raw := strings.TrimPrefix(header, "Bearer ")
			if raw == header {
				return echo.NewHTTPError(http.StatusUnauthorized, "Formato de autorización inválido")
			}

			claims, err := tokens.Parse(raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Token inválido o expirado")
			}

			revoked, err := denylist.Revoked(c.Request().Context(), claims.ID)
			if err != nil {
				return err
			}
			if revoked {
				return echo.NewHTTPError(http.StatusUnauthorized, "Token inválido o expirado")
			}

			c.Set(ContextUserID, claims.UserID)
			c.Set(ContextClaims, claims)
			return next(c)
		}
	}
}

func UserID(c echo.Context) uint {
	id, _ := c.Get(ContextUserID).(uint)
	return id
}

func TokenClaims(c echo.Context) *token.Claims {
	claims, _ := c.Get(ContextClaims).(*token.Claims)
	return claims
}
