package middleware

import (
	"net/http"

	"espacios-api/internal/dto"

	"github.com/labstack/echo/v4"
)

// ErrorHandler renders the API error envelopes: {"error": ...} for plain
// messages and {"errores": {...}} for field-level validation failures.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	var payload any = dto.ErrorResponse{Error: err.Error()}

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		switch m := he.Message.(type) {
		case string:
			payload = dto.ErrorResponse{Error: m}
		case map[string]string:
			payload = dto.ValidationErrorResponse{Errors: m}
		}
	}

	_ = c.JSON(code, payload)
}
