package middleware

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/valaphee/flowgo/internal/infrastructure/httpapi/dto"
	"github.com/valaphee/flowgo/internal/pkg/errors"
)

// ErrorHandler maps the core's typed errors to HTTP status codes. It
// replaces Echo's default handler so every failure - whether it bubbles up
// from the catalog, the scope table, or binding - gets the same JSON
// shape.
func ErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		if he, ok := err.(*echo.HTTPError); ok {
			c.JSON(he.Code, dto.ErrorResponse{
				Error:   http.StatusText(he.Code),
				Message: fmt.Sprintf("%v", he.Message),
			})
			return
		}

		kind := errors.Kind(err)
		c.JSON(statusFor(kind), dto.ErrorResponse{
			Error:   kind,
			Message: err.Error(),
		})
	}
}

func statusFor(kind string) int {
	switch kind {
	case "not_found":
		return http.StatusNotFound
	case "invalid_input", "type_mismatch":
		return http.StatusBadRequest
	case "double_bind", "no_executor", "unbound_path", "node_eval":
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
