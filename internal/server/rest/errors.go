package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/services"
	"github.com/labstack/echo/v4"
)

// Client-facing messages.
const (
	msgUsernameTaken       = "Username already exists"
	msgInvalidCredentials  = "Invalid credentials"
	msgAccessTokenRequired = "Access token required"
	msgInvalidToken        = "Invalid token"
	msgTaskNotFound        = "Task not found"
	msgExportDisabled      = "Export is not configured"
	msgInvalidBody         = "Invalid request body"
	msgInvalidTaskID       = "Invalid task id"
	msgServerError         = "Server error"
	msgDatabaseError       = "Database error"
	msgDatabaseUnavailable = "Database unavailable"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error string `json:"error"`
}

// httpError maps a service error to a status and a sanitized message.
// Unclassified errors become 500 with the given fallback message; the
// underlying error is kept as the internal cause for logging.
func httpError(err error, fallback string) *echo.HTTPError {
	var ve *common.ValidationError
	switch {
	case errors.As(err, &ve):
		return echo.NewHTTPError(http.StatusBadRequest, ve.Message)
	case errors.Is(err, common.ErrorAlreadyExists):
		return echo.NewHTTPError(http.StatusBadRequest, msgUsernameTaken)
	case errors.Is(err, common.ErrorUnauthorized):
		return echo.NewHTTPError(http.StatusUnauthorized, msgInvalidCredentials)
	case errors.Is(err, common.ErrMissingToken):
		return echo.NewHTTPError(http.StatusUnauthorized, msgAccessTokenRequired)
	case errors.Is(err, common.ErrInvalidToken):
		return echo.NewHTTPError(http.StatusForbidden, msgInvalidToken).SetInternal(err)
	case errors.Is(err, common.ErrorNotFound):
		return echo.NewHTTPError(http.StatusNotFound, msgTaskNotFound)
	case errors.Is(err, services.ErrExportDisabled):
		return echo.NewHTTPError(http.StatusNotFound, msgExportDisabled)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, fallback).SetInternal(err)
	}
}

// handleError is the echo HTTPErrorHandler: every error, including router
// 404/405 and recovered panics, is written as {"error": "..."}.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if !errors.As(err, &he) {
		he = httpError(err, msgServerError)
	}

	msg, ok := he.Message.(string)
	if !ok || msg == "" {
		msg = http.StatusText(he.Code)
	}
	if he.Code >= http.StatusInternalServerError {
		s.logger.Error(c.Request().Context(), "request failed",
			"method", c.Request().Method, "route", c.Path(), "error", err)
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(he.Code)
	} else {
		werr = c.JSON(he.Code, errorResponse{Error: msg})
	}
	if werr != nil {
		s.logger.Error(c.Request().Context(), "error writing error response", "error", werr)
	}
}
