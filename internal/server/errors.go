package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/CAVALEIROS-DO-GUAPORE/capitulo862-sub000/internal/auth"
	"github.com/CAVALEIROS-DO-GUAPORE/capitulo862-sub000/internal/service"
	"github.com/CAVALEIROS-DO-GUAPORE/capitulo862-sub000/internal/templates"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

func statusOf(err error) int {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		return he.Code
	case errors.Is(err, service.ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, templates.ErrTemplateNotFound),
		errors.Is(err, templates.ErrUnknownTemplate):
		return http.StatusNotFound
	case errors.Is(err, service.ErrAlreadyPublished),
		errors.Is(err, service.ErrPublishConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func messageOf(err error, status int) string {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return fmt.Sprint(he.Message)
	}
	if status == http.StatusInternalServerError {
		return "internal error while processing the request"
	}
	return err.Error()
}

func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := statusOf(err)
	entry := s.logger.WithFields(logrus.Fields{
		"method":     c.Request().Method,
		"path":       c.Path(),
		"status":     status,
		"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
	}).WithError(err)
	if status >= http.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Debug("Request rejected")
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, ErrorResponse{Error: messageOf(err, status)})
	}
	if err != nil {
		s.logger.WithError(err).Error("Failed to write error response")
	}
}
