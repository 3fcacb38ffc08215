package http

import (
	"errors"
	"net/http"

	"freight/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// errorKind classifies err for the response status and the rejection metric.
func errorKind(err error) (status int, kind string) {
	switch {
	case errors.Is(err, errs.ErrCapacityExceeded):
		return http.StatusUnprocessableEntity, "capacity_exceeded"
	case errs.IsValidation(err):
		return http.StatusBadRequest, "validation"
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, errs.ErrInvalidTransition):
		return http.StatusConflict, "invalid_transition"
	case errors.Is(err, errs.ErrConcurrencyConflict):
		return http.StatusConflict, "concurrency_conflict"
	default:
		return http.StatusInternalServerError, "store"
	}
}

// fail writes the error response for an operation. Rejections are logged at
// Warn; store and unexpected failures at Error and without their detail in
// the body.
func (s *Server) fail(c echo.Context, operation string, err error) error {
	ctx := c.Request().Context()

	if fields := fieldErrors(err); fields != nil {
		s.metrics.RecordRejected(operation, "validation")
		s.logger.WarnContext(ctx, "Request rejected", "operation", operation, "kind", "validation", "fields", fields)
		return c.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "validation failed",
			Details: fields,
		})
	}

	status, kind := errorKind(err)
	s.metrics.RecordRejected(operation, kind)

	if status == http.StatusInternalServerError {
		s.logger.ErrorContext(ctx, "Request failed", "operation", operation, "error", err)
		return c.JSON(status, Error{Code: status, Message: "internal error"})
	}

	s.logger.WarnContext(ctx, "Request rejected", "operation", operation, "kind", kind, "error", err)
	return c.JSON(status, Error{Code: status, Message: err.Error()})
}

// badRequest is fail for binding errors raised before any command exists.
func (s *Server) badRequest(c echo.Context, operation string, err error) error {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		s.metrics.RecordRejected(operation, "validation")
		return c.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "invalid request: " + httpErrorMessage(httpErr),
		})
	}
	return s.fail(c, operation, err)
}

func httpErrorMessage(err *echo.HTTPError) string {
	if msg, ok := err.Message.(string); ok {
		return msg
	}
	return http.StatusText(err.Code)
}
