package server

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/lifelog/internal/errors"
)

// statusClientClosedRequest is the non-standard status for a client that went away.
const statusClientClosedRequest = 499

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case stderrors.Is(err, context.Canceled):
		return statusClientClosedRequest
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case stderrors.Is(err, errors.ErrUnknownCategory):
		return http.StatusNotFound
	case stderrors.Is(err, errors.ErrInvalidRecord):
		return http.StatusBadRequest
	case stderrors.Is(err, errors.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	status := statusFor(err)
	_ = c.Error(err)

	body := gin.H{"error": err.Error(), "request_id": c.GetString(requestIDKey)}
	var verr *errors.ValidationError
	if stderrors.As(err, &verr) {
		body["field"] = verr.Field
	}
	if status == http.StatusServiceUnavailable || status == http.StatusInternalServerError {
		// Storage causes can include paths and driver detail.
		body["error"] = http.StatusText(status)
	}
	c.AbortWithStatusJSON(status, body)
}
