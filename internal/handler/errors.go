package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/BloggingApp/post-insights/internal/service"
	"github.com/gin-gonic/gin"
)

var (
	errNotAuthorized = errors.New("user is not authorized")
	errInvalidPostID = errors.New("invalid post ID")
	errInvalidID     = errors.New("invalid ID")
	errInvalidUserID = errors.New("invalid user ID")
)

// statusFromError maps service errors to HTTP statuses. Anything unknown is
// reported as an internal error without leaking its text.
func statusFromError(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrPostNotFound), errors.Is(err, service.ErrCommentNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, service.ErrNothingToUpdate), errors.Is(err, service.ErrEmptyContent):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrFailedToFetchUser):
		return http.StatusUnauthorized, errNotAuthorized.Error()
	default:
		return http.StatusInternalServerError, service.ErrInternal.Error()
	}
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param(name)), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
