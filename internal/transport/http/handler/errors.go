package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"postboard/internal/app"
	"postboard/internal/transport/http/middleware"
	"postboard/internal/transport/http/response"
)

// writeServiceError maps the shared service errors to responses. It reports
// false when err is not one of them.
func writeServiceError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
	case errors.Is(err, app.ErrForbidden):
		response.Error(c, http.StatusForbidden, response.CodeForbidden, err.Error())
	case errors.Is(err, app.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, response.CodeUserNotFound, err.Error())
	case errors.Is(err, app.ErrPostNotFound):
		response.Error(c, http.StatusNotFound, response.CodePostNotFound, err.Error())
	case errors.Is(err, app.ErrVoteNotFound):
		response.Error(c, http.StatusNotFound, response.CodeVoteNotFound, err.Error())
	case errors.Is(err, app.ErrVoteConflict):
		response.Error(c, http.StatusConflict, response.CodeVoteConflict, err.Error())
	case errors.Is(err, app.ErrEmailExists):
		response.Error(c, http.StatusConflict, response.CodeEmailExists, err.Error())
	default:
		return false
	}
	return true
}

// internalError hides err from the client and attaches it to the gin context
// so the request log can report it.
func internalError(c *gin.Context, message string, err error) {
	_ = c.Error(err)
	response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, message)
}

func handleError(c *gin.Context, message string, err error) {
	if !writeServiceError(c, err) {
		internalError(c, message, err)
	}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid id")
		return 0, false
	}
	return uint(id), true
}

func currentUserID(c *gin.Context) (uint, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
	}
	return id, ok
}
