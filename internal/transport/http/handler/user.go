package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"postboard/internal/app"
	"postboard/internal/transport/http/response"
)

type UserHandler struct {
	userService     *app.UserService
	activityService *app.ActivityService
}

type UpdateUserRequest struct {
	Email *string `json:"email" binding:"omitempty,email,max=128"`
}

func NewUserHandler(userService *app.UserService, activityService *app.ActivityService) *UserHandler {
	return &UserHandler{
		userService:     userService,
		activityService: activityService,
	}
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context())
	if err != nil {
		handleError(c, "list users failed", err)
		return
	}
	response.OK(c, users)
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	user, err := h.userService.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, "get user failed", err)
		return
	}
	response.OK(c, user)
}

func (h *UserHandler) Update(c *gin.Context) {
	requesterID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	user, err := h.userService.Update(c.Request.Context(), requesterID, id, app.UserPatch{Email: req.Email})
	if err != nil {
		handleError(c, "update user failed", err)
		return
	}
	response.OK(c, user)
}

func (h *UserHandler) Delete(c *gin.Context) {
	requesterID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.userService.Delete(c.Request.Context(), requesterID, id); err != nil {
		handleError(c, "delete user failed", err)
		return
	}
	response.Message(c, http.StatusOK, "User deleted")
}

func (h *UserHandler) Activity(c *gin.Context) {
	requesterID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	activities, err := h.activityService.ListForUser(c.Request.Context(), requesterID, id, limit)
	if err != nil {
		handleError(c, "list activity failed", err)
		return
	}
	response.OK(c, activities)
}
