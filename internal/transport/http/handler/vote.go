package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"postboard/internal/app"
	"postboard/internal/transport/http/response"
)

type VoteHandler struct {
	voteService *app.VoteService
}

// VoteRequest carries dir as a pointer so a missing field is rejected while an
// explicit 0 (remove) is accepted.
type VoteRequest struct {
	PostID uint `json:"post_id" binding:"required,gt=0"`
	Dir    *int `json:"dir" binding:"required,lte=1"`
}

func NewVoteHandler(voteService *app.VoteService) *VoteHandler {
	return &VoteHandler{voteService: voteService}
}

func (h *VoteHandler) Cast(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	result, err := h.voteService.Cast(c.Request.Context(), app.VoteInput{
		PostID: req.PostID,
		UserID: userID,
		Dir:    *req.Dir,
	})
	if err != nil {
		handleError(c, "vote failed", err)
		return
	}

	if result.Added {
		response.Message(c, http.StatusCreated, "Successfully added vote")
		return
	}
	response.Message(c, http.StatusCreated, "Successfully deleted vote")
}
