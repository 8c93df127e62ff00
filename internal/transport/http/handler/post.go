package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"postboard/internal/app"
	"postboard/internal/transport/http/response"
)

type PostHandler struct {
	postService  *app.PostService
	defaultLimit int
}

type CreatePostRequest struct {
	Title     string `json:"title" binding:"required,max=255"`
	Content   string `json:"content"`
	Published *bool  `json:"published"`
}

type UpdatePostRequest struct {
	Title     *string `json:"title" binding:"omitempty,max=255"`
	Content   *string `json:"content"`
	Published *bool   `json:"published"`
}

func NewPostHandler(postService *app.PostService, defaultLimit int) *PostHandler {
	return &PostHandler{
		postService:  postService,
		defaultLimit: defaultLimit,
	}
}

func (h *PostHandler) List(c *gin.Context) {
	limit, ok := queryInt(c, "limit", h.defaultLimit)
	if !ok {
		return
	}
	skip, ok := queryInt(c, "skip", 0)
	if !ok {
		return
	}

	posts, err := h.postService.List(c.Request.Context(), app.ListPostsInput{
		Search: c.Query("search"),
		Limit:  limit,
		Skip:   skip,
	})
	if err != nil {
		handleError(c, "list posts failed", err)
		return
	}
	response.OK(c, posts)
}

func (h *PostHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	post, err := h.postService.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, "get post failed", err)
		return
	}
	response.OK(c, post)
}

func (h *PostHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	post, err := h.postService.Create(c.Request.Context(), app.CreatePostInput{
		OwnerID:   userID,
		Title:     req.Title,
		Content:   req.Content,
		Published: req.Published,
	})
	if err != nil {
		handleError(c, "create post failed", err)
		return
	}
	response.Created(c, post)
}

func (h *PostHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	post, err := h.postService.Update(c.Request.Context(), userID, id, app.PostPatch{
		Title:     req.Title,
		Content:   req.Content,
		Published: req.Published,
	})
	if err != nil {
		handleError(c, "update post failed", err)
		return
	}
	response.OK(c, post)
}

func (h *PostHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.postService.Delete(c.Request.Context(), userID, id); err != nil {
		handleError(c, "delete post failed", err)
		return
	}
	response.Message(c, http.StatusOK, "Post deleted")
}

func queryInt(c *gin.Context, key string, fallback int) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid "+key)
		return 0, false
	}
	return v, true
}
