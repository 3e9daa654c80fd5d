package handler

import (
	"net/http"
	"strings"

	"github.com/BloggingApp/post-insights/internal/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (h *Handler) postsCreate(c *gin.Context) {
	user := h.getUserFromRequest(c)

	var input dto.CreatePostDto
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	createdPost, err := h.services.Post.Create(c.Request.Context(), user.ID, input)
	if err != nil {
		status, details := statusFromError(err)
		c.JSON(status, dto.NewBasicResponse(false, details))
		return
	}

	c.JSON(http.StatusCreated, createdPost)
}

func (h *Handler) postsGet(c *gin.Context) {
	var input dto.PaginationQuery
	if err := c.ShouldBindQuery(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	posts, err := h.services.Post.FindAll(c.Request.Context(), input.Limit, input.Offset)
	if err != nil {
		status, details := statusFromError(err)
		c.JSON(status, dto.NewBasicResponse(false, details))
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *Handler) postsGetMy(c *gin.Context) {
	user := h.getUserFromRequest(c)

	var input dto.PaginationQuery
	if err := c.ShouldBindQuery(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	posts, err := h.services.Post.FindAuthorPosts(c.Request.Context(), user.ID, input.Limit, input.Offset)
	if err != nil {
		status, details := statusFromError(err)
		c.JSON(status, dto.NewBasicResponse(false, details))
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *Handler) postsGetDetail(c *gin.Context) {
	postID, ok := parseIDParam(c, "postID")
	if !ok {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidPostID.Error()))
		return
	}

	detail, err := h.services.Insights.PostDetail(c.Request.Context(), postID, strings.TrimSpace(c.Query("filter")))
	if err != nil {
		status, details := statusFromError(err)
		c.JSON(status, dto.NewBasicResponse(false, details))
		return
	}

	c.JSON(http.StatusOK, detail)
}

func (h *Handler) postsEdit(c *gin.Context) {
	user := h.getUserFromRequest(c)

	postID, ok := parseIDParam(c, "postID")
	if !ok {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidPostID.Error()))
		return
	}

	var input dto.EditPostDto
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	post, err := h.services.Post.Edit(c.Request.Context(), postID, user.ID, input)
	if err != nil {
		status, details := statusFromError(err)
		c.JSON(status, dto.NewBasicResponse(false, details))
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *Handler) postsDelete(c *gin.Context) {
	user := h.getUserFromRequest(c)

	postID, ok := parseIDParam(c, "postID")
	if !ok {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidPostID.Error()))
		return
	}

	if err := h.services.Post.Delete(c.Request.Context(), postID, user.ID); err != nil {
		status, details := statusFromError(err)
		c.JSON(status, dto.NewBasicResponse(false, details))
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, ""))
}

func (h *Handler) postsAuthorSentiment(c *gin.Context) {
	userID, err := uuid.Parse(strings.TrimSpace(c.Param("userID")))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidUserID.Error()))
		return
	}

	res, err := h.services.Insights.AuthorSentiment(c.Request.Context(), userID)
	if err != nil {
		status, details := statusFromError(err)
		c.JSON(status, dto.NewBasicResponse(false, details))
		return
	}

	c.JSON(http.StatusOK, res)
}
