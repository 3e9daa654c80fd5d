package handler

import (
	"net/http"
	"strings"

	"github.com/BloggingApp/post-insights/internal/dto"
	"github.com/gin-gonic/gin"
)

func (h *Handler) commentsCreate(c *gin.Context) {
	user := h.getUserFromRequest(c)

	var input dto.CreateCommentDto
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	createdComment, err := h.services.Comment.Create(c.Request.Context(), user.ID, input)
	if err != nil {
		status, details := statusFromError(err)
		c.JSON(status, dto.NewBasicResponse(false, details))
		return
	}

	c.JSON(http.StatusCreated, createdComment)
}

func (h *Handler) commentsGet(c *gin.Context) {
	postID, ok := parseIDParam(c, "postID")
	if !ok {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidPostID.Error()))
		return
	}

	comments, err := h.services.Comment.FindPostComments(c.Request.Context(), postID, strings.TrimSpace(c.Query("filter")))
	if err != nil {
		status, details := statusFromError(err)
		c.JSON(status, dto.NewBasicResponse(false, details))
		return
	}

	c.JSON(http.StatusOK, comments)
}

func (h *Handler) commentsEdit(c *gin.Context) {
	user := h.getUserFromRequest(c)

	commentID, ok := parseIDParam(c, "commentID")
	if !ok {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidID.Error()))
		return
	}

	var input dto.EditCommentDto
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	comment, err := h.services.Comment.Edit(c.Request.Context(), commentID, user.ID, input)
	if err != nil {
		status, details := statusFromError(err)
		c.JSON(status, dto.NewBasicResponse(false, details))
		return
	}

	c.JSON(http.StatusOK, comment)
}

func (h *Handler) commentsDelete(c *gin.Context) {
	user := h.getUserFromRequest(c)

	commentID, ok := parseIDParam(c, "commentID")
	if !ok {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidID.Error()))
		return
	}

	if err := h.services.Comment.Delete(c.Request.Context(), commentID, user.ID); err != nil {
		status, details := statusFromError(err)
		c.JSON(status, dto.NewBasicResponse(false, details))
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, ""))
}
