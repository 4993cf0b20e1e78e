package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type createCommentRequest struct {
	Content  string `json:"content"`
	ParentID string `json:"parentCommentId"`
}

type updateCommentRequest struct {
	Content string `json:"content"`
}

func (h *Handler) listComments(c *gin.Context) {
	caller := callerClaims(c)
	comments, err := h.comments.ListByArticle(c.Request.Context(), c.Param("articleId"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]CommentResponse, len(comments))
	for i := range comments {
		resp[i] = commentToResponse(comments[i], caller)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) createComment(c *gin.Context) {
	caller := callerClaims(c)

	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	comment, err := h.comments.Create(c.Request.Context(), caller.UserID, c.Param("articleId"), req.Content, req.ParentID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, commentToResponse(*comment, caller))
}

func (h *Handler) updateComment(c *gin.Context) {
	caller := callerClaims(c)

	var req updateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	comment, err := h.comments.Update(c.Request.Context(), caller, c.Param("id"), req.Content)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, commentToResponse(*comment, caller))
}

func (h *Handler) deleteComment(c *gin.Context) {
	caller := callerClaims(c)
	if err := h.comments.Delete(c.Request.Context(), caller, c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "comment deleted successfully"})
}

func (h *Handler) likeComment(c *gin.Context) {
	caller := callerClaims(c)
	if err := h.comments.Like(c.Request.Context(), caller, c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "comment liked successfully"})
}

func (h *Handler) unlikeComment(c *gin.Context) {
	caller := callerClaims(c)
	if err := h.comments.Unlike(c.Request.Context(), caller, c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "comment unliked successfully"})
}
