package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"blog-api/internal/service"
)

type CommentHandler struct {
	logger      *zap.Logger
	commentServ *service.CommentService
}

func NewCommentHandler(logger *zap.Logger, commentServ *service.CommentService) *CommentHandler {
	return &CommentHandler{logger: logger, commentServ: commentServ}
}

// ListByPost maneja GET /api/posts/:id/comments.
func (h *CommentHandler) ListByPost(c *gin.Context) {
	comments, err := h.commentServ.ListByPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// Create maneja POST /api/posts/:id/comments.
func (h *CommentHandler) Create(c *gin.Context) {
	var req service.CommentInput
	if err := decodeJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}
	account, _ := GetAccount(c)
	comment, err := h.commentServ.Create(c.Request.Context(), account, c.Param("id"), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

// Update maneja PUT /api/comments/:id.
func (h *CommentHandler) Update(c *gin.Context) {
	var req service.CommentInput
	decodeErr := decodeJSON(c, &req)
	if decodeErr != nil {
		req = service.CommentInput{}
	}
	account, _ := GetAccount(c)
	comment, err := h.commentServ.Update(c.Request.Context(), account, c.Param("id"), req)
	if err != nil {
		respondError(c, h.logger, preferDecodeError(err, decodeErr))
		return
	}
	c.JSON(http.StatusOK, gin.H{"comment": comment})
}

// Delete maneja DELETE /api/comments/:id.
func (h *CommentHandler) Delete(c *gin.Context) {
	account, _ := GetAccount(c)
	if err := h.commentServ.Delete(c.Request.Context(), account, c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
