package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"blog-api/internal/service"
)

type PostHandler struct {
	logger   *zap.Logger
	postServ *service.PostService
}

func NewPostHandler(logger *zap.Logger, postServ *service.PostService) *PostHandler {
	return &PostHandler{logger: logger, postServ: postServ}
}

// List maneja GET /api/posts.
func (h *PostHandler) List(c *gin.Context) {
	posts, err := h.postServ.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// Get maneja GET /api/posts/:id.
func (h *PostHandler) Get(c *gin.Context) {
	post, err := h.postServ.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

// Create maneja POST /api/posts.
func (h *PostHandler) Create(c *gin.Context) {
	var req service.CreatePostInput
	if err := decodeJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}
	account, _ := GetAccount(c)
	post, err := h.postServ.Create(c.Request.Context(), account, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"post": post})
}

// Update maneja PUT /api/posts/:id. Un cuerpo ilegible se trata como vacio para
// que el servicio decida primero existencia y dueño.
func (h *PostHandler) Update(c *gin.Context) {
	var req service.UpdatePostInput
	decodeErr := decodeJSON(c, &req)
	if decodeErr != nil {
		req = service.UpdatePostInput{}
	}
	account, _ := GetAccount(c)
	post, err := h.postServ.Update(c.Request.Context(), account, c.Param("id"), req)
	if err != nil {
		respondError(c, h.logger, preferDecodeError(err, decodeErr))
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

// Delete maneja DELETE /api/posts/:id.
func (h *PostHandler) Delete(c *gin.Context) {
	account, _ := GetAccount(c)
	if err := h.postServ.Delete(c.Request.Context(), account, c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
