package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"blog-api/internal/service"
)

// AdminHandler expone las operaciones reservadas a administradores.
type AdminHandler struct {
	logger   *zap.Logger
	userServ *service.UserService
}

func NewAdminHandler(logger *zap.Logger, userServ *service.UserService) *AdminHandler {
	return &AdminHandler{logger: logger, userServ: userServ}
}

// Login maneja POST /api/admin/login.
func (h *AdminHandler) Login(c *gin.Context) {
	var req service.LoginInput
	if err := decodeJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	res, err := h.userServ.AdminLogin(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	setBearer(c, res.Token)
	c.JSON(http.StatusOK, gin.H{"token": res.Token})
}

// ListUsers maneja GET /api/admin/users.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	account, _ := GetAccount(c)
	users, err := h.userServ.ListUsers(c.Request.Context(), account)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// Promote maneja PUT /api/admin/createAdmin/:id.
func (h *AdminHandler) Promote(c *gin.Context) {
	account, _ := GetAccount(c)
	user, err := h.userServ.Promote(c.Request.Context(), account, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
