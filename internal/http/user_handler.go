package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"blog-api/internal/service"
)

// UserHandler atiende alta y login de usuarios.
type UserHandler struct {
	logger   *zap.Logger
	userServ *service.UserService
}

func NewUserHandler(logger *zap.Logger, userServ *service.UserService) *UserHandler {
	return &UserHandler{logger: logger, userServ: userServ}
}

// Signup maneja POST /api/user/signup.
func (h *UserHandler) Signup(c *gin.Context) {
	var req service.SignupInput
	if err := decodeJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	res, err := h.userServ.Signup(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	setBearer(c, res.Token)
	c.JSON(http.StatusCreated, gin.H{"user": res.User, "token": res.Token})
}

// Login maneja POST /api/user/login.
func (h *UserHandler) Login(c *gin.Context) {
	var req service.LoginInput
	if err := decodeJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	res, err := h.userServ.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	setBearer(c, res.Token)
	c.JSON(http.StatusOK, gin.H{"token": res.Token})
}

func setBearer(c *gin.Context, token string) {
	c.Header("Authorization", "Bearer "+token)
}
