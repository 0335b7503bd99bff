package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(logger *zap.Logger, corsOrigins []string, auth gin.HandlerFunc, h Handlers) *gin.Engine {
	r := gin.New()

	r.Use(
		cors.New(corsConfig(corsOrigins)),
		RequestIDMiddleware(),
		ginzap.GinzapWithConfig(logger, &ginzap.Config{
			TimeFormat: time.RFC3339,
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.URL.Path == "/healthz"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}
				if v := c.GetString(requestIDKey); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}
				if v := c.GetString(userIDKey); v != "" {
					fields = append(fields, zap.String("user_id", v))
				}
				return fields
			},
		}),
		ginzap.RecoveryWithZap(logger, true),
	)

	r.GET("/healthz", h.Health.Healthz)

	api := r.Group("/api")

	user := api.Group("/user")
	{
		user.POST("/signup", h.Users.Signup)
		user.POST("/login", h.Users.Login)
	}

	admin := api.Group("/admin")
	{
		admin.POST("/login", h.Admin.Login)
		admin.GET("/users", auth, h.Admin.ListUsers)
		admin.PUT("/createAdmin/:id", auth, h.Admin.Promote)
	}

	posts := api.Group("/posts")
	{
		posts.GET("", h.Posts.List)
		posts.POST("", auth, h.Posts.Create)
		posts.GET("/:id", h.Posts.Get)
		posts.PUT("/:id", auth, h.Posts.Update)
		posts.DELETE("/:id", auth, h.Posts.Delete)
		posts.GET("/:id/comments", h.Comments.ListByPost)
		posts.POST("/:id/comments", auth, h.Comments.Create)
	}

	comments := api.Group("/comments")
	{
		comments.PUT("/:id", auth, h.Comments.Update)
		comments.DELETE("/:id", auth, h.Comments.Delete)
	}

	return r
}

// corsConfig sin origenes configurados abre CORS a cualquier origen, sin credenciales.
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "Authorization", requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
