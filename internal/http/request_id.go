package http

import (
	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	requestIDKey    = "requestID"
	requestIDHeader = "X-Request-ID"
	requestIDLength = 12
)

// RequestIDMiddleware asigna un id a cada request y lo devuelve en X-Request-ID.
// Un id entrante se respeta.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" || len(id) > 64 {
			generated, err := gonanoid.New(requestIDLength)
			if err == nil {
				id = generated
			}
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}
