package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"blog-api/internal/service"
)

func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindInvalid:
		return http.StatusBadRequest
	case service.KindUnauthenticated:
		return http.StatusUnauthorized
	case service.KindForbidden:
		return http.StatusForbidden
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage nunca expone el detalle de un error interno.
func publicMessage(kind service.Kind, err error) string {
	switch kind {
	case service.KindInvalid:
		var vErr *service.ValidationError
		if errors.As(err, &vErr) {
			return vErr.Error()
		}
		return "invalid request"
	case service.KindUnauthenticated:
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			return service.ErrInvalidCredentials.Error()
		case errors.Is(err, service.ErrTokenExpired):
			return service.ErrTokenExpired.Error()
		case errors.Is(err, service.ErrTokenMalformed):
			return "invalid token"
		}
		return service.ErrUnauthenticated.Error()
	case service.KindForbidden:
		return service.ErrForbidden.Error()
	case service.KindNotFound:
		return service.ErrNotFound.Error()
	case service.KindConflict:
		return service.ErrConflict.Error()
	default:
		return service.ErrInternal.Error()
	}
}

// respondError corta la cadena de handlers y responde segun el Kind del error.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	kind := service.KindOf(err)
	requestID := c.GetString(requestIDKey)
	if kind == service.KindInternal {
		logger.Error("request failed",
			zap.Error(err),
			zap.String("request_id", requestID),
			zap.String("path", c.FullPath()),
		)
	} else {
		logger.Debug("request rejected",
			zap.String("kind", kind.String()),
			zap.String("request_id", requestID),
			zap.Error(err),
		)
	}
	c.AbortWithStatusJSON(statusFor(kind), gin.H{
		"error":     publicMessage(kind, err),
		"requestId": requestID,
	})
}

// decodeJSON lee el cuerpo del request. Un campo con tipo incorrecto se reporta
// como ValidationError de ese campo; cualquier otro fallo, como cuerpo invalido.
func decodeJSON(c *gin.Context, dst any) error {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return nil
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return &service.ValidationError{Field: typeErr.Field, Rule: "invalid"}
	}
	return &service.ValidationError{Field: "body", Rule: "invalid"}
}

// preferDecodeError devuelve el error de decodificacion cuando el servicio solo
// rechazo la entrada vacia; Forbidden y NotFound se mantienen.
func preferDecodeError(err, decodeErr error) error {
	if decodeErr != nil && service.KindOf(err) == service.KindInvalid {
		return decodeErr
	}
	return err
}
