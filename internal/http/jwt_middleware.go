package http

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"blog-api/internal/domain"
	"blog-api/internal/service"
)

const (
	accountKey = "account"
	userIDKey  = "userID"
)

type AccessTokenParser interface {
	ParseAccessToken(token string) (service.Claims, error)
}

type AccountResolver interface {
	Resolve(ctx context.Context, userID string) (domain.User, error)
}

// JWTAuthMiddleware valida el bearer token, resuelve la cuenta dueña y la guarda
// en el contexto. La cuenta se relee en cada request, asi un cambio de rol o un
// borrado se ve de inmediato.
func JWTAuthMiddleware(logger *zap.Logger, tokens AccessTokenParser, accounts AccountResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			respondError(c, logger, service.ErrUnauthenticated)
			return
		}

		claims, err := tokens.ParseAccessToken(token)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		account, err := accounts.Resolve(c.Request.Context(), claims.UserID)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.Set(accountKey, &account)
		c.Set(userIDKey, account.ID)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	header = strings.TrimSpace(header)
	if len(header) < len("Bearer ") || !strings.EqualFold(header[:len("Bearer ")], "bearer ") {
		return "", false
	}
	token := strings.TrimSpace(header[len("Bearer "):])
	return token, token != ""
}

// GetAccount obtiene la cuenta autenticada desde el contexto.
func GetAccount(c *gin.Context) (*domain.User, bool) {
	val, ok := c.Get(accountKey)
	if !ok {
		return nil, false
	}
	account, ok := val.(*domain.User)
	return account, ok && account != nil
}
