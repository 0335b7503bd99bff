package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	accessTokenTTL = time.Hour
	tokenIssuer    = "blog-api"
)

var (
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenExpired   = errors.New("token expired")
	ErrMissingSecret  = errors.New("jwt secret not configured")
)

// JWTService emite y valida tokens JWT.
type JWTService struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// Claims lleva el id del usuario en userId y en sub.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// NewJWTService falla si el secreto esta vacio: sin secreto el proceso no arranca.
func NewJWTService(secret string) (*JWTService, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrMissingSecret
	}
	return &JWTService{
		secret: []byte(secret),
		ttl:    accessTokenTTL,
		issuer: tokenIssuer,
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

// Issue firma un token HS256 para userID que vence una hora despues de emitido.
func (s *JWTService) Issue(userID string) (string, error) {
	if strings.TrimSpace(userID) == "" {
		return "", ErrTokenMalformed
	}
	now := s.now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *JWTService) ParseAccessToken(accessToken string) (Claims, error) {
	if strings.TrimSpace(accessToken) == "" {
		return Claims{}, ErrTokenMalformed
	}
	claims, err := s.parseToken(accessToken)
	if err != nil {
		return Claims{}, err
	}
	if !s.isValidClaims(claims) {
		return Claims{}, ErrTokenMalformed
	}
	return claims, nil
}

func (s *JWTService) parseToken(tokenString string) (Claims, error) {
	var claims Claims
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	_, err := parser.ParseWithClaims(tokenString, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenMalformed
	}
	return claims, nil
}

// isValidClaims acepta tokens sin sub ni iss (solo userId) para seguir validando
// los emitidos con la convencion anterior.
func (s *JWTService) isValidClaims(claims Claims) bool {
	if strings.TrimSpace(claims.UserID) == "" {
		return false
	}
	if claims.Subject != "" && claims.Subject != claims.UserID {
		return false
	}
	return claims.Issuer == "" || claims.Issuer == s.issuer
}
