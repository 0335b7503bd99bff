package service

import (
	"errors"
	"fmt"

	"blog-api/internal/repository"
)

// Kind clasifica los errores del core; la capa HTTP solo mira el Kind.
type Kind int

const (
	KindInternal Kind = iota
	KindInvalid
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrInternal           = errors.New("internal error")
)

// ValidationError reporta el primer campo invalido de la entrada.
type ValidationError struct {
	Field string
	Rule  string
}

func (e *ValidationError) Error() string {
	switch e.Rule {
	case "required":
		return fmt.Sprintf("%s is required", e.Field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", e.Field)
	case "min":
		return fmt.Sprintf("%s is too short", e.Field)
	case "max":
		return fmt.Sprintf("%s is too long", e.Field)
	default:
		return fmt.Sprintf("%s is invalid", e.Field)
	}
}

// KindOf resuelve el Kind de cualquier error devuelto por los servicios.
func KindOf(err error) Kind {
	var vErr *ValidationError
	switch {
	case err == nil:
		return KindInternal
	case errors.As(err, &vErr):
		return KindInvalid
	case errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrUnauthenticated),
		errors.Is(err, ErrTokenExpired),
		errors.Is(err, ErrTokenMalformed),
		errors.Is(err, ErrIdentityNotFound):
		return KindUnauthenticated
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrConflict):
		return KindConflict
	default:
		return KindInternal
	}
}

// storeError traduce errores del repositorio a errores del servicio.
func storeError(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	case errors.Is(err, repository.ErrConflict):
		return fmt.Errorf("%s: %w", what, ErrConflict)
	default:
		return fmt.Errorf("%s: %w: %w", what, ErrInternal, err)
	}
}
