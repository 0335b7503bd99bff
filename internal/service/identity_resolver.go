package service

import (
	"context"
	"errors"
	"fmt"

	"blog-api/internal/domain"
	"blog-api/internal/repository"
)

var ErrIdentityNotFound = errors.New("identity not found")

// IdentityResolver carga la cuenta dueña de un token ya verificado. Los tokens no
// se invalidan al borrar la cuenta; por eso se vuelve a leer en cada request.
type IdentityResolver struct {
	users repository.UserRepository
}

func NewIdentityResolver(users repository.UserRepository) *IdentityResolver {
	return &IdentityResolver{users: users}
}

func (r *IdentityResolver) Resolve(ctx context.Context, userID string) (domain.User, error) {
	user, err := r.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.User{}, ErrIdentityNotFound
		}
		return domain.User{}, fmt.Errorf("resolve identity: %w: %w", ErrInternal, err)
	}
	return user, nil
}
