package repository

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"blog-api/internal/domain"
)

// redisKV es el subconjunto de *redis.Client que usa la cache; permite mocks en tests.
type redisKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// cachedUser omite el hash de la contraseña: nunca sale del almacenamiento principal.
type cachedUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	FirstName string    `json:"firstName"`
	Country   string    `json:"country"`
	IsAdmin   bool      `json:"isAdmin"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"createdAt"`
}

// CachedUserRepository pone una cache redis delante de GetByID, que es la lectura
// que hace el resolver de identidad en cada request autenticado. Los usuarios
// devueltos desde la cache no traen PasswordHash; el login lee por email y no pasa
// por aqui. Cualquier escritura invalida la entrada. Errores de redis no cortan
// el request: se cae al repositorio.
type CachedUserRepository struct {
	UserRepository
	client redisKV
	ttl    time.Duration
	prefix string
	logger *zap.Logger

	// invalidations cuenta escrituras; una lectura que se cruzo con una no se cachea.
	invalidations atomic.Uint64
}

func NewCachedUserRepository(next UserRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) UserRepository {
	if client == nil || ttl <= 0 {
		return next
	}
	return newCachedUserRepository(next, client, ttl, logger)
}

func newCachedUserRepository(next UserRepository, client redisKV, ttl time.Duration, logger *zap.Logger) *CachedUserRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedUserRepository{
		UserRepository: next,
		client:         client,
		ttl:            ttl,
		prefix:         "identity:user:",
		logger:         logger,
	}
}

func (r *CachedUserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	key := r.prefix + id
	raw, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cu cachedUser
		if jsonErr := json.Unmarshal(raw, &cu); jsonErr == nil {
			return cu.toDomain(), nil
		}
		r.logger.Warn("identity cache entry corrupt", zap.String("key", key))
	case !errors.Is(err, redis.Nil):
		r.logger.Warn("identity cache get failed", zap.Error(err))
	}

	seen := r.invalidations.Load()
	user, err := r.UserRepository.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	if r.invalidations.Load() != seen {
		return user, nil
	}
	r.store(ctx, user)
	// Una invalidacion entre el chequeo y el Set pudo borrar antes de que escribieramos.
	if r.invalidations.Load() != seen {
		r.dropEntry(ctx, user.ID)
	}
	return user, nil
}

func (r *CachedUserRepository) SetAdmin(ctx context.Context, id string, isAdmin bool) (domain.User, error) {
	user, err := r.UserRepository.SetAdmin(ctx, id, isAdmin)
	r.invalidate(ctx, id)
	return user, err
}

func (r *CachedUserRepository) Delete(ctx context.Context, id string) error {
	err := r.UserRepository.Delete(ctx, id)
	r.invalidate(ctx, id)
	return err
}

func (r *CachedUserRepository) store(ctx context.Context, user domain.User) {
	payload, err := json.Marshal(fromDomainUser(user))
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, r.prefix+user.ID, payload, r.ttl).Err(); err != nil {
		r.logger.Warn("identity cache set failed", zap.Error(err))
	}
}

func (r *CachedUserRepository) invalidate(ctx context.Context, id string) {
	r.invalidations.Add(1)
	r.dropEntry(ctx, id)
}

func (r *CachedUserRepository) dropEntry(ctx context.Context, id string) {
	if err := r.client.Del(ctx, r.prefix+id).Err(); err != nil {
		r.logger.Warn("identity cache invalidate failed", zap.Error(err), zap.String("user_id", id))
	}
}

func fromDomainUser(u domain.User) cachedUser {
	return cachedUser{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		FirstName: u.FirstName,
		Country:   u.Country,
		IsAdmin:   u.IsAdmin,
		Verified:  u.Verified,
		CreatedAt: u.CreatedAt,
	}
}

func (cu cachedUser) toDomain() domain.User {
	return domain.User{
		ID:        cu.ID,
		Email:     cu.Email,
		Name:      cu.Name,
		FirstName: cu.FirstName,
		Country:   cu.Country,
		IsAdmin:   cu.IsAdmin,
		Verified:  cu.Verified,
		CreatedAt: cu.CreatedAt,
	}
}
