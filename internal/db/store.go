package db

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"blog-api/internal/config"
	"blog-api/internal/repository"
)

// Store agrupa los repositorios del backend elegido por STORE_DRIVER.
type Store struct {
	Users    repository.UserRepository
	Posts    repository.PostRepository
	Comments repository.CommentRepository

	ping  func(ctx context.Context) error
	close func()
}

func (s *Store) Ping(ctx context.Context) error { return s.ping(ctx) }

func (s *Store) Close() {
	if s.close != nil {
		s.close()
	}
}

// OpenStore abre el almacenamiento configurado. Con postgres aplica las
// migraciones si RUN_MIGRATIONS esta activo.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Store, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		pool, err := NewPool(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("db connect: %w", err)
		}
		if err := Ping(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("db ping: %w", err)
		}
		if cfg.RunMigrations {
			if err := Migrate(ctx, pool); err != nil {
				pool.Close()
				return nil, err
			}
			logger.Info("migrations applied")
		}
		return &Store{
			Users:    repository.NewPgUserRepository(pool),
			Posts:    repository.NewPgPostRepository(pool),
			Comments: repository.NewPgCommentRepository(pool),
			ping:     pool.Ping,
			close:    pool.Close,
		}, nil

	case config.StoreDriverSQLite:
		gs, err := repository.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &Store{
			Users:    gs.Users(),
			Posts:    gs.Posts(),
			Comments: gs.Comments(),
			ping:     gs.Ping,
			close: func() {
				if err := gs.Close(); err != nil {
					logger.Warn("sqlite close failed", zap.Error(err))
				}
			},
		}, nil

	case config.StoreDriverMemory:
		logger.Warn("using in-memory store, data is lost on restart")
		mem := repository.NewMemoryStore()
		return &Store{
			Users:    mem.Users(),
			Posts:    mem.Posts(),
			Comments: mem.Comments(),
			ping:     mem.Ping,
		}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// NewRedisClient devuelve nil si REDIS_ADDR no esta configurado o redis no
// responde; la cache de identidad queda desactivada en ese caso.
func NewRedisClient(ctx context.Context, cfg *config.Config, logger *zap.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctxPing).Err(); err != nil {
		logger.Warn("redis ping failed, identity cache disabled", zap.Error(err))
		_ = client.Close()
		return nil
	}
	return client
}

// WithIdentityCache envuelve Users con la cache redis cuando hay cliente.
func (s *Store) WithIdentityCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) {
	s.Users = repository.NewCachedUserRepository(s.Users, client, ttl, logger)
}
