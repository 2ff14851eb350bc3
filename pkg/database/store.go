package database

import (
	"context"
	"fmt"
	"net/url"

	"student-records/internal/redis"
	"student-records/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
)

const (
	KindRedis    = "redis"
	KindPostgres = "postgres"
)

// Store is an opened document store. Exactly one of Redis or Postgres is set.
type Store struct {
	Kind     string
	Students repository.StudentRepository
	Redis    *goredis.Client
	Postgres *pgxpool.Pool
}

// StoreKind maps a DOCUMENT_STORE_URL scheme to a store kind.
func StoreKind(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse document store url: %w", err)
	}
	switch u.Scheme {
	case "redis", "rediss":
		return KindRedis, nil
	case "postgres", "postgresql":
		return KindPostgres, nil
	default:
		return "", fmt.Errorf("unsupported document store scheme %q", u.Scheme)
	}
}

// Open builds the student repository for rawURL. No connection is required
// to succeed here; callers ping the store and decide what to do.
func Open(ctx context.Context, rawURL string) (*Store, error) {
	kind, err := StoreKind(rawURL)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindRedis:
		client, err := redis.NewClientFromURL(rawURL)
		if err != nil {
			return nil, err
		}
		return &Store{
			Kind:     kind,
			Students: repository.NewStudentRedisRepository(client),
			Redis:    client,
		}, nil
	default:
		pool, err := Connect(ctx, rawURL)
		if err != nil {
			return nil, err
		}
		return &Store{
			Kind:     kind,
			Students: repository.NewStudentPostgresRepository(pool),
			Postgres: pool,
		}, nil
	}
}

func (s *Store) Close() {
	if s.Redis != nil {
		_ = s.Redis.Close()
	}
	if s.Postgres != nil {
		s.Postgres.Close()
	}
}
