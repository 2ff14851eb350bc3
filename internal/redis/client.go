package redis

import (
	"fmt"

	"github.com/redis/go-redis/v9"
)

// NewClientFromURL creates a client from a redis:// or rediss:// URL.
// The client connects lazily, so an unreachable server is reported by the
// first command rather than here.
func NewClientFromURL(rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}
