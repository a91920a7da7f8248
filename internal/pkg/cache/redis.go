package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewClient connects to redis at addr and checks it answers.
func NewClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

// Keyspace namespaces the keys one service writes.
type Keyspace string

// GenerateKey returns "<service>:<operation>:<key>".
func (k Keyspace) GenerateKey(operation, key string) string {
	return fmt.Sprintf("%s:%s:%s", k, operation, key)
}
