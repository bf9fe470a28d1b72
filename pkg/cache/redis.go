package cache

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

var Client *redis.Client

// InitRedis connects the package-level client. When addr is empty or the
// server is unreachable the client stays nil and every helper degrades to
// a no-op, so the API runs without a cache.
func InitRedis(addr string) {
	if addr == "" {
		log.Println("No Redis address configured, running without cache")
		return
	}

	Client = redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := Client.Ping(ctx).Err(); err != nil {
		log.Printf("Redis connection warning: %v (continuing without cache)", err)
		Client = nil
	} else {
		log.Println("Redis connected successfully")
	}
}

// CloseRedis releases the client if one was connected.
func CloseRedis() {
	if Client == nil {
		return
	}
	if err := Client.Close(); err != nil {
		log.Printf("Error closing Redis connection: %v", err)
	}
	Client = nil
}
