package redis

import (
	"context"
	"festival-service/internal/config"
	"log"

	"github.com/redis/go-redis/v9"
)

var Redis_Client *redis.Client

func InitRedis(cfg *config.RedisConfig) {
	Redis_Client = redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := Redis_Client.Ping(context.Background()).Err(); err != nil {
		log.Printf("Error connecting to Redis: %v", err)
	}
}

// CloseRedis closes the Redis connection
func CloseRedis() {
	if Redis_Client != nil {
		if err := Redis_Client.Close(); err != nil {
			log.Printf("Error closing Redis connection: %v", err)
		}
	}
}
