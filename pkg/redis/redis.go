package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const replyKeyPrefix = "reply:"

// IRedis is the reply cache backed by Redis.
type IRedis interface {
	GetReply(ctx context.Context, key string) (string, bool, error)
	SetReply(ctx context.Context, key string, reply string, ttl time.Duration) error
	Close() error
}

type redisClient struct {
	client *redis.Client
}

// New connects to Redis. A failed ping is logged and the client is still
// returned; lookups against an unreachable server surface as errors.
func New(addr, password string, db int) IRedis {
	logrus.Info(fmt.Sprintf("Connecting to Redis at %s...", addr))

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		logrus.Error(fmt.Sprintf("Failed to connect to Redis: %v", err))
	} else {
		logrus.Info("Successfully connected to Redis")
	}

	return &redisClient{client: client}
}

func (r *redisClient) SetReply(ctx context.Context, key string, reply string, ttl time.Duration) error {
	logrus.Debug(fmt.Sprintf("Caching reply for key %s with expiration %v", key, ttl))
	if err := r.client.Set(ctx, replyKeyPrefix+key, reply, ttl).Err(); err != nil {
		logrus.Error(fmt.Sprintf("Error caching reply for key %s: %v", key, err))
		return err
	}
	return nil
}

func (r *redisClient) GetReply(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, replyKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		logrus.Debug(fmt.Sprintf("Reply not cached for key %s", key))
		return "", false, nil
	} else if err != nil {
		logrus.Error(fmt.Sprintf("Error reading reply for key %s: %v", key, err))
		return "", false, err
	}
	logrus.Debug(fmt.Sprintf("Reply cache hit for key %s", key))
	return val, true, nil
}

func (r *redisClient) Close() error {
	return r.client.Close()
}
