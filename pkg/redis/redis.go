package redis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Answer cache keyed by the normalized question. A hit short-circuits the
// knowledge store lookup entirely.
type IRedis interface {
	SetAnswer(ctx context.Context, question string, answer string, expiration time.Duration) error
	GetAnswer(ctx context.Context, question string) (string, error)
	DeleteAnswer(ctx context.Context, question string) error
}

var ErrCacheMiss = redis.Nil

const answerKeyPrefix = "servicebot:answer:"

type redisClient struct {
	client *redis.Client
}

func New() IRedis {
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	redisAddr := os.Getenv("REDIS_ADDRESS")
	redisPassword := os.Getenv("REDIS_PASSWORD")

	logrus.Info(fmt.Sprintf("Connecting to Redis at %s...", redisAddr))

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
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

func (r *redisClient) SetAnswer(ctx context.Context, question string, answer string, expiration time.Duration) error {
	err := r.client.Set(ctx, answerKeyPrefix+question, answer, expiration).Err()
	if err != nil {
		logrus.Error(fmt.Sprintf("Error caching answer for question %q: %v", question, err))
		return err
	}
	return nil
}

func (r *redisClient) GetAnswer(ctx context.Context, question string) (string, error) {
	val, err := r.client.Get(ctx, answerKeyPrefix+question).Result()
	if errors.Is(err, redis.Nil) {
		return "", err
	} else if err != nil {
		logrus.Error(fmt.Sprintf("Error getting cached answer for question %q: %v", question, err))
		return "", err
	}
	return val, nil
}

func (r *redisClient) DeleteAnswer(ctx context.Context, question string) error {
	if _, err := r.client.Del(ctx, answerKeyPrefix+question).Result(); err != nil {
		logrus.Error(fmt.Sprintf("Error deleting cached answer for question %q: %v", question, err))
		return err
	}
	return nil
}
