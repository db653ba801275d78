package redis

import (
	"context"
	"errors"
	"fmt"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"os"
	"strconv"
	"time"
)

// IRedis hands out short-lived leases keyed by camera device ID. A physical
// camera can only serve one capture loop at a time, so a capture run must
// hold the lease for its device before touching the frame stream.
type IRedis interface {
	AcquireCameraLease(ctx context.Context, deviceID string, ttl time.Duration) (bool, error)
	ReleaseCameraLease(ctx context.Context, deviceID string) error
}

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

func leaseKey(deviceID string) string {
	return "camera_lease:" + deviceID
}

func (r *redisClient) AcquireCameraLease(ctx context.Context, deviceID string, ttl time.Duration) (bool, error) {
	logrus.Debug(fmt.Sprintf("Acquiring camera lease for device %s with ttl %v", deviceID, ttl))
	acquired, err := r.client.SetNX(ctx, leaseKey(deviceID), "1", ttl).Result()
	if err != nil {
		logrus.Error(fmt.Sprintf("Error acquiring camera lease for device %s: %v", deviceID, err))
		return false, err
	}
	if !acquired {
		logrus.Debug(fmt.Sprintf("Camera lease for device %s already held", deviceID))
	}
	return acquired, nil
}

func (r *redisClient) ReleaseCameraLease(ctx context.Context, deviceID string) error {
	result, err := r.client.Del(ctx, leaseKey(deviceID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		logrus.Error(fmt.Sprintf("Error releasing camera lease for device %s: %v", deviceID, err))
		return err
	}

	if result == 0 {
		logrus.Debug(fmt.Sprintf("Camera lease for device %s was not held", deviceID))
		return nil
	}

	logrus.Debug(fmt.Sprintf("Released camera lease for device %s", deviceID))
	return nil
}
