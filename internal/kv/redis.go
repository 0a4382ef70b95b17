package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	inErrors "github.com/fauzankm/storefront/internal/errors"
	"github.com/fauzankm/storefront/internal/log"
	"github.com/fauzankm/storefront/internal/otel"
)

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(c context.Context, key string) ([]byte, error) {
	c, span := otel.Tracer.Start(c, "RedisStore Get")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "RedisStore Get").
		Str(log.KeyStorageKey, key).
		Logger()

	value, err := s.client.Get(c, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, inErrors.ErrKeyNotFound
		}
		err = fmt.Errorf("failed getting key=%s with error=%w", key, err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	return value, nil
}

func (s *RedisStore) Set(c context.Context, key string, value []byte, ttl time.Duration) error {
	c, span := otel.Tracer.Start(c, "RedisStore Set")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "RedisStore Set").
		Str(log.KeyStorageKey, key).
		Logger()

	err := s.client.Set(c, key, value, ttl).Err()
	if err != nil {
		err = fmt.Errorf("failed setting key=%s with error=%w", key, err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	return nil
}

func (s *RedisStore) Del(c context.Context, key string) error {
	c, span := otel.Tracer.Start(c, "RedisStore Del")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "RedisStore Del").
		Str(log.KeyStorageKey, key).
		Logger()

	err := s.client.Del(c, key).Err()
	if err != nil {
		err = fmt.Errorf("failed deleting key=%s with error=%w", key, err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	return nil
}
