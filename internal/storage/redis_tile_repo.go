package storage

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/annel0/procgen/internal/config"
	"github.com/annel0/procgen/internal/logging"
)

// DefaultRedisTTL — время жизни тайла в Redis по умолчанию
const DefaultRedisTTL = time.Hour

// RedisTileRepo реализует TileRepo поверх Redis как общий горячий кеш
// нескольких экземпляров procgen. При промахе читает из cold (Read-Through)
// и прогревает Redis; запись идёт в оба уровня.
//
// Использование:
//
//	cold, _ := NewTileStore(cfg.Storage)
//	repo, err := NewRedisTileRepo(cfg.Storage.Redis, cold)
type RedisTileRepo struct {
	client *redis.Client
	codec  *tileCodec
	cold   TileRepo
	ttl    time.Duration
	logger *logging.Logger

	hits   int64
	misses int64
}

// NewRedisTileRepo подключается к Redis. cold может быть nil.
func NewRedisTileRepo(cfg config.RedisConfig, cold TileRepo) (*RedisTileRepo, error) {
	addr := cfg.GetAddr()
	if addr == "" {
		return nil, fmt.Errorf("не указан адрес Redis")
	}
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = DefaultRedisTTL
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	})

	// Проверяем соединение
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	codec, err := newTileCodec()
	if err != nil {
		rdb.Close()
		return nil, err
	}

	logger := logging.GetStorageLogger()
	logger.Info("Redis кеш тайлов подключён: %s (cold storage: %v, ttl: %s)", addr, cold != nil, ttl)

	return &RedisTileRepo{
		client: rdb,
		codec:  codec,
		cold:   cold,
		ttl:    ttl,
		logger: logger,
	}, nil
}

// Save пишет тайл в Redis и в cold storage
func (r *RedisTileRepo) Save(ctx context.Context, key TileKey, values []float64) error {
	if err := validateTile(key, values); err != nil {
		return err
	}

	if err := r.client.Set(ctx, key.String(), r.codec.Encode(values), r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set error: %w", err)
	}

	if r.cold != nil {
		if err := r.cold.Save(ctx, key, values); err != nil {
			return fmt.Errorf("cold storage: %w", err)
		}
	}
	return nil
}

// Load читает тайл из Redis, при промахе — из cold storage
func (r *RedisTileRepo) Load(ctx context.Context, key TileKey) ([]float64, error) {
	data, err := r.client.Get(ctx, key.String()).Bytes()
	if err == nil {
		atomic.AddInt64(&r.hits, 1)
		return r.codec.Decode(key, data)
	}
	atomic.AddInt64(&r.misses, 1)

	if !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("redis get error: %w", err)
	}

	if r.cold == nil {
		return nil, ErrTileNotFound
	}

	values, err := r.cold.Load(ctx, key)
	if err != nil {
		return nil, err
	}

	// Прогреваем Redis для следующих запросов
	if err := r.client.Set(ctx, key.String(), r.codec.Encode(values), r.ttl).Err(); err != nil {
		r.logger.Warn("Не удалось прогреть Redis для %s: %v", key, err)
	}
	return values, nil
}

// Delete удаляет тайл из обоих уровней
func (r *RedisTileRepo) Delete(ctx context.Context, key TileKey) error {
	if err := r.client.Del(ctx, key.String()).Err(); err != nil {
		return fmt.Errorf("redis del error: %w", err)
	}
	if r.cold != nil {
		return r.cold.Delete(ctx, key)
	}
	return nil
}

// Stats возвращает число попаданий и промахов Redis
func (r *RedisTileRepo) Stats() (hits, misses int64) {
	return atomic.LoadInt64(&r.hits), atomic.LoadInt64(&r.misses)
}

// Close закрывает соединение и cold storage
func (r *RedisTileRepo) Close() error {
	r.codec.Close()
	err := r.client.Close()
	if r.cold != nil {
		if cerr := r.cold.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
