// Package cache guarda en Redis la última foto clasificada de la red para
// que un reinicio del servicio no obligue a releer el ERP.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/andyspruebas-jpg/Stock-Pro/internal/application/dto"
	"github.com/andyspruebas-jpg/Stock-Pro/internal/application/ports"
	"github.com/andyspruebas-jpg/Stock-Pro/internal/domain/entity"
	"github.com/andyspruebas-jpg/Stock-Pro/pkg/config"
)

const (
	snapshotKey        = "stockpro:snapshot:v1"
	defaultSnapshotTTL = 35 * time.Minute
	pingTimeout        = 5 * time.Second
)

var (
	_ ports.SnapshotCache = (*redisSnapshotCache)(nil)
	_ ports.SnapshotCache = noopSnapshotCache{}
)

type redisSnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopSnapshotCache struct{}

// NewSnapshotCache devuelve el cache Redis si está configurado; si no, uno
// que no guarda nada.
func NewSnapshotCache(ctx context.Context, cfg config.RedisConfig) (ports.SnapshotCache, error) {
	if !cfg.Enabled() {
		return NewNoopSnapshotCache(), nil
	}

	opts, err := buildRedisOptions(cfg)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return newRedisSnapshotCache(client, cfg.TTL), nil
}

// NewNoopSnapshotCache cache deshabilitado.
func NewNoopSnapshotCache() ports.SnapshotCache {
	return noopSnapshotCache{}
}

func newRedisSnapshotCache(client *redis.Client, ttl time.Duration) *redisSnapshotCache {
	if ttl <= 0 {
		ttl = defaultSnapshotTTL
	}
	return &redisSnapshotCache{client: client, ttl: ttl}
}

func buildRedisOptions(cfg config.RedisConfig) (*redis.Options, error) {
	if cfg.URL != "" {
		opt, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return opt, nil
	}

	host := cfg.Host
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port == 0 {
		port = 6379
	}

	return &redis.Options{
		Addr:     net.JoinHostPort(host, strconv.Itoa(port)),
		Password: cfg.Password,
		DB:       cfg.DB,
	}, nil
}

func (c *redisSnapshotCache) Get(ctx context.Context) (*entity.Snapshot, error) {
	payload, err := c.client.Get(ctx, snapshotKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return decodeSnapshot(payload)
}

func (c *redisSnapshotCache) Set(ctx context.Context, snap *entity.Snapshot) error {
	payload, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, snapshotKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisSnapshotCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, snapshotKey).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (noopSnapshotCache) Get(context.Context) (*entity.Snapshot, error) { return nil, nil }
func (noopSnapshotCache) Set(context.Context, *entity.Snapshot) error   { return nil }
func (noopSnapshotCache) Invalidate(context.Context) error              { return nil }

func encodeSnapshot(snap *entity.Snapshot) ([]byte, error) {
	if snap == nil {
		return nil, errors.New("encode snapshot cache: snapshot nil")
	}
	payload, err := json.Marshal(dto.ToSnapshotDTO(snap))
	if err != nil {
		return nil, fmt.Errorf("encode snapshot cache: %w", err)
	}
	return payload, nil
}

func decodeSnapshot(payload []byte) (*entity.Snapshot, error) {
	var s dto.SnapshotDTO
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, fmt.Errorf("decode snapshot cache: %w", err)
	}
	return s.ToEntity(), nil
}
