// Package cache - тонкая обертка над Redis с неймспейсами ключей
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss - ключа нет в кэше
var ErrMiss = errors.New("cache: miss")

type Cache struct {
	client redis.UniversalClient // single и cluster
}

// Options - параметры подключения
type Options struct {
	Addrs    []string
	Password string
	DB       int
	Cluster  bool
}

func NewCache(opts Options) *Cache {
	var rdb redis.UniversalClient

	if opts.Cluster && len(opts.Addrs) > 1 {
		rdb = redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:    opts.Addrs,
			Password: opts.Password,
		})
	} else {
		addr := "localhost:6379"
		if len(opts.Addrs) > 0 {
			addr = opts.Addrs[0]
		}
		rdb = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: opts.Password,
			DB:       opts.DB,
		})
	}

	return &Cache{client: rdb}
}

// NewFromClient - для уже созданного клиента
func NewFromClient(client redis.UniversalClient) *Cache {
	return &Cache{client: client}
}

func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	return c.client.Close()
}

func (c *Cache) Set(ctx context.Context, namespace, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, namespace+":"+key, value, ttl).Err()
}

func (c *Cache) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, namespace+":"+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	return val, err
}

func (c *Cache) Delete(ctx context.Context, namespace string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, namespace+":"+k)
	}
	return c.client.Del(ctx, full...).Err()
}

// AddMember добавляет member в множество и продлевает TTL множества
func (c *Cache) AddMember(ctx context.Context, namespace, key, member string, ttl time.Duration) error {
	setKey := namespace + ":" + key
	pipe := c.client.TxPipeline()
	pipe.SAdd(ctx, setKey, member)
	pipe.Expire(ctx, setKey, ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (c *Cache) Members(ctx context.Context, namespace, key string) ([]string, error) {
	return c.client.SMembers(ctx, namespace+":"+key).Result()
}
