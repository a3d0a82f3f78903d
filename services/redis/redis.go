package redis

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"
	goredis "github.com/redis/go-redis/v9"
	"github.com/roysitumorang/raket/helper"
	"go.uber.org/zap"
)

func NewClient(ctx context.Context, address string) (*goredis.Client, error) {
	ctxt := "ServiceRedis-NewClient"
	client := goredis.NewClient(&goredis.Options{
		Addr:         address,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		helper.Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrPing")
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

type (
	// ViewCache stores JSON snapshots of T. A zero ttl keeps keys until deleted.
	ViewCache[T any] struct {
		client goredis.Cmdable
		prefix string
		ttl    time.Duration
	}
)

func NewViewCache[T any](client goredis.Cmdable, prefix string, ttl time.Duration) *ViewCache[T] {
	return &ViewCache[T]{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// Get reports a miss on any read or decode failure.
func (q *ViewCache[T]) Get(ctx context.Context, key string) (*T, bool) {
	ctxt := "ServiceRedis-Get"
	data, err := q.client.Get(ctx, q.prefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false
	}
	if err != nil {
		helper.Capture(ctx, zap.WarnLevel, err, ctxt, "ErrGet")
		return nil, false
	}
	var value T
	if err = json.Unmarshal(data, &value); err != nil {
		helper.Capture(ctx, zap.WarnLevel, err, ctxt, "ErrUnmarshal")
		return nil, false
	}
	return &value, true
}

func (q *ViewCache[T]) Set(ctx context.Context, key string, value *T) {
	ctxt := "ServiceRedis-Set"
	data, err := json.Marshal(value)
	if err != nil {
		helper.Capture(ctx, zap.WarnLevel, err, ctxt, "ErrMarshal")
		return
	}
	if err = q.client.Set(ctx, q.prefix+key, data, q.ttl).Err(); err != nil {
		helper.Capture(ctx, zap.WarnLevel, err, ctxt, "ErrSet")
	}
}

func (q *ViewCache[T]) Delete(ctx context.Context, keys ...string) {
	ctxt := "ServiceRedis-Delete"
	if len(keys) == 0 {
		return
	}
	prefixed := make([]string, len(keys))
	for i, key := range keys {
		prefixed[i] = q.prefix + key
	}
	if err := q.client.Del(ctx, prefixed...).Err(); err != nil {
		helper.Capture(ctx, zap.WarnLevel, err, ctxt, "ErrDel")
	}
}
