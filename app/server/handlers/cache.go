package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// 缓存出错只记录日志，调用方回落到数据库

func (a *App) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	if a.rdb == nil {
		return nil, false
	}

	data, err := a.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			a.l.Error("failed to query cache", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	return data, true
}

func (a *App) cacheSet(ctx context.Context, key string, data []byte, expire time.Duration) {
	if a.rdb == nil {
		return
	}

	if err := a.rdb.Set(ctx, key, data, expire).Err(); err != nil {
		a.l.Error("failed to set cache", zap.String("key", key), zap.Error(err))
	}
}

func (a *App) cacheDel(ctx context.Context, keys ...string) {
	if a.rdb == nil {
		return
	}

	if err := a.rdb.Del(ctx, keys...).Err(); err != nil {
		a.l.Error("failed to clear cache", zap.Strings("keys", keys), zap.Error(err))
	}
}

// cached 先查缓存，未命中时用 load 生成并写回；同一个 key 的并发未命中只会执行一次 load
func (a *App) cached(ctx context.Context, key string, expire time.Duration, load func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	if data, ok := a.cacheGet(ctx, key); ok {
		return data, nil
	}

	v, err, _ := a.sf.Do(key, func() (interface{}, error) {
		// 不随第一个请求取消
		lctx := context.WithoutCancel(ctx)

		data, err := load(lctx)
		if err != nil {
			return nil, err
		}

		a.cacheSet(lctx, key, data, expire)
		return data, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]byte), nil
}
