package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"time"
)

// MaxNegativeTTL 记录不存在时只短暂缓存，新建后很快可见
const MaxNegativeTTL = 10 * time.Second

var nullValue = []byte("null")

// GetOrLoadJSON load 返回 nil 时写入 "null"（负缓存），命中后返回 nil, nil
// 缓存里的坏数据会被删除并回源
func GetOrLoadJSON[T any](
	c *Cache,
	ctx context.Context,
	key string,
	ttl time.Duration,
	load func(ctx context.Context) (*T, error),
) (*T, error) {
	loader := func(ctx context.Context) ([]byte, time.Duration, error) {
		v, err := load(ctx)
		if err != nil {
			return nil, 0, err
		}
		if v == nil {
			return nullValue, min(ttl, MaxNegativeTTL), nil
		}
		b, err := json.Marshal(v)
		return b, ttl, err
	}

	b, err := c.GetOrLoad(ctx, key, loader)
	if err != nil {
		return nil, err
	}
	out, err := decode[T](b)
	if err == nil {
		return out, nil
	}

	_ = c.Del(ctx, key)
	if b, _, err = loader(ctx); err != nil {
		return nil, err
	}
	return decode[T](b)
}

func decode[T any](b []byte) (*T, error) {
	if bytes.Equal(b, nullValue) {
		return nil, nil
	}
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
