package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	"sns/internal/core/user"
)

// UserCacheRedis keeps a short-lived snapshot of users by email so the bearer
// guard does not hit the database on every request. The password hash is
// never stored (the entity excludes it from JSON); login always goes to the
// database.
type UserCacheRedis struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewUserCacheRedis(client *redis.Client, ttl time.Duration) *UserCacheRedis {
	return &UserCacheRedis{Client: client, TTL: ttl}
}

func key(email string) string { return "user:email:" + email }

func (c *UserCacheRedis) Get(ctx context.Context, email string) (*user.User, error) {
	raw, err := c.Client.Get(ctx, key(email)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var u user.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *UserCacheRedis) Set(ctx context.Context, u *user.User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, key(u.Email), raw, c.TTL).Err()
}

func (c *UserCacheRedis) Invalidate(ctx context.Context, email string) error {
	return c.Client.Del(ctx, key(email)).Err()
}
