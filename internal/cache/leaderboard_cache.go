package cache

import (
	"context"
	"errors"
	"time"

	"github.com/bytedance/sonic"
	"github.com/fitquest/fitquest/pkg/cleanup"
	"github.com/fitquest/fitquest/pkg/entity"
	"github.com/go-redis/redis/v8"
)

const topTenKey = "leaderboard:top10"

var ErrCacheMiss = errors.New("leaderboard not cached")

// LeaderboardCache keeps the top-ten snapshot in redis so the full-table
// scan doesn't run on every request. Per-user rank is never cached, it is
// cheap next to the scan and staleness there is visible to the user.
type LeaderboardCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(address, password string, ttl time.Duration) *LeaderboardCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
	})
	cleanup.Register(&cleanup.Job{
		Name: "closing redis client",
		F:    rdb.Close,
	})
	return &LeaderboardCache{rdb: rdb, ttl: ttl}
}

func NewWithClient(rdb *redis.Client, ttl time.Duration) *LeaderboardCache {
	return &LeaderboardCache{rdb: rdb, ttl: ttl}
}

func (c *LeaderboardCache) GetTopTen(ctx context.Context) ([]entity.Profile, error) {
	raw, err := c.rdb.Get(ctx, topTenKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, errors.New("reading leaderboard cache error: " + err.Error())
	}
	var profiles []entity.Profile
	if err := sonic.Unmarshal(raw, &profiles); err != nil {
		// A corrupt entry behaves like a miss, the next Set repairs it.
		return nil, ErrCacheMiss
	}
	return profiles, nil
}

func (c *LeaderboardCache) SetTopTen(ctx context.Context, profiles []entity.Profile) error {
	raw, err := sonic.Marshal(profiles)
	if err != nil {
		return errors.New("marshalling leaderboard error: " + err.Error())
	}
	if err := c.rdb.Set(ctx, topTenKey, raw, c.ttl).Err(); err != nil {
		return errors.New("writing leaderboard cache error: " + err.Error())
	}
	return nil
}

// Invalidate drops the snapshot, used after destructive account operations.
func (c *LeaderboardCache) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, topTenKey).Err()
}
