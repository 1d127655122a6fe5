package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisRecentKey = "ac:calculations:recent"
	redisRecentCap = 1000
	redisDayTTL    = 30 * 24 * time.Hour
)

// RedisRecorder keeps live counters: a per-day hash (calculations, empty
// results) with a HyperLogLog of users, and a capped list of recent events.
type RedisRecorder struct {
	rdb *redis.Client
}

func NewRedisRecorder(addr string) *RedisRecorder {
	return &RedisRecorder{rdb: redis.NewClient(&redis.Options{Addr: addr})}
}

func dayKey(t time.Time) string {
	return "ac:stats:" + t.UTC().Format("2006-01-02")
}

func (r *RedisRecorder) AppendCalculation(ctx context.Context, c Calculation) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal calculation: %w", err)
	}
	day := dayKey(c.Timestamp)
	pipe := r.rdb.TxPipeline()
	pipe.HIncrBy(ctx, day, "calculations", 1)
	if c.MatchCount == 0 {
		pipe.HIncrBy(ctx, day, "empty", 1)
	}
	pipe.Expire(ctx, day, redisDayTTL)
	pipe.PFAdd(ctx, day+":users", strconv.FormatInt(c.UserID, 10))
	pipe.Expire(ctx, day+":users", redisDayTTL)
	pipe.LPush(ctx, redisRecentKey, data)
	pipe.LTrim(ctx, redisRecentKey, 0, redisRecentCap-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis pipeline: %w", err)
	}
	return nil
}

// DayCounters returns the calculation, empty-result and unique-user counts of a day.
func (r *RedisRecorder) DayCounters(ctx context.Context, day time.Time) (calcs, empty, users int64, err error) {
	key := dayKey(day)
	vals, err := r.rdb.HMGet(ctx, key, "calculations", "empty").Result()
	if err != nil && err != redis.Nil {
		return 0, 0, 0, fmt.Errorf("hmget: %w", err)
	}
	calcs = parseCounter(vals, 0)
	empty = parseCounter(vals, 1)
	users, err = r.rdb.PFCount(ctx, key+":users").Result()
	if err != nil && err != redis.Nil {
		return 0, 0, 0, fmt.Errorf("pfcount: %w", err)
	}
	return calcs, empty, users, nil
}

func parseCounter(vals []interface{}, i int) int64 {
	if i >= len(vals) {
		return 0
	}
	s, ok := vals[i].(string)
	if !ok {
		return 0
	}
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}

func (r *RedisRecorder) Close() error {
	return r.rdb.Close()
}
