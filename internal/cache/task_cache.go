package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	dom "Tasker/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix  = "tasks:"
	keyList    = ":list"
	keyCounts  = ":counts"
	keyRatings = ":ratings"
	keyGen     = ":gen"
)

// TaskCache caches a user's task list and analytics in Redis. All keys are
// per user, so a write only invalidates its owner's entries.
//
// Every user also has a generation counter that InvalidateUser bumps. A
// value loaded under one generation is only stored while that generation is
// still current, so a load that raced a write never lands in cache.
type TaskCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewTaskCache returns a new TaskCache.
func NewTaskCache(rdb *redis.Client, ttl time.Duration) *TaskCache {
	return &TaskCache{rdb: rdb, ttl: ttl}
}

// GetList returns the cached list; ok is false on a miss.
func (c *TaskCache) GetList(ctx context.Context, userID string) (list []dom.Task, ok bool, err error) {
	ok, err = c.get(ctx, listKey(userID), &list)
	return list, ok, err
}

// SetList stores the list in cache if gen is still the user's generation.
func (c *TaskCache) SetList(ctx context.Context, userID string, gen int64, list []dom.Task) error {
	return c.set(ctx, userID, listKey(userID), gen, list)
}

// GetCounts returns cached status counts; ok is false on a miss.
func (c *TaskCache) GetCounts(ctx context.Context, userID string) (counts dom.TaskCounts, ok bool, err error) {
	ok, err = c.get(ctx, countsKey(userID), &counts)
	return counts, ok, err
}

// SetCounts stores status counts in cache if gen is still current.
func (c *TaskCache) SetCounts(ctx context.Context, userID string, gen int64, counts dom.TaskCounts) error {
	return c.set(ctx, userID, countsKey(userID), gen, counts)
}

// GetRatings returns cached rating averages; ok is false on a miss.
func (c *TaskCache) GetRatings(ctx context.Context, userID string) (ratings dom.AverageRatings, ok bool, err error) {
	ok, err = c.get(ctx, ratingsKey(userID), &ratings)
	return ratings, ok, err
}

// SetRatings stores rating averages in cache if gen is still current.
func (c *TaskCache) SetRatings(ctx context.Context, userID string, gen int64, ratings dom.AverageRatings) error {
	return c.set(ctx, userID, ratingsKey(userID), gen, ratings)
}

// Generation returns the user's current cache generation. Read it before
// loading from the store and pass it to the matching Set call.
func (c *TaskCache) Generation(ctx context.Context, userID string) (int64, error) {
	return readGen(c.rdb.Get(ctx, genKey(userID)))
}

// InvalidateUser bumps the user's generation and removes every cached entry
// of that user.
func (c *TaskCache) InvalidateUser(ctx context.Context, userID string) error {
	_, err := c.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Incr(ctx, genKey(userID))
		p.Del(ctx, listKey(userID), countsKey(userID), ratingsKey(userID))
		return nil
	})
	return err
}

func (c *TaskCache) get(ctx context.Context, key string, dst any) (bool, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return false, err
	}
	return true, nil
}

// set writes key under WATCH of the generation key. A stale generation or a
// concurrent bump skips the write without error.
func (c *TaskCache) set(ctx context.Context, userID, key string, gen int64, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := readGen(tx.Get(ctx, genKey(userID)))
		if err != nil {
			return err
		}
		if cur != gen {
			return errStale
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, key, b, c.ttl)
			return nil
		})
		return err
	}, genKey(userID))
	if errors.Is(err, errStale) || errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

var errStale = errors.New("cache generation changed")

func readGen(cmd *redis.StringCmd) (int64, error) {
	n, err := cmd.Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

func listKey(userID string) string    { return keyPrefix + userID + keyList }
func countsKey(userID string) string  { return keyPrefix + userID + keyCounts }
func ratingsKey(userID string) string { return keyPrefix + userID + keyRatings }
func genKey(userID string) string     { return keyPrefix + userID + keyGen }
