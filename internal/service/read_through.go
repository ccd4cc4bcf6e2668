package service

import (
	"context"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"Tasker/internal/cache"
)

// loadTimeout bounds a shared load once it is detached from its callers.
const loadTimeout = 10 * time.Second

// cachedQuery is one per-user read served through TaskCache.
type cachedQuery[T any] struct {
	name string
	get  func(ctx context.Context, userID string) (T, bool, error)
	set  func(ctx context.Context, userID string, gen int64, v T) error
	load func(ctx context.Context, userID string) (T, error)
}

// readThrough serves q from cache, loading it at most once per user and cache
// generation. Callers that arrive after a write see a new generation, so they
// never join a load that started before it.
//
// The load runs on a context detached from the caller that started it. A
// caller that goes away returns its own ctx error and leaves the load to the
// others.
func readThrough[T any](ctx context.Context, c *cache.TaskCache, sf *singleflight.Group, log logrus.FieldLogger, userID string, q cachedQuery[T]) (T, error) {
	var zero T
	log = log.WithField("user_id", userID)

	gen, err := c.Generation(ctx, userID)
	if err != nil {
		log.WithError(err).Warnf("%s cache read failed", q.name)
		return q.load(ctx, userID)
	}

	ch := sf.DoChan(q.name+":"+userID+":"+strconv.FormatInt(gen, 10), func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()

		if v, ok, err := q.get(ctx, userID); err == nil && ok {
			return v, nil
		} else if err != nil {
			log.WithError(err).Warnf("%s cache read failed", q.name)
		}
		v, err := q.load(ctx, userID)
		if err != nil {
			return nil, err
		}
		if err := q.set(ctx, userID, gen, v); err != nil {
			log.WithError(err).Warnf("%s cache write failed", q.name)
		}
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return zero, r.Err
		}
		return r.Val.(T), nil
	}
}
