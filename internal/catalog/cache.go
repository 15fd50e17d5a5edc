package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	cacheKeyPrefix = "catalog:video:"
	genKeySuffix   = ":gen"
	genKeyTTL      = time.Hour
)

// CachedCatalog is a read-through redis cache in front of another Catalog.
// Writes go to the backend first, then bump the video's generation and drop
// the cached entry. A fill only lands if the generation it read before going
// to the backend is still current, so a read that raced a write cannot
// re-cache the old row. Redis errors never fail a call.
type CachedCatalog struct {
	backend Catalog
	rdb     *redis.Client
	ttl     time.Duration
	log     *zap.Logger
}

var errStaleFill = errors.New("video changed while it was being cached")

func NewCachedCatalog(backend Catalog, rdb *redis.Client, ttl time.Duration, log *zap.Logger) *CachedCatalog {
	if log == nil {
		log = zap.NewNop()
	}
	return &CachedCatalog{backend: backend, rdb: rdb, ttl: ttl, log: log}
}

func cacheKey(id string) string {
	return cacheKeyPrefix + id
}

func genKey(id string) string {
	return cacheKeyPrefix + id + genKeySuffix
}

func (c *CachedCatalog) enabled() bool {
	return c.rdb != nil && c.ttl > 0
}

func (c *CachedCatalog) Create(ctx context.Context, v *Video) error {
	return c.backend.Create(ctx, v)
}

func (c *CachedCatalog) FindVideoByID(ctx context.Context, id string) (Video, error) {
	if !c.enabled() {
		return c.backend.FindVideoByID(ctx, id)
	}

	vals, err := c.rdb.MGet(ctx, cacheKey(id), genKey(id)).Result()
	if err != nil {
		c.log.Warn("video cache get", zap.String("video_id", id), zap.Error(err))
		return c.backend.FindVideoByID(ctx, id)
	}
	if raw, ok := vals[0].(string); ok {
		var v Video
		if err := json.Unmarshal([]byte(raw), &v); err == nil {
			return v, nil
		}
		c.log.Warn("discarding undecodable cache entry", zap.String("video_id", id))
	}
	gen := parseGen(vals[1])

	v, err := c.backend.FindVideoByID(ctx, id)
	if err != nil {
		return Video{}, err
	}
	c.store(ctx, v, gen)
	return v, nil
}

func (c *CachedCatalog) FindVideosByIDs(ctx context.Context, ids []string) (map[string]Video, error) {
	if !c.enabled() || len(ids) == 0 {
		return c.backend.FindVideosByIDs(ctx, ids)
	}

	keys := make([]string, 0, 2*len(ids))
	for _, id := range ids {
		keys = append(keys, cacheKey(id))
	}
	for _, id := range ids {
		keys = append(keys, genKey(id))
	}

	vals, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		c.log.Warn("video cache mget", zap.Error(err))
		return c.backend.FindVideosByIDs(ctx, ids)
	}

	out := make(map[string]Video, len(ids))
	gens := make(map[string]int64)
	var missing []string
	for i, id := range ids {
		if raw, ok := vals[i].(string); ok {
			var v Video
			if err := json.Unmarshal([]byte(raw), &v); err == nil {
				out[id] = v
				continue
			}
		}
		missing = append(missing, id)
		gens[id] = parseGen(vals[len(ids)+i])
	}

	if len(missing) == 0 {
		return out, nil
	}

	loaded, err := c.backend.FindVideosByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}
	for id, v := range loaded {
		out[id] = v
		c.store(ctx, v, gens[id])
	}
	return out, nil
}

func (c *CachedCatalog) Update(ctx context.Context, id string, patch VideoPatch) (Video, error) {
	v, err := c.backend.Update(ctx, id, patch)
	if err != nil {
		return Video{}, err
	}
	c.invalidate(ctx, id)
	return v, nil
}

func (c *CachedCatalog) Delete(ctx context.Context, id string) error {
	if err := c.backend.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	return nil
}

// parseGen reads a generation counter as returned by MGET; absent is 0.
func parseGen(raw any) int64 {
	s, ok := raw.(string)
	if !ok {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return -1
	}
	return n
}

// store caches v unless the video's generation moved past gen since it was
// read. WATCH makes the check and the SET one step against invalidate.
func (c *CachedCatalog) store(ctx context.Context, v Video, gen int64) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	gk := genKey(v.ID)
	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, gk).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return errStaleFill
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, cacheKey(v.ID), data, c.ttl)
			return nil
		})
		return err
	}, gk)
	switch {
	case err == nil:
	case errors.Is(err, errStaleFill), errors.Is(err, redis.TxFailedErr):
		c.log.Debug("skipping stale video cache fill", zap.String("video_id", v.ID))
	default:
		c.log.Warn("video cache set", zap.String("video_id", v.ID), zap.Error(err))
	}
}

func (c *CachedCatalog) invalidate(ctx context.Context, id string) {
	if c.rdb == nil {
		return
	}
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey(id))
		pipe.Expire(ctx, genKey(id), genKeyTTL)
		pipe.Del(ctx, cacheKey(id))
		return nil
	})
	if err != nil {
		c.log.Warn("video cache invalidate", zap.String("video_id", id), zap.Error(err))
	}
}
