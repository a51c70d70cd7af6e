package redis

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/phcfinder/internal/metrics"
	"github.com/Nixie-Tech-LLC/phcfinder/internal/model"
	"github.com/Nixie-Tech-LLC/phcfinder/internal/render"
)

var Rdb *redis.Client

func InitRedis(reddisAddress string, redisUsername string, redisPassword string) {
	Rdb = redis.NewClient(&redis.Options{
		Addr:     reddisAddress,
		Username: redisUsername,
		Password: redisPassword,
		DB:       0,
	})
}

// RenderCache stores rendered search responses. Keys include the snapshot
// version so a reload never serves results of the old datasets.
type RenderCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRenderCache(client *redis.Client, ttl time.Duration) *RenderCache {
	return &RenderCache{client: client, ttl: ttl}
}

func Key(version string, sel model.Selection) string {
	sel = sel.Normalize()
	v := url.Values{}
	v.Set("q", sel.Query)
	v.Set("ward", sel.Ward)
	v.Set("day", sel.Day)
	return "phcfinder:render:" + version + ":" + v.Encode()
}

// Get returns the cached result, if any. Errors are logged and count as a miss.
func (c *RenderCache) Get(ctx context.Context, version string, sel model.Selection) (*render.Result, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, Key(version, sel)).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.CacheMissesTotal.Inc()
		return nil, false
	}
	if err != nil {
		log.Warn().Err(err).Msg("render cache read failed")
		metrics.CacheMissesTotal.Inc()
		return nil, false
	}
	var res render.Result
	if err := json.Unmarshal(raw, &res); err != nil {
		log.Warn().Err(err).Msg("render cache entry is corrupt")
		metrics.CacheMissesTotal.Inc()
		return nil, false
	}
	metrics.CacheHitsTotal.Inc()
	return &res, true
}

func (c *RenderCache) Set(ctx context.Context, version string, sel model.Selection, res *render.Result) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(res)
	if err != nil {
		log.Warn().Err(err).Msg("render cache encode failed")
		return
	}
	key := Key(version, sel)
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		log.Printf("Failed to add %s to redis: %v", key, err)
	}
}
