package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/phcfinder/internal/model"
	"github.com/Nixie-Tech-LLC/phcfinder/internal/render"
)

func newCache(t *testing.T) (*RenderCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRenderCache(client, time.Minute), mr
}

func TestKeyNormalizesSelection(t *testing.T) {
	a := Key("abc", model.Selection{Query: "  ogijo ", Ward: " Sabo", Day: "Mon"})
	b := Key("abc", model.Selection{Query: "ogijo", Ward: "Sabo", Day: "Mon"})
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, Key("def", model.Selection{Query: "ogijo", Ward: "Sabo", Day: "Mon"}))
}

func TestRenderCacheRoundTrip(t *testing.T) {
	cache, mr := newCache(t)
	ctx := context.Background()
	sel := model.Selection{Ward: "Ogijo"}
	res := &render.Result{
		Selection: sel,
		Count:     1,
		Cards:     []render.Card{{Name: "Ogijo PHC", Services: []string{}, Clinics: []string{}}},
		ListHTML:  `<div class="card"></div>`,
		Map:       render.MapView{Markers: []render.Marker{}, Viewport: render.Viewport{Center: render.FallbackCenter, Zoom: 12}},
	}

	_, ok := cache.Get(ctx, "v1", sel)
	assert.False(t, ok)

	cache.Set(ctx, "v1", sel, res)
	got, ok := cache.Get(ctx, "v1", sel)
	require.True(t, ok)
	assert.Equal(t, res, got)

	_, ok = cache.Get(ctx, "v2", sel)
	assert.False(t, ok, "a new dataset version must not reuse old entries")

	assert.Equal(t, time.Minute, mr.TTL(Key("v1", sel)))
}

func TestRenderCacheCorruptEntry(t *testing.T) {
	cache, mr := newCache(t)
	sel := model.Selection{}
	require.NoError(t, mr.Set(Key("v1", sel), "not json"))

	_, ok := cache.Get(context.Background(), "v1", sel)
	assert.False(t, ok)
}

func TestRenderCacheUnavailable(t *testing.T) {
	cache, mr := newCache(t)
	mr.Close()

	cache.Set(context.Background(), "v1", model.Selection{}, &render.Result{})
	_, ok := cache.Get(context.Background(), "v1", model.Selection{})
	assert.False(t, ok)
}

func TestNilRenderCache(t *testing.T) {
	var cache *RenderCache
	cache.Set(context.Background(), "v1", model.Selection{}, &render.Result{})
	_, ok := cache.Get(context.Background(), "v1", model.Selection{})
	assert.False(t, ok)
}
