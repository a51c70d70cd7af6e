package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/phcfinder/internal/config"
	"github.com/Nixie-Tech-LLC/phcfinder/internal/finder"
	"github.com/Nixie-Tech-LLC/phcfinder/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/phcfinder/internal/loader"
	"github.com/Nixie-Tech-LLC/phcfinder/internal/notify"
	redisclient "github.com/Nixie-Tech-LLC/phcfinder/internal/redis"
)

func main() {
	env := LoadEnvironment()
	SetupLogger(env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := finder.NewApp(loader.New(InitStorage(env), env.DataLoadTimeout))

	publisher := InitNotifier(env)
	defer publisher.Close()
	app.OnReload(func(st *finder.State) {
		err := publisher.Publish(notify.ReloadEvent{
			Version:    st.Snapshot.Version,
			Facilities: len(st.Snapshot.Facilities),
			Wards:      len(st.Wards),
			LoadedAt:   st.Snapshot.LoadedAt,
		})
		if err != nil {
			log.Warn().Err(err).Msg("could not publish reload event")
		}
	})

	// a failed first load still starts the server so the page can show the error
	if err := app.Init(ctx); err != nil {
		log.Error().Err(err).Msg("initial dataset load failed")
	}

	if env.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())
	RegisterRoutes(r, env, app, InitRenderCache(env), LoadTemplates("web/templates"))

	srv := &http.Server{
		Addr:              env.ServerAddress,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", env.ServerAddress).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}

// InitNotifier connects to MQTT when a broker is configured
func InitNotifier(env *config.Config) notify.Publisher {
	if env.MQTTBrokerURL == "" {
		return notify.Nop{}
	}
	hostname, _ := os.Hostname()
	pub, err := notify.NewMQTTPublisher(env.MQTTBrokerURL, "phcfinder-"+hostname, env.MQTTTopic)
	if err != nil {
		log.Error().Err(err).Msg("MQTT unavailable, reload events disabled")
		return notify.Nop{}
	}
	return pub
}

// InitRenderCache returns nil (no caching) without a redis address
func InitRenderCache(env *config.Config) *redisclient.RenderCache {
	if env.RedisAddress == "" {
		return nil
	}
	redisclient.InitRedis(env.RedisAddress, env.RedisUsername, env.RedisPassword)
	if err := redisclient.Rdb.Ping(context.Background()).Err(); err != nil {
		log.Warn().Err(err).Msg("redis unreachable, render cache will miss until it recovers")
	}
	return redisclient.NewRenderCache(redisclient.Rdb, env.RenderCacheTTL)
}
