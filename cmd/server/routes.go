package main

import (
	"html/template"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/phcfinder/internal/config"
	"github.com/Nixie-Tech-LLC/phcfinder/internal/finder"
	"github.com/Nixie-Tech-LLC/phcfinder/internal/http/api"
	authapi "github.com/Nixie-Tech-LLC/phcfinder/internal/http/api/admin/auth/endpoints"
	adminapi "github.com/Nixie-Tech-LLC/phcfinder/internal/http/api/admin/control/endpoints"
	finderapi "github.com/Nixie-Tech-LLC/phcfinder/internal/http/api/finder/endpoints"
	"github.com/Nixie-Tech-LLC/phcfinder/internal/metrics"
	redisclient "github.com/Nixie-Tech-LLC/phcfinder/internal/redis"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(r *gin.Engine, env *config.Config, app *finder.App, cache *redisclient.RenderCache, tmpl *template.Template) {
	r.SetHTMLTemplate(tmpl)
	// CORS
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
		},
		ExposeHeaders: []string{
			"Content-Length",
		},
		AllowCredentials: false,
	}))

	api.MountGroup(r, api.GroupConfig{},
		finderapi.PageModule(app),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/finder",
	},
		finderapi.FinderModule(app, cache),
	)

	if env.AdminEnabled() {
		api.MountGroup(r, api.GroupConfig{
			Prefix: "/api/admin",
		},
			authapi.AuthPublicModule(env.JWTSecret, env.AdminUsername, env.AdminPasswordHash),
		)

		api.MountGroup(r, api.GroupConfig{
			Prefix:    "/api/admin",
			Auth:      true,
			SecretKey: env.JWTSecret,
		},
			authapi.AuthSessionModule(),
			adminapi.DatasetModule(app),
		)
	}

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Static content
	r.Static("/static", "./web/static")
}
