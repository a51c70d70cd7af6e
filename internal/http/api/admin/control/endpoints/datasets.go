package endpoints

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/phcfinder/internal/finder"
	"github.com/Nixie-Tech-LLC/phcfinder/internal/http/api"
	"github.com/Nixie-Tech-LLC/phcfinder/internal/http/api/admin/control/packets"
	"github.com/Nixie-Tech-LLC/phcfinder/internal/http/middleware"
)

type DatasetController struct {
	app *finder.App
}

func NewDatasetController(app *finder.App) *DatasetController {
	return &DatasetController{app: app}
}

func DatasetModule(app *finder.App) api.Module {
	ctl := NewDatasetController(app)
	return api.ModuleFunc(func(c *api.Controller) {
		c.POST("/datasets/reload", ctl.reloadDatasets)
	})
}

// POST /api/admin/datasets/reload
func (d *DatasetController) reloadDatasets(ctx *gin.Context) (any, *api.APIError) {
	admin, ok := middleware.GetCurrentAdmin(ctx)
	if !ok {
		return nil, &api.APIError{Code: http.StatusUnauthorized, Message: "unauthorized"}
	}

	// the reload outlives a client that hangs up mid-request
	st, err := d.app.Reload(context.WithoutCancel(ctx.Request.Context()))
	if err != nil {
		log.Error().Err(err).Str("admin", admin.Username).Msg("dataset reload failed")
		return nil, &api.APIError{Code: http.StatusBadGateway, Message: "reload failed, previous datasets kept: " + err.Error()}
	}

	log.Info().Str("admin", admin.Username).Str("version", st.Snapshot.Version).Msg("datasets reloaded")
	return packets.ReloadResponse{
		Version:    st.Snapshot.Version,
		LoadedAt:   st.Snapshot.LoadedAt.Format(time.RFC3339),
		Facilities: len(st.Snapshot.Facilities),
		Wards:      len(st.Wards),
		Geocoded:   st.Snapshot.GeocodedCount(),
	}, nil
}
