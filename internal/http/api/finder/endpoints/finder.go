package endpoints

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/phcfinder/internal/finder"
	"github.com/Nixie-Tech-LLC/phcfinder/internal/http/api"
	"github.com/Nixie-Tech-LLC/phcfinder/internal/http/api/finder/packets"
	"github.com/Nixie-Tech-LLC/phcfinder/internal/model"
	redisclient "github.com/Nixie-Tech-LLC/phcfinder/internal/redis"
)

type FinderController struct {
	app   *finder.App
	cache *redisclient.RenderCache
}

func NewFinderController(app *finder.App, cache *redisclient.RenderCache) *FinderController {
	return &FinderController{app: app, cache: cache}
}

// PageModule serves the finder page at the group root.
func PageModule(app *finder.App) api.Module {
	ctl := NewFinderController(app, nil)
	return api.ModuleFunc(func(c *api.Controller) {
		c.RAW_GET("/", ctl.page)
	})
}

// FinderModule mounts the JSON and websocket endpoints. cache may be nil.
func FinderModule(app *finder.App, cache *redisclient.RenderCache) api.Module {
	ctl := NewFinderController(app, cache)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/wards", ctl.listWards)
		c.GET("/search", ctl.search)
		c.GET("/status", ctl.status)
		c.RAW_GET("/ws", ctl.socket)
	})
}

// GET /
func (f *FinderController) page(ctx *gin.Context) {
	st, err := f.app.State()
	if err != nil {
		ctx.HTML(http.StatusServiceUnavailable, "load_error.html", packets.ErrorPageData{Message: loadErrorMessage(err)})
		return
	}
	ctx.HTML(http.StatusOK, "index.html", packets.PageData{
		Wards:   st.Wards,
		Days:    model.Days,
		Initial: st.Initial,
		Version: st.Snapshot.Version,
	})
}

// GET /api/finder/wards
func (f *FinderController) listWards(ctx *gin.Context) (any, *api.APIError) {
	st, err := f.app.State()
	if err != nil {
		return nil, unavailable(err)
	}
	return packets.WardsResponse{Wards: st.Wards, Days: model.Days}, nil
}

// GET /api/finder/search?q=&ward=&day=
func (f *FinderController) search(ctx *gin.Context) (any, *api.APIError) {
	var request packets.SearchRequest
	if err := ctx.ShouldBindQuery(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	sel := model.Selection{Query: request.Query, Ward: request.Ward, Day: request.Day}.Normalize()

	st, err := f.app.State()
	if err != nil {
		return nil, unavailable(err)
	}
	version := st.Snapshot.Version

	if cached, ok := f.cache.Get(ctx, version, sel); ok {
		return packets.SearchResponse{Version: version, Cached: true, Result: cached}, nil
	}

	res, err := finder.NewBinder(st).Apply(sel)
	if err != nil {
		log.Error().Err(err).Msg("render failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not render results"}
	}
	f.cache.Set(ctx, version, sel, res)

	return packets.SearchResponse{Version: version, Result: res}, nil
}

// GET /api/finder/status
func (f *FinderController) status(ctx *gin.Context) (any, *api.APIError) {
	response := packets.StatusResponse{}
	if lastErr := f.app.LastError(); lastErr != nil {
		response.LastError = lastErr.Error()
	}
	st, err := f.app.State()
	if err != nil {
		return response, nil
	}
	response.Loaded = true
	response.Version = st.Snapshot.Version
	response.LoadedAt = st.Snapshot.LoadedAt.Format(time.RFC3339)
	response.Facilities = len(st.Snapshot.Facilities)
	response.Geocoded = st.Snapshot.GeocodedCount()
	response.Wards = len(st.Wards)
	return response, nil
}

func unavailable(err error) *api.APIError {
	return &api.APIError{Code: http.StatusServiceUnavailable, Message: loadErrorMessage(err)}
}

func loadErrorMessage(err error) string {
	if errors.Is(err, finder.ErrNotLoaded) {
		return "facility data is still loading"
	}
	return "facility data could not be loaded"
}
