package endpoints

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/phcfinder/internal/finder"
	"github.com/Nixie-Tech-LLC/phcfinder/internal/http/api/finder/packets"
	"github.com/Nixie-Tech-LLC/phcfinder/internal/metrics"
	"github.com/Nixie-Tech-LLC/phcfinder/internal/model"
	"github.com/Nixie-Tech-LLC/phcfinder/internal/render"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// GET /api/finder/ws
//
// Each connection gets its own binder. Inputs are read and answered one at
// a time, so a reply always reflects every earlier input.
func (f *FinderController) socket(ctx *gin.Context) {
	st, err := f.app.State()
	if err != nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": loadErrorMessage(err)})
		return
	}

	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	metrics.WebSocketSessions.Inc()
	defer func() {
		metrics.WebSocketSessions.Dec()
		conn.Close()
	}()

	binder := finder.NewBinder(st)
	log.Debug().Str("version", binder.Version()).Msg("finder session opened")

	res, err := binder.Apply(model.Selection{})
	if !send(conn, res, err) {
		return
	}

	for {
		var in packets.InputMessage
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Msg("finder session closed unexpectedly")
			}
			return
		}
		res, err := binder.Handle(finder.Input{Field: in.Field, Value: in.Value})
		if !send(conn, res, err) {
			return
		}
	}
}

func send(conn *websocket.Conn, res *render.Result, renderErr error) bool {
	msg := packets.SocketMessage{Type: "render", Result: res}
	if renderErr != nil {
		msg = packets.SocketMessage{Type: "error", Error: renderErr.Error()}
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(msg); err != nil {
		log.Warn().Err(err).Msg("finder session write failed")
		return false
	}
	return true
}
