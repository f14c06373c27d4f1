package controllers

import (
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/atomic"

	"dmrmonitor/internal/hub"
	"dmrmonitor/internal/providers"
)

const maxViewerMessage = 512

// InitialState produces the messages a new viewer is greeted with.
type InitialState interface {
	InitialMessages() [][]byte
}

type SocketController struct {
	hub      hub.HubInterface
	initial  InitialState
	logger   providers.Logger
	upgrader websocket.Upgrader
	nextID   *atomic.Uint64
}

func NewSocketController(h hub.HubInterface, initial InitialState, logger providers.Logger) *SocketController {
	return &SocketController{
		hub:     h,
		initial: initial,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		nextID: atomic.NewUint64(0),
	}
}

// Serve upgrades the request and keeps the viewer registered until its
// connection fails. Anything a viewer sends only counts as activity.
func (sc *SocketController) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := sc.upgrader.Upgrade(w, r, nil)
	if err != nil {
		sc.logger.Warnf(providers.TypeHub, "Websocket upgrade from %s failed: %s", r.RemoteAddr, err)
		return
	}
	conn.SetReadLimit(maxViewerMessage)

	id := fmt.Sprintf("%s#%d", r.RemoteAddr, sc.nextID.Inc())
	sub := hub.NewWebsocketSubscriber(id, conn, 0)
	if err := sc.hub.Join(sub, sc.initial.InitialMessages); err != nil {
		_ = sub.Close()
		return
	}
	defer sc.hub.Leave(id)

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				sc.logger.Debugf(providers.TypeHub, "Client %s read failed: %s", id, err)
			}
			return
		}
		sc.logger.Debugf(providers.TypeHub, "Client %s sent %q", id, msg)
		sc.hub.Touch(id)
	}
}
