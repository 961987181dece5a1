package realtime

import (
	"net/http"

	"campus-canteen/logging"

	"github.com/gorilla/websocket"
)

// Handler upgrades HTTP requests on /ws into hub clients.
type Handler struct {
	hub      *Hub
	chat     ChatAppender
	upgrader websocket.Upgrader
}

// NewHandler accepts connections from allowedOrigins; an empty list or "*"
// accepts any origin.
func NewHandler(hub *Hub, chat ChatAppender, allowedOrigins []string) *Handler {
	return &Handler{
		hub:  hub,
		chat: chat,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(set) == 0 {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := NewClient(h.hub, conn, h.chat)
	if !client.Start() {
		logging.Warn().Msg("realtime hub stopped, refusing websocket client")
		return
	}
	logging.Ctx(r.Context()).Debug().Str("client_id", client.ID()).Msg("websocket client attached")
}
