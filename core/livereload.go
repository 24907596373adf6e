package core

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

const ReloadPath = "/__bodensee_reload"

type LiveReloaderInterface interface {
	BroadcastReload()
	Handler(http.ResponseWriter, *http.Request)
	Close()
}

// LiveReloader pushes "reload" to every connected browser over a websocket.
type LiveReloader struct {
	clients  map[*websocket.Conn]bool
	lock     sync.Mutex
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

var NewLiveReloader = func(logger *slog.Logger) LiveReloaderInterface {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &LiveReloader{
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: logger,
	}
}

func (lr *LiveReloader) Handler(w http.ResponseWriter, r *http.Request) {
	conn, err := lr.upgrader.Upgrade(w, r, nil)
	if err != nil {
		lr.logger.Debug("reload upgrade failed", "error", err)
		return
	}

	lr.lock.Lock()
	lr.clients[conn] = true
	lr.lock.Unlock()

	go func() {
		defer func() {
			lr.lock.Lock()
			delete(lr.clients, conn)
			lr.lock.Unlock()
			conn.Close()
		}()

		for {
			if _, _, err := conn.NextReader(); err != nil {
				break
			}
		}
	}()
}

func (lr *LiveReloader) BroadcastReload() {
	lr.lock.Lock()
	defer lr.lock.Unlock()

	for conn := range lr.clients {
		err := conn.WriteMessage(websocket.TextMessage, []byte("reload"))
		if err != nil {
			conn.Close()
			delete(lr.clients, conn)
		}
	}
	lr.logger.Debug("reload broadcast", "clients", len(lr.clients))
}

// Close disconnects every client, used on server shutdown.
func (lr *LiveReloader) Close() {
	lr.lock.Lock()
	defer lr.lock.Unlock()

	for conn := range lr.clients {
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		conn.Close()
		delete(lr.clients, conn)
	}
}

func (lr *LiveReloader) clientCount() int {
	lr.lock.Lock()
	defer lr.lock.Unlock()
	return len(lr.clients)
}
