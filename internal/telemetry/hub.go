// Package telemetry streams engine snapshots to websocket observers. It sits
// strictly outside the core: graph, activation, and engine never import it,
// and nothing here feeds back into a running Engine — it only watches.
//
// The fan-out shape (register/unregister client channels, broadcast loop,
// non-blocking send so one slow client can't stall the others) is adapted
// from github.com/niceyeti/niceyeti-tabular's fastview view-builder
// broadcast and its fastview/client.go websocket publisher: done-channel
// propagation via channerics.OrDone, and a periodic liveness ping via
// channerics.NewTicker.
package telemetry

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	channerics "github.com/niceyeti/channerics/channels"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/SynapticNetworks/context-engine/engine"
)

const (
	pingInterval = 2 * time.Second
	writeWait    = time.Second
	clientBuffer = 1 // a full buffer means the client is behind; newer frames are dropped until it drains
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Hub fans a single stream of engine snapshots out to any number of
// connected websocket clients. There is no backpressure on the source: a
// client whose buffer is still full misses the new frame (the older,
// undelivered frame stays queued), and the producer's tick never waits.
type Hub struct {
	log      *zap.SugaredLogger
	done     <-chan struct{}
	register chan chan engine.Snapshot
	unregis  chan chan engine.Snapshot
}

// NewHub starts the broadcast loop over snapshots, which closes when done
// fires or snapshots is drained and closed. log may be nil, in which case
// nothing is logged.
func NewHub(done <-chan struct{}, snapshots <-chan engine.Snapshot, log *zap.SugaredLogger) *Hub {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	h := &Hub{
		log:      log,
		done:     done,
		register: make(chan chan engine.Snapshot),
		unregis:  make(chan chan engine.Snapshot),
	}
	go h.run(done, snapshots)
	return h
}

func (h *Hub) run(done <-chan struct{}, snapshots <-chan engine.Snapshot) {
	guarded := channerics.OrDone(done, snapshots)
	clients := make(map[chan engine.Snapshot]struct{})
	for {
		select {
		case <-done:
			return
		case c := <-h.register:
			clients[c] = struct{}{}
			h.log.Debugw("telemetry client registered", "count", len(clients))
		case c := <-h.unregis:
			delete(clients, c)
			close(c)
			h.log.Debugw("telemetry client unregistered", "count", len(clients))
		case snap, ok := <-guarded:
			if !ok {
				return
			}
			for c := range clients {
				select {
				case c <- snap:
				default:
					// client buffer full: drop this new frame rather than block the tick loop
				}
			}
		}
	}
}

// ServeHTTP upgrades the request to a websocket and streams snapshots to it
// as JSON frames until the client disconnects or ctx is cancelled.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Errorw("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	updates := make(chan engine.Snapshot, clientBuffer)
	select {
	case h.register <- updates:
	case <-h.done:
		return // run() has already exited; nothing left to register with
	}
	defer func() {
		select {
		case h.unregis <- updates:
		case <-h.done:
			// run() exited while this client was connected; nothing left
			// to unregister from, and no one will ever close updates.
		}
	}()

	h.publish(r.Context(), conn, updates)
}

func (h *Hub) publish(ctx context.Context, conn *websocket.Conn, updates <-chan engine.Snapshot) {
	pinger := channerics.NewTicker(ctx.Done(), pingInterval)
	for {
		select {
		case <-ctx.Done():
			return
		case <-pinger:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.log.Debugw("telemetry client ping failed, dropping", "error", err)
				return
			}
		case snap, ok := <-updates:
			if !ok {
				return
			}
			frame, err := json.Marshal(frameOf(snap))
			if err != nil {
				h.log.Errorw("failed to marshal snapshot frame", "error", err)
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				h.log.Debugw("telemetry client write failed, dropping", "error", err)
				return
			}
		}
	}
}

// frame is the JSON wire shape of one snapshot. Display-only, not a
// contract (§5 NON-GOALS: no wire protocol for internal/telemetry beyond a
// JSON snapshot frame).
type frame struct {
	Activations map[string]float64  `json:"activations"`
	States      []engine.StateValue `json:"states"`
}

func frameOf(s engine.Snapshot) frame {
	return frame{Activations: s.Activations, States: s.States}
}
