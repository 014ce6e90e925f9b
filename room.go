// Drumroll rooms
//
// Features:
// - One WebSocket per browser tab at /ws; the tab picks its room with joinRoom
// - Live cursors: every move is rebroadcast to the whole room
// - First player in a room is its admin, tracked by name
// - Random teams of five after a drumroll once ten players are in
// - Admin page can watch a room and rig the teams with the admin password
// - /room redirects to a fresh random 8-char room ID, with a collision check
// - In-browser QR button to share the current room, backed by go-qrcode

package main

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Seednode/drumroll/games"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

const (
	writeWait      = 5 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 16 << 10
	sendQueueSize  = 64
	roomIDLength   = 8
)

// Client is one WebSocket connection. It is the games.Session the
// coordinator sends events to.
type Client struct {
	id   string
	conn *websocket.Conn
	log  *zap.SugaredLogger

	mu     sync.Mutex
	send   chan games.Event
	closed bool
}

func newClient(conn *websocket.Conn, log *zap.SugaredLogger) *Client {
	id := uuid.NewString()

	return &Client{
		id:   id,
		conn: conn,
		log:  log.With("session", id),
		send: make(chan games.Event, sendQueueSize),
	}
}

func (c *Client) ID() string {
	return c.id
}

// Send queues ev for the write pump. A client that cannot keep up is cut
// off; its read pump then reports the disconnect.
func (c *Client) Send(ev games.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	select {
	case c.send <- ev:
	default:
		c.log.Warnw("send queue full, dropping client", "event", ev.Type)
		c.closed = true
		close(c.send)
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func (c *Client) readPump(coord *games.Coordinator) {
	defer func() {
		coord.Disconnect(c.id)
		c.close()
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debugw("connection closed", "error", err)
			}
			return
		}

		var env games.Envelope
		if err := json.Unmarshal(payload, &env); err != nil {
			c.log.Debugw("ignoring malformed frame", "error", err)
			continue
		}

		if err := c.dispatch(coord, env); err != nil {
			c.log.Debugw("ignoring event", "event", env.Type, "error", err)
		}
	}
}

func (c *Client) dispatch(coord *games.Coordinator, env games.Envelope) error {
	switch env.Type {
	case games.EventJoinRoom:
		var req games.JoinRequest
		if err := json.Unmarshal(env.Data, &req); err != nil {
			return err
		}
		return coord.Join(c, req)

	case games.EventCursorMove:
		var req games.MoveRequest
		if err := json.Unmarshal(env.Data, &req); err != nil {
			return err
		}
		coord.Move(c, req)

	case games.EventStartRandomTeams:
		var roomID string
		if err := json.Unmarshal(env.Data, &roomID); err != nil {
			return err
		}
		coord.StartRandomTeams(c, roomID)

	case games.EventRigTeamsRequest:
		var req games.RigRequest
		if err := json.Unmarshal(env.Data, &req); err != nil {
			return err
		}
		return coord.RigTeams(c, req)

	case games.EventAdminWatchRoom:
		var req games.WatchRequest
		if err := json.Unmarshal(env.Data, &req); err != nil {
			return err
		}
		return coord.Watch(c, req)

	default:
		return fmt.Errorf("unknown event type %q", env.Type)
	}

	return nil
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case ev, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(ev); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func newUpgrader(cfg *Config) *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(cfg.allowedOrigins) == 0 {
				return true
			}

			origin := r.Header.Get("Origin")

			return origin == "" || slices.Contains(cfg.allowedOrigins, origin)
		},
	}
}

func serveWS(cfg *Config, coord *games.Coordinator) httprouter.Handle {
	upgrader := newUpgrader(cfg)

	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			cfg.logger.Debugw("upgrade failed", "remote", realIP(r), "error", err)
			return
		}

		client := newClient(conn, cfg.logger)

		logf(cfg, "SOCKET: %s connected from %s", client.id, realIP(r))

		go client.writePump()
		client.readPump(coord)

		logf(cfg, "SOCKET: %s disconnected", client.id)
	}
}

// newRoomID generates a crypto-random room ID that no live room uses.
func newRoomID(coord *games.Coordinator) string {
	const letters = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"
	for {
		buf := make([]byte, roomIDLength)
		if _, err := rand.Read(buf); err != nil {
			panic("crypto/rand failure: " + err.Error())
		}
		out := make([]byte, roomIDLength)
		for i := range out {
			out[i] = letters[int(buf[i])%len(letters)]
		}
		id := string(out)

		if !coord.Exists(id) {
			return id
		}
	}
}

// redirectNewRoom handles GET /room by redirecting to a fresh room ID.
func redirectNewRoom(cfg *Config, coord *games.Coordinator) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		roomID := newRoomID(coord)
		logf(cfg, "ROOMS: Handing out room %s to %s", roomID, realIP(r))
		http.Redirect(w, r, cfg.prefix+"/room/"+roomID, http.StatusTemporaryRedirect)
	}
}

// serveQR generates a PNG QR code for the room URL using go-qrcode.
func serveQR(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		roomID := ps.ByName("roomId")
		if roomID == "" {
			http.Error(w, "missing room id", http.StatusBadRequest)
			return
		}

		// Respect TLS and X-Forwarded-Proto if present.
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}

		url := scheme + "://" + r.Host + strings.TrimSuffix(r.URL.Path, "/qr")

		const qrSize = 320
		png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr generation failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		securityHeaders(cfg, w)

		if _, err := w.Write(png); err != nil {
			errs <- err
		}
	}
}

// registerRooms sets up routes so that:
//   - $prefix/room              → redirects to a new random room
//   - $prefix/room/:roomId      → HTML client
//   - $prefix/room/:roomId/qr   → PNG QR code for that room URL
//   - $prefix/ws                → WebSocket for all room events
//   - $prefix$adminPath         → admin page
func registerRooms(cfg *Config, coord *games.Coordinator, mux *httprouter.Router, errs chan<- error) {
	mux.GET(cfg.prefix+"/room", redirectNewRoom(cfg, coord))

	mux.GET(cfg.prefix+"/room/:roomId", serveRoomPage(cfg, errs))

	mux.GET(cfg.prefix+"/room/:roomId/qr", serveQR(cfg, errs))

	mux.GET(cfg.prefix+"/ws", serveWS(cfg, coord))

	mux.GET(cfg.prefix+cfg.adminPath, serveAdminPage(cfg, errs))
}
