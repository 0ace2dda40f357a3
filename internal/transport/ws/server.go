// Package ws serves the browser client over websockets. Each connection
// becomes a multiplayer session; JSON messages are translated to manager
// commands and session events back to JSON.
package ws

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/pacsnake/internal/multiplayer"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512

	sessionBuffer = 256
)

// Server upgrades HTTP requests to websocket sessions.
type Server struct {
	manager  *multiplayer.Manager
	log      *log.Logger
	upgrader websocket.Upgrader
	http     *http.Server
}

// NewServer creates a websocket server listening on addr.
func NewServer(addr string, manager *multiplayer.Manager, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		manager: manager,
		log:     logger.WithPrefix("ws"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // the browser client may be served from anywhere
			},
		},
	}

	mux := http.NewServeMux()
	mux.Handle("/", s)
	s.http = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// ListenAndServe serves until Shutdown is called.
func (s *Server) ListenAndServe() error {
	s.log.Info("listening", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections. Open websockets end when the
// manager stops and their sessions close.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// ServeHTTP upgrades the request and runs the connection.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	s.log.Debug("connection opened", "remote", r.RemoteAddr)

	c := &client{srv: s, ws: ws, remote: r.RemoteAddr}
	go c.readPump()
}

// client is one websocket connection. It is bound to a session id by the
// first message it sends: an "opened" message carrying a uuid resumes that
// id, anything else gets a fresh one.
type client struct {
	srv    *Server
	ws     *websocket.Conn
	remote string
	sess   *multiplayer.ChannelSession // owned by readPump
}

func (c *client) readPump() {
	logger := c.srv.log
	defer func() {
		if c.sess != nil {
			c.sess.Close()
		}
		c.ws.Close()
		logger.Debug("connection closed", "remote", c.remote)
	}()

	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("read failed", "remote", c.remote, "err", err)
			}
			return
		}

		in, err := decode(data)
		if err != nil {
			logger.Debug("bad message", "remote", c.remote, "err", err)
			c.notify(err.Error())
			continue
		}

		switch in.Type {
		case typeOpened:
			c.bind(in.UUID)
			continue
		case typeClosed:
			return
		}

		if c.sess == nil {
			c.bind("")
		}
		cmd, err := in.command()
		if err != nil {
			c.notify(err.Error())
			continue
		}
		if err := c.srv.manager.Dispatch(c.sess.ID(), cmd); err != nil {
			logger.Debug("command failed", "session", c.sess.ID(), "type", in.Type, "err", err)
			c.notify(multiplayer.Describe(cmd, err))
		}
	}
}

// bind attaches the connection to a session. Only the first bind counts.
func (c *client) bind(id string) {
	if c.sess != nil {
		c.srv.log.Debug("ignoring rebind", "session", c.sess.ID(), "requested", id)
		return
	}
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}

	c.sess = multiplayer.NewChannelSession(multiplayer.SessionID(id), sessionBuffer)
	go c.writePump(c.sess)
	c.srv.manager.Connect(c.sess)
	c.srv.log.Info("session bound", "session", id, "remote", c.remote)
}

func (c *client) notify(msg string) {
	if c.sess != nil {
		c.sess.Send(multiplayer.MessageEvent{Message: msg})
	}
}

func (c *client) writePump(sess *multiplayer.ChannelSession) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case evt := <-sess.Events():
			data, err := encode(evt)
			if err != nil {
				c.srv.log.Error("encode failed", "session", sess.ID(), "err", err)
				continue
			}
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-sess.Done():
			// Closed by the reader or replaced by a newer connection.
			_ = c.ws.SetWriteDeadline(time.Now().Add(time.Second))
			_ = c.ws.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return

		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
