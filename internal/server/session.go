package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lawnchairsociety/cavemesh/internal/logger"
)

// session serves one WebSocket connection. Reads and writes both happen on
// the session goroutine, so the connection needs no write lock.
type session struct {
	server *Server
	conn   *websocket.Conn
	ip     string
}

func newSession(s *Server, conn *websocket.Conn, ip string) *session {
	if s.cfg.WebSocket.MaxMessageSize > 0 {
		conn.SetReadLimit(s.cfg.WebSocket.MaxMessageSize)
	}
	return &session{server: s, conn: conn, ip: ip}
}

func (c *session) run() {
	defer c.conn.Close()
	logger.Debug("session opened", "client_ip", c.ip)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warning("session read failed", "client_ip", c.ip, "error", err)
			}
			logger.Debug("session closed", "client_ip", c.ip)
			return
		}

		if err := c.handle(data); err != nil {
			logger.Warning("session write failed", "client_ip", c.ip, "error", err)
			return
		}
	}
}

// handle answers one message. Only write failures are returned.
func (c *session) handle(data []byte) error {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return c.conn.WriteJSON(newErrorMessage(CodeBadRequest, fmt.Errorf("malformed message: %w", err)))
	}

	switch req.Type {
	case TypePing:
		return c.conn.WriteJSON(TypeOnly{Type: TypePong})
	case TypeGenerate:
		return c.handleGenerate(req)
	default:
		return c.conn.WriteJSON(newErrorMessage(CodeBadRequest, fmt.Errorf("unknown message type %q", req.Type)))
	}
}

func (c *session) handleGenerate(req Request) error {
	if ok, wait := c.server.rateLimiter.Allow(c.ip); !ok {
		return c.conn.WriteJSON(newErrorMessage(CodeRateLimited,
			fmt.Errorf("too many requests, retry in %s", wait.Round(time.Second))))
	}

	params, err := mergeParams(c.server.defaults, req.Params)
	if err != nil {
		return c.conn.WriteJSON(newErrorMessage(CodeBadRequest, fmt.Errorf("malformed params: %w", err)))
	}

	res, runID, err := c.server.generate(params)
	if err != nil {
		code := errorCode(err)
		if code == CodeInternal {
			logger.Error("generation failed", "client_ip", c.ip, "error", err)
		}
		return c.conn.WriteJSON(newErrorMessage(code, err))
	}
	if res == nil {
		return c.conn.WriteJSON(newErrorMessage(CodeInternal, errors.New("no result")))
	}

	return c.conn.WriteJSON(newResultMessage(res, runID))
}
