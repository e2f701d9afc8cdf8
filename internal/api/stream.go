package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/saravanapriyaa21/take-it-right/internal/middleware"
)

const (
	streamWriteTimeout = 10 * time.Second
	streamIdleTimeout  = 2 * time.Minute
	defaultFrameLimit  = 64 << 10
)

func (s *Server) upgrader() *websocket.Upgrader {
	origins := s.config.Server.CORSOrigins
	return &websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || allowsAllOrigins(origins) {
				return true
			}
			for _, allowed := range origins {
				if allowed == origin {
					return true
				}
			}
			return false
		},
	}
}

// handleStream upgrades to a websocket. Each text frame is one input
// document and is answered by exactly one output document.
func (s *Server) handleStream(c *gin.Context) {
	conn, err := s.upgrader().Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the HTTP error
		s.logger.WithError(err).Debug("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	limit := s.config.Server.MaxBodyBytes
	if limit <= 0 {
		limit = defaultFrameLimit
	}
	conn.SetReadLimit(limit)

	correlationID := middleware.GetCorrelationID(c)
	log := s.logger.WithField("correlation_id", correlationID)
	log.Debug("Analysis stream opened")

	ctx := c.Request.Context()
	for {
		_ = conn.SetReadDeadline(time.Now().Add(streamIdleTimeout))
		messageType, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).Debug("Analysis stream closed unexpectedly")
			}
			return
		}
		if messageType != websocket.TextMessage {
			if err := s.writeFrame(conn, errorBody{Error: msgNotJSON}); err != nil {
				return
			}
			continue
		}

		_, body := s.analyze(ctx, payload, correlationID)
		if err := s.writeFrame(conn, body); err != nil {
			if !errors.Is(err, websocket.ErrCloseSent) {
				log.WithFields(logrus.Fields{"error": err.Error()}).Debug("Failed to write stream frame")
			}
			return
		}
	}
}

func (s *Server) writeFrame(conn *websocket.Conn, body interface{}) error {
	_ = conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
	return conn.WriteJSON(body)
}
