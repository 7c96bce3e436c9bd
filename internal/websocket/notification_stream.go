package websocket

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/shikshya/shikshya-backend/internal/config"
	"github.com/shikshya/shikshya-backend/internal/middleware"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// NotificationStream upgrades student connections and relays their Redis
// PubSub notification channel over the socket. The fan-out worker is the
// publisher; this end only forwards.
type NotificationStream struct {
	redis    *redis.Client
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

// NewNotificationStream creates a NotificationStream. With no configured
// origins any origin is accepted (dev default), matching the CORS policy.
func NewNotificationStream(redisClient *redis.Client, cfg *config.Config, logger zerolog.Logger) *NotificationStream {
	allowed := make(map[string]struct{}, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		allowed[o] = struct{}{}
	}

	return &NotificationStream{
		redis: redisClient,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if len(allowed) == 0 {
					return true
				}
				_, ok := allowed[r.Header.Get("Origin")]
				return ok
			},
		},
		logger: logger.With().Str("component", "notification_stream").Logger(),
	}
}

// Handle serves GET /api/v1/student/ws/notifications. Must run behind the
// student JWT middleware; the token rides the query string since browsers
// cannot set WebSocket headers.
func (s *NotificationStream) Handle(c *gin.Context) {
	claims := middleware.GetClaims(c)

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx := c.Request.Context()
	sub := s.redis.Subscribe(ctx, config.CacheKey.NotificationChannel(claims.UserID))
	defer sub.Close()

	s.logger.Debug().Int("student_id", claims.UserID).Msg("notification stream opened")

	// Reader goroutine: consume pongs and detect the client going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	ch := sub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(NewNotificationEvent([]byte(msg.Payload))); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		case <-ctx.Done():
			return
		}
	}
}
