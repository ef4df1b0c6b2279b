package realtime

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/inkwell-social/backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSHandler returns the websocket endpoint handler. The token is verified
// before the upgrade and the connection is bound to the authenticated user,
// so a client cannot join another user's group by declaring a foreign ID.
func WSHandler(hub *Hub) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := c.QueryParam("token")
		if token == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "token required")
		}
		claims, err := middleware.ParseToken(token)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}

		wsConn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			return nil // Upgrade already wrote the error response
		}
		defer wsConn.Close()

		conn := NewConn(uuid.NewString(), claims.UserID)
		hub.Join(conn)
		defer func() {
			hub.Leave(conn.ID)
			conn.Close()
		}()

		go writePump(conn, wsConn)
		readPump(wsConn)
		return nil
	}
}

// writePump copies frames from the connection's send channel to the socket
// and keeps the connection alive with pings.
func writePump(c *Conn, wsConn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-c.Send:
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains client frames until the connection drops. Clients have
// nothing meaningful to send on this channel; reading keeps pong handling
// and close detection working.
func readPump(wsConn *websocket.Conn) {
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := wsConn.ReadMessage(); err != nil {
			return
		}
	}
}
