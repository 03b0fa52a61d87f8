package tetris

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 5 * time.Minute
	pingPeriod     = 60 * time.Second
	maxWriteErrors = 3
)

// readPump はクライアントからのWebSocketメッセージを読み込み、 inputEvents チャネルに送信します。
func (sm *SessionManager) readPump(client *Client) {
	defer func() {
		if r := recover(); r != nil {
			client.logger.Error().Interface("panic", r).Msg("panic in readPump")
		}
		select {
		case sm.unregister <- client:
		case <-sm.quit:
		}
		if err := client.Conn.Close(); err != nil {
			client.logger.Debug().Err(err).Msg("error closing websocket connection")
		}
	}()

	for {
		_, message, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				client.logger.Warn().Err(err).Msg("websocket unexpected close")
			} else {
				client.logger.Debug().Err(err).Msg("websocket closed")
			}
			return
		}
		if len(message) == 0 {
			continue
		}

		var event PlayerInputEvent
		if err := json.Unmarshal(message, &event); err != nil {
			client.logger.Debug().Err(err).Bytes("message", message).Msg("failed to unmarshal input message")
			continue
		}
		// 送信者の情報は接続から決める
		event.UserID = client.UserID
		event.SessionID = client.SessionID
		sm.SubmitInput(event)
	}
}

// writePump は Client の Send チャネルからのメッセージをWebSocketコネクションに書き込みます。
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if r := recover(); r != nil {
			c.logger.Error().Interface("panic", r).Msg("panic in writePump")
		}
		c.Conn.Close()
	}()

	consecutiveErrors := 0
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// マネージャーがチャネルを閉じた
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				consecutiveErrors++
				c.logger.Warn().Err(err).Int("attempt", consecutiveErrors).Msg("error writing message")
				if consecutiveErrors >= maxWriteErrors {
					return
				}
				continue
			}
			consecutiveErrors = 0

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Debug().Err(err).Msg("error sending ping")
				return
			}
		}
	}
}
