package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"ai-support-chat-be/internal/dto"
	"ai-support-chat-be/internal/pkg/logger"
	"ai-support-chat-be/internal/pkg/serverutils"
	"ai-support-chat-be/internal/service"

	"github.com/gofiber/websocket/v2"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

var errConnectionClosed = errors.New("websocket connection closed")

// Client is one chat connection. Requests are answered one at a time, in order.
type Client struct {
	Conn    *websocket.Conn
	Service service.IChatbotService
	Logger  logger.ILogger

	// Buffered channel of outbound frames.
	Send chan []byte

	// Closed when writePump exits.
	done chan struct{}
}

// readPump reads chat requests and streams each answer into Send.
func (c *Client) readPump(ctx context.Context) {
	defer close(c.Send)

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Logger.Warn("WS", "Unexpected close", map[string]interface{}{"error": err.Error()})
			}
			return
		}

		if err := c.answer(ctx, raw); errors.Is(err, errConnectionClosed) {
			return
		}
		// Generation may outlast the pong window.
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	}
}

func (c *Client) answer(ctx context.Context, raw []byte) error {
	var req dto.ChatRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return c.push(dto.ChatStreamFrame{Done: true, Error: "invalid chat request: " + err.Error()})
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return c.push(dto.ChatStreamFrame{SessionId: req.SessionId, Done: true, Error: err.Error()})
	}

	stream, err := c.Service.OpenStream(ctx, &req)
	if err != nil {
		return c.push(dto.ChatStreamFrame{SessionId: req.SessionId, Done: true, Error: err.Error()})
	}

	err = stream.Run(ctx, func(fragment string) error {
		return c.push(dto.ChatStreamFrame{SessionId: stream.SessionId, Delta: fragment})
	})
	if err != nil {
		c.Logger.Warn("WS", "Stream ended early", map[string]interface{}{
			"session_id": stream.SessionId,
			"error":      err.Error(),
		})
		if errors.Is(err, errConnectionClosed) {
			return err
		}
	}
	return c.push(dto.ChatStreamFrame{SessionId: stream.SessionId, Done: true})
}

func (c *Client) push(frame dto.ChatStreamFrame) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	select {
	case c.Send <- data:
		return nil
	case <-c.done:
		return errConnectionClosed
	}
}

// writePump writes frames from Send and keeps the connection alive with pings.
func (c *Client) writePump(cancel context.CancelFunc) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		cancel()
		close(c.done)
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// readPump finished.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
