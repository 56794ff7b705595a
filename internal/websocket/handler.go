package websocket

import (
	"context"

	"ai-support-chat-be/internal/pkg/logger"
	"ai-support-chat-be/internal/service"

	"github.com/gofiber/websocket/v2"
)

// ServeWs runs one chat connection until the peer goes away.
func ServeWs(c *websocket.Conn, chatbotService service.IChatbotService, log logger.ILogger) {
	ctx, cancel := context.WithCancel(context.Background())
	client := &Client{
		Conn:    c,
		Service: chatbotService,
		Logger:  log,
		Send:    make(chan []byte, 256),
		done:    make(chan struct{}),
	}

	go client.writePump(cancel)
	client.readPump(ctx)
	<-client.done
}
