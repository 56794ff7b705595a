package handler

import (
	"ai-support-chat-be/internal/pkg/logger"
	"ai-support-chat-be/internal/service"
	internalWS "ai-support-chat-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// ChatSocketHandler upgrades /api/chat/ws to a websocket that streams chat replies
// as JSON frames.
type ChatSocketHandler struct {
	service service.IChatbotService
	logger  logger.ILogger
}

func NewChatSocketHandler(service service.IChatbotService, log logger.ILogger) *ChatSocketHandler {
	return &ChatSocketHandler{
		service: service,
		logger:  log,
	}
}

func (h *ChatSocketHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/chat/ws", h.ServeWs)
}

func (h *ChatSocketHandler) ServeWs(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	remote := c.IP()
	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("ChatSocket", "WebSocket session started", map[string]interface{}{"remote": remote})
		internalWS.ServeWs(conn, h.service, h.logger)
		h.logger.Info("ChatSocket", "WebSocket session ended", map[string]interface{}{"remote": remote})
	})(c)
}
