package controller

import (
	"bufio"
	"context"

	"ai-support-chat-be/internal/constant"
	"ai-support-chat-be/internal/dto"
	"ai-support-chat-be/internal/pkg/logger"
	"ai-support-chat-be/internal/pkg/serverutils"
	"ai-support-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatbotController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	Stream(ctx *fiber.Ctx) error
	Modes(ctx *fiber.Ctx) error
}

type chatbotController struct {
	chatbotService service.IChatbotService
	logger         logger.ILogger
}

func NewChatbotController(chatbotService service.IChatbotService, logger logger.ILogger) IChatbotController {
	return &chatbotController{
		chatbotService: chatbotService,
		logger:         logger,
	}
}

func (c *chatbotController) RegisterRoutes(r fiber.Router) {
	r.Get("/modes", c.Modes)
	r.Post("/chat", c.Chat)
	r.Post("/chat/stream", c.Stream)
}

func (c *chatbotController) Chat(ctx *fiber.Ctx) error {
	req, err := parseChatRequest(ctx)
	if err != nil {
		return err
	}

	res, err := c.chatbotService.SendChat(ctx.UserContext(), req)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

// Stream answers with text/plain fragments. The session id actually used is sent in
// the X-Session-Id header since it may differ from the request.
func (c *chatbotController) Stream(ctx *fiber.Ctx) error {
	req, err := parseChatRequest(ctx)
	if err != nil {
		return err
	}

	// The body is written after the handler returns, so the stream gets its own context.
	streamCtx, cancel := context.WithCancel(context.WithoutCancel(ctx.UserContext()))
	stream, err := c.chatbotService.OpenStream(streamCtx, req)
	if err != nil {
		cancel()
		return err
	}

	ctx.Set(fiber.HeaderContentType, constant.StreamContentType)
	ctx.Set(fiber.HeaderCacheControl, "no-cache")
	ctx.Set("X-Session-Id", stream.SessionId)

	ctx.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer cancel()

		err := stream.Run(streamCtx, func(fragment string) error {
			if _, err := w.WriteString(fragment); err != nil {
				return err
			}
			// A failed flush means the client disconnected.
			if err := w.Flush(); err != nil {
				cancel()
				return err
			}
			return nil
		})
		if err != nil {
			c.logger.Warn("CHAT", "Stream ended early", map[string]interface{}{
				"session_id": stream.SessionId,
				"error":      err.Error(),
			})
		}
	})
	return nil
}

func (c *chatbotController) Modes(ctx *fiber.Ctx) error {
	return ctx.JSON(c.chatbotService.Modes())
}

func parseChatRequest(ctx *fiber.Ctx) (*dto.ChatRequest, error) {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return nil, err
	}
	return &req, nil
}
