package controller

import (
	"ai-support-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
}

type healthController struct {
	chatbotService service.IChatbotService
}

func NewHealthController(chatbotService service.IChatbotService) IHealthController {
	return &healthController{
		chatbotService: chatbotService,
	}
}

// RegisterRoutes mounts /health on the router it is given (the app root).
func (c *healthController) RegisterRoutes(r fiber.Router) {
	r.Get("/health", c.Health)
}

func (c *healthController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(c.chatbotService.Health())
}
