package controller

import (
	"ai-support-chat-be/internal/dto"
	"ai-support-chat-be/internal/pkg/serverutils"
	"ai-support-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	New(ctx *fiber.Ctx) error
	Clear(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
}

type sessionController struct {
	chatbotService service.IChatbotService
}

func NewSessionController(chatbotService service.IChatbotService) ISessionController {
	return &sessionController{
		chatbotService: chatbotService,
	}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/session")
	h.Post("/new", c.New)
	h.Post("/clear", c.Clear)
	h.Get("/history", c.History)
}

func (c *sessionController) New(ctx *fiber.Ctx) error {
	res, err := c.chatbotService.CreateSession(ctx.UserContext())
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *sessionController) Clear(ctx *fiber.Ctx) error {
	var req dto.ClearRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatbotService.ClearSession(ctx.UserContext(), req.SessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *sessionController) History(ctx *fiber.Ctx) error {
	res, err := c.chatbotService.History(ctx.UserContext(), ctx.Query("session_id"))
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}
