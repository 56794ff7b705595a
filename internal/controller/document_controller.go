package controller

import (
	"io"

	"ai-support-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	Status(ctx *fiber.Ctx) error
}

type documentController struct {
	documentService service.IDocumentService
}

func NewDocumentController(documentService service.IDocumentService) IDocumentController {
	return &documentController{
		documentService: documentService,
	}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/rag")
	h.Post("/upload", c.Upload)
	h.Get("/status", c.Status)
}

func (c *documentController) Upload(ctx *fiber.Ctx) error {
	sessionId := ctx.Query("session_id")
	if sessionId == "" {
		sessionId = ctx.FormValue("session_id")
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return err
	}

	res, err := c.documentService.Ingest(ctx.UserContext(), sessionId, fileHeader.Filename, raw)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *documentController) Status(ctx *fiber.Ctx) error {
	sessionId := ctx.Query("session_id")
	if sessionId == "" {
		return fiber.NewError(fiber.StatusBadRequest, "session_id is required")
	}

	return ctx.JSON(c.documentService.Status(ctx.UserContext(), sessionId))
}
