package server

import (
	"context"
	"os"
	"path/filepath"

	"ai-support-chat-be/internal/bootstrap"
	"ai-support-chat-be/internal/config"
	"ai-support-chat-be/internal/pkg/serverutils"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit:    10 * 1024 * 1024, // 10MB
		ErrorHandler: serverutils.ErrorHandler,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.App.CorsAllowedOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept",
		AllowMethods:  "GET, POST, OPTIONS",
		ExposeHeaders: "Content-Length, Content-Type, X-Session-Id",
	}))

	// OpenTelemetry tracing middleware (traces all HTTP requests)
	app.Use(otelfiber.Middleware())

	app.Use(serverutils.ErrorHandlerMiddleware())

	registerRoutes(app, container)
	registerStatic(app, cfg.App.StaticDir)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	s.container.Logger.Info("SERVER", "Server is running", map[string]interface{}{
		"url":     "http://localhost:" + s.cfg.App.Port,
		"backend": string(s.cfg.Backend()),
	})
	return s.app.Listen(":" + s.cfg.App.Port)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func registerRoutes(app *fiber.App, c *bootstrap.Container) {
	c.HealthController.RegisterRoutes(app)

	api := app.Group("/api")

	c.ChatbotController.RegisterRoutes(api)
	c.SessionController.RegisterRoutes(api)
	c.DocumentController.RegisterRoutes(api)

	c.ChatSocketHandler.RegisterRoutes(api)
}

// registerStatic serves the browser client when dir exists.
func registerStatic(app *fiber.App, dir string) {
	if dir == "" {
		return
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return
	}

	app.Static("/static", dir)
	index := filepath.Join(dir, "index.html")
	app.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.SendFile(index)
	})
}
