package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"pinterest-forwarder/internal/config"
	"pinterest-forwarder/internal/controller"
)

// Server wraps the Fiber application setup.
type Server struct {
	app *fiber.App
}

// NewServer configures routes and middleware.
func NewServer(appCfg *config.Config, eventController controller.EventController) *Server {
	fiberCfg := fiber.Config{
		AppName:               "pinterest-forwarder",
		DisableStartupMessage: true,
		Prefork:               appCfg.FiberPrefork,
	}
	app := fiber.New(fiberCfg)
	app.Use(recover.New())

	registerRoutes(app, eventController, appCfg.AppMode)

	return &Server{app: app}
}

// registerRoutes wires the ingestion endpoint, dispatch counters and liveness.
func registerRoutes(app *fiber.App, eventController controller.EventController, mode string) {
	app.Post("/events", eventController.CreateEvent)
	app.Get("/metrics", eventController.GetMetrics)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"mode":      mode,
			"forwarder": "pinterest",
			"endpoint":  "https://ct.pinterest.com/v3/",
		})
	})
}

// Listen runs the server on provided addr.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown stops accepting connections and waits for active requests.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App exposes the Fiber app for in-process tests.
func (s *Server) App() *fiber.App {
	return s.app
}
