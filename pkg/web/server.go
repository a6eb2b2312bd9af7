// Package web exposes the voice command pipeline over HTTP.
package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/eviworld/pixtoon-voice/internal/log"
	"github.com/eviworld/pixtoon-voice/pkg/command"
)

// SessionHeader carries the conversation session ID on requests and
// responses. Clients that omit it get a fresh session assigned.
const SessionHeader = "X-Session-ID"

// Server hosts the voice command API.
type Server struct {
	app      *fiber.App
	port     string
	pipeline *command.Pipeline
	sessions *command.Sessions
}

// NewServer creates the API server around a pipeline and its session
// registry.
func NewServer(port string, pipeline *command.Pipeline, sessions *command.Sessions) *Server {
	s := &Server{
		port:     port,
		pipeline: pipeline,
		sessions: sessions,
	}

	app := fiber.New(fiber.Config{
		AppName:               "Pixtoon Voice",
		DisableStartupMessage: true,
		BodyLimit:             25 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(logger.New())

	app.Get("/health", s.handleHealth)

	api := app.Group("/api")
	api.Post("/command", s.handleCommand)

	s.app = app
	return s
}

// Start starts the API server.
func (s *Server) Start() error {
	log.Info("voice API listening", "port", s.port)
	return s.app.Listen(":" + s.port)
}

// App returns the underlying fiber app. Used by tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
