package web

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/eviworld/pixtoon-voice/internal/log"
	"github.com/eviworld/pixtoon-voice/pkg/command"
)

// handleCommand accepts a multipart audio upload and runs it through
// the pipeline. Pipeline outcomes, including error envelopes, are
// always HTTP 200; only a malformed upload is a 400.
func (s *Server) handleCommand(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("audio")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(command.Result{
			Status:  command.StatusError,
			Message: "missing audio file",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(command.Result{
			Status:  command.StatusError,
			Message: "unreadable audio file",
		})
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(command.Result{
			Status:  command.StatusError,
			Message: "unreadable audio file",
		})
	}

	session := s.sessions.GetOrCreate(c.Get(SessionHeader))
	c.Set(SessionHeader, session.ID)

	log.Debug("voice command received",
		"session_id", session.ID,
		"filename", fileHeader.Filename,
		"bytes", len(audio))

	result := s.pipeline.Run(c.UserContext(), session, audio, fileHeader.Filename)
	return c.JSON(result)
}

// handleHealth reports server liveness.
func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":   "healthy",
		"sessions": s.sessions.Len(),
	})
}
