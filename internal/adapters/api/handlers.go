package api

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/mikey/spam-classifier/internal/core"
)

var errBadRequest = errors.New("invalid request body")

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(Response{Result: HealthStatus{
		Status:      "ok",
		ModelLoaded: s.service.Model() != nil,
	}})
}

// trainSpam retrains the model and returns its evaluation metrics
func (s *Server) trainSpam(c *fiber.Ctx) error {
	metrics, err := s.service.Train(c.UserContext())
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(Response{Result: metrics.Map()})
}

// testSpam scores a single message
func (s *Server) testSpam(c *fiber.Ctx) error {
	message, err := s.parseMessage(c)
	if err != nil {
		return s.writeError(c, err)
	}

	prediction, err := s.service.Predict(c.UserContext(), message)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(Response{Result: prediction})
}

// checkEmailSpam summarizes a batch of mails per sender
func (s *Server) checkEmailSpam(c *fiber.Ctx) error {
	var mails []core.MailContent
	if err := c.App().Config().JSONDecoder(c.Body(), &mails); err != nil {
		return s.writeError(c, fmt.Errorf("%w: %v", errBadRequest, err))
	}

	results, err := s.aggregator.Summarize(c.UserContext(), mails)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(Response{Result: results})
}

// parseMessage accepts either a JSON string or {"message": "..."}
func (s *Server) parseMessage(c *fiber.Ctx) (string, error) {
	decode := c.App().Config().JSONDecoder
	body := c.Body()

	var message string
	if err := decode(body, &message); err == nil {
		return message, nil
	}

	var req PredictRequest
	if err := decode(body, &req); err != nil {
		return "", fmt.Errorf("%w: expected a JSON string or an object with a message field", errBadRequest)
	}
	return req.Message, nil
}

func (s *Server) writeError(c *fiber.Ctx, err error) error {
	code := statusFor(err)
	if code >= fiber.StatusInternalServerError {
		s.logger.Error("Request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(code).JSON(ErrorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrModelNotLoaded):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, core.ErrDecode), errors.Is(err, errBadRequest):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}
