package api

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/mikey/spam-classifier/internal/classifier"
	"github.com/mikey/spam-classifier/internal/config"
	"github.com/mikey/spam-classifier/internal/core"
)

const shutdownTimeout = 10 * time.Second

// SpamService trains and serves the active model
type SpamService interface {
	Train(ctx context.Context) (classifier.Metrics, error)
	Predict(ctx context.Context, text string) (core.Prediction, error)
	Model() *classifier.Model
}

// Summarizer scores a batch of mails per sender
type Summarizer interface {
	Summarize(ctx context.Context, mails []core.MailContent) ([]core.MailPredictResult, error)
}

// Server exposes the spam filter over HTTP
type Server struct {
	app        *fiber.App
	service    SpamService
	aggregator Summarizer
	listenAddr string
	logger     *zap.Logger
}

// NewServer creates a new HTTP server with all routes registered
func NewServer(service SpamService, aggregator Summarizer, cfg config.ServerConfig, logger *zap.Logger) *Server {
	app := fiber.New(fiber.Config{
		AppName:               "spam-classifier",
		DisableStartupMessage: true,
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		BodyLimit:             cfg.BodyLimit,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
			}
			return c.Status(code).JSON(ErrorResponse{Error: err.Error()})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestLogger(logger))

	s := &Server{
		app:        app,
		service:    service,
		aggregator: aggregator,
		listenAddr: cfg.ListenAddress,
		logger:     logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.app.Get("/healthz", s.health)

	group := s.app.Group("/api/spam")
	group.Get("/train", s.trainSpam)
	group.Post("/predict", s.testSpam)
	group.Post("/check", s.checkEmailSpam)

	// Paths kept for existing clients
	home := s.app.Group("/Home")
	home.Get("/TrainSpam", s.trainSpam)
	home.Post("/TestSpam", s.testSpam)
	home.Post("/CheckEmailSpam", s.checkEmailSpam)
}

// App returns the underlying fiber app
func (s *Server) App() *fiber.App {
	return s.app
}

// Start starts listening in the background
func (s *Server) Start() error {
	s.logger.Info("HTTP server starting", zap.String("address", s.listenAddr))

	go func() {
		if err := s.app.Listen(s.listenAddr); err != nil {
			s.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop gracefully shuts the server down
func (s *Server) Stop() error {
	return s.app.ShutdownWithTimeout(shutdownTimeout)
}
