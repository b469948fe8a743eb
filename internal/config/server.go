package config

import (
	"context"
	"fmt"

	chatHandler "FintechAgent/internal/api/chat/handler"
	chatRepository "FintechAgent/internal/api/chat/repository"
	chatService "FintechAgent/internal/api/chat/service"
	financeHandler "FintechAgent/internal/api/finance/handler"
	financeService "FintechAgent/internal/api/finance/service"
	"FintechAgent/internal/middleware"
	"FintechAgent/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

type ServerOption func(*Server) error

type Server struct {
	engine     *fiber.App
	log        *logrus.Logger
	config     Config
	middleware middleware.Middleware
	validator  *validator.Validate
	utils      utils.IUtils
	agent      *Agent
	sessions   chatRepository.Repository
	handlers   []handler
	metrics    bool
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.agent == nil {
		return nil, fmt.Errorf("agent is required")
	}
	if server.validator == nil {
		server.validator = NewValidator()
	}
	if server.utils == nil {
		server.utils = utils.New()
	}
	if server.middleware == nil {
		server.middleware = middleware.New(server.log, server.config.RateLimitRPS, server.config.RateLimitBurst)
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithConfig(cfg Config) ServerOption {
	return func(s *Server) error {
		s.config = cfg
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log, s.config.RateLimitRPS, s.config.RateLimitBurst)
		return nil
	}
}

func WithAgent(agent *Agent) ServerOption {
	return func(s *Server) error {
		if agent == nil {
			return fmt.Errorf("agent must not be nil")
		}
		s.agent = agent
		return nil
	}
}

// WithSessionRepository overrides the in-memory session store.
func WithSessionRepository(repo chatRepository.Repository) ServerOption {
	return func(s *Server) error {
		s.sessions = repo
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func WithMetrics() ServerOption {
	return func(s *Server) error {
		s.metrics = true
		return nil
	}
}

func (s *Server) RegisterHandler() {
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(s.middleware.NewLoggingMiddleware())

	if s.sessions == nil {
		s.sessions = chatRepository.New(s.log, chatRepository.DefaultSessionTTL)
	}

	// Chat Domain
	chatServices := chatService.New(
		s.log,
		s.sessions,
		s.agent.Classifier,
		s.agent.Dataset.Responses,
		s.agent.Retriever,
		s.agent.Fallback,
		s.utils,
	)
	chatHandlers := chatHandler.New(s.log, s.validator, s.middleware, chatServices)

	// Finance Advisor
	financeServices := financeService.New(s.log, s.agent.Fallback)
	financeHandlers := financeHandler.New(s.log, s.validator, s.middleware, financeServices)

	s.setupHealthCheck()
	if s.metrics {
		s.setupMetrics()
	}

	// POST /chat stays at the root for existing clients.
	chatHandlers.Start(s.engine)

	s.handlers = append(s.handlers, chatHandlers, financeHandlers)

	router := s.engine.Group("/api/v1")
	for _, h := range s.handlers {
		h.Start(router)
	}
}

func (s *Server) Run() error {
	port := s.config.AppPort
	if port == "" {
		port = "3000"
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

// Shutdown stops accepting connections, waits for in-flight requests and
// releases the agent's clients.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.engine.ShutdownWithContext(ctx); err != nil {
		return err
	}
	return s.agent.Close()
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Welcome to the AI Fintech Agent API",
		})
	})
}

func (s *Server) setupMetrics() {
	metricsHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	s.engine.Get("/metrics", func(c *fiber.Ctx) error {
		metricsHandler(c.Context())
		return nil
	})
}
