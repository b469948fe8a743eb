package financeHandler

import (
	financeService "FintechAgent/internal/api/finance/service"
	"FintechAgent/internal/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type FinanceHandler struct {
	log            *logrus.Logger
	validator      *validator.Validate
	middleware     middleware.Middleware
	financeService financeService.IFinanceService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	financeService financeService.IFinanceService,
) *FinanceHandler {
	return &FinanceHandler{
		log:            log,
		validator:      validate,
		middleware:     middleware,
		financeService: financeService,
	}
}

func (h *FinanceHandler) Start(srv fiber.Router) {
	finance := srv.Group("/finance")

	finance.Post("/analysis", h.Analyze)
	finance.Post("/budget", h.middleware.NewRateLimiter, h.Budget)
	finance.Post("/investment", h.middleware.NewRateLimiter, h.Investment)
	finance.Post("/compound-interest", h.CompoundInterest)
	finance.Post("/explain", h.middleware.NewRateLimiter, h.Explain)
}
