package financeHandler

import (
	"context"
	"time"

	"FintechAgent/internal/api/finance"
	"FintechAgent/internal/entity"
	contextPkg "FintechAgent/pkg/context"
	"FintechAgent/pkg/handlerUtil"
	"FintechAgent/pkg/log"
	"github.com/gofiber/fiber/v2"
)

const adviceTimeout = 30 * time.Second

func (h *FinanceHandler) Analyze(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	errHandler := handlerUtil.New(h.log)

	transactions, err := h.parseTransactions(ctx)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "parse_transactions")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, h.financeService.Analyze(transactions))
}

func (h *FinanceHandler) Budget(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), adviceTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing budget recommendation request")

	transactions, err := h.parseTransactions(ctx)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "parse_transactions")
	}

	result := h.financeService.Budget(c, transactions)

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, result)
	}
}

func (h *FinanceHandler) Investment(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), adviceTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req finance.InvestmentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.Handle(ctx, requestID, finance.ErrInvalidProfile, ctx.Path(), "parse_request_body")
	}
	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	advice := h.financeService.Investment(c, req)

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, finance.AdviceResponse{Advice: advice})
	}
}

func (h *FinanceHandler) CompoundInterest(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	errHandler := handlerUtil.New(h.log)

	var req finance.CompoundInterestRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.Handle(ctx, requestID, finance.ErrInvalidInterest, ctx.Path(), "parse_request_body")
	}
	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, finance.CompoundInterestResponse{
		FutureValue: h.financeService.CompoundInterest(req.Principal, req.Rate, req.Years),
	})
}

func (h *FinanceHandler) Explain(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), adviceTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req finance.ExplainRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.Handle(ctx, requestID, finance.ErrInvalidTerm, ctx.Path(), "parse_request_body")
	}
	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	explanation := h.financeService.Explain(c, req.Term)

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, finance.AdviceResponse{Advice: explanation})
	}
}

func (h *FinanceHandler) parseTransactions(ctx *fiber.Ctx) ([]entity.Transaction, error) {
	var req finance.AnalysisRequest
	if err := ctx.BodyParser(&req); err != nil {
		return nil, finance.ErrInvalidTransactions
	}
	if err := h.validator.Struct(req); err != nil {
		h.log.WithFields(log.Fields{
			"request_id": h.middleware.GetRequestID(ctx),
			"error":      err.Error(),
		}).Debug("Transaction validation failed")
		return nil, finance.ErrInvalidTransactions
	}

	transactions := make([]entity.Transaction, 0, len(req.Transactions))
	for _, tx := range req.Transactions {
		transactions = append(transactions, entity.Transaction{
			Date:     tx.Date,
			Category: tx.Category,
			Amount:   tx.Amount,
		})
	}
	return transactions, nil
}
