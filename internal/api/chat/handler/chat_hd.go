package chatHandler

import (
	"context"
	"fmt"
	"time"

	"FintechAgent/internal/api/chat"
	contextPkg "FintechAgent/pkg/context"
	"FintechAgent/pkg/handlerUtil"
	"FintechAgent/pkg/log"
	"github.com/gofiber/fiber/v2"
)

// turnTimeout bounds a whole turn; the generator has its own, shorter limit.
const turnTimeout = 30 * time.Second

func (h *ChatHandler) Chat(ctx *fiber.Ctx) (err error) {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), turnTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing chat request")

	var req chat.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.Handle(ctx, requestID, chat.ErrInvalidRequest, ctx.Path(), "parse_request_body")
	}

	req.Trim()
	if err := h.validator.Struct(req); err != nil {
		return errHandler.Handle(ctx, requestID, chat.ValidationError(err), ctx.Path(), "validate_request")
	}

	defer func() {
		if r := recover(); r != nil {
			h.log.WithFields(log.Fields{
				"request_id": requestID,
				"user_id":    req.UserID,
				"panic":      fmt.Sprint(r),
			}).Error("Unexpected error")
			err = errHandler.HandleSuccess(ctx, fiber.StatusOK, chat.ChatResponse{Response: chat.ReplyUnavailable})
		}
	}()

	reply := h.chatService.Reply(contextPkg.WithUserID(c, req.UserID), req.UserID, req.Message)

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, chat.ChatResponse{Response: reply})
}
