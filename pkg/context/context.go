package context

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type key int

const (
	requestIDKey key = iota
	userIDKey
)

const (
	fiberRequestIDKey = "X-Request-ID"
	unknown           = "unknown"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	if ctx == nil {
		return unknown
	}
	requestID, ok := ctx.Value(requestIDKey).(string)
	if !ok || requestID == "" {
		return unknown
	}
	return requestID
}

// WithUserID tags ctx with the chat user a turn runs for.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func GetUserID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	userID, _ := ctx.Value(userIDKey).(string)
	return userID
}

// Fields returns the log fields carried by ctx. user_id is omitted when the
// request is not tied to a chat user.
func Fields(ctx context.Context) logrus.Fields {
	fields := logrus.Fields{"request_id": GetRequestID(ctx)}
	if userID := GetUserID(ctx); userID != "" {
		fields["user_id"] = userID
	}
	return fields
}

// FromFiberCtx builds a detached context carrying the request id assigned
// by the request id middleware, or the inbound header when the middleware
// did not run.
func FromFiberCtx(c *fiber.Ctx) context.Context {
	requestID, _ := c.Locals(fiberRequestIDKey).(string)
	if requestID == "" {
		requestID = c.Get(fiberRequestIDKey, unknown)
	}
	return WithRequestID(context.Background(), requestID)
}
