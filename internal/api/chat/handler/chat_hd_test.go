package chatHandler

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"FintechAgent/internal/api/chat"
	"FintechAgent/internal/middleware"
	"FintechAgent/pkg/log"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
)

type stubService struct {
	reply func(ctx context.Context, userID, message string) string
	calls int
}

func (s *stubService) Reply(ctx context.Context, userID, message string) string {
	s.calls++
	return s.reply(ctx, userID, message)
}

func newTestApp(svc *stubService) *fiber.App {
	logger := log.NewDiscardLogger()
	mw := middleware.New(logger, 1000, 1000)
	app := fiber.New(fiber.Config{
		JSONEncoder: jsoniter.Marshal,
		JSONDecoder: jsoniter.Unmarshal,
	})
	app.Use(mw.NewRequestIDMiddleware())
	New(logger, validator.New(), mw, svc).Start(app)
	return app
}

func post(t *testing.T, app *fiber.App, body string) (int, chatBody) {
	t.Helper()
	req := httptest.NewRequest("POST", "/chat", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	raw, _ := io.ReadAll(resp.Body)

	var out chatBody
	if err := jsoniter.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return resp.StatusCode, out
}

type chatBody struct {
	Response string `json:"response"`
	Error    string `json:"error"`
}

func TestChat_Success(t *testing.T) {
	svc := &stubService{reply: func(_ context.Context, userID, message string) string {
		if userID != "user42" || message != "pay my bill" {
			t.Errorf("got user %q message %q, want trimmed values", userID, message)
		}
		return "What type of bill?"
	}}

	status, body := post(t, newTestApp(svc), `{"message": "  pay my bill ", "user_id": " user42 "}`)
	if status != fiber.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if body.Response != "What type of bill?" {
		t.Errorf("response = %q", body.Response)
	}
}

func TestChat_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"blank message", `{"message": "   ", "user_id": "u1"}`, chat.ErrInvalidRequest.Error()},
		{"missing user id", `{"message": "hi"}`, chat.ErrInvalidRequest.Error()},
		{"blank both with bad id", `{"message": "", "user_id": "a b"}`, chat.ErrInvalidRequest.Error()},
		{"non alphanumeric id", `{"message": "hi", "user_id": "user-1"}`, chat.ErrUserIDNotAlphanumeric.Error()},
		{"malformed body", `{"message": `, chat.ErrInvalidRequest.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{reply: func(context.Context, string, string) string { return "unused" }}
			status, body := post(t, newTestApp(svc), tt.body)
			if status != fiber.StatusBadRequest {
				t.Errorf("status = %d, want 400", status)
			}
			if body.Error != tt.want {
				t.Errorf("error = %q, want %q", body.Error, tt.want)
			}
			if svc.calls != 0 {
				t.Error("service must not be called for invalid requests")
			}
		})
	}
}

func TestChat_PanicStillReturns200(t *testing.T) {
	svc := &stubService{reply: func(context.Context, string, string) string { panic("unexpected") }}

	status, body := post(t, newTestApp(svc), `{"message": "hi", "user_id": "u1"}`)
	if status != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if body.Response != chat.ReplyUnavailable {
		t.Errorf("response = %q", body.Response)
	}
}

func TestChat_WebSocketRequiresUpgrade(t *testing.T) {
	svc := &stubService{reply: func(context.Context, string, string) string { return "" }}

	resp, err := newTestApp(svc).Test(httptest.NewRequest("GET", "/chat/ws", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUpgradeRequired {
		t.Errorf("status = %d, want 426", resp.StatusCode)
	}
}
