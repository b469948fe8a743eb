package context

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestFields(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	fields := Fields(ctx)
	if fields["request_id"] != "req-1" {
		t.Errorf("request_id = %v", fields["request_id"])
	}
	if _, ok := fields["user_id"]; ok {
		t.Errorf("user_id should be absent, got %v", fields["user_id"])
	}

	fields = Fields(WithUserID(ctx, "alice"))
	if fields["user_id"] != "alice" {
		t.Errorf("user_id = %v", fields["user_id"])
	}

	if got := GetRequestID(context.Background()); got != "unknown" {
		t.Errorf("missing request id = %q", got)
	}
}

func TestFromFiberCtx(t *testing.T) {
	app := fiber.New()
	app.Get("/locals", func(c *fiber.Ctx) error {
		c.Locals(fiberRequestIDKey, "from-middleware")
		return c.SendString(GetRequestID(FromFiberCtx(c)))
	})
	app.Get("/header", func(c *fiber.Ctx) error {
		return c.SendString(GetRequestID(FromFiberCtx(c)))
	})

	tests := []struct {
		path   string
		header string
		want   string
	}{
		{"/locals", "ignored", "from-middleware"},
		{"/header", "from-header", "from-header"},
		{"/header", "", "unknown"},
	}

	for _, tt := range tests {
		req := httptest.NewRequest("GET", tt.path, nil)
		if tt.header != "" {
			req.Header.Set(fiberRequestIDKey, tt.header)
		}
		resp, err := app.Test(req)
		if err != nil {
			t.Fatal(err)
		}
		body, _ := io.ReadAll(resp.Body)
		if string(body) != tt.want {
			t.Errorf("%s with header %q = %q, want %q", tt.path, tt.header, body, tt.want)
		}
	}
}
