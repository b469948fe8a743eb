package config

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"FintechAgent/pkg/dataset"
	"FintechAgent/pkg/knowledge"
	"FintechAgent/pkg/llm"
	"FintechAgent/pkg/log"
	"FintechAgent/pkg/nlp"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := log.NewDiscardLogger()

	ds := &dataset.Dataset{
		Intents: nlp.IntentTable{
			{Name: "greeting", Phrases: []string{"hello", "hi there"}},
			{Name: "pay_bills", Phrases: []string{"settle my bill"}},
		},
		Responses: map[string]string{"greeting": "Hello! How can I help you?"},
		KnowledgeBase: []knowledge.Entry{
			{Question: "how do i check my account balance", Answer: "Open the app and tap Balance."},
		},
	}
	retriever, err := knowledge.NewRetriever(context.Background(), knowledge.NewHashingEmbedder(knowledge.DefaultHashingDim), ds.KnowledgeBase, logger)
	if err != nil {
		t.Fatalf("NewRetriever: %v", err)
	}
	generator := llm.GeneratorFunc(func(context.Context, string, int) (string, error) {
		return "### Generated answer", nil
	})

	server, err := NewServer(
		WithFiber(NewFiber(logger)),
		WithLogger(logger),
		WithConfig(Config{RateLimitRPS: 1000, RateLimitBurst: 1000}),
		WithMiddleware(),
		WithAgent(&Agent{
			Dataset:    ds,
			Classifier: nlp.NewClassifier(ds.Intents, logger),
			Retriever:  retriever,
			Fallback:   llm.NewFallback(generator, logger),
		}),
		WithMetrics(),
	)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	server.RegisterHandler()
	return server
}

func request(t *testing.T, s *Server, method, path, body string) (int, string) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.engine.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	raw, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(raw)
}

func TestServer_Welcome(t *testing.T) {
	s := newTestServer(t)

	status, body := request(t, s, "GET", "/", "")
	if status != 200 || body != `{"message":"Welcome to the AI Fintech Agent API"}` {
		t.Errorf("got %d %s", status, body)
	}
}

func TestServer_ChatPipeline(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		path    string
		message string
		want    string
	}{
		{"/chat", "hello", "Hello! How can I help you?"},
		{"/api/v1/chat", "How do I check my account balance?", "Open the app and tap Balance."},
		{"/chat", "tell me a joke about stocks", "Generated answer"},
		{"/chat", "pay my bills", "What type of bill would you like to pay? (electricity, water, internet)? Type 'stop' to cancel."},
		{"/api/v1/chat", "stop", "Session canceled. Type 'help' if you need assistance."},
	}

	for _, tt := range tests {
		status, body := request(t, s, "POST", tt.path, `{"message":"`+tt.message+`","user_id":"abc123"}`)
		if status != 200 {
			t.Errorf("%s %q: status %d", tt.path, tt.message, status)
		}
		if body != `{"response":"`+tt.want+`"}` {
			t.Errorf("%s %q: body %s, want response %q", tt.path, tt.message, body, tt.want)
		}
	}
}

func TestServer_ChatValidation(t *testing.T) {
	s := newTestServer(t)

	status, body := request(t, s, "POST", "/chat", `{"message":"hi","user_id":"abc_123"}`)
	if status != 400 || !strings.Contains(body, "User ID must be alphanumeric.") {
		t.Errorf("got %d %s", status, body)
	}
}

func TestServer_Metrics(t *testing.T) {
	s := newTestServer(t)
	request(t, s, "POST", "/chat", `{"message":"hello","user_id":"m1"}`)

	status, body := request(t, s, "GET", "/metrics", "")
	if status != 200 {
		t.Fatalf("status %d", status)
	}
	if !strings.Contains(body, "fintech_agent_chat_turns_total") {
		t.Error("chat turn counter not exported")
	}
}
