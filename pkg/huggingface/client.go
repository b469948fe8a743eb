package huggingface

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
)

const defaultBaseURL = "https://api-inference.huggingface.co/models"

var (
	ErrMissingCredentials = errors.New("missing HF_API_TOKEN or MODEL_ENDPOINT")
	ErrEmptyResponse      = errors.New("hugging face API returned no generations")
)

// APIError is the error payload returned by the inference API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("hugging face API error (status %d): %s", e.Status, e.Message)
}

type IHuggingFace interface {
	Generate(ctx context.Context, prompt string, maxLength int) (string, error)
}

type client struct {
	baseURL string
	token   string
	model   string
	timeout time.Duration
}

type generateRequest struct {
	Inputs     string             `json:"inputs"`
	Parameters generateParameters `json:"parameters"`
}

type generateParameters struct {
	MaxLength          int `json:"max_length"`
	NumReturnSequences int `json:"num_return_sequences"`
}

type generation struct {
	GeneratedText string `json:"generated_text"`
}

type errorBody struct {
	Error string `json:"error"`
}

// New reads HF_API_TOKEN, MODEL_ENDPOINT and the optional HF_API_BASE from
// the environment. Missing credentials are reported per call, not here, so
// the service can start without a generator configured.
func New(timeout time.Duration) IHuggingFace {
	base := os.Getenv("HF_API_BASE")
	if base == "" {
		base = defaultBaseURL
	}
	return NewWithConfig(base, os.Getenv("HF_API_TOKEN"), os.Getenv("MODEL_ENDPOINT"), timeout)
}

func NewWithConfig(baseURL, token, model string, timeout time.Duration) IHuggingFace {
	return &client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		model:   model,
		timeout: timeout,
	}
}

func (c *client) Generate(ctx context.Context, prompt string, maxLength int) (string, error) {
	if c.token == "" || c.model == "" {
		return "", ErrMissingCredentials
	}

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); timeout <= 0 || remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 && ctx.Err() != nil {
		return "", ctx.Err()
	}

	agent := fiber.Post(fmt.Sprintf("%s/%s", c.baseURL, c.model))
	agent.Set(fiber.HeaderAuthorization, "Bearer "+c.token)
	agent.JSONEncoder(jsoniter.Marshal)
	agent.JSON(generateRequest{
		Inputs: prompt,
		Parameters: generateParameters{
			MaxLength:          maxLength,
			NumReturnSequences: 1,
		},
	})
	if timeout > 0 {
		agent.Timeout(timeout)
	}

	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return "", fmt.Errorf("calling hugging face API: %w", errors.Join(errs...))
	}

	return parseResponse(status, body)
}

func parseResponse(status int, body []byte) (string, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var apiErr errorBody
		if err := jsoniter.Unmarshal(trimmed, &apiErr); err != nil {
			return "", fmt.Errorf("decoding hugging face error: %w", err)
		}
		if apiErr.Error == "" {
			apiErr.Error = "unexpected object response"
		}
		return "", &APIError{Status: status, Message: apiErr.Error}
	}

	if status >= fiber.StatusBadRequest {
		return "", &APIError{Status: status, Message: string(trimmed)}
	}

	var generations []generation
	if err := jsoniter.Unmarshal(trimmed, &generations); err != nil {
		return "", fmt.Errorf("decoding hugging face response: %w", err)
	}
	if len(generations) == 0 {
		return "", ErrEmptyResponse
	}

	return strings.TrimSpace(generations[0].GeneratedText), nil
}
