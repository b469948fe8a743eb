package openai

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sashabaranov/go-openai"
)

var ErrMissingAPIKey = errors.New("openai API key is required")

const systemPrompt = `You are a helpful assistant for a personal finance and bill payment app.

Rules:
- Answer in plain, concise English, at most three sentences.
- Never ask for passwords, PINs or full card numbers.
- If the user wants to pay a bill, tell them to type "pay my bill".
- If you are unsure, say so and suggest contacting support.`

type IChatGPT interface {
	Generate(ctx context.Context, prompt string, maxLength int) (string, error)
	Embed(ctx context.Context, text string) ([]float32, error)
}

type chatGPTService struct {
	client         *openai.Client
	model          string
	embeddingModel openai.EmbeddingModel
}

// NewChatGPT reads OPENAI_API_KEY, OPENAI_CHAT_MODEL and
// OPENAI_EMBEDDING_MODEL from the environment.
func NewChatGPT() (IChatGPT, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	model := os.Getenv("OPENAI_CHAT_MODEL")
	if model == "" {
		model = openai.GPT4oMini
	}

	embeddingModel := openai.EmbeddingModel(os.Getenv("OPENAI_EMBEDDING_MODEL"))
	if embeddingModel == "" {
		embeddingModel = openai.SmallEmbedding3
	}

	return &chatGPTService{
		client:         openai.NewClient(apiKey),
		model:          model,
		embeddingModel: embeddingModel,
	}, nil
}

func (c *chatGPTService) Generate(ctx context.Context, prompt string, maxLength int) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.7,
	}
	if maxLength > 0 {
		req.MaxTokens = maxLength
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("ChatGPT API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from ChatGPT")
	}

	return resp.Choices[0].Message.Content, nil
}

func (c *chatGPTService) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: c.embeddingModel,
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI embeddings error: %w", err)
	}

	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("no embedding returned from OpenAI")
	}

	return resp.Data[0].Embedding, nil
}
