package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	config "github.com/maheshrc27/flowsocial/configs"
	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

// AIClient is the text and image model boundary. Every error it returns
// wraps ErrUpstream.
type AIClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteJSON(ctx context.Context, prompt string) (string, error)
	GenerateImage(ctx context.Context, prompt string) (*GeneratedImage, error)
}

// GeneratedImage holds exactly one of Base64 or URL.
type GeneratedImage struct {
	Base64 string
	URL    string
}

type openAIClient struct {
	client     *openai.Client
	limiter    *rate.Limiter
	textModel  string
	imageModel string
	imageSize  string
}

func NewAIClient(cfg config.Config) AIClient {
	return newOpenAIClient(openai.DefaultConfig(cfg.OpenAI.APIKey), cfg.OpenAI)
}

func newOpenAIClient(clientCfg openai.ClientConfig, cfg config.OpenAI) *openAIClient {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := int(cfg.RequestsPerSecond)
	if burst < 1 {
		burst = 1
	}

	return &openAIClient{
		client:     openai.NewClientWithConfig(clientCfg),
		limiter:    rate.NewLimiter(limit, burst),
		textModel:  cfg.TextModel,
		imageModel: cfg.ImageModel,
		imageSize:  cfg.ImageSize,
	}
}

func upstreamError(op string, err error) error {
	slog.Error("openai request failed", "op", op, "error", err)
	return fmt.Errorf("%w: %s: %v", ErrUpstream, op, err)
}

func (c *openAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	return c.chat(ctx, prompt, nil)
}

func (c *openAIClient) CompleteJSON(ctx context.Context, prompt string) (string, error) {
	return c.chat(ctx, prompt, &openai.ChatCompletionResponseFormat{
		Type: openai.ChatCompletionResponseFormatTypeJSONObject,
	})
}

func (c *openAIClient) chat(ctx context.Context, prompt string, format *openai.ChatCompletionResponseFormat) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", upstreamError("chat", err)
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.textModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: format,
	})
	if err != nil {
		return "", upstreamError("chat", err)
	}
	if len(resp.Choices) == 0 {
		return "", upstreamError("chat", errors.New("no choices returned"))
	}

	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", upstreamError("chat", errors.New("empty completion"))
	}
	return out, nil
}

func (c *openAIClient) GenerateImage(ctx context.Context, prompt string) (*GeneratedImage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, upstreamError("image", err)
	}

	resp, err := c.client.CreateImage(ctx, openai.ImageRequest{
		Prompt: prompt,
		Model:  c.imageModel,
		Size:   c.imageSize,
		N:      1,
	})
	if err != nil {
		return nil, upstreamError("image", err)
	}
	if len(resp.Data) == 0 {
		return nil, upstreamError("image", errors.New("no image returned"))
	}

	img := resp.Data[0]
	switch {
	case img.B64JSON != "":
		return &GeneratedImage{Base64: img.B64JSON}, nil
	case img.URL != "":
		return &GeneratedImage{URL: img.URL}, nil
	default:
		return nil, upstreamError("image", errors.New("image has neither data nor url"))
	}
}
