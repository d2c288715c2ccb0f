// Package ai wraps the OpenAI chat completion API for text composition, chat
// and image description, and provides a deterministic mock vision provider.
package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"vaultcast/internal/config"
	"vaultcast/internal/model"
)

// ErrNotConfigured means no OpenAI API key is available.
var ErrNotConfigured = errors.New("ai: openai api key not configured")

// DefaultVisionPrompt is used when the caller does not supply one.
const DefaultVisionPrompt = "Describe this image in detail."

// Completer produces chat completions.
type Completer interface {
	Complete(ctx context.Context, system string, messages []model.ChatMessage) (string, error)
	// Stream calls onChunk for every content delta; an error from onChunk stops the stream.
	Stream(ctx context.Context, system string, messages []model.ChatMessage, onChunk func(string) error) error
}

// Vision describes images.
type Vision interface {
	Describe(ctx context.Context, image []byte, contentType, prompt string) (model.ImageAnalysis, error)
}

// OpenAI implements Completer and Vision.
type OpenAI struct {
	client      openai.Client
	model       string
	visionModel string
	configured  bool
}

var (
	_ Completer = (*OpenAI)(nil)
	_ Vision    = (*OpenAI)(nil)
)

// NewOpenAI builds a client from configuration. hc may be nil.
func NewOpenAI(cfg config.OpenAIConfig, hc *http.Client) *OpenAI {
	if hc == nil {
		hc = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(hc),
		option.WithMaxRetries(1),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAI{
		client:      openai.NewClient(opts...),
		model:       cfg.Model,
		visionModel: cfg.VisionModel,
		configured:  cfg.APIKey != "",
	}
}

// Configured reports whether an API key was supplied.
func (o *OpenAI) Configured() bool { return o.configured }

func (o *OpenAI) params(system string, messages []model.ChatMessage) openai.ChatCompletionNewParams {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages)+1)
	if strings.TrimSpace(system) != "" {
		msgs = append(msgs, openai.SystemMessage(system))
	}
	for _, m := range messages {
		if m.Role == "assistant" {
			msgs = append(msgs, openai.AssistantMessage(m.Content))
			continue
		}
		msgs = append(msgs, openai.UserMessage(m.Content))
	}
	return openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(o.model),
		Messages: msgs,
	}
}

// Complete returns the first choice's content.
func (o *OpenAI) Complete(ctx context.Context, system string, messages []model.ChatMessage) (string, error) {
	if !o.configured {
		return "", ErrNotConfigured
	}
	resp, err := o.client.Chat.Completions.New(ctx, o.params(system, messages))
	if err != nil {
		return "", fmt.Errorf("ai: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("ai: chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// Stream streams the completion deltas to onChunk.
func (o *OpenAI) Stream(ctx context.Context, system string, messages []model.ChatMessage, onChunk func(string) error) error {
	if !o.configured {
		return ErrNotConfigured
	}
	stream := o.client.Chat.Completions.NewStreaming(ctx, o.params(system, messages))
	defer stream.Close()

	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == "" {
			continue
		}
		if err := onChunk(chunk.Choices[0].Delta.Content); err != nil {
			return err
		}
	}
	if err := stream.Err(); err != nil {
		return fmt.Errorf("ai: chat stream: %w", err)
	}
	return nil
}

// Describe sends the image as a base64 data URL to the vision model.
func (o *OpenAI) Describe(ctx context.Context, image []byte, contentType, prompt string) (model.ImageAnalysis, error) {
	if !o.configured {
		return model.ImageAnalysis{}, ErrNotConfigured
	}
	if prompt == "" {
		prompt = DefaultVisionPrompt
	}
	dataURL := "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(image)

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.visionModel),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.TextContentPart(prompt),
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: dataURL}),
			}),
		},
	})
	if err != nil {
		return model.ImageAnalysis{}, fmt.Errorf("ai: vision completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return model.ImageAnalysis{}, errors.New("ai: vision completion returned no choices")
	}
	return model.ImageAnalysis{
		Provider:    "openai",
		Model:       o.visionModel,
		Description: resp.Choices[0].Message.Content,
		ContentType: contentType,
		Size:        int64(len(image)),
	}, nil
}
