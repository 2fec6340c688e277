package backend

import (
	"context"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/mempirate/advisor/log"
)

const DefaultModel = openai.ChatModelGPT4_0125Preview

// Completer is the LLM backend used to produce recommendations.
type Completer interface {
	// Complete sends a single user prompt and returns the full response. onChunk, if not nil,
	// is called with every piece of text as it is streamed back.
	Complete(ctx context.Context, prompt string, onChunk func(string)) (*Completion, error)
}

// Completion is the final response of a chat completion with its accounting.
type Completion struct {
	Model   string
	Content string
	Usage   Usage
}

// Backend talks to the OpenAI chat completions API.
type Backend struct {
	log zerolog.Logger

	client  *openai.Client
	model   openai.ChatModel
	pricing Pricing
}

func NewBackend(apiKey string, model openai.ChatModel, pricing Pricing, opts ...option.RequestOption) *Backend {
	log := log.NewLogger("backend")

	log.Debug().Str("model", model).Msg("Initializing OpenAI client")
	// A failed completion is reported, never resent.
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}, opts...)

	return &Backend{
		log:     log,
		client:  openai.NewClient(opts...),
		model:   model,
		pricing: pricing,
	}
}

func (b *Backend) Complete(ctx context.Context, prompt string, onChunk func(string)) (*Completion, error) {
	start := time.Now()
	defer func() {
		b.log.Debug().Dur("duration", time.Since(start)).Msg("Completion finished")
	}()

	stream := b.client.Chat.Completions.NewStreaming(ctx, openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		}),
		Model: openai.F(b.model),
		StreamOptions: openai.F(openai.ChatCompletionStreamOptionsParam{
			IncludeUsage: openai.F(true),
		}),
	})
	defer stream.Close()

	var (
		content strings.Builder
		usage   openai.CompletionUsage
		model   = b.model
	)

	for stream.Next() {
		chunk := stream.Current()
		if chunk.Model != "" {
			model = chunk.Model
		}

		// With include_usage the last chunk has no choices and carries the totals.
		if chunk.Usage.TotalTokens > 0 {
			usage = chunk.Usage
		}

		for _, choice := range chunk.Choices {
			if choice.Delta.Content == "" {
				continue
			}

			content.WriteString(choice.Delta.Content)
			if onChunk != nil {
				onChunk(choice.Delta.Content)
			}
		}
	}

	if err := stream.Err(); err != nil {
		return nil, errors.Wrap(err, "chat completion failed")
	}

	completion := &Completion{
		Model:   model,
		Content: content.String(),
		Usage:   b.pricing.Usage(usage.PromptTokens, usage.CompletionTokens),
	}

	b.log.Info().
		Str("model", completion.Model).
		Int64("prompt_tokens", completion.Usage.PromptTokens).
		Int64("response_tokens", completion.Usage.ResponseTokens).
		Msg("Completion received")

	return completion, nil
}
