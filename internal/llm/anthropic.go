package llm

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultAnthropicMaxTokens = 4096

type AnthropicProvider struct {
	client    *anthropic.Client
	model     string
	maxTokens int64
}

func NewAnthropicProvider(apiKey, model string, maxTokens int) *AnthropicProvider {
	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	)
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}
	return &AnthropicProvider{
		client:    &client,
		model:     model,
		maxTokens: int64(maxTokens),
	}
}

func (p *AnthropicProvider) Name() string  { return "anthropic" }
func (p *AnthropicProvider) Model() string { return p.model }

func (p *AnthropicProvider) GenerateStream(ctx context.Context, req *GenerateRequest, ch chan<- StreamResponse) error {
	defer close(ch)

	system, rest := splitSystem(req.Messages)
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(chooseModel(req.Model, p.model)),
		MaxTokens: p.maxTokens,
		Messages:  buildAnthropicMessages(rest),
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	stream := p.client.Messages.NewStreaming(ctx, params)
	defer func() { _ = stream.Close() }()

	var finish string
	usage := &Usage{}
	for stream.Next() {
		event := stream.Current()
		switch ev := event.AsAny().(type) {
		case anthropic.MessageStartEvent:
			usage.PromptTokens = ev.Message.Usage.InputTokens
		case anthropic.ContentBlockDeltaEvent:
			delta, ok := ev.Delta.AsAny().(anthropic.TextDelta)
			if !ok || delta.Text == "" {
				continue
			}
			if err := send(ctx, ch, StreamResponse{Content: delta.Text}); err != nil {
				return err
			}
		case anthropic.MessageDeltaEvent:
			finish = string(ev.Delta.StopReason)
			usage.CompletionTokens = ev.Usage.OutputTokens
		}
	}
	if err := stream.Err(); err != nil {
		return fmt.Errorf("anthropic streaming error: %w", err)
	}
	usage.TotalTokens = usage.PromptTokens + usage.CompletionTokens
	return send(ctx, ch, StreamResponse{Done: true, FinishReason: finish, Usage: usage})
}

func buildAnthropicMessages(messages []Message) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(messages))
	for _, m := range messages {
		block := anthropic.NewTextBlock(m.Content)
		if m.Role == "assistant" {
			out = append(out, anthropic.NewAssistantMessage(block))
			continue
		}
		out = append(out, anthropic.NewUserMessage(block))
	}
	return out
}
