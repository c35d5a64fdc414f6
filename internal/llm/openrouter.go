package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const openRouterBaseURL = "https://openrouter.ai/api/v1"

// OpenRouterProvider streams chat completions from OpenRouter through its
// OpenAI-compatible API.
type OpenRouterProvider struct {
	client *openai.Client
	model  string
}

// NewOpenRouterProvider creates an OpenRouter provider. appURL and appTitle
// become the attribution headers OpenRouter shows in its dashboard.
func NewOpenRouterProvider(apiKey, baseURL, model, appURL, appTitle string) *OpenRouterProvider {
	if baseURL == "" {
		baseURL = openRouterBaseURL
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
	}
	if appURL != "" {
		opts = append(opts, option.WithHeader("HTTP-Referer", appURL))
	}
	if appTitle != "" {
		opts = append(opts, option.WithHeader("X-Title", appTitle))
	}
	client := openai.NewClient(opts...)
	return &OpenRouterProvider{client: &client, model: model}
}

func (p *OpenRouterProvider) Name() string  { return "openrouter" }
func (p *OpenRouterProvider) Model() string { return p.model }

func (p *OpenRouterProvider) GenerateStream(ctx context.Context, req *GenerateRequest, ch chan<- StreamResponse) error {
	defer close(ch)

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(chooseModel(req.Model, p.model)),
		Messages: buildOpenAIMessages(req.Messages),
	}
	if req.ConversationID != "" {
		params.User = openai.String(req.ConversationID)
	}

	stream := p.client.Chat.Completions.NewStreaming(ctx, params)
	defer func() { _ = stream.Close() }()

	var finish string
	var usage *Usage
	for stream.Next() {
		chunk := stream.Current()
		if chunk.Usage.TotalTokens > 0 {
			usage = &Usage{
				PromptTokens:     chunk.Usage.PromptTokens,
				CompletionTokens: chunk.Usage.CompletionTokens,
				TotalTokens:      chunk.Usage.TotalTokens,
			}
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		choice := chunk.Choices[0]
		if choice.FinishReason != "" {
			finish = string(choice.FinishReason)
		}
		if choice.Delta.Content == "" {
			continue
		}
		if err := send(ctx, ch, StreamResponse{Content: choice.Delta.Content}); err != nil {
			return err
		}
	}
	if err := stream.Err(); err != nil {
		return fmt.Errorf("openrouter streaming error: %w", err)
	}
	return send(ctx, ch, StreamResponse{Done: true, FinishReason: finish, Usage: usage})
}

func buildOpenAIMessages(messages []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case "system":
			out = append(out, openai.SystemMessage(m.Content))
		case "assistant":
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}
