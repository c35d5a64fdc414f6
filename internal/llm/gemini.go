package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider builds a Gemini API client. Client construction does no I/O.
func NewGeminiProvider(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create gemini client: %w", err)
	}
	return &GeminiProvider{client: client, model: model}, nil
}

func (p *GeminiProvider) Name() string  { return "gemini" }
func (p *GeminiProvider) Model() string { return p.model }

func (p *GeminiProvider) GenerateStream(ctx context.Context, req *GenerateRequest, ch chan<- StreamResponse) error {
	defer close(ch)

	system, rest := splitSystem(req.Messages)
	contents := make([]*genai.Content, 0, len(rest))
	for _, m := range rest {
		role := genai.RoleUser
		if m.Role == "assistant" {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, genai.Role(role)))
	}

	var config *genai.GenerateContentConfig
	if system != "" {
		config = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		}
	}

	var finish string
	var usage *Usage
	for resp, err := range p.client.Models.GenerateContentStream(ctx, chooseModel(req.Model, p.model), contents, config) {
		if err != nil {
			return fmt.Errorf("gemini streaming error: %w", err)
		}
		if resp.UsageMetadata != nil {
			usage = &Usage{
				PromptTokens:     int64(resp.UsageMetadata.PromptTokenCount),
				CompletionTokens: int64(resp.UsageMetadata.CandidatesTokenCount),
				TotalTokens:      int64(resp.UsageMetadata.TotalTokenCount),
			}
		}
		if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason != "" {
			finish = string(resp.Candidates[0].FinishReason)
		}
		text := resp.Text()
		if text == "" {
			continue
		}
		if err := send(ctx, ch, StreamResponse{Content: text}); err != nil {
			return err
		}
	}
	return send(ctx, ch, StreamResponse{Done: true, FinishReason: finish, Usage: usage})
}
