package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

type ollamaProvider struct {
	client *http.Client
	url    string
	model  string
}

// NewOllamaProvider talks to a local Ollama server over its NDJSON chat API.
func NewOllamaProvider(url, model string) LLMProvider {
	return &ollamaProvider{
		client: &http.Client{},
		url:    url,
		model:  model,
	}
}

func (p *ollamaProvider) Name() string  { return "ollama" }
func (p *ollamaProvider) Model() string { return p.model }

type ollamaChatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

type ollamaStreamChunk struct {
	Model   string  `json:"model"`
	Message Message `json:"message"`
	Done    bool    `json:"done"`

	DoneReason      string `json:"done_reason"`
	PromptEvalCount int64  `json:"prompt_eval_count"`
	EvalCount       int64  `json:"eval_count"`
	Error           string `json:"error"`
}

func (p *ollamaProvider) GenerateStream(ctx context.Context, req *GenerateRequest, ch chan<- StreamResponse) error {
	defer close(ch)

	body, err := json.Marshal(ollamaChatRequest{
		Model:    chooseModel(req.Model, p.model),
		Messages: req.Messages,
		Stream:   true,
	})
	if err != nil {
		return fmt.Errorf("could not marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, bytes.TrimSpace(bodyBytes))
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var chunk ollamaStreamChunk
		if err := json.Unmarshal(line, &chunk); err != nil {
			return fmt.Errorf("failed to decode stream chunk: %w", err)
		}
		if chunk.Error != "" {
			return fmt.Errorf("ollama: %s", chunk.Error)
		}

		out := StreamResponse{Content: chunk.Message.Content, Done: chunk.Done}
		if chunk.Done {
			out.FinishReason = chunk.DoneReason
			out.Usage = &Usage{
				PromptTokens:     chunk.PromptEvalCount,
				CompletionTokens: chunk.EvalCount,
				TotalTokens:      chunk.PromptEvalCount + chunk.EvalCount,
			}
		}
		if err := send(ctx, ch, out); err != nil {
			return err
		}
		if chunk.Done {
			return nil
		}
	}
	return scanner.Err()
}
