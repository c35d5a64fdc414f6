package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/oklog/ulid/v2"

	app_errors "relaychat/backend/internal/errors"
	"relaychat/backend/internal/llm"
	"relaychat/backend/internal/metrics"
	"relaychat/backend/internal/model"
	"relaychat/backend/internal/repository"
)

const (
	defaultStreamBuffer = 16
	saveRelayTimeout    = 5 * time.Second
)

type ChatService struct {
	repo         repository.Repository
	llm          llm.LLMProvider
	systemPrompt string
	bufferSize   int
}

func NewChatService(repo repository.Repository, provider llm.LLMProvider, systemPrompt string, bufferSize int) *ChatService {
	if bufferSize <= 0 {
		bufferSize = defaultStreamBuffer
	}
	return &ChatService{
		repo:         repo,
		llm:          provider,
		systemPrompt: systemPrompt,
		bufferSize:   bufferSize,
	}
}

// Relay forwards a conversation to the provider and writes the response to
// out as a sequence of chunks. out is always closed before Relay returns.
//
// A rejected or failed relay produces exactly one error chunk. A relay that
// fails after content was sent ends with an error chunk instead of a done
// chunk. When ctx is cancelled nothing more is sent.
func (s *ChatService) Relay(ctx context.Context, req *model.ChatRequest, out chan<- model.StreamChunk) {
	defer close(out)

	start := time.Now()
	rec := &model.RelayRecord{
		ID:             ulid.Make().String(),
		RequestID:      middleware.GetReqID(ctx),
		ConversationID: req.ConversationID(),
		Provider:       s.llm.Name(),
		Model:          s.llm.Model(),
		MessageCount:   len(req.Messages),
		StartedAt:      start.UTC(),
	}
	defer s.finishRelay(ctx, rec, start)

	messages, err := s.buildMessages(req)
	if err != nil {
		rec.Status = model.RelayRejected
		rec.Error = err.Error()
		slog.Warn("Rejected chat request", "relay_id", rec.ID, "error", err)
		s.emit(ctx, out, errorChunk(rec, err))
		return
	}

	last := req.Messages[len(req.Messages)-1]
	slog.Info("Relaying chat request",
		"relay_id", rec.ID,
		"conversation_id", rec.ConversationID,
		"messages", len(req.Messages),
		"last_message_parts", len(last.Parts),
	)

	relayCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	providerCh := make(chan llm.StreamResponse, s.bufferSize)
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.llm.GenerateStream(relayCtx, &llm.GenerateRequest{
			Model:          s.llm.Model(),
			Messages:       messages,
			ConversationID: rec.ConversationID,
		}, providerCh)
	}()

	metrics.RelaysInFlight.Inc()
	defer metrics.RelaysInFlight.Dec()

	var content strings.Builder
	var finishReason string
	var usage *llm.Usage
	var streamErr error
	for resp := range providerCh {
		if resp.Error != "" {
			streamErr = errors.New(resp.Error)
			cancel()
			break
		}
		if resp.Content != "" {
			content.WriteString(resp.Content)
			rec.ChunkCount++
			rec.ByteCount += len(resp.Content)
			chunk := model.StreamChunk{
				Type:      model.ChunkContent,
				ID:        rec.ID,
				Model:     rec.Model,
				Timestamp: time.Now().UnixMilli(),
				Role:      model.RoleAssistant,
				Delta:     resp.Content,
				Content:   content.String(),
			}
			if !s.emit(ctx, out, chunk) {
				cancel()
				break
			}
			metrics.RelayChunks.WithLabelValues(rec.Provider).Inc()
		}
		if resp.Done {
			finishReason = resp.FinishReason
			usage = resp.Usage
		}
	}
	genErr := <-errCh

	if ctx.Err() != nil {
		rec.Status = model.RelayCancelled
		slog.Info("Client disconnected, relay cancelled", "relay_id", rec.ID, "chunks", rec.ChunkCount)
		return
	}

	if streamErr == nil {
		streamErr = genErr
	}
	if streamErr != nil {
		rec.Status = model.RelayFailed
		rec.Error = streamErr.Error()
		slog.Error("Provider stream failed", "relay_id", rec.ID, "chunks", rec.ChunkCount, "error", streamErr)
		s.emit(ctx, out, errorChunk(rec, fmt.Errorf("%w: %s", app_errors.ErrProvider, streamErr.Error())))
		return
	}

	rec.Status = model.RelayCompleted
	s.emit(ctx, out, model.StreamChunk{
		Type:         model.ChunkDone,
		ID:           rec.ID,
		Model:        rec.Model,
		Timestamp:    time.Now().UnixMilli(),
		Role:         model.RoleAssistant,
		Content:      content.String(),
		FinishReason: finishReason,
		Usage:        toModelUsage(usage),
	})
}

// buildMessages checks the conversation and flattens it to the text-only
// form providers accept. Non-text parts are dropped without inspection.
func (s *ChatService) buildMessages(req *model.ChatRequest) ([]llm.Message, error) {
	if req == nil || len(req.Messages) == 0 {
		return nil, fmt.Errorf("%w: messages must not be empty", app_errors.ErrValidation)
	}
	last := req.Messages[len(req.Messages)-1]
	if len(last.Parts) == 0 {
		return nil, fmt.Errorf("%w: last message has no parts", app_errors.ErrValidation)
	}

	out := make([]llm.Message, 0, len(req.Messages)+1)
	if s.systemPrompt != "" {
		out = append(out, llm.Message{Role: string(model.RoleSystem), Content: s.systemPrompt})
	}
	for _, m := range req.Messages {
		text := m.Text()
		if text == "" {
			continue
		}
		out = append(out, llm.Message{Role: string(m.Role), Content: text})
	}
	if len(out) == 0 || out[len(out)-1].Role == string(model.RoleSystem) {
		return nil, fmt.Errorf("%w: conversation has no text content", app_errors.ErrValidation)
	}
	return out, nil
}

// emit sends one chunk unless ctx is cancelled first.
func (s *ChatService) emit(ctx context.Context, out chan<- model.StreamChunk, chunk model.StreamChunk) bool {
	select {
	case out <- chunk:
		return true
	case <-ctx.Done():
		return false
	}
}

func (s *ChatService) finishRelay(ctx context.Context, rec *model.RelayRecord, start time.Time) {
	elapsed := time.Since(start)
	rec.DurationMs = elapsed.Milliseconds()

	metrics.RelaysTotal.WithLabelValues(rec.Provider, string(rec.Status)).Inc()
	if rec.Status != model.RelayRejected {
		metrics.RelayDuration.WithLabelValues(rec.Provider).Observe(elapsed.Seconds())
	}

	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), saveRelayTimeout)
	defer cancel()
	if err := s.repo.SaveRelay(saveCtx, rec); err != nil {
		slog.Error("Failed to save relay record", "relay_id", rec.ID, "error", err)
		return
	}
	slog.Debug("Relay finished", "relay_id", rec.ID, "status", rec.Status, "duration_ms", rec.DurationMs)
}

func errorChunk(rec *model.RelayRecord, err error) model.StreamChunk {
	msg := err.Error()
	// The wire message is the cause, without the sentinel prefix.
	for _, sentinel := range []error{app_errors.ErrValidation, app_errors.ErrProvider} {
		if errors.Is(err, sentinel) {
			msg = strings.TrimPrefix(msg, sentinel.Error()+": ")
		}
	}
	return model.StreamChunk{
		Type:      model.ChunkError,
		ID:        rec.ID,
		Model:     rec.Model,
		Timestamp: time.Now().UnixMilli(),
		Error:     &model.StreamChunkError{Message: msg, Code: model.ErrorCode(err)},
	}
}

func toModelUsage(u *llm.Usage) *model.Usage {
	if u == nil {
		return nil
	}
	return &model.Usage{
		PromptTokens:     u.PromptTokens,
		CompletionTokens: u.CompletionTokens,
		TotalTokens:      u.TotalTokens,
	}
}
