// Package chatview holds the client-side state of one conversation: the
// message list, the streaming status and the listeners that re-render it.
package chatview

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"relaychat/backend/internal/client"
	"relaychat/backend/internal/model"
)

var (
	// ErrEmptyInput is returned for blank input. No request is made.
	ErrEmptyInput = errors.New("message is empty")
	// ErrBusy is returned while a response is still loading.
	ErrBusy = errors.New("a response is still loading")
)

var errStale = errors.New("stream superseded")

type Status string

const (
	StatusIdle      Status = "idle"
	StatusSending   Status = "sending"
	StatusStreaming Status = "streaming"
	StatusError     Status = "error"
)

// Streamer is the transport a Session sends conversations through.
type Streamer interface {
	Stream(ctx context.Context, req *model.ChatRequest, onChunk func(model.StreamChunk) error) error
}

// Snapshot is an immutable copy of the session state.
type Snapshot struct {
	ConversationID string
	Messages       []model.Message
	Status         Status
	Err            error
}

// Loading reports whether a request is in flight.
func (s Snapshot) Loading() bool {
	return s.Status == StatusSending || s.Status == StatusStreaming
}

// Empty reports whether the conversation has no messages yet.
func (s Snapshot) Empty() bool {
	return len(s.Messages) == 0
}

type listener struct {
	id int
	fn func(Snapshot)
}

// Session is the state container for one conversation. All methods are safe
// for concurrent use.
//
// Listeners are called synchronously after every change, in registration
// order, and must not call back into the Session.
type Session struct {
	client Streamer

	// notifyMu is held across a change and its notification so listeners
	// observe changes in the order they happened.
	notifyMu sync.Mutex

	mu             sync.Mutex
	conversationID string
	messages       []model.Message
	status         Status
	err            error
	cancel         context.CancelFunc
	gen            uint64
	assistantIdx   int
	listeners      []listener
	nextListener   int
}

// NewSession creates an empty session. An empty conversationID gets a fresh one.
func NewSession(c Streamer, conversationID string) *Session {
	if conversationID == "" {
		conversationID = uuid.NewString()
	}
	return &Session{
		client:         c,
		conversationID: conversationID,
		status:         StatusIdle,
		assistantIdx:   -1,
	}
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers fn to run after every state change. The returned
// function removes it.
func (s *Session) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextListener
	s.nextListener++
	s.listeners = append(s.listeners, listener{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// Start appends text as a user message and begins streaming the reply in the
// background. The returned channel yields the outcome once the stream ends:
// nil on completion, stop or interruption, otherwise the failure.
func (s *Session) Start(ctx context.Context, text string) (<-chan error, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}

	var req *model.ChatRequest
	var gen uint64
	var streamCtx context.Context
	var cancel context.CancelFunc
	err := s.update(func() error {
		if s.loadingLocked() {
			return ErrBusy
		}
		s.gen++
		gen = s.gen
		streamCtx, cancel = context.WithCancel(ctx)
		s.cancel = cancel
		s.messages = append(s.messages, model.Message{
			ID:    uuid.NewString(),
			Role:  model.RoleUser,
			Parts: []model.Part{model.TextPart(text)},
		})
		s.assistantIdx = -1
		s.status = StatusSending
		s.err = nil
		req = &model.ChatRequest{
			Messages: cloneMessages(s.messages),
			Data:     &model.RequestData{ConversationID: s.conversationID},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	done := make(chan error, 1)
	go func() {
		defer cancel()
		done <- s.run(streamCtx, gen, req)
		close(done)
	}()
	return done, nil
}

// SendMessage is Start followed by waiting for the stream to end.
func (s *Session) SendMessage(ctx context.Context, text string) error {
	done, err := s.Start(ctx, text)
	if err != nil {
		return err
	}
	return <-done
}

// Stop cancels the in-flight stream. Content received so far is kept and
// anything arriving afterwards is discarded.
func (s *Session) Stop() {
	_ = s.update(func() error {
		if !s.loadingLocked() {
			return errStale
		}
		s.gen++
		if s.cancel != nil {
			s.cancel()
			s.cancel = nil
		}
		s.status = StatusIdle
		return nil
	})
}

// Reset clears the conversation and starts a new one.
func (s *Session) Reset() error {
	return s.update(func() error {
		if s.loadingLocked() {
			return ErrBusy
		}
		s.conversationID = uuid.NewString()
		s.messages = nil
		s.assistantIdx = -1
		s.status = StatusIdle
		s.err = nil
		return nil
	})
}

func (s *Session) run(ctx context.Context, gen uint64, req *model.ChatRequest) error {
	err := s.client.Stream(ctx, req, func(chunk model.StreamChunk) error {
		return s.update(func() error {
			if s.gen != gen {
				return errStale
			}
			if chunk.Type == model.ChunkContent && chunk.Delta != "" {
				s.appendDeltaLocked(chunk.ID, chunk.Delta)
				s.status = StatusStreaming
			}
			return nil
		})
	})

	var result error
	_ = s.update(func() error {
		if s.gen != gen {
			return errStale
		}
		s.cancel = nil
		switch {
		case err == nil, errors.Is(err, client.ErrInterrupted), errors.Is(err, context.Canceled):
			s.status = StatusIdle
		default:
			s.status = StatusError
			s.err = err
			result = err
		}
		return nil
	})
	return result
}

// appendDeltaLocked extends the trailing assistant message of the current
// turn, creating it on the first delta.
func (s *Session) appendDeltaLocked(id, delta string) {
	if s.assistantIdx < 0 {
		if id == "" {
			id = uuid.NewString()
		}
		s.messages = append(s.messages, model.Message{
			ID:    id,
			Role:  model.RoleAssistant,
			Parts: []model.Part{model.TextPart("")},
		})
		s.assistantIdx = len(s.messages) - 1
	}
	msg := &s.messages[s.assistantIdx]
	last := len(msg.Parts) - 1
	if last < 0 || !msg.Parts[last].IsText() {
		msg.Parts = append(msg.Parts, model.TextPart(""))
		last++
	}
	msg.Parts[last].Content += delta
}

// update applies fn under the state lock and, if it succeeds, notifies
// listeners with the resulting snapshot.
func (s *Session) update(fn func() error) error {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	if err := fn(); err != nil {
		s.mu.Unlock()
		return err
	}
	snap := s.snapshotLocked()
	listeners := make([]listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, l := range listeners {
		l.fn(snap)
	}
	return nil
}

func (s *Session) loadingLocked() bool {
	return s.status == StatusSending || s.status == StatusStreaming
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		ConversationID: s.conversationID,
		Messages:       cloneMessages(s.messages),
		Status:         s.status,
		Err:            s.err,
	}
}

func cloneMessages(in []model.Message) []model.Message {
	if in == nil {
		return nil
	}
	out := make([]model.Message, len(in))
	for i, m := range in {
		out[i] = m.Clone()
	}
	return out
}
