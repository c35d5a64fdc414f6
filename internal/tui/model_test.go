package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relaychat/backend/internal/chatview"
	"relaychat/backend/internal/client"
	"relaychat/backend/internal/model"
)

type streamFunc func(ctx context.Context, req *model.ChatRequest, onChunk func(model.StreamChunk) error) error

func (f streamFunc) Stream(ctx context.Context, req *model.ChatRequest, onChunk func(model.StreamChunk) error) error {
	return f(ctx, req, onChunk)
}

func replyWith(text string) streamFunc {
	return func(ctx context.Context, req *model.ChatRequest, onChunk func(model.StreamChunk) error) error {
		return onChunk(model.StreamChunk{Type: model.ChunkContent, ID: "relay-1", Delta: text})
	}
}

// blockingStream streams nothing until its context is cancelled.
func blockingStream() streamFunc {
	return func(ctx context.Context, req *model.ChatRequest, onChunk func(model.StreamChunk) error) error {
		<-ctx.Done()
		return ctx.Err()
	}
}

func newTestModel(t *testing.T, stream streamFunc) (*Model, *chatview.Session, *[]string) {
	t.Helper()
	s := chatview.NewSession(stream, "conv-1")
	m := New(context.Background(), s, nil)
	var copied []string
	m.copyFn = func(text string) error {
		copied = append(copied, text)
		return nil
	}
	m.resize(80, 30)
	return m, s, &copied
}

func TestHandleKeyMsg_EnterSendsAndClearsInput(t *testing.T) {
	// ARRANGE
	m, s, _ := newTestModel(t, replyWith("Hi there"))
	m.textarea.SetValue("Hello")

	// ACT
	_, cmd := m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	done := cmd()
	m.Update(snapshotMsg{})

	// ASSERT
	assert.Equal(t, streamDoneMsg{}, done)
	assert.Empty(t, m.textarea.Value())
	snap := s.Snapshot()
	require.Len(t, snap.Messages, 2)
	assert.Equal(t, "Hello", snap.Messages[0].Text())
	assert.Contains(t, m.View(), "Hi there")
	assert.Contains(t, m.View(), "Ready")
}

func TestHandleKeyMsg_BlankEnterIsIgnored(t *testing.T) {
	m, s, _ := newTestModel(t, replyWith("unused"))
	m.textarea.SetValue("   ")

	_, cmd := m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.True(t, s.Snapshot().Empty())
}

func TestHandleKeyMsg_EnterWhileLoadingIsIgnored(t *testing.T) {
	// ARRANGE
	m, s, _ := newTestModel(t, blockingStream())
	m.textarea.SetValue("first")
	_, first := m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, first)
	m.Update(snapshotMsg{})

	// ACT
	m.textarea.SetValue("second")
	_, second := m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyEnter})

	// ASSERT
	assert.Nil(t, second)
	assert.Equal(t, "second", m.textarea.Value())
	assert.Contains(t, m.View(), "Generating...")

	_, _ = m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, streamDoneMsg{}, first())
	m.Update(snapshotMsg{})
	assert.Len(t, s.Snapshot().Messages, 1)
	assert.Equal(t, chatview.StatusIdle, s.Snapshot().Status)
	assert.Contains(t, m.View(), "Ready")
}

func TestHandleKeyMsg_SuggestionFillsInput(t *testing.T) {
	m, s, _ := newTestModel(t, replyWith("unused"))

	_, cmd := m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}, Alt: true})

	assert.Nil(t, cmd)
	assert.Equal(t, "Jelaskan konsep: Apa itu Server-Sent Events (SSE)?", m.textarea.Value())
	assert.True(t, s.Snapshot().Empty())
}

const twoBlocks = "First:\n\n```sh\nls\n```\n\nThen:\n\n```go\nfmt.Println(1)\n```\n"

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestHandleKeyMsg_CopyLatestCodeBlock(t *testing.T) {
	// ARRANGE
	m, s, copied := newTestModel(t, replyWith(twoBlocks))
	require.NoError(t, s.SendMessage(context.Background(), "show code"))
	m.Update(snapshotMsg{})

	// ACT
	_, pick := m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyCtrlY})
	view := m.View()
	_, cmd := m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyEnter})

	// ASSERT
	assert.Nil(t, pick)
	assert.Contains(t, view, "Salin blok kode #")
	require.NotNil(t, cmd)
	assert.Equal(t, []string{"fmt.Println(1)"}, *copied)
	assert.False(t, m.picking)
	assert.Contains(t, m.View(), "COPIED!")

	m.Update(copiedResetMsg{seq: m.copySeq - 1})
	assert.True(t, m.copied)
	m.Update(copiedResetMsg{seq: m.copySeq})
	assert.False(t, m.copied)
	assert.NotContains(t, m.View(), "COPIED!")
}

func TestHandleKeyMsg_CopyCodeBlockByNumber(t *testing.T) {
	// ARRANGE
	m, s, copied := newTestModel(t, replyWith(twoBlocks))
	require.NoError(t, s.SendMessage(context.Background(), "show code"))
	m.Update(snapshotMsg{})
	content, _, _ := m.renderConversation()
	require.Contains(t, content, "#1 SH")
	require.Contains(t, content, "#2 GO")

	// ACT
	m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyCtrlY})
	m.handleKeyMsg(runes("1"))
	_, cmd := m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyEnter})

	// ASSERT
	require.NotNil(t, cmd)
	assert.Equal(t, []string{"ls"}, *copied)
}

func TestHandleKeyMsg_CodeBlocksNumberedAcrossReplies(t *testing.T) {
	// ARRANGE
	m, s, copied := newTestModel(t, replyWith(twoBlocks))
	require.NoError(t, s.SendMessage(context.Background(), "show code"))
	require.NoError(t, s.SendMessage(context.Background(), "again"))
	m.Update(snapshotMsg{})

	// ACT
	m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyCtrlY})
	m.handleKeyMsg(runes("3"))
	_, cmd := m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyEnter})

	// ASSERT
	content, _, _ := m.renderConversation()
	require.Len(t, m.codeBlocks, 4)
	assert.Contains(t, content, "#4 GO")
	require.NotNil(t, cmd)
	assert.Equal(t, []string{"ls"}, *copied)
}

func TestHandleKeyMsg_PickOutOfRange(t *testing.T) {
	m, s, copied := newTestModel(t, replyWith(twoBlocks))
	require.NoError(t, s.SendMessage(context.Background(), "show code"))
	m.Update(snapshotMsg{})

	m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyCtrlY})
	m.handleKeyMsg(runes("9"))
	_, cmd := m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Empty(t, *copied)
	assert.Contains(t, m.View(), "Blok kode #9 tidak ada")
}

func TestHandleKeyMsg_PickCancelled(t *testing.T) {
	m, s, copied := newTestModel(t, replyWith(twoBlocks))
	require.NoError(t, s.SendMessage(context.Background(), "show code"))
	m.Update(snapshotMsg{})

	m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyCtrlY})
	m.handleKeyMsg(runes("1"))
	m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyEsc})
	_, cmd := m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, m.picking)
	assert.Nil(t, cmd)
	assert.Empty(t, *copied)
}

func TestHandleKeyMsg_CopyWithoutCode(t *testing.T) {
	m, s, copied := newTestModel(t, replyWith("no code here"))
	require.NoError(t, s.SendMessage(context.Background(), "hi"))
	m.Update(snapshotMsg{})

	_, cmd := m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyCtrlY})

	assert.Nil(t, cmd)
	assert.False(t, m.picking)
	assert.Empty(t, *copied)
	assert.False(t, m.copied)
	assert.Contains(t, m.View(), "Tidak ada blok kode untuk disalin")
}

func TestHandleKeyMsg_CopyReply(t *testing.T) {
	// ARRANGE
	m, s, copied := newTestModel(t, replyWith(twoBlocks))
	require.NoError(t, s.SendMessage(context.Background(), "show code"))
	m.Update(snapshotMsg{})

	// ACT
	_, cmd := m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyCtrlR})

	// ASSERT
	require.NotNil(t, cmd)
	assert.Equal(t, []string{twoBlocks}, *copied)
	assert.Contains(t, m.View(), "COPIED!")
}

func TestHandleKeyMsg_CopyReplyWhileLoading(t *testing.T) {
	// ARRANGE
	m, _, copied := newTestModel(t, blockingStream())
	m.textarea.SetValue("hi")
	_, done := m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, done)
	m.Update(snapshotMsg{})

	// ACT
	_, cmd := m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyCtrlR})

	// ASSERT
	assert.Nil(t, cmd)
	assert.Empty(t, *copied)
	assert.Contains(t, m.View(), "Tunggu sampai jawaban selesai")

	m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyEsc})
	done()
}

func TestHandleKeyMsg_CopyReplyBeforeAnyReply(t *testing.T) {
	m, _, copied := newTestModel(t, replyWith("unused"))

	_, cmd := m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyCtrlR})

	assert.Nil(t, cmd)
	assert.Empty(t, *copied)
	assert.Equal(t, "Belum ada jawaban untuk disalin", m.notice)
}

func TestHandleKeyMsg_NewConversation(t *testing.T) {
	m, s, _ := newTestModel(t, replyWith("reply"))
	require.NoError(t, s.SendMessage(context.Background(), "hi"))
	m.Update(snapshotMsg{})

	_, _ = m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyCtrlN})
	m.Update(snapshotMsg{})

	assert.True(t, s.Snapshot().Empty())
	assert.NotEqual(t, "conv-1", s.Snapshot().ConversationID)
	assert.Contains(t, m.View(), "Buat kode React")
}

func TestUpdate_ShowsErrors(t *testing.T) {
	m, s, _ := newTestModel(t, func(ctx context.Context, req *model.ChatRequest, onChunk func(model.StreamChunk) error) error {
		return &client.APIError{Status: 500, Message: "No auth credentials found"}
	})
	require.Error(t, s.SendMessage(context.Background(), "hi"))

	m.Update(snapshotMsg{})

	view := m.View()
	assert.Contains(t, view, "Error:")
	assert.Contains(t, view, "No auth credentials found")
}

func TestUpdate_ModelInfo(t *testing.T) {
	m, _, _ := newTestModel(t, replyWith("unused"))

	m.Update(modelInfoMsg{info: &model.ModelInfo{Provider: "openrouter", Model: "google/gemini-2.0-flash-001"}})

	assert.Contains(t, m.View(), "google/gemini-2.0-flash-001")
}

func TestUpdate_SubscriptionSignalsChanges(t *testing.T) {
	m, s, _ := newTestModel(t, replyWith("reply"))

	require.NoError(t, s.SendMessage(context.Background(), "hi"))

	msg := m.waitForUpdate()()
	assert.Equal(t, snapshotMsg{}, msg)
}

func TestHandleKeyMsg_QuitReleasesUpdateWait(t *testing.T) {
	// ARRANGE
	m, _, _ := newTestModel(t, replyWith("unused"))
	wait := m.waitForUpdate()

	// ACT
	_, cmd := m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyCtrlC})
	select {
	case <-m.updates:
	default:
	}

	// ASSERT
	require.NotNil(t, cmd)
	got := make(chan tea.Msg, 1)
	go func() { got <- wait() }()
	select {
	case msg := <-got:
		assert.Nil(t, msg)
	case <-time.After(time.Second):
		t.Fatal("update wait still blocked after quit")
	}
	assert.NotPanics(t, func() { m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyCtrlC}) })
}
