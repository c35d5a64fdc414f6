// Package tui is the terminal chat view: a bubbletea program that renders a
// chatview.Session and feeds it user input.
package tui

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"relaychat/backend/internal/chatview"
	"relaychat/backend/internal/model"
	"relaychat/backend/internal/render"
)

const (
	copiedFor     = 2 * time.Second
	blinkInterval = 500 * time.Millisecond

	// followRows is the scroll threshold in terminal rows, taking a line as
	// roughly 20 pixels.
	followRows = chatview.DefaultScrollThreshold / 20

	inputHeight = 3
)

// InfoFunc fetches the model the relay is bound to.
type InfoFunc func(ctx context.Context) (*model.ModelInfo, error)

type (
	snapshotMsg   struct{}
	streamDoneMsg struct{ err error }
	modelInfoMsg  struct {
		info *model.ModelInfo
		err  error
	}
	copiedResetMsg struct{ seq int }
	blinkMsg       struct{}
)

type Model struct {
	ctx      context.Context
	session  *chatview.Session
	renderer *render.Renderer
	info     InfoFunc
	copyFn   func(string) error

	textarea textarea.Model
	viewport viewport.Model

	updates     chan struct{}
	quit        chan struct{}
	quitOnce    sync.Once
	unsubscribe func()

	snap       chatview.Snapshot
	modelLabel string
	codeBlocks []render.CodeBlock
	lastReply  string
	notice     string

	// picking is set after ctrl+y while the block number is typed.
	picking bool
	pick    string

	copied   bool
	copySeq  int
	cursorOn bool
	blinking bool

	width  int
	height int
}

// New creates the view for session. ctx bounds every request it starts.
func New(ctx context.Context, session *chatview.Session, info InfoFunc) *Model {
	ta := textarea.New()
	ta.Placeholder = "Tanya apa saja..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(inputHeight)
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("ctrl+j"))
	ta.Focus()

	m := &Model{
		ctx:        ctx,
		session:    session,
		renderer:   render.New(78),
		info:       info,
		copyFn:     clipboard.WriteAll,
		textarea:   ta,
		viewport:   viewport.New(80, 20),
		updates:    make(chan struct{}, 1),
		quit:       make(chan struct{}),
		snap:       session.Snapshot(),
		modelLabel: "connecting...",
		cursorOn:   true,
	}

	// Only the latest state matters, so a pending signal is enough.
	m.unsubscribe = session.Subscribe(func(chatview.Snapshot) {
		select {
		case m.updates <- struct{}{}:
		default:
		}
	})
	return m
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink, m.waitForUpdate()}
	if m.info != nil {
		cmds = append(cmds, m.fetchInfo())
	}
	return tea.Batch(cmds...)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case snapshotMsg:
		return m, tea.Batch(m.applySnapshot(), m.waitForUpdate())

	case streamDoneMsg:
		if msg.err != nil {
			slog.Error("Chat stream failed", "error", msg.err)
		}
		return m, nil

	case modelInfoMsg:
		if msg.err != nil {
			slog.Warn("Could not fetch model info", "error", msg.err)
			m.modelLabel = "unavailable"
			return m, nil
		}
		m.modelLabel = msg.info.Model
		return m, nil

	case copiedResetMsg:
		if msg.seq == m.copySeq {
			m.copied = false
		}
		return m, nil

	case blinkMsg:
		if !m.snap.Loading() {
			m.blinking = false
			m.cursorOn = true
			return m, nil
		}
		m.cursorOn = !m.cursorOn
		m.refreshContent()
		return m, m.blink()
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.picking && msg.String() != "ctrl+c" {
		return m, m.handlePickKey(msg)
	}

	switch msg.String() {
	case "ctrl+c":
		m.session.Stop()
		m.unsubscribe()
		m.quitOnce.Do(func() { close(m.quit) })
		return m, tea.Quit

	case "esc":
		m.session.Stop()
		return m, nil

	case "enter":
		return m, m.submit()

	case "ctrl+n":
		if err := m.session.Reset(); err != nil {
			m.notice = "Tunggu sampai jawaban selesai"
			return m, nil
		}
		m.notice = ""
		m.textarea.Reset()
		return m, nil

	case "ctrl+y":
		if len(m.codeBlocks) == 0 {
			m.notice = "Tidak ada blok kode untuk disalin"
			return m, nil
		}
		m.notice = ""
		m.picking = true
		m.pick = ""
		return m, nil

	case "ctrl+r":
		return m, m.copyReply()

	case "alt+1", "alt+2", "alt+3", "alt+4":
		if !m.snap.Empty() {
			return m, nil
		}
		i := int(msg.String()[len("alt+")] - '1')
		if prompt, ok := chatview.SuggestionPrompt(i); ok {
			m.textarea.SetValue(prompt)
		}
		return m, nil

	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

// submit sends the input unless it is blank or a response is still loading.
func (m *Model) submit() tea.Cmd {
	text := m.textarea.Value()
	if strings.TrimSpace(text) == "" || m.snap.Loading() {
		return nil
	}

	done, err := m.session.Start(m.ctx, text)
	if err != nil {
		if !errors.Is(err, chatview.ErrBusy) {
			m.notice = err.Error()
		}
		return nil
	}
	m.notice = ""
	m.textarea.Reset()
	return func() tea.Msg {
		return streamDoneMsg{err: <-done}
	}
}

// handlePickKey reads the number of the code block to copy. An empty
// number means the latest block.
func (m *Model) handlePickKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		m.picking = false
		n := len(m.codeBlocks)
		if m.pick != "" {
			n, _ = strconv.Atoi(m.pick)
		}
		if n < 1 || n > len(m.codeBlocks) {
			m.notice = "Blok kode #" + m.pick + " tidak ada"
			return nil
		}
		return m.copyText(m.codeBlocks[n-1].Code)
	case "backspace":
		if m.pick != "" {
			m.pick = m.pick[:len(m.pick)-1]
		}
		return nil
	case "0", "1", "2", "3", "4", "5", "6", "7", "8", "9":
		if len(m.pick) < 4 {
			m.pick += msg.String()
		}
		return nil
	default:
		m.picking = false
		m.pick = ""
		return nil
	}
}

// copyReply copies the text of the latest finished assistant reply.
func (m *Model) copyReply() tea.Cmd {
	if m.snap.Loading() {
		m.notice = "Tunggu sampai jawaban selesai"
		return nil
	}
	if m.lastReply == "" {
		m.notice = "Belum ada jawaban untuk disalin"
		return nil
	}
	return m.copyText(m.lastReply)
}

func (m *Model) copyText(text string) tea.Cmd {
	if err := m.copyFn(text); err != nil {
		slog.Error("Could not copy to clipboard", "error", err)
		m.notice = "Gagal menyalin: " + err.Error()
		return nil
	}
	m.notice = ""
	m.copied = true
	m.copySeq++
	seq := m.copySeq
	return tea.Tick(copiedFor, func(time.Time) tea.Msg {
		return copiedResetMsg{seq: seq}
	})
}

// applySnapshot re-renders the conversation and scrolls according to where
// the reader was before the update.
func (m *Model) applySnapshot() tea.Cmd {
	before := chatview.Viewport{
		ScrollHeight: m.viewport.TotalLineCount(),
		ScrollTop:    m.viewport.YOffset,
		ClientHeight: m.viewport.Height,
	}

	m.snap = m.session.Snapshot()
	m.refreshContent()

	switch chatview.FollowOutput(m.snap.Loading(), before, followRows) {
	case chatview.ScrollJump, chatview.ScrollSmooth:
		m.viewport.GotoBottom()
	}

	if m.snap.Loading() && !m.blinking {
		m.blinking = true
		return m.blink()
	}
	return nil
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.renderer.Width = max(width-2, 20)
	m.textarea.SetWidth(width)
	m.viewport.Width = width
	m.viewport.Height = max(height-inputHeight-4, 1)
	m.refreshContent()
}

func (m *Model) refreshContent() {
	content, blocks, reply := m.renderConversation()
	m.codeBlocks = blocks
	m.lastReply = reply
	m.viewport.SetContent(content)
}

// waitForUpdate blocks until the session changes. It returns nil once the
// program quits.
func (m *Model) waitForUpdate() tea.Cmd {
	updates, quit := m.updates, m.quit
	return func() tea.Msg {
		select {
		case <-updates:
			return snapshotMsg{}
		case <-quit:
			return nil
		}
	}
}

func (m *Model) fetchInfo() tea.Cmd {
	info := m.info
	ctx := m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		res, err := info(ctx)
		return modelInfoMsg{info: res, err: err}
	}
}

func (m *Model) blink() tea.Cmd {
	return tea.Tick(blinkInterval, func(time.Time) tea.Msg {
		return blinkMsg{}
	})
}
