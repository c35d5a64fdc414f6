package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"relaychat/backend/internal/chatview"
	"relaychat/backend/internal/model"
	"relaychat/backend/internal/render"
)

var (
	titleStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	mutedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	busyStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	readyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	userLabelStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	assistantStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	copiedStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	suggestionStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
)

const helpText = "enter kirim · ctrl+j baris baru · esc berhenti · ctrl+y salin kode · ctrl+r salin jawaban · ctrl+n baru · ctrl+c keluar"

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n")
	if m.snap.Empty() {
		b.WriteString(m.suggestionsView())
	} else {
		b.WriteString(m.viewport.View())
	}
	b.WriteString("\n")
	b.WriteString(m.statusView())
	b.WriteString("\n")
	b.WriteString(m.textarea.View())
	return b.String()
}

func (m *Model) headerView() string {
	left := titleStyle.Render("RelayChat") + mutedStyle.Render(" · "+m.modelLabel)
	right := readyStyle.Render("Ready")
	if m.snap.Loading() {
		right = busyStyle.Render("Generating...")
	}
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m *Model) suggestionsView() string {
	lines := []string{
		titleStyle.Render("Halo! Ada yang bisa dibantu?"),
		"",
	}
	for i, s := range chatview.Suggestions {
		lines = append(lines, fmt.Sprintf("%s  %s", mutedStyle.Render(fmt.Sprintf("alt+%d", i+1)), s.Title))
		lines = append(lines, "        "+mutedStyle.Render(s.Desc))
	}
	return suggestionStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) statusView() string {
	switch {
	case m.snap.Err != nil:
		return errorStyle.Render("Error: " + m.snap.Err.Error())
	case m.picking:
		return busyStyle.Render(fmt.Sprintf("Salin blok kode #%s_ (1-%d, enter = terakhir, esc batal)", m.pick, len(m.codeBlocks)))
	case m.copied:
		return copiedStyle.Render("COPIED!")
	case m.notice != "":
		return busyStyle.Render(m.notice)
	default:
		return mutedStyle.Render(helpText)
	}
}

// renderConversation renders every message. It also returns the code blocks
// of all assistant replies, numbered across the conversation, and the text
// of the latest reply.
func (m *Model) renderConversation() (string, []render.CodeBlock, string) {
	var blocks []string
	var code []render.CodeBlock
	var reply string
	width := m.renderer.Width

	for i, msg := range m.snap.Messages {
		streaming := m.snap.Status == chatview.StatusStreaming && i == len(m.snap.Messages)-1

		switch msg.Role {
		case model.RoleUser:
			blocks = append(blocks, userLabelStyle.Render("Kamu")+"\n"+wordwrap.String(msg.Text(), width))
		case model.RoleAssistant:
			reply = msg.Text()
			out := m.renderer.RenderFrom(reply, len(code)+1)
			code = append(code, out.CodeBlocks...)
			body := out.Text
			if streaming && m.cursorOn {
				body += render.Cursor
			}
			blocks = append(blocks, assistantStyle.Render("Asisten")+"\n"+body)
		}
	}

	if m.snap.Status == chatview.StatusSending {
		cursor := ""
		if m.cursorOn {
			cursor = strings.TrimSpace(render.Cursor)
		}
		blocks = append(blocks, assistantStyle.Render("Asisten")+"\n"+cursor)
	}
	return strings.Join(blocks, "\n\n"), code, reply
}
