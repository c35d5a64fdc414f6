package render_test

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relaychat/backend/internal/render"
)

func TestRenderer_CodeBlocks(t *testing.T) {
	// ARRANGE
	md := "Here you go:\n\n```go\nfunc main() {}\n```\n\nand\n\n```\nplain text\n```\n"

	// ACT
	out := render.New(80).Render(md)

	// ASSERT
	require.Len(t, out.CodeBlocks, 2)
	assert.Equal(t, render.CodeBlock{Lang: "go", Code: "func main() {}"}, out.CodeBlocks[0])
	assert.Equal(t, render.CodeBlock{Lang: "", Code: "plain text"}, out.CodeBlocks[1])
	assert.Contains(t, out.Text, "#1 GO")
	assert.Contains(t, out.Text, "#2 TEXT")
	assert.Contains(t, out.Text, "func")
	assert.Contains(t, out.Text, "plain text")

	last, ok := out.LastCode()
	assert.True(t, ok)
	assert.Equal(t, "plain text", last.Code)
}

func TestRenderer_RenderFromNumbersBlocks(t *testing.T) {
	out := render.New(80).RenderFrom("```sh\nls\n```\n\n```go\nx := 1\n```\n", 3)

	require.Len(t, out.CodeBlocks, 2)
	assert.Contains(t, out.Text, "#3 SH")
	assert.Contains(t, out.Text, "#4 GO")
	assert.NotContains(t, out.Text, "#1 ")
}

func TestRenderer_UnclosedFence(t *testing.T) {
	out := render.New(80).Render("```python\nprint('hi')")

	require.Len(t, out.CodeBlocks, 1)
	assert.Equal(t, "python", out.CodeBlocks[0].Lang)
	assert.Equal(t, "print('hi')", out.CodeBlocks[0].Code)
}

func TestRenderer_Blocks(t *testing.T) {
	md := strings.Join([]string{
		"# Title",
		"",
		"Some **bold** and *soft* text with `code` and [a link](https://example.com).",
		"",
		"- one",
		"- two",
		"  1. nested",
		"",
		"> quoted",
		"",
		"---",
		"",
		"| Name | Age |",
		"| ---- | --- |",
		"| Alice | 30 |",
	}, "\n")

	out := render.New(80).Render(md)

	assert.Contains(t, out.Text, "# Title")
	assert.Contains(t, out.Text, "bold")
	assert.Contains(t, out.Text, "code")
	assert.Contains(t, out.Text, "(https://example.com)")
	assert.Contains(t, out.Text, "• one")
	assert.Contains(t, out.Text, "• two")
	assert.Contains(t, out.Text, "  1. nested")
	assert.Contains(t, out.Text, "│ ")
	assert.Contains(t, out.Text, "quoted")
	assert.Contains(t, out.Text, "─")
	assert.Contains(t, out.Text, "Alice")
	assert.Contains(t, out.Text, "Age")
	assert.Empty(t, out.CodeBlocks)
}

func TestRenderer_Wraps(t *testing.T) {
	md := strings.Repeat("word ", 40)

	out := render.New(20).Render(md)

	lines := strings.Split(out.Text, "\n")
	assert.Greater(t, len(lines), 1)
	for _, line := range lines {
		assert.LessOrEqual(t, lipgloss.Width(line), 20)
	}
}

func TestHighlight_UnknownLanguage(t *testing.T) {
	assert.NotPanics(t, func() {
		out := render.Highlight("just words", "no-such-language")
		assert.Contains(t, out, "just")
	})
}
