package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

var codeStyle = func() *chroma.Style {
	// monokai reads well on dark terminals
	if s := styles.Get("monokai"); s != nil {
		return s
	}
	return styles.Fallback
}()

// Highlight colors code for a 256-color terminal. Unknown languages are
// guessed from the content and fall back to plain text.
func Highlight(code, lang string) string {
	var lexer chroma.Lexer
	if lang != "" {
		lexer = lexers.Get(lang)
	}
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		return code
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf strings.Builder
	formatter := &fgFormatter{style: codeStyle}
	if err := formatter.Format(&buf, iterator); err != nil {
		return code
	}
	return buf.String()
}

// fgFormatter applies foreground colors only, so code blends into whatever
// background the terminal has. Each line is reset on its own.
type fgFormatter struct {
	style *chroma.Style
}

func (f *fgFormatter) Format(w io.Writer, iterator chroma.Iterator) error {
	for token := iterator(); token != chroma.EOF; token = iterator() {
		entry := f.style.Get(token.Type)

		var codes []string
		if entry.Colour.IsSet() {
			codes = append(codes, fmt.Sprintf("38;5;%d", ansi256(entry.Colour)))
		}
		if entry.Bold == chroma.Yes {
			codes = append(codes, "1")
		}
		if entry.Italic == chroma.Yes {
			codes = append(codes, "3")
		}

		for i, part := range strings.Split(token.Value, "\n") {
			if i > 0 {
				if _, err := io.WriteString(w, "\n"); err != nil {
					return err
				}
			}
			if part == "" {
				continue
			}
			var err error
			if len(codes) > 0 {
				_, err = fmt.Fprintf(w, "\x1b[%sm%s\x1b[0m", strings.Join(codes, ";"), part)
			} else {
				_, err = io.WriteString(w, part)
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// ansi256 maps a true color onto the 6x6x6 cube of the 256-color palette.
func ansi256(c chroma.Colour) int {
	scale := func(v uint8) int {
		return (int(v)*5 + 127) / 255
	}
	return 16 + 36*scale(c.Red()) + 6*scale(c.Green()) + scale(c.Blue())
}
