package input

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mlowery/cotag/internal/author"
	"github.com/mlowery/cotag/internal/style"
)

// View renders the token strip, the free-text field, the suggestion
// dropdown, and a context-sensitive hint line.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(style.Bold.Render("Co-authors"))
	b.WriteString("\n\n")
	b.WriteString(m.tokensLine())
	b.WriteString("\n")

	if len(m.suggestions) > 0 {
		b.WriteString(m.dropdown())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.hintLine())
	b.WriteString("\n")
	return b.String()
}

// tokensLine renders the author tokens followed by the input field.
func (m Model) tokensLine() string {
	var parts []string
	for i, a := range m.resolver.Authors() {
		parts = append(parts, m.renderToken(a, m.resolver.Focus() == author.Focus(i)))
	}
	parts = append(parts, m.field.View())
	return lipgloss.JoinHorizontal(lipgloss.Center, strings.Join(parts, " "))
}

// renderToken picks the style and adornment for one token.
func (m Model) renderToken(a author.Author, focused bool) string {
	var text string
	var st lipgloss.Style

	switch t := a.(type) {
	case author.Known:
		text = "@" + t.Username
		st = style.TokenKnown
	case author.Unknown:
		switch t.State {
		case author.StateSearching:
			text = m.spin.View() + " @" + t.Username
			st = style.TokenSearching
		case author.StateError:
			text = style.ErrorPrefix + " @" + t.Username
			st = style.TokenError
		}
	}

	if focused {
		return style.TokenFocused.Render(text)
	}
	return st.Render(text)
}

// dropdown renders the suggestion overlay under the field.
func (m Model) dropdown() string {
	width := 0
	labels := make([]string, len(m.suggestions))
	for i, s := range m.suggestions {
		label := " @" + s.Login
		if s.Name != "" {
			label += "  " + s.Name
		}
		label += " "
		labels[i] = label
		if w := lipgloss.Width(label); w > width {
			width = w
		}
	}

	var rows []string
	for i, label := range labels {
		pad := width - lipgloss.Width(label)
		row := label + strings.Repeat(" ", pad)
		if i == m.sugCursor {
			rows = append(rows, style.SuggestionSelected.Render(row))
		} else {
			rows = append(rows, style.Suggestion.Render(row))
		}
	}
	return strings.Join(rows, "\n")
}

// hintLine shows what the current focus target responds to. An error
// token gets an explanation in place of the generic help.
func (m Model) hintLine() string {
	if f := m.resolver.Focus(); f != author.FocusField {
		if u, ok := m.resolver.Authors()[int(f)].(author.Unknown); ok && u.State == author.StateError {
			return style.Warning.Render("no matching user for @"+u.Username) +
				style.Dim.Render(" · backspace removes it")
		}
		return style.Dim.Render("←/→ move · backspace remove · enter confirm")
	}
	return style.Dim.Render("type to search · space adds · enter confirms · esc cancels")
}
