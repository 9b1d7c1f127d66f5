// Package input implements the interactive co-author token widget: a free
// text field plus a strip of author tokens, with directory-backed
// autocomplete and asynchronous login resolution. Built on bubbletea; the
// list semantics live in the author package, this package only translates
// key events into resolver operations and renders the result.
package input

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/mlowery/cotag/internal/author"
	"github.com/mlowery/cotag/internal/lookup"
	"github.com/mlowery/cotag/internal/style"
)

// lookupTimeout bounds a single provider call issued by the widget.
const lookupTimeout = 10 * time.Second

// defaultMargin is the width kept free when clamping the field to the
// terminal.
const defaultMargin = 4

// suggestionsMsg delivers search results for the query the user had typed
// when the search was issued. seq guards against stale responses.
type suggestionsMsg struct {
	seq   int
	items []lookup.Identity
	err   error
}

// resolutionMsg delivers the terminal outcome of one login lookup.
type resolutionMsg struct {
	res author.Resolution
}

// Model is the bubbletea model for the co-author input session.
type Model struct {
	resolver *author.Resolver
	provider lookup.Provider
	keys     KeyMap

	field textinput.Model
	spin  spinner.Model

	suggestions []lookup.Identity
	sugCursor   int
	searchSeq   int

	width          int
	margin         int
	maxSuggestions int

	done    bool
	aborted bool
}

// Option configures the widget.
type Option func(*Model)

// WithPlaceholder sets the free-text field's placeholder.
func WithPlaceholder(text string) Option {
	return func(m *Model) {
		m.field.Placeholder = text
	}
}

// WithMargin sets the width reserved when clamping the field.
func WithMargin(margin int) Option {
	return func(m *Model) {
		m.margin = margin
	}
}

// WithMaxSuggestions caps the dropdown length.
func WithMaxSuggestions(n int) Option {
	return func(m *Model) {
		if n > 0 {
			m.maxSuggestions = n
		}
	}
}

// WithKeyMap replaces the default key bindings.
func WithKeyMap(keys KeyMap) Option {
	return func(m *Model) {
		m.keys = keys
	}
}

// New creates a widget resolving against the given provider.
func New(provider lookup.Provider, opts ...Option) Model {
	field := textinput.New()
	field.Placeholder = "@username"
	field.Prompt = ""
	field.CharLimit = 64
	field.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.MiniDot
	spin.Style = style.Dim

	m := Model{
		resolver:       author.NewResolver(),
		provider:       provider,
		keys:           DefaultKeyMap,
		field:          field,
		spin:           spin,
		width:          terminalWidth(),
		margin:         defaultMargin,
		maxSuggestions: 8,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.resizeField()
	return m
}

// terminalWidth reads the current terminal width, defaulting to 80 when
// stdout is not a terminal.
func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

// Authors returns the final author list.
func (m Model) Authors() author.List {
	return m.resolver.Authors()
}

// Aborted reports whether the user cancelled the session.
func (m Model) Aborted() bool {
	return m.aborted
}

// Init starts the blinking cursor.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update routes messages. Keyboard input goes to the focused token when
// one has focus, otherwise to the free-text field.
func (m Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := message.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.aborted = true
			return m, tea.Quit
		}
		if m.resolver.Focus() != author.FocusField {
			return m.handleTokenKeys(msg)
		}
		return m.handleFieldKeys(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.resizeField()
		return m, nil

	case suggestionsMsg:
		if msg.seq != m.searchSeq || msg.err != nil {
			return m, nil
		}
		m.setSuggestions(msg.items)
		return m, nil

	case resolutionMsg:
		m.resolver.ApplyResolution(msg.res)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		if !m.anySearching() {
			return m, nil
		}
		return m, cmd
	}

	return m.updateField(message)
}

// handleTokenKeys processes keys while a token holds focus. Any key that
// is not token navigation or removal returns focus to the field.
func (m Model) handleTokenKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Left):
		m.resolver.FocusLeft()
	case key.Matches(msg, m.keys.Right):
		m.resolver.FocusRight()
	case key.Matches(msg, m.keys.Remove):
		m.resolver.RemoveFocused()
	case key.Matches(msg, m.keys.Accept):
		m.done = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Dismiss):
		m.resolver.FocusFieldNow()
	default:
		m.resolver.FocusFieldNow()
		m.syncFieldFocus()
		return m.updateField(msg)
	}
	m.syncFieldFocus()
	return m, nil
}

// syncFieldFocus keeps the text input's focus state in line with the
// resolver's focus.
func (m *Model) syncFieldFocus() {
	if m.resolver.Focus() == author.FocusField {
		m.field.Focus()
	} else {
		m.field.Blur()
	}
}

// handleFieldKeys processes keys while the free-text field has focus.
func (m Model) handleFieldKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Dismiss):
		if len(m.suggestions) > 0 {
			m.clearSuggestions()
			return m, nil
		}
		m.aborted = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Accept):
		if len(m.suggestions) > 0 {
			return m.commitSuggestion()
		}
		if strings.TrimSpace(m.field.Value()) != "" {
			return m.commitRaw()
		}
		m.done = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Commit):
		// Trailing-space heuristic: space commits pending text and
		// is swallowed otherwise, since logins contain no spaces.
		if strings.TrimSpace(m.field.Value()) != "" {
			return m.commitRaw()
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.moveSuggestionCursor(-1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.moveSuggestionCursor(1)
		return m, nil

	case key.Matches(msg, m.keys.Left):
		if m.field.Position() == 0 && m.resolver.Len() > 0 {
			m.resolver.FocusLeft()
			m.syncFieldFocus()
			return m, nil
		}

	case key.Matches(msg, m.keys.Remove):
		if m.field.Position() == 0 {
			m.resolver.RemoveLast()
			return m, nil
		}
	}

	return m.updateField(msg)
}

// updateField forwards a message to the text input and reissues the
// autocomplete search when the value changed.
func (m Model) updateField(message tea.Msg) (tea.Model, tea.Cmd) {
	before := m.field.Value()
	var cmd tea.Cmd
	m.field, cmd = m.field.Update(message)

	if m.field.Value() == before {
		return m, cmd
	}

	m.resizeField()
	query := strings.TrimSpace(m.field.Value())
	if query == "" {
		m.clearSuggestions()
		return m, cmd
	}
	m.searchSeq++
	return m, tea.Batch(cmd, m.searchCmd(m.searchSeq, query))
}

// commitSuggestion finalizes the highlighted dropdown candidate. Search
// candidates may carry only a login (the GitHub search endpoint returns no
// profile fields), so a bare candidate goes through the pending-token path
// and gets its name and email from ExactMatch instead of committing a
// stealth placeholder over a real public email.
func (m Model) commitSuggestion() (tea.Model, tea.Cmd) {
	id := m.suggestions[m.sugCursor]
	m.resetField()

	if id.Name == "" && id.Email == "" {
		login, needLookup := m.resolver.CommitText(id.Login)
		if !needLookup {
			return m, nil
		}
		return m, tea.Batch(m.resolveCmd(login), m.spin.Tick)
	}

	m.resolver.CommitIdentity(id)
	return m, nil
}

// commitRaw finalizes the pending free text and starts resolution unless
// an identity in the list already covers the login.
func (m Model) commitRaw() (tea.Model, tea.Cmd) {
	login, needLookup := m.resolver.CommitText(m.field.Value())
	m.resetField()
	if !needLookup {
		return m, nil
	}
	return m, tea.Batch(m.resolveCmd(login), m.spin.Tick)
}

// resetField clears the field and dropdown after a commit.
func (m *Model) resetField() {
	m.field.SetValue("")
	m.clearSuggestions()
	m.resizeField()
}

// searchCmd queries the provider for autocomplete candidates.
func (m Model) searchCmd(seq int, query string) tea.Cmd {
	provider := m.provider
	limit := m.maxSuggestions
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
		defer cancel()
		items, err := provider.Search(ctx, query, limit)
		return suggestionsMsg{seq: seq, items: items, err: err}
	}
}

// resolveCmd runs the exact-match lookup for a committed login. A provider
// error maps to a miss: the token lands in the error state either way, and
// the user's remedy (remove and retype) is the same.
func (m Model) resolveCmd(login string) tea.Cmd {
	provider := m.provider
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
		defer cancel()
		id, err := provider.ExactMatch(ctx, login)
		if err != nil {
			id = nil
		}
		return resolutionMsg{res: author.ResolutionFor(login, id)}
	}
}

// setSuggestions installs filtered candidates and clamps the cursor.
func (m *Model) setSuggestions(items []lookup.Identity) {
	filtered := m.resolver.Suggestions(items)
	if len(filtered) > m.maxSuggestions {
		filtered = filtered[:m.maxSuggestions]
	}
	m.suggestions = filtered
	if m.sugCursor >= len(filtered) {
		m.sugCursor = 0
	}
}

// clearSuggestions hides the dropdown.
func (m *Model) clearSuggestions() {
	m.suggestions = nil
	m.sugCursor = 0
}

// moveSuggestionCursor moves the dropdown cursor, wrapping at both ends.
func (m *Model) moveSuggestionCursor(delta int) {
	n := len(m.suggestions)
	if n == 0 {
		return
	}
	m.sugCursor = (m.sugCursor + delta + n) % n
}

// anySearching reports whether any token still has a lookup in flight.
func (m Model) anySearching() bool {
	for _, a := range m.resolver.Authors() {
		if u, ok := a.(author.Unknown); ok && u.State == author.StateSearching {
			return true
		}
	}
	return false
}

// resizeField sets the field width to the larger of the value and the
// placeholder, clamped to the container width minus the margin.
func (m *Model) resizeField() {
	w := lipgloss.Width(m.field.Value())
	if pw := lipgloss.Width(m.field.Placeholder); pw > w {
		w = pw
	}
	w += 2 // cursor cell plus one of slack
	if limit := m.width - m.margin; limit > 0 && w > limit {
		w = limit
	}
	m.field.Width = w
}
