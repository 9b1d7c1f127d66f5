package input

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for the co-author input widget.
type KeyMap struct {
	// Commit finalizes the pending free text into a token.
	Commit key.Binding

	// Accept picks the highlighted suggestion, or finishes the session
	// when the field is empty.
	Accept key.Binding

	// Up and Down move the suggestion cursor.
	Up   key.Binding
	Down key.Binding

	// Left and Right move token focus. Left at the start of the field
	// jumps to the last token; Right past the last token returns to
	// the field.
	Left  key.Binding
	Right key.Binding

	// Remove deletes the focused token, or the last token when pressed
	// at the start of the field.
	Remove key.Binding

	// Dismiss hides the dropdown, or cancels the session when no
	// dropdown is open.
	Dismiss key.Binding

	// Quit cancels the session unconditionally.
	Quit key.Binding
}

// DefaultKeyMap is the built-in binding set.
var DefaultKeyMap = KeyMap{
	Commit: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "add"),
	),
	Accept: key.NewBinding(
		key.WithKeys("enter", "tab"),
		key.WithHelp("enter", "pick/confirm"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "ctrl+p"),
		key.WithHelp("↑", "previous suggestion"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "ctrl+n"),
		key.WithHelp("↓", "next suggestion"),
	),
	Left: key.NewBinding(
		key.WithKeys("left"),
		key.WithHelp("←", "previous token"),
	),
	Right: key.NewBinding(
		key.WithKeys("right"),
		key.WithHelp("→", "next token"),
	),
	Remove: key.NewBinding(
		key.WithKeys("backspace", "delete"),
		key.WithHelp("BS", "remove token"),
	),
	Dismiss: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "dismiss/cancel"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("C-c", "cancel"),
	),
}
