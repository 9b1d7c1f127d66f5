package input

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mlowery/cotag/internal/author"
	"github.com/mlowery/cotag/internal/lookup"
)

// stubProvider serves canned results for widget tests.
type stubProvider struct {
	results []lookup.Identity
	exact   map[string]*lookup.Identity
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Search(ctx context.Context, query string, limit int) ([]lookup.Identity, error) {
	return p.results, nil
}

func (p *stubProvider) ExactMatch(ctx context.Context, login string) (*lookup.Identity, error) {
	return p.exact[login], nil
}

func press(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return model, cmd
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

// collectMsgs runs a command tree and flattens the messages it produces.
func collectMsgs(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collectMsgs(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestModel_TypingBumpsSearchSeq(t *testing.T) {
	m := New(&stubProvider{})

	m = typeText(t, m, "am")
	if m.searchSeq != 2 {
		t.Errorf("searchSeq = %d, want 2 (one search per edit)", m.searchSeq)
	}
}

func TestModel_SuggestionsInstalled(t *testing.T) {
	m := New(&stubProvider{})
	m = typeText(t, m, "am")

	m, _ = press(t, m, suggestionsMsg{seq: m.searchSeq, items: []lookup.Identity{
		{Login: "amy"},
		{Login: "amyb"},
	}})

	if len(m.suggestions) != 2 {
		t.Fatalf("suggestions = %+v, want 2", m.suggestions)
	}
}

func TestModel_StaleSuggestionsIgnored(t *testing.T) {
	m := New(&stubProvider{})
	m = typeText(t, m, "am")

	m, _ = press(t, m, suggestionsMsg{seq: m.searchSeq - 1, items: []lookup.Identity{
		{Login: "amy"},
	}})

	if m.suggestions != nil {
		t.Errorf("stale results installed: %+v", m.suggestions)
	}
}

func TestModel_SuggestionsExcludeTaggedAuthors(t *testing.T) {
	m := New(&stubProvider{})
	m.resolver.CommitIdentity(lookup.Identity{Login: "amy", Email: "amy@x"})
	m = typeText(t, m, "am")

	m, _ = press(t, m, suggestionsMsg{seq: m.searchSeq, items: []lookup.Identity{
		{Login: "Amy"},
		{Login: "amyb"},
	}})

	if len(m.suggestions) != 1 || m.suggestions[0].Login != "amyb" {
		t.Errorf("suggestions = %+v, want [amyb]", m.suggestions)
	}
}

func TestModel_SpaceCommitsPendingText(t *testing.T) {
	m := New(&stubProvider{})
	m = typeText(t, m, "amy")

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})

	list := m.Authors()
	if len(list) != 1 {
		t.Fatalf("list = %+v, want one entry", list)
	}
	u, ok := list[0].(author.Unknown)
	if !ok || u.Username != "amy" || u.State != author.StateSearching {
		t.Errorf("entry = %+v, want pending amy", list[0])
	}
	if m.field.Value() != "" {
		t.Errorf("field = %q, want cleared", m.field.Value())
	}
	if cmd == nil {
		t.Error("commit should start the lookup")
	}
}

func TestModel_SpaceOnBlankFieldSwallowed(t *testing.T) {
	m := New(&stubProvider{})

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})

	if len(m.Authors()) != 0 || m.field.Value() != "" {
		t.Errorf("blank space changed state: list=%+v field=%q", m.Authors(), m.field.Value())
	}
}

func TestModel_ResolutionResolvesToken(t *testing.T) {
	m := New(&stubProvider{})
	m = typeText(t, m, "amy")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})

	id := lookup.Identity{Login: "amy", Name: "Amy", Email: "amy@x"}
	m, _ = press(t, m, resolutionMsg{res: author.ResolutionFor("amy", &id)})

	k, ok := m.Authors()[0].(author.Known)
	if !ok || k.Email != "amy@x" {
		t.Errorf("entry = %+v, want known amy", m.Authors()[0])
	}
}

func TestModel_ResolutionMissMarksError(t *testing.T) {
	m := New(&stubProvider{})
	m = typeText(t, m, "ghost")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})

	m, _ = press(t, m, resolutionMsg{res: author.ResolutionFor("ghost", nil)})

	u, ok := m.Authors()[0].(author.Unknown)
	if !ok || u.State != author.StateError {
		t.Errorf("entry = %+v, want error state", m.Authors()[0])
	}
}

func TestModel_EnterPicksSuggestion(t *testing.T) {
	m := New(&stubProvider{})
	m = typeText(t, m, "am")
	m, _ = press(t, m, suggestionsMsg{seq: m.searchSeq, items: []lookup.Identity{
		{Login: "amy", Name: "Amy", Email: "amy@x"},
		{Login: "amyb"},
	}})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	list := m.Authors()
	if len(list) != 1 {
		t.Fatalf("list = %+v, want one entry", list)
	}
	if list[0].Login() != "amyb" {
		t.Errorf("picked %q, want amyb (cursor moved down)", list[0].Login())
	}
	if m.field.Value() != "" || m.suggestions != nil {
		t.Error("pick should reset the field and dropdown")
	}
}

func TestModel_LoginOnlySuggestionHydratesProfile(t *testing.T) {
	m := New(&stubProvider{exact: map[string]*lookup.Identity{
		"amy": {Login: "amy", Name: "Amy Adams", Email: "amy@example.com"},
	}})
	m = typeText(t, m, "am")
	m, _ = press(t, m, suggestionsMsg{seq: m.searchSeq, items: []lookup.Identity{
		{Login: "amy"},
	}})

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	list := m.Authors()
	if len(list) != 1 {
		t.Fatalf("list = %+v, want one entry", list)
	}
	u, ok := list[0].(author.Unknown)
	if !ok || u.State != author.StateSearching {
		t.Fatalf("entry = %+v, want pending until the profile lookup returns", list[0])
	}

	for _, msg := range collectMsgs(cmd) {
		if _, ok := msg.(resolutionMsg); ok {
			m, _ = press(t, m, msg)
		}
	}

	k, ok := m.Authors()[0].(author.Known)
	if !ok {
		t.Fatalf("entry = %+v, want resolved", m.Authors()[0])
	}
	if k.Name != "Amy Adams" {
		t.Errorf("name = %q, want the profile display name", k.Name)
	}
	if k.Email != "amy@example.com" {
		t.Errorf("email = %q, want the public email, not a placeholder", k.Email)
	}
}

func TestModel_HydratedSuggestionCommitsDirectly(t *testing.T) {
	m := New(&stubProvider{})
	m = typeText(t, m, "am")
	m, _ = press(t, m, suggestionsMsg{seq: m.searchSeq, items: []lookup.Identity{
		{Login: "amy", Name: "Amy", Email: "amy@x"},
	}})

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	k, ok := m.Authors()[0].(author.Known)
	if !ok || k.Name != "Amy" || k.Email != "amy@x" {
		t.Errorf("entry = %+v, want known Amy without a lookup", m.Authors()[0])
	}
}

func TestModel_EnterOnEmptyFieldFinishes(t *testing.T) {
	m := New(&stubProvider{})

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if !m.done || !isQuit(cmd) {
		t.Error("enter on an empty field should finish the session")
	}
	if m.Aborted() {
		t.Error("finishing is not aborting")
	}
}

func TestModel_BackspaceAtStartRemovesLastToken(t *testing.T) {
	m := New(&stubProvider{})
	m.resolver.CommitIdentity(lookup.Identity{Login: "amy", Email: "amy@x"})

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyBackspace})

	if len(m.Authors()) != 0 {
		t.Errorf("list = %+v, want empty", m.Authors())
	}
}

func TestModel_BackspaceMidTextEditsField(t *testing.T) {
	m := New(&stubProvider{})
	m.resolver.CommitIdentity(lookup.Identity{Login: "amy", Email: "amy@x"})
	m = typeText(t, m, "b")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyBackspace})

	if len(m.Authors()) != 1 {
		t.Errorf("token removed while editing text: %+v", m.Authors())
	}
	if m.field.Value() != "" {
		t.Errorf("field = %q, want empty after delete", m.field.Value())
	}
}

func TestModel_LeftAtStartFocusesLastToken(t *testing.T) {
	m := New(&stubProvider{})
	m.resolver.CommitIdentity(lookup.Identity{Login: "amy", Email: "amy@x"})

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})

	if m.resolver.Focus() != author.Focus(0) {
		t.Errorf("focus = %d, want token 0", m.resolver.Focus())
	}
	if m.field.Focused() {
		t.Error("field should be blurred while a token holds focus")
	}
}

func TestModel_TokenFocusRemoveAndReturn(t *testing.T) {
	m := New(&stubProvider{})
	m.resolver.CommitIdentity(lookup.Identity{Login: "amy", Email: "amy@x"})
	m.resolver.CommitIdentity(lookup.Identity{Login: "bob", Email: "bob@x"})

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyBackspace})

	if got := m.Authors(); len(got) != 1 || got[0].Login() != "amy" {
		t.Errorf("list = %+v, want [amy]", got)
	}
	if m.resolver.Focus() != author.FocusField {
		t.Errorf("focus = %d, want field after removing the last token", m.resolver.Focus())
	}
	if !m.field.Focused() {
		t.Error("field should regain focus")
	}
}

func TestModel_TypingWhileTokenFocusedReturnsToField(t *testing.T) {
	m := New(&stubProvider{})
	m.resolver.CommitIdentity(lookup.Identity{Login: "amy", Email: "amy@x"})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'b'}})

	if m.resolver.Focus() != author.FocusField {
		t.Errorf("focus = %d, want field", m.resolver.Focus())
	}
	if m.field.Value() != "b" {
		t.Errorf("field = %q, want the typed rune", m.field.Value())
	}
}

func TestModel_EscClearsDropdownThenAborts(t *testing.T) {
	m := New(&stubProvider{})
	m = typeText(t, m, "am")
	m, _ = press(t, m, suggestionsMsg{seq: m.searchSeq, items: []lookup.Identity{{Login: "amy"}}})

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.suggestions != nil || isQuit(cmd) {
		t.Fatal("first esc should only dismiss the dropdown")
	}

	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if !m.Aborted() || !isQuit(cmd) {
		t.Error("second esc should cancel the session")
	}
}

func TestModel_CtrlCAborts(t *testing.T) {
	m := New(&stubProvider{})

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})

	if !m.Aborted() || !isQuit(cmd) {
		t.Error("ctrl+c should cancel the session")
	}
}

func TestModel_SuggestionsCapped(t *testing.T) {
	m := New(&stubProvider{}, WithMaxSuggestions(2))
	m = typeText(t, m, "a")

	m, _ = press(t, m, suggestionsMsg{seq: m.searchSeq, items: []lookup.Identity{
		{Login: "a1"}, {Login: "a2"}, {Login: "a3"},
	}})

	if len(m.suggestions) != 2 {
		t.Errorf("suggestions = %+v, want 2", m.suggestions)
	}
}

func TestModel_ViewShowsTokens(t *testing.T) {
	m := New(&stubProvider{})
	m.resolver.CommitIdentity(lookup.Identity{Login: "amy", Email: "amy@x"})

	view := m.View()
	if view == "" {
		t.Fatal("empty view")
	}
	if !strings.Contains(view, "@amy") {
		t.Errorf("view missing token:\n%s", view)
	}
}
