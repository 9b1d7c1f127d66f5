package author

import (
	"reflect"
	"testing"

	"github.com/mlowery/cotag/internal/lookup"
)

var identityAmy = lookup.Identity{Login: "amy", Name: "Amy", Email: "amy@x"}

func TestResolver_CommitText(t *testing.T) {
	r := NewResolver()
	var seen []List
	r.OnChange = func(l List) { seen = append(seen, l) }

	login, needLookup := r.CommitText("  amy ")
	if login != "amy" || !needLookup {
		t.Fatalf("CommitText = (%q, %v), want (amy, true)", login, needLookup)
	}

	if len(seen) != 1 {
		t.Fatalf("callbacks = %d, want 1", len(seen))
	}
	got := seen[0]
	if len(got) != 1 {
		t.Fatalf("list length = %d, want 1", len(got))
	}
	u, ok := got[0].(Unknown)
	if !ok || u.Username != "amy" || u.State != StateSearching {
		t.Errorf("entry = %+v, want pending amy", got[0])
	}
}

func TestResolver_CommitText_Blank(t *testing.T) {
	r := NewResolver()
	fired := false
	r.OnChange = func(List) { fired = true }

	if login, need := r.CommitText("   "); login != "" || need {
		t.Errorf("CommitText = (%q, %v), want no-op", login, need)
	}
	if fired {
		t.Error("blank commit should not fire the callback")
	}
}

func TestResolver_CommitText_InheritsResolvedIdentity(t *testing.T) {
	r := NewResolver()
	r.CommitIdentity(identityAmy)

	login, needLookup := r.CommitText("AMY")
	if needLookup {
		t.Errorf("login %q should inherit the resolved identity, not re-query", login)
	}

	list := r.Authors()
	if len(list) != 2 {
		t.Fatalf("list length = %d, want 2", len(list))
	}
	k, ok := list[1].(Known)
	if !ok {
		t.Fatalf("entry 1 = %+v, want resolved", list[1])
	}
	if k != list[0].(Known) {
		t.Errorf("inherited identity %+v differs from original %+v", k, list[0])
	}
}

func TestResolver_ResolutionScenario(t *testing.T) {
	r := NewResolver()

	login, needLookup := r.CommitText("amy")
	if !needLookup {
		t.Fatal("empty list cannot satisfy the lookup locally")
	}

	r.ApplyResolution(ResolutionFor(login, &identityAmy))

	list := r.Authors()
	if len(list) != 1 {
		t.Fatalf("list length = %d, want 1", len(list))
	}
	k, ok := list[0].(Known)
	if !ok || k.Username != "amy" || k.Name != "Amy" || k.Email != "amy@x" {
		t.Errorf("entry = %+v, want known Amy", list[0])
	}
}

func TestResolver_DoubleCommitBothError(t *testing.T) {
	r := NewResolver()
	r.CommitText("bob")
	r.CommitText("bob")

	r.ApplyResolution(ResolutionFor("bob", nil))

	list := r.Authors()
	if len(list) != 2 {
		t.Fatalf("list length = %d, want 2", len(list))
	}
	for i, a := range list {
		u, ok := a.(Unknown)
		if !ok || u.State != StateError {
			t.Errorf("entry %d = %+v, want error state", i, a)
		}
	}
}

func TestResolver_StaleResolutionIsNoOp(t *testing.T) {
	r := NewResolver()
	r.CommitText("amy")
	r.Remove(0)

	rev := r.Revision()
	fired := false
	r.OnChange = func(List) { fired = true }

	r.ApplyResolution(ResolutionFor("amy", &identityAmy))

	if fired || r.Revision() != rev {
		t.Error("resolution for a removed login should change nothing")
	}
	if len(r.Authors()) != 0 {
		t.Errorf("list = %+v, want empty", r.Authors())
	}
}

func TestResolver_RemoveFocusRules(t *testing.T) {
	setup := func() *Resolver {
		r := NewResolver()
		r.CommitIdentity(lookup.Identity{Login: "a", Email: "a@x"})
		r.CommitIdentity(lookup.Identity{Login: "b", Email: "b@x"})
		r.CommitIdentity(lookup.Identity{Login: "c", Email: "c@x"})
		return r
	}

	// Removing the last entry moves focus to the field.
	r := setup()
	r.Remove(2)
	if r.Focus() != FocusField {
		t.Errorf("focus = %d, want field", r.Focus())
	}

	// Removing an inner entry keeps focus on the slot.
	r = setup()
	r.Remove(0)
	if r.Focus() != Focus(0) {
		t.Errorf("focus = %d, want 0", r.Focus())
	}
	list := r.Authors()
	if len(list) != 2 || list[0].Login() != "b" || list[1].Login() != "c" {
		t.Errorf("list = %+v, want [b c]", list)
	}
}

func TestResolver_RemoveOutOfRange(t *testing.T) {
	r := NewResolver()
	r.CommitIdentity(identityAmy)
	rev := r.Revision()

	r.Remove(-1)
	r.Remove(5)

	if r.Revision() != rev || len(r.Authors()) != 1 {
		t.Error("out-of-range removal should be ignored")
	}
}

func TestResolver_RemoveLast(t *testing.T) {
	r := NewResolver()
	r.RemoveLast() // Empty list: nothing to do.

	r.CommitIdentity(identityAmy)
	r.RemoveLast()
	if len(r.Authors()) != 0 {
		t.Errorf("list = %+v, want empty", r.Authors())
	}
	if r.Focus() != FocusField {
		t.Errorf("focus = %d, want field", r.Focus())
	}
}

func TestResolver_FocusNavigation(t *testing.T) {
	r := NewResolver()
	r.CommitIdentity(lookup.Identity{Login: "a", Email: "a@x"})
	r.CommitIdentity(lookup.Identity{Login: "b", Email: "b@x"})

	// Left from the field lands on the last token.
	r.FocusLeft()
	if r.Focus() != Focus(1) {
		t.Fatalf("focus = %d, want 1", r.Focus())
	}

	r.FocusLeft()
	if r.Focus() != Focus(0) {
		t.Fatalf("focus = %d, want 0", r.Focus())
	}

	// Left at the first token stays put.
	r.FocusLeft()
	if r.Focus() != Focus(0) {
		t.Fatalf("focus = %d, want 0", r.Focus())
	}

	r.FocusRight()
	if r.Focus() != Focus(1) {
		t.Fatalf("focus = %d, want 1", r.Focus())
	}

	// Right past the last token returns to the field.
	r.FocusRight()
	if r.Focus() != FocusField {
		t.Fatalf("focus = %d, want field", r.Focus())
	}
}

func TestResolver_FocusLeftEmptyList(t *testing.T) {
	r := NewResolver()
	r.FocusLeft()
	if r.Focus() != FocusField {
		t.Errorf("focus = %d, want field", r.Focus())
	}
}

func TestResolver_RemoveFocused(t *testing.T) {
	r := NewResolver()
	r.CommitIdentity(lookup.Identity{Login: "a", Email: "a@x"})
	r.CommitIdentity(lookup.Identity{Login: "b", Email: "b@x"})

	r.FocusLeft() // Focus b.
	r.RemoveFocused()

	if len(r.Authors()) != 1 || r.Authors()[0].Login() != "a" {
		t.Errorf("list = %+v, want [a]", r.Authors())
	}
	if r.Focus() != FocusField {
		t.Errorf("focus = %d, want field", r.Focus())
	}
}

func TestResolver_Suggestions(t *testing.T) {
	r := NewResolver()
	r.CommitText("amy")

	candidates := []lookup.Identity{
		{Login: "Amy"},
		{Login: "bob"},
	}
	got := r.Suggestions(candidates)
	if len(got) != 1 || got[0].Login != "bob" {
		t.Errorf("suggestions = %+v, want [bob]", got)
	}
}

func TestResolver_SuggestionMemo(t *testing.T) {
	r := NewResolver()
	r.CommitText("amy")

	first := r.excludedLogins()
	second := r.excludedLogins()
	if reflect.ValueOf(first).Pointer() != reflect.ValueOf(second).Pointer() {
		t.Error("unchanged list should reuse the memoized set")
	}
	if r.memoRevision != r.Revision() {
		t.Error("memo should be keyed to the current revision")
	}

	r.CommitText("bob")
	rebuilt := r.excludedLogins()
	if _, ok := rebuilt["bob"]; !ok {
		t.Error("memo should rebuild after a mutation")
	}
}
