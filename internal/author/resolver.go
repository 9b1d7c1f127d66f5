package author

import (
	"strings"

	"github.com/mlowery/cotag/internal/lookup"
)

// Focus identifies which element holds keyboard focus: a token index, or
// FocusField for the free-text input.
type Focus int

// FocusField means the free-text field has focus rather than a token.
const FocusField Focus = -1

// Resolver maintains the co-author list and the focused token. All
// mutations go through whole-list transforms; after each one the OnChange
// callback (if set) receives the complete new list. Methods are meant to be
// called from a single event loop; lookups themselves happen elsewhere and
// come back in through ApplyResolution.
type Resolver struct {
	// OnChange, when non-nil, is invoked synchronously with the full
	// updated list after every mutation.
	OnChange func(List)

	list     List
	focus    Focus
	revision uint64

	// Login exclusion set for suggestion filtering, rebuilt lazily when
	// the revision moves past memoRevision.
	memoRevision uint64
	memoExcluded map[string]struct{}
}

// NewResolver returns an empty resolver with the free-text field focused.
func NewResolver() *Resolver {
	return &Resolver{focus: FocusField, memoRevision: ^uint64(0)}
}

// Authors returns the current list. Callers must not mutate it.
func (r *Resolver) Authors() List { return r.list }

// Focus returns the focused token index, or FocusField.
func (r *Resolver) Focus() Focus { return r.focus }

// Revision counts list mutations. It keys the suggestion memo and lets
// callers cheaply detect change.
func (r *Resolver) Revision() uint64 { return r.revision }

// Len returns the number of tokens.
func (r *Resolver) Len() int { return len(r.list) }

// mutate installs a new list, bumps the revision and fires OnChange.
func (r *Resolver) mutate(l List) {
	r.list = l
	r.revision++
	if r.OnChange != nil {
		r.OnChange(r.list)
	}
}

// CommitText appends a pending token for free text the user committed.
// If the list already holds a resolved identity with the same login, the
// new token inherits it immediately and no lookup is needed; otherwise the
// token is appended in the searching state and the caller must run a
// lookup for the returned login. Returns ("", false) for blank text.
func (r *Resolver) CommitText(text string) (login string, needLookup bool) {
	login = strings.TrimSpace(text)
	if login == "" {
		return "", false
	}
	r.mutate(append(r.list.clone(), Unknown{Username: login, State: StateSearching}))
	if r.AdoptExisting(login) {
		return login, false
	}
	return login, true
}

// CommitIdentity appends a resolved token for a picked suggestion.
func (r *Resolver) CommitIdentity(id lookup.Identity) {
	r.mutate(append(r.list.clone(), FromIdentity(id)))
}

// AdoptExisting copies an already-resolved identity in the list onto every
// pending token with the same login, case-insensitively. Reports whether
// such an identity existed. This is the de-duplication path: a login the
// list has already resolved is never queried again.
func (r *Resolver) AdoptExisting(login string) bool {
	known, ok := r.list.KnownFor(login)
	if !ok {
		return false
	}
	r.ApplyResolution(Resolution{Login: login, Found: true, Author: known})
	return true
}

// ApplyResolution applies a completed lookup to the current list. Safe to
// call regardless of intervening edits: when no pending token with the
// login remains, nothing changes and no callback fires.
func (r *Resolver) ApplyResolution(res Resolution) {
	next := Apply(r.list, res)
	for i := range next {
		if next[i] != r.list[i] {
			r.mutate(next)
			return
		}
	}
}

// Remove deletes the token at index i. Out-of-range indexes are ignored.
// Focus moves to the free-text field when the last token was removed, and
// otherwise stays at i, now occupied by the next entry.
func (r *Resolver) Remove(i int) {
	if i < 0 || i >= len(r.list) {
		return
	}
	next := make(List, 0, len(r.list)-1)
	next = append(next, r.list[:i]...)
	next = append(next, r.list[i+1:]...)
	r.mutate(next)

	if i >= len(r.list) {
		r.focus = FocusField
	} else {
		r.focus = Focus(i)
	}
}

// RemoveFocused deletes the focused token, if any.
func (r *Resolver) RemoveFocused() {
	if r.focus != FocusField {
		r.Remove(int(r.focus))
	}
}

// RemoveLast deletes the trailing token. This backs the backspace-at-start
// gesture in the free-text field.
func (r *Resolver) RemoveLast() {
	r.Remove(len(r.list) - 1)
}

// FocusLeft moves focus one token left. From the free-text field it lands
// on the last token; at the first token it stays put.
func (r *Resolver) FocusLeft() {
	switch {
	case len(r.list) == 0:
	case r.focus == FocusField:
		r.focus = Focus(len(r.list) - 1)
	case r.focus > 0:
		r.focus--
	}
}

// FocusRight moves focus one token right; past the last token it returns
// to the free-text field.
func (r *Resolver) FocusRight() {
	if r.focus == FocusField {
		return
	}
	if int(r.focus) >= len(r.list)-1 {
		r.focus = FocusField
		return
	}
	r.focus++
}

// FocusFieldNow returns keyboard focus to the free-text field.
func (r *Resolver) FocusFieldNow() { r.focus = FocusField }

// Suggestions filters lookup candidates down to logins not already in the
// list. The exclusion set is memoized against the list revision, so
// repeated keystrokes against an unchanged list skip the rebuild.
func (r *Resolver) Suggestions(candidates []lookup.Identity) []lookup.Identity {
	excluded := r.excludedLogins()
	out := make([]lookup.Identity, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := excluded[strings.ToLower(c.Login)]; ok {
			continue
		}
		out = append(out, c)
	}
	return out
}

// excludedLogins returns the lowercased logins currently in the list,
// rebuilding the memo only when the revision has moved.
func (r *Resolver) excludedLogins() map[string]struct{} {
	if r.memoRevision == r.revision {
		return r.memoExcluded
	}
	set := make(map[string]struct{}, len(r.list))
	for _, a := range r.list {
		set[strings.ToLower(a.Login())] = struct{}{}
	}
	r.memoRevision = r.revision
	r.memoExcluded = set
	return set
}

// clone returns a copy of the list so appends never alias the published
// slice.
func (l List) clone() List {
	out := make(List, len(l))
	copy(out, l)
	return out
}
